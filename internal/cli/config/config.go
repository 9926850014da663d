// Package config loads maintdoc CLI configuration from defaults, a config file,
// MAINTDOC_* environment variables and command-line flags, in increasing priority.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/template"
)

const (
	// EnvPrefix is prepended to upper-cased config keys when reading the environment.
	EnvPrefix = "MAINTDOC"
	// ConfigName is the config file base name searched in the standard locations.
	ConfigName = "maintdoc"
)

// flagKeys maps viper keys to the flag names bound to them.
var flagKeys = map[string]string{
	"input":            "input",
	"output":           "output",
	"outputFormat":     "output-format",
	"ignore":           "ignore",
	"concurrency":      "concurrency",
	"onError":          "onError",
	"templateFile":     "template",
	"verbose":          "verbose",
	"defaultEncoding":  "default-encoding",
	"languageMappings": "language-mapping",
}

// LoadAndValidate merges all configuration sources into maintdoc.Options and returns
// the logger every component should share. cfgFile, when set, replaces the search of
// the standard locations. Injected dependencies (Registry, EventHooks) are left for
// the caller to fill in.
func LoadAndValidate(cfgFile string, verboseFlag bool, flags *pflag.FlagSet) (maintdoc.Options, *slog.Logger, error) {
	var opts maintdoc.Options
	tempLogger := newLogger(verboseFlag)

	v := viper.New()
	setDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(ConfigName)
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", ConfigName))
			v.AddConfigPath(filepath.Join(home, "."+ConfigName))
		} else {
			tempLogger.Warn("Cannot determine home directory for config search", slog.Any("error", err))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			tempLogger.Error("Failed to read configuration file", slog.String("path", cfgFile), slog.Any("error", err))
			return opts, tempLogger, fmt.Errorf("%w: reading config file: %w", maintdoc.ErrConfigValidation, err)
		}
		tempLogger.Debug("No configuration file found, using defaults, environment and flags")
	} else {
		tempLogger.Debug("Using configuration file", slog.String("path", v.ConfigFileUsed()))
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		for key, name := range flagKeys {
			f := flags.Lookup(name)
			if f == nil {
				continue
			}
			if err := v.BindPFlag(key, f); err != nil {
				return opts, tempLogger, fmt.Errorf("binding flag %q: %w", name, err)
			}
		}
	}

	if err := v.Unmarshal(&opts); err != nil {
		tempLogger.Error("Failed to decode configuration", slog.Any("error", err))
		return opts, tempLogger, fmt.Errorf("%w: decoding configuration: %w", maintdoc.ErrConfigValidation, err)
	}
	opts.ConfigFilePath = v.ConfigFileUsed()

	// The persistent --verbose flag is read by cobra into a variable as well.
	if verboseFlag {
		opts.Verbose = true
	}

	logger := newLogger(opts.Verbose)
	opts.Logger = logger.Handler()

	if err := validateAndDeriveOptions(&opts); err != nil {
		logger.Error("Invalid configuration", slog.Any("error", err))
		return opts, logger, err
	}

	logger.Debug("Configuration loaded",
		slog.String("input", opts.InputPath),
		slog.String("output", opts.OutputPath),
		slog.String("outputFormat", string(opts.OutputFormat)),
		slog.Int("concurrency", opts.Concurrency),
		slog.String("onError", string(opts.OnErrorMode)),
		slog.Any("ignore", opts.IgnorePatterns),
	)
	return opts, logger, nil
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("input", "")
	v.SetDefault("output", "")
	v.SetDefault("outputFormat", string(maintdoc.DefaultOutputFormat))
	v.SetDefault("ignore", slices.Clone(maintdoc.DefaultIgnorePatterns))
	v.SetDefault("concurrency", maintdoc.DefaultConcurrency)
	v.SetDefault("onError", string(maintdoc.DefaultOnErrorMode))
	v.SetDefault("templateFile", "")
	v.SetDefault("verbose", maintdoc.DefaultVerbose)
	v.SetDefault("defaultEncoding", "")
	v.SetDefault("languageMappings", map[string]string{})
}

func validateAndDeriveOptions(opts *maintdoc.Options) error {
	var errs []error

	if opts.InputPath == "" {
		errs = append(errs, errors.New("input path is required (--input or 'input' key)"))
	} else {
		abs, err := filepath.Abs(opts.InputPath)
		if err != nil {
			errs = append(errs, fmt.Errorf("resolving input path %q: %w", opts.InputPath, err))
		} else if _, err := os.Stat(abs); err != nil {
			errs = append(errs, fmt.Errorf("input path %q is not accessible: %w", opts.InputPath, err))
		} else {
			opts.InputPath = abs
		}
	}

	if opts.OutputPath != "" {
		abs, err := filepath.Abs(opts.OutputPath)
		if err != nil {
			errs = append(errs, fmt.Errorf("resolving output path %q: %w", opts.OutputPath, err))
		} else {
			opts.OutputPath = abs
		}
	}

	if !isValidEnumValue(opts.OutputFormat, []maintdoc.OutputFormat{
		maintdoc.OutputFormatText, maintdoc.OutputFormatJSON, maintdoc.OutputFormatYAML, maintdoc.OutputFormatMarkdown,
	}) {
		errs = append(errs, fmt.Errorf("invalid outputFormat %q (text, json, yaml or markdown)", opts.OutputFormat))
	}
	if !isValidEnumValue(opts.OnErrorMode, []maintdoc.OnErrorMode{maintdoc.OnErrorContinue, maintdoc.OnErrorStop}) {
		errs = append(errs, fmt.Errorf("invalid onError %q (continue or stop)", opts.OnErrorMode))
	}

	if opts.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency must not be negative, got %d", opts.Concurrency))
	} else if opts.Concurrency == 0 {
		opts.Concurrency = runtime.NumCPU()
	}

	if opts.TemplatePath != "" {
		abs, err := filepath.Abs(opts.TemplatePath)
		if err != nil {
			errs = append(errs, fmt.Errorf("resolving template path %q: %w", opts.TemplatePath, err))
		} else if _, err := template.LoadTemplateFile(abs); err != nil {
			errs = append(errs, err)
		} else {
			opts.TemplatePath = abs
		}
	}

	cleaned := opts.IgnorePatterns[:0]
	for _, p := range opts.IgnorePatterns {
		if p = strings.TrimSpace(p); p != "" {
			cleaned = append(cleaned, p)
		}
	}
	opts.IgnorePatterns = cleaned

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", maintdoc.ErrConfigValidation, errors.Join(errs...))
	}
	return nil
}

func isValidEnumValue[T ~string](value T, valid []T) bool {
	return slices.Contains(valid, value)
}
