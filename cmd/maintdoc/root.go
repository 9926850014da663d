package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/catdotbashrc/docs-generator-sub000/internal/cli"
	"github.com/catdotbashrc/docs-generator-sub000/internal/cli/config"
	"github.com/catdotbashrc/docs-generator-sub000/internal/cli/hooks"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc"
)

var (
	// These are set during build time using -ldflags
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// newRootCmd builds the maintdoc command. Each call returns an independent command with its own flag state.
func newRootCmd() *cobra.Command {
	var (
		cfgFile string
		verbose bool
	)

	cmd := &cobra.Command{
		Use:   "maintdoc -i <path>",
		Short: "Extracts maintenance runbooks from automation scripts and business code.",
		Long: `maintdoc scans a source file or directory and extracts the knowledge an operator
needs to keep the code running: required cloud permissions, failure patterns with
recovery steps, state handling, dependencies, connectivity prerequisites and, for
Java business code, the business rules themselves.

Results are printed as a summary, a JSON or YAML report, or Markdown runbooks.`,
		Version:      fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			opts, logger, err := config.LoadAndValidate(cfgFile, verbose, cmd.Flags())
			if err != nil {
				return err
			}

			var progress hooks.ProgressBar
			if !opts.Verbose && term.IsTerminal(int(os.Stderr.Fd())) {
				progress = newProgressBar()
			}
			opts.EventHooks = hooks.NewCLIHooks(logger, opts.Verbose, progress)

			return cli.Run(ctx, opts, logger, cmd.OutOrStdout())
		},
	}
	cmd.SetVersionTemplate(`{{.Name}} version {{.Version}}` + "\n")

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Configuration file path (default is maintdoc.yaml in ., $HOME/.config/maintdoc/ or $HOME/.maintdoc/)")
	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose (debug) logging output")
	cmd.PersistentFlags().StringP("input", "i", "", "Source file or directory to analyze")
	cmd.PersistentFlags().StringP("output", "o", "", "Output file (text, json, yaml) or directory (markdown); stdout when empty")

	cmd.Flags().String("output-format", string(maintdoc.DefaultOutputFormat), `Output format ("text", "json", "yaml" or "markdown")`)
	cmd.Flags().String("template", "", "Path to a custom Go template for Markdown runbooks")
	cmd.Flags().StringArray("ignore", []string{}, "Gitignore-style pattern to skip (repeatable; replaces the default patterns)")
	cmd.Flags().String("onError", string(maintdoc.DefaultOnErrorMode), `Behavior on per-file errors ("continue" or "stop")`)
	cmd.Flags().Int("concurrency", maintdoc.DefaultConcurrency, "Number of parallel workers (0 for auto-detect CPU cores)")
	cmd.Flags().String("default-encoding", "", "Encoding assumed when a file's encoding cannot be detected (default utf-8)")
	cmd.Flags().StringToString("language-mapping", map[string]string{}, "Force a language for an extension, e.g. .j2=python (repeatable)")

	return cmd
}

// newProgressBar returns a spinner on stderr; the total is unknown while the walker is still discovering files.
func newProgressBar() *progressbar.ProgressBar {
	return progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription("Extracting"),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionClearOnFinish(),
	)
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	ctx := context.Background()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}
