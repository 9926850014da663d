package maintdoc

import (
	"context"
	"fmt"
	"log/slog"
)

// GenerateDocs is the main entry point for batch extraction: it validates opts, walks
// opts.InputPath and returns the Report of every file it looked at.
//
// A non-nil error means the run was aborted (invalid options, walk failure, a fatal
// per-file error under OnErrorStop, or cancellation of ctx). The Report returned with
// such an error still holds the results gathered so far.
func GenerateDocs(ctx context.Context, opts Options) (Report, error) {
	if opts.Logger == nil {
		return Report{}, fmt.Errorf("%w: Logger implementation cannot be nil", ErrConfigValidation)
	}
	logger := slog.New(opts.Logger).With(slog.String("component", "maintdoc"))

	if opts.Concurrency < 0 {
		err := fmt.Errorf("%w: concurrency cannot be negative", ErrConfigValidation)
		logger.Error(err.Error(), slog.Int("concurrency", opts.Concurrency))
		return Report{}, err
	}

	engine, err := NewEngine(ctx, opts)
	if err != nil {
		logger.Error("Engine initialization failed", slog.Any("error", err))
		return Report{}, err
	}

	logger.Info("Starting maintenance document extraction", slog.String("input", opts.InputPath))
	report, err := engine.Run()
	report.Summary.ConfigFilePath = opts.ConfigFilePath
	return report, err
}
