package maintdoc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/encoding"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/language"
)

// Engine extracts maintenance documents from every eligible file under an input path.
// Files are read, language-detected and extracted concurrently; results are collected
// into a single Report.
type Engine struct {
	opts          *Options
	logger        *slog.Logger
	walkerFactory WalkerFactory
	aggregator    *reportAggregator
	ctx           context.Context
	cancelFunc    context.CancelFunc
	concurrency   int
	totalScanned  atomic.Int64
	fatalOccurred atomic.Bool
}

// NewEngine validates opts and resolves default dependencies.
// Logger and Registry are required; InputPath must exist.
func NewEngine(ctx context.Context, opts Options) (*Engine, error) {
	if opts.Logger == nil {
		return nil, fmt.Errorf("%w: Logger implementation (slog.Handler) cannot be nil", ErrConfigValidation)
	}
	if opts.Registry == nil {
		return nil, fmt.Errorf("%w: extractor Registry cannot be nil", ErrConfigValidation)
	}
	logger := slog.New(opts.Logger).With(slog.String("component", "engine"))

	if opts.EventHooks == nil {
		opts.EventHooks = &NoOpHooks{}
	}
	if opts.LanguageDetector == nil {
		opts.LanguageDetector = language.NewGoEnryDetector(opts.LanguageMappingsOverride)
		logger.Debug("LanguageDetector not provided, using default GoEnryDetector")
	}
	if opts.Reader == nil {
		decoder := opts.Decoder
		if decoder == nil {
			decoder = encoding.NewCharsetDecoder(opts.DefaultEncoding)
		}
		opts.Reader = NewOSReader(decoder)
		logger.Debug("SourceReader not provided, using filesystem reader")
	}
	switch opts.OnErrorMode {
	case "":
		opts.OnErrorMode = DefaultOnErrorMode
	case OnErrorContinue, OnErrorStop:
	default:
		return nil, fmt.Errorf("%w: unknown onError mode %q", ErrConfigValidation, opts.OnErrorMode)
	}

	if opts.InputPath == "" {
		return nil, fmt.Errorf("%w: input path is required", ErrConfigValidation)
	}
	absInput, err := filepath.Abs(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("%w: cannot resolve input path '%s': %w", ErrConfigValidation, opts.InputPath, err)
	}
	if _, err := os.Stat(absInput); err != nil {
		return nil, fmt.Errorf("%w: cannot access input path '%s': %w", ErrConfigValidation, opts.InputPath, err)
	}
	opts.InputPath = absInput

	concurrency := opts.Concurrency
	if concurrency <= 0 {
		concurrency = runtime.NumCPU()
		opts.Concurrency = concurrency
		logger.Debug("Concurrency auto-detected", slog.Int("count", concurrency))
	}

	walkerFactory := opts.WalkerFactory
	if walkerFactory == nil {
		walkerFactory = NewWalker
	}

	engineCtx, cancelFunc := context.WithCancel(ctx)
	return &Engine{
		opts:          &opts,
		logger:        logger,
		walkerFactory: walkerFactory,
		aggregator:    newReportAggregator(),
		ctx:           engineCtx,
		cancelFunc:    cancelFunc,
		concurrency:   concurrency,
	}, nil
}

// Run walks the input path, extracts every eligible file and returns the aggregated Report.
// The returned error is non-nil when the run was cancelled, the walk failed, or a file
// failed while OnErrorMode is "stop"; the Report is populated in every case.
func (e *Engine) Run() (report Report, finalErr error) {
	startTime := time.Now()
	e.logger.Info("Starting maintenance documentation run",
		slog.Int("concurrency", e.concurrency),
		slog.Any("languages", e.opts.Registry.Languages()))

	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Panic recovered during engine run", slog.Any("panicValue", r))
			e.fatalOccurred.Store(true)
			if finalErr == nil {
				finalErr = fmt.Errorf("panic during execution: %v", r)
			}
			report = e.aggregator.getReport(e.opts, startTime, e.totalScanned.Load(), true)
		}
		e.cancelFunc()

		e.logger.Info("Maintenance documentation run finished",
			slog.Duration("duration", time.Since(startTime)),
			slog.Int("processed", report.Summary.ProcessedCount),
			slog.Int("skipped", report.Summary.SkippedCount),
			slog.Int("errors", report.Summary.ErrorCount),
			slog.Float64("averageCoverage", report.Summary.AverageCoverage),
			slog.Bool("fatalErrorOccurred", report.Summary.FatalErrorOccurred),
		)
		if hookErr := e.opts.EventHooks.OnRunComplete(report); hookErr != nil {
			e.logger.Warn("OnRunComplete hook returned an error", slog.String("error", hookErr.Error()))
		}
	}()

	workerChan := make(chan string, e.concurrency)
	resultsChan := make(chan any, e.concurrency)

	walker, walkInitErr := e.walkerFactory(e.opts, workerChan, e.logger.Handler())
	if walkInitErr != nil {
		e.logger.Error("Failed to initialize directory walker", slog.String("error", walkInitErr.Error()))
		e.fatalOccurred.Store(true)
		return e.aggregator.getReport(e.opts, startTime, 0, true), fmt.Errorf("walker initialization failed: %w", walkInitErr)
	}

	var wg sync.WaitGroup
	e.startWorkers(&wg, workerChan, resultsChan)

	aggregatorDone := make(chan struct{})
	go e.aggregateResults(resultsChan, aggregatorDone)

	walkErr := walker.StartWalk(e.ctx)
	if walkErr != nil && !errors.Is(walkErr, context.Canceled) && !errors.Is(walkErr, context.DeadlineExceeded) {
		e.logger.Error("Directory walk failed critically", slog.String("error", walkErr.Error()))
		e.fatalOccurred.Store(true)
		e.cancelFunc()
	} else {
		walkErr = nil
	}

	wg.Wait()
	close(resultsChan)
	<-aggregatorDone

	switch {
	case walkErr != nil:
		finalErr = fmt.Errorf("directory walk failed: %w", walkErr)
	case e.fatalOccurred.Load():
		if firstFatal := e.aggregator.getFirstFatalError(); firstFatal != nil {
			finalErr = fmt.Errorf("processing stopped due to fatal error: %w", firstFatal)
		} else {
			finalErr = errors.New("processing stopped due to fatal error")
		}
	case e.ctx.Err() != nil:
		e.logger.Info("Processing run cancelled", slog.String("reason", e.ctx.Err().Error()))
		e.fatalOccurred.Store(true)
		finalErr = e.ctx.Err()
	}
	return e.aggregator.getReport(e.opts, startTime, e.totalScanned.Load(), e.fatalOccurred.Load()), finalErr
}

func (e *Engine) startWorkers(wg *sync.WaitGroup, workerChan <-chan string, resultsChan chan<- any) {
	e.logger.Debug("Starting worker pool", slog.Int("count", e.concurrency))
	for i := 0; i < e.concurrency; i++ {
		wg.Add(1)
		go e.processFilesWorker(wg, i, workerChan, resultsChan)
	}
}

// worker holds the per-goroutine pipelines, created lazily per language.
type worker struct {
	engine    *Engine
	logger    *slog.Logger
	pipelines map[string]*Pipeline
}

func (e *Engine) processFilesWorker(wg *sync.WaitGroup, workerID int, workerChan <-chan string, resultsChan chan<- any) {
	defer wg.Done()
	w := &worker{
		engine:    e,
		logger:    e.logger.With(slog.Int("workerID", workerID)),
		pipelines: make(map[string]*Pipeline),
	}
	w.logger.Debug("Worker started")
	for {
		select {
		case filePath, ok := <-workerChan:
			if !ok {
				w.logger.Debug("Worker shutting down (channel closed)")
				return
			}
			result := w.process(filePath)
			if ei, isErr := result.(ErrorInfo); isErr && ei.IsFatal && e.fatalOccurred.CompareAndSwap(false, true) {
				w.logger.Info("Worker detected fatal error condition, signalling stop", slog.String("path", ei.Path))
				e.cancelFunc()
			}
			resultsChan <- result
		case <-e.ctx.Done():
			w.logger.Debug("Worker shutting down (context cancelled)")
			return
		}
	}
}

// process extracts one file and returns a FileResult, SkippedInfo or ErrorInfo.
func (w *worker) process(filePath string) (result any) {
	e := w.engine
	relPath := e.relativePath(filePath)
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("Panic recovered while processing file", slog.String("path", relPath), slog.Any("panicValue", r))
			result = w.failure(relPath, fmt.Sprintf("panic: %v", r), start)
		}
	}()

	w.hook(relPath, StatusProcessing, "", 0)

	src, err := e.opts.Reader.ReadSource(filePath)
	if err != nil {
		if errors.Is(err, ErrBinaryFile) {
			return w.skip(relPath, SkipReasonBinary, err.Error(), start)
		}
		return w.failure(relPath, err.Error(), start)
	}

	lang, confidence, err := e.opts.LanguageDetector.Detect([]byte(src.Content), relPath)
	if err != nil {
		w.logger.Warn("Language detection failed", slog.String("path", relPath), slog.String("error", err.Error()))
	}
	pipeline, err := w.pipelineFor(lang)
	if err != nil {
		if errors.Is(err, ErrUnsupportedLanguage) {
			return w.skip(relPath, SkipReasonUnsupported, fmt.Sprintf("language %q", lang), start)
		}
		return w.failure(relPath, err.Error(), start)
	}

	src.Path = relPath
	doc, err := pipeline.ExtractSource(e.ctx, src)
	if err != nil {
		return w.failure(relPath, err.Error(), start)
	}
	duration := time.Since(start)
	fileResult := FileResult{
		Path:               relPath,
		Language:           lang,
		LanguageConfidence: confidence,
		Coverage:           doc.Coverage(),
		DurationMs:         duration.Milliseconds(),
		Document:           doc,
	}
	w.hook(relPath, StatusSuccess, fmt.Sprintf("coverage %.0f%%", fileResult.Coverage*100), duration)
	return fileResult
}

func (w *worker) pipelineFor(lang string) (*Pipeline, error) {
	if p, ok := w.pipelines[lang]; ok {
		return p, nil
	}
	e := w.engine
	extractor, err := e.opts.Registry.New(lang, e.opts.Logger)
	if err != nil {
		return nil, err
	}
	p := NewPipeline(extractor, e.opts.Reader, e.opts.Logger)
	w.pipelines[lang] = p
	return p, nil
}

func (w *worker) skip(relPath, reason, details string, start time.Time) SkippedInfo {
	w.logger.Debug("File skipped", slog.String("path", relPath), slog.String("reason", reason))
	w.hook(relPath, StatusSkipped, reason, time.Since(start))
	return SkippedInfo{Path: relPath, Reason: reason, Details: details}
}

func (w *worker) failure(relPath, message string, start time.Time) ErrorInfo {
	isFatal := w.engine.opts.OnErrorMode == OnErrorStop
	w.logger.Warn("File processing failed", slog.String("path", relPath), slog.String("error", message), slog.Bool("fatal", isFatal))
	w.hook(relPath, StatusFailed, message, time.Since(start))
	return ErrorInfo{Path: relPath, Error: message, IsFatal: isFatal}
}

func (w *worker) hook(relPath string, status Status, message string, duration time.Duration) {
	if err := w.engine.opts.EventHooks.OnFileStatusUpdate(relPath, status, message, duration); err != nil {
		w.logger.Warn("Event hook OnFileStatusUpdate failed", slog.String("path", relPath), slog.String("status", string(status)), slog.String("error", err.Error()))
	}
}

// relativePath returns filePath relative to the input path in '/' form.
// A file input yields its base name.
func (e *Engine) relativePath(filePath string) string {
	relPath, err := filepath.Rel(e.opts.InputPath, filePath)
	if err != nil || relPath == "" || relPath == "." {
		relPath = filepath.Base(filePath)
	}
	return filepath.ToSlash(relPath)
}

func (e *Engine) aggregateResults(resultsChan <-chan any, done chan<- struct{}) {
	defer close(done)
	scanCount := int64(0)
	for result := range resultsChan {
		scanCount++
		switch r := result.(type) {
		case FileResult:
			e.aggregator.addDocument(r)
		case SkippedInfo:
			e.aggregator.addSkipped(r)
		case ErrorInfo:
			e.aggregator.addError(r)
		default:
			e.logger.Warn("Aggregator received unknown result type", slog.String("type", fmt.Sprintf("%T", result)))
		}
	}
	e.totalScanned.Store(scanCount)
	e.logger.Debug("Result aggregator finished", slog.Int64("resultsProcessed", scanCount))
}

type reportAggregator struct {
	mu        sync.Mutex
	documents []FileResult
	skipped   []SkippedInfo
	errors    []ErrorInfo
}

func newReportAggregator() *reportAggregator {
	return &reportAggregator{
		documents: make([]FileResult, 0, 128),
		skipped:   make([]SkippedInfo, 0, 32),
		errors:    make([]ErrorInfo, 0, 8),
	}
}

func (a *reportAggregator) addDocument(r FileResult) {
	a.mu.Lock()
	a.documents = append(a.documents, r)
	a.mu.Unlock()
}

func (a *reportAggregator) addSkipped(info SkippedInfo) {
	a.mu.Lock()
	a.skipped = append(a.skipped, info)
	a.mu.Unlock()
}

func (a *reportAggregator) addError(info ErrorInfo) {
	a.mu.Lock()
	a.errors = append(a.errors, info)
	a.mu.Unlock()
}

func (a *reportAggregator) getFirstFatalError() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	for _, e := range a.errors {
		if e.IsFatal {
			return fmt.Errorf("fatal error processing file '%s': %s", e.Path, e.Error)
		}
	}
	return nil
}

// getReport copies the collected results, sorted by path, into a Report.
func (a *reportAggregator) getReport(opts *Options, startTime time.Time, totalScanned int64, fatalOccurred bool) Report {
	a.mu.Lock()
	documents := append([]FileResult(nil), a.documents...)
	skipped := append([]SkippedInfo(nil), a.skipped...)
	errs := append([]ErrorInfo(nil), a.errors...)
	a.mu.Unlock()

	sort.Slice(documents, func(i, j int) bool { return documents[i].Path < documents[j].Path })
	sort.Slice(skipped, func(i, j int) bool { return skipped[i].Path < skipped[j].Path })
	sort.Slice(errs, func(i, j int) bool { return errs[i].Path < errs[j].Path })

	average := 0.0
	for _, d := range documents {
		average += d.Coverage
	}
	if len(documents) > 0 {
		average /= float64(len(documents))
	}
	if documents == nil {
		documents = []FileResult{}
	}
	if skipped == nil {
		skipped = []SkippedInfo{}
	}
	if errs == nil {
		errs = []ErrorInfo{}
	}

	return Report{
		Summary: ReportSummary{
			InputPath:          opts.InputPath,
			ConfigFilePath:     opts.ConfigFilePath,
			TotalFilesScanned:  int(totalScanned),
			ProcessedCount:     len(documents),
			SkippedCount:       len(skipped),
			ErrorCount:         len(errs),
			FatalErrorOccurred: fatalOccurred,
			AverageCoverage:    average,
			DurationSeconds:    time.Since(startTime).Seconds(),
			Concurrency:        opts.Concurrency,
			Timestamp:          time.Now().UTC(),
			SchemaVersion:      ReportSchemaVersion,
		},
		Documents:    documents,
		SkippedFiles: skipped,
		Errors:       errs,
	}
}
