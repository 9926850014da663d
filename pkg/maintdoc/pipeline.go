package maintdoc

import (
	"context"
	"fmt"
	"log/slog"
)

// Pipeline runs an Extractor over one source file and assembles the MaintenanceDocument.
// A Pipeline holds no per-file state; the Engine still gives each worker its own instance
// because extractors may memoize the last analysed source.
type Pipeline struct {
	extractor Extractor
	reader    SourceReader
	logger    *slog.Logger
}

// NewPipeline creates a Pipeline. A nil reader uses NewOSReader(nil); a nil handler discards logs.
func NewPipeline(extractor Extractor, reader SourceReader, loggerHandler slog.Handler) *Pipeline {
	if reader == nil {
		reader = NewOSReader(nil)
	}
	if loggerHandler == nil {
		loggerHandler = slog.DiscardHandler
	}
	return &Pipeline{
		extractor: extractor,
		reader:    reader,
		logger:    slog.New(loggerHandler).With(slog.String("component", "pipeline")),
	}
}

// Extract reads path and extracts its maintenance document.
// It fails with ErrNotFound if path does not exist and ErrIO if it is a directory or unreadable;
// no partial document is returned alongside an error.
func (p *Pipeline) Extract(path string) (*MaintenanceDocument, error) {
	return p.ExtractContext(context.Background(), path)
}

// ExtractContext is Extract with a context handed to the tree parser.
func (p *Pipeline) ExtractContext(ctx context.Context, path string) (*MaintenanceDocument, error) {
	src, err := p.reader.ReadSource(path)
	if err != nil {
		return nil, err
	}
	return p.ExtractSource(ctx, src)
}

// ExtractSource runs the extraction stages over an already read source, in fixed order:
// parse tree, permissions, error patterns, state, dependencies, connection requirements,
// business logic, scenarios.
func (p *Pipeline) ExtractSource(ctx context.Context, src *Source) (*MaintenanceDocument, error) {
	if src == nil {
		return nil, fmt.Errorf("%w: nil source", ErrIO)
	}
	logger := p.logger.With(slog.String("path", src.Path))
	doc := NewMaintenanceDocument(src.Path)

	if tp, ok := p.extractor.(TreeParser); ok && src.Tree == nil {
		p.stage(logger, "parse", func() {
			tree, err := tp.ParseTree(ctx, src)
			if err != nil {
				logger.Warn("Source could not be parsed, continuing with empty tree-based results", slog.String("error", err.Error()))
				return
			}
			src.Tree = tree
		})
	}

	p.stage(logger, "permissions", func() {
		doc.Permissions = DedupePermissions(p.extractor.ExtractPermissions(src))
	})
	p.stage(logger, "errorPatterns", func() {
		doc.ErrorPatterns = DedupeErrorPatterns(p.extractor.ExtractErrorPatterns(src))
	})
	p.stage(logger, "state", func() {
		doc.StateManagement = p.extractor.ExtractStateManagement(src)
	})
	p.stage(logger, "dependencies", func() {
		if deps := DedupeStrings(p.extractor.ExtractDependencies(src)); len(deps) > 0 {
			doc.Dependencies = deps
		}
	})
	p.stage(logger, "connections", func() {
		if conns := p.extractor.ExtractConnectionRequirements(src); len(conns) > 0 {
			doc.ConnectionRequirements = conns
		}
	})
	if ble, ok := p.extractor.(BusinessLogicExtractor); ok {
		p.stage(logger, "businessLogic", func() {
			doc.BusinessLogic = ble.ExtractBusinessLogic(src)
		})
	}

	p.generateScenarios(logger, doc)

	logger.Debug("Extraction finished",
		slog.Int("permissions", len(doc.Permissions)),
		slog.Int("errorPatterns", len(doc.ErrorPatterns)),
		slog.Bool("state", doc.StateManagement != nil),
		slog.Int("dependencies", len(doc.Dependencies)),
		slog.Int("connections", len(doc.ConnectionRequirements)),
		slog.Int("scenarios", len(doc.MaintenanceScenarios)),
	)
	return doc, nil
}

func (p *Pipeline) generateScenarios(logger *slog.Logger, doc *MaintenanceDocument) {
	if gen, ok := p.extractor.(ScenarioGenerator); ok {
		p.stage(logger, "customScenarios", func() {
			doc.MaintenanceScenarios = append(doc.MaintenanceScenarios, gen.GenerateScenarios(doc)...)
		})
		if len(doc.MaintenanceScenarios) > 0 {
			return
		}
		logger.Debug("Custom scenario generator returned nothing, using defaults")
	}
	doc.MaintenanceScenarios = append(doc.MaintenanceScenarios, GenerateDefaultScenarios(doc)...)
}

// stage runs fn, turning a panic into a logged warning so one stage cannot abort the document.
func (p *Pipeline) stage(logger *slog.Logger, name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Warn("Extraction stage panicked, stage result dropped",
				slog.String("stage", name), slog.Any("panicValue", r))
		}
	}()
	fn()
}
