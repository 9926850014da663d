package maintdoc

import (
	"context"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/sourcetree"
)

// Extractor is implemented by language-specific extractors. Pipeline calls the operations
// in declaration order. Implementations must not fail on malformed input: items that cannot
// be classified are simply left out.
//
// Stability: Public Stable API - Implementations can be provided externally.
type Extractor interface {
	ExtractPermissions(src *Source) []PermissionRequirement
	ExtractErrorPatterns(src *Source) []ErrorPattern
	// ExtractStateManagement returns nil when no state handling signal is present.
	ExtractStateManagement(src *Source) *StateManagement
	ExtractDependencies(src *Source) []string
	ExtractConnectionRequirements(src *Source) []ConnectionRequirement
}

// ScenarioGenerator is an optional hook. When an Extractor implements it and returns a
// non-empty list, that list replaces the default scenarios.
type ScenarioGenerator interface {
	GenerateScenarios(doc *MaintenanceDocument) []MaintenanceScenario
}

// TreeParser is an optional hook for extractors that consume a parse tree.
// The returned tree is stored on Source.Tree before extraction starts.
// A parse error leaves Tree nil; the extractor must then produce empty results.
type TreeParser interface {
	ParseTree(ctx context.Context, src *Source) (*sourcetree.Tree, error)
}

// BusinessLogicExtractor is an optional hook run after connection requirements.
type BusinessLogicExtractor interface {
	ExtractBusinessLogic(src *Source) *BusinessLogic
}
