package maintdoc

// Backoff strategies reported on RetryPattern.
const (
	BackoffExponential = "exponential backoff"
	BackoffFixed       = "fixed delay"
	BackoffImmediate   = "immediate retry"
)

// Rule is a conditional business rule.
type Rule struct {
	Condition   string `json:"condition" yaml:"condition"`
	Description string `json:"description" yaml:"description"`
}

// Validation is a guard that rejects input with a message.
type Validation struct {
	Condition string `json:"condition" yaml:"condition"`
	Message   string `json:"message" yaml:"message"`
}

// ErrorHandler records a caught exception type and what the handler does about it.
type ErrorHandler struct {
	ExceptionType string `json:"exceptionType" yaml:"exceptionType"`
	Action        string `json:"action" yaml:"action"`
}

// Step is one action of a Workflow.
type Step struct {
	Action string `json:"action" yaml:"action"`
	Kind   string `json:"kind" yaml:"kind"`
}

// Branch is a conditional sequence of steps folded into a Workflow.
type Branch struct {
	Condition string `json:"condition" yaml:"condition"`
	Steps     []Step `json:"steps" yaml:"steps"`
}

// Workflow is an ordered sequence of actions with at most one level of conditional branches.
type Workflow struct {
	Name     string   `json:"name" yaml:"name"`
	Steps    []Step   `json:"steps" yaml:"steps"`
	Branches []Branch `json:"branches" yaml:"branches"`
}

// Constant is a class-level literal constant.
type Constant struct {
	Name  string `json:"name" yaml:"name"`
	Type  string `json:"type" yaml:"type"`
	Value string `json:"value" yaml:"value"`
}

// Bracket is one tier of a piecewise calculation.
type Bracket struct {
	Threshold float64 `json:"threshold" yaml:"threshold"`
	Rate      float64 `json:"rate" yaml:"rate"`
}

// CalculationTable is the set of brackets found in one calculation method.
type CalculationTable struct {
	Name     string    `json:"name" yaml:"name"`
	Brackets []Bracket `json:"brackets" yaml:"brackets"`
}

// RetryPattern is a detected retry loop or retry declaration.
type RetryPattern struct {
	MaxAttempts     int    `json:"maxAttempts" yaml:"maxAttempts"`
	BackoffStrategy string `json:"backoffStrategy" yaml:"backoffStrategy"`
}

// BusinessLogic is the auxiliary bundle produced by tree-walking extractors.
// It is built fresh per source file and holds no cross-file state.
type BusinessLogic struct {
	Rules             []Rule             `json:"rules" yaml:"rules"`
	Validations       []Validation       `json:"validations" yaml:"validations"`
	ErrorHandlers     []ErrorHandler     `json:"errorHandlers" yaml:"errorHandlers"`
	Workflows         []Workflow         `json:"workflows" yaml:"workflows"`
	Constants         []Constant         `json:"constants" yaml:"constants"`
	CalculationTables []CalculationTable `json:"calculationTables" yaml:"calculationTables"`
	RetryPatterns     []RetryPattern     `json:"retryPatterns" yaml:"retryPatterns"`
}

// NewBusinessLogic returns an empty bundle with all slices allocated.
func NewBusinessLogic() *BusinessLogic {
	return &BusinessLogic{
		Rules:             []Rule{},
		Validations:       []Validation{},
		ErrorHandlers:     []ErrorHandler{},
		Workflows:         []Workflow{},
		Constants:         []Constant{},
		CalculationTables: []CalculationTable{},
		RetryPatterns:     []RetryPattern{},
	}
}

// IsEmpty reports whether nothing was extracted.
func (b *BusinessLogic) IsEmpty() bool {
	if b == nil {
		return true
	}
	return len(b.Rules) == 0 && len(b.Validations) == 0 && len(b.ErrorHandlers) == 0 &&
		len(b.Workflows) == 0 && len(b.Constants) == 0 && len(b.CalculationTables) == 0 &&
		len(b.RetryPatterns) == 0
}
