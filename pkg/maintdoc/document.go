package maintdoc

import (
	"fmt"
	"strings"
)

// PermissionRequirement is a documented unit of required access.
// Two requirements are considered equal when their ToMaintenanceDoc strings are equal;
// DedupePermissions relies on that.
//
// Stability: Public Stable API - Implementations can be provided externally.
type PermissionRequirement interface {
	// ToMaintenanceDoc returns the canonical textual form, e.g. "ec2:DescribeInstances".
	ToMaintenanceDoc() string
	// DiagnosticSteps returns ordered steps an operator follows when this access is missing.
	DiagnosticSteps() []string
}

// IAMPermission is a cloud access-control action required by a script.
type IAMPermission struct {
	Service string `json:"service" yaml:"service"`
	Action  string `json:"action" yaml:"action"`
}

// ToMaintenanceDoc implements PermissionRequirement.
func (p IAMPermission) ToMaintenanceDoc() string {
	return p.Service + ":" + p.Action
}

// DiagnosticSteps implements PermissionRequirement.
func (p IAMPermission) DiagnosticSteps() []string {
	action := p.ToMaintenanceDoc()
	return []string{
		fmt.Sprintf("Check that the executing role's IAM policy allows %s", action),
		fmt.Sprintf("Simulate the call with: aws iam simulate-principal-policy --action-names %s", action),
		fmt.Sprintf("Search CloudTrail for AccessDenied events on %s", p.Action),
	}
}

// ErrorPattern is a recognized failure signature with recovery guidance.
// Use NewErrorPattern to build one; it validates ErrorType and Severity.
type ErrorPattern struct {
	Pattern       string    `json:"pattern" yaml:"pattern"`
	ErrorType     ErrorType `json:"errorType" yaml:"errorType"`
	Severity      Severity  `json:"severity" yaml:"severity"`
	RecoverySteps []string  `json:"recoverySteps" yaml:"recoverySteps"`

	// Condition is the guard that triggers the failure, when one was found.
	Condition string `json:"condition,omitempty" yaml:"condition,omitempty"`

	// Populated by the exception-handler pass only.
	ExceptionType     string `json:"exceptionType,omitempty" yaml:"exceptionType,omitempty"`
	ErrorCode         string `json:"errorCode,omitempty" yaml:"errorCode,omitempty"`
	IncludesTraceback bool   `json:"includesTraceback,omitempty" yaml:"includesTraceback,omitempty"`
}

// NewErrorPattern builds an ErrorPattern, rejecting unknown types and severities.
func NewErrorPattern(pattern string, errorType ErrorType, severity Severity, recoverySteps []string) (ErrorPattern, error) {
	if !errorType.Valid() {
		return ErrorPattern{}, fmt.Errorf("%w: %q", ErrInvalidErrorType, errorType)
	}
	if !severity.Valid() {
		return ErrorPattern{}, fmt.Errorf("%w: %q", ErrInvalidSeverity, severity)
	}
	if recoverySteps == nil {
		recoverySteps = []string{}
	}
	return ErrorPattern{
		Pattern:       pattern,
		ErrorType:     errorType,
		Severity:      severity,
		RecoverySteps: recoverySteps,
	}, nil
}

// key identifies exact duplicates.
func (e ErrorPattern) key() string {
	return strings.Join([]string{
		e.Pattern, string(e.ErrorType), string(e.Severity), e.Condition, e.ExceptionType, e.ErrorCode,
		fmt.Sprint(e.IncludesTraceback), strings.Join(e.RecoverySteps, "\x1f"),
	}, "\x1e")
}

// StateManagement describes how a script tracks and reconciles state.
// A nil *StateManagement on a document means "unknown", not "unsupported".
type StateManagement struct {
	StateType            string   `json:"stateType" yaml:"stateType"`
	StateLocation        string   `json:"stateLocation" yaml:"stateLocation"`
	IdempotencySupport   bool     `json:"idempotencySupport" yaml:"idempotencySupport"`
	RollbackSupport      bool     `json:"rollbackSupport" yaml:"rollbackSupport"`
	StateValidationSteps []string `json:"stateValidationSteps" yaml:"stateValidationSteps"`
}

// ConnectionRequirement is a connectivity precondition (region, endpoint, network scope, profile).
type ConnectionRequirement struct {
	RequirementType string   `json:"requirementType" yaml:"requirementType"`
	Description     string   `json:"description" yaml:"description"`
	ValidationSteps []string `json:"validationSteps" yaml:"validationSteps"`
}

// MaintenanceScenario is a named troubleshooting procedure.
// Use NewMaintenanceScenario to build one.
type MaintenanceScenario struct {
	Name               string   `json:"name" yaml:"name"`
	Trigger            string   `json:"trigger" yaml:"trigger"`
	DiagnosticSteps    []string `json:"diagnosticSteps" yaml:"diagnosticSteps"`
	ResolutionSteps    []string `json:"resolutionSteps" yaml:"resolutionSteps"`
	PreventiveMeasures []string `json:"preventiveMeasures" yaml:"preventiveMeasures"`
}

// NewMaintenanceScenario builds a scenario. Diagnostic and resolution steps must both be non-empty.
func NewMaintenanceScenario(name, trigger string, diagnostic, resolution, preventive []string) (MaintenanceScenario, error) {
	if len(diagnostic) == 0 {
		return MaintenanceScenario{}, fmt.Errorf("%w: scenario %q has no diagnostic steps", ErrInvalidScenario, name)
	}
	if len(resolution) == 0 {
		return MaintenanceScenario{}, fmt.Errorf("%w: scenario %q has no resolution steps", ErrInvalidScenario, name)
	}
	if preventive == nil {
		preventive = []string{}
	}
	return MaintenanceScenario{
		Name:               name,
		Trigger:            trigger,
		DiagnosticSteps:    diagnostic,
		ResolutionSteps:    resolution,
		PreventiveMeasures: preventive,
	}, nil
}

// MaintenanceDocument is the structured output of one extraction run over one source file.
// Slices are never nil once the document leaves a Pipeline.
type MaintenanceDocument struct {
	SourceFile             string                  `json:"sourceFile" yaml:"sourceFile"`
	Permissions            []PermissionRequirement `json:"permissions" yaml:"permissions"`
	ErrorPatterns          []ErrorPattern          `json:"errorPatterns" yaml:"errorPatterns"`
	StateManagement        *StateManagement        `json:"stateManagement" yaml:"stateManagement"`
	Dependencies           []string                `json:"dependencies" yaml:"dependencies"`
	ConnectionRequirements []ConnectionRequirement `json:"connectionRequirements" yaml:"connectionRequirements"`
	MaintenanceScenarios   []MaintenanceScenario   `json:"maintenanceScenarios" yaml:"maintenanceScenarios"`
	BusinessLogic          *BusinessLogic          `json:"businessLogic,omitempty" yaml:"businessLogic,omitempty"`
}

// NewMaintenanceDocument returns an empty document for sourceFile with all slices allocated.
func NewMaintenanceDocument(sourceFile string) *MaintenanceDocument {
	return &MaintenanceDocument{
		SourceFile:             sourceFile,
		Permissions:            []PermissionRequirement{},
		ErrorPatterns:          []ErrorPattern{},
		Dependencies:           []string{},
		ConnectionRequirements: []ConnectionRequirement{},
		MaintenanceScenarios:   []MaintenanceScenario{},
	}
}

// DedupePermissions drops requirements whose ToMaintenanceDoc string was already seen,
// keeping the first occurrence and the original order.
func DedupePermissions(perms []PermissionRequirement) []PermissionRequirement {
	seen := make(map[string]struct{}, len(perms))
	out := make([]PermissionRequirement, 0, len(perms))
	for _, p := range perms {
		if p == nil {
			continue
		}
		k := p.ToMaintenanceDoc()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}
	return out
}

// DedupeErrorPatterns drops exact duplicates, keeping first-seen order.
func DedupeErrorPatterns(patterns []ErrorPattern) []ErrorPattern {
	seen := make(map[string]struct{}, len(patterns))
	out := make([]ErrorPattern, 0, len(patterns))
	for _, p := range patterns {
		k := p.key()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, p)
	}
	return out
}

// DedupeStrings drops repeated and empty strings, keeping first-seen order.
func DedupeStrings(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
