package maintdoc

import (
	"fmt"
	"strings"
)

// Scenario names produced by GenerateDefaultScenarios.
const (
	ScenarioPermissionTroubleshooting = "permission_troubleshooting"
	ScenarioErrorRecovery             = "error_recovery"
)

const (
	maxPermissionDiagnostics = 3
	recoveryStepsPerPattern  = 2
)

// GenerateDefaultScenarios synthesizes troubleshooting scenarios for doc.
// At most one scenario is produced per category, and a category is skipped when
// doc already holds a scenario with that name, so calling it again is harmless.
// The returned scenarios are not appended to doc.
func GenerateDefaultScenarios(doc *MaintenanceDocument) []MaintenanceScenario {
	if doc == nil {
		return nil
	}
	existing := make(map[string]struct{}, len(doc.MaintenanceScenarios))
	for _, s := range doc.MaintenanceScenarios {
		existing[s.Name] = struct{}{}
	}

	var out []MaintenanceScenario
	if _, ok := existing[ScenarioPermissionTroubleshooting]; !ok && len(doc.Permissions) > 0 {
		if s, err := permissionScenario(doc.Permissions); err == nil {
			out = append(out, s)
		}
	}
	if _, ok := existing[ScenarioErrorRecovery]; !ok && len(doc.ErrorPatterns) > 0 {
		if s, err := errorRecoveryScenario(doc.ErrorPatterns); err == nil {
			out = append(out, s)
		}
	}
	return out
}

func permissionScenario(perms []PermissionRequirement) (MaintenanceScenario, error) {
	var diagnostic []string
	for i, p := range perms {
		if i == maxPermissionDiagnostics {
			break
		}
		if steps := p.DiagnosticSteps(); len(steps) > 0 {
			diagnostic = append(diagnostic, steps[0])
		}
	}
	if len(diagnostic) == 0 {
		diagnostic = []string{"Verify the executing identity holds the permissions listed in this document"}
	}

	docs := make([]string, 0, len(perms))
	for _, p := range perms {
		docs = append(docs, p.ToMaintenanceDoc())
	}
	return NewMaintenanceScenario(
		ScenarioPermissionTroubleshooting,
		"Operation fails with an access denied or unauthorized error",
		diagnostic,
		[]string{
			fmt.Sprintf("Grant the missing permissions to the executing role: %s", strings.Join(docs, ", ")),
			"Wait for the policy change to propagate, then re-run the operation",
		},
		[]string{
			"Keep the role policy in sync with the permissions listed in this document",
			"Review permissions whenever the script starts calling new APIs",
		},
	)
}

func errorRecoveryScenario(patterns []ErrorPattern) (MaintenanceScenario, error) {
	var resolution []string
	for _, p := range patterns {
		n := len(p.RecoverySteps)
		if n > recoveryStepsPerPattern {
			n = recoveryStepsPerPattern
		}
		resolution = append(resolution, p.RecoverySteps[:n]...)
	}
	resolution = DedupeStrings(resolution)
	if len(resolution) == 0 {
		resolution = []string{"Investigate the failure and retry the operation"}
	}
	return NewMaintenanceScenario(
		ScenarioErrorRecovery,
		"Execution fails with one of the documented error patterns",
		[]string{
			"Capture the full error message and match it against the documented error patterns",
			"Check logs around the time of the failure for the triggering condition",
		},
		resolution,
		[]string{
			"Validate inputs before running the script",
			"Monitor for recurring error patterns and automate their recovery",
		},
	)
}
