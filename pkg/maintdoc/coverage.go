package maintdoc

// coverageAspects is the number of aspects Coverage inspects.
const coverageAspects = 6

// Coverage returns the fraction of documented aspects that are populated:
// permissions, error patterns, state management, dependencies,
// connection requirements and maintenance scenarios.
func (d *MaintenanceDocument) Coverage() float64 {
	if d == nil {
		return 0
	}
	populated := 0
	for _, ok := range []bool{
		len(d.Permissions) > 0,
		len(d.ErrorPatterns) > 0,
		d.StateManagement != nil,
		len(d.Dependencies) > 0,
		len(d.ConnectionRequirements) > 0,
		len(d.MaintenanceScenarios) > 0,
	} {
		if ok {
			populated++
		}
	}
	return float64(populated) / coverageAspects
}
