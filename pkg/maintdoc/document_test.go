package maintdoc_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc"
)

func TestIAMPermission(t *testing.T) {
	p := maintdoc.IAMPermission{Service: "s3", Action: "PutObject"}
	assert.Equal(t, "s3:PutObject", p.ToMaintenanceDoc())

	steps := p.DiagnosticSteps()
	require.Len(t, steps, 3)
	for _, s := range steps {
		assert.Contains(t, s, "PutObject")
	}
}

func TestNewErrorPattern(t *testing.T) {
	p, err := maintdoc.NewErrorPattern("Bucket not found", maintdoc.ErrorTypeAWS, maintdoc.SeverityHigh, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{}, p.RecoverySteps)

	_, err = maintdoc.NewErrorPattern("x", maintdoc.ErrorType("bogus"), maintdoc.SeverityHigh, nil)
	assert.ErrorIs(t, err, maintdoc.ErrInvalidErrorType)

	_, err = maintdoc.NewErrorPattern("x", maintdoc.ErrorTypeGeneric, maintdoc.Severity("urgent"), nil)
	assert.ErrorIs(t, err, maintdoc.ErrInvalidSeverity)
}

func TestNewMaintenanceScenario(t *testing.T) {
	testCases := []struct {
		name       string
		diagnostic []string
		resolution []string
		wantErr    bool
	}{
		{"complete", []string{"check"}, []string{"fix"}, false},
		{"no diagnostic steps", nil, []string{"fix"}, true},
		{"no resolution steps", []string{"check"}, []string{}, true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s, err := maintdoc.NewMaintenanceScenario("outage", "service down", tc.diagnostic, tc.resolution, nil)
			if tc.wantErr {
				assert.ErrorIs(t, err, maintdoc.ErrInvalidScenario)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "outage", s.Name)
			assert.NotNil(t, s.PreventiveMeasures)
		})
	}
}

func TestNewMaintenanceDocument_EmptyCollections(t *testing.T) {
	doc := maintdoc.NewMaintenanceDocument("deploy.py")
	assert.Equal(t, "deploy.py", doc.SourceFile)
	assert.NotNil(t, doc.Permissions)
	assert.NotNil(t, doc.ErrorPatterns)
	assert.Nil(t, doc.StateManagement)
	assert.NotNil(t, doc.Dependencies)
	assert.NotNil(t, doc.ConnectionRequirements)
	assert.NotNil(t, doc.MaintenanceScenarios)
	assert.Zero(t, doc.Coverage())
}

func TestDedupe(t *testing.T) {
	perms := maintdoc.DedupePermissions([]maintdoc.PermissionRequirement{
		maintdoc.IAMPermission{Service: "ec2", Action: "DescribeInstances"},
		nil,
		maintdoc.IAMPermission{Service: "s3", Action: "GetObject"},
		maintdoc.IAMPermission{Service: "ec2", Action: "DescribeInstances"},
	})
	require.Len(t, perms, 2)
	assert.Equal(t, "ec2:DescribeInstances", perms[0].ToMaintenanceDoc())
	assert.Equal(t, "s3:GetObject", perms[1].ToMaintenanceDoc())

	a, _ := maintdoc.NewErrorPattern("boom", maintdoc.ErrorTypeGeneric, maintdoc.SeverityMedium, []string{"x"})
	b := a
	b.Condition = "flag"
	patterns := maintdoc.DedupeErrorPatterns([]maintdoc.ErrorPattern{a, a, b})
	assert.Equal(t, []maintdoc.ErrorPattern{a, b}, patterns)

	assert.Equal(t, []string{"boto3", "requests"}, maintdoc.DedupeStrings([]string{"boto3", "", "requests", "boto3"}))
}

func TestCoverage(t *testing.T) {
	doc := maintdoc.NewMaintenanceDocument("x.py")
	doc.Permissions = []maintdoc.PermissionRequirement{maintdoc.IAMPermission{Service: "s3", Action: "GetObject"}}
	doc.Dependencies = []string{"boto3"}
	doc.StateManagement = &maintdoc.StateManagement{StateType: "idempotent"}
	assert.InDelta(t, 0.5, doc.Coverage(), 1e-9)

	var nilDoc *maintdoc.MaintenanceDocument
	assert.Zero(t, nilDoc.Coverage())
}

func TestSeverityFor(t *testing.T) {
	testCases := []struct {
		message   string
		errorType maintdoc.ErrorType
		want      maintdoc.Severity
	}{
		{"Invalid credentials for profile", maintdoc.ErrorTypeGeneric, maintdoc.SeverityCritical},
		{"Access denied to bucket", maintdoc.ErrorTypeValidation, maintdoc.SeverityCritical},
		{"Snapshot not found", maintdoc.ErrorTypeAWS, maintdoc.SeverityHigh},
		{"Unexpected failure", maintdoc.ErrorTypeException, maintdoc.SeverityHigh},
		{"Throttled", maintdoc.ErrorTypeRetry, maintdoc.SeverityLow},
		{"name is required", maintdoc.ErrorTypeValidation, maintdoc.SeverityMedium},
		{"Output file unwritable", maintdoc.ErrorTypeGeneric, maintdoc.SeverityMedium},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, maintdoc.SeverityFor(tc.message, tc.errorType), tc.message)
	}
}

func TestRecoveryHints(t *testing.T) {
	testCases := []struct {
		message string
		first   string
	}{
		{"Config file not found: /etc/app/settings.yaml", "Create the configuration file at /etc/app/settings.yaml"},
		{"AccessDenied when calling PutObject", "Verify the IAM permissions of the executing role"},
		{"Rate exceeded", "Retry the operation with exponential backoff"},
		{"Request timed out", "Check network connectivity to the service endpoint"},
		{"Snapshot does not exist", "Verify the referenced resource exists"},
		{"name is required", "Provide the required parameter"},
		{"something odd happened", "Review the error message and the parameters of the failing call"},
	}
	for _, tc := range testCases {
		hints := maintdoc.RecoveryHints(tc.message)
		require.NotEmpty(t, hints, tc.message)
		assert.Equal(t, tc.first, hints[0], tc.message)
	}
}

func TestRecoveryHints_ReturnsCopy(t *testing.T) {
	hints := maintdoc.RecoveryHints("Rate exceeded")
	hints[0] = "mutated"
	assert.Equal(t, "Retry the operation with exponential backoff", maintdoc.RecoveryHints("Rate exceeded")[0])
}
