package hooks

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc"
)

func jsonLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		require.NoError(t, json.Unmarshal([]byte(line), &entry))
		out = append(out, entry)
	}
	return out
}

func TestCLIHooks_OnFileDiscovered(t *testing.T) {
	t.Run("verbose logs discovery", func(t *testing.T) {
		buf := &bytes.Buffer{}
		h := NewCLIHooks(jsonLogger(buf), true, nil)
		require.NoError(t, h.OnFileDiscovered("scripts/cleanup.py"))

		lines := decodeLines(t, buf)
		require.Len(t, lines, 1)
		assert.Equal(t, "File discovered", lines[0]["msg"])
		assert.Equal(t, "scripts/cleanup.py", lines[0]["path"])
		assert.Equal(t, "hooks", lines[0]["component"])
	})

	t.Run("quiet only counts", func(t *testing.T) {
		buf := &bytes.Buffer{}
		h := NewCLIHooks(jsonLogger(buf), false, nil)
		require.NoError(t, h.OnFileDiscovered("a.py"))
		require.NoError(t, h.OnFileDiscovered("b.py"))

		assert.Empty(t, buf.String())
		discovered, finished := h.Counts()
		assert.Equal(t, 2, discovered)
		assert.Equal(t, 0, finished)
	})
}

func TestCLIHooks_OnFileStatusUpdate_Verbose(t *testing.T) {
	testCases := []struct {
		name      string
		status    maintdoc.Status
		message   string
		wantLevel string
		wantMsg   string
		wantKey   string
	}{
		{"processing", maintdoc.StatusProcessing, "", "DEBUG", "File status updated", ""},
		{"success", maintdoc.StatusSuccess, "coverage 50%", "INFO", "File status updated", "message"},
		{"skipped", maintdoc.StatusSkipped, "binary_file", "INFO", "File status updated", "message"},
		{"failed", maintdoc.StatusFailed, "read error", "ERROR", "File processing failed", "error"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			buf := &bytes.Buffer{}
			h := NewCLIHooks(jsonLogger(buf), true, nil)
			require.NoError(t, h.OnFileStatusUpdate("Service.java", tc.status, tc.message, 12*time.Millisecond))

			lines := decodeLines(t, buf)
			require.Len(t, lines, 1)
			assert.Equal(t, tc.wantLevel, lines[0]["level"])
			assert.Equal(t, tc.wantMsg, lines[0]["msg"])
			assert.Equal(t, string(tc.status), lines[0]["status"])
			assert.Contains(t, lines[0], "duration")
			if tc.wantKey != "" {
				assert.Equal(t, tc.message, lines[0][tc.wantKey])
			}
		})
	}
}

func TestCLIHooks_OnFileStatusUpdate_Quiet(t *testing.T) {
	buf := &bytes.Buffer{}
	h := NewCLIHooks(jsonLogger(buf), false, nil)

	require.NoError(t, h.OnFileStatusUpdate("a.py", maintdoc.StatusProcessing, "", 0))
	require.NoError(t, h.OnFileStatusUpdate("a.py", maintdoc.StatusSuccess, "coverage 50%", time.Millisecond))
	assert.Empty(t, buf.String(), "successful files are not logged outside verbose mode")

	require.NoError(t, h.OnFileStatusUpdate("b.py", maintdoc.StatusFailed, "boom", time.Millisecond))
	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "ERROR", lines[0]["level"])
	assert.Equal(t, "b.py", lines[0]["path"])
	assert.Equal(t, "boom", lines[0]["error"])

	_, finished := h.Counts()
	assert.Equal(t, 2, finished)
}

type MockProgressBar struct {
	mock.Mock
}

func (m *MockProgressBar) Add(num int) error {
	args := m.Called(num)
	return args.Error(0)
}

func (m *MockProgressBar) Describe(description string) {
	m.Called(description)
}

func (m *MockProgressBar) Close() error {
	args := m.Called()
	return args.Error(0)
}

func TestCLIHooks_ProgressBar(t *testing.T) {
	bar := new(MockProgressBar)
	bar.On("Describe", "a.py").Once()
	bar.On("Describe", "b.py").Once()
	bar.On("Add", 1).Return(nil).Twice()
	bar.On("Close").Return(nil).Once()

	h := NewCLIHooks(jsonLogger(&bytes.Buffer{}), false, bar)
	require.NoError(t, h.OnFileDiscovered("a.py"))
	require.NoError(t, h.OnFileStatusUpdate("a.py", maintdoc.StatusProcessing, "", 0))
	require.NoError(t, h.OnFileStatusUpdate("a.py", maintdoc.StatusSuccess, "", 0))
	require.NoError(t, h.OnFileStatusUpdate("b.py", maintdoc.StatusSkipped, "", 0))
	require.NoError(t, h.OnRunComplete(maintdoc.Report{}))

	bar.AssertExpectations(t)
}

func TestCLIHooks_VerboseDoesNotDriveProgressBar(t *testing.T) {
	bar := new(MockProgressBar)
	bar.On("Close").Return(nil).Once()

	h := NewCLIHooks(jsonLogger(&bytes.Buffer{}), true, bar)
	require.NoError(t, h.OnFileStatusUpdate("a.py", maintdoc.StatusSuccess, "", 0))
	require.NoError(t, h.OnRunComplete(maintdoc.Report{}))

	bar.AssertNotCalled(t, "Add", mock.Anything)
	bar.AssertExpectations(t)
}

func TestCLIHooks_OnRunComplete(t *testing.T) {
	buf := &bytes.Buffer{}
	h := NewCLIHooks(jsonLogger(buf), true, nil)
	report := maintdoc.Report{Summary: maintdoc.ReportSummary{ProcessedCount: 3, SkippedCount: 1, ErrorCount: 2}}

	require.NoError(t, h.OnRunComplete(report))
	lines := decodeLines(t, buf)
	require.Len(t, lines, 1)
	assert.Equal(t, "Run complete", lines[0]["msg"])
	assert.EqualValues(t, 3, lines[0]["processed"])
	assert.EqualValues(t, 2, lines[0]["errors"])
}

func TestCLIHooks_NilLogger(t *testing.T) {
	h := NewCLIHooks(nil, true, nil)
	assert.NoError(t, h.OnFileDiscovered("x"))
	assert.NoError(t, h.OnFileStatusUpdate("x", maintdoc.StatusFailed, "e", 0))
	assert.NoError(t, h.OnRunComplete(maintdoc.Report{}))
}

func TestCLIHooks_Concurrent(t *testing.T) {
	bar := new(MockProgressBar)
	bar.On("Describe", "f").Return()
	bar.On("Add", 1).Return(nil)
	h := NewCLIHooks(slog.New(slog.DiscardHandler), false, bar)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = h.OnFileDiscovered("f")
			_ = h.OnFileStatusUpdate("f", maintdoc.StatusSuccess, "", 0)
		}()
	}
	wg.Wait()

	discovered, finished := h.Counts()
	assert.Equal(t, 50, discovered)
	assert.Equal(t, 50, finished)
}
