// Package testutil holds testify mocks and filesystem helpers shared by the test suites.
package testutil

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc"
	"github.com/catdotbashrc/docs-generator-sub000/pkg/maintdoc/encoding"
)

// MockExtractor mocks maintdoc.Extractor.
type MockExtractor struct {
	mock.Mock
}

func (m *MockExtractor) ExtractPermissions(src *maintdoc.Source) []maintdoc.PermissionRequirement {
	args := m.Called(src)
	perms, _ := args.Get(0).([]maintdoc.PermissionRequirement)
	return perms
}

func (m *MockExtractor) ExtractErrorPatterns(src *maintdoc.Source) []maintdoc.ErrorPattern {
	args := m.Called(src)
	patterns, _ := args.Get(0).([]maintdoc.ErrorPattern)
	return patterns
}

func (m *MockExtractor) ExtractStateManagement(src *maintdoc.Source) *maintdoc.StateManagement {
	args := m.Called(src)
	state, _ := args.Get(0).(*maintdoc.StateManagement)
	return state
}

func (m *MockExtractor) ExtractDependencies(src *maintdoc.Source) []string {
	args := m.Called(src)
	deps, _ := args.Get(0).([]string)
	return deps
}

func (m *MockExtractor) ExtractConnectionRequirements(src *maintdoc.Source) []maintdoc.ConnectionRequirement {
	args := m.Called(src)
	conns, _ := args.Get(0).([]maintdoc.ConnectionRequirement)
	return conns
}

// ExpectEmpty sets every operation to return nothing for any source.
func (m *MockExtractor) ExpectEmpty() *MockExtractor {
	m.On("ExtractPermissions", mock.Anything).Return(nil).Maybe()
	m.On("ExtractErrorPatterns", mock.Anything).Return(nil).Maybe()
	m.On("ExtractStateManagement", mock.Anything).Return(nil).Maybe()
	m.On("ExtractDependencies", mock.Anything).Return(nil).Maybe()
	m.On("ExtractConnectionRequirements", mock.Anything).Return(nil).Maybe()
	return m
}

// MockSourceReader mocks maintdoc.SourceReader.
type MockSourceReader struct {
	mock.Mock
}

func (m *MockSourceReader) ReadSource(path string) (*maintdoc.Source, error) {
	args := m.Called(path)
	src, _ := args.Get(0).(*maintdoc.Source)
	return src, args.Error(1)
}

// MockLanguageDetector mocks language.LanguageDetector.
type MockLanguageDetector struct {
	mock.Mock
}

func (m *MockLanguageDetector) Detect(content []byte, filePath string) (lang string, confidence float64, err error) {
	args := m.Called(content, filePath)
	return args.String(0), args.Get(1).(float64), args.Error(2)
}

// MockDecoder mocks encoding.Decoder.
type MockDecoder struct {
	mock.Mock
}

func (m *MockDecoder) Decode(content []byte) (encoding.Decoded, error) {
	args := m.Called(content)
	return args.Get(0).(encoding.Decoded), args.Error(1)
}

func (m *MockDecoder) IsBinary(content []byte) bool {
	return m.Called(content).Bool(0)
}

// MockHooks mocks maintdoc.Hooks.
type MockHooks struct {
	mock.Mock
}

func (m *MockHooks) OnFileDiscovered(path string) error {
	return m.Called(path).Error(0)
}

func (m *MockHooks) OnFileStatusUpdate(path string, status maintdoc.Status, message string, duration time.Duration) error {
	return m.Called(path, status, message, duration).Error(0)
}

func (m *MockHooks) OnRunComplete(report maintdoc.Report) error {
	return m.Called(report).Error(0)
}

// RecordingHooks collects every status update. Safe for concurrent use.
type RecordingHooks struct {
	mu         sync.Mutex
	Discovered []string
	Updates    map[string][]maintdoc.Status
	Completed  []maintdoc.Report
}

// NewRecordingHooks returns empty RecordingHooks.
func NewRecordingHooks() *RecordingHooks {
	return &RecordingHooks{Updates: make(map[string][]maintdoc.Status)}
}

func (h *RecordingHooks) OnFileDiscovered(path string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Discovered = append(h.Discovered, path)
	return nil
}

func (h *RecordingHooks) OnFileStatusUpdate(path string, status maintdoc.Status, _ string, _ time.Duration) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Updates[path] = append(h.Updates[path], status)
	return nil
}

func (h *RecordingHooks) OnRunComplete(report maintdoc.Report) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.Completed = append(h.Completed, report)
	return nil
}

// StatusesFor returns a copy of the updates recorded for path.
func (h *RecordingHooks) StatusesFor(path string) []maintdoc.Status {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]maintdoc.Status(nil), h.Updates[path]...)
}

// MockLoggerHandler mocks slog.Handler.
type MockLoggerHandler struct {
	mock.Mock
}

func (m *MockLoggerHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return m.Called(ctx, level).Bool(0)
}

func (m *MockLoggerHandler) Handle(ctx context.Context, r slog.Record) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockLoggerHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	args := m.Called(attrs)
	if h, ok := args.Get(0).(slog.Handler); ok {
		return h
	}
	return m
}

func (m *MockLoggerHandler) WithGroup(name string) slog.Handler {
	args := m.Called(name)
	if h, ok := args.Get(0).(slog.Handler); ok {
		return h
	}
	return m
}
