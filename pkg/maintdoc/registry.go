package maintdoc

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// ExtractorFactory builds a new Extractor. The engine calls it at most once per worker and language,
// so extractors holding per-file caches are never shared between goroutines.
type ExtractorFactory func(loggerHandler slog.Handler) Extractor

// Registry maps detected language identifiers to extractor factories.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]ExtractorFactory
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]ExtractorFactory)}
}

// Register binds language (case-insensitive) to factory, replacing any previous binding.
func (r *Registry) Register(language string, factory ExtractorFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[normalizeLanguage(language)] = factory
}

// Supports reports whether an extractor is registered for language.
func (r *Registry) Supports(language string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.factories[normalizeLanguage(language)]
	return ok
}

// Languages returns the registered language identifiers, sorted.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.factories))
	for lang := range r.factories {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}

// New builds an extractor for language. It returns ErrUnsupportedLanguage when none is registered.
func (r *Registry) New(language string, loggerHandler slog.Handler) (Extractor, error) {
	r.mu.RLock()
	factory, ok := r.factories[normalizeLanguage(language)]
	r.mu.RUnlock()
	if !ok || factory == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}
	return factory(loggerHandler), nil
}

func normalizeLanguage(language string) string {
	return strings.ToLower(strings.TrimSpace(language))
}
