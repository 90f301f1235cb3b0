package source

import (
	"fmt"
	"log/slog"
	"net/http"

	"FilingScanner/internal/config"
	"FilingScanner/internal/ports"
)

// Deps carries the shared collaborators every adapter needs.
type Deps struct {
	Client    *http.Client
	UserAgent string
	Logger    *slog.Logger
}

// Factory builds one FilingSource from its configuration entry.
type Factory func(cfg config.SourceConfig, deps Deps) (ports.FilingSource, error)

// Registry keeps a mapping from source kinds to adapter factories, so the
// adapter serving a configured source is selected by its kind string.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{factories: map[string]Factory{}}
}

// Register adds or replaces the factory for a kind.
func (r *Registry) Register(kind string, f Factory) {
	if r.factories == nil {
		r.factories = map[string]Factory{}
	}
	r.factories[kind] = f
}

// Build constructs the adapter for one configured source.
func (r *Registry) Build(cfg config.SourceConfig, deps Deps) (ports.FilingSource, error) {
	f, ok := r.factories[cfg.Kind]
	if !ok {
		return nil, fmt.Errorf("source kind %q is not registered", cfg.Kind)
	}
	return f(cfg, deps)
}
