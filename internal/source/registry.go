package source

import (
	"fmt"

	"github.com/ProjectCodeKw/reviewharvest/internal/ports"
)

// Registry keeps a mapping from source names to their implementations.
type Registry struct {
	sources map[string]ports.ReviewSource
}

// NewRegistry builds an empty registry.
func NewRegistry() *Registry {
	return &Registry{sources: map[string]ports.ReviewSource{}}
}

// Register adds or replaces a review source implementation.
func (r *Registry) Register(src ports.ReviewSource) {
	if r.sources == nil {
		r.sources = map[string]ports.ReviewSource{}
	}
	r.sources[src.Name()] = src
}

// Resolve returns a source by name or an error if it is absent.
func (r *Registry) Resolve(name string) (ports.ReviewSource, error) {
	if src, ok := r.sources[name]; ok {
		return src, nil
	}
	return nil, fmt.Errorf("source %s is not registered", name)
}
