package source

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/de-tools/roi-atlas/pkg/models/domain"
)

// Source loads campaign performance records from a single location.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]domain.CampaignRecord, error)
	Close() error
}

// Factory creates a Source from its spec
type Factory func(ctx context.Context, spec domain.SourceSpec) (Source, error)

// Registry manages source factories keyed by kind
type Registry interface {
	// Register adds a new source factory
	Register(kind domain.SourceKind, factory Factory) error
	// Create instantiates a source for the spec's kind
	Create(ctx context.Context, spec domain.SourceSpec) (Source, error)
	// ListKinds returns the registered kinds in sorted order
	ListKinds() []string
}

type registry struct {
	mu        sync.RWMutex
	factories map[domain.SourceKind]Factory
}

// NewRegistry creates a registry pre-populated with the given factories
func NewRegistry(factories map[domain.SourceKind]Factory) Registry {
	r := &registry{
		factories: make(map[domain.SourceKind]Factory, len(factories)),
	}
	for kind, f := range factories {
		r.factories[kind] = f
	}
	return r
}

func (r *registry) Register(kind domain.SourceKind, factory Factory) error {
	if kind == "" {
		return fmt.Errorf("source kind cannot be empty")
	}
	if factory == nil {
		return fmt.Errorf("factory cannot be nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[kind]; exists {
		return fmt.Errorf("source kind %q is already registered", kind)
	}

	r.factories[kind] = factory
	return nil
}

func (r *registry) Create(ctx context.Context, spec domain.SourceSpec) (Source, error) {
	r.mu.RLock()
	factory, exists := r.factories[spec.Kind]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownSource, spec.Kind)
	}

	return factory(ctx, spec)
}

func (r *registry) ListKinds() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	kinds := make([]string, 0, len(r.factories))
	for kind := range r.factories {
		kinds = append(kinds, string(kind))
	}
	sort.Strings(kinds)
	return kinds
}
