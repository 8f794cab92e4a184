package geoip

import (
	"fmt"

	"github.com/bnema/geobadge/internal/application/port"
	"github.com/bnema/geobadge/internal/domain/entity"
)

// Registry resolves the closed set of providers.
type Registry struct {
	providers map[entity.ProviderID]port.LocationProvider
}

var _ port.ProviderResolver = (*Registry)(nil)

// NewRegistry builds every provider from opts.
func NewRegistry(opts Options) *Registry {
	return NewRegistryWith(
		NewFakeProvider(opts.FakeDelay),
		NewIPAPIProvider(opts),
		NewIPSBProvider(opts),
	)
}

// NewRegistryWith registers the given providers by their ID.
func NewRegistryWith(providers ...port.LocationProvider) *Registry {
	r := &Registry{providers: make(map[entity.ProviderID]port.LocationProvider, len(providers))}
	for _, p := range providers {
		r.providers[p.ID()] = p
	}
	return r
}

// Resolve returns the provider for id.
func (r *Registry) Resolve(id entity.ProviderID) (port.LocationProvider, error) {
	p, ok := r.providers[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q", port.ErrUnknownProvider, id)
	}
	return p, nil
}
