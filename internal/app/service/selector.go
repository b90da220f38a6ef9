package service

import (
	"fmt"
	"strings"

	"asset_aggregator/internal/app/port"
)

// Provider strategy names accepted in config and per-request overrides.
const (
	ProviderBirdeye = "birdeye"
	ProviderHelius  = "helius"
	ProviderOnchain = "onchain"
)

// Registry holds the constructed provider strategies and resolves the one a
// request asks for. Selection happens here, never by branching at call
// sites.
type Registry struct {
	providers   map[string]port.AssetProvider
	defaultName string
}

// NewRegistry creates a registry. defaultName must name one of the given
// providers.
func NewRegistry(providers map[string]port.AssetProvider, defaultName string) (*Registry, error) {
	defaultName = strings.ToLower(defaultName)
	if _, ok := providers[defaultName]; !ok {
		return nil, fmt.Errorf("default provider %q is not configured", defaultName)
	}
	return &Registry{providers: providers, defaultName: defaultName}, nil
}

// Select returns the named strategy, or the default one for an empty name.
func (r *Registry) Select(name string) (port.AssetProvider, error) {
	if name == "" {
		return r.providers[r.defaultName], nil
	}
	p, ok := r.providers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown provider %q", name)
	}
	return p, nil
}

// DefaultName returns the name of the default strategy.
func (r *Registry) DefaultName() string {
	return r.defaultName
}

// Names lists the configured strategy names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
