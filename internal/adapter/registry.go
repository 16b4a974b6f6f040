package adapter

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the adapters available to the engine, keyed by domain ID.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	adapters map[string]Adapter
}

// NewRegistry creates an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		adapters: make(map[string]Adapter),
	}
}

// Register adds an adapter under its configured domain ID. Registering a
// domain ID that is already present replaces the previous adapter; in-flight
// calls holding the old adapter finish against it.
func (r *Registry) Register(a Adapter) error {
	if a == nil {
		return fmt.Errorf("adapter cannot be nil")
	}
	cfg := a.Config()
	if cfg.DomainID == "" {
		return fmt.Errorf("adapter config has empty domain ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.adapters[cfg.DomainID] = a
	return nil
}

// Get returns the adapter for a domain ID.
func (r *Registry) Get(domainID string) (Adapter, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.adapters[domainID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrDomainNotFound, domainID)
	}
	return a, nil
}

// List returns the configs of all registered adapters, sorted by domain ID.
func (r *Registry) List() []Config {
	r.mu.RLock()
	defer r.mu.RUnlock()

	configs := make([]Config, 0, len(r.adapters))
	for _, a := range r.adapters {
		configs = append(configs, a.Config())
	}
	sort.Slice(configs, func(i, j int) bool {
		return configs[i].DomainID < configs[j].DomainID
	})
	return configs
}
