package driver

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"ir-hub-bridge/internal/config"
)

// Factory constructs a Descriptor from the bridge configuration.
type Factory func(cfg *config.Config, logger *logrus.Logger) (Descriptor, error)

// Registry maps back-end names to descriptor factories. The back-end is
// chosen once at startup from configuration; the registry never inspects
// descriptor types at runtime.
type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

// NewRegistry creates an empty descriptor registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[string]Factory),
	}
}

// Register adds a factory under the given back-end name, replacing any
// previous registration.
func (r *Registry) Register(name string, factory Factory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.factories[name] = factory
}

// Backends returns the registered back-end names, sorted.
func (r *Registry) Backends() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.factories))
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New constructs the descriptor for the named back-end.
func (r *Registry) New(name string, cfg *config.Config, logger *logrus.Logger) (Descriptor, error) {
	r.mu.RLock()
	factory, exists := r.factories[name]
	r.mu.RUnlock()

	if !exists {
		return nil, fmt.Errorf("unknown backend: %s", name)
	}

	descriptor, err := factory(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s descriptor: %w", name, err)
	}
	return descriptor, nil
}
