// Package registry holds the immutable name → upstream service table used by the proxy.
package registry

import (
	"fmt"
	"time"

	"github.com/kailas-cloud/dbgate/internal/domain"
)

// DefaultService is the name resolved when a proxy request does not select a service.
const DefaultService = "default"

// ServiceConfig describes one upstream service. BaseURL is kept as given;
// the dispatcher joins it with the request path.
type ServiceConfig struct {
	Name    string
	BaseURL string
	Timeout time.Duration
}

// Registry maps service names to their configuration. It is built once and never mutated,
// so concurrent Resolve calls need no locking.
type Registry struct {
	services map[string]ServiceConfig
}

// New validates configs and builds a Registry. A later config with the same name
// replaces an earlier one.
func New(configs ...ServiceConfig) (*Registry, error) {
	services := make(map[string]ServiceConfig, len(configs))
	for _, c := range configs {
		if c.Name == "" {
			return nil, fmt.Errorf("service name is required")
		}
		if c.BaseURL == "" {
			return nil, fmt.Errorf("service %q: base url is required", c.Name)
		}
		if c.Timeout <= 0 {
			return nil, fmt.Errorf("service %q: timeout must be positive, got %s", c.Name, c.Timeout)
		}
		services[c.Name] = c
	}
	return &Registry{services: services}, nil
}

// Resolve returns the configuration registered under name (exact, case-sensitive).
func (r *Registry) Resolve(name string) (ServiceConfig, error) {
	c, ok := r.services[name]
	if !ok {
		return ServiceConfig{}, fmt.Errorf("resolve %q: %w", name, domain.ErrUnknownService)
	}
	return c, nil
}

// Names returns the registered service names in no particular order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.services))
	for n := range r.services {
		names = append(names, n)
	}
	return names
}
