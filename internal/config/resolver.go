package config

import (
	"fmt"
	"sync"
)

// Resolver memoizes backend configuration resolution. A configuration is
// resolved at most once per key; later lookups see the first result even if
// the environment changed underneath.
type Resolver struct {
	backends BackendsConfig

	mu    sync.Mutex
	cache map[string]*ResolvedBackend
}

// ResolvedBackend is a backend configuration with the API key materialized
// and defaults applied.
type ResolvedBackend struct {
	BackendConfig
	Key string
}

// NewResolver creates a resolver over the configured backends.
func NewResolver(backends BackendsConfig) *Resolver {
	return &Resolver{
		backends: backends,
		cache:    make(map[string]*ResolvedBackend),
	}
}

// Resolve returns the resolved configuration for "primary" or "backup".
// Unusable configurations resolve to an error, also memoized.
func (r *Resolver) Resolve(name string) (*ResolvedBackend, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if cached, ok := r.cache[name]; ok {
		if cached == nil {
			return nil, fmt.Errorf("backend %q is not configured", name)
		}
		return cached, nil
	}

	var bc BackendConfig
	switch name {
	case "primary":
		bc = r.backends.Primary
	case "backup":
		bc = r.backends.Backup
	default:
		return nil, fmt.Errorf("unknown backend %q", name)
	}

	if !bc.Configured() {
		r.cache[name] = nil
		return nil, fmt.Errorf("backend %q is not configured", name)
	}

	if bc.MaxTokens <= 0 {
		bc.MaxTokens = 4096
	}
	if bc.Temperature == nil {
		t := 0.3
		bc.Temperature = &t
	}
	resolved := &ResolvedBackend{BackendConfig: bc, Key: bc.APIKey()}
	r.cache[name] = resolved
	return resolved, nil
}
