package datasource

import (
	"context"
	"sync"

	"envrepo/internal/environment"
)

// DefaultConfigs returns the mocked environments served by a Static source
// created without configs.
func DefaultConfigs() []environment.Config {
	return []environment.Config{
		{
			ID:           "dev-01",
			Name:         "Backend Environment",
			Description:  "[Mocked] Environment with all backend dependencies.",
			Host:         "example.example.com",
			Port:         environment.DefaultSSHPort,
			ProductCodes: []string{"IU", "WS"},
			ProjectPaths: []string{"/home/dev/webapp", "/home/dev/api"},
		},
		{
			ID:           "dev-02",
			Name:         "Front-End Environment",
			Description:  "[Mocked] Environment with all front-end dependencies.",
			Host:         "example.example.com",
			Port:         2222,
			ProductCodes: []string{"IU"},
			ProjectPaths: []string{"/opt/app"},
		},
	}
}

// Static serves a fixed list of configs. The list can be swapped with Set.
type Static struct {
	mu      sync.RWMutex
	configs []environment.Config
}

// NewStatic creates a Static source. A nil configs serves DefaultConfigs.
func NewStatic(configs []environment.Config) *Static {
	if configs == nil {
		configs = DefaultConfigs()
	}
	s := &Static{}
	s.Set(configs)
	return s
}

// Set replaces the served list.
func (s *Static) Set(configs []environment.Config) {
	cloned := make([]environment.Config, len(configs))
	for i, cfg := range configs {
		cloned[i] = cfg.Clone()
	}

	s.mu.Lock()
	s.configs = cloned
	s.mu.Unlock()
}

// Fetch implements DataSource.
func (s *Static) Fetch(ctx context.Context) ([]environment.Config, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]environment.Config, len(s.configs))
	for i, cfg := range s.configs {
		out[i] = cfg.Clone()
	}
	return out, nil
}
