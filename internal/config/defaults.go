package config

import (
	"envrepo/internal/datasource"
	"envrepo/internal/repository"
)

const (
	// DefaultMetricsAddress is where serve exposes /metrics when enabled.
	DefaultMetricsAddress = "localhost:9464"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// GetDefaultConfig returns the configuration used when no config.yaml exists.
func GetDefaultConfig() EnvrepoConfig {
	return EnvrepoConfig{
		RefreshInterval: repository.DefaultRefreshInterval,
		FetchTimeout:    repository.DefaultFetchTimeout,
		Source: SourceConfig{
			Type:     SourceTypeStatic,
			Debounce: datasource.DefaultDebounceInterval,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
		Metrics: MetricsConfig{
			Enabled: false, // Requires explicit enablement
			Address: DefaultMetricsAddress,
		},
		View: ViewConfig{
			Type: ViewTypeManual,
		},
	}
}
