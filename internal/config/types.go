package config

import "time"

// EnvrepoConfig is the top-level configuration structure for envrepo.
type EnvrepoConfig struct {
	RefreshInterval time.Duration      `yaml:"refreshInterval,omitempty"` // Time between polls (default: 10m)
	FetchTimeout    time.Duration      `yaml:"fetchTimeout,omitempty"`    // Bound on a single fetch (default: 1m, negative disables)
	Source          SourceConfig       `yaml:"source"`
	Logging         LoggingConfig      `yaml:"logging"`
	Metrics         MetricsConfig      `yaml:"metrics"`
	View            ViewConfig         `yaml:"view"`
	Localization    LocalizationConfig `yaml:"localization"`
}

// SourceType selects the data source implementation.
type SourceType string

const (
	SourceTypeStatic SourceType = "static"
	SourceTypeFile   SourceType = "file"
)

// SourceConfig describes where environment configs come from.
type SourceConfig struct {
	Type     SourceType    `yaml:"type,omitempty"`     // static or file (default: static)
	Path     string        `yaml:"path,omitempty"`     // Required for file
	Watch    bool          `yaml:"watch,omitempty"`    // Refresh when the file changes
	Debounce time.Duration `yaml:"debounce,omitempty"` // Quiet period before a watched change triggers a refresh
}

// LoggingConfig controls the process logger.
type LoggingConfig struct {
	Level  string `yaml:"level,omitempty"`  // debug, info, warn or error
	Format string `yaml:"format,omitempty"` // text or json
}

// MetricsConfig controls the Prometheus endpoint started by serve.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled,omitempty"`
	Address string `yaml:"address,omitempty"`
}

// ViewType selects the contents view factory.
type ViewType string

const (
	ViewTypeManual ViewType = "manual"
	ViewTypeSSH    ViewType = "ssh"
)

// ViewConfig selects how contents views are built.
type ViewConfig struct {
	Type            ViewType `yaml:"type,omitempty"`
	DefaultUsername string   `yaml:"defaultUsername,omitempty"` // Used by ssh when a config has no username
}

// LocalizationConfig controls how descriptions and messages are rendered.
type LocalizationConfig struct {
	Templates bool              `yaml:"templates,omitempty"` // Render text as templates
	Vars      map[string]string `yaml:"vars,omitempty"`
}
