package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"envrepo/pkg/logging"

	"gopkg.in/yaml.v3"
)

const (
	userConfigDir  = ".config/envrepo"
	configFileName = "config.yaml"
)

// GetDefaultConfigPathOrPanic returns ~/.config/envrepo.
func GetDefaultConfigPathOrPanic() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		panic(fmt.Errorf("could not determine user config directory: %w", err))
	}

	return filepath.Join(homeDir, userConfigDir)
}

// LoadConfig loads config.yaml from configPath on top of the defaults and
// validates the result.
func LoadConfig(configPath string) (EnvrepoConfig, error) {
	configFilePath := filepath.Join(configPath, configFileName)
	config := GetDefaultConfig()

	data, err := os.ReadFile(configFilePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logging.Info("ConfigLoader", "No config.yaml found at %s, using defaults", configFilePath)
			return config, nil
		}
		return EnvrepoConfig{}, &ConfigurationError{
			FilePath:  configFilePath,
			ErrorType: "io",
			Message:   "could not read config file",
			Details:   err.Error(),
			Cause:     err,
		}
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return EnvrepoConfig{}, &ConfigurationError{
			FilePath:    configFilePath,
			ErrorType:   "parse",
			Message:     "config file is not valid YAML",
			Details:     err.Error(),
			Suggestions: []string{"Durations use Go syntax, for example 30s or 10m"},
			Cause:       err,
		}
	}

	if err := config.Validate(); err != nil {
		return EnvrepoConfig{}, &ConfigurationError{
			FilePath:  configFilePath,
			ErrorType: "validation",
			Message:   "config file has invalid values",
			Details:   err.Error(),
			Cause:     err,
		}
	}

	if config.Source.Type == SourceTypeFile && !filepath.IsAbs(config.Source.Path) {
		config.Source.Path = filepath.Join(configPath, config.Source.Path)
	}

	logging.Info("ConfigLoader", "Loaded configuration from %s", configFilePath)
	return config, nil
}
