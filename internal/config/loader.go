package config

import (
	"fmt"
	"os"
	"path/filepath"

	"apishell/pkg/logging"

	"gopkg.in/yaml.v3"
)

// For mocking in tests
var osUserHomeDir = os.UserHomeDir
var osGetwd = os.Getwd

const (
	userConfigDir    = ".config/apishell"
	projectConfigDir = ".apishell"
	configFileName   = "config.yaml"
)

// LoadConfig loads the apishell configuration by layering default, user, and project settings.
func LoadConfig() (ApishellConfig, error) {
	// 1. Start with the default configuration
	config := GetDefaultConfig()

	// 2. Determine user-specific configuration path
	userConfigPath, err := getUserConfigPath()
	if err != nil {
		// Log this error but don't fail; user config is optional
		logging.Warn("config", "could not determine user config path: %v", err)
	} else {
		if _, err := os.Stat(userConfigPath); !os.IsNotExist(err) {
			userConfig, err := loadConfigFromFile(userConfigPath)
			if err != nil {
				return ApishellConfig{}, fmt.Errorf("error loading user config from %s: %w", userConfigPath, err)
			}
			config = mergeConfigs(config, userConfig)
		}
	}

	// 3. Determine project-specific configuration path
	projectConfigPath, err := getProjectConfigPath()
	if err != nil {
		logging.Warn("config", "could not determine project config path: %v", err)
	} else {
		if _, err := os.Stat(projectConfigPath); !os.IsNotExist(err) {
			projectConfig, err := loadConfigFromFile(projectConfigPath)
			if err != nil {
				return ApishellConfig{}, fmt.Errorf("error loading project config from %s: %w", projectConfigPath, err)
			}
			config = mergeConfigs(config, projectConfig)
		}
	}

	if err := config.Validate(); err != nil {
		return ApishellConfig{}, err
	}

	return config, nil
}

var getUserConfigPath = func() (string, error) {
	dir, err := GetUserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configFileName), nil
}

var getProjectConfigPath = func() (string, error) {
	wd, err := osGetwd() // Use mockable variable
	if err != nil {
		return "", err
	}
	return filepath.Join(wd, projectConfigDir, configFileName), nil
}

// loadConfigFromFile loads an ApishellConfig from a YAML file.
func loadConfigFromFile(filePath string) (ApishellConfig, error) {
	var config ApishellConfig
	data, err := os.ReadFile(filePath)
	if err != nil {
		return ApishellConfig{}, err
	}
	err = yaml.Unmarshal(data, &config)
	if err != nil {
		return ApishellConfig{}, err
	}
	return config, nil
}

// mergeConfigs merges 'overlay' config into 'base' config.
func mergeConfigs(base, overlay ApishellConfig) ApishellConfig {
	mergedConfig := base

	// Merge stage endpoints field by field so an overlay can override a single URL
	mergedConfig.Stages = make(map[string]StageEndpoints, len(base.Stages))
	for name, endpoints := range base.Stages {
		mergedConfig.Stages[name] = endpoints
	}
	for name, overlayEndpoints := range overlay.Stages {
		endpoints := mergedConfig.Stages[name]
		if overlayEndpoints.API != "" {
			endpoints.API = overlayEndpoints.API
		}
		if overlayEndpoints.SearchAPI != "" {
			endpoints.SearchAPI = overlayEndpoints.SearchAPI
		}
		if overlayEndpoints.CDPAPI != "" {
			endpoints.CDPAPI = overlayEndpoints.CDPAPI
		}
		mergedConfig.Stages[name] = endpoints
	}

	// Merge shell settings
	if overlay.Shell.HistoryFile != "" {
		mergedConfig.Shell.HistoryFile = overlay.Shell.HistoryFile
	}
	if overlay.Shell.OutputFormat != "" {
		mergedConfig.Shell.OutputFormat = overlay.Shell.OutputFormat
	}

	// Merge HTTP settings
	if overlay.HTTP.Timeout != 0 {
		mergedConfig.HTTP.Timeout = overlay.HTTP.Timeout
	}
	// A nil RetryMax is unset; an explicit 0 turns retries off.
	if overlay.HTTP.RetryMax != nil {
		mergedConfig.HTTP.RetryMax = overlay.HTTP.RetryMax
	}

	return mergedConfig
}

// Validate reports settings that would make the shell unusable.
func (c ApishellConfig) Validate() error {
	switch c.Shell.OutputFormat {
	case OutputFormatJSON, OutputFormatYAML:
	default:
		return fmt.Errorf("invalid shell.outputFormat %q (supported: %s, %s)", c.Shell.OutputFormat, OutputFormatJSON, OutputFormatYAML)
	}
	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("invalid http.timeout %s: must not be negative", c.HTTP.Timeout)
	}
	if c.HTTP.Retries() < 0 {
		return fmt.Errorf("invalid http.retryMax %d: must not be negative", c.HTTP.Retries())
	}
	return nil
}

// GetUserConfigDir returns the user configuration directory path
func GetUserConfigDir() (string, error) {
	homeDir, err := osUserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(homeDir, userConfigDir), nil
}
