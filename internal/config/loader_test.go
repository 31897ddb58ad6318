package config

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"apishell/pkg/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Helper function to create a temporary config file
func createTempConfigFile(t *testing.T, dir string, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0755))
	tempFilePath := filepath.Join(dir, configFileName)
	err := os.WriteFile(tempFilePath, []byte(content), 0644)
	require.NoError(t, err)
	return tempFilePath
}

// mockConfigPaths points both config layers at the given paths for the duration of the test.
func mockConfigPaths(t *testing.T, userPath, projectPath string) {
	t.Helper()
	originalGetUserConfigPath := getUserConfigPath
	originalGetProjectConfigPath := getProjectConfigPath
	t.Cleanup(func() {
		getUserConfigPath = originalGetUserConfigPath
		getProjectConfigPath = originalGetProjectConfigPath
	})

	getUserConfigPath = func() (string, error) { return userPath, nil }
	getProjectConfigPath = func() (string, error) { return projectPath, nil }
}

func TestLoadConfig_DefaultOnly(t *testing.T) {
	tempDir := t.TempDir()
	mockConfigPaths(t,
		filepath.Join(tempDir, "non-existent-user-config.yaml"),
		filepath.Join(tempDir, "non-existent-project-config.yaml"),
	)

	loadedConfig, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig(), loadedConfig)
}

func TestLoadConfig_UserOverride(t *testing.T) {
	tempDir := t.TempDir()
	userPath := createTempConfigFile(t, filepath.Join(tempDir, "user"), `
stages:
  preview:
    api: "https://api.example.test"
shell:
  outputFormat: yaml
http:
  timeout: 5s
`)
	mockConfigPaths(t, userPath, filepath.Join(tempDir, "missing.yaml"))

	loadedConfig, err := LoadConfig()
	require.NoError(t, err)

	defaults := GetDefaultConfig()
	preview := loadedConfig.Stages["preview"]
	assert.Equal(t, "https://api.example.test", preview.API)
	assert.Equal(t, defaults.Stages["preview"].SearchAPI, preview.SearchAPI, "unset fields keep defaults")
	assert.Equal(t, defaults.Stages["preview"].CDPAPI, preview.CDPAPI)
	assert.Equal(t, OutputFormatYAML, loadedConfig.Shell.OutputFormat)
	assert.Equal(t, 5*time.Second, loadedConfig.HTTP.Timeout)
	assert.Equal(t, defaults.HTTP.Retries(), loadedConfig.HTTP.Retries())
}

func TestLoadConfig_ProjectOverridesUser(t *testing.T) {
	tempDir := t.TempDir()
	userPath := createTempConfigFile(t, filepath.Join(tempDir, "user"), `
stages:
  development:
    api: "http://user.example.test"
http:
  retryMax: 7
`)
	projectPath := createTempConfigFile(t, filepath.Join(tempDir, "project"), `
stages:
  development:
    api: "http://project.example.test"
`)
	mockConfigPaths(t, userPath, projectPath)

	loadedConfig, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "http://project.example.test", loadedConfig.Stages["development"].API)
	assert.Equal(t, 7, loadedConfig.HTTP.Retries())
}

func TestLoadConfig_NewStage(t *testing.T) {
	tempDir := t.TempDir()
	userPath := createTempConfigFile(t, filepath.Join(tempDir, "user"), `
stages:
  sandbox:
    api: "http://sandbox.example.test"
`)
	mockConfigPaths(t, userPath, filepath.Join(tempDir, "missing.yaml"))

	loadedConfig, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, StageEndpoints{API: "http://sandbox.example.test"}, loadedConfig.Stages["sandbox"])
	assert.Contains(t, loadedConfig.Stages, "local", "defaults are kept")
}

func TestLoadConfig_MalformedFile(t *testing.T) {
	tempDir := t.TempDir()
	userPath := createTempConfigFile(t, filepath.Join(tempDir, "user"), "stages: [this is not a map")
	mockConfigPaths(t, userPath, filepath.Join(tempDir, "missing.yaml"))

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error loading user config")
}

func TestLoadConfig_InvalidOutputFormat(t *testing.T) {
	tempDir := t.TempDir()
	projectPath := createTempConfigFile(t, filepath.Join(tempDir, "project"), `
shell:
  outputFormat: xml
`)
	mockConfigPaths(t, filepath.Join(tempDir, "missing.yaml"), projectPath)

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "outputFormat")
}

func TestMergeConfigs_DoesNotMutateBase(t *testing.T) {
	base := GetDefaultConfig()
	overlay := ApishellConfig{
		Stages: map[string]StageEndpoints{"local": {API: "http://changed"}},
	}

	merged := mergeConfigs(base, overlay)

	assert.Equal(t, "http://changed", merged.Stages["local"].API)
	assert.Equal(t, "http://localhost:5000", base.Stages["local"].API)
}

func TestGetUserConfigDir(t *testing.T) {
	originalOsUserHomeDir := osUserHomeDir
	defer func() { osUserHomeDir = originalOsUserHomeDir }()

	osUserHomeDir = func() (string, error) { return "/home/dev", nil }

	dir, err := GetUserConfigDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/dev", ".config", "apishell"), dir)
}

func TestLoadConfig_RetryMaxZeroDisablesRetries(t *testing.T) {
	tempDir := t.TempDir()
	userPath := createTempConfigFile(t, filepath.Join(tempDir, "user"), `
http:
  retryMax: 4
`)
	projectPath := createTempConfigFile(t, filepath.Join(tempDir, "project"), `
http:
  retryMax: 0
`)
	mockConfigPaths(t, userPath, projectPath)

	loadedConfig, err := LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, loadedConfig.HTTP.RetryMax)
	assert.Equal(t, 0, loadedConfig.HTTP.Retries())
}

func TestLoadConfig_NegativeRetryMax(t *testing.T) {
	tempDir := t.TempDir()
	projectPath := createTempConfigFile(t, filepath.Join(tempDir, "project"), `
http:
  retryMax: -1
`)
	mockConfigPaths(t, filepath.Join(tempDir, "missing.yaml"), projectPath)

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid http.retryMax -1")
}

func TestHTTPSettings_RetriesUnset(t *testing.T) {
	assert.Equal(t, 0, HTTPSettings{}.Retries())
	assert.Equal(t, 3, GetDefaultConfig().HTTP.Retries())
}

func TestLoadConfig_UnknownPathsAreLoggedAsWarnings(t *testing.T) {
	var buf bytes.Buffer
	logging.InitForCLI(logging.LevelWarn, &buf)

	originalGetUserConfigPath := getUserConfigPath
	originalGetProjectConfigPath := getProjectConfigPath
	t.Cleanup(func() {
		getUserConfigPath = originalGetUserConfigPath
		getProjectConfigPath = originalGetProjectConfigPath
	})
	getUserConfigPath = func() (string, error) { return "", errors.New("no home") }
	getProjectConfigPath = func() (string, error) { return "", errors.New("no cwd") }

	loadedConfig, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, GetDefaultConfig().Stages, loadedConfig.Stages)

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "subsystem=config")
	assert.Contains(t, out, "could not determine user config path: no home")
	assert.Contains(t, out, "could not determine project config path: no cwd")
}

func TestGetUserConfigPath_UnderUserConfigDir(t *testing.T) {
	originalOsUserHomeDir := osUserHomeDir
	defer func() { osUserHomeDir = originalOsUserHomeDir }()

	osUserHomeDir = func() (string, error) { return "/home/dev", nil }

	path, err := getUserConfigPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/home/dev", ".config", "apishell", "config.yaml"), path)
}

func TestDefaultHistoryFile(t *testing.T) {
	originalOsUserHomeDir := osUserHomeDir
	defer func() { osUserHomeDir = originalOsUserHomeDir }()

	osUserHomeDir = func() (string, error) { return "/home/dev", nil }
	assert.Equal(t, filepath.Join("/home/dev", ".config", "apishell", "history"), GetDefaultConfig().Shell.HistoryFile)

	osUserHomeDir = func() (string, error) { return "", errors.New("no home") }
	assert.Equal(t, filepath.Join(os.TempDir(), ".apishell_history"), GetDefaultConfig().Shell.HistoryFile)
}
