package config

import (
	"os"
	"path/filepath"
	"time"
)

const (
	cdpDevelopmentURL = "https://data-sharing.dev.supplier-information.find-tender.service.gov.uk"
	cdpIntegrationURL = "https://data-sharing.integration.supplier-information.find-tender.service.gov.uk"
	cdpProductionURL  = "https://data-sharing.supplier-information.find-tender.service.gov.uk"

	historyFileName = "history"
	defaultRetryMax = 3
)

// GetDefaultConfig returns the built-in configuration. Stage keys match the
// stage names accepted on the command line plus "production".
func GetDefaultConfig() ApishellConfig {
	localEndpoints := StageEndpoints{
		API:       "http://localhost:5000",
		SearchAPI: "http://localhost:5009",
		CDPAPI:    cdpDevelopmentURL,
	}

	return ApishellConfig{
		Stages: map[string]StageEndpoints{
			"local":       localEndpoints,
			"development": localEndpoints,
			"preview": {
				API:       "https://api.preview.marketplace.team",
				SearchAPI: "https://search-api.preview.marketplace.team",
				CDPAPI:    cdpDevelopmentURL,
			},
			"pre-production": {
				API:       "https://api.staging.marketplace.team",
				SearchAPI: "https://search-api.staging.marketplace.team",
				CDPAPI:    cdpIntegrationURL,
			},
			"production": {
				API:       "https://api.digitalmarketplace.service.gov.uk",
				SearchAPI: "https://search-api.digitalmarketplace.service.gov.uk",
				CDPAPI:    cdpProductionURL,
			},
		},
		Shell: ShellSettings{
			HistoryFile:  defaultHistoryFile(),
			OutputFormat: OutputFormatJSON,
		},
		HTTP: HTTPSettings{
			Timeout:  30 * time.Second,
			RetryMax: intPtr(defaultRetryMax),
		},
	}
}

// defaultHistoryFile keeps shell history next to the user config, falling
// back to the temp dir when there is no home directory.
func defaultHistoryFile() string {
	dir, err := GetUserConfigDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".apishell_history")
	}
	return filepath.Join(dir, historyFileName)
}

func intPtr(i int) *int {
	return &i
}
