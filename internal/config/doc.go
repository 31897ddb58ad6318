// Package config provides configuration management for apishell.
//
// This package implements a layered configuration system that allows users to
// customize apishell's behavior through YAML files. Configuration is loaded from
// multiple sources and merged in a specific order, with later sources overriding
// earlier ones.
//
// # Configuration Layers
//
// Configuration is loaded and merged in the following order:
//
//  1. Default Configuration (embedded in binary)
//     - Endpoint URLs for every known stage
//     - Ensures apishell works out-of-the-box
//
//  2. User Configuration (~/.config/apishell/config.yaml)
//     - User-specific settings that apply to all checkouts
//
//  3. Project Configuration (./.apishell/config.yaml)
//     - Settings for the current working directory
//
// # Configuration Structure
//
//	stages:
//	  preview:
//	    api: "https://api.preview.marketplace.team"
//	    searchAPI: "https://search-api.preview.marketplace.team"
//	    cdpAPI: "https://data-sharing.dev.supplier-information.find-tender.service.gov.uk"
//
//	shell:
//	  historyFile: "/tmp/.apishell_history"  # default: ~/.config/apishell/history
//	  outputFormat: "yaml"   # or "json"
//
//	http:
//	  timeout: "30s"
//	  retryMax: 3            # retries of failed reads; 0 disables them
//
// Writes are never retried.
//
// Stage entries are merged field by field: an overlay that only sets
// searchAPI keeps the default api and cdpAPI URLs.
//
// Credentials are never read from configuration files.
package config
