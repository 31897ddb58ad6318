// Package stage names the deployment stages apishell can target and maps
// each stage to the base URLs of the backend APIs.
package stage

import (
	"fmt"
	"strings"

	"apishell/internal/config"
)

// Stage is a named deployment environment.
type Stage string

const (
	Local         Stage = "local"
	Development   Stage = "development"
	Preview       Stage = "preview"
	PreProduction Stage = "pre-production"
	Production    Stage = "production"
)

// Default is used when no stage argument is given.
const Default = Local

// Selectable lists the stages accepted on the command line, in display order.
// Production is deliberately absent: it only exists for URL mapping and prompt styling.
func Selectable() []Stage {
	return []Stage{Local, Development, Preview, PreProduction}
}

// Names returns Selectable as plain strings, for cobra's ValidArgs.
func Names() []string {
	stages := Selectable()
	names := make([]string, 0, len(stages))
	for _, s := range stages {
		names = append(names, string(s))
	}
	return names
}

// Parse validates a command-line stage token. An empty token yields Default.
func Parse(s string) (Stage, error) {
	if s == "" {
		return Default, nil
	}
	for _, candidate := range Selectable() {
		if string(candidate) == s {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid stage %q (choose from %s)", s, strings.Join(Names(), ", "))
}

// IsLocal reports whether the stage runs against a developer's own machine.
func (s Stage) IsLocal() bool {
	return s == Local
}

// IsProduction reports whether the stage is the live service.
func (s Stage) IsProduction() bool {
	return s == Production
}

func (s Stage) String() string {
	return string(s)
}

// App identifies one of the backend APIs.
type App string

const (
	AppAPI       App = "api"
	AppSearchAPI App = "search-api"
	AppCDPAPI    App = "cdp-api"
)

// Resolver maps stages to endpoint URLs using the loaded configuration.
type Resolver struct {
	stages map[string]config.StageEndpoints
}

// NewResolver creates a resolver over the stage table of cfg.
func NewResolver(cfg config.ApishellConfig) *Resolver {
	return &Resolver{stages: cfg.Stages}
}

// APIEndpoint returns the base URL of app for the stage.
func (r *Resolver) APIEndpoint(s Stage, app App) (string, error) {
	endpoints, ok := r.stages[string(s)]
	if !ok {
		return "", fmt.Errorf("no endpoints configured for stage %q", s)
	}

	var url string
	switch app {
	case AppAPI:
		url = endpoints.API
	case AppSearchAPI:
		url = endpoints.SearchAPI
	case AppCDPAPI:
		url = endpoints.CDPAPI
	default:
		return "", fmt.Errorf("unknown app %q", app)
	}

	if url == "" {
		return "", fmt.Errorf("no %s endpoint configured for stage %q", app, s)
	}
	return url, nil
}

// CDPAPIEndpoint returns the Central Digital Platform API base URL for the stage.
func (r *Resolver) CDPAPIEndpoint(s Stage) (string, error) {
	return r.APIEndpoint(s, AppCDPAPI)
}
