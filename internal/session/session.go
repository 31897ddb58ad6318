// Package session turns command-line options into the immutable
// configuration of one apishell run: which stage is targeted, which
// services have credentials, and where each service lives.
package session

import (
	"errors"
	"fmt"

	"apishell/internal/stage"
)

// LocalPlaceholderToken is used for the Data and Search APIs on the local
// stage when no token is given. Local API instances accept any token.
const LocalPlaceholderToken = "myToken"

// ErrNoTokens is returned when none of the three services has a token.
var ErrNoTokens = errors.New("Must supply one of --api-token, --search-api-token or --cdp-api-token to access the client")

// Service identifies one of the backend APIs.
type Service string

const (
	ServiceData   Service = "data"
	ServiceSearch Service = "search"
	ServiceCDP    Service = "cdp"
)

// Services lists every service in construction order.
func Services() []Service {
	return []Service{ServiceData, ServiceSearch, ServiceCDP}
}

// DisplayName is the human-readable name used in progress messages.
func (s Service) DisplayName() string {
	switch s {
	case ServiceData:
		return "Data API"
	case ServiceSearch:
		return "Search API"
	case ServiceCDP:
		return "Central Digital Platform API"
	default:
		return string(s)
	}
}

// Options are the raw command-line inputs.
type Options struct {
	Stage          string
	APIURL         string
	APIToken       string
	SearchAPIURL   string
	SearchAPIToken string
	CDPAPIURL      string
	CDPAPIToken    string
	ReadWrite      bool
}

// Endpoint is a resolved service location plus its credential.
type Endpoint struct {
	URL   string
	Token string
}

// Session is the resolved, immutable configuration of a run.
// A nil endpoint means the service has no token and is not constructed.
type Session struct {
	Stage     stage.Stage
	User      string
	ReadWrite bool

	Data   *Endpoint
	Search *Endpoint
	CDP    *Endpoint
}

// Endpoint returns the endpoint for service, or nil when it is not configured.
func (s *Session) Endpoint(service Service) *Endpoint {
	switch service {
	case ServiceData:
		return s.Data
	case ServiceSearch:
		return s.Search
	case ServiceCDP:
		return s.CDP
	default:
		return nil
	}
}

// EndpointResolver maps a stage to service URLs. *stage.Resolver implements it.
type EndpointResolver interface {
	APIEndpoint(s stage.Stage, app stage.App) (string, error)
	CDPAPIEndpoint(s stage.Stage) (string, error)
}

// Tokens applies the stage's token defaults to the explicit tokens.
// On the local stage Data and Search fall back to LocalPlaceholderToken;
// the CDP token never has a default.
func Tokens(st stage.Stage, opts Options) (api, search, cdp string) {
	api, search, cdp = opts.APIToken, opts.SearchAPIToken, opts.CDPAPIToken
	if st.IsLocal() {
		if api == "" {
			api = LocalPlaceholderToken
		}
		if search == "" {
			search = LocalPlaceholderToken
		}
	}
	return api, search, cdp
}

// Resolve validates opts and builds the Session. It returns ErrNoTokens
// when no service has a token. URLs are only resolved for services that
// will be constructed; explicit URL overrides skip the resolver entirely.
func Resolve(opts Options, user string, resolver EndpointResolver) (*Session, error) {
	st, err := stage.Parse(opts.Stage)
	if err != nil {
		return nil, err
	}

	apiToken, searchToken, cdpToken := Tokens(st, opts)
	if apiToken == "" && searchToken == "" && cdpToken == "" {
		return nil, ErrNoTokens
	}

	s := &Session{
		Stage:     st,
		User:      user,
		ReadWrite: opts.ReadWrite,
	}

	if apiToken != "" {
		url, err := resolveURL(opts.APIURL, func() (string, error) { return resolver.APIEndpoint(st, stage.AppAPI) })
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s URL: %w", ServiceData.DisplayName(), err)
		}
		s.Data = &Endpoint{URL: url, Token: apiToken}
	}

	if searchToken != "" {
		url, err := resolveURL(opts.SearchAPIURL, func() (string, error) { return resolver.APIEndpoint(st, stage.AppSearchAPI) })
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s URL: %w", ServiceSearch.DisplayName(), err)
		}
		s.Search = &Endpoint{URL: url, Token: searchToken}
	}

	if cdpToken != "" {
		url, err := resolveURL(opts.CDPAPIURL, func() (string, error) { return resolver.CDPAPIEndpoint(st) })
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s URL: %w", ServiceCDP.DisplayName(), err)
		}
		s.CDP = &Endpoint{URL: url, Token: cdpToken}
	}

	return s, nil
}

func resolveURL(override string, fallback func() (string, error)) (string, error) {
	if override != "" {
		return override, nil
	}
	return fallback()
}
