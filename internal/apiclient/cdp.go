package apiclient

import (
	"context"
	"net/http"
	"net/url"
)

const cdpAPIKeyHeader = "CDP-Api-Key"

// CDPClient talks to the Central Digital Platform data-sharing API.
type CDPClient struct {
	*baseClient
}

// NewCDPClient creates a CDP API client authenticated with an API key.
func NewCDPClient(baseURL, apiKey string, opts Options) *CDPClient {
	h := http.Header{}
	h.Set(cdpAPIKeyHeader, apiKey)
	return &CDPClient{baseClient: newBaseClient(baseURL, h, opts)}
}

// GetBaseURL returns the API root this client targets.
func (c *CDPClient) GetBaseURL() string {
	return c.baseURL
}

// GetSupplierInformation fetches the data a supplier shared under shareCode.
func (c *CDPClient) GetSupplierInformation(ctx context.Context, shareCode string) (Object, error) {
	return c.get(ctx, "/share/data/"+url.PathEscape(shareCode), nil)
}

// VerifyShareCode checks that shareCode was issued for the given form version.
func (c *CDPClient) VerifyShareCode(ctx context.Context, shareCode, formVersionID string) (Object, error) {
	return c.post(ctx, "/share/data/verify", Object{"shareCode": shareCode, "formVersionId": formVersionID})
}
