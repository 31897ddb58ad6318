package apiclient

import (
	"context"
	"net/url"
)

// SearchClient talks to the Search API. Index changes record the configured
// user as "updated_by", as DataClient writes do.
type SearchClient struct {
	*baseClient
	user string
}

// NewSearchClient creates a Search API client. No request is made until an
// operation is called.
func NewSearchClient(baseURL, authToken, user string, opts Options) *SearchClient {
	return &SearchClient{
		baseClient: newBaseClient(baseURL, bearer(authToken), opts),
		user:       user,
	}
}

// GetBaseURL returns the API root this client targets.
func (c *SearchClient) GetBaseURL() string {
	return c.baseURL
}

func (c *SearchClient) GetStatus(ctx context.Context) (Object, error) {
	return c.get(ctx, "/_status", nil)
}

// Search runs a query against docType documents in index.
func (c *SearchClient) Search(ctx context.Context, index, docType string, params Params) (Object, error) {
	return c.get(ctx, docPath(index, docType)+"/search", params.values())
}

// Aggregate counts documents per value of each named field.
func (c *SearchClient) Aggregate(ctx context.Context, index, docType string, aggregations []string, params Params) (Object, error) {
	query := params.values()
	for _, field := range aggregations {
		query.Add("aggregations", field)
	}
	return c.get(ctx, docPath(index, docType)+"/aggregations", query)
}

// Index adds or replaces a document.
func (c *SearchClient) Index(ctx context.Context, index, docType, id string, document Object) (Object, error) {
	return c.put(ctx, docPath(index, docType)+"/"+url.PathEscape(id), Object{"document": document, "updated_by": c.user})
}

// Delete removes a document.
func (c *SearchClient) Delete(ctx context.Context, index, docType, id string) (Object, error) {
	return c.delete(ctx, docPath(index, docType)+"/"+url.PathEscape(id), Object{"updated_by": c.user})
}

// CreateIndex creates index using a named mapping.
func (c *SearchClient) CreateIndex(ctx context.Context, index, mapping string) (Object, error) {
	return c.put(ctx, "/"+url.PathEscape(index), Object{"type": "index", "mapping": mapping, "updated_by": c.user})
}

// SetAlias points alias at target.
func (c *SearchClient) SetAlias(ctx context.Context, alias, target string) (Object, error) {
	return c.put(ctx, "/"+url.PathEscape(alias), Object{"type": "alias", "target": target, "updated_by": c.user})
}

func docPath(index, docType string) string {
	return "/" + url.PathEscape(index) + "/" + url.PathEscape(docType)
}
