package apiclient

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
)

// DataReader is the read-only operation set of the Data API.
type DataReader interface {
	GetBaseURL() string
	GetStatus(ctx context.Context) (Object, error)
	GetSupplier(ctx context.Context, supplierID int) (Object, error)
	FindSuppliers(ctx context.Context, params Params) (Object, error)
	GetService(ctx context.Context, serviceID string) (Object, error)
	FindServices(ctx context.Context, params Params) (Object, error)
	GetDraftService(ctx context.Context, draftID int) (Object, error)
	FindDraftServices(ctx context.Context, supplierID int, params Params) (Object, error)
	GetFramework(ctx context.Context, slug string) (Object, error)
	FindFrameworks(ctx context.Context) (Object, error)
	GetUser(ctx context.Context, userID int) (Object, error)
	FindUsers(ctx context.Context, params Params) (Object, error)
	GetBrief(ctx context.Context, briefID int) (Object, error)
	FindBriefs(ctx context.Context, params Params) (Object, error)
}

var _ DataReader = (*DataClient)(nil)

// DataClient talks to the Data API. Write operations record the configured
// user as "updated_by".
type DataClient struct {
	*baseClient
	user string
}

// NewDataClient creates a Data API client. No request is made until an
// operation is called.
func NewDataClient(baseURL, authToken, user string, opts Options) *DataClient {
	return &DataClient{
		baseClient: newBaseClient(baseURL, bearer(authToken), opts),
		user:       user,
	}
}

// GetBaseURL returns the API root this client targets.
func (c *DataClient) GetBaseURL() string {
	return c.baseURL
}

func (c *DataClient) GetStatus(ctx context.Context) (Object, error) {
	return c.get(ctx, "/_status", nil)
}

func (c *DataClient) GetSupplier(ctx context.Context, supplierID int) (Object, error) {
	return c.get(ctx, fmt.Sprintf("/suppliers/%d", supplierID), nil)
}

func (c *DataClient) FindSuppliers(ctx context.Context, params Params) (Object, error) {
	return c.get(ctx, "/suppliers", params.values())
}

func (c *DataClient) GetService(ctx context.Context, serviceID string) (Object, error) {
	return c.get(ctx, "/services/"+url.PathEscape(serviceID), nil)
}

func (c *DataClient) FindServices(ctx context.Context, params Params) (Object, error) {
	return c.get(ctx, "/services", params.values())
}

func (c *DataClient) GetDraftService(ctx context.Context, draftID int) (Object, error) {
	return c.get(ctx, fmt.Sprintf("/draft-services/%d", draftID), nil)
}

func (c *DataClient) FindDraftServices(ctx context.Context, supplierID int, params Params) (Object, error) {
	query := params.values()
	query.Set("supplier_id", strconv.Itoa(supplierID))
	return c.get(ctx, "/draft-services", query)
}

func (c *DataClient) GetFramework(ctx context.Context, slug string) (Object, error) {
	return c.get(ctx, "/frameworks/"+url.PathEscape(slug), nil)
}

func (c *DataClient) FindFrameworks(ctx context.Context) (Object, error) {
	return c.get(ctx, "/frameworks", nil)
}

func (c *DataClient) GetUser(ctx context.Context, userID int) (Object, error) {
	return c.get(ctx, fmt.Sprintf("/users/%d", userID), nil)
}

func (c *DataClient) FindUsers(ctx context.Context, params Params) (Object, error) {
	return c.get(ctx, "/users", params.values())
}

func (c *DataClient) GetBrief(ctx context.Context, briefID int) (Object, error) {
	return c.get(ctx, fmt.Sprintf("/briefs/%d", briefID), nil)
}

func (c *DataClient) FindBriefs(ctx context.Context, params Params) (Object, error) {
	return c.get(ctx, "/briefs", params.values())
}

// UpdateSupplier changes the given supplier fields.
func (c *DataClient) UpdateSupplier(ctx context.Context, supplierID int, fields Object) (Object, error) {
	return c.post(ctx, fmt.Sprintf("/suppliers/%d", supplierID), c.payload("suppliers", fields))
}

// UpdateService changes the given service fields.
func (c *DataClient) UpdateService(ctx context.Context, serviceID string, fields Object) (Object, error) {
	return c.post(ctx, "/services/"+url.PathEscape(serviceID), c.payload("services", fields))
}

// CreateUser registers a new user account.
func (c *DataClient) CreateUser(ctx context.Context, fields Object) (Object, error) {
	return c.post(ctx, "/users", c.payload("users", fields))
}

// UpdateUser changes the given user fields.
func (c *DataClient) UpdateUser(ctx context.Context, userID int, fields Object) (Object, error) {
	return c.post(ctx, fmt.Sprintf("/users/%d", userID), c.payload("users", fields))
}

// UpdateBrief changes the given brief fields.
func (c *DataClient) UpdateBrief(ctx context.Context, briefID int, fields Object) (Object, error) {
	return c.post(ctx, fmt.Sprintf("/briefs/%d", briefID), c.payload("briefs", fields))
}

// PublishBrief moves a brief to the live status.
func (c *DataClient) PublishBrief(ctx context.Context, briefID int) (Object, error) {
	return c.post(ctx, fmt.Sprintf("/briefs/%d/status", briefID), c.payload("briefs", Object{"status": "live"}))
}

// DeleteBrief removes a draft brief.
func (c *DataClient) DeleteBrief(ctx context.Context, briefID int) (Object, error) {
	return c.delete(ctx, fmt.Sprintf("/briefs/%d", briefID), Object{"updated_by": c.user})
}

func (c *DataClient) payload(key string, fields Object) Object {
	if fields == nil {
		fields = Object{}
	}
	return Object{key: fields, "updated_by": c.user}
}
