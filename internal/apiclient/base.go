package apiclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// Object is a decoded JSON object.
type Object = map[string]any

// Params are query-string parameters.
type Params map[string]string

func (p Params) values() url.Values {
	v := url.Values{}
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v.Set(k, p[k])
	}
	return v
}

const (
	defaultTimeout = 30 * time.Second
	maxBodyBytes   = 16 << 20
)

// Options tune the HTTP layer shared by all clients.
type Options struct {
	UserAgent string
	Timeout   time.Duration
	RetryMax  int
	// Logger receives retry diagnostics; *slog.Logger satisfies it.
	Logger retryablehttp.LeveledLogger
}

// APIError is returned for responses outside the 2xx range.
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s %s: http %d", e.Method, e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s %s: http %d: %s", e.Method, e.URL, e.StatusCode, e.Message)
}

type baseClient struct {
	baseURL   string
	headers   http.Header
	userAgent string
	// http retries reads; once sends writes exactly once so a failed
	// update or create is never repeated.
	http *retryablehttp.Client
	once *retryablehttp.Client
}

func newBaseClient(baseURL string, headers http.Header, opts Options) *baseClient {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := newRetryClient(opts.RetryMax, opts.Logger)
	client.HTTPClient.Timeout = timeout

	once := newRetryClient(0, opts.Logger)
	once.HTTPClient = client.HTTPClient

	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = "apishell"
	}

	return &baseClient{
		baseURL:   strings.TrimRight(baseURL, "/"),
		headers:   headers,
		userAgent: userAgent,
		http:      client,
		once:      once,
	}
}

func newRetryClient(retryMax int, logger retryablehttp.LeveledLogger) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.RetryMax = retryMax
	client.ErrorHandler = retryablehttp.PassthroughErrorHandler
	client.Logger = nil
	if logger != nil {
		client.Logger = logger
	}
	return client
}

// clientFor picks the retrying client for safe methods only.
func (c *baseClient) clientFor(method string) *retryablehttp.Client {
	switch method {
	case http.MethodGet, http.MethodHead:
		return c.http
	default:
		return c.once
	}
}

func (c *baseClient) get(ctx context.Context, path string, query url.Values) (Object, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

func (c *baseClient) post(ctx context.Context, path string, body any) (Object, error) {
	return c.do(ctx, http.MethodPost, path, nil, body)
}

func (c *baseClient) put(ctx context.Context, path string, body any) (Object, error) {
	return c.do(ctx, http.MethodPut, path, nil, body)
}

func (c *baseClient) delete(ctx context.Context, path string, body any) (Object, error) {
	return c.do(ctx, http.MethodDelete, path, nil, body)
}

func (c *baseClient) do(ctx context.Context, method, path string, query url.Values, body any) (Object, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var rawBody any
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode %s %s request: %w", method, path, err)
		}
		rawBody = b
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, method, endpoint, rawBody)
	if err != nil {
		return nil, err
	}
	for k, values := range c.headers {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	// With PassthroughErrorHandler an exhausted retry still yields the last
	// response, which carries the API's own error message.
	resp, err := c.clientFor(method).Do(req)
	if resp == nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", method, path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &APIError{
			Method:     method,
			URL:        endpoint,
			StatusCode: resp.StatusCode,
			Message:    errorMessage(data),
		}
	}

	if len(strings.TrimSpace(string(data))) == 0 {
		return Object{}, nil
	}

	var out Object
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("parse %s %s response: %w", method, path, err)
	}
	return out, nil
}

// errorMessage extracts the "error" field the APIs use for failures, falling
// back to the raw body.
func errorMessage(body []byte) string {
	var parsed struct {
		Error any `json:"error"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil && parsed.Error != nil {
		if s, ok := parsed.Error.(string); ok {
			return s
		}
		if b, err := json.Marshal(parsed.Error); err == nil {
			return string(b)
		}
	}
	return strings.TrimSpace(string(body))
}

func bearer(token string) http.Header {
	h := http.Header{}
	h.Set("Authorization", "Bearer "+token)
	return h
}
