// Package http implements the JSON request executor shared by every
// resource client. It owns authentication headers, correlation IDs, the
// opt-in retry policy, and the normalization of every failure into a
// *codepush.Error.
package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"

	"github.com/souhouse/code-push/internal/constants"
	"github.com/souhouse/code-push/pkg/codepush"
)

// Request describes one management API call. Body is marshaled to JSON when
// non-nil. ExpectBody marks calls whose 2xx response must carry a parseable
// payload; an empty body on such calls is an internal server error.
type Request struct {
	Method     string
	Path       string
	Query      url.Values
	Body       interface{}
	Headers    map[string]string
	ExpectBody bool
}

// Response is the raw outcome of a management API call.
type Response struct {
	StatusCode int
	Headers    http.Header
	Body       []byte
}

// Client executes management API requests.
type Client struct {
	baseURL       string
	accessKey     string
	userAgent     string
	customHeaders map[string]string
	httpClient    *retryablehttp.Client
	logger        codepush.Logger
	debug         bool
}

// Option configures a Client.
type Option func(*Client)

// WithLogger sets the logger used for debug logging.
func WithLogger(logger codepush.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithDebug enables request/response debug logging.
func WithDebug(debug bool) Option {
	return func(c *Client) {
		c.debug = debug
	}
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(userAgent string) Option {
	return func(c *Client) {
		if userAgent != "" {
			c.userAgent = userAgent
		}
	}
}

// WithCustomHeaders adds headers sent with every request.
func WithCustomHeaders(headers map[string]string) Option {
	return func(c *Client) {
		c.customHeaders = headers
	}
}

// WithProxy routes all requests through the given proxy.
func WithProxy(proxyURL *url.URL) Option {
	return func(c *Client) {
		if proxyURL == nil {
			return
		}
		if transport, ok := c.httpClient.HTTPClient.Transport.(*http.Transport); ok {
			transport.Proxy = http.ProxyURL(proxyURL)
		}
	}
}

// WithRetryConfig enables retries on transient failures. Retries are off by
// default: callers see the first failure unless they opt in.
func WithRetryConfig(maxRetries int, waitMin, waitMax time.Duration) Option {
	return func(c *Client) {
		c.httpClient.RetryMax = maxRetries
		c.httpClient.RetryWaitMin = waitMin
		c.httpClient.RetryWaitMax = waitMax
	}
}

// NewClient creates a request executor for the given server. The access key
// may be empty, in which case every request fails locally with an
// unauthorized error before touching the network.
func NewClient(baseURL, accessKey string, opts ...Option) *Client {
	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 0
	retryClient.RetryWaitMin = constants.DefaultRetryWaitMin
	retryClient.RetryWaitMax = constants.DefaultRetryWaitMax
	retryClient.HTTPClient.Timeout = constants.DefaultHTTPTimeout
	retryClient.Logger = nil
	// Hand exhausted-retry responses back so they normalize like any other
	// failed status instead of vanishing into a transport error.
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler

	client := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		accessKey:  accessKey,
		userAgent:  constants.DefaultUserAgent,
		httpClient: retryClient,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Do executes a single request and normalizes the outcome: non-2xx statuses
// and transport failures come back as *codepush.Error, while the Response is
// returned whenever the server produced one.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	if c.accessKey == "" {
		return nil, codepush.NewError("an access key is required to authenticate", codepush.StatusUnauthorized)
	}

	fullURL := c.baseURL + req.Path
	if len(req.Query) > 0 {
		fullURL += "?" + req.Query.Encode()
	}

	var payload interface{}
	if req.Body != nil {
		marshaled, err := json.Marshal(req.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		payload = marshaled
	}

	httpReq, err := retryablehttp.NewRequestWithContext(ctx, req.Method, fullURL, payload)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	httpReq.Header.Set("Authorization", "Bearer "+c.accessKey)
	httpReq.Header.Set("Accept", fmt.Sprintf("application/vnd.code-push.v%d+json", constants.APIVersion))
	httpReq.Header.Set("User-Agent", c.userAgent)
	httpReq.Header.Set("X-Request-Id", uuid.NewString())
	if req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	for key, value := range c.customHeaders {
		httpReq.Header.Set(key, value)
	}
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Request", map[string]interface{}{
			"method": req.Method,
			"url":    fullURL,
		})
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if httpResp != nil {
			_ = httpResp.Body.Close()
		}
		return nil, codepush.NewError(fmt.Sprintf("request to %s failed: %v", fullURL, err), codepush.StatusGatewayTimeout)
	}
	defer func() { _ = httpResp.Body.Close() }()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, codepush.NewError(fmt.Sprintf("failed to read response from %s: %v", fullURL, err), codepush.StatusGatewayTimeout)
	}

	resp := &Response{
		StatusCode: httpResp.StatusCode,
		Headers:    httpResp.Header,
		Body:       body,
	}

	if c.debug && c.logger != nil {
		c.logger.Debug("HTTP Response", map[string]interface{}{
			"status": resp.StatusCode,
			"size":   len(resp.Body),
		})
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return resp, errorFromResponse(resp.StatusCode, resp.Body)
	}
	if req.ExpectBody && len(strings.TrimSpace(string(resp.Body))) == 0 {
		return resp, codepush.NewError(fmt.Sprintf("could not parse response from %s: body is empty", req.Path), codepush.StatusInternalServerError)
	}
	return resp, nil
}

// Get performs a GET request. GET responses always carry a payload.
func (c *Client) Get(ctx context.Context, path string, query url.Values) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodGet, Path: path, Query: query, ExpectBody: true})
}

// Post performs a POST request. expectBody distinguishes creations that
// return the new resource from fire-and-forget actions.
func (c *Client) Post(ctx context.Context, path string, body interface{}, expectBody bool) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPost, Path: path, Body: body, ExpectBody: expectBody})
}

// Patch performs a PATCH request. Patches do not expect a payload back.
func (c *Client) Patch(ctx context.Context, path string, body interface{}) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodPatch, Path: path, Body: body})
}

// Delete performs a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) (*Response, error) {
	return c.Do(ctx, &Request{Method: http.MethodDelete, Path: path})
}

// errorFromResponse turns a failed status into the normalized error. The
// backend reports failures as {"message": ...}; plain-text bodies and empty
// bodies degrade to the body itself and the generic status text.
func errorFromResponse(statusCode int, body []byte) *codepush.Error {
	message := ""
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		message = parsed.Message
	}
	if message == "" {
		message = strings.TrimSpace(string(body))
	}
	if message == "" {
		message = http.StatusText(statusCode)
	}
	return codepush.NewError(message, statusCode)
}
