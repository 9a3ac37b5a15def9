package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"

	"github.com/custodia-labs/admindesk/internal/core/domain"
	"github.com/custodia-labs/admindesk/internal/core/ports/driving"
	"github.com/custodia-labs/admindesk/internal/logger"
)

// Ensure Client implements the interface.
var _ driving.APIClient = (*Client)(nil)

// HeaderRequestID carries a per-attempt identifier for backend log correlation.
const HeaderRequestID = "X-Request-ID"

// Session is the part of the session the client needs for bearer auth.
type Session interface {
	AccessToken(ctx context.Context) (string, bool)
	Refresh(ctx context.Context) (string, error)
}

// Client sends requests to the backend and normalizes every response.
type Client struct {
	mu         sync.RWMutex
	baseURL    string
	timeout    time.Duration
	noRetry    []string
	limiter    *RateLimiter
	session    Session
	httpClient *http.Client
	newReqID   func() string
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying transport client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithSession attaches the session used for bearer tokens and 401 recovery.
func WithSession(s Session) Option {
	return func(c *Client) {
		c.session = s
	}
}

// NewClient creates a client for cfg.
func NewClient(cfg domain.ClientConfig, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		newReqID:   uuid.NewString,
	}
	c.Configure(cfg)
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Configure applies a new configuration. Requests already in flight keep the
// settings they started with.
func (c *Client) Configure(cfg domain.ClientConfig) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.baseURL = strings.TrimRight(cfg.BaseURL, "/")
	c.timeout = cfg.Timeout
	if c.timeout <= 0 {
		c.timeout = domain.DefaultClientConfig().Timeout
	}
	c.noRetry = append([]string(nil), cfg.NoRetryPaths...)
	c.limiter = NewRateLimiter(cfg.RateLimit, cfg.RateBurst)
}

// SetSession attaches the session after construction. The session and the
// client depend on each other, so one side has to be wired late.
func (c *Client) SetSession(s Session) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.session = s
}

// BaseURL returns the configured base URL.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// settings is a consistent view of the client configuration for one request.
type settings struct {
	baseURL string
	timeout time.Duration
	noRetry []string
	limiter *RateLimiter
	session Session
}

func (c *Client) snapshot() settings {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return settings{
		baseURL: c.baseURL,
		timeout: c.timeout,
		noRetry: c.noRetry,
		limiter: c.limiter,
		session: c.session,
	}
}

func (s settings) skipRefresh(path string) bool {
	for _, prefix := range s.noRetry {
		if prefix != "" && strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// Request sends method to path with the current access token, if any.
//
// A 401 is recovered by one shared refresh and exactly one retry with the new
// token. The retried response is returned whatever its status; a second 401 is
// not retried.
func (c *Client) Request(
	ctx context.Context, method, path string, body any, headers http.Header,
) *domain.Envelope {
	s := c.snapshot()

	token, err := NewTokenSource(ctx, s.session).Token()
	if err != nil {
		logger.Debug("http: %s %s: sending without bearer: %v", method, path, err)
	}

	env := c.send(ctx, s, method, path, body, headers, token)
	if env.Status != http.StatusUnauthorized {
		return env
	}

	if s.session == nil || s.skipRefresh(path) {
		logger.Debug("http: %s %s: 401 returned without refresh", method, path)
		return unauthenticated(env, nil)
	}

	fresh, err := s.session.Refresh(ctx)
	if err != nil || fresh == "" {
		logger.Warn("http: %s %s: refresh after 401 failed: %v", method, path, err)
		return unauthenticated(env, err)
	}

	logger.Debug("http: %s %s: retrying with refreshed token", method, path)
	retried := c.send(ctx, s, method, path, body, headers, bearer(fresh))
	if retried.Status == http.StatusUnauthorized {
		return unauthenticated(retried, nil)
	}
	return retried
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, path string) *domain.Envelope {
	return c.Request(ctx, http.MethodGet, path, nil, nil)
}

// Post sends a POST request with a JSON body.
func (c *Client) Post(ctx context.Context, path string, body any) *domain.Envelope {
	return c.Request(ctx, http.MethodPost, path, body, nil)
}

// Put sends a PUT request with a JSON body.
func (c *Client) Put(ctx context.Context, path string, body any) *domain.Envelope {
	return c.Request(ctx, http.MethodPut, path, body, nil)
}

// Patch sends a PATCH request with a JSON body.
func (c *Client) Patch(ctx context.Context, path string, body any) *domain.Envelope {
	return c.Request(ctx, http.MethodPatch, path, body, nil)
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, path string) *domain.Envelope {
	return c.Request(ctx, http.MethodDelete, path, nil, nil)
}

// Upload sends a multipart form with POST.
func (c *Client) Upload(ctx context.Context, path string, form *domain.FormData) *domain.Envelope {
	return c.Request(ctx, http.MethodPost, path, form, nil)
}

// Fetch sends one unauthenticated request without the 401 protocol.
// It is used for the login and refresh endpoints themselves.
func (c *Client) Fetch(ctx context.Context, method, path string, body any) *domain.Envelope {
	return c.send(ctx, c.snapshot(), method, path, body, nil, nil)
}

// send performs a single attempt bounded by the configured timeout.
func (c *Client) send(
	ctx context.Context, s settings, method, path string, body any, headers http.Header, token *oauth2.Token,
) *domain.Envelope {
	parent := ctx
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return transportFailure(parent, s.timeout, fmt.Errorf("rate limit: %w", err))
		}
	}

	payload, contentType, err := encodeBody(body)
	if err != nil {
		return transportFailure(parent, s.timeout, err)
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return transportFailure(parent, s.timeout, fmt.Errorf("create request: %w", err))
	}

	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	if _, isForm := body.(*domain.FormData); isForm {
		req.Header.Del("Content-Type")
	}
	if contentType != "" && req.Header.Get("Content-Type") == "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(HeaderRequestID, c.newReqID())
	masked := logger.MaskToken("")
	if token != nil {
		token.SetAuthHeader(req)
		masked = logger.MaskToken(token.AccessToken)
	}

	logger.Debug("http: %s %s (token %s)", method, path, masked)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transportFailure(parent, s.timeout, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return transportFailure(parent, s.timeout, fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode == http.StatusTooManyRequests && s.limiter != nil {
		s.limiter.RecordRateLimitError(retryAfter(resp.Header))
	}

	env := ParseEnvelope(resp.StatusCode, data)
	logger.Debug("http: %s %s -> %d (%s)", method, path, env.Status, env.Shape)
	return env
}

// encodeBody serializes body as JSON unless it is a multipart form.
func encodeBody(body any) ([]byte, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case *domain.FormData:
		if b == nil {
			return nil, "", nil
		}
		return b.Encode()
	default:
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, "", fmt.Errorf("encode body: %w", err)
		}
		return payload, "application/json", nil
	}
}

// transportFailure builds the envelope for a request that got no response.
func transportFailure(parent context.Context, timeout time.Duration, err error) *domain.Envelope {
	if errors.Is(err, context.DeadlineExceeded) && parent.Err() == nil {
		err = fmt.Errorf("request timed out after %s: %w", timeout, err)
	}

	raw, _ := json.Marshal(err.Error())
	logger.Warn("http: %v", err)

	return &domain.Envelope{
		Success: false,
		Message: err.Error(),
		Error:   raw,
		Shape:   domain.ShapeTransport,
		Cause:   err,
	}
}

// unauthenticated marks env as an unrecovered 401.
func unauthenticated(env *domain.Envelope, cause error) *domain.Envelope {
	env.Success = false
	env.Unauthenticated = true
	if cause != nil {
		env.Cause = cause
		if env.Message == "" {
			env.Message = cause.Error()
		}
	}
	return env
}
