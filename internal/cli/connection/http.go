package connection

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"sync"
	"time"

	"golang.org/x/net/publicsuffix"
	"golang.org/x/time/rate"

	"github.com/yndnr/clockschedule-go/internal/core/domain"
	"github.com/yndnr/clockschedule-go/internal/telemetry/logger"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of a failure body is read for its message.
const maxErrorBody = 64 << 10

// HTTPClient provides HTTP communication with the server.
type HTTPClient struct {
	mu      sync.RWMutex
	baseURL string

	client    *http.Client
	userAgent string
	limiter   *rate.Limiter
}

// Option configures an HTTPClient.
type Option func(*HTTPClient)

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *HTTPClient) {
		if d > 0 {
			c.client.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *HTTPClient) {
		c.userAgent = ua
	}
}

// WithRateLimit throttles login requests to r per second with the given burst.
func WithRateLimit(r rate.Limit, burst int) Option {
	return func(c *HTTPClient) {
		c.limiter = rate.NewLimiter(r, burst)
	}
}

// WithTLSConfig sets the TLS configuration of the default transport.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *HTTPClient) {
		t := http.DefaultTransport.(*http.Transport).Clone()
		t.TLSClientConfig = cfg
		c.client.Transport = t
	}
}

// NewHTTPClient creates a new HTTP client for the given base URL.
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}

	c := &HTTPClient{
		baseURL:   normalizeBaseURL(baseURL),
		userAgent: "clockschedule-cli",
		client: &http.Client{
			Timeout: DefaultTimeout,
			Jar:     jar,
		},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func normalizeBaseURL(server string) string {
	baseURL := strings.TrimSpace(server)
	if !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
		baseURL = "http://" + baseURL
	}
	return strings.TrimRight(baseURL, "/")
}

// BaseURL returns the base URL of the client.
func (c *HTTPClient) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL points later requests at a different server. The cookie jar is
// kept; cookies are scoped by host anyway.
func (c *HTTPClient) SetBaseURL(baseURL string) {
	c.mu.Lock()
	c.baseURL = normalizeBaseURL(baseURL)
	c.mu.Unlock()
}

// Login posts the credentials to the login endpoint.
//
// A transport failure returns domain.ErrNetwork. A non-2xx reply returns
// domain.ErrServerRejection wrapping a *domain.ResponseError. A 2xx body that
// is not a JSON object returns domain.ErrProtocolInconsistency.
func (c *HTTPClient) Login(ctx context.Context, creds domain.Credentials) (*domain.LoginResponse, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, domain.ErrNetwork.WithCause(err)
		}
	}

	start := time.Now()
	resp, err := c.Post(ctx, domain.LoginPath, creds)
	if err != nil {
		return nil, domain.ErrNetwork.WithCause(err)
	}

	logger.L(ctx).Debug("login response",
		"status", resp.StatusCode,
		"elapsed", time.Since(start))

	var out domain.LoginResponse
	if err := ParseResponse(resp, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Post performs a POST request with JSON body.
func (c *HTTPClient) Post(ctx context.Context, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL()+path, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	c.addHeaders(ctx, req)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	return c.client.Do(req)
}

func (c *HTTPClient) addHeaders(ctx context.Context, req *http.Request) {
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if id := logger.RequestIDFromContext(ctx); id != "" {
		req.Header.Set("X-Request-ID", id)
	}
}

// errorBody is the failure body shape. Only "message" is shown to the user.
type errorBody struct {
	Message string `json:"message"`
}

// ParseResponse parses a JSON response body into the target struct.
func ParseResponse(resp *http.Response, target any) error {
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respErr := &domain.ResponseError{StatusCode: resp.StatusCode}
		data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		if err == nil {
			var body errorBody
			if json.Unmarshal(data, &body) == nil {
				respErr.Message = body.Message
			}
		}
		return domain.ErrServerRejection.WithCause(respErr)
	}

	if target == nil {
		return nil
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.ErrNetwork.WithCause(fmt.Errorf("read response: %w", err))
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, target); err != nil {
		return domain.ErrProtocolInconsistency.WithCause(fmt.Errorf("parse response: %w", err))
	}
	return nil
}
