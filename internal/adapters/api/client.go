package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kamal-hamza/folio-cli/internal/core/domain"
	"github.com/kamal-hamza/folio-cli/internal/core/ports"
)

// DefaultPublicTimeout bounds public reads; the backend may be cold-starting
const DefaultPublicTimeout = 15 * time.Second

const adminPrefix = "/api/admin/"

// RawBody is sent as-is (multipart uploads, binary payloads)
type RawBody struct {
	ContentType string
	Reader      io.Reader
}

// Client is the API gateway: it attaches the held credential, normalizes error
// bodies and forces a logout when the backend rejects the credential
type Client struct {
	httpclient    *http.Client
	session       ports.SessionStore
	publicTimeout time.Duration
	logger        *log.Logger

	mu             sync.RWMutex
	api            string
	onUnauthorized func()
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying http client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpclient = hc }
}

// WithPublicTimeout sets the upper bound on public reads
func WithPublicTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.publicTimeout = d
		}
	}
}

// WithLogger sets the logger for failed calls
func WithLogger(l *log.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewClient creates a gateway for the backend rooted at apiRoot
func NewClient(apiRoot string, session ports.SessionStore, opts ...Option) (*Client, error) {
	if err := domain.ValidateHTTPURL("api_url", apiRoot); err != nil {
		return nil, err
	}

	c := &Client{
		httpclient:    new(http.Client),
		session:       session,
		publicTimeout: DefaultPublicTimeout,
		logger:        log.New(io.Discard, "", 0),
		api:           strings.TrimSuffix(apiRoot, "/"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the backend root currently in use
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.api
}

// SetBaseURL points the client at another backend
func (c *Client) SetBaseURL(apiRoot string) error {
	if err := domain.ValidateHTTPURL("api_url", apiRoot); err != nil {
		return err
	}
	c.mu.Lock()
	c.api = strings.TrimSuffix(apiRoot, "/")
	c.mu.Unlock()
	return nil
}

// OnUnauthorized registers the logged-out transition run on HTTP 401
func (c *Client) OnUnauthorized(fn func()) {
	c.mu.Lock()
	c.onUnauthorized = fn
	c.mu.Unlock()
}

// BasicToken encodes username and password as a Basic-Auth token
func BasicToken(username, password string) string {
	return domain.BasicToken(username, password)
}

// RequiresAuth reports whether endpoint needs a credential
func RequiresAuth(endpoint string) bool {
	return strings.HasPrefix(endpoint, adminPrefix)
}

// Call implements ports.Gateway
func (c *Client) Call(ctx context.Context, method, endpoint string, body any, out any) error {
	resp, cancel, err := c.do(ctx, method, endpoint, body)
	if err != nil {
		return err
	}
	defer cancel()
	defer resp.Body.Close()

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to decode response from %s %s: %w", method, endpoint, err)
	}
	return nil
}

// Stream performs a GET and hands the raw body to handler
func (c *Client) Stream(ctx context.Context, endpoint string, handler func(io.Reader) error) error {
	resp, cancel, err := c.do(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	defer cancel()
	defer resp.Body.Close()
	return handler(resp.Body)
}

func (c *Client) do(ctx context.Context, method, endpoint string, body any) (*http.Response, context.CancelFunc, error) {
	token, hasToken := c.session.Token()
	authRequired := RequiresAuth(endpoint)
	if authRequired && !hasToken {
		return nil, nil, &domain.AuthError{Reason: "not logged in"}
	}

	reader, contentType, err := encodeBody(body)
	if err != nil {
		return nil, nil, err
	}

	cancel := context.CancelFunc(func() {})
	if !authRequired && method == http.MethodGet {
		ctx, cancel = context.WithTimeout(ctx, c.publicTimeout)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.apipath(endpoint), reader)
	if err != nil {
		cancel()
		return nil, nil, fmt.Errorf("failed to build request: %w", err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("Accept", "application/json")
	if hasToken {
		req.Header.Set("Authorization", "Basic "+token)
	}

	resp, err := c.httpclient.Do(req)
	if err != nil {
		cancel()
		netErr := &domain.NetworkError{
			Op:      method + " " + endpoint,
			Err:     err,
			Timeout: isTimeout(err),
		}
		c.logger.Printf("%v", netErr)
		return nil, nil, netErr
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer cancel()
		defer resp.Body.Close()
		httpErr := errorFromResponse(resp)
		c.logger.Printf("%s %s: %v", method, endpoint, httpErr)

		if resp.StatusCode == http.StatusUnauthorized {
			return nil, nil, c.forceLogout(httpErr.Detail)
		}
		return nil, nil, httpErr
	}

	return resp, cancel, nil
}

func (c *Client) forceLogout(reason string) error {
	if err := c.session.Clear(); err != nil {
		c.logger.Printf("failed to clear session: %v", err)
	}

	c.mu.RLock()
	hook := c.onUnauthorized
	c.mu.RUnlock()
	if hook != nil {
		hook()
	}

	if reason == "" {
		reason = "credentials rejected"
	}
	return &domain.AuthError{Reason: reason}
}

// build URL with path
func (c *Client) apipath(endpoint string) string {
	return c.BaseURL() + "/" + strings.TrimPrefix(endpoint, "/")
}

func encodeBody(body any) (io.Reader, string, error) {
	switch b := body.(type) {
	case nil:
		return nil, "", nil
	case RawBody:
		return b.Reader, b.ContentType, nil
	case *RawBody:
		return b.Reader, b.ContentType, nil
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			return nil, "", fmt.Errorf("failed to encode request body: %w", err)
		}
		return bytes.NewReader(buf), "application/json", nil
	}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
