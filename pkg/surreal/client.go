package surreal

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/samvad-hq/surreal-http/pkg/httpclient"
)

// Client issues requests against one namespace/database pair.
type Client struct {
	cfg     Config
	headers map[string]string
	http    httpclient.Client
	timeout time.Duration
	log     Logger
	setup   []func(*Client)
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the transport used for requests.
func WithHTTPClient(h httpclient.Client) Option {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithTimeout sets the request timeout of the default resty transport.
// It has no effect when WithHTTPClient is also given.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		c.timeout = d
	}
}

// WithLogger attaches a logger for request diagnostics.
func WithLogger(log Logger) Option {
	return func(c *Client) {
		c.log = ensureLogger(log)
	}
}

// WithSetup registers a callback invoked with the fully built client before New returns.
func WithSetup(fn func(*Client)) Option {
	return func(c *Client) {
		if fn != nil {
			c.setup = append(c.setup, fn)
		}
	}
}

// New builds a Client for cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg = cfg.sanitized()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:     cfg,
		headers: cfg.headers(),
		log:     noopLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.http == nil {
		c.http = httpclient.NewRestyClient(c.timeout)
	}

	for _, fn := range c.setup {
		fn(c)
	}
	c.setup = nil
	return c, nil
}

// Use builds a client for cfg and hands it to fn, returning fn's error.
func Use(ctx context.Context, cfg Config, fn func(context.Context, *Client) error, opts ...Option) error {
	if fn == nil {
		return fmt.Errorf("surreal: callback is nil")
	}
	c, err := New(cfg, opts...)
	if err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return fn(ctx, c)
}

// Config returns a copy of the client's connection settings.
func (c *Client) Config() Config { return c.cfg }

// URL returns the normalized base URL.
func (c *Client) URL() string { return c.cfg.URL }

// Request sends method to path (relative to the base URL) and returns the
// result of the first statement envelope.
//
// body may be nil, a pre-encoded string/[]byte/json.RawMessage, or any value
// that encodes to JSON.
func (c *Client) Request(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	ex, err := c.exchange(ctx, method, path, body)
	if err != nil {
		return nil, err
	}
	return ex.envelopes[0].Result, nil
}

type exchange struct {
	statusCode int
	raw        []byte
	body       any
	envelopes  []Response
}

func (c *Client) exchange(ctx context.Context, method, path string, body any) (*exchange, error) {
	if c == nil || c.http == nil {
		return nil, fmt.Errorf("surreal: client is not initialized")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		return nil, fmt.Errorf("surreal: method is required")
	}

	payload, err := encodeBody(body)
	if err != nil {
		return nil, fmt.Errorf("surreal: encode body: %w", err)
	}

	start := time.Now()
	resp, err := c.http.Do(ctx, httpclient.Request{
		Method:   method,
		URL:      c.cfg.URL + strings.TrimLeft(path, "/"),
		Headers:  c.headers,
		Username: c.cfg.Username,
		Password: c.cfg.Password,
		Body:     payload,
	})
	if err != nil {
		c.log.WarnObj("surreal request failed", "surreal_transport_error", map[string]any{
			"method": method,
			"path":   path,
			"error":  err.Error(),
		})
		return nil, newTransportError(err)
	}

	ex := &exchange{statusCode: resp.StatusCode(), raw: resp.Body()}
	c.log.DebugObj("surreal request completed", "surreal_request", map[string]any{
		"method":     method,
		"path":       path,
		"status":     ex.statusCode,
		"elapsed_ms": time.Since(start).Milliseconds(),
	})

	envelopes, parsed, perr := parseEnvelopes(ex.raw)
	ex.body = parsed
	ex.envelopes = envelopes

	if ex.statusCode < 200 || ex.statusCode >= 300 {
		return nil, newServerError(ex.statusCode, ex.raw, ex.body, nil)
	}
	if perr != nil {
		return nil, newServerError(ex.statusCode, ex.raw, ex.body, perr)
	}
	if !envelopes[0].OK() {
		return nil, newServerError(ex.statusCode, ex.raw, ex.body, nil)
	}
	return ex, nil
}
