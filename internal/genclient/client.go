// Package genclient calls a remote generation service over HTTP.
package genclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"ai4l/internal/session"
	"ai4l/pkg/types"
)

const (
	// DefaultEndpoint is where the form posts by default.
	DefaultEndpoint = "http://localhost:8080/api/generate"
	// DefaultTimeout bounds one call when Config.Timeout is zero.
	DefaultTimeout = 60 * time.Second

	maxResponseBytes = 4 << 20
)

// Config holds client settings.
type Config struct {
	// Endpoint is the full URL of the generate route.
	Endpoint string
	// Timeout bounds each call, including reading the body. Zero uses DefaultTimeout.
	Timeout   time.Duration
	UserAgent string
}

// Client implements session.Generator.
type Client struct {
	endpoint *url.URL
	hc       *http.Client
	ua       string
	log      zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client. Its Timeout is kept.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// WithLogger installs a structured logger.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.log = l }
}

var _ session.Generator = (*Client)(nil)

// New validates cfg and returns a Client.
func New(cfg Config, opts ...Option) (*Client, error) {
	ep := strings.TrimSpace(cfg.Endpoint)
	if ep == "" {
		ep = DefaultEndpoint
	}
	u, err := url.Parse(ep)
	if err != nil {
		return nil, fmt.Errorf("parse endpoint: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("endpoint %q: scheme must be http or https", ep)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("endpoint %q: missing host", ep)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ua := cfg.UserAgent
	if ua == "" {
		ua = "ai4l"
	}
	c := &Client{
		endpoint: u,
		hc:       &http.Client{Timeout: timeout},
		ua:       ua,
		log:      zerolog.Nop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// Endpoint returns the generate URL.
func (c *Client) Endpoint() string { return c.endpoint.String() }

// Generate posts req and decodes the reply. Failures are returned as
// *session.TransportError or *session.ResponseShapeError.
func (c *Client) Generate(ctx context.Context, req types.GenerateRequest) (types.GenerateResponse, error) {
	start := time.Now()
	resp, err := c.generate(ctx, req)
	observe(err, time.Since(start))
	return resp, err
}

func (c *Client) generate(ctx context.Context, req types.GenerateRequest) (types.GenerateResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return types.GenerateResponse{}, &session.TransportError{Message: "encode request: " + err.Error(), Err: err}
	}
	hreq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return types.GenerateResponse{}, &session.TransportError{Message: err.Error(), Err: err}
	}
	hreq.Header.Set("Content-Type", "application/json")
	hreq.Header.Set("Accept", "application/json")
	hreq.Header.Set("User-Agent", c.ua)
	if id := session.SubmissionID(ctx); id != "" {
		hreq.Header.Set("X-Request-ID", id)
	}

	c.log.Debug().Str("url", c.endpoint.String()).Str("model", req.Model).Msg("generate request")
	res, err := c.hc.Do(hreq)
	if err != nil {
		return types.GenerateResponse{}, transportError(err)
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return types.GenerateResponse{}, transportError(err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return types.GenerateResponse{}, &session.TransportError{StatusCode: res.StatusCode, Message: errorMessage(res.StatusCode, raw)}
	}
	return decodeGenerateResponse(raw)
}

// Catalog fetches GET <endpoint dir>/models, e.g. /api/models next to /api/generate.
func (c *Client) Catalog(ctx context.Context) (types.Catalog, error) {
	u := c.endpoint.ResolveReference(&url.URL{Path: "models"})
	hreq, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return types.Catalog{}, err
	}
	hreq.Header.Set("Accept", "application/json")
	hreq.Header.Set("User-Agent", c.ua)
	res, err := c.hc.Do(hreq)
	if err != nil {
		return types.Catalog{}, transportError(err)
	}
	defer res.Body.Close()
	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseBytes))
	if err != nil {
		return types.Catalog{}, transportError(err)
	}
	if res.StatusCode != http.StatusOK {
		return types.Catalog{}, &session.TransportError{StatusCode: res.StatusCode, Message: errorMessage(res.StatusCode, raw)}
	}
	var cat types.Catalog
	if err := json.Unmarshal(raw, &cat); err != nil {
		return types.Catalog{}, &session.ResponseShapeError{Message: "catalog: " + err.Error(), Err: err}
	}
	if len(cat.Models) == 0 {
		return types.Catalog{}, &session.ResponseShapeError{Message: "catalog lists no models"}
	}
	return cat, nil
}

// wireResponse distinguishes missing keys from empty values.
type wireResponse struct {
	GeneratedText *string `json:"generated_text"`
	Status        *string `json:"status"`
}

func decodeGenerateResponse(raw []byte) (types.GenerateResponse, error) {
	var w wireResponse
	if err := json.Unmarshal(raw, &w); err != nil {
		return types.GenerateResponse{}, &session.ResponseShapeError{Message: err.Error(), Err: err}
	}
	if w.GeneratedText == nil {
		return types.GenerateResponse{}, &session.ResponseShapeError{Message: "missing generated_text"}
	}
	if w.Status == nil {
		return types.GenerateResponse{}, &session.ResponseShapeError{Message: "missing status"}
	}
	return types.GenerateResponse{GeneratedText: *w.GeneratedText, Status: *w.Status}, nil
}

// errorMessage prefers the service's ErrorResponse text over the raw body.
func errorMessage(status int, raw []byte) string {
	var er types.ErrorResponse
	if err := json.Unmarshal(raw, &er); err == nil && er.Error != "" {
		return er.Error
	}
	if s := strings.TrimSpace(string(raw)); s != "" && len(s) <= 200 {
		return s
	}
	return http.StatusText(status)
}

func transportError(err error) error {
	msg := err.Error()
	var ue *url.Error
	if errors.As(err, &ue) {
		if ue.Timeout() {
			msg = "request timed out"
		} else if ue.Err != nil {
			msg = ue.Err.Error()
		}
	}
	if errors.Is(err, context.DeadlineExceeded) {
		msg = "request timed out"
	}
	return &session.TransportError{Message: msg, Err: err}
}
