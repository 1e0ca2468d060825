// Package api is the thin HTTP wrapper over the restaurant backend: it
// resolves logical endpoints, attaches the bearer token and classifies
// failures through the central error handler.
package api

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/Sam414141/Digital-MenuCard-sub001/apperr"
	"github.com/Sam414141/Digital-MenuCard-sub001/logger"
)

// TokenSource supplies the bearer token for outgoing requests. An empty
// token means the request goes out unauthenticated.
type TokenSource interface {
	Token() string
}

// TokenFunc adapts a function to TokenSource
type TokenFunc func() string

func (f TokenFunc) Token() string { return f() }

// Request carries everything a call needs besides the endpoint
type Request struct {
	Params Params     // dynamic path segments
	Query  url.Values // query string
	Body   any        // JSON-encoded when non-nil
}

// Option tweaks how a single call reports failures
type Option func(*apperr.Options)

// SkipAuthRedirect keeps a 401 on this call from logging the user out.
// Staff status updates use it so a transient 401 does not bounce them out of
// an active screen.
func SkipAuthRedirect() Option {
	return func(o *apperr.Options) { o.SkipAuthRedirect = true }
}

// Silent suppresses the toast for this call
func Silent() Option {
	return func(o *apperr.Options) { o.Silent = true }
}

type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenSource
	errors  *apperr.Handler
	log     *logger.Logger
}

type ClientOption func(*Client)

// WithHTTPClient replaces the default http.Client, e.g. with an httptest one
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.http = hc }
}

// WithTokenSource attaches bearer tokens from ts
func WithTokenSource(ts TokenSource) ClientOption {
	return func(c *Client) { c.tokens = ts }
}

// WithErrorHandler reports failures to h instead of a silent default handler
func WithErrorHandler(h *apperr.Handler) ClientOption {
	return func(c *Client) { c.errors = h }
}

func NewClient(baseURL string, timeout time.Duration, opts ...ClientOption) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		tokens:  TokenFunc(func() string { return "" }),
		errors:  apperr.NewHandler(nil),
		log:     logger.New("api"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetTokenSource swaps the token source after construction
func (c *Client) SetTokenSource(ts TokenSource) { c.tokens = ts }

// Do issues exactly one attempt of category.action. On a 2xx response the
// body is decoded into out (when out is non-nil); any failure is classified,
// reported to the error handler and returned as *apperr.Error.
func (c *Client) Do(ctx context.Context, category, action string, req Request, out any, opts ...Option) error {
	err := c.attempt(ctx, category, action, req, out)
	if err == nil {
		return nil
	}
	return c.errors.Handle(ctx, err, handlerOptions(opts))
}

// DoRetry is Do under Retry, for idempotent reads. Only the final failure
// reaches the error handler, so the user sees one toast per call.
func (c *Client) DoRetry(ctx context.Context, p Policy, category, action string, req Request, out any, opts ...Option) error {
	err := Retry(ctx, p, func(ctx context.Context) error {
		return c.attempt(ctx, category, action, req, out)
	})
	if err == nil {
		return nil
	}
	return c.errors.Handle(ctx, err, handlerOptions(opts))
}

func handlerOptions(opts []Option) apperr.Options {
	var ho apperr.Options
	for _, o := range opts {
		o(&ho)
	}
	return ho
}

// attempt runs one request and returns a classified error tagged with its op
func (c *Client) attempt(ctx context.Context, category, action string, req Request, out any) error {
	err := c.do(ctx, category, action, req, out)
	if err == nil {
		return nil
	}
	e := apperr.Classify(err)
	if e.Op == "" {
		e.Op = category + "." + action
	}
	return e
}

func (c *Client) do(ctx context.Context, category, action string, req Request, out any) error {
	ep, path, err := Resolve(category, action, req.Params)
	if err != nil {
		return err
	}

	u := c.baseURL + path
	if len(req.Query) > 0 {
		u += "?" + req.Query.Encode()
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return apperr.Validation(category+"."+action, "cannot encode request: "+err.Error())
		}
		body = bytes.NewReader(b)
	}

	hreq, err := http.NewRequestWithContext(ctx, ep.Method, u, body)
	if err != nil {
		return apperr.Validation(category+"."+action, err.Error())
	}
	hreq.Header.Set("Accept", "application/json")
	if body != nil {
		hreq.Header.Set("Content-Type", "application/json")
	}
	if tok := c.tokens.Token(); tok != "" {
		hreq.Header.Set("Authorization", "Bearer "+tok)
	}

	start := time.Now()
	resp, err := c.http.Do(hreq)
	if err != nil {
		return apperr.FromTransport(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.FromTransport(err)
	}
	c.log.Debug("api_call", map[string]any{
		"method": ep.Method, "path": path, "status": resp.StatusCode,
		"duration_ms": time.Since(start).Milliseconds(),
	})

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return apperr.FromStatus(resp.StatusCode, serverMessage(raw))
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &apperr.Error{Kind: apperr.KindUnknown, Status: resp.StatusCode,
			Message: "unexpected response from server", Err: fmt.Errorf("decode %s: %w", path, err)}
	}
	return nil
}

// serverMessage pulls the human-readable text out of an error body
func serverMessage(raw []byte) string {
	var body struct {
		Error   any    `json:"error"`
		Message string `json:"message"`
		Detail  string `json:"detail"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		return ""
	}
	if s, ok := body.Error.(string); ok && s != "" {
		return s
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Detail
}

func (c *Client) Get(ctx context.Context, category, action string, params Params, query url.Values, out any, opts ...Option) error {
	return c.Do(ctx, category, action, Request{Params: params, Query: query}, out, opts...)
}

func (c *Client) Post(ctx context.Context, category, action string, params Params, body, out any, opts ...Option) error {
	return c.Do(ctx, category, action, Request{Params: params, Body: body}, out, opts...)
}

func (c *Client) Put(ctx context.Context, category, action string, params Params, body, out any, opts ...Option) error {
	return c.Do(ctx, category, action, Request{Params: params, Body: body}, out, opts...)
}

func (c *Client) Patch(ctx context.Context, category, action string, params Params, body, out any, opts ...Option) error {
	return c.Do(ctx, category, action, Request{Params: params, Body: body}, out, opts...)
}

func (c *Client) Delete(ctx context.Context, category, action string, params Params, out any, opts ...Option) error {
	return c.Do(ctx, category, action, Request{Params: params}, out, opts...)
}

// ID formats a numeric id as a path parameter set
func ID(id uint) Params {
	return Params{"id": fmt.Sprint(id)}
}
