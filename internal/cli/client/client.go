// Package client implements the shopd API client: request signing, CSRF
// handling, the 401-triggered refresh-and-retry protocol, and one thin module
// per back-office resource.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/shopd-dev/shopd/internal/cli/session"
)

const (
	refreshPath    = "/api/auth/refresh"
	csrfTokenPath  = "/api/csrf-token"
	csrfCookieName = "csrf_token"
	csrfHeader     = "X-CSRF-Token"
)

// Client represents an HTTP client for the shopd platform API
type Client struct {
	baseURL    string
	httpClient *http.Client
	session    *session.Session
	log        zerolog.Logger
}

// New creates a new API client bound to a session
func New(baseURL string, sess *session.Session, log zerolog.Logger) *Client {
	// The jar holds the CSRF cookie set by the csrf-token endpoint
	jar, _ := cookiejar.New(nil)

	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
			Jar:     jar,
		},
		session: sess,
		log:     log,
	}
}

// SetHTTPClient sets a custom HTTP client. The CSRF cookie jar is carried
// over unless the new client brings its own.
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	if httpClient.Jar == nil {
		httpClient.Jar = c.httpClient.Jar
	}
	c.httpClient = httpClient
}

// Session returns the session the client signs requests with
func (c *Client) Session() *session.Session {
	return c.session
}

// request describes a single attempt. A replay after a refresh is a fresh
// value with retried set; the original is never mutated, so a request chain
// can trigger at most one refresh.
type request struct {
	method      string
	path        string
	query       url.Values
	body        any    // JSON-encoded when set
	raw         []byte // raw body (multipart uploads); wins over body
	contentType string
	retried     bool
}

// do performs one request attempt and returns the unwrapped payload.
// On a 401 that satisfies the refresh preconditions it refreshes the access
// token once and replays the request; on refresh failure it tears the whole
// session down and broadcasts a logout.
func (c *Client) do(ctx context.Context, r request) (json.RawMessage, error) {
	httpReq, err := c.newHTTPRequest(ctx, r)
	if err != nil {
		return nil, NormalizeRequest(err)
	}

	c.sign(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, NormalizeTransport(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, NormalizeTransport(err)
	}

	if resp.StatusCode == http.StatusUnauthorized && c.canRefresh(r) {
		if err := c.refresh(ctx); err != nil {
			c.session.Clear()
			c.session.NotifyLogout()
			return nil, err
		}
		replay := r
		replay.retried = true
		return c.do(ctx, replay)
	}

	if resp.StatusCode >= 400 {
		return nil, NormalizeHTTP(resp.StatusCode, body)
	}

	return unwrap(body), nil
}

// canRefresh evaluates the refresh preconditions for a 401: the request must
// not be the refresh call itself, must not already be a replay, and the
// session must hold both a user id and a refresh token. Each request chain
// evaluates this independently; concurrent chains may each refresh.
func (c *Client) canRefresh(r request) bool {
	if r.path == refreshPath || r.retried {
		return false
	}
	return c.session.UserID() != "" && c.session.RefreshToken() != ""
}

func (c *Client) newHTTPRequest(ctx context.Context, r request) (*http.Request, error) {
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	var reader io.Reader
	contentType := ""
	switch {
	case r.raw != nil:
		reader = bytes.NewReader(r.raw)
		contentType = r.contentType
	case r.body != nil:
		data, err := json.Marshal(r.body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequestWithContext(ctx, r.method, u, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}

	return httpReq, nil
}

// sign attaches credentials to an outgoing request: the bearer token when the
// session holds one, and the CSRF header on non-GET requests when the cookie
// is present. Pure header mutation via Set, so signing is idempotent.
func (c *Client) sign(req *http.Request) {
	if token := c.session.AccessToken(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if req.Method != http.MethodGet {
		if token := c.csrfToken(req.URL); token != "" {
			req.Header.Set(csrfHeader, token)
		}
	}
}

// csrfToken reads the CSRF cookie from the jar, if any
func (c *Client) csrfToken(u *url.URL) string {
	if c.httpClient.Jar == nil {
		return ""
	}
	for _, cookie := range c.httpClient.Jar.Cookies(u) {
		if cookie.Name == csrfCookieName {
			return cookie.Value
		}
	}
	return ""
}

type refreshRequest struct {
	UserID string `json:"userId"`
	// Omitted when the server keeps the refresh token in an http-only cookie
	RefreshToken string `json:"refreshToken,omitempty"`
}

type refreshResponse struct {
	AccessToken string `json:"accessToken"`
}

// refresh exchanges the refresh token for a new access token and stores it
func (c *Client) refresh(ctx context.Context) error {
	payload, err := c.do(ctx, request{
		method: http.MethodPost,
		path:   refreshPath,
		body: refreshRequest{
			UserID:       c.session.UserID(),
			RefreshToken: c.session.RefreshToken(),
		},
	})
	if err != nil {
		return err
	}

	var out refreshResponse
	if err := json.Unmarshal(payload, &out); err != nil {
		return NormalizeRequest(fmt.Errorf("failed to decode refresh response: %w", err))
	}
	if out.AccessToken == "" {
		return NormalizeRequest(fmt.Errorf("refresh response missing access token"))
	}

	c.session.SetAccessToken(out.AccessToken)
	return nil
}

// call runs a request and decodes the unwrapped payload into out (skipped
// when out is nil). Failures are logged and returned; callers decide how to
// surface them. No caching, no retries beyond the refresh protocol.
func (c *Client) call(ctx context.Context, r request, out any) error {
	payload, err := c.do(ctx, r)
	if err != nil {
		c.log.Error().Err(err).Str("method", r.method).Str("path", r.path).Msg("API call failed")
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		err = NormalizeRequest(fmt.Errorf("failed to decode response: %w", err))
		c.log.Error().Err(err).Str("method", r.method).Str("path", r.path).Msg("API call failed")
		return err
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.call(ctx, request{method: http.MethodGet, path: path, query: query}, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, request{method: http.MethodPost, path: path, body: body}, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, request{method: http.MethodPatch, path: path, body: body}, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.call(ctx, request{method: http.MethodPut, path: path, body: body}, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.call(ctx, request{method: http.MethodDelete, path: path}, nil)
}

type csrfTokenResponse struct {
	CSRFToken string `json:"csrfToken"`
}

// FetchCSRFToken hits the CSRF token endpoint, which sets the csrf_token
// cookie in the client's jar. Callers performing sensitive mutations should
// call this before the mutating request.
func (c *Client) FetchCSRFToken(ctx context.Context) (string, error) {
	var out csrfTokenResponse
	if err := c.get(ctx, csrfTokenPath, nil, &out); err != nil {
		return "", err
	}
	return out.CSRFToken, nil
}
