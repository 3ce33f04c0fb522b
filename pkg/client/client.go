// Package client is a typed HTTP client for the SIS API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/noah-isme/sis-api/internal/models"
	appErrors "github.com/noah-isme/sis-api/pkg/errors"
)

const defaultTimeout = 10 * time.Second

// ErrNoSession is returned when an authenticated call is made without a live
// session.
var ErrNoSession = appErrors.Clone(appErrors.ErrUnauthorized, "no active session")

// Client calls the API as at most one Session. Binding a different session
// returns a copy; a Client is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	session *Session
	now     func() time.Time
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithClock overrides the clock used for session expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		if now != nil {
			c.now = now
		}
	}
}

// New returns an anonymous client for baseURL, e.g. http://localhost:8080/api.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: defaultTimeout},
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Session returns the bound session, nil when anonymous.
func (c *Client) Session() *Session { return c.session }

// WithSession returns a copy of c acting as s.
func (c *Client) WithSession(s *Session) *Client {
	clone := *c
	clone.session = s
	return &clone
}

// Login authenticates and returns a client bound to the new session.
func (c *Client) Login(ctx context.Context, email, password string) (*Client, error) {
	var res models.LoginResponse
	body := models.LoginRequest{Email: email, Password: password}
	if err := c.send(ctx, http.MethodPost, "/auth/login", body, &res, false); err != nil {
		return nil, err
	}
	return c.WithSession(NewSession(res)), nil
}

// Refresh exchanges the refresh token and returns a client bound to the
// rotated session.
func (c *Client) Refresh(ctx context.Context) (*Client, error) {
	if c.session == nil || c.session.refreshToken == "" {
		return nil, ErrNoSession
	}
	var res models.LoginResponse
	body := models.RefreshTokenRequest{RefreshToken: c.session.refreshToken}
	if err := c.send(ctx, http.MethodPost, "/auth/refresh", body, &res, false); err != nil {
		return nil, err
	}
	return c.WithSession(c.session.rotated(res)), nil
}

// Logout revokes the refresh token. The returned client is anonymous.
func (c *Client) Logout(ctx context.Context) (*Client, error) {
	if c.session == nil {
		return c, nil
	}
	body := models.RefreshTokenRequest{RefreshToken: c.session.refreshToken}
	if err := c.send(ctx, http.MethodPost, "/auth/logout", body, nil, true); err != nil {
		return nil, err
	}
	return c.WithSession(nil), nil
}

type envelope struct {
	Data  json.RawMessage  `json:"data"`
	Error *appErrors.Error `json:"error"`
}

func (c *Client) get(ctx context.Context, path string, out interface{}) error {
	return c.send(ctx, http.MethodGet, path, nil, out, true)
}

func (c *Client) send(ctx context.Context, method, path string, body, out interface{}, auth bool) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if auth {
		if c.session.Expired(c.now()) {
			return ErrNoSession
		}
		req.Header.Set("Authorization", "Bearer "+c.session.accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		if env.Error != nil {
			if env.Error.Status == 0 {
				env.Error.Status = resp.StatusCode
			}
			return env.Error
		}
		return appErrors.New(appErrors.CodeInternal, resp.StatusCode, http.StatusText(resp.StatusCode))
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode %s %s data: %w", method, path, err)
	}
	return nil
}
