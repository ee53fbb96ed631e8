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
	"sync"
	"time"
)

const defaultTimeout = 15 * time.Second

// Client is a typed consumer of the admin backend. It holds the session
// principal, attaches the bearer token to authenticated calls, and keeps
// list/settings snapshots that are invalidated on every successful mutation.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu           sync.Mutex
	principal    *Principal
	locale       string
	trainerPages map[int]*TrainerPage
	settings     *SystemSettings
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New builds a Client for the backend at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:      strings.TrimRight(baseURL, "/"),
		httpClient:   &http.Client{Timeout: defaultTimeout},
		locale:       "de",
		trainerPages: make(map[int]*TrainerPage),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type loginData struct {
	User        Principal `json:"user"`
	AccessToken string    `json:"accessToken"`
}

// Login authenticates against the backend and stores the returned principal.
// A rejected email/password pair yields ErrInvalidCredentials; other failures
// surface as *APIError.
func (c *Client) Login(ctx context.Context, email, password string) (*Principal, error) {
	body := map[string]string{"email": email, "password": password}
	data, err := c.do(ctx, http.MethodPost, "/auth/login", body, false)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	var ld loginData
	if err := json.Unmarshal(data, &ld); err != nil {
		return nil, fmt.Errorf("decode login response: %w", err)
	}
	p := ld.User
	p.AccessToken = ld.AccessToken

	c.mu.Lock()
	c.principal = &p
	c.trainerPages = make(map[int]*TrainerPage)
	c.settings = nil
	c.mu.Unlock()

	cp := p
	return &cp, nil
}

// Logout drops the stored principal and all cached snapshots. It performs no
// network I/O.
func (c *Client) Logout() {
	c.mu.Lock()
	c.principal = nil
	c.trainerPages = make(map[int]*TrainerPage)
	c.settings = nil
	c.mu.Unlock()
}

// Principal returns a copy of the current session principal, or nil when no
// session is active.
func (c *Client) Principal() *Principal {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.principal == nil {
		return nil
	}
	cp := *c.principal
	return &cp
}

// SetLocale sets the display locale sent with every request. It is kept
// separately from the principal's language and survives logout.
func (c *Client) SetLocale(locale string) {
	c.mu.Lock()
	c.locale = locale
	c.mu.Unlock()
}

// Locale returns the current display locale.
func (c *Client) Locale() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.locale
}

// ForgotPassword requests a one-time reset code for the given address.
func (c *Client) ForgotPassword(ctx context.Context, email string) error {
	_, err := c.do(ctx, http.MethodPost, "/auth/forget-password", map[string]string{"email": email}, false)
	return err
}

// VerifyCode checks the one-time code delivered by mail.
func (c *Client) VerifyCode(ctx context.Context, email, code string) error {
	body := map[string]string{"email": email, "otp": code}
	_, err := c.do(ctx, http.MethodPost, "/auth/verify-code", body, false)
	return err
}

// ResetPassword sets a new password for an address with a verified code.
func (c *Client) ResetPassword(ctx context.Context, email, newPassword string) error {
	body := map[string]string{"email": email, "newPassword": newPassword}
	_, err := c.do(ctx, http.MethodPost, "/auth/reset-password", body, false)
	return err
}

// ChangePassword replaces the current session user's password.
func (c *Client) ChangePassword(ctx context.Context, oldPassword, newPassword string) error {
	body := map[string]string{"oldPassword": oldPassword, "newPassword": newPassword}
	_, err := c.do(ctx, http.MethodPost, "/auth/change-password", body, true)
	return err
}

// do performs one request against the backend and returns the envelope's
// data block. Authenticated calls fail with ErrNoSession before any network
// I/O when no principal is stored.
func (c *Client) do(ctx context.Context, method, path string, body any, authed bool) (json.RawMessage, error) {
	var token string
	c.mu.Lock()
	if authed {
		if c.principal == nil {
			c.mu.Unlock()
			return nil, ErrNoSession
		}
		token = c.principal.AccessToken
	}
	locale := c.locale
	c.mu.Unlock()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encode request body: %w", err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if locale != "" {
		req.Header.Set("Accept-Language", locale)
	}
	if authed {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil && resp.StatusCode < 300 {
			return nil, fmt.Errorf("decode response: %w", err)
		}
	}
	if resp.StatusCode >= 300 {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}
	return env.Data, nil
}

// invalidate drops all cached snapshots. Called after successful mutations.
func (c *Client) invalidate() {
	c.mu.Lock()
	c.trainerPages = make(map[int]*TrainerPage)
	c.settings = nil
	c.mu.Unlock()
}
