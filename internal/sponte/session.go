// Package sponte implements the client for the Sponte school-management
// API: bearer-token session handling with lazy login, page-walking list
// fetches, and the typed domain accessors the dashboard reads from.
package sponte

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const loginEndpoint = "/api/v1/login"

// Domain errors.
var (
	// ErrAuth means the login endpoint rejected the configured credentials
	// or could not be reached.
	ErrAuth = errors.New("sponte: authentication failed")

	// ErrUnauthorized means a request still came back 401 after the single
	// re-login retry.
	ErrUnauthorized = errors.New("sponte: unauthorized after token refresh")
)

// APIError is a non-200, non-401 upstream response.
type APIError struct {
	StatusCode int
	Endpoint   string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("sponte: %s returned status %d", e.Endpoint, e.StatusCode)
}

// PageResponse is the envelope every Sponte list endpoint returns.
type PageResponse struct {
	ListDados      []json.RawMessage `json:"listDados"`
	TotalPaginas   int               `json:"totalPaginas"`
	PaginaAtual    int               `json:"paginaAtual"`
	TotalRegistros int               `json:"totalRegistros,omitempty"`
}

// Options configures a Client.
type Options struct {
	BaseURL    string
	Login      string
	Password   string
	ClientCode int
	Timeout    time.Duration

	// HTTPClient overrides the default client; used by tests.
	HTTPClient *http.Client
}

// Client owns the Sponte session. The token is the only mutable state and
// is guarded so the financial fan-out can share one client.
type Client struct {
	baseURL    string
	login      string
	password   string
	clientCode int
	http       *http.Client
	log        zerolog.Logger

	mu    sync.Mutex
	token string
}

// NewClient creates a Sponte client. No login is performed until the first
// authorized request needs a token.
func NewClient(opts Options, log zerolog.Logger) *Client {
	httpClient := opts.HTTPClient
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:    opts.BaseURL,
		login:      opts.Login,
		password:   opts.Password,
		clientCode: opts.ClientCode,
		http:       httpClient,
		log:        log.With().Str("component", "sponte_client").Logger(),
	}
}

// Login posts the configured credentials and stores the returned token.
// On any failure the stored token is left untouched.
func (c *Client) Login(ctx context.Context) (string, error) {
	token, err := c.doLogin(ctx)
	if err != nil {
		return "", err
	}

	c.mu.Lock()
	c.token = token
	c.mu.Unlock()

	return token, nil
}

func (c *Client) doLogin(ctx context.Context) (string, error) {
	body, err := json.Marshal(map[string]string{
		"login": c.login,
		"senha": c.password,
	})
	if err != nil {
		return "", fmt.Errorf("marshal login payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+loginEndpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuth, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Error().Int("status", resp.StatusCode).Msg("Sponte login rejected")
		return "", fmt.Errorf("%w: status %d", ErrAuth, resp.StatusCode)
	}

	var parsed struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("%w: decode login response: %v", ErrAuth, err)
	}
	if parsed.Token == "" {
		return "", fmt.Errorf("%w: no token in login response", ErrAuth)
	}

	c.log.Info().Msg("Sponte login succeeded")
	return parsed.Token, nil
}

// AuthorizedRequest performs a GET against a list endpoint with the bearer
// token and the mandatory client-code parameter attached. A 401 triggers
// exactly one re-login and one retry; a second 401 is terminal for the call.
func (c *Client) AuthorizedRequest(ctx context.Context, endpoint string, params url.Values) (*PageResponse, error) {
	token, err := c.ensureToken(ctx)
	if err != nil {
		return nil, err
	}

	page, status, err := c.get(ctx, endpoint, params, token)
	if err != nil {
		return nil, err
	}

	if status == http.StatusUnauthorized {
		c.log.Warn().Str("endpoint", endpoint).Msg("Token expired, re-authenticating")
		token, err = c.Login(ctx)
		if err != nil {
			return nil, err
		}
		page, status, err = c.get(ctx, endpoint, params, token)
		if err != nil {
			return nil, err
		}
		if status == http.StatusUnauthorized {
			return nil, ErrUnauthorized
		}
	}

	if status != http.StatusOK {
		c.log.Error().Str("endpoint", endpoint).Int("status", status).Msg("Sponte request failed")
		return nil, &APIError{StatusCode: status, Endpoint: endpoint}
	}

	return page, nil
}

// ensureToken returns the current token, logging in first if none is held.
func (c *Client) ensureToken(ctx context.Context) (string, error) {
	c.mu.Lock()
	token := c.token
	c.mu.Unlock()

	if token != "" {
		return token, nil
	}
	return c.Login(ctx)
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, token string) (*PageResponse, int, error) {
	query := url.Values{}
	for k, vs := range params {
		for _, v := range vs {
			query.Add(k, v)
		}
	}
	query.Set("codCliSponte", strconv.Itoa(c.clientCode))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("sponte: GET %s: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, resp.StatusCode, nil
	}

	var page PageResponse
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, 0, fmt.Errorf("sponte: decode %s response: %w", endpoint, err)
	}
	return &page, resp.StatusCode, nil
}
