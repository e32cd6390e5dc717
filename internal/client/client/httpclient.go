package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strings"

	"github.com/eurisssow03/wc-helper-sub001/internal/common"
)

const (
	DefaultHealthPath = "/api/health"
	DefaultLoginPath  = "/api/auth/login"

	// maxBodySize caps how much of a response we decode.
	maxBodySize = 1 << 20
)

// connectedMarker matches the success term in a health message. "disconnected"
// does not match.
var connectedMarker = regexp.MustCompile(`(?i)\bconnected\b`)

// HTTPClient implements Client over the backend's JSON HTTP API.
type HTTPClient struct {
	baseURL    string
	healthPath string
	loginPath  string
	httpClient *http.Client
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client.
func WithHTTPClient(c *http.Client) Option {
	return func(h *HTTPClient) { h.httpClient = c }
}

func WithHealthPath(p string) Option {
	return func(h *HTTPClient) {
		if p != "" {
			h.healthPath = p
		}
	}
}

func WithLoginPath(p string) Option {
	return func(h *HTTPClient) {
		if p != "" {
			h.loginPath = p
		}
	}
}

// NewHTTPClient builds a client for the backend at baseURL. Request deadlines
// come from the caller's context.
func NewHTTPClient(baseURL string, opts ...Option) *HTTPClient {
	c := &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		healthPath: DefaultHealthPath,
		loginPath:  DefaultLoginPath,
		httpClient: &http.Client{},
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

type healthResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// IsConnected reports whether a health payload carries the success flag and
// the "connected" marker in its message.
func IsConnected(body []byte) bool {
	var hr healthResponse
	if err := json.Unmarshal(body, &hr); err != nil {
		return false
	}
	return hr.Success && connectedMarker.MatchString(hr.Message)
}

// Ping GETs the health endpoint. It returns nil only when the payload
// satisfies IsConnected; every other outcome wraps common.ErrRemoteUnavailable.
func (c *HTTPClient) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+c.healthPath, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrRemoteUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: health status %d", common.ErrRemoteUnavailable, resp.StatusCode)
	}
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return fmt.Errorf("%w: %w", common.ErrRemoteUnavailable, err)
	}
	if !IsConnected(body) {
		return fmt.Errorf("%w: health payload not connected", common.ErrRemoteUnavailable)
	}
	return nil
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    *RemoteUser `json:"user"`
}

// Login posts the credentials to the login endpoint.
func (c *HTTPClient) Login(ctx context.Context, username, password string) (*RemoteUser, error) {
	data, err := json.Marshal(loginRequest{Username: username, Password: password})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+c.loginPath, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrRemoteUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", common.ErrRemoteUnavailable, err)
	}
	defer resp.Body.Close()

	var lr loginResponse
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(&lr)

	if err := mapStatus(resp.StatusCode, lr.Message); err != nil {
		return nil, err
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("%w: decode login response: %w", common.ErrRemoteUnavailable, decodeErr)
	}
	if !lr.Success {
		return nil, &common.RemoteAuthError{Reason: lr.Message}
	}
	if lr.User == nil || lr.User.Username == "" {
		return nil, fmt.Errorf("%w: login response without user", common.ErrRemoteUnavailable)
	}

	u := *lr.User
	u.Token = lr.Token
	return &u, nil
}

// mapStatus classifies a non-2xx HTTP status.
func mapStatus(code int, message string) error {
	switch {
	case code >= 200 && code <= 299:
		return nil
	case code == http.StatusUnauthorized, code == http.StatusForbidden:
		return &common.RemoteAuthError{Reason: message}
	default:
		return fmt.Errorf("%w: login status %d", common.ErrRemoteUnavailable, code)
	}
}

func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
