// Package client talks to the check-in API on behalf of a front-desk operator.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"club_checkin_backend/internal/models"
	"club_checkin_backend/internal/services"
	"club_checkin_backend/pkg/utils"
)

// Session is the operator's login state. Login creates it and Logout clears it;
// every API call takes it explicitly.
type Session struct {
	Token     string
	User      models.AccountSummary
	ExpiresAt time.Time
}

// Authenticated reports whether the session holds a token.
func (s *Session) Authenticated() bool {
	return s != nil && s.Token != ""
}

// Logout forgets the token. Tokens are stateless so nothing is sent to the server.
func (s *Session) Logout() {
	if s == nil {
		return
	}
	*s = Session{}
}

// APIError is a non-2xx answer from the server.
type APIError struct {
	StatusCode int
	Code       string `json:"code"`
	Message    string `json:"error"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%d %s: %s", e.StatusCode, e.Code, e.Message)
}

// VerifyResult is the body of GET /api/auth/verify.
type VerifyResult struct {
	Valid bool         `json:"valid"`
	User  utils.Claims `json:"user"`
}

// Client is a thin JSON client for the check-in API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New returns a Client for baseURL. A nil httpClient gets a 15s timeout default.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), httpClient: httpClient}
}

func (c *Client) do(ctx context.Context, session *Session, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if session.Authenticated() {
		req.Header.Set("Authorization", "Bearer "+session.Token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		apiErr := &APIError{StatusCode: resp.StatusCode}
		if err := json.NewDecoder(resp.Body).Decode(apiErr); err != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s %s response: %w", method, path, err)
	}
	return nil
}

// Login exchanges credentials for a new Session. identifier is a username or an email.
func (c *Client) Login(ctx context.Context, identifier, password string) (*Session, error) {
	var resp services.AuthResponse
	if err := c.do(ctx, nil, http.MethodPost, "/api/auth/login", services.LoginRequest{Username: identifier, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &Session{Token: resp.Token, User: resp.User, ExpiresAt: time.Unix(resp.ExpiresAt, 0)}, nil
}

// Register creates a staff account.
func (c *Client) Register(ctx context.Context, username, email, password string) (*models.AccountSummary, error) {
	var resp struct {
		User models.AccountSummary `json:"user"`
	}
	req := services.RegisterRequest{Username: username, Email: email, Password: password}
	if err := c.do(ctx, nil, http.MethodPost, "/api/auth/register", req, &resp); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

// Verify asks the server whether the session token is still accepted.
func (c *Client) Verify(ctx context.Context, session *Session) (*VerifyResult, error) {
	var resp VerifyResult
	if err := c.do(ctx, session, http.MethodGet, "/api/auth/verify", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListClients returns every customer, newest first.
func (c *Client) ListClients(ctx context.Context, session *Session) ([]models.Client, error) {
	var clients []models.Client
	if err := c.do(ctx, session, http.MethodGet, "/api/clientes", nil, &clients); err != nil {
		return nil, err
	}
	return clients, nil
}

// CreateClient registers a customer.
func (c *Client) CreateClient(ctx context.Context, session *Session, req services.ClientRequest) (*models.Client, error) {
	var created models.Client
	if err := c.do(ctx, session, http.MethodPost, "/api/clientes", req, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateClient replaces every field of customer id.
func (c *Client) UpdateClient(ctx context.Context, session *Session, id int64, req services.ClientRequest) (*models.Client, error) {
	var updated models.Client
	if err := c.do(ctx, session, http.MethodPut, "/api/clientes/"+utils.Int64ToStr(id), req, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteClient removes customer id.
func (c *Client) DeleteClient(ctx context.Context, session *Session, id int64) error {
	return c.do(ctx, session, http.MethodDelete, "/api/clientes/"+utils.Int64ToStr(id), nil, nil)
}

// Identify submits a scan and records the visit.
func (c *Client) Identify(ctx context.Context, session *Session, biometricHash string) (*models.Identification, error) {
	var ident models.Identification
	if err := c.do(ctx, session, http.MethodPost, "/api/identificar", services.IdentifyRequest{BiometricHash: biometricHash}, &ident); err != nil {
		return nil, err
	}
	return &ident, nil
}
