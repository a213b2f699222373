package lptracker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"
)

const (
	// DefaultBaseURL is the LPTracker direct API endpoint.
	DefaultBaseURL = "https://direct.lptracker.ru"

	apiVersion = "1.0"

	// authErrorCode marks an expired or invalid token in an error response.
	authErrorCode = 401
)

// Client talks to the LPTracker CRM. It owns a single cached auth token and
// re-authenticates transparently, at most once per request, when the API
// reports the token expired.
//
// A client constructed without full credentials is disabled: every operation
// returns zero values and nil error, so the relay keeps working without CRM.
type Client struct {
	baseURL   string
	login     string
	password  string
	service   string
	projectID int64

	httpClient *http.Client

	mu    sync.Mutex
	token string
}

// NewClient creates an LPTracker client. baseURL may be empty to use
// DefaultBaseURL. The client is disabled unless login, password and a
// non-zero projectID are all present.
func NewClient(baseURL, login, password, service string, projectID int64) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		login:      login,
		password:   password,
		service:    service,
		projectID:  projectID,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Enabled reports whether CRM credentials are fully configured.
func (c *Client) Enabled() bool {
	return c.login != "" && c.password != "" && c.projectID != 0
}

// ErrorDetail is one entry of an LPTracker error response.
type ErrorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// APIError is a non-success response from the LPTracker API.
type APIError struct {
	Path   string
	Errors []ErrorDetail
}

func (e *APIError) Error() string {
	if len(e.Errors) > 0 {
		return fmt.Sprintf("lptracker %s: code %d: %s", e.Path, e.Errors[0].Code, e.Errors[0].Message)
	}
	return fmt.Sprintf("lptracker %s: request failed", e.Path)
}

// apiResponse is the envelope every LPTracker endpoint answers with.
type apiResponse struct {
	Status string          `json:"status"`
	Result json.RawMessage `json:"result"`
	Errors []ErrorDetail   `json:"errors"`
}

func (r *apiResponse) ok() bool {
	return r.Status == "success"
}

func (r *apiResponse) authExpired() bool {
	for _, e := range r.Errors {
		if e.Code == authErrorCode {
			return true
		}
	}
	return false
}

func (c *Client) currentToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.token
}

func (c *Client) setToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Login authenticates and unconditionally replaces the cached token
// (last login wins). It is a no-op on a disabled client.
func (c *Client) Login(ctx context.Context) error {
	if !c.Enabled() {
		return nil
	}

	resp, err := c.do(ctx, http.MethodPost, "/login", map[string]string{
		"login":    c.login,
		"password": c.password,
		"service":  c.service,
		"version":  apiVersion,
	}, "")
	if err != nil {
		return err
	}
	if !resp.ok() {
		return &APIError{Path: "/login", Errors: resp.Errors}
	}

	var result struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(resp.Result, &result); err != nil {
		return fmt.Errorf("failed to decode login result: %w", err)
	}
	if result.Token == "" {
		return fmt.Errorf("lptracker /login: success response without token")
	}

	c.setToken(result.Token)
	return nil
}

// do issues one HTTP call and decodes the response envelope. Transport and
// decoding failures surface as plain errors; API-level failure is reported
// through the envelope so the caller can inspect error codes.
func (c *Client) do(ctx context.Context, method, path string, body any, token string) (*apiResponse, error) {
	var reqBody *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reqBody = bytes.NewBuffer(encoded)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("token", token)
	}

	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("lptracker %s: %w", path, err)
	}
	defer httpResp.Body.Close()

	var resp apiResponse
	if err := json.NewDecoder(httpResp.Body).Decode(&resp); err != nil {
		return nil, fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return &resp, nil
}

// request issues an authenticated call. A missing token triggers a login
// first; a 401 error triggers exactly one re-login and one replay. Any
// further failure is returned to the caller, never retried again.
func (c *Client) request(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	if c.currentToken() == "" {
		if err := c.Login(ctx); err != nil {
			return nil, err
		}
	}

	resp, err := c.do(ctx, method, path, body, c.currentToken())
	if err != nil {
		return nil, err
	}
	if resp.ok() {
		return resp.Result, nil
	}
	if !resp.authExpired() {
		return nil, &APIError{Path: path, Errors: resp.Errors}
	}

	// Token expired: one re-login, one replay.
	if err := c.Login(ctx); err != nil {
		return nil, err
	}
	resp, err = c.do(ctx, method, path, body, c.currentToken())
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, &APIError{Path: path, Errors: resp.Errors}
	}
	return resp.Result, nil
}

// CreateLead creates a lead named after the user and returns its id.
// Returns (0, nil) on a disabled client.
func (c *Client) CreateLead(ctx context.Context, name string) (int64, error) {
	if !c.Enabled() {
		return 0, nil
	}

	payload := map[string]any{
		"contact": map[string]any{
			"project_id": c.projectID,
			"name":       name,
		},
		"name": name,
	}
	result, err := c.request(ctx, http.MethodPost, "/lead", payload)
	if err != nil {
		return 0, err
	}

	var lead struct {
		ID int64 `json:"id"`
	}
	if err := json.Unmarshal(result, &lead); err != nil {
		return 0, fmt.Errorf("failed to decode lead result: %w", err)
	}
	return lead.ID, nil
}

// AddComment appends free text to an existing lead. It is a no-op on a
// disabled client.
func (c *Client) AddComment(ctx context.Context, leadID int64, text string) error {
	if !c.Enabled() {
		return nil
	}

	path := fmt.Sprintf("/lead/%d/comment", leadID)
	_, err := c.request(ctx, http.MethodPost, path, map[string]string{"text": text})
	return err
}
