package api

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

	"github.com/go-playground/validator/v10"
	"github.com/google/go-querystring/query"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/staffdir/internal/client/models"
	"github.com/dmitrijs2005/staffdir/internal/logging"
)

// authMode controls whether a request carries the bearer header.
type authMode int

const (
	// authNone: endpoint never takes a token (login, register, create).
	authNone authMode = iota
	// authOptional: token attached when a session exists (employee list).
	authOptional
	// authRequired: no session means the request is not even sent.
	authRequired
)

// HTTPClient is the production Client implementation over net/http.
type HTTPClient struct {
	baseURL       string
	httpClient    *http.Client
	authSource    AuthHeaderSource
	onAuthFailure AuthFailureHandler
	validate      *validator.Validate
	log           logging.Logger
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient builds a client for the directory service at baseURL.
// A missing or unparsable base URL is a configuration fault and fails here,
// before any request is attempted.
func NewHTTPClient(baseURL string, timeout time.Duration, log logging.Logger) (*HTTPClient, error) {
	if baseURL == "" {
		return nil, errors.New("directory service base url is required")
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid directory service base url %q", baseURL)
	}

	return &HTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		validate:   validator.New(),
		log:        log,
	}, nil
}

// SetAuthHeaderSource wires the session service in as the only supplier of
// bearer headers. Must be called before any authorized request.
func (c *HTTPClient) SetAuthHeaderSource(s AuthHeaderSource) {
	c.authSource = s
}

// SetAuthFailureHandler registers the hook invoked when the server rejects
// the token on an authorized endpoint.
func (c *HTTPClient) SetAuthFailureHandler(h AuthFailureHandler) {
	c.onAuthFailure = h
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (*models.AuthResponse, error) {
	body := map[string]string{"email": email, "password": password}

	var resp models.AuthResponse
	status, err := c.do(ctx, http.MethodPost, "/api/auth/login", nil, body, authNone, &resp)
	if err != nil {
		if status == http.StatusUnauthorized {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := c.validate.Struct(&resp); err != nil {
		return nil, c.invalidPayload(status, err)
	}
	return &resp, nil
}

func (c *HTTPClient) Register(ctx context.Context, name, email, password string, role models.Role) error {
	body := map[string]string{
		"name":     name,
		"email":    email,
		"password": password,
		"role":     string(role),
	}

	status, err := c.do(ctx, http.MethodPost, "/api/auth/register", nil, body, authNone, nil)
	if err != nil {
		if status == http.StatusConflict {
			return ErrDuplicateAccount
		}
		return err
	}
	return nil
}

func (c *HTTPClient) ListEmployees(ctx context.Context, filter models.EmployeeFilter) ([]models.Employee, error) {
	params, err := query.Values(filter)
	if err != nil {
		return nil, fmt.Errorf("encoding list filters: %w", err)
	}

	var list []models.Employee
	status, err := c.do(ctx, http.MethodGet, "/api/employees", params, nil, authOptional, &list)
	if err != nil {
		return nil, err
	}

	for i := range list {
		if err := c.validate.Struct(&list[i]); err != nil {
			return nil, c.invalidPayload(status, err)
		}
	}
	return list, nil
}

func (c *HTTPClient) GetEmployee(ctx context.Context, id int64) (*models.Employee, error) {
	var e models.Employee
	status, err := c.do(ctx, http.MethodGet, fmt.Sprintf("/api/employees/%d", id), nil, nil, authRequired, &e)
	if err != nil {
		return nil, err
	}
	if err := c.validate.Struct(&e); err != nil {
		return nil, c.invalidPayload(status, err)
	}
	return &e, nil
}

func (c *HTTPClient) CreateEmployee(ctx context.Context, draft models.EmployeeDraft) error {
	if err := c.validate.Struct(&draft); err != nil {
		return &RequestError{Message: fmt.Sprintf("invalid employee draft: %v", err)}
	}
	_, err := c.do(ctx, http.MethodPost, "/api/employees", nil, draft, authNone, nil)
	return err
}

func (c *HTTPClient) UpdateEmployee(ctx context.Context, id int64, patch models.EmployeePatch) (*models.Employee, error) {
	var e models.Employee
	found, status, err := c.doMaybe(ctx, http.MethodPatch, fmt.Sprintf("/api/employees/%d", id), patch, &e)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, nil
	}
	if err := c.validate.Struct(&e); err != nil {
		return nil, c.invalidPayload(status, err)
	}
	return &e, nil
}

func (c *HTTPClient) DeleteEmployee(ctx context.Context, id int64) error {
	_, err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/api/employees/%d", id), nil, nil, authRequired, nil)
	return err
}

// Close releases idle transport connections.
func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// doMaybe is do for endpoints whose success body is optional: it reports
// whether a body was decoded into out.
func (c *HTTPClient) doMaybe(ctx context.Context, method, path string, body any, out any) (bool, int, error) {
	raw, status, err := c.send(ctx, method, path, nil, body, authRequired)
	if err != nil {
		return false, status, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		return false, status, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return false, status, c.invalidPayload(status, err)
	}
	return true, status, nil
}

// do issues one request and decodes the response body into out (when out is
// non-nil). It returns the HTTP status so callers can map endpoint-specific
// codes onto the error taxonomy before falling back to RequestError.
func (c *HTTPClient) do(ctx context.Context, method, path string, params url.Values, body any, auth authMode, out any) (int, error) {
	raw, status, err := c.send(ctx, method, path, params, body, auth)
	if err != nil {
		return status, err
	}
	if out == nil {
		return status, nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return status, c.invalidPayload(status, err)
	}
	return status, nil
}

func (c *HTTPClient) send(ctx context.Context, method, path string, params url.Values, body any, auth authMode) ([]byte, int, error) {
	u := c.baseURL + path
	if len(params) > 0 {
		u += "?" + params.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, 0, fmt.Errorf("encoding request body: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return nil, 0, fmt.Errorf("building request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	requestID := uuid.NewString()
	req.Header.Set("X-Request-Id", requestID)

	var bearerSent bool
	if auth != authNone {
		header, err := c.bearerHeader()
		switch {
		case err == nil:
			req.Header.Set("Authorization", header)
			bearerSent = true
		case auth == authRequired:
			return nil, 0, err
		}
	}

	c.log.Debug(ctx, "directory request", "method", method, "path", path, "request_id", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, &RequestError{Message: err.Error()}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, &RequestError{Status: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.log.Warn(ctx, "directory request failed",
			"method", method, "path", path, "status", resp.StatusCode, "request_id", requestID)
		// Any 401 on a request that carried the session's bearer means the
		// server rejected the token, no matter which endpoint answered.
		if resp.StatusCode == http.StatusUnauthorized && bearerSent {
			if c.onAuthFailure != nil {
				c.onAuthFailure.Invalidate()
			}
			return nil, resp.StatusCode, ErrUnauthorized
		}
		return nil, resp.StatusCode, &RequestError{Status: resp.StatusCode, Message: strings.TrimSpace(string(raw))}
	}

	return raw, resp.StatusCode, nil
}

func (c *HTTPClient) bearerHeader() (string, error) {
	if c.authSource == nil {
		return "", ErrUnauthenticated
	}
	return c.authSource.AuthHeader()
}

func (c *HTTPClient) invalidPayload(status int, err error) error {
	return &RequestError{Status: status, Message: fmt.Sprintf("invalid response payload: %v", err)}
}
