package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/terraza-app/terraza-kiosk/config"
	"github.com/terraza-app/terraza-kiosk/models"
)

// APIClientInterface defines the operations the domain services need from
// the remote API transport.
type APIClientInterface interface {
	Get(ctx context.Context, path string, out interface{}) error
	Post(ctx context.Context, path string, body, out interface{}) error
	Put(ctx context.Context, path string, body, out interface{}) error
}

// APIClient wraps every outgoing request to the remote restaurant API. It
// attaches the bearer token from the active session, classifies failures
// into the kiosk's error taxonomy, and fires the auth-failure hook when the
// server rejects the token.
type APIClient struct {
	baseURL       string
	httpClient    *http.Client
	tokenFunc     func() string // supplies the current bearer token, "" for none
	onAuthFailure func()        // invoked once per 401/419 response
}

var apiClientInstance APIClientInterface

// InitAPIClient initializes the remote API client. tokenFunc is consulted
// on every request so a refreshed session takes effect immediately.
func InitAPIClient(cfg *config.Config, tokenFunc func() string) *APIClient {
	client := &APIClient{
		baseURL:   strings.TrimRight(cfg.RemoteAPIBaseURL, "/"),
		tokenFunc: tokenFunc,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
	apiClientInstance = client
	return client
}

// GetAPIClient returns the initialized API client instance
func GetAPIClient() APIClientInterface {
	return apiClientInstance
}

// SetAPIClient sets the API client instance (primarily for testing)
func SetAPIClient(client APIClientInterface) {
	apiClientInstance = client
}

// OnAuthFailure registers the hook invoked when the server answers 401 or
// 419. The session service uses it to drop the persisted session, which is
// the kiosk's equivalent of a global logout event.
func (c *APIClient) OnAuthFailure(fn func()) {
	c.onAuthFailure = fn
}

// Get issues a GET request and decodes the response into out.
func (c *APIClient) Get(ctx context.Context, path string, out interface{}) error {
	return c.do(ctx, http.MethodGet, path, nil, out)
}

// Post issues a POST request with a JSON body and decodes the response into out.
func (c *APIClient) Post(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPost, path, body, out)
}

// Put issues a PUT request with a JSON body and decodes the response into out.
func (c *APIClient) Put(ctx context.Context, path string, body, out interface{}) error {
	return c.do(ctx, http.MethodPut, path, body, out)
}

// remoteErrorBody covers the error shapes the remote API is known to send:
// either a flat {code, message} object or a nested {error: {code, message}}.
type remoteErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Error   struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func (c *APIClient) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.tokenFunc(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &models.APIError{
			Code:    models.ErrNetwork,
			Message: fmt.Sprintf("remote API unreachable: %v", err),
		}
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Printf("warning: failed to close response body: %v", closeErr)
		}
	}()

	if resp.StatusCode >= http.StatusBadRequest {
		return c.classifyFailure(resp)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &models.APIError{
			Code:    models.ErrUnknown,
			Message: fmt.Sprintf("failed to decode response from %s: %v", path, err),
			Status:  resp.StatusCode,
		}
	}
	return nil
}

// classifyFailure turns a non-2xx response into an APIError and fires the
// auth-failure hook for rejected tokens.
func (c *APIClient) classifyFailure(resp *http.Response) error {
	raw, _ := io.ReadAll(resp.Body)

	var parsed remoteErrorBody
	_ = json.Unmarshal(raw, &parsed)

	serverCode := parsed.Code
	message := parsed.Message
	if parsed.Error.Code != "" || parsed.Error.Message != "" {
		serverCode = parsed.Error.Code
		message = parsed.Error.Message
	}
	if message == "" {
		message = strings.TrimSpace(string(raw))
	}
	if message == "" {
		message = fmt.Sprintf("remote API returned status %d", resp.StatusCode)
	}

	code := models.ClassifyError(resp.StatusCode, serverCode, message)

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == 419 {
		if c.onAuthFailure != nil {
			c.onAuthFailure()
		}
	}

	return &models.APIError{Code: code, Message: message, Status: resp.StatusCode}
}
