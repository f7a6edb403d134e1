package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-resty/resty/v2"
)

// ErrUnauthorized marks a 401 from the backend: the session is invalid
// and the global login redirect takes over.
var ErrUnauthorized = errors.New("session invalid or expired")

// APIError carries a server-reported failure (4xx/5xx with a message)
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
}

// IsBusinessError reports whether err is a business-rule rejection
// (4xx with a server message) as opposed to a transport or server
// failure. Business failures map to specific user-facing messages;
// everything else gets a generic transient notice.
func IsBusinessError(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= 400 && apiErr.StatusCode < 500
	}
	return false
}

// envelope is the backend's uniform response wrapper
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Client talks to the LMS REST backend
type Client struct {
	http     *resty.Client
	validate *validator.Validate
}

// New builds a Client for the given API base URL
func New(baseURL string, timeout time.Duration) *Client {
	r := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json")
	return &Client{
		http:     r,
		validate: validator.New(),
	}
}

// SetToken attaches the session's bearer token to every request
func (c *Client) SetToken(token string) {
	c.http.SetAuthToken(token)
}

// decode folds transport errors, the HTTP status and the response
// envelope into one error path, and unmarshals data into out on
// success. out may be nil when the caller only cares about success.
func (c *Client) decode(resp *resty.Response, err error, out interface{}) error {
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	if resp.StatusCode() == http.StatusUnauthorized {
		return ErrUnauthorized
	}

	var env envelope
	if uerr := json.Unmarshal(resp.Body(), &env); uerr != nil {
		return &APIError{StatusCode: resp.StatusCode(), Message: "invalid server response"}
	}

	if resp.StatusCode() >= 400 || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = http.StatusText(resp.StatusCode())
		}
		return &APIError{StatusCode: resp.StatusCode(), Message: msg}
	}

	if out != nil && len(env.Data) > 0 {
		if uerr := json.Unmarshal(env.Data, out); uerr != nil {
			return fmt.Errorf("failed to parse response: %w", uerr)
		}
	}
	return nil
}
