package postgrest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// ErrMissingURL and ErrMissingKey are returned by NewClient for incomplete credentials.
var (
	ErrMissingURL = errors.New("postgrest: service URL is required")
	ErrMissingKey = errors.New("postgrest: access key is required")
)

// APIError is a non-2xx response from the table API. Code, Message, Details and Hint
// come from the PostgREST error body when it is JSON; otherwise Message holds the raw
// body.
type APIError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	Details    string `json:"details"`
	Hint       string `json:"hint"`
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	if e.Code != "" {
		return fmt.Sprintf("postgrest: %d %s: %s", e.StatusCode, e.Code, msg)
	}
	return fmt.Sprintf("postgrest: %d: %s", e.StatusCode, msg)
}

// IsAuth reports whether the key was rejected.
func (e *APIError) IsAuth() bool {
	return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
}

func newAPIError(status int, body string) *APIError {
	apiErr := &APIError{}
	if err := json.Unmarshal([]byte(body), apiErr); err != nil || apiErr.Message == "" && apiErr.Code == "" {
		apiErr = &APIError{Message: body}
	}
	apiErr.StatusCode = status
	return apiErr
}
