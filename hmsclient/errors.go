package hmsclient

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrUnreachable wraps transport failures: DNS, refused connections, timeouts
	ErrUnreachable = errors.New("hospital api unreachable")
	// ErrSessionExpired is returned when the backend rejected the refresh after a
	// 401. The AuthContext has been cleared by then.
	ErrSessionExpired = errors.New("session expired")
	// ErrNotAuthenticated is returned by operations that need a session when none is set
	ErrNotAuthenticated = errors.New("not authenticated")

	errNoAccessToken = errors.New("refresh response has no access token")
)

// APIError is a non-2xx response from the hospital API
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("hospital api returned %d: %s", e.Status, e.Message)
}

// IsStatus reports whether err is an APIError with the given status
func IsStatus(err error, status int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == status
}

// errorBody covers the error shapes the backend uses
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
	Detail  string `json:"detail"`
}

func (b errorBody) text() string {
	switch {
	case b.Message != "":
		return b.Message
	case b.Error != "":
		return b.Error
	default:
		return b.Detail
	}
}

func newAPIError(status int, body errorBody) *APIError {
	msg := body.text()
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Status: status, Message: msg}
}
