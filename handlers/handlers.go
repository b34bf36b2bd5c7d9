// Package handlers provides HTTP request handlers for the hospital API endpoints.
// It covers catalog browsing, prescription generation and submission, health
// checks, and response formatting with input validation and error mapping.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/giygas/hospital-api/hmsclient"
	"github.com/giygas/hospital-api/matcher"
	"github.com/giygas/hospital-api/services"
)

// Headers used to pass the hospital session through this API
const (
	RefreshTokenHeader          = "X-Refresh-Token"
	RefreshedAccessTokenHeader  = "X-Refreshed-Access-Token"
	RefreshedRefreshTokenHeader = "X-Refreshed-Refresh-Token"
)

// GenerateETag returns a quoted 64-bit hash of data
func GenerateETag(data []byte) string {
	return fmt.Sprintf(`"%016x"`, xxhash.Sum64(data))
}

// CheckETag reports whether the request's If-None-Match matches etag. The
// header may be "*" or a list of tags, compared weakly.
func CheckETag(r *http.Request, etag string) bool {
	header := strings.TrimSpace(r.Header.Get("If-None-Match"))
	if header == "" {
		return false
	}
	if header == "*" {
		return true
	}

	want := strings.TrimPrefix(etag, "W/")
	for _, tag := range strings.Split(header, ",") {
		if strings.TrimPrefix(strings.TrimSpace(tag), "W/") == want {
			return true
		}
	}
	return false
}

// sessionFromRequest builds an AuthContext from the caller's bearer and refresh
// tokens. It returns nil when there is no bearer.
func sessionFromRequest(r *http.Request) *hmsclient.AuthContext {
	header := r.Header.Get("Authorization")
	token, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || strings.TrimSpace(token) == "" {
		return nil
	}
	return hmsclient.NewAuthContext(strings.TrimSpace(token), r.Header.Get(RefreshTokenHeader))
}

// writeRefreshedTokens echoes the session back when a refresh replaced it
func writeRefreshedTokens(w http.ResponseWriter, auth *hmsclient.AuthContext, sent hmsclient.Tokens) {
	current := auth.Tokens()
	if current.AccessToken == "" || current.AccessToken == sent.AccessToken {
		return
	}
	w.Header().Set(RefreshedAccessTokenHeader, current.AccessToken)
	w.Header().Set(RefreshedRefreshTokenHeader, current.RefreshToken)
}

// statusForError maps service and transport errors to an HTTP status and a
// message safe to show the caller
func statusForError(err error) (int, string) {
	var validationErr *services.ValidationError
	var apiErr *hmsclient.APIError

	switch {
	case errors.Is(err, matcher.ErrNoSymptoms):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, matcher.ErrNoMatch):
		return http.StatusNotFound, err.Error()
	case errors.As(err, &validationErr):
		return http.StatusBadRequest, validationErr.Error()
	case errors.Is(err, hmsclient.ErrSessionExpired), errors.Is(err, hmsclient.ErrNotAuthenticated):
		return http.StatusUnauthorized, err.Error()
	case errors.As(err, &apiErr):
		if apiErr.Status < 400 || apiErr.Status > 599 {
			return http.StatusBadGateway, apiErr.Message
		}
		return apiErr.Status, apiErr.Message
	case errors.Is(err, hmsclient.ErrUnreachable):
		return http.StatusBadGateway, "hospital API unreachable"
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "hospital API timed out"
	}
	return http.StatusInternalServerError, "internal error"
}

// formatUptimeHuman formats duration into a human-readable string
func formatUptimeHuman(d time.Duration) string {
	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	var parts []string

	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 || hours > 0 || days > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	parts = append(parts, fmt.Sprintf("%ds", seconds))

	return strings.Join(parts, " ")
}
