// Package hmsclient is the transport to the remote hospital API. It attaches the
// session's bearer token, normalises error responses and, on a 401, refreshes the
// session once and replays the request once.
package hmsclient

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
	"strings"
	"time"

	"github.com/giygas/hospital-api/logging"
	"github.com/giygas/hospital-api/metrics"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

// maxResponseSize caps a decoded response body
const maxResponseSize = 10 * 1024 * 1024

// TokenPair is the body of login and refresh responses
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// Client talks to the hospital API
type Client struct {
	baseURL    string
	httpClient *http.Client
	// refreshes collapses concurrent refreshes of the same refresh token
	refreshes singleflight.Group
}

// NewClient creates a client for baseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// Do sends one JSON request. body and out may be nil; auth may be nil for public
// endpoints. A 401 on an authenticated request triggers a single refresh and a
// single replay; a failed refresh clears auth and returns ErrSessionExpired.
func (c *Client) Do(ctx context.Context, auth *AuthContext, method, path string, query url.Values, body, out any) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	if auth == nil {
		return c.send(ctx, method, path, query, payload, "", out)
	}

	sent := auth.Tokens()
	err := c.send(ctx, method, path, query, payload, sent.AccessToken, out)
	if !IsStatus(err, http.StatusUnauthorized) || sent.RefreshToken == "" || path == AuthRefresh {
		return err
	}

	if err := c.refresh(ctx, auth, sent); err != nil {
		return err
	}

	return c.send(ctx, method, path, query, payload, auth.Tokens().AccessToken, out)
}

// refresh renews the session unless another request already did it since sent
// was read. Callers sharing a refresh token wait on a single refresh call.
// The session is only cleared when the backend rejects the refresh; transport
// failures and cancellation are returned as is.
func (c *Client) refresh(ctx context.Context, auth *AuthContext, sent Tokens) error {
	if alreadyRefreshed(auth, sent) {
		return nil
	}

	v, err, shared := c.refreshes.Do(sent.RefreshToken, func() (any, error) {
		if alreadyRefreshed(auth, sent) {
			current := auth.Tokens()
			return TokenPair{AccessToken: current.AccessToken, RefreshToken: current.RefreshToken}, nil
		}

		// Outlives the caller that started the shared refresh
		refreshCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.httpClient.Timeout)
		defer cancel()

		var pair TokenPair
		body, _ := json.Marshal(map[string]string{"refreshToken": sent.RefreshToken})
		if err := c.send(refreshCtx, http.MethodPost, AuthRefresh, nil, body, "", &pair); err != nil {
			return nil, err
		}
		if pair.AccessToken == "" {
			return nil, errNoAccessToken
		}
		auth.Set(pair.AccessToken, pair.RefreshToken)
		return pair, nil
	})
	if err != nil {
		if !refreshRejected(err) {
			logging.Warn("Session refresh did not complete", "error", err)
			return err
		}
		auth.Clear()
		logging.Warn("Session refresh rejected", "error", err)
		return fmt.Errorf("%w: %v", ErrSessionExpired, err)
	}

	pair := v.(TokenPair)
	auth.Set(pair.AccessToken, pair.RefreshToken)
	logging.Debug("Session refreshed", "shared", shared)
	return nil
}

// refreshRejected reports whether the backend refused the refresh token itself
func refreshRejected(err error) bool {
	if errors.Is(err, errNoAccessToken) {
		return true
	}
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500
}

func alreadyRefreshed(auth *AuthContext, sent Tokens) bool {
	current := auth.Tokens()
	return current.AccessToken != "" && current.AccessToken != sent.AccessToken
}

func (c *Client) send(ctx context.Context, method, path string, query url.Values, payload []byte, token string, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	requestID := middleware.GetReqID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	req.Header.Set("X-Request-ID", requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.HospitalAPIRequests.WithLabelValues(method, metricEndpoint(path), "error").Inc()
		return fmt.Errorf("%w: %s %s: %v", ErrUnreachable, method, path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logging.Warn("Failed to close response body", "error", err)
		}
	}()

	metrics.HospitalAPIRequests.WithLabelValues(method, metricEndpoint(path), strconv.Itoa(resp.StatusCode)).Inc()

	limited := io.LimitReader(resp.Body, maxResponseSize)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var body errorBody
		// Non-JSON error pages fall back to the status text
		_ = json.NewDecoder(limited).Decode(&body)
		return newAPIError(resp.StatusCode, body)
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(limited).Decode(out); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to decode %s response: %w", path, err)
	}
	return nil
}

// metricEndpoint replaces identifier segments so labels stay bounded
func metricEndpoint(path string) string {
	segments := strings.Split(path, "/")
	for i, s := range segments {
		if strings.ContainsAny(s, "0123456789") {
			segments[i] = ":id"
		}
	}
	return strings.Join(segments, "/")
}
