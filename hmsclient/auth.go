package hmsclient

import (
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Tokens is a snapshot of a session's credentials
type Tokens struct {
	AccessToken  string
	RefreshToken string
	// ExpiresAt is read from the access token's exp claim, zero when absent
	ExpiresAt time.Time
}

// AuthContext holds the bearer credentials of one session. It is passed to every
// request explicitly and is safe for concurrent use.
type AuthContext struct {
	mu     sync.RWMutex
	tokens Tokens
}

// NewAuthContext returns a context holding the given tokens. Both may be empty.
func NewAuthContext(accessToken, refreshToken string) *AuthContext {
	a := &AuthContext{}
	a.Set(accessToken, refreshToken)
	return a
}

// Set stores a new token pair, at login or after a refresh. An empty refresh
// token keeps the current one.
func (a *AuthContext) Set(accessToken, refreshToken string) {
	expiresAt := tokenExpiry(accessToken)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.tokens.AccessToken = accessToken
	if refreshToken != "" {
		a.tokens.RefreshToken = refreshToken
	}
	a.tokens.ExpiresAt = expiresAt
}

// Clear drops all credentials, at logout or when the session expired
func (a *AuthContext) Clear() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.tokens = Tokens{}
}

// Tokens returns the current credentials
func (a *AuthContext) Tokens() Tokens {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.tokens
}

// Authenticated reports whether an access token is set
func (a *AuthContext) Authenticated() bool {
	return a.Tokens().AccessToken != ""
}

// Expired reports whether the access token's exp is at or before now.
// Tokens without exp never expire locally; the server decides.
func (a *AuthContext) Expired(now time.Time) bool {
	t := a.Tokens()
	return !t.ExpiresAt.IsZero() && !now.Before(t.ExpiresAt)
}

// tokenExpiry reads exp without verifying the signature. The client cannot verify
// tokens issued by the backend and only uses exp as a hint.
func tokenExpiry(token string) time.Time {
	if token == "" {
		return time.Time{}
	}

	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	unverified, _, err := parser.ParseUnverified(token, jwt.MapClaims{})
	if err != nil {
		return time.Time{}
	}

	exp, err := unverified.Claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}
