package services

import (
	"context"
	"net/http"

	"github.com/giygas/hospital-api/hmsclient"
	"github.com/giygas/hospital-api/validation"
)

// AuthService logs sessions in and out
type AuthService struct {
	client Doer
}

// Login exchanges credentials for a new session
func (s *AuthService) Login(ctx context.Context, creds Credentials) (*hmsclient.AuthContext, *User, error) {
	if err := validation.Required("email", creds.Email); err != nil {
		return nil, nil, invalid("email", err)
	}
	if err := validation.Required("password", creds.Password); err != nil {
		return nil, nil, invalid("password", err)
	}

	var resp LoginResponse
	if err := s.client.Do(ctx, nil, http.MethodPost, hmsclient.AuthLogin, nil, creds, &resp); err != nil {
		return nil, nil, err
	}
	return hmsclient.NewAuthContext(resp.AccessToken, resp.RefreshToken), &resp.User, nil
}

// Logout ends the session server-side. The local credentials are cleared even
// when the request fails.
func (s *AuthService) Logout(ctx context.Context, auth *hmsclient.AuthContext) error {
	defer auth.Clear()
	if !auth.Authenticated() {
		return nil
	}
	return s.client.Do(ctx, auth, http.MethodPost, hmsclient.AuthLogout, nil, nil, nil)
}

// Me returns the account behind auth
func (s *AuthService) Me(ctx context.Context, auth *hmsclient.AuthContext) (*User, error) {
	if !auth.Authenticated() {
		return nil, hmsclient.ErrNotAuthenticated
	}
	var user User
	if err := s.client.Do(ctx, auth, http.MethodGet, hmsclient.AuthMe, nil, nil, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
