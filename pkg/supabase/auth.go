package supabase

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	pkgerrors "github.com/tumblera/tumblera-backend/pkg/errors"
)

// AuthUser is the subset of the Supabase auth user we consume.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// AuthSession holds the tokens returned by a password grant.
type AuthSession struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	ExpiresIn    int      `json:"expires_in"`
	User         AuthUser `json:"user"`
}

type signUpRequest struct {
	Email    string            `json:"email"`
	Password string            `json:"password"`
	Data     map[string]string `json:"data,omitempty"`
}

type signUpResponse struct {
	ID    string   `json:"id"`
	Email string   `json:"email"`
	User  AuthUser `json:"user"`
}

type passwordGrantRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignUp registers a new auth account. Metadata travels as user_metadata on
// the Supabase side.
func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]string) (AuthUser, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return AuthUser{}, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	var resp signUpResponse
	endpoint := fmt.Sprintf("%s/auth/v1/signup", c.baseURL)
	body := signUpRequest{Email: email, Password: password, Data: metadata}
	if err := c.doJSON(ctx, http.MethodPost, endpoint, body, &resp); err != nil {
		return AuthUser{}, err
	}

	// Depending on email-confirmation settings the user comes back either at
	// the top level or nested under "user".
	user := resp.User
	if user.ID == "" {
		user = AuthUser{ID: resp.ID, Email: resp.Email}
	}
	if user.ID == "" {
		return AuthUser{}, pkgerrors.New(pkgerrors.CodeDependency, "signup returned no user")
	}
	return user, nil
}

// SignInWithPassword exchanges credentials for a Supabase session.
func (c *Client) SignInWithPassword(ctx context.Context, email, password string) (AuthSession, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return AuthSession{}, pkgerrors.New(pkgerrors.CodeValidation, "email and password are required")
	}

	var session AuthSession
	endpoint := fmt.Sprintf("%s/auth/v1/token?grant_type=password", c.baseURL)
	body := passwordGrantRequest{Email: email, Password: password}
	if err := c.doJSON(ctx, http.MethodPost, endpoint, body, &session); err != nil {
		return AuthSession{}, err
	}
	if session.AccessToken == "" {
		return AuthSession{}, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid login credentials")
	}
	return session, nil
}
