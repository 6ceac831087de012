// Package auth wraps the hosted auth provider. Tokens are opaque bearer
// tokens; every protected request resolves its token against the provider,
// with no local session state or caching.
package auth

import (
	"context"
	"errors"
)

// ErrInvalidToken is returned when a bearer token cannot be resolved.
var ErrInvalidToken = errors.New("invalid token")

// ErrUserExists is returned when creating an identity that already exists.
var ErrUserExists = errors.New("user already exists")

// User is the provider-side identity behind a token.
type User struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  string `json:"role"`
}

// TokenVerifier resolves bearer tokens to users; the HTTP middleware
// depends on this rather than the full client.
type TokenVerifier interface {
	GetUser(ctx context.Context, token string) (*User, error)
}

// Provider is the full auth surface the services use.
type Provider interface {
	TokenVerifier
	SignUp(ctx context.Context, email, password, name, role string) (*User, error)
	Login(ctx context.Context, email, password string) (string, *User, error)
	DeleteUser(ctx context.Context, id string) error
}
