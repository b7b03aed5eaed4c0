package auth

import (
	"errors"
	"time"
)

// Claims is the verified content of a bearer token.
type Claims struct {
	Email     string    `json:"email"`
	Issuer    string    `json:"iss"`
	IssuedAt  time.Time `json:"iat"`
	ExpiresAt time.Time `json:"exp"`
	TokenID   string    `json:"jti"`
}

// ExpiresIn returns the token lifetime in whole seconds.
func (c Claims) ExpiresIn() int64 {
	return int64(c.ExpiresAt.Sub(c.IssuedAt) / time.Second)
}

// Verification failures. Anything that is not ErrTokenExpired is reported as ErrTokenInvalid.
var (
	ErrTokenInvalid = errors.New("invalid token")
	ErrTokenExpired = errors.New("token has expired")
)

// TokenService issues and verifies bearer tokens.
type TokenService interface {
	// Issue creates a token for email valid from now for the configured duration.
	Issue(email string) (string, Claims, error)
	// Verify checks the token and returns its claims.
	Verify(token string) (Claims, error)
}
