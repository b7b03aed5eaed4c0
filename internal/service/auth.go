// Package service holds the CineVault business operations. Services take and
// return domain values and report failures as coded domain errors.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cinevault/cinevault-server/internal/auth"
	"github.com/cinevault/cinevault-server/internal/domain"
	domainerrors "github.com/cinevault/cinevault-server/internal/errors"
	"github.com/cinevault/cinevault-server/internal/store"
	"github.com/cinevault/cinevault-server/internal/validation"
)

// Messages returned by AuthService.
const (
	MsgCredentialsRequired = "Request body incomplete, both email and password are required"
	MsgPasswordTooLong     = "Password is too long"
	MsgInvalidEmail        = "Email must not contain '/', '\\' or NUL characters"
	MsgUserExists          = "User already exists"
	MsgUserCreated         = "User created"
	MsgBadCredentials      = "Incorrect email or password"
	MsgTokenMissing        = "Authorization header ('Bearer token') not found"
	MsgTokenInvalid        = "Invalid token"
	MsgTokenExpired        = "Token has expired"
)

// TokenType is the scheme clients put in front of issued tokens.
const TokenType = "Bearer"

// AuthService registers users, issues tokens and verifies them.
type AuthService struct {
	store     store.UserStore
	tokens    auth.TokenService
	validator *validation.Validator
	logger    *slog.Logger
}

// NewAuthService creates a new authentication service.
func NewAuthService(users store.UserStore, tokens auth.TokenService, logger *slog.Logger) *AuthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuthService{
		store:     users,
		tokens:    tokens,
		validator: validation.New(),
		logger:    logger,
	}
}

// Credentials is the body of register and login requests.
type Credentials struct {
	Email    string `json:"email,omitempty" validate:"required" doc:"Account email"`
	Password string `json:"password,omitempty" validate:"required" doc:"Account password"`
}

// accountKey holds the parts of a new account that end up in poster keys.
type accountKey struct {
	Email string `json:"email" validate:"nopath"`
}

// MessageResponse carries a single human-readable message.
type MessageResponse struct {
	Message string `json:"message"`
}

// LoginResponse is returned by a successful login.
type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
}

// Register creates a user with a bcrypt hash of the password.
func (s *AuthService) Register(ctx context.Context, req Credentials) (*MessageResponse, error) {
	if s.validator.Check(req) != nil {
		return nil, domainerrors.Validation(MsgCredentialsRequired)
	}
	if len(req.Password) > auth.MaxPasswordLength {
		return nil, domainerrors.Validation(MsgPasswordTooLong)
	}
	if s.validator.Check(accountKey{Email: req.Email}) != nil {
		return nil, domainerrors.Validation(MsgInvalidEmail)
	}

	// The unique constraint on users.email still settles concurrent registrations.
	_, err := s.store.GetUserByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, domainerrors.Conflict(MsgUserExists)
	case !errors.Is(err, domainerrors.ErrNotFound):
		return nil, err
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	if err := s.store.CreateUser(ctx, &domain.User{Email: req.Email, Hash: hash}); err != nil {
		if errors.Is(err, domainerrors.ErrConflict) {
			return nil, domainerrors.Conflict(MsgUserExists).WithCause(err)
		}
		return nil, err
	}

	s.logger.Info("user registered", "email", req.Email)
	return &MessageResponse{Message: MsgUserCreated}, nil
}

// Login checks the credentials and issues a bearer token. Unknown emails and
// wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, req Credentials) (*LoginResponse, error) {
	if s.validator.Check(req) != nil {
		return nil, domainerrors.Validation(MsgCredentialsRequired)
	}

	user, err := s.store.GetUserByEmail(ctx, req.Email)
	if errors.Is(err, domainerrors.ErrNotFound) {
		return nil, domainerrors.Unauthorized(MsgBadCredentials)
	}
	if err != nil {
		return nil, err
	}

	if !auth.VerifyPassword(user.Hash, req.Password) {
		s.logger.Debug("login rejected", "email", req.Email)
		return nil, domainerrors.Unauthorized(MsgBadCredentials)
	}

	token, claims, err := s.tokens.Issue(user.Email)
	if err != nil {
		return nil, domainerrors.Internal("failed to issue token").WithCause(err)
	}

	return &LoginResponse{
		Token:     token,
		TokenType: TokenType,
		ExpiresIn: claims.ExpiresIn(),
	}, nil
}

// VerifyToken validates a bearer token and returns the identity it carries.
func (s *AuthService) VerifyToken(_ context.Context, token string) (domain.Identity, error) {
	if token == "" {
		return domain.Identity{}, domainerrors.Unauthorized(MsgTokenMissing)
	}

	claims, err := s.tokens.Verify(token)
	if errors.Is(err, auth.ErrTokenExpired) {
		return domain.Identity{}, domainerrors.Unauthorized(MsgTokenExpired).WithCause(err)
	}
	if err != nil {
		return domain.Identity{}, domainerrors.Unauthorized(MsgTokenInvalid).WithCause(err)
	}

	return domain.Identity{Email: claims.Email}, nil
}
