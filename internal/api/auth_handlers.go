package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/cinevault/cinevault-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "register",
		Method:        http.MethodPost,
		Path:          "/user/register",
		Summary:       "Register new user",
		Description:   "Creates a user account from an email and password.",
		Tags:          []string{"Authentication"},
		DefaultStatus: http.StatusCreated,
		Middlewares:   huma.Middlewares{s.rateLimitAuth},
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/user/login",
		Summary:     "User login",
		Description: "Checks the credentials and returns a bearer token valid for 24 hours.",
		Tags:        []string{"Authentication"},
		Middlewares: huma.Middlewares{s.rateLimitAuth},
	}, s.handleLogin)
}

// === DTOs ===

// CredentialsRequest is the body of register and login. Missing fields are
// reported by the service with a single message, so the schema marks
// neither as required.
type CredentialsRequest struct {
	_        struct{} `json:"-" additionalProperties:"true"`
	Email    string   `json:"email,omitempty" doc:"Account email"`
	Password string   `json:"password,omitempty" doc:"Account password"`
}

// CredentialsInput wraps the credentials body for Huma.
type CredentialsInput struct {
	Body CredentialsRequest `required:"false"`
}

// MessageOutput wraps a single message response.
type MessageOutput struct {
	Body service.MessageResponse
}

// LoginOutput wraps the login response.
type LoginOutput struct {
	Body service.LoginResponse
}

// === Handlers ===

func (s *Server) handleRegister(ctx context.Context, input *CredentialsInput) (*MessageOutput, error) {
	resp, err := s.services.Auth.Register(ctx, service.Credentials{
		Email:    input.Body.Email,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, s.apiError(err)
	}
	return &MessageOutput{Body: *resp}, nil
}

func (s *Server) handleLogin(ctx context.Context, input *CredentialsInput) (*LoginOutput, error) {
	resp, err := s.services.Auth.Login(ctx, service.Credentials{
		Email:    input.Body.Email,
		Password: input.Body.Password,
	})
	if err != nil {
		return nil, s.apiError(err)
	}
	return &LoginOutput{Body: *resp}, nil
}
