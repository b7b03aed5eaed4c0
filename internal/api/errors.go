package api

import (
	"errors"
	"net/http"
	"sync"

	"github.com/danielgtaylor/huma/v2"

	domainerrors "github.com/cinevault/cinevault-server/internal/errors"
	"github.com/cinevault/cinevault-server/internal/http/response"
)

// MsgRouteNotFound is returned for unknown paths.
const MsgRouteNotFound = "Route not found"

// APIError implements huma.StatusError with the {"error": true, "message"} body.
type APIError struct { //nolint:revive // API prefix is intentional for clarity
	status  int
	Failed  bool   `json:"error" doc:"Always true"`
	Message string `json:"message" doc:"Human-readable error message"`
	Detail  string `json:"detail,omitempty" doc:"Underlying fault, outside production only"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return e.Message
}

// GetStatus implements huma.StatusError.
func (e *APIError) GetStatus() int {
	return e.status
}

// ContentType returns the content type for the error response.
func (e *APIError) ContentType(_ string) string {
	return "application/json"
}

func newAPIError(status int, body response.ErrorBody) *APIError {
	return &APIError{
		status:  status,
		Failed:  true,
		Message: body.Message,
		Detail:  body.Detail,
	}
}

// registerErrorHandler installs the huma error constructor. huma.NewError is
// process global, so it only renders errors huma raises itself (bad bodies,
// rate limiting) and never depends on a server's options. Handlers convert
// their own errors with Server.apiError.
var registerErrorHandler = sync.OnceFunc(func() {
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		for _, err := range errs {
			var domainErr *domainerrors.Error
			if errors.As(err, &domainErr) {
				return newAPIError(response.Describe(domainErr, true))
			}
		}

		// Schema violations are plain bad requests to clients.
		if status == http.StatusUnprocessableEntity {
			status = http.StatusBadRequest
		}

		body := response.ErrorBody{Error: true, Message: message}
		if status >= http.StatusInternalServerError {
			body.Message = response.MsgInternal
		}
		return newAPIError(status, body)
	}
})

// apiError renders err for a huma handler using this server's options.
func (s *Server) apiError(err error) error {
	status, body := response.Describe(err, s.opts.Production)
	if status >= http.StatusInternalServerError {
		s.logger.Error("Request failed", "status", status, "error", err)
	}
	return newAPIError(status, body)
}

// writeError renders err on a chi route.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	response.HandleError(w, err, s.opts.Production, s.logger)
}
