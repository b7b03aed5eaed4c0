// Package response writes JSON bodies and the {"error": true, "message": ...}
// error shape shared by every CineVault endpoint.
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	domainerrors "github.com/cinevault/cinevault-server/internal/errors"
)

// MsgInternal replaces storage and unexpected fault messages in production.
const MsgInternal = "Internal server error"

// ErrorBody is the body of every error response. Detail is only set outside
// production.
type ErrorBody struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// JSON writes data as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, data any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		if logger != nil {
			logger.Error("Failed to encode JSON response", "error", err)
		}
	}
}

// Success writes a successful JSON response (200 OK).
func Success(w http.ResponseWriter, data any, logger *slog.Logger) {
	JSON(w, http.StatusOK, data, logger)
}

// Describe maps err to a status and error body.
//
// Domain errors keep their code's status. User-facing messages are always
// shown; storage and unexpected faults read MsgInternal in production and
// carry the cause chain in Detail otherwise.
func Describe(err error, production bool) (int, ErrorBody) {
	var domainErr *domainerrors.Error
	if !errors.As(err, &domainErr) {
		body := ErrorBody{Error: true, Message: MsgInternal}
		if !production {
			body.Detail = err.Error()
		}
		return http.StatusInternalServerError, body
	}

	body := ErrorBody{Error: true, Message: domainErr.Message}
	if domainErr.IsStorage() {
		if production {
			body.Message = MsgInternal
		} else if cause := errors.Unwrap(domainErr); cause != nil {
			body.Detail = cause.Error()
		}
	}
	return domainErr.HTTPStatus(), body
}

// HandleError writes the response Describe returns for err. Server faults
// are logged.
func HandleError(w http.ResponseWriter, err error, production bool, logger *slog.Logger) {
	status, body := Describe(err, production)
	if status >= http.StatusInternalServerError && logger != nil {
		logger.Error("Request failed", "status", status, "error", err)
	}
	JSON(w, status, body, logger)
}
