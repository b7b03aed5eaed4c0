package service

import (
	"io"
	"log/slog"
	"testing"

	"aidanwoods.dev/go-paseto"
	"github.com/stretchr/testify/require"

	"github.com/cinevault/cinevault-server/internal/auth"
	domainerrors "github.com/cinevault/cinevault-server/internal/errors"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestTokens(t *testing.T) auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService(auth.TokenConfig{
		Format:    auth.FormatPaseto,
		Issuer:    "cinevault-test",
		PasetoKey: paseto.NewV4SymmetricKey(),
	})
	require.NoError(t, err)
	return tokens
}

// requireCode asserts err is a domain error with code and message.
func requireCode(t *testing.T, err error, code domainerrors.Code, message string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *domainerrors.Error
	require.ErrorAs(t, err, &domainErr)
	require.Equal(t, code, domainErr.Code)
	if message != "" {
		require.Equal(t, message, domainErr.Message)
	}
}
