package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCode_HTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeValidation, http.StatusBadRequest},
		{CodeConflict, http.StatusConflict},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeNotFound, http.StatusNotFound},
		{CodePayloadTooLarge, http.StatusRequestEntityTooLarge},
		{CodeSchema, http.StatusInternalServerError},
		{CodeUnavailable, http.StatusInternalServerError},
		{CodeStorage, http.StatusInternalServerError},
		{CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.code.HTTPStatus(), tt.code)
	}
}

func TestCode_IsStorage(t *testing.T) {
	assert.True(t, CodeSchema.IsStorage())
	assert.True(t, CodeUnavailable.IsStorage())
	assert.False(t, CodeNotFound.IsStorage())
	assert.False(t, CodeValidation.IsStorage())
}

func TestError_IsAndUnwrap(t *testing.T) {
	cause := errors.New("no such table: ratings")
	err := fmt.Errorf("get rating: %w", Schema("Table does not exist").WithCause(cause))

	assert.ErrorIs(t, err, ErrSchema)
	assert.NotErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "no such table")

	var domainErr *Error
	require.ErrorAs(t, err, &domainErr)
	assert.True(t, domainErr.IsStorage())
}

func TestWithDetails_KeepsCode(t *testing.T) {
	err := PayloadTooLarge("Poster exceeds the size limit").WithDetails(map[string]int64{"limit": 16})
	assert.Equal(t, CodePayloadTooLarge, err.Code)
	assert.Equal(t, map[string]int64{"limit": 16}, err.Details)
}
