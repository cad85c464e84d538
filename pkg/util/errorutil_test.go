package util_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/pkg/util"
)

// TestToDomainError_Passthrough verifies DomainErrors survive mapping.
func TestToDomainError_Passthrough(t *testing.T) {
	original := util.NewValidationError("Validation error", []util.FieldError{{Field: "subject", Message: "Subject is required"}})
	mapped := util.ToDomainError(original)
	require.NotNil(t, mapped)
	assert.Equal(t, "VALIDATION_FAILED", mapped.Code)
	assert.Equal(t, http.StatusBadRequest, mapped.HTTPStatus)
	assert.Len(t, mapped.Fields, 1)
}

// TestToDomainError_NoRows verifies pgx.ErrNoRows maps to 404.
func TestToDomainError_NoRows(t *testing.T) {
	mapped := util.ToDomainError(pgx.ErrNoRows)
	require.NotNil(t, mapped)
	assert.Equal(t, "NOT_FOUND", mapped.Code)
	assert.Equal(t, http.StatusNotFound, mapped.HTTPStatus)
}

// TestToDomainError_Unknown verifies unknown errors are wrapped without
// leaking the cause in the message.
func TestToDomainError_Unknown(t *testing.T) {
	cause := errors.New("connection refused")
	mapped := util.ToDomainError(cause)
	require.NotNil(t, mapped)
	assert.Equal(t, "INTERNAL_ERROR", mapped.Code)
	assert.Equal(t, "internal server error", mapped.Message)
	assert.ErrorIs(t, mapped, cause)
}

// TestIsNotFound distinguishes 404s from other taxonomy members.
func TestIsNotFound(t *testing.T) {
	assert.True(t, util.IsNotFound(util.NewNotFound("Complaint")))
	assert.False(t, util.IsNotFound(util.NewValidationError("Validation error", nil)))
	assert.False(t, util.IsNotFound(nil))
}
