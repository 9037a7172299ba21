package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusCodes(t *testing.T) {
	cases := []struct {
		err  *AppError
		want int
	}{
		{NotFound("missing"), http.StatusNotFound},
		{BadRequest("bad"), http.StatusBadRequest},
		{Unauthorized("who"), http.StatusUnauthorized},
		{Forbidden("no"), http.StatusForbidden},
		{Conflict("taken"), http.StatusConflict},
		{Internal(fmt.Errorf("boom")), http.StatusInternalServerError},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.err.StatusCode())
	}
}

func TestFromWrapsUnknownErrors(t *testing.T) {
	cause := fmt.Errorf("connection refused")

	appErr := From(cause)
	assert.Equal(t, KindInternal, appErr.Kind)
	assert.Equal(t, "internal server error", appErr.Message)
	assert.ErrorIs(t, appErr, cause)
}

func TestFromUnwrapsNestedAppError(t *testing.T) {
	inner := Conflict("slot taken")
	wrapped := fmt.Errorf("booking: %w", inner)

	appErr := From(wrapped)
	assert.Equal(t, inner, appErr)
	assert.True(t, IsKind(wrapped, KindConflict))
	assert.False(t, IsKind(wrapped, KindNotFound))
}
