package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeToHTTPStatus(t *testing.T) {
	cases := map[ErrorCode]int{
		ErrCodeNotFound:     http.StatusNotFound,
		ErrCodeUnauthorized: http.StatusUnauthorized,
		ErrCodeTrialUsed:    http.StatusForbidden,
		ErrCodeInvalidOTP:   http.StatusBadRequest,
		ErrCodeConflict:     http.StatusConflict,
		ErrCodeUpstream:     http.StatusBadGateway,
		ErrCodeDelivery:     http.StatusInternalServerError,
	}
	for code, status := range cases {
		assert.Equal(t, status, New(code, "x").HTTPStatus, code)
	}
}

func TestFrom(t *testing.T) {
	cause := errors.New("pq: connection refused")
	wrapped := fmt.Errorf("handler: %w", Wrap(cause, ErrCodeConflict, "email уже зарегистрирован"))

	got := From(wrapped)
	assert.Equal(t, ErrCodeConflict, got.Code)
	assert.ErrorIs(t, got, cause)

	internal := From(cause)
	assert.Equal(t, ErrCodeInternal, internal.Code)
	assert.Equal(t, http.StatusInternalServerError, internal.HTTPStatus)
}

func TestWithStatus_DoesNotMutateOriginal(t *testing.T) {
	base := New(ErrCodeDelivery, "не удалось отправить код")
	changed := base.WithStatus(http.StatusServiceUnavailable)

	assert.Equal(t, http.StatusInternalServerError, base.HTTPStatus)
	assert.Equal(t, http.StatusServiceUnavailable, changed.HTTPStatus)
	assert.True(t, IsValidation(New(ErrCodeValidation, "x")))
	assert.True(t, IsNotFound(fmt.Errorf("wrap: %w", New(ErrCodeNotFound, "x"))))
}
