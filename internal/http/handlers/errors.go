package handlers

import (
	"errors"

	"github.com/ignatzorin/wxai-backend/internal/pkg/apperror"
	"github.com/ignatzorin/wxai-backend/internal/service"
	"github.com/ignatzorin/wxai-backend/internal/validation"
)

// Сообщение для всех неудачных проверок кода. Клиент не должен различать причины.
const invalidOTPMessage = "неверный или просроченный код"

// toAppError переводит ошибки сервисов в apperror.
func toAppError(err error) error {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		return appErr
	}

	var vErr *validation.Error
	if errors.As(err, &vErr) {
		return apperror.Wrap(err, apperror.ErrCodeValidation, vErr.Message)
	}

	switch {
	case errors.Is(err, service.ErrAlreadyRegistered):
		return apperror.Wrap(err, apperror.ErrCodeConflict, service.ErrAlreadyRegistered.Error())
	case errors.Is(err, service.ErrCodeNotFound),
		errors.Is(err, service.ErrCodeMismatch),
		errors.Is(err, service.ErrCodeExpired):
		return apperror.Wrap(err, apperror.ErrCodeInvalidOTP, invalidOTPMessage)
	case errors.Is(err, service.ErrDeliveryFailed):
		return apperror.Wrap(err, apperror.ErrCodeDelivery, service.ErrDeliveryFailed.Error())
	case errors.Is(err, service.ErrPersistenceFailed):
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, service.ErrPersistenceFailed.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		return apperror.Wrap(err, apperror.ErrCodeUnauthorized, service.ErrInvalidCredentials.Error())
	case errors.Is(err, service.ErrUserNotFound):
		return apperror.Wrap(err, apperror.ErrCodeNotFound, service.ErrUserNotFound.Error())
	case errors.Is(err, service.ErrTrialUsed):
		return apperror.Wrap(err, apperror.ErrCodeTrialUsed, service.ErrTrialUsed.Error())
	case errors.Is(err, service.ErrUpstreamFailed):
		return apperror.Wrap(err, apperror.ErrCodeUpstream, service.ErrUpstreamFailed.Error())
	default:
		return apperror.From(err)
	}
}
