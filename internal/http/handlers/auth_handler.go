package handlers

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ignatzorin/wxai-backend/internal/dto"
	"github.com/ignatzorin/wxai-backend/internal/http/handlers/common"
	"github.com/ignatzorin/wxai-backend/internal/pkg/apperror"
	"github.com/ignatzorin/wxai-backend/internal/service"
)

// OTPFlow регистрация через код подтверждения.
type OTPFlow interface {
	RequestCode(ctx context.Context, in service.SignupInput) error
	VerifyCode(ctx context.Context, email, code string) (*service.AuthResult, error)
}

// PasswordAuth регистрация и вход по паролю.
type PasswordAuth interface {
	Signup(ctx context.Context, in service.SignupInput) (*service.AuthResult, error)
	Login(ctx context.Context, email, password string) (*service.AuthResult, error)
}

// AuthHandler предоставляет HTTP слой для регистрации и логина.
type AuthHandler struct {
	otp  OTPFlow
	auth PasswordAuth
}

// NewAuthHandler создаёт хэндлер.
func NewAuthHandler(otp OTPFlow, auth PasswordAuth) *AuthHandler {
	return &AuthHandler{otp: otp, auth: auth}
}

// SendOTP обрабатывает POST /api/auth/send-otp.
func (h *AuthHandler) SendOTP(c *gin.Context) {
	var req dto.SendOTPRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	err := h.otp.RequestCode(c.Request.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		appErr := toAppError(err)
		// Повторная регистрация на этом шаге отдаётся как 400.
		if errors.Is(err, service.ErrAlreadyRegistered) {
			appErr = apperror.From(appErr).WithStatus(http.StatusBadRequest)
		}
		common.Fail(c, appErr)
		return
	}

	c.JSON(http.StatusOK, dto.MessageResponse{Message: "код подтверждения отправлен на почту"})
}

// VerifyOTP обрабатывает POST /api/auth/verify-otp.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req dto.VerifyOTPRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	result, err := h.otp.VerifyCode(c.Request.Context(), req.Email, req.OTP)
	if err != nil {
		common.Fail(c, toAppError(err))
		return
	}

	c.JSON(http.StatusOK, authResponse(result))
}

// Signup обрабатывает POST /api/auth/signup.
func (h *AuthHandler) Signup(c *gin.Context) {
	var req dto.SignupRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	result, err := h.auth.Signup(c.Request.Context(), service.SignupInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		common.Fail(c, toAppError(err))
		return
	}

	c.JSON(http.StatusCreated, authResponse(result))
}

// Login обрабатывает POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := common.BindJSON(c, &req); err != nil {
		common.Fail(c, err)
		return
	}

	result, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		common.Fail(c, toAppError(err))
		return
	}

	c.JSON(http.StatusOK, authResponse(result))
}

func authResponse(result *service.AuthResult) dto.AuthResponse {
	return dto.AuthResponse{Token: result.Token, User: result.User.Public()}
}
