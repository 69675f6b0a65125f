package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/wxai-backend/internal/models"
	"github.com/ignatzorin/wxai-backend/internal/repository"
	"github.com/ignatzorin/wxai-backend/internal/validation"
)

// AuthService регистрация без подтверждения почты и вход по паролю.
type AuthService struct {
	users        UserStore
	tokenManager *TokenManager
}

// NewAuthService создаёт сервис аутентификации.
func NewAuthService(users UserStore, tokenManager *TokenManager) *AuthService {
	return &AuthService{
		users:        users,
		tokenManager: tokenManager,
	}
}

// Signup сразу создаёт пользователя и выдаёт токен.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*AuthResult, error) {
	in, err := in.normalize()
	if err != nil {
		return nil, err
	}

	exists, err := s.users.ExistsByEmail(ctx, in.Email)
	if err != nil {
		return nil, fmt.Errorf("auth service: check email: %w", err)
	}
	if exists {
		return nil, ErrAlreadyRegistered
	}

	hash, err := hashPassword(in.Password)
	if err != nil {
		return nil, fmt.Errorf("auth service: %w", err)
	}

	user := &models.User{
		Name:         in.Name,
		Email:        in.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailTaken) {
			return nil, ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("auth service: %w", err)
	}

	return s.result(user)
}

// Login проверяет учётные данные и возвращает токен.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	if err := validation.ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := validation.ValidateNonEmpty("пароль", password); err != nil {
		return nil, err
	}

	user, err := s.users.GetByEmail(ctx, validation.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("auth service: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.result(user)
}

func (s *AuthService) result(user *models.User) (*AuthResult, error) {
	token, err := s.tokenManager.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("auth service: issue token: %w", err)
	}
	return &AuthResult{User: user, Token: token}, nil
}
