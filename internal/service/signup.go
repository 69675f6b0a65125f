package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/ignatzorin/wxai-backend/internal/models"
	"github.com/ignatzorin/wxai-backend/internal/validation"
)

// bcryptCost в тестах понижается до bcrypt.MinCost.
var bcryptCost = bcrypt.DefaultCost

// UserStore описывает зависимости сервисов аутентификации от хранилища пользователей.
type UserStore interface {
	Create(ctx context.Context, user *models.User) error
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// SignupInput данные регистрации.
type SignupInput struct {
	Name     string
	Email    string
	Password string
}

// AuthResult итог регистрации или входа.
type AuthResult struct {
	User  *models.User
	Token string
}

// normalize проверяет поля и приводит email к каноническому виду.
func (in SignupInput) normalize() (SignupInput, error) {
	if err := validation.ValidateName(in.Name); err != nil {
		return in, err
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return in, err
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return in, err
	}

	return SignupInput{
		Name:     strings.TrimSpace(in.Name),
		Email:    validation.NormalizeEmail(in.Email),
		Password: in.Password,
	}, nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("не удалось захешировать пароль: %w", err)
	}
	return string(hash), nil
}
