package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ignatzorin/wxai-backend/internal/models"
	"github.com/ignatzorin/wxai-backend/internal/repository/common"
)

var (
	// ErrUserNotFound возвращается, когда запись пользователя не найдена.
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken возвращается при нарушении уникальности email.
	ErrEmailTaken = errors.New("email already taken")
)

const userColumns = `id, name, email, password_hash, trial_used, created_at, updated_at`

// UserRepository отвечает за работу с таблицей users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository создаёт экземпляр репозитория.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create сохраняет пользователя. ID и временные метки выставляет база.
func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, trial_used, created_at, updated_at
	`

	if err := r.db.QueryRowxContext(
		ctx, query,
		user.Name, user.Email, user.PasswordHash,
	).Scan(&user.ID, &user.TrialUsed, &user.CreatedAt, &user.UpdatedAt); err != nil {
		if common.IsUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("user repository: create %w", err)
	}

	return nil
}

// ExistsByEmail проверяет, занят ли email.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	if err := r.db.GetContext(ctx, &exists, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, email); err != nil {
		return false, fmt.Errorf("user repository: exists by email %w", err)
	}
	return exists, nil
}

// GetByEmail возвращает пользователя по email.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := common.GetOne[models.User](ctx, r.db, ErrUserNotFound, query, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("user repository: get by email %w", err)
	}
	return user, err
}

// GetByID возвращает пользователя по идентификатору.
func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	user, err := common.GetOne[models.User](ctx, r.db, ErrUserNotFound, query, id)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("user repository: get by id %w", err)
	}
	return user, err
}

// GetTrialUsed возвращает флаг использованного пробного запроса.
func (r *UserRepository) GetTrialUsed(ctx context.Context, id uuid.UUID) (bool, error) {
	var used bool
	if err := r.db.GetContext(ctx, &used, `SELECT trial_used FROM users WHERE id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, ErrUserNotFound
		}
		return false, fmt.Errorf("user repository: get trial used %w", err)
	}
	return used, nil
}

// SetTrialUsed выставляет флаг. Повторный вызов ничего не меняет, флаг не сбрасывается.
func (r *UserRepository) SetTrialUsed(ctx context.Context, id uuid.UUID) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET trial_used = TRUE, updated_at = NOW()
		WHERE id = $1 AND trial_used = FALSE
	`, id)
	if err != nil {
		return fmt.Errorf("user repository: set trial used %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("user repository: set trial used %w", err)
	}
	if affected == 0 {
		// Либо флаг уже стоит, либо пользователя нет.
		if _, err := r.GetTrialUsed(ctx, id); err != nil {
			return err
		}
	}
	return nil
}
