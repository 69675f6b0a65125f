package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/wxai-backend/internal/models"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	raw, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { raw.Close() })
	return sqlx.NewDb(raw, "sqlmock"), mock
}

func TestUserRepository_Create(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := NewUserRepository(conn)

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery(`(?s)INSERT INTO users \(name, email, password_hash\).*RETURNING id, trial_used, created_at, updated_at`).
		WithArgs("Ann", "ann@x.com", "hash").
		WillReturnRows(sqlmock.NewRows([]string{"id", "trial_used", "created_at", "updated_at"}).
			AddRow(id.String(), false, now, now))

	user := &models.User{Name: "Ann", Email: "ann@x.com", PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))

	assert.Equal(t, id, user.ID)
	assert.False(t, user.TrialUsed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_Create_UniqueViolation(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := NewUserRepository(conn)

	mock.ExpectQuery(`INSERT INTO users`).
		WithArgs("Ann", "ann@x.com", "hash").
		WillReturnError(&pq.Error{Code: "23505", Message: "duplicate key value violates unique constraint"})

	err := repo.Create(context.Background(), &models.User{Name: "Ann", Email: "ann@x.com", PasswordHash: "hash"})
	assert.ErrorIs(t, err, ErrEmailTaken)
}

func TestUserRepository_Create_DBError(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := NewUserRepository(conn)

	mock.ExpectQuery(`INSERT INTO users`).WillReturnError(errors.New("db down"))

	err := repo.Create(context.Background(), &models.User{Name: "Ann", Email: "ann@x.com", PasswordHash: "hash"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrEmailTaken)
	assert.Contains(t, err.Error(), "db down")
}

func TestUserRepository_ExistsByEmail(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := NewUserRepository(conn)

	mock.ExpectQuery(`SELECT EXISTS \(SELECT 1 FROM users WHERE email = \$1\)`).
		WithArgs("ann@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByEmail(context.Background(), "ann@x.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserRepository_GetByEmail_NotFound(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := NewUserRepository(conn)

	mock.ExpectQuery(`SELECT .* FROM users WHERE email = \$1`).
		WithArgs("nobody@x.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "trial_used", "created_at", "updated_at"}))

	_, err := repo.GetByEmail(context.Background(), "nobody@x.com")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestUserRepository_GetByID(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := NewUserRepository(conn)

	id := uuid.New()
	now := time.Now()
	mock.ExpectQuery(`SELECT .* FROM users WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "email", "password_hash", "trial_used", "created_at", "updated_at"}).
			AddRow(id.String(), "Ann", "ann@x.com", "hash", true, now, now))

	user, err := repo.GetByID(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, "Ann", user.Name)
	assert.True(t, user.TrialUsed)
}

func TestUserRepository_SetTrialUsed(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := NewUserRepository(conn)
	id := uuid.New()

	mock.ExpectExec(`(?s)UPDATE users SET trial_used = TRUE.*WHERE id = \$1 AND trial_used = FALSE`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetTrialUsed(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetTrialUsed_AlreadySet(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := NewUserRepository(conn)
	id := uuid.New()

	mock.ExpectExec(`UPDATE users SET trial_used = TRUE`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT trial_used FROM users WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"trial_used"}).AddRow(true))

	require.NoError(t, repo.SetTrialUsed(context.Background(), id))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepository_SetTrialUsed_UnknownUser(t *testing.T) {
	conn, mock := newMockDB(t)
	repo := NewUserRepository(conn)
	id := uuid.New()

	mock.ExpectExec(`UPDATE users SET trial_used = TRUE`).
		WithArgs(id).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT trial_used FROM users WHERE id = \$1`).
		WithArgs(id).
		WillReturnRows(sqlmock.NewRows([]string{"trial_used"}))

	assert.ErrorIs(t, repo.SetTrialUsed(context.Background(), id), ErrUserNotFound)
}
