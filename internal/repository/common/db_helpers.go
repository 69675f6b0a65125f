package common

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// UniqueViolation код ошибки PostgreSQL для нарушения UNIQUE.
const UniqueViolation = "23505"

// IsUniqueViolation сообщает, что запрос упал на уникальном индексе.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == UniqueViolation
}

// GetOne выполняет запрос одной строки. Отсутствие строки превращается в notFoundErr.
func GetOne[T any](ctx context.Context, db sqlx.QueryerContext, notFoundErr error, query string, args ...any) (*T, error) {
	var entity T
	if err := sqlx.GetContext(ctx, db, &entity, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFoundErr
		}
		return nil, err
	}
	return &entity, nil
}
