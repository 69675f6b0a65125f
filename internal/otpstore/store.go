// Package otpstore хранит заявки на регистрацию, ожидающие подтверждения кодом.
//
// Запись живёт до успешной проверки или до истечения срока хранения.
// Проверка кода и захват записи выполняются атомарно: пока запись захвачена
// одним проверяющим, для остальных её нет.
package otpstore

import (
	"context"
	"errors"
	"time"

	"github.com/ignatzorin/wxai-backend/internal/models"
)

// ErrNotFound возвращается, когда живой записи по ключу нет.
var ErrNotFound = errors.New("otpstore: pending verification not found")

// CheckFunc решает, можно ли забрать запись. Ошибка возвращается вызывающему как есть,
// запись при этом остаётся нетронутой.
type CheckFunc func(rec models.PendingVerification) error

// Store хранилище ожидающих подтверждений.
type Store interface {
	// Put сохраняет запись, перезаписывая предыдущую. ttl срок хранения ключа.
	Put(ctx context.Context, key string, rec models.PendingVerification, ttl time.Duration) error
	// Get возвращает незахваченную запись.
	Get(ctx context.Context, key string) (*models.PendingVerification, error)
	// TakeIfValid атомарно проверяет запись и захватывает её.
	TakeIfValid(ctx context.Context, key string, check CheckFunc) (Lease, error)
}

// Lease захваченная запись.
type Lease interface {
	Record() models.PendingVerification
	// Commit удаляет запись, если её не успели перезаписать.
	Commit(ctx context.Context) error
	// Release снимает захват, запись снова доступна для проверки.
	Release(ctx context.Context) error
}
