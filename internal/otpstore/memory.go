package otpstore

import (
	"context"
	"sync"
	"time"

	"github.com/ignatzorin/wxai-backend/internal/models"
)

type memoryEntry struct {
	rec      models.PendingVerification
	deadline time.Time
	claimed  bool
}

// MemoryStore хранилище в памяти процесса. Просроченные записи удаляются
// лениво при обращении, фоновой очистки нет.
type MemoryStore struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

// NewMemoryStore создаёт пустое хранилище.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

func (s *MemoryStore) Put(_ context.Context, key string, rec models.PendingVerification, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key] = &memoryEntry{rec: rec, deadline: s.now().Add(ttl)}
	return nil
}

func (s *MemoryStore) Get(_ context.Context, key string) (*models.PendingVerification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookup(key)
	if e == nil || e.claimed {
		return nil, ErrNotFound
	}
	rec := e.rec
	return &rec, nil
}

func (s *MemoryStore) TakeIfValid(_ context.Context, key string, check CheckFunc) (Lease, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.lookup(key)
	if e == nil || e.claimed {
		return nil, ErrNotFound
	}
	if err := check(e.rec); err != nil {
		return nil, err
	}

	e.claimed = true
	return &memoryLease{store: s, key: key, entry: e}, nil
}

// Len количество записей, включая захваченные.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// lookup вызывается под мьютексом.
func (s *MemoryStore) lookup(key string) *memoryEntry {
	e, ok := s.entries[key]
	if !ok {
		return nil
	}
	if !e.claimed && s.now().After(e.deadline) {
		delete(s.entries, key)
		return nil
	}
	return e
}

type memoryLease struct {
	store *MemoryStore
	key   string
	entry *memoryEntry
}

func (l *memoryLease) Record() models.PendingVerification {
	return l.entry.rec
}

func (l *memoryLease) Commit(context.Context) error {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	// Новый Put заменяет entry, такую запись не трогаем.
	if l.store.entries[l.key] == l.entry {
		delete(l.store.entries, l.key)
	}
	return nil
}

func (l *memoryLease) Release(context.Context) error {
	l.store.mu.Lock()
	defer l.store.mu.Unlock()

	if l.store.entries[l.key] == l.entry {
		l.entry.claimed = false
	}
	return nil
}
