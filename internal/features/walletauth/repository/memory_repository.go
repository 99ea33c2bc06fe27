package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryRepository is an in-memory NonceRepository used in tests.
type MemoryRepository struct {
	mu     sync.Mutex
	nonces map[string]time.Time
	ttl    time.Duration
}

func NewMemoryRepository(ttl time.Duration) *MemoryRepository {
	return &MemoryRepository{nonces: make(map[string]time.Time), ttl: ttl}
}

func (r *MemoryRepository) Issue(ctx context.Context) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	nonce := uuid.New().String()
	r.nonces[nonce] = time.Now().Add(r.ttl)
	return nonce, nil
}

func (r *MemoryRepository) Consume(ctx context.Context, nonce string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	expiry, ok := r.nonces[nonce]
	if !ok {
		return ErrNonceNotFound
	}
	delete(r.nonces, nonce)

	if time.Now().After(expiry) {
		return ErrNonceNotFound
	}
	return nil
}
