package memory

import (
	"context"
	"sync"
	"time"

	"moneynerds-backend/internal/features/identity/models"
	"moneynerds-backend/internal/features/identity/repository"
)

type record struct {
	identity models.Identity
	hash     []byte
}

// MemoryRepository is an in-memory IdentityRepository used in tests.
type MemoryRepository struct {
	mu      sync.RWMutex
	byEmail map[string]*record
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{byEmail: make(map[string]*record)}
}

func (r *MemoryRepository) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrIdentityNotFound
	}
	identity := rec.identity
	return &identity, nil
}

func (r *MemoryRepository) Create(ctx context.Context, identity *models.Identity, passwordHash []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	identity.CreatedAt = now
	identity.UpdatedAt = now
	r.byEmail[identity.Email] = &record{identity: *identity, hash: passwordHash}
	return nil
}

func (r *MemoryRepository) RotatePassword(ctx context.Context, id string, passwordHash []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, rec := range r.byEmail {
		if rec.identity.ID == id {
			rec.hash = passwordHash
			rec.identity.UpdatedAt = time.Now()
			return nil
		}
	}
	return repository.ErrIdentityNotFound
}

func (r *MemoryRepository) GetPasswordHash(ctx context.Context, email string) ([]byte, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.byEmail[email]
	if !ok {
		return nil, repository.ErrIdentityNotFound
	}
	return rec.hash, nil
}
