package repository

import (
	"context"
	"errors"

	"moneynerds-backend/internal/features/identity/models"
)

var ErrIdentityNotFound = errors.New("identity not found")

// IdentityRepository persists identities and their password hashes.
type IdentityRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.Identity, error)
	Create(ctx context.Context, identity *models.Identity, passwordHash []byte) error
	RotatePassword(ctx context.Context, id string, passwordHash []byte) error
	GetPasswordHash(ctx context.Context, email string) ([]byte, error)
}
