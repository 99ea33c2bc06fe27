package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"moneynerds-backend/internal/features/identity/models"
	"moneynerds-backend/internal/features/identity/repository"

	_ "github.com/lib/pq"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.IdentityRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*models.Identity, error) {
	query := `
		SELECT id, email, wallet, confirmed, created_at, updated_at
		FROM identities
		WHERE email = $1
	`

	var identity models.Identity
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&identity.ID, &identity.Email, &identity.Wallet,
		&identity.Confirmed, &identity.CreatedAt, &identity.UpdatedAt)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("failed to get identity: %w", err)
	}

	return &identity, nil
}

func (r *postgresRepository) Create(ctx context.Context, identity *models.Identity, passwordHash []byte) error {
	query := `
		INSERT INTO identities (id, email, wallet, password_hash, confirmed)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`

	err := r.db.QueryRowContext(ctx, query,
		identity.ID, identity.Email, identity.Wallet, passwordHash, identity.Confirmed).
		Scan(&identity.CreatedAt, &identity.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create identity: %w", err)
	}

	return nil
}

func (r *postgresRepository) RotatePassword(ctx context.Context, id string, passwordHash []byte) error {
	query := `
		UPDATE identities
		SET password_hash = $2, updated_at = NOW()
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to rotate password: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rotation result: %w", err)
	}
	if rows == 0 {
		return repository.ErrIdentityNotFound
	}

	return nil
}

func (r *postgresRepository) GetPasswordHash(ctx context.Context, email string) ([]byte, error) {
	query := `SELECT password_hash FROM identities WHERE email = $1`

	var hash []byte
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&hash); err != nil {
		if err == sql.ErrNoRows {
			return nil, repository.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("failed to get password hash: %w", err)
	}

	return hash, nil
}
