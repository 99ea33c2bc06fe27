package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"moneynerds-backend/internal/features/identity/models"
	"moneynerds-backend/internal/features/identity/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrBadCredentials = errors.New("bad credentials")

type Service struct {
	repo repository.IdentityRepository
}

func NewService(repo repository.IdentityRepository) *Service {
	return &Service{repo: repo}
}

// EnsureIdentity maps a wallet public key to an identity, creating it on
// first login and rotating the password on every later one. The freshly
// generated plaintext password is returned so the caller can immediately
// sign the identity in; it is never stored.
func (s *Service) EnsureIdentity(ctx context.Context, publicKey string) (*models.Identity, string, error) {
	email := models.DeriveEmail(publicKey)

	password, err := randomPassword()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	identity, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if err := s.repo.RotatePassword(ctx, identity.ID, hash); err != nil {
			return nil, "", fmt.Errorf("failed to rotate password: %w", err)
		}
	case errors.Is(err, repository.ErrIdentityNotFound):
		identity = &models.Identity{
			ID:        uuid.New().String(),
			Email:     email,
			Wallet:    publicKey,
			Confirmed: true,
		}
		if err := s.repo.Create(ctx, identity, hash); err != nil {
			return nil, "", fmt.Errorf("failed to create identity: %w", err)
		}
	default:
		return nil, "", fmt.Errorf("failed to look up identity: %w", err)
	}

	return identity, password, nil
}

// Authenticate checks an email/password pair against the stored hash.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*models.Identity, error) {
	hash, err := s.repo.GetPasswordHash(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrIdentityNotFound) {
			return nil, ErrBadCredentials
		}
		return nil, fmt.Errorf("failed to load credentials: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword(hash, []byte(password)); err != nil {
		return nil, ErrBadCredentials
	}

	return s.repo.GetByEmail(ctx, email)
}

func randomPassword() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
