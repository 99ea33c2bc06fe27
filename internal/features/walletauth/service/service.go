package service

import (
	"context"
	"crypto/ed25519"
	"encoding/json"
	"errors"
	"fmt"

	"moneynerds-backend/internal/common/logger"
	"moneynerds-backend/internal/common/token"
	"moneynerds-backend/internal/events"
	identityservice "moneynerds-backend/internal/features/identity/service"
	"moneynerds-backend/internal/features/walletauth/models"
	"moneynerds-backend/internal/features/walletauth/repository"

	"github.com/mr-tron/base58"
)

var (
	ErrMissingFields    = errors.New("missing required fields")
	ErrInvalidFormat    = errors.New("invalid signature format")
	ErrNonceExpired     = errors.New("nonce expired or unknown")
	ErrInvalidSignature = errors.New("invalid signature")
)

type Service struct {
	nonces     repository.NonceRepository
	identities *identityservice.Service
	issuer     *token.Issuer
	publisher  events.Publisher
}

func NewService(nonces repository.NonceRepository, identities *identityservice.Service, issuer *token.Issuer, publisher events.Publisher) *Service {
	return &Service{
		nonces:     nonces,
		identities: identities,
		issuer:     issuer,
		publisher:  publisher,
	}
}

// IssueNonce creates a fresh single-use login nonce.
func (s *Service) IssueNonce(ctx context.Context) (string, error) {
	return s.nonces.Issue(ctx)
}

// Verify runs the whole login handshake: decode, consume the nonce, check
// the detached signature over the nonce bytes, map the key to an identity
// and sign it in. Identity creation and password rotation are mutating and
// have no rollback; a failed later step is recovered by the next login
// attempt rotating again.
func (s *Service) Verify(ctx context.Context, req *models.VerifyRequest) (*models.VerifyResponse, error) {
	if req.Nonce == "" || req.PublicKey == "" || len(req.Signature) == 0 {
		return nil, ErrMissingFields
	}

	pubKey, err := base58.Decode(req.PublicKey)
	if err != nil || len(pubKey) != ed25519.PublicKeySize {
		return nil, ErrInvalidFormat
	}

	signature, err := decodeSignature(req.Signature)
	if err != nil || len(signature) != ed25519.SignatureSize {
		return nil, ErrInvalidFormat
	}

	if err := s.nonces.Consume(ctx, req.Nonce); err != nil {
		if errors.Is(err, repository.ErrNonceNotFound) {
			return nil, ErrNonceExpired
		}
		return nil, fmt.Errorf("failed to consume nonce: %w", err)
	}

	if !ed25519.Verify(pubKey, []byte(req.Nonce), signature) {
		return nil, ErrInvalidSignature
	}

	identity, password, err := s.identities.EnsureIdentity(ctx, req.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("identity store: %w", err)
	}

	identity, err = s.identities.Authenticate(ctx, identity.Email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to sign identity in: %w", err)
	}

	pair, err := s.issuer.IssuePair(identity.ID, identity.Wallet, identity.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to issue session: %w", err)
	}

	if err := s.publisher.PublishLogin(ctx, identity.Wallet, identity.ID); err != nil {
		logger.Warn().Err(err).Str("wallet", identity.Wallet).Msg("Failed to publish login event")
	}

	return &models.VerifyResponse{
		Message:      "Signature verified successfully",
		AccessToken:  pair.AccessToken,
		TokenType:    pair.TokenType,
		ExpiresIn:    pair.ExpiresIn,
		RefreshToken: pair.RefreshToken,
		User:         identity,
	}, nil
}

// Refresh rotates a session from a still-valid refresh token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (*token.Pair, error) {
	claims, err := s.issuer.ParseRefresh(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", token.ErrInvalidToken, err)
	}

	return s.issuer.IssuePair(claims.Subject, claims.Wallet, claims.Email)
}

// decodeSignature accepts the two wire encodings wallets produce: a base58
// string or a JSON array of bytes.
func decodeSignature(raw json.RawMessage) ([]byte, error) {
	var asString string
	if err := json.Unmarshal(raw, &asString); err == nil {
		return base58.Decode(asString)
	}

	var asBytes []int
	if err := json.Unmarshal(raw, &asBytes); err != nil {
		return nil, fmt.Errorf("signature is neither a string nor a byte array")
	}

	out := make([]byte, len(asBytes))
	for i, b := range asBytes {
		if b < 0 || b > 255 {
			return nil, fmt.Errorf("signature byte out of range")
		}
		out[i] = byte(b)
	}
	return out, nil
}
