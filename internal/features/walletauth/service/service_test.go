package service

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"encoding/json"
	"testing"
	"time"

	"moneynerds-backend/internal/common/token"
	"moneynerds-backend/internal/events"
	identitymemory "moneynerds-backend/internal/features/identity/repository/memory"
	identityservice "moneynerds-backend/internal/features/identity/service"
	"moneynerds-backend/internal/features/walletauth/models"
	"moneynerds-backend/internal/features/walletauth/repository"

	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *Service {
	t.Helper()

	nonces := repository.NewMemoryRepository(5 * time.Minute)
	identities := identityservice.NewService(identitymemory.NewMemoryRepository())
	issuer := token.NewIssuer([]byte("test-secret"), time.Hour, 24*time.Hour)
	return NewService(nonces, identities, issuer, events.Nop{})
}

func signedRequest(t *testing.T, svc *Service, key ed25519.PrivateKey) *models.VerifyRequest {
	t.Helper()

	nonce, err := svc.IssueNonce(context.Background())
	require.NoError(t, err)

	sig := ed25519.Sign(key, []byte(nonce))
	rawSig, err := json.Marshal(base58.Encode(sig))
	require.NoError(t, err)

	return &models.VerifyRequest{
		Nonce:     nonce,
		PublicKey: base58.Encode(key.Public().(ed25519.PublicKey)),
		Signature: rawSig,
	}
}

func TestVerifySuccess(t *testing.T) {
	svc := newTestService(t)

	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	resp, err := svc.Verify(context.Background(), signedRequest(t, svc, priv))
	require.NoError(t, err)

	assert.Equal(t, "Signature verified successfully", resp.Message)
	assert.Equal(t, "bearer", resp.TokenType)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	require.NotNil(t, resp.User)
	assert.Equal(t, base58.Encode(pub), resp.User.Wallet)
	assert.Equal(t, base58.Encode(pub)+"@example.com", resp.User.Email)
	assert.True(t, resp.User.Confirmed)
}

func TestVerifyByteArraySignature(t *testing.T) {
	svc := newTestService(t)

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	nonce, err := svc.IssueNonce(context.Background())
	require.NoError(t, err)

	sig := ed25519.Sign(priv, []byte(nonce))
	asInts := make([]int, len(sig))
	for i, b := range sig {
		asInts[i] = int(b)
	}
	rawSig, err := json.Marshal(asInts)
	require.NoError(t, err)

	resp, err := svc.Verify(context.Background(), &models.VerifyRequest{
		Nonce:     nonce,
		PublicKey: base58.Encode(priv.Public().(ed25519.PublicKey)),
		Signature: rawSig,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
}

func TestVerifySameKeyMapsToSameIdentity(t *testing.T) {
	svc := newTestService(t)

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	first, err := svc.Verify(context.Background(), signedRequest(t, svc, priv))
	require.NoError(t, err)

	second, err := svc.Verify(context.Background(), signedRequest(t, svc, priv))
	require.NoError(t, err)

	assert.Equal(t, first.User.ID, second.User.ID)
	assert.NotEqual(t, first.AccessToken, second.AccessToken)
}

func TestVerifyMissingFields(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Verify(context.Background(), &models.VerifyRequest{})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = svc.Verify(context.Background(), &models.VerifyRequest{
		Nonce:     "abc",
		Signature: json.RawMessage(`"sig"`),
	})
	assert.ErrorIs(t, err, ErrMissingFields)
}

func TestVerifyMalformedKeyAndSignature(t *testing.T) {
	svc := newTestService(t)

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	req := signedRequest(t, svc, priv)
	req.PublicKey = "not-valid-base58-0OIl"
	_, err = svc.Verify(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	req = signedRequest(t, svc, priv)
	req.PublicKey = base58.Encode([]byte("short"))
	_, err = svc.Verify(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	req = signedRequest(t, svc, priv)
	req.Signature = json.RawMessage(`"abc"`)
	_, err = svc.Verify(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidFormat)

	req = signedRequest(t, svc, priv)
	req.Signature = json.RawMessage(`[1, 2, 300]`)
	_, err = svc.Verify(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidFormat)
}

func TestVerifyUnknownNonce(t *testing.T) {
	svc := newTestService(t)

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	req := signedRequest(t, svc, priv)
	req.Nonce = "never-issued"
	sig := ed25519.Sign(priv, []byte(req.Nonce))
	req.Signature, err = json.Marshal(base58.Encode(sig))
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), req)
	assert.ErrorIs(t, err, ErrNonceExpired)
}

func TestVerifyNonceNotReplayable(t *testing.T) {
	svc := newTestService(t)

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	req := signedRequest(t, svc, priv)

	_, err = svc.Verify(context.Background(), req)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), req)
	assert.ErrorIs(t, err, ErrNonceExpired)
}

func TestVerifyWrongSignature(t *testing.T) {
	svc := newTestService(t)

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	_, other, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	// Signed by a different key than the one presented.
	req := signedRequest(t, svc, priv)
	sig := ed25519.Sign(other, []byte(req.Nonce))
	req.Signature, err = json.Marshal(base58.Encode(sig))
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), req)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestVerifyTamperedNonce(t *testing.T) {
	svc := newTestService(t)

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	// Signature covers a different message than the issued nonce.
	nonce, err := svc.IssueNonce(context.Background())
	require.NoError(t, err)

	sig := ed25519.Sign(priv, []byte("something else entirely"))
	rawSig, err := json.Marshal(base58.Encode(sig))
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), &models.VerifyRequest{
		Nonce:     nonce,
		PublicKey: base58.Encode(priv.Public().(ed25519.PublicKey)),
		Signature: rawSig,
	})
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestRefresh(t *testing.T) {
	svc := newTestService(t)

	_, priv, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)

	resp, err := svc.Verify(context.Background(), signedRequest(t, svc, priv))
	require.NoError(t, err)

	pair, err := svc.Refresh(context.Background(), resp.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)

	// An access token must not pass as a refresh token.
	_, err = svc.Refresh(context.Background(), resp.AccessToken)
	assert.Error(t, err)
}
