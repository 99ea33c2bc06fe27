package client

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"errors"
	"net/http/httptest"
	"testing"
	"time"

	"moneynerds-backend/internal/common/token"
	"moneynerds-backend/internal/events"
	identitymemory "moneynerds-backend/internal/features/identity/repository/memory"
	identityservice "moneynerds-backend/internal/features/identity/service"
	authhttp "moneynerds-backend/internal/features/walletauth/delivery/http"
	authrepo "moneynerds-backend/internal/features/walletauth/repository"
	authservice "moneynerds-backend/internal/features/walletauth/service"

	"github.com/gin-gonic/gin"
	"github.com/mr-tron/base58"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testWallet signs with an in-process ed25519 keypair.
type testWallet struct {
	key ed25519.PrivateKey

	connectErr    error
	signErr       error
	disconnected  bool
	signedMessage []byte
}

func newTestWallet(t *testing.T) *testWallet {
	t.Helper()

	_, key, err := ed25519.GenerateKey(rand.Reader)
	require.NoError(t, err)
	return &testWallet{key: key}
}

func (w *testWallet) Connect(ctx context.Context) (string, error) {
	if w.connectErr != nil {
		return "", w.connectErr
	}
	return base58.Encode(w.key.Public().(ed25519.PublicKey)), nil
}

func (w *testWallet) SignMessage(ctx context.Context, msg []byte) ([]byte, error) {
	if w.signErr != nil {
		return nil, w.signErr
	}
	w.signedMessage = msg
	return ed25519.Sign(w.key, msg), nil
}

func (w *testWallet) Disconnect(ctx context.Context) error {
	w.disconnected = true
	return nil
}

// connectOnlyWallet can connect but not sign.
type connectOnlyWallet struct{}

func (connectOnlyWallet) Connect(ctx context.Context) (string, error) { return "addr", nil }

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	gin.SetMode(gin.TestMode)

	nonces := authrepo.NewMemoryRepository(5 * time.Minute)
	identities := identityservice.NewService(identitymemory.NewMemoryRepository())
	issuer := token.NewIssuer([]byte("test-secret"), time.Hour, 24*time.Hour)
	svc := authservice.NewService(nonces, identities, issuer, events.Nop{})

	router := gin.New()
	authhttp.NewHandler(svc).RegisterRoutes(router.Group("/api"))

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func TestLoginHappyPath(t *testing.T) {
	server := newTestServer(t)
	wallet := newTestWallet(t)
	storage := NewMemoryStorage()
	flow := NewLoginFlow(New(server.URL), wallet, storage)

	assert.Equal(t, StateDisconnected, flow.State())

	session, err := flow.Login(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StateAuthenticated, flow.State())
	assert.True(t, session.Authenticated())
	assert.True(t, session.LocallyValid())
	assert.NotEmpty(t, wallet.signedMessage)

	// The session landed in storage under the persisted keys.
	assert.Equal(t, session.Wallet, storage.Get(StorageKeyWallet))
	assert.Equal(t, session.AccessToken, storage.Get(StorageKeyAccess))
	assert.Equal(t, session.RefreshToken, storage.Get(StorageKeyRefresh))
}

func TestLoginNoWallet(t *testing.T) {
	server := newTestServer(t)
	flow := NewLoginFlow(New(server.URL), nil, NewMemoryStorage())

	_, err := flow.Login(context.Background())
	assert.ErrorIs(t, err, ErrNoWallet)
	assert.Equal(t, StateError, flow.State())
	assert.ErrorIs(t, flow.Err(), ErrNoWallet)
}

func TestLoginWalletMissingSigning(t *testing.T) {
	server := newTestServer(t)
	flow := NewLoginFlow(New(server.URL), connectOnlyWallet{}, NewMemoryStorage())

	_, err := flow.Login(context.Background())
	assert.ErrorIs(t, err, ErrWalletCantSign)
	assert.Equal(t, StateError, flow.State())
}

func TestLoginConnectRefused(t *testing.T) {
	server := newTestServer(t)
	wallet := newTestWallet(t)
	wallet.connectErr = errors.New("user rejected")
	storage := NewMemoryStorage()
	flow := NewLoginFlow(New(server.URL), wallet, storage)

	_, err := flow.Login(context.Background())
	assert.Error(t, err)
	assert.Equal(t, StateError, flow.State())
	assert.False(t, loadSession(storage).Authenticated())
}

func TestLoginSigningRefused(t *testing.T) {
	server := newTestServer(t)
	wallet := newTestWallet(t)
	wallet.signErr = errors.New("user dismissed prompt")
	flow := NewLoginFlow(New(server.URL), wallet, NewMemoryStorage())

	_, err := flow.Login(context.Background())
	assert.Error(t, err)
	assert.Equal(t, StateError, flow.State())
}

func TestLoginRecoversAfterError(t *testing.T) {
	server := newTestServer(t)
	wallet := newTestWallet(t)
	wallet.signErr = errors.New("user dismissed prompt")
	flow := NewLoginFlow(New(server.URL), wallet, NewMemoryStorage())

	_, err := flow.Login(context.Background())
	require.Error(t, err)

	wallet.signErr = nil
	session, err := flow.Login(context.Background())
	require.NoError(t, err)
	assert.True(t, session.Authenticated())
	assert.NoError(t, flow.Err())
}

func TestRestore(t *testing.T) {
	server := newTestServer(t)
	wallet := newTestWallet(t)
	storage := NewMemoryStorage()
	flow := NewLoginFlow(New(server.URL), wallet, storage)

	session, err := flow.Login(context.Background())
	require.NoError(t, err)

	// A fresh flow over the same storage restores the session.
	restored := NewLoginFlow(New(server.URL), wallet, storage)
	got, ok := restored.Restore(context.Background())
	require.True(t, ok)
	assert.Equal(t, session.Wallet, got.Wallet)
	assert.Equal(t, StateAuthenticated, restored.State())
}

func TestRestoreEmptyStorage(t *testing.T) {
	server := newTestServer(t)
	flow := NewLoginFlow(New(server.URL), newTestWallet(t), NewMemoryStorage())

	_, ok := flow.Restore(context.Background())
	assert.False(t, ok)
}

func TestRestoreExpiredSessionDisconnects(t *testing.T) {
	server := newTestServer(t)
	wallet := newTestWallet(t)
	storage := NewMemoryStorage()

	expired, err := token.NewIssuer([]byte("test-secret"), -time.Minute, time.Hour).
		IssuePair("identity-1", "wallet-abc", "")
	require.NoError(t, err)
	saveSession(storage, SessionState{
		Wallet:       "wallet-abc",
		AccessToken:  expired.AccessToken,
		RefreshToken: expired.RefreshToken,
	})

	flow := NewLoginFlow(New(server.URL), wallet, storage)
	_, ok := flow.Restore(context.Background())
	assert.False(t, ok)
	assert.Equal(t, StateDisconnected, flow.State())
	assert.Empty(t, storage.Get(StorageKeyAccess))
	assert.True(t, wallet.disconnected)
}

func TestDisconnectClearsStorage(t *testing.T) {
	server := newTestServer(t)
	wallet := newTestWallet(t)
	storage := NewMemoryStorage()
	flow := NewLoginFlow(New(server.URL), wallet, storage)

	_, err := flow.Login(context.Background())
	require.NoError(t, err)

	flow.Disconnect(context.Background())
	assert.Equal(t, StateDisconnected, flow.State())
	assert.True(t, wallet.disconnected)
	assert.Empty(t, storage.Get(StorageKeyWallet))
	assert.Empty(t, storage.Get(StorageKeyAccess))
	assert.Empty(t, storage.Get(StorageKeyRefresh))
}
