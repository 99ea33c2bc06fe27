package client

import (
	"sync"
	"time"

	"moneynerds-backend/internal/common/token"
)

// Storage keys, matching what the web frontend keeps in localStorage.
const (
	StorageKeyWallet  = "phantomWalletAddress"
	StorageKeyAccess  = "sb_access_token"
	StorageKeyRefresh = "sb_refresh_token"
)

// Storage is the local persistence behind the session, the Go analog of
// the browser's localStorage.
type Storage interface {
	Get(key string) string
	Set(key, value string)
	Delete(key string)
}

// MemoryStorage is a Storage kept in process memory.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (s *MemoryStorage) Get(key string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.values[key]
}

func (s *MemoryStorage) Set(key, value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

func (s *MemoryStorage) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.values, key)
}

// SessionState is an explicit value object for the current session,
// replacing the global logged-in flag the UI used to carry.
type SessionState struct {
	Wallet       string
	AccessToken  string
	RefreshToken string
}

// Authenticated reports whether the state holds a session at all.
func (s SessionState) Authenticated() bool {
	return s.Wallet != "" && s.AccessToken != ""
}

// LocallyValid decodes the access token's expiry claim without verifying
// the signature and reports whether the session looks alive.
func (s SessionState) LocallyValid() bool {
	if !s.Authenticated() {
		return false
	}
	expiry, err := token.DecodeExpiry(s.AccessToken)
	if err != nil {
		return false
	}
	return expiry.IsZero() || expiry.After(time.Now())
}

func loadSession(storage Storage) SessionState {
	return SessionState{
		Wallet:       storage.Get(StorageKeyWallet),
		AccessToken:  storage.Get(StorageKeyAccess),
		RefreshToken: storage.Get(StorageKeyRefresh),
	}
}

func saveSession(storage Storage, session SessionState) {
	storage.Set(StorageKeyWallet, session.Wallet)
	storage.Set(StorageKeyAccess, session.AccessToken)
	storage.Set(StorageKeyRefresh, session.RefreshToken)
}

func clearSession(storage Storage) {
	storage.Delete(StorageKeyWallet)
	storage.Delete(StorageKeyAccess)
	storage.Delete(StorageKeyRefresh)
}
