package models

import "time"

// Identity is the persisted user record behind a wallet public key. The
// key is mapped through a derived pseudo-email so one public key resolves
// to at most one identity.
type Identity struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Wallet    string    `json:"wallet"`
	Confirmed bool      `json:"confirmed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DeriveEmail builds the deterministic pseudo-email for a wallet public key.
func DeriveEmail(publicKey string) string {
	return publicKey + "@example.com"
}
