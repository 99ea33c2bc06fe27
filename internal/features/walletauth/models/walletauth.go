package models

import (
	"encoding/json"

	identitymodels "moneynerds-backend/internal/features/identity/models"
)

// NonceResponse is the body of GET /api/auth/nonce.
type NonceResponse struct {
	Nonce string `json:"nonce"`
}

// VerifyRequest is the body of POST /api/auth/verify. Signature is kept
// raw because wallets submit it either as a base58 string or as a JSON
// byte array.
type VerifyRequest struct {
	Nonce     string          `json:"nonce"`
	PublicKey string          `json:"publicKey"`
	Signature json.RawMessage `json:"signature"`
}

// VerifyResponse mirrors the session payload the frontend stores.
type VerifyResponse struct {
	Message      string                   `json:"message"`
	AccessToken  string                   `json:"access_token"`
	TokenType    string                   `json:"token_type"`
	ExpiresIn    int                      `json:"expires_in"`
	RefreshToken string                   `json:"refresh_token"`
	User         *identitymodels.Identity `json:"user"`
}

// RefreshRequest is the body of POST /api/auth/refresh.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// ErrorResponse is the error payload shared by the auth endpoints.
type ErrorResponse struct {
	Error string `json:"error"`
}
