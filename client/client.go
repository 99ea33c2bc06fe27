// Package client is a Go client for the moneynerds API. It carries the
// wallet login flow (nonce, sign, verify) as an explicit state machine and
// keeps the issued session in a pluggable local storage.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	authmodels "moneynerds-backend/internal/features/walletauth/models"

	"github.com/mr-tron/base58"
)

// Client calls the moneynerds HTTP API.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates an API client for the given base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// FetchNonce requests a fresh login nonce.
func (c *Client) FetchNonce(ctx context.Context) (string, error) {
	var resp authmodels.NonceResponse
	if err := c.do(ctx, http.MethodGet, "/api/auth/nonce", "", nil, &resp); err != nil {
		return "", fmt.Errorf("failed to fetch nonce: %w", err)
	}
	if resp.Nonce == "" {
		return "", fmt.Errorf("empty nonce in response")
	}
	return resp.Nonce, nil
}

// Verify submits the signed nonce and returns the issued session payload.
func (c *Client) Verify(ctx context.Context, nonce, publicKey string, signature []byte) (*authmodels.VerifyResponse, error) {
	sig, err := json.Marshal(base58.Encode(signature))
	if err != nil {
		return nil, err
	}

	body := authmodels.VerifyRequest{
		Nonce:     nonce,
		PublicKey: publicKey,
		Signature: sig,
	}

	var resp authmodels.VerifyResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/verify", "", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Check asks the server whether a stored access token is still usable.
func (c *Client) Check(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodGet, "/api/auth/check", accessToken, nil, nil)
}

// Refresh rotates a refresh token into a new session pair.
func (c *Client) Refresh(ctx context.Context, refreshToken string) (*authmodels.VerifyResponse, error) {
	body := authmodels.RefreshRequest{RefreshToken: refreshToken}

	var resp authmodels.VerifyResponse
	if err := c.do(ctx, http.MethodPost, "/api/auth/refresh", "", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) do(ctx context.Context, method, path, bearer string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr authmodels.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
