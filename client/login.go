package client

import (
	"context"
	"fmt"
)

// State is a step of the login flow.
type State int

const (
	StateDisconnected State = iota
	StateConnecting
	StateNonceFetching
	StateSigning
	StateVerifying
	StateAuthenticated
	StateError
)

func (s State) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateNonceFetching:
		return "fetching nonce"
	case StateSigning:
		return "signing"
	case StateVerifying:
		return "verifying"
	case StateAuthenticated:
		return "authenticated"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// LoginFlow drives the wallet login handshake. Steps run strictly in
// order; any failure moves the flow to StateError and surfaces the cause,
// with no automatic retry.
type LoginFlow struct {
	api     *Client
	wallet  interface{}
	storage Storage

	state   State
	lastErr error
}

// NewLoginFlow builds a flow around an API client, some wallet value (its
// capabilities are probed at connect time) and a session storage.
func NewLoginFlow(api *Client, wallet interface{}, storage Storage) *LoginFlow {
	return &LoginFlow{
		api:     api,
		wallet:  wallet,
		storage: storage,
		state:   StateDisconnected,
	}
}

// State returns the current step.
func (f *LoginFlow) State() State { return f.state }

// Err returns the failure that put the flow into StateError, if any.
func (f *LoginFlow) Err() error { return f.lastErr }

// Login walks the whole handshake: connect, fetch nonce, sign, verify,
// persist the session.
func (f *LoginFlow) Login(ctx context.Context) (SessionState, error) {
	f.lastErr = nil

	f.state = StateConnecting
	signer, err := ProbeWallet(f.wallet)
	if err != nil {
		return f.fail(err)
	}
	publicKey, err := signer.Connect(ctx)
	if err != nil {
		return f.fail(fmt.Errorf("wallet connect: %w", err))
	}
	if publicKey == "" {
		return f.fail(fmt.Errorf("no public key from wallet"))
	}

	f.state = StateNonceFetching
	nonce, err := f.api.FetchNonce(ctx)
	if err != nil {
		return f.fail(err)
	}

	f.state = StateSigning
	signature, err := signer.SignMessage(ctx, []byte(nonce))
	if err != nil {
		return f.fail(fmt.Errorf("wallet signing: %w", err))
	}

	f.state = StateVerifying
	resp, err := f.api.Verify(ctx, nonce, publicKey, signature)
	if err != nil {
		return f.fail(err)
	}

	session := SessionState{
		Wallet:       publicKey,
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
	saveSession(f.storage, session)

	f.state = StateAuthenticated
	return session, nil
}

// Restore checks a previously stored session: a local expiry decode first,
// then a server-side liveness check. An invalid session disconnects.
func (f *LoginFlow) Restore(ctx context.Context) (SessionState, bool) {
	session := loadSession(f.storage)
	if !session.Authenticated() {
		return SessionState{}, false
	}

	if !session.LocallyValid() {
		f.Disconnect(ctx)
		return SessionState{}, false
	}

	if err := f.api.Check(ctx, session.AccessToken); err != nil {
		f.Disconnect(ctx)
		return SessionState{}, false
	}

	f.state = StateAuthenticated
	return session, true
}

// Disconnect drops the stored session and returns to the initial state.
func (f *LoginFlow) Disconnect(ctx context.Context) {
	if signer, err := ProbeWallet(f.wallet); err == nil {
		_ = signer.Disconnect(ctx)
	}
	clearSession(f.storage)
	f.state = StateDisconnected
}

func (f *LoginFlow) fail(err error) (SessionState, error) {
	f.state = StateError
	f.lastErr = err
	return SessionState{}, err
}
