package client

import (
	"context"
	"errors"
)

var (
	ErrNoWallet          = errors.New("no wallet extension available")
	ErrWalletCantConnect = errors.New("wallet does not support connecting")
	ErrWalletCantSign    = errors.New("wallet does not support message signing")
)

// WalletSigner is the capability-checked adapter every supported wallet is
// wrapped into. Implementations front a concrete extension (Phantom,
// Solflare, ...) or, in tests, an in-process keypair.
type WalletSigner interface {
	// Connect asks the wallet for access and returns the base58 public key.
	Connect(ctx context.Context) (string, error)
	// SignMessage produces a detached signature over msg.
	SignMessage(ctx context.Context, msg []byte) ([]byte, error)
	Disconnect(ctx context.Context) error
}

// Capability sub-interfaces used by ProbeWallet.
type connector interface {
	Connect(ctx context.Context) (string, error)
}

type messageSigner interface {
	SignMessage(ctx context.Context, msg []byte) ([]byte, error)
}

type disconnector interface {
	Disconnect(ctx context.Context) error
}

// ProbeWallet checks an arbitrary wallet value for the capabilities the
// login flow needs and returns it as a WalletSigner. The probe runs once,
// at connect time; wallets missing a capability fail closed with a
// descriptive error instead of panicking mid-flow.
func ProbeWallet(wallet interface{}) (WalletSigner, error) {
	if wallet == nil {
		return nil, ErrNoWallet
	}

	conn, ok := wallet.(connector)
	if !ok {
		return nil, ErrWalletCantConnect
	}
	signer, ok := wallet.(messageSigner)
	if !ok {
		return nil, ErrWalletCantSign
	}
	disc, _ := wallet.(disconnector)

	return &probedWallet{conn: conn, signer: signer, disc: disc}, nil
}

type probedWallet struct {
	conn   connector
	signer messageSigner
	disc   disconnector
}

func (w *probedWallet) Connect(ctx context.Context) (string, error) {
	return w.conn.Connect(ctx)
}

func (w *probedWallet) SignMessage(ctx context.Context, msg []byte) ([]byte, error) {
	return w.signer.SignMessage(ctx, msg)
}

func (w *probedWallet) Disconnect(ctx context.Context) error {
	if w.disc == nil {
		return nil
	}
	return w.disc.Disconnect(ctx)
}
