package solana

import (
	"context"
	"errors"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
)

// LamportsPerSOL re-exports the SDK constant for callers converting amounts.
const LamportsPerSOL = solana.LAMPORTS_PER_SOL

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrTransactionFailed   = errors.New("transaction failed on chain")
	ErrNoTransfer          = errors.New("no matching transfer in transaction")
)

// Client is a thin wrapper around the Solana JSON-RPC client used to
// confirm donation transfers before they are credited.
type Client struct {
	rpc *rpc.Client
}

// New creates a client for the given RPC endpoint.
func New(endpoint string) *Client {
	return &Client{rpc: rpc.New(endpoint)}
}

// ConfirmTransfer checks that the transaction with the given base58
// signature landed without error and moved at least wantLamports to the
// recipient. It returns the fee payer's address, which for a wallet
// transfer is the donor.
func (c *Client) ConfirmTransfer(ctx context.Context, signature, recipient string, wantLamports uint64) (string, error) {
	sig, err := solana.SignatureFromBase58(signature)
	if err != nil {
		return "", fmt.Errorf("invalid transaction signature: %w", err)
	}

	recipientKey, err := solana.PublicKeyFromBase58(recipient)
	if err != nil {
		return "", fmt.Errorf("invalid recipient address: %w", err)
	}

	maxVersion := uint64(0)
	out, err := c.rpc.GetTransaction(ctx, sig, &rpc.GetTransactionOpts{
		Encoding:                       solana.EncodingBase64,
		Commitment:                     rpc.CommitmentConfirmed,
		MaxSupportedTransactionVersion: &maxVersion,
	})
	if err != nil {
		return "", fmt.Errorf("failed to fetch transaction: %w", err)
	}
	if out == nil {
		return "", ErrTransactionNotFound
	}
	if out.Meta == nil {
		return "", fmt.Errorf("transaction has no metadata")
	}
	if out.Meta.Err != nil {
		return "", ErrTransactionFailed
	}

	tx, err := out.Transaction.GetTransaction()
	if err != nil {
		return "", fmt.Errorf("failed to decode transaction: %w", err)
	}
	if len(tx.Message.AccountKeys) == 0 {
		return "", fmt.Errorf("transaction has no accounts")
	}

	recipientIdx := -1
	for i, key := range tx.Message.AccountKeys {
		if key.Equals(recipientKey) {
			recipientIdx = i
			break
		}
	}
	if recipientIdx < 0 {
		return "", ErrNoTransfer
	}
	if recipientIdx >= len(out.Meta.PreBalances) || recipientIdx >= len(out.Meta.PostBalances) {
		return "", fmt.Errorf("balance data missing for recipient account")
	}

	pre := out.Meta.PreBalances[recipientIdx]
	post := out.Meta.PostBalances[recipientIdx]
	if post < pre || post-pre < wantLamports {
		return "", ErrNoTransfer
	}

	// Account 0 signs and pays fees; for a wallet transfer that is the donor.
	return tx.Message.AccountKeys[0].String(), nil
}
