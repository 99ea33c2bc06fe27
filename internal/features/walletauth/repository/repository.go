package repository

import (
	"context"
	"errors"
)

var ErrNonceNotFound = errors.New("nonce not found")

// NonceRepository stores issued login nonces. A nonce lives until its TTL
// expires or until Consume removes it, whichever comes first; consuming is
// atomic so a nonce can only ever satisfy one verification.
type NonceRepository interface {
	Issue(ctx context.Context) (string, error)
	Consume(ctx context.Context, nonce string) error
}
