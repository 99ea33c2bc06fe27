package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DonateRequest is the body of POST /api/posts/:id/donations. Signature is
// the base58 signature of the on-chain transfer transaction; Amount is in
// SOL.
type DonateRequest struct {
	Signature string          `json:"signature" binding:"required"`
	Amount    decimal.Decimal `json:"amount" binding:"required"`
}

// Receipt confirms a credited donation.
type Receipt struct {
	PostID       int64           `json:"post_id"`
	Donor        string          `json:"donor"`
	Amount       decimal.Decimal `json:"amount"`
	TotalDonated decimal.Decimal `json:"total_donated"`
	RecordedAt   time.Time       `json:"recorded_at"`
}
