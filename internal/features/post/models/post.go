package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Post is a board message together with its like set and donation ledger.
// Donated maps donor wallet addresses to cumulative SOL amounts.
type Post struct {
	ID            int64                      `json:"id"`
	Username      string                     `json:"username"`
	Message       string                     `json:"message"`
	WalletAddress string                     `json:"walletAddress"`
	Likes         int                        `json:"likes"`
	LikedBy       []string                   `json:"liked_by"`
	Donated       map[string]decimal.Decimal `json:"donated"`
	CreatedAt     time.Time                  `json:"createdAt"`
}

// TotalDonated sums the ledger.
func (p *Post) TotalDonated() decimal.Decimal {
	total := decimal.Zero
	for _, amount := range p.Donated {
		total = total.Add(amount)
	}
	return total
}

// CreatePostRequest is the body of POST /api/posts.
type CreatePostRequest struct {
	Username string `json:"username" binding:"required"`
	Message  string `json:"message" binding:"required"`
}

// ListResponse is a single page of posts.
type ListResponse struct {
	Posts      []Post `json:"posts"`
	Page       int    `json:"page"`
	TotalPages int    `json:"total_pages"`
}

// LikeResponse returns the updated like count.
type LikeResponse struct {
	Likes int `json:"likes"`
}
