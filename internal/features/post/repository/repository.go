package repository

import (
	"context"
	"errors"

	"moneynerds-backend/internal/features/post/models"

	"github.com/shopspring/decimal"
)

var (
	ErrPostNotFound      = errors.New("post not found")
	ErrAlreadyLiked      = errors.New("post already liked by this wallet")
	ErrDuplicateDonation = errors.New("donation transaction already recorded")
)

// PostRepository persists posts, like sets and donation ledgers. Like and
// CreditDonation must be atomic: concurrent calls from different clients
// may not lose updates.
type PostRepository interface {
	Create(ctx context.Context, post *models.Post) error
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	List(ctx context.Context, offset, limit int) ([]models.Post, int, error)
	Like(ctx context.Context, id int64, wallet string) (int, error)
	CreditDonation(ctx context.Context, id int64, donor string, amount decimal.Decimal, txSignature string) error
}
