package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"moneynerds-backend/internal/common/logger"
	"moneynerds-backend/internal/events"
	"moneynerds-backend/internal/features/donation/models"
	postrepo "moneynerds-backend/internal/features/post/repository"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount = errors.New("donation amount must be positive")
	ErrNotConfirmed  = errors.New("transfer not confirmed on chain")
	ErrDonorMismatch = errors.New("transaction was not paid by the authenticated wallet")
)

var lamportsPerSOL = decimal.New(1, 9)

// ChainVerifier confirms that a transfer landed on chain. A nil verifier
// disables confirmation and credits ledgers directly.
type ChainVerifier interface {
	ConfirmTransfer(ctx context.Context, signature, recipient string, wantLamports uint64) (string, error)
}

type Service struct {
	posts     postrepo.PostRepository
	chain     ChainVerifier
	publisher events.Publisher
}

func NewService(posts postrepo.PostRepository, chain ChainVerifier, publisher events.Publisher) *Service {
	return &Service{posts: posts, chain: chain, publisher: publisher}
}

// Donate credits a donation to a post's ledger. With a chain verifier
// configured the referenced transaction must exist, have succeeded and have
// moved at least the claimed amount to the post author; the fee payer must
// be the authenticated wallet. Each transaction signature is credited at
// most once.
func (s *Service) Donate(ctx context.Context, postID int64, donor string, req *models.DonateRequest) (*models.Receipt, error) {
	if !req.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	if s.chain != nil {
		lamports := uint64(req.Amount.Mul(lamportsPerSOL).IntPart())
		feePayer, err := s.chain.ConfirmTransfer(ctx, req.Signature, post.WalletAddress, lamports)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrNotConfirmed, err)
		}
		if feePayer != donor {
			return nil, ErrDonorMismatch
		}
	}

	if err := s.posts.CreditDonation(ctx, postID, donor, req.Amount, req.Signature); err != nil {
		return nil, err
	}

	if err := s.publisher.PublishDonation(ctx, postID, donor, req.Amount.String()); err != nil {
		logger.Warn().Err(err).Int64("post_id", postID).Msg("Failed to publish donation event")
	}

	post, err = s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	return &models.Receipt{
		PostID:       postID,
		Donor:        donor,
		Amount:       req.Amount,
		TotalDonated: post.TotalDonated(),
		RecordedAt:   time.Now(),
	}, nil
}
