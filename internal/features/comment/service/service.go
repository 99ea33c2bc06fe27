package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	postrepo "moneynerds-backend/internal/features/post/repository"

	"moneynerds-backend/internal/features/comment/models"
	"moneynerds-backend/internal/features/comment/repository"

	"github.com/microcosm-cc/bluemonday"
)

const maxContentLength = 500

var ErrInvalidInput = errors.New("invalid comment input")

type Service struct {
	repo      repository.CommentRepository
	posts     postrepo.PostRepository
	sanitizer *bluemonday.Policy
}

func NewService(repo repository.CommentRepository, posts postrepo.PostRepository) *Service {
	return &Service{
		repo:      repo,
		posts:     posts,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Create attaches a comment to an existing post.
func (s *Service) Create(ctx context.Context, postID int64, wallet string, req *models.CreateCommentRequest) (*models.Comment, error) {
	content := strings.TrimSpace(s.sanitizer.Sanitize(req.Content))
	if content == "" || len(content) > maxContentLength {
		return nil, fmt.Errorf("%w: content must be 1-%d characters", ErrInvalidInput, maxContentLength)
	}

	nickname := strings.TrimSpace(s.sanitizer.Sanitize(req.Nickname))
	if nickname == "" {
		nickname = "Anonymous"
	}

	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		PostID:        postID,
		WalletAddress: wallet,
		Nickname:      nickname,
		Content:       content,
	}
	if err := s.repo.Create(ctx, comment); err != nil {
		return nil, err
	}

	return comment, nil
}

// ListByPost returns a post's comments, newest first.
func (s *Service) ListByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	return s.repo.ListByPost(ctx, postID)
}
