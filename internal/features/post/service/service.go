package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"moneynerds-backend/internal/common/logger"
	"moneynerds-backend/internal/events"
	"moneynerds-backend/internal/features/post/models"
	"moneynerds-backend/internal/features/post/repository"

	"github.com/microcosm-cc/bluemonday"
)

const (
	PageSize          = 10
	maxUsernameLength = 64
	maxMessageLength  = 1000
)

var ErrInvalidInput = errors.New("invalid post input")

type Service struct {
	repo      repository.PostRepository
	publisher events.Publisher
	sanitizer *bluemonday.Policy
}

func NewService(repo repository.PostRepository, publisher events.Publisher) *Service {
	return &Service{
		repo:      repo,
		publisher: publisher,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Create stores a new post for the authenticated wallet.
func (s *Service) Create(ctx context.Context, wallet string, req *models.CreatePostRequest) (*models.Post, error) {
	username := strings.TrimSpace(s.sanitizer.Sanitize(req.Username))
	message := strings.TrimSpace(s.sanitizer.Sanitize(req.Message))

	if username == "" || len(username) > maxUsernameLength {
		return nil, fmt.Errorf("%w: username must be 1-%d characters", ErrInvalidInput, maxUsernameLength)
	}
	if message == "" || len(message) > maxMessageLength {
		return nil, fmt.Errorf("%w: message must be 1-%d characters", ErrInvalidInput, maxMessageLength)
	}

	post := &models.Post{
		Username:      username,
		Message:       message,
		WalletAddress: wallet,
	}
	if err := s.repo.Create(ctx, post); err != nil {
		return nil, err
	}

	if err := s.publisher.PublishPostCreated(ctx, post.ID, wallet); err != nil {
		logger.Warn().Err(err).Int64("post_id", post.ID).Msg("Failed to publish post event")
	}

	return post, nil
}

// List returns one page of posts, newest first.
func (s *Service) List(ctx context.Context, page int) (*models.ListResponse, error) {
	if page < 1 {
		page = 1
	}

	posts, total, err := s.repo.List(ctx, (page-1)*PageSize, PageSize)
	if err != nil {
		return nil, err
	}

	totalPages := (total + PageSize - 1) / PageSize
	return &models.ListResponse{Posts: posts, Page: page, TotalPages: totalPages}, nil
}

// Get returns a single post.
func (s *Service) Get(ctx context.Context, id int64) (*models.Post, error) {
	return s.repo.GetByID(ctx, id)
}

// Like adds the wallet to the post's like set, at most once per wallet.
func (s *Service) Like(ctx context.Context, id int64, wallet string) (int, error) {
	likes, err := s.repo.Like(ctx, id, wallet)
	if err != nil {
		return 0, err
	}

	if err := s.publisher.PublishPostLiked(ctx, id, wallet); err != nil {
		logger.Warn().Err(err).Int64("post_id", id).Msg("Failed to publish like event")
	}

	return likes, nil
}
