package repository

import (
	"context"

	"moneynerds-backend/internal/features/comment/models"
)

// CommentRepository persists post comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.Comment) error
	ListByPost(ctx context.Context, postID int64) ([]models.Comment, error)
}
