package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"moneynerds-backend/internal/features/comment/models"
	"moneynerds-backend/internal/features/comment/repository"

	_ "github.com/lib/pq"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.CommentRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, comment *models.Comment) error {
	query := `
		INSERT INTO comments (post_id, wallet_address, nickname, content)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		comment.PostID, comment.WalletAddress, comment.Nickname, comment.Content).
		Scan(&comment.ID, &comment.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create comment: %w", err)
	}

	return nil
}

func (r *postgresRepository) ListByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	query := `
		SELECT id, post_id, wallet_address, nickname, content, created_at
		FROM comments
		WHERE post_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, postID)
	if err != nil {
		return nil, fmt.Errorf("failed to list comments: %w", err)
	}
	defer rows.Close()

	comments := []models.Comment{}
	for rows.Next() {
		var comment models.Comment
		if err := rows.Scan(&comment.ID, &comment.PostID, &comment.WalletAddress,
			&comment.Nickname, &comment.Content, &comment.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan comment: %w", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read comments: %w", err)
	}

	return comments, nil
}
