package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"moneynerds-backend/internal/features/post/models"
	"moneynerds-backend/internal/features/post/repository"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type postgresRepository struct {
	db *sql.DB
}

func NewPostgresRepository(db *sql.DB) repository.PostRepository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) Create(ctx context.Context, post *models.Post) error {
	query := `
		INSERT INTO posts (username, message, wallet_address)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		post.Username, post.Message, post.WalletAddress).
		Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	post.LikedBy = []string{}
	post.Donated = map[string]decimal.Decimal{}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query := `
		SELECT id, username, message, wallet_address, likes, liked_by, donated, created_at
		FROM posts
		WHERE id = $1
	`

	post, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrPostNotFound
		}
		return nil, fmt.Errorf("failed to get post: %w", err)
	}

	return post, nil
}

func (r *postgresRepository) List(ctx context.Context, offset, limit int) ([]models.Post, int, error) {
	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count posts: %w", err)
	}

	query := `
		SELECT id, username, message, wallet_address, likes, liked_by, donated, created_at
		FROM posts
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list posts: %w", err)
	}
	defer rows.Close()

	posts := make([]models.Post, 0, limit)
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan post: %w", err)
		}
		posts = append(posts, *post)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to read posts: %w", err)
	}

	return posts, total, nil
}

// Like is a single conditional update: the counter and the like set change
// together, and only when the wallet is not in the set yet.
func (r *postgresRepository) Like(ctx context.Context, id int64, wallet string) (int, error) {
	query := `
		UPDATE posts
		SET likes = likes + 1, liked_by = array_append(liked_by, $2)
		WHERE id = $1 AND NOT ($2 = ANY(liked_by))
		RETURNING likes
	`

	var likes int
	err := r.db.QueryRowContext(ctx, query, id, wallet).Scan(&likes)
	if err == nil {
		return likes, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return 0, fmt.Errorf("failed to like post: %w", err)
	}

	// No row updated: either the post is gone or the wallet already liked it.
	if _, err := r.GetByID(ctx, id); err != nil {
		return 0, err
	}
	return 0, repository.ErrAlreadyLiked
}

// CreditDonation records the transaction signature (unique, so a signature
// can be credited once) and increments the donor's ledger entry in place.
func (r *postgresRepository) CreditDonation(ctx context.Context, id int64, donor string, amount decimal.Decimal, txSignature string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO donations (tx_signature, post_id, donor, amount)
		VALUES ($1, $2, $3, $4)
	`, txSignature, id, donor, amount.String())
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return repository.ErrDuplicateDonation
		}
		return fmt.Errorf("failed to record donation: %w", err)
	}

	result, err := tx.ExecContext(ctx, `
		UPDATE posts
		SET donated = jsonb_set(
			COALESCE(donated, '{}'::jsonb),
			ARRAY[$2],
			to_jsonb(COALESCE((donated->>$2)::numeric, 0) + $3::numeric)
		)
		WHERE id = $1
	`, id, donor, amount.String())
	if err != nil {
		return fmt.Errorf("failed to credit ledger: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check ledger update: %w", err)
	}
	if rows == 0 {
		return repository.ErrPostNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit donation: %w", err)
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	var post models.Post
	var donated []byte

	err := row.Scan(&post.ID, &post.Username, &post.Message, &post.WalletAddress,
		&post.Likes, pq.Array(&post.LikedBy), &donated, &post.CreatedAt)
	if err != nil {
		return nil, err
	}

	post.Donated = map[string]decimal.Decimal{}
	if len(donated) > 0 {
		if err := json.Unmarshal(donated, &post.Donated); err != nil {
			return nil, fmt.Errorf("failed to unmarshal donation ledger: %w", err)
		}
	}
	if post.LikedBy == nil {
		post.LikedBy = []string{}
	}

	return &post, nil
}
