package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"moneynerds-backend/internal/features/comment/models"
)

// MemoryRepository is an in-memory CommentRepository used in tests.
type MemoryRepository struct {
	mu       sync.Mutex
	comments []models.Comment
	nextID   int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{nextID: 1}
}

func (r *MemoryRepository) Create(ctx context.Context, comment *models.Comment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	comment.ID = r.nextID
	r.nextID++
	comment.CreatedAt = time.Now()
	r.comments = append(r.comments, *comment)
	return nil
}

func (r *MemoryRepository) ListByPost(ctx context.Context, postID int64) ([]models.Comment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := []models.Comment{}
	for _, comment := range r.comments {
		if comment.PostID == postID {
			out = append(out, comment)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}
