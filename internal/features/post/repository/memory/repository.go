package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"moneynerds-backend/internal/features/post/models"
	"moneynerds-backend/internal/features/post/repository"

	"github.com/shopspring/decimal"
)

// MemoryRepository is an in-memory PostRepository used in tests.
type MemoryRepository struct {
	mu         sync.Mutex
	posts      map[int64]*models.Post
	signatures map[string]struct{}
	nextID     int64
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		posts:      make(map[int64]*models.Post),
		signatures: make(map[string]struct{}),
		nextID:     1,
	}
}

func (r *MemoryRepository) Create(ctx context.Context, post *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	post.ID = r.nextID
	r.nextID++
	post.CreatedAt = time.Now()
	post.LikedBy = []string{}
	post.Donated = map[string]decimal.Decimal{}

	clone := *post
	r.posts[post.ID] = &clone
	return nil
}

func (r *MemoryRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return nil, repository.ErrPostNotFound
	}
	clone := clonePost(post)
	return &clone, nil
}

func (r *MemoryRepository) List(ctx context.Context, offset, limit int) ([]models.Post, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	all := make([]models.Post, 0, len(r.posts))
	for _, post := range r.posts {
		all = append(all, clonePost(post))
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].ID > all[j].ID
		}
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := len(all)
	if offset >= total {
		return []models.Post{}, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return all[offset:end], total, nil
}

func (r *MemoryRepository) Like(ctx context.Context, id int64, wallet string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	post, ok := r.posts[id]
	if !ok {
		return 0, repository.ErrPostNotFound
	}
	for _, addr := range post.LikedBy {
		if addr == wallet {
			return 0, repository.ErrAlreadyLiked
		}
	}
	post.LikedBy = append(post.LikedBy, wallet)
	post.Likes++
	return post.Likes, nil
}

func (r *MemoryRepository) CreditDonation(ctx context.Context, id int64, donor string, amount decimal.Decimal, txSignature string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.signatures[txSignature]; ok {
		return repository.ErrDuplicateDonation
	}
	post, ok := r.posts[id]
	if !ok {
		return repository.ErrPostNotFound
	}

	r.signatures[txSignature] = struct{}{}
	post.Donated[donor] = post.Donated[donor].Add(amount)
	return nil
}

func clonePost(post *models.Post) models.Post {
	clone := *post
	clone.LikedBy = append([]string{}, post.LikedBy...)
	clone.Donated = make(map[string]decimal.Decimal, len(post.Donated))
	for donor, amount := range post.Donated {
		clone.Donated[donor] = amount
	}
	return clone
}
