package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type redisRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisRepository(client *redis.Client, ttl time.Duration) NonceRepository {
	return &redisRepository{client: client, ttl: ttl}
}

func (r *redisRepository) Issue(ctx context.Context) (string, error) {
	nonce := uuid.New().String()
	key := fmt.Sprintf("walletauth:nonce:%s", nonce)

	if err := r.client.Set(ctx, key, "1", r.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to save nonce to redis: %w", err)
	}

	return nonce, nil
}

func (r *redisRepository) Consume(ctx context.Context, nonce string) error {
	key := fmt.Sprintf("walletauth:nonce:%s", nonce)

	// GETDEL makes issue-once atomic; two concurrent verifications of the
	// same nonce cannot both succeed.
	if err := r.client.GetDel(ctx, key).Err(); err != nil {
		if err == redis.Nil {
			return ErrNonceNotFound
		}
		return fmt.Errorf("failed to consume nonce: %w", err)
	}

	return nil
}
