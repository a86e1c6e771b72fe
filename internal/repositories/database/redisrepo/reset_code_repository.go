// Package redisrepo holds repositories backed by Redis.
package redisrepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/quickbill/quickbill_backend/internal/apperrors"
	portsrepo "github.com/quickbill/quickbill_backend/internal/core/ports/repositories"
)

const resetCodeKeyPrefix = "pwreset:"

type RedisResetCodeRepository struct {
	client *redis.Client
}

func NewResetCodeRepository(client *redis.Client) portsrepo.ResetCodeRepositoryFacade {
	return &RedisResetCodeRepository{client: client}
}

var _ portsrepo.ResetCodeRepositoryFacade = (*RedisResetCodeRepository)(nil)

func resetCodeKey(emailOrPhone string) string {
	return resetCodeKeyPrefix + emailOrPhone
}

func (r *RedisResetCodeRepository) StoreCode(ctx context.Context, emailOrPhone string, code string, ttl time.Duration) error {
	if err := r.client.Set(ctx, resetCodeKey(emailOrPhone), code, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store reset code: %w", err)
	}
	return nil
}

func (r *RedisResetCodeRepository) GetCode(ctx context.Context, emailOrPhone string) (string, error) {
	code, err := r.client.Get(ctx, resetCodeKey(emailOrPhone)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperrors.ErrNotFound
		}
		return "", fmt.Errorf("failed to read reset code: %w", err)
	}
	return code, nil
}

func (r *RedisResetCodeRepository) DeleteCode(ctx context.Context, emailOrPhone string) error {
	if err := r.client.Del(ctx, resetCodeKey(emailOrPhone)).Err(); err != nil {
		return fmt.Errorf("failed to delete reset code: %w", err)
	}
	return nil
}
