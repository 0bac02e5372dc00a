package auth

import (
	"context"
	"time"

	"github.com/yourusername/automatismes-api/internal/domain/repository"
)

const revokedKeyPrefix = "auth:revoked:"

// CacheRevocationStore хранит отозванные токены в кеше (Redis) с TTL до истечения токена
type CacheRevocationStore struct {
	cache repository.CacheRepository
}

// NewCacheRevocationStore создает хранилище отзыва поверх CacheRepository
func NewCacheRevocationStore(cache repository.CacheRepository) *CacheRevocationStore {
	return &CacheRevocationStore{cache: cache}
}

// Revoke помечает токен отозванным
func (s *CacheRevocationStore) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return s.cache.Set(ctx, revokedKeyPrefix+tokenID, "1", ttl)
}

// IsRevoked проверяет, отозван ли токен
func (s *CacheRevocationStore) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	return s.cache.Exists(ctx, revokedKeyPrefix+tokenID)
}
