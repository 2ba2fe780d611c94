package auth

import (
	"context"
	"errors"
	"strconv"
	"time"

	"taskforce/internal/cache"
)

const refreshTokenKeyPrefix = "refresh_token:"

// ErrRefreshTokenNotFound is returned when a refresh token ID is unknown,
// expired, or already rotated out.
var ErrRefreshTokenNotFound = errors.New("refresh token not found")

// TokenStore tracks issued refresh tokens so they can be rotated and revoked.
type TokenStore interface {
	StoreRefreshToken(ctx context.Context, tokenID string, userID uint64, ttl time.Duration) error
	GetRefreshToken(ctx context.Context, tokenID string) (userID uint64, err error)
	DeleteRefreshToken(ctx context.Context, tokenID string) error
}

// RedisTokenStore keeps refresh tokens in Redis with a TTL matching their
// expiry.
type RedisTokenStore struct {
	cache *cache.Client
}

var _ TokenStore = (*RedisTokenStore)(nil)

// NewTokenStore creates a Redis-backed token store.
func NewTokenStore(cache *cache.Client) *RedisTokenStore {
	return &RedisTokenStore{cache: cache}
}

// StoreRefreshToken records a refresh token ID for a user.
func (s *RedisTokenStore) StoreRefreshToken(ctx context.Context, tokenID string, userID uint64, ttl time.Duration) error {
	key := refreshTokenKeyPrefix + tokenID
	return s.cache.Set(ctx, key, []byte(strconv.FormatUint(userID, 10)), ttl)
}

// GetRefreshToken resolves a refresh token ID to its user.
func (s *RedisTokenStore) GetRefreshToken(ctx context.Context, tokenID string) (uint64, error) {
	key := refreshTokenKeyPrefix + tokenID
	data, err := s.cache.Get(ctx, key)
	if err != nil {
		return 0, err
	}
	if data == nil {
		return 0, ErrRefreshTokenNotFound
	}

	userID, err := strconv.ParseUint(string(data), 10, 64)
	if err != nil {
		return 0, ErrRefreshTokenNotFound
	}
	return userID, nil
}

// DeleteRefreshToken revokes a refresh token.
func (s *RedisTokenStore) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	return s.cache.Delete(ctx, refreshTokenKeyPrefix+tokenID)
}
