package memory

import (
	"context"
	"time"

	"github.com/patrickmn/go-cache"
)

const (
	revokedTokenPrefix = "jti:"
	revokedUserPrefix  = "user:"
)

// TokenRepository keeps revocation marks in a go-cache instance. Per-token
// marks expire together with the token they revoke. Per-user marks live for
// userTTL, which must be at least the longest token lifetime.
type TokenRepository struct {
	cache   *cache.Cache
	userTTL time.Duration
}

func NewTokenRepository(userTTL, cleanupInterval time.Duration) *TokenRepository {
	return &TokenRepository{
		cache:   cache.New(userTTL, cleanupInterval),
		userTTL: userTTL,
	}
}

func (r *TokenRepository) RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	r.cache.Set(revokedTokenPrefix+tokenID, struct{}{}, ttl)
	return nil
}

func (r *TokenRepository) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	_, found := r.cache.Get(revokedTokenPrefix + tokenID)
	return found, nil
}

func (r *TokenRepository) RevokeUser(ctx context.Context, userID string, at time.Time) error {
	r.cache.Set(revokedUserPrefix+userID, at, r.userTTL)
	return nil
}

func (r *TokenRepository) UserRevokedAt(ctx context.Context, userID string) (time.Time, bool, error) {
	v, found := r.cache.Get(revokedUserPrefix + userID)
	if !found {
		return time.Time{}, false, nil
	}
	at, ok := v.(time.Time)
	return at, ok, nil
}
