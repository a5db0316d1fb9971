package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jwalitptl/endoscopy-scheduler/pkg/circuitbreaker"
)

type Config struct {
	URL          string
	KeyPrefix    string
	UserTTL      time.Duration
	PoolSize     int
	MinIdleConns int
	// BreakerFailures consecutive errors stop Redis calls for BreakerTimeout.
	BreakerFailures int
	BreakerTimeout  time.Duration
}

// TokenRepository stores revocation marks in Redis so several API replicas
// share one view of logged-out sessions.
type TokenRepository struct {
	client  *redis.Client
	prefix  string
	userTTL time.Duration
	breaker *circuitbreaker.CircuitBreaker
}

func NewTokenRepository(ctx context.Context, cfg Config) (*TokenRepository, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Redis URL: %w", err)
	}
	if cfg.PoolSize > 0 {
		opts.PoolSize = cfg.PoolSize
	}
	if cfg.MinIdleConns > 0 {
		opts.MinIdleConns = cfg.MinIdleConns
	}

	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	breaker := NewBreaker(cfg.BreakerFailures, cfg.BreakerTimeout)
	return NewTokenRepositoryWithClient(client, cfg.KeyPrefix, cfg.UserTTL, breaker), nil
}

// NewTokenRepositoryWithClient wraps an existing client. A nil breaker gets
// the defaults.
func NewTokenRepositoryWithClient(client *redis.Client, prefix string, userTTL time.Duration,
	breaker *circuitbreaker.CircuitBreaker) *TokenRepository {
	if prefix == "" {
		prefix = "scheduler:"
	}
	if breaker == nil {
		breaker = NewBreaker(0, 0)
	}
	return &TokenRepository{client: client, prefix: prefix, userTTL: userTTL, breaker: breaker}
}

// NewBreaker guards session store calls. A missing key and a cancelled
// request are not Redis failures.
func NewBreaker(failures int, timeout time.Duration) *circuitbreaker.CircuitBreaker {
	return circuitbreaker.NewCircuitBreaker(circuitbreaker.Settings{
		Name:        "redis-sessions",
		MaxFailures: failures,
		Timeout:     timeout,
		IsFailure: func(err error) bool {
			return !errors.Is(err, redis.Nil) && !errors.Is(err, context.Canceled)
		},
	})
}

func (r *TokenRepository) tokenKey(id string) string { return r.prefix + "revoked:jti:" + id }
func (r *TokenRepository) userKey(id string) string  { return r.prefix + "revoked:user:" + id }

func (r *TokenRepository) RevokeToken(ctx context.Context, tokenID string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	err := r.breaker.Execute(func() error {
		return r.client.Set(ctx, r.tokenKey(tokenID), 1, ttl).Err()
	})
	if err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	return nil
}

func (r *TokenRepository) IsTokenRevoked(ctx context.Context, tokenID string) (bool, error) {
	var n int64
	err := r.breaker.Execute(func() (err error) {
		n, err = r.client.Exists(ctx, r.tokenKey(tokenID)).Result()
		return err
	})
	if err != nil {
		return false, fmt.Errorf("check token revocation: %w", err)
	}
	return n > 0, nil
}

func (r *TokenRepository) RevokeUser(ctx context.Context, userID string, at time.Time) error {
	v := strconv.FormatInt(at.UnixNano(), 10)
	err := r.breaker.Execute(func() error {
		return r.client.Set(ctx, r.userKey(userID), v, r.userTTL).Err()
	})
	if err != nil {
		return fmt.Errorf("revoke user tokens: %w", err)
	}
	return nil
}

func (r *TokenRepository) UserRevokedAt(ctx context.Context, userID string) (time.Time, bool, error) {
	var v string
	err := r.breaker.Execute(func() (err error) {
		v, err = r.client.Get(ctx, r.userKey(userID)).Result()
		return err
	})
	if errors.Is(err, redis.Nil) {
		return time.Time{}, false, nil
	}
	if err != nil {
		return time.Time{}, false, fmt.Errorf("read user revocation: %w", err)
	}
	ns, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("parse user revocation: %w", err)
	}
	return time.Unix(0, ns), true, nil
}

// Ping reports whether Redis is reachable; used by the readiness probe. It
// bypasses the breaker so readiness reflects Redis itself.
func (r *TokenRepository) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

func (r *TokenRepository) BreakerState() circuitbreaker.State {
	return r.breaker.State()
}

func (r *TokenRepository) Close() error {
	return r.client.Close()
}
