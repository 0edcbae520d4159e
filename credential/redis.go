package credential

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	goredis "github.com/redis/go-redis/v9"

	apperrors "github.com/kbukum/adminkit/errors"
	"github.com/kbukum/adminkit/logger"
)

const storeRedis = "redis"

// RedisConfig holds the connection settings for a RedisStore.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	Key      string
	// DialTimeout bounds connection setup. Defaults to 5s.
	DialTimeout time.Duration
}

// RedisStore keeps the token under one redis key so several machines can
// share a login. When the token is a JWT with an expiry, the key expires
// with it.
type RedisStore struct {
	rdb    goredis.UniversalClient
	key    string
	log    *logger.Logger
	closed bool
	mu     sync.Mutex
}

// NewRedisStore dials redis with cfg.
func NewRedisStore(cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		return nil, apperrors.ConfigInvalid("credential.redis.addr", "redis address is required")
	}
	if cfg.DialTimeout <= 0 {
		cfg.DialTimeout = 5 * time.Second
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: cfg.DialTimeout,
	})
	return NewRedisStoreFromClient(rdb, cfg.Key), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(rdb goredis.UniversalClient, key string) *RedisStore {
	if key == "" {
		key = "adminctl:token"
	}
	return &RedisStore{
		rdb: rdb,
		key: key,
		log: logger.Get("credential"),
	}
}

// Key returns the redis key holding the token.
func (s *RedisStore) Key() string { return s.key }

// Token reads the stored token.
func (s *RedisStore) Token(ctx context.Context) (string, error) {
	v, err := s.rdb.Get(ctx, s.key).Result()
	if errors.Is(err, goredis.Nil) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", apperrors.CredentialUnavailable(storeRedis, err)
	}
	if v == "" {
		return "", ErrNoToken
	}
	return v, nil
}

// Save stores the token. A JWT exp claim sets the key TTL; a token whose
// exp has already passed is not stored.
func (s *RedisStore) Save(ctx context.Context, token string) error {
	var ttl time.Duration
	if claims, err := Inspect(token); err == nil && !claims.ExpiresAt.IsZero() {
		ttl = time.Until(claims.ExpiresAt)
		if ttl <= 0 {
			return ErrTokenExpired
		}
	}

	if err := s.rdb.Set(ctx, s.key, token, ttl).Err(); err != nil {
		return apperrors.CredentialUnavailable(storeRedis, err)
	}
	s.log.Debug("token stored", logger.Fields("key", s.key, "ttl", ttl.String()))
	return nil
}

// Clear deletes the key.
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return apperrors.CredentialUnavailable(storeRedis, err)
	}
	return nil
}

// Ping verifies the connection is alive.
func (s *RedisStore) Ping(ctx context.Context) error {
	pong, err := s.rdb.Ping(ctx).Result()
	if err != nil {
		return apperrors.CredentialUnavailable(storeRedis, fmt.Errorf("ping: %w", err))
	}
	if pong != "PONG" {
		return apperrors.CredentialUnavailable(storeRedis, fmt.Errorf("unexpected ping response: %s", pong))
	}
	return nil
}

// Close closes the connection. Safe to call multiple times.
func (s *RedisStore) Close() error {
	if s == nil {
		return nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.rdb.Close()
}
