package session

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "session:"

// RedisStore はセッション状態を Redis に保存します。
// キーの TTL が無操作タイムアウトを兼ね、Identity のたびに延長されます。
type RedisStore struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisStore は RedisStore を作成します。ttl は無操作タイムアウトです。
func NewRedisStore(rdb *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{
		rdb: rdb,
		ttl: ttl,
	}
}

// Attach はトークンにユーザー名を紐付けます。
func (s *RedisStore) Attach(ctx context.Context, token, identity string) error {
	if token == "" || identity == "" {
		return fmt.Errorf("token and identity are required")
	}
	return s.rdb.Set(ctx, sessionKey(token), identity, s.ttl).Err()
}

// Identity はトークンからユーザー名を引き、TTL を延長します。
func (s *RedisStore) Identity(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNoSession
	}
	identity, err := s.rdb.GetEx(ctx, sessionKey(token), s.ttl).Result()
	if err != nil {
		if err == redis.Nil {
			return "", ErrNoSession
		}
		return "", fmt.Errorf("session store error: %w", err)
	}
	return identity, nil
}

// Detach はトークンの紐付けを破棄します。既に存在しない場合も成功します。
func (s *RedisStore) Detach(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	return s.rdb.Del(ctx, sessionKey(token)).Err()
}

func sessionKey(token string) string {
	return sessionKeyPrefix + token
}
