package users

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const usersHashKey = "users"

// RedisStore はユーザーレコードを Redis のハッシュに保存します。
// ユーザー名をフィールドキーにした HSetNX により、
// 一意性チェックと挿入がサーバー側で1コマンドとして実行されます。
type RedisStore struct {
	rdb *redis.Client
}

// NewRedisStore は RedisStore を作成します。
func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

// Create はユーザーを登録します。同名ユーザーが既に存在する場合は
// ErrDuplicateUsername を返します。
func (s *RedisStore) Create(ctx context.Context, user *User) error {
	if user == nil {
		return fmt.Errorf("user is nil")
	}
	if user.Username == "" {
		return ErrInvalidUsername
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	payload, err := json.Marshal(user)
	if err != nil {
		return err
	}

	created, err := s.rdb.HSetNX(ctx, usersHashKey, user.Username, payload).Result()
	if err != nil {
		return fmt.Errorf("store error: %w", err)
	}
	if !created {
		return ErrDuplicateUsername
	}
	return nil
}

// GetByUsername はユーザー名でレコードを取得します。
func (s *RedisStore) GetByUsername(ctx context.Context, username string) (*User, error) {
	if username == "" {
		return nil, ErrInvalidUsername
	}
	data, err := s.rdb.HGet(ctx, usersHashKey, username).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store error: %w", err)
	}
	var user User
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
