package users

import (
	"context"
	"sync"
	"time"
)

// MemoryStore は Redis なしで動かすためのインメモリ実装です。
// ローカル開発とテストで使用します。
type MemoryStore struct {
	mu    sync.Mutex
	users map[string]User
}

// NewMemoryStore は MemoryStore を作成します。
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users: make(map[string]User),
	}
}

// Create はユーザーを登録します。ロック内で存在確認と挿入を行うため、
// 同名での同時登録は1件しか成功しません。
func (s *MemoryStore) Create(ctx context.Context, user *User) error {
	if user == nil || user.Username == "" {
		return ErrInvalidUsername
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.Username]; exists {
		return ErrDuplicateUsername
	}
	s.users[user.Username] = *user
	return nil
}

// GetByUsername はユーザー名でレコードを取得します。
func (s *MemoryStore) GetByUsername(ctx context.Context, username string) (*User, error) {
	if username == "" {
		return nil, ErrInvalidUsername
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	user, exists := s.users[username]
	if !exists {
		return nil, ErrNotFound
	}
	copied := user
	return &copied, nil
}
