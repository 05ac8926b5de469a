package session

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	identity string
	expires  time.Time
}

// MemoryStore は Redis なしで動かすためのインメモリ実装です。
// ローカル開発とテストで使用します。
type MemoryStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[string]memoryEntry
	now     func() time.Time
}

// NewMemoryStore は MemoryStore を作成します。ttl は無操作タイムアウトです。
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		ttl:     ttl,
		entries: make(map[string]memoryEntry),
		now:     time.Now,
	}
}

// Attach はトークンにユーザー名を紐付けます。
func (s *MemoryStore) Attach(ctx context.Context, token, identity string) error {
	if token == "" || identity == "" {
		return ErrNoSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[token] = memoryEntry{
		identity: identity,
		expires:  s.now().Add(s.ttl),
	}
	return nil
}

// Identity はトークンからユーザー名を引き、期限を延長します。
func (s *MemoryStore) Identity(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrNoSession
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entry, exists := s.entries[token]
	if !exists {
		return "", ErrNoSession
	}
	if s.now().After(entry.expires) {
		delete(s.entries, token)
		return "", ErrNoSession
	}

	entry.expires = s.now().Add(s.ttl)
	s.entries[token] = entry
	return entry.identity, nil
}

// Detach はトークンの紐付けを破棄します。既に存在しない場合も成功します。
func (s *MemoryStore) Detach(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, token)
	return nil
}
