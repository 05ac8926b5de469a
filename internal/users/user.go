// Package users はユーザーレコードの保存と取得を提供します。
package users

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrDuplicateUsername は同名ユーザーが既に存在する場合に返されます。
	ErrDuplicateUsername = errors.New("username already taken")
	// ErrNotFound は該当ユーザーが存在しない場合に返されます。
	ErrNotFound = errors.New("user not found")
	// ErrInvalidUsername はユーザー名が空の場合に返されます。
	ErrInvalidUsername = errors.New("username is required")
)

// User は認証対象のユーザーレコードです。
// PasswordHash には平文パスワードは決して入りません。
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Store はユーザーレコードの永続化を抽象化します。
// Create はユーザー名の一意性チェックと挿入をアトミックに行う必要があります。
// 同名での同時登録は高々1件しか成功しません。
type Store interface {
	Create(ctx context.Context, user *User) error
	GetByUsername(ctx context.Context, username string) (*User, error)
}
