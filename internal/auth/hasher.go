// Package auth は認証・認可機能を提供します。
package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher はパスワードのハッシュ化方式を差し替え可能にするための
// インターフェースです。Derive は一方向・ソルト付きのハッシュを生成し、
// Matches は平文と保存済みハッシュの一致を判定します。
type PasswordHasher interface {
	Derive(password string) (string, error)
	Matches(password, hash string) bool
}

// BcryptHasher は bcrypt による PasswordHasher 実装です。
// ソルトは bcrypt がハッシュ内に埋め込みます。
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher は BcryptHasher を作成します。
// cost が bcrypt の許容範囲外の場合はデフォルトコストを使用します。
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Derive はパスワードから bcrypt ハッシュを生成します。
func (h *BcryptHasher) Derive(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Matches は平文パスワードと保存済みハッシュの一致を判定します。
func (h *BcryptHasher) Matches(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
