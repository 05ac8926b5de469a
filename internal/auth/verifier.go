package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/yourusername/auth-portal/internal/users"
)

var (
	// ErrUnknownUser は該当ユーザーが存在しない場合に返されます。
	ErrUnknownUser = errors.New("unknown user")
	// ErrPasswordMismatch はパスワードが一致しない場合に返されます。
	ErrPasswordMismatch = errors.New("password mismatch")
	// ErrStoreUnavailable はユーザーストアが応答しない場合に返されます。
	ErrStoreUnavailable = errors.New("user store unavailable")
)

// Verifier はユーザー名とパスワードを照合します。
// 呼び出し側は ErrUnknownUser と ErrPasswordMismatch を外部に
// 区別して見せてはいけません（ユーザー名の探索を防ぐため）。
type Verifier struct {
	store  users.Store
	hasher PasswordHasher
}

// NewVerifier は Verifier を作成します。
func NewVerifier(store users.Store, hasher PasswordHasher) *Verifier {
	return &Verifier{
		store:  store,
		hasher: hasher,
	}
}

// Verify は認証情報を照合し、一致した場合はユーザー名を返します。
// ストアへの読み取り以外の副作用はありません。
func (v *Verifier) Verify(ctx context.Context, username, password string) (string, error) {
	if username == "" {
		return "", ErrUnknownUser
	}

	user, err := v.store.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) || errors.Is(err, users.ErrInvalidUsername) {
			return "", ErrUnknownUser
		}
		return "", fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if !v.hasher.Matches(password, user.PasswordHash) {
		return "", ErrPasswordMismatch
	}

	return user.Username, nil
}
