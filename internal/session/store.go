// Package session はセッショントークンと認証済みユーザーの対応を管理します。
//
// トークン自体はクライアントが署名付きクッキーで保持し、
// 対応関係はサーバー側のストアが保持します。ログアウトや
// タイムアウトでストア側の対応を消すことで、古いトークンを
// 再送されても未認証として扱えます。
package session

import (
	"context"
	"errors"
)

// ErrNoSession はトークンに対応する認証状態が存在しない場合に返されます。
// 未ログイン・ログアウト済み・タイムアウト後はすべてこの状態になります。
var ErrNoSession = errors.New("no active session")

// Store はトークンと認証済みユーザー名の対応を保持します。
//   - Attach: ログイン成功時にトークンへユーザー名を紐付ける
//   - Identity: トークンからユーザー名を引く（無操作タイムアウトを延長する）
//   - Detach: 紐付けを即時に破棄する（存在しない場合も成功とする）
//
// どの操作もトークン単位でアトミックに適用され、途中状態が観測されることはありません。
type Store interface {
	Attach(ctx context.Context, token, identity string) error
	Identity(ctx context.Context, token string) (string, error)
	Detach(ctx context.Context, token string) error
}
