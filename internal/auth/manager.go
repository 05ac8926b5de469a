package auth

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yourusername/auth-portal/internal/config"
	"github.com/yourusername/auth-portal/internal/session"
	"github.com/yourusername/auth-portal/internal/users"
)

const (
	SessionCookieName  = "ap_session"
	sessionKeyToken    = "session_token"
	sessionKeyIssuedAt = "issued_at"
	sessionKeyCSRF     = "csrf_token"

	csrfHeader    = "X-CSRF-Token"
	csrfFormField = "csrf_token"

	// LoginPath はログイン画面のパスです。拒否時のリダイレクト先になります。
	LoginPath = "/login"
	// HomePath はログイン成功後のリダイレクト先です。
	HomePath = "/"
)

// ContextUserKey は、ハンドラー間でログイン済みユーザー名を共有するためのキーです。
const ContextUserKey = "auth.user"

// Renderer はビューの描画機能です。テンプレートの中身は関知しません。
type Renderer interface {
	Render(c *gin.Context, status int, view string, data gin.H)
}

// Manager は認証処理と状態をまとめた構造体です。
type Manager struct {
	verifier *Verifier
	store    users.Store
	sessions session.Store
	hasher   PasswordHasher
	renderer Renderer

	maxSessionLifetime time.Duration
}

// NewManager は認証マネージャーを作成します。
func NewManager(cfg *config.Config, store users.Store, sessionStore session.Store, hasher PasswordHasher, renderer Renderer) *Manager {
	return &Manager{
		verifier:           NewVerifier(store, hasher),
		store:              store,
		sessions:           sessionStore,
		hasher:             hasher,
		renderer:           renderer,
		maxSessionLifetime: time.Duration(cfg.SessionMaxHours) * time.Hour,
	}
}

type credentialsRequest struct {
	Username string `form:"username" json:"username"`
	Password string `form:"password" json:"password"`
}

// ShowSignup は GET /signup のハンドラーです。
func (m *Manager) ShowSignup(c *gin.Context) {
	m.renderer.Render(c, http.StatusOK, "signup", gin.H{})
}

// ShowLogin は GET /login のハンドラーです。
func (m *Manager) ShowLogin(c *gin.Context) {
	m.renderer.Render(c, http.StatusOK, "login", gin.H{})
}

// Register は POST /signup のハンドラーです。
// ユーザー名の重複は登録時に限り区別して通知します。
func (m *Manager) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil || req.Username == "" {
		m.renderer.Render(c, http.StatusBadRequest, "signup", gin.H{
			"error": "ユーザー名を入力してください",
		})
		return
	}

	hash, err := m.hasher.Derive(req.Password)
	if err != nil {
		m.renderer.Render(c, http.StatusInternalServerError, "signup", gin.H{
			"error": "登録処理に失敗しました",
		})
		return
	}

	user := &users.User{
		ID:           uuid.NewString(),
		Username:     req.Username,
		PasswordHash: hash,
	}
	if err := m.store.Create(c.Request.Context(), user); err != nil {
		if errors.Is(err, users.ErrDuplicateUsername) {
			m.renderer.Render(c, http.StatusConflict, "signup", gin.H{
				"error": "このユーザー名は既に使われています",
			})
			return
		}
		m.renderer.Render(c, http.StatusInternalServerError, "signup", gin.H{
			"error": "登録処理に失敗しました",
		})
		return
	}

	c.Redirect(http.StatusFound, LoginPath)
}

// Login は POST /login のハンドラーです。
// 「ユーザーが存在しない」と「パスワード不一致」は同一の応答に畳み込みます。
func (m *Manager) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBind(&req); err != nil || req.Username == "" {
		m.renderer.Render(c, http.StatusBadRequest, "login", gin.H{
			"error": "ユーザー名を入力してください",
		})
		return
	}

	identity, err := m.verifier.Verify(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, ErrStoreUnavailable) {
			m.renderer.Render(c, http.StatusInternalServerError, "login", gin.H{
				"error": "一時的な障害が発生しました。時間をおいて再度お試しください",
			})
			return
		}
		m.renderer.Render(c, http.StatusUnauthorized, "login", gin.H{
			"error": "ユーザー名またはパスワードが正しくありません",
		})
		return
	}

	// ログインのたびに新しいトークンを発行する（セッション固定攻撃の防止）
	token, err := generateToken()
	if err != nil {
		m.renderer.Render(c, http.StatusInternalServerError, "login", gin.H{
			"error": "セッションの発行に失敗しました",
		})
		return
	}
	csrf, err := generateToken()
	if err != nil {
		m.renderer.Render(c, http.StatusInternalServerError, "login", gin.H{
			"error": "セッションの発行に失敗しました",
		})
		return
	}

	cookie := sessions.Default(c)
	// ログイン済みのまま再ログインした場合、古いトークンの紐付けは残さない
	if old, ok := cookie.Get(sessionKeyToken).(string); ok && old != "" {
		_ = m.sessions.Detach(c.Request.Context(), old)
	}

	if err := m.sessions.Attach(c.Request.Context(), token, identity); err != nil {
		m.renderer.Render(c, http.StatusInternalServerError, "login", gin.H{
			"error": "セッションの保存に失敗しました",
		})
		return
	}

	cookie.Set(sessionKeyToken, token)
	cookie.Set(sessionKeyIssuedAt, time.Now().Unix())
	cookie.Set(sessionKeyCSRF, csrf)
	if err := cookie.Save(); err != nil {
		// クッキーが書けなければサーバー側の紐付けも残さない
		_ = m.sessions.Detach(c.Request.Context(), token)
		m.renderer.Render(c, http.StatusInternalServerError, "login", gin.H{
			"error": "セッションの保存に失敗しました",
		})
		return
	}

	c.Header(csrfHeader, csrf)
	c.Redirect(http.StatusFound, HomePath)
}

// Logout はログアウトのハンドラーです。未ログイン状態で呼んでも成功します。
// サーバー側の紐付けを先に破棄するため、古いトークンを再送されても
// 未認証として扱われます。
func (m *Manager) Logout(c *gin.Context) {
	cookie := sessions.Default(c)
	if token, ok := cookie.Get(sessionKeyToken).(string); ok && token != "" {
		_ = m.sessions.Detach(c.Request.Context(), token)
	}
	cookie.Clear()
	_ = cookie.Save()
	c.Redirect(http.StatusFound, LoginPath)
}

// RequireLogin はセッションを検証するミドルウェアを返します。
// 認証されていないリクエストはログイン画面へリダイレクトされます。
// このミドルウェア自体が認証を行うことはなく、既存の状態を読むだけです。
func (m *Manager) RequireLogin() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := m.resolve(c)
		if !ok {
			c.Redirect(http.StatusFound, LoginPath)
			c.Abort()
			return
		}
		c.Set(ContextUserKey, identity)
		c.Next()
	}
}

// ResolveIdentity はログイン済みならユーザー名をコンテキストに載せる
// ミドルウェアを返します。未ログインでも処理を中断しません。
func (m *Manager) ResolveIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		if identity, ok := m.resolve(c); ok {
			c.Set(ContextUserKey, identity)
		}
		c.Next()
	}
}

// resolve はクッキーのトークンを認証状態に解決します。
// 絶対有効期限切れ・紐付けなしの場合はクッキーを破棄して未認証を返します。
func (m *Manager) resolve(c *gin.Context) (string, bool) {
	cookie := sessions.Default(c)
	token, ok := cookie.Get(sessionKeyToken).(string)
	if !ok || token == "" {
		return "", false
	}

	issuedAt := readUnix(cookie.Get(sessionKeyIssuedAt))
	if issuedAt.IsZero() || time.Since(issuedAt) > m.maxSessionLifetime {
		_ = m.sessions.Detach(c.Request.Context(), token)
		cookie.Clear()
		_ = cookie.Save()
		return "", false
	}

	identity, err := m.sessions.Identity(c.Request.Context(), token)
	if err != nil {
		if errors.Is(err, session.ErrNoSession) {
			cookie.Clear()
			_ = cookie.Save()
		}
		return "", false
	}
	return identity, true
}

// VerifyCSRF は状態変更リクエストの CSRF トークンを検証するミドルウェアです。
// トークンは X-CSRF-Token ヘッダーまたは csrf_token フォームフィールドで受け取ります。
func (m *Manager) VerifyCSRF() gin.HandlerFunc {
	return func(c *gin.Context) {
		if isSafeMethod(c.Request.Method) {
			c.Next()
			return
		}

		cookie := sessions.Default(c)
		expected, ok := cookie.Get(sessionKeyCSRF).(string)
		if !ok || expected == "" {
			// 未ログインのセッションには検証対象のトークンが存在しない
			c.Next()
			return
		}

		received := c.GetHeader(csrfHeader)
		if received == "" {
			received = c.PostForm(csrfFormField)
		}
		if subtle.ConstantTimeCompare([]byte(expected), []byte(received)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"code":    "CSRF_INVALID",
				"message": "CSRF トークンが一致しません",
			})
			return
		}

		c.Next()
	}
}

func generateToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func readUnix(v interface{}) time.Time {
	switch t := v.(type) {
	case int64:
		return time.Unix(t, 0)
	case int:
		return time.Unix(int64(t), 0)
	case float64:
		return time.Unix(int64(t), 0)
	default:
		return time.Time{}
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	default:
		return false
	}
}
