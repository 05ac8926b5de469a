// Package main はAPIサーバーのエントリーポイントです。
package main

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/yourusername/auth-portal/internal/auth"
	"github.com/yourusername/auth-portal/internal/config"
	"github.com/yourusername/auth-portal/internal/session"
	"github.com/yourusername/auth-portal/internal/users"
	"github.com/yourusername/auth-portal/internal/web"
)

func main() {
	// 設定の読み込み
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Ginのモードを設定
	gin.SetMode(cfg.GinMode)

	// Ginルーターの初期化（デフォルトミドルウェア: Logger, Recovery）
	router := gin.Default()
	router.SetHTMLTemplate(web.Templates())

	// セッションストアの設定（クッキー署名鍵は必須）
	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   cfg.SessionMaxHours * 3600,
		HttpOnly: true,
		Secure:   cfg.GinMode == gin.ReleaseMode,
		SameSite: http.SameSiteStrictMode,
	})
	router.Use(sessions.Sessions(auth.SessionCookieName, store))

	// CORSミドルウェアの設定
	corsConfig := cors.DefaultConfig()
	// CORS許可オリジンを設定（カンマ区切りの文字列を配列に変換）
	origins := strings.Split(cfg.CORSAllowedOrigins, ",")
	corsConfig.AllowOrigins = origins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{
		"Origin",
		"Content-Type",
		"Accept",
		"Authorization",
		"X-CSRF-Token", // CSRF保護用ヘッダー
	}
	// フロントエンドがレスポンスヘッダーから CSRF トークンを読み取れるように公開
	corsConfig.ExposeHeaders = []string{"X-CSRF-Token"}
	router.Use(cors.New(corsConfig))

	// ストアの初期化（Redis未設定ならインメモリで動作）
	userStore, sessionStore := buildStores(cfg)

	// ルーティングの設定
	setupRoutes(router, cfg, userStore, sessionStore)

	// サーバーの起動
	addr := ":" + cfg.Port
	log.Printf("Starting API server on %s (mode: %s)", addr, cfg.GinMode)
	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

// buildStores はユーザーストアとセッションストアを初期化します。
func buildStores(cfg *config.Config) (users.Store, session.Store) {
	idleTimeout := time.Duration(cfg.SessionIdleMinutes) * time.Minute

	if cfg.RedisURL == "" {
		log.Printf("REDIS_URL not set, using in-memory stores")
		return users.NewMemoryStore(), session.NewMemoryStore(idleTimeout)
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to parse REDIS_URL: %v", err)
	}
	rdb := redis.NewClient(opt)
	return users.NewRedisStore(rdb), session.NewRedisStore(rdb, idleTimeout)
}

// handleHealth はヘルスチェックエンドポイントのハンドラーです。
func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "auth-portal",
		"version": "0.1.0",
	})
}

// setupRoutes は画面と認証周りの配線を行います。
func setupRoutes(router *gin.Engine, cfg *config.Config, userStore users.Store, sessionStore session.Store) {
	// まずは誰でも叩けるヘルスチェックを登録
	router.GET("/health", handleHealth)

	renderer := web.NewTemplateRenderer()
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	authManager := auth.NewManager(cfg, userStore, sessionStore, hasher, renderer)

	// ホームはログイン不要。ログイン済みならユーザー名を表示する
	router.GET("/", authManager.ResolveIdentity(), web.HomeHandler(renderer))

	// 認証フロー
	router.GET("/signup", authManager.ShowSignup)
	router.POST("/signup", authManager.Register)
	router.GET("/login", authManager.ShowLogin)
	router.POST("/login", authManager.Login)
	// ログアウトは未ログインでも成功する（冪等）
	router.GET("/logout", authManager.Logout)
	router.POST("/logout", authManager.VerifyCSRF(), authManager.Logout)

	// 保護されたページ
	router.GET("/private", authManager.RequireLogin(), web.PrivateHandler(renderer))
}
