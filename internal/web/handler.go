package web

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/auth-portal/internal/auth"
)

// HomeHandler は GET / のハンドラーを返します。
// ログイン済みであればユーザー名をビューに渡します。
func HomeHandler(renderer auth.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		data := gin.H{}
		if user, ok := c.Get(auth.ContextUserKey); ok {
			data["username"] = user
		}
		renderer.Render(c, http.StatusOK, "index", data)
	}
}

// PrivateHandler は GET /private のハンドラーを返します。
// RequireLogin ミドルウェアの後段で使用する前提です。
func PrivateHandler(renderer auth.Renderer) gin.HandlerFunc {
	return func(c *gin.Context) {
		renderer.Render(c, http.StatusOK, "private", gin.H{
			"username": c.GetString(auth.ContextUserKey),
		})
	}
}
