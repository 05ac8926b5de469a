// Package web はビューの描画とページハンドラーを提供します。
// 認証コアはここで定義されたテンプレートの中身に依存しません。
package web

import (
	"embed"
	"html/template"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Templates は埋め込みテンプレートをパースして返します。
// gin.Engine の SetHTMLTemplate にそのまま渡せます。
func Templates() *template.Template {
	return template.Must(template.New("").ParseFS(templateFS, "templates/*.tmpl"))
}

// TemplateRenderer は gin の HTML レンダリングによる Renderer 実装です。
type TemplateRenderer struct{}

// NewTemplateRenderer は TemplateRenderer を作成します。
func NewTemplateRenderer() *TemplateRenderer {
	return &TemplateRenderer{}
}

// Render は指定されたビューを描画します。
func (r *TemplateRenderer) Render(c *gin.Context, status int, view string, data gin.H) {
	c.HTML(status, view+".tmpl", data)
}
