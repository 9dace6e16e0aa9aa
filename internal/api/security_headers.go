package api

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware 为所有响应附加安全相关的响应头
// 职位数据只通过 JSON API 提供,页面不会被嵌入第三方站点
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 禁止 MIME 嗅探,JSON 响应不应被当作其他类型解析
		c.Header("X-Content-Type-Options", "nosniff")

		// API 响应不允许被 iframe 嵌入
		c.Header("X-Frame-Options", "DENY")

		c.Header("X-XSS-Protection", "1; mode=block")

		// HSTS,一年有效并覆盖子域
		c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")

		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		c.Next()
	}
}
