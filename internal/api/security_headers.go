package api

import (
	"github.com/gin-gonic/gin"
)

// SecurityHeadersMiddleware 纯 JSON 接口的安全响应头
func SecurityHeadersMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 接口不返回 HTML,禁止嗅探、内嵌与任何资源加载
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")
		c.Header("X-Frame-Options", "DENY")

		// 日报内容随响应下发,不允许中间缓存
		c.Header("Cache-Control", "no-store")

		// 跨站跳转不携带 Referer
		c.Header("Referrer-Policy", "no-referrer")

		c.Next()
	}
}
