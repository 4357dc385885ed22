package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/dogukanveziroglu/DailyReporter/internal/config"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware CORS 中间件
func CORSMiddleware(cfg *config.CORSConfig) gin.HandlerFunc {
	methods := strings.Join(cfg.AllowedMethods, ", ")
	headers := strings.Join(cfg.AllowedHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		// 检查是否允许所有源
		allowAll := false
		for _, allowedOrigin := range cfg.AllowedOrigins {
			if allowedOrigin == "*" {
				allowAll = true
				break
			}
		}

		// 检查 origin 是否在允许列表中
		allowed := allowAll
		if !allowed {
			for _, allowedOrigin := range cfg.AllowedOrigins {
				if allowedOrigin == origin {
					allowed = true
					break
				}
			}
		}

		if allowed {
			if allowAll {
				// 允许所有源时,不能设置 credentials
				c.Header("Access-Control-Allow-Origin", "*")
			} else if origin != "" {
				// 指定具体源时,可以设置 credentials
				c.Header("Access-Control-Allow-Origin", origin)
				c.Header("Access-Control-Allow-Credentials", "true")
			}
		}

		// 设置其他 CORS 头
		c.Header("Access-Control-Allow-Methods", methods)
		c.Header("Access-Control-Allow-Headers", headers)
		c.Header("Access-Control-Expose-Headers", "X-Request-ID")
		c.Header("Access-Control-Max-Age", maxAge)

		// 处理预检请求
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
