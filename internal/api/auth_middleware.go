package api

import (
	"net/http"
	"strings"

	"github.com/dogukanveziroglu/DailyReporter/internal/auth"
	"github.com/gin-gonic/gin"
)

// principalKey 上下文中存放 Principal 的键
const principalKey = "principal"

// AuthMiddleware 认证中间件
// 解析 Authorization: Bearer <token>,把 Principal 放入上下文
func AuthMiddleware(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			Error(c, http.StatusUnauthorized, "missing authorization header", "")
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			Error(c, http.StatusUnauthorized, "invalid authorization header", "")
			c.Abort()
			return
		}

		principal, err := tokens.Verify(parts[1])
		if err != nil {
			Error(c, http.StatusUnauthorized, "invalid token", "")
			c.Abort()
			return
		}

		c.Set(principalKey, principal)
		c.Next()
	}
}

// RequireMinRole 角色门槛中间件,要求权重不低于 minimum
func RequireMinRole(minimum string) gin.HandlerFunc {
	return func(c *gin.Context) {
		p := CurrentPrincipal(c)
		if err := auth.RequireMinimum(p, minimum); err != nil {
			Error(c, http.StatusForbidden, "forbidden", "")
			c.Abort()
			return
		}
		c.Next()
	}
}

// CurrentPrincipal 从上下文取出 Principal,未认证返回 nil
func CurrentPrincipal(c *gin.Context) *auth.Principal {
	value, exists := c.Get(principalKey)
	if !exists {
		return nil
	}
	principal, ok := value.(*auth.Principal)
	if !ok {
		return nil
	}
	return principal
}
