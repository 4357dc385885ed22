package api

import (
	"net/http"

	"github.com/dogukanveziroglu/DailyReporter/internal/auth"
	"github.com/dogukanveziroglu/DailyReporter/internal/service"
	"github.com/gin-gonic/gin"
)

// AuthController 认证控制器
type AuthController struct {
	userService service.UserService
	tokens      *auth.TokenManager
}

// NewAuthController 创建认证控制器
func NewAuthController(userService service.UserService, tokens *auth.TokenManager) *AuthController {
	return &AuthController{
		userService: userService,
		tokens:      tokens,
	}
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // 用户名
	Password string `json:"password" binding:"required"` // 密码
}

// ChangePasswordRequest 修改密码请求
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"` // 旧密码
	NewPassword string `json:"new_password" binding:"required"` // 新密码
}

// Login 用户登录,签发 JWT
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	user, err := c.userService.Authenticate(req.Username, req.Password)
	if err != nil {
		RespondError(ctx, err)
		return
	}

	token, err := c.tokens.Issue(user.ID, user.Username, user.Role)
	if err != nil {
		Error(ctx, http.StatusInternalServerError, "failed to issue token", err.Error())
		return
	}

	Success(ctx, gin.H{
		"token": token,
		"user": gin.H{
			"id":        user.ID,
			"username":  user.Username,
			"full_name": user.FullName,
			"role":      user.Role,
		},
	})
}

// Me 查询当前登录用户
func (c *AuthController) Me(ctx *gin.Context) {
	p := CurrentPrincipal(ctx)

	user, err := c.userService.Get(p, p.UserID)
	if err != nil {
		RespondError(ctx, err)
		return
	}

	Success(ctx, user)
}

// ChangePassword 修改本人密码
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	var req ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		Error(ctx, http.StatusBadRequest, "invalid request", err.Error())
		return
	}

	p := CurrentPrincipal(ctx)
	if err := c.userService.ChangePassword(p, req.OldPassword, req.NewPassword); err != nil {
		RespondError(ctx, err)
		return
	}

	Success(ctx, nil)
}
