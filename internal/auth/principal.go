package auth

// Principal 已认证主体
// 所有需要鉴权的调用显式传递 Principal,不依赖任何隐式会话状态
type Principal struct {
	UserID   uint
	Username string
	Role     string
}
