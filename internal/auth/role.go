package auth

import (
	"errors"
	"strings"
)

// 规范角色标识
const (
	RoleAnon     = "anon"
	RoleUser     = "user"
	RoleLead     = "lead"
	RoleDeptLead = "dept_lead"
	RoleAdmin    = "admin"
)

// ErrForbidden 权限不足
var ErrForbidden = errors.New("forbidden: insufficient role")

// roleWeight 角色权重,数值越大权限越高
var roleWeight = map[string]int{
	RoleAnon:     0,
	RoleUser:     1,
	RoleLead:     2,
	RoleDeptLead: 3,
	RoleAdmin:    4,
}

// roleAliases 常见写法/别名到规范角色的映射
var roleAliases = map[string]string{
	// user
	"member":   RoleUser,
	"employee": RoleUser,
	RoleUser:   RoleUser,
	// team lead
	"team_lead": RoleLead,
	"teamlead":  RoleLead,
	"tl":        RoleLead,
	RoleLead:    RoleLead,
	// department lead
	"department_lead": RoleDeptLead,
	"deptlead":        RoleDeptLead,
	"dep_lead":        RoleDeptLead,
	"dl":              RoleDeptLead,
	RoleDeptLead:      RoleDeptLead,
	// admin
	"administrator": RoleAdmin,
	"superadmin":    RoleAdmin,
	"root":          RoleAdmin,
	RoleAdmin:       RoleAdmin,
}

// NormalizeRole 将任意角色字符串归一化为规范角色
// 空串归一化为 anon;未知字符串原样返回(其权重为 0,门控时等同 anon)
func NormalizeRole(raw string) string {
	s := strings.ToLower(strings.TrimSpace(raw))
	if s == "" {
		return RoleAnon
	}
	if canonical, ok := roleAliases[s]; ok {
		return canonical
	}
	return s
}

// Weight 返回角色权重,未知角色权重为 0
func Weight(role string) int {
	return roleWeight[role]
}

// CurrentRole 计算主体的当前角色
// 无主体或未认证时为 anon;已认证但未标注角色时按 user 处理
func CurrentRole(p *Principal) string {
	if p == nil || p.UserID == 0 {
		return RoleAnon
	}
	if p.Role == "" {
		return RoleUser
	}
	return NormalizeRole(p.Role)
}

// HasMinRole 判断主体权重是否达到要求角色的权重
func HasMinRole(p *Principal, required string) bool {
	return Weight(CurrentRole(p)) >= Weight(required)
}

// RequireMinimum 门控守卫:权重不足时返回 ErrForbidden,被守卫的操作必须中止
func RequireMinimum(p *Principal, required string) error {
	if !HasMinRole(p, required) {
		return ErrForbidden
	}
	return nil
}

// IsAdmin 是否为管理员
func IsAdmin(p *Principal) bool {
	return Weight(CurrentRole(p)) >= Weight(RoleAdmin)
}

// IsLead 是否为团队负责人及以上
func IsLead(p *Principal) bool {
	return Weight(CurrentRole(p)) >= Weight(RoleLead)
}

// IsDeptLead 是否为部门负责人及以上
func IsDeptLead(p *Principal) bool {
	return Weight(CurrentRole(p)) >= Weight(RoleDeptLead)
}
