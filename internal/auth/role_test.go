package auth_test

import (
	"testing"

	"github.com/dogukanveziroglu/DailyReporter/internal/auth"
	"github.com/stretchr/testify/assert"
)

// TestNormalizeRole_Aliases 测试角色别名归一化
func TestNormalizeRole_Aliases(t *testing.T) {
	cases := map[string]string{
		"member":          auth.RoleUser,
		"employee":        auth.RoleUser,
		"user":            auth.RoleUser,
		"team_lead":       auth.RoleLead,
		"teamlead":        auth.RoleLead,
		"tl":              auth.RoleLead,
		"lead":            auth.RoleLead,
		"department_lead": auth.RoleDeptLead,
		"deptlead":        auth.RoleDeptLead,
		"dep_lead":        auth.RoleDeptLead,
		"dl":              auth.RoleDeptLead,
		"administrator":   auth.RoleAdmin,
		"superadmin":      auth.RoleAdmin,
		"root":            auth.RoleAdmin,
		"admin":           auth.RoleAdmin,
	}

	for raw, want := range cases {
		assert.Equal(t, want, auth.NormalizeRole(raw), "alias %q", raw)
	}
}

// TestNormalizeRole_CaseAndWhitespace 测试大小写与空白的归一化
func TestNormalizeRole_CaseAndWhitespace(t *testing.T) {
	assert.Equal(t, auth.RoleAdmin, auth.NormalizeRole("  Administrator "))
	assert.Equal(t, auth.RoleLead, auth.NormalizeRole("TEAM_LEAD"))
	assert.Equal(t, auth.RoleAnon, auth.NormalizeRole(""))
	assert.Equal(t, auth.RoleAnon, auth.NormalizeRole("   "))
}

// TestNormalizeRole_UnknownPassthrough 未知角色原样保留,权重为 0
func TestNormalizeRole_UnknownPassthrough(t *testing.T) {
	got := auth.NormalizeRole("Contractor")
	assert.Equal(t, "contractor", got)
	assert.Equal(t, 0, auth.Weight(got))
}

// TestWeight_Ordering 测试角色权重顺序
func TestWeight_Ordering(t *testing.T) {
	assert.Less(t, auth.Weight(auth.RoleAnon), auth.Weight(auth.RoleUser))
	assert.Less(t, auth.Weight(auth.RoleUser), auth.Weight(auth.RoleLead))
	assert.Less(t, auth.Weight(auth.RoleLead), auth.Weight(auth.RoleDeptLead))
	assert.Less(t, auth.Weight(auth.RoleDeptLead), auth.Weight(auth.RoleAdmin))
}

// TestCurrentRole 测试主体角色推导
func TestCurrentRole(t *testing.T) {
	// 无主体 -> anon
	assert.Equal(t, auth.RoleAnon, auth.CurrentRole(nil))

	// 未认证主体 -> anon
	assert.Equal(t, auth.RoleAnon, auth.CurrentRole(&auth.Principal{}))

	// 已认证但未标注角色 -> user
	assert.Equal(t, auth.RoleUser, auth.CurrentRole(&auth.Principal{UserID: 7}))

	// 已认证且有角色 -> 归一化后的角色
	assert.Equal(t, auth.RoleLead, auth.CurrentRole(&auth.Principal{UserID: 7, Role: "team_lead"}))
}

// TestRequireMinimum 测试门控守卫
func TestRequireMinimum(t *testing.T) {
	lead := &auth.Principal{UserID: 1, Role: auth.RoleLead}
	user := &auth.Principal{UserID: 2, Role: auth.RoleUser}
	unknown := &auth.Principal{UserID: 3, Role: "contractor"}

	assert.NoError(t, auth.RequireMinimum(lead, auth.RoleUser))
	assert.NoError(t, auth.RequireMinimum(lead, auth.RoleLead))
	assert.ErrorIs(t, auth.RequireMinimum(lead, auth.RoleAdmin), auth.ErrForbidden)

	assert.NoError(t, auth.RequireMinimum(user, auth.RoleUser))
	assert.ErrorIs(t, auth.RequireMinimum(user, auth.RoleLead), auth.ErrForbidden)

	// 未知角色权重为 0,连 user 门槛都过不了
	assert.ErrorIs(t, auth.RequireMinimum(unknown, auth.RoleUser), auth.ErrForbidden)

	// nil 主体一律拒绝
	assert.ErrorIs(t, auth.RequireMinimum(nil, auth.RoleUser), auth.ErrForbidden)
}

// TestRoleHelpers 测试角色便捷判断
func TestRoleHelpers(t *testing.T) {
	admin := &auth.Principal{UserID: 1, Role: "root"}
	deptLead := &auth.Principal{UserID: 2, Role: auth.RoleDeptLead}
	user := &auth.Principal{UserID: 3, Role: auth.RoleUser}

	assert.True(t, auth.IsAdmin(admin))
	assert.True(t, auth.IsLead(admin))
	assert.True(t, auth.IsDeptLead(deptLead))
	assert.False(t, auth.IsAdmin(deptLead))
	assert.False(t, auth.IsLead(user))
}
