package service_test

import (
	"testing"

	"github.com/dogukanveziroglu/DailyReporter/internal/auth"
	"github.com/dogukanveziroglu/DailyReporter/internal/database"
	"github.com/dogukanveziroglu/DailyReporter/internal/model"
	"github.com/dogukanveziroglu/DailyReporter/internal/repository"
	"github.com/dogukanveziroglu/DailyReporter/internal/service"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupUserService 组装用户服务及测试数据库
func setupUserService(t *testing.T) (service.UserService, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	auditSvc := service.NewAuditLogService(repository.NewAuditLogRepository(db))
	svc := service.NewUserService(repository.NewUserRepository(db), auditSvc)
	return svc, db
}

var adminPrincipal = &auth.Principal{UserID: 1, Role: auth.RoleAdmin}

// TestUserService_CreateRequiresAdmin 创建用户仅管理员
func TestUserService_CreateRequiresAdmin(t *testing.T) {
	svc, _ := setupUserService(t)

	lead := &auth.Principal{UserID: 2, Role: auth.RoleLead}
	_, err := svc.Create(lead, &service.CreateUserRequest{Username: "alice", Password: "pw"})
	assert.ErrorIs(t, err, auth.ErrForbidden)
}

// TestUserService_CreateNormalizesRole 创建时归一化角色别名
func TestUserService_CreateNormalizesRole(t *testing.T) {
	svc, _ := setupUserService(t)

	user, err := svc.Create(adminPrincipal, &service.CreateUserRequest{
		Username: "alice", Password: "pw", Role: "Team_Lead",
	})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleLead, user.Role)

	// 缺省角色为 user
	user, err = svc.Create(adminPrincipal, &service.CreateUserRequest{
		Username: "bob", Password: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, auth.RoleUser, user.Role)
}

// TestUserService_CreateRejectsDuplicateUsername 用户名冲突
func TestUserService_CreateRejectsDuplicateUsername(t *testing.T) {
	svc, _ := setupUserService(t)

	_, err := svc.Create(adminPrincipal, &service.CreateUserRequest{Username: "alice", Password: "pw"})
	require.NoError(t, err)

	_, err = svc.Create(adminPrincipal, &service.CreateUserRequest{Username: "alice", Password: "pw"})
	assert.ErrorIs(t, err, service.ErrUsernameTaken)
}

// TestUserService_CreateWithDepartments 创建时直接关联部门
func TestUserService_CreateWithDepartments(t *testing.T) {
	svc, db := setupUserService(t)

	user, err := svc.Create(adminPrincipal, &service.CreateUserRequest{
		Username: "alice", Password: "pw", DepartmentIDs: []uint{1, 2, 2},
	})
	require.NoError(t, err)

	// 重复的部门 ID 去重
	var count int64
	require.NoError(t, db.Model(&model.UserDepartmentModel{}).
		Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(2), count)
}

// TestUserService_Authenticate 认证成功与失败
func TestUserService_Authenticate(t *testing.T) {
	svc, _ := setupUserService(t)

	created, err := svc.Create(adminPrincipal, &service.CreateUserRequest{
		Username: "alice", Password: "s3cret",
	})
	require.NoError(t, err)

	user, err := svc.Authenticate("alice", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)

	// 密码错误与用户不存在返回同一错误
	_, err = svc.Authenticate("alice", "wrong")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
	_, err = svc.Authenticate("nobody", "s3cret")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

// TestUserService_SetDepartmentsSyncs 部门归属全量同步
func TestUserService_SetDepartmentsSyncs(t *testing.T) {
	svc, db := setupUserService(t)

	user, err := svc.Create(adminPrincipal, &service.CreateUserRequest{
		Username: "alice", Password: "pw", DepartmentIDs: []uint{1, 2},
	})
	require.NoError(t, err)

	require.NoError(t, svc.SetDepartments(adminPrincipal, user.ID, []uint{2, 3}))

	var deptIDs []uint
	require.NoError(t, db.Model(&model.UserDepartmentModel{}).
		Where("user_id = ?", user.ID).Order("department_id").
		Pluck("department_id", &deptIDs).Error)
	assert.Equal(t, []uint{2, 3}, deptIDs)
}

// TestUserService_ChangePassword 修改密码校验旧密码
func TestUserService_ChangePassword(t *testing.T) {
	svc, _ := setupUserService(t)

	created, err := svc.Create(adminPrincipal, &service.CreateUserRequest{
		Username: "alice", Password: "old-pw",
	})
	require.NoError(t, err)

	principal := &auth.Principal{UserID: created.ID, Role: auth.RoleUser}

	err = svc.ChangePassword(principal, "wrong", "new-pw")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)

	require.NoError(t, svc.ChangePassword(principal, "old-pw", "new-pw"))

	_, err = svc.Authenticate("alice", "new-pw")
	assert.NoError(t, err)
}

// TestUserService_AuditTrail 管理操作写审计日志
func TestUserService_AuditTrail(t *testing.T) {
	svc, db := setupUserService(t)

	user, err := svc.Create(adminPrincipal, &service.CreateUserRequest{
		Username: "alice", Password: "pw",
	})
	require.NoError(t, err)
	require.NoError(t, svc.UpdateRoleTeam(adminPrincipal, user.ID, "tl", nil))

	var logs []model.AuditLogModel
	require.NoError(t, db.Order("id").Find(&logs).Error)
	require.Len(t, logs, 2)
	assert.Equal(t, "user.create", logs[0].Action)
	assert.Equal(t, "user.update_role_team", logs[1].Action)
	assert.Contains(t, logs[1].DiffJSON, auth.RoleLead)
}
