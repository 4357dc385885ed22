package service_test

import (
	"fmt"
	"testing"
	"time"

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

// setupReportService 组装日报服务及测试数据库
func setupReportService(t *testing.T) (service.ReportService, *gorm.DB) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	svc := service.NewReportService(
		repository.NewReportRepository(db),
		repository.NewUserRepository(db),
	)
	return svc, db
}

// seedMember 写入用户及其部门归属
func seedMember(t *testing.T, db *gorm.DB, userID uint, departmentIDs ...uint) {
	now := time.Now().UTC()
	user := model.UserModel{
		ID: userID, Username: fmt.Sprintf("user%d", userID), PasswordHash: "x",
		Role: auth.RoleUser, CreatedAt: now,
	}
	require.NoError(t, db.Create(&user).Error)
	for _, deptID := range departmentIDs {
		require.NoError(t, db.Create(&model.UserDepartmentModel{
			UserID: userID, DepartmentID: deptID, CreatedAt: now,
		}).Error)
	}
}

// TestReportService_UpsertValidation 槽位写入校验
func TestReportService_UpsertValidation(t *testing.T) {
	svc, db := setupReportService(t)
	seedMember(t, db, 1, 1)

	member := &auth.Principal{UserID: 1, Role: auth.RoleUser}

	// 非法日期
	_, err := svc.Upsert(member, &service.SaveReportRequest{
		DepartmentID: 1, Date: "09/01/2025", Content: "work",
	})
	assert.ErrorIs(t, err, service.ErrInvalidDate)

	// 空内容
	_, err = svc.Upsert(member, &service.SaveReportRequest{
		DepartmentID: 1, Date: "2025-09-01", Content: "  ",
	})
	assert.ErrorIs(t, err, service.ErrEmptyContent)

	// 未认证
	_, err = svc.Upsert(nil, &service.SaveReportRequest{
		DepartmentID: 1, Date: "2025-09-01", Content: "work",
	})
	assert.ErrorIs(t, err, auth.ErrForbidden)
}

// TestReportService_MembershipGating 只能写入自己所属部门
func TestReportService_MembershipGating(t *testing.T) {
	svc, db := setupReportService(t)
	seedMember(t, db, 1, 1)

	member := &auth.Principal{UserID: 1, Role: auth.RoleUser}

	report, err := svc.Upsert(member, &service.SaveReportRequest{
		DepartmentID: 1, Date: "2025-09-01", Content: "work",
	})
	require.NoError(t, err)
	assert.Equal(t, uint(1), report.DepartmentID)

	// 不属于部门 2
	_, err = svc.Upsert(member, &service.SaveReportRequest{
		DepartmentID: 2, Date: "2025-09-01", Content: "work",
	})
	assert.ErrorIs(t, err, auth.ErrForbidden)
}

// TestReportService_AppendRevisionMarksEdit 补录写入编辑标记
func TestReportService_AppendRevisionMarksEdit(t *testing.T) {
	svc, db := setupReportService(t)
	seedMember(t, db, 1, 1)

	member := &auth.Principal{UserID: 1, Role: auth.RoleUser}

	_, err := svc.Upsert(member, &service.SaveReportRequest{
		DepartmentID: 1, Date: "2025-09-01", Content: "original",
	})
	require.NoError(t, err)

	revised, err := svc.AppendRevision(member, &service.ReviseReportRequest{
		DepartmentID: 1, Date: "2025-09-01", Content: "revised",
		EditedAt: "2025-09-02T08:00:00Z",
	})
	require.NoError(t, err)
	assert.Equal(t, "revised", revised.Content)
	assert.Contains(t, revised.TagsJSON, `"edited":true`)
	assert.Contains(t, revised.TagsJSON, "2025-09-02T08:00:00Z")

	// 仍然只有一行
	var count int64
	require.NoError(t, db.Model(&model.ReportModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestReportService_AppendRevisionDefaultsEditedAt 缺省编辑时间戳自动填充
func TestReportService_AppendRevisionDefaultsEditedAt(t *testing.T) {
	svc, db := setupReportService(t)
	seedMember(t, db, 1, 1)

	member := &auth.Principal{UserID: 1, Role: auth.RoleUser}
	revised, err := svc.AppendRevision(member, &service.ReviseReportRequest{
		DepartmentID: 1, Date: "2025-09-01", Content: "late entry",
	})
	require.NoError(t, err)
	assert.Contains(t, revised.TagsJSON, `"edited_at"`)
}

// TestReportService_ListForUserAccessControl 查他人日报需要 lead 及以上
func TestReportService_ListForUserAccessControl(t *testing.T) {
	svc, db := setupReportService(t)
	seedMember(t, db, 1, 1)
	seedMember(t, db, 2, 1)

	owner := &auth.Principal{UserID: 1, Role: auth.RoleUser}
	_, err := svc.Upsert(owner, &service.SaveReportRequest{
		DepartmentID: 1, Date: "2025-09-01", Content: "mine",
	})
	require.NoError(t, err)

	// 本人可查
	reports, err := svc.ListForUser(owner, &repository.UserReportFilter{
		UserID: 1, Start: "2025-09-01", End: "2025-09-30",
	})
	require.NoError(t, err)
	assert.Len(t, reports, 1)

	// 普通用户查他人被拒
	other := &auth.Principal{UserID: 2, Role: auth.RoleUser}
	_, err = svc.ListForUser(other, &repository.UserReportFilter{
		UserID: 1, Start: "2025-09-01", End: "2025-09-30",
	})
	assert.ErrorIs(t, err, auth.ErrForbidden)

	// lead 查他人放行
	lead := &auth.Principal{UserID: 3, Role: auth.RoleLead}
	reports, err = svc.ListForUser(lead, &repository.UserReportFilter{
		UserID: 1, Start: "2025-09-01", End: "2025-09-30",
	})
	require.NoError(t, err)
	assert.Len(t, reports, 1)
}

// TestReportService_MissingRequiresLead 缺报名单是 lead 视图
func TestReportService_MissingRequiresLead(t *testing.T) {
	svc, db := setupReportService(t)
	seedMember(t, db, 1, 1)
	seedMember(t, db, 2, 1)

	owner := &auth.Principal{UserID: 1, Role: auth.RoleUser}
	_, err := svc.Upsert(owner, &service.SaveReportRequest{
		DepartmentID: 1, Date: "2025-09-01", Content: "mine",
	})
	require.NoError(t, err)

	// 普通用户被拒
	_, err = svc.MissingForDepartmentAndDate(owner, 1, "2025-09-01")
	assert.ErrorIs(t, err, auth.ErrForbidden)

	// lead 看到缺报成员
	lead := &auth.Principal{UserID: 3, Role: auth.RoleLead}
	missing, err := svc.MissingForDepartmentAndDate(lead, 1, "2025-09-01")
	require.NoError(t, err)
	require.Len(t, missing, 1)
	assert.Equal(t, uint(2), missing[0].ID)
}
