package repository_test

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dogukanveziroglu/DailyReporter/internal/database"
	"github.com/dogukanveziroglu/DailyReporter/internal/model"
	"github.com/dogukanveziroglu/DailyReporter/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupReportTestDB 创建测试数据库
// TranslateError 必须开启,补录路径依赖 gorm.ErrDuplicatedKey
func setupReportTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return db
}

// decodeTags 解析 tags JSON
func decodeTags(t *testing.T, tagsJSON string) map[string]interface{} {
	tags := map[string]interface{}{}
	require.NoError(t, json.Unmarshal([]byte(tagsJSON), &tags))
	return tags
}

// TestReportRepository_UpsertCreatesThenOverwrites 测试槽位保存:新建后覆盖
func TestReportRepository_UpsertCreatesThenOverwrites(t *testing.T) {
	db := setupReportTestDB(t)
	repo := repository.NewReportRepository(db)

	created, err := repo.Upsert(1, 1, "2025-09-01", "first draft", "alpha", "")
	require.NoError(t, err)
	require.NotZero(t, created.ID)

	updated, err := repo.Upsert(1, 1, "2025-09-01", "final version", "beta", "")
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID, "overwrite must reuse the existing row")
	assert.Equal(t, "final version", updated.Content)
	assert.Equal(t, "beta", updated.Project)

	// 一槽一报
	var count int64
	require.NoError(t, db.Model(&model.ReportModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestReportRepository_SlotUniqueness 不同槽位互不影响
func TestReportRepository_SlotUniqueness(t *testing.T) {
	db := setupReportTestDB(t)
	repo := repository.NewReportRepository(db)

	_, err := repo.Upsert(1, 1, "2025-09-01", "dept one", "", "")
	require.NoError(t, err)
	_, err = repo.Upsert(1, 2, "2025-09-01", "dept two", "", "")
	require.NoError(t, err)
	_, err = repo.Upsert(1, 1, "2025-09-02", "next day", "", "")
	require.NoError(t, err)

	var count int64
	require.NoError(t, db.Model(&model.ReportModel{}).Count(&count).Error)
	assert.Equal(t, int64(3), count)
}

// TestReportRepository_AppendRevisionOnEmptySlot 空槽位补录直接新建
func TestReportRepository_AppendRevisionOnEmptySlot(t *testing.T) {
	db := setupReportTestDB(t)
	repo := repository.NewReportRepository(db)

	report, err := repo.AppendRevision(1, 1, "2025-09-01", "late entry", "", "2025-09-02T10:00:00Z")
	require.NoError(t, err)

	tags := decodeTags(t, report.TagsJSON)
	assert.Equal(t, true, tags["edited"])
	assert.Equal(t, "2025-09-02T10:00:00Z", tags["edited_at"])
}

// TestReportRepository_AppendRevisionMergesOnConflict 撞唯一约束后并入已有行
func TestReportRepository_AppendRevisionMergesOnConflict(t *testing.T) {
	db := setupReportTestDB(t)
	repo := repository.NewReportRepository(db)

	existing, err := repo.Upsert(1, 1, "2025-09-01", "original", "alpha", `{"mood":"good"}`)
	require.NoError(t, err)

	merged, err := repo.AppendRevision(1, 1, "2025-09-01", "revised", "beta", "2025-09-02T10:00:00Z")
	require.NoError(t, err)

	// 并入的是同一行
	assert.Equal(t, existing.ID, merged.ID)
	assert.Equal(t, "revised", merged.Content)
	assert.Equal(t, "beta", merged.Project)

	// 编辑标记写入,既有键原样保留
	tags := decodeTags(t, merged.TagsJSON)
	assert.Equal(t, true, tags["edited"])
	assert.Equal(t, "2025-09-02T10:00:00Z", tags["edited_at"])
	assert.Equal(t, "good", tags["mood"])

	// 一槽一报
	var count int64
	require.NoError(t, db.Model(&model.ReportModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

// TestReportRepository_RepeatedRevisionsKeepSingleRow 反复补录始终只有一行
// 回读再写不得破坏槽位键:日期列必须以纯文本原样存储
func TestReportRepository_RepeatedRevisionsKeepSingleRow(t *testing.T) {
	db := setupReportTestDB(t)
	repo := repository.NewReportRepository(db)

	created, err := repo.Upsert(1, 1, "2025-09-01", "v1", "", `{"mood":"ok"}`)
	require.NoError(t, err)

	_, err = repo.AppendRevision(1, 1, "2025-09-01", "v2", "", "2025-09-02T08:00:00Z")
	require.NoError(t, err)
	final, err := repo.AppendRevision(1, 1, "2025-09-01", "v3", "", "2025-09-03T08:00:00Z")
	require.NoError(t, err)

	// 三次写入落在同一行
	assert.Equal(t, created.ID, final.ID)
	var count int64
	require.NoError(t, db.Model(&model.ReportModel{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// 最新内容 + 最新编辑时间,既有键跨多轮合并仍保留
	assert.Equal(t, "v3", final.Content)
	tags := decodeTags(t, final.TagsJSON)
	assert.Equal(t, "ok", tags["mood"])
	assert.Equal(t, "2025-09-03T08:00:00Z", tags["edited_at"])

	// 落库的日期保持 YYYY-MM-DD 原文,槽位查找仍命中
	stored, err := repo.FindBySlot(1, 1, "2025-09-01")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, "2025-09-01", stored.Date)
}

// TestReportRepository_AppendRevisionHandlesGarbageTags 既有 tags 非法时按空对象处理
func TestReportRepository_AppendRevisionHandlesGarbageTags(t *testing.T) {
	db := setupReportTestDB(t)
	repo := repository.NewReportRepository(db)

	_, err := repo.Upsert(1, 1, "2025-09-01", "original", "", "not-json")
	require.NoError(t, err)

	merged, err := repo.AppendRevision(1, 1, "2025-09-01", "revised", "", "2025-09-02T10:00:00Z")
	require.NoError(t, err)

	tags := decodeTags(t, merged.TagsJSON)
	assert.Equal(t, true, tags["edited"])
	assert.Len(t, tags, 2)
}

// TestReportRepository_ListForUser 测试个人日报查询与过滤
func TestReportRepository_ListForUser(t *testing.T) {
	db := setupReportTestDB(t)
	repo := repository.NewReportRepository(db)

	_, err := repo.Upsert(1, 1, "2025-09-01", "worked on parser", "compiler", "")
	require.NoError(t, err)
	_, err = repo.Upsert(1, 1, "2025-09-02", "worked on docs", "website", "")
	require.NoError(t, err)
	_, err = repo.Upsert(2, 1, "2025-09-01", "other user", "", "")
	require.NoError(t, err)

	// 时间段 + 新日期在前
	reports, err := repo.ListForUser(&repository.UserReportFilter{
		UserID: 1, Start: "2025-09-01", End: "2025-09-30",
	})
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, "2025-09-02", reports[0].Date)

	// 模糊匹配覆盖 content 与 project
	reports, err = repo.ListForUser(&repository.UserReportFilter{
		UserID: 1, Start: "2025-09-01", End: "2025-09-30", Query: "compiler",
	})
	require.NoError(t, err)
	require.Len(t, reports, 1)
	assert.Equal(t, "2025-09-01", reports[0].Date)
}

// TestReportRepository_MissingForDepartmentAndDate 测试缺报集合差
func TestReportRepository_MissingForDepartmentAndDate(t *testing.T) {
	db := setupReportTestDB(t)
	repo := repository.NewReportRepository(db)

	now := time.Now().UTC()
	users := []model.UserModel{
		{ID: 1, Username: "alice", PasswordHash: "x", FullName: "Alice", Role: "user", CreatedAt: now},
		{ID: 2, Username: "bob", PasswordHash: "x", FullName: "Bob", Role: "user", CreatedAt: now},
		{ID: 3, Username: "carol", PasswordHash: "x", FullName: "Carol", Role: "user", CreatedAt: now},
	}
	require.NoError(t, db.Create(&users).Error)

	memberships := []model.UserDepartmentModel{
		{UserID: 1, DepartmentID: 1, CreatedAt: now},
		{UserID: 2, DepartmentID: 1, CreatedAt: now},
		{UserID: 3, DepartmentID: 1, CreatedAt: now},
		{UserID: 2, DepartmentID: 2, CreatedAt: now},
	}
	require.NoError(t, db.Create(&memberships).Error)

	// alice 在部门 1 提交;bob 同一天只在部门 2 提交,不算数
	_, err := repo.Upsert(1, 1, "2025-09-01", "done", "", "")
	require.NoError(t, err)
	_, err = repo.Upsert(2, 2, "2025-09-01", "elsewhere", "", "")
	require.NoError(t, err)

	missing, err := repo.MissingForDepartmentAndDate(1, "2025-09-01")
	require.NoError(t, err)
	require.Len(t, missing, 2)
	assert.Equal(t, "Bob", missing[0].FullName)
	assert.Equal(t, "Carol", missing[1].FullName)
}

// TestReportRepository_MissingEmptyDepartment 空部门没有缺报名单
func TestReportRepository_MissingEmptyDepartment(t *testing.T) {
	db := setupReportTestDB(t)
	repo := repository.NewReportRepository(db)

	missing, err := repo.MissingForDepartmentAndDate(99, "2025-09-01")
	require.NoError(t, err)
	assert.Empty(t, missing)
}
