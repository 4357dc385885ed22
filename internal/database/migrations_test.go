package database_test

import (
	"testing"

	"github.com/dogukanveziroglu/DailyReporter/internal/database"
	"github.com/dogukanveziroglu/DailyReporter/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB 创建内存测试数据库
func openTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	return db
}

// seedLegacySchema 构造旧代数据库结构
// users 带单部门列,reports 没有 department_id,唯一约束为 (user_id, date)
func seedLegacySchema(t *testing.T, db *gorm.DB) {
	require.NoError(t, db.Exec(`CREATE TABLE departments (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		created_at DATETIME
	)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		full_name TEXT,
		role TEXT NOT NULL DEFAULT 'user',
		department_id INTEGER,
		team_id INTEGER,
		created_at DATETIME
	)`).Error)
	require.NoError(t, db.Exec(`CREATE TABLE reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		date TEXT NOT NULL,
		content TEXT NOT NULL,
		project TEXT,
		tags_json TEXT,
		created_at DATETIME,
		updated_at DATETIME,
		UNIQUE (user_id, date)
	)`).Error)

	require.NoError(t, db.Exec(`INSERT INTO departments (id, name) VALUES (1, 'Engineering'), (2, 'Sales')`).Error)
	require.NoError(t, db.Exec(`INSERT INTO users (id, username, password_hash, role, department_id)
		VALUES (1, 'alice', 'x', 'user', 2),
		       (2, 'bob', 'x', 'user', NULL)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO reports (id, user_id, date, content, created_at, updated_at)
		VALUES (10, 1, '2025-09-01', 'alice report', '2025-09-01 18:00:00', '2025-09-01 18:00:00'),
		       (11, 2, '2025-09-01', 'bob report', '2025-09-01 18:30:00', '2025-09-01 18:30:00')`).Error)
}

// TestRunMigrations_FreshInstall 全新安装:没有任何旧表
func TestRunMigrations_FreshInstall(t *testing.T) {
	db := openTestDB(t)

	out := database.RunMigrations(db)
	require.NoError(t, out.Err)
	assert.ElementsMatch(t, []string{
		database.MigrationKeyMultiDept,
		database.MigrationKeyBackfillUserDepts,
	}, out.Applied)
	assert.Empty(t, out.Skipped)

	// 全新安装不创建 reports,由 AutoMigrate 直接建新代结构
	assert.False(t, db.Migrator().HasTable("reports"))
	assert.True(t, db.Migrator().HasTable("user_departments"))
	assert.True(t, db.Migrator().HasTable("schema_migrations"))

	require.NoError(t, database.Migrate(db))
	assert.True(t, db.Migrator().HasTable("reports"))
	assert.True(t, db.Migrator().HasColumn(&model.ReportModel{}, "department_id"))
}

// TestRunMigrations_Idempotent 重复执行只读台账,不重做步骤
func TestRunMigrations_Idempotent(t *testing.T) {
	db := openTestDB(t)

	first := database.RunMigrations(db)
	require.NoError(t, first.Err)
	require.Len(t, first.Applied, 2)

	second := database.RunMigrations(db)
	require.NoError(t, second.Err)
	assert.Empty(t, second.Applied)
	assert.ElementsMatch(t, []string{
		database.MigrationKeyMultiDept,
		database.MigrationKeyBackfillUserDepts,
	}, second.Skipped)
}

// TestRunMigrations_LegacyUpgrade 旧代数据库升级
func TestRunMigrations_LegacyUpgrade(t *testing.T) {
	db := openTestDB(t)
	seedLegacySchema(t, db)

	out := database.RunMigrations(db)
	require.NoError(t, out.Err)
	require.Len(t, out.Applied, 2)

	// reports 已重建为带 department_id 的新代结构
	assert.True(t, db.Migrator().HasColumn(&model.ReportModel{}, "department_id"))
	assert.False(t, db.Migrator().HasTable("reports_old"))

	// 行数不丢
	var count int64
	require.NoError(t, db.Model(&model.ReportModel{}).Count(&count).Error)
	assert.Equal(t, int64(2), count)

	// alice 的日报归属旧版单部门列指向的部门
	var aliceReport model.ReportModel
	require.NoError(t, db.First(&aliceReport, 10).Error)
	assert.Equal(t, uint(2), aliceReport.DepartmentID)
	assert.Equal(t, "alice report", aliceReport.Content)

	// bob 没有任何归属,落到默认部门(按 id 最小)
	var bobReport model.ReportModel
	require.NoError(t, db.First(&bobReport, 11).Error)
	assert.Equal(t, uint(1), bobReport.DepartmentID)

	// 回填:每个带旧版部门列的用户得到一条关联记录
	var memberships []model.UserDepartmentModel
	require.NoError(t, db.Find(&memberships).Error)
	require.Len(t, memberships, 1)
	assert.Equal(t, uint(1), memberships[0].UserID)
	assert.Equal(t, uint(2), memberships[0].DepartmentID)
}

// TestRunMigrations_LegacyUpgradeIdempotent 升级后的库重复执行无副作用
func TestRunMigrations_LegacyUpgradeIdempotent(t *testing.T) {
	db := openTestDB(t)
	seedLegacySchema(t, db)

	require.NoError(t, database.RunMigrations(db).Err)

	out := database.RunMigrations(db)
	require.NoError(t, out.Err)
	assert.Empty(t, out.Applied)

	var reportCount, membershipCount int64
	require.NoError(t, db.Model(&model.ReportModel{}).Count(&reportCount).Error)
	require.NoError(t, db.Model(&model.UserDepartmentModel{}).Count(&membershipCount).Error)
	assert.Equal(t, int64(2), reportCount)
	assert.Equal(t, int64(1), membershipCount)
}

// TestEnsureSchemaUpToDate_FailedStepStaysUnmarked 失败步骤不写台账,下次启动重试
func TestEnsureSchemaUpToDate_FailedStepStaysUnmarked(t *testing.T) {
	db := openTestDB(t)

	// 构造必然失败的场景:旧代 reports 缺少搬迁需要的列
	require.NoError(t, db.Exec(`CREATE TABLE reports (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER NOT NULL,
		date TEXT NOT NULL
	)`).Error)
	require.NoError(t, db.Exec(`INSERT INTO reports (user_id, date) VALUES (1, '2025-09-01')`).Error)

	// 入口不 panic 不抛错,失败通过 Outcome 反馈
	out := database.EnsureSchemaUpToDate(db, nil)
	require.Error(t, out.Err)
	assert.Empty(t, out.Applied)

	// 失败的步骤不进台账
	var marked int64
	require.NoError(t, db.Model(&model.SchemaMigrationModel{}).Count(&marked).Error)
	assert.Zero(t, marked)

	// 步骤与台账标记同事务:失败回滚后旧表原样保留
	assert.True(t, db.Migrator().HasTable("reports"))
	assert.False(t, db.Migrator().HasTable("reports_old"))

	// 下次启动重试同一步骤,不会被当作已完成跳过
	retry := database.EnsureSchemaUpToDate(db, nil)
	require.Error(t, retry.Err)
	assert.NotContains(t, retry.Skipped, database.MigrationKeyMultiDept)
}

// TestDatabaseMigration 测试新代结构迁移建表
func TestDatabaseMigration(t *testing.T) {
	db := openTestDB(t)

	require.NoError(t, database.Migrate(db))

	requiredTables := []string{
		"departments",
		"teams",
		"users",
		"user_departments",
		"reports",
		"comments",
		"audit_logs",
	}
	for _, table := range requiredTables {
		assert.True(t, db.Migrator().HasTable(table), "Table %s should exist", table)
	}
}
