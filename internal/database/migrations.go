package database

import (
	"fmt"
	"time"

	"github.com/dogukanveziroglu/DailyReporter/internal/model"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 迁移步骤 key,日期前缀保证台账内可读可排查
const (
	MigrationKeyMultiDept         = "2025-09-02_multi_department_reports"
	MigrationKeyBackfillUserDepts = "2025-09-02_backfill_user_departments"
)

// migrationStep 具名迁移步骤
// Run 必须自身幂等:台账未标记但结构已变更时重入不得破坏数据
type migrationStep struct {
	Key string
	Run func(tx *gorm.DB) error
}

// migrationSteps 固定顺序执行,后面的步骤依赖前面步骤的后置条件
var migrationSteps = []migrationStep{
	{Key: MigrationKeyMultiDept, Run: applyMultiDepartmentReports},
	{Key: MigrationKeyBackfillUserDepts, Run: backfillUserDepartments},
}

// Outcome 启动迁移结果
// 失败的步骤不写台账,下次启动会整体重试
type Outcome struct {
	Applied []string // 本次执行完成的步骤
	Skipped []string // 台账中已标记的步骤
	Err     error    // 首个失败步骤的错误
}

// ensureLedger 创建迁移台账表,可无条件重复调用
func ensureLedger(db *gorm.DB) error {
	if db.Migrator().HasTable(&model.SchemaMigrationModel{}) {
		return nil
	}
	return db.Migrator().CreateTable(&model.SchemaMigrationModel{})
}

// isApplied 查询步骤是否已执行
func isApplied(db *gorm.DB, key string) (bool, error) {
	var count int64
	err := db.Model(&model.SchemaMigrationModel{}).Where("key = ?", key).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// markApplied 标记步骤完成,重复标记为无操作
func markApplied(tx *gorm.DB, key string) error {
	record := model.SchemaMigrationModel{Key: key, AppliedAt: time.Now().UTC()}
	return tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error
}

// RunMigrations 按固定顺序执行未完成的迁移步骤
// 每个步骤与其台账标记在同一事务中提交:崩溃要么全部生效要么全部回滚
func RunMigrations(db *gorm.DB) Outcome {
	var out Outcome

	if err := ensureLedger(db); err != nil {
		out.Err = fmt.Errorf("failed to ensure migration ledger: %w", err)
		return out
	}

	for _, step := range migrationSteps {
		applied, err := isApplied(db, step.Key)
		if err != nil {
			out.Err = fmt.Errorf("failed to query migration ledger: %w", err)
			return out
		}
		if applied {
			out.Skipped = append(out.Skipped, step.Key)
			continue
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			if err := step.Run(tx); err != nil {
				return err
			}
			return markApplied(tx, step.Key)
		})
		if err != nil {
			// 后续步骤依赖本步骤的后置条件,失败即中止
			out.Err = fmt.Errorf("migration %s failed: %w", step.Key, err)
			return out
		}
		out.Applied = append(out.Applied, step.Key)
	}

	return out
}

// EnsureSchemaUpToDate 启动迁移入口,绝不向调用方抛出错误
// 迁移失败只记录日志,应用继续启动;未标记的步骤下次启动重试
func EnsureSchemaUpToDate(db *gorm.DB, logger *logrus.Logger) Outcome {
	out := RunMigrations(db)

	if logger != nil {
		entry := logger.WithFields(logrus.Fields{
			"applied": out.Applied,
			"skipped": out.Skipped,
		})
		if out.Err != nil {
			entry.WithError(out.Err).Error("schema migration failed; continuing with current schema")
		} else if len(out.Applied) > 0 {
			entry.Info("schema migrations applied")
		} else {
			entry.Debug("schema up to date")
		}
	}

	return out
}

// applyMultiDepartmentReports 引入多部门日报
//  1. user_departments 关联表不存在则创建
//  2. reports 已有 department_id 列则跳过(结构已是新代)
//  3. 否则重建 reports:唯一约束从 (user_id, date) 扩展为
//     (user_id, department_id, date),旧行按
//     用户旧版单部门列 > 首条关联记录 > 默认部门 选择归属
func applyMultiDepartmentReports(tx *gorm.DB) error {
	// 1) user_departments
	if !tx.Migrator().HasTable(&model.UserDepartmentModel{}) {
		if err := tx.Migrator().CreateTable(&model.UserDepartmentModel{}); err != nil {
			return fmt.Errorf("failed to create user_departments: %w", err)
		}
	}

	// 全新安装:没有 reports 表,后续 AutoMigrate 直接创建新代结构
	if !tx.Migrator().HasTable("reports") {
		return nil
	}

	// 2) 结构检查,不能只看台账
	if tx.Migrator().HasColumn(&model.ReportModel{}, "department_id") {
		return nil
	}

	// 默认部门(没有任何部门时创建)
	defaultDeptID, err := pickDefaultDepartment(tx)
	if err != nil {
		return err
	}

	// 3) 旧表挪开,建新表,搬数据,删旧表
	if err := tx.Migrator().RenameTable("reports", "reports_old"); err != nil {
		return fmt.Errorf("failed to rename reports: %w", err)
	}
	if err := tx.Migrator().CreateTable(&model.ReportModel{}); err != nil {
		return fmt.Errorf("failed to create new reports table: %w", err)
	}

	copySQL := `
		INSERT INTO reports (id, user_id, department_id, date, content, project, tags_json, created_at, updated_at)
		SELECT r.id,
		       r.user_id,
		       COALESCE(
		           u.department_id,
		           (SELECT ud.department_id FROM user_departments ud WHERE ud.user_id = r.user_id LIMIT 1),
		           ?
		       ),
		       r.date, r.content, r.project, r.tags_json, r.created_at, r.updated_at
		FROM reports_old r
		LEFT JOIN users u ON u.id = r.user_id`
	if err := tx.Exec(copySQL, defaultDeptID).Error; err != nil {
		return fmt.Errorf("failed to copy report rows: %w", err)
	}

	if err := tx.Migrator().DropTable("reports_old"); err != nil {
		return fmt.Errorf("failed to drop reports_old: %w", err)
	}

	return nil
}

// pickDefaultDepartment 选取迁移用默认部门,没有则创建
func pickDefaultDepartment(tx *gorm.DB) (uint, error) {
	if !tx.Migrator().HasTable(&model.DepartmentModel{}) {
		if err := tx.Migrator().CreateTable(&model.DepartmentModel{}); err != nil {
			return 0, fmt.Errorf("failed to create departments: %w", err)
		}
	}

	var dept model.DepartmentModel
	err := tx.Order("id").First(&dept).Error
	if err == nil {
		return dept.ID, nil
	}
	if err != gorm.ErrRecordNotFound {
		return 0, fmt.Errorf("failed to query departments: %w", err)
	}

	dept = model.DepartmentModel{Name: "General", CreatedAt: time.Now().UTC()}
	if err := tx.Create(&dept).Error; err != nil {
		return 0, fmt.Errorf("failed to create default department: %w", err)
	}
	return dept.ID, nil
}

// backfillUserDepartments 将旧版 users.department_id 回填到关联表
// 已存在的 (user_id, department_id) 记录跳过,不报错
func backfillUserDepartments(tx *gorm.DB) error {
	if !tx.Migrator().HasTable("users") || !tx.Migrator().HasColumn(&model.UserModel{}, "department_id") {
		return nil
	}

	var users []model.UserModel
	if err := tx.Where("department_id IS NOT NULL").Find(&users).Error; err != nil {
		return fmt.Errorf("failed to load legacy assignments: %w", err)
	}
	if len(users) == 0 {
		return nil
	}

	memberships := make([]model.UserDepartmentModel, 0, len(users))
	now := time.Now().UTC()
	for _, u := range users {
		memberships = append(memberships, model.UserDepartmentModel{
			UserID:       u.ID,
			DepartmentID: *u.DepartmentID,
			CreatedAt:    now,
		})
	}

	err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&memberships).Error
	if err != nil {
		return fmt.Errorf("failed to backfill user_departments: %w", err)
	}
	return nil
}
