package repository

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/dogukanveziroglu/DailyReporter/internal/model"
	"gorm.io/gorm"
)

// ReportRepository 日报仓储接口
// 负责维护 (user_id, department_id, date) 槽位唯一性
type ReportRepository interface {
	FindByID(id uint) (*model.ReportModel, error)
	FindBySlot(userID, departmentID uint, date string) (*model.ReportModel, error)
	Upsert(userID, departmentID uint, date, content, project, tagsJSON string) (*model.ReportModel, error)
	AppendRevision(userID, departmentID uint, date, content, project, editedAt string) (*model.ReportModel, error)
	ListForUser(filter *UserReportFilter) ([]*model.ReportModel, error)
	ListForDepartmentAndDate(departmentID uint, date string) ([]*model.ReportModel, error)
	ListForUsers(userIDs []uint, start, end, query string) ([]*model.ReportModel, error)
	MissingForDepartmentAndDate(departmentID uint, date string) ([]*model.UserModel, error)
}

// UserReportFilter 个人日报查询过滤器
type UserReportFilter struct {
	UserID       uint
	Start        string // YYYY-MM-DD,含
	End          string // YYYY-MM-DD,含
	Query        string // 内容/项目模糊匹配(可选)
	DepartmentID *uint  // 部门过滤(可选)
}

// reportRepository 日报仓储实现
type reportRepository struct {
	db *gorm.DB
}

// NewReportRepository 创建日报仓储
func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// FindByID 根据 ID 查找日报,不存在返回 nil
func (r *reportRepository) FindByID(id uint) (*model.ReportModel, error) {
	var report model.ReportModel
	if err := r.db.Where("id = ?", id).First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

// FindBySlot 按槽位精确查找日报,不存在返回 nil
func (r *reportRepository) FindBySlot(userID, departmentID uint, date string) (*model.ReportModel, error) {
	var report model.ReportModel
	err := r.db.Where("user_id = ? AND department_id = ? AND date = ?", userID, departmentID, date).
		First(&report).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &report, nil
}

// Upsert 保存槽位日报:已存在则就地覆盖,否则新建
// 覆盖路径为 last-write-wins,不检测丢失更新
func (r *reportRepository) Upsert(userID, departmentID uint, date, content, project, tagsJSON string) (*model.ReportModel, error) {
	existing, err := r.FindBySlot(userID, departmentID, date)
	if err != nil {
		return nil, err
	}

	if existing != nil {
		existing.Content = content
		existing.Project = project
		existing.TagsJSON = tagsJSON
		existing.UpdatedAt = time.Now().UTC()
		// 只更新可变列,槽位键列 (user_id, department_id, date) 永不回写
		err := r.db.Model(existing).
			Select("content", "project", "tags_json", "updated_at").
			Updates(existing).Error
		if err != nil {
			return nil, err
		}
		return existing, nil
	}

	now := time.Now().UTC()
	report := model.ReportModel{
		UserID:       userID,
		DepartmentID: departmentID,
		Date:         date,
		Content:      content,
		Project:      project,
		TagsJSON:     tagsJSON,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := r.db.Create(&report).Error; err != nil {
		return nil, err
	}
	return &report, nil
}

// AppendRevision 补录修订:先尝试插入带编辑标记的新行,
// 撞上槽位唯一约束时改为合并进已有行
//
// 先插入再按冲突合并(而不是先查再分支)是有意为之:
// 唯一约束是"一槽一报"的唯一并发正确性来源,两个写者竞争同一槽位时
// 失败方的插入被数据库拒绝,随后并入胜利方的行,不需要应用层加锁
func (r *reportRepository) AppendRevision(userID, departmentID uint, date, content, project, editedAt string) (*model.ReportModel, error) {
	now := time.Now().UTC()
	attempt := model.ReportModel{
		UserID:       userID,
		DepartmentID: departmentID,
		Date:         date,
		Content:      content,
		Project:      project,
		TagsJSON:     mergeEditedTags("", editedAt),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err := r.db.Create(&attempt).Error
	if err == nil {
		return &attempt, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		// 唯一约束冲突之外的错误一律上抛
		return nil, err
	}

	// 冲突是预期情况:槽位已有行,重新读取后合并
	existing, err := r.FindBySlot(userID, departmentID, date)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		// 冲突行在两次操作之间被删除,极端竞态,按原错误上抛
		return nil, gorm.ErrDuplicatedKey
	}

	existing.Content = content
	existing.Project = project
	existing.TagsJSON = mergeEditedTags(existing.TagsJSON, editedAt)
	existing.UpdatedAt = time.Now().UTC()
	// 同上,槽位键列不回写
	err = r.db.Model(existing).
		Select("content", "project", "tags_json", "updated_at").
		Updates(existing).Error
	if err != nil {
		return nil, err
	}
	return existing, nil
}

// mergeEditedTags 将编辑标记并入既有 tags JSON
// 既有值缺失或不是 JSON 对象时按空对象处理,其余键原样保留
func mergeEditedTags(existingJSON, editedAt string) string {
	tags := map[string]interface{}{}
	if existingJSON != "" {
		if err := json.Unmarshal([]byte(existingJSON), &tags); err != nil {
			tags = map[string]interface{}{}
		}
	}
	tags["edited"] = true
	tags["edited_at"] = editedAt

	data, err := json.Marshal(tags)
	if err != nil {
		// map[string]interface{} 里只有可序列化值,不会走到这里
		return `{"edited":true}`
	}
	return string(data)
}

// ListForUser 查询用户一段时间内的日报,新日期在前
func (r *reportRepository) ListForUser(filter *UserReportFilter) ([]*model.ReportModel, error) {
	var reports []*model.ReportModel
	query := r.db.Where("user_id = ? AND date >= ? AND date <= ?", filter.UserID, filter.Start, filter.End)

	if filter.DepartmentID != nil {
		query = query.Where("department_id = ?", *filter.DepartmentID)
	}
	if filter.Query != "" {
		like := "%" + filter.Query + "%"
		query = query.Where("content LIKE ? OR project LIKE ?", like, like)
	}

	err := query.Order("date DESC, id DESC").Find(&reports).Error
	return reports, err
}

// ListForDepartmentAndDate 查询部门某天的全部日报,按创建时间升序
func (r *reportRepository) ListForDepartmentAndDate(departmentID uint, date string) ([]*model.ReportModel, error) {
	var reports []*model.ReportModel
	err := r.db.Where("department_id = ? AND date = ?", departmentID, date).
		Order("created_at ASC, id ASC").
		Find(&reports).Error
	return reports, err
}

// ListForUsers 查询一组用户在时间段内的日报
func (r *reportRepository) ListForUsers(userIDs []uint, start, end, query string) ([]*model.ReportModel, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var reports []*model.ReportModel
	q := r.db.Where("user_id IN ? AND date >= ? AND date <= ?", userIDs, start, end)
	if query != "" {
		like := "%" + query + "%"
		q = q.Where("content LIKE ? OR project LIKE ?", like, like)
	}
	err := q.Order("date DESC, id DESC").Find(&reports).Error
	return reports, err
}

// MissingForDepartmentAndDate 部门成员中当天未在该部门提交日报的用户
// 集合差按部门精确计算:同一天写在其他部门的日报不算数
func (r *reportRepository) MissingForDepartmentAndDate(departmentID uint, date string) ([]*model.UserModel, error) {
	var memberIDs []uint
	err := r.db.Model(&model.UserDepartmentModel{}).
		Where("department_id = ?", departmentID).
		Pluck("user_id", &memberIDs).Error
	if err != nil {
		return nil, err
	}
	if len(memberIDs) == 0 {
		return nil, nil
	}

	var reportedIDs []uint
	err = r.db.Model(&model.ReportModel{}).
		Where("department_id = ? AND date = ? AND user_id IN ?", departmentID, date, memberIDs).
		Pluck("user_id", &reportedIDs).Error
	if err != nil {
		return nil, err
	}

	reported := make(map[uint]struct{}, len(reportedIDs))
	for _, id := range reportedIDs {
		reported[id] = struct{}{}
	}
	missingIDs := make([]uint, 0, len(memberIDs))
	for _, id := range memberIDs {
		if _, ok := reported[id]; !ok {
			missingIDs = append(missingIDs, id)
		}
	}
	if len(missingIDs) == 0 {
		return nil, nil
	}

	var users []*model.UserModel
	err = r.db.Where("id IN ?", missingIDs).
		Order("full_name ASC, username ASC").
		Find(&users).Error
	return users, err
}
