package repository

import (
	"errors"
	"time"

	"github.com/dogukanveziroglu/DailyReporter/internal/model"
	"gorm.io/gorm"
)

// DepartmentRepository 部门仓储接口
type DepartmentRepository interface {
	Create(department *model.DepartmentModel) error
	FindByID(id uint) (*model.DepartmentModel, error)
	List() ([]*model.DepartmentModel, error)
	Delete(id uint) error
}

// departmentRepository 部门仓储实现
type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository 创建部门仓储
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

// Create 创建部门
func (r *departmentRepository) Create(department *model.DepartmentModel) error {
	if department.CreatedAt.IsZero() {
		department.CreatedAt = time.Now().UTC()
	}
	return r.db.Create(department).Error
}

// FindByID 根据 ID 查找部门,不存在返回 nil
func (r *departmentRepository) FindByID(id uint) (*model.DepartmentModel, error) {
	var department model.DepartmentModel
	if err := r.db.Where("id = ?", id).First(&department).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &department, nil
}

// List 查找所有部门,按名称排序
func (r *departmentRepository) List() ([]*model.DepartmentModel, error) {
	var departments []*model.DepartmentModel
	err := r.db.Order("name ASC").Find(&departments).Error
	return departments, err
}

// Delete 删除部门
func (r *departmentRepository) Delete(id uint) error {
	result := r.db.Where("id = ?", id).Delete(&model.DepartmentModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// TeamRepository 团队仓储接口
type TeamRepository interface {
	Create(team *model.TeamModel) error
	FindByID(id uint) (*model.TeamModel, error)
	List() ([]*model.TeamModel, error)
	Delete(id uint) error
}

// teamRepository 团队仓储实现
type teamRepository struct {
	db *gorm.DB
}

// NewTeamRepository 创建团队仓储
func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

// Create 创建团队
func (r *teamRepository) Create(team *model.TeamModel) error {
	if team.CreatedAt.IsZero() {
		team.CreatedAt = time.Now().UTC()
	}
	return r.db.Create(team).Error
}

// FindByID 根据 ID 查找团队,不存在返回 nil
func (r *teamRepository) FindByID(id uint) (*model.TeamModel, error) {
	var team model.TeamModel
	if err := r.db.Where("id = ?", id).First(&team).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &team, nil
}

// List 查找所有团队,按名称排序
func (r *teamRepository) List() ([]*model.TeamModel, error) {
	var teams []*model.TeamModel
	err := r.db.Order("name ASC").Find(&teams).Error
	return teams, err
}

// Delete 删除团队
func (r *teamRepository) Delete(id uint) error {
	result := r.db.Where("id = ?", id).Delete(&model.TeamModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
