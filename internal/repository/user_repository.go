package repository

import (
	"errors"
	"time"

	"github.com/dogukanveziroglu/DailyReporter/internal/model"
	"gorm.io/gorm"
)

// UserRepository 用户仓储接口
type UserRepository interface {
	Create(user *model.UserModel, departmentIDs []uint) error
	FindByID(id uint) (*model.UserModel, error)
	FindByUsername(username string) (*model.UserModel, error)
	List() ([]*model.UserModel, error)
	ListByTeam(teamID uint) ([]*model.UserModel, error)
	UpdateRoleTeam(userID uint, role string, teamID *uint) error
	UpdatePasswordHash(userID uint, hash string) error
	Delete(userID uint) error
	SetDepartments(userID uint, departmentIDs []uint) error
	DepartmentIDs(userID uint) ([]uint, error)
	ListDepartmentsForUser(userID uint) ([]*model.DepartmentModel, error)
	UserIDsInDepartment(departmentID uint) ([]uint, error)
}

// userRepository 用户仓储实现
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create 创建用户及其部门关联
func (r *userRepository) Create(user *model.UserModel, departmentIDs []uint) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		seen := make(map[uint]struct{}, len(departmentIDs))
		for _, did := range departmentIDs {
			if _, ok := seen[did]; ok {
				continue
			}
			seen[did] = struct{}{}
			membership := model.UserDepartmentModel{
				UserID:       user.ID,
				DepartmentID: did,
				CreatedAt:    time.Now().UTC(),
			}
			if err := tx.Create(&membership).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// FindByID 根据 ID 查找用户,不存在返回 nil
func (r *userRepository) FindByID(id uint) (*model.UserModel, error) {
	var user model.UserModel
	if err := r.db.Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// FindByUsername 根据用户名查找用户,不存在返回 nil
func (r *userRepository) FindByUsername(username string) (*model.UserModel, error) {
	var user model.UserModel
	if err := r.db.Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// List 查找所有用户
func (r *userRepository) List() ([]*model.UserModel, error) {
	var users []*model.UserModel
	err := r.db.Order("id ASC").Find(&users).Error
	return users, err
}

// ListByTeam 查找团队成员
func (r *userRepository) ListByTeam(teamID uint) ([]*model.UserModel, error) {
	var users []*model.UserModel
	err := r.db.Where("team_id = ?", teamID).
		Order("full_name ASC, username ASC").
		Find(&users).Error
	return users, err
}

// UpdateRoleTeam 更新用户角色与所属团队
func (r *userRepository) UpdateRoleTeam(userID uint, role string, teamID *uint) error {
	result := r.db.Model(&model.UserModel{}).Where("id = ?", userID).
		Updates(map[string]interface{}{"role": role, "team_id": teamID})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// UpdatePasswordHash 更新密码哈希
func (r *userRepository) UpdatePasswordHash(userID uint, hash string) error {
	result := r.db.Model(&model.UserModel{}).Where("id = ?", userID).
		Update("password_hash", hash)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Delete 删除用户
// 指向该用户的团队负责人引用先清空(引用仅作展示,不影响权限)
func (r *userRepository) Delete(userID uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&model.TeamModel{}).
			Where("lead_user_id = ?", userID).
			Update("lead_user_id", nil).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).
			Delete(&model.UserDepartmentModel{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", userID).Delete(&model.UserModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

// SetDepartments 全量同步用户的部门关联(补缺删多)
func (r *userRepository) SetDepartments(userID uint, departmentIDs []uint) error {
	target := make(map[uint]struct{}, len(departmentIDs))
	for _, did := range departmentIDs {
		target[did] = struct{}{}
	}

	return r.db.Transaction(func(tx *gorm.DB) error {
		var existing []model.UserDepartmentModel
		if err := tx.Where("user_id = ?", userID).Find(&existing).Error; err != nil {
			return err
		}
		current := make(map[uint]struct{}, len(existing))
		for _, m := range existing {
			current[m.DepartmentID] = struct{}{}
		}

		// 补缺
		for did := range target {
			if _, ok := current[did]; ok {
				continue
			}
			membership := model.UserDepartmentModel{
				UserID:       userID,
				DepartmentID: did,
				CreatedAt:    time.Now().UTC(),
			}
			if err := tx.Create(&membership).Error; err != nil {
				return err
			}
		}

		// 删多
		for did := range current {
			if _, ok := target[did]; ok {
				continue
			}
			if err := tx.Where("user_id = ? AND department_id = ?", userID, did).
				Delete(&model.UserDepartmentModel{}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// DepartmentIDs 用户所属部门 ID 列表
func (r *userRepository) DepartmentIDs(userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.UserDepartmentModel{}).
		Where("user_id = ?", userID).
		Pluck("department_id", &ids).Error
	return ids, err
}

// ListDepartmentsForUser 用户所属部门列表,按名称排序
func (r *userRepository) ListDepartmentsForUser(userID uint) ([]*model.DepartmentModel, error) {
	var departments []*model.DepartmentModel
	err := r.db.
		Joins("JOIN user_departments ON user_departments.department_id = departments.id").
		Where("user_departments.user_id = ?", userID).
		Order("departments.name ASC").
		Find(&departments).Error
	return departments, err
}

// UserIDsInDepartment 部门成员 ID 列表
func (r *userRepository) UserIDsInDepartment(departmentID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&model.UserDepartmentModel{}).
		Where("department_id = ?", departmentID).
		Pluck("user_id", &ids).Error
	return ids, err
}
