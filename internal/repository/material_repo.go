package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fyerfyer/study-planner/internal/database"
	"github.com/fyerfyer/study-planner/internal/models"
)

// materialRepository 学习资料仓储实现
type materialRepository struct {
	db *gorm.DB // 数据库连接
}

// NewMaterialRepository 使用全局数据库连接创建资料仓储
func NewMaterialRepository() MaterialRepository {
	return &materialRepository{db: database.MustDB()}
}

// NewMaterialRepositoryWithDB 使用指定的数据库连接创建资料仓储
func NewMaterialRepositoryWithDB(db *gorm.DB) MaterialRepository {
	if db == nil {
		db = database.MustDB()
	}
	return &materialRepository{db: db}
}

// Put 保存资料记录
func (r *materialRepository) Put(ctx context.Context, m *models.Material) error {
	if m.ID == "" {
		return errors.New("material ID cannot be empty")
	}
	return r.db.WithContext(ctx).Save(m).Error
}

// Get 根据ID获取资料
func (r *materialRepository) Get(ctx context.Context, id string) (*models.Material, error) {
	var m models.Material
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrMaterialNotFound
		}
		return nil, err
	}
	return &m, nil
}

// ListByOwner 列出用户的资料，最新的在前
func (r *materialRepository) ListByOwner(ctx context.Context, owner string) ([]*models.Material, error) {
	var list []*models.Material
	err := r.db.WithContext(ctx).
		Where("owner = ?", owner).
		Order("created_at DESC").
		Find(&list).Error
	if err != nil {
		return nil, err
	}
	return list, nil
}

// Delete 删除资料
func (r *materialRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Material{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrMaterialNotFound
	}
	return nil
}
