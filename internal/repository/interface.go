package repository

import (
	"context"

	"github.com/fyerfyer/study-planner/internal/models"
)

// MaterialRepository 学习资料仓储接口
// 负责资料元数据和处理结果的存储与检索
type MaterialRepository interface {
	// Put 保存资料记录，已存在时覆盖
	Put(ctx context.Context, m *models.Material) error

	// Get 根据ID获取资料
	Get(ctx context.Context, id string) (*models.Material, error)

	// ListByOwner 按创建时间倒序列出用户的资料
	ListByOwner(ctx context.Context, owner string) ([]*models.Material, error)

	// Delete 删除资料
	Delete(ctx context.Context, id string) error
}

// UserRepository 用户仓储接口
type UserRepository interface {
	// Create 创建用户，用户名重复时返回 models.ErrUserExists
	Create(ctx context.Context, u *models.User) error

	// GetByUsername 根据用户名获取用户
	GetByUsername(ctx context.Context, username string) (*models.User, error)
}
