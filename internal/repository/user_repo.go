package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/fyerfyer/study-planner/internal/database"
	"github.com/fyerfyer/study-planner/internal/models"
)

// userRepository 用户仓储实现
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 使用全局数据库连接创建用户仓储
func NewUserRepository() UserRepository {
	return &userRepository{db: database.MustDB()}
}

// NewUserRepositoryWithDB 使用指定的数据库连接创建用户仓储
func NewUserRepositoryWithDB(db *gorm.DB) UserRepository {
	if db == nil {
		db = database.MustDB()
	}
	return &userRepository{db: db}
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, u *models.User) error {
	if u.Username == "" {
		return errors.New("username cannot be empty")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.User{}).Where("username = ?", u.Username).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return models.ErrUserExists
		}
		return tx.Create(u).Error
	})
}

// GetByUsername 根据用户名获取用户
func (r *userRepository) GetByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	err := r.db.WithContext(ctx).Where("username = ?", username).First(&u).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
