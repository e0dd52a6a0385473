package repository

import (
	"context"
	"ecommerce_api/internal/domain/user/model"
	"ecommerce_api/pkg/database"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// UserRepository 接口定义
type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// NewUserRepository 按存储驱动选择实现
func NewUserRepository(db *gorm.DB, mdb *mongo.Database) UserRepository {
	if mdb != nil {
		return NewMongoUserRepository(mdb)
	}
	return NewGormUserRepository(db)
}

// userRepository gorm 实现
type userRepository struct {
	db *gorm.DB
}

// NewGormUserRepository 创建新的仓库实例
func NewGormUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// Create 创建用户，邮箱重复返回 database.ErrDuplicate
func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return database.Translate(r.db.WithContext(ctx).Create(user).Error)
}

// GetByID 根据ID获取用户
func (r *userRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, database.Translate(err)
	}
	return &user, nil
}

// GetByEmail 根据邮箱获取用户
func (r *userRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, database.Translate(err)
	}
	return &user, nil
}
