package repository

import (
	"context"
	"ecommerce_api/internal/domain/catalog/model"
	"ecommerce_api/pkg/database"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// CategoryRepository 分类存储
type CategoryRepository interface {
	Create(ctx context.Context, category *model.Category) error
	GetByID(ctx context.Context, id string) (*model.Category, error)
	List(ctx context.Context) ([]model.Category, error)
	Update(ctx context.Context, category *model.Category) error
	// Delete 删除分类及其下所有商品
	Delete(ctx context.Context, id string) error
}

// NewCategoryRepository 按存储驱动选择实现
func NewCategoryRepository(db *gorm.DB, mdb *mongo.Database) CategoryRepository {
	if mdb != nil {
		return NewMongoCategoryRepository(mdb)
	}
	return NewGormCategoryRepository(db)
}

type categoryRepository struct {
	db *gorm.DB
}

func NewGormCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepository{db: db}
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	return database.Translate(r.db.WithContext(ctx).Create(category).Error)
}

func (r *categoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	var category model.Category
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&category).Error; err != nil {
		return nil, database.Translate(err)
	}
	return &category, nil
}

func (r *categoryRepository) List(ctx context.Context) ([]model.Category, error) {
	categories := make([]model.Category, 0)
	if err := r.db.WithContext(ctx).Order("created_at").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *categoryRepository) Update(ctx context.Context, category *model.Category) error {
	result := r.db.WithContext(ctx).Model(category).
		Select("name", "description", "updated_at").
		Updates(category)
	if result.Error != nil {
		return database.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("category_id = ?", id).Delete(&model.Product{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&model.Category{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return database.ErrNotFound
		}
		return nil
	})
	return database.Translate(err)
}
