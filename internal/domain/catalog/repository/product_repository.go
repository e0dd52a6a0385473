package repository

import (
	"context"
	"ecommerce_api/internal/domain/catalog/model"
	"ecommerce_api/pkg/database"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// ProductRepository 商品存储
type ProductRepository interface {
	Create(ctx context.Context, product *model.Product) error
	GetByID(ctx context.Context, id string) (*model.Product, error)
	List(ctx context.Context) ([]model.Product, error)
	Update(ctx context.Context, product *model.Product) error
	Delete(ctx context.Context, id string) error
}

// NewProductRepository 按存储驱动选择实现
func NewProductRepository(db *gorm.DB, mdb *mongo.Database) ProductRepository {
	if mdb != nil {
		return NewMongoProductRepository(mdb)
	}
	return NewGormProductRepository(db)
}

type productRepository struct {
	db *gorm.DB
}

func NewGormProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	return database.Translate(r.db.WithContext(ctx).Create(product).Error)
}

func (r *productRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error; err != nil {
		return nil, database.Translate(err)
	}
	return &product, nil
}

func (r *productRepository) List(ctx context.Context) ([]model.Product, error) {
	products := make([]model.Product, 0)
	if err := r.db.WithContext(ctx).Order("created_at").Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Update 全量更新可编辑字段
func (r *productRepository) Update(ctx context.Context, product *model.Product) error {
	result := r.db.WithContext(ctx).Model(product).
		Select("name", "description", "price", "stock", "images", "category_id", "updated_at").
		Updates(product)
	if result.Error != nil {
		return database.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Product{})
	if result.Error != nil {
		return database.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}
