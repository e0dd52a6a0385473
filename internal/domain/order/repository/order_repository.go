package repository

import (
	"context"
	"ecommerce_api/internal/domain/order/model"
	"ecommerce_api/pkg/database"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// OrderRepository 订单存储
type OrderRepository interface {
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id string) (*model.Order, error)
	// ListByUser 按创建时间倒序分页
	ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.Order, int64, error)
	// ListUpdatedSince 通知任务使用
	ListUpdatedSince(ctx context.Context, since time.Time) ([]model.Order, error)
	// Update 覆盖状态与总价
	Update(ctx context.Context, order *model.Order) error
	Delete(ctx context.Context, id string) error
}

// NewOrderRepository 按存储驱动选择实现
func NewOrderRepository(db *gorm.DB, mdb *mongo.Database) OrderRepository {
	if mdb != nil {
		return NewMongoOrderRepository(mdb)
	}
	return NewGormOrderRepository(db)
}

type orderRepository struct {
	db *gorm.DB
}

func NewGormOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	return database.Translate(r.db.WithContext(ctx).Create(order).Error)
}

func (r *orderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&order).Error; err != nil {
		return nil, database.Translate(err)
	}
	return &order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.Order, int64, error) {
	var total int64
	db := r.db.WithContext(ctx)
	if err := db.Model(&model.Order{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	orders := make([]model.Order, 0)
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error
	if err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *orderRepository) ListUpdatedSince(ctx context.Context, since time.Time) ([]model.Order, error) {
	orders := make([]model.Order, 0)
	err := r.db.WithContext(ctx).
		Where("updated_at >= ?", since).
		Order("updated_at").
		Find(&orders).Error
	if err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *orderRepository) Update(ctx context.Context, order *model.Order) error {
	result := r.db.WithContext(ctx).Model(order).
		Select("status", "total_price", "updated_at").
		Updates(order)
	if result.Error != nil {
		return database.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *orderRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Order{})
	if result.Error != nil {
		return database.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}
