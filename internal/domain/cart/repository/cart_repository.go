package repository

import (
	"context"
	"ecommerce_api/internal/domain/cart/model"
	"ecommerce_api/pkg/database"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// CartRepository 购物车存储，user_id 唯一
type CartRepository interface {
	Create(ctx context.Context, cart *model.Cart) error
	GetByUser(ctx context.Context, userID string) (*model.Cart, error)
	// Update 覆盖商品行
	Update(ctx context.Context, cart *model.Cart) error
}

// NewCartRepository 按存储驱动选择实现
func NewCartRepository(db *gorm.DB, mdb *mongo.Database) CartRepository {
	if mdb != nil {
		return NewMongoCartRepository(mdb)
	}
	return NewGormCartRepository(db)
}

type cartRepository struct {
	db *gorm.DB
}

func NewGormCartRepository(db *gorm.DB) CartRepository {
	return &cartRepository{db: db}
}

func (r *cartRepository) Create(ctx context.Context, cart *model.Cart) error {
	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}
	return database.Translate(r.db.WithContext(ctx).Create(cart).Error)
}

func (r *cartRepository) GetByUser(ctx context.Context, userID string) (*model.Cart, error) {
	var cart model.Cart
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, database.Translate(err)
	}
	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}
	return &cart, nil
}

func (r *cartRepository) Update(ctx context.Context, cart *model.Cart) error {
	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}
	result := r.db.WithContext(ctx).Model(cart).
		Select("items", "updated_at").
		Updates(cart)
	if result.Error != nil {
		return database.Translate(result.Error)
	}
	if result.RowsAffected == 0 {
		return database.ErrNotFound
	}
	return nil
}
