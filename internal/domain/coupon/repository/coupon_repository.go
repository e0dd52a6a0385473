package repository

import (
	"context"
	"ecommerce_api/internal/domain/coupon/model"
	"ecommerce_api/pkg/database"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"gorm.io/gorm"
)

// CouponRepository 优惠券存储，code 唯一
type CouponRepository interface {
	Create(ctx context.Context, coupon *model.Coupon) error
	GetByCode(ctx context.Context, code string) (*model.Coupon, error)
	List(ctx context.Context) ([]model.Coupon, error)
}

// MongoIndexes 优惠券集合索引
var MongoIndexes = []database.IndexSpec{
	{Collection: model.CouponCollection, Keys: bson.D{{Key: "code", Value: 1}}, Unique: true},
}

// NewCouponRepository 按存储驱动选择实现
func NewCouponRepository(db *gorm.DB, mdb *mongo.Database) CouponRepository {
	if mdb != nil {
		return NewMongoCouponRepository(mdb)
	}
	return NewGormCouponRepository(db)
}

type couponRepository struct {
	db *gorm.DB
}

func NewGormCouponRepository(db *gorm.DB) CouponRepository {
	return &couponRepository{db: db}
}

func (r *couponRepository) Create(ctx context.Context, coupon *model.Coupon) error {
	return database.Translate(r.db.WithContext(ctx).Create(coupon).Error)
}

func (r *couponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&coupon).Error; err != nil {
		return nil, database.Translate(err)
	}
	return &coupon, nil
}

func (r *couponRepository) List(ctx context.Context) ([]model.Coupon, error) {
	coupons := make([]model.Coupon, 0)
	if err := r.db.WithContext(ctx).Order("created_at").Find(&coupons).Error; err != nil {
		return nil, err
	}
	return coupons, nil
}

type mongoCouponRepository struct {
	coll *mongo.Collection
}

func NewMongoCouponRepository(db *mongo.Database) CouponRepository {
	return &mongoCouponRepository{coll: db.Collection(model.CouponCollection)}
}

func (r *mongoCouponRepository) Create(ctx context.Context, coupon *model.Coupon) error {
	coupon.Touch(time.Now().UTC())
	_, err := r.coll.InsertOne(ctx, coupon)
	return database.Translate(err)
}

func (r *mongoCouponRepository) GetByCode(ctx context.Context, code string) (*model.Coupon, error) {
	var coupon model.Coupon
	if err := r.coll.FindOne(ctx, bson.M{"code": code}).Decode(&coupon); err != nil {
		return nil, database.Translate(err)
	}
	return &coupon, nil
}

func (r *mongoCouponRepository) List(ctx context.Context) ([]model.Coupon, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}}))
	if err != nil {
		return nil, err
	}
	coupons := make([]model.Coupon, 0)
	if err := cur.All(ctx, &coupons); err != nil {
		return nil, err
	}
	return coupons, nil
}
