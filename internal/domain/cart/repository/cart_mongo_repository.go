package repository

import (
	"context"
	"ecommerce_api/internal/domain/cart/model"
	"ecommerce_api/pkg/database"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoIndexes 购物车集合索引
var MongoIndexes = []database.IndexSpec{
	{Collection: model.CartCollection, Keys: bson.D{{Key: "user_id", Value: 1}}, Unique: true},
}

type mongoCartRepository struct {
	coll *mongo.Collection
}

func NewMongoCartRepository(db *mongo.Database) CartRepository {
	return &mongoCartRepository{coll: db.Collection(model.CartCollection)}
}

func (r *mongoCartRepository) Create(ctx context.Context, cart *model.Cart) error {
	cart.Touch(time.Now().UTC())
	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}
	_, err := r.coll.InsertOne(ctx, cart)
	return database.Translate(err)
}

func (r *mongoCartRepository) GetByUser(ctx context.Context, userID string) (*model.Cart, error) {
	var cart model.Cart
	if err := r.coll.FindOne(ctx, bson.M{"user_id": userID}).Decode(&cart); err != nil {
		return nil, database.Translate(err)
	}
	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}
	return &cart, nil
}

func (r *mongoCartRepository) Update(ctx context.Context, cart *model.Cart) error {
	cart.Touch(time.Now().UTC())
	if cart.Items == nil {
		cart.Items = []model.CartItem{}
	}
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": cart.ID}, bson.M{"$set": bson.M{
		"items":      cart.Items,
		"updated_at": cart.UpdatedAt,
	}})
	if err != nil {
		return database.Translate(err)
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}
