package repository

import (
	"context"
	"ecommerce_api/internal/domain/order/model"
	"ecommerce_api/pkg/database"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoIndexes 订单集合索引
var MongoIndexes = []database.IndexSpec{
	{Collection: model.OrderCollection, Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}}},
	{Collection: model.OrderCollection, Keys: bson.D{{Key: "updated_at", Value: 1}}},
}

type mongoOrderRepository struct {
	coll *mongo.Collection
}

func NewMongoOrderRepository(db *mongo.Database) OrderRepository {
	return &mongoOrderRepository{coll: db.Collection(model.OrderCollection)}
}

func (r *mongoOrderRepository) Create(ctx context.Context, order *model.Order) error {
	order.Touch(time.Now().UTC())
	_, err := r.coll.InsertOne(ctx, order)
	return database.Translate(err)
}

func (r *mongoOrderRepository) GetByID(ctx context.Context, id string) (*model.Order, error) {
	var order model.Order
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&order); err != nil {
		return nil, database.Translate(err)
	}
	return &order, nil
}

func (r *mongoOrderRepository) ListByUser(ctx context.Context, userID string, offset, limit int) ([]model.Order, int64, error) {
	filter := bson.M{"user_id": userID}
	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	orders := make([]model.Order, 0)
	if err := cur.All(ctx, &orders); err != nil {
		return nil, 0, err
	}
	return orders, total, nil
}

func (r *mongoOrderRepository) ListUpdatedSince(ctx context.Context, since time.Time) ([]model.Order, error) {
	cur, err := r.coll.Find(ctx,
		bson.M{"updated_at": bson.M{"$gte": since}},
		options.Find().SetSort(bson.D{{Key: "updated_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	orders := make([]model.Order, 0)
	if err := cur.All(ctx, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *mongoOrderRepository) Update(ctx context.Context, order *model.Order) error {
	order.Touch(time.Now().UTC())
	res, err := r.coll.UpdateOne(ctx, bson.M{"_id": order.ID}, bson.M{"$set": bson.M{
		"status":      order.Status,
		"total_price": order.TotalPrice,
		"updated_at":  order.UpdatedAt,
	}})
	if err != nil {
		return database.Translate(err)
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *mongoOrderRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}
