package repository

import (
	"context"
	"ecommerce_api/internal/domain/catalog/model"
	"ecommerce_api/pkg/database"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoIndexes 分类与商品集合索引
var MongoIndexes = []database.IndexSpec{
	{Collection: model.CategoryCollection, Keys: bson.D{{Key: "name", Value: 1}}, Unique: true},
	{Collection: model.ProductCollection, Keys: bson.D{{Key: "name", Value: 1}}, Unique: true},
	{Collection: model.ProductCollection, Keys: bson.D{{Key: "category_id", Value: 1}}},
}

var byCreated = options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

type mongoCategoryRepository struct {
	categories *mongo.Collection
	products   *mongo.Collection
}

func NewMongoCategoryRepository(db *mongo.Database) CategoryRepository {
	return &mongoCategoryRepository{
		categories: db.Collection(model.CategoryCollection),
		products:   db.Collection(model.ProductCollection),
	}
}

func (r *mongoCategoryRepository) Create(ctx context.Context, category *model.Category) error {
	category.Touch(time.Now().UTC())
	_, err := r.categories.InsertOne(ctx, category)
	return database.Translate(err)
}

func (r *mongoCategoryRepository) GetByID(ctx context.Context, id string) (*model.Category, error) {
	var category model.Category
	if err := r.categories.FindOne(ctx, bson.M{"_id": id}).Decode(&category); err != nil {
		return nil, database.Translate(err)
	}
	return &category, nil
}

func (r *mongoCategoryRepository) List(ctx context.Context) ([]model.Category, error) {
	cur, err := r.categories.Find(ctx, bson.M{}, byCreated)
	if err != nil {
		return nil, err
	}
	categories := make([]model.Category, 0)
	if err := cur.All(ctx, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *mongoCategoryRepository) Update(ctx context.Context, category *model.Category) error {
	category.Touch(time.Now().UTC())
	res, err := r.categories.ReplaceOne(ctx, bson.M{"_id": category.ID}, category)
	if err != nil {
		return database.Translate(err)
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

// Delete 先删商品再删分类，中途失败时重试删除即可收敛
func (r *mongoCategoryRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.products.DeleteMany(ctx, bson.M{"category_id": id}); err != nil {
		return err
	}
	res, err := r.categories.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

type mongoProductRepository struct {
	coll *mongo.Collection
}

func NewMongoProductRepository(db *mongo.Database) ProductRepository {
	return &mongoProductRepository{coll: db.Collection(model.ProductCollection)}
}

func (r *mongoProductRepository) Create(ctx context.Context, product *model.Product) error {
	product.Touch(time.Now().UTC())
	_, err := r.coll.InsertOne(ctx, product)
	return database.Translate(err)
}

func (r *mongoProductRepository) GetByID(ctx context.Context, id string) (*model.Product, error) {
	var product model.Product
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&product); err != nil {
		return nil, database.Translate(err)
	}
	return &product, nil
}

func (r *mongoProductRepository) List(ctx context.Context) ([]model.Product, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, byCreated)
	if err != nil {
		return nil, err
	}
	products := make([]model.Product, 0)
	if err := cur.All(ctx, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (r *mongoProductRepository) Update(ctx context.Context, product *model.Product) error {
	product.Touch(time.Now().UTC())
	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": product.ID}, product)
	if err != nil {
		return database.Translate(err)
	}
	if res.MatchedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}

func (r *mongoProductRepository) Delete(ctx context.Context, id string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return database.ErrNotFound
	}
	return nil
}
