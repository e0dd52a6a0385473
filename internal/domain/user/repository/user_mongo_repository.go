package repository

import (
	"context"
	"ecommerce_api/internal/domain/user/model"
	"ecommerce_api/pkg/database"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoIndexes 用户集合索引
var MongoIndexes = []database.IndexSpec{
	{Collection: model.CollectionName, Keys: bson.D{{Key: "email", Value: 1}}, Unique: true},
}

type mongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &mongoUserRepository{coll: db.Collection(model.CollectionName)}
}

func (r *mongoUserRepository) Create(ctx context.Context, user *model.User) error {
	user.Touch(time.Now().UTC())
	_, err := r.coll.InsertOne(ctx, user)
	return database.Translate(err)
}

func (r *mongoUserRepository) GetByID(ctx context.Context, id string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepository) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *mongoUserRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, database.Translate(err)
	}
	return &user, nil
}
