// Package db implements the aggregated user store on MongoDB.
package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"hrms/internal/pkg/errs"
	"hrms/internal/pkg/messages"
	"hrms/internal/user/models"
)

type Repository struct {
	client     *mongo.Client
	collection *mongo.Collection
}

func NewRepository(ctx context.Context, uri, database string) (*Repository, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}
	collection := client.Database(database).Collection("users")
	if err := ensureIndexes(ctx, collection); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	return NewWithCollection(client, collection), nil
}

// NewWithCollection wraps an already-connected collection.
func NewWithCollection(client *mongo.Client, collection *mongo.Collection) *Repository {
	return &Repository{client: client, collection: collection}
}

// indexModels declares the unique business keys. Both are partial: roster
// inserts carry no authId yet, and bus-derived entries omit the username
// field entirely, so neither may collide on the empty value.
func indexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys: bson.D{{Key: "authId", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "authId", Value: bson.D{{Key: "$gt", Value: 0}}}}),
		},
		{
			Keys: bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.D{{Key: "username", Value: bson.D{{Key: "$exists", Value: true}}}}),
		},
	}
}

func ensureIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateMany(ctx, indexModels())
	return err
}

func (r *Repository) Create(ctx context.Context, user *models.UserInfo) error {
	user.Stamp()
	res, err := r.collection.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.ErrDuplicateField
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		user.ID = oid
	}
	return nil
}

func (r *Repository) GetByAuthID(ctx context.Context, authID int64) (*models.UserInfo, error) {
	return r.findOne(ctx, bson.M{"authId": authID})
}

func (r *Repository) GetByUsername(ctx context.Context, username string) (*models.UserInfo, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *Repository) findOne(ctx context.Context, filter bson.M) (*models.UserInfo, error) {
	var user models.UserInfo
	err := r.collection.FindOne(ctx, filter).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *Repository) Update(ctx context.Context, user *models.UserInfo) error {
	user.Touch()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": user.ID}, user)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *Repository) CountByRole(ctx context.Context, role messages.Role) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{
		"role":   role,
		"status": bson.M{"$ne": messages.StatusDeleted},
	})
}

func (r *Repository) ListByRole(ctx context.Context, role messages.Role) ([]models.UserInfo, error) {
	cursor, err := r.collection.Find(ctx, bson.M{
		"role":   role,
		"status": bson.M{"$ne": messages.StatusDeleted},
	})
	if err != nil {
		return nil, err
	}
	var users []models.UserInfo
	if err := cursor.All(ctx, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (r *Repository) Close(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Disconnect(ctx)
}
