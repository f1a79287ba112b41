// Package db implements the company document store on MongoDB.
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

	"hrms/internal/company/models"
	"hrms/internal/pkg/errs"
	"hrms/internal/pkg/messages"
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
	collection := client.Database(database).Collection("companies")
	if err := ensureIndexes(ctx, collection); err != nil {
		return nil, fmt.Errorf("failed to create indexes: %w", err)
	}
	return NewWithCollection(client, collection), nil
}

// NewWithCollection wraps an already-connected collection.
func NewWithCollection(client *mongo.Client, collection *mongo.Collection) *Repository {
	return &Repository{client: client, collection: collection}
}

// indexModels declares the unique business keys. The service pre-checks
// duplicates for friendly errors; the index is the final arbiter under
// concurrent saves.
func indexModels() []mongo.IndexModel {
	return []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "companyName", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "phoneNumber", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "infoEmail", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}
}

func ensureIndexes(ctx context.Context, collection *mongo.Collection) error {
	_, err := collection.Indexes().CreateMany(ctx, indexModels())
	return err
}

func (r *Repository) Create(ctx context.Context, company *models.Company) error {
	company.Stamp()
	res, err := r.collection.InsertOne(ctx, company)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.ErrDuplicateField
		}
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		company.ID = oid
	}
	return nil
}

func (r *Repository) Get(ctx context.Context, id string) (*models.Company, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, errs.ErrNotFound
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *Repository) GetByCompanyName(ctx context.Context, companyName string) (*models.Company, error) {
	return r.findOne(ctx, bson.M{"companyName": companyName})
}

func (r *Repository) findOne(ctx context.Context, filter bson.M) (*models.Company, error) {
	var company models.Company
	err := r.collection.FindOne(ctx, filter).Decode(&company)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return &company, nil
}

func (r *Repository) Update(ctx context.Context, company *models.Company) error {
	company.Touch()
	res, err := r.collection.ReplaceOne(ctx, bson.M{"_id": company.ID}, company)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errs.ErrDuplicateField
		}
		return err
	}
	if res.MatchedCount == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *Repository) ExistsByCompanyName(ctx context.Context, companyName string) (bool, error) {
	return r.exists(ctx, bson.M{"companyName": companyName})
}

func (r *Repository) ExistsByPhoneNumber(ctx context.Context, phone string) (bool, error) {
	return r.exists(ctx, bson.M{"phoneNumber": phone})
}

func (r *Repository) ExistsByInfoEmail(ctx context.Context, infoEmail string) (bool, error) {
	return r.exists(ctx, bson.M{"infoEmail": infoEmail})
}

func (r *Repository) ExistsOtherByCompanyName(ctx context.Context, companyName, id string) (bool, error) {
	return r.existsOther(ctx, "companyName", companyName, id)
}

func (r *Repository) ExistsOtherByPhoneNumber(ctx context.Context, phone, id string) (bool, error) {
	return r.existsOther(ctx, "phoneNumber", phone, id)
}

func (r *Repository) ExistsOtherByInfoEmail(ctx context.Context, infoEmail, id string) (bool, error) {
	return r.existsOther(ctx, "infoEmail", infoEmail, id)
}

func (r *Repository) existsOther(ctx context.Context, field, value, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, errs.ErrNotFound
	}
	return r.exists(ctx, bson.M{field: value, "_id": bson.M{"$ne": oid}})
}

func (r *Repository) exists(ctx context.Context, filter bson.M) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, filter, options.Count().SetLimit(1))
	return count > 0, err
}

func (r *Repository) ListActive(ctx context.Context) ([]models.Company, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"status": messages.StatusActive})
	if err != nil {
		return nil, err
	}
	var companies []models.Company
	if err := cursor.All(ctx, &companies); err != nil {
		return nil, err
	}
	return companies, nil
}

func (r *Repository) Close(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Disconnect(ctx)
}
