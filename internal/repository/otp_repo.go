package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ashika-normality/project-portico-backend/internal/models"
)

// OTPRepository is the ledger of short-lived one-time codes.
type OTPRepository interface {
	Create(ctx context.Context, e *models.OTPEntry) error
	FindByIdentifierAndCode(ctx context.Context, identifier, code string) (*models.OTPEntry, error)
	DeleteByID(ctx context.Context, id primitive.ObjectID) error
	DeleteByIdentifier(ctx context.Context, identifier string) error
}

type mongoOTPRepo struct {
	col *mongo.Collection
}

// NewMongoOTPRepo creates the otps store. The TTL index reaps entries at
// their absolute expiry whether or not they were verified.
func NewMongoOTPRepo(db *mongo.Database) OTPRepository {
	col := db.Collection("otps")
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "expiresAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(0)},
		{Keys: bson.D{{Key: "identifier", Value: 1}}},
	})
	return &mongoOTPRepo{col: col}
}

func (r *mongoOTPRepo) Create(ctx context.Context, e *models.OTPEntry) error {
	res, err := r.col.InsertOne(ctx, e)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		e.ID = oid
	}
	return nil
}

func (r *mongoOTPRepo) FindByIdentifierAndCode(ctx context.Context, identifier, code string) (*models.OTPEntry, error) {
	var e models.OTPEntry
	err := r.col.FindOne(ctx, bson.M{"identifier": identifier, "otp": code}).Decode(&e)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *mongoOTPRepo) DeleteByID(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func (r *mongoOTPRepo) DeleteByIdentifier(ctx context.Context, identifier string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"identifier": identifier})
	return err
}
