package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ashika-normality/project-portico-backend/internal/models"
)

// InstructorProfileRepository stores the one-to-one instructor extension
// records.
type InstructorProfileRepository interface {
	Create(ctx context.Context, p *models.InstructorProfile) error
	Upsert(ctx context.Context, p *models.InstructorProfile) error
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.InstructorProfile, error)
}

type mongoInstructorProfileRepo struct {
	col *mongo.Collection
}

// NewMongoInstructorProfileRepo creates the instructor_profiles store with
// its unique user index (one profile per account).
func NewMongoInstructorProfileRepo(db *mongo.Database) InstructorProfileRepository {
	col := db.Collection("instructor_profiles")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &mongoInstructorProfileRepo{col: col}
}

func (r *mongoInstructorProfileRepo) Create(ctx context.Context, p *models.InstructorProfile) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	res, err := r.col.InsertOne(ctx, p)
	if err != nil {
		return mapWriteErr(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		p.ID = oid
	}
	return nil
}

func (r *mongoInstructorProfileRepo) Upsert(ctx context.Context, p *models.InstructorProfile) error {
	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}
	p.UpdatedAt = now
	p.ID = primitive.NilObjectID
	_, err := r.col.ReplaceOne(ctx,
		bson.M{"user": p.UserID},
		p,
		options.Replace().SetUpsert(true),
	)
	return mapWriteErr(err)
}

func (r *mongoInstructorProfileRepo) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.InstructorProfile, error) {
	var p models.InstructorProfile
	err := r.col.FindOne(ctx, bson.M{"user": userID}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
