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

// LearnerProfileRepository stores the one-to-one learner extension records.
type LearnerProfileRepository interface {
	Upsert(ctx context.Context, p *models.LearnerProfile) error
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.LearnerProfile, error)
}

type mongoLearnerProfileRepo struct {
	col *mongo.Collection
}

// NewMongoLearnerProfileRepo creates the learner_profiles store with its
// unique user index.
func NewMongoLearnerProfileRepo(db *mongo.Database) LearnerProfileRepository {
	col := db.Collection("learner_profiles")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "user", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &mongoLearnerProfileRepo{col: col}
}

func (r *mongoLearnerProfileRepo) Upsert(ctx context.Context, p *models.LearnerProfile) error {
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

func (r *mongoLearnerProfileRepo) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*models.LearnerProfile, error) {
	var p models.LearnerProfile
	err := r.col.FindOne(ctx, bson.M{"user": userID}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}
