package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ashika-normality/project-portico-backend/internal/models"
)

// pendingTTL matches the OTP window: an unconfirmed registration is reaped
// by the store after ten minutes.
const pendingTTL = 10 * time.Minute

// PendingRegistrationRepository buffers in-flight instructor sign-ups.
type PendingRegistrationRepository interface {
	Upsert(ctx context.Context, p *models.PendingRegistration) error
	FindByIdentifier(ctx context.Context, identifier string) (*models.PendingRegistration, error)
	DeleteByIdentifier(ctx context.Context, identifier string) error
}

type mongoPendingRepo struct {
	col *mongo.Collection
}

// NewMongoPendingRepo creates the pending_registrations store with its
// auto-expiry index on createdAt.
func NewMongoPendingRepo(db *mongo.Database) PendingRegistrationRepository {
	col := db.Collection("pending_registrations")
	_, _ = col.Indexes().CreateMany(context.Background(), []mongo.IndexModel{
		{Keys: bson.D{{Key: "createdAt", Value: 1}}, Options: options.Index().SetExpireAfterSeconds(int32(pendingTTL.Seconds()))},
		{Keys: bson.D{{Key: "identifier", Value: 1}}},
	})
	return &mongoPendingRepo{col: col}
}

// Upsert replaces any existing staged registration for the identifier, so a
// re-submitted form restarts the window instead of accumulating documents.
func (r *mongoPendingRepo) Upsert(ctx context.Context, p *models.PendingRegistration) error {
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := r.col.ReplaceOne(ctx,
		bson.M{"identifier": p.Identifier},
		p,
		options.Replace().SetUpsert(true),
	)
	return err
}

func (r *mongoPendingRepo) FindByIdentifier(ctx context.Context, identifier string) (*models.PendingRegistration, error) {
	var p models.PendingRegistration
	err := r.col.FindOne(ctx, bson.M{"identifier": identifier}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *mongoPendingRepo) DeleteByIdentifier(ctx context.Context, identifier string) error {
	_, err := r.col.DeleteMany(ctx, bson.M{"identifier": identifier})
	return err
}
