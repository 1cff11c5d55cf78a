package repository

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ashika-normality/project-portico-backend/internal/models"
)

// UserRepository is the store for canonical account records.
type UserRepository interface {
	Create(ctx context.Context, u *models.User) error
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIdentifier(ctx context.Context, identifier string) (*models.User, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]any) error
	PushRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error
	Delete(ctx context.Context, id primitive.ObjectID) error
}

type mongoUserRepo struct {
	col *mongo.Collection
}

// NewMongoUserRepo creates the users store and ensures the unique email
// index that backs the DuplicateEmail guarantee.
func NewMongoUserRepo(db *mongo.Database) UserRepository {
	col := db.Collection("users")
	_, _ = col.Indexes().CreateOne(context.Background(), mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return &mongoUserRepo{col: col}
}

func (r *mongoUserRepo) Create(ctx context.Context, u *models.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	res, err := r.col.InsertOne(ctx, u)
	if err != nil {
		return mapWriteErr(err)
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		u.ID = oid
	}
	return nil
}

func (r *mongoUserRepo) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": caseInsensitive(email)})
}

// FindByIdentifier resolves a user by email (case-insensitive) or mobile.
func (r *mongoUserRepo) FindByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"$or": bson.A{
		bson.M{"email": caseInsensitive(identifier)},
		bson.M{"mobile": identifier},
	}})
}

func (r *mongoUserRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *mongoUserRepo) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	err := r.col.FindOne(ctx, filter).Decode(&u)
	if err == mongo.ErrNoDocuments {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *mongoUserRepo) UpdateFields(ctx context.Context, id primitive.ObjectID, fields map[string]any) error {
	if len(fields) == 0 {
		return nil
	}
	set := bson.M{}
	for k, v := range fields {
		set[k] = v
	}
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$set": set})
	if err != nil {
		return mapWriteErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUserRepo) PushRefreshToken(ctx context.Context, id primitive.ObjectID, token string) error {
	res, err := r.col.UpdateByID(ctx, id, bson.M{"$push": bson.M{"refreshTokens": token}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *mongoUserRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	_, err := r.col.DeleteOne(ctx, bson.M{"_id": id})
	return err
}

func caseInsensitive(s string) primitive.Regex {
	return primitive.Regex{Pattern: "^" + regexp.QuoteMeta(s) + "$", Options: "i"}
}
