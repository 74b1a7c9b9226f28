package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AnshRaj112/inkwell-backend/internal/database"
	"github.com/AnshRaj112/inkwell-backend/internal/models"
)

// MongoUserRepository is the credential store.
type MongoUserRepository struct {
	coll *mongo.Collection
}

func NewMongoUserRepository(db *mongo.Database) *MongoUserRepository {
	return &MongoUserRepository{coll: db.Collection(database.UsersCollection)}
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var u models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&u); err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	return r.findOne(ctx, bson.M{"_id": oid})
}

func (r *MongoUserRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

// FindByResetToken only matches tokens whose expiry is after now.
func (r *MongoUserRepository) FindByResetToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	if token == "" {
		return nil, models.ErrNotFound
	}
	return r.findOne(ctx, bson.M{
		"reset_password_token":   token,
		"reset_password_expires": bson.M{"$gt": now},
	})
}

// Create inserts a new user and fills in its id and version.
func (r *MongoUserRepository) Create(ctx context.Context, u *models.User) error {
	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.CreatedAt = now
	u.UpdatedAt = now
	u.Version = 1

	if _, err := r.coll.InsertOne(ctx, u); err != nil {
		u.ID = primitive.NilObjectID
		u.Version = 0
		return fmt.Errorf("insert user: %w", duplicateKeyError(err))
	}
	return nil
}

// Save replaces the stored document if nobody else has saved it since u was
// read. Empty reset fields are dropped from the document.
func (r *MongoUserRepository) Save(ctx context.Context, u *models.User) error {
	prev := u.Version
	next := *u
	next.Version = prev + 1
	next.UpdatedAt = time.Now().UTC()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"_id": u.ID, "version": prev}, &next)
	if err != nil {
		return fmt.Errorf("save user: %w", duplicateKeyError(err))
	}
	if res.MatchedCount == 0 {
		return models.ErrConflict
	}

	*u = next
	return nil
}
