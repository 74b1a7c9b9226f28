package repository

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/AnshRaj112/inkwell-backend/internal/database"
	"github.com/AnshRaj112/inkwell-backend/internal/models"
)

type MongoCommentRepository struct {
	coll *mongo.Collection
}

func NewMongoCommentRepository(db *mongo.Database) *MongoCommentRepository {
	return &MongoCommentRepository{coll: db.Collection(database.CommentsCollection)}
}

func (r *MongoCommentRepository) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var c models.Comment
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&c); err != nil {
		return nil, notFound(err)
	}
	return &c, nil
}

// ListByPost returns a post's comments, newest first.
func (r *MongoCommentRepository) ListByPost(ctx context.Context, postID primitive.ObjectID) ([]*models.Comment, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.coll.Find(ctx, bson.M{"post": postID}, opts)
	if err != nil {
		return nil, fmt.Errorf("find comments: %w", err)
	}
	defer cursor.Close(ctx)

	comments := []*models.Comment{}
	if err := cursor.All(ctx, &comments); err != nil {
		return nil, fmt.Errorf("decode comments: %w", err)
	}
	return comments, nil
}

func (r *MongoCommentRepository) Create(ctx context.Context, c *models.Comment) error {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.CreatedAt = now
	c.UpdatedAt = now
	if _, err := r.coll.InsertOne(ctx, c); err != nil {
		return fmt.Errorf("insert comment: %w", err)
	}
	return nil
}

func (r *MongoCommentRepository) Update(ctx context.Context, c *models.Comment) error {
	c.UpdatedAt = time.Now().UTC()
	res, err := r.coll.UpdateByID(ctx, c.ID, bson.M{"$set": bson.M{
		"content":    c.Content,
		"updated_at": c.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update comment: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *MongoCommentRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete comment: %w", err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *MongoCommentRepository) DeleteByPost(ctx context.Context, postID primitive.ObjectID) error {
	if _, err := r.coll.DeleteMany(ctx, bson.M{"post": postID}); err != nil {
		return fmt.Errorf("delete post comments: %w", err)
	}
	return nil
}
