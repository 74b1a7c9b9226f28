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

type MongoPostRepository struct {
	coll *mongo.Collection
}

func NewMongoPostRepository(db *mongo.Database) *MongoPostRepository {
	return &MongoPostRepository{coll: db.Collection(database.PostsCollection)}
}

func (r *MongoPostRepository) find(ctx context.Context, filter bson.M, limit int64) ([]*models.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	if limit > 0 {
		opts.SetLimit(limit)
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("find posts: %w", err)
	}
	defer cursor.Close(ctx)

	posts := []*models.Post{}
	if err := cursor.All(ctx, &posts); err != nil {
		return nil, fmt.Errorf("decode posts: %w", err)
	}
	return posts, nil
}

// List returns the newest posts first.
func (r *MongoPostRepository) List(ctx context.Context, limit int64) ([]*models.Post, error) {
	return r.find(ctx, bson.M{}, limit)
}

func (r *MongoPostRepository) ListByAuthor(ctx context.Context, author string) ([]*models.Post, error) {
	return r.find(ctx, bson.M{"author": author}, 0)
}

func (r *MongoPostRepository) FindByID(ctx context.Context, id string) (*models.Post, error) {
	oid, err := parseID(id)
	if err != nil {
		return nil, err
	}
	var p models.Post
	if err := r.coll.FindOne(ctx, bson.M{"_id": oid}).Decode(&p); err != nil {
		return nil, notFound(err)
	}
	return &p, nil
}

func (r *MongoPostRepository) Create(ctx context.Context, p *models.Post) error {
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Comments == nil {
		p.Comments = []primitive.ObjectID{}
	}
	if _, err := r.coll.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

// Update writes the editable fields only.
func (r *MongoPostRepository) Update(ctx context.Context, p *models.Post) error {
	p.UpdatedAt = time.Now().UTC()
	res, err := r.coll.UpdateByID(ctx, p.ID, bson.M{"$set": bson.M{
		"title":       p.Title,
		"description": p.Description,
		"body":        p.Body,
		"updated_at":  p.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *MongoPostRepository) Delete(ctx context.Context, id string) error {
	oid, err := parseID(id)
	if err != nil {
		return err
	}
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *MongoPostRepository) AddComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	res, err := r.coll.UpdateByID(ctx, postID, bson.M{"$push": bson.M{"comments": commentID}})
	if err != nil {
		return fmt.Errorf("add comment to post: %w", err)
	}
	if res.MatchedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (r *MongoPostRepository) RemoveComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	if _, err := r.coll.UpdateByID(ctx, postID, bson.M{"$pull": bson.M{"comments": commentID}}); err != nil {
		return fmt.Errorf("remove comment from post: %w", err)
	}
	return nil
}
