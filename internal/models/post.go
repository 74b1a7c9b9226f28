package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Post struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title       string               `bson:"title" json:"title"`
	Description string               `bson:"description" json:"description"`
	Body        string               `bson:"body" json:"body"`
	Author      string               `bson:"author" json:"author"` // owner's email
	Comments    []primitive.ObjectID `bson:"comments" json:"comment_ids"`
	CreatedAt   time.Time            `bson:"created_at" json:"created_at"`
	UpdatedAt   time.Time            `bson:"updated_at" json:"updated_at"`
}

// PostDetail is a post together with its comments, newest first.
type PostDetail struct {
	*Post
	CommentList []*Comment `json:"comments"`
}

// PostInput holds the editable fields of a post.
type PostInput struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"max=500"`
	Body        string `json:"body" validate:"required,max=100000"`
}
