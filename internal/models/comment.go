package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Comment struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	PostID     primitive.ObjectID `bson:"post" json:"post"`
	Author     string             `bson:"author" json:"author"` // owner's email
	AuthorName string             `bson:"author_name,omitempty" json:"author_name,omitempty"`
	Content    string             `bson:"content" json:"content"`
	CreatedAt  time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt  time.Time          `bson:"updated_at" json:"updated_at"`
}

// CommentInput holds the editable fields of a comment.
type CommentInput struct {
	Content string `json:"content" validate:"required,max=5000"`
}
