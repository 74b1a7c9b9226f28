// Package repository holds the MongoDB and PostgreSQL backed stores.
package repository

import (
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AnshRaj112/inkwell-backend/internal/models"
)

// parseID converts a hex id. Malformed ids cannot exist, so they read as not found.
func parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, models.ErrNotFound
	}
	return oid, nil
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return models.ErrNotFound
	}
	return err
}

// duplicateKeyError maps a unique index violation on the users collection
// to the matching sentinel. Other errors are returned unchanged.
func duplicateKeyError(err error) error {
	if !mongo.IsDuplicateKeyError(err) {
		return err
	}
	msg := err.Error()
	if strings.Contains(msg, "uniq_email") || strings.Contains(msg, "email_1") || strings.Contains(msg, "email:") {
		return models.ErrEmailTaken
	}
	return models.ErrUsernameTaken
}
