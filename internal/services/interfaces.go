package services

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/inkwell-backend/internal/models"
)

// UserStore is the credential store. Lookups return models.ErrNotFound when
// nothing matches.
type UserStore interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	// FindByResetToken must only match while now is before the stored expiry.
	FindByResetToken(ctx context.Context, token string, now time.Time) (*models.User, error)
	// Create fails with models.ErrUsernameTaken or models.ErrEmailTaken.
	Create(ctx context.Context, u *models.User) error
	// Save fails with models.ErrConflict when u is stale.
	Save(ctx context.Context, u *models.User) error
}

type PostStore interface {
	List(ctx context.Context, limit int64) ([]*models.Post, error)
	ListByAuthor(ctx context.Context, author string) ([]*models.Post, error)
	FindByID(ctx context.Context, id string) (*models.Post, error)
	Create(ctx context.Context, p *models.Post) error
	Update(ctx context.Context, p *models.Post) error
	Delete(ctx context.Context, id string) error
	AddComment(ctx context.Context, postID, commentID primitive.ObjectID) error
	RemoveComment(ctx context.Context, postID, commentID primitive.ObjectID) error
}

type CommentStore interface {
	FindByID(ctx context.Context, id string) (*models.Comment, error)
	ListByPost(ctx context.Context, postID primitive.ObjectID) ([]*models.Comment, error)
	Create(ctx context.Context, c *models.Comment) error
	Update(ctx context.Context, c *models.Comment) error
	Delete(ctx context.Context, id string) error
	DeleteByPost(ctx context.Context, postID primitive.ObjectID) error
}

// PasswordHasher is implemented by utils.Argon2Hasher.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, encoded string) (bool, error)
}

// SessionStore is implemented by SessionManager.
type SessionStore interface {
	Start(ctx context.Context, userID string) (string, error)
	Resolve(ctx context.Context, token string) (string, bool, error)
	Destroy(ctx context.Context, token string) error
	DestroyAll(ctx context.Context, userID string) error
}

// Notifier sends the account mails. Errors are logged by the caller and never
// fail the workflow.
type Notifier interface {
	Welcome(ctx context.Context, to, username, baseURL string) error
	ResetLink(ctx context.Context, to, baseURL, token string) error
	ResetConfirmation(ctx context.Context, to, baseURL string) error
}

// AuditRecorder persists auth events.
type AuditRecorder interface {
	Record(ctx context.Context, e models.AuthEvent) error
}

// AuditLog is an AuditRecorder that can also be queried.
type AuditLog interface {
	AuditRecorder
	RecentForUser(ctx context.Context, userID string, limit int) ([]models.AuthEvent, error)
}

// AuthMetrics counts auth outcomes. Implemented by metrics.Collector.
type AuthMetrics interface {
	RecordAuthEvent(event, outcome string)
}
