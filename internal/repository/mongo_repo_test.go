package repository

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/AnshRaj112/inkwell-backend/internal/database"
	"github.com/AnshRaj112/inkwell-backend/internal/models"
)

// newTestDB connects to MONGO_TEST_URI and returns a fresh database that is
// dropped after the test.
func newTestDB(t *testing.T) *mongo.Database {
	t.Helper()
	uri := os.Getenv("MONGO_TEST_URI")
	if uri == "" {
		t.Skip("MONGO_TEST_URI not set")
	}

	ctx := context.Background()
	client, db, err := database.Connect(ctx, uri, fmt.Sprintf("inkwell_test_%d", time.Now().UnixNano()))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Drop(context.Background())
		_ = database.Disconnect(client)
	})
	require.NoError(t, database.EnsureIndexes(ctx, db))
	return db
}

func TestMongoUserRepository_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewMongoUserRepository(newTestDB(t))

	u := &models.User{Username: "alice", Email: "alice@example.com", PasswordHash: "h"}
	require.NoError(t, repo.Create(ctx, u))
	assert.False(t, u.ID.IsZero())
	assert.Equal(t, int64(1), u.Version)

	got, err := repo.FindByUsername(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.FindByUsername(ctx, "Alice")
	assert.ErrorIs(t, err, models.ErrNotFound)

	_, err = repo.FindByID(ctx, "not-an-object-id")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMongoUserRepository_DuplicateKeys(t *testing.T) {
	ctx := context.Background()
	repo := NewMongoUserRepository(newTestDB(t))

	require.NoError(t, repo.Create(ctx, &models.User{Username: "alice", Email: "alice@example.com"}))

	err := repo.Create(ctx, &models.User{Username: "alice", Email: "other@example.com"})
	assert.ErrorIs(t, err, models.ErrUsernameTaken)

	err = repo.Create(ctx, &models.User{Username: "alice2", Email: "alice@example.com"})
	assert.ErrorIs(t, err, models.ErrEmailTaken)
}

func TestMongoUserRepository_SaveIsCompareAndSet(t *testing.T) {
	ctx := context.Background()
	repo := NewMongoUserRepository(newTestDB(t))

	u := &models.User{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, repo.Create(ctx, u))

	first, err := repo.FindByID(ctx, u.ID.Hex())
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, u.ID.Hex())
	require.NoError(t, err)

	first.ResetPasswordToken = "first"
	require.NoError(t, repo.Save(ctx, first))

	second.ResetPasswordToken = "second"
	assert.ErrorIs(t, repo.Save(ctx, second), models.ErrConflict)
}

func TestMongoUserRepository_FindByResetTokenHonoursExpiry(t *testing.T) {
	ctx := context.Background()
	repo := NewMongoUserRepository(newTestDB(t))

	now := time.Now().UTC().Truncate(time.Millisecond)
	expires := now.Add(time.Hour)
	u := &models.User{Username: "alice", Email: "alice@example.com"}
	require.NoError(t, repo.Create(ctx, u))
	u.ResetPasswordToken = "tok"
	u.ResetPasswordExpires = &expires
	require.NoError(t, repo.Save(ctx, u))

	_, err := repo.FindByResetToken(ctx, "tok", now)
	require.NoError(t, err)

	_, err = repo.FindByResetToken(ctx, "tok", expires)
	assert.ErrorIs(t, err, models.ErrNotFound)

	u.ClearResetToken()
	require.NoError(t, repo.Save(ctx, u))
	_, err = repo.FindByResetToken(ctx, "tok", now)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMongoPostAndCommentRepositories(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	posts := NewMongoPostRepository(db)
	comments := NewMongoCommentRepository(db)

	p := &models.Post{Title: "Hello", Body: "World", Author: "alice@example.com"}
	require.NoError(t, posts.Create(ctx, p))

	c := &models.Comment{PostID: p.ID, Author: "bob@example.com", Content: "Nice"}
	require.NoError(t, comments.Create(ctx, c))
	require.NoError(t, posts.AddComment(ctx, p.ID, c.ID))

	got, err := posts.FindByID(ctx, p.ID.Hex())
	require.NoError(t, err)
	assert.Len(t, got.Comments, 1)

	list, err := comments.ListByPost(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Nice", list[0].Content)

	require.NoError(t, posts.RemoveComment(ctx, p.ID, c.ID))
	require.NoError(t, comments.DeleteByPost(ctx, p.ID))
	require.NoError(t, posts.Delete(ctx, p.ID.Hex()))

	_, err = posts.FindByID(ctx, p.ID.Hex())
	assert.ErrorIs(t, err, models.ErrNotFound)
	list, err = comments.ListByPost(ctx, p.ID)
	require.NoError(t, err)
	assert.Empty(t, list)
}
