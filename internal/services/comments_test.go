package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnshRaj112/inkwell-backend/internal/models"
)

func TestComments_NonOwnerCannotMutate(t *testing.T) {
	ctx := context.Background()
	f := newContentFixture()

	post, err := f.postSvc.Create(ctx, f.alice, models.PostInput{Title: "t", Body: "b"})
	require.NoError(t, err)
	c, err := f.commentSvc.Create(ctx, f.bob, post.ID.Hex(), models.CommentInput{Content: "bob says hi"})
	require.NoError(t, err)

	// The post author does not own comments on the post.
	_, err = f.commentSvc.Update(ctx, f.alice, c.ID.Hex(), models.CommentInput{Content: "edited"})
	assert.ErrorIs(t, err, models.ErrForbidden)
	assert.ErrorIs(t, f.commentSvc.Delete(ctx, f.alice, c.ID.Hex()), models.ErrForbidden)

	stored, err := f.comments.FindByID(ctx, c.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, "bob says hi", stored.Content)
}

func TestComments_OwnerUpdatesAndDeletes(t *testing.T) {
	ctx := context.Background()
	f := newContentFixture()

	post, err := f.postSvc.Create(ctx, f.alice, models.PostInput{Title: "t", Body: "b"})
	require.NoError(t, err)
	c, err := f.commentSvc.Create(ctx, f.bob, post.ID.Hex(), models.CommentInput{Content: "hi"})
	require.NoError(t, err)
	assert.Equal(t, "bob@x.com", c.Author)

	updated, err := f.commentSvc.Update(ctx, f.bob, c.ID.Hex(), models.CommentInput{Content: "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", updated.Content)

	require.NoError(t, f.commentSvc.Delete(ctx, f.bob, c.ID.Hex()))

	p, err := f.posts.FindByID(ctx, post.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, p.Comments)
	assert.Equal(t, 0, f.comments.Count())
}

func TestComments_CreateValidation(t *testing.T) {
	ctx := context.Background()
	f := newContentFixture()

	_, err := f.commentSvc.Create(ctx, f.bob, "64b7f0c2a1b2c3d4e5f60718", models.CommentInput{Content: "hi"})
	assert.ErrorIs(t, err, models.ErrNotFound)

	post, err := f.postSvc.Create(ctx, f.alice, models.PostInput{Title: "t", Body: "b"})
	require.NoError(t, err)

	_, err = f.commentSvc.Create(ctx, f.bob, post.ID.Hex(), models.CommentInput{Content: "  "})
	assert.ErrorIs(t, err, models.ErrInvalidInput)

	_, err = f.commentSvc.Create(ctx, nil, post.ID.Hex(), models.CommentInput{Content: "hi"})
	assert.ErrorIs(t, err, models.ErrUnauthenticated)
}
