package services

import (
	"context"
	"log/slog"

	"github.com/AnshRaj112/inkwell-backend/internal/models"
)

// DefaultPostListLimit caps the public post listing.
const DefaultPostListLimit = 50

type PostService struct {
	posts     PostStore
	comments  CommentStore
	sanitizer *Sanitizer
}

func NewPostService(posts PostStore, comments CommentStore, sanitizer *Sanitizer) *PostService {
	return &PostService{posts: posts, comments: comments, sanitizer: sanitizer}
}

func (s *PostService) List(ctx context.Context) ([]*models.Post, error) {
	return s.posts.List(ctx, DefaultPostListLimit)
}

func (s *PostService) ListByAuthor(ctx context.Context, author string) ([]*models.Post, error) {
	return s.posts.ListByAuthor(ctx, author)
}

// Get returns a post with its comments, newest first.
func (s *PostService) Get(ctx context.Context, id string) (*models.PostDetail, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPost(ctx, post.ID)
	if err != nil {
		return nil, err
	}
	return &models.PostDetail{Post: post, CommentList: comments}, nil
}

// Create stores a post owned by user.
func (s *PostService) Create(ctx context.Context, user *models.User, in models.PostInput) (*models.Post, error) {
	if user == nil {
		return nil, models.ErrUnauthenticated
	}

	post := &models.Post{Author: user.Email}
	if err := s.apply(post, in); err != nil {
		return nil, err
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Update changes title, description and body of a post owned by user.
func (s *PostService) Update(ctx context.Context, user *models.User, id string, in models.PostInput) (*models.Post, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeMutation(user, post.Author); err != nil {
		return nil, err
	}

	if err := s.apply(post, in); err != nil {
		return nil, err
	}
	if err := s.posts.Update(ctx, post); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes a post owned by user together with its comments.
func (s *PostService) Delete(ctx context.Context, user *models.User, id string) error {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := AuthorizeMutation(user, post.Author); err != nil {
		return err
	}

	if err := s.posts.Delete(ctx, id); err != nil {
		return err
	}
	// Orphaned comments are harmless, so a failure here only gets logged.
	if err := s.comments.DeleteByPost(ctx, post.ID); err != nil {
		slog.ErrorContext(ctx, "failed to delete comments of deleted post",
			slog.String("post_id", post.ID.Hex()),
			slog.Any("error", err),
		)
	}
	return nil
}

func (s *PostService) apply(post *models.Post, in models.PostInput) error {
	title := s.sanitizer.Text(in.Title)
	body := s.sanitizer.HTML(in.Body)
	if title == "" {
		return &models.ValidationError{Field: "title", Message: "The title is required"}
	}
	if body == "" {
		return &models.ValidationError{Field: "body", Message: "The body is required"}
	}
	post.Title = title
	post.Description = s.sanitizer.Text(in.Description)
	post.Body = body
	return nil
}
