package services

import (
	"context"
	"log/slog"

	"github.com/AnshRaj112/inkwell-backend/internal/models"
)

type CommentService struct {
	posts     PostStore
	comments  CommentStore
	sanitizer *Sanitizer
}

func NewCommentService(posts PostStore, comments CommentStore, sanitizer *Sanitizer) *CommentService {
	return &CommentService{posts: posts, comments: comments, sanitizer: sanitizer}
}

// Create adds a comment by user to an existing post.
func (s *CommentService) Create(ctx context.Context, user *models.User, postID string, in models.CommentInput) (*models.Comment, error) {
	if user == nil {
		return nil, models.ErrUnauthenticated
	}

	post, err := s.posts.FindByID(ctx, postID)
	if err != nil {
		return nil, err
	}

	content := s.sanitizer.Text(in.Content)
	if content == "" {
		return nil, &models.ValidationError{Field: "content", Message: "The comment is required"}
	}

	comment := &models.Comment{
		PostID:     post.ID,
		Author:     user.Email,
		AuthorName: user.Username,
		Content:    content,
	}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	if err := s.posts.AddComment(ctx, post.ID, comment.ID); err != nil {
		return nil, err
	}
	return comment, nil
}

// Update changes the content of a comment owned by user.
func (s *CommentService) Update(ctx context.Context, user *models.User, id string, in models.CommentInput) (*models.Comment, error) {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := AuthorizeMutation(user, comment.Author); err != nil {
		return nil, err
	}

	content := s.sanitizer.Text(in.Content)
	if content == "" {
		return nil, &models.ValidationError{Field: "content", Message: "The comment is required"}
	}
	comment.Content = content
	if err := s.comments.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// Delete removes a comment owned by user and unlinks it from its post.
func (s *CommentService) Delete(ctx context.Context, user *models.User, id string) error {
	comment, err := s.comments.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := AuthorizeMutation(user, comment.Author); err != nil {
		return err
	}

	if err := s.comments.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.posts.RemoveComment(ctx, comment.PostID, comment.ID); err != nil {
		slog.ErrorContext(ctx, "failed to unlink deleted comment",
			slog.String("comment_id", comment.ID.Hex()),
			slog.Any("error", err),
		)
	}
	return nil
}
