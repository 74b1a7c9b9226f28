package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/AnshRaj112/inkwell-backend/internal/models"
	"github.com/AnshRaj112/inkwell-backend/pkg/utils"
)

const recentActivityLimit = 20

// ProfileView is a user's public profile with their posts.
type ProfileView struct {
	User  models.PublicUser `json:"user"`
	Posts []*models.Post    `json:"posts"`
}

// ProfileUpdate changes username, profile and optionally the password. The
// email is fixed because it identifies the owner of posts and comments.
type ProfileUpdate struct {
	Username string
	Profile  *models.Profile
	Password string
}

type ProfileService struct {
	users UserStore
	posts PostStore
	auth  *AuthService
	audit AuditLog
}

func NewProfileService(users UserStore, posts PostStore, auth *AuthService, audit AuditLog) *ProfileService {
	if audit == nil {
		audit = NopAuditLog{}
	}
	return &ProfileService{users: users, posts: posts, auth: auth, audit: audit}
}

func (s *ProfileService) Get(ctx context.Context, user *models.User) (*ProfileView, error) {
	if user == nil {
		return nil, models.ErrUnauthenticated
	}
	posts, err := s.posts.ListByAuthor(ctx, user.Email)
	if err != nil {
		return nil, err
	}
	return &ProfileView{User: user.Public(), Posts: posts}, nil
}

func (s *ProfileService) Update(ctx context.Context, user *models.User, in ProfileUpdate) (*models.User, error) {
	if user == nil {
		return nil, models.ErrUnauthenticated
	}
	if in.Username != "" && in.Username != user.Username {
		if err := utils.ValidateUsername(in.Username); err != nil {
			return nil, err
		}
	}
	if in.Password != "" {
		if err := utils.ValidatePassword(in.Password); err != nil {
			return nil, err
		}
	}

	id := user.ID.Hex()
	for attempt := 1; ; attempt++ {
		cur, err := s.users.FindByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if in.Username != "" {
			cur.Username = in.Username
		}
		cur.Profile = in.Profile

		err = s.users.Save(ctx, cur)
		if err == nil {
			break
		}
		if !errors.Is(err, models.ErrConflict) || attempt == maxSaveAttempts {
			if models.IsDuplicateKey(err) {
				return nil, err
			}
			return nil, fmt.Errorf("save profile: %w", err)
		}
	}

	if in.Password != "" {
		if err := s.auth.ChangePassword(ctx, id, in.Password); err != nil {
			return nil, err
		}
	}

	return s.users.FindByID(ctx, id)
}

// Activity returns the user's recent auth events, newest first.
func (s *ProfileService) Activity(ctx context.Context, user *models.User) ([]models.AuthEvent, error) {
	if user == nil {
		return nil, models.ErrUnauthenticated
	}
	return s.audit.RecentForUser(ctx, user.ID.Hex(), recentActivityLimit)
}
