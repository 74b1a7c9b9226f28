// Package memstore provides in-memory stores with the same uniqueness and
// compare-and-set behaviour as the MongoDB repositories. It backs tests and
// local development without a database.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/AnshRaj112/inkwell-backend/internal/models"
)

func copyUser(u *models.User) *models.User {
	c := *u
	if u.ResetPasswordExpires != nil {
		t := *u.ResetPasswordExpires
		c.ResetPasswordExpires = &t
	}
	if u.Profile != nil {
		p := *u.Profile
		c.Profile = &p
	}
	return &c
}

// Users is an in-memory credential store.
type Users struct {
	mu   sync.RWMutex
	byID map[primitive.ObjectID]*models.User
}

func NewUsers() *Users {
	return &Users{byID: make(map[primitive.ObjectID]*models.User)}
}

func (s *Users) find(match func(*models.User) bool) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.byID {
		if match(u) {
			return copyUser(u), nil
		}
	}
	return nil, models.ErrNotFound
}

func (s *Users) FindByID(ctx context.Context, id string) (*models.User, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[oid]
	if !ok {
		return nil, models.ErrNotFound
	}
	return copyUser(u), nil
}

func (s *Users) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return s.find(func(u *models.User) bool { return u.Username == username })
}

func (s *Users) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.find(func(u *models.User) bool { return u.Email == email })
}

func (s *Users) FindByResetToken(ctx context.Context, token string, now time.Time) (*models.User, error) {
	if token == "" {
		return nil, models.ErrNotFound
	}
	return s.find(func(u *models.User) bool {
		return u.ResetPasswordToken == token && u.ResetPasswordExpires != nil && u.ResetPasswordExpires.After(now)
	})
}

// conflict reports a uniqueness violation with any user other than self.
func (s *Users) conflict(u *models.User) error {
	for id, other := range s.byID {
		if id == u.ID {
			continue
		}
		if other.Username == u.Username {
			return models.ErrUsernameTaken
		}
		if other.Email == u.Email {
			return models.ErrEmailTaken
		}
	}
	return nil
}

func (s *Users) Create(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u.ID = primitive.NilObjectID
	if err := s.conflict(u); err != nil {
		return err
	}

	now := time.Now().UTC()
	u.ID = primitive.NewObjectID()
	u.CreatedAt = now
	u.UpdatedAt = now
	u.Version = 1
	s.byID[u.ID] = copyUser(u)
	return nil
}

func (s *Users) Save(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byID[u.ID]
	if !ok || cur.Version != u.Version {
		return models.ErrConflict
	}
	if err := s.conflict(u); err != nil {
		return err
	}

	u.Version++
	u.UpdatedAt = time.Now().UTC()
	s.byID[u.ID] = copyUser(u)
	return nil
}

// Count returns the number of stored users.
func (s *Users) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}

func copyPost(p *models.Post) *models.Post {
	c := *p
	c.Comments = append([]primitive.ObjectID{}, p.Comments...)
	return &c
}

// Posts is an in-memory post store.
type Posts struct {
	mu   sync.RWMutex
	byID map[primitive.ObjectID]*models.Post
}

func NewPosts() *Posts {
	return &Posts{byID: make(map[primitive.ObjectID]*models.Post)}
}

func (s *Posts) collect(match func(*models.Post) bool, limit int64) []*models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := []*models.Post{}
	for _, p := range s.byID {
		if match(p) {
			out = append(out, copyPost(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out
}

func (s *Posts) List(ctx context.Context, limit int64) ([]*models.Post, error) {
	return s.collect(func(*models.Post) bool { return true }, limit), nil
}

func (s *Posts) ListByAuthor(ctx context.Context, author string) ([]*models.Post, error) {
	return s.collect(func(p *models.Post) bool { return p.Author == author }, 0), nil
}

func (s *Posts) FindByID(ctx context.Context, id string) (*models.Post, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.byID[oid]
	if !ok {
		return nil, models.ErrNotFound
	}
	return copyPost(p), nil
}

func (s *Posts) Create(ctx context.Context, p *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	p.ID = primitive.NewObjectID()
	p.CreatedAt = now
	p.UpdatedAt = now
	if p.Comments == nil {
		p.Comments = []primitive.ObjectID{}
	}
	s.byID[p.ID] = copyPost(p)
	return nil
}

func (s *Posts) Update(ctx context.Context, p *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.byID[p.ID]
	if !ok {
		return models.ErrNotFound
	}
	p.UpdatedAt = time.Now().UTC()
	cur.Title = p.Title
	cur.Description = p.Description
	cur.Body = p.Body
	cur.UpdatedAt = p.UpdatedAt
	return nil
}

func (s *Posts) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[oid]; !ok {
		return models.ErrNotFound
	}
	delete(s.byID, oid)
	return nil
}

func (s *Posts) AddComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[postID]
	if !ok {
		return models.ErrNotFound
	}
	p.Comments = append(p.Comments, commentID)
	return nil
}

func (s *Posts) RemoveComment(ctx context.Context, postID, commentID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.byID[postID]
	if !ok {
		return nil
	}
	kept := p.Comments[:0]
	for _, id := range p.Comments {
		if id != commentID {
			kept = append(kept, id)
		}
	}
	p.Comments = kept
	return nil
}

// Comments is an in-memory comment store.
type Comments struct {
	mu   sync.RWMutex
	byID map[primitive.ObjectID]*models.Comment
}

func NewComments() *Comments {
	return &Comments{byID: make(map[primitive.ObjectID]*models.Comment)}
}

func (s *Comments) FindByID(ctx context.Context, id string) (*models.Comment, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, models.ErrNotFound
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.byID[oid]
	if !ok {
		return nil, models.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Comments) ListByPost(ctx context.Context, postID primitive.ObjectID) ([]*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []*models.Comment{}
	for _, c := range s.byID {
		if c.PostID == postID {
			cp := *c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Comments) Create(ctx context.Context, c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.CreatedAt = now
	c.UpdatedAt = now
	cp := *c
	s.byID[c.ID] = &cp
	return nil
}

func (s *Comments) Update(ctx context.Context, c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.byID[c.ID]
	if !ok {
		return models.ErrNotFound
	}
	c.UpdatedAt = time.Now().UTC()
	cur.Content = c.Content
	cur.UpdatedAt = c.UpdatedAt
	return nil
}

func (s *Comments) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return models.ErrNotFound
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[oid]; !ok {
		return models.ErrNotFound
	}
	delete(s.byID, oid)
	return nil
}

func (s *Comments) DeleteByPost(ctx context.Context, postID primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.byID {
		if c.PostID == postID {
			delete(s.byID, id)
		}
	}
	return nil
}

// Count returns the number of stored comments.
func (s *Comments) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
