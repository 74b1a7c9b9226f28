package services

import "github.com/AnshRaj112/inkwell-backend/internal/models"

// CanMutate reports whether user may update or delete a resource written by
// author. Resources are owned by the email address of their author.
func CanMutate(user *models.User, author string) bool {
	return user != nil && user.Email != "" && user.Email == author
}

// AuthorizeMutation returns models.ErrUnauthenticated for a missing user and
// models.ErrForbidden for anyone but the author.
func AuthorizeMutation(user *models.User, author string) error {
	if user == nil {
		return models.ErrUnauthenticated
	}
	if !CanMutate(user, author) {
		return models.ErrForbidden
	}
	return nil
}
