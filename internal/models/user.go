package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Profile is the optional personal information a user can fill in.
type Profile struct {
	FirstName string `bson:"first_name,omitempty" json:"firstname,omitempty" validate:"omitempty,max=100"`
	LastName  string `bson:"last_name,omitempty" json:"lastname,omitempty" validate:"omitempty,max=100"`
	Age       int    `bson:"age,omitempty" json:"age,omitempty" validate:"omitempty,min=0,max=150"`
	Gender    string `bson:"gender,omitempty" json:"gender,omitempty" validate:"omitempty,max=50"`
	Address   string `bson:"address,omitempty" json:"address,omitempty" validate:"omitempty,max=500"`
	Website   string `bson:"website,omitempty" json:"website,omitempty" validate:"omitempty,url,max=500"`
}

type User struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time          `bson:"updated_at" json:"updated_at"`

	Username     string `bson:"username" json:"username"`
	Email        string `bson:"email" json:"email"`
	PasswordHash string `bson:"password_hash" json:"-"` // never returned in JSON

	// Set by a forgot-password request, removed again by a successful reset.
	ResetPasswordToken   string     `bson:"reset_password_token,omitempty" json:"-"`
	ResetPasswordExpires *time.Time `bson:"reset_password_expires,omitempty" json:"-"`

	Profile *Profile `bson:"profile,omitempty" json:"profile,omitempty"`

	// Version is bumped on every save and used for compare-and-set writes.
	Version int64 `bson:"version" json:"-"`
}

// HasValidResetToken reports whether token matches the stored reset token and
// the reset window is still open at now.
func (u *User) HasValidResetToken(token string, now time.Time) bool {
	if u.ResetPasswordToken == "" || u.ResetPasswordExpires == nil || token == "" {
		return false
	}
	return u.ResetPasswordToken == token && now.Before(*u.ResetPasswordExpires)
}

// ClearResetToken removes both reset fields.
func (u *User) ClearResetToken() {
	u.ResetPasswordToken = ""
	u.ResetPasswordExpires = nil
}

// PublicUser is the only user shape that leaves the server.
type PublicUser struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Email    string   `json:"email"`
	Profile  *Profile `json:"profile,omitempty"`
}

// Public returns the client-facing projection of the user.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:       u.ID.Hex(),
		Username: u.Username,
		Email:    u.Email,
		Profile:  u.Profile,
	}
}
