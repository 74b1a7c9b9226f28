package models

import "time"

// Auth event names written to the audit log and metrics.
const (
	EventLogin          = "login"
	EventRegister       = "register"
	EventLogout         = "logout"
	EventForgotPassword = "forgot_password"
	EventResetPassword  = "reset_password"
	EventPasswordChange = "password_change"
)

// Outcomes of an auth event.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// AuthEvent is one row of the auth audit log. UserID is empty when the
// request could not be tied to an account.
type AuthEvent struct {
	Event     string
	Outcome   string
	UserID    string
	IP        string
	CreatedAt time.Time
}
