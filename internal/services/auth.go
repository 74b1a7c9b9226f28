package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/AnshRaj112/inkwell-backend/internal/mail"
	"github.com/AnshRaj112/inkwell-backend/internal/models"
	"github.com/AnshRaj112/inkwell-backend/pkg/clientip"
	"github.com/AnshRaj112/inkwell-backend/pkg/utils"
)

// maxSaveAttempts bounds compare-and-set retries on the user document.
const maxSaveAttempts = 3

// DefaultResetTokenTTL is how long a password reset link stays valid.
const DefaultResetTokenTTL = time.Hour

// DefaultMailTimeout bounds a single background mail delivery.
const DefaultMailTimeout = 30 * time.Second

// AuthResult is returned by the workflows that start a session.
type AuthResult struct {
	User         *models.User
	SessionToken string
}

// RegisterInput holds the registration form.
type RegisterInput struct {
	Username string
	Email    string
	Password string
	Profile  *models.Profile
}

// AuthService implements login, registration, logout and the password reset
// workflow.
type AuthService struct {
	users    UserStore
	sessions SessionStore
	hasher   PasswordHasher
	notifier Notifier
	audit    AuditRecorder
	metrics  AuthMetrics
	resetTTL time.Duration

	mailTimeout time.Duration
	mailWG      sync.WaitGroup

	now           func() time.Time
	newResetToken func() (string, error)

	dummyOnce sync.Once
	dummyHash string
}

type AuthOption func(*AuthService)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

// WithResetTokenGenerator replaces the reset token source.
func WithResetTokenGenerator(gen func() (string, error)) AuthOption {
	return func(s *AuthService) { s.newResetToken = gen }
}

func WithAuditRecorder(a AuditRecorder) AuthOption {
	return func(s *AuthService) { s.audit = a }
}

func WithAuthMetrics(m AuthMetrics) AuthOption {
	return func(s *AuthService) { s.metrics = m }
}

// WithResetTokenTTL sets the reset window. Non-positive values are ignored.
func WithResetTokenTTL(ttl time.Duration) AuthOption {
	return func(s *AuthService) {
		if ttl > 0 {
			s.resetTTL = ttl
		}
	}
}

// WithMailTimeout bounds each background mail delivery. Non-positive values
// are ignored.
func WithMailTimeout(d time.Duration) AuthOption {
	return func(s *AuthService) {
		if d > 0 {
			s.mailTimeout = d
		}
	}
}

func NewAuthService(users UserStore, sessions SessionStore, hasher PasswordHasher, notifier Notifier, opts ...AuthOption) *AuthService {
	s := &AuthService{
		users:         users,
		sessions:      sessions,
		hasher:        hasher,
		notifier:      notifier,
		audit:         NopAuditLog{},
		resetTTL:      DefaultResetTokenTTL,
		mailTimeout:   DefaultMailTimeout,
		now:           time.Now,
		newResetToken: utils.GenerateResetToken,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Login checks a username and password and starts a session. Unknown users
// and wrong passwords both yield models.ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (*AuthResult, error) {
	user, err := s.users.FindByUsername(ctx, username)
	if errors.Is(err, models.ErrNotFound) {
		// Spend the same hashing time as for a real account.
		s.verifyDummy(password)
		s.record(ctx, models.EventLogin, models.OutcomeFailure, "")
		return nil, models.ErrInvalidCredentials
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		slog.ErrorContext(ctx, "stored password hash is unreadable",
			slog.String("user_id", user.ID.Hex()),
			slog.Any("error", err),
		)
		ok = false
	}
	if !ok {
		s.record(ctx, models.EventLogin, models.OutcomeFailure, user.ID.Hex())
		return nil, models.ErrInvalidCredentials
	}

	token, err := s.sessions.Start(ctx, user.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	s.record(ctx, models.EventLogin, models.OutcomeSuccess, user.ID.Hex())
	return &AuthResult{User: user, SessionToken: token}, nil
}

// Register creates an account, logs it in and sends a welcome mail.
func (s *AuthService) Register(ctx context.Context, in RegisterInput, baseURL string) (*AuthResult, error) {
	if err := utils.ValidateUsername(in.Username); err != nil {
		return nil, err
	}
	email, err := utils.NormalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        email,
		PasswordHash: hash,
		Profile:      in.Profile,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if models.IsDuplicateKey(err) {
			s.record(ctx, models.EventRegister, models.OutcomeFailure, "")
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	token, err := s.sessions.Start(ctx, user.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("start session: %w", err)
	}

	s.record(ctx, models.EventRegister, models.OutcomeSuccess, user.ID.Hex())

	to, username := user.Email, user.Username
	s.sendMail(ctx, mail.TemplateWelcome, user.ID.Hex(), func(ctx context.Context) error {
		return s.notifier.Welcome(ctx, to, username, baseURL)
	})

	return &AuthResult{User: user, SessionToken: token}, nil
}

// Logout destroys the session. It never fails from the caller's point of view.
func (s *AuthService) Logout(ctx context.Context, token string) {
	if token == "" {
		return
	}

	userID, _, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		slog.WarnContext(ctx, "failed to resolve session on logout", slog.Any("error", err))
	}

	if err := s.sessions.Destroy(ctx, token); err != nil {
		slog.ErrorContext(ctx, "failed to destroy session", slog.Any("error", err))
		return
	}

	if userID != "" {
		s.record(ctx, models.EventLogout, models.OutcomeSuccess, userID)
	}
}

// CurrentUser resolves a session token to its user. Any token that does not
// lead to an existing user yields models.ErrUnauthenticated.
func (s *AuthService) CurrentUser(ctx context.Context, token string) (*models.User, error) {
	userID, ok, err := s.sessions.Resolve(ctx, token)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, models.ErrUnauthenticated
	}

	user, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, models.ErrNotFound) {
		if err := s.sessions.Destroy(ctx, token); err != nil {
			slog.WarnContext(ctx, "failed to destroy session of deleted user",
				slog.String("user_id", userID),
				slog.Any("error", err),
			)
		}
		return nil, models.ErrUnauthenticated
	}
	if err != nil {
		return nil, fmt.Errorf("find session user: %w", err)
	}
	return user, nil
}

// ForgotPassword stores a fresh reset token for the account with the given
// email and queues a reset link for background delivery. Unknown addresses and
// mail failures are not reported, so the caller always shows the same message.
func (s *AuthService) ForgotPassword(ctx context.Context, email, baseURL string) error {
	token, err := s.newResetToken()
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}

	email, err = utils.NormalizeEmail(email)
	if err != nil {
		return err
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		s.record(ctx, models.EventForgotPassword, models.OutcomeFailure, "")
		return nil
	}
	if err != nil {
		return fmt.Errorf("find user: %w", err)
	}

	// Mongo keeps milliseconds; both stores must agree on the expiry instant.
	expires := s.now().Add(s.resetTTL).Truncate(time.Millisecond)
	for attempt := 1; ; attempt++ {
		user.ResetPasswordToken = token
		user.ResetPasswordExpires = &expires

		err = s.users.Save(ctx, user)
		if err == nil {
			break
		}
		if !errors.Is(err, models.ErrConflict) || attempt == maxSaveAttempts {
			return fmt.Errorf("store reset token: %w", err)
		}

		// Someone else saved the user first. Reapply on top of their write.
		user, err = s.users.FindByID(ctx, user.ID.Hex())
		if err != nil {
			return fmt.Errorf("reload user: %w", err)
		}
	}

	s.record(ctx, models.EventForgotPassword, models.OutcomeSuccess, user.ID.Hex())

	// The token is stored before the mail goes out, and stays valid if it fails.
	to := user.Email
	s.sendMail(ctx, mail.TemplateForgot, user.ID.Hex(), func(ctx context.Context) error {
		return s.notifier.ResetLink(ctx, to, baseURL, token)
	})
	return nil
}

// CheckResetToken reports whether token can currently be redeemed.
func (s *AuthService) CheckResetToken(ctx context.Context, token string) error {
	_, err := s.users.FindByResetToken(ctx, token, s.now())
	if errors.Is(err, models.ErrNotFound) {
		return models.ErrInvalidOrExpiredToken
	}
	if err != nil {
		return fmt.Errorf("find reset token: %w", err)
	}
	return nil
}

// ResetPassword redeems a reset token. It clears the token, signs the user
// out everywhere and does not start a new session.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword, baseURL string) error {
	var (
		user *models.User
		hash string
		err  error
	)

	for attempt := 1; ; attempt++ {
		user, err = s.users.FindByResetToken(ctx, token, s.now())
		if errors.Is(err, models.ErrNotFound) {
			s.record(ctx, models.EventResetPassword, models.OutcomeFailure, "")
			return models.ErrInvalidOrExpiredToken
		}
		if err != nil {
			return fmt.Errorf("find reset token: %w", err)
		}

		if hash == "" {
			if err := utils.ValidatePassword(newPassword); err != nil {
				return err
			}
			if hash, err = s.hasher.Hash(newPassword); err != nil {
				return fmt.Errorf("hash password: %w", err)
			}
		}

		user.PasswordHash = hash
		user.ClearResetToken()

		err = s.users.Save(ctx, user)
		if err == nil {
			break
		}
		if !errors.Is(err, models.ErrConflict) || attempt == maxSaveAttempts {
			return fmt.Errorf("save new password: %w", err)
		}
	}

	if err := s.sessions.DestroyAll(ctx, user.ID.Hex()); err != nil {
		slog.ErrorContext(ctx, "failed to destroy sessions after password reset",
			slog.String("user_id", user.ID.Hex()),
			slog.Any("error", err),
		)
	}

	s.record(ctx, models.EventResetPassword, models.OutcomeSuccess, user.ID.Hex())

	to := user.Email
	s.sendMail(ctx, mail.TemplateReset, user.ID.Hex(), func(ctx context.Context) error {
		return s.notifier.ResetConfirmation(ctx, to, baseURL)
	})
	return nil
}

// ChangePassword sets a new password for a logged in user.
func (s *AuthService) ChangePassword(ctx context.Context, userID, newPassword string) error {
	if err := utils.ValidatePassword(newPassword); err != nil {
		return err
	}
	hash, err := s.hasher.Hash(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	for attempt := 1; ; attempt++ {
		user, err := s.users.FindByID(ctx, userID)
		if err != nil {
			return err
		}
		user.PasswordHash = hash

		err = s.users.Save(ctx, user)
		if err == nil {
			break
		}
		if !errors.Is(err, models.ErrConflict) || attempt == maxSaveAttempts {
			return fmt.Errorf("save new password: %w", err)
		}
	}

	s.record(ctx, models.EventPasswordChange, models.OutcomeSuccess, userID)
	return nil
}

// sendMail delivers in the background so the response never waits on the
// mail transport. The request's values are kept but not its cancellation.
func (s *AuthService) sendMail(ctx context.Context, template, userID string, send func(context.Context) error) {
	if s.notifier == nil {
		return
	}

	mailCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.mailTimeout)
	s.mailWG.Add(1)
	go func() {
		defer s.mailWG.Done()
		defer cancel()
		s.logMailError(mailCtx, template, userID, send(mailCtx))
	}()
}

// Drain waits for pending background mail, or until ctx is done.
func (s *AuthService) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		s.mailWG.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *AuthService) verifyDummy(password string) {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash("inkwell-dummy-password")
		if err == nil {
			s.dummyHash = h
		}
	})
	if s.dummyHash != "" {
		_, _ = s.hasher.Verify(password, s.dummyHash)
	}
}

func (s *AuthService) record(ctx context.Context, event, outcome, userID string) {
	if s.metrics != nil {
		s.metrics.RecordAuthEvent(event, outcome)
	}

	err := s.audit.Record(ctx, models.AuthEvent{
		Event:     event,
		Outcome:   outcome,
		UserID:    userID,
		IP:        clientip.FromContext(ctx),
		CreatedAt: s.now().UTC(),
	})
	if err != nil {
		slog.WarnContext(ctx, "failed to record auth event",
			slog.String("event", event),
			slog.Any("error", err),
		)
	}
}

func (s *AuthService) logMailError(ctx context.Context, template, userID string, err error) {
	if err == nil {
		return
	}
	if errors.Is(err, mail.ErrMailDisabled) {
		slog.InfoContext(ctx, "mail sending is disabled",
			slog.String("template", template),
			slog.String("user_id", userID),
		)
		return
	}
	slog.ErrorContext(ctx, "failed to send mail",
		slog.String("template", template),
		slog.String("user_id", userID),
		slog.Any("error", err),
	)
}
