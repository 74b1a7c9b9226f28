package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/AnshRaj112/inkwell-backend/pkg/utils"
)

const (
	// SessionKeyPrefix is the Redis key prefix for sessions
	SessionKeyPrefix = "session:"
	// UserSessionsKeyPrefix is the Redis key prefix for the set of a user's live session tokens
	UserSessionsKeyPrefix = "user_sessions:"
)

// SessionObserver is notified when sessions start and end.
type SessionObserver interface {
	SessionStarted()
	SessionDestroyed()
}

// SessionManager stores opaque session tokens in Redis. A user may hold
// several sessions at once (one per device).
type SessionManager struct {
	rdb      *redis.Client
	secret   []byte
	ttl      time.Duration
	newToken func() (string, error)
	observer SessionObserver
}

func NewSessionManager(rdb *redis.Client, secret string, ttl time.Duration, observer SessionObserver) *SessionManager {
	return &SessionManager{
		rdb:      rdb,
		secret:   []byte(secret),
		ttl:      ttl,
		newToken: utils.GenerateSessionToken,
		observer: observer,
	}
}

// TTL is the lifetime of a session.
func (m *SessionManager) TTL() time.Duration {
	return m.ttl
}

// Start creates a session for userID and returns its token.
func (m *SessionManager) Start(ctx context.Context, userID string) (string, error) {
	if userID == "" {
		return "", errors.New("start session: empty user id")
	}

	token, err := m.newToken()
	if err != nil {
		return "", err
	}

	userKey := UserSessionsKeyPrefix + userID
	_, err = m.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, SessionKeyPrefix+token, userID, m.ttl)
		pipe.SAdd(ctx, userKey, token)
		pipe.Expire(ctx, userKey, m.ttl)
		return nil
	})
	if err != nil {
		return "", fmt.Errorf("store session: %w", err)
	}

	if m.observer != nil {
		m.observer.SessionStarted()
	}
	return token, nil
}

// Resolve returns the user id bound to token. An unknown or expired token is
// not an error.
func (m *SessionManager) Resolve(ctx context.Context, token string) (string, bool, error) {
	if token == "" {
		return "", false, nil
	}

	userID, err := m.rdb.Get(ctx, SessionKeyPrefix+token).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("resolve session: %w", err)
	}
	return userID, true, nil
}

// Destroy removes a session. Destroying an unknown session is a no-op.
func (m *SessionManager) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}

	sessionKey := SessionKeyPrefix + token
	userID, err := m.rdb.Get(ctx, sessionKey).Result()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}

	_, err = m.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, sessionKey)
		pipe.SRem(ctx, UserSessionsKeyPrefix+userID, token)
		return nil
	})
	if err != nil {
		return fmt.Errorf("destroy session: %w", err)
	}

	if m.observer != nil {
		m.observer.SessionDestroyed()
	}
	return nil
}

// DestroyAll removes every session of a user, e.g. after a password reset.
func (m *SessionManager) DestroyAll(ctx context.Context, userID string) error {
	userKey := UserSessionsKeyPrefix + userID

	tokens, err := m.rdb.SMembers(ctx, userKey).Result()
	if err != nil {
		return fmt.Errorf("list user sessions: %w", err)
	}

	keys := make([]string, 0, len(tokens)+1)
	for _, t := range tokens {
		keys = append(keys, SessionKeyPrefix+t)
	}
	keys = append(keys, userKey)

	if err := m.rdb.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete user sessions: %w", err)
	}

	if m.observer != nil {
		for range tokens {
			m.observer.SessionDestroyed()
		}
	}
	return nil
}

// Sign returns the cookie value for token: "<token>.<hmac>".
func (m *SessionManager) Sign(token string) string {
	return token + "." + m.signature(token)
}

// Unsign checks a cookie value produced by Sign and returns the token.
func (m *SessionManager) Unsign(value string) (string, bool) {
	i := strings.LastIndexByte(value, '.')
	if i <= 0 || i == len(value)-1 {
		return "", false
	}
	token, sig := value[:i], value[i+1:]
	if !hmac.Equal([]byte(sig), []byte(m.signature(token))) {
		return "", false
	}
	return token, true
}

func (m *SessionManager) signature(token string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(token))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}
