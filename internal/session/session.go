// Package session holds the signed-in identity for the storefront client and
// persists it across runs.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/me/shopctl/internal/storage"
	"github.com/me/shopctl/pkg/model"
)

// StorageKey is the fixed key under which the session is persisted.
const StorageKey = "user"

// Store is the application-scoped session container. At most one session is
// current at a time. Store is safe for concurrent use.
type Store struct {
	storage storage.Storage
	logger  *slog.Logger

	mu      sync.RWMutex
	current *model.Session
}

// NewStore creates a Store and restores any persisted session. A stored
// value that cannot be parsed, or that has no access token, is logged and
// removed; the store then starts signed out. NewStore never fails.
func NewStore(ctx context.Context, st storage.Storage, logger *slog.Logger) *Store {
	s := &Store{
		storage: st,
		logger:  logger.With("component", "session"),
	}
	s.restore(ctx)
	return s
}

func (s *Store) restore(ctx context.Context) {
	data, err := s.storage.Get(ctx, StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return
	}
	if err != nil {
		s.logger.Warn("read stored session", "error", err)
		return
	}

	var sess model.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		s.discard(ctx, "unparseable", err)
		return
	}
	if !sess.Valid() {
		s.discard(ctx, "missing access token", nil)
		return
	}

	s.current = &sess
	s.logger.Debug("session restored", "user_id", sess.ID, "role", sess.Role)
}

func (s *Store) discard(ctx context.Context, reason string, cause error) {
	s.logger.Warn("discarding stored session", "reason", reason, "error", cause)
	if err := s.storage.Delete(ctx, StorageKey); err != nil {
		s.logger.Warn("remove stored session", "error", err)
	}
}

// Login normalizes a raw login response, persists it, and makes it the
// current session. On any error the previous session, if any, stays current.
func (s *Store) Login(ctx context.Context, raw []byte) (model.Session, error) {
	sess, err := ParseLoginResponse(raw)
	if err != nil {
		return model.Session{}, err
	}
	return sess, s.Set(ctx, sess)
}

// Set persists sess and publishes it as current.
func (s *Store) Set(ctx context.Context, sess model.Session) error {
	if !sess.Valid() {
		return ErrNoAccessToken
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.storage.Set(ctx, StorageKey, data); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.current = &sess
	s.logger.Info("signed in", "user_id", sess.ID, "email", sess.Email, "role", sess.Role)
	return nil
}

// Logout clears the current session and its persisted copy. The in-memory
// session is cleared even if the storage delete fails.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.storage.Delete(ctx, StorageKey); err != nil {
		return fmt.Errorf("remove persisted session: %w", err)
	}
	s.logger.Info("signed out")
	return nil
}

// Current returns a copy of the current session, or nil when signed out.
func (s *Store) Current() *model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	sess := *s.current
	return &sess
}

// IsAdmin reports whether the current session has the admin role.
func (s *Store) IsAdmin() bool {
	return s.Current().IsAdmin()
}

// AccessToken returns the current bearer token, or "" when signed out.
// It satisfies shopapi.TokenSource.
func (s *Store) AccessToken() string {
	if sess := s.Current(); sess != nil {
		return sess.AccessToken
	}
	return ""
}

// ExpiresAt returns the exp claim of the access token when the token is a
// JWT. The signature is not verified; the server remains the authority.
func (s *Store) ExpiresAt() (time.Time, bool) {
	tok := s.AccessToken()
	if tok == "" {
		return time.Time{}, false
	}
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(tok, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
