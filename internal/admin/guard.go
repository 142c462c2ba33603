// Package admin implements product management for admin sessions.
package admin

import (
	"errors"

	"github.com/me/shopctl/pkg/model"
)

var (
	// ErrNotAuthenticated means there is no session; the user should log in.
	ErrNotAuthenticated = errors.New("not signed in")
	// ErrForbidden means the session is not an admin session.
	ErrForbidden = errors.New("admin role required")
)

// SessionView exposes the current session. *session.Store satisfies it.
type SessionView interface {
	Current() *model.Session
}

// Guard checks that the current session exists and is an admin.
func Guard(sv SessionView) error {
	sess := sv.Current()
	if !sess.Valid() {
		return ErrNotAuthenticated
	}
	if !sess.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
