// Package app wires storage, session, API client and cart into one
// application-scoped container with an explicit lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/me/shopctl/internal/admin"
	"github.com/me/shopctl/internal/cart"
	"github.com/me/shopctl/internal/config"
	"github.com/me/shopctl/internal/session"
	"github.com/me/shopctl/internal/storage"
	"github.com/me/shopctl/pkg/model"
	"github.com/me/shopctl/pkg/shopapi"
)

// ErrPasswordMismatch is returned by Register when the confirmation differs.
var ErrPasswordMismatch = errors.New("passwords do not match")

// App is the container handed to every command. Create it with New and
// release it with Close.
type App struct {
	Config   config.ClientConfig
	Session  *session.Store
	Client   *shopapi.Client
	Cart     *cart.Store
	Products *admin.Manager

	storage storage.Storage
	logger  *slog.Logger
}

// New opens storage, restores the session and builds the client and stores.
// The cart is not fetched; call Cart.Refresh when it is needed.
func New(ctx context.Context, cfg config.ClientConfig, logger *slog.Logger) (*App, error) {
	st, err := storage.Open(ctx, cfg.Storage, cfg.StateDir, logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}

	sessions := session.NewStore(ctx, st, logger)
	client := shopapi.NewClient(
		shopapi.DefaultConfig().WithBaseURL(cfg.APIURL).WithTimeout(cfg.Timeout),
		sessions,
		logger,
	)

	return &App{
		Config:   cfg,
		Session:  sessions,
		Client:   client,
		Cart:     cart.NewStore(client, logger),
		Products: admin.NewManager(client, sessions, logger),
		storage:  st,
		logger:   logger.With("component", "app"),
	}, nil
}

// Login authenticates, stores the session and loads the cart. A cart load
// failure does not undo the login; it is logged and the cart stays empty.
func (a *App) Login(ctx context.Context, email, password string) (model.Session, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return model.Session{}, model.NewValidationError("missing credentials",
			model.FieldError{Field: "email", Message: "and password are required"})
	}

	raw, err := a.Client.Login(ctx, email, password)
	if err != nil {
		return model.Session{}, fmt.Errorf("login: %w", err)
	}
	sess, err := a.Session.Login(ctx, raw)
	if err != nil {
		return model.Session{}, fmt.Errorf("login: %w", err)
	}

	a.Cart.Reset()
	if err := a.Cart.Refresh(ctx); err != nil {
		a.logger.Warn("load cart after login", "error", err)
	}
	return sess, nil
}

// Logout ends the session and drops the cart mirror. No server call is made.
func (a *App) Logout(ctx context.Context) error {
	a.Cart.Reset()
	return a.Session.Logout(ctx)
}

// RegisterForm is the sign-up input.
type RegisterForm struct {
	model.Registration
	ConfirmPassword string
}

// Register creates an account. It does not sign in.
func (a *App) Register(ctx context.Context, form RegisterForm) (model.User, error) {
	reg := form.Registration
	reg.Name = strings.TrimSpace(reg.Name)
	reg.Email = strings.TrimSpace(reg.Email)

	var details []model.FieldError
	if reg.Name == "" {
		details = append(details, model.FieldError{Field: "name", Message: "is required"})
	}
	if reg.Email == "" {
		details = append(details, model.FieldError{Field: "email", Message: "is required"})
	}
	if reg.Password == "" {
		details = append(details, model.FieldError{Field: "password", Message: "is required"})
	}
	if len(details) > 0 {
		return model.User{}, model.NewValidationError("invalid registration", details...)
	}
	if reg.Password != form.ConfirmPassword {
		return model.User{}, ErrPasswordMismatch
	}

	user, err := a.Client.Register(ctx, reg)
	if err != nil {
		return model.User{}, fmt.Errorf("register: %w", err)
	}
	a.logger.Info("account registered", "email", reg.Email)
	return user, nil
}

// RequireSession returns the current session or admin.ErrNotAuthenticated.
func (a *App) RequireSession() (model.Session, error) {
	sess := a.Session.Current()
	if !sess.Valid() {
		return model.Session{}, admin.ErrNotAuthenticated
	}
	return *sess, nil
}

// Close releases storage.
func (a *App) Close() error {
	return a.storage.Close()
}
