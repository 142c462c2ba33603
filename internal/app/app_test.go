package app

import (
	"context"
	"errors"
	"net/http/httptest"
	"testing"

	"github.com/me/shopctl/internal/admin"
	"github.com/me/shopctl/internal/config"
	"github.com/me/shopctl/internal/logging"
	"github.com/me/shopctl/internal/mockapi"
	"github.com/me/shopctl/pkg/model"
	"github.com/me/shopctl/pkg/shopapi"
)

func newTestApp(t *testing.T, storage string) (*App, config.ClientConfig) {
	t.Helper()
	ts := httptest.NewServer(mockapi.New(config.DefaultServerConfig(), logging.Discard()))
	t.Cleanup(ts.Close)

	cfg := config.DefaultClientConfig()
	cfg.APIURL = ts.URL
	cfg.StateDir = t.TempDir()
	cfg.Storage = storage

	a, err := New(context.Background(), cfg, logging.Discard())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a, cfg
}

func TestApp_LoginAttachesTokenAndLoadsCart(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t, "memory")

	if err := a.Cart.Refresh(ctx); !shopapi.IsUnauthorized(err) {
		t.Errorf("signed-out refresh: err = %v, want 401", err)
	}

	sess, err := a.Login(ctx, mockapi.DemoUserEmail, mockapi.DemoUserPassword)
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if sess.Email != mockapi.DemoUserEmail || sess.IsAdmin() {
		t.Errorf("session = %+v", sess)
	}
	if err := a.Cart.Refresh(ctx); err != nil {
		t.Errorf("signed-in refresh: %v", err)
	}
}

func TestApp_SessionSurvivesRestart(t *testing.T) {
	for _, backend := range []string{"file", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			ctx := context.Background()
			a, cfg := newTestApp(t, backend)
			if _, err := a.Login(ctx, mockapi.DemoAdminEmail, mockapi.DemoAdminPassword); err != nil {
				t.Fatal(err)
			}
			if err := a.Close(); err != nil {
				t.Fatal(err)
			}

			b, err := New(ctx, cfg, logging.Discard())
			if err != nil {
				t.Fatal(err)
			}
			defer b.Close()
			if !b.Session.IsAdmin() {
				t.Errorf("session not restored: %+v", b.Session.Current())
			}
			if _, err := b.Products.List(ctx, model.DefaultListOptions()); err != nil {
				t.Errorf("admin list after restart: %v", err)
			}
		})
	}
}

func TestApp_LogoutResetsCart(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t, "memory")
	if _, err := a.Login(ctx, mockapi.DemoUserEmail, mockapi.DemoUserPassword); err != nil {
		t.Fatal(err)
	}
	page, err := a.Client.ListProducts(ctx, model.DefaultListOptions())
	if err != nil {
		t.Fatal(err)
	}
	if err := a.Cart.AddToCart(ctx, page.Products[0]); err != nil {
		t.Fatal(err)
	}

	if err := a.Logout(ctx); err != nil {
		t.Fatal(err)
	}
	if a.Cart.TotalItems() != 0 {
		t.Errorf("cart kept %d items after logout", a.Cart.TotalItems())
	}
	if _, err := a.RequireSession(); !errors.Is(err, admin.ErrNotAuthenticated) {
		t.Errorf("RequireSession = %v", err)
	}
}

func TestApp_LoginFailureKeepsSignedOut(t *testing.T) {
	a, _ := newTestApp(t, "memory")
	if _, err := a.Login(context.Background(), mockapi.DemoUserEmail, "wrong"); err == nil {
		t.Fatal("expected error")
	}
	if a.Session.Current() != nil {
		t.Error("session published after failed login")
	}

	var verr *model.ValidationError
	if _, err := a.Login(context.Background(), "", ""); !errors.As(err, &verr) {
		t.Errorf("empty credentials: err = %v", err)
	}
}

func TestApp_Register(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestApp(t, "memory")

	form := RegisterForm{Registration: model.Registration{Name: "Ana", Email: "ana@x.io", Password: "pw"}, ConfirmPassword: "other"}
	if _, err := a.Register(ctx, form); !errors.Is(err, ErrPasswordMismatch) {
		t.Errorf("mismatch: err = %v", err)
	}

	var verr *model.ValidationError
	if _, err := a.Register(ctx, RegisterForm{}); !errors.As(err, &verr) || len(verr.Details) != 3 {
		t.Errorf("empty form: err = %v", err)
	}

	form.ConfirmPassword = "pw"
	user, err := a.Register(ctx, form)
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "ana@x.io" {
		t.Errorf("user = %+v", user)
	}
	if a.Session.Current() != nil {
		t.Error("Register signed the user in")
	}
}
