package mockapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/me/shopctl/internal/config"
	"github.com/me/shopctl/internal/logging"
	"github.com/me/shopctl/pkg/model"
	"github.com/me/shopctl/pkg/shopapi"
)

func testServer(t *testing.T, opts ...Option) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(New(config.DefaultServerConfig(), logging.Discard(), opts...))
	t.Cleanup(srv.Close)
	return srv
}

// loginClient returns a client carrying a token for the given account.
func loginClient(t *testing.T, srv *httptest.Server, email, password string) *shopapi.Client {
	t.Helper()
	anon := shopapi.NewClient(shopapi.DefaultConfig().WithBaseURL(srv.URL), nil, logging.Discard())
	raw, err := anon.Login(context.Background(), email, password)
	if err != nil {
		t.Fatalf("Login(%s): %v", email, err)
	}
	var resp loginResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		t.Fatal(err)
	}
	if resp.AccessToken == "" || resp.User.Email != email {
		t.Fatalf("login response = %s", raw)
	}
	return shopapi.NewClient(shopapi.DefaultConfig().WithBaseURL(srv.URL), shopapi.StaticToken(resp.AccessToken), logging.Discard())
}

func TestHealth(t *testing.T) {
	srv := testServer(t)
	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if resp.Header.Get("X-Request-ID") == "" {
		t.Error("X-Request-ID not set")
	}
}

func TestLogin_BadPassword(t *testing.T) {
	srv := testServer(t)
	c := shopapi.NewClient(shopapi.DefaultConfig().WithBaseURL(srv.URL), nil, logging.Discard())
	_, err := c.Login(context.Background(), DemoUserEmail, "wrong")
	if shopapi.StatusCode(err) != http.StatusUnauthorized {
		t.Fatalf("err = %v, want 401", err)
	}
	if msg := shopapi.ErrorMessage(err); msg != "invalid email or password" {
		t.Errorf("message = %q", msg)
	}
}

func TestRegister(t *testing.T) {
	srv := testServer(t)
	c := shopapi.NewClient(shopapi.DefaultConfig().WithBaseURL(srv.URL), nil, logging.Discard())
	ctx := context.Background()

	user, err := c.Register(ctx, model.Registration{Name: "Ana", Email: "Ana@x.io", Password: "pw"})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID == "" || user.Email != "ana@x.io" || user.Role != model.RoleUser {
		t.Errorf("user = %+v", user)
	}

	_, err = c.Register(ctx, model.Registration{Name: "Ana", Email: "ana@x.io", Password: "pw"})
	if shopapi.StatusCode(err) != http.StatusConflict {
		t.Errorf("duplicate: err = %v, want 409", err)
	}

	loginClient(t, srv, "ana@x.io", "pw")
}

func TestInvalidToken(t *testing.T) {
	srv := testServer(t)
	c := shopapi.NewClient(shopapi.DefaultConfig().WithBaseURL(srv.URL), shopapi.StaticToken("garbage"), logging.Discard())
	if _, err := c.GetCart(context.Background()); !shopapi.IsUnauthorized(err) {
		t.Errorf("err = %v, want 401", err)
	}
}

func TestCartRequiresAuth(t *testing.T) {
	srv := testServer(t)
	c := shopapi.NewClient(shopapi.DefaultConfig().WithBaseURL(srv.URL), nil, logging.Discard())
	if _, err := c.GetCart(context.Background()); shopapi.StatusCode(err) != http.StatusUnauthorized {
		t.Errorf("err = %v, want 401", err)
	}
}

func TestListProducts_Pagination(t *testing.T) {
	srv := testServer(t)
	c := shopapi.NewClient(shopapi.DefaultConfig().WithBaseURL(srv.URL), nil, logging.Discard())

	page, err := c.ListProducts(context.Background(), model.ListOptions{Page: 2, Limit: 3})
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 4 || len(page.Products) != 1 || page.Page != 2 {
		t.Errorf("page = %+v", page)
	}

	p, err := c.GetProduct(context.Background(), page.Products[0].ID)
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "Notebook" {
		t.Errorf("product = %+v", p)
	}

	if _, err := c.GetProduct(context.Background(), "nope"); !shopapi.IsNotFound(err) {
		t.Errorf("err = %v, want 404", err)
	}
}

func TestProducts_AdminOnly(t *testing.T) {
	srv := testServer(t)
	user := loginClient(t, srv, DemoUserEmail, DemoUserPassword)
	in := model.ProductInput{Name: "X", Description: "Y", ImageURL: "http://x", Price: model.MustMoney("1")}
	if _, err := user.CreateProduct(context.Background(), in, nil); shopapi.StatusCode(err) != http.StatusForbidden {
		t.Errorf("err = %v, want 403", err)
	}
}

func TestProducts_CreateUpdateDelete(t *testing.T) {
	srv := testServer(t)
	ctx := context.Background()
	admin := loginClient(t, srv, DemoAdminEmail, DemoAdminPassword)

	png := []byte("\x89PNG\r\n\x1a\n0000")
	created, err := admin.CreateProduct(ctx,
		model.ProductInput{Name: "Poster", Description: "A2 print", Price: model.MustMoney("12.00")},
		&shopapi.ImageFile{Filename: "poster.png", Reader: bytes.NewReader(png)})
	if err != nil {
		t.Fatalf("CreateProduct: %v", err)
	}
	if !strings.HasPrefix(created.ImageURL, "data:image/png;base64,") {
		t.Errorf("imageUrl = %q", created.ImageURL)
	}

	_, err = admin.CreateProduct(ctx, model.ProductInput{Name: "No image", Description: "d", Price: model.MustMoney("1")}, nil)
	if shopapi.StatusCode(err) != http.StatusBadRequest {
		t.Errorf("create without image: err = %v, want 400", err)
	}

	updated, err := admin.UpdateProduct(ctx, created.ID,
		model.ProductInput{Name: "Poster XL", Description: "A1 print", Price: model.MustMoney("15.00")}, nil)
	if err != nil {
		t.Fatalf("UpdateProduct: %v", err)
	}
	if updated.Name != "Poster XL" || updated.ImageURL != created.ImageURL {
		t.Errorf("updated = %+v", updated)
	}

	if err := admin.DeleteProduct(ctx, created.ID); err != nil {
		t.Fatalf("DeleteProduct: %v", err)
	}
	if _, err := admin.GetProduct(ctx, created.ID); !shopapi.IsNotFound(err) {
		t.Errorf("after delete: err = %v", err)
	}
}

func TestCart_Flow(t *testing.T) {
	srv := testServer(t)
	ctx := context.Background()
	c := loginClient(t, srv, DemoUserEmail, DemoUserPassword)

	page, err := c.ListProducts(ctx, model.DefaultListOptions())
	if err != nil {
		t.Fatal(err)
	}
	mug := page.Products[0]

	for _, delta := range []int{1, 1} {
		if err := c.AddProduct(ctx, mug.ID, delta); err != nil {
			t.Fatalf("AddProduct: %v", err)
		}
	}
	cart, err := c.GetCart(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(cart.Items) != 1 || cart.Items[0].Quantity != 2 || !cart.Items[0].ItemTotal.Equals(model.MustMoney("20")) {
		t.Fatalf("cart = %+v", cart)
	}

	if err := c.AddProduct(ctx, mug.ID, -2); shopapi.StatusCode(err) != http.StatusBadRequest {
		t.Errorf("drop below 1: err = %v, want 400", err)
	}
	if err := c.AddProduct(ctx, "missing", 1); !shopapi.IsNotFound(err) {
		t.Errorf("unknown product: err = %v, want 404", err)
	}

	if err := c.RemoveProduct(ctx, mug.ID); err != nil {
		t.Fatal(err)
	}
	cart, _ = c.GetCart(ctx)
	if len(cart.Items) != 0 {
		t.Errorf("cart after remove = %+v", cart)
	}
}

func TestCart_BulkClear(t *testing.T) {
	ctx := context.Background()
	for _, tt := range []struct {
		name    string
		opts    []Option
		wantErr bool
	}{
		{name: "supported"},
		{name: "unsupported", opts: []Option{WithoutBulkClear()}, wantErr: true},
	} {
		t.Run(tt.name, func(t *testing.T) {
			srv := testServer(t, tt.opts...)
			c := loginClient(t, srv, DemoUserEmail, DemoUserPassword)
			page, _ := c.ListProducts(ctx, model.DefaultListOptions())
			for _, p := range page.Products[:2] {
				if err := c.AddProduct(ctx, p.ID, 1); err != nil {
					t.Fatal(err)
				}
			}

			err := c.ClearCart(ctx)
			if tt.wantErr {
				if !shopapi.IsUnsupported(err) {
					t.Fatalf("err = %v, want unsupported", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
			cart, _ := c.GetCart(ctx)
			if len(cart.Items) != 0 {
				t.Errorf("cart = %+v", cart)
			}
		})
	}
}

func TestCarts_ArePerUser(t *testing.T) {
	ctx := context.Background()
	srv := testServer(t)
	user := loginClient(t, srv, DemoUserEmail, DemoUserPassword)
	admin := loginClient(t, srv, DemoAdminEmail, DemoAdminPassword)

	page, _ := user.ListProducts(ctx, model.DefaultListOptions())
	if err := user.AddProduct(ctx, page.Products[0].ID, 1); err != nil {
		t.Fatal(err)
	}
	cart, err := admin.GetCart(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(cart.Items) != 0 {
		t.Errorf("admin sees user's cart: %+v", cart)
	}
}

func TestWithProducts(t *testing.T) {
	cfg := config.DefaultServerConfig()
	cfg.Seed = false
	srv := httptest.NewServer(New(cfg, logging.Discard(),
		WithProducts(model.Product{ID: "p1", Name: "Only", Price: model.MustMoney("1")})))
	defer srv.Close()

	c := shopapi.NewClient(shopapi.DefaultConfig().WithBaseURL(srv.URL), nil, logging.Discard())
	page, err := c.ListProducts(context.Background(), model.DefaultListOptions())
	if err != nil {
		t.Fatal(err)
	}
	if page.Total != 1 || page.Products[0].ID != "p1" {
		t.Errorf("page = %+v", page)
	}
}
