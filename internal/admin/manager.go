package admin

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/me/shopctl/pkg/model"
	"github.com/me/shopctl/pkg/shopapi"
)

// API is the product surface of the remote API. *shopapi.Client satisfies it.
type API interface {
	ListProducts(ctx context.Context, opts model.ListOptions) (model.ProductPage, error)
	GetProduct(ctx context.Context, id string) (model.Product, error)
	CreateProduct(ctx context.Context, in model.ProductInput, image *shopapi.ImageFile) (model.Product, error)
	UpdateProduct(ctx context.Context, id string, in model.ProductInput, image *shopapi.ImageFile) (model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
}

// Manager runs admin product operations. Every operation passes Guard
// before touching the API.
type Manager struct {
	api      API
	sessions SessionView
	logger   *slog.Logger
}

// NewManager creates a Manager.
func NewManager(api API, sessions SessionView, logger *slog.Logger) *Manager {
	return &Manager{
		api:      api,
		sessions: sessions,
		logger:   logger.With("component", "admin"),
	}
}

// List fetches one page of products.
func (m *Manager) List(ctx context.Context, opts model.ListOptions) (model.ProductPage, error) {
	if err := Guard(m.sessions); err != nil {
		return model.ProductPage{}, err
	}
	page, err := m.api.ListProducts(ctx, opts)
	if err != nil {
		m.logger.Warn("list products", "error", err)
		return model.ProductPage{}, fmt.Errorf("list products: %w", err)
	}
	return page, nil
}

// Load fetches a product into an edit form.
func (m *Manager) Load(ctx context.Context, id string) (ProductForm, error) {
	if err := Guard(m.sessions); err != nil {
		return ProductForm{}, err
	}
	p, err := m.api.GetProduct(ctx, id)
	if err != nil {
		return ProductForm{}, fmt.Errorf("load product %s: %w", id, err)
	}
	return FormFromProduct(p), nil
}

// Save validates the form and creates or updates the product. Validation
// failures are returned as *model.ValidationError and nothing is sent.
func (m *Manager) Save(ctx context.Context, form ProductForm, isNew bool) (model.Product, error) {
	if err := Guard(m.sessions); err != nil {
		return model.Product{}, err
	}
	in, err := form.Validate(isNew)
	if err != nil {
		return model.Product{}, err
	}
	if !isNew && in.ID == "" {
		return model.Product{}, model.NewValidationError("invalid product",
			model.FieldError{Field: "id", Message: "is required for an update"})
	}

	var image *shopapi.ImageFile
	if form.ImagePath != "" {
		f, err := os.Open(form.ImagePath)
		if err != nil {
			return model.Product{}, model.NewValidationError("invalid product",
				model.FieldError{Field: "image", Message: fmt.Sprintf("cannot read %s", form.ImagePath)})
		}
		defer f.Close()
		image = &shopapi.ImageFile{Filename: filepath.Base(form.ImagePath), Reader: f}
	}

	var p model.Product
	if isNew {
		p, err = m.api.CreateProduct(ctx, in, image)
	} else {
		p, err = m.api.UpdateProduct(ctx, in.ID, in, image)
	}
	if err != nil {
		m.logger.Warn("save product", "new", isNew, "id", in.ID, "error", err)
		return model.Product{}, fmt.Errorf("save product: %w", err)
	}
	m.logger.Info("product saved", "new", isNew, "id", p.ID)
	return p, nil
}

// Delete removes a product.
func (m *Manager) Delete(ctx context.Context, id string) error {
	if err := Guard(m.sessions); err != nil {
		return err
	}
	if id == "" {
		return errors.New("delete product: id is required")
	}
	if err := m.api.DeleteProduct(ctx, id); err != nil {
		m.logger.Warn("delete product", "id", id, "error", err)
		return fmt.Errorf("delete product %s: %w", id, err)
	}
	m.logger.Info("product deleted", "id", id)
	return nil
}

// all pages through the catalogue.
func (m *Manager) all(ctx context.Context) ([]model.Product, error) {
	opts := model.ListOptions{Page: 1, Limit: 100}
	var out []model.Product
	for {
		page, err := m.api.ListProducts(ctx, opts)
		if err != nil {
			return nil, fmt.Errorf("list products page %d: %w", opts.Page, err)
		}
		out = append(out, page.Products...)
		if len(page.Products) < opts.Limit || (page.Total > 0 && len(out) >= page.Total) {
			return out, nil
		}
		opts.Page++
	}
}
