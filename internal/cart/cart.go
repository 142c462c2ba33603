// Package cart keeps a local mirror of the server-side cart.
//
// The mirror is only ever replaced wholesale from a successful GET /cart.
// Mutations are sent to the server and followed by a refresh; a failed
// mutation leaves the mirror at its last fetched value.
package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/me/shopctl/pkg/model"
	"github.com/me/shopctl/pkg/shopapi"
)

// ErrNotInCart is returned by Item for a product with no line in the mirror.
var ErrNotInCart = errors.New("product is not in the cart")

// API is the subset of the remote API the cart store needs.
// *shopapi.Client satisfies it.
type API interface {
	GetCart(ctx context.Context) (model.Cart, error)
	AddProduct(ctx context.Context, productID string, delta int) error
	RemoveProduct(ctx context.Context, productID string) error
	ClearCart(ctx context.Context) error
}

// Store is the application-scoped cart container. The lock guards the
// mirror only and is never held across a network call, so concurrent
// mutations race at the server and the last refresh wins.
type Store struct {
	api    API
	logger *slog.Logger

	mu   sync.RWMutex
	cart model.Cart
}

// NewStore returns an empty store. Call Refresh to populate it.
func NewStore(api API, logger *slog.Logger) *Store {
	return &Store{
		api:    api,
		logger: logger.With("component", "cart"),
	}
}

// Refresh replaces the mirror with the server's cart.
func (s *Store) Refresh(ctx context.Context) error {
	c, err := s.api.GetCart(ctx)
	if err != nil {
		s.logger.Warn("refresh cart", "error", err)
		return fmt.Errorf("refresh cart: %w", err)
	}
	s.mu.Lock()
	s.cart = c.Clone()
	s.mu.Unlock()
	s.logger.Debug("cart refreshed", "lines", len(c.Items), "items", c.TotalItems())
	return nil
}

// Snapshot returns a copy of the mirror.
func (s *Store) Snapshot() model.Cart {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Clone()
}

// Items returns a copy of the current line items.
func (s *Store) Items() []model.CartLineItem {
	return s.Snapshot().Items
}

// Item returns the line for productID.
func (s *Store) Item(productID string) (model.CartLineItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	item, ok := s.cart.Find(productID)
	if !ok {
		return model.CartLineItem{}, ErrNotInCart
	}
	return item, nil
}

// TotalItems is the sum of quantities across the mirror.
func (s *Store) TotalItems() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.TotalItems()
}

// Total is the sum of line totals across the mirror.
func (s *Store) Total() model.Money {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cart.Total()
}

// Reset empties the mirror without contacting the server.
func (s *Store) Reset() {
	s.mu.Lock()
	s.cart = model.Cart{}
	s.mu.Unlock()
}

// AddToCart adds one unit of product.
func (s *Store) AddToCart(ctx context.Context, product model.Product) error {
	return s.mutate(ctx, "add to cart", product.ID, func() error {
		return s.api.AddProduct(ctx, product.ID, 1)
	})
}

// RemoveFromCart removes every unit of productID.
func (s *Store) RemoveFromCart(ctx context.Context, productID string) error {
	return s.mutate(ctx, "remove from cart", productID, func() error {
		return s.api.RemoveProduct(ctx, productID)
	})
}

// IncreaseQuantity adds one unit to productID's line.
func (s *Store) IncreaseQuantity(ctx context.Context, productID string) error {
	return s.mutate(ctx, "increase quantity", productID, func() error {
		return s.api.AddProduct(ctx, productID, 1)
	})
}

// DecreaseQuantity takes one unit off productID's line. A line at quantity
// 1 is removed instead, so no request ever drives a quantity below 1.
// A product absent from the mirror is left alone.
func (s *Store) DecreaseQuantity(ctx context.Context, productID string) error {
	item, err := s.Item(productID)
	if errors.Is(err, ErrNotInCart) {
		s.logger.Debug("decrease on product not in cart", "product_id", productID)
		return nil
	}
	if item.Quantity <= 1 {
		return s.RemoveFromCart(ctx, productID)
	}
	return s.mutate(ctx, "decrease quantity", productID, func() error {
		return s.api.AddProduct(ctx, productID, -1)
	})
}

// ClearCart empties the cart. It tries the bulk clear first; when the
// server rejects that request shape it falls back to one removal per line.
// An empty mirror is a no-op and sends nothing.
func (s *Store) ClearCart(ctx context.Context) error {
	lines := s.Items()
	if len(lines) == 0 {
		return nil
	}

	err := s.api.ClearCart(ctx)
	switch {
	case err == nil:
	case shopapi.IsUnsupported(err):
		s.logger.Info("bulk clear unsupported, removing lines individually",
			"status", shopapi.StatusCode(err), "lines", len(lines))
		err = s.clearEach(ctx, lines)
	default:
		s.logger.Warn("clear cart", "error", err)
		return fmt.Errorf("clear cart: %w", err)
	}

	if refreshErr := s.Refresh(ctx); refreshErr != nil {
		err = errors.Join(err, refreshErr)
	}
	if err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// clearEach is the fallback branch of ClearCart. Removals run in order and
// every failure is collected.
func (s *Store) clearEach(ctx context.Context, lines []model.CartLineItem) error {
	var errs []error
	for _, line := range lines {
		if err := s.api.RemoveProduct(ctx, line.Product.ID); err != nil {
			s.logger.Warn("remove line during clear", "product_id", line.Product.ID, "error", err)
			errs = append(errs, fmt.Errorf("remove %s: %w", line.Product.ID, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Store) mutate(ctx context.Context, op, productID string, call func() error) error {
	if err := call(); err != nil {
		s.logger.Warn(op, "product_id", productID, "error", err)
		return fmt.Errorf("%s: %w", op, err)
	}
	return s.Refresh(ctx)
}
