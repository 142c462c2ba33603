package shopapi

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/me/shopctl/pkg/model"
)

type cartProductRequest struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity,omitempty"`
}

// GetCart fetches the caller's cart.
func (c *Client) GetCart(ctx context.Context) (model.Cart, error) {
	var raw json.RawMessage
	if err := c.Get(ctx, "/cart", &raw); err != nil {
		return model.Cart{}, err
	}
	if len(raw) == 0 {
		return model.Cart{}, nil
	}
	cart, err := DecodeCart(raw)
	if err != nil {
		return model.Cart{}, WrapError("GET /cart", err)
	}
	return cart, nil
}

// AddProduct applies a quantity delta to a cart line. Positive deltas add
// units; negative deltas remove them. A zero delta is rejected locally.
func (c *Client) AddProduct(ctx context.Context, productID string, delta int) error {
	if delta == 0 {
		return WrapError("POST /cart/add-product", fmt.Errorf("quantity delta must be non-zero"))
	}
	return c.Post(ctx, "/cart/add-product", cartProductRequest{ProductID: productID, Quantity: delta}, nil)
}

// RemoveProduct removes every unit of productID from the cart.
func (c *Client) RemoveProduct(ctx context.Context, productID string) error {
	return c.Delete(ctx, "/cart/remove-product", cartProductRequest{ProductID: productID}, nil)
}

// ClearCart issues the bodyless bulk clear. Not every server supports it;
// see IsUnsupported.
func (c *Client) ClearCart(ctx context.Context) error {
	return c.Delete(ctx, "/cart/remove-product", nil, nil)
}
