package shopapi

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/me/shopctl/pkg/model"
)

// wireProduct is a product as the API may send it. Older endpoints use
// "title" and "image" instead of "name" and "imageUrl".
type wireProduct struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	ImageURL    string      `json:"imageUrl"`
	Image       string      `json:"image"`
	Price       model.Money `json:"price"`
	CreatedAt   string      `json:"createdAt"`
	UpdatedAt   string      `json:"updatedAt"`
}

// normalize applies the field precedence rules: name over title, imageUrl
// over image.
func (w wireProduct) normalize() model.Product {
	p := model.Product{
		ID:          w.ID,
		Name:        w.Name,
		Description: w.Description,
		ImageURL:    w.ImageURL,
		Price:       w.Price,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
	if p.Name == "" {
		p.Name = w.Title
	}
	if p.ImageURL == "" {
		p.ImageURL = w.Image
	}
	return p
}

// productEnvelope accepts either {"product": {...}} or a flat product.
type productEnvelope struct {
	Product *wireProduct `json:"product"`
	wireProduct
}

// DecodeProduct parses a single product response, wrapped or flat.
func DecodeProduct(data []byte) (model.Product, error) {
	var env productEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return model.Product{}, fmt.Errorf("decode product: %w", err)
	}
	if env.Product != nil {
		return env.Product.normalize(), nil
	}
	return env.wireProduct.normalize(), nil
}

// productListEnvelope is the object form of a product list.
type productListEnvelope struct {
	Products []wireProduct `json:"products"`
	Page     int           `json:"page"`
	Limit    int           `json:"limit"`
	Total    int           `json:"total"`
}

// DecodeProductPage parses a product list given as a bare array or as
// {"products": [...]}. Any other JSON value is an error.
func DecodeProductPage(data []byte) (model.ProductPage, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return model.ProductPage{}, fmt.Errorf("decode product list: empty body")
	}

	var env productListEnvelope
	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &env.Products); err != nil {
			return model.ProductPage{}, fmt.Errorf("decode product list: %w", err)
		}
		env.Total = len(env.Products)
	case '{':
		if err := json.Unmarshal(trimmed, &env); err != nil {
			return model.ProductPage{}, fmt.Errorf("decode product list: %w", err)
		}
	default:
		return model.ProductPage{}, fmt.Errorf("decode product list: unexpected JSON value %.20q", trimmed)
	}

	page := model.ProductPage{
		Products: make([]model.Product, 0, len(env.Products)),
		Page:     env.Page,
		Limit:    env.Limit,
		Total:    env.Total,
	}
	for _, w := range env.Products {
		page.Products = append(page.Products, w.normalize())
	}
	return page, nil
}

type wireLineItem struct {
	Product   wireProduct  `json:"product"`
	Quantity  int          `json:"quantity"`
	ItemTotal *model.Money `json:"itemTotal"`
}

type wireCart struct {
	Items []wireLineItem `json:"items"`
}

// DecodeCart parses GET /cart. A missing items array is an empty cart; a
// missing itemTotal is computed as price x quantity.
func DecodeCart(data []byte) (model.Cart, error) {
	var w wireCart
	if err := json.Unmarshal(data, &w); err != nil {
		return model.Cart{}, fmt.Errorf("decode cart: %w", err)
	}
	cart := model.Cart{Items: make([]model.CartLineItem, 0, len(w.Items))}
	for _, it := range w.Items {
		item := model.CartLineItem{
			Product:  it.Product.normalize(),
			Quantity: it.Quantity,
		}
		if it.ItemTotal != nil {
			item.ItemTotal = *it.ItemTotal
		} else {
			item.ItemTotal = item.Product.Price.Times(item.Quantity)
		}
		cart.Items = append(cart.Items, item)
	}
	return cart, nil
}
