package shopapi

import (
	"context"
	"encoding/json"
	"io"
	"net/url"
	"strconv"

	"github.com/me/shopctl/pkg/model"
)

// ImageFile is an image uploaded with a product create or update.
type ImageFile struct {
	Filename string
	Reader   io.Reader
}

// ListProducts fetches one page of the catalogue.
func (c *Client) ListProducts(ctx context.Context, opts model.ListOptions) (model.ProductPage, error) {
	q := url.Values{}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}

	var raw json.RawMessage
	if err := c.Get(ctx, "/products", &raw, WithQuery(q)); err != nil {
		return model.ProductPage{}, err
	}
	page, err := DecodeProductPage(raw)
	if err != nil {
		return model.ProductPage{}, WrapError("GET /products", err)
	}
	return page, nil
}

// GetProduct fetches a single product.
func (c *Client) GetProduct(ctx context.Context, id string) (model.Product, error) {
	path := "/products/" + url.PathEscape(id)
	var raw json.RawMessage
	if err := c.Get(ctx, path, &raw); err != nil {
		return model.Product{}, err
	}
	p, err := DecodeProduct(raw)
	if err != nil {
		return model.Product{}, WrapError("GET "+path, err)
	}
	return p, nil
}

// CreateProduct creates a product. With an image the request is
// multipart/form-data, otherwise JSON.
func (c *Client) CreateProduct(ctx context.Context, in model.ProductInput, image *ImageFile) (model.Product, error) {
	in.ID = ""
	return c.writeProduct(ctx, "POST", "/products", in, image)
}

// UpdateProduct replaces the writable fields of product id.
func (c *Client) UpdateProduct(ctx context.Context, id string, in model.ProductInput, image *ImageFile) (model.Product, error) {
	in.ID = id
	return c.writeProduct(ctx, "PUT", "/products/"+url.PathEscape(id), in, image)
}

func (c *Client) writeProduct(ctx context.Context, method, path string, in model.ProductInput, image *ImageFile) (model.Product, error) {
	var body any = in
	if image != nil {
		form := NewMultipart()
		if in.ID != "" {
			form.Field("id", in.ID)
		}
		form.Field("name", in.Name).
			Field("description", in.Description).
			Field("price", in.Price.String()).
			File("image", image.Filename, image.Reader)
		body = form
	}

	var raw json.RawMessage
	if err := c.Do(ctx, method, path, body, &raw); err != nil {
		return model.Product{}, err
	}
	p, err := DecodeProduct(raw)
	if err != nil {
		return model.Product{}, WrapError(method+" "+path, err)
	}
	return p, nil
}

// DeleteProduct deletes product id.
func (c *Client) DeleteProduct(ctx context.Context, id string) error {
	return c.Delete(ctx, "/products/"+url.PathEscape(id), nil, nil)
}
