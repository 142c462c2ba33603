package model

// ProductPage is the list envelope for GET /products.
type ProductPage struct {
	Products []Product `json:"products"`
	Page     int       `json:"page"`
	Limit    int       `json:"limit"`
	Total    int       `json:"total"`
}

// ListOptions configures product list queries.
type ListOptions struct {
	Page  int
	Limit int
}

// DefaultListOptions returns the storefront's first page.
func DefaultListOptions() ListOptions {
	return ListOptions{Page: 1, Limit: 20}
}

// Clamp enforces limits (page >= 1, 1 <= limit <= 100).
func (o *ListOptions) Clamp() {
	if o.Page <= 0 {
		o.Page = 1
	}
	if o.Limit <= 0 {
		o.Limit = 20
	}
	if o.Limit > 100 {
		o.Limit = 100
	}
}

// Offset returns the zero-based index of the first item on the page.
func (o ListOptions) Offset() int {
	return (o.Page - 1) * o.Limit
}
