package model

// CartLineItem is one product-and-quantity pair within a cart.
// Quantity is always >= 1; a line that would drop to zero is removed instead.
type CartLineItem struct {
	Product   Product `json:"product"`
	Quantity  int     `json:"quantity"`
	ItemTotal Money   `json:"itemTotal"`
}

// Cart is a snapshot of the server-side cart. Line items are unique by product ID.
type Cart struct {
	Items []CartLineItem `json:"items"`
}

// TotalItems returns the sum of quantities across all line items.
func (c Cart) TotalItems() int {
	n := 0
	for _, item := range c.Items {
		n += item.Quantity
	}
	return n
}

// Total returns the sum of line item totals.
func (c Cart) Total() Money {
	var total Money
	for _, item := range c.Items {
		total = total.Plus(item.ItemTotal)
	}
	return total
}

// Find returns the line item for productID, if present.
func (c Cart) Find(productID string) (CartLineItem, bool) {
	for _, item := range c.Items {
		if item.Product.ID == productID {
			return item, true
		}
	}
	return CartLineItem{}, false
}

// Clone returns a deep copy of the item slice.
func (c Cart) Clone() Cart {
	if c.Items == nil {
		return Cart{}
	}
	items := make([]CartLineItem, len(c.Items))
	copy(items, c.Items)
	return Cart{Items: items}
}
