package mockapi

import (
	"net/http"

	"github.com/me/shopctl/pkg/model"
)

type line struct {
	productID string
	quantity  int
}

type cartRequest struct {
	ProductID string `json:"productId"`
	Quantity  *int   `json:"quantity"`
}

func removeLine(lines []line, productID string) []line {
	kept := lines[:0]
	for _, l := range lines {
		if l.productID != productID {
			kept = append(kept, l)
		}
	}
	return kept
}

// cartFor renders userID's cart. The caller must hold s.mu.
func (s *Server) cartFor(userID string) model.Cart {
	c := model.Cart{Items: []model.CartLineItem{}}
	for _, l := range s.carts[userID] {
		i := s.findProduct(l.productID)
		if i < 0 {
			continue
		}
		p := s.products[i]
		c.Items = append(c.Items, model.CartLineItem{
			Product:   p,
			Quantity:  l.quantity,
			ItemTotal: p.Price.Times(l.quantity),
		})
	}
	return c
}

func (s *Server) handleGetCart(w http.ResponseWriter, r *http.Request) {
	uid := claimsFromContext(r.Context()).Subject
	s.mu.Lock()
	c := s.cartFor(uid)
	s.mu.Unlock()
	respondJSON(w, http.StatusOK, c)
}

// handleAddProduct applies a quantity delta. A delta that would take a line
// below 1 is rejected; lines leave the cart only through remove-product.
func (s *Server) handleAddProduct(w http.ResponseWriter, r *http.Request) {
	uid := claimsFromContext(r.Context()).Subject
	var req cartRequest
	if _, err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, model.ErrValidation, "invalid JSON body")
		return
	}
	delta := 1
	if req.Quantity != nil {
		delta = *req.Quantity
	}
	if req.ProductID == "" || delta == 0 {
		respondError(w, http.StatusBadRequest, model.ErrValidation, "productId and a non-zero quantity are required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.findProduct(req.ProductID) < 0 {
		respondError(w, http.StatusNotFound, model.ErrNotFound, "product not found")
		return
	}

	lines := s.carts[uid]
	for i := range lines {
		if lines[i].productID != req.ProductID {
			continue
		}
		if lines[i].quantity+delta < 1 {
			respondError(w, http.StatusBadRequest, model.ErrValidation, "quantity cannot drop below 1")
			return
		}
		lines[i].quantity += delta
		respondJSON(w, http.StatusOK, s.cartFor(uid))
		return
	}
	if delta < 1 {
		respondError(w, http.StatusBadRequest, model.ErrValidation, "product is not in the cart")
		return
	}
	s.carts[uid] = append(lines, line{productID: req.ProductID, quantity: delta})
	respondJSON(w, http.StatusOK, s.cartFor(uid))
}

// handleRemoveProduct removes one line, or every line when the body carries
// no productId and bulk clear is enabled.
func (s *Server) handleRemoveProduct(w http.ResponseWriter, r *http.Request) {
	uid := claimsFromContext(r.Context()).Subject
	var req cartRequest
	if _, err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, model.ErrValidation, "invalid JSON body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if req.ProductID == "" {
		if !s.config.BulkClear {
			respondError(w, http.StatusBadRequest, model.ErrValidation, "productId is required")
			return
		}
		delete(s.carts, uid)
		respondJSON(w, http.StatusOK, s.cartFor(uid))
		return
	}
	s.carts[uid] = removeLine(s.carts[uid], req.ProductID)
	respondJSON(w, http.StatusOK, s.cartFor(uid))
}
