package mockapi

import (
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/me/shopctl/pkg/model"
)

// maxUpload bounds multipart product bodies.
const maxUpload = 8 << 20

// addProduct stores p, assigning an id and timestamps when missing.
func (s *Server) addProduct(p model.Product) model.Product {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	stamp := s.now().UTC().Format(time.RFC3339)
	if p.CreatedAt == "" {
		p.CreatedAt = stamp
	}
	if p.UpdatedAt == "" {
		p.UpdatedAt = stamp
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.products = append(s.products, p)
	return p
}

// findProduct returns the index of id. The caller must hold s.mu.
func (s *Server) findProduct(id string) int {
	for i, p := range s.products {
		if p.ID == id {
			return i
		}
	}
	return -1
}

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	opts := model.DefaultListOptions()
	if v := r.URL.Query().Get("page"); v != "" {
		opts.Page, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("limit"); v != "" {
		opts.Limit, _ = strconv.Atoi(v)
	}
	opts.Clamp()

	s.mu.Lock()
	total := len(s.products)
	start := min(opts.Offset(), total)
	end := min(start+opts.Limit, total)
	page := append([]model.Product{}, s.products[start:end]...)
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, model.ProductPage{
		Products: page,
		Page:     opts.Page,
		Limit:    opts.Limit,
		Total:    total,
	})
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	i := s.findProduct(id)
	var p model.Product
	if i >= 0 {
		p = s.products[i]
	}
	s.mu.Unlock()

	if i < 0 {
		respondError(w, http.StatusNotFound, model.ErrNotFound, fmt.Sprintf("product %s not found", id))
		return
	}
	respondJSON(w, http.StatusOK, p)
}

// productPayload reads a JSON or multipart product body. Multipart image
// parts are inlined as data URLs.
func productPayload(r *http.Request) (model.ProductInput, error) {
	var in model.ProductInput
	if !strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if _, err := decodeJSON(r, &in); err != nil {
			return in, fmt.Errorf("invalid JSON body")
		}
		return in, nil
	}

	if err := r.ParseMultipartForm(maxUpload); err != nil {
		return in, fmt.Errorf("invalid multipart body")
	}
	in.ID = r.FormValue("id")
	in.Name = r.FormValue("name")
	in.Description = r.FormValue("description")
	in.ImageURL = r.FormValue("imageUrl")
	if v := r.FormValue("price"); v != "" {
		price, err := model.NewMoney(v)
		if err != nil {
			return in, fmt.Errorf("price must be a number")
		}
		in.Price = price
	}

	file, _, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil
	}
	if err != nil {
		return in, fmt.Errorf("invalid image part")
	}
	defer file.Close()
	data, err := io.ReadAll(file)
	if err != nil {
		return in, fmt.Errorf("read image: %w", err)
	}
	in.ImageURL = "data:" + http.DetectContentType(data) + ";base64," + base64.StdEncoding.EncodeToString(data)
	return in, nil
}

func validateProduct(in model.ProductInput, isNew bool) string {
	switch {
	case strings.TrimSpace(in.Name) == "":
		return "name is required"
	case strings.TrimSpace(in.Description) == "":
		return "description is required"
	case !in.Price.IsPositive():
		return "price must be greater than zero"
	case isNew && in.ImageURL == "":
		return "image is required"
	}
	return ""
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	in, err := productPayload(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, model.ErrValidation, err.Error())
		return
	}
	if msg := validateProduct(in, true); msg != "" {
		respondError(w, http.StatusBadRequest, model.ErrValidation, msg)
		return
	}

	p := s.addProduct(model.Product{
		Name:        in.Name,
		Description: in.Description,
		ImageURL:    in.ImageURL,
		Price:       in.Price,
	})
	s.logger.Info("product created", "id", p.ID, "name", p.Name)
	respondJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	in, err := productPayload(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, model.ErrValidation, err.Error())
		return
	}
	if in.ID != "" && in.ID != id {
		respondError(w, http.StatusBadRequest, model.ErrValidation, "id in body does not match path")
		return
	}
	if msg := validateProduct(in, false); msg != "" {
		respondError(w, http.StatusBadRequest, model.ErrValidation, msg)
		return
	}

	s.mu.Lock()
	i := s.findProduct(id)
	if i < 0 {
		s.mu.Unlock()
		respondError(w, http.StatusNotFound, model.ErrNotFound, fmt.Sprintf("product %s not found", id))
		return
	}
	p := &s.products[i]
	p.Name, p.Description, p.Price = in.Name, in.Description, in.Price
	if in.ImageURL != "" {
		p.ImageURL = in.ImageURL
	}
	p.UpdatedAt = s.now().UTC().Format(time.RFC3339)
	updated := *p
	s.mu.Unlock()

	respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.mu.Lock()
	i := s.findProduct(id)
	if i >= 0 {
		s.products = append(s.products[:i], s.products[i+1:]...)
		for uid := range s.carts {
			s.carts[uid] = removeLine(s.carts[uid], id)
		}
	}
	s.mu.Unlock()

	if i < 0 {
		respondError(w, http.StatusNotFound, model.ErrNotFound, fmt.Sprintf("product %s not found", id))
		return
	}
	s.logger.Info("product deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}
