package admin

import (
	"strings"

	"github.com/me/shopctl/pkg/model"
)

// ProductForm is the raw admin input for creating or editing a product.
// Price is kept as text so that unparseable input can be reported per field.
type ProductForm struct {
	ID          string
	Name        string
	Description string
	ImageURL    string
	// ImagePath is a local file to upload in place of ImageURL.
	ImagePath string
	Price     string
}

// FormFromProduct fills a form with an existing product's values.
func FormFromProduct(p model.Product) ProductForm {
	return ProductForm{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		ImageURL:    p.ImageURL,
		Price:       p.Price.String(),
	}
}

// Validate checks the form and returns the API input. A new product needs
// an image file or an image URL; every product needs a name, a description
// and a price above zero. All failing fields are reported together.
func (f ProductForm) Validate(isNew bool) (model.ProductInput, error) {
	in := model.ProductInput{
		ID:          strings.TrimSpace(f.ID),
		Name:        strings.TrimSpace(f.Name),
		Description: strings.TrimSpace(f.Description),
		ImageURL:    strings.TrimSpace(f.ImageURL),
	}

	var details []model.FieldError
	if isNew && in.ImageURL == "" && strings.TrimSpace(f.ImagePath) == "" {
		details = append(details, model.FieldError{Field: "image", Message: "an image file or image URL is required"})
	}
	if in.Name == "" {
		details = append(details, model.FieldError{Field: "name", Message: "is required"})
	}
	if in.Description == "" {
		details = append(details, model.FieldError{Field: "description", Message: "is required"})
	}

	price, err := model.NewMoney(strings.TrimSpace(f.Price))
	switch {
	case strings.TrimSpace(f.Price) == "":
		details = append(details, model.FieldError{Field: "price", Message: "is required"})
	case err != nil:
		details = append(details, model.FieldError{Field: "price", Message: "must be a number"})
	case !price.IsPositive():
		details = append(details, model.FieldError{Field: "price", Message: "must be greater than zero"})
	default:
		in.Price = price
	}

	if len(details) > 0 {
		return model.ProductInput{}, model.NewValidationError("invalid product", details...)
	}
	return in, nil
}
