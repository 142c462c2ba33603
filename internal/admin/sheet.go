package admin

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/tealeg/xlsx"
)

var sheetHeaders = []string{"ID", "Name", "Description", "Price", "ImageURL", "CreatedAt", "UpdatedAt"}

// Export writes every product to w as an XLSX workbook with one header row.
func (m *Manager) Export(ctx context.Context, w io.Writer) (int, error) {
	if err := Guard(m.sessions); err != nil {
		return 0, err
	}
	products, err := m.all(ctx)
	if err != nil {
		return 0, fmt.Errorf("export products: %w", err)
	}

	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Products")
	if err != nil {
		return 0, fmt.Errorf("create sheet: %w", err)
	}
	header := sheet.AddRow()
	for _, h := range sheetHeaders {
		header.AddCell().SetValue(h)
	}
	for _, p := range products {
		row := sheet.AddRow()
		row.AddCell().SetValue(p.ID)
		row.AddCell().SetValue(p.Name)
		row.AddCell().SetValue(p.Description)
		row.AddCell().SetString(p.Price.StringFixed(2))
		row.AddCell().SetValue(p.ImageURL)
		row.AddCell().SetValue(p.CreatedAt)
		row.AddCell().SetValue(p.UpdatedAt)
	}

	if err := file.Write(w); err != nil {
		return 0, fmt.Errorf("write workbook: %w", err)
	}
	m.logger.Info("products exported", "count", len(products))
	return len(products), nil
}

// ImportResult counts the outcome of an Import.
type ImportResult struct {
	Created int
	Updated int
	Skipped int
	// Errors holds one entry per skipped row.
	Errors []string
}

// Import reads a workbook in the Export layout. Rows with an ID update that
// product; rows without one create a product. Rows that fail validation or
// are rejected by the server are skipped and reported.
func (m *Manager) Import(ctx context.Context, data []byte) (ImportResult, error) {
	var res ImportResult
	if err := Guard(m.sessions); err != nil {
		return res, err
	}
	book, err := xlsx.OpenBinary(data)
	if err != nil {
		return res, fmt.Errorf("parse workbook: %w", err)
	}
	if len(book.Sheets) == 0 || len(book.Sheets[0].Rows) < 2 {
		return res, fmt.Errorf("workbook is empty or missing header row")
	}

	for i, row := range book.Sheets[0].Rows[1:] {
		get := func(index int) string {
			if index < len(row.Cells) {
				return strings.TrimSpace(row.Cells[index].String())
			}
			return ""
		}
		form := ProductForm{
			ID:          get(0),
			Name:        get(1),
			Description: get(2),
			Price:       get(3),
			ImageURL:    get(4),
		}
		if form.Name == "" && form.Description == "" && form.Price == "" {
			continue
		}

		isNew := form.ID == ""
		if _, err := m.Save(ctx, form, isNew); err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("row %d: %v", i+2, err))
			continue
		}
		if isNew {
			res.Created++
		} else {
			res.Updated++
		}
	}
	m.logger.Info("products imported", "created", res.Created, "updated", res.Updated, "skipped", res.Skipped)
	return res, nil
}
