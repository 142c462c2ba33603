package shopapi

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
)

// Multipart is a multipart/form-data request body: ordered text fields and
// at most one file part.
type Multipart struct {
	fields []formField
	file   *formFile
}

type formField struct {
	name, value string
}

type formFile struct {
	field, filename string
	r               io.Reader
}

// NewMultipart creates an empty form body.
func NewMultipart() *Multipart {
	return &Multipart{}
}

// Field appends a text field.
func (m *Multipart) Field(name, value string) *Multipart {
	m.fields = append(m.fields, formField{name: name, value: value})
	return m
}

// File sets the file part. A second call replaces the first.
func (m *Multipart) File(field, filename string, r io.Reader) *Multipart {
	m.file = &formFile{field: field, filename: filename, r: r}
	return m
}

// encode buffers the whole form; uploads here are single product images.
func (m *Multipart) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for _, f := range m.fields {
		if err := w.WriteField(f.name, f.value); err != nil {
			return nil, "", fmt.Errorf("write form field %s: %w", f.name, err)
		}
	}
	if m.file != nil {
		part, err := w.CreateFormFile(m.file.field, m.file.filename)
		if err != nil {
			return nil, "", fmt.Errorf("create form file: %w", err)
		}
		if _, err := io.Copy(part, m.file.r); err != nil {
			return nil, "", fmt.Errorf("copy %s: %w", m.file.filename, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}
	return &buf, w.FormDataContentType(), nil
}
