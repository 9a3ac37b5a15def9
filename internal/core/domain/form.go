package domain

import (
	"bytes"
	"fmt"
	"mime/multipart"
)

// FormData is a multipart request body. It is sent as-is with its own
// boundary; a caller-supplied Content-Type header is dropped.
//
// Parts are kept in memory so the body can be rebuilt for a retry.
type FormData struct {
	fields []formField
	files  []FormFile
}

type formField struct {
	name  string
	value string
}

// FormFile is a file part of a FormData body.
type FormFile struct {
	Field    string
	Filename string
	Content  []byte
}

// NewFormData creates an empty form.
func NewFormData() *FormData {
	return &FormData{}
}

// AddField appends a plain field.
func (f *FormData) AddField(name, value string) *FormData {
	f.fields = append(f.fields, formField{name: name, value: value})
	return f
}

// AddFile appends a file part.
func (f *FormData) AddFile(field, filename string, content []byte) *FormData {
	f.files = append(f.files, FormFile{Field: field, Filename: filename, Content: content})
	return f
}

// Len returns the number of parts.
func (f *FormData) Len() int {
	return len(f.fields) + len(f.files)
}

// Encode renders the form and returns the body with its multipart content type.
func (f *FormData) Encode() ([]byte, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for _, field := range f.fields {
		if err := w.WriteField(field.name, field.value); err != nil {
			return nil, "", fmt.Errorf("write field %s: %w", field.name, err)
		}
	}
	for _, file := range f.files {
		part, err := w.CreateFormFile(file.Field, file.Filename)
		if err != nil {
			return nil, "", fmt.Errorf("create file part %s: %w", file.Field, err)
		}
		if _, err := part.Write(file.Content); err != nil {
			return nil, "", fmt.Errorf("write file part %s: %w", file.Field, err)
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}

	return buf.Bytes(), w.FormDataContentType(), nil
}
