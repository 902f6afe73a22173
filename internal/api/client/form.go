package client

import (
	"bytes"
	"errors"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-resty/resty/v2"
)

// Form is a multipart/form-data body, the equivalent of a browser FormData.
// The transport sets Content-Type with the boundary.
type Form struct {
	Fields []FormField
	Files  []FormFile
}

// FormField is a plain text part.
type FormField struct {
	Name  string
	Value string
}

// FormFile is a file part. An empty ContentType is sniffed from Data.
type FormFile struct {
	Field       string
	FileName    string
	ContentType string
	Data        []byte
}

// Add appends a text field.
func (f *Form) Add(name, value string) *Form {
	f.Fields = append(f.Fields, FormField{Name: name, Value: value})
	return f
}

// AddFile appends a file part.
func (f *Form) AddFile(field, fileName string, data []byte) *Form {
	f.Files = append(f.Files, FormFile{Field: field, FileName: fileName, Data: data})
	return f
}

func asForm(body any) (*Form, bool) {
	switch f := body.(type) {
	case *Form:
		return f, f != nil
	case Form:
		return &f, true
	}
	return nil, false
}

func (f *Form) multipartFields() ([]*resty.MultipartField, error) {
	fields := make([]*resty.MultipartField, 0, len(f.Fields)+len(f.Files))
	for _, field := range f.Fields {
		if field.Name == "" {
			return nil, errors.New("form field name is empty")
		}
		fields = append(fields, &resty.MultipartField{
			Param:  field.Name,
			Reader: strings.NewReader(field.Value),
		})
	}

	for _, file := range f.Files {
		if file.Field == "" {
			return nil, errors.New("form file field name is empty")
		}
		contentType := file.ContentType
		if contentType == "" {
			contentType = mimetype.Detect(file.Data).String()
		}
		fileName := file.FileName
		if fileName == "" {
			fileName = "blob"
		}
		fields = append(fields, &resty.MultipartField{
			Param:       file.Field,
			FileName:    fileName,
			ContentType: contentType,
			Reader:      bytes.NewReader(file.Data),
		})
	}
	return fields, nil
}
