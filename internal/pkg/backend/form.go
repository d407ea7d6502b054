package backend

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
)

type FormField struct {
	Name  string
	Value string
}

type FormFile struct {
	Field       string
	Filename    string
	ContentType string
	Data        []byte
}

// Form is a multipart body. Field order is kept so requests are reproducible.
type Form struct {
	Fields []FormField
	Files  []FormFile
}

func (f *Form) Set(name, value string) {
	for i := range f.Fields {
		if f.Fields[i].Name == name {
			f.Fields[i].Value = value
			return
		}
	}
	f.Fields = append(f.Fields, FormField{Name: name, Value: value})
}

func (f *Form) AddFile(file FormFile) {
	f.Files = append(f.Files, file)
}

// Names lists every part name, text fields first.
func (f *Form) Names() []string {
	out := make([]string, 0, len(f.Fields)+len(f.Files))
	for _, fl := range f.Fields {
		out = append(out, fl.Name)
	}
	for _, fl := range f.Files {
		out = append(out, fl.Field)
	}
	return out
}

func (f *Form) Value(name string) (string, bool) {
	for _, fl := range f.Fields {
		if fl.Name == name {
			return fl.Value, true
		}
	}
	return "", false
}

func (f *Form) encode() (*bytes.Buffer, string, error) {
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)

	for _, fl := range f.Fields {
		if err := w.WriteField(fl.Name, fl.Value); err != nil {
			return nil, "", err
		}
	}
	for _, file := range f.Files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.Field, file.Filename))
		ct := file.ContentType
		if ct == "" {
			ct = "application/octet-stream"
		}
		h.Set("Content-Type", ct)
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(file.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return buf, w.FormDataContentType(), nil
}
