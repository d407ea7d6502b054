package composer

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2/log"

	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/backend"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/entitlements"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/imageprocessor"
	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/upload"
)

type Mode int

const (
	ModeCreate Mode = iota
	ModeEdit
)

func (m Mode) String() string {
	if m == ModeEdit {
		return "edit"
	}
	return "create"
}

// Upload is a file picked in the form.
type Upload struct {
	Filename string
	Data     []byte
}

// Input is the raw form state. It may contain anything; Compose decides
// what leaves the process.
type Input struct {
	Values map[string]string
	Files  map[string]Upload
}

// FieldError is a validation failure on a single field.
type FieldError struct {
	Field   entitlements.Field
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Compose builds the multipart body for the given tier. Fields the tier may
// not use are dropped even when the input carries them.
//
// Create mode skips empty values and appends subscription_type. Edit mode
// sends every allowed text field so values can be cleared, and files only
// when a new one was picked.
func Compose(mode Mode, tier entitlements.Tier, in Input) (*backend.Form, error) {
	form := &backend.Form{}

	for _, spec := range entitlements.AllowedFields(tier) {
		if spec.IsFile() {
			up, ok := in.Files[string(spec.Name)]
			if !ok || len(up.Data) == 0 {
				continue
			}
			file, err := prepareFile(spec, up)
			if err != nil {
				return nil, err
			}
			form.AddFile(*file)
			continue
		}

		value, present := in.Values[string(spec.Name)]
		value = strings.TrimSpace(value)

		if spec.Required && value == "" && (mode == ModeCreate || present) {
			return nil, &FieldError{Field: spec.Name, Message: spec.Label + " is required"}
		}

		switch mode {
		case ModeCreate:
			if value == "" {
				continue
			}
			form.Set(string(spec.Name), value)
		case ModeEdit:
			if !present {
				continue
			}
			form.Set(string(spec.Name), value)
		}
	}

	if mode == ModeCreate {
		form.Set("subscription_type", string(tier))
	}

	dropped := droppedFields(tier, in)
	if len(dropped) > 0 {
		log.Infof("[Composer] %s: dropped fields not allowed for %s: %s", mode, tier, strings.Join(dropped, ", "))
	}
	return form, nil
}

func prepareFile(spec entitlements.FieldSpec, up Upload) (*backend.FormFile, error) {
	switch spec.Name {
	case entitlements.FieldProfilePic:
		if len(up.Data) > upload.MaxImageBytes {
			return nil, &FieldError{Field: spec.Name, Message: "image is larger than 10 MB"}
		}
		if _, err := upload.ValidateImageBySniff(up.Filename, head(up.Data)); err != nil {
			return nil, &FieldError{Field: spec.Name, Message: err.Error()}
		}
		res, err := imageprocessor.NormalizeProfilePicture(up.Filename, up.Data)
		if err != nil {
			return nil, &FieldError{Field: spec.Name, Message: "image could not be read"}
		}
		return &backend.FormFile{Field: string(spec.Name), Filename: res.Filename, ContentType: res.ContentType, Data: res.Data}, nil

	case entitlements.FieldVideoIntro:
		if len(up.Data) > upload.MaxVideoBytes {
			return nil, &FieldError{Field: spec.Name, Message: "video is larger than 50 MB"}
		}
		mime, err := upload.ValidateVideoBySniff(up.Filename, head(up.Data))
		if err != nil {
			return nil, &FieldError{Field: spec.Name, Message: err.Error()}
		}
		return &backend.FormFile{Field: string(spec.Name), Filename: up.Filename, ContentType: mime, Data: up.Data}, nil
	}

	return nil, fmt.Errorf("no upload handling for %s", spec.Name)
}

func head(b []byte) []byte {
	if len(b) > 512 {
		return b[:512]
	}
	return b
}

func droppedFields(tier entitlements.Tier, in Input) []string {
	var out []string
	for name := range in.Values {
		if !entitlements.Allows(tier, entitlements.Field(name)) {
			out = append(out, name)
		}
	}
	for name, up := range in.Files {
		if len(up.Data) > 0 && !entitlements.Allows(tier, entitlements.Field(name)) {
			out = append(out, name)
		}
	}
	return out
}

// FromMultipart reads the table fields out of a parsed multipart form.
// Unknown parts are ignored.
func FromMultipart(mf *multipart.Form) (Input, error) {
	in := Input{Values: map[string]string{}, Files: map[string]Upload{}}
	if mf == nil {
		return in, nil
	}

	for _, spec := range entitlements.Fields {
		name := string(spec.Name)
		if !spec.IsFile() {
			if vals, ok := mf.Value[name]; ok && len(vals) > 0 {
				in.Values[name] = vals[0]
			}
			continue
		}

		fhs := mf.File[name]
		if len(fhs) == 0 || fhs[0].Size == 0 {
			continue
		}
		limit := int64(upload.MaxImageBytes)
		if spec.Name == entitlements.FieldVideoIntro {
			limit = upload.MaxVideoBytes
		}
		data, err := readFile(fhs[0], limit)
		if err != nil {
			return in, &FieldError{Field: spec.Name, Message: err.Error()}
		}
		in.Files[name] = Upload{Filename: fhs[0].Filename, Data: data}
	}
	return in, nil
}

var errTooLarge = errors.New("file is too large")

func readFile(fh *multipart.FileHeader, limit int64) ([]byte, error) {
	if fh.Size > limit {
		return nil, errTooLarge
	}
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, errTooLarge
	}
	return data, nil
}
