package imageprocessor

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/gofiber/fiber/v2/log"
	_ "golang.org/x/image/webp"
)

// Profile pictures are fit into this box before upload.
const (
	MaxProfilePicWidth  = 1024
	MaxProfilePicHeight = 1024
	JPEGQuality         = 85
)

// Result is an image ready to be sent to the backend.
type Result struct {
	Data        []byte
	Filename    string
	ContentType string
}

// NormalizeProfilePicture applies the EXIF orientation, fits the picture
// into MaxProfilePicWidth x MaxProfilePicHeight and re-encodes it. PNG and GIF
// become PNG to keep transparency, everything else becomes JPEG.
func NormalizeProfilePicture(filename string, data []byte) (*Result, error) {
	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}

	b := img.Bounds()
	if b.Dx() > MaxProfilePicWidth || b.Dy() > MaxProfilePicHeight {
		img = imaging.Fit(img, MaxProfilePicWidth, MaxProfilePicHeight, imaging.Lanczos)
	}

	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if base == "" || base == "." {
		base = "profile"
	}

	format, ext, contentType := imaging.JPEG, ".jpg", "image/jpeg"
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".png", ".gif":
		format, ext, contentType = imaging.PNG, ".png", "image/png"
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, imaging.JPEGQuality(JPEGQuality)); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}

	log.Debugf("[ImageProcessor] normalized %s: %dx%d -> %dx%d, %d bytes",
		filename, b.Dx(), b.Dy(), img.Bounds().Dx(), img.Bounds().Dy(), buf.Len())

	return &Result{
		Data:        buf.Bytes(),
		Filename:    base + ext,
		ContentType: contentType,
	}, nil
}
