package upload

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"
)

const (
	MaxImageBytes = 10 << 20
	MaxVideoBytes = 50 << 20
)

var allowedImageExt = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
	// SVG stays out, it can carry scripts
}

var allowedImageMime = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
	"image/webp": true,
}

var allowedVideoExt = map[string]string{
	".mp4":  "video/mp4",
	".m4v":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
}

var allowedVideoMime = map[string]bool{
	"video/mp4":  true,
	"video/webm": true,
}

// ValidateImageBySniff checks the provided filename (extension) and the first bytes (head)
// against a whitelist of image types. Returns detected mime or an error.
func ValidateImageBySniff(filename string, head []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !allowedImageExt[ext] {
		return "", errors.New("Only JPG, JPEG, PNG, GIF and WEBP images are supported")
	}

	detected := http.DetectContentType(head)
	if err := rejectMarkup(detected); err != nil {
		return "", err
	}

	if allowedImageMime[detected] {
		return detected, nil
	}
	return "", errors.New("This file type is not supported")
}

// ValidateVideoBySniff accepts MP4, WebM and QuickTime. QuickTime has no
// reliable signature in the standard sniffer, so it is allowed by extension.
func ValidateVideoBySniff(filename string, head []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	byExt, ok := allowedVideoExt[ext]
	if !ok {
		return "", errors.New("Only MP4, WEBM and MOV videos are supported")
	}

	detected := http.DetectContentType(head)
	if err := rejectMarkup(detected); err != nil {
		return "", err
	}

	if allowedVideoMime[detected] {
		return detected, nil
	}
	if detected == "application/octet-stream" && byExt == "video/quicktime" {
		return byExt, nil
	}
	return "", errors.New("This file type is not supported")
}

func rejectMarkup(detected string) error {
	if strings.HasPrefix(detected, "text/html") || strings.HasPrefix(detected, "application/xhtml") {
		return errors.New("Invalid file type: HTML content is not allowed")
	}
	if strings.HasPrefix(detected, "text/xml") || strings.HasPrefix(detected, "application/xml") || detected == "image/svg+xml" {
		return errors.New("SVG/XML files are not supported")
	}
	return nil
}
