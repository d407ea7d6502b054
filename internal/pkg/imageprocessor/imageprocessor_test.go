package imageprocessor_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SuriyaPasupathi/proven-pro-frontend/internal/pkg/imageprocessor"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.NRGBA{R: 200, A: 255})
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalizeProfilePictureFitsLargeImages(t *testing.T) {
	res, err := imageprocessor.NormalizeProfilePicture("portrait.png", encodePNG(t, 2048, 1024))
	require.NoError(t, err)
	assert.Equal(t, "portrait.png", res.Filename)
	assert.Equal(t, "image/png", res.ContentType)

	out, err := imaging.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, 1024, out.Bounds().Dx())
	assert.Equal(t, 512, out.Bounds().Dy())
}

func TestNormalizeProfilePictureKeepsSmallImages(t *testing.T) {
	res, err := imageprocessor.NormalizeProfilePicture("tiny.webp.jpeg", encodePNG(t, 40, 30))
	require.NoError(t, err)
	assert.Equal(t, "tiny.webp.jpg", res.Filename)
	assert.Equal(t, "image/jpeg", res.ContentType)

	out, err := imaging.Decode(bytes.NewReader(res.Data))
	require.NoError(t, err)
	assert.Equal(t, 40, out.Bounds().Dx())
	assert.Equal(t, 30, out.Bounds().Dy())
}

func TestNormalizeProfilePictureRejectsGarbage(t *testing.T) {
	_, err := imageprocessor.NormalizeProfilePicture("x.png", []byte("not an image"))
	assert.Error(t, err)
}
