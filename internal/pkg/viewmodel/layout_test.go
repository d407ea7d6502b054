package viewmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMediaURL(t *testing.T) {
	t.Setenv("MEDIA_BASE_URL", "https://api.provenpro.test/")

	assert.Equal(t, "", MediaURL(""))
	assert.Equal(t, "https://cdn.test/a.jpg", MediaURL("https://cdn.test/a.jpg"))
	assert.Equal(t, "https://api.provenpro.test/media/a.jpg", MediaURL("/media/a.jpg"))
	assert.Equal(t, "https://api.provenpro.test/media/a.jpg", MediaURL("media/a.jpg"))
}
