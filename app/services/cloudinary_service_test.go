package services

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokobulan/catalog-admin/app/configs"
)

func newOfflineCloudinary(t *testing.T) *CloudinaryService {
	t.Helper()
	svc, err := NewCloudinaryService(configs.ENV{
		CLOUDINARY_CLOUD_NAME: "demo-cloud",
		CLOUDINARY_API_KEY:    "key",
		CLOUDINARY_API_SECRET: "secret",
		CLOUDINARY_FOLDER:     "products",
	})
	require.NoError(t, err)
	return svc
}

func TestCloudinaryURL(t *testing.T) {
	svc := newOfflineCloudinary(t)

	url := svc.URL("products/kaos-polos-abc123")
	assert.True(t, strings.HasPrefix(url, "https://"), "URL harus secure: %s", url)
	assert.Contains(t, url, "demo-cloud")
	assert.Contains(t, url, "products/kaos-polos-abc123")
	assert.Contains(t, url, "q_auto,f_auto")
}

func TestCloudinaryURLEmptyPublicID(t *testing.T) {
	svc := newOfflineCloudinary(t)
	assert.Equal(t, "", svc.URL(""))
}
