package services

import (
	"context"
	"io"
)

// ImageStore adalah kontrak penyimpanan gambar remote (CDN). Upload
// mengembalikan public ID yang stabil, bukan URL jadi; URL dibangun terpisah
// lewat URL().
type ImageStore interface {
	Upload(ctx context.Context, file io.Reader, filename string) (string, error)
	Delete(ctx context.Context, publicID string) error
	URL(publicID string) string
}
