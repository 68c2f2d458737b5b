package models

import "time"

// ProductImage menyimpan referensi gambar produk. ImageURL berisi public ID
// dari penyimpanan gambar remote (Cloudinary), bukan URL jadi.
type ProductImage struct {
	ID        string `gorm:"size:36;not null;uniqueIndex;primary_key"`
	ProductID string `gorm:"size:36;not null;index"`
	ImageURL  string `gorm:"size:255;not null"`
	IsMain    bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
