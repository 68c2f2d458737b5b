package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductAttribute adalah varian produk (kombinasi ukuran/warna/harga/stok).
type ProductAttribute struct {
	ID        string          `gorm:"size:36;not null;uniqueIndex;primary_key"`
	ProductID string          `gorm:"size:36;not null;index"`
	Size      *string         `gorm:"size:50"`
	Color     *string         `gorm:"size:50"`
	Price     decimal.Decimal `gorm:"type:decimal(16,2);not null"`
	Quantity  int             `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}
