package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID                string             `gorm:"size:36;not null;uniqueIndex;primary_key"`
	Name              string             `gorm:"size:191;not null"`
	Slug              string             `gorm:"size:255;not null;uniqueIndex"`
	CategoryID        string             `gorm:"size:36;not null;index"`
	Category          Category           `gorm:"foreignKey:CategoryID"`
	Description       string             `gorm:"type:text"`
	BasePrice         decimal.Decimal    `gorm:"type:decimal(16,2);not null"`
	ProductImages     []ProductImage     `gorm:"constraint:OnDelete:CASCADE"`
	ProductAttributes []ProductAttribute `gorm:"constraint:OnDelete:CASCADE"`
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// MainImage mengembalikan gambar utama produk, atau nil jika produk belum punya gambar.
func (p *Product) MainImage() *ProductImage {
	for i := range p.ProductImages {
		if p.ProductImages[i].IsMain {
			return &p.ProductImages[i]
		}
	}
	return nil
}
