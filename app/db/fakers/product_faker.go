package fakers

import (
	"math"
	"math/rand"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"github.com/tokobulan/catalog-admin/app/models"
)

var sampleSizes = []string{"S", "M", "L", "XL"}
var sampleColors = []string{"Hitam", "Putih", "Merah", "Biru"}

// samplePublicIDs meniru public ID Cloudinary untuk data seeding; tidak ada
// berkas yang sungguh diunggah.
var samplePublicIDs = []string{
	"products/sample-1",
	"products/sample-2",
	"products/sample-3",
}

func ProductFaker(category *models.Category) *models.Product {
	name := faker.Name()

	productID := uuid.New().String()
	slugText := slug.Make(name) + "-" + productID[:8]

	numImages := rand.Intn(3) + 1
	productImages := make([]models.ProductImage, numImages)
	for i := 0; i < numImages; i++ {
		productImages[i] = models.ProductImage{
			ID:        uuid.New().String(),
			ProductID: productID,
			ImageURL:  samplePublicIDs[rand.Intn(len(samplePublicIDs))],
			IsMain:    i == 0,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
	}

	numAttributes := rand.Intn(3) + 1
	productAttributes := make([]models.ProductAttribute, numAttributes)
	for i := 0; i < numAttributes; i++ {
		size := sampleSizes[rand.Intn(len(sampleSizes))]
		color := sampleColors[rand.Intn(len(sampleColors))]
		productAttributes[i] = models.ProductAttribute{
			ID:        uuid.New().String(),
			ProductID: productID,
			Size:      &size,
			Color:     &color,
			Price:     decimal.NewFromFloat(fakePrice()),
			Quantity:  rand.Intn(20) + 1,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}
	}

	return &models.Product{
		ID:                productID,
		Name:              name,
		Slug:              slugText,
		CategoryID:        category.ID,
		Description:       faker.Paragraph(),
		BasePrice:         decimal.NewFromFloat(fakePrice()),
		ProductImages:     productImages,
		ProductAttributes: productAttributes,
		CreatedAt:         time.Now(),
		UpdatedAt:         time.Now(),
	}
}

func fakePrice() float64 {
	return precision(rand.Float64()*math.Pow10(rand.Intn(6)+2), 2)
}

func precision(val float64, pre int) float64 {
	a := math.Pow10(pre)
	return float64(int(val*a)) / a
}
