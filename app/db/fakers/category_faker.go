package fakers

import (
	"time"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/tokobulan/catalog-admin/app/models"
)

func CategoryFaker(name string) *models.Category {
	return &models.Category{
		ID:        uuid.New().String(),
		Name:      name,
		Slug:      slug.Make(name),
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
}
