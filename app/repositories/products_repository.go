package repositories

import (
	"context"
	"errors"
	"strings"

	"github.com/tokobulan/catalog-admin/app/models"
	"gorm.io/gorm"
)

type ProductRepositoryImpl interface {
	GetPaginated(ctx context.Context, limit, offset int) ([]models.Product, int64, error)
	SearchPaginated(ctx context.Context, keyword, categoryID string, limit, offset int) ([]models.Product, int64, error)
	GetByID(ctx context.Context, id string) (*models.Product, error)
	Create(ctx context.Context, tx *gorm.DB, product *models.Product) error
	Update(ctx context.Context, tx *gorm.DB, product *models.Product) error
	Delete(ctx context.Context, tx *gorm.DB, id string) error
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepositoryImpl {
	return &productRepository{db}
}

func (p *productRepository) GetPaginated(ctx context.Context, limit, offset int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	if err := p.db.WithContext(ctx).Model(&models.Product{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := p.db.WithContext(ctx).
		Preload("Category").
		Preload("ProductImages").
		Preload("ProductAttributes").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error

	return products, total, err
}

func (p *productRepository) SearchPaginated(ctx context.Context, keyword, categoryID string, limit, offset int) ([]models.Product, int64, error) {
	var products []models.Product
	var total int64

	query := p.db.WithContext(ctx).Model(&models.Product{})
	if keyword != "" {
		searchKeyword := "%" + strings.ToLower(keyword) + "%"
		query = query.Where("LOWER(name) LIKE ?", searchKeyword)
	}
	if categoryID != "" {
		query = query.Where("category_id = ?", categoryID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Preload("Category").
		Preload("ProductImages").
		Preload("ProductAttributes").
		Order("created_at DESC").
		Limit(limit).
		Offset(offset).
		Find(&products).Error

	return products, total, err
}

func (p *productRepository) GetByID(ctx context.Context, id string) (*models.Product, error) {
	var product models.Product
	err := p.db.WithContext(ctx).
		Preload("Category").
		Preload("ProductImages").
		Preload("ProductAttributes").
		First(&product, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &product, nil
}

func (p *productRepository) Create(ctx context.Context, tx *gorm.DB, product *models.Product) error {
	return tx.WithContext(ctx).Create(product).Error
}

func (p *productRepository) Update(ctx context.Context, tx *gorm.DB, product *models.Product) error {
	return tx.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", product.ID).
		Updates(map[string]interface{}{
			"name":        product.Name,
			"slug":        product.Slug,
			"category_id": product.CategoryID,
			"description": product.Description,
			"base_price":  product.BasePrice,
		}).Error
}

func (p *productRepository) Delete(ctx context.Context, tx *gorm.DB, id string) error {
	return tx.WithContext(ctx).Delete(&models.Product{}, "id = ?", id).Error
}
