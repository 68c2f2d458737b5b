package repositories

import (
	"context"
	"errors"

	"github.com/tokobulan/catalog-admin/app/models"
	"gorm.io/gorm"
)

type ProductAttributeRepositoryImpl interface {
	GetByID(ctx context.Context, id string) (*models.ProductAttribute, error)
	GetByProductID(ctx context.Context, productID string) ([]models.ProductAttribute, error)
	Create(ctx context.Context, tx *gorm.DB, attribute *models.ProductAttribute) error
	Update(ctx context.Context, tx *gorm.DB, attribute *models.ProductAttribute) error
	DeleteByID(ctx context.Context, tx *gorm.DB, id, productID string) error
	DeleteByProductID(ctx context.Context, tx *gorm.DB, productID string) error
}

type productAttributeRepository struct {
	db *gorm.DB
}

func NewProductAttributeRepository(db *gorm.DB) ProductAttributeRepositoryImpl {
	return &productAttributeRepository{db: db}
}

func (r *productAttributeRepository) GetByID(ctx context.Context, id string) (*models.ProductAttribute, error) {
	var attribute models.ProductAttribute
	err := r.db.WithContext(ctx).First(&attribute, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &attribute, nil
}

func (r *productAttributeRepository) GetByProductID(ctx context.Context, productID string) ([]models.ProductAttribute, error) {
	var attributes []models.ProductAttribute
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&attributes).Error
	return attributes, err
}

func (r *productAttributeRepository) Create(ctx context.Context, tx *gorm.DB, attribute *models.ProductAttribute) error {
	return tx.WithContext(ctx).Create(attribute).Error
}

func (r *productAttributeRepository) Update(ctx context.Context, tx *gorm.DB, attribute *models.ProductAttribute) error {
	return tx.WithContext(ctx).Model(&models.ProductAttribute{}).
		Where("id = ? AND product_id = ?", attribute.ID, attribute.ProductID).
		Updates(map[string]interface{}{
			"size":     attribute.Size,
			"color":    attribute.Color,
			"price":    attribute.Price,
			"quantity": attribute.Quantity,
		}).Error
}

func (r *productAttributeRepository) DeleteByID(ctx context.Context, tx *gorm.DB, id, productID string) error {
	return tx.WithContext(ctx).Delete(&models.ProductAttribute{}, "id = ? AND product_id = ?", id, productID).Error
}

func (r *productAttributeRepository) DeleteByProductID(ctx context.Context, tx *gorm.DB, productID string) error {
	return tx.WithContext(ctx).Delete(&models.ProductAttribute{}, "product_id = ?", productID).Error
}
