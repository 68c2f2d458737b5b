package repositories

import (
	"context"
	"errors"

	"github.com/tokobulan/catalog-admin/app/models"
	"gorm.io/gorm"
)

type ProductImageRepositoryImpl interface {
	GetByID(ctx context.Context, id string) (*models.ProductImage, error)
	GetByProductID(ctx context.Context, productID string) ([]models.ProductImage, error)
	CountByProductID(ctx context.Context, productID string) (int64, error)
	Create(ctx context.Context, tx *gorm.DB, image *models.ProductImage) error
	ClearMainFlags(ctx context.Context, tx *gorm.DB, productID string) error
	SetMain(ctx context.Context, tx *gorm.DB, imageID string) error
	Delete(ctx context.Context, id string) error
	DeleteByProductID(ctx context.Context, tx *gorm.DB, productID string) error
}

type productImageRepository struct {
	db *gorm.DB
}

func NewProductImageRepository(db *gorm.DB) ProductImageRepositoryImpl {
	return &productImageRepository{db: db}
}

func (r *productImageRepository) GetByID(ctx context.Context, id string) (*models.ProductImage, error) {
	var image models.ProductImage
	err := r.db.WithContext(ctx).First(&image, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

func (r *productImageRepository) GetByProductID(ctx context.Context, productID string) ([]models.ProductImage, error) {
	var images []models.ProductImage
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&images).Error
	return images, err
}

func (r *productImageRepository) CountByProductID(ctx context.Context, productID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.ProductImage{}).
		Where("product_id = ?", productID).
		Count(&count).Error
	return count, err
}

func (r *productImageRepository) Create(ctx context.Context, tx *gorm.DB, image *models.ProductImage) error {
	return tx.WithContext(ctx).Create(image).Error
}

func (r *productImageRepository) ClearMainFlags(ctx context.Context, tx *gorm.DB, productID string) error {
	return tx.WithContext(ctx).Model(&models.ProductImage{}).
		Where("product_id = ?", productID).
		Update("is_main", false).Error
}

func (r *productImageRepository) SetMain(ctx context.Context, tx *gorm.DB, imageID string) error {
	return tx.WithContext(ctx).Model(&models.ProductImage{}).
		Where("id = ?", imageID).
		Update("is_main", true).Error
}

func (r *productImageRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&models.ProductImage{}, "id = ?", id).Error
}

func (r *productImageRepository) DeleteByProductID(ctx context.Context, tx *gorm.DB, productID string) error {
	return tx.WithContext(ctx).Delete(&models.ProductImage{}, "product_id = ?", productID).Error
}
