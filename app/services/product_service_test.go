package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tokobulan/catalog-admin/app/apperrors"
	"github.com/tokobulan/catalog-admin/app/configs"
	"github.com/tokobulan/catalog-admin/app/models"
	"github.com/tokobulan/catalog-admin/app/models/migrations"
	"github.com/tokobulan/catalog-admin/app/repositories"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeImageStore meniru penyimpanan remote di memori, dengan injeksi
// kegagalan upload/delete untuk menguji jalur rollback.
type fakeImageStore struct {
	mu           sync.Mutex
	uploads      int
	failUploadAt int // ke-n (mulai 1); 0 berarti tidak pernah gagal
	failDelete   bool
	stored       map[string]bool
	deleted      []string
}

func newFakeImageStore() *fakeImageStore {
	return &fakeImageStore{stored: map[string]bool{}}
}

func (f *fakeImageStore) Upload(ctx context.Context, file io.Reader, filename string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads++
	if f.failUploadAt > 0 && f.uploads == f.failUploadAt {
		return "", errors.New("simulated upload failure")
	}
	publicID := fmt.Sprintf("products/fake-%d", f.uploads)
	f.stored[publicID] = true
	return publicID, nil
}

func (f *fakeImageStore) Delete(ctx context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return errors.New("simulated delete failure")
	}
	delete(f.stored, publicID)
	f.deleted = append(f.deleted, publicID)
	return nil
}

func (f *fakeImageStore) URL(publicID string) string {
	return "https://cdn.test/" + publicID
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, migrations.AutoMigrate(db))
	return db
}

type testEnv struct {
	svc      ProductServiceImpl
	db       *gorm.DB
	store    *fakeImageStore
	category *models.Category
}

func newTestService(t *testing.T) testEnv {
	t.Helper()

	db := newTestDB(t)
	store := newFakeImageStore()

	category := &models.Category{
		ID:   uuid.New().String(),
		Name: "Pakaian Pria",
		Slug: "pakaian-pria",
	}
	require.NoError(t, db.Create(category).Error)

	env := configs.ENV{
		MaxProductImages:  3,
		MaxImageSizeBytes: 2048 * 1024,
	}
	svc := NewProductService(
		db,
		repositories.NewProductRepository(db),
		repositories.NewProductImageRepository(db),
		repositories.NewProductAttributeRepository(db),
		repositories.NewCategoryRepository(db),
		store,
		env,
	)

	return testEnv{svc: svc, db: db, store: store, category: category}
}

func imageUpload(name string) ImageUpload {
	return ImageUpload{Filename: name, Size: 1024, File: strings.NewReader("fake-bytes")}
}

func intPtr(i int) *int {
	return &i
}

func validInput(categoryID string) ProductInput {
	return ProductInput{
		Name:       "Kaos Polos Hitam",
		CategoryID: categoryID,
		BasePrice:  decimal.NewFromInt(75000),
		Attributes: []AttributeInput{
			{Size: "M", Price: decimal.NewFromInt(80000), Quantity: 5},
		},
	}
}

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var count int64
	require.NoError(t, db.Model(model).Count(&count).Error)
	return count
}

func TestCreateProductWithMainImageIndex(t *testing.T) {
	te := newTestService(t)

	input := validInput(te.category.ID)
	input.Images = []ImageUpload{imageUpload("depan.jpg"), imageUpload("belakang.jpg")}
	input.MainImageIndex = intPtr(1)

	product, err := te.svc.CreateProduct(context.Background(), input)
	require.NoError(t, err)
	require.NotNil(t, product)

	require.Len(t, product.ProductImages, 2)
	mainCount := 0
	for _, img := range product.ProductImages {
		if img.IsMain {
			mainCount++
			assert.Equal(t, "products/fake-2", img.ImageURL)
		} else {
			assert.Equal(t, "products/fake-1", img.ImageURL)
		}
	}
	assert.Equal(t, 1, mainCount)

	require.Len(t, product.ProductAttributes, 1)
	require.NotNil(t, product.ProductAttributes[0].Size)
	assert.Equal(t, "M", *product.ProductAttributes[0].Size)
	assert.Equal(t, 5, product.ProductAttributes[0].Quantity)
}

func TestCreateProductDefaultsMainImageToFirst(t *testing.T) {
	te := newTestService(t)

	input := validInput(te.category.ID)
	input.Images = []ImageUpload{imageUpload("a.jpg"), imageUpload("b.jpg")}

	product, err := te.svc.CreateProduct(context.Background(), input)
	require.NoError(t, err)

	for _, img := range product.ProductImages {
		assert.Equal(t, img.ImageURL == "products/fake-1", img.IsMain)
	}
}

func TestCreateProductNormalizesEmptyVariantFields(t *testing.T) {
	te := newTestService(t)

	input := validInput(te.category.ID)
	input.Attributes = []AttributeInput{
		{Size: "  ", Color: "", Price: decimal.NewFromInt(10000), Quantity: 2},
	}

	product, err := te.svc.CreateProduct(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, product.ProductAttributes, 1)
	assert.Nil(t, product.ProductAttributes[0].Size)
	assert.Nil(t, product.ProductAttributes[0].Color)
}

func TestCreateProductUploadFailureLeavesNoRows(t *testing.T) {
	te := newTestService(t)
	te.store.failUploadAt = 2

	input := validInput(te.category.ID)
	input.Images = []ImageUpload{imageUpload("a.jpg"), imageUpload("b.jpg"), imageUpload("c.jpg")}

	product, err := te.svc.CreateProduct(context.Background(), input)
	require.Error(t, err)
	assert.Nil(t, product)
	assert.Equal(t, apperrors.KindOperation, apperrors.KindOf(err))

	assert.EqualValues(t, 0, countRows(t, te.db, &models.Product{}))
	assert.EqualValues(t, 0, countRows(t, te.db, &models.ProductImage{}))
	assert.EqualValues(t, 0, countRows(t, te.db, &models.ProductAttribute{}))

	// Upload pertama yang sudah berhasil harus dikompensasi.
	assert.Equal(t, []string{"products/fake-1"}, te.store.deleted)
}

func TestCreateProductCleanupFailureStillReturnsError(t *testing.T) {
	te := newTestService(t)
	te.store.failUploadAt = 2
	te.store.failDelete = true

	input := validInput(te.category.ID)
	input.Images = []ImageUpload{imageUpload("a.jpg"), imageUpload("b.jpg")}

	_, err := te.svc.CreateProduct(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindOperation, apperrors.KindOf(err))
	assert.EqualValues(t, 0, countRows(t, te.db, &models.Product{}))
}

func TestCreateProductRequiresAttribute(t *testing.T) {
	te := newTestService(t)

	input := validInput(te.category.ID)
	input.Attributes = nil

	_, err := te.svc.CreateProduct(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.EqualValues(t, 0, countRows(t, te.db, &models.Product{}))
}

func TestCreateProductRejectsUnknownCategory(t *testing.T) {
	te := newTestService(t)

	input := validInput(uuid.New().String())

	_, err := te.svc.CreateProduct(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestCreateProductRejectsTooManyImages(t *testing.T) {
	te := newTestService(t)

	input := validInput(te.category.ID)
	input.Images = []ImageUpload{
		imageUpload("a.jpg"), imageUpload("b.jpg"), imageUpload("c.jpg"), imageUpload("d.jpg"),
	}

	_, err := te.svc.CreateProduct(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Equal(t, 0, te.store.uploads)
}

func TestCreateProductRejectsUnsupportedFormat(t *testing.T) {
	te := newTestService(t)

	input := validInput(te.category.ID)
	input.Images = []ImageUpload{imageUpload("berkas.exe")}

	_, err := te.svc.CreateProduct(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Equal(t, 0, te.store.uploads)
}

func TestCreateProductRejectsOversizedImage(t *testing.T) {
	te := newTestService(t)

	input := validInput(te.category.ID)
	input.Images = []ImageUpload{{Filename: "besar.jpg", Size: 5 << 20, File: strings.NewReader("x")}}

	_, err := te.svc.CreateProduct(context.Background(), input)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Equal(t, 0, te.store.uploads)
}

func TestUpdateProductNotFound(t *testing.T) {
	te := newTestService(t)

	_, err := te.svc.UpdateProduct(context.Background(), uuid.New().String(), validInput(te.category.ID))
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestUpdateProductScalarFields(t *testing.T) {
	te := newTestService(t)

	created, err := te.svc.CreateProduct(context.Background(), validInput(te.category.ID))
	require.NoError(t, err)

	input := validInput(te.category.ID)
	input.Name = "Kaos Polos Putih"
	input.BasePrice = decimal.NewFromInt(85000)
	input.Attributes = []AttributeInput{
		{ID: created.ProductAttributes[0].ID, Size: "L", Price: decimal.NewFromInt(90000), Quantity: 7},
	}

	updated, err := te.svc.UpdateProduct(context.Background(), created.ID, input)
	require.NoError(t, err)

	assert.Equal(t, "Kaos Polos Putih", updated.Name)
	assert.NotEqual(t, created.Slug, updated.Slug)
	assert.True(t, updated.BasePrice.Equal(decimal.NewFromInt(85000)))
	require.Len(t, updated.ProductAttributes, 1)
	assert.Equal(t, created.ProductAttributes[0].ID, updated.ProductAttributes[0].ID)
	assert.Equal(t, 7, updated.ProductAttributes[0].Quantity)
	require.NotNil(t, updated.ProductAttributes[0].Size)
	assert.Equal(t, "L", *updated.ProductAttributes[0].Size)
}

func TestUpdateProductDeletingEveryVariantIsRejected(t *testing.T) {
	te := newTestService(t)

	created, err := te.svc.CreateProduct(context.Background(), validInput(te.category.ID))
	require.NoError(t, err)
	attributeID := created.ProductAttributes[0].ID

	input := validInput(te.category.ID)
	input.Attributes = []AttributeInput{
		{ID: attributeID, Deleted: true},
	}

	_, err = te.svc.UpdateProduct(context.Background(), created.ID, input)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindPolicy, apperrors.KindOf(err))

	// Penghapusan varian harus ikut di-rollback.
	var survivors []models.ProductAttribute
	require.NoError(t, te.db.Where("product_id = ?", created.ID).Find(&survivors).Error)
	require.Len(t, survivors, 1)
	assert.Equal(t, attributeID, survivors[0].ID)
}

func TestUpdateProductReplacesVariant(t *testing.T) {
	te := newTestService(t)

	created, err := te.svc.CreateProduct(context.Background(), validInput(te.category.ID))
	require.NoError(t, err)
	oldID := created.ProductAttributes[0].ID

	input := validInput(te.category.ID)
	input.Attributes = []AttributeInput{
		{ID: oldID, Deleted: true},
		{Price: decimal.NewFromInt(12000), Quantity: 3},
	}

	updated, err := te.svc.UpdateProduct(context.Background(), created.ID, input)
	require.NoError(t, err)

	require.Len(t, updated.ProductAttributes, 1)
	assert.NotEqual(t, oldID, updated.ProductAttributes[0].ID)
	assert.Equal(t, 3, updated.ProductAttributes[0].Quantity)
	assert.True(t, updated.ProductAttributes[0].Price.Equal(decimal.NewFromInt(12000)))
}

func TestUpdateProductImageCapCheckedBeforeUpload(t *testing.T) {
	te := newTestService(t)

	createInput := validInput(te.category.ID)
	createInput.Images = []ImageUpload{imageUpload("a.jpg"), imageUpload("b.jpg")}
	created, err := te.svc.CreateProduct(context.Background(), createInput)
	require.NoError(t, err)

	uploadsBefore := te.store.uploads

	input := validInput(te.category.ID)
	input.Attributes = []AttributeInput{{ID: created.ProductAttributes[0].ID, Price: decimal.NewFromInt(80000), Quantity: 5}}
	input.Images = []ImageUpload{imageUpload("c.jpg"), imageUpload("d.jpg")}

	_, err = te.svc.UpdateProduct(context.Background(), created.ID, input)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
	assert.Equal(t, uploadsBefore, te.store.uploads)
}

func TestUpdateProductNewMainImage(t *testing.T) {
	te := newTestService(t)

	createInput := validInput(te.category.ID)
	createInput.Images = []ImageUpload{imageUpload("lama.jpg")}
	created, err := te.svc.CreateProduct(context.Background(), createInput)
	require.NoError(t, err)

	input := validInput(te.category.ID)
	input.Attributes = []AttributeInput{{ID: created.ProductAttributes[0].ID, Price: decimal.NewFromInt(80000), Quantity: 5}}
	input.Images = []ImageUpload{imageUpload("baru.jpg")}
	input.MainImageIndex = intPtr(0)

	updated, err := te.svc.UpdateProduct(context.Background(), created.ID, input)
	require.NoError(t, err)

	require.Len(t, updated.ProductImages, 2)
	mainCount := 0
	for _, img := range updated.ProductImages {
		if img.IsMain {
			mainCount++
			assert.Equal(t, "products/fake-2", img.ImageURL)
		}
	}
	assert.Equal(t, 1, mainCount)
}

func TestUpdateProductInvalidMainIndexIgnored(t *testing.T) {
	te := newTestService(t)

	createInput := validInput(te.category.ID)
	createInput.Images = []ImageUpload{imageUpload("lama.jpg")}
	created, err := te.svc.CreateProduct(context.Background(), createInput)
	require.NoError(t, err)

	input := validInput(te.category.ID)
	input.Attributes = []AttributeInput{{ID: created.ProductAttributes[0].ID, Price: decimal.NewFromInt(80000), Quantity: 5}}
	input.Images = []ImageUpload{imageUpload("baru.jpg")}
	input.MainImageIndex = intPtr(5)

	updated, err := te.svc.UpdateProduct(context.Background(), created.ID, input)
	require.NoError(t, err)

	// Gambar utama lama tidak berubah.
	for _, img := range updated.ProductImages {
		assert.Equal(t, img.ImageURL == "products/fake-1", img.IsMain)
	}
}

func TestUpdateProductUploadFailureRollsBackEverything(t *testing.T) {
	te := newTestService(t)

	created, err := te.svc.CreateProduct(context.Background(), validInput(te.category.ID))
	require.NoError(t, err)

	te.store.failUploadAt = te.store.uploads + 1

	input := validInput(te.category.ID)
	input.Name = "Nama Baru"
	input.Attributes = []AttributeInput{{ID: created.ProductAttributes[0].ID, Price: decimal.NewFromInt(80000), Quantity: 5}}
	input.Images = []ImageUpload{imageUpload("gagal.jpg")}

	_, err = te.svc.UpdateProduct(context.Background(), created.ID, input)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindOperation, apperrors.KindOf(err))

	var reloaded models.Product
	require.NoError(t, te.db.First(&reloaded, "id = ?", created.ID).Error)
	assert.Equal(t, created.Name, reloaded.Name)
	assert.EqualValues(t, 0, countRows(t, te.db, &models.ProductImage{}))
}

func TestDeleteProductRemovesAggregate(t *testing.T) {
	te := newTestService(t)

	createInput := validInput(te.category.ID)
	createInput.Images = []ImageUpload{imageUpload("a.jpg"), imageUpload("b.jpg")}
	created, err := te.svc.CreateProduct(context.Background(), createInput)
	require.NoError(t, err)

	require.NoError(t, te.svc.DeleteProduct(context.Background(), created.ID))

	assert.EqualValues(t, 0, countRows(t, te.db, &models.Product{}))
	assert.EqualValues(t, 0, countRows(t, te.db, &models.ProductImage{}))
	assert.EqualValues(t, 0, countRows(t, te.db, &models.ProductAttribute{}))
	assert.ElementsMatch(t, []string{"products/fake-1", "products/fake-2"}, te.store.deleted)
}

func TestDeleteProductSucceedsWhenRemoteDeleteFails(t *testing.T) {
	te := newTestService(t)

	createInput := validInput(te.category.ID)
	createInput.Images = []ImageUpload{imageUpload("a.jpg")}
	created, err := te.svc.CreateProduct(context.Background(), createInput)
	require.NoError(t, err)

	te.store.failDelete = true

	require.NoError(t, te.svc.DeleteProduct(context.Background(), created.ID))
	assert.EqualValues(t, 0, countRows(t, te.db, &models.Product{}))
}

func TestDeleteProductNotFound(t *testing.T) {
	te := newTestService(t)

	err := te.svc.DeleteProduct(context.Background(), uuid.New().String())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestDeleteImageRejectsMainImage(t *testing.T) {
	te := newTestService(t)

	createInput := validInput(te.category.ID)
	createInput.Images = []ImageUpload{imageUpload("a.jpg"), imageUpload("b.jpg")}
	created, err := te.svc.CreateProduct(context.Background(), createInput)
	require.NoError(t, err)

	var mainImage models.ProductImage
	require.NoError(t, te.db.First(&mainImage, "product_id = ? AND is_main = ?", created.ID, true).Error)

	err = te.svc.DeleteImage(context.Background(), mainImage.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindPolicy, apperrors.KindOf(err))
	assert.EqualValues(t, 2, countRows(t, te.db, &models.ProductImage{}))
}

func TestDeleteImageRejectsLastImage(t *testing.T) {
	te := newTestService(t)

	created, err := te.svc.CreateProduct(context.Background(), validInput(te.category.ID))
	require.NoError(t, err)

	// Satu-satunya gambar, sengaja tanpa flag utama, supaya aturan
	// "gambar terakhir" yang terpicu.
	image := &models.ProductImage{
		ID:        uuid.New().String(),
		ProductID: created.ID,
		ImageURL:  "products/satu-satunya",
		IsMain:    false,
	}
	require.NoError(t, te.db.Create(image).Error)

	err = te.svc.DeleteImage(context.Background(), image.ID)
	require.Error(t, err)
	assert.Equal(t, apperrors.KindPolicy, apperrors.KindOf(err))
	assert.EqualValues(t, 1, countRows(t, te.db, &models.ProductImage{}))
}

func TestDeleteImageRemovesNonMainImage(t *testing.T) {
	te := newTestService(t)

	createInput := validInput(te.category.ID)
	createInput.Images = []ImageUpload{imageUpload("a.jpg"), imageUpload("b.jpg")}
	created, err := te.svc.CreateProduct(context.Background(), createInput)
	require.NoError(t, err)

	var nonMain models.ProductImage
	require.NoError(t, te.db.First(&nonMain, "product_id = ? AND is_main = ?", created.ID, false).Error)

	require.NoError(t, te.svc.DeleteImage(context.Background(), nonMain.ID))

	assert.EqualValues(t, 1, countRows(t, te.db, &models.ProductImage{}))
	assert.Contains(t, te.store.deleted, nonMain.ImageURL)
}

func TestDeleteImageNotFound(t *testing.T) {
	te := newTestService(t)

	err := te.svc.DeleteImage(context.Background(), uuid.New().String())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}

func TestSetMainImageSwitchesExactlyOneFlag(t *testing.T) {
	te := newTestService(t)

	createInput := validInput(te.category.ID)
	createInput.Images = []ImageUpload{imageUpload("a.jpg"), imageUpload("b.jpg"), imageUpload("c.jpg")}
	created, err := te.svc.CreateProduct(context.Background(), createInput)
	require.NoError(t, err)

	var images []models.ProductImage
	require.NoError(t, te.db.Where("product_id = ?", created.ID).Find(&images).Error)
	require.Len(t, images, 3)

	require.NoError(t, te.svc.SetMainImage(context.Background(), images[1].ID))
	require.NoError(t, te.svc.SetMainImage(context.Background(), images[2].ID))

	var reloaded []models.ProductImage
	require.NoError(t, te.db.Where("product_id = ?", created.ID).Find(&reloaded).Error)
	for _, img := range reloaded {
		assert.Equal(t, img.ID == images[2].ID, img.IsMain)
	}
}

func TestSetMainImageNotFound(t *testing.T) {
	te := newTestService(t)

	err := te.svc.SetMainImage(context.Background(), uuid.New().String())
	require.Error(t, err)
	assert.Equal(t, apperrors.KindNotFound, apperrors.KindOf(err))
}
