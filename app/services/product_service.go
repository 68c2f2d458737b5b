package services

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"github.com/tokobulan/catalog-admin/app/apperrors"
	"github.com/tokobulan/catalog-admin/app/configs"
	"github.com/tokobulan/catalog-admin/app/models"
	"github.com/tokobulan/catalog-admin/app/repositories"
	"gorm.io/gorm"
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
	".webp": true,
}

// ImageUpload adalah satu berkas gambar yang akan diunggah ke penyimpanan remote.
type ImageUpload struct {
	Filename string
	Size     int64
	File     io.Reader
}

// AttributeInput adalah satu spesifikasi varian dari form. ID kosong berarti
// varian baru; Deleted menandai baris yang harus dihapus saat update.
type AttributeInput struct {
	ID       string
	Size     string
	Color    string
	Price    decimal.Decimal
	Quantity int
	Deleted  bool
}

type ProductInput struct {
	Name           string
	CategoryID     string
	Description    string
	BasePrice      decimal.Decimal
	Images         []ImageUpload
	MainImageIndex *int
	Attributes     []AttributeInput
}

type ProductServiceImpl interface {
	CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id string, input ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	DeleteImage(ctx context.Context, imageID string) error
	SetMainImage(ctx context.Context, imageID string) error
}

// productService mengoordinasikan penulisan agregat produk (produk + gambar +
// varian) melintasi database dan penyimpanan gambar remote. Kedua penyimpanan
// tidak berbagi transaksi: transaksi database adalah sumber kebenaran, dan
// unggahan remote yang sudah terjadi dikompensasi dengan penghapusan
// best-effort saat rollback.
type productService struct {
	db            *gorm.DB
	productRepo   repositories.ProductRepositoryImpl
	imageRepo     repositories.ProductImageRepositoryImpl
	attributeRepo repositories.ProductAttributeRepositoryImpl
	categoryRepo  repositories.CategoryRepositoryImpl
	imageStore    ImageStore
	maxImages     int
	maxImageSize  int64
}

func NewProductService(
	db *gorm.DB,
	productRepo repositories.ProductRepositoryImpl,
	imageRepo repositories.ProductImageRepositoryImpl,
	attributeRepo repositories.ProductAttributeRepositoryImpl,
	categoryRepo repositories.CategoryRepositoryImpl,
	imageStore ImageStore,
	env configs.ENV,
) ProductServiceImpl {
	return &productService{
		db:            db,
		productRepo:   productRepo,
		imageRepo:     imageRepo,
		attributeRepo: attributeRepo,
		categoryRepo:  categoryRepo,
		imageStore:    imageStore,
		maxImages:     env.MaxProductImages,
		maxImageSize:  env.MaxImageSizeBytes,
	}
}

func (s *productService) CreateProduct(ctx context.Context, input ProductInput) (product *models.Product, err error) {
	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}
	if countNonDeletedAttributes(input.Attributes) == 0 {
		return nil, apperrors.Validation("Produk harus memiliki minimal satu varian.")
	}
	if len(input.Images) > s.maxImages {
		return nil, apperrors.Validationf("Jumlah gambar tidak boleh melebihi %d.", s.maxImages)
	}

	mainIndex := 0
	if input.MainImageIndex != nil && *input.MainImageIndex >= 0 && *input.MainImageIndex < len(input.Images) {
		mainIndex = *input.MainImageIndex
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperrors.Operation("Gagal memulai transaksi database.", tx.Error)
	}

	var uploadedPublicIDs []string
	defer func() {
		if r := recover(); r != nil {
			log.Printf("CreateProduct: PANIC, rolling back transaction: %v", r)
			tx.Rollback()
			s.cleanupUploads(ctx, uploadedPublicIDs)
			product = nil
			err = apperrors.Operation("Terjadi kesalahan tak terduga saat menyimpan produk.", fmt.Errorf("panic: %v", r))
		}
	}()

	fail := func(cause error) (*models.Product, error) {
		tx.Rollback()
		s.cleanupUploads(ctx, uploadedPublicIDs)
		return nil, cause
	}

	productID := uuid.New().String()
	newProduct := &models.Product{
		ID:          productID,
		Name:        input.Name,
		Slug:        slug.Make(input.Name) + "-" + productID[:8],
		CategoryID:  input.CategoryID,
		Description: input.Description,
		BasePrice:   input.BasePrice,
	}

	if err := s.productRepo.Create(ctx, tx, newProduct); err != nil {
		log.Printf("CreateProduct: Gagal menyimpan produk: %v", err)
		return fail(apperrors.Operation("Gagal menyimpan produk.", err))
	}

	for i, img := range input.Images {
		publicID, uploadErr := s.imageStore.Upload(ctx, img.File, img.Filename)
		if uploadErr != nil {
			log.Printf("CreateProduct: Failed to upload image %s: %v", img.Filename, uploadErr)
			return fail(apperrors.Operation("Tidak dapat mengunggah gambar "+img.Filename+".", uploadErr))
		}

		// Public ID dicatat sebelum insert supaya daftar kompensasi tetap
		// lengkap bila insert barisnya gagal.
		uploadedPublicIDs = append(uploadedPublicIDs, publicID)

		image := &models.ProductImage{
			ID:        uuid.New().String(),
			ProductID: productID,
			ImageURL:  publicID,
			IsMain:    i == mainIndex,
		}
		if err := s.imageRepo.Create(ctx, tx, image); err != nil {
			log.Printf("CreateProduct: Gagal menyimpan data gambar %s: %v", publicID, err)
			return fail(apperrors.Operation("Gagal menyimpan data gambar.", err))
		}
	}

	for _, attr := range input.Attributes {
		if attr.Deleted {
			continue
		}
		attribute := &models.ProductAttribute{
			ID:        uuid.New().String(),
			ProductID: productID,
			Size:      normalizeOptional(attr.Size),
			Color:     normalizeOptional(attr.Color),
			Price:     attr.Price,
			Quantity:  attr.Quantity,
		}
		if err := s.attributeRepo.Create(ctx, tx, attribute); err != nil {
			log.Printf("CreateProduct: Gagal menyimpan varian produk: %v", err)
			return fail(apperrors.Operation("Gagal menyimpan varian produk.", err))
		}
	}

	if commitErr := tx.Commit().Error; commitErr != nil {
		log.Printf("CreateProduct: Gagal commit transaksi: %v", commitErr)
		s.cleanupUploads(ctx, uploadedPublicIDs)
		return nil, apperrors.Operation("Gagal menyimpan produk.", commitErr)
	}

	created, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, apperrors.Operation("Produk tersimpan tetapi gagal dimuat ulang.", err)
	}
	return created, nil
}

func (s *productService) UpdateProduct(ctx context.Context, id string, input ProductInput) (product *models.Product, err error) {
	existing, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Operation("Gagal mengambil produk.", err)
	}
	if existing == nil {
		return nil, apperrors.NotFound("Produk tidak ditemukan.")
	}

	if err := s.validateInput(ctx, input); err != nil {
		return nil, err
	}

	// Batas total gambar dicek terhadap jumlah tersimpan sebelum ada upload.
	if len(input.Images) > 0 {
		currentCount, countErr := s.imageRepo.CountByProductID(ctx, id)
		if countErr != nil {
			return nil, apperrors.Operation("Gagal menghitung gambar produk.", countErr)
		}
		if int(currentCount)+len(input.Images) > s.maxImages {
			return nil, apperrors.Validationf("Jumlah gambar tidak boleh melebihi %d.", s.maxImages)
		}
	}

	// Indeks gambar utama baru hanya berlaku untuk batch gambar baru;
	// nilai di luar jangkauan diabaikan.
	var newMainIndex *int
	if input.MainImageIndex != nil && *input.MainImageIndex >= 0 && *input.MainImageIndex < len(input.Images) {
		newMainIndex = input.MainImageIndex
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, apperrors.Operation("Gagal memulai transaksi database.", tx.Error)
	}

	var uploadedPublicIDs []string
	defer func() {
		if r := recover(); r != nil {
			log.Printf("UpdateProduct: PANIC, rolling back transaction: %v", r)
			tx.Rollback()
			s.cleanupUploads(ctx, uploadedPublicIDs)
			product = nil
			err = apperrors.Operation("Terjadi kesalahan tak terduga saat memperbarui produk.", fmt.Errorf("panic: %v", r))
		}
	}()

	fail := func(cause error) (*models.Product, error) {
		tx.Rollback()
		s.cleanupUploads(ctx, uploadedPublicIDs)
		return nil, cause
	}

	if existing.Name != input.Name {
		existing.Slug = slug.Make(input.Name) + "-" + existing.ID[:8]
	}
	existing.Name = input.Name
	existing.CategoryID = input.CategoryID
	existing.Description = input.Description
	existing.BasePrice = input.BasePrice

	if err := s.productRepo.Update(ctx, tx, existing); err != nil {
		log.Printf("UpdateProduct: Gagal memperbarui produk %s: %v", id, err)
		return fail(apperrors.Operation("Gagal memperbarui produk.", err))
	}

	for i, img := range input.Images {
		publicID, uploadErr := s.imageStore.Upload(ctx, img.File, img.Filename)
		if uploadErr != nil {
			log.Printf("UpdateProduct: Failed to upload image %s: %v", img.Filename, uploadErr)
			return fail(apperrors.Operation("Tidak dapat mengunggah gambar "+img.Filename+".", uploadErr))
		}
		uploadedPublicIDs = append(uploadedPublicIDs, publicID)

		isMain := false
		if newMainIndex != nil && i == *newMainIndex {
			isMain = true
			if err := s.imageRepo.ClearMainFlags(ctx, tx, id); err != nil {
				log.Printf("UpdateProduct: Gagal mereset gambar utama produk %s: %v", id, err)
				return fail(apperrors.Operation("Gagal mengganti gambar utama.", err))
			}
		}

		image := &models.ProductImage{
			ID:        uuid.New().String(),
			ProductID: id,
			ImageURL:  publicID,
			IsMain:    isMain,
		}
		if err := s.imageRepo.Create(ctx, tx, image); err != nil {
			log.Printf("UpdateProduct: Gagal menyimpan data gambar %s: %v", publicID, err)
			return fail(apperrors.Operation("Gagal menyimpan data gambar.", err))
		}
	}

	hasValidAttribute := false
	for _, attr := range input.Attributes {
		if attr.Deleted {
			if attr.ID != "" {
				if err := s.attributeRepo.DeleteByID(ctx, tx, attr.ID, id); err != nil {
					log.Printf("UpdateProduct: Gagal menghapus varian %s: %v", attr.ID, err)
					return fail(apperrors.Operation("Gagal menghapus varian produk.", err))
				}
			}
			continue
		}

		hasValidAttribute = true

		if attr.ID != "" {
			attribute := &models.ProductAttribute{
				ID:        attr.ID,
				ProductID: id,
				Size:      normalizeOptional(attr.Size),
				Color:     normalizeOptional(attr.Color),
				Price:     attr.Price,
				Quantity:  attr.Quantity,
			}
			if err := s.attributeRepo.Update(ctx, tx, attribute); err != nil {
				log.Printf("UpdateProduct: Gagal memperbarui varian %s: %v", attr.ID, err)
				return fail(apperrors.Operation("Gagal memperbarui varian produk.", err))
			}
		} else {
			attribute := &models.ProductAttribute{
				ID:        uuid.New().String(),
				ProductID: id,
				Size:      normalizeOptional(attr.Size),
				Color:     normalizeOptional(attr.Color),
				Price:     attr.Price,
				Quantity:  attr.Quantity,
			}
			if err := s.attributeRepo.Create(ctx, tx, attribute); err != nil {
				log.Printf("UpdateProduct: Gagal menyimpan varian baru: %v", err)
				return fail(apperrors.Operation("Gagal menyimpan varian produk.", err))
			}
		}
	}

	// Dicek setelah penghapusan diterapkan di dalam transaksi: melanggar
	// aturan ini membatalkan seluruh update, bukan hanya langkah varian.
	if !hasValidAttribute {
		return fail(apperrors.Policy("Produk harus memiliki minimal satu varian."))
	}

	if commitErr := tx.Commit().Error; commitErr != nil {
		log.Printf("UpdateProduct: Gagal commit transaksi: %v", commitErr)
		s.cleanupUploads(ctx, uploadedPublicIDs)
		return nil, apperrors.Operation("Gagal memperbarui produk.", commitErr)
	}

	updated, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.Operation("Produk tersimpan tetapi gagal dimuat ulang.", err)
	}
	return updated, nil
}

func (s *productService) DeleteProduct(ctx context.Context, id string) error {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return apperrors.Operation("Gagal mengambil produk.", err)
	}
	if product == nil {
		return apperrors.NotFound("Produk tidak ditemukan.")
	}

	// Penghapusan remote dilakukan sebelum transaksi dan tidak bisa di-undo;
	// kegagalan per gambar dicatat lalu dilanjutkan karena database adalah
	// sumber kebenaran.
	for _, image := range product.ProductImages {
		if image.ImageURL == "" {
			continue
		}
		if err := s.imageStore.Delete(ctx, image.ImageURL); err != nil {
			log.Printf("DeleteProduct: Failed to delete image %s from remote store: %v", image.ImageURL, err)
		}
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return apperrors.Operation("Gagal memulai transaksi database.", tx.Error)
	}

	// Skema mendeklarasikan cascade FK; baris anak tetap dihapus eksplisit
	// supaya perilakunya sama di database yang tidak menegakkan FK.
	if err := s.attributeRepo.DeleteByProductID(ctx, tx, id); err != nil {
		tx.Rollback()
		return apperrors.Operation("Gagal menghapus varian produk.", err)
	}
	if err := s.imageRepo.DeleteByProductID(ctx, tx, id); err != nil {
		tx.Rollback()
		return apperrors.Operation("Gagal menghapus data gambar produk.", err)
	}
	if err := s.productRepo.Delete(ctx, tx, id); err != nil {
		log.Printf("DeleteProduct: Gagal menghapus produk %s: %v", id, err)
		tx.Rollback()
		return apperrors.Operation("Gagal menghapus produk.", err)
	}

	if commitErr := tx.Commit().Error; commitErr != nil {
		return apperrors.Operation("Gagal menghapus produk.", commitErr)
	}
	return nil
}

func (s *productService) DeleteImage(ctx context.Context, imageID string) error {
	image, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		return apperrors.Operation("Gagal mengambil data gambar.", err)
	}
	if image == nil {
		return apperrors.NotFound("Gambar tidak ditemukan.")
	}

	if image.IsMain {
		return apperrors.Policy("Tidak dapat menghapus gambar utama! Silakan pilih gambar utama lain terlebih dahulu.")
	}

	count, err := s.imageRepo.CountByProductID(ctx, image.ProductID)
	if err != nil {
		return apperrors.Operation("Gagal menghitung gambar produk.", err)
	}
	if count <= 1 {
		return apperrors.Policy("Tidak dapat menghapus gambar terakhir produk!")
	}

	if image.ImageURL != "" {
		if err := s.imageStore.Delete(ctx, image.ImageURL); err != nil {
			log.Printf("DeleteImage: Failed to delete image %s from remote store: %v", image.ImageURL, err)
		}
	}

	if err := s.imageRepo.Delete(ctx, image.ID); err != nil {
		log.Printf("DeleteImage: Gagal menghapus baris gambar %s: %v", image.ID, err)
		return apperrors.Operation("Gagal menghapus gambar.", err)
	}
	return nil
}

func (s *productService) SetMainImage(ctx context.Context, imageID string) error {
	image, err := s.imageRepo.GetByID(ctx, imageID)
	if err != nil {
		return apperrors.Operation("Gagal mengambil data gambar.", err)
	}
	if image == nil {
		return apperrors.NotFound("Gambar tidak ditemukan.")
	}

	tx := s.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return apperrors.Operation("Gagal memulai transaksi database.", tx.Error)
	}

	if err := s.imageRepo.ClearMainFlags(ctx, tx, image.ProductID); err != nil {
		tx.Rollback()
		return apperrors.Operation("Gagal mereset gambar utama.", err)
	}
	if err := s.imageRepo.SetMain(ctx, tx, image.ID); err != nil {
		tx.Rollback()
		return apperrors.Operation("Gagal mengatur gambar utama.", err)
	}

	if commitErr := tx.Commit().Error; commitErr != nil {
		return apperrors.Operation("Gagal mengatur gambar utama.", commitErr)
	}
	return nil
}

// cleanupUploads menghapus unggahan remote yang sudah terjadi setelah rollback
// database. Best-effort: kegagalan dicatat tanpa menggagalkan operasi karena
// tidak ada transaksi lintas kedua penyimpanan.
func (s *productService) cleanupUploads(ctx context.Context, publicIDs []string) {
	for _, publicID := range publicIDs {
		if err := s.imageStore.Delete(ctx, publicID); err != nil {
			log.Printf("ProductService: Failed to rollback image %s from remote store: %v", publicID, err)
		}
	}
}

func (s *productService) validateInput(ctx context.Context, input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperrors.Validation("Nama produk wajib diisi.")
	}
	if input.BasePrice.IsNegative() {
		return apperrors.Validation("Harga dasar tidak boleh negatif.")
	}

	if input.CategoryID == "" {
		return apperrors.Validation("Kategori tidak valid.")
	}
	exists, err := s.categoryRepo.Exists(ctx, input.CategoryID)
	if err != nil {
		return apperrors.Operation("Gagal memeriksa kategori.", err)
	}
	if !exists {
		return apperrors.Validation("Kategori tidak valid.")
	}

	for _, attr := range input.Attributes {
		if attr.Deleted {
			continue
		}
		if attr.Price.IsNegative() {
			return apperrors.Validation("Harga varian tidak boleh negatif.")
		}
		if attr.Quantity < 0 {
			return apperrors.Validation("Stok varian tidak boleh negatif.")
		}
	}

	for _, img := range input.Images {
		ext := strings.ToLower(filepath.Ext(img.Filename))
		if !allowedImageExts[ext] {
			return apperrors.Validationf("Format gambar %s tidak didukung.", img.Filename)
		}
		if img.Size > s.maxImageSize {
			return apperrors.Validationf("Ukuran gambar %s melebihi batas %d KB.", img.Filename, s.maxImageSize/1024)
		}
	}

	return nil
}

func countNonDeletedAttributes(attributes []AttributeInput) int {
	count := 0
	for _, attr := range attributes {
		if !attr.Deleted {
			count++
		}
	}
	return count
}

func normalizeOptional(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
