package admin

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/tokobulan/catalog-admin/app/models"
	"github.com/tokobulan/catalog-admin/app/repositories"
	"github.com/tokobulan/catalog-admin/app/services"
	"github.com/tokobulan/catalog-admin/app/utils/format"
	"github.com/unrolled/render"
)

type AdminHandler struct {
	render       *render.Render
	validator    *validator.Validate
	productSvc   services.ProductServiceImpl
	productRepo  repositories.ProductRepositoryImpl
	categoryRepo repositories.CategoryRepositoryImpl
	imageStore   services.ImageStore
}

func NewAdminHandler(
	render *render.Render,
	validator *validator.Validate,
	productSvc services.ProductServiceImpl,
	productRepo repositories.ProductRepositoryImpl,
	categoryRepo repositories.CategoryRepositoryImpl,
	imageStore services.ImageStore,
) *AdminHandler {
	return &AdminHandler{
		render:       render,
		validator:    validator,
		productSvc:   productSvc,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		imageStore:   imageStore,
	}
}

type ProductForm struct {
	Name        string `form:"name" validate:"required,min=3,max=191"`
	CategoryID  string `form:"category_id" validate:"required"`
	Description string `form:"description"`
	BasePrice   string `form:"base_price" validate:"required"`
}

// AttributePayload adalah satu baris varian dari field form "attributes"
// (array JSON). ID kosong berarti varian baru.
type AttributePayload struct {
	ID       string `json:"id"`
	Size     string `json:"size"`
	Color    string `json:"color"`
	Price    string `json:"price"`
	Quantity int    `json:"quantity"`
	Deleted  bool   `json:"deleted"`
}

type jsonResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

type productPayload struct {
	ID                 string             `json:"id"`
	Name               string             `json:"name"`
	Slug               string             `json:"slug"`
	CategoryID         string             `json:"category_id"`
	CategoryName       string             `json:"category_name,omitempty"`
	Description        string             `json:"description,omitempty"`
	BasePrice          decimal.Decimal    `json:"base_price"`
	BasePriceFormatted string             `json:"base_price_formatted"`
	Images             []imagePayload     `json:"images"`
	Attributes         []attributePayload `json:"attributes"`
	CreatedAt          time.Time          `json:"created_at"`
	UpdatedAt          time.Time          `json:"updated_at"`
}

type imagePayload struct {
	ID       string `json:"id"`
	ImageURL string `json:"image_url"`
	URL      string `json:"url"`
	IsMain   bool   `json:"is_main"`
}

type attributePayload struct {
	ID             string          `json:"id"`
	Size           *string         `json:"size"`
	Color          *string         `json:"color"`
	Price          decimal.Decimal `json:"price"`
	PriceFormatted string          `json:"price_formatted"`
	Quantity       int             `json:"quantity"`
}

type categoryPayload struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func (h *AdminHandler) toProductPayload(product *models.Product) productPayload {
	images := make([]imagePayload, 0, len(product.ProductImages))
	for _, img := range product.ProductImages {
		images = append(images, imagePayload{
			ID:       img.ID,
			ImageURL: img.ImageURL,
			URL:      h.imageStore.URL(img.ImageURL),
			IsMain:   img.IsMain,
		})
	}

	attributes := make([]attributePayload, 0, len(product.ProductAttributes))
	for _, attr := range product.ProductAttributes {
		attributes = append(attributes, attributePayload{
			ID:             attr.ID,
			Size:           attr.Size,
			Color:          attr.Color,
			Price:          attr.Price,
			PriceFormatted: format.Rupiah(attr.Price),
			Quantity:       attr.Quantity,
		})
	}

	return productPayload{
		ID:                 product.ID,
		Name:               product.Name,
		Slug:               product.Slug,
		CategoryID:         product.CategoryID,
		CategoryName:       product.Category.Name,
		Description:        product.Description,
		BasePrice:          product.BasePrice,
		BasePriceFormatted: format.Rupiah(product.BasePrice),
		Images:             images,
		Attributes:         attributes,
		CreatedAt:          product.CreatedAt,
		UpdatedAt:          product.UpdatedAt,
	}
}
