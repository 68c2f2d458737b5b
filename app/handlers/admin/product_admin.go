package admin

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/tokobulan/catalog-admin/app/apperrors"
	"github.com/tokobulan/catalog-admin/app/helpers"
	"github.com/tokobulan/catalog-admin/app/services"
)

const maxMultipartMemory = 32 << 20

func (h *AdminHandler) GetProducts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 || limit > 100 {
		limit = 20
	}
	offset := (page - 1) * limit

	keyword := r.URL.Query().Get("search")
	categoryID := r.URL.Query().Get("category_id")

	products, total, err := h.productRepo.SearchPaginated(r.Context(), keyword, categoryID, limit, offset)
	if err != nil {
		log.Printf("GetProducts: Gagal mengambil daftar produk: %v", err)
		h.render.JSON(w, http.StatusInternalServerError, jsonResponse{Success: false, Message: "Gagal mengambil daftar produk."})
		return
	}

	payloads := make([]productPayload, 0, len(products))
	for i := range products {
		payloads = append(payloads, h.toProductPayload(&products[i]))
	}

	totalPages := (total + int64(limit) - 1) / int64(limit)
	h.render.JSON(w, http.StatusOK, jsonResponse{
		Success: true,
		Data: map[string]interface{}{
			"products":    payloads,
			"total":       total,
			"page":        page,
			"limit":       limit,
			"total_pages": totalPages,
		},
	})
}

func (h *AdminHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	productID := vars["id"]

	product, err := h.productRepo.GetByID(r.Context(), productID)
	if err != nil {
		log.Printf("GetProduct: Error mencari produk %s: %v", productID, err)
		h.render.JSON(w, http.StatusInternalServerError, jsonResponse{Success: false, Message: "Gagal mengambil produk."})
		return
	}
	if product == nil {
		h.render.JSON(w, http.StatusNotFound, jsonResponse{Success: false, Message: "Produk tidak ditemukan."})
		return
	}

	h.render.JSON(w, http.StatusOK, jsonResponse{Success: true, Data: h.toProductPayload(product)})
}

func (h *AdminHandler) AddProductPost(w http.ResponseWriter, r *http.Request) {
	input, closers, ok := h.parseProductInput(w, r, "main_image_index")
	defer closeAll(closers)
	if !ok {
		return
	}

	product, err := h.productSvc.CreateProduct(r.Context(), input)
	if err != nil {
		log.Printf("AddProductPost: Gagal membuat produk: %v", err)
		h.respondError(w, err)
		return
	}
	log.Printf("AddProductPost: Produk %s berhasil dibuat.", product.ID)

	h.render.JSON(w, http.StatusCreated, jsonResponse{
		Success: true,
		Message: "Produk berhasil ditambahkan!",
		Data:    h.toProductPayload(product),
	})
}

func (h *AdminHandler) EditProductPost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	productID := vars["id"]

	input, closers, ok := h.parseProductInput(w, r, "new_main_image_index")
	defer closeAll(closers)
	if !ok {
		return
	}

	product, err := h.productSvc.UpdateProduct(r.Context(), productID, input)
	if err != nil {
		log.Printf("EditProductPost: Gagal memperbarui produk %s: %v", productID, err)
		h.respondError(w, err)
		return
	}

	h.render.JSON(w, http.StatusOK, jsonResponse{
		Success: true,
		Message: "Produk berhasil diperbarui!",
		Data:    h.toProductPayload(product),
	})
}

func (h *AdminHandler) DeleteProductPost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	productID := vars["id"]

	if err := h.productSvc.DeleteProduct(r.Context(), productID); err != nil {
		log.Printf("DeleteProductPost: Gagal menghapus produk %s: %v", productID, err)
		h.respondError(w, err)
		return
	}

	h.render.JSON(w, http.StatusOK, jsonResponse{Success: true, Message: "Produk berhasil dihapus!"})
}

func (h *AdminHandler) DeleteImagePost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	imageID := vars["id"]

	if err := h.productSvc.DeleteImage(r.Context(), imageID); err != nil {
		log.Printf("DeleteImagePost: Gagal menghapus gambar %s: %v", imageID, err)
		h.respondError(w, err)
		return
	}

	h.render.JSON(w, http.StatusOK, jsonResponse{Success: true, Message: "Gambar berhasil dihapus!"})
}

func (h *AdminHandler) SetMainImagePost(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	imageID := vars["id"]

	if err := h.productSvc.SetMainImage(r.Context(), imageID); err != nil {
		log.Printf("SetMainImagePost: Gagal mengatur gambar utama %s: %v", imageID, err)
		h.respondError(w, err)
		return
	}

	h.render.JSON(w, http.StatusOK, jsonResponse{Success: true, Message: "Berhasil menetapkan gambar utama!"})
}

// parseProductInput membaca form multipart menjadi services.ProductInput.
// Bila false dikembalikan, respons error sudah ditulis. Pemanggil wajib
// menutup closers setelah service selesai membaca berkas.
func (h *AdminHandler) parseProductInput(w http.ResponseWriter, r *http.Request, mainIndexField string) (services.ProductInput, []io.Closer, bool) {
	var input services.ProductInput
	var closers []io.Closer

	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		log.Printf("parseProductInput: Kesalahan parsing form: %v", err)
		h.render.JSON(w, http.StatusBadRequest, jsonResponse{Success: false, Message: "Kesalahan parsing form."})
		return input, closers, false
	}

	form := ProductForm{
		Name:        r.PostFormValue("name"),
		CategoryID:  r.PostFormValue("category_id"),
		Description: r.PostFormValue("description"),
		BasePrice:   r.PostFormValue("base_price"),
	}

	if err := h.validator.Struct(&form); err != nil {
		validationErrors := err.(validator.ValidationErrors)
		formattedErrors := helpers.FormatValidationErrors(validationErrors)
		log.Printf("parseProductInput: Validasi form gagal: %+v", formattedErrors)
		h.render.JSON(w, http.StatusBadRequest, jsonResponse{
			Success: false,
			Message: "Data produk tidak valid.",
			Errors:  formattedErrors,
		})
		return input, closers, false
	}

	basePrice, err := decimal.NewFromString(form.BasePrice)
	if err != nil {
		h.render.JSON(w, http.StatusBadRequest, jsonResponse{Success: false, Message: "Format harga tidak valid."})
		return input, closers, false
	}

	attributes, err := parseAttributes(r.PostFormValue("attributes"))
	if err != nil {
		h.render.JSON(w, http.StatusBadRequest, jsonResponse{Success: false, Message: apperrors.UserMessage(err)})
		return input, closers, false
	}

	input.Name = form.Name
	input.CategoryID = form.CategoryID
	input.Description = form.Description
	input.BasePrice = basePrice
	input.Attributes = attributes

	if v := r.PostFormValue(mainIndexField); v != "" {
		if idx, convErr := strconv.Atoi(v); convErr == nil {
			input.MainImageIndex = &idx
		}
	}

	if r.MultipartForm != nil {
		for _, fileHeader := range r.MultipartForm.File["images"] {
			file, openErr := fileHeader.Open()
			if openErr != nil {
				log.Printf("parseProductInput: Gagal membuka berkas %s: %v", fileHeader.Filename, openErr)
				h.render.JSON(w, http.StatusBadRequest, jsonResponse{Success: false, Message: "Gagal membaca berkas gambar."})
				return input, closers, false
			}
			closers = append(closers, file)
			input.Images = append(input.Images, services.ImageUpload{
				Filename: fileHeader.Filename,
				Size:     fileHeader.Size,
				File:     file,
			})
		}
	}

	return input, closers, true
}

func parseAttributes(raw string) ([]services.AttributeInput, error) {
	if raw == "" {
		return nil, nil
	}

	var payloads []AttributePayload
	if err := json.Unmarshal([]byte(raw), &payloads); err != nil {
		return nil, apperrors.Validation("Format data varian tidak valid.")
	}

	attributes := make([]services.AttributeInput, 0, len(payloads))
	for _, p := range payloads {
		price := decimal.Zero
		if p.Price != "" {
			parsed, err := decimal.NewFromString(p.Price)
			if err != nil {
				return nil, apperrors.Validation("Format harga varian tidak valid.")
			}
			price = parsed
		}
		attributes = append(attributes, services.AttributeInput{
			ID:       p.ID,
			Size:     p.Size,
			Color:    p.Color,
			Price:    price,
			Quantity: p.Quantity,
			Deleted:  p.Deleted,
		})
	}
	return attributes, nil
}

func (h *AdminHandler) respondError(w http.ResponseWriter, err error) {
	h.render.JSON(w, apperrors.HTTPStatus(err), jsonResponse{
		Success: false,
		Message: apperrors.UserMessage(err),
	})
}

func closeAll(closers []io.Closer) {
	for _, c := range closers {
		_ = c.Close()
	}
}
