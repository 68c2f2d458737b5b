package admin

import (
	"log"
	"net/http"
)

func (h *AdminHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.categoryRepo.GetAll(r.Context())
	if err != nil {
		log.Printf("GetCategories: Gagal mengambil kategori: %v", err)
		h.render.JSON(w, http.StatusInternalServerError, jsonResponse{Success: false, Message: "Gagal mengambil kategori."})
		return
	}

	payloads := make([]categoryPayload, 0, len(categories))
	for _, c := range categories {
		payloads = append(payloads, categoryPayload{ID: c.ID, Name: c.Name, Slug: c.Slug})
	}

	h.render.JSON(w, http.StatusOK, jsonResponse{Success: true, Data: payloads})
}
