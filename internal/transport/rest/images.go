package rest

import (
	"net/http"

	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/pkg/web"
)

func (h *Handler) ListImages(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	list, err := h.service.ListImages(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "fetch images")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

func (h *Handler) AddImage(w http.ResponseWriter, r *http.Request) {
	productID, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	var input service.ImageInputDto
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	added, err := h.service.AddImage(r.Context(), productID, input)
	if err != nil {
		h.respondServiceError(w, r, err, "add image")
		return
	}
	h.logger.InfoContext(r.Context(), "Image added successfully", "ID", added.ID, "ProductID", productID)
	web.RespondJSON(w, h.logger, http.StatusCreated, added)
}

// RemoveImage deletes an image and its backing file.
func (h *Handler) RemoveImage(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	if err := h.service.RemoveImage(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err, "remove image")
		return
	}
	h.logger.InfoContext(r.Context(), "Image removed successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetMainImage(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	img, err := h.service.SetMainImage(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "set main image")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, img)
}
