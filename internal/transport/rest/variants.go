package rest

import (
	"net/http"

	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/pkg/web"
)

func (h *Handler) ListVariants(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	list, err := h.service.ListVariants(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "fetch variants")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// UpsertVariant creates a variant or reactivates the existing one with the same size.
func (h *Handler) UpsertVariant(w http.ResponseWriter, r *http.Request) {
	productID, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	var input service.VariantInputDto
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	saved, err := h.service.UpsertVariant(r.Context(), productID, input)
	if err != nil {
		h.respondServiceError(w, r, err, "save variant")
		return
	}
	h.logger.InfoContext(r.Context(), "Variant saved successfully", "ID", saved.ID, "ProductID", productID, "Size", saved.Size)
	web.RespondJSON(w, h.logger, http.StatusOK, saved)
}

func (h *Handler) UpdateVariant(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	var input service.VariantInputDto
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	updated, err := h.service.UpdateVariant(r.Context(), id, input)
	if err != nil {
		h.respondServiceError(w, r, err, "update variant")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

func (h *Handler) DeleteVariant(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	if err := h.service.DeleteVariant(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err, "delete variant")
		return
	}
	h.logger.InfoContext(r.Context(), "Variant deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) CheckStock(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	quantity, ok := web.ParseValidateGt(r, w, h.logger, "quantity", 0)
	if !ok {
		return
	}
	available, err := h.service.CheckStock(r.Context(), id, quantity)
	if err != nil {
		h.respondServiceError(w, r, err, "check stock")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, map[string]bool{"available": available})
}

func (h *Handler) VariantPrice(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	price, err := h.service.VariantPrice(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "price variant")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, map[string]any{"price": price})
}

// RecomputeAggregateStock resets a sized product's stock from its variants.
func (h *Handler) RecomputeAggregateStock(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	stock, err := h.service.RecomputeAggregateStock(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "recompute stock")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, map[string]int32{"stock_quantity": stock})
}
