package rest

import (
	"math"
	"net/http"

	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/pkg/web"
)

// ListProducts returns one page of active products. Out-of-range paging values are normalized by the service.
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	page, ok := web.ParseOptionalInt(r, w, h.logger, "page", math.MinInt32, 1)
	if !ok {
		return
	}
	pageSize, ok := web.ParseOptionalInt(r, w, h.logger, "pageSize", math.MinInt32, service.DefaultPageSize)
	if !ok {
		return
	}
	categoryID, ok := web.ParseOptionalUUID(r, w, h.logger, "categoryId")
	if !ok {
		return
	}
	minPrice, ok := web.ParseOptionalDecimal(r, w, h.logger, "minPrice")
	if !ok {
		return
	}
	maxPrice, ok := web.ParseOptionalDecimal(r, w, h.logger, "maxPrice")
	if !ok {
		return
	}
	featured, ok := web.ParseOptionalBool(r, w, h.logger, "featured")
	if !ok {
		return
	}
	sale, ok := web.ParseOptionalBool(r, w, h.logger, "sale")
	if !ok {
		return
	}
	query := r.URL.Query()
	params := service.ListParams{
		Page:         page,
		PageSize:     pageSize,
		Search:       query.Get("search"),
		CategoryID:   categoryID,
		MinPrice:     minPrice,
		MaxPrice:     maxPrice,
		Sort:         service.ParseSortKey(query.Get("sortBy")),
		FeaturedOnly: featured,
		SaleOnly:     sale,
		Gender:       query.Get("gender"),
	}

	h.logger.DebugContext(r.Context(), "Received request to list products", "page", page, "pageSize", pageSize, "sort", params.Sort)
	result, err := h.service.ListProducts(r.Context(), params)
	if err != nil {
		h.respondServiceError(w, r, err, "fetch products")
		return
	}
	h.logger.DebugContext(r.Context(), "Successfully retrieved product page", "count", len(result.Items), "total", result.TotalCount)
	web.RespondJSON(w, h.logger, http.StatusOK, result)
}

// GetProductByID returns an active product with its visible variants and images.
func (h *Handler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	found, err := h.service.GetProductByID(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "retrieve product")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

// GetProductAdmin returns a product regardless of its active flag.
func (h *Handler) GetProductAdmin(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	found, err := h.service.GetProductAdmin(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "retrieve product")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, found)
}

func (h *Handler) GetFeatured(w http.ResponseWriter, r *http.Request) {
	count, ok := web.ParseOptionalInt(r, w, h.logger, "count", 1, service.DefaultFeaturedCount)
	if !ok {
		return
	}
	list, err := h.service.GetFeatured(r.Context(), count)
	if err != nil {
		h.respondServiceError(w, r, err, "fetch featured products")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

func (h *Handler) SearchSuggestions(w http.ResponseWriter, r *http.Request) {
	names, err := h.service.SearchSuggestions(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		h.respondServiceError(w, r, err, "fetch suggestions")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, names)
}

func (h *Handler) GetLowStock(w http.ResponseWriter, r *http.Request) {
	threshold, ok := web.ParseOptionalInt(r, w, h.logger, "threshold", 0, service.DefaultLowStockThreshold)
	if !ok {
		return
	}
	list, err := h.service.GetLowStock(r.Context(), threshold)
	if err != nil {
		h.respondServiceError(w, r, err, "fetch low stock products")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, list)
}

// Create handles the creation of a new product.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var input service.ProductInputDto
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	created, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.respondServiceError(w, r, err, "create product")
		return
	}
	h.logger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, h.logger, http.StatusCreated, created)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	var input service.ProductInputDto
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	updated, err := h.service.Update(r.Context(), id, input)
	if err != nil {
		h.respondServiceError(w, r, err, "update product")
		return
	}
	h.logger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

// SoftDelete deactivates a product and its variants.
func (h *Handler) SoftDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	if err := h.service.SoftDelete(r.Context(), id); err != nil {
		h.respondServiceError(w, r, err, "delete product")
		return
	}
	h.logger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) SetStock(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	var input service.StockUpdateDto
	if !h.decodeAndValidate(w, r, &input) {
		return
	}
	updated, err := h.service.SetStock(r.Context(), id, input.StockQuantity)
	if err != nil {
		h.respondServiceError(w, r, err, "update stock")
		return
	}
	h.logger.InfoContext(r.Context(), "Stock updated successfully for product", "ID", updated.ID, "NewStock", updated.StockQuantity)
	web.RespondJSON(w, h.logger, http.StatusOK, updated)
}

func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	quantity, ok := web.ParseValidateGt(r, w, h.logger, "quantity", 0)
	if !ok {
		return
	}
	available, err := h.service.CheckAvailability(r.Context(), id, quantity)
	if err != nil {
		h.respondServiceError(w, r, err, "check availability")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, map[string]bool{"available": available})
}

func (h *Handler) CalculateDiscountPrice(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	percent, ok := web.ParseDecimal(r, w, h.logger, "percent")
	if !ok {
		return
	}
	price, err := h.service.CalculateDiscountPrice(r.Context(), id, percent)
	if err != nil {
		h.respondServiceError(w, r, err, "calculate discount")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, map[string]any{"price": price})
}

func (h *Handler) IncrementViewCount(w http.ResponseWriter, r *http.Request) {
	id, ok := web.ParseID(w, r, h.logger)
	if !ok {
		return
	}
	views, err := h.service.IncrementViewCount(r.Context(), id)
	if err != nil {
		h.respondServiceError(w, r, err, "record view")
		return
	}
	web.RespondJSON(w, h.logger, http.StatusOK, map[string]int64{"view_count": views})
}
