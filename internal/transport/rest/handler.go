// Package rest provides HTTP handlers for catalog operations.
package rest

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/pkg/web"
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

type Handler struct {
	service  service.CatalogService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewHandler creates a new Handler backed by the given catalog service.
func NewHandler(svc service.CatalogService, logger *slog.Logger) *Handler {
	return &Handler{
		service:  svc,
		validate: newValidator(),
		logger:   logger.With("component", "rest"),
	}
}

// newValidator returns a validator that compares decimals by their numeric value.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterCustomTypeFunc(func(field reflect.Value) any {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			return d.InexactFloat64()
		}
		return nil
	}, decimal.Decimal{})
	return v
}

// RegisterRoutes registers the HTTP routes of the catalog.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", h.ListProducts)
			r.Post("/", h.Create)
			r.Get("/featured", h.GetFeatured)
			r.Get("/suggestions", h.SearchSuggestions)
			r.Get("/low-stock", h.GetLowStock)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", h.GetProductByID)
				r.Put("/", h.Update)
				r.Delete("/", h.SoftDelete)
				r.Get("/admin", h.GetProductAdmin)
				r.Put("/stock", h.SetStock)
				r.Post("/stock/recompute", h.RecomputeAggregateStock)
				r.Get("/availability", h.CheckAvailability)
				r.Get("/discount", h.CalculateDiscountPrice)
				r.Post("/views", h.IncrementViewCount)
				r.Get("/variants", h.ListVariants)
				r.Post("/variants", h.UpsertVariant)
				r.Get("/images", h.ListImages)
				r.Post("/images", h.AddImage)
			})
		})

		r.Route("/variants/{id}", func(r chi.Router) {
			r.Put("/", h.UpdateVariant)
			r.Delete("/", h.DeleteVariant)
			r.Get("/stock", h.CheckStock)
			r.Get("/price", h.VariantPrice)
		})

		r.Route("/images/{id}", func(r chi.Router) {
			r.Delete("/", h.RemoveImage)
			r.Put("/main", h.SetMainImage)
		})
	})

	r.Get("/healthz", h.HealthCheck)
}

// HealthCheck is a simple liveness endpoint.
func (h *Handler) HealthCheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

// decodeAndValidate reads the request body into dst and validates it.
// On failure it writes a 400 response, listing the failed rules per field, and returns false.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if !web.DecodeJSON(w, r, h.logger, dst) {
		return false
	}
	if err := h.validate.Struct(dst); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			errorResponse := make(map[string]string)
			for _, fieldErr := range validationErrors {
				errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
			}
			h.logger.WarnContext(r.Context(), "Validation errors occurred", "errors", errorResponse)
			web.RespondJSON(w, h.logger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
			return false
		}
		h.logger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// respondServiceError translates a service error into a status code.
func (h *Handler) respondServiceError(w http.ResponseWriter, r *http.Request, err error, action string) {
	switch {
	case errors.Is(err, perrors.ErrNotFound):
		h.logger.WarnContext(r.Context(), "Resource not found", "action", action, "error", err)
		web.RespondError(w, h.logger, http.StatusNotFound, notFoundMessage(err))
	case errors.Is(err, perrors.ErrInvalidInput):
		h.logger.WarnContext(r.Context(), "Invalid input", "action", action, "error", err)
		web.RespondError(w, h.logger, http.StatusBadRequest, err.Error())
	case errors.Is(err, perrors.ErrInvalidOperation):
		h.logger.WarnContext(r.Context(), "Operation rejected", "action", action, "error", err)
		web.RespondError(w, h.logger, http.StatusConflict, conflictMessage(err))
	case errors.Is(err, perrors.ErrFileStore):
		h.logger.ErrorContext(r.Context(), "File store failure", "action", action, "error", err)
		web.RespondError(w, h.logger, http.StatusBadGateway, "Failed to "+action+": file store unavailable")
	default:
		h.logger.ErrorContext(r.Context(), "Unexpected error", "action", action, "error", err)
		web.RespondError(w, h.logger, http.StatusInternalServerError, "Failed to "+action)
	}
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, perrors.ErrProductNotFound):
		return "Product not found"
	case errors.Is(err, perrors.ErrVariantNotFound):
		return "Variant not found"
	case errors.Is(err, perrors.ErrImageNotFound):
		return "Image not found"
	default:
		return "Not found"
	}
}

func conflictMessage(err error) string {
	switch {
	case errors.Is(err, perrors.ErrProductInactive):
		return "Product is inactive"
	case errors.Is(err, perrors.ErrDuplicateSize):
		return "Size already exists for product"
	case errors.Is(err, perrors.ErrStockManagedByVariants):
		return "Stock of a product with sizes is derived from its variants"
	default:
		return fmt.Sprintf("Invalid operation: %v", err)
	}
}
