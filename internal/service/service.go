// Package service provides the catalog business logic: product queries, variant inventory,
// product lifecycle and image management.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/abgdnv/catalog/internal/cache"
	"github.com/abgdnv/catalog/internal/filestore"
	"github.com/abgdnv/catalog/internal/store"
	"github.com/abgdnv/catalog/pkg/messaging"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/propagation"
)

// QueryService answers customer-facing and administrative product reads.
type QueryService interface {
	// ListProducts returns one page of active products matching the parameters, with the total
	// number of matches. Each product carries its images and its active, available variants.
	ListProducts(ctx context.Context, params ListParams) (*ProductPage, error)

	// GetProductByID returns an active product with its visible variants and images.
	// Returns ErrProductNotFound if the product is missing or inactive.
	GetProductByID(ctx context.Context, id uuid.UUID) (*ProductDto, error)

	// GetProductAdmin returns a product regardless of its active flag, with every variant.
	// Returns ErrProductNotFound if no product exists with the given ID.
	GetProductAdmin(ctx context.Context, id uuid.UUID) (*ProductDto, error)

	// GetFeatured returns up to count active featured products.
	GetFeatured(ctx context.Context, count int32) ([]ProductDto, error)

	// SearchSuggestions returns up to ten distinct product names containing query.
	// Queries shorter than two characters yield an empty result.
	SearchSuggestions(ctx context.Context, query string) ([]string, error)
}

// VariantService maintains product variants and the aggregate stock derived from them.
type VariantService interface {
	// UpsertVariant creates the variant for (productID, size) or overwrites and reactivates the
	// existing one. Returns ErrProductNotFound or ErrProductInactive for an unusable parent.
	UpsertVariant(ctx context.Context, productID uuid.UUID, input VariantInputDto) (*VariantDto, error)

	// UpdateVariant edits a variant in place.
	// Returns ErrVariantNotFound if it does not exist and ErrDuplicateSize on a size collision.
	UpdateVariant(ctx context.Context, id uuid.UUID, input VariantInputDto) (*VariantDto, error)

	// DeleteVariant removes a variant permanently.
	// Returns ErrVariantNotFound if no variant exists with the given ID.
	DeleteVariant(ctx context.Context, id uuid.UUID) error

	// ListVariants returns the active variants of a product ordered by sort order, then size.
	ListVariants(ctx context.Context, productID uuid.UUID) ([]VariantDto, error)

	// CheckStock reports whether a variant is active, available and has at least quantity in stock.
	// A missing variant yields false.
	CheckStock(ctx context.Context, variantID uuid.UUID, quantity int32) (bool, error)

	// VariantPrice returns the product's effective price plus the variant's modifier.
	// A missing variant yields zero.
	VariantPrice(ctx context.Context, variantID uuid.UUID) (decimal.Decimal, error)

	// RecomputeAggregateStock resets a sized product's stock to the sum of its active variants
	// and returns the resulting stock.
	RecomputeAggregateStock(ctx context.Context, productID uuid.UUID) (int32, error)
}

// ProductService manages the product lifecycle.
type ProductService interface {
	Create(ctx context.Context, input ProductInputDto) (*ProductDto, error)

	// Update replaces the editable fields of a product. Variants are left untouched.
	// Returns ErrProductNotFound if no product exists with the given ID.
	Update(ctx context.Context, id uuid.UUID, input ProductInputDto) (*ProductDto, error)

	// SoftDelete deactivates a product and all of its variants atomically.
	// Returns ErrProductNotFound if no product exists with the given ID.
	SoftDelete(ctx context.Context, id uuid.UUID) error

	// SetStock overrides the stock of a product without sizes.
	// Returns ErrStockManagedByVariants for sized products.
	SetStock(ctx context.Context, id uuid.UUID, quantity int32) (*ProductDto, error)

	// CheckAvailability reports whether a product is active with at least quantity in stock.
	// A missing product yields false.
	CheckAvailability(ctx context.Context, id uuid.UUID, quantity int32) (bool, error)

	// GetLowStock returns active products whose stock is below threshold, lowest first.
	GetLowStock(ctx context.Context, threshold int32) ([]ProductDto, error)

	// CalculateDiscountPrice returns the list price reduced by percent. Nothing is persisted.
	CalculateDiscountPrice(ctx context.Context, id uuid.UUID, percent decimal.Decimal) (decimal.Decimal, error)

	// IncrementViewCount atomically records a view of an active product and returns the new count.
	IncrementViewCount(ctx context.Context, id uuid.UUID) (int64, error)
}

// ImageService manages product images and their backing files.
type ImageService interface {
	// AddImage links a new image to an active product. A main image demotes its siblings.
	AddImage(ctx context.Context, productID uuid.UUID, input ImageInputDto) (*ImageDto, error)

	// RemoveImage deletes an image record together with its backing file.
	// Returns ErrImageNotFound, or ErrFileStore when the file could not be removed.
	RemoveImage(ctx context.Context, id uuid.UUID) error

	// SetMainImage makes an image the only main image of its product.
	SetMainImage(ctx context.Context, id uuid.UUID) (*ImageDto, error)

	// ListImages returns the images of a product, main image first.
	ListImages(ctx context.Context, productID uuid.UUID) ([]ImageDto, error)
}

// CatalogService is the full set of catalog operations.
type CatalogService interface {
	QueryService
	VariantService
	ProductService
	ImageService
}

// Service implements CatalogService.
type Service struct {
	store     store.Store
	files     filestore.FileStore
	publisher messaging.Publisher
	cache     cache.Client
	cacheTTL  time.Duration
	logger    *slog.Logger
	now       func() time.Time

	variantMutations metric.Int64Counter
	productViews     metric.Int64Counter
}

// Option customizes a Service.
type Option func(*Service)

// WithCache enables caching of suggestions and featured products for ttl.
func WithCache(c cache.Client, ttl time.Duration) Option {
	return func(s *Service) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

// WithClock replaces the time source used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new Service backed by the given store, file store and event publisher.
func NewService(st store.Store, files filestore.FileStore, publisher messaging.Publisher, logger *slog.Logger, opts ...Option) *Service {
	meter := otel.Meter("catalog-service")
	variantMutations, err := meter.Int64Counter("catalog_variant_mutations",
		metric.WithDescription("Total number of variant upserts, updates and deletes"))
	if err != nil {
		panic(fmt.Sprintf("failed to create catalog_variant_mutations counter: %v", err))
	}
	productViews, err := meter.Int64Counter("catalog_product_views",
		metric.WithDescription("Total number of recorded product views"))
	if err != nil {
		panic(fmt.Sprintf("failed to create catalog_product_views counter: %v", err))
	}

	s := &Service{
		store:            st,
		files:            files,
		publisher:        publisher,
		cache:            cache.Noop{},
		logger:           logger.With("component", "catalog-service"),
		now:              func() time.Time { return time.Now().UTC() },
		variantMutations: variantMutations,
		productViews:     productViews,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// publish sends an event after the data it describes has been committed.
// Delivery failures are logged and never fail the operation.
func (s *Service) publish(ctx context.Context, event messaging.Event) {
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.ErrorContext(ctx, "Failed to publish event", "subject", event.Subject(), "error", err)
	}
}

func traceCarrier(ctx context.Context) propagation.MapCarrier {
	carrier := make(propagation.MapCarrier)
	otel.GetTextMapPropagator().Inject(ctx, carrier)
	return carrier
}
