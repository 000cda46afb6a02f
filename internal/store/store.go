// Package store provides persistence for products, their variants and images.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Queries are the single-statement operations of the catalog store.
// They run against the connection pool or inside a transaction started with Store.WithTx.
type Queries interface {
	// GetProduct returns a product regardless of its active flag.
	// Returns ErrProductNotFound if no product exists with the given ID.
	GetProduct(ctx context.Context, id uuid.UUID) (*Product, error)

	// LockProduct is GetProduct holding a row lock until the surrounding transaction ends.
	LockProduct(ctx context.Context, id uuid.UUID) (*Product, error)

	// ListProducts returns one page of products matching the filter.
	ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error)

	// CountProducts returns the number of products matching the filter, ignoring paging.
	CountProducts(ctx context.Context, filter ProductFilter) (int64, error)

	// ListFeatured returns up to limit active featured products ordered by name.
	ListFeatured(ctx context.Context, limit int32) ([]Product, error)

	// SuggestNames returns distinct names of active products containing term, case-insensitively.
	SuggestNames(ctx context.Context, term string, limit int32) ([]string, error)

	// ListLowStock returns active products with stock below threshold, lowest stock first.
	ListLowStock(ctx context.Context, threshold int32) ([]Product, error)

	// CreateProduct inserts a product and returns it with its generated ID.
	CreateProduct(ctx context.Context, product Product) (*Product, error)

	// UpdateProduct replaces the editable fields of an existing product.
	// Variants, view count, the active flag and createdAt are left untouched.
	// Returns ErrProductNotFound if no product exists with the given ID.
	UpdateProduct(ctx context.Context, product Product) (*Product, error)

	// DeactivateProduct clears the active flag of a product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	DeactivateProduct(ctx context.Context, id uuid.UUID, now time.Time) (*Product, error)

	// SetProductStock overwrites the stock of a product.
	// Returns ErrProductNotFound if no product exists with the given ID.
	SetProductStock(ctx context.Context, id uuid.UUID, quantity int32, now time.Time) (*Product, error)

	// IncrementViewCount atomically adds one view to an active product and returns the new count.
	// Returns ErrProductNotFound if the product is missing or inactive.
	IncrementViewCount(ctx context.Context, id uuid.UUID) (int64, error)

	// RecomputeAggregateStock sets the stock of a sized product to the sum of its active variants.
	// applied is false when the product does not exist or has no sizes.
	RecomputeAggregateStock(ctx context.Context, productID uuid.UUID, now time.Time) (stock int32, applied bool, err error)

	// GetVariant returns a variant regardless of its active flag.
	// Returns ErrVariantNotFound if no variant exists with the given ID.
	GetVariant(ctx context.Context, id uuid.UUID) (*Variant, error)

	// ListVariants returns the variants of a product ordered by sort order, then size.
	ListVariants(ctx context.Context, productID uuid.UUID, scope VariantScope) ([]Variant, error)

	// ListVariantsByProducts is ListVariants for several products at once.
	ListVariantsByProducts(ctx context.Context, productIDs []uuid.UUID, scope VariantScope) ([]Variant, error)

	// UpsertVariant inserts a variant or, when the product already has one with the same size,
	// overwrites it and reactivates it. The returned variant keeps the existing ID and createdAt.
	UpsertVariant(ctx context.Context, variant Variant) (*Variant, error)

	// UpdateVariant overwrites the editable fields of a variant by ID.
	// Returns ErrVariantNotFound if it does not exist and ErrDuplicateSize if the new size is taken.
	UpdateVariant(ctx context.Context, variant Variant) (*Variant, error)

	// DeleteVariant removes a variant permanently.
	// Returns ErrVariantNotFound if no variant exists with the given ID.
	DeleteVariant(ctx context.Context, id uuid.UUID) error

	// DeactivateVariants clears the active flag of every variant of a product and returns how many changed.
	DeactivateVariants(ctx context.Context, productID uuid.UUID, now time.Time) (int64, error)

	// GetImage returns an image by ID.
	// Returns ErrImageNotFound if no image exists with the given ID.
	GetImage(ctx context.Context, id uuid.UUID) (*Image, error)

	// ListImages returns the images of a product, main image first.
	ListImages(ctx context.Context, productID uuid.UUID) ([]Image, error)

	// ListImagesByProducts is ListImages for several products at once.
	ListImagesByProducts(ctx context.Context, productIDs []uuid.UUID) ([]Image, error)

	// InsertImage links a new image to a product.
	InsertImage(ctx context.Context, image Image) (*Image, error)

	// DeleteImage removes an image permanently.
	// Returns ErrImageNotFound if no image exists with the given ID.
	DeleteImage(ctx context.Context, id uuid.UUID) error

	// ClearMainImage unsets the main flag on every image of a product.
	ClearMainImage(ctx context.Context, productID uuid.UUID, now time.Time) error

	// SetMainImage sets the main flag on one image. Callers clear its siblings first.
	SetMainImage(ctx context.Context, id uuid.UUID, now time.Time) (*Image, error)

	// WithSavepoint runs fn in a nested transaction. If fn fails only its own writes are undone.
	WithSavepoint(ctx context.Context, fn func(q Queries) error) error
}

// Store is the catalog persistence collaborator.
type Store interface {
	Queries

	// WithTx runs fn in a read-write transaction, committing if fn returns nil.
	WithTx(ctx context.Context, fn func(q Queries) error) error

	// WithReadTx runs fn in a read-only transaction that sees a single consistent snapshot.
	WithReadTx(ctx context.Context, fn func(q Queries) error) error
}
