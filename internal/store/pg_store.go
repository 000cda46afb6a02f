package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	productColumns = "id, name, description, brand, price, discount_price, stock_quantity, sku, category_id, " +
		"gender, has_sizes, is_featured, is_active, view_count, created_at, updated_at"
	variantColumns = "id, product_id, size, size_display, stock_quantity, price_modifier, is_available, " +
		"is_active, sort_order, created_at, updated_at"
	imageColumns = "id, product_id, image_url, alt_text, is_main_image, created_at, updated_at"

	uniqueViolation = "23505"
)

// DBTX is satisfied by both *pgxpool.Pool and pgx.Tx. Begin on a pgx.Tx opens a savepoint.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PgStore implements Store using PostgreSQL as the data store.
type PgStore struct {
	*queries
	db *pgxpool.Pool
}

// NewPgStore creates a new instance of Store using a PostgreSQL connection pool.
func NewPgStore(dbp *pgxpool.Pool) *PgStore {
	return &PgStore{
		queries: &queries{db: dbp},
		db:      dbp,
	}
}

// WithTx runs fn in a read-write transaction.
func (p *PgStore) WithTx(ctx context.Context, fn func(q Queries) error) error {
	return p.withTransaction(ctx, pgx.TxOptions{}, fn)
}

// WithReadTx runs fn in a read-only REPEATABLE READ transaction.
func (p *PgStore) WithReadTx(ctx context.Context, fn func(q Queries) error) error {
	return p.withTransaction(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (p *PgStore) withTransaction(ctx context.Context, opts pgx.TxOptions, fn func(q Queries) error) error {
	tx, err := p.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: %w", perrors.ErrTransactionBegin, err)
	}
	return finish(ctx, tx, fn)
}

// finish runs fn against tx and commits, or rolls back when fn fails.
func finish(ctx context.Context, tx pgx.Tx, fn func(q Queries) error) error {
	if err := fn(&queries{db: tx}); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			return fmt.Errorf("%w: %w", perrors.ErrTransactionRollback, errors.Join(err, rbErr))
		}
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %w", perrors.ErrTransactionCommit, err)
	}
	return nil
}

// queries implements Queries on top of a pool or a transaction.
type queries struct {
	db DBTX
}

func (q *queries) WithSavepoint(ctx context.Context, fn func(q Queries) error) error {
	tx, err := q.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", perrors.ErrTransactionBegin, err)
	}
	return finish(ctx, tx, fn)
}

func (q *queries) getProduct(ctx context.Context, sql string, args ...any) (*Product, error) {
	rows, _ := q.db.Query(ctx, sql, args...)
	product, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[Product])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrProductNotFound
		}
		return nil, err
	}
	return product, nil
}

func (q *queries) listProducts(ctx context.Context, sql string, args ...any) ([]Product, error) {
	rows, _ := q.db.Query(ctx, sql, args...)
	return pgx.CollectRows(rows, pgx.RowToStructByName[Product])
}

func (q *queries) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	product, err := q.getProduct(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1", id)
	if err != nil && !errors.Is(err, perrors.ErrProductNotFound) {
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}
	return product, err
}

func (q *queries) LockProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	product, err := q.getProduct(ctx, "SELECT "+productColumns+" FROM products WHERE id = $1 FOR UPDATE", id)
	if err != nil && !errors.Is(err, perrors.ErrProductNotFound) {
		return nil, fmt.Errorf("failed to lock product: %w", err)
	}
	return product, err
}

func (q *queries) ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error) {
	sql, args := filter.pageQuery()
	products, err := q.listProducts(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (q *queries) CountProducts(ctx context.Context, filter ProductFilter) (int64, error) {
	sql, args := filter.countQuery()
	var count int64
	if err := q.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

func (q *queries) ListFeatured(ctx context.Context, limit int32) ([]Product, error) {
	products, err := q.listProducts(ctx,
		"SELECT "+productColumns+" FROM products WHERE is_active AND is_featured ORDER BY name, id LIMIT $1", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured products: %w", err)
	}
	return products, nil
}

func (q *queries) SuggestNames(ctx context.Context, term string, limit int32) ([]string, error) {
	rows, _ := q.db.Query(ctx,
		"SELECT DISTINCT name FROM products WHERE is_active AND name ILIKE $1 ORDER BY name LIMIT $2",
		"%"+escapeLike(term)+"%", limit)
	names, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("failed to suggest product names: %w", err)
	}
	return names, nil
}

func (q *queries) ListLowStock(ctx context.Context, threshold int32) ([]Product, error) {
	products, err := q.listProducts(ctx,
		"SELECT "+productColumns+" FROM products WHERE is_active AND stock_quantity < $1 ORDER BY stock_quantity, name, id",
		threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}
	return products, nil
}

func (q *queries) CreateProduct(ctx context.Context, p Product) (*Product, error) {
	product, err := q.getProduct(ctx, `
		INSERT INTO products (name, description, brand, price, discount_price, stock_quantity, sku, category_id,
		                      gender, has_sizes, is_featured, is_active, view_count, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, TRUE, 0, $12, $13)
		RETURNING `+productColumns,
		p.Name, p.Description, p.Brand, p.Price, p.DiscountPrice, p.StockQuantity, p.SKU, p.CategoryID,
		p.Gender, p.HasSizes, p.IsFeatured, p.CreatedAt, p.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (q *queries) UpdateProduct(ctx context.Context, p Product) (*Product, error) {
	product, err := q.getProduct(ctx, `
		UPDATE products
		SET name = $2, description = $3, brand = $4, price = $5, discount_price = $6, stock_quantity = $7,
		    sku = $8, category_id = $9, gender = $10, has_sizes = $11, is_featured = $12, updated_at = $13
		WHERE id = $1
		RETURNING `+productColumns,
		p.ID, p.Name, p.Description, p.Brand, p.Price, p.DiscountPrice, p.StockQuantity,
		p.SKU, p.CategoryID, p.Gender, p.HasSizes, p.IsFeatured, p.UpdatedAt)
	if err != nil && !errors.Is(err, perrors.ErrProductNotFound) {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return product, err
}

func (q *queries) DeactivateProduct(ctx context.Context, id uuid.UUID, now time.Time) (*Product, error) {
	product, err := q.getProduct(ctx,
		"UPDATE products SET is_active = FALSE, updated_at = $2 WHERE id = $1 RETURNING "+productColumns, id, now)
	if err != nil && !errors.Is(err, perrors.ErrProductNotFound) {
		return nil, fmt.Errorf("failed to deactivate product: %w", err)
	}
	return product, err
}

func (q *queries) SetProductStock(ctx context.Context, id uuid.UUID, quantity int32, now time.Time) (*Product, error) {
	product, err := q.getProduct(ctx,
		"UPDATE products SET stock_quantity = $2, updated_at = $3 WHERE id = $1 RETURNING "+productColumns,
		id, quantity, now)
	if err != nil && !errors.Is(err, perrors.ErrProductNotFound) {
		return nil, fmt.Errorf("failed to update product stock: %w", err)
	}
	return product, err
}

func (q *queries) IncrementViewCount(ctx context.Context, id uuid.UUID) (int64, error) {
	var views int64
	err := q.db.QueryRow(ctx,
		"UPDATE products SET view_count = view_count + 1 WHERE id = $1 AND is_active RETURNING view_count", id).
		Scan(&views)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, perrors.ErrProductNotFound
		}
		return 0, fmt.Errorf("failed to increment view count: %w", err)
	}
	return views, nil
}

func (q *queries) RecomputeAggregateStock(ctx context.Context, productID uuid.UUID, now time.Time) (int32, bool, error) {
	var stock int32
	err := q.db.QueryRow(ctx, `
		UPDATE products
		SET stock_quantity = (SELECT COALESCE(SUM(stock_quantity), 0)
		                      FROM product_variants
		                      WHERE product_id = $1 AND is_active),
		    updated_at     = $2
		WHERE id = $1 AND has_sizes
		RETURNING stock_quantity`, productID, now).Scan(&stock)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to recompute aggregate stock: %w", err)
	}
	return stock, true, nil
}

func (q *queries) getVariant(ctx context.Context, sql string, args ...any) (*Variant, error) {
	rows, _ := q.db.Query(ctx, sql, args...)
	variant, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[Variant])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrVariantNotFound
		}
		if isUniqueViolation(err) {
			return nil, perrors.ErrDuplicateSize
		}
		return nil, err
	}
	return variant, nil
}

func (q *queries) GetVariant(ctx context.Context, id uuid.UUID) (*Variant, error) {
	variant, err := q.getVariant(ctx, "SELECT "+variantColumns+" FROM product_variants WHERE id = $1", id)
	if err != nil && !errors.Is(err, perrors.ErrVariantNotFound) {
		return nil, fmt.Errorf("failed to find variant by ID: %w", err)
	}
	return variant, err
}

func (q *queries) ListVariants(ctx context.Context, productID uuid.UUID, scope VariantScope) ([]Variant, error) {
	rows, _ := q.db.Query(ctx,
		"SELECT "+variantColumns+" FROM product_variants WHERE product_id = $1"+scope.sqlCondition()+
			" ORDER BY sort_order, size", productID)
	variants, err := pgx.CollectRows(rows, pgx.RowToStructByName[Variant])
	if err != nil {
		return nil, fmt.Errorf("failed to list variants: %w", err)
	}
	return variants, nil
}

func (q *queries) ListVariantsByProducts(ctx context.Context, productIDs []uuid.UUID, scope VariantScope) ([]Variant, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	rows, _ := q.db.Query(ctx,
		"SELECT "+variantColumns+" FROM product_variants WHERE product_id = ANY($1)"+scope.sqlCondition()+
			" ORDER BY product_id, sort_order, size", productIDs)
	variants, err := pgx.CollectRows(rows, pgx.RowToStructByName[Variant])
	if err != nil {
		return nil, fmt.Errorf("failed to list variants of products: %w", err)
	}
	return variants, nil
}

func (q *queries) UpsertVariant(ctx context.Context, v Variant) (*Variant, error) {
	variant, err := q.getVariant(ctx, `
		INSERT INTO product_variants (product_id, size, size_display, stock_quantity, price_modifier, is_available,
		                              is_active, sort_order, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, TRUE, $7, $8, $8)
		ON CONFLICT (product_id, size) DO UPDATE
		SET size_display   = EXCLUDED.size_display,
		    stock_quantity = EXCLUDED.stock_quantity,
		    price_modifier = EXCLUDED.price_modifier,
		    is_available   = EXCLUDED.is_available,
		    sort_order     = EXCLUDED.sort_order,
		    is_active      = TRUE,
		    updated_at     = EXCLUDED.updated_at
		RETURNING `+variantColumns,
		v.ProductID, v.Size, v.SizeDisplay, v.StockQuantity, v.PriceModifier, v.IsAvailable, v.SortOrder, v.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert variant: %w", err)
	}
	return variant, nil
}

func (q *queries) UpdateVariant(ctx context.Context, v Variant) (*Variant, error) {
	variant, err := q.getVariant(ctx, `
		UPDATE product_variants
		SET size = $2, size_display = $3, stock_quantity = $4, price_modifier = $5, is_available = $6,
		    sort_order = $7, updated_at = $8
		WHERE id = $1
		RETURNING `+variantColumns,
		v.ID, v.Size, v.SizeDisplay, v.StockQuantity, v.PriceModifier, v.IsAvailable, v.SortOrder, v.UpdatedAt)
	if err != nil && !errors.Is(err, perrors.ErrVariantNotFound) && !errors.Is(err, perrors.ErrDuplicateSize) {
		return nil, fmt.Errorf("failed to update variant: %w", err)
	}
	return variant, err
}

func (q *queries) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	tag, err := q.db.Exec(ctx, "DELETE FROM product_variants WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete variant: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return perrors.ErrVariantNotFound
	}
	return nil
}

func (q *queries) DeactivateVariants(ctx context.Context, productID uuid.UUID, now time.Time) (int64, error) {
	tag, err := q.db.Exec(ctx,
		"UPDATE product_variants SET is_active = FALSE, updated_at = $2 WHERE product_id = $1 AND is_active",
		productID, now)
	if err != nil {
		return 0, fmt.Errorf("failed to deactivate variants: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (q *queries) getImage(ctx context.Context, sql string, args ...any) (*Image, error) {
	rows, _ := q.db.Query(ctx, sql, args...)
	image, err := pgx.CollectOneRow(rows, pgx.RowToAddrOfStructByName[Image])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, perrors.ErrImageNotFound
		}
		return nil, fmt.Errorf("failed to read image: %w", err)
	}
	return image, nil
}

func (q *queries) GetImage(ctx context.Context, id uuid.UUID) (*Image, error) {
	return q.getImage(ctx, "SELECT "+imageColumns+" FROM product_images WHERE id = $1", id)
}

func (q *queries) ListImages(ctx context.Context, productID uuid.UUID) ([]Image, error) {
	return q.ListImagesByProducts(ctx, []uuid.UUID{productID})
}

func (q *queries) ListImagesByProducts(ctx context.Context, productIDs []uuid.UUID) ([]Image, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	rows, _ := q.db.Query(ctx,
		"SELECT "+imageColumns+" FROM product_images WHERE product_id = ANY($1)"+
			" ORDER BY product_id, is_main_image DESC, created_at, id", productIDs)
	images, err := pgx.CollectRows(rows, pgx.RowToStructByName[Image])
	if err != nil {
		return nil, fmt.Errorf("failed to list images: %w", err)
	}
	return images, nil
}

func (q *queries) InsertImage(ctx context.Context, img Image) (*Image, error) {
	image, err := q.getImage(ctx, `
		INSERT INTO product_images (product_id, image_url, alt_text, is_main_image, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $5)
		RETURNING `+imageColumns,
		img.ProductID, img.ImageURL, img.AltText, img.IsMainImage, img.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to insert image: %w", err)
	}
	return image, nil
}

func (q *queries) DeleteImage(ctx context.Context, id uuid.UUID) error {
	tag, err := q.db.Exec(ctx, "DELETE FROM product_images WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("failed to delete image: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return perrors.ErrImageNotFound
	}
	return nil
}

func (q *queries) ClearMainImage(ctx context.Context, productID uuid.UUID, now time.Time) error {
	_, err := q.db.Exec(ctx,
		"UPDATE product_images SET is_main_image = FALSE, updated_at = $2 WHERE product_id = $1 AND is_main_image",
		productID, now)
	if err != nil {
		return fmt.Errorf("failed to clear main image: %w", err)
	}
	return nil
}

func (q *queries) SetMainImage(ctx context.Context, id uuid.UUID, now time.Time) (*Image, error) {
	return q.getImage(ctx,
		"UPDATE product_images SET is_main_image = TRUE, updated_at = $2 WHERE id = $1 RETURNING "+imageColumns, id, now)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
