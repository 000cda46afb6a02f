package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/store"
	"github.com/abgdnv/catalog/pkg/messaging/events"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Create creates a new active product.
func (s *Service) Create(ctx context.Context, input ProductInputDto) (*ProductDto, error) {
	if err := input.check(); err != nil {
		return nil, err
	}

	now := s.now()
	product := fromInput(input)
	product.IsActive = true
	product.CreatedAt = now
	product.UpdatedAt = now
	if product.HasSizes {
		// a new product has no variants yet
		product.StockQuantity = 0
	}

	created, err := s.store.CreateProduct(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.invalidateCache(ctx)
	s.publish(ctx, events.ProductCreatedEvent{
		Carrier:   traceCarrier(ctx),
		ProductID: created.ID,
		Name:      created.Name,
		SKU:       created.SKU,
		Price:     created.Price.StringFixed(2),
		CreatedAt: created.CreatedAt,
	})
	return toDto(created), nil
}

// Update replaces the editable fields of a product. A sized product keeps a stock derived from its variants.
func (s *Service) Update(ctx context.Context, id uuid.UUID, input ProductInputDto) (*ProductDto, error) {
	if err := input.check(); err != nil {
		return nil, err
	}

	var (
		updated *store.Product
		changed *events.StockChangedEvent
	)
	err := s.store.WithTx(ctx, func(q store.Queries) error {
		existing, err := q.LockProduct(ctx, id)
		if err != nil {
			return err
		}
		product := fromInput(input)
		product.ID = id
		product.UpdatedAt = s.now()
		if product.HasSizes {
			product.StockQuantity = existing.StockQuantity
		}
		if updated, err = q.UpdateProduct(ctx, product); err != nil {
			return err
		}
		if changed = s.recompute(ctx, q, updated); changed != nil {
			updated.StockQuantity = changed.StockQuantity
		}
		if !product.HasSizes && existing.StockQuantity != updated.StockQuantity {
			changed = s.stockChange(ctx, id, existing.StockQuantity, updated.StockQuantity)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", id, err)
	}

	s.invalidateCache(ctx)
	s.publishStockChange(ctx, changed)
	return toDto(updated), nil
}

// SoftDelete deactivates a product together with all of its variants.
func (s *Service) SoftDelete(ctx context.Context, id uuid.UUID) error {
	var deactivated int64
	now := s.now()
	err := s.store.WithTx(ctx, func(q store.Queries) error {
		if _, err := q.DeactivateProduct(ctx, id, now); err != nil {
			return err
		}
		var err error
		deactivated, err = q.DeactivateVariants(ctx, id, now)
		return err
	})
	if err != nil {
		return fmt.Errorf("failed to delete product %s: %w", id, err)
	}

	s.invalidateCache(ctx)
	s.logger.InfoContext(ctx, "Product deactivated", "product_id", id, "deactivated_variants", deactivated)
	s.publish(ctx, events.ProductDeletedEvent{
		Carrier:             traceCarrier(ctx),
		ProductID:           id,
		DeactivatedVariants: deactivated,
		DeletedAt:           now,
	})
	return nil
}

// SetStock overrides the stock of a product without sizes.
func (s *Service) SetStock(ctx context.Context, id uuid.UUID, quantity int32) (*ProductDto, error) {
	if quantity < 0 {
		return nil, fmt.Errorf("%w: stock quantity must not be negative", perrors.ErrInvalidInput)
	}

	var (
		updated *store.Product
		changed *events.StockChangedEvent
	)
	err := s.store.WithTx(ctx, func(q store.Queries) error {
		existing, err := q.LockProduct(ctx, id)
		if err != nil {
			return err
		}
		if existing.HasSizes {
			return perrors.ErrStockManagedByVariants
		}
		if updated, err = q.SetProductStock(ctx, id, quantity, s.now()); err != nil {
			return err
		}
		changed = s.stockChange(ctx, id, existing.StockQuantity, updated.StockQuantity)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set stock of product %s: %w", id, err)
	}

	s.invalidateCache(ctx)
	s.publishStockChange(ctx, changed)
	return toDto(updated), nil
}

// CheckAvailability reports whether quantity units of a product can be sold. A missing product yields false.
func (s *Service) CheckAvailability(ctx context.Context, id uuid.UUID, quantity int32) (bool, error) {
	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, perrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check availability of product %s: %w", id, err)
	}
	return product.IsActive && product.StockQuantity >= quantity, nil
}

func (s *Service) GetLowStock(ctx context.Context, threshold int32) ([]ProductDto, error) {
	if threshold < 0 {
		return nil, fmt.Errorf("%w: threshold must not be negative", perrors.ErrInvalidInput)
	}
	products, err := s.store.ListLowStock(ctx, threshold)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock products: %w", err)
	}
	return toDtos(products), nil
}

// CalculateDiscountPrice returns the list price reduced by percent.
func (s *Service) CalculateDiscountPrice(ctx context.Context, id uuid.UUID, percent decimal.Decimal) (decimal.Decimal, error) {
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return decimal.Zero, fmt.Errorf("%w: percent must be between 0 and 100", perrors.ErrInvalidInput)
	}
	product, err := s.store.GetProduct(ctx, id)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to calculate discount for product %s: %w", id, err)
	}
	discount := product.Price.Mul(percent).Div(hundred)
	return product.Price.Sub(discount), nil
}

// IncrementViewCount records one view of an active product and returns the new count.
func (s *Service) IncrementViewCount(ctx context.Context, id uuid.UUID) (int64, error) {
	views, err := s.store.IncrementViewCount(ctx, id)
	if err != nil {
		return 0, fmt.Errorf("failed to record view of product %s: %w", id, err)
	}
	s.productViews.Add(ctx, 1)
	return views, nil
}

func fromInput(input ProductInputDto) store.Product {
	return store.Product{
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		Brand:         input.Brand,
		Price:         input.Price,
		DiscountPrice: input.DiscountPrice,
		StockQuantity: input.StockQuantity,
		SKU:           input.SKU,
		CategoryID:    input.CategoryID,
		Gender:        input.Gender,
		HasSizes:      input.HasSizes,
		IsFeatured:    input.IsFeatured,
	}
}
