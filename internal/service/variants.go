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
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// UpsertVariant creates or reactivates the variant for (productID, size) and recomputes the aggregate stock.
func (s *Service) UpsertVariant(ctx context.Context, productID uuid.UUID, input VariantInputDto) (*VariantDto, error) {
	if err := input.check(); err != nil {
		return nil, err
	}

	var (
		saved   *store.Variant
		changed *events.StockChangedEvent
	)
	err := s.store.WithTx(ctx, func(q store.Queries) error {
		product, err := q.LockProduct(ctx, productID)
		if err != nil {
			return err
		}
		if !product.IsActive {
			return perrors.ErrProductInactive
		}
		now := s.now()
		saved, err = q.UpsertVariant(ctx, store.Variant{
			ProductID:     productID,
			Size:          strings.TrimSpace(input.Size),
			SizeDisplay:   input.SizeDisplay,
			StockQuantity: input.StockQuantity,
			PriceModifier: input.PriceModifier,
			IsAvailable:   input.available(),
			IsActive:      true,
			SortOrder:     input.SortOrder,
			CreatedAt:     now,
			UpdatedAt:     now,
		})
		if err != nil {
			return err
		}
		changed = s.recompute(ctx, q, product)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upsert variant for product %s: %w", productID, err)
	}

	s.variantMutations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "upsert")))
	s.invalidateCache(ctx)
	s.publishStockChange(ctx, changed)
	return toVariantDto(saved), nil
}

// UpdateVariant edits a variant in place and recomputes the aggregate stock of its product.
func (s *Service) UpdateVariant(ctx context.Context, id uuid.UUID, input VariantInputDto) (*VariantDto, error) {
	if err := input.check(); err != nil {
		return nil, err
	}

	var (
		saved   *store.Variant
		changed *events.StockChangedEvent
	)
	err := s.store.WithTx(ctx, func(q store.Queries) error {
		existing, err := q.GetVariant(ctx, id)
		if err != nil {
			return err
		}
		product, err := q.LockProduct(ctx, existing.ProductID)
		if err != nil {
			return err
		}
		existing.Size = strings.TrimSpace(input.Size)
		existing.SizeDisplay = input.SizeDisplay
		existing.StockQuantity = input.StockQuantity
		existing.PriceModifier = input.PriceModifier
		existing.IsAvailable = input.available()
		existing.SortOrder = input.SortOrder
		existing.UpdatedAt = s.now()
		if saved, err = q.UpdateVariant(ctx, *existing); err != nil {
			return err
		}
		changed = s.recompute(ctx, q, product)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update variant %s: %w", id, err)
	}

	s.variantMutations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "update")))
	s.invalidateCache(ctx)
	s.publishStockChange(ctx, changed)
	return toVariantDto(saved), nil
}

// DeleteVariant removes a variant permanently and recomputes the aggregate stock of its product.
func (s *Service) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	var changed *events.StockChangedEvent
	err := s.store.WithTx(ctx, func(q store.Queries) error {
		existing, err := q.GetVariant(ctx, id)
		if err != nil {
			return err
		}
		product, err := q.LockProduct(ctx, existing.ProductID)
		if err != nil {
			return err
		}
		if err := q.DeleteVariant(ctx, id); err != nil {
			return err
		}
		changed = s.recompute(ctx, q, product)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to delete variant %s: %w", id, err)
	}

	s.variantMutations.Add(ctx, 1, metric.WithAttributes(attribute.String("op", "delete")))
	s.invalidateCache(ctx)
	s.publishStockChange(ctx, changed)
	return nil
}

func (s *Service) ListVariants(ctx context.Context, productID uuid.UUID) ([]VariantDto, error) {
	variants, err := s.store.ListVariants(ctx, productID, store.ActiveVariants)
	if err != nil {
		return nil, fmt.Errorf("failed to list variants for product %s: %w", productID, err)
	}
	return toVariantDtos(variants), nil
}

// CheckStock reports whether quantity units of a variant can be sold. A missing variant yields false.
func (s *Service) CheckStock(ctx context.Context, variantID uuid.UUID, quantity int32) (bool, error) {
	variant, err := s.store.GetVariant(ctx, variantID)
	if err != nil {
		if errors.Is(err, perrors.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check stock of variant %s: %w", variantID, err)
	}
	return variant.IsActive && variant.IsAvailable && variant.StockQuantity >= quantity, nil
}

// VariantPrice returns the base price of the owning product plus the variant's modifier.
// A missing variant is unpriceable and yields zero; a missing product contributes a zero base.
func (s *Service) VariantPrice(ctx context.Context, variantID uuid.UUID) (decimal.Decimal, error) {
	variant, err := s.store.GetVariant(ctx, variantID)
	if err != nil {
		if errors.Is(err, perrors.ErrNotFound) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("failed to price variant %s: %w", variantID, err)
	}

	base := decimal.Zero
	product, err := s.store.GetProduct(ctx, variant.ProductID)
	switch {
	case err == nil:
		base = product.BasePrice()
	case !errors.Is(err, perrors.ErrNotFound):
		return decimal.Zero, fmt.Errorf("failed to price variant %s: %w", variantID, err)
	}

	if variant.PriceModifier != nil {
		return base.Add(*variant.PriceModifier), nil
	}
	return base, nil
}

// RecomputeAggregateStock resets the stock of a sized product to the sum of its active variants.
// Products without sizes are left unchanged and their current stock is returned.
func (s *Service) RecomputeAggregateStock(ctx context.Context, productID uuid.UUID) (int32, error) {
	var (
		stock   int32
		changed *events.StockChangedEvent
	)
	err := s.store.WithTx(ctx, func(q store.Queries) error {
		product, err := q.LockProduct(ctx, productID)
		if err != nil {
			return err
		}
		stock = product.StockQuantity
		if !product.HasSizes {
			return nil
		}
		now := s.now()
		recomputed, applied, err := q.RecomputeAggregateStock(ctx, productID, now)
		if err != nil {
			return err
		}
		if applied {
			changed = s.stockChange(ctx, productID, stock, recomputed)
			stock = recomputed
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("failed to recompute stock of product %s: %w", productID, err)
	}

	s.invalidateCache(ctx)
	s.publishStockChange(ctx, changed)
	return stock, nil
}

// recompute refreshes the aggregate stock of a locked product inside a savepoint.
// A failure is logged and leaves the surrounding mutation intact.
func (s *Service) recompute(ctx context.Context, q store.Queries, product *store.Product) *events.StockChangedEvent {
	if !product.HasSizes {
		return nil
	}
	var changed *events.StockChangedEvent
	err := q.WithSavepoint(ctx, func(sp store.Queries) error {
		stock, applied, err := sp.RecomputeAggregateStock(ctx, product.ID, s.now())
		if err != nil {
			return err
		}
		if applied {
			changed = s.stockChange(ctx, product.ID, product.StockQuantity, stock)
		}
		return nil
	})
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to recompute aggregate stock", "product_id", product.ID, "error", err)
		return nil
	}
	return changed
}

func (s *Service) stockChange(ctx context.Context, productID uuid.UUID, previous, current int32) *events.StockChangedEvent {
	if previous == current {
		return nil
	}
	return &events.StockChangedEvent{
		Carrier:       traceCarrier(ctx),
		ProductID:     productID,
		PreviousStock: previous,
		StockQuantity: current,
		ChangedAt:     s.now(),
	}
}

func (s *Service) publishStockChange(ctx context.Context, event *events.StockChangedEvent) {
	if event != nil {
		s.publish(ctx, *event)
	}
}
