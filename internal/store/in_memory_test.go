package store

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newProduct(name string, price string) Product {
	return Product{
		Name:       name,
		Price:      decimal.RequireFromString(price),
		CategoryID: uuid.MustParse("11111111-2222-3333-4444-555555555555"),
		CreatedAt:  testNow,
		UpdatedAt:  testNow,
	}
}

func TestInMemory_WithTxRollsBackOnError(t *testing.T) {
	// given
	ctx := context.Background()
	s := NewInMemoryStore()
	p, err := s.CreateProduct(ctx, newProduct("Sneaker", "50"))
	require.NoError(t, err)
	boom := errors.New("boom")

	// when
	err = s.WithTx(ctx, func(q Queries) error {
		if _, err := q.DeactivateProduct(ctx, p.ID, testNow); err != nil {
			return err
		}
		if _, err := q.UpsertVariant(ctx, Variant{ProductID: p.ID, Size: "M", UpdatedAt: testNow}); err != nil {
			return err
		}
		return boom
	})

	// then
	assert.ErrorIs(t, err, boom)
	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.True(t, got.IsActive)
	variants, err := s.ListVariants(ctx, p.ID, AllVariants)
	require.NoError(t, err)
	assert.Empty(t, variants)
}

func TestInMemory_WithSavepointKeepsOuterWrites(t *testing.T) {
	// given
	ctx := context.Background()
	s := NewInMemoryStore()
	p, err := s.CreateProduct(ctx, newProduct("Sneaker", "50"))
	require.NoError(t, err)

	// when
	err = s.WithTx(ctx, func(q Queries) error {
		if _, err := q.SetProductStock(ctx, p.ID, 7, testNow); err != nil {
			return err
		}
		spErr := q.WithSavepoint(ctx, func(sq Queries) error {
			_, _ = sq.SetProductStock(ctx, p.ID, 99, testNow)
			return errors.New("inner failure")
		})
		assert.Error(t, spErr)
		return nil
	})

	// then
	require.NoError(t, err)
	got, err := s.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, int32(7), got.StockQuantity)
}

func TestInMemory_UpsertVariantReactivatesExistingSize(t *testing.T) {
	// given
	ctx := context.Background()
	s := NewInMemoryStore()
	p, err := s.CreateProduct(ctx, newProduct("Sneaker", "50"))
	require.NoError(t, err)
	first, err := s.UpsertVariant(ctx, Variant{ProductID: p.ID, Size: "S", StockQuantity: 5, UpdatedAt: testNow})
	require.NoError(t, err)
	_, err = s.DeactivateVariants(ctx, p.ID, testNow)
	require.NoError(t, err)

	// when
	later := testNow.Add(time.Hour)
	second, err := s.UpsertVariant(ctx, Variant{ProductID: p.ID, Size: "S", StockQuantity: 2, UpdatedAt: later})

	// then
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.IsActive)
	assert.Equal(t, int32(2), second.StockQuantity)
	assert.Equal(t, testNow, second.CreatedAt)
	assert.Equal(t, later, second.UpdatedAt)
	all, err := s.ListVariants(ctx, p.ID, AllVariants)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestInMemory_UpdateVariantRejectsDuplicateSize(t *testing.T) {
	// given
	ctx := context.Background()
	s := NewInMemoryStore()
	p, err := s.CreateProduct(ctx, newProduct("Sneaker", "50"))
	require.NoError(t, err)
	_, err = s.UpsertVariant(ctx, Variant{ProductID: p.ID, Size: "S", UpdatedAt: testNow})
	require.NoError(t, err)
	m, err := s.UpsertVariant(ctx, Variant{ProductID: p.ID, Size: "M", UpdatedAt: testNow})
	require.NoError(t, err)

	// when
	m.Size = "S"
	_, err = s.UpdateVariant(ctx, *m)

	// then
	assert.ErrorIs(t, err, perrors.ErrDuplicateSize)
	assert.ErrorIs(t, err, perrors.ErrInvalidOperation)
}

func TestInMemory_RecomputeAggregateStock(t *testing.T) {
	ctx := context.Background()

	t.Run("sums active variants of sized product", func(t *testing.T) {
		// given
		s := NewInMemoryStore()
		sized := newProduct("Sneaker", "50")
		sized.HasSizes = true
		p, err := s.CreateProduct(ctx, sized)
		require.NoError(t, err)
		for size, qty := range map[string]int32{"S": 5, "M": 3} {
			_, err = s.UpsertVariant(ctx, Variant{ProductID: p.ID, Size: size, StockQuantity: qty, UpdatedAt: testNow})
			require.NoError(t, err)
		}

		// when
		stock, applied, err := s.RecomputeAggregateStock(ctx, p.ID, testNow)

		// then
		require.NoError(t, err)
		assert.True(t, applied)
		assert.Equal(t, int32(8), stock)
	})

	t.Run("no-op for product without sizes", func(t *testing.T) {
		// given
		s := NewInMemoryStore()
		plain := newProduct("Cap", "10")
		plain.StockQuantity = 4
		p, err := s.CreateProduct(ctx, plain)
		require.NoError(t, err)

		// when
		_, applied, err := s.RecomputeAggregateStock(ctx, p.ID, testNow)

		// then
		require.NoError(t, err)
		assert.False(t, applied)
		got, _ := s.GetProduct(ctx, p.ID)
		assert.Equal(t, int32(4), got.StockQuantity)
	})
}

func TestInMemory_ListProductsPagesDeterministically(t *testing.T) {
	// given
	ctx := context.Background()
	s := NewInMemoryStore()
	for i := range 20 {
		_, err := s.CreateProduct(ctx, newProduct(fmt.Sprintf("Item %02d", i+1), "10"))
		require.NoError(t, err)
	}
	filter := ProductFilter{Sort: ByPriceAsc, Offset: 12, Limit: 12}

	// when
	page, err := s.ListProducts(ctx, filter)
	require.NoError(t, err)
	count, err := s.CountProducts(ctx, filter)
	require.NoError(t, err)
	again, err := s.ListProducts(ctx, filter)
	require.NoError(t, err)

	// then
	assert.Equal(t, int64(20), count)
	assert.Len(t, page, 8)
	assert.Equal(t, page, again)
}

func TestInMemory_ReadTxRejectsWrites(t *testing.T) {
	ctx := context.Background()
	s := NewInMemoryStore()

	err := s.WithReadTx(ctx, func(q Queries) error {
		_, err := q.CreateProduct(ctx, newProduct("Sneaker", "50"))
		return err
	})

	assert.Error(t, err)
}

func TestInMemory_MainImageOrdering(t *testing.T) {
	// given
	ctx := context.Background()
	s := NewInMemoryStore()
	p, err := s.CreateProduct(ctx, newProduct("Sneaker", "50"))
	require.NoError(t, err)
	_, err = s.InsertImage(ctx, Image{ProductID: p.ID, ImageURL: "/a.jpg", CreatedAt: testNow})
	require.NoError(t, err)
	b, err := s.InsertImage(ctx, Image{ProductID: p.ID, ImageURL: "/b.jpg", CreatedAt: testNow.Add(time.Minute)})
	require.NoError(t, err)

	// when
	_, err = s.SetMainImage(ctx, b.ID, testNow)
	require.NoError(t, err)
	images, err := s.ListImages(ctx, p.ID)

	// then
	require.NoError(t, err)
	require.Len(t, images, 2)
	assert.Equal(t, b.ID, images[0].ID)
}
