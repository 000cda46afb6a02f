package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/abgdnv/catalog/internal/cache"
	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/store"
	"github.com/google/uuid"
)

// ListProducts returns one page of active products and the total number of matches.
// Counting, paging and loading children share one read snapshot.
func (s *Service) ListProducts(ctx context.Context, params ListParams) (*ProductPage, error) {
	page := max(params.Page, 1)
	pageSize := params.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	pageSize = min(pageSize, MaxPageSize)
	offset := min(int64(page-1)*int64(pageSize), math.MaxInt32)

	filter := store.ProductFilter{
		Search:       strings.TrimSpace(params.Search),
		CategoryID:   params.CategoryID,
		Gender:       params.Gender,
		MinPrice:     params.MinPrice,
		MaxPrice:     params.MaxPrice,
		FeaturedOnly: params.FeaturedOnly,
		SaleOnly:     params.SaleOnly,
		Sort:         params.Sort,
		Offset:       int32(offset),
		Limit:        pageSize,
	}

	var (
		total    int64
		products []store.Product
		variants []store.Variant
		images   []store.Image
	)
	err := s.store.WithReadTx(ctx, func(q store.Queries) error {
		var err error
		if total, err = q.CountProducts(ctx, filter); err != nil {
			return err
		}
		if products, err = q.ListProducts(ctx, filter); err != nil {
			return err
		}
		ids := productIDs(products)
		if variants, err = q.ListVariantsByProducts(ctx, ids, store.VisibleVariants); err != nil {
			return err
		}
		images, err = q.ListImagesByProducts(ctx, ids)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return &ProductPage{
		Items:      withChildren(products, variants, images),
		Page:       page,
		PageSize:   pageSize,
		TotalCount: total,
		TotalPages: (total + int64(pageSize) - 1) / int64(pageSize),
	}, nil
}

// GetProductByID returns an active product with its visible variants and its images.
func (s *Service) GetProductByID(ctx context.Context, id uuid.UUID) (*ProductDto, error) {
	dto, err := s.getProduct(ctx, id, store.VisibleVariants)
	if err != nil {
		return nil, err
	}
	if !dto.IsActive {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id, perrors.ErrProductNotFound)
	}
	return dto, nil
}

// GetProductAdmin returns a product with all of its variants, active or not.
func (s *Service) GetProductAdmin(ctx context.Context, id uuid.UUID) (*ProductDto, error) {
	return s.getProduct(ctx, id, store.AllVariants)
}

func (s *Service) getProduct(ctx context.Context, id uuid.UUID, scope store.VariantScope) (*ProductDto, error) {
	var dto *ProductDto
	err := s.store.WithReadTx(ctx, func(q store.Queries) error {
		product, err := q.GetProduct(ctx, id)
		if err != nil {
			return err
		}
		dto = toDto(product)
		if !product.IsActive && scope != store.AllVariants {
			return nil
		}
		variants, err := q.ListVariants(ctx, id, scope)
		if err != nil {
			return err
		}
		images, err := q.ListImages(ctx, id)
		if err != nil {
			return err
		}
		dto.Variants = toVariantDtos(variants)
		dto.Images = toImageDtos(images)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product by ID %s: %w", id, err)
	}
	return dto, nil
}

// GetFeatured returns up to count active featured products ordered by name, with their images.
func (s *Service) GetFeatured(ctx context.Context, count int32) ([]ProductDto, error) {
	if count < 1 {
		count = DefaultFeaturedCount
	}
	count = min(count, MaxPageSize)

	key, cacheable := s.cacheKey(ctx, "featured", count)
	if cacheable {
		if cached, ok := s.cachedProducts(ctx, key); ok {
			return cached, nil
		}
	}

	var dtos []ProductDto
	err := s.store.WithReadTx(ctx, func(q store.Queries) error {
		products, err := q.ListFeatured(ctx, count)
		if err != nil {
			return err
		}
		ids := productIDs(products)
		variants, err := q.ListVariantsByProducts(ctx, ids, store.VisibleVariants)
		if err != nil {
			return err
		}
		images, err := q.ListImagesByProducts(ctx, ids)
		if err != nil {
			return err
		}
		dtos = withChildren(products, variants, images)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch featured products: %w", err)
	}

	if cacheable {
		s.storeInCache(ctx, key, dtos)
	}
	return dtos, nil
}

// SearchSuggestions returns distinct names of active products containing query.
func (s *Service) SearchSuggestions(ctx context.Context, query string) ([]string, error) {
	query = strings.TrimSpace(query)
	if utf8.RuneCountInString(query) < MinSuggestionLength {
		return []string{}, nil
	}

	key, cacheable := s.cacheKey(ctx, "suggestions", strings.ToLower(query))
	if cacheable {
		names, err := cache.GetJSON[[]string](ctx, s.cache, key)
		if err == nil {
			return names, nil
		}
		if !errors.Is(err, cache.ErrCacheMiss) {
			s.logger.WarnContext(ctx, "Failed to read suggestions from cache", "key", key, "error", err)
		}
	}

	names, err := s.store.SuggestNames(ctx, query, SuggestionLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch suggestions: %w", err)
	}
	if names == nil {
		names = []string{}
	}
	if cacheable {
		s.storeInCache(ctx, key, names)
	}
	return names, nil
}
