package store

import (
	"bytes"
	"context"
	"errors"
	"maps"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/google/uuid"
)

// memData holds the tables of the in-memory store.
type memData struct {
	products map[uuid.UUID]Product
	variants map[uuid.UUID]Variant
	images   map[uuid.UUID]Image
}

func (d *memData) clone() memData {
	return memData{
		products: maps.Clone(d.products),
		variants: maps.Clone(d.variants),
		images:   maps.Clone(d.images),
	}
}

// InMemory implements Store using in-memory maps.
// Every transaction holds a single lock and is rolled back by restoring a snapshot.
type InMemory struct {
	mu   sync.RWMutex
	data *memData
}

// NewInMemoryStore creates a new, empty in-memory Store.
func NewInMemoryStore() *InMemory {
	return &InMemory{
		data: &memData{
			products: make(map[uuid.UUID]Product),
			variants: make(map[uuid.UUID]Variant),
			images:   make(map[uuid.UUID]Image),
		},
	}
}

func (s *InMemory) WithTx(ctx context.Context, fn func(q Queries) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return (&memQueries{data: s.data}).WithSavepoint(ctx, fn)
}

func (s *InMemory) WithReadTx(_ context.Context, fn func(q Queries) error) error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(&memQueries{data: s.data, readOnly: true})
}

func (s *InMemory) read() *memQueries {
	return &memQueries{data: s.data, readOnly: true}
}

func (s *InMemory) write() *memQueries {
	return &memQueries{data: s.data}
}

func (s *InMemory) GetProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetProduct(ctx, id)
}

func (s *InMemory) LockProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().LockProduct(ctx, id)
}

func (s *InMemory) ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListProducts(ctx, filter)
}

func (s *InMemory) CountProducts(ctx context.Context, filter ProductFilter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().CountProducts(ctx, filter)
}

func (s *InMemory) ListFeatured(ctx context.Context, limit int32) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListFeatured(ctx, limit)
}

func (s *InMemory) SuggestNames(ctx context.Context, term string, limit int32) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().SuggestNames(ctx, term, limit)
}

func (s *InMemory) ListLowStock(ctx context.Context, threshold int32) ([]Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListLowStock(ctx, threshold)
}

func (s *InMemory) CreateProduct(ctx context.Context, product Product) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().CreateProduct(ctx, product)
}

func (s *InMemory) UpdateProduct(ctx context.Context, product Product) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().UpdateProduct(ctx, product)
}

func (s *InMemory) DeactivateProduct(ctx context.Context, id uuid.UUID, now time.Time) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().DeactivateProduct(ctx, id, now)
}

func (s *InMemory) SetProductStock(ctx context.Context, id uuid.UUID, quantity int32, now time.Time) (*Product, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().SetProductStock(ctx, id, quantity, now)
}

func (s *InMemory) IncrementViewCount(ctx context.Context, id uuid.UUID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().IncrementViewCount(ctx, id)
}

func (s *InMemory) RecomputeAggregateStock(ctx context.Context, productID uuid.UUID, now time.Time) (int32, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().RecomputeAggregateStock(ctx, productID, now)
}

func (s *InMemory) GetVariant(ctx context.Context, id uuid.UUID) (*Variant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetVariant(ctx, id)
}

func (s *InMemory) ListVariants(ctx context.Context, productID uuid.UUID, scope VariantScope) ([]Variant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListVariants(ctx, productID, scope)
}

func (s *InMemory) ListVariantsByProducts(ctx context.Context, productIDs []uuid.UUID, scope VariantScope) ([]Variant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListVariantsByProducts(ctx, productIDs, scope)
}

func (s *InMemory) UpsertVariant(ctx context.Context, variant Variant) (*Variant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().UpsertVariant(ctx, variant)
}

func (s *InMemory) UpdateVariant(ctx context.Context, variant Variant) (*Variant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().UpdateVariant(ctx, variant)
}

func (s *InMemory) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().DeleteVariant(ctx, id)
}

func (s *InMemory) DeactivateVariants(ctx context.Context, productID uuid.UUID, now time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().DeactivateVariants(ctx, productID, now)
}

func (s *InMemory) GetImage(ctx context.Context, id uuid.UUID) (*Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().GetImage(ctx, id)
}

func (s *InMemory) ListImages(ctx context.Context, productID uuid.UUID) ([]Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListImages(ctx, productID)
}

func (s *InMemory) ListImagesByProducts(ctx context.Context, productIDs []uuid.UUID) ([]Image, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.read().ListImagesByProducts(ctx, productIDs)
}

func (s *InMemory) InsertImage(ctx context.Context, image Image) (*Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().InsertImage(ctx, image)
}

func (s *InMemory) DeleteImage(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().DeleteImage(ctx, id)
}

func (s *InMemory) ClearMainImage(ctx context.Context, productID uuid.UUID, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().ClearMainImage(ctx, productID, now)
}

func (s *InMemory) SetMainImage(ctx context.Context, id uuid.UUID, now time.Time) (*Image, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write().SetMainImage(ctx, id, now)
}

func (s *InMemory) WithSavepoint(ctx context.Context, fn func(q Queries) error) error {
	return s.WithTx(ctx, fn)
}

// memQueries implements Queries directly on the maps. The caller holds the store lock.
type memQueries struct {
	data     *memData
	readOnly bool
}

var errReadOnly = errors.New("write attempted in a read-only transaction")

func (q *memQueries) WithSavepoint(_ context.Context, fn func(q Queries) error) error {
	if q.readOnly {
		return fn(q)
	}
	snapshot := q.data.clone()
	if err := fn(q); err != nil {
		*q.data = snapshot
		return err
	}
	return nil
}

func (q *memQueries) GetProduct(_ context.Context, id uuid.UUID) (*Product, error) {
	p, ok := q.data.products[id]
	if !ok {
		return nil, perrors.ErrProductNotFound
	}
	return &p, nil
}

func (q *memQueries) LockProduct(ctx context.Context, id uuid.UUID) (*Product, error) {
	return q.GetProduct(ctx, id)
}

func (q *memQueries) filterProducts(match func(p *Product) bool, sortKey SortKey) []Product {
	list := make([]Product, 0)
	for _, p := range q.data.products {
		if match(&p) {
			list = append(list, p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return sortKey.less(&list[i], &list[j]) })
	return list
}

func (q *memQueries) ListProducts(_ context.Context, filter ProductFilter) ([]Product, error) {
	list := q.filterProducts(filter.Matches, filter.Sort)
	offset := min(max(int(filter.Offset), 0), len(list))
	end := min(offset+max(int(filter.Limit), 0), len(list))
	return list[offset:end], nil
}

func (q *memQueries) CountProducts(_ context.Context, filter ProductFilter) (int64, error) {
	var count int64
	for _, p := range q.data.products {
		if filter.Matches(&p) {
			count++
		}
	}
	return count, nil
}

func (q *memQueries) ListFeatured(_ context.Context, limit int32) ([]Product, error) {
	list := q.filterProducts(func(p *Product) bool { return p.IsActive && p.IsFeatured }, ByName)
	return list[:min(len(list), max(int(limit), 0))], nil
}

func (q *memQueries) SuggestNames(_ context.Context, term string, limit int32) ([]string, error) {
	term = strings.ToLower(term)
	seen := make(map[string]struct{})
	for _, p := range q.data.products {
		if p.IsActive && strings.Contains(strings.ToLower(p.Name), term) {
			seen[p.Name] = struct{}{}
		}
	}
	names := slices.Sorted(maps.Keys(seen))
	return names[:min(len(names), max(int(limit), 0))], nil
}

func (q *memQueries) ListLowStock(_ context.Context, threshold int32) ([]Product, error) {
	list := q.filterProducts(func(p *Product) bool { return p.IsActive && p.StockQuantity < threshold }, ByName)
	sort.SliceStable(list, func(i, j int) bool { return list[i].StockQuantity < list[j].StockQuantity })
	return list, nil
}

func (q *memQueries) CreateProduct(_ context.Context, p Product) (*Product, error) {
	if q.readOnly {
		return nil, errReadOnly
	}
	p.ID = uuid.New()
	p.IsActive = true
	p.ViewCount = 0
	q.data.products[p.ID] = p
	return &p, nil
}

func (q *memQueries) UpdateProduct(_ context.Context, p Product) (*Product, error) {
	if q.readOnly {
		return nil, errReadOnly
	}
	existing, ok := q.data.products[p.ID]
	if !ok {
		return nil, perrors.ErrProductNotFound
	}
	p.IsActive = existing.IsActive
	p.ViewCount = existing.ViewCount
	p.CreatedAt = existing.CreatedAt
	q.data.products[p.ID] = p
	return &p, nil
}

func (q *memQueries) updateProduct(id uuid.UUID, mutate func(p *Product)) (*Product, error) {
	if q.readOnly {
		return nil, errReadOnly
	}
	p, ok := q.data.products[id]
	if !ok {
		return nil, perrors.ErrProductNotFound
	}
	mutate(&p)
	q.data.products[id] = p
	return &p, nil
}

func (q *memQueries) DeactivateProduct(_ context.Context, id uuid.UUID, now time.Time) (*Product, error) {
	return q.updateProduct(id, func(p *Product) {
		p.IsActive = false
		p.UpdatedAt = now
	})
}

func (q *memQueries) SetProductStock(_ context.Context, id uuid.UUID, quantity int32, now time.Time) (*Product, error) {
	return q.updateProduct(id, func(p *Product) {
		p.StockQuantity = quantity
		p.UpdatedAt = now
	})
}

func (q *memQueries) IncrementViewCount(_ context.Context, id uuid.UUID) (int64, error) {
	if p, ok := q.data.products[id]; !ok || !p.IsActive {
		return 0, perrors.ErrProductNotFound
	}
	p, err := q.updateProduct(id, func(p *Product) { p.ViewCount++ })
	if err != nil {
		return 0, err
	}
	return p.ViewCount, nil
}

func (q *memQueries) RecomputeAggregateStock(_ context.Context, productID uuid.UUID, now time.Time) (int32, bool, error) {
	if p, ok := q.data.products[productID]; !ok || !p.HasSizes {
		return 0, false, nil
	}
	var sum int32
	for _, v := range q.data.variants {
		if v.ProductID == productID && v.IsActive {
			sum += v.StockQuantity
		}
	}
	p, err := q.updateProduct(productID, func(p *Product) {
		p.StockQuantity = sum
		p.UpdatedAt = now
	})
	if err != nil {
		return 0, false, err
	}
	return p.StockQuantity, true, nil
}

func (q *memQueries) GetVariant(_ context.Context, id uuid.UUID) (*Variant, error) {
	v, ok := q.data.variants[id]
	if !ok {
		return nil, perrors.ErrVariantNotFound
	}
	return &v, nil
}

func (q *memQueries) ListVariants(ctx context.Context, productID uuid.UUID, scope VariantScope) ([]Variant, error) {
	return q.ListVariantsByProducts(ctx, []uuid.UUID{productID}, scope)
}

func (q *memQueries) ListVariantsByProducts(_ context.Context, productIDs []uuid.UUID, scope VariantScope) ([]Variant, error) {
	list := make([]Variant, 0)
	for _, v := range q.data.variants {
		if slices.Contains(productIDs, v.ProductID) && scope.includes(&v) {
			list = append(list, v)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if c := bytes.Compare(a.ProductID[:], b.ProductID[:]); c != 0 {
			return c < 0
		}
		if a.SortOrder != b.SortOrder {
			return a.SortOrder < b.SortOrder
		}
		return a.Size < b.Size
	})
	return list, nil
}

func (q *memQueries) findVariantBySize(productID uuid.UUID, size string) (Variant, bool) {
	for _, v := range q.data.variants {
		if v.ProductID == productID && v.Size == size {
			return v, true
		}
	}
	return Variant{}, false
}

func (q *memQueries) UpsertVariant(_ context.Context, v Variant) (*Variant, error) {
	if q.readOnly {
		return nil, errReadOnly
	}
	if _, ok := q.data.products[v.ProductID]; !ok {
		return nil, perrors.ErrProductNotFound
	}
	if existing, ok := q.findVariantBySize(v.ProductID, v.Size); ok {
		v.ID = existing.ID
		v.CreatedAt = existing.CreatedAt
	} else {
		v.ID = uuid.New()
		v.CreatedAt = v.UpdatedAt
	}
	v.IsActive = true
	q.data.variants[v.ID] = v
	return &v, nil
}

func (q *memQueries) UpdateVariant(_ context.Context, v Variant) (*Variant, error) {
	if q.readOnly {
		return nil, errReadOnly
	}
	existing, ok := q.data.variants[v.ID]
	if !ok {
		return nil, perrors.ErrVariantNotFound
	}
	if other, taken := q.findVariantBySize(existing.ProductID, v.Size); taken && other.ID != v.ID {
		return nil, perrors.ErrDuplicateSize
	}
	v.ProductID = existing.ProductID
	v.IsActive = existing.IsActive
	v.CreatedAt = existing.CreatedAt
	q.data.variants[v.ID] = v
	return &v, nil
}

func (q *memQueries) DeleteVariant(_ context.Context, id uuid.UUID) error {
	if q.readOnly {
		return errReadOnly
	}
	if _, ok := q.data.variants[id]; !ok {
		return perrors.ErrVariantNotFound
	}
	delete(q.data.variants, id)
	return nil
}

func (q *memQueries) DeactivateVariants(_ context.Context, productID uuid.UUID, now time.Time) (int64, error) {
	if q.readOnly {
		return 0, errReadOnly
	}
	var count int64
	for id, v := range q.data.variants {
		if v.ProductID == productID && v.IsActive {
			v.IsActive = false
			v.UpdatedAt = now
			q.data.variants[id] = v
			count++
		}
	}
	return count, nil
}

func (q *memQueries) GetImage(_ context.Context, id uuid.UUID) (*Image, error) {
	img, ok := q.data.images[id]
	if !ok {
		return nil, perrors.ErrImageNotFound
	}
	return &img, nil
}

func (q *memQueries) ListImages(ctx context.Context, productID uuid.UUID) ([]Image, error) {
	return q.ListImagesByProducts(ctx, []uuid.UUID{productID})
}

func (q *memQueries) ListImagesByProducts(_ context.Context, productIDs []uuid.UUID) ([]Image, error) {
	list := make([]Image, 0)
	for _, img := range q.data.images {
		if slices.Contains(productIDs, img.ProductID) {
			list = append(list, img)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		a, b := list[i], list[j]
		if c := bytes.Compare(a.ProductID[:], b.ProductID[:]); c != 0 {
			return c < 0
		}
		if a.IsMainImage != b.IsMainImage {
			return a.IsMainImage
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return bytes.Compare(a.ID[:], b.ID[:]) < 0
	})
	return list, nil
}

func (q *memQueries) InsertImage(_ context.Context, img Image) (*Image, error) {
	if q.readOnly {
		return nil, errReadOnly
	}
	if _, ok := q.data.products[img.ProductID]; !ok {
		return nil, perrors.ErrProductNotFound
	}
	img.ID = uuid.New()
	img.UpdatedAt = img.CreatedAt
	q.data.images[img.ID] = img
	return &img, nil
}

func (q *memQueries) DeleteImage(_ context.Context, id uuid.UUID) error {
	if q.readOnly {
		return errReadOnly
	}
	if _, ok := q.data.images[id]; !ok {
		return perrors.ErrImageNotFound
	}
	delete(q.data.images, id)
	return nil
}

func (q *memQueries) ClearMainImage(_ context.Context, productID uuid.UUID, now time.Time) error {
	if q.readOnly {
		return errReadOnly
	}
	for id, img := range q.data.images {
		if img.ProductID == productID && img.IsMainImage {
			img.IsMainImage = false
			img.UpdatedAt = now
			q.data.images[id] = img
		}
	}
	return nil
}

func (q *memQueries) SetMainImage(_ context.Context, id uuid.UUID, now time.Time) (*Image, error) {
	if q.readOnly {
		return nil, errReadOnly
	}
	img, ok := q.data.images[id]
	if !ok {
		return nil, perrors.ErrImageNotFound
	}
	img.IsMainImage = true
	img.UpdatedAt = now
	q.data.images[id] = img
	return &img, nil
}

// compile-time checks
var (
	_ Store = (*InMemory)(nil)
	_ Store = (*PgStore)(nil)
)
