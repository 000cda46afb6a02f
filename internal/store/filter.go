package store

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SortKey is the closed set of orderings supported by product listings.
type SortKey int

const (
	ByName SortKey = iota
	ByPriceAsc
	ByPriceDesc
	ByNewest
	ByPopularity
)

func (k SortKey) String() string {
	switch k {
	case ByPriceAsc:
		return "price"
	case ByPriceDesc:
		return "price_desc"
	case ByNewest:
		return "newest"
	case ByPopularity:
		return "popular"
	default:
		return "name"
	}
}

// orderBy is the ORDER BY clause for the key. The id column breaks ties so pages are stable.
func (k SortKey) orderBy() string {
	switch k {
	case ByPriceAsc:
		return "price ASC, id ASC"
	case ByPriceDesc:
		return "price DESC, id ASC"
	case ByNewest:
		return "created_at DESC, id ASC"
	case ByPopularity:
		return "view_count DESC, id ASC"
	default:
		return "name ASC, id ASC"
	}
}

// less orders two products the same way orderBy does.
func (k SortKey) less(a, b *Product) bool {
	var c int
	switch k {
	case ByPriceAsc:
		c = a.Price.Cmp(b.Price)
	case ByPriceDesc:
		c = b.Price.Cmp(a.Price)
	case ByNewest:
		c = b.CreatedAt.Compare(a.CreatedAt)
	case ByPopularity:
		c = compareInt64(b.ViewCount, a.ViewCount)
	default:
		c = strings.Compare(a.Name, b.Name)
	}
	if c != 0 {
		return c < 0
	}
	return bytes.Compare(a.ID[:], b.ID[:]) < 0
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// ProductFilter holds the customer-facing listing criteria. Only active products ever match.
// Nil pointers and empty strings disable the corresponding criterion.
type ProductFilter struct {
	Search       string
	CategoryID   *uuid.UUID
	Gender       string
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	FeaturedOnly bool
	SaleOnly     bool
	Sort         SortKey
	Offset       int32
	Limit        int32
}

// Matches reports whether p satisfies every criterion of the filter.
func (f *ProductFilter) Matches(p *Product) bool {
	if !p.IsActive {
		return false
	}
	if f.Search != "" {
		term := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) &&
			!strings.Contains(strings.ToLower(p.Brand), term) {
			return false
		}
	}
	if f.CategoryID != nil && p.CategoryID != *f.CategoryID {
		return false
	}
	if f.Gender != "" && p.Gender != f.Gender {
		return false
	}
	if f.MinPrice != nil && p.Price.LessThan(*f.MinPrice) {
		return false
	}
	if f.MaxPrice != nil && p.Price.GreaterThan(*f.MaxPrice) {
		return false
	}
	if f.FeaturedOnly && !p.IsFeatured {
		return false
	}
	if f.SaleOnly && !p.OnSale() {
		return false
	}
	return true
}

// where renders the filter as a SQL WHERE clause with positional arguments.
func (f *ProductFilter) where() (string, []any) {
	conditions := []string{"is_active"}
	var args []any
	bind := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if f.Search != "" {
		p := bind("%" + escapeLike(f.Search) + "%")
		conditions = append(conditions, fmt.Sprintf("(name ILIKE %[1]s OR description ILIKE %[1]s OR brand ILIKE %[1]s)", p))
	}
	if f.CategoryID != nil {
		conditions = append(conditions, "category_id = "+bind(*f.CategoryID))
	}
	if f.Gender != "" {
		conditions = append(conditions, "gender = "+bind(f.Gender))
	}
	if f.MinPrice != nil {
		conditions = append(conditions, "price >= "+bind(*f.MinPrice))
	}
	if f.MaxPrice != nil {
		conditions = append(conditions, "price <= "+bind(*f.MaxPrice))
	}
	if f.FeaturedOnly {
		conditions = append(conditions, "is_featured")
	}
	if f.SaleOnly {
		conditions = append(conditions, "discount_price IS NOT NULL AND discount_price > 0 AND discount_price < price")
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// countQuery and pageQuery build the two statements of a paginated listing.
func (f *ProductFilter) countQuery() (string, []any) {
	where, args := f.where()
	return "SELECT COUNT(*) FROM products" + where, args
}

func (f *ProductFilter) pageQuery() (string, []any) {
	where, args := f.where()
	args = append(args, f.Limit, f.Offset)
	query := fmt.Sprintf("SELECT %s FROM products%s ORDER BY %s LIMIT $%d OFFSET $%d",
		productColumns, where, f.Sort.orderBy(), len(args)-1, len(args))
	return query, args
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike escapes the LIKE metacharacters so the term matches literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
