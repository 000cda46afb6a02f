package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func TestProductFilter_where(t *testing.T) {
	categoryID := uuid.MustParse("9a4e3f0c-2b1d-4c5e-8f7a-6b5c4d3e2f1a")

	testCases := []struct {
		name          string
		filter        ProductFilter
		expectedWhere string
		expectedArgs  []any
	}{
		{
			name:          "no criteria only active products",
			filter:        ProductFilter{},
			expectedWhere: " WHERE is_active",
		},
		{
			name:          "search escapes like metacharacters",
			filter:        ProductFilter{Search: `50%_off\`},
			expectedWhere: " WHERE is_active AND (name ILIKE $1 OR description ILIKE $1 OR brand ILIKE $1)",
			expectedArgs:  []any{`%50\%\_off\\%`},
		},
		{
			name: "all criteria are conjunctive",
			filter: ProductFilter{
				CategoryID:   &categoryID,
				Gender:       "women",
				MinPrice:     dec("10"),
				MaxPrice:     dec("99.99"),
				FeaturedOnly: true,
				SaleOnly:     true,
			},
			expectedWhere: " WHERE is_active AND category_id = $1 AND gender = $2 AND price >= $3 AND price <= $4" +
				" AND is_featured AND discount_price IS NOT NULL AND discount_price > 0 AND discount_price < price",
			expectedArgs: []any{categoryID, "women", *dec("10"), *dec("99.99")},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// when
			where, args := tc.filter.where()

			// then
			assert.Equal(t, tc.expectedWhere, where)
			assert.Equal(t, tc.expectedArgs, args)
		})
	}
}

func TestProductFilter_pageQuery(t *testing.T) {
	// given
	filter := ProductFilter{Gender: "men", Sort: ByPriceDesc, Offset: 12, Limit: 12}

	// when
	query, args := filter.pageQuery()

	// then
	assert.Equal(t, "SELECT "+productColumns+" FROM products WHERE is_active AND gender = $1"+
		" ORDER BY price DESC, id ASC LIMIT $2 OFFSET $3", query)
	assert.Equal(t, []any{"men", int32(12), int32(12)}, args)
}

func TestSortKey_orderBy(t *testing.T) {
	testCases := []struct {
		key      SortKey
		expected string
	}{
		{key: ByName, expected: "name ASC, id ASC"},
		{key: ByPriceAsc, expected: "price ASC, id ASC"},
		{key: ByPriceDesc, expected: "price DESC, id ASC"},
		{key: ByNewest, expected: "created_at DESC, id ASC"},
		{key: ByPopularity, expected: "view_count DESC, id ASC"},
		{key: SortKey(42), expected: "name ASC, id ASC"},
	}

	for _, tc := range testCases {
		t.Run(tc.key.String(), func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.key.orderBy())
		})
	}
}

func TestProductFilter_Matches(t *testing.T) {
	base := Product{
		Name:        "Trail Runner",
		Description: "Lightweight shoe",
		Brand:       "Acme",
		Price:       decimal.RequireFromString("100"),
		Gender:      "men",
		IsActive:    true,
		CreatedAt:   time.Now(),
	}

	testCases := []struct {
		name     string
		mutate   func(p *Product)
		filter   ProductFilter
		expected bool
	}{
		{name: "inactive never matches", mutate: func(p *Product) { p.IsActive = false }, expected: false},
		{name: "search on brand is case insensitive", filter: ProductFilter{Search: "acME"}, expected: true},
		{name: "search misses", filter: ProductFilter{Search: "boot"}, expected: false},
		{name: "price bounds are inclusive", filter: ProductFilter{MinPrice: dec("100"), MaxPrice: dec("100")}, expected: true},
		{name: "below min price", filter: ProductFilter{MinPrice: dec("100.01")}, expected: false},
		{name: "gender mismatch", filter: ProductFilter{Gender: "women"}, expected: false},
		{name: "featured only", filter: ProductFilter{FeaturedOnly: true}, expected: false},
		{
			name:     "sale with valid discount",
			mutate:   func(p *Product) { p.DiscountPrice = dec("80") },
			filter:   ProductFilter{SaleOnly: true},
			expected: true,
		},
		{
			name:     "sale excludes zero discount",
			mutate:   func(p *Product) { p.DiscountPrice = dec("0") },
			filter:   ProductFilter{SaleOnly: true},
			expected: false,
		},
		{
			name:     "sale excludes discount equal to price",
			mutate:   func(p *Product) { p.DiscountPrice = dec("100") },
			filter:   ProductFilter{SaleOnly: true},
			expected: false,
		},
		{
			name:     "sale excludes discount above price",
			mutate:   func(p *Product) { p.DiscountPrice = dec("120") },
			filter:   ProductFilter{SaleOnly: true},
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			p := base
			if tc.mutate != nil {
				tc.mutate(&p)
			}

			// when
			matched := tc.filter.Matches(&p)

			// then
			assert.Equal(t, tc.expected, matched)
		})
	}
}

func TestProduct_BasePrice(t *testing.T) {
	p := Product{Price: decimal.RequireFromString("100")}
	assert.True(t, decimal.RequireFromString("100").Equal(p.BasePrice()))

	p.DiscountPrice = dec("79.5")
	assert.True(t, decimal.RequireFromString("79.5").Equal(p.BasePrice()))
}
