package store

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a row of the products table.
// StockQuantity is authoritative only when HasSizes is false; otherwise it is derived from the
// active variants.
type Product struct {
	ID            uuid.UUID        `db:"id"`
	Name          string           `db:"name"`
	Description   string           `db:"description"`
	Brand         string           `db:"brand"`
	Price         decimal.Decimal  `db:"price"`
	DiscountPrice *decimal.Decimal `db:"discount_price"`
	StockQuantity int32            `db:"stock_quantity"`
	SKU           string           `db:"sku"`
	CategoryID    uuid.UUID        `db:"category_id"`
	Gender        string           `db:"gender"`
	HasSizes      bool             `db:"has_sizes"`
	IsFeatured    bool             `db:"is_featured"`
	IsActive      bool             `db:"is_active"`
	ViewCount     int64            `db:"view_count"`
	CreatedAt     time.Time        `db:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at"`
}

// OnSale reports whether the discount price is set and strictly between zero and the list price.
func (p *Product) OnSale() bool {
	return p.DiscountPrice != nil && p.DiscountPrice.IsPositive() && p.DiscountPrice.LessThan(p.Price)
}

// BasePrice is the discount price when one is set, else the list price.
func (p *Product) BasePrice() decimal.Decimal {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.Price
}

// Variant is a row of the product_variants table, one sellable size of a product.
type Variant struct {
	ID            uuid.UUID        `db:"id"`
	ProductID     uuid.UUID        `db:"product_id"`
	Size          string           `db:"size"`
	SizeDisplay   string           `db:"size_display"`
	StockQuantity int32            `db:"stock_quantity"`
	PriceModifier *decimal.Decimal `db:"price_modifier"`
	IsAvailable   bool             `db:"is_available"`
	IsActive      bool             `db:"is_active"`
	SortOrder     int32            `db:"sort_order"`
	CreatedAt     time.Time        `db:"created_at"`
	UpdatedAt     time.Time        `db:"updated_at"`
}

// Image is a row of the product_images table.
type Image struct {
	ID          uuid.UUID `db:"id"`
	ProductID   uuid.UUID `db:"product_id"`
	ImageURL    string    `db:"image_url"`
	AltText     string    `db:"alt_text"`
	IsMainImage bool      `db:"is_main_image"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// VariantScope selects which variants of a product a listing returns.
type VariantScope int

const (
	// AllVariants includes deactivated variants.
	AllVariants VariantScope = iota
	// ActiveVariants excludes deactivated variants.
	ActiveVariants
	// VisibleVariants are active and marked available by the merchant.
	VisibleVariants
)

func (s VariantScope) includes(v *Variant) bool {
	switch s {
	case ActiveVariants:
		return v.IsActive
	case VisibleVariants:
		return v.IsActive && v.IsAvailable
	default:
		return true
	}
}

func (s VariantScope) sqlCondition() string {
	switch s {
	case ActiveVariants:
		return " AND is_active"
	case VisibleVariants:
		return " AND is_active AND is_available"
	default:
		return ""
	}
}
