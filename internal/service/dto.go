package service

import (
	"fmt"
	"strings"
	"time"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/store"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	DefaultPageSize          = 12
	MaxPageSize              = 100
	DefaultFeaturedCount     = 8
	SuggestionLimit          = 10
	MinSuggestionLength      = 2
	DefaultLowStockThreshold = 10
)

// ParseSortKey maps the public sort names to a store.SortKey. Unknown names sort by name.
func ParseSortKey(s string) store.SortKey {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "price", "price_asc":
		return store.ByPriceAsc
	case "price_desc":
		return store.ByPriceDesc
	case "newest":
		return store.ByNewest
	case "popular":
		return store.ByPopularity
	default:
		return store.ByName
	}
}

// ListParams are the listing criteria accepted by ListProducts.
// Page values below 1 are treated as 1; PageSize falls back to DefaultPageSize and is capped at MaxPageSize.
type ListParams struct {
	Page         int32
	PageSize     int32
	Search       string
	CategoryID   *uuid.UUID
	MinPrice     *decimal.Decimal
	MaxPrice     *decimal.Decimal
	Sort         store.SortKey
	FeaturedOnly bool
	SaleOnly     bool
	Gender       string
}

// ProductPage is one page of a product listing.
type ProductPage struct {
	Items      []ProductDto `json:"items"`
	Page       int32        `json:"page"`
	PageSize   int32        `json:"page_size"`
	TotalCount int64        `json:"total_count"`
	TotalPages int64        `json:"total_pages"`
}

// ProductDto represents the data transfer object for a product.
type ProductDto struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Description   string           `json:"description"`
	Brand         string           `json:"brand"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discount_price,omitempty"`
	OnSale        bool             `json:"on_sale"`
	StockQuantity int32            `json:"stock_quantity"`
	SKU           string           `json:"sku"`
	CategoryID    string           `json:"category_id"`
	Gender        string           `json:"gender"`
	HasSizes      bool             `json:"has_sizes"`
	IsFeatured    bool             `json:"is_featured"`
	IsActive      bool             `json:"is_active"`
	ViewCount     int64            `json:"view_count"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
	Variants      []VariantDto     `json:"variants,omitempty"`
	Images        []ImageDto       `json:"images,omitempty"`
}

// ProductInputDto is the writable part of a product, used by Create and Update.
type ProductInputDto struct {
	Name          string           `json:"name"           validate:"required,max=200"`
	Description   string           `json:"description"    validate:"max=4000"`
	Brand         string           `json:"brand"          validate:"max=100"`
	Price         decimal.Decimal  `json:"price"          validate:"gt=0"`
	DiscountPrice *decimal.Decimal `json:"discount_price" validate:"omitempty,gte=0"`
	StockQuantity int32            `json:"stock_quantity" validate:"min=0"`
	SKU           string           `json:"sku"            validate:"max=64"`
	CategoryID    uuid.UUID        `json:"category_id"    validate:"required"`
	Gender        string           `json:"gender"         validate:"max=32"`
	HasSizes      bool             `json:"has_sizes"`
	IsFeatured    bool             `json:"is_featured"`
}

func (in *ProductInputDto) check() error {
	if strings.TrimSpace(in.Name) == "" {
		return fmt.Errorf("%w: name is required", perrors.ErrInvalidInput)
	}
	if !in.Price.IsPositive() {
		return fmt.Errorf("%w: price must be greater than zero", perrors.ErrInvalidInput)
	}
	if in.StockQuantity < 0 {
		return fmt.Errorf("%w: stock quantity must not be negative", perrors.ErrInvalidInput)
	}
	return nil
}

// VariantDto represents the data transfer object for a product variant.
type VariantDto struct {
	ID            string           `json:"id"`
	ProductID     string           `json:"product_id"`
	Size          string           `json:"size"`
	SizeDisplay   string           `json:"size_display"`
	StockQuantity int32            `json:"stock_quantity"`
	PriceModifier *decimal.Decimal `json:"price_modifier,omitempty"`
	IsAvailable   bool             `json:"is_available"`
	IsActive      bool             `json:"is_active"`
	SortOrder     int32            `json:"sort_order"`
	CreatedAt     time.Time        `json:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at"`
}

// VariantInputDto is the writable part of a variant, used by UpsertVariant and UpdateVariant.
// IsAvailable defaults to true when omitted.
type VariantInputDto struct {
	Size          string           `json:"size"           validate:"required,max=20"`
	SizeDisplay   string           `json:"size_display"   validate:"max=50"`
	StockQuantity int32            `json:"stock_quantity" validate:"min=0"`
	PriceModifier *decimal.Decimal `json:"price_modifier"`
	IsAvailable   *bool            `json:"is_available"`
	SortOrder     int32            `json:"sort_order"`
}

func (in *VariantInputDto) check() error {
	if strings.TrimSpace(in.Size) == "" {
		return fmt.Errorf("%w: size is required", perrors.ErrInvalidInput)
	}
	if in.StockQuantity < 0 {
		return fmt.Errorf("%w: stock quantity must not be negative", perrors.ErrInvalidInput)
	}
	return nil
}

func (in *VariantInputDto) available() bool {
	return in.IsAvailable == nil || *in.IsAvailable
}

// ImageDto represents the data transfer object for a product image.
type ImageDto struct {
	ID          string    `json:"id"`
	ProductID   string    `json:"product_id"`
	ImageURL    string    `json:"image_url"`
	AltText     string    `json:"alt_text"`
	IsMainImage bool      `json:"is_main_image"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ImageInputDto describes an image to link to a product.
type ImageInputDto struct {
	ImageURL    string `json:"image_url"     validate:"required,max=2048"`
	AltText     string `json:"alt_text"      validate:"max=200"`
	IsMainImage bool   `json:"is_main_image"`
}

// StockUpdateDto represents the data transfer object for overriding product stock.
type StockUpdateDto struct {
	StockQuantity int32 `json:"stock_quantity" validate:"min=0"`
}

// toDto converts a store.Product to a ProductDto.
func toDto(p *store.Product) *ProductDto {
	return &ProductDto{
		ID:            p.ID.String(),
		Name:          p.Name,
		Description:   p.Description,
		Brand:         p.Brand,
		Price:         p.Price,
		DiscountPrice: p.DiscountPrice,
		OnSale:        p.OnSale(),
		StockQuantity: p.StockQuantity,
		SKU:           p.SKU,
		CategoryID:    p.CategoryID.String(),
		Gender:        p.Gender,
		HasSizes:      p.HasSizes,
		IsFeatured:    p.IsFeatured,
		IsActive:      p.IsActive,
		ViewCount:     p.ViewCount,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func toDtos(products []store.Product) []ProductDto {
	dtos := make([]ProductDto, len(products))
	for i := range products {
		dtos[i] = *toDto(&products[i])
	}
	return dtos
}

func toVariantDto(v *store.Variant) *VariantDto {
	return &VariantDto{
		ID:            v.ID.String(),
		ProductID:     v.ProductID.String(),
		Size:          v.Size,
		SizeDisplay:   v.SizeDisplay,
		StockQuantity: v.StockQuantity,
		PriceModifier: v.PriceModifier,
		IsAvailable:   v.IsAvailable,
		IsActive:      v.IsActive,
		SortOrder:     v.SortOrder,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

func toVariantDtos(variants []store.Variant) []VariantDto {
	dtos := make([]VariantDto, len(variants))
	for i := range variants {
		dtos[i] = *toVariantDto(&variants[i])
	}
	return dtos
}

func toImageDto(img *store.Image) *ImageDto {
	return &ImageDto{
		ID:          img.ID.String(),
		ProductID:   img.ProductID.String(),
		ImageURL:    img.ImageURL,
		AltText:     img.AltText,
		IsMainImage: img.IsMainImage,
		CreatedAt:   img.CreatedAt,
		UpdatedAt:   img.UpdatedAt,
	}
}

func toImageDtos(images []store.Image) []ImageDto {
	dtos := make([]ImageDto, len(images))
	for i := range images {
		dtos[i] = *toImageDto(&images[i])
	}
	return dtos
}

// withChildren builds product DTOs with their variants and images attached, keeping product order.
func withChildren(products []store.Product, variants []store.Variant, images []store.Image) []ProductDto {
	variantsByProduct := make(map[uuid.UUID][]store.Variant)
	for _, v := range variants {
		variantsByProduct[v.ProductID] = append(variantsByProduct[v.ProductID], v)
	}
	imagesByProduct := make(map[uuid.UUID][]store.Image)
	for _, img := range images {
		imagesByProduct[img.ProductID] = append(imagesByProduct[img.ProductID], img)
	}

	dtos := make([]ProductDto, len(products))
	for i := range products {
		dto := toDto(&products[i])
		dto.Variants = toVariantDtos(variantsByProduct[products[i].ID])
		dto.Images = toImageDtos(imagesByProduct[products[i].ID])
		dtos[i] = *dto
	}
	return dtos
}

func productIDs(products []store.Product) []uuid.UUID {
	ids := make([]uuid.UUID, len(products))
	for i := range products {
		ids[i] = products[i].ID
	}
	return ids
}
