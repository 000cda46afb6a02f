package rest

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	perrors "github.com/abgdnv/catalog/internal/errors"
	"github.com/abgdnv/catalog/internal/service"
	"github.com/abgdnv/catalog/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) ListProducts(ctx context.Context, params service.ListParams) (*service.ProductPage, error) {
	args := m.Called(ctx, params)
	var page *service.ProductPage
	if args.Get(0) != nil {
		page = args.Get(0).(*service.ProductPage)
	}
	return page, args.Error(1)
}

func (m *MockCatalogService) GetProductByID(ctx context.Context, id uuid.UUID) (*service.ProductDto, error) {
	return m.product(m.Called(ctx, id))
}

func (m *MockCatalogService) GetProductAdmin(ctx context.Context, id uuid.UUID) (*service.ProductDto, error) {
	return m.product(m.Called(ctx, id))
}

func (m *MockCatalogService) GetFeatured(ctx context.Context, count int32) ([]service.ProductDto, error) {
	args := m.Called(ctx, count)
	return args.Get(0).([]service.ProductDto), args.Error(1)
}

func (m *MockCatalogService) SearchSuggestions(ctx context.Context, query string) ([]string, error) {
	args := m.Called(ctx, query)
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockCatalogService) UpsertVariant(ctx context.Context, productID uuid.UUID, input service.VariantInputDto) (*service.VariantDto, error) {
	return m.variant(m.Called(ctx, productID, input))
}

func (m *MockCatalogService) UpdateVariant(ctx context.Context, id uuid.UUID, input service.VariantInputDto) (*service.VariantDto, error) {
	return m.variant(m.Called(ctx, id, input))
}

func (m *MockCatalogService) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCatalogService) ListVariants(ctx context.Context, productID uuid.UUID) ([]service.VariantDto, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]service.VariantDto), args.Error(1)
}

func (m *MockCatalogService) CheckStock(ctx context.Context, variantID uuid.UUID, quantity int32) (bool, error) {
	args := m.Called(ctx, variantID, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalogService) VariantPrice(ctx context.Context, variantID uuid.UUID) (decimal.Decimal, error) {
	args := m.Called(ctx, variantID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockCatalogService) RecomputeAggregateStock(ctx context.Context, productID uuid.UUID) (int32, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).(int32), args.Error(1)
}

func (m *MockCatalogService) Create(ctx context.Context, input service.ProductInputDto) (*service.ProductDto, error) {
	return m.product(m.Called(ctx, input))
}

func (m *MockCatalogService) Update(ctx context.Context, id uuid.UUID, input service.ProductInputDto) (*service.ProductDto, error) {
	return m.product(m.Called(ctx, id, input))
}

func (m *MockCatalogService) SoftDelete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCatalogService) SetStock(ctx context.Context, id uuid.UUID, quantity int32) (*service.ProductDto, error) {
	return m.product(m.Called(ctx, id, quantity))
}

func (m *MockCatalogService) CheckAvailability(ctx context.Context, id uuid.UUID, quantity int32) (bool, error) {
	args := m.Called(ctx, id, quantity)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalogService) GetLowStock(ctx context.Context, threshold int32) ([]service.ProductDto, error) {
	args := m.Called(ctx, threshold)
	return args.Get(0).([]service.ProductDto), args.Error(1)
}

func (m *MockCatalogService) CalculateDiscountPrice(ctx context.Context, id uuid.UUID, percent decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, id, percent)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockCatalogService) IncrementViewCount(ctx context.Context, id uuid.UUID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockCatalogService) AddImage(ctx context.Context, productID uuid.UUID, input service.ImageInputDto) (*service.ImageDto, error) {
	return m.image(m.Called(ctx, productID, input))
}

func (m *MockCatalogService) RemoveImage(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockCatalogService) SetMainImage(ctx context.Context, id uuid.UUID) (*service.ImageDto, error) {
	return m.image(m.Called(ctx, id))
}

func (m *MockCatalogService) ListImages(ctx context.Context, productID uuid.UUID) ([]service.ImageDto, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]service.ImageDto), args.Error(1)
}

func (m *MockCatalogService) product(args mock.Arguments) (*service.ProductDto, error) {
	var p *service.ProductDto
	if args.Get(0) != nil {
		p = args.Get(0).(*service.ProductDto)
	}
	return p, args.Error(1)
}

func (m *MockCatalogService) variant(args mock.Arguments) (*service.VariantDto, error) {
	var v *service.VariantDto
	if args.Get(0) != nil {
		v = args.Get(0).(*service.VariantDto)
	}
	return v, args.Error(1)
}

func (m *MockCatalogService) image(args mock.Arguments) (*service.ImageDto, error) {
	var img *service.ImageDto
	if args.Get(0) != nil {
		img = args.Get(0).(*service.ImageDto)
	}
	return img, args.Error(1)
}

type ErrorResponse struct {
	Error string `json:"error"`
}

type ValidationErrorResponse struct {
	ValidationErrors map[string]string `json:"validation_errors"`
}

func newRouter(svc service.CatalogService) http.Handler {
	r := chi.NewRouter()
	NewHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil))).RegisterRoutes(r)
	return r
}

func serve(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func Test_Handler_GetProductByID(t *testing.T) {
	productID := uuid.New()

	testCases := []struct {
		name         string
		mockProduct  *service.ProductDto
		mockError    error
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - product found",
			mockProduct:  &service.ProductDto{ID: productID.String(), Name: "Runner", Price: decimal.NewFromInt(80)},
			expectedCode: http.StatusOK,
		},
		{
			name:         "Error - product not found",
			mockError:    fmt.Errorf("failed to fetch product: %w", perrors.ErrProductNotFound),
			expectedCode: http.StatusNotFound,
			expectedBody: `{"error":"Product not found"}`,
		},
		{
			name:         "Error - service error",
			mockError:    errors.New("connection refused"),
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"error":"Failed to retrieve product"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mockSvc := new(MockCatalogService)
			mockSvc.On("GetProductByID", mock.Anything, productID).Return(tc.mockProduct, tc.mockError)

			// when
			rr := serve(t, newRouter(mockSvc), http.MethodGet, "/api/v1/products/"+productID.String(), "")

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			} else {
				var got service.ProductDto
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &got))
				assert.Equal(t, "Runner", got.Name)
			}
			mockSvc.AssertExpectations(t)
		})
	}

	t.Run("invalid id format", func(t *testing.T) {
		// given
		mockSvc := new(MockCatalogService)

		// when
		rr := serve(t, newRouter(mockSvc), http.MethodGet, "/api/v1/products/not-a-uuid", "")

		// then
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockSvc.AssertNotCalled(t, "GetProductByID", mock.Anything, mock.Anything)
	})
}

func Test_Handler_ListProducts(t *testing.T) {
	categoryID := uuid.New()

	t.Run("passes parsed filters to the service", func(t *testing.T) {
		// given
		mockSvc := new(MockCatalogService)
		minPrice := decimal.RequireFromString("10.5")
		expected := service.ListParams{
			Page:         2,
			PageSize:     12,
			Search:       "shoe",
			CategoryID:   &categoryID,
			MinPrice:     &minPrice,
			Sort:         store.ByPriceDesc,
			FeaturedOnly: true,
			SaleOnly:     true,
			Gender:       "women",
		}
		page := &service.ProductPage{Items: []service.ProductDto{}, Page: 2, PageSize: 12, TotalCount: 20, TotalPages: 2}
		mockSvc.On("ListProducts", mock.Anything, expected).Return(page, nil)

		// when
		target := "/api/v1/products?page=2&search=shoe&categoryId=" + categoryID.String() +
			"&minPrice=10.5&sortBy=price_desc&featured=true&sale=true&gender=women"
		rr := serve(t, newRouter(mockSvc), http.MethodGet, target, "")

		// then
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"items":[],"page":2,"page_size":12,"total_count":20,"total_pages":2}`, rr.Body.String())
		mockSvc.AssertExpectations(t)
	})

	lowPaging := []struct {
		name     string
		query    string
		expected service.ListParams
	}{
		{name: "zero page", query: "page=0", expected: service.ListParams{Page: 0, PageSize: service.DefaultPageSize}},
		{name: "negative page", query: "page=-3", expected: service.ListParams{Page: -3, PageSize: service.DefaultPageSize}},
		{name: "zero page size", query: "pageSize=0", expected: service.ListParams{Page: 1, PageSize: 0}},
	}
	for _, tc := range lowPaging {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mockSvc := new(MockCatalogService)
			mockSvc.On("ListProducts", mock.Anything, tc.expected).
				Return(&service.ProductPage{Items: []service.ProductDto{}, Page: 1, PageSize: service.DefaultPageSize}, nil)

			// when
			rr := serve(t, newRouter(mockSvc), http.MethodGet, "/api/v1/products?"+tc.query, "")

			// then
			assert.Equal(t, http.StatusOK, rr.Code)
			mockSvc.AssertExpectations(t)
		})
	}

	badQueries := map[string]string{
		"page not a number": "page=two",
		"page overflow":     "page=99999999999",
		"bad page size":     "pageSize=abc",
		"bad category":      "categoryId=nope",
		"bad min price":     "minPrice=cheap",
		"bad sale flag":     "sale=maybe",
		"bad featured":      "featured=2x",
		"bad max price":     "maxPrice=1e",
		"category spaces":   "categoryId=%20",
	}
	for name, query := range badQueries {
		t.Run(name, func(t *testing.T) {
			// given
			mockSvc := new(MockCatalogService)

			// when
			rr := serve(t, newRouter(mockSvc), http.MethodGet, "/api/v1/products?"+query, "")

			// then
			assert.Equal(t, http.StatusBadRequest, rr.Code)
			mockSvc.AssertNotCalled(t, "ListProducts", mock.Anything, mock.Anything)
		})
	}
}

func Test_Handler_GetLowStock(t *testing.T) {
	testCases := []struct {
		name     string
		query    string
		expected int32
	}{
		{name: "absent threshold uses default", query: "", expected: service.DefaultLowStockThreshold},
		{name: "zero threshold is passed through", query: "?threshold=0", expected: 0},
		{name: "explicit threshold", query: "?threshold=3", expected: 3},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mockSvc := new(MockCatalogService)
			mockSvc.On("GetLowStock", mock.Anything, tc.expected).Return([]service.ProductDto{}, nil)

			// when
			rr := serve(t, newRouter(mockSvc), http.MethodGet, "/api/v1/products/low-stock"+tc.query, "")

			// then
			assert.Equal(t, http.StatusOK, rr.Code)
			mockSvc.AssertExpectations(t)
		})
	}

	t.Run("negative threshold", func(t *testing.T) {
		// given
		mockSvc := new(MockCatalogService)

		// when
		rr := serve(t, newRouter(mockSvc), http.MethodGet, "/api/v1/products/low-stock?threshold=-1", "")

		// then
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockSvc.AssertNotCalled(t, "GetLowStock", mock.Anything, mock.Anything)
	})
}

func Test_Handler_Create(t *testing.T) {
	categoryID := uuid.New()
	validBody := fmt.Sprintf(`{"name":"Runner","price":"80.00","category_id":%q,"stock_quantity":3}`, categoryID)

	testCases := []struct {
		name               string
		body               string
		mockError          error
		expectCall         bool
		expectedCode       int
		expectedValidation []string
	}{
		{name: "Success", body: validBody, expectCall: true, expectedCode: http.StatusCreated},
		{name: "Error - malformed json", body: `{"name":`, expectedCode: http.StatusBadRequest},
		{name: "Error - unknown field", body: `{"name":"Runner","colour":"red"}`, expectedCode: http.StatusBadRequest},
		{
			name:               "Error - validation",
			body:               `{"name":"","price":"0"}`,
			expectedCode:       http.StatusBadRequest,
			expectedValidation: []string{"Name", "Price", "CategoryID"},
		},
		{
			name:               "Error - negative discount",
			body:               fmt.Sprintf(`{"name":"Runner","price":"80","discount_price":"-1","category_id":%q}`, categoryID),
			expectedCode:       http.StatusBadRequest,
			expectedValidation: []string{"DiscountPrice"},
		},
		{name: "Error - service rejects input", body: validBody, mockError: perrors.ErrInvalidInput, expectCall: true, expectedCode: http.StatusBadRequest},
		{name: "Error - service failure", body: validBody, mockError: errors.New("db down"), expectCall: true, expectedCode: http.StatusInternalServerError},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mockSvc := new(MockCatalogService)
			if tc.expectCall {
				var created *service.ProductDto
				if tc.mockError == nil {
					created = &service.ProductDto{ID: uuid.NewString(), Name: "Runner", Price: decimal.NewFromInt(80)}
				}
				mockSvc.On("Create", mock.Anything, mock.AnythingOfType("service.ProductInputDto")).Return(created, tc.mockError)
			}

			// when
			rr := serve(t, newRouter(mockSvc), http.MethodPost, "/api/v1/products", tc.body)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			if len(tc.expectedValidation) > 0 {
				var resp ValidationErrorResponse
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
				for _, field := range tc.expectedValidation {
					assert.Contains(t, resp.ValidationErrors, field)
				}
			}
			if !tc.expectCall {
				mockSvc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func Test_Handler_ErrorMapping(t *testing.T) {
	variantID := uuid.New()

	testCases := []struct {
		name         string
		err          error
		expectedCode int
		expectedBody string
	}{
		{name: "variant not found", err: perrors.ErrVariantNotFound, expectedCode: http.StatusNotFound, expectedBody: `{"error":"Variant not found"}`},
		{name: "duplicate size", err: fmt.Errorf("failed to update variant: %w", perrors.ErrDuplicateSize), expectedCode: http.StatusConflict, expectedBody: `{"error":"Size already exists for product"}`},
		{name: "inactive product", err: perrors.ErrProductInactive, expectedCode: http.StatusConflict, expectedBody: `{"error":"Product is inactive"}`},
		{name: "file store failure", err: fmt.Errorf("%w: timeout", perrors.ErrFileStore), expectedCode: http.StatusBadGateway},
		{name: "unexpected failure", err: errors.New("boom"), expectedCode: http.StatusInternalServerError, expectedBody: `{"error":"Failed to update variant"}`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mockSvc := new(MockCatalogService)
			mockSvc.On("UpdateVariant", mock.Anything, variantID, mock.AnythingOfType("service.VariantInputDto")).Return(nil, tc.err)

			// when
			rr := serve(t, newRouter(mockSvc), http.MethodPut, "/api/v1/variants/"+variantID.String(), `{"size":"M","stock_quantity":1}`)

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			if tc.expectedBody != "" {
				assert.JSONEq(t, tc.expectedBody, rr.Body.String())
			}
			mockSvc.AssertExpectations(t)
		})
	}
}

func Test_Handler_SetStock(t *testing.T) {
	productID := uuid.New()

	t.Run("sized product is rejected", func(t *testing.T) {
		// given
		mockSvc := new(MockCatalogService)
		mockSvc.On("SetStock", mock.Anything, productID, int32(5)).Return(nil, perrors.ErrStockManagedByVariants)

		// when
		rr := serve(t, newRouter(mockSvc), http.MethodPut, "/api/v1/products/"+productID.String()+"/stock", `{"stock_quantity":5}`)

		// then
		assert.Equal(t, http.StatusConflict, rr.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("negative quantity fails validation", func(t *testing.T) {
		// given
		mockSvc := new(MockCatalogService)

		// when
		rr := serve(t, newRouter(mockSvc), http.MethodPut, "/api/v1/products/"+productID.String()+"/stock", `{"stock_quantity":-5}`)

		// then
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		var resp ValidationErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, "failed on rule: min", resp.ValidationErrors["StockQuantity"])
		mockSvc.AssertNotCalled(t, "SetStock", mock.Anything, mock.Anything, mock.Anything)
	})
}

func Test_Handler_SoftDelete(t *testing.T) {
	productID := uuid.New()

	testCases := []struct {
		name         string
		mockError    error
		expectedCode int
	}{
		{name: "Success", expectedCode: http.StatusNoContent},
		{name: "Error - not found", mockError: perrors.ErrProductNotFound, expectedCode: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mockSvc := new(MockCatalogService)
			mockSvc.On("SoftDelete", mock.Anything, productID).Return(tc.mockError)

			// when
			rr := serve(t, newRouter(mockSvc), http.MethodDelete, "/api/v1/products/"+productID.String(), "")

			// then
			assert.Equal(t, tc.expectedCode, rr.Code)
			mockSvc.AssertExpectations(t)
		})
	}
}

func Test_Handler_VariantQueries(t *testing.T) {
	variantID := uuid.New()

	t.Run("check stock", func(t *testing.T) {
		// given
		mockSvc := new(MockCatalogService)
		mockSvc.On("CheckStock", mock.Anything, variantID, int32(2)).Return(true, nil)

		// when
		rr := serve(t, newRouter(mockSvc), http.MethodGet, "/api/v1/variants/"+variantID.String()+"/stock?quantity=2", "")

		// then
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"available":true}`, rr.Body.String())
		mockSvc.AssertExpectations(t)
	})

	t.Run("check stock requires quantity", func(t *testing.T) {
		// given
		mockSvc := new(MockCatalogService)

		// when
		rr := serve(t, newRouter(mockSvc), http.MethodGet, "/api/v1/variants/"+variantID.String()+"/stock", "")

		// then
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("price", func(t *testing.T) {
		// given
		mockSvc := new(MockCatalogService)
		mockSvc.On("VariantPrice", mock.Anything, variantID).Return(decimal.RequireFromString("85.5"), nil)

		// when
		rr := serve(t, newRouter(mockSvc), http.MethodGet, "/api/v1/variants/"+variantID.String()+"/price", "")

		// then
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.JSONEq(t, `{"price":"85.5"}`, rr.Body.String())
		mockSvc.AssertExpectations(t)
	})
}

func Test_Handler_Images(t *testing.T) {
	productID := uuid.New()
	imageID := uuid.New()

	t.Run("add image", func(t *testing.T) {
		// given
		mockSvc := new(MockCatalogService)
		input := service.ImageInputDto{ImageURL: "/uploads/a.jpg", IsMainImage: true}
		mockSvc.On("AddImage", mock.Anything, productID, input).
			Return(&service.ImageDto{ID: imageID.String(), ProductID: productID.String(), ImageURL: input.ImageURL, IsMainImage: true}, nil)

		// when
		rr := serve(t, newRouter(mockSvc), http.MethodPost, "/api/v1/products/"+productID.String()+"/images",
			`{"image_url":"/uploads/a.jpg","is_main_image":true}`)

		// then
		assert.Equal(t, http.StatusCreated, rr.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("add image requires url", func(t *testing.T) {
		// given
		mockSvc := new(MockCatalogService)

		// when
		rr := serve(t, newRouter(mockSvc), http.MethodPost, "/api/v1/products/"+productID.String()+"/images", `{"alt_text":"x"}`)

		// then
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		var resp ValidationErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Contains(t, resp.ValidationErrors, "ImageURL")
	})

	t.Run("remove image with file store down", func(t *testing.T) {
		// given
		mockSvc := new(MockCatalogService)
		mockSvc.On("RemoveImage", mock.Anything, imageID).Return(fmt.Errorf("%w: unreachable", perrors.ErrFileStore))

		// when
		rr := serve(t, newRouter(mockSvc), http.MethodDelete, "/api/v1/images/"+imageID.String(), "")

		// then
		assert.Equal(t, http.StatusBadGateway, rr.Code)
		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "file store")
		mockSvc.AssertExpectations(t)
	})

	t.Run("set main image", func(t *testing.T) {
		// given
		mockSvc := new(MockCatalogService)
		mockSvc.On("SetMainImage", mock.Anything, imageID).Return(&service.ImageDto{ID: imageID.String(), IsMainImage: true}, nil)

		// when
		rr := serve(t, newRouter(mockSvc), http.MethodPut, "/api/v1/images/"+imageID.String()+"/main", "")

		// then
		assert.Equal(t, http.StatusOK, rr.Code)
		mockSvc.AssertExpectations(t)
	})
}

func Test_Handler_Discount(t *testing.T) {
	productID := uuid.New()

	t.Run("percent out of range", func(t *testing.T) {
		// given
		mockSvc := new(MockCatalogService)
		percent := decimal.NewFromInt(150)
		mockSvc.On("CalculateDiscountPrice", mock.Anything, productID, mock.MatchedBy(percent.Equal)).
			Return(decimal.Zero, fmt.Errorf("%w: percent must be between 0 and 100", perrors.ErrInvalidInput))

		// when
		rr := serve(t, newRouter(mockSvc), http.MethodGet, "/api/v1/products/"+productID.String()+"/discount?percent=150", "")

		// then
		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockSvc.AssertExpectations(t)
	})

	t.Run("missing percent", func(t *testing.T) {
		// given
		mockSvc := new(MockCatalogService)

		// when
		rr := serve(t, newRouter(mockSvc), http.MethodGet, "/api/v1/products/"+productID.String()+"/discount", "")

		// then
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func Test_Handler_HealthCheck(t *testing.T) {
	rr := serve(t, newRouter(new(MockCatalogService)), http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rr.Code)
}
