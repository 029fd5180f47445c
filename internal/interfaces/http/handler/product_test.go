package handler

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	catalogapp "github.com/livecommerce/backend/internal/application/catalog"
	"github.com/livecommerce/backend/internal/infrastructure/event"
	"github.com/livecommerce/backend/internal/infrastructure/persistence"
	"github.com/livecommerce/backend/internal/interfaces/http/dto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newProductRouter(t *testing.T) *gin.Engine {
	t.Helper()
	db := newTestDB(t)
	svc := catalogapp.NewProductService(
		persistence.NewGormProductRepository(db),
		nil,
		event.NewInMemoryEventBus(zap.NewNop()),
	)
	h := NewProductHandler(svc)

	r := newTestRouter(uuid.New())
	admin := r.Group("/admin/products")
	admin.GET("", h.List)
	admin.POST("", h.Create)
	admin.GET("/:id", h.GetByID)
	admin.PATCH("/:id/status", h.UpdateStatus)
	admin.PATCH("/:id/stock", h.AdjustStock)
	admin.POST("/:id/image-upload-url", h.CreateImageUploadURL)
	r.GET("/products", h.ListPublic)
	r.GET("/products/:id", h.GetPublic)
	return r
}

func createProduct(t *testing.T, r *gin.Engine, sku string, stock int) catalogapp.ProductResponse {
	t.Helper()
	w := doJSON(t, r, http.MethodPost, "/admin/products", map[string]any{
		"sku":   sku,
		"name":  "Batik Shirt " + sku,
		"price": "150000",
		"stock": stock,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var product catalogapp.ProductResponse
	decodeResponse(t, w, &product)
	return product
}

func TestProductHandler_Create(t *testing.T) {
	r := newProductRouter(t)

	product := createProduct(t, r, "bt-001", 10)
	assert.Equal(t, "BT-001", product.SKU)
	assert.Equal(t, "active", product.Status)
	assert.Equal(t, 10, product.Stock)
	assert.Equal(t, "150000", product.Price.String())

	t.Run("duplicate sku is a conflict", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/admin/products", map[string]any{
			"sku": "BT-001", "name": "Other", "price": "1000", "stock": 1,
		})
		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, dto.ErrCodeAlreadyExists, decodeResponse(t, w, nil).Error.Code)
	})

	t.Run("missing name is a validation error", func(t *testing.T) {
		w := doJSON(t, r, http.MethodPost, "/admin/products", map[string]any{"sku": "BT-002", "price": "1000"})
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})
}

func TestProductHandler_GetAndList(t *testing.T) {
	r := newProductRouter(t)
	first := createProduct(t, r, "SKU-1", 5)
	createProduct(t, r, "SKU-2", 5)

	w := doJSON(t, r, http.MethodGet, "/admin/products/"+first.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var got catalogapp.ProductResponse
	decodeResponse(t, w, &got)
	assert.Equal(t, first.ID, got.ID)

	w = doJSON(t, r, http.MethodGet, "/admin/products/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, r, http.MethodGet, "/admin/products?page=1&page_size=1", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page []catalogapp.ProductResponse
	resp := decodeResponse(t, w, &page)
	assert.Len(t, page, 1)
	require.NotNil(t, resp.Meta)
	assert.EqualValues(t, 2, resp.Meta.Total)
	assert.Equal(t, 2, resp.Meta.TotalPages)

	w = doJSON(t, r, http.MethodGet, "/admin/products?status=archived", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestProductHandler_StatusAndStock(t *testing.T) {
	r := newProductRouter(t)
	product := createProduct(t, r, "SKU-9", 2)
	base := "/admin/products/" + product.ID.String()

	w := doJSON(t, r, http.MethodPatch, base+"/stock", map[string]any{"delta": -5})
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	w = doJSON(t, r, http.MethodPatch, base+"/stock", map[string]any{"delta": 3, "reason": "restock"})
	require.Equal(t, http.StatusOK, w.Code)
	var updated catalogapp.ProductResponse
	decodeResponse(t, w, &updated)
	assert.Equal(t, 5, updated.Stock)

	w = doJSON(t, r, http.MethodPatch, base+"/status", map[string]any{"status": "inactive"})
	require.Equal(t, http.StatusOK, w.Code)

	t.Run("inactive products are hidden from the storefront", func(t *testing.T) {
		w := doJSON(t, r, http.MethodGet, "/products/"+product.ID.String(), nil)
		assert.Equal(t, http.StatusNotFound, w.Code)

		w = doJSON(t, r, http.MethodGet, "/products", nil)
		require.Equal(t, http.StatusOK, w.Code)
		var page []catalogapp.ProductResponse
		decodeResponse(t, w, &page)
		assert.Empty(t, page)
	})
}

func TestProductHandler_ImageUploadWithoutStorage(t *testing.T) {
	r := newProductRouter(t)
	product := createProduct(t, r, "SKU-IMG", 1)

	w := doJSON(t, r, http.MethodPost, "/admin/products/"+product.ID.String()+"/image-upload-url",
		map[string]any{"content_type": "image/png"})

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, dto.ErrCodeStorageUnavailable, decodeResponse(t, w, nil).Error.Code)
}
