package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/weldmart/storefront/internal/models"
	"github.com/weldmart/storefront/internal/repo"
	"github.com/weldmart/storefront/internal/service"
	"github.com/weldmart/storefront/internal/transport"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(models.All()...))
	return &repo.GormRepo{DB: db}
}

func newCartHandler(t *testing.T) (*CartHTTP, *repo.GormRepo) {
	t.Helper()
	r := newTestRepo(t)
	return &CartHTTP{Svc: &service.CartService{Repo: r}}, r
}

func seedVariantProduct(t *testing.T, r *repo.GormRepo, price float64) *models.Product {
	t.Helper()

	cat := models.Category{Name: "Electrodes", Slug: "electrodes-" + uuid.NewString()}
	require.NoError(t, r.DB.Create(&cat).Error)

	p := 450.0
	if price > 0 {
		p = price
	}
	stock := int64(50)
	prod := models.Product{
		Name:       "6013 Electrode",
		Slug:       "6013-electrode-" + uuid.NewString(),
		Brand:      "WeldMart",
		CategoryID: cat.ID,
		IsActive:   true,
		Variants:   []models.Variant{{Size: "3.2mm", Price: &p, Stock: &stock}},
	}
	require.NoError(t, r.DB.Create(&prod).Error)
	return &prod
}

func doCart(t *testing.T, h func(echo.Context) error, method, path string, body any, userID string, params ...string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()

	c := echo.New().NewContext(req, rec)
	if userID != "" {
		c.Set("user_id", userID)
	}
	for i := 0; i+1 < len(params); i += 2 {
		c.SetParamNames(params[i])
		c.SetParamValues(params[i+1])
	}
	require.NoError(t, h(c))
	return rec
}

func decodeCartView(t *testing.T, rec *httptest.ResponseRecorder) transport.CartView {
	t.Helper()
	var view transport.CartView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	return view
}

func TestGetCartUnauthorized(t *testing.T) {
	h, _ := newCartHandler(t)
	rec := doCart(t, h.GetCart, http.MethodGet, "/api/cart", nil, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetCartCreatesEmptyCart(t *testing.T) {
	h, _ := newCartHandler(t)
	userID := uuid.NewString()

	rec := doCart(t, h.GetCart, http.MethodGet, "/api/cart", nil, userID)
	require.Equal(t, http.StatusOK, rec.Code)

	view := decodeCartView(t, rec)
	assert.True(t, view.Success)
	assert.Empty(t, view.Items)
}

func TestAddToCartMissingFields(t *testing.T) {
	h, _ := newCartHandler(t)

	rec := doCart(t, h.AddToCart, http.MethodPost, "/api/cart/add",
		transport.AddToCartRequest{}, uuid.NewString())
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product ID, variant ID, and quantity are required")
}

func TestAddToCartUnknownProduct(t *testing.T) {
	h, _ := newCartHandler(t)

	rec := doCart(t, h.AddToCart, http.MethodPost, "/api/cart/add",
		transport.AddToCartRequest{ProductID: uuid.New(), VariantID: uuid.New(), Quantity: 1},
		uuid.NewString())
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Product not found")
}

func TestAddToCartUnknownVariant(t *testing.T) {
	h, r := newCartHandler(t)
	prod := seedVariantProduct(t, r, 0)

	rec := doCart(t, h.AddToCart, http.MethodPost, "/api/cart/add",
		transport.AddToCartRequest{ProductID: prod.ID, VariantID: uuid.New(), Quantity: 1},
		uuid.NewString())
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Variant not found")
}

func TestAddToCartReturnsPricedView(t *testing.T) {
	h, r := newCartHandler(t)
	prod := seedVariantProduct(t, r, 250)
	userID := uuid.NewString()

	rec := doCart(t, h.AddToCart, http.MethodPost, "/api/cart/add",
		transport.AddToCartRequest{ProductID: prod.ID, VariantID: prod.Variants[0].ID, Quantity: 2},
		userID)
	require.Equal(t, http.StatusOK, rec.Code)

	view := decodeCartView(t, rec)
	require.Len(t, view.Items, 1)
	line := view.Items[0]
	assert.Equal(t, prod.ID, line.Product.ID)
	assert.Equal(t, "6013 Electrode", line.Product.Name)
	assert.Equal(t, 250.0, line.Product.Price)
	require.NotNil(t, line.Variant)
	assert.Equal(t, "3.2mm", line.Variant.Size)
	assert.EqualValues(t, 2, line.Quantity)
	assert.Equal(t, 500.0, line.TotalPrice)
}

func TestAddToCartMergesRepeatedAdds(t *testing.T) {
	h, r := newCartHandler(t)
	prod := seedVariantProduct(t, r, 100)
	userID := uuid.NewString()
	body := transport.AddToCartRequest{ProductID: prod.ID, VariantID: prod.Variants[0].ID, Quantity: 1}

	doCart(t, h.AddToCart, http.MethodPost, "/api/cart/add", body, userID)
	body.Quantity = 2
	rec := doCart(t, h.AddToCart, http.MethodPost, "/api/cart/add", body, userID)
	require.Equal(t, http.StatusOK, rec.Code)

	view := decodeCartView(t, rec)
	require.Len(t, view.Items, 1)
	assert.EqualValues(t, 3, view.Items[0].Quantity)
}

func TestUpdateItemQuantityZeroRejected(t *testing.T) {
	h, r := newCartHandler(t)
	prod := seedVariantProduct(t, r, 100)
	userID := uuid.NewString()

	rec := doCart(t, h.AddToCart, http.MethodPost, "/api/cart/add",
		transport.AddToCartRequest{ProductID: prod.ID, VariantID: prod.Variants[0].ID, Quantity: 2},
		userID)
	itemID := decodeCartView(t, rec).Items[0].ID

	rec = doCart(t, h.UpdateItemQuantity, http.MethodPut,
		fmt.Sprintf("/api/cart/items/%s", itemID),
		transport.UpdateCartItemRequest{Quantity: 0}, userID,
		"itemId", itemID.String())
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Quantity must be at least 1")
}

func TestUpdateItemQuantitySetsAbsolute(t *testing.T) {
	h, r := newCartHandler(t)
	prod := seedVariantProduct(t, r, 100)
	userID := uuid.NewString()

	rec := doCart(t, h.AddToCart, http.MethodPost, "/api/cart/add",
		transport.AddToCartRequest{ProductID: prod.ID, VariantID: prod.Variants[0].ID, Quantity: 2},
		userID)
	itemID := decodeCartView(t, rec).Items[0].ID

	rec = doCart(t, h.UpdateItemQuantity, http.MethodPut,
		fmt.Sprintf("/api/cart/items/%s", itemID),
		transport.UpdateCartItemRequest{Quantity: 5}, userID,
		"itemId", itemID.String())
	require.Equal(t, http.StatusOK, rec.Code)

	view := decodeCartView(t, rec)
	require.Len(t, view.Items, 1)
	assert.EqualValues(t, 5, view.Items[0].Quantity)
	assert.Equal(t, 500.0, view.Items[0].TotalPrice)
}

func TestUpdateItemWithoutCart(t *testing.T) {
	h, _ := newCartHandler(t)

	rec := doCart(t, h.UpdateItemQuantity, http.MethodPut, "/api/cart/items/x",
		transport.UpdateCartItemRequest{Quantity: 2}, uuid.NewString(),
		"itemId", uuid.NewString())
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cart not found")
}

func TestUpdateMalformedItemID(t *testing.T) {
	h, r := newCartHandler(t)
	prod := seedVariantProduct(t, r, 100)
	userID := uuid.NewString()

	doCart(t, h.AddToCart, http.MethodPost, "/api/cart/add",
		transport.AddToCartRequest{ProductID: prod.ID, VariantID: prod.Variants[0].ID, Quantity: 1},
		userID)

	rec := doCart(t, h.UpdateItemQuantity, http.MethodPut, "/api/cart/items/not-a-uuid",
		transport.UpdateCartItemRequest{Quantity: 2}, userID,
		"itemId", "not-a-uuid")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Item not found in cart")
}

func TestRemoveUnknownItemReturnsCart(t *testing.T) {
	h, r := newCartHandler(t)
	prod := seedVariantProduct(t, r, 100)
	userID := uuid.NewString()

	doCart(t, h.AddToCart, http.MethodPost, "/api/cart/add",
		transport.AddToCartRequest{ProductID: prod.ID, VariantID: prod.Variants[0].ID, Quantity: 1},
		userID)

	rec := doCart(t, h.RemoveItem, http.MethodDelete, "/api/cart/items/x", nil, userID,
		"itemId", uuid.NewString())
	require.Equal(t, http.StatusOK, rec.Code)

	view := decodeCartView(t, rec)
	assert.Len(t, view.Items, 1, "removing an unknown item leaves the cart unchanged")
}

func TestClearCart(t *testing.T) {
	h, r := newCartHandler(t)
	prod := seedVariantProduct(t, r, 100)
	userID := uuid.NewString()

	doCart(t, h.AddToCart, http.MethodPost, "/api/cart/add",
		transport.AddToCartRequest{ProductID: prod.ID, VariantID: prod.Variants[0].ID, Quantity: 1},
		userID)

	rec := doCart(t, h.ClearCart, http.MethodDelete, "/api/cart", nil, userID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cart cleared successfully")

	rec = doCart(t, h.GetCart, http.MethodGet, "/api/cart", nil, userID)
	view := decodeCartView(t, rec)
	assert.Empty(t, view.Items)
}

func TestClearCartWithoutCart(t *testing.T) {
	h, _ := newCartHandler(t)

	rec := doCart(t, h.ClearCart, http.MethodDelete, "/api/cart", nil, uuid.NewString())
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Cart not found")
}

func TestDeletedProductStillRendersLine(t *testing.T) {
	h, r := newCartHandler(t)
	prod := seedVariantProduct(t, r, 300)
	userID := uuid.NewString()

	doCart(t, h.AddToCart, http.MethodPost, "/api/cart/add",
		transport.AddToCartRequest{ProductID: prod.ID, VariantID: prod.Variants[0].ID, Quantity: 2},
		userID)

	require.NoError(t, r.DeleteProduct(context.Background(), prod.ID))

	rec := doCart(t, h.GetCart, http.MethodGet, "/api/cart", nil, userID)
	require.Equal(t, http.StatusOK, rec.Code)

	view := decodeCartView(t, rec)
	require.Len(t, view.Items, 1)
	assert.Nil(t, view.Items[0].Variant)
	assert.Equal(t, 0.0, view.Items[0].TotalPrice)
}
