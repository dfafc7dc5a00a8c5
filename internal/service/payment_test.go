package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weldmart/storefront/internal/models"
	"github.com/weldmart/storefront/internal/razorpay"
	"github.com/weldmart/storefront/internal/repo"
)

const gatewaySecret = "secret_test"

func newPaymentService(t *testing.T) (*PaymentService, *repo.GormRepo) {
	t.Helper()
	r := newTestRepo(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		var payload map[string]any
		json.NewDecoder(req.Body).Decode(&payload)
		json.NewEncoder(w).Encode(razorpay.Order{
			ID:       "order_gw_" + uuid.NewString()[:8],
			Amount:   int64(payload["amount"].(float64)),
			Currency: payload["currency"].(string),
			Receipt:  payload["receipt"].(string),
			Status:   "created",
		})
	}))
	t.Cleanup(srv.Close)

	gw := razorpay.NewClientWithBaseURL("key_test", gatewaySecret, srv.URL)
	return &PaymentService{Repo: r, Gateway: gw}, r
}

func signPayment(orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(gatewaySecret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestCreateOrderRejectsNonPositiveAmount(t *testing.T) {
	svc, _ := newPaymentService(t)

	_, err := svc.CreateOrder(context.Background(), uuid.New(), 0)
	assert.ErrorIs(t, err, ErrValidation)
	_, err = svc.CreateOrder(context.Background(), uuid.New(), -100)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateOrderSnapshotsCart(t *testing.T) {
	svc, r := newPaymentService(t)
	cart := &CartService{Repo: r}
	userID := uuid.New()
	prod := seedProduct(t, r, "Welding Helmet", 2500)
	variantID := prod.Variants[0].ID

	_, err := cart.AddItem(context.Background(), userID, prod.ID, variantID, 2)
	require.NoError(t, err)

	gwOrder, err := svc.CreateOrder(context.Background(), userID, 500000)
	require.NoError(t, err)
	assert.NotEmpty(t, gwOrder.ID)

	order, err := r.GetOrderByGatewayID(context.Background(), gwOrder.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCreated, order.Status)
	require.Len(t, order.Items, 1)
	assert.Equal(t, "Welding Helmet", order.Items[0].ProductName)
	assert.Equal(t, 2500.0, order.Items[0].UnitPrice)
	assert.EqualValues(t, 2, order.Items[0].Quantity)

	// The snapshot pins the price; a later catalog change leaves it alone.
	require.NoError(t, r.DB.Model(&models.Variant{}).
		Where("id = ?", variantID).Update("price", 9999).Error)
	order, err = r.GetOrderByGatewayID(context.Background(), gwOrder.ID)
	require.NoError(t, err)
	assert.Equal(t, 2500.0, order.Items[0].UnitPrice)
}

func TestVerifyPayment(t *testing.T) {
	svc, r := newPaymentService(t)
	cart := &CartService{Repo: r}
	userID := uuid.New()
	prod := seedProduct(t, r, "Welding Helmet", 2500)

	_, err := cart.AddItem(context.Background(), userID, prod.ID, prod.Variants[0].ID, 1)
	require.NoError(t, err)

	gwOrder, err := svc.CreateOrder(context.Background(), userID, 250000)
	require.NoError(t, err)

	_, err = svc.VerifyPayment(context.Background(), userID, gwOrder.ID, "pay_1", "bogus")
	assert.ErrorIs(t, err, ErrInvalidSignature)

	// A bad signature must not touch the order or the cart.
	stored, err := r.GetOrderByGatewayID(context.Background(), gwOrder.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderCreated, stored.Status)

	order, err := svc.VerifyPayment(context.Background(), userID, gwOrder.ID, "pay_1", signPayment(gwOrder.ID, "pay_1"))
	require.NoError(t, err)
	assert.Equal(t, models.OrderPaid, order.Status)
	assert.Equal(t, "pay_1", order.PaymentID)

	view, err := cart.GetCart(context.Background(), userID)
	require.NoError(t, err)
	assert.Empty(t, view.Items, "payment clears the cart")
}

func TestVerifyPaymentUnknownOrder(t *testing.T) {
	svc, _ := newPaymentService(t)

	_, err := svc.VerifyPayment(context.Background(), uuid.New(),
		"order_missing", "pay_1", signPayment("order_missing", "pay_1"))
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

func TestVerifyPaymentValidation(t *testing.T) {
	svc, _ := newPaymentService(t)

	_, err := svc.VerifyPayment(context.Background(), uuid.New(), "", "pay_1", "sig")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestGetOrders(t *testing.T) {
	svc, _ := newPaymentService(t)
	userID := uuid.New()

	_, err := svc.CreateOrder(context.Background(), userID, 1000)
	require.NoError(t, err)
	_, err = svc.CreateOrder(context.Background(), userID, 2000)
	require.NoError(t, err)
	_, err = svc.CreateOrder(context.Background(), uuid.New(), 3000)
	require.NoError(t, err)

	orders, err := svc.GetOrders(context.Background(), userID)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}
