package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/weldmart/storefront/internal/service"
	"github.com/weldmart/storefront/internal/transport"
	"github.com/weldmart/storefront/pkg/logging"
)

type PaymentHTTP struct {
	Svc   *service.PaymentService
	KeyID string
}

func (h *PaymentHTTP) CreateOrder(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.create_order")

	userID, err := userIDFromContext(c)
	if err != nil {
		l.Error("create_order_failed", "status", 401, "error", err)
		return unauthorized(c)
	}

	var req transport.CreatePaymentOrderRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_order_failed", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.CreateOrder(ctx, userID, req.Amount)
	if err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("create_order_failed", "status", 400, "error", err)
			return fail(c, http.StatusBadRequest, "Amount must be greater than 0")
		}
		l.Error("create_order_failed", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, err.Error())
	}

	l.Info("payment_order_created", "gateway_order_id", order.ID)
	return c.JSON(http.StatusOK, order)
}

func (h *PaymentHTTP) VerifyPayment(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.verify")

	userID, err := userIDFromContext(c)
	if err != nil {
		l.Error("verify_payment_failed", "status", 401, "error", err)
		return unauthorized(c)
	}

	var req transport.VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("verify_payment_failed", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	order, err := h.Svc.VerifyPayment(ctx, userID, req.OrderID, req.PaymentID, req.Signature)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("verify_payment_failed", "status", 400, "error", err)
			return fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrInvalidSignature):
			l.Warn("verify_payment_failed", "status", 400, "error", err)
			return fail(c, http.StatusBadRequest, "Invalid signature")
		case errors.Is(err, service.ErrOrderNotFound):
			l.Warn("verify_payment_failed", "status", 404, "error", err)
			return fail(c, http.StatusNotFound, "Order not found")
		default:
			l.Error("verify_payment_failed", "status", 500, "error", err)
			return fail(c, http.StatusInternalServerError, err.Error())
		}
	}

	l.Info("payment_verified", "order_id", order.ID)
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"order":   order,
	})
}

func (h *PaymentHTTP) GetKey(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"key": h.KeyID})
}

func (h *PaymentHTTP) GetOrders(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.orders")

	userID, err := userIDFromContext(c)
	if err != nil {
		l.Error("get_orders_failed", "status", 401, "error", err)
		return unauthorized(c)
	}

	orders, err := h.Svc.GetOrders(ctx, userID)
	if err != nil {
		l.Error("get_orders_failed", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"orders":  orders,
	})
}
