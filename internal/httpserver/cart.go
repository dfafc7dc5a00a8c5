package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/weldmart/storefront/internal/service"
	"github.com/weldmart/storefront/internal/transport"
	"github.com/weldmart/storefront/pkg/logging"
)

type CartHTTP struct {
	Svc *service.CartService
}

func (h *CartHTTP) GetCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.get")

	userID, err := userIDFromContext(c)
	if err != nil {
		l.Error("get_cart_failed", "status", 401, "error", err)
		return unauthorized(c)
	}

	view, err := h.Svc.GetCart(ctx, userID)
	if err != nil {
		l.Error("get_cart_failed", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) AddToCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.add")

	userID, err := userIDFromContext(c)
	if err != nil {
		l.Error("add_to_cart_failed", "status", 401, "error", err)
		return unauthorized(c)
	}

	var req transport.AddToCartRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("add_to_cart_failed", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	view, err := h.Svc.AddItem(ctx, userID, req.ProductID, req.VariantID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("add_to_cart_failed", "status", 400, "error", err)
			return fail(c, http.StatusBadRequest, "Product ID, variant ID, and quantity are required")
		case errors.Is(err, service.ErrProductNotFound):
			l.Warn("add_to_cart_failed", "status", 404, "error", err)
			return fail(c, http.StatusNotFound, "Product not found")
		case errors.Is(err, service.ErrVariantNotFound):
			l.Warn("add_to_cart_failed", "status", 404, "error", err)
			return fail(c, http.StatusNotFound, "Variant not found")
		default:
			l.Error("add_to_cart_failed", "status", 500, "error", err)
			return fail(c, http.StatusInternalServerError, err.Error())
		}
	}

	l.Info("item_added_to_cart")
	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) UpdateItemQuantity(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.update_item")

	userID, err := userIDFromContext(c)
	if err != nil {
		l.Error("update_cart_item_failed", "status", 401, "error", err)
		return unauthorized(c)
	}

	// A malformed item id cannot match anything, which maps to the same
	// not-found answer as a well-formed unknown id.
	itemID, _ := uuid.Parse(c.Param("itemId"))

	var req transport.UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("update_cart_item_failed", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	view, err := h.Svc.UpdateItemQuantity(ctx, userID, itemID, req.Quantity)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("update_cart_item_failed", "status", 400, "error", err)
			return fail(c, http.StatusBadRequest, "Quantity must be at least 1")
		case errors.Is(err, service.ErrCartNotFound):
			l.Warn("update_cart_item_failed", "status", 404, "error", err)
			return fail(c, http.StatusNotFound, "Cart not found")
		case errors.Is(err, service.ErrItemNotFound):
			l.Warn("update_cart_item_failed", "status", 404, "error", err)
			return fail(c, http.StatusNotFound, "Item not found in cart")
		default:
			l.Error("update_cart_item_failed", "status", 500, "error", err)
			return fail(c, http.StatusInternalServerError, err.Error())
		}
	}

	l.Info("cart_item_updated")
	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.remove_item")

	userID, err := userIDFromContext(c)
	if err != nil {
		l.Error("remove_cart_item_failed", "status", 401, "error", err)
		return unauthorized(c)
	}

	itemID, _ := uuid.Parse(c.Param("itemId"))

	view, err := h.Svc.RemoveItem(ctx, userID, itemID)
	if err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			l.Warn("remove_cart_item_failed", "status", 404, "error", err)
			return fail(c, http.StatusNotFound, "Cart not found")
		}
		l.Error("remove_cart_item_failed", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, err.Error())
	}

	l.Info("cart_item_removed")
	return c.JSON(http.StatusOK, view)
}

func (h *CartHTTP) ClearCart(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "cart.clear")

	userID, err := userIDFromContext(c)
	if err != nil {
		l.Error("clear_cart_failed", "status", 401, "error", err)
		return unauthorized(c)
	}

	if err := h.Svc.ClearCart(ctx, userID); err != nil {
		if errors.Is(err, service.ErrCartNotFound) {
			l.Warn("clear_cart_failed", "status", 404, "error", err)
			return fail(c, http.StatusNotFound, "Cart not found")
		}
		l.Error("clear_cart_failed", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, err.Error())
	}

	l.Info("cart_cleared")
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Cart cleared successfully",
	})
}
