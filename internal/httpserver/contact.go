package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/weldmart/storefront/internal/service"
	"github.com/weldmart/storefront/internal/transport"
	"github.com/weldmart/storefront/pkg/logging"
)

type ContactHTTP struct {
	Svc *service.ContactService
}

func (h *ContactHTTP) Submit(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "contact.submit")

	var req transport.ContactRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("contact_failed", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.Submit(ctx, req.Name, req.Email, req.Message); err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("contact_failed", "status", 400, "error", err)
			return fail(c, http.StatusBadRequest, err.Error())
		}
		l.Error("contact_failed", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, err.Error())
	}

	l.Info("contact_message_sent")
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Message sent",
	})
}
