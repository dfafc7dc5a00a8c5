package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/weldmart/storefront/internal/service"
	"github.com/weldmart/storefront/internal/transport"
	"github.com/weldmart/storefront/pkg/logging"
	"github.com/weldmart/storefront/pkg/tokens"
)

type AuthHTTP struct {
	Svc *service.AuthService
}

func (h *AuthHTTP) Register(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.register")

	var req transport.RegisterRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("register_failed", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	user, err := h.Svc.Register(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("register_failed", "status", 400, "error", err)
			return fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrEmailTaken):
			l.Warn("register_failed", "status", 409, "error", err)
			return fail(c, http.StatusConflict, "Email already exists")
		default:
			l.Error("register_failed", "status", 500, "error", err)
			return fail(c, http.StatusInternalServerError, err.Error())
		}
	}

	l.Info("user_registered", "user_id", user.ID)
	return c.JSON(http.StatusCreated, echo.Map{
		"success": true,
		"message": "Verification code sent",
		"user":    user,
	})
}

func (h *AuthHTTP) VerifyEmail(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.verify_email")

	var req transport.VerifyEmailRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("verify_email_failed", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.VerifyEmail(ctx, req.Email, req.Code); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("verify_email_failed", "status", 400, "error", err)
			return fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrCodeExpired):
			l.Warn("verify_email_failed", "status", 400, "error", err)
			return fail(c, http.StatusBadRequest, "Verification code expired")
		case errors.Is(err, service.ErrCodeInvalid):
			l.Warn("verify_email_failed", "status", 400, "error", err)
			return fail(c, http.StatusBadRequest, "Invalid verification code")
		default:
			l.Error("verify_email_failed", "status", 500, "error", err)
			return fail(c, http.StatusInternalServerError, err.Error())
		}
	}

	l.Info("email_verified")
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Email verified",
	})
}

func (h *AuthHTTP) Login(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.login")

	var req transport.LoginRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("login_failed", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	pair, err := h.Svc.Login(ctx, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			l.Warn("login_failed", "status", 401, "error", err)
			return fail(c, http.StatusUnauthorized, "Invalid email or password")
		}
		l.Error("login_failed", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, err.Error())
	}

	setAuthCookies(c, pair)
	l.Info("login_successful")
	return c.JSON(http.StatusOK, transport.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		IsAdmin:      pair.IsAdmin,
	})
}

func (h *AuthHTTP) Refresh(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.refresh")

	refreshCookie, err := c.Cookie("refreshToken")
	if err != nil || refreshCookie.Value == "" {
		l.Warn("refresh_failed", "status", 401, "error", err)
		return fail(c, http.StatusUnauthorized, "refresh token missing")
	}

	pair, err := h.Svc.Refresh(ctx, refreshCookie.Value)
	if err != nil {
		clearAuthCookies(c)
		l.Warn("refresh_failed", "status", 401, "error", err)
		return fail(c, http.StatusUnauthorized, "invalid refresh token")
	}

	setAuthCookies(c, pair)
	l.Info("tokens_refreshed")
	return c.JSON(http.StatusOK, transport.LoginResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		IsAdmin:      pair.IsAdmin,
	})
}

func (h *AuthHTTP) Logout(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.logout")

	if refreshCookie, err := c.Cookie("refreshToken"); err == nil && refreshCookie.Value != "" {
		if err := h.Svc.Logout(ctx, refreshCookie.Value); err != nil {
			clearAuthCookies(c)
			l.Error("logout_failed", "status", 500, "error", err)
			return fail(c, http.StatusInternalServerError, err.Error())
		}
	}

	clearAuthCookies(c)
	l.Info("logout_successful")
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Logged out",
	})
}

func (h *AuthHTTP) ForgotPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.forgot_password")

	var req transport.ForgotPasswordRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("forgot_password_failed", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.ForgotPassword(ctx, req.Email); err != nil {
		if errors.Is(err, service.ErrValidation) {
			l.Warn("forgot_password_failed", "status", 400, "error", err)
			return fail(c, http.StatusBadRequest, err.Error())
		}
		l.Error("forgot_password_failed", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "If the email is registered, a reset code has been sent",
	})
}

func (h *AuthHTTP) ResetPassword(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "auth.reset_password")

	var req transport.ResetPasswordRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("reset_password_failed", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.ResetPassword(ctx, req.Email, req.Code, req.NewPassword); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("reset_password_failed", "status", 400, "error", err)
			return fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrCodeExpired):
			l.Warn("reset_password_failed", "status", 400, "error", err)
			return fail(c, http.StatusBadRequest, "Verification code expired")
		case errors.Is(err, service.ErrCodeInvalid):
			l.Warn("reset_password_failed", "status", 400, "error", err)
			return fail(c, http.StatusBadRequest, "Invalid verification code")
		default:
			l.Error("reset_password_failed", "status", 500, "error", err)
			return fail(c, http.StatusInternalServerError, err.Error())
		}
	}

	l.Info("password_reset")
	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"message": "Password updated",
	})
}

func setAuthCookies(c echo.Context, pair *service.TokenPair) {
	c.SetCookie(tokens.CreateCookie("accessToken", pair.AccessToken, "/", pair.AccessExp))
	c.SetCookie(tokens.CreateCookie("refreshToken", pair.RefreshToken, "/", pair.RefreshExp))
}

func clearAuthCookies(c echo.Context) {
	c.SetCookie(tokens.DeleteCookie("accessToken", "/"))
	c.SetCookie(tokens.DeleteCookie("refreshToken", "/"))
}
