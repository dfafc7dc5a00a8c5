package httpserver

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/weldmart/storefront/internal/repo"
	"github.com/weldmart/storefront/internal/service"
	"github.com/weldmart/storefront/internal/transport"
	"github.com/weldmart/storefront/pkg/logging"
)

type CategoryHTTP struct {
	Svc *service.CategoryService
}

func (h *CategoryHTTP) GetCategories(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.list")

	var filter repo.CategoryFilter
	if raw := c.QueryParam("parentCategory"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			l.Warn("list_categories_failed", "status", 400, "error", err)
			return fail(c, http.StatusBadRequest, "parentCategory is not a uuid")
		}
		filter.ParentID = &id
	}
	filter.ParentSlug = c.QueryParam("parentCategorySlug")
	filter.MainOnly = c.QueryParam("main") == "true"

	cats, err := h.Svc.GetCategories(ctx, filter)
	if err != nil {
		l.Error("list_categories_failed", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, cats)
}

func (h *CategoryHTTP) GetCategoryBySlug(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get_by_slug")

	cat, err := h.Svc.GetCategoryBySlug(ctx, c.Param("slug"))
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_category_failed", "status", 404, "error", err)
			return fail(c, http.StatusNotFound, "Category not found")
		}
		l.Error("get_category_failed", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHTTP) GetCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.get")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("get_category_failed", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "id is not a uuid")
	}

	cat, err := h.Svc.GetCategory(ctx, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("get_category_failed", "status", 404, "error", err)
			return fail(c, http.StatusNotFound, "Category not found")
		}
		l.Error("get_category_failed", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, err.Error())
	}

	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHTTP) CreateCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.create")

	var req transport.CreateCategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_category_failed", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	cat, err := h.Svc.CreateCategory(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("create_category_failed", "status", 400, "error", err)
			return fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotFound):
			l.Warn("create_category_failed", "status", 404, "error", err)
			return fail(c, http.StatusNotFound, "Parent category not found")
		default:
			l.Error("create_category_failed", "status", 500, "error", err)
			return fail(c, http.StatusInternalServerError, err.Error())
		}
	}

	l.Info("category_created", "category_id", cat.ID)
	return c.JSON(http.StatusCreated, cat)
}

func (h *CategoryHTTP) PatchCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.patch")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("patch_category_failed", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "id is not a uuid")
	}

	var req transport.PatchCategoryRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("patch_category_failed", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "invalid body")
	}

	cat, err := h.Svc.PatchCategory(ctx, req, id)
	if err != nil {
		if errors.Is(err, service.ErrNotFound) {
			l.Warn("patch_category_failed", "status", 404, "error", err)
			return fail(c, http.StatusNotFound, "Category not found")
		}
		l.Error("patch_category_failed", "status", 500, "error", err)
		return fail(c, http.StatusInternalServerError, err.Error())
	}

	l.Info("category_patched", "category_id", cat.ID)
	return c.JSON(http.StatusOK, cat)
}

func (h *CategoryHTTP) DeleteCategory(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete")

	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		l.Warn("delete_category_failed", "status", 400, "error", err)
		return fail(c, http.StatusBadRequest, "id is not a uuid")
	}

	if err := h.Svc.DeleteCategory(ctx, id); err != nil {
		switch {
		case errors.Is(err, service.ErrValidation):
			l.Warn("delete_category_failed", "status", 400, "error", err)
			return fail(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrNotFound):
			l.Warn("delete_category_failed", "status", 404, "error", err)
			return fail(c, http.StatusNotFound, "Category not found")
		default:
			l.Error("delete_category_failed", "status", 500, "error", err)
			return fail(c, http.StatusInternalServerError, err.Error())
		}
	}

	l.Info("category_deleted", "category_id", id)
	return c.NoContent(http.StatusNoContent)
}
