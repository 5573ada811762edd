package httpserver

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog/internal/logging"
	"github.com/Skotchmaster/catalog/internal/models"
	"github.com/Skotchmaster/catalog/internal/repo"
	"github.com/Skotchmaster/catalog/internal/service"
	"github.com/Skotchmaster/catalog/internal/transport"
	"github.com/Skotchmaster/catalog/internal/util"
)

type CategoryHTTP struct {
	Svc *service.CategoryService
}

func (h *CategoryHTTP) FindAll(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.find_all")

	pr := util.ParsePageRequest(c.QueryParams(), repo.CategorySortColumns)
	items, total, err := h.Svc.FindAll(ctx, pr)
	if err != nil {
		return serviceError(l, "find_categories_error", err)
	}
	return c.JSON(http.StatusOK, transport.MapPage(items, total, pr, transport.NewCategoryDTO))
}

func (h *CategoryHTTP) FindByID(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.find_by_id")

	id, err := parseID(c)
	if err != nil {
		return err
	}
	cat, err := h.Svc.FindByID(ctx, id)
	if err != nil {
		return serviceError(l, "find_category_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewCategoryDTO(cat))
}

func (h *CategoryHTTP) Insert(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.insert")

	var dto transport.CategoryDTO
	if err := c.Bind(&dto); err != nil {
		return bindError(l, "insert_category_error", err)
	}
	if err := c.Validate(&dto); err != nil {
		return serviceError(l, "insert_category_error", err)
	}

	cat, err := h.Svc.Insert(ctx, models.Category{Name: dto.Name})
	if err != nil {
		return serviceError(l, "insert_category_error", err)
	}

	l.Info("insert_category_success", "id", cat.ID)
	c.Response().Header().Set(echo.HeaderLocation, c.Request().URL.Path+"/"+strconv.FormatInt(cat.ID, 10))
	return c.JSON(http.StatusCreated, transport.NewCategoryDTO(cat))
}

func (h *CategoryHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.update")

	id, err := parseID(c)
	if err != nil {
		return err
	}
	var dto transport.CategoryDTO
	if err := c.Bind(&dto); err != nil {
		return bindError(l, "update_category_error", err)
	}
	if err := c.Validate(&dto); err != nil {
		return serviceError(l, "update_category_error", err)
	}

	cat, err := h.Svc.Update(ctx, id, models.Category{Name: dto.Name})
	if err != nil {
		return serviceError(l, "update_category_error", err)
	}

	l.Info("update_category_success", "id", id)
	return c.JSON(http.StatusOK, transport.NewCategoryDTO(cat))
}

func (h *CategoryHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "category.delete")

	id, err := parseID(c)
	if err != nil {
		return err
	}
	if err := h.Svc.Delete(ctx, id); err != nil {
		return serviceError(l, "delete_category_error", err)
	}

	l.Info("delete_category_success", "id", id)
	return c.NoContent(http.StatusNoContent)
}
