package httpserver

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog/internal/logging"
	"github.com/Skotchmaster/catalog/internal/repo"
	"github.com/Skotchmaster/catalog/internal/service"
	"github.com/Skotchmaster/catalog/internal/transport"
	"github.com/Skotchmaster/catalog/internal/util"
)

type ProductHTTP struct {
	Svc *service.ProductService
}

// FindAll serves GET /products?categoryId=&name=&page=&size=&sort=.
func (h *ProductHTTP) FindAll(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.find_all")

	categoryID, err := strconv.ParseInt(strings.TrimSpace(c.QueryParam("categoryId")), 10, 64)
	if err != nil {
		categoryID = 0
	}
	name := strings.TrimSpace(c.QueryParam("name"))
	pr := util.ParsePageRequest(c.QueryParams(), repo.ProductSortColumns)

	items, total, err := h.Svc.FindAll(ctx, categoryID, name, pr)
	if err != nil {
		return serviceError(l, "find_products_error", err)
	}

	l.Info("find_products_success", "total", total)
	return c.JSON(http.StatusOK, transport.MapPage(items, total, pr, transport.NewProductDTO))
}

func (h *ProductHTTP) FindByID(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.find_by_id")

	id, err := parseID(c)
	if err != nil {
		l.Warn("find_product_error", "status", 400, "reason", "id is not an integer", "error", err)
		return err
	}

	p, err := h.Svc.FindByID(ctx, id)
	if err != nil {
		return serviceError(l, "find_product_error", err)
	}
	return c.JSON(http.StatusOK, transport.NewProductDTO(p))
}

func (h *ProductHTTP) Insert(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.insert")

	var dto transport.ProductDTO
	if err := c.Bind(&dto); err != nil {
		return bindError(l, "insert_product_error", err)
	}
	if err := c.Validate(&dto); err != nil {
		return serviceError(l, "insert_product_error", err)
	}

	p, err := h.Svc.Insert(ctx, dto.Model(), dto.CategoryIDs())
	if err != nil {
		return serviceError(l, "insert_product_error", err)
	}

	l.Info("insert_product_success", "id", p.ID)
	c.Response().Header().Set(echo.HeaderLocation, c.Request().URL.Path+"/"+strconv.FormatInt(p.ID, 10))
	return c.JSON(http.StatusCreated, transport.NewProductDTO(p))
}

func (h *ProductHTTP) Update(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.update")

	id, err := parseID(c)
	if err != nil {
		l.Warn("update_product_error", "status", 400, "reason", "id is not an integer", "error", err)
		return err
	}

	var dto transport.ProductDTO
	if err := c.Bind(&dto); err != nil {
		return bindError(l, "update_product_error", err)
	}
	if err := c.Validate(&dto); err != nil {
		return serviceError(l, "update_product_error", err)
	}

	p, err := h.Svc.Update(ctx, id, dto.Model(), dto.CategoryIDs())
	if err != nil {
		return serviceError(l, "update_product_error", err)
	}

	l.Info("update_product_success", "id", id)
	return c.JSON(http.StatusOK, transport.NewProductDTO(p))
}

func (h *ProductHTTP) Delete(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.delete")

	id, err := parseID(c)
	if err != nil {
		l.Warn("delete_product_error", "status", 400, "reason", "id is not an integer", "error", err)
		return err
	}

	if err := h.Svc.Delete(ctx, id); err != nil {
		return serviceError(l, "delete_product_error", err)
	}

	l.Info("delete_product_success", "id", id)
	return c.NoContent(http.StatusNoContent)
}
