package httpserver

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/Skotchmaster/catalog/internal/logging"
	"github.com/Skotchmaster/catalog/internal/search"
	"github.com/Skotchmaster/catalog/internal/transport"
	"github.com/Skotchmaster/catalog/internal/util"
)

type Searcher interface {
	Search(ctx context.Context, query string, from, size int) (int64, []search.ProductDocument, error)
}

type SearchHTTP struct {
	Index Searcher
}

// Search serves GET /products/search?q=&page=&size=.
func (h *SearchHTTP) Search(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "product.search")

	q := strings.TrimSpace(c.QueryParam("q"))
	if q == "" {
		l.Warn("search_error", "status", 400, "reason", "empty query")
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter q is required")
	}

	pr := util.ParsePageRequest(c.QueryParams(), nil)
	total, docs, err := h.Index.Search(ctx, q, pr.Offset(), pr.Size)
	if err != nil {
		l.Error("search_error", "status", 502, "error", err)
		return echo.NewHTTPError(http.StatusBadGateway, "search is unavailable").SetInternal(err)
	}

	l.Info("search_success", "total", total)
	return c.JSON(http.StatusOK, transport.NewPage(docs, total, pr))
}
