package server

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/MycosoftLabs/biosearch/internal/search"
)

// cacheControl accompanies successful live and cache responses so edge
// proxies can serve repeats without hitting us at all.
const cacheControl = "public, s-maxage=60, stale-while-revalidate=300"

type SearchHandler struct {
	Service *search.Service
	Metrics *Metrics
}

func (h *SearchHandler) Register(g *echo.Group) {
	g.GET("/search", h.unified)
}

// unified is the one search endpoint. It answers HTTP 200 no matter what:
// upstream outages degrade to partial lists, and a defect in the pipeline
// itself degrades to an empty fallback response with an error string.
func (h *SearchHandler) unified(c echo.Context) error {
	q := c.QueryParam("q")
	types := c.QueryParam("types")
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	aiFlag := c.QueryParam("ai") == "true" || c.QueryParam("ai") == "1"

	normalized := search.Normalize(q, types, limit, aiFlag)

	result, recovered := h.run(c, normalized)
	if recovered != nil {
		result = search.EmptyResult(normalized.Term, search.OriginFallback)
		result.Error = fmt.Sprintf("search temporarily degraded: %v", recovered)
	}

	if h.Metrics != nil {
		h.Metrics.Searches.WithLabelValues(result.Source).Inc()
	}
	if result.Source != search.OriginFallback {
		c.Response().Header().Set("Cache-Control", cacheControl)
	}
	return c.JSON(http.StatusOK, result)
}

// run isolates the pipeline call so a panic in normalization or
// reconciliation is converted into data instead of a 5xx.
func (h *SearchHandler) run(c echo.Context, q search.Query) (result search.AggregateResult, recovered any) {
	defer func() {
		if r := recover(); r != nil {
			c.Logger().Errorf("search pipeline panic for %q: %v", q.Term, r)
			recovered = r
		}
	}()
	result = h.Service.Search(c.Request().Context(), q)
	return result, nil
}
