package discover

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// Handlers provides HTTP handlers for movie discovery.
type Handlers struct {
	service *Service
}

// NewHandlers creates new discover handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// RegisterRoutes registers the movie discovery routes.
func (h *Handlers) RegisterRoutes(g *echo.Group) {
	g.GET("/trending", h.Trending)
	g.GET("/search", h.Search)
	g.GET("/:id", h.Detail)
	g.GET("/:id/recommendations", h.Recommendations)
	g.GET("/:id/credits", h.Credits)
	g.GET("/:id/trailer", h.Trailer)
	g.GET("/:id/reviews", h.Reviews)

	// Cache management
	g.DELETE("/cache", h.ClearCache)
}

// Trending returns the movies trending today.
// GET /api/v1/movies/trending
func (h *Handlers) Trending(c echo.Context) error {
	return c.JSON(http.StatusOK, h.service.Trending(c.Request().Context()))
}

// Search searches for movies by query.
// GET /api/v1/movies/search?query=...
func (h *Handlers) Search(c echo.Context) error {
	query := c.QueryParam("query")
	if query == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "query parameter is required")
	}

	return c.JSON(http.StatusOK, h.service.Search(c.Request().Context(), query))
}

// Detail returns full movie details by ID.
// GET /api/v1/movies/:id
func (h *Handlers) Detail(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	detail, err := h.service.Detail(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "movie not found")
		}
		return echo.NewHTTPError(http.StatusBadGateway, err.Error())
	}

	return c.JSON(http.StatusOK, detail)
}

// Recommendations returns movies recommended for the given movie.
// GET /api/v1/movies/:id/recommendations
func (h *Handlers) Recommendations(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return c.JSON(http.StatusOK, h.service.Recommendations(c.Request().Context(), id))
}

// Credits returns the cast of a movie.
// GET /api/v1/movies/:id/credits
func (h *Handlers) Credits(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return c.JSON(http.StatusOK, h.service.Credits(c.Request().Context(), id))
}

// Trailer returns the first video of a movie, or JSON null when the
// movie has none.
// GET /api/v1/movies/:id/trailer
func (h *Handlers) Trailer(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return c.JSON(http.StatusOK, h.service.Trailer(c.Request().Context(), id))
}

// Reviews returns the reviews of a movie.
// GET /api/v1/movies/:id/reviews
func (h *Handlers) Reviews(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	return c.JSON(http.StatusOK, h.service.Reviews(c.Request().Context(), id))
}

// ClearCache clears the discover cache.
// DELETE /api/v1/movies/cache
func (h *Handlers) ClearCache(c echo.Context) error {
	h.service.ClearCache()
	return c.NoContent(http.StatusNoContent)
}
