// Package handlers maps the HTTP surface onto the catalog, inventory
// and booking coordinator. Handlers do no business logic; they bind,
// delegate and translate taxonomy errors to status codes.
package handlers

import (
	"errors"
	"net/http"

	"marquee/internal/booking"
	"marquee/internal/bookingerr"
	"marquee/internal/catalog"
	"marquee/internal/inventory"
	"marquee/internal/logger"
	"marquee/internal/models"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	catalog     *catalog.Catalog
	inventory   *inventory.Manager
	coordinator *booking.Coordinator
}

func New(cat *catalog.Catalog, inv *inventory.Manager, coord *booking.Coordinator) *Handler {
	return &Handler{
		catalog:     cat,
		inventory:   inv,
		coordinator: coord,
	}
}

// GetTheatres handles GET /api/theatres
func (h *Handler) GetTheatres(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"theatres": h.catalog.Theatres()})
}

// GetMovies handles GET /api/movies with optional theatre, title and
// genre query filters.
func (h *Handler) GetMovies(c *gin.Context) {
	movies := h.catalog.Movies(catalog.Filter{
		Theatre: c.Query("theatre"),
		Title:   c.Query("title"),
		Genre:   c.Query("genre"),
	})

	c.JSON(http.StatusOK, gin.H{"movies": movies})
}

// GetAvailability handles GET /api/availability?theatre=&movie=
func (h *Handler) GetAvailability(c *gin.Context) {
	theatre := c.Query("theatre")
	movie := c.Query("movie")
	if theatre == "" || movie == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "theatre and movie query parameters are required",
			Kind:  bookingerr.Kind(bookingerr.ErrInvalidRequest),
		})
		return
	}

	avail, err := h.inventory.Availability(models.ShowKey{Theatre: theatre, Movie: movie})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.AvailabilityResponse{
		Theatre:        theatre,
		Movie:          movie,
		AvailableSeats: avail,
	})
}

// Quote handles POST /api/quote. Quoting never touches inventory.
func (h *Handler) Quote(c *gin.Context) {
	var req models.QuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "invalid request body: " + err.Error(),
			Kind:  bookingerr.Kind(bookingerr.ErrInvalidRequest),
		})
		return
	}

	total, err := h.coordinator.Quote(c.Request.Context(), req.Theatre, req.Movie, req.Seats)
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, models.QuoteResponse{
		Theatre:    req.Theatre,
		Movie:      req.Movie,
		Seats:      req.Seats,
		TotalPrice: total,
	})
}

// renderError translates a taxonomy error into a status code and body.
func (h *Handler) renderError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, bookingerr.ErrInvalidRequest):
		status = http.StatusBadRequest
	case errors.Is(err, bookingerr.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, bookingerr.ErrInsufficientSeats),
		errors.Is(err, bookingerr.ErrClaimExpired),
		errors.Is(err, bookingerr.ErrClaimNotFound):
		status = http.StatusConflict
	}

	if status == http.StatusInternalServerError {
		logger.WithContext(c.Request.Context()).Error("Request failed",
			"error", err,
			"path", c.Request.URL.Path)
	}

	c.JSON(status, models.ErrorResponse{
		Error: err.Error(),
		Kind:  bookingerr.Kind(err),
	})
}
