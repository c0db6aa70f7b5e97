package handlers

import (
	"net/http"

	"marquee/internal/booking"
	"marquee/internal/bookingerr"
	"marquee/internal/models"

	"github.com/gin-gonic/gin"
)

// CreateBooking handles POST /api/bookings. An Idempotency-Key header
// makes retries replay the original booking.
func (h *Handler) CreateBooking(c *gin.Context) {
	var req models.CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "invalid request body: " + err.Error(),
			Kind:  bookingerr.Kind(bookingerr.ErrInvalidRequest),
		})
		return
	}

	result, err := h.coordinator.Book(c.Request.Context(), booking.BookRequest{
		Theatre:        req.Theatre,
		Movie:          req.Movie,
		Seats:          req.Seats,
		Showtime:       models.Showtime(req.Showtime),
		PaymentMethod:  req.PaymentMethod,
		Owner:          req.Owner,
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusCreated, result)
}

// GetBooking handles GET /api/bookings/:id
func (h *Handler) GetBooking(c *gin.Context) {
	result, err := h.coordinator.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ListBookings handles GET /api/bookings?owner=
func (h *Handler) ListBookings(c *gin.Context) {
	owner := c.Query("owner")
	if owner == "" {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "owner query parameter is required",
			Kind:  bookingerr.Kind(bookingerr.ErrInvalidRequest),
		})
		return
	}

	bookings, err := h.coordinator.ListBookings(c.Request.Context(), owner)
	if err != nil {
		h.renderError(c, err)
		return
	}

	if bookings == nil {
		bookings = []models.Booking{}
	}
	c.JSON(http.StatusOK, gin.H{"bookings": bookings})
}

// CancelBooking handles PATCH /api/bookings/cancel
func (h *Handler) CancelBooking(c *gin.Context) {
	var req models.CancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: "invalid request body: " + err.Error(),
			Kind:  bookingerr.Kind(bookingerr.ErrInvalidRequest),
		})
		return
	}

	if err := h.coordinator.Cancel(c.Request.Context(), req.BookingID); err != nil {
		h.renderError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"booking_id": req.BookingID, "status": models.BookingStatusCancelled})
}
