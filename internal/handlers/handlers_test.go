package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"marquee/internal/booking"
	"marquee/internal/catalog"
	"marquee/internal/idempotency"
	"marquee/internal/inventory"
	"marquee/internal/ledger"
	"marquee/internal/messaging"
	"marquee/internal/metrics"
	"marquee/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cat, err := catalog.New(
		[]models.Theatre{
			{Name: "Alpha", BasePrice: 1000},
			{Name: "Beta", BasePrice: 1500},
		},
		[]models.Movie{
			{Title: "First", Genre: "Drama", Language: "English", Theatre: "Alpha"},
			{Title: "Second", Genre: "Action", Language: "English", Theatre: "Beta"},
		},
		[]catalog.ShowEntry{
			{Theatre: "Alpha", Movie: "First", TotalSeats: 10},
			{Theatre: "Beta", Movie: "Second", TotalSeats: 5},
		},
	)
	require.NoError(t, err)

	m := metrics.New(prometheus.NewRegistry())
	inv := inventory.NewManager(cat.Shows(), time.Minute, m)
	coord := booking.NewCoordinator(cat, inv, ledger.NewMemoryStore(),
		idempotency.NewMemoryStore(), &messaging.Client{}, m, time.Hour)
	inv.OnExpire(coord.HandleExpiredClaim)

	h := New(cat, inv, coord)

	router := gin.New()
	api := router.Group("/api")
	api.GET("/theatres", h.GetTheatres)
	api.GET("/movies", h.GetMovies)
	api.GET("/availability", h.GetAvailability)
	api.POST("/quote", h.Quote)
	api.POST("/bookings", h.CreateBooking)
	api.GET("/bookings", h.ListBookings)
	api.GET("/bookings/:id", h.GetBooking)
	api.PATCH("/bookings/cancel", h.CancelBooking)

	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func bookingBody() map[string]any {
	return map[string]any{
		"theatre":        "Alpha",
		"movie":          "First",
		"seats":          3,
		"showtime":       "Evening",
		"payment_method": "Card",
		"owner":          "alice",
	}
}

func TestGetTheatres(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/theatres", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Theatres []models.Theatre `json:"theatres"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Theatres, 2)
}

func TestGetMoviesFiltered(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/movies?theatre=Alpha", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Movies []models.Movie `json:"movies"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Movies, 1)
	assert.Equal(t, "First", resp.Movies[0].Title)
}

func TestGetAvailability(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/availability?theatre=Alpha&movie=First", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.AvailabilityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 10, resp.AvailableSeats)
}

func TestGetAvailabilityErrors(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/availability?theatre=Alpha", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/availability?theatre=Alpha&movie=Unknown", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "not_found", resp.Kind)
}

func TestQuoteEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/quote",
		map[string]any{"theatre": "Alpha", "movie": "First", "seats": 3}, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.QuoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(3000), resp.TotalPrice)
}

func TestQuoteEndpointInvalidSeats(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/quote",
		map[string]any{"theatre": "Alpha", "movie": "First", "seats": 0}, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "invalid_request", resp.Kind)
}

func TestCreateBooking(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/bookings", bookingBody(), nil)
	assert.Equal(t, http.StatusCreated, w.Code)

	var resp models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.ID)
	assert.Equal(t, []int{1, 2, 3}, resp.Seats)
	assert.Equal(t, int64(3000), resp.TotalPrice)

	// Availability reflects the booking.
	w = doJSON(t, router, http.MethodGet, "/api/availability?theatre=Alpha&movie=First", nil, nil)
	var avail models.AvailabilityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &avail))
	assert.Equal(t, 7, avail.AvailableSeats)
}

func TestCreateBookingInsufficientSeats(t *testing.T) {
	router := newTestRouter(t)

	body := bookingBody()
	body["seats"] = 11

	w := doJSON(t, router, http.MethodPost, "/api/bookings", body, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	var resp models.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "insufficient_seats", resp.Kind)
}

func TestCreateBookingIdempotencyHeader(t *testing.T) {
	router := newTestRouter(t)
	headers := map[string]string{"Idempotency-Key": "retry-1"}

	w := doJSON(t, router, http.MethodPost, "/api/bookings", bookingBody(), headers)
	require.Equal(t, http.StatusCreated, w.Code)
	var first models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))

	w = doJSON(t, router, http.MethodPost, "/api/bookings", bookingBody(), headers)
	require.Equal(t, http.StatusCreated, w.Code)
	var second models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.Seats, second.Seats)
}

func TestGetAndListBookings(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/bookings", bookingBody(), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, router, http.MethodGet, "/api/bookings/"+created.ID, nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/bookings/no-such-id", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/bookings?owner=alice", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	var listed struct {
		Bookings []models.Booking `json:"bookings"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Len(t, listed.Bookings, 1)

	w = doJSON(t, router, http.MethodGet, "/api/bookings?owner=nobody", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &listed))
	assert.Empty(t, listed.Bookings)

	w = doJSON(t, router, http.MethodGet, "/api/bookings", nil, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCancelBookingEndpoint(t *testing.T) {
	router := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/bookings", bookingBody(), nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var created models.Booking
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = doJSON(t, router, http.MethodPatch, "/api/bookings/cancel",
		models.CancelBookingRequest{BookingID: created.ID}, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/availability?theatre=Alpha&movie=First", nil, nil)
	var avail models.AvailabilityResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &avail))
	assert.Equal(t, 10, avail.AvailableSeats)

	w = doJSON(t, router, http.MethodPatch, "/api/bookings/cancel",
		models.CancelBookingRequest{BookingID: "no-such-id"}, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
