package models

// QuoteRequest - POST /api/quote request body
type QuoteRequest struct {
	Theatre string `json:"theatre" binding:"required"`
	Movie   string `json:"movie" binding:"required"`
	Seats   int    `json:"seats"`
}

// QuoteResponse - quoted total in minor currency units
type QuoteResponse struct {
	Theatre    string `json:"theatre"`
	Movie      string `json:"movie"`
	Seats      int    `json:"seats"`
	TotalPrice int64  `json:"total_price"`
}

// AvailabilityResponse - GET /api/availability response body
type AvailabilityResponse struct {
	Theatre        string `json:"theatre"`
	Movie          string `json:"movie"`
	AvailableSeats int    `json:"available_seats"`
}

// CreateBookingRequest - POST /api/bookings request body. Seat count,
// showtime and payment method are validated by the coordinator so that
// failures carry the error taxonomy kind.
type CreateBookingRequest struct {
	Theatre       string `json:"theatre" binding:"required"`
	Movie         string `json:"movie" binding:"required"`
	Seats         int    `json:"seats"`
	Showtime      string `json:"showtime"`
	PaymentMethod string `json:"payment_method"`
	Owner         string `json:"owner"`
}

// CancelBookingRequest - PATCH /api/bookings/cancel request body
type CancelBookingRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
}

// ErrorResponse carries a message plus the taxonomy kind so callers
// can render an actionable error.
type ErrorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}
