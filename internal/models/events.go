package models

import "time"

// NATS event subjects
const (
	EventClaimCreated     = "claim.created"
	EventClaimExpired     = "claim.expired"
	EventSeatsReleased    = "seats.released"
	EventBookingConfirmed = "booking.confirmed"
	EventBookingCancelled = "booking.cancelled"
)

// ClaimCreatedEvent is published when seats are claimed.
type ClaimCreatedEvent struct {
	ClaimID   string    `json:"claim_id"`
	Theatre   string    `json:"theatre"`
	Movie     string    `json:"movie"`
	Owner     string    `json:"owner"`
	Seats     []int     `json:"seats"`
	Timestamp time.Time `json:"timestamp"`
}

// ClaimExpiredEvent is published when the TTL sweep releases a claim.
type ClaimExpiredEvent struct {
	ClaimID   string    `json:"claim_id"`
	Theatre   string    `json:"theatre"`
	Movie     string    `json:"movie"`
	Owner     string    `json:"owner"`
	Seats     []int     `json:"seats"`
	Timestamp time.Time `json:"timestamp"`
}

// SeatsReleasedEvent is published whenever seats return to available.
type SeatsReleasedEvent struct {
	Theatre   string    `json:"theatre"`
	Movie     string    `json:"movie"`
	Seats     []int     `json:"seats"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}

// BookingConfirmedEvent is published after a booking is appended to
// the ledger.
type BookingConfirmedEvent struct {
	BookingID  string    `json:"booking_id"`
	Theatre    string    `json:"theatre"`
	Movie      string    `json:"movie"`
	Owner      string    `json:"owner"`
	Seats      []int     `json:"seats"`
	TotalPrice int64     `json:"total_price"`
	Timestamp  time.Time `json:"timestamp"`
}

// BookingCancelledEvent is published after a compensating release.
type BookingCancelledEvent struct {
	BookingID string    `json:"booking_id"`
	Theatre   string    `json:"theatre"`
	Movie     string    `json:"movie"`
	Seats     []int     `json:"seats"`
	Reason    string    `json:"reason"`
	Timestamp time.Time `json:"timestamp"`
}
