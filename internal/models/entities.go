package models

import (
	"fmt"
	"time"
)

// Theatre represents a theatre in the catalog. BasePrice is the
// per-seat price in minor currency units. Immutable after load.
type Theatre struct {
	Name      string `json:"name"`
	BasePrice int64  `json:"base_price"`
}

// Movie represents a movie showing at a theatre. The title is unique
// within its theatre. Immutable after load.
type Movie struct {
	Title    string `json:"title"`
	Genre    string `json:"genre"`
	Language string `json:"language"`
	Theatre  string `json:"theatre"`
}

// ShowKey identifies one seat pool. Seat pools are keyed by
// (theatre, movie); showtime is recorded on bookings for display but
// does not partition inventory.
type ShowKey struct {
	Theatre string `json:"theatre"`
	Movie   string `json:"movie"`
}

func (k ShowKey) String() string {
	return fmt.Sprintf("%s/%s", k.Theatre, k.Movie)
}

// Showtime is the display slot attached to a booking.
type Showtime string

const (
	ShowtimeMorning   Showtime = "Morning"
	ShowtimeAfternoon Showtime = "Afternoon"
	ShowtimeEvening   Showtime = "Evening"
	ShowtimeNight     Showtime = "Night"
)

// Valid reports whether s is one of the four known slots.
func (s Showtime) Valid() bool {
	switch s {
	case ShowtimeMorning, ShowtimeAfternoon, ShowtimeEvening, ShowtimeNight:
		return true
	}
	return false
}

// Payment methods are opaque labels; the engine only validates that
// the label is a known one.
var paymentMethods = map[string]bool{
	"Card":        true,
	"Net Banking": true,
	"PayPal":      true,
	"Pay Later":   true,
}

// ValidPaymentMethod reports whether the label is accepted.
func ValidPaymentMethod(method string) bool {
	return paymentMethods[method]
}

// SeatClaim is a TTL-bounded hold on specific seat numbers pending
// confirmation. A claim is either promoted to a booking or released;
// expired claims are swept back to available.
type SeatClaim struct {
	ID        string    `json:"id"`
	Key       ShowKey   `json:"key"`
	Owner     string    `json:"owner"`
	Seats     []int     `json:"seats"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the claim's TTL has elapsed at the given time.
func (c *SeatClaim) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Booking statuses. Bookings are never deleted; cancellation flags the
// record and releases the seats.
const (
	BookingStatusConfirmed = "CONFIRMED"
	BookingStatusCancelled = "CANCELLED"
)

// Booking is an immutable confirmed reservation record. Seats are
// stored in ascending order. ClaimID references the claim that was
// confirmed into this booking; compensating releases use it to prove
// the booking still owns its seats.
type Booking struct {
	ID            string    `json:"id"`
	ClaimID       string    `json:"claim_id"`
	Theatre       string    `json:"theatre"`
	Movie         string    `json:"movie"`
	Showtime      Showtime  `json:"showtime"`
	Seats         []int     `json:"seats"`
	TotalPrice    int64     `json:"total_price"`
	PaymentMethod string    `json:"payment_method"`
	Owner         string    `json:"owner"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"created_at"`
}

// Key returns the seat pool key the booking belongs to.
func (b *Booking) Key() ShowKey {
	return ShowKey{Theatre: b.Theatre, Movie: b.Movie}
}
