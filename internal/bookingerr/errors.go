// Package bookingerr defines the error taxonomy shared by the booking
// engine. Every failure surfaced to a caller wraps one of these
// sentinels so the caller can distinguish recoverable conditions from
// bad input without parsing messages.
package bookingerr

import "errors"

var (
	// ErrNotFound marks an unknown theatre, movie, show or booking.
	ErrNotFound = errors.New("not found")
	// ErrInsufficientSeats marks a claim for more seats than are available.
	ErrInsufficientSeats = errors.New("insufficient seats")
	// ErrClaimExpired marks a confirm attempt after the claim TTL elapsed.
	ErrClaimExpired = errors.New("claim expired")
	// ErrClaimNotFound marks a confirm attempt on an already-resolved claim.
	ErrClaimNotFound = errors.New("claim not found")
	// ErrInvalidRequest marks malformed input such as a non-positive seat count.
	ErrInvalidRequest = errors.New("invalid request")
)

// Kind returns the wire label for an error, used in API error bodies.
func Kind(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInsufficientSeats):
		return "insufficient_seats"
	case errors.Is(err, ErrClaimExpired):
		return "claim_expired"
	case errors.Is(err, ErrClaimNotFound):
		return "claim_not_found"
	case errors.Is(err, ErrInvalidRequest):
		return "invalid_request"
	default:
		return "internal"
	}
}
