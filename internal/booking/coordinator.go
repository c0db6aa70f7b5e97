// Package booking orchestrates the quote -> claim -> confirm protocol.
// The coordinator is the only component that mutates inventory state;
// every failure path releases whatever it still holds before
// propagating a single taxonomy error to the caller.
package booking

import (
	"context"
	"fmt"
	"time"

	"marquee/internal/bookingerr"
	"marquee/internal/catalog"
	"marquee/internal/idempotency"
	"marquee/internal/inventory"
	"marquee/internal/ledger"
	"marquee/internal/logger"
	"marquee/internal/messaging"
	"marquee/internal/metrics"
	"marquee/internal/models"
	"marquee/internal/pricing"

	"github.com/google/uuid"
)

type Coordinator struct {
	catalog   *catalog.Catalog
	inventory *inventory.Manager
	ledger    ledger.Store
	idem      idempotency.Store
	nats      *messaging.Client
	metrics   *metrics.Metrics
	idemTTL   time.Duration
}

func NewCoordinator(
	cat *catalog.Catalog,
	inv *inventory.Manager,
	store ledger.Store,
	idem idempotency.Store,
	nats *messaging.Client,
	m *metrics.Metrics,
	idemTTL time.Duration,
) *Coordinator {
	return &Coordinator{
		catalog:   cat,
		inventory: inv,
		ledger:    store,
		idem:      idem,
		nats:      nats,
		metrics:   m,
		idemTTL:   idemTTL,
	}
}

// BookRequest carries one booking attempt. IdempotencyKey is optional;
// when set, a retry with the same key replays the original booking.
type BookRequest struct {
	Theatre        string
	Movie          string
	Seats          int
	Showtime       models.Showtime
	PaymentMethod  string
	Owner          string
	IdempotencyKey string
}

// Quote prices a prospective booking. No inventory is touched, so
// callers may re-quote freely.
func (c *Coordinator) Quote(ctx context.Context, theatre, movie string, seats int) (int64, error) {
	if seats <= 0 {
		return 0, fmt.Errorf("seat count must be positive, got %d: %w", seats, bookingerr.ErrInvalidRequest)
	}

	th, err := c.catalog.Theatre(theatre)
	if err != nil {
		return 0, err
	}
	if _, err := c.catalog.MovieAt(theatre, movie); err != nil {
		return 0, err
	}

	return pricing.Total(th.BasePrice, seats), nil
}

// Book runs the full claim -> price -> confirm -> append protocol.
// The price is always recomputed from the authoritative base price;
// client-supplied totals are never trusted. On any failure after the
// claim, held seats are released before the error is returned; the
// claim TTL backstops releases the coordinator never gets to make.
func (c *Coordinator) Book(ctx context.Context, req BookRequest) (*models.Booking, error) {
	if err := c.validate(req); err != nil {
		return nil, err
	}

	th, err := c.catalog.Theatre(req.Theatre)
	if err != nil {
		return nil, err
	}
	if _, err := c.catalog.MovieAt(req.Theatre, req.Movie); err != nil {
		return nil, err
	}

	if req.IdempotencyKey != "" {
		if booking, ok := c.replay(ctx, req.IdempotencyKey); ok {
			return booking, nil
		}
	}

	key := models.ShowKey{Theatre: req.Theatre, Movie: req.Movie}

	claim, err := c.inventory.ClaimSeats(key, req.Seats, req.Owner)
	if err != nil {
		c.metrics.BookingsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	c.publish(ctx, models.EventClaimCreated, models.ClaimCreatedEvent{
		ClaimID:   claim.ID,
		Theatre:   key.Theatre,
		Movie:     key.Movie,
		Owner:     claim.Owner,
		Seats:     claim.Seats,
		Timestamp: time.Now(),
	})

	total := pricing.Total(th.BasePrice, req.Seats)

	if err := c.inventory.ConfirmClaim(key, claim.ID); err != nil {
		// Expired claims are already released; anything else still
		// held goes back to the pool.
		c.inventory.ReleaseClaim(key, claim.ID)
		c.metrics.BookingsTotal.WithLabelValues("rejected").Inc()
		return nil, err
	}

	booking := &models.Booking{
		ID:            uuid.New().String(),
		ClaimID:       claim.ID,
		Theatre:       req.Theatre,
		Movie:         req.Movie,
		Showtime:      req.Showtime,
		Seats:         claim.Seats,
		TotalPrice:    total,
		PaymentMethod: req.PaymentMethod,
		Owner:         req.Owner,
		Status:        models.BookingStatusConfirmed,
		CreatedAt:     time.Now().UTC(),
	}

	if err := c.ledger.Append(ctx, booking); err != nil {
		// Compensating release: the seats were confirmed but the
		// booking was never recorded.
		if rerr := c.inventory.ReleaseConfirmed(key, claim.ID, claim.Seats); rerr != nil {
			logger.WithContext(ctx).Error("Failed to release seats after ledger append failure",
				"error", rerr,
				"show", key.String(),
				"seats", claim.Seats)
		}
		c.metrics.BookingsTotal.WithLabelValues("rejected").Inc()
		return nil, fmt.Errorf("failed to record booking: %w", err)
	}

	if req.IdempotencyKey != "" {
		if err := c.idem.Set(ctx, req.IdempotencyKey, booking.ID, c.idemTTL); err != nil {
			logger.WithContext(ctx).Warn("Failed to record idempotency key",
				"error", err,
				"booking_id", booking.ID)
		}
	}

	c.publish(ctx, models.EventBookingConfirmed, models.BookingConfirmedEvent{
		BookingID:  booking.ID,
		Theatre:    booking.Theatre,
		Movie:      booking.Movie,
		Owner:      booking.Owner,
		Seats:      booking.Seats,
		TotalPrice: booking.TotalPrice,
		Timestamp:  time.Now(),
	})
	c.metrics.BookingsTotal.WithLabelValues("confirmed").Inc()

	return booking, nil
}

// Cancel flags a booking CANCELLED and performs the compensating
// inventory release. Cancelling an already-cancelled booking is a
// no-op. The release is keyed by the booking's claim ID, so a retry
// after a failed status update releases nothing once the seats have
// been re-sold.
func (c *Coordinator) Cancel(ctx context.Context, bookingID string) error {
	booking, err := c.ledger.Lookup(ctx, bookingID)
	if err != nil {
		return err
	}

	if booking.Status == models.BookingStatusCancelled {
		return nil
	}

	if err := c.inventory.ReleaseConfirmed(booking.Key(), booking.ClaimID, booking.Seats); err != nil {
		return fmt.Errorf("failed to release seats for booking %s: %w", bookingID, err)
	}

	if err := c.ledger.UpdateStatus(ctx, bookingID, models.BookingStatusCancelled); err != nil {
		return fmt.Errorf("failed to update booking status: %w", err)
	}

	c.publish(ctx, models.EventBookingCancelled, models.BookingCancelledEvent{
		BookingID: booking.ID,
		Theatre:   booking.Theatre,
		Movie:     booking.Movie,
		Seats:     booking.Seats,
		Reason:    "cancelled by caller",
		Timestamp: time.Now(),
	})
	c.metrics.BookingsTotal.WithLabelValues("cancelled").Inc()

	return nil
}

// GetBooking looks up a booking by ID.
func (c *Coordinator) GetBooking(ctx context.Context, bookingID string) (*models.Booking, error) {
	return c.ledger.Lookup(ctx, bookingID)
}

// ListBookings returns all bookings for an owner tag.
func (c *Coordinator) ListBookings(ctx context.Context, owner string) ([]models.Booking, error) {
	return c.ledger.ListByOwner(ctx, owner)
}

// HandleExpiredClaim is registered as the inventory expiry callback.
// It announces the release; the seats themselves are already back in
// the pool.
func (c *Coordinator) HandleExpiredClaim(claim models.SeatClaim) {
	now := time.Now()

	c.publish(context.Background(), models.EventClaimExpired, models.ClaimExpiredEvent{
		ClaimID:   claim.ID,
		Theatre:   claim.Key.Theatre,
		Movie:     claim.Key.Movie,
		Owner:     claim.Owner,
		Seats:     claim.Seats,
		Timestamp: now,
	})
	c.publish(context.Background(), models.EventSeatsReleased, models.SeatsReleasedEvent{
		Theatre:   claim.Key.Theatre,
		Movie:     claim.Key.Movie,
		Seats:     claim.Seats,
		Reason:    "claim expired",
		Timestamp: now,
	})
}

func (c *Coordinator) validate(req BookRequest) error {
	if req.Seats <= 0 {
		return fmt.Errorf("seat count must be positive, got %d: %w", req.Seats, bookingerr.ErrInvalidRequest)
	}
	if !req.Showtime.Valid() {
		return fmt.Errorf("unknown showtime %q: %w", req.Showtime, bookingerr.ErrInvalidRequest)
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		return fmt.Errorf("unknown payment method %q: %w", req.PaymentMethod, bookingerr.ErrInvalidRequest)
	}
	if req.Owner == "" {
		return fmt.Errorf("owner is required: %w", bookingerr.ErrInvalidRequest)
	}
	return nil
}

// replay returns the previously recorded booking for an idempotency
// key, if one exists. Store errors fall through to a fresh booking
// attempt rather than failing the request.
func (c *Coordinator) replay(ctx context.Context, key string) (*models.Booking, bool) {
	bookingID, ok, err := c.idem.Get(ctx, key)
	if err != nil {
		logger.WithContext(ctx).Warn("Idempotency lookup failed", "error", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}

	booking, err := c.ledger.Lookup(ctx, bookingID)
	if err != nil {
		logger.WithContext(ctx).Warn("Idempotency key references missing booking",
			"error", err,
			"booking_id", bookingID)
		return nil, false
	}

	return booking, true
}

func (c *Coordinator) publish(ctx context.Context, subject string, event interface{}) {
	if err := c.nats.Publish(subject, event); err != nil {
		logger.WithContext(ctx).Error("Failed to publish event",
			"error", err,
			"subject", subject)
	}
}
