package consumers

import (
	"context"
	"encoding/json"
	"time"

	"marquee/internal/logger"
	"marquee/internal/models"

	"github.com/nats-io/stan.go"
)

func (s *Service) handleBookingConfirmed(m *stan.Msg) {
	var event models.BookingConfirmedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		logger.Get().Error("Failed to unmarshal booking confirmed event", "error", err)
		m.Ack()
		return
	}

	log := logger.Get().With(
		"booking_id", event.BookingID,
		"theatre", event.Theatre,
		"movie", event.Movie,
		"owner", event.Owner,
		"seats", event.Seats,
		"total_price", event.TotalPrice)

	if s.ledger != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		booking, err := s.ledger.Lookup(ctx, event.BookingID)
		cancel()

		switch {
		case err != nil:
			log.Warn("Audit: confirmed booking not found in ledger", "error", err)
		case booking.TotalPrice != event.TotalPrice:
			log.Warn("Audit: ledger price differs from event",
				"ledger_price", booking.TotalPrice)
		default:
			log.Info("Audit: booking confirmed")
		}
	} else {
		log.Info("Audit: booking confirmed")
	}

	m.Ack()
}

func (s *Service) handleBookingCancelled(m *stan.Msg) {
	var event models.BookingCancelledEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		logger.Get().Error("Failed to unmarshal booking cancelled event", "error", err)
		m.Ack()
		return
	}

	logger.Get().Info("Audit: booking cancelled",
		"booking_id", event.BookingID,
		"theatre", event.Theatre,
		"movie", event.Movie,
		"seats", event.Seats,
		"reason", event.Reason)

	m.Ack()
}

func (s *Service) handleClaimExpired(m *stan.Msg) {
	var event models.ClaimExpiredEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		logger.Get().Error("Failed to unmarshal claim expired event", "error", err)
		m.Ack()
		return
	}

	logger.Get().Info("Audit: claim expired",
		"claim_id", event.ClaimID,
		"theatre", event.Theatre,
		"movie", event.Movie,
		"owner", event.Owner,
		"seats", event.Seats)

	m.Ack()
}

func (s *Service) handleSeatsReleased(m *stan.Msg) {
	var event models.SeatsReleasedEvent
	if err := json.Unmarshal(m.Data, &event); err != nil {
		logger.Get().Error("Failed to unmarshal seats released event", "error", err)
		m.Ack()
		return
	}

	logger.Get().Info("Audit: seats released",
		"theatre", event.Theatre,
		"movie", event.Movie,
		"seats", event.Seats,
		"reason", event.Reason)

	m.Ack()
}
