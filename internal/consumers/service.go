// Package consumers runs the audit worker: a queue subscriber that
// writes an audit trail of booking lifecycle events.
package consumers

import (
	"fmt"

	"marquee/internal/ledger"
	"marquee/internal/logger"
	"marquee/internal/messaging"
	"marquee/internal/models"

	"github.com/nats-io/stan.go"
)

const auditQueue = "audit"

// Service subscribes to the booking lifecycle subjects and records
// each event. When a ledger is configured, booking events are verified
// against it.
type Service struct {
	nats   *messaging.Client
	ledger ledger.Store
	subs   []stan.Subscription
}

func NewService(nats *messaging.Client, store ledger.Store) *Service {
	return &Service{
		nats:   nats,
		ledger: store,
	}
}

// Start subscribes to all audited subjects. Returns an error if any
// subscription fails; already-established subscriptions are kept so
// Stop can clean them up.
func (s *Service) Start() error {
	subjects := map[string]stan.MsgHandler{
		models.EventBookingConfirmed: s.handleBookingConfirmed,
		models.EventBookingCancelled: s.handleBookingCancelled,
		models.EventClaimExpired:     s.handleClaimExpired,
		models.EventSeatsReleased:    s.handleSeatsReleased,
	}

	for subject, handler := range subjects {
		sub, err := s.nats.SubscribeQueue(subject, auditQueue, handler)
		if err != nil {
			return fmt.Errorf("failed to subscribe to %s: %w", subject, err)
		}
		s.subs = append(s.subs, sub)
	}

	logger.Get().Info("Audit consumer started", "subjects", len(subjects))
	return nil
}

// Stop unsubscribes from all subjects.
func (s *Service) Stop() {
	for _, sub := range s.subs {
		if err := sub.Close(); err != nil {
			logger.Get().Error("Failed to close subscription", "error", err)
		}
	}
	logger.Get().Info("Audit consumer stopped")
}
