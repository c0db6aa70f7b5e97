package inventory

import (
	"context"
	"log/slog"
	"time"
)

// Sweeper periodically releases expired claims so seats abandoned by
// crashed or idle callers return to the pool without cooperation. Lazy
// expiry on access covers hot shows; the sweeper covers the rest.
type Sweeper struct {
	manager  *Manager
	interval time.Duration
	ticker   *time.Ticker
	done     chan struct{}
}

// NewSweeper creates a sweeper over the manager's pools.
func NewSweeper(m *Manager, interval time.Duration) *Sweeper {
	return &Sweeper{
		manager:  m,
		interval: interval,
		done:     make(chan struct{}),
	}
}

// Start begins the background sweep loop.
func (s *Sweeper) Start(ctx context.Context) {
	slog.Info("Starting claim expiration sweeper", "interval", s.interval.String())

	s.ticker = time.NewTicker(s.interval)

	go func() {
		for {
			select {
			case <-s.ticker.C:
				if released := s.manager.sweep(time.Now()); released > 0 {
					slog.Info("Released expired claims", "count", released)
				}
			case <-ctx.Done():
				slog.Info("Claim expiration sweeper stopped", "reason", "context cancelled")
				return
			case <-s.done:
				slog.Info("Claim expiration sweeper stopped")
				return
			}
		}
	}()
}

// Stop gracefully stops the sweep loop.
func (s *Sweeper) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
	}
	close(s.done)
}
