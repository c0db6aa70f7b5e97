// Package ledger stores confirmed bookings. The ledger is append-only:
// records are never deleted, and the only permitted update is the
// cancellation status flag.
package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"marquee/internal/bookingerr"
	"marquee/internal/models"

	"github.com/google/uuid"
)

// Store is the booking ledger contract. Append must complete before a
// booking success response is returned to the caller.
type Store interface {
	Append(ctx context.Context, booking *models.Booking) error
	Lookup(ctx context.Context, id string) (*models.Booking, error)
	ListByOwner(ctx context.Context, owner string) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, id, status string) error
}

// MemoryStore keeps bookings in process. Used in tests and when no
// database is configured.
type MemoryStore struct {
	mu       sync.RWMutex
	bookings map[string]*models.Booking
	order    []string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		bookings: make(map[string]*models.Booking),
	}
}

// Append records a booking, assigning an ID and timestamp when unset.
// Appending an existing ID fails: the ledger is append-only.
func (s *MemoryStore) Append(ctx context.Context, booking *models.Booking) error {
	if booking.ID == "" {
		booking.ID = uuid.New().String()
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.bookings[booking.ID]; exists {
		return fmt.Errorf("booking %s already recorded", booking.ID)
	}

	stored := copyBooking(booking)
	s.bookings[booking.ID] = stored
	s.order = append(s.order, booking.ID)
	return nil
}

func (s *MemoryStore) Lookup(ctx context.Context, id string) (*models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	booking, ok := s.bookings[id]
	if !ok {
		return nil, fmt.Errorf("booking %s: %w", id, bookingerr.ErrNotFound)
	}
	return copyBooking(booking), nil
}

func (s *MemoryStore) ListByOwner(ctx context.Context, owner string) ([]models.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.Booking
	for _, id := range s.order {
		if b := s.bookings[id]; b.Owner == owner {
			out = append(out, *copyBooking(b))
		}
	}
	return out, nil
}

// UpdateStatus flips the status flag on an existing record. No other
// field is mutable.
func (s *MemoryStore) UpdateStatus(ctx context.Context, id, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	booking, ok := s.bookings[id]
	if !ok {
		return fmt.Errorf("booking %s: %w", id, bookingerr.ErrNotFound)
	}
	booking.Status = status
	return nil
}

func copyBooking(b *models.Booking) *models.Booking {
	out := *b
	out.Seats = make([]int, len(b.Seats))
	copy(out.Seats, b.Seats)
	return &out
}
