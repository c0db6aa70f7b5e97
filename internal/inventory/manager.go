// Package inventory owns the authoritative seat state per show. All
// mutations on one show run under that show's lock; shows are fully
// independent of each other. The critical sections contain no I/O.
package inventory

import (
	"fmt"
	"sync"
	"time"

	"marquee/internal/bookingerr"
	"marquee/internal/catalog"
	"marquee/internal/metrics"
	"marquee/internal/models"

	"github.com/google/uuid"
)

// Config carries the inventory tuning knobs.
type Config struct {
	ClaimTTL      time.Duration
	SweepInterval time.Duration
}

// Manager holds one seat pool per show. The pool map is fixed at
// construction; the outer lock guards map access and the expiry
// callback, never seat state.
type Manager struct {
	mu       sync.RWMutex
	pools    map[models.ShowKey]*seatPool
	ttl      time.Duration
	metrics  *metrics.Metrics
	onExpire func(models.SeatClaim)
}

// seatPool partitions seat numbers 1..total into available, claimed
// and confirmed. Invariant: claimed and confirmed are disjoint;
// available is everything else. Confirmed seats keep the claim ID that
// confirmed them so a compensating release only touches seats still
// owned by the releasing booking.
type seatPool struct {
	mu        sync.Mutex
	key       models.ShowKey
	total     int
	claimed   map[int]string // seat number -> claim ID
	confirmed map[int]string // seat number -> confirming claim ID
	claims    map[string]*models.SeatClaim
}

// NewManager builds pools for every show in the catalog. ttl bounds the
// lifetime of unconfirmed claims.
func NewManager(shows []catalog.Show, ttl time.Duration, m *metrics.Metrics) *Manager {
	mgr := &Manager{
		pools:   make(map[models.ShowKey]*seatPool, len(shows)),
		ttl:     ttl,
		metrics: m,
	}

	for _, s := range shows {
		mgr.pools[s.Key] = &seatPool{
			key:       s.Key,
			total:     s.TotalSeats,
			claimed:   make(map[int]string),
			confirmed: make(map[int]string),
			claims:    make(map[string]*models.SeatClaim),
		}
		m.SeatsAvailable.WithLabelValues(s.Key.Theatre, s.Key.Movie).Set(float64(s.TotalSeats))
	}

	return mgr
}

// OnExpire registers a callback invoked for every claim released by
// TTL expiry. The callback runs outside the pool lock.
func (m *Manager) OnExpire(fn func(models.SeatClaim)) {
	m.mu.Lock()
	m.onExpire = fn
	m.mu.Unlock()
}

func (m *Manager) pool(key models.ShowKey) (*seatPool, bool) {
	m.mu.RLock()
	p, ok := m.pools[key]
	m.mu.RUnlock()
	return p, ok
}

// Availability returns the number of available seats for a show.
// Expired claims are swept before counting so abandoned holds never
// depress the reported count past their TTL.
func (m *Manager) Availability(key models.ShowKey) (int, error) {
	p, ok := m.pool(key)
	if !ok {
		return 0, fmt.Errorf("show %s: %w", key, bookingerr.ErrNotFound)
	}

	p.mu.Lock()
	expired := p.expireLocked(time.Now())
	avail := p.availableLocked()
	p.mu.Unlock()

	m.setAvailableGauge(key, avail)
	m.notifyExpired(expired)

	return avail, nil
}

// ClaimSeats atomically moves count seats from available to claimed,
// lowest seat numbers first, and returns the resulting claim. The
// selection and bookkeeping are indivisible with respect to concurrent
// claims on the same show: either all count seats are granted or none.
func (m *Manager) ClaimSeats(key models.ShowKey, count int, owner string) (*models.SeatClaim, error) {
	if count <= 0 {
		return nil, fmt.Errorf("seat count must be positive, got %d: %w", count, bookingerr.ErrInvalidRequest)
	}

	p, ok := m.pool(key)
	if !ok {
		return nil, fmt.Errorf("show %s: %w", key, bookingerr.ErrNotFound)
	}

	now := time.Now()

	p.mu.Lock()
	expired := p.expireLocked(now)

	if avail := p.availableLocked(); count > avail {
		p.mu.Unlock()
		m.notifyExpired(expired)
		m.metrics.ClaimsTotal.WithLabelValues("insufficient").Inc()
		return nil, fmt.Errorf("requested %d seats, %d available for %s: %w",
			count, avail, key, bookingerr.ErrInsufficientSeats)
	}

	seats := p.lowestAvailableLocked(count)
	claim := &models.SeatClaim{
		ID:        uuid.New().String(),
		Key:       key,
		Owner:     owner,
		Seats:     seats,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	for _, seat := range seats {
		p.claimed[seat] = claim.ID
	}
	p.claims[claim.ID] = claim
	avail := p.availableLocked()
	p.mu.Unlock()

	m.setAvailableGauge(key, avail)
	m.notifyExpired(expired)
	m.metrics.ClaimsTotal.WithLabelValues("granted").Inc()

	return copyClaim(claim), nil
}

// ConfirmClaim promotes a claim's seats from claimed to confirmed.
// An expired claim is released on the spot and reported as such.
func (m *Manager) ConfirmClaim(key models.ShowKey, claimID string) error {
	p, ok := m.pool(key)
	if !ok {
		return fmt.Errorf("show %s: %w", key, bookingerr.ErrNotFound)
	}

	now := time.Now()

	p.mu.Lock()
	claim, ok := p.claims[claimID]
	if !ok {
		p.mu.Unlock()
		return fmt.Errorf("claim %s: %w", claimID, bookingerr.ErrClaimNotFound)
	}

	if claim.Expired(now) {
		p.releaseClaimLocked(claim)
		avail := p.availableLocked()
		p.mu.Unlock()
		m.setAvailableGauge(key, avail)
		m.notifyExpired([]models.SeatClaim{*claim})
		return fmt.Errorf("claim %s: %w", claimID, bookingerr.ErrClaimExpired)
	}

	for _, seat := range claim.Seats {
		delete(p.claimed, seat)
		p.confirmed[seat] = claimID
	}
	delete(p.claims, claimID)
	p.mu.Unlock()

	return nil
}

// ReleaseClaim returns a claim's seats to available. Idempotent: a
// missing show or already-resolved claim is a no-op.
func (m *Manager) ReleaseClaim(key models.ShowKey, claimID string) {
	p, ok := m.pool(key)
	if !ok {
		return
	}

	p.mu.Lock()
	claim, ok := p.claims[claimID]
	if !ok {
		p.mu.Unlock()
		return
	}
	p.releaseClaimLocked(claim)
	avail := p.availableLocked()
	p.mu.Unlock()

	m.setAvailableGauge(key, avail)
}

// ReleaseConfirmed is the compensating release: it moves the listed
// seats from confirmed back to available. Used when a booking is
// cancelled or its ledger append fails after confirmation. Only seats
// still attributed to ref (the confirming claim ID) are released, so a
// retried release never takes seats that were re-sold to a later
// booking in the meantime. Idempotent per ref.
func (m *Manager) ReleaseConfirmed(key models.ShowKey, ref string, seats []int) error {
	p, ok := m.pool(key)
	if !ok {
		return fmt.Errorf("show %s: %w", key, bookingerr.ErrNotFound)
	}

	p.mu.Lock()
	for _, seat := range seats {
		if p.confirmed[seat] == ref {
			delete(p.confirmed, seat)
		}
	}
	avail := p.availableLocked()
	p.mu.Unlock()

	m.setAvailableGauge(key, avail)
	return nil
}

// Counts returns a consistent snapshot of the pool partition sizes.
func (m *Manager) Counts(key models.ShowKey) (available, claimed, confirmed int, err error) {
	p, ok := m.pool(key)
	if !ok {
		return 0, 0, 0, fmt.Errorf("show %s: %w", key, bookingerr.ErrNotFound)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	return p.availableLocked(), len(p.claimed), len(p.confirmed), nil
}

// TotalSeats returns the fixed pool size for a show.
func (m *Manager) TotalSeats(key models.ShowKey) (int, error) {
	p, ok := m.pool(key)
	if !ok {
		return 0, fmt.Errorf("show %s: %w", key, bookingerr.ErrNotFound)
	}
	return p.total, nil
}

// sweep releases every expired claim across all pools and returns the
// number of claims released.
func (m *Manager) sweep(now time.Time) int {
	m.mu.RLock()
	pools := make([]*seatPool, 0, len(m.pools))
	for _, p := range m.pools {
		pools = append(pools, p)
	}
	m.mu.RUnlock()

	released := 0
	for _, p := range pools {
		p.mu.Lock()
		expired := p.expireLocked(now)
		avail := p.availableLocked()
		p.mu.Unlock()

		if len(expired) > 0 {
			m.setAvailableGauge(p.key, avail)
			m.notifyExpired(expired)
			released += len(expired)
		}
	}
	return released
}

func (m *Manager) setAvailableGauge(key models.ShowKey, avail int) {
	m.metrics.SeatsAvailable.WithLabelValues(key.Theatre, key.Movie).Set(float64(avail))
}

func (m *Manager) notifyExpired(expired []models.SeatClaim) {
	if len(expired) == 0 {
		return
	}

	m.mu.RLock()
	fn := m.onExpire
	m.mu.RUnlock()

	for _, claim := range expired {
		m.metrics.ClaimsExpired.Inc()
		if fn != nil {
			fn(claim)
		}
	}
}

// expireLocked releases all expired claims and returns them. Caller
// holds p.mu.
func (p *seatPool) expireLocked(now time.Time) []models.SeatClaim {
	var expired []models.SeatClaim
	for _, claim := range p.claims {
		if claim.Expired(now) {
			expired = append(expired, *claim)
			p.releaseClaimLocked(claim)
		}
	}
	return expired
}

// releaseClaimLocked returns a claim's seats to available. Caller
// holds p.mu.
func (p *seatPool) releaseClaimLocked(claim *models.SeatClaim) {
	for _, seat := range claim.Seats {
		delete(p.claimed, seat)
	}
	delete(p.claims, claim.ID)
}

func (p *seatPool) availableLocked() int {
	return p.total - len(p.claimed) - len(p.confirmed)
}

// lowestAvailableLocked selects the count lowest-numbered available
// seats. Deterministic so concurrent outcomes are reproducible in
// tests. Caller holds p.mu and has verified count <= available.
func (p *seatPool) lowestAvailableLocked(count int) []int {
	seats := make([]int, 0, count)
	for seat := 1; seat <= p.total && len(seats) < count; seat++ {
		if _, ok := p.claimed[seat]; ok {
			continue
		}
		if _, ok := p.confirmed[seat]; ok {
			continue
		}
		seats = append(seats, seat)
	}
	return seats
}

func copyClaim(c *models.SeatClaim) *models.SeatClaim {
	out := *c
	out.Seats = make([]int, len(c.Seats))
	copy(out.Seats, c.Seats)
	return &out
}
