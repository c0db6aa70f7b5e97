package inventory

import (
	"sync"
	"testing"
	"time"

	"marquee/internal/bookingerr"
	"marquee/internal/catalog"
	"marquee/internal/metrics"
	"marquee/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testKey = models.ShowKey{Theatre: "Alpha", Movie: "First"}

func newTestManager(t *testing.T, totalSeats int, ttl time.Duration) *Manager {
	t.Helper()
	return NewManager(
		[]catalog.Show{{Key: testKey, TotalSeats: totalSeats}},
		ttl,
		metrics.New(prometheus.NewRegistry()),
	)
}

func assertConserved(t *testing.T, m *Manager, total int) {
	t.Helper()
	avail, claimed, confirmed, err := m.Counts(testKey)
	require.NoError(t, err)
	assert.Equal(t, total, avail+claimed+confirmed, "seat partition must conserve the total")
}

func TestClaimSeatsLowestFirst(t *testing.T) {
	m := newTestManager(t, 10, time.Minute)

	claim, err := m.ClaimSeats(testKey, 3, "alice")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, claim.Seats)

	claim2, err := m.ClaimSeats(testKey, 2, "bob")
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5}, claim2.Seats)

	avail, err := m.Availability(testKey)
	require.NoError(t, err)
	assert.Equal(t, 5, avail)
	assertConserved(t, m, 10)
}

func TestClaimSeatsReusesReleasedSeats(t *testing.T) {
	m := newTestManager(t, 10, time.Minute)

	claim, err := m.ClaimSeats(testKey, 3, "alice")
	require.NoError(t, err)

	m.ReleaseClaim(testKey, claim.ID)

	claim2, err := m.ClaimSeats(testKey, 2, "bob")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, claim2.Seats)
}

func TestClaimSeatsAfterTTLExpiry(t *testing.T) {
	m := newTestManager(t, 10, 20*time.Millisecond)

	first, err := m.ClaimSeats(testKey, 3, "alice")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, first.Seats)

	time.Sleep(40 * time.Millisecond)

	// The abandoned claim's seats are claimable again without any
	// explicit release.
	second, err := m.ClaimSeats(testKey, 3, "bob")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, second.Seats)
	assert.NotEqual(t, first.ID, second.ID)

	avail, err := m.Availability(testKey)
	require.NoError(t, err)
	assert.Equal(t, 7, avail)
	assertConserved(t, m, 10)
}

func TestClaimSeatsInsufficient(t *testing.T) {
	m := newTestManager(t, 5, time.Minute)

	_, err := m.ClaimSeats(testKey, 3, "alice")
	require.NoError(t, err)

	// All-or-nothing: 3 seats remain, asking for 4 grants none.
	_, err = m.ClaimSeats(testKey, 4, "bob")
	assert.ErrorIs(t, err, bookingerr.ErrInsufficientSeats)

	avail, err := m.Availability(testKey)
	require.NoError(t, err)
	assert.Equal(t, 2, avail)
}

func TestClaimSeatsValidation(t *testing.T) {
	m := newTestManager(t, 5, time.Minute)

	_, err := m.ClaimSeats(testKey, 0, "alice")
	assert.ErrorIs(t, err, bookingerr.ErrInvalidRequest)

	_, err = m.ClaimSeats(testKey, -1, "alice")
	assert.ErrorIs(t, err, bookingerr.ErrInvalidRequest)

	_, err = m.ClaimSeats(models.ShowKey{Theatre: "Nope", Movie: "Nope"}, 1, "alice")
	assert.ErrorIs(t, err, bookingerr.ErrNotFound)
}

func TestConfirmClaim(t *testing.T) {
	m := newTestManager(t, 10, time.Minute)

	claim, err := m.ClaimSeats(testKey, 4, "alice")
	require.NoError(t, err)

	require.NoError(t, m.ConfirmClaim(testKey, claim.ID))

	avail, claimed, confirmed, err := m.Counts(testKey)
	require.NoError(t, err)
	assert.Equal(t, 6, avail)
	assert.Equal(t, 0, claimed)
	assert.Equal(t, 4, confirmed)

	// A resolved claim cannot be confirmed again.
	err = m.ConfirmClaim(testKey, claim.ID)
	assert.ErrorIs(t, err, bookingerr.ErrClaimNotFound)
}

func TestConfirmExpiredClaim(t *testing.T) {
	m := newTestManager(t, 10, 20*time.Millisecond)

	claim, err := m.ClaimSeats(testKey, 2, "alice")
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)

	err = m.ConfirmClaim(testKey, claim.ID)
	assert.ErrorIs(t, err, bookingerr.ErrClaimExpired)

	avail, err := m.Availability(testKey)
	require.NoError(t, err)
	assert.Equal(t, 10, avail, "expired claim must return its seats")
}

func TestAvailabilitySweepsExpiredClaims(t *testing.T) {
	m := newTestManager(t, 10, 20*time.Millisecond)

	var expired []models.SeatClaim
	var mu sync.Mutex
	m.OnExpire(func(c models.SeatClaim) {
		mu.Lock()
		expired = append(expired, c)
		mu.Unlock()
	})

	claim, err := m.ClaimSeats(testKey, 3, "alice")
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)

	avail, err := m.Availability(testKey)
	require.NoError(t, err)
	assert.Equal(t, 10, avail)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, expired, 1)
	assert.Equal(t, claim.ID, expired[0].ID)
	assert.Equal(t, claim.Seats, expired[0].Seats)
}

func TestSweepReleasesAcrossPools(t *testing.T) {
	otherKey := models.ShowKey{Theatre: "Beta", Movie: "Second"}
	m := NewManager(
		[]catalog.Show{
			{Key: testKey, TotalSeats: 10},
			{Key: otherKey, TotalSeats: 10},
		},
		20*time.Millisecond,
		metrics.New(prometheus.NewRegistry()),
	)

	_, err := m.ClaimSeats(testKey, 2, "alice")
	require.NoError(t, err)
	_, err = m.ClaimSeats(otherKey, 3, "bob")
	require.NoError(t, err)

	time.Sleep(40 * time.Millisecond)

	assert.Equal(t, 2, m.sweep(time.Now()))
}

func TestOnExpireRegistrationDuringSweeps(t *testing.T) {
	m := newTestManager(t, 10, 10*time.Millisecond)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for i := 0; i < 100; i++ {
			m.sweep(time.Now())
		}
	}()

	fired := make(chan models.SeatClaim, 1)
	m.OnExpire(func(c models.SeatClaim) {
		select {
		case fired <- c:
		default:
		}
	})
	<-done

	claim, err := m.ClaimSeats(testKey, 1, "alice")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)
	m.sweep(time.Now())

	select {
	case got := <-fired:
		assert.Equal(t, claim.ID, got.ID)
	default:
		t.Fatal("expiry callback was not invoked")
	}
}

func TestReleaseClaimIdempotent(t *testing.T) {
	m := newTestManager(t, 10, time.Minute)

	claim, err := m.ClaimSeats(testKey, 2, "alice")
	require.NoError(t, err)

	m.ReleaseClaim(testKey, claim.ID)
	m.ReleaseClaim(testKey, claim.ID)
	m.ReleaseClaim(testKey, "no-such-claim")
	m.ReleaseClaim(models.ShowKey{Theatre: "Nope", Movie: "Nope"}, claim.ID)

	avail, err := m.Availability(testKey)
	require.NoError(t, err)
	assert.Equal(t, 10, avail)
}

func TestReleaseConfirmed(t *testing.T) {
	m := newTestManager(t, 10, time.Minute)

	claim, err := m.ClaimSeats(testKey, 4, "alice")
	require.NoError(t, err)
	require.NoError(t, m.ConfirmClaim(testKey, claim.ID))

	require.NoError(t, m.ReleaseConfirmed(testKey, claim.ID, claim.Seats))

	avail, claimed, confirmed, err := m.Counts(testKey)
	require.NoError(t, err)
	assert.Equal(t, 10, avail)
	assert.Equal(t, 0, claimed)
	assert.Equal(t, 0, confirmed)

	// Idempotent: a second release of the same claim changes nothing.
	require.NoError(t, m.ReleaseConfirmed(testKey, claim.ID, claim.Seats))
	avail, _, _, err = m.Counts(testKey)
	require.NoError(t, err)
	assert.Equal(t, 10, avail)
}

func TestReleaseConfirmedOnlyReleasesOwnSeats(t *testing.T) {
	m := newTestManager(t, 10, time.Minute)

	first, err := m.ClaimSeats(testKey, 3, "alice")
	require.NoError(t, err)
	require.NoError(t, m.ConfirmClaim(testKey, first.ID))
	require.NoError(t, m.ReleaseConfirmed(testKey, first.ID, first.Seats))

	// The released seats go to a new confirmed booking.
	second, err := m.ClaimSeats(testKey, 3, "bob")
	require.NoError(t, err)
	require.NoError(t, m.ConfirmClaim(testKey, second.ID))
	assert.Equal(t, first.Seats, second.Seats)

	// Releasing the first booking again must not take the second
	// booking's seats.
	require.NoError(t, m.ReleaseConfirmed(testKey, first.ID, first.Seats))

	avail, _, confirmed, err := m.Counts(testKey)
	require.NoError(t, err)
	assert.Equal(t, 7, avail)
	assert.Equal(t, 3, confirmed)

	third, err := m.ClaimSeats(testKey, 3, "carol")
	require.NoError(t, err)
	assert.Equal(t, []int{4, 5, 6}, third.Seats)
}

func TestConcurrentClaimsAreDisjoint(t *testing.T) {
	const total = 100
	m := newTestManager(t, total, time.Minute)

	var wg sync.WaitGroup
	var mu sync.Mutex
	granted := make(map[int]string)

	for i := 0; i < total; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			claim, err := m.ClaimSeats(testKey, 1, "racer")
			if err != nil {
				return
			}
			mu.Lock()
			for _, seat := range claim.Seats {
				if prev, taken := granted[seat]; taken {
					t.Errorf("seat %d granted to both %s and %s", seat, prev, claim.ID)
				}
				granted[seat] = claim.ID
			}
			mu.Unlock()
		}()
	}
	wg.Wait()

	assert.Len(t, granted, total, "every seat granted exactly once")

	avail, err := m.Availability(testKey)
	require.NoError(t, err)
	assert.Equal(t, 0, avail)
	assertConserved(t, m, total)
}

func TestConcurrentContentionForLastSeats(t *testing.T) {
	const total = 10
	m := newTestManager(t, total, time.Minute)

	// Two claimers race for 6 of the 10 seats; exactly one can win.
	var wg sync.WaitGroup
	results := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, results[i] = m.ClaimSeats(testKey, 6, "racer")
		}(i)
	}
	wg.Wait()

	var granted, insufficient int
	for _, err := range results {
		if err == nil {
			granted++
		} else {
			assert.ErrorIs(t, err, bookingerr.ErrInsufficientSeats)
			insufficient++
		}
	}
	assert.Equal(t, 1, granted)
	assert.Equal(t, 1, insufficient)

	avail, err := m.Availability(testKey)
	require.NoError(t, err)
	assert.Equal(t, 4, avail)
	assertConserved(t, m, total)
}
