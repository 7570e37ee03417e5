package order

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mmynk/pokehouse/internal/bowl"
	"github.com/mmynk/pokehouse/internal/catalog"
)

// ErrQuotaExceeded is returned when admitting bowls would take a size past
// its daily quota.
var ErrQuotaExceeded = errors.New("daily quota exceeded")

// Ledger counts the bowls of each size admitted during the current
// business day. All operations are atomic with respect to each other;
// a single Ledger is shared by every request in the process.
type Ledger struct {
	catalog *catalog.Catalog

	mu     sync.Mutex
	counts map[string]int
	// generation changes whenever the counters are replaced wholesale, so
	// reservations taken before a reset can be told apart.
	generation uint64
}

// Availability is a point-in-time view of one size's quota.
type Availability struct {
	Size      string
	Quota     int
	Used      int
	Remaining int
}

// NewLedger creates a ledger with every counter at zero.
func NewLedger(c *catalog.Catalog) *Ledger {
	return &Ledger{
		catalog: c,
		counts:  make(map[string]int),
	}
}

// TryReserve admits amount bowls of size. If the new count would exceed the
// size's quota, nothing is reserved and ErrQuotaExceeded is returned.
func (l *Ledger) TryReserve(size string, amount int) error {
	_, err := l.reserve(size, amount)
	return err
}

// reserve is TryReserve that also returns the generation the reservation
// was counted in.
func (l *Ledger) reserve(size string, amount int) (uint64, error) {
	if amount <= 0 {
		return 0, fmt.Errorf("%w: %d", bowl.ErrInvalidAmount, amount)
	}
	spec, err := l.catalog.SizeSpec(size)
	if err != nil {
		return 0, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	// Compare against what is left; counts+amount can overflow.
	if left := spec.DailyQuota - l.counts[size]; amount > left {
		return 0, fmt.Errorf("%w: %d %s bowls requested, %d of %d left today",
			ErrQuotaExceeded, amount, size, left, spec.DailyQuota)
	}
	l.counts[size] += amount
	return l.generation, nil
}

// Release returns a previous reservation. Counters never go below zero.
func (l *Ledger) Release(size string, amount int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.releaseLocked(size, amount)
}

// releaseFrom returns a reservation taken in generation. Reservations from
// before the last Reset or Restore are no longer counted and are ignored.
func (l *Ledger) releaseFrom(generation uint64, size string, amount int) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if generation != l.generation {
		return
	}
	l.releaseLocked(size, amount)
}

func (l *Ledger) releaseLocked(size string, amount int) {
	if amount <= 0 {
		return
	}
	l.counts[size] = max(0, l.counts[size]-amount)
}

// Reset zeroes every counter. It is called at the start of each business day.
func (l *Ledger) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	clear(l.counts)
	l.generation++
}

// Restore replaces the counters with counts persisted for the current day.
// Unknown sizes are rejected; counts above a quota are clamped to it.
func (l *Ledger) Restore(counts map[string]int) error {
	restored := make(map[string]int, len(counts))
	for size, n := range counts {
		spec, err := l.catalog.SizeSpec(size)
		if err != nil {
			return err
		}
		restored[size] = min(max(n, 0), spec.DailyQuota)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.counts = restored
	l.generation++
	return nil
}

// Used returns how many bowls of size have been admitted today.
func (l *Ledger) Used(size string) int {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.counts[size]
}

// Remaining returns how many more bowls of size can be admitted today.
func (l *Ledger) Remaining(size string) (int, error) {
	spec, err := l.catalog.SizeSpec(size)
	if err != nil {
		return 0, err
	}
	return spec.DailyQuota - l.Used(size), nil
}

// Snapshot returns the availability of every size in menu order.
func (l *Ledger) Snapshot() []Availability {
	sizes := l.catalog.Sizes()

	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Availability, len(sizes))
	for i, s := range sizes {
		used := l.counts[s.Name]
		out[i] = Availability{
			Size:      s.Name,
			Quota:     s.DailyQuota,
			Used:      used,
			Remaining: s.DailyQuota - used,
		}
	}
	return out
}
