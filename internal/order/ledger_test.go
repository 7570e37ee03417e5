package order

import (
	"math"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/pokehouse/internal/bowl"
	"github.com/mmynk/pokehouse/internal/catalog"
)

func TestTryReserve(t *testing.T) {
	l := NewLedger(catalog.Default())

	require.NoError(t, l.TryReserve("Large", 6))
	assert.Equal(t, 6, l.Used("Large"))

	err := l.TryReserve("Large", 1)
	assert.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Equal(t, 6, l.Used("Large"), "rejected reservation must not change the counter")

	// Other sizes are independent.
	require.NoError(t, l.TryReserve("Regular", 10))
	assert.ErrorIs(t, l.TryReserve("Regular", 1), ErrQuotaExceeded)
	require.NoError(t, l.TryReserve("Medium", 8))
}

func TestTryReserveErrors(t *testing.T) {
	l := NewLedger(catalog.Default())

	assert.ErrorIs(t, l.TryReserve("Large", 0), bowl.ErrInvalidAmount)
	assert.ErrorIs(t, l.TryReserve("Large", -1), bowl.ErrInvalidAmount)
	assert.ErrorIs(t, l.TryReserve("Jumbo", 1), catalog.ErrUnknownSize)
	assert.ErrorIs(t, l.TryReserve("Medium", 9), ErrQuotaExceeded)
	assert.Equal(t, 0, l.Used("Medium"))
}

func TestTryReserveHugeAmount(t *testing.T) {
	l := NewLedger(catalog.Default())
	require.NoError(t, l.TryReserve("Large", 1))

	assert.ErrorIs(t, l.TryReserve("Large", math.MaxInt), ErrQuotaExceeded)
	assert.Equal(t, 1, l.Used("Large"))

	for i := 0; i < 5; i++ {
		require.NoError(t, l.TryReserve("Large", 1))
	}
	assert.ErrorIs(t, l.TryReserve("Large", 1), ErrQuotaExceeded, "quota still applies")
	assert.Equal(t, 6, l.Used("Large"))
}

func TestReleaseFromEarlierGeneration(t *testing.T) {
	l := NewLedger(catalog.Default())
	gen, err := l.reserve("Large", 4)
	require.NoError(t, err)

	l.Reset()
	require.NoError(t, l.TryReserve("Large", 6))

	l.releaseFrom(gen, "Large", 4)
	assert.Equal(t, 6, l.Used("Large"), "release from before the reset is ignored")
	assert.ErrorIs(t, l.TryReserve("Large", 1), ErrQuotaExceeded)

	current, err := l.reserve("Medium", 2)
	require.NoError(t, err)
	l.releaseFrom(current, "Medium", 2)
	assert.Equal(t, 0, l.Used("Medium"))
}

func TestTryReserveConcurrent(t *testing.T) {
	tests := []struct {
		name    string
		size    string
		amount  int
		callers int
		want    int
	}{
		{"regular singles", "Regular", 1, 50, 10},
		{"medium pairs", "Medium", 2, 40, 4},
		{"large triples", "Large", 3, 30, 2},
		{"regular threes", "Regular", 3, 30, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLedger(catalog.Default())

			var admitted atomic.Int64
			var wg sync.WaitGroup
			start := make(chan struct{})
			for i := 0; i < tt.callers; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					<-start
					if err := l.TryReserve(tt.size, tt.amount); err == nil {
						admitted.Add(1)
					}
				}()
			}
			close(start)
			wg.Wait()

			assert.Equal(t, int64(tt.want), admitted.Load())
			assert.Equal(t, tt.want*tt.amount, l.Used(tt.size))
		})
	}
}

func TestRelease(t *testing.T) {
	l := NewLedger(catalog.Default())
	require.NoError(t, l.TryReserve("Medium", 5))

	l.Release("Medium", 2)
	assert.Equal(t, 3, l.Used("Medium"))

	l.Release("Medium", 10)
	assert.Equal(t, 0, l.Used("Medium"))

	l.Release("Medium", -4)
	assert.Equal(t, 0, l.Used("Medium"))
}

func TestResetAndRestore(t *testing.T) {
	l := NewLedger(catalog.Default())
	require.NoError(t, l.TryReserve("Regular", 4))
	require.NoError(t, l.TryReserve("Large", 6))

	l.Reset()
	for _, a := range l.Snapshot() {
		assert.Zero(t, a.Used, a.Size)
		assert.Equal(t, a.Quota, a.Remaining, a.Size)
	}
	require.NoError(t, l.TryReserve("Large", 6))

	require.NoError(t, l.Restore(map[string]int{"Regular": 3, "Large": 99}))
	assert.Equal(t, 3, l.Used("Regular"))
	assert.Equal(t, 6, l.Used("Large"), "restored counts are clamped to quota")
	assert.Equal(t, 0, l.Used("Medium"))

	err := l.Restore(map[string]int{"Huge": 1})
	assert.ErrorIs(t, err, catalog.ErrUnknownSize)
	assert.Equal(t, 3, l.Used("Regular"), "failed restore keeps the previous counts")
}

func TestSnapshotAndRemaining(t *testing.T) {
	l := NewLedger(catalog.Default())
	require.NoError(t, l.TryReserve("Medium", 3))

	snap := l.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, Availability{Size: "Regular", Quota: 10, Used: 0, Remaining: 10}, snap[0])
	assert.Equal(t, Availability{Size: "Medium", Quota: 8, Used: 3, Remaining: 5}, snap[1])
	assert.Equal(t, Availability{Size: "Large", Quota: 6, Used: 0, Remaining: 6}, snap[2])

	remaining, err := l.Remaining("Medium")
	require.NoError(t, err)
	assert.Equal(t, 5, remaining)

	_, err = l.Remaining("Tiny")
	assert.ErrorIs(t, err, catalog.ErrUnknownSize)
}
