package sheet

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// countingGrid tallies how often each sheet is actually read.
type countingGrid struct {
	Grid
	reads int
}

func (c *countingGrid) Values(ctx context.Context, sheet string) ([][]string, error) {
	c.reads++
	return c.Grid.Values(ctx, sheet)
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newCacheFixture(t *testing.T, ttl time.Duration) (*CacheGrid, *countingGrid, *fakeClock) {
	t.Helper()
	ctx := context.Background()
	inner := NewMemoryGrid()
	require.NoError(t, inner.EnsureSheet(ctx, "Daybook", []string{"Date", "Amount"}))
	require.NoError(t, inner.Append(ctx, "Daybook", [][]string{{"01-01-2024", "10"}}))
	counting := &countingGrid{Grid: inner}
	clock := &fakeClock{now: time.Date(2024, time.June, 1, 9, 0, 0, 0, time.UTC)}
	return NewCacheGrid(counting, ttl, clock.Now), counting, clock
}

func TestCacheGridServesRepeatReadsFromCache(t *testing.T) {
	ctx := context.Background()
	grid, counting, _ := newCacheFixture(t, 2*time.Minute)

	first, err := grid.Values(ctx, "Daybook")
	require.NoError(t, err)
	second, err := grid.Values(ctx, "Daybook")
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, counting.reads)
}

func TestCacheGridExpiresAfterTTL(t *testing.T) {
	ctx := context.Background()
	grid, counting, clock := newCacheFixture(t, 2*time.Minute)

	_, err := grid.Values(ctx, "Daybook")
	require.NoError(t, err)
	clock.Advance(2 * time.Minute)
	_, err = grid.Values(ctx, "Daybook")
	require.NoError(t, err)
	require.Equal(t, 2, counting.reads)
}

func TestCacheGridWriteInvalidatesBeforeReturning(t *testing.T) {
	ctx := context.Background()
	grid, counting, _ := newCacheFixture(t, 2*time.Minute)

	_, err := grid.Values(ctx, "Daybook")
	require.NoError(t, err)

	require.NoError(t, grid.Append(ctx, "Daybook", [][]string{{"01-02-2024", "20"}}))

	rows, err := grid.Values(ctx, "Daybook")
	require.NoError(t, err)
	require.Len(t, rows, 3, "read after write must see the new row")
	require.Equal(t, 2, counting.reads)
}

func TestCacheGridCachedRowsAreIsolated(t *testing.T) {
	ctx := context.Background()
	grid, _, _ := newCacheFixture(t, 2*time.Minute)

	rows, err := grid.Values(ctx, "Daybook")
	require.NoError(t, err)
	rows[1][1] = "tampered"

	again, err := grid.Values(ctx, "Daybook")
	require.NoError(t, err)
	require.Equal(t, "10", again[1][1])
}

func TestCacheGridInvalidateAll(t *testing.T) {
	ctx := context.Background()
	grid, counting, _ := newCacheFixture(t, 2*time.Minute)

	_, err := grid.Values(ctx, "Daybook")
	require.NoError(t, err)
	grid.Invalidate()
	_, err = grid.Values(ctx, "Daybook")
	require.NoError(t, err)
	require.Equal(t, 2, counting.reads)
}
