package sheet

import (
	"context"
	"sync"
	"time"
)

// CacheGrid wraps a Grid with a per-sheet read cache. Entries expire after
// the TTL; every successful mutation drops the sheet's entry before the call
// returns, so a read immediately after a write always sees the write. The
// clock is injectable for tests.
type CacheGrid struct {
	inner Grid
	ttl   time.Duration
	now   func() time.Time

	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	rows    [][]string
	fetched time.Time
}

// NewCacheGrid wraps inner with a TTL read cache.
func NewCacheGrid(inner Grid, ttl time.Duration, now func() time.Time) *CacheGrid {
	if now == nil {
		now = time.Now
	}
	return &CacheGrid{
		inner:   inner,
		ttl:     ttl,
		now:     now,
		entries: make(map[string]cacheEntry),
	}
}

func (c *CacheGrid) Values(ctx context.Context, sheet string) ([][]string, error) {
	c.mu.Lock()
	entry, ok := c.entries[sheet]
	if ok && c.now().Sub(entry.fetched) < c.ttl {
		rows := copyRows(entry.rows)
		c.mu.Unlock()
		return rows, nil
	}
	c.mu.Unlock()

	rows, err := c.inner.Values(ctx, sheet)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[sheet] = cacheEntry{rows: copyRows(rows), fetched: c.now()}
	c.mu.Unlock()
	return rows, nil
}

// Invalidate drops the cached rows for one sheet, or for every sheet when
// called with no arguments.
func (c *CacheGrid) Invalidate(sheets ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(sheets) == 0 {
		c.entries = make(map[string]cacheEntry)
		return
	}
	for _, s := range sheets {
		delete(c.entries, s)
	}
}

func (c *CacheGrid) Append(ctx context.Context, sheet string, rows [][]string) error {
	if err := c.inner.Append(ctx, sheet, rows); err != nil {
		return err
	}
	c.Invalidate(sheet)
	return nil
}

func (c *CacheGrid) UpdateRow(ctx context.Context, sheet string, index int, row []string) error {
	if err := c.inner.UpdateRow(ctx, sheet, index, row); err != nil {
		return err
	}
	c.Invalidate(sheet)
	return nil
}

func (c *CacheGrid) DeleteRow(ctx context.Context, sheet string, index int) error {
	if err := c.inner.DeleteRow(ctx, sheet, index); err != nil {
		return err
	}
	c.Invalidate(sheet)
	return nil
}

func (c *CacheGrid) Overwrite(ctx context.Context, sheet string, values [][]string) error {
	if err := c.inner.Overwrite(ctx, sheet, values); err != nil {
		return err
	}
	c.Invalidate(sheet)
	return nil
}

func (c *CacheGrid) EnsureSheet(ctx context.Context, sheet string, headers []string) error {
	if err := c.inner.EnsureSheet(ctx, sheet, headers); err != nil {
		return err
	}
	c.Invalidate(sheet)
	return nil
}

func copyRows(rows [][]string) [][]string {
	copied := make([][]string, len(rows))
	for i, row := range rows {
		copied[i] = append([]string(nil), row...)
	}
	return copied
}

var _ Grid = (*CacheGrid)(nil)
