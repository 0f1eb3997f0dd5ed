package sheet

import (
	"context"
	"fmt"
	"sync"
)

// MemoryGrid is an in-memory implementation of Grid. It backs the test
// suites and the local development mode, and is safe for concurrent use.
type MemoryGrid struct {
	mu     sync.Mutex
	sheets map[string][][]string
}

// NewMemoryGrid creates an empty in-memory workbook.
func NewMemoryGrid() *MemoryGrid {
	return &MemoryGrid{
		sheets: make(map[string][][]string),
	}
}

// Values returns a copy of the sheet so callers can't mutate internal state.
func (g *MemoryGrid) Values(ctx context.Context, sheet string) ([][]string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	rows, ok := g.sheets[sheet]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	copied := make([][]string, len(rows))
	for i, row := range rows {
		copied[i] = append([]string(nil), row...)
	}
	return copied, nil
}

func (g *MemoryGrid) Append(ctx context.Context, sheet string, rows [][]string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	existing, ok := g.sheets[sheet]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	for _, row := range rows {
		existing = append(existing, append([]string(nil), row...))
	}
	g.sheets[sheet] = existing
	return nil
}

func (g *MemoryGrid) UpdateRow(ctx context.Context, sheet string, index int, row []string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	rows, ok := g.sheets[sheet]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	if index < 1 || index > len(rows) {
		return fmt.Errorf("row %d out of range for sheet %s", index, sheet)
	}
	rows[index-1] = append([]string(nil), row...)
	return nil
}

func (g *MemoryGrid) DeleteRow(ctx context.Context, sheet string, index int) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	rows, ok := g.sheets[sheet]
	if !ok {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	if index < 1 || index > len(rows) {
		return fmt.Errorf("row %d out of range for sheet %s", index, sheet)
	}
	g.sheets[sheet] = append(rows[:index-1], rows[index:]...)
	return nil
}

func (g *MemoryGrid) Overwrite(ctx context.Context, sheet string, values [][]string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.sheets[sheet]; !ok {
		return fmt.Errorf("%w: %s", ErrSheetNotFound, sheet)
	}
	copied := make([][]string, len(values))
	for i, row := range values {
		copied[i] = append([]string(nil), row...)
	}
	g.sheets[sheet] = copied
	return nil
}

func (g *MemoryGrid) EnsureSheet(ctx context.Context, sheet string, headers []string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, ok := g.sheets[sheet]; ok {
		return nil
	}
	g.sheets[sheet] = [][]string{append([]string(nil), headers...)}
	return nil
}

// Compile-time check: MemoryGrid implements Grid.
var _ Grid = (*MemoryGrid)(nil)
