// Package sheet abstracts the remote spreadsheet as a set of named grids of
// text cells. The typed store in internal/storage/sheetstore sits on top and
// never talks to the Sheets API directly.
package sheet

import (
	"context"
	"errors"
)

// ErrSheetNotFound is returned when a named sheet does not exist in the
// workbook. Readers treat it as an empty sheet.
var ErrSheetNotFound = errors.New("sheet not found")

// Grid is the raw tabular surface of one workbook. Row indexes are 1-based
// and include the header row, matching how the spreadsheet UI numbers rows.
type Grid interface {
	// Values returns every row of the sheet, header included.
	Values(ctx context.Context, sheet string) ([][]string, error)
	// Append adds rows after the last non-empty row in one call.
	Append(ctx context.Context, sheet string, rows [][]string) error
	// UpdateRow overwrites the cells of one row.
	UpdateRow(ctx context.Context, sheet string, index int, row []string) error
	// DeleteRow removes one row, shifting the rest up.
	DeleteRow(ctx context.Context, sheet string, index int) error
	// Overwrite clears the sheet and writes values from A1.
	Overwrite(ctx context.Context, sheet string, values [][]string) error
	// EnsureSheet creates the sheet with a header row if it does not exist.
	EnsureSheet(ctx context.Context, sheet string, headers []string) error
}
