package sheetstore

import (
	"context"
	"fmt"

	"github.com/wandersoul78/daybook/internal/models"
)

// migrateOpeningBalances upgrades the legacy three-column opening-balance
// sheet (no Date column) to the current four-column layout. Rows get the
// fiscal-year start as their as-of date, which is where a hand-kept balance
// for this workbook always cut over. Idempotent: a sheet that already has a
// Date column is left alone.
func (s *Store) migrateOpeningBalances(ctx context.Context) error {
	rows, err := s.values(ctx, SheetOpening)
	if err != nil {
		return err
	}
	if len(rows) == 0 || resolve(rows[0], dateAliases) >= 0 {
		return nil
	}

	defaultDate := models.FiscalYearStart(s.now()).Format(models.DateLayout)
	migrated := [][]string{openingHeaders}
	for _, row := range rows[1:] {
		if cell(row, 0) == "" {
			continue
		}
		migrated = append(migrated, []string{
			cell(row, 0),
			defaultDate,
			cell(row, 1),
			cell(row, 2),
		})
	}
	if err := s.grid.Overwrite(ctx, SheetOpening, migrated); err != nil {
		return fmt.Errorf("migrate opening balances: %w", err)
	}
	s.logger.Info("migrated opening balances to dated layout",
		"rows", len(migrated)-1, "default_date", defaultDate)
	return nil
}
