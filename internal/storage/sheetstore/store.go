// Package sheetstore implements the DaybookStore contract over a raw
// spreadsheet grid. It owns the workbook layout: sheet names, header rows,
// the legacy-header aliases and the opening-balance migration.
package sheetstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/wandersoul78/daybook/internal/interfaces"
	"github.com/wandersoul78/daybook/internal/models"
	"github.com/wandersoul78/daybook/internal/sheet"
)

// Workbook sheet names. The production tab kept its historical lowercase
// name; renaming it would orphan the existing data.
const (
	SheetDaybook    = "Daybook"
	SheetOpening    = "Opening Balances"
	SheetParties    = "Parties"
	SheetItems      = "Items"
	SheetProduction = "production"
)

var (
	daybookHeaders    = []string{"Date", "Slip No.", "Voucher Type", "Party Name", "Item", "Quantity", "Rate", "Amount"}
	openingHeaders    = []string{"Party Name", "Date", "Debit", "Credit"}
	masterHeaders     = []string{"Name", "Category"}
	productionHeaders = []string{"Date", "Grade", "Lots", "Resin", "Mitti", "CPW", "Dop", "Chemical", "Other", "Lot Weight", "Output Weight"}
)

// Store is a DaybookStore over a sheet.Grid.
type Store struct {
	grid   sheet.Grid
	logger *slog.Logger
	now    func() time.Time
}

// NewStore creates a store over grid. The grid passed in is normally
// already wrapped with retry and cache decorators.
func NewStore(grid sheet.Grid, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{grid: grid, logger: logger, now: time.Now}
}

// Init prepares the workbook: creates missing sheets, migrates the legacy
// three-column opening-balance layout and seeds default master data into
// empty Parties/Items sheets. Safe to run on every startup.
func (s *Store) Init(ctx context.Context) error {
	ensure := []struct {
		name    string
		headers []string
	}{
		{SheetDaybook, daybookHeaders},
		{SheetOpening, openingHeaders},
		{SheetParties, masterHeaders},
		{SheetItems, masterHeaders},
		{SheetProduction, productionHeaders},
	}
	for _, e := range ensure {
		if err := s.grid.EnsureSheet(ctx, e.name, e.headers); err != nil {
			return fmt.Errorf("ensure sheet %s: %w", e.name, err)
		}
	}
	if err := s.migrateOpeningBalances(ctx); err != nil {
		return err
	}
	return s.seedMasterData(ctx)
}

// values reads a sheet, treating a missing sheet as empty.
func (s *Store) values(ctx context.Context, name string) ([][]string, error) {
	rows, err := s.grid.Values(ctx, name)
	if errors.Is(err, sheet.ErrSheetNotFound) {
		return nil, nil
	}
	return rows, err
}

func (s *Store) ListVouchers(ctx context.Context) ([]models.Voucher, error) {
	rows, err := s.values(ctx, SheetDaybook)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}
	cols := resolveDaybook(rows[0])
	vouchers := make([]models.Voucher, 0, len(rows)-1)
	skipped := 0
	for _, row := range rows[1:] {
		v, ok := cols.decode(row)
		if !ok {
			skipped++
			continue
		}
		vouchers = append(vouchers, v)
	}
	if skipped > 0 {
		s.logger.Warn("skipped daybook rows with unparseable dates",
			slog.Int("count", skipped))
	}
	return vouchers, nil
}

func (s *Store) AppendVoucher(ctx context.Context, v models.Voucher) error {
	return s.AppendVouchers(ctx, []models.Voucher{v})
}

func (s *Store) AppendVouchers(ctx context.Context, vs []models.Voucher) error {
	if len(vs) == 0 {
		return nil
	}
	rows := make([][]string, len(vs))
	for i, v := range vs {
		rows[i] = v.Row()
	}
	return s.grid.Append(ctx, SheetDaybook, rows)
}

func (s *Store) ListOpeningBalances(ctx context.Context) ([]models.OpeningBalance, error) {
	rows, err := s.values(ctx, SheetOpening)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, nil
	}
	cols := resolveOpening(rows[0])
	balances := make([]models.OpeningBalance, 0, len(rows)-1)
	for _, row := range rows[1:] {
		b := cols.decode(row)
		if b.Party == "" {
			continue
		}
		balances = append(balances, b)
	}
	return balances, nil
}

// SetOpeningBalance updates the party's existing row in place, or appends
// one; at most one row per party is kept meaningful.
func (s *Store) SetOpeningBalance(ctx context.Context, b models.OpeningBalance) error {
	idx, err := s.findRow(ctx, SheetOpening, partyAliases, b.Party)
	if err != nil {
		return err
	}
	if idx > 0 {
		return s.grid.UpdateRow(ctx, SheetOpening, idx, b.Row())
	}
	return s.grid.Append(ctx, SheetOpening, [][]string{b.Row()})
}

func (s *Store) DeleteOpeningBalance(ctx context.Context, party string) error {
	idx, err := s.findRow(ctx, SheetOpening, partyAliases, party)
	if err != nil {
		return err
	}
	if idx == 0 {
		return fmt.Errorf("no opening balance for party %q", party)
	}
	return s.grid.DeleteRow(ctx, SheetOpening, idx)
}

func (s *Store) ListParties(ctx context.Context) ([]models.Party, error) {
	rows, err := s.values(ctx, SheetParties)
	if err != nil {
		return nil, err
	}
	var parties []models.Party
	for _, row := range skipHeader(rows) {
		if cell(row, 0) == "" {
			continue
		}
		parties = append(parties, models.Party{
			Name:     cell(row, 0),
			Category: models.Category(cell(row, 1)),
		})
	}
	return parties, nil
}

func (s *Store) AddParty(ctx context.Context, p models.Party) error {
	return s.grid.Append(ctx, SheetParties, [][]string{p.Row()})
}

func (s *Store) UpdateParty(ctx context.Context, name string, p models.Party) error {
	return s.updateMasterRow(ctx, SheetParties, name, p.Row())
}

func (s *Store) DeleteParty(ctx context.Context, name string) error {
	return s.deleteMasterRow(ctx, SheetParties, name)
}

func (s *Store) ListItems(ctx context.Context) ([]models.Item, error) {
	rows, err := s.values(ctx, SheetItems)
	if err != nil {
		return nil, err
	}
	var items []models.Item
	for _, row := range skipHeader(rows) {
		if cell(row, 0) == "" {
			continue
		}
		items = append(items, models.Item{
			Name:     cell(row, 0),
			Category: models.Category(cell(row, 1)),
		})
	}
	return items, nil
}

func (s *Store) AddItem(ctx context.Context, i models.Item) error {
	return s.grid.Append(ctx, SheetItems, [][]string{i.Row()})
}

func (s *Store) UpdateItem(ctx context.Context, name string, i models.Item) error {
	return s.updateMasterRow(ctx, SheetItems, name, i.Row())
}

func (s *Store) DeleteItem(ctx context.Context, name string) error {
	return s.deleteMasterRow(ctx, SheetItems, name)
}

func (s *Store) AppendProduction(ctx context.Context, r models.ProductionRecord) error {
	return s.grid.Append(ctx, SheetProduction, [][]string{r.Row()})
}

// findRow returns the 1-based index of the first data row whose name column
// equals name, or 0 when absent.
func (s *Store) findRow(ctx context.Context, sheetName string, nameAliases []string, name string) (int, error) {
	rows, err := s.values(ctx, sheetName)
	if err != nil {
		return 0, err
	}
	if len(rows) < 2 {
		return 0, nil
	}
	col := resolve(rows[0], nameAliases)
	for i, row := range rows[1:] {
		if cell(row, col) == name {
			return i + 2, nil
		}
	}
	return 0, nil
}

func (s *Store) updateMasterRow(ctx context.Context, sheetName, name string, row []string) error {
	idx, err := s.findRow(ctx, sheetName, []string{"Name"}, name)
	if err != nil {
		return err
	}
	if idx == 0 {
		return fmt.Errorf("%s: no row named %q", sheetName, name)
	}
	return s.grid.UpdateRow(ctx, sheetName, idx, row)
}

func (s *Store) deleteMasterRow(ctx context.Context, sheetName, name string) error {
	idx, err := s.findRow(ctx, sheetName, []string{"Name"}, name)
	if err != nil {
		return err
	}
	if idx == 0 {
		return fmt.Errorf("%s: no row named %q", sheetName, name)
	}
	return s.grid.DeleteRow(ctx, sheetName, idx)
}

func skipHeader(rows [][]string) [][]string {
	if len(rows) < 2 {
		return nil
	}
	return rows[1:]
}

// Compile-time check: Store implements DaybookStore.
var _ interfaces.DaybookStore = (*Store)(nil)
