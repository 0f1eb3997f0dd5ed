// Package postgres is a DaybookStore for deployments that keep the ledger
// in Postgres instead of the shared workbook. Row ids are serial so listing
// preserves append order, matching the workbook's row order.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/wandersoul78/daybook/internal/interfaces"
	"github.com/wandersoul78/daybook/internal/models"
)

type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewStore(db *sql.DB, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{db: db, logger: logger}
}

// Init creates the tables if they are missing. Dates are kept as the same
// MM-DD-YYYY text the workbook uses so both backends share one parser and
// the same skip-bad-dates behaviour.
func (s *Store) Init(ctx context.Context) error {
	const schema = `
	CREATE TABLE IF NOT EXISTS daybook (
		id SERIAL PRIMARY KEY,
		date TEXT NOT NULL,
		slip TEXT NOT NULL DEFAULT '',
		voucher_type TEXT NOT NULL,
		party TEXT NOT NULL,
		item TEXT NOT NULL DEFAULT '',
		qty NUMERIC NOT NULL DEFAULT 0,
		rate NUMERIC NOT NULL DEFAULT 0,
		amount NUMERIC NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS opening_balances (
		party TEXT PRIMARY KEY,
		as_of TEXT NOT NULL DEFAULT '',
		debit NUMERIC NOT NULL DEFAULT 0,
		credit NUMERIC NOT NULL DEFAULT 0
	);
	CREATE TABLE IF NOT EXISTS parties (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS items (
		id SERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS production (
		id SERIAL PRIMARY KEY,
		date TEXT NOT NULL,
		grade TEXT NOT NULL,
		lots BIGINT NOT NULL,
		resin NUMERIC NOT NULL DEFAULT 0,
		mitti NUMERIC NOT NULL DEFAULT 0,
		cpw NUMERIC NOT NULL DEFAULT 0,
		dop NUMERIC NOT NULL DEFAULT 0,
		chemical NUMERIC NOT NULL DEFAULT 0,
		other NUMERIC NOT NULL DEFAULT 0,
		lot_weight NUMERIC NOT NULL DEFAULT 0,
		output_weight NUMERIC NOT NULL DEFAULT 0
	);`
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

func (s *Store) ListVouchers(ctx context.Context) ([]models.Voucher, error) {
	const query = `SELECT date, slip, voucher_type, party, item, qty, rate, amount
	FROM daybook ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var vouchers []models.Voucher
	skipped := 0
	for rows.Next() {
		var v models.Voucher
		var dateText, vtype, qty, rate, amount string
		if err := rows.Scan(&dateText, &v.Slip, &vtype, &v.Party, &v.Item, &qty, &rate, &amount); err != nil {
			return nil, err
		}
		date, err := models.ParseDate(dateText)
		if err != nil {
			skipped++
			continue
		}
		v.Date = date
		v.Type = models.VoucherType(vtype)
		v.Qty = parseNumeric(qty)
		v.Rate = parseNumeric(rate)
		v.Amount = parseNumeric(amount)
		vouchers = append(vouchers, v)
	}
	if err := rows.Err(); err != nil {
		return nil, err
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

// AppendVouchers writes the batch in one transaction so a multi-row entry
// is all-or-nothing.
func (s *Store) AppendVouchers(ctx context.Context, vs []models.Voucher) error {
	if len(vs) == 0 {
		return nil
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	const query = `INSERT INTO daybook (date, slip, voucher_type, party, item, qty, rate, amount)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8)`
	for _, v := range vs {
		_, err = tx.ExecContext(ctx, query,
			v.Date.Format(models.DateLayout), v.Slip, string(v.Type), v.Party,
			v.Item, v.Qty.String(), v.Rate.String(), v.Amount.String())
		if err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) ListOpeningBalances(ctx context.Context) ([]models.OpeningBalance, error) {
	const query = `SELECT party, as_of, debit, credit FROM opening_balances ORDER BY party`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []models.OpeningBalance
	for rows.Next() {
		var b models.OpeningBalance
		var asOf, debit, credit string
		if err := rows.Scan(&b.Party, &asOf, &debit, &credit); err != nil {
			return nil, err
		}
		if d, err := models.ParseDate(asOf); err == nil {
			b.AsOf = d
		}
		b.Debit = parseNumeric(debit)
		b.Credit = parseNumeric(credit)
		balances = append(balances, b)
	}
	return balances, rows.Err()
}

func (s *Store) SetOpeningBalance(ctx context.Context, b models.OpeningBalance) error {
	const query = `INSERT INTO opening_balances (party, as_of, debit, credit)
	VALUES ($1,$2,$3,$4)
	ON CONFLICT (party) DO UPDATE SET as_of = $2, debit = $3, credit = $4`

	asOf := ""
	if !b.AsOf.IsZero() {
		asOf = b.AsOf.Format(models.DateLayout)
	}
	_, err := s.db.ExecContext(ctx, query, b.Party, asOf, b.Debit.String(), b.Credit.String())
	return err
}

func (s *Store) DeleteOpeningBalance(ctx context.Context, party string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM opening_balances WHERE party = $1`, party)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no opening balance for party %q", party)
	}
	return nil
}

func (s *Store) ListParties(ctx context.Context) ([]models.Party, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, category FROM parties ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var parties []models.Party
	for rows.Next() {
		var p models.Party
		var category string
		if err := rows.Scan(&p.Name, &category); err != nil {
			return nil, err
		}
		p.Category = models.Category(category)
		parties = append(parties, p)
	}
	return parties, rows.Err()
}

func (s *Store) AddParty(ctx context.Context, p models.Party) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO parties (name, category) VALUES ($1,$2)`, p.Name, string(p.Category))
	return err
}

func (s *Store) UpdateParty(ctx context.Context, name string, p models.Party) error {
	return s.updateNamed(ctx, "parties", name, p.Name, string(p.Category))
}

func (s *Store) DeleteParty(ctx context.Context, name string) error {
	return s.deleteNamed(ctx, "parties", name)
}

func (s *Store) ListItems(ctx context.Context) ([]models.Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, category FROM items ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		var i models.Item
		var category string
		if err := rows.Scan(&i.Name, &category); err != nil {
			return nil, err
		}
		i.Category = models.Category(category)
		items = append(items, i)
	}
	return items, rows.Err()
}

func (s *Store) AddItem(ctx context.Context, i models.Item) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO items (name, category) VALUES ($1,$2)`, i.Name, string(i.Category))
	return err
}

func (s *Store) UpdateItem(ctx context.Context, name string, i models.Item) error {
	return s.updateNamed(ctx, "items", name, i.Name, string(i.Category))
}

func (s *Store) DeleteItem(ctx context.Context, name string) error {
	return s.deleteNamed(ctx, "items", name)
}

func (s *Store) AppendProduction(ctx context.Context, r models.ProductionRecord) error {
	const query = `INSERT INTO production
	(date, grade, lots, resin, mitti, cpw, dop, chemical, other, lot_weight, output_weight)
	VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`

	_, err := s.db.ExecContext(ctx, query,
		r.Date.Format(models.DateLayout), r.Grade, r.Lots,
		r.Resin.String(), r.Mitti.String(), r.CPW.String(), r.Dop.String(),
		r.Chemical.String(), r.Other.String(), r.LotWeight.String(), r.Output.String())
	return err
}

func (s *Store) updateNamed(ctx context.Context, table, name, newName, category string) error {
	query := fmt.Sprintf(`UPDATE %s SET name = $1, category = $2 WHERE name = $3`, table)
	res, err := s.db.ExecContext(ctx, query, newName, category, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: no row named %q", table, name)
	}
	return nil
}

func (s *Store) deleteNamed(ctx context.Context, table, name string) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE name = $1`, table)
	res, err := s.db.ExecContext(ctx, query, name)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%s: no row named %q", table, name)
	}
	return nil
}

func parseNumeric(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

var _ interfaces.DaybookStore = (*Store)(nil)
