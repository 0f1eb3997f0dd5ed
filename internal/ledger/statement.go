package ledger

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wandersoul78/daybook/internal/models"
)

// ErrNoEntries signals that the party has nothing to show for the range:
// no effective opening value and no vouchers between the dates.
var ErrNoEntries = errors.New("no entries for party in range")

// OpeningRowType labels the synthetic first statement row.
const OpeningRowType = "Opening Balance"

// Row is one line of a party statement. Date, Qty and Rate are empty on the
// opening row. Debit and Credit are magnitudes; Balance is the running net.
type Row struct {
	Date    string          `json:"date"`
	Slip    string          `json:"slip"`
	Type    string          `json:"type"`
	Item    string          `json:"item"`
	Qty     string          `json:"qty"`
	Rate    string          `json:"rate"`
	Debit   decimal.Decimal `json:"debit"`
	Credit  decimal.Decimal `json:"credit"`
	Balance decimal.Decimal `json:"balance"`
}

// Statement is an ordered party ledger for a date range, with column totals
// that include the opening row.
type Statement struct {
	Party       string          `json:"party"`
	From        time.Time       `json:"from"`
	To          time.Time       `json:"to"`
	Rows        []Row           `json:"rows"`
	TotalDebit  decimal.Decimal `json:"total_debit"`
	TotalCredit decimal.Decimal `json:"total_credit"`
	Closing     decimal.Decimal `json:"closing"`
}

// Statement builds the party's running-balance ledger for [from, to], both
// inclusive. The displayed opening value is the stored opening balance plus
// the net of vouchers after the opening cutover but before from (the carry
// forward). In-range rows come out in ascending date order; rows sharing a
// date keep their append order.
func (e *Engine) Statement(ctx context.Context, party string, from, to time.Time) (*Statement, error) {
	opening, ok, err := e.OpeningBalance(ctx, party, from)
	if err != nil {
		return nil, err
	}
	openingValue := decimal.Zero
	var cutover time.Time
	if ok {
		openingValue = opening.Net()
		cutover = opening.AsOf
	}

	vouchers, err := e.store.ListVouchers(ctx)
	if err != nil {
		return nil, err
	}

	type entry struct {
		v      models.Voucher
		debit  decimal.Decimal
		credit decimal.Decimal
	}
	var entries []entry
	for _, v := range vouchers {
		if v.Party != party {
			continue
		}
		// Before the cutover the voucher is already inside the stored
		// opening value.
		if !cutover.IsZero() && v.Date.Before(cutover) {
			continue
		}
		dr, cr := v.DebitCredit()
		// Between cutover and the statement start it folds into the
		// displayed opening value instead of getting its own row.
		if v.Date.Before(from) {
			openingValue = openingValue.Add(dr).Sub(cr)
			continue
		}
		if v.Date.After(to) {
			continue
		}
		entries = append(entries, entry{v: v, debit: dr, credit: cr})
	}
	if openingValue.IsZero() && len(entries) == 0 {
		return nil, ErrNoEntries
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].v.Date.Before(entries[j].v.Date)
	})

	st := &Statement{Party: party, From: from, To: to}
	openingRow := Row{Type: OpeningRowType}
	if openingValue.Sign() >= 0 {
		openingRow.Debit = openingValue
	} else {
		openingRow.Credit = openingValue.Abs()
	}
	st.Rows = append(st.Rows, openingRow)
	for _, en := range entries {
		st.Rows = append(st.Rows, Row{
			Date:   en.v.Date.Format(models.DateLayout),
			Slip:   en.v.Slip,
			Type:   string(en.v.Type),
			Item:   en.v.Item,
			Qty:    en.v.Qty.String(),
			Rate:   en.v.Rate.String(),
			Debit:  en.debit,
			Credit: en.credit,
		})
	}

	running := decimal.Zero
	for i := range st.Rows {
		running = running.Add(st.Rows[i].Debit).Sub(st.Rows[i].Credit)
		st.Rows[i].Balance = running
		st.TotalDebit = st.TotalDebit.Add(st.Rows[i].Debit)
		st.TotalCredit = st.TotalCredit.Add(st.Rows[i].Credit)
	}
	st.Closing = running
	return st, nil
}
