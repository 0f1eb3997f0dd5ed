// Package ledger computes party balances and running-balance statements
// from the Daybook and the opening-balance table. The engine holds no state
// of its own: every call recomputes from the store, which keeps it correct
// under concurrent appends at the cost of a full scan.
package ledger

import (
	"context"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/wandersoul78/daybook/internal/interfaces"
	"github.com/wandersoul78/daybook/internal/models"
)

// outstandingFloor hides balances that only differ from zero by rounding
// noise on the dashboard.
var outstandingFloor = decimal.RequireFromString("0.01")

// Engine answers balance and statement queries. It only ever reads from the
// store.
type Engine struct {
	store interfaces.DaybookStore
}

// NewEngine creates an engine over any DaybookStore implementation.
func NewEngine(store interfaces.DaybookStore) *Engine {
	return &Engine{store: store}
}

// OpeningBalance looks up the party's stored opening balance. ok is false
// when the party has none, or when the stored balance is dated strictly
// after asOf and therefore not yet effective — the caller then computes
// purely from vouchers. A stored row with an unknown as-of date is always
// effective and imposes no cutover.
func (e *Engine) OpeningBalance(ctx context.Context, party string, asOf time.Time) (models.OpeningBalance, bool, error) {
	balances, err := e.store.ListOpeningBalances(ctx)
	if err != nil {
		return models.OpeningBalance{}, false, err
	}
	for _, b := range balances {
		if b.Party != party {
			continue
		}
		if !b.AsOf.IsZero() && b.AsOf.After(asOf) {
			return models.OpeningBalance{}, false, nil
		}
		return b, true, nil
	}
	return models.OpeningBalance{}, false, nil
}

// BalanceAsOf is the party's net balance on date, inclusive: the effective
// opening value plus every signed voucher amount dated between the opening
// cutover and date. Vouchers before the cutover are already embedded in the
// stored opening value and must not be counted again.
func (e *Engine) BalanceAsOf(ctx context.Context, party string, date time.Time) (decimal.Decimal, error) {
	opening, ok, err := e.OpeningBalance(ctx, party, date)
	if err != nil {
		return decimal.Zero, err
	}
	balance := decimal.Zero
	var cutover time.Time
	if ok {
		balance = opening.Net()
		cutover = opening.AsOf
	}

	vouchers, err := e.store.ListVouchers(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	for _, v := range vouchers {
		if v.Party != party {
			continue
		}
		if !cutover.IsZero() && v.Date.Before(cutover) {
			continue
		}
		if v.Date.After(date) {
			continue
		}
		dr, cr := v.DebitCredit()
		balance = balance.Add(dr).Sub(cr)
	}
	return balance, nil
}

// PartyBalance is one line of the outstanding-balances dashboard.
type PartyBalance struct {
	Party   string          `json:"party"`
	Balance decimal.Decimal `json:"balance"`
}

// Outstanding computes the balance as of the given date for every party the
// Daybook mentions, dropping those within rounding noise of zero. Results
// are sorted by balance, largest first.
func (e *Engine) Outstanding(ctx context.Context, asOf time.Time) ([]PartyBalance, error) {
	vouchers, err := e.store.ListVouchers(ctx)
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool)
	var parties []string
	for _, v := range vouchers {
		if v.Party != "" && !seen[v.Party] {
			seen[v.Party] = true
			parties = append(parties, v.Party)
		}
	}
	sort.Strings(parties)

	var out []PartyBalance
	for _, party := range parties {
		balance, err := e.BalanceAsOf(ctx, party, asOf)
		if err != nil {
			return nil, err
		}
		if balance.Abs().LessThanOrEqual(outstandingFloor) {
			continue
		}
		out = append(out, PartyBalance{Party: party, Balance: balance})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Balance.GreaterThan(out[j].Balance)
	})
	return out, nil
}
