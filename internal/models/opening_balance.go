package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// FiscalYearStart returns April 1 of the year containing today. It is the
// default as-of date for opening balances migrated from the legacy
// three-column sheet.
func FiscalYearStart(today time.Time) time.Time {
	return time.Date(today.Year(), time.April, 1, 0, 0, 0, 0, time.UTC)
}

// OpeningBalance carries a party's balance as of a date: every transaction
// dated strictly before AsOf is assumed already folded into Debit/Credit.
// A zero AsOf means the date is unknown (legacy row with an unparseable
// cell); the balance still applies but there is no cutover.
type OpeningBalance struct {
	Party  string
	AsOf   time.Time
	Debit  decimal.Decimal
	Credit decimal.Decimal
}

// Net is the opening value: debit minus credit.
func (b OpeningBalance) Net() decimal.Decimal {
	return b.Debit.Sub(b.Credit)
}

// Row encodes the balance as its 4-cell wire row.
func (b OpeningBalance) Row() []string {
	asOf := ""
	if !b.AsOf.IsZero() {
		asOf = b.AsOf.Format(DateLayout)
	}
	return []string{b.Party, asOf, b.Debit.String(), b.Credit.String()}
}
