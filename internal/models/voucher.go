package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the one date format used on every sheet: month-day-year
// with dash separators. Anything else is rejected by ParseDate.
const DateLayout = "01-02-2006"

// ParseDate parses a sheet cell into a calendar date (no time component).
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// VoucherType enumerates the four kinds of Daybook entries.
type VoucherType string

const (
	Purchase VoucherType = "Purchase"
	Sale     VoucherType = "Sale"
	Payment  VoucherType = "Payment"
	Receipt  VoucherType = "Receipt"
)

// Valid reports whether t is one of the four known voucher types.
func (t VoucherType) Valid() bool {
	switch t {
	case Purchase, Sale, Payment, Receipt:
		return true
	}
	return false
}

// IsDebit reports whether this voucher type increases the party's balance.
// Sale and Payment debit the party; Purchase and Receipt credit it.
func (t VoucherType) IsDebit() bool {
	return t == Sale || t == Payment
}

// Reverse returns the opposite money-movement type. Used for the paired
// bank entry of a bank-mode payment or receipt.
func (t VoucherType) Reverse() VoucherType {
	if t == Payment {
		return Receipt
	}
	return Payment
}

// Voucher is a single Daybook row. Rows are append-only: once written they
// are never edited or deleted. Amount is stored non-negative; its direction
// comes from Type.
type Voucher struct {
	Date   time.Time
	Slip   string
	Type   VoucherType
	Party  string
	Item   string
	Qty    decimal.Decimal
	Rate   decimal.Decimal
	Amount decimal.Decimal
}

// DebitCredit splits the amount into ledger columns under the sign
// convention. A row with an unrecognised type lands in neither column.
func (v Voucher) DebitCredit() (debit, credit decimal.Decimal) {
	switch {
	case v.Type.IsDebit():
		return v.Amount, decimal.Zero
	case v.Type.Valid():
		return decimal.Zero, v.Amount
	default:
		return decimal.Zero, decimal.Zero
	}
}

// Row encodes the voucher as the fixed 8-cell wire row:
// date, slip, type, party, item, quantity, rate, amount.
func (v Voucher) Row() []string {
	return []string{
		v.Date.Format(DateLayout),
		v.Slip,
		string(v.Type),
		v.Party,
		v.Item,
		v.Qty.String(),
		v.Rate.String(),
		v.Amount.String(),
	}
}
