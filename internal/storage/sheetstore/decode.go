package sheetstore

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/wandersoul78/daybook/internal/models"
)

// Header aliases, most recent name first. Older workbooks used "Party",
// "Type", "Slip No" / "Reference" and "Qty"; rows under those headers must
// decode exactly like current ones.
var (
	dateAliases   = []string{"Date"}
	slipAliases   = []string{"Slip No.", "Slip No", "Reference"}
	typeAliases   = []string{"Voucher Type", "Type"}
	partyAliases  = []string{"Party Name", "Party"}
	itemAliases   = []string{"Item"}
	qtyAliases    = []string{"Quantity", "Qty"}
	rateAliases   = []string{"Rate"}
	amountAliases = []string{"Amount"}
	debitAliases  = []string{"Debit"}
	creditAliases = []string{"Credit"}
)

// resolve returns the index of the first alias present in the header, or -1.
// Header cells are compared after trimming stray whitespace.
func resolve(header []string, aliases []string) int {
	for _, alias := range aliases {
		for i, cell := range header {
			if strings.TrimSpace(cell) == alias {
				return i
			}
		}
	}
	return -1
}

// cell returns the trimmed value at idx, or "" when the column is absent or
// the row is short.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseDecimal reads a numeric cell, treating empty or malformed text as
// zero the way the old dashboard's coercion did.
func parseDecimal(s string) decimal.Decimal {
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(s, ",", ""))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// daybookColumns maps the Daybook's logical fields to column indexes,
// resolved once per read from the header row.
type daybookColumns struct {
	date, slip, vtype, party, item, qty, rate, amount int
}

func resolveDaybook(header []string) daybookColumns {
	return daybookColumns{
		date:   resolve(header, dateAliases),
		slip:   resolve(header, slipAliases),
		vtype:  resolve(header, typeAliases),
		party:  resolve(header, partyAliases),
		item:   resolve(header, itemAliases),
		qty:    resolve(header, qtyAliases),
		rate:   resolve(header, rateAliases),
		amount: resolve(header, amountAliases),
	}
}

// decode turns a raw row into a Voucher. ok is false when the date cell
// does not parse; such rows are unusable for balance purposes.
func (c daybookColumns) decode(row []string) (models.Voucher, bool) {
	date, err := models.ParseDate(cell(row, c.date))
	if err != nil {
		return models.Voucher{}, false
	}
	return models.Voucher{
		Date:   date,
		Slip:   cell(row, c.slip),
		Type:   models.VoucherType(cell(row, c.vtype)),
		Party:  cell(row, c.party),
		Item:   cell(row, c.item),
		Qty:    parseDecimal(cell(row, c.qty)),
		Rate:   parseDecimal(cell(row, c.rate)),
		Amount: parseDecimal(cell(row, c.amount)),
	}, true
}

type openingColumns struct {
	party, date, debit, credit int
}

func resolveOpening(header []string) openingColumns {
	return openingColumns{
		party:  resolve(header, partyAliases),
		date:   resolve(header, dateAliases),
		debit:  resolve(header, debitAliases),
		credit: resolve(header, creditAliases),
	}
}

// decode turns a raw row into an OpeningBalance. An unparseable date leaves
// AsOf zero: the balance still applies, with no cutover.
func (c openingColumns) decode(row []string) models.OpeningBalance {
	b := models.OpeningBalance{
		Party:  cell(row, c.party),
		Debit:  parseDecimal(cell(row, c.debit)),
		Credit: parseDecimal(cell(row, c.credit)),
	}
	if asOf, err := models.ParseDate(cell(row, c.date)); err == nil {
		b.AsOf = asOf
	}
	return b
}
