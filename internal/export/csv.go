// Package export renders finished statements for printing. It consumes an
// ordered statement and lays it out; no computation happens here.
package export

import (
	"encoding/csv"
	"io"

	"github.com/wandersoul78/daybook/internal/ledger"
)

// statementColumns is the fixed print order.
var statementColumns = []string{"Date", "Slip", "Type", "Item", "Qty", "Rate", "Debit", "Credit", "Balance"}

// WriteCSV writes the statement with its header, one line per row and a
// trailing totals row whose Date cell reads TOTAL.
func WriteCSV(w io.Writer, st *ledger.Statement) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(statementColumns); err != nil {
		return err
	}
	for _, r := range st.Rows {
		record := []string{
			r.Date,
			r.Slip,
			r.Type,
			r.Item,
			r.Qty,
			r.Rate,
			r.Debit.StringFixed(2),
			r.Credit.StringFixed(2),
			r.Balance.StringFixed(2),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	totals := []string{
		"TOTAL", "", "", "", "", "",
		st.TotalDebit.StringFixed(2),
		st.TotalCredit.StringFixed(2),
		st.Closing.StringFixed(2),
	}
	if err := cw.Write(totals); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}
