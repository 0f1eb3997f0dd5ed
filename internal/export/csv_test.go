package export

import (
	"bytes"
	"encoding/csv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/wandersoul78/daybook/internal/ledger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestWriteCSV(t *testing.T) {
	st := &ledger.Statement{
		Party: "Radha",
		Rows: []ledger.Row{
			{Type: ledger.OpeningRowType, Debit: dec("1000"), Balance: dec("1000")},
			{
				Date: "05-06-2024", Slip: "S-42", Type: "Sale", Item: "Ap25",
				Qty: "10", Rate: "45.5",
				Debit: dec("455"), Balance: dec("1455"),
			},
			{
				Date: "05-10-2024", Slip: "R-7", Type: "Receipt", Item: "Cash",
				Credit: dec("500"), Balance: dec("955"),
			},
		},
		TotalDebit:  dec("1455"),
		TotalCredit: dec("500"),
		Closing:     dec("955"),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, st))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 5)

	require.Equal(t, []string{"Date", "Slip", "Type", "Item", "Qty", "Rate", "Debit", "Credit", "Balance"}, records[0])
	require.Equal(t, []string{"", "", "Opening Balance", "", "", "", "1000.00", "0.00", "1000.00"}, records[1])
	require.Equal(t, []string{"05-06-2024", "S-42", "Sale", "Ap25", "10", "45.5", "455.00", "0.00", "1455.00"}, records[2])
	require.Equal(t, []string{"05-10-2024", "R-7", "Receipt", "Cash", "", "", "0.00", "500.00", "955.00"}, records[3])
	require.Equal(t, []string{"TOTAL", "", "", "", "", "", "1455.00", "500.00", "955.00"}, records[4])
}
