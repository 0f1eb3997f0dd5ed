package ledger_test

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/wandersoul78/daybook/internal/ledger"
	"github.com/wandersoul78/daybook/internal/models"
	"github.com/wandersoul78/daybook/internal/sheet"
	"github.com/wandersoul78/daybook/internal/storage/sheetstore"
)

func newFixture(t *testing.T) (*ledger.Engine, *sheetstore.Store) {
	t.Helper()
	grid := sheet.NewMemoryGrid()
	store := sheetstore.NewStore(grid, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, store.Init(context.Background()))
	return ledger.NewEngine(store), store
}

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func voucher(d time.Time, vt models.VoucherType, party, amount string) models.Voucher {
	return models.Voucher{Date: d, Type: vt, Party: party, Amount: dec(amount)}
}

func TestBalanceSignConvention(t *testing.T) {
	ctx := context.Background()
	asOf := day(2024, time.June, 30)

	cases := []struct {
		vt   models.VoucherType
		want string
	}{
		{models.Sale, "100"},
		{models.Payment, "100"},
		{models.Purchase, "-100"},
		{models.Receipt, "-100"},
	}
	for _, tc := range cases {
		t.Run(string(tc.vt), func(t *testing.T) {
			engine, store := newFixture(t)
			require.NoError(t, store.AppendVoucher(ctx,
				voucher(day(2024, time.June, 1), tc.vt, "Radha", "100")))

			balance, err := engine.BalanceAsOf(ctx, "Radha", asOf)
			require.NoError(t, err)
			require.True(t, balance.Equal(dec(tc.want)),
				"got %s want %s", balance, tc.want)
		})
	}
}

func TestBalanceOpeningCutoverExcludesEarlierVouchers(t *testing.T) {
	ctx := context.Background()
	engine, store := newFixture(t)

	require.NoError(t, store.SetOpeningBalance(ctx, models.OpeningBalance{
		Party: "Devansh", AsOf: day(2024, time.April, 1),
		Debit: dec("500"), Credit: decimal.Zero,
	}))
	// Dated before the cutover: already inside the stored 500.
	require.NoError(t, store.AppendVoucher(ctx,
		voucher(day(2024, time.March, 15), models.Purchase, "Devansh", "200")))

	balance, err := engine.BalanceAsOf(ctx, "Devansh", day(2024, time.April, 1))
	require.NoError(t, err)
	require.True(t, balance.Equal(dec("500")), "got %s", balance)
}

func TestBalanceFutureOpeningBalanceIsInert(t *testing.T) {
	ctx := context.Background()
	engine, store := newFixture(t)

	require.NoError(t, store.SetOpeningBalance(ctx, models.OpeningBalance{
		Party: "Raj", AsOf: day(2025, time.April, 1), Debit: dec("900"),
	}))
	require.NoError(t, store.AppendVoucher(ctx,
		voucher(day(2024, time.June, 1), models.Sale, "Raj", "100")))

	balance, err := engine.BalanceAsOf(ctx, "Raj", day(2024, time.December, 31))
	require.NoError(t, err)
	require.True(t, balance.Equal(dec("100")), "got %s", balance)
}

func TestBalanceIncludesBoundaryDate(t *testing.T) {
	ctx := context.Background()
	engine, store := newFixture(t)

	require.NoError(t, store.AppendVoucher(ctx,
		voucher(day(2024, time.May, 10), models.Sale, "Mci", "250")))

	balance, err := engine.BalanceAsOf(ctx, "Mci", day(2024, time.May, 10))
	require.NoError(t, err)
	require.True(t, balance.Equal(dec("250")))
}

func TestStatementEndToEnd(t *testing.T) {
	ctx := context.Background()
	engine, store := newFixture(t)

	require.NoError(t, store.SetOpeningBalance(ctx, models.OpeningBalance{
		Party: "Radha", AsOf: day(2024, time.April, 1), Credit: dec("1000"),
	}))
	require.NoError(t, store.AppendVouchers(ctx, []models.Voucher{
		voucher(day(2024, time.April, 10), models.Sale, "Radha", "500"),
		voucher(day(2024, time.May, 1), models.Payment, "Radha", "200"),
	}))

	st, err := engine.Statement(ctx, "Radha", day(2024, time.April, 1), day(2024, time.May, 31))
	require.NoError(t, err)
	require.Len(t, st.Rows, 3)

	opening := st.Rows[0]
	require.Equal(t, ledger.OpeningRowType, opening.Type)
	require.True(t, opening.Credit.Equal(dec("1000")))
	require.True(t, opening.Balance.Equal(dec("-1000")))

	require.Equal(t, string(models.Sale), st.Rows[1].Type)
	require.True(t, st.Rows[1].Debit.Equal(dec("500")))
	require.True(t, st.Rows[1].Balance.Equal(dec("-500")))

	require.Equal(t, string(models.Payment), st.Rows[2].Type)
	require.True(t, st.Rows[2].Debit.Equal(dec("200")))
	require.True(t, st.Rows[2].Balance.Equal(dec("-300")))

	require.True(t, st.TotalDebit.Equal(dec("700")))
	require.True(t, st.TotalCredit.Equal(dec("1000")))
	require.True(t, st.Closing.Equal(dec("-300")))
}

func TestStatementRunningBalanceIdentity(t *testing.T) {
	ctx := context.Background()
	engine, store := newFixture(t)

	require.NoError(t, store.SetOpeningBalance(ctx, models.OpeningBalance{
		Party: "Sanjay", AsOf: day(2024, time.April, 1), Debit: dec("120.50"),
	}))
	require.NoError(t, store.AppendVouchers(ctx, []models.Voucher{
		voucher(day(2024, time.April, 2), models.Sale, "Sanjay", "99.99"),
		voucher(day(2024, time.April, 3), models.Receipt, "Sanjay", "50"),
		voucher(day(2024, time.April, 3), models.Purchase, "Sanjay", "10.01"),
		voucher(day(2024, time.April, 9), models.Payment, "Sanjay", "7"),
	}))

	st, err := engine.Statement(ctx, "Sanjay", day(2024, time.April, 1), day(2024, time.April, 30))
	require.NoError(t, err)

	prev := decimal.Zero
	for i, row := range st.Rows {
		want := prev.Add(row.Debit).Sub(row.Credit)
		require.True(t, row.Balance.Equal(want), "row %d: got %s want %s", i, row.Balance, want)
		prev = row.Balance
	}
	require.True(t, st.Closing.Equal(prev))
	require.True(t, st.Closing.Equal(st.TotalDebit.Sub(st.TotalCredit)))
}

func TestStatementTiesKeepAppendOrder(t *testing.T) {
	ctx := context.Background()
	engine, store := newFixture(t)

	d := day(2024, time.April, 5)
	first := models.Voucher{Date: d, Slip: "A-1", Type: models.Sale, Party: "Rc", Amount: dec("10")}
	second := models.Voucher{Date: d, Slip: "A-2", Type: models.Sale, Party: "Rc", Amount: dec("20")}
	earlier := models.Voucher{Date: day(2024, time.April, 2), Slip: "A-3", Type: models.Sale, Party: "Rc", Amount: dec("5")}
	// Append the later-dated rows first so the sort has work to do.
	require.NoError(t, store.AppendVouchers(ctx, []models.Voucher{first, second, earlier}))

	st, err := engine.Statement(ctx, "Rc", day(2024, time.April, 1), day(2024, time.April, 30))
	require.NoError(t, err)
	require.Len(t, st.Rows, 4)
	require.Equal(t, "A-3", st.Rows[1].Slip)
	require.Equal(t, "A-1", st.Rows[2].Slip)
	require.Equal(t, "A-2", st.Rows[3].Slip)
}

func TestStatementCarryForwardFoldsIntoOpening(t *testing.T) {
	ctx := context.Background()
	engine, store := newFixture(t)

	require.NoError(t, store.SetOpeningBalance(ctx, models.OpeningBalance{
		Party: "Pravesh", AsOf: day(2024, time.April, 1), Debit: dec("100"),
	}))
	require.NoError(t, store.AppendVouchers(ctx, []models.Voucher{
		// Before the cutover: already in the stored 100, must not double count.
		voucher(day(2024, time.March, 20), models.Sale, "Pravesh", "999"),
		// Between cutover and the statement start: folds into the opening row.
		voucher(day(2024, time.April, 15), models.Sale, "Pravesh", "40"),
		voucher(day(2024, time.April, 20), models.Receipt, "Pravesh", "15"),
		// In range: gets its own row.
		voucher(day(2024, time.May, 2), models.Sale, "Pravesh", "60"),
	}))

	st, err := engine.Statement(ctx, "Pravesh", day(2024, time.May, 1), day(2024, time.May, 31))
	require.NoError(t, err)
	require.Len(t, st.Rows, 2)
	require.True(t, st.Rows[0].Debit.Equal(dec("125")), "opening got %s", st.Rows[0].Debit)
	require.True(t, st.Closing.Equal(dec("185")))
}

func TestStatementNoEntries(t *testing.T) {
	ctx := context.Background()
	engine, store := newFixture(t)

	// A party with activity only outside the range still signals no data.
	require.NoError(t, store.AppendVoucher(ctx,
		voucher(day(2023, time.June, 1), models.Sale, "Narayan", "10")))

	_, err := engine.Statement(ctx, "Ghost", day(2024, time.April, 1), day(2024, time.April, 30))
	require.ErrorIs(t, err, ledger.ErrNoEntries)
}

func TestStatementNegativeCarryOnlyStillShows(t *testing.T) {
	ctx := context.Background()
	engine, store := newFixture(t)

	require.NoError(t, store.AppendVoucher(ctx,
		voucher(day(2024, time.March, 10), models.Receipt, "Bhure", "75")))

	// No opening row, no in-range vouchers, but a non-zero carry forward.
	st, err := engine.Statement(ctx, "Bhure", day(2024, time.April, 1), day(2024, time.April, 30))
	require.NoError(t, err)
	require.Len(t, st.Rows, 1)
	require.True(t, st.Rows[0].Credit.Equal(dec("75")))
	require.True(t, st.Closing.Equal(dec("-75")))
}

func TestOpeningBalanceLookup(t *testing.T) {
	ctx := context.Background()
	engine, store := newFixture(t)

	require.NoError(t, store.SetOpeningBalance(ctx, models.OpeningBalance{
		Party: "Papa", AsOf: day(2024, time.April, 1), Debit: dec("10"), Credit: dec("4"),
	}))

	b, ok, err := engine.OpeningBalance(ctx, "Papa", day(2024, time.April, 1))
	require.NoError(t, err)
	require.True(t, ok)
	require.True(t, b.Net().Equal(dec("6")))

	_, ok, err = engine.OpeningBalance(ctx, "Papa", day(2024, time.March, 31))
	require.NoError(t, err)
	require.False(t, ok, "balance dated after the query must not apply")

	_, ok, err = engine.OpeningBalance(ctx, "Nobody", day(2024, time.April, 1))
	require.NoError(t, err)
	require.False(t, ok)
}

func TestOutstandingFiltersAndSorts(t *testing.T) {
	ctx := context.Background()
	engine, store := newFixture(t)

	require.NoError(t, store.AppendVouchers(ctx, []models.Voucher{
		voucher(day(2024, time.April, 1), models.Sale, "Radha", "300"),
		voucher(day(2024, time.April, 1), models.Purchase, "Devansh", "120"),
		// Nets out to 0.01, inside the display floor.
		voucher(day(2024, time.April, 2), models.Sale, "Rc", "10.01"),
		voucher(day(2024, time.April, 3), models.Receipt, "Rc", "10"),
	}))

	balances, err := engine.Outstanding(ctx, day(2024, time.December, 31))
	require.NoError(t, err)
	require.Len(t, balances, 2)
	require.Equal(t, "Radha", balances[0].Party)
	require.True(t, balances[0].Balance.Equal(dec("300")))
	require.Equal(t, "Devansh", balances[1].Party)
	require.True(t, balances[1].Balance.Equal(dec("-120")))
}
