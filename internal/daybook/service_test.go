package daybook_test

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/wandersoul78/daybook/internal/daybook"
	"github.com/wandersoul78/daybook/internal/models"
	"github.com/wandersoul78/daybook/internal/models/events"
	"github.com/wandersoul78/daybook/internal/sheet"
	"github.com/wandersoul78/daybook/internal/storage/sheetstore"
)

type capturePublisher struct {
	topics []string
	events []any
	err    error
}

func (c *capturePublisher) Publish(topic string, event any) error {
	c.topics = append(c.topics, topic)
	c.events = append(c.events, event)
	return c.err
}

func newService(t *testing.T) (*daybook.Service, *sheetstore.Store, *capturePublisher) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := sheetstore.NewStore(sheet.NewMemoryGrid(), logger)
	// Init seeds the default master data the entry checks run against.
	require.NoError(t, store.Init(context.Background()))
	pub := &capturePublisher{}
	return daybook.NewService(store, pub, "voucher_appended", logger), store, pub
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func entryDate() time.Time {
	return time.Date(2024, time.May, 6, 0, 0, 0, 0, time.UTC)
}

func TestAddEntryBuildsOneVoucherPerLine(t *testing.T) {
	ctx := context.Background()
	service, store, pub := newService(t)

	got, err := service.AddEntry(ctx, entryDate(), "S-42", models.Sale, "Radha", []daybook.EntryLine{
		{Item: "Ap25", Qty: dec("10"), Rate: dec("45.5")},
		{Item: "L20", Qty: dec("2"), Rate: dec("100"), GSTPercent: dec("18")},
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	require.True(t, got[0].Amount.Equal(dec("455")))
	// GST folds into the rate before the amount is computed.
	require.True(t, got[1].Rate.Equal(dec("118")))
	require.True(t, got[1].Amount.Equal(dec("236")))

	stored, err := store.ListVouchers(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	for _, v := range stored {
		require.Equal(t, "S-42", v.Slip)
		require.Equal(t, "Radha", v.Party)
		require.Equal(t, models.Sale, v.Type)
	}

	require.Len(t, pub.events, 2)
	require.Equal(t, []string{"voucher_appended", "voucher_appended"}, pub.topics)
	first, ok := pub.events[0].(events.VoucherAppended)
	require.True(t, ok)
	require.Equal(t, "Radha", first.Party)
	require.Equal(t, "05-06-2024", first.Date)
	require.NotEmpty(t, first.EventID)
}

func TestAddEntryRejectsPartyOutsideCategory(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newService(t)

	// Radha is seeded as a Sale party; a Purchase entry must refuse her.
	_, err := service.AddEntry(ctx, entryDate(), "P-1", models.Purchase, "Radha", []daybook.EntryLine{
		{Item: "Resin", Qty: dec("1"), Rate: dec("80")},
	})
	require.Error(t, err)

	_, err = service.AddEntry(ctx, entryDate(), "P-2", models.Purchase, "Nobody", []daybook.EntryLine{
		{Item: "Resin", Qty: dec("1"), Rate: dec("80")},
	})
	require.Error(t, err)
}

func TestAddEntryRejectsNonEntryTypes(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newService(t)

	_, err := service.AddEntry(ctx, entryDate(), "X", models.Payment, "Radha", []daybook.EntryLine{
		{Item: "Ap25", Qty: dec("1"), Rate: dec("1")},
	})
	require.Error(t, err)

	_, err = service.AddEntry(ctx, entryDate(), "X", models.Sale, "Radha", nil)
	require.Error(t, err)
}

func TestAddPaymentCash(t *testing.T) {
	ctx := context.Background()
	service, store, _ := newService(t)

	got, err := service.AddPaymentReceipt(ctx, daybook.PaymentInput{
		Date: entryDate(), Reference: "R-7", Type: models.Receipt,
		Party: "Radha", Mode: daybook.ModeCash, Amount: dec("500"),
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, daybook.ModeCash, got[0].Item)
	require.True(t, got[0].Qty.IsZero())
	require.True(t, got[0].Rate.IsZero())

	stored, err := store.ListVouchers(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1)
}

func TestAddPaymentBankAppendsReverseVoucher(t *testing.T) {
	ctx := context.Background()
	service, store, pub := newService(t)

	got, err := service.AddPaymentReceipt(ctx, daybook.PaymentInput{
		Date: entryDate(), Reference: "B-3", Type: models.Payment,
		Party: "Papa", Mode: daybook.ModeBank, Bank: "Icici", Amount: dec("1200"),
	})
	require.NoError(t, err)
	require.Len(t, got, 2)

	stored, err := store.ListVouchers(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)

	require.Equal(t, models.Payment, stored[0].Type)
	require.Equal(t, "Papa", stored[0].Party)

	reverse := stored[1]
	require.Equal(t, models.Receipt, reverse.Type)
	require.Equal(t, "Icici", reverse.Party)
	require.Equal(t, daybook.ModeBank, reverse.Item)
	require.Equal(t, "B-3", reverse.Slip)
	require.True(t, reverse.Amount.Equal(dec("1200")))

	require.Len(t, pub.events, 2)
}

func TestAddPaymentValidation(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newService(t)

	base := daybook.PaymentInput{
		Date: entryDate(), Type: models.Payment, Party: "Papa",
		Mode: daybook.ModeCash, Amount: dec("10"),
	}

	in := base
	in.Type = models.Sale
	_, err := service.AddPaymentReceipt(ctx, in)
	require.Error(t, err)

	in = base
	in.Amount = decimal.Zero
	_, err = service.AddPaymentReceipt(ctx, in)
	require.Error(t, err)

	in = base
	in.Mode = "Upi"
	_, err = service.AddPaymentReceipt(ctx, in)
	require.Error(t, err)

	// The bank party must exist under the Bank category.
	in = base
	in.Mode = daybook.ModeBank
	in.Bank = "Radha"
	_, err = service.AddPaymentReceipt(ctx, in)
	require.Error(t, err)
}

func TestPublishFailureDoesNotFailTheEntry(t *testing.T) {
	ctx := context.Background()
	service, store, pub := newService(t)
	pub.err = errors.New("broker down")

	_, err := service.AddPaymentReceipt(ctx, daybook.PaymentInput{
		Date: entryDate(), Reference: "R-9", Type: models.Receipt,
		Party: "Radha", Mode: daybook.ModeCash, Amount: dec("75"),
	})
	require.NoError(t, err)

	stored, err := store.ListVouchers(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 1, "the voucher is durable even when the feed is down")
}

func TestLogProduction(t *testing.T) {
	ctx := context.Background()
	service, _, _ := newService(t)

	record, err := service.LogProduction(ctx, daybook.ProductionInput{
		Date:     entryDate(),
		Grade:    "Ap25",
		Lots:     3,
		Resin:    dec("50"),
		Mitti:    dec("10"),
		CPW:      dec("5"),
		Dop:      dec("2"),
		Chemical: dec("1"),
		Other:    dec("4"),
		Output:   dec("200"),
	})
	require.NoError(t, err)

	// 3 lots of (50+10+5+1+2) plus the one-off 4.
	require.True(t, record.LotWeight.Equal(dec("208")), "got %s", record.LotWeight)
	require.True(t, record.Resin.Equal(dec("150")))
	require.True(t, record.Other.Equal(dec("4")))
	require.EqualValues(t, 3, record.Lots)

	_, err = service.LogProduction(ctx, daybook.ProductionInput{Date: entryDate(), Lots: 0})
	require.Error(t, err)
}
