// Package daybook is the write path: it turns form-level entries into
// Daybook voucher rows, appends them as one batch and announces them on the
// event feed. The ledger engine never writes; everything append-shaped goes
// through here.
package daybook

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/wandersoul78/daybook/internal/interfaces"
	"github.com/wandersoul78/daybook/internal/models"
	"github.com/wandersoul78/daybook/internal/models/events"
)

// Payment modes for payment/receipt vouchers. The mode is recorded in the
// voucher's item column, as the old entry form did.
const (
	ModeCash = "Cash"
	ModeBank = "Bank"
)

var hundred = decimal.NewFromInt(100)

// Service validates and persists entries.
type Service struct {
	store  interfaces.DaybookStore
	events interfaces.EventPublisher
	topic  string
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates the entry service. events may be nil when no feed is
// configured.
func NewService(store interfaces.DaybookStore, events interfaces.EventPublisher, topic string, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{store: store, events: events, topic: topic, logger: logger, now: time.Now}
}

// EntryLine is one item line of a purchase or sale entry. When GSTPercent
// is non-zero the tax is folded into the rate before the amount is computed.
type EntryLine struct {
	Item       string
	Qty        decimal.Decimal
	Rate       decimal.Decimal
	GSTPercent decimal.Decimal
}

// AddEntry appends a purchase or sale entry: one voucher per line, all
// sharing the date, slip and party, written in a single batch. The party
// must exist in master data under the entry's category.
func (s *Service) AddEntry(ctx context.Context, date time.Time, slip string, entryType models.VoucherType, party string, lines []EntryLine) ([]models.Voucher, error) {
	if entryType != models.Purchase && entryType != models.Sale {
		return nil, fmt.Errorf("entry type must be Purchase or Sale, got %q", entryType)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("entry needs at least one item line")
	}
	if err := s.requireParty(ctx, party, models.Category(entryType)); err != nil {
		return nil, err
	}

	vouchers := make([]models.Voucher, len(lines))
	for i, line := range lines {
		rate := line.Rate
		if line.GSTPercent.Sign() > 0 {
			rate = rate.Add(rate.Mul(line.GSTPercent).Div(hundred).Round(2))
		}
		vouchers[i] = models.Voucher{
			Date:   date,
			Slip:   slip,
			Type:   entryType,
			Party:  party,
			Item:   line.Item,
			Qty:    line.Qty,
			Rate:   rate,
			Amount: line.Qty.Mul(rate),
		}
	}
	if err := s.store.AppendVouchers(ctx, vouchers); err != nil {
		return nil, err
	}
	s.publish(vouchers)
	return vouchers, nil
}

// PaymentInput describes a payment or receipt voucher.
type PaymentInput struct {
	Date      time.Time
	Reference string
	Type      models.VoucherType // Payment or Receipt
	Party     string
	Mode      string // ModeCash or ModeBank
	Bank      string // bank party, required in bank mode
	Amount    decimal.Decimal
}

// AddPaymentReceipt appends a payment or receipt voucher. In bank mode a
// paired reverse voucher against the bank party goes into the same batch,
// so the bank's ledger moves opposite to the party's.
func (s *Service) AddPaymentReceipt(ctx context.Context, in PaymentInput) ([]models.Voucher, error) {
	if in.Type != models.Payment && in.Type != models.Receipt {
		return nil, fmt.Errorf("voucher type must be Payment or Receipt, got %q", in.Type)
	}
	if in.Mode != ModeCash && in.Mode != ModeBank {
		return nil, fmt.Errorf("mode must be %s or %s, got %q", ModeCash, ModeBank, in.Mode)
	}
	if in.Amount.Sign() <= 0 {
		return nil, fmt.Errorf("amount must be positive")
	}
	if err := s.requireParty(ctx, in.Party, ""); err != nil {
		return nil, err
	}

	vouchers := []models.Voucher{{
		Date:   in.Date,
		Slip:   in.Reference,
		Type:   in.Type,
		Party:  in.Party,
		Item:   in.Mode,
		Amount: in.Amount,
	}}
	if in.Mode == ModeBank {
		if err := s.requireParty(ctx, in.Bank, models.CategoryBank); err != nil {
			return nil, err
		}
		vouchers = append(vouchers, models.Voucher{
			Date:   in.Date,
			Slip:   in.Reference,
			Type:   in.Type.Reverse(),
			Party:  in.Bank,
			Item:   ModeBank,
			Amount: in.Amount,
		})
	}
	if err := s.store.AppendVouchers(ctx, vouchers); err != nil {
		return nil, err
	}
	s.publish(vouchers)
	return vouchers, nil
}

// ProductionInput describes one production run. Material quantities are per
// lot; Other is a one-off total for the run.
type ProductionInput struct {
	Date     time.Time
	Grade    string
	Lots     int64
	Resin    decimal.Decimal
	Mitti    decimal.Decimal
	CPW      decimal.Decimal
	Dop      decimal.Decimal
	Chemical decimal.Decimal
	Other    decimal.Decimal
	Output   decimal.Decimal
}

// LogProduction scales per-lot quantities to run totals, computes the lot
// weight and appends the record to the production log.
func (s *Service) LogProduction(ctx context.Context, in ProductionInput) (models.ProductionRecord, error) {
	if in.Lots < 1 {
		return models.ProductionRecord{}, fmt.Errorf("lots must be at least 1")
	}
	lots := decimal.NewFromInt(in.Lots)
	perLot := in.Resin.Add(in.Mitti).Add(in.CPW).Add(in.Chemical).Add(in.Dop)
	record := models.ProductionRecord{
		Date:      in.Date,
		Grade:     in.Grade,
		Lots:      in.Lots,
		Resin:     in.Resin.Mul(lots),
		Mitti:     in.Mitti.Mul(lots),
		CPW:       in.CPW.Mul(lots),
		Dop:       in.Dop.Mul(lots),
		Chemical:  in.Chemical.Mul(lots),
		Other:     in.Other,
		LotWeight: perLot.Mul(lots).Add(in.Other),
		Output:    in.Output,
	}
	if err := s.store.AppendProduction(ctx, record); err != nil {
		return models.ProductionRecord{}, err
	}
	return record, nil
}

// requireParty refuses entries referencing a party master data does not
// know. With an empty category any party qualifies.
func (s *Service) requireParty(ctx context.Context, name string, category models.Category) error {
	if name == "" {
		return fmt.Errorf("party name is required")
	}
	parties, err := s.store.ListParties(ctx)
	if err != nil {
		return err
	}
	for _, p := range parties {
		if p.Name != name {
			continue
		}
		if category == "" || p.Category == category {
			return nil
		}
	}
	if category != "" {
		return fmt.Errorf("no party %q in category %s; add it under Master Data", name, category)
	}
	return fmt.Errorf("no party %q; add it under Master Data", name)
}

// publish pushes one event per appended voucher. Publish failures are
// logged, never propagated: the rows are already durable.
func (s *Service) publish(vouchers []models.Voucher) {
	if s.events == nil {
		return
	}
	for _, v := range vouchers {
		event := events.VoucherAppended{
			EventID:     uuid.New().String(),
			Date:        v.Date.Format(models.DateLayout),
			Slip:        v.Slip,
			VoucherType: string(v.Type),
			Party:       v.Party,
			Item:        v.Item,
			Amount:      v.Amount,
			OccurredAt:  s.now(),
		}
		if err := s.events.Publish(s.topic, event); err != nil {
			s.logger.Warn("publish voucher event failed",
				slog.String("party", v.Party), slog.Any("error", err))
		}
	}
}
