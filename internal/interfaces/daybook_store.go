package interfaces

import (
	"context"

	"github.com/wandersoul78/daybook/internal/models"
)

// DaybookStore is the storage contract the rest of the application consumes.
// Implementations own the Daybook, the opening-balance table and the master
// data, and return rows in append order. Vouchers are append-only; edit and
// delete exist only for master data and opening balances.
type DaybookStore interface {
	ListVouchers(ctx context.Context) ([]models.Voucher, error)
	AppendVoucher(ctx context.Context, v models.Voucher) error
	// AppendVouchers writes all rows in a single call: after it returns
	// successfully every row is visible, and a multi-row entry is never
	// half-applied by a competing reader.
	AppendVouchers(ctx context.Context, vs []models.Voucher) error

	ListOpeningBalances(ctx context.Context) ([]models.OpeningBalance, error)
	SetOpeningBalance(ctx context.Context, b models.OpeningBalance) error
	DeleteOpeningBalance(ctx context.Context, party string) error

	ListParties(ctx context.Context) ([]models.Party, error)
	AddParty(ctx context.Context, p models.Party) error
	UpdateParty(ctx context.Context, name string, p models.Party) error
	DeleteParty(ctx context.Context, name string) error

	ListItems(ctx context.Context) ([]models.Item, error)
	AddItem(ctx context.Context, i models.Item) error
	UpdateItem(ctx context.Context, name string, i models.Item) error
	DeleteItem(ctx context.Context, name string) error

	AppendProduction(ctx context.Context, r models.ProductionRecord) error
}
