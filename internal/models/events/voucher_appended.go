package events

import (
	"time"

	"github.com/shopspring/decimal"
)

// VoucherAppended is published after a voucher row has been durably written
// to the Daybook.
type VoucherAppended struct {
	EventID     string          `json:"event_id"`
	Date        string          `json:"date"`
	Slip        string          `json:"slip"`
	VoucherType string          `json:"voucher_type"`
	Party       string          `json:"party"`
	Item        string          `json:"item"`
	Amount      decimal.Decimal `json:"amount"`
	OccurredAt  time.Time       `json:"occurred_at"`
}
