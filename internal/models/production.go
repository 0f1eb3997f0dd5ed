package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductionRecord is one row of the factory production log. All material
// quantities are totals in kilograms across every lot of the run.
type ProductionRecord struct {
	Date      time.Time
	Grade     string
	Lots      int64
	Resin     decimal.Decimal
	Mitti     decimal.Decimal
	CPW       decimal.Decimal
	Dop       decimal.Decimal
	Chemical  decimal.Decimal
	Other     decimal.Decimal
	LotWeight decimal.Decimal
	Output    decimal.Decimal
}

// Row encodes the record as its 11-cell wire row.
func (r ProductionRecord) Row() []string {
	return []string{
		r.Date.Format(DateLayout),
		r.Grade,
		decimal.NewFromInt(r.Lots).String(),
		r.Resin.String(),
		r.Mitti.String(),
		r.CPW.String(),
		r.Dop.String(),
		r.Chemical.String(),
		r.Other.String(),
		r.LotWeight.String(),
		r.Output.String(),
	}
}
