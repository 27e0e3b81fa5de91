package domain

import (
	"github.com/shopspring/decimal"
)

// Crew is a subcontractor team. ProfitSharePercent is the crew's cut of an
// order's net profit at settlement time.
type Crew struct {
	CrewID             string          `json:"crewID"`
	Name               string          `json:"name"`
	LeadUserID         string          `json:"leadUserID"`
	ProfitSharePercent decimal.Decimal `json:"profitSharePercent"` // 0..100
	IsActive           bool            `json:"isActive"`
	AuditFields
}

// SplitProfit divides netProfit between crew and owner. The crew share is
// rounded to whole currency units; the owner share is the remainder, so the
// two always sum to netProfit. Negative profits split the same way and are
// deliberately not clamped.
func (c Crew) SplitProfit(netProfit decimal.Decimal) (crewShare, ownerShare decimal.Decimal) {
	crewShare = netProfit.Mul(c.ProfitSharePercent).Div(decimal.NewFromInt(100)).Round(0)
	ownerShare = netProfit.Sub(crewShare)
	return crewShare, ownerShare
}
