package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Crew mirrors the crews table.
type Crew struct {
	CrewID             string          `db:"crew_id"`
	Name               string          `db:"name"`
	LeadUserID         string          `db:"lead_user_id"`
	ProfitSharePercent decimal.Decimal `db:"profit_share_percent"`
	IsActive           bool            `db:"is_active"`
	AuditFields
}

// IncassationRequest mirrors the incassation_requests table.
type IncassationRequest struct {
	RequestID    string          `db:"request_id"`
	CrewID       string          `db:"crew_id"`
	Amount       decimal.Decimal `db:"amount"`
	Status       string          `db:"status"`
	DebtSnapshot decimal.Decimal `db:"debt_snapshot"`
	RequestedAt  time.Time       `db:"requested_at"`
	RequestedBy  string          `db:"requested_by"`
	ResolvedAt   *time.Time      `db:"resolved_at"`
	ResolvedBy   *string         `db:"resolved_by"`
}
