package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// IncassationStatus is the resolution state of a cash-handover request.
// CONFIRMED and REJECTED are terminal.
type IncassationStatus string

const (
	IncassationPending   IncassationStatus = "PENDING"
	IncassationConfirmed IncassationStatus = "CONFIRMED"
	IncassationRejected  IncassationStatus = "REJECTED"
)

// IncassationRequest records a crew's intent to hand over cash it is holding
// on the company's behalf. The crew's recorded debt changes only when an
// approver confirms; resolving an already-resolved request is a conflict.
type IncassationRequest struct {
	RequestID    string            `json:"requestID"`
	CrewID       string            `json:"crewID"`
	Amount       decimal.Decimal   `json:"amount"`
	Status       IncassationStatus `json:"status"`
	DebtSnapshot decimal.Decimal   `json:"debtSnapshot"` // crew debt at request time, shown to the approver
	RequestedAt  time.Time         `json:"requestedAt"`
	RequestedBy  string            `json:"requestedBy"`
	ResolvedAt   *time.Time        `json:"resolvedAt,omitempty"`
	ResolvedBy   *string           `json:"resolvedBy,omitempty"`
}
