package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fieldworks/crew_settlement_app/internal/core/domain"
)

// CreateIncassationRequest records a crew's intent to hand over cash.
type CreateIncassationRequest struct {
	CrewID string          `json:"crewID" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"dpositive"`
}

// ListIncassationParams defines query parameters for request listings.
type ListIncassationParams struct {
	Status *domain.IncassationStatus `form:"status" binding:"omitempty,oneof=PENDING CONFIRMED REJECTED"`
	Limit  int                       `form:"limit,default=20"`
	Offset int                       `form:"offset,default=0"`
}

// IncassationResponse defines the data returned for a request.
type IncassationResponse struct {
	RequestID    string                   `json:"requestID"`
	CrewID       string                   `json:"crewID"`
	Amount       decimal.Decimal          `json:"amount"`
	Status       domain.IncassationStatus `json:"status"`
	DebtSnapshot decimal.Decimal          `json:"debtSnapshot"`
	RequestedAt  time.Time                `json:"requestedAt"`
	RequestedBy  string                   `json:"requestedBy"`
	ResolvedAt   *time.Time               `json:"resolvedAt,omitempty"`
	ResolvedBy   *string                  `json:"resolvedBy,omitempty"`
}

// ConfirmIncassationResponse reports the crew's debt after the reduction.
type ConfirmIncassationResponse struct {
	RequestID string          `json:"requestID"`
	NewDebt   decimal.Decimal `json:"newDebt"`
}

// ToIncassationResponse converts a domain request to its response DTO.
func ToIncassationResponse(r *domain.IncassationRequest) IncassationResponse {
	return IncassationResponse{
		RequestID:    r.RequestID,
		CrewID:       r.CrewID,
		Amount:       r.Amount,
		Status:       r.Status,
		DebtSnapshot: r.DebtSnapshot,
		RequestedAt:  r.RequestedAt,
		RequestedBy:  r.RequestedBy,
		ResolvedAt:   r.ResolvedAt,
		ResolvedBy:   r.ResolvedBy,
	}
}

// ToIncassationResponses converts a slice of domain requests.
func ToIncassationResponses(reqs []domain.IncassationRequest) []IncassationResponse {
	res := make([]IncassationResponse, len(reqs))
	for i := range reqs {
		res[i] = ToIncassationResponse(&reqs[i])
	}
	return res
}
