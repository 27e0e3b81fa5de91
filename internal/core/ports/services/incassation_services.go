package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fieldworks/crew_settlement_app/internal/core/domain"
	"github.com/fieldworks/crew_settlement_app/internal/dto"
)

// IncassationSvcFacade drives the two-phase cash-handover workflow.
type IncassationSvcFacade interface {
	// Request records a crew's intent to hand over cash and notifies the
	// owner. Posts no ledger entry.
	Request(ctx context.Context, req dto.CreateIncassationRequest, actorID string) (*domain.IncassationRequest, error)

	// Confirm resolves a pending request, posts the Incassation entry pair
	// and returns the crew's debt after the reduction.
	Confirm(ctx context.Context, requestID, approverID string) (decimal.Decimal, error)

	// Reject resolves a pending request without touching the ledger.
	Reject(ctx context.Context, requestID, approverID string) error

	// ListRequests lists requests, optionally filtered by status.
	ListRequests(ctx context.Context, params dto.ListIncassationParams) ([]domain.IncassationRequest, error)
}
