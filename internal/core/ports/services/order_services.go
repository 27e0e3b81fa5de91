package services

import (
	"context"

	"github.com/fieldworks/crew_settlement_app/internal/core/domain"
	"github.com/fieldworks/crew_settlement_app/internal/dto"
)

// OrderReaderSvc defines read operations for orders.
type OrderReaderSvc interface {
	// GetOrder retrieves an order including its expense lines.
	GetOrder(ctx context.Context, orderID string) (*domain.Order, error)

	// ListPool retrieves unclaimed NEW orders.
	ListPool(ctx context.Context, params dto.ListOrdersParams) ([]domain.Order, error)

	// ListCrewOrders retrieves a crew's in-progress orders.
	ListCrewOrders(ctx context.Context, crewID string, params dto.ListOrdersParams) ([]domain.Order, error)
}

// OrderLifecycleSvc defines the order state machine operations.
type OrderLifecycleSvc interface {
	// CreateOrder inserts a NEW order with a complete financial record.
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest, actorID string) (*domain.Order, error)

	// Claim atomically assigns a NEW order to a crew; losers of the race get
	// apperrors.ErrConflict.
	Claim(ctx context.Context, orderID, crewID, actorID string) (*domain.Order, error)

	// Transition moves an order along an edge permitted for the caller's role.
	Transition(ctx context.Context, orderID string, to domain.OrderStatus, role domain.Role, actorID string) error

	// Refuse returns an in-progress order held by crewID to the NEW pool.
	Refuse(ctx context.Context, orderID, crewID, actorID string) error

	// Transfer reassigns an in-progress order between crews.
	Transfer(ctx context.Context, orderID, fromCrew, toCrew, actorID string) error
}

// ExpenseLedgerSvc defines the per-order financial record operations.
type ExpenseLedgerSvc interface {
	// AddExpense appends an expense line to an unlocked order and returns the
	// recomputed financial record.
	AddExpense(ctx context.Context, orderID string, req dto.AddExpenseRequest, actorID string) (*domain.Financials, error)

	// SetFinalPrice overwrites an unlocked order's final price and returns
	// the recomputed financial record.
	SetFinalPrice(ctx context.Context, orderID string, req dto.SetFinalPriceRequest, actorID string) (*domain.Financials, error)
}

// OrderSvcFacade combines all order-related service interfaces.
type OrderSvcFacade interface {
	OrderReaderSvc
	OrderLifecycleSvc
	ExpenseLedgerSvc
}

// SettlementSvcFacade closes completed orders.
type SettlementSvcFacade interface {
	// FinalizeOrder performs the one-shot settlement of a WORK order: splits
	// net profit, posts the Earnings/Withheld pair on the crew's virtual
	// account and locks the order as DONE.
	FinalizeOrder(ctx context.Context, orderID, actorID string) (*dto.SettlementResult, error)
}
