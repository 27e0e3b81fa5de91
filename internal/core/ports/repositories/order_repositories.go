package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fieldworks/crew_settlement_app/internal/core/domain"
)

// OrderReaderRepository defines read operations for orders.
type OrderReaderRepository interface {
	// FindOrderByID retrieves an order without its expense lines.
	FindOrderByID(ctx context.Context, orderID string) (*domain.Order, error)

	// FindExpensesByOrderID retrieves all expense lines of an order, oldest first.
	FindExpensesByOrderID(ctx context.Context, orderID string) ([]domain.Expense, error)

	// ListOrdersByStatus retrieves orders in the given status, newest first.
	ListOrdersByStatus(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]domain.Order, error)

	// ListOrdersByCrew retrieves a crew's non-terminal orders, newest first.
	ListOrdersByCrew(ctx context.Context, crewID string, limit, offset int) ([]domain.Order, error)
}

// OrderWriterRepository defines write operations for orders. Status moves are
// conditional updates guarded by the expected prior status; a guard that
// matches zero rows surfaces as apperrors.ErrConflict, apperrors.ErrOrderLocked
// or apperrors.ErrNotFound depending on the order's actual state.
type OrderWriterRepository interface {
	// SaveOrder inserts a new order.
	SaveOrder(ctx context.Context, order domain.Order) error

	// ClaimOrder moves a NEW order to PROCESSING and assigns the crew.
	ClaimOrder(ctx context.Context, orderID, crewID, actorID string, now time.Time) error

	// UpdateOrderStatus moves an order from one status to another.
	UpdateOrderStatus(ctx context.Context, orderID string, from, to domain.OrderStatus, actorID string, now time.Time) error

	// ReleaseOrder returns an unlocked order held by crewID to the NEW pool,
	// clearing the crew assignment.
	ReleaseOrder(ctx context.Context, orderID, crewID, actorID string, now time.Time) error

	// ReassignOrder moves an unlocked order held by fromCrew to toCrew.
	ReassignOrder(ctx context.Context, orderID, fromCrew, toCrew, actorID string, now time.Time) error

	// AppendExpense inserts an expense line and folds its amount into the
	// order's financial record in one database transaction, guarded against
	// locked orders. Returns the updated financial record.
	AppendExpense(ctx context.Context, expense domain.Expense) (*domain.Financials, error)

	// UpdateFinalPrice overwrites the final price and recomputes net profit,
	// guarded against locked orders. Returns the updated financial record.
	UpdateFinalPrice(ctx context.Context, orderID string, price decimal.Decimal, actorID string, now time.Time) (*domain.Financials, error)
}

// OrderSettlementRepository finalizes an order and posts its settlement
// ledger entries in a single database transaction.
type OrderSettlementRepository interface {
	// FinalizeOrder conditionally moves the order from expected status to DONE
	// (requiring it not to be settled yet), records the computed shares, then
	// inserts the settlement ledger entries and applies the balance changes.
	// Exactly one of several concurrent calls succeeds; losers get ErrConflict.
	FinalizeOrder(ctx context.Context, orderID string, expected domain.OrderStatus, crewShare, ownerShare decimal.Decimal, entries []domain.Transaction, balanceChanges map[string]decimal.Decimal, actorID string, now time.Time) error
}

// OrderRepositoryFacade combines all order repository interfaces.
type OrderRepositoryFacade interface {
	OrderReaderRepository
	OrderWriterRepository
	OrderSettlementRepository
}
