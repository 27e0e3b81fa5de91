package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fieldworks/crew_settlement_app/internal/apperrors"
	"github.com/fieldworks/crew_settlement_app/internal/core/domain"
	portsrepo "github.com/fieldworks/crew_settlement_app/internal/core/ports/repositories"
	portssvc "github.com/fieldworks/crew_settlement_app/internal/core/ports/services"
	"github.com/fieldworks/crew_settlement_app/internal/dto"
	"github.com/fieldworks/crew_settlement_app/internal/middleware"
)

// OrderService implements the order lifecycle and per-order financial record.
type OrderService struct {
	orderRepo portsrepo.OrderRepositoryFacade
	crewRepo  portsrepo.CrewRepositoryFacade
}

var _ portssvc.OrderSvcFacade = (*OrderService)(nil)

func NewOrderService(orderRepo portsrepo.OrderRepositoryFacade, crewRepo portsrepo.CrewRepositoryFacade) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		crewRepo:  crewRepo,
	}
}

func (s *OrderService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest, actorID string) (*domain.Order, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.FinalPrice.IsNegative() {
		return nil, fmt.Errorf("%w: final price must not be negative", apperrors.ErrValidation)
	}

	now := time.Now()
	order := domain.Order{
		OrderID:     uuid.NewString(),
		Status:      domain.OrderNew,
		Description: req.Description,
		Financials:  domain.NewFinancials(req.FinalPrice),
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.orderRepo.SaveOrder(ctx, order); err != nil {
		logger.Error("Failed to save order", slog.String("error", err.Error()), slog.String("order_id", order.OrderID))
		return nil, err
	}

	logger.Info("Order created", slog.String("order_id", order.OrderID))
	return &order, nil
}

func (s *OrderService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	order, err := s.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to find order", slog.String("error", err.Error()), slog.String("order_id", orderID))
		}
		return nil, err
	}

	expenses, err := s.orderRepo.FindExpensesByOrderID(ctx, orderID)
	if err != nil {
		logger.Error("Failed to load order expenses", slog.String("error", err.Error()), slog.String("order_id", orderID))
		return nil, err
	}
	order.Financials.Expenses = expenses
	return order, nil
}

func (s *OrderService) ListPool(ctx context.Context, params dto.ListOrdersParams) ([]domain.Order, error) {
	return s.orderRepo.ListOrdersByStatus(ctx, domain.OrderNew, params.Limit, params.Offset)
}

func (s *OrderService) ListCrewOrders(ctx context.Context, crewID string, params dto.ListOrdersParams) ([]domain.Order, error) {
	return s.orderRepo.ListOrdersByCrew(ctx, crewID, params.Limit, params.Offset)
}

// Claim assigns a NEW order to a crew. The assignment is a conditional update
// on the current status, so exactly one of several concurrent claimers wins.
func (s *OrderService) Claim(ctx context.Context, orderID, crewID, actorID string) (*domain.Order, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	crew, err := s.crewRepo.FindCrewByID(ctx, crewID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: crew %s", apperrors.ErrNotFound, crewID)
		}
		return nil, err
	}
	if !crew.IsActive {
		return nil, fmt.Errorf("%w: crew %s is inactive", apperrors.ErrValidation, crewID)
	}

	if err := s.orderRepo.ClaimOrder(ctx, orderID, crewID, actorID, time.Now()); err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Info("Order claim lost race", slog.String("order_id", orderID), slog.String("crew_id", crewID))
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to claim order", slog.String("error", err.Error()), slog.String("order_id", orderID))
		}
		return nil, err
	}

	logger.Info("Order claimed", slog.String("order_id", orderID), slog.String("crew_id", crewID))
	return s.orderRepo.FindOrderByID(ctx, orderID)
}

// Transition moves an order along a status edge permitted for the caller's
// role. Edges into DONE are reserved for settlement and edges into NEW for
// refuse, regardless of role.
func (s *OrderService) Transition(ctx context.Context, orderID string, to domain.OrderStatus, role domain.Role, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !to.IsValid() {
		return fmt.Errorf("%w: unknown status %q", apperrors.ErrValidation, to)
	}

	order, err := s.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		return err
	}
	if order.Status.IsLocked() {
		return fmt.Errorf("%w: order %s is %s", apperrors.ErrOrderLocked, orderID, order.Status)
	}
	if order.Status == to {
		return fmt.Errorf("%w: order %s is already %s", apperrors.ErrValidation, orderID, to)
	}
	if !domain.CanTransition(role, order.Status, to) {
		logger.Warn("Forbidden status transition attempted",
			slog.String("order_id", orderID),
			slog.String("role", string(role)),
			slog.String("from", string(order.Status)),
			slog.String("to", string(to)))
		return fmt.Errorf("%w: role %s may not move order from %s to %s", apperrors.ErrForbidden, role, order.Status, to)
	}

	if err := s.orderRepo.UpdateOrderStatus(ctx, orderID, order.Status, to, actorID, time.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrOrderLocked) {
			logger.Error("Failed to update order status", slog.String("error", err.Error()), slog.String("order_id", orderID))
		}
		return err
	}

	logger.Info("Order status changed",
		slog.String("order_id", orderID),
		slog.String("from", string(order.Status)),
		slog.String("to", string(to)))
	return nil
}

// Refuse returns an in-progress order held by crewID to the NEW pool. The
// order keeps its accumulated expenses.
func (s *OrderService) Refuse(ctx context.Context, orderID, crewID, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.orderRepo.ReleaseOrder(ctx, orderID, crewID, actorID, time.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrOrderLocked) {
			logger.Error("Failed to release order", slog.String("error", err.Error()), slog.String("order_id", orderID))
		}
		return err
	}

	logger.Info("Order refused back to pool", slog.String("order_id", orderID), slog.String("crew_id", crewID))
	return nil
}

// Transfer reassigns an in-progress order from one crew to another.
func (s *OrderService) Transfer(ctx context.Context, orderID, fromCrew, toCrew, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if fromCrew == toCrew {
		return fmt.Errorf("%w: source and target crew are the same", apperrors.ErrValidation)
	}

	crew, err := s.crewRepo.FindCrewByID(ctx, toCrew)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: crew %s", apperrors.ErrNotFound, toCrew)
		}
		return err
	}
	if !crew.IsActive {
		return fmt.Errorf("%w: crew %s is inactive", apperrors.ErrValidation, toCrew)
	}

	if err := s.orderRepo.ReassignOrder(ctx, orderID, fromCrew, toCrew, actorID, time.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrOrderLocked) {
			logger.Error("Failed to reassign order", slog.String("error", err.Error()), slog.String("order_id", orderID))
		}
		return err
	}

	logger.Info("Order transferred",
		slog.String("order_id", orderID),
		slog.String("from_crew", fromCrew),
		slog.String("to_crew", toCrew))
	return nil
}

// AddExpense appends an expense line to an unlocked order. The order's totals
// are recomputed in the same database transaction as the insert.
func (s *OrderService) AddExpense(ctx context.Context, orderID string, req dto.AddExpenseRequest, actorID string) (*domain.Financials, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: expense amount must be positive", apperrors.ErrValidation)
	}

	now := time.Now()
	expense := domain.Expense{
		ExpenseID: uuid.NewString(),
		OrderID:   orderID,
		Amount:    req.Amount,
		Category:  req.Category,
		Comment:   req.Comment,
		CreatedAt: now,
		CreatedBy: actorID,
	}

	financials, err := s.orderRepo.AppendExpense(ctx, expense)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrOrderLocked) {
			logger.Error("Failed to append expense", slog.String("error", err.Error()), slog.String("order_id", orderID))
		}
		return nil, err
	}

	logger.Info("Expense added",
		slog.String("order_id", orderID),
		slog.String("expense_id", expense.ExpenseID),
		slog.String("amount", req.Amount.String()))
	return financials, nil
}

// SetFinalPrice overwrites an unlocked order's final price and recomputes the
// net profit.
func (s *OrderService) SetFinalPrice(ctx context.Context, orderID string, req dto.SetFinalPriceRequest, actorID string) (*domain.Financials, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Price.IsPositive() {
		return nil, fmt.Errorf("%w: final price must be positive", apperrors.ErrValidation)
	}

	financials, err := s.orderRepo.UpdateFinalPrice(ctx, orderID, req.Price, actorID, time.Now())
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) && !errors.Is(err, apperrors.ErrOrderLocked) {
			logger.Error("Failed to update final price", slog.String("error", err.Error()), slog.String("order_id", orderID))
		}
		return nil, err
	}

	logger.Info("Final price updated",
		slog.String("order_id", orderID),
		slog.String("price", req.Price.String()))
	return financials, nil
}
