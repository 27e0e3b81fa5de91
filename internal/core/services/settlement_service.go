package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fieldworks/crew_settlement_app/internal/apperrors"
	"github.com/fieldworks/crew_settlement_app/internal/core/domain"
	portsrepo "github.com/fieldworks/crew_settlement_app/internal/core/ports/repositories"
	portssvc "github.com/fieldworks/crew_settlement_app/internal/core/ports/services"
	"github.com/fieldworks/crew_settlement_app/internal/dto"
	"github.com/fieldworks/crew_settlement_app/internal/middleware"
)

// SettlementService closes completed orders. Settlement is the only path that
// moves an order to DONE and the only producer of Earnings and Withheld
// ledger entries.
type SettlementService struct {
	orderRepo   portsrepo.OrderRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
	crewRepo    portsrepo.CrewRepositoryFacade
	notifier    portssvc.Notifier
}

var _ portssvc.SettlementSvcFacade = (*SettlementService)(nil)

func NewSettlementService(
	orderRepo portsrepo.OrderRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	crewRepo portsrepo.CrewRepositoryFacade,
	notifier portssvc.Notifier,
) *SettlementService {
	return &SettlementService{
		orderRepo:   orderRepo,
		accountRepo: accountRepo,
		crewRepo:    crewRepo,
		notifier:    notifier,
	}
}

// FinalizeOrder splits the order's net profit per the crew's share percent,
// posts the Earnings income and Withheld expense pair on the crew's virtual
// account and locks the order as DONE, all in one database transaction on the
// repository side. A second finalize of the same order returns ErrConflict.
func (s *SettlementService) FinalizeOrder(ctx context.Context, orderID, actorID string) (*dto.SettlementResult, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	order, err := s.orderRepo.FindOrderByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order.Settled() {
		return nil, fmt.Errorf("%w: order %s is already settled", apperrors.ErrConflict, orderID)
	}
	if order.Status != domain.OrderWork {
		if order.Status.IsLocked() {
			return nil, fmt.Errorf("%w: order %s is %s", apperrors.ErrOrderLocked, orderID, order.Status)
		}
		return nil, fmt.Errorf("%w: order %s is %s, settlement requires %s", apperrors.ErrConflict, orderID, order.Status, domain.OrderWork)
	}
	if order.CrewID == nil {
		return nil, fmt.Errorf("%w: order %s has no assigned crew", apperrors.ErrValidation, orderID)
	}

	crew, err := s.crewRepo.FindCrewByID(ctx, *order.CrewID)
	if err != nil {
		return nil, err
	}
	account, err := s.accountRepo.FindAccountByCrewID(ctx, crew.CrewID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: crew %s has no virtual account", apperrors.ErrNotFound, crew.CrewID)
		}
		return nil, err
	}

	crewShare, ownerShare := crew.SplitProfit(order.Financials.NetProfit)

	now := time.Now()
	// Entry amounts are strictly positive in the ledger; a zero share posts
	// no entry. Zero-profit orders still settle, they just leave no trace on
	// the account.
	entries := make([]domain.Transaction, 0, 2)
	if !crewShare.IsZero() {
		entries = append(entries, domain.Transaction{
			TransactionID: uuid.NewString(),
			AccountID:     account.AccountID,
			Amount:        crewShare.Abs(),
			Direction:     settlementDirection(crewShare),
			Category:      domain.CategoryEarnings,
			OrderID:       &order.OrderID,
			Comment:       "crew share of order " + order.OrderID,
			CreatedAt:     now,
			CreatedBy:     actorID,
		})
	}
	if !ownerShare.IsZero() {
		entries = append(entries, domain.Transaction{
			TransactionID: uuid.NewString(),
			AccountID:     account.AccountID,
			Amount:        ownerShare.Abs(),
			Direction:     settlementDirection(ownerShare.Neg()),
			Category:      domain.CategoryWithheld,
			OrderID:       &order.OrderID,
			Comment:       "company share withheld on order " + order.OrderID,
			CreatedAt:     now,
			CreatedBy:     actorID,
		})
	}
	// Net balance effect on the crew account is crewShare - ownerShare.
	balanceChanges := map[string]decimal.Decimal{
		account.AccountID: crewShare.Sub(ownerShare),
	}

	err = s.orderRepo.FinalizeOrder(ctx, orderID, domain.OrderWork, crewShare, ownerShare, entries, balanceChanges, actorID, now)
	if err != nil {
		if !errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to finalize order", slog.String("error", err.Error()), slog.String("order_id", orderID))
		}
		return nil, err
	}

	logger.Info("Order settled",
		slog.String("order_id", orderID),
		slog.String("crew_id", crew.CrewID),
		slog.String("crew_share", crewShare.String()),
		slog.String("owner_share", ownerShare.String()))

	// Best effort only. A failed notification never unwinds a settlement.
	msg := fmt.Sprintf("Order %s settled: crew share %s, company share %s", orderID, crewShare, ownerShare)
	if err := s.notifier.Notify(ctx, crew.LeadUserID, msg); err != nil {
		logger.Warn("Settlement notification failed", slog.String("error", err.Error()), slog.String("crew_id", crew.CrewID))
	}

	return &dto.SettlementResult{
		OrderID:    orderID,
		CrewShare:  crewShare,
		OwnerShare: ownerShare,
	}, nil
}

func settlementDirection(amount decimal.Decimal) domain.TransactionDirection {
	if amount.IsNegative() {
		return domain.DirectionExpense
	}
	return domain.DirectionIncome
}
