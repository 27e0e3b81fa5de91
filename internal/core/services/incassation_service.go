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

// IncassationService drives the two-phase cash-handover workflow. A request
// records intent only; the crew's debt and the company cash balance change
// when an approver confirms, never before.
type IncassationService struct {
	incassationRepo portsrepo.IncassationRepositoryFacade
	accountRepo     portsrepo.AccountRepositoryFacade
	crewRepo        portsrepo.CrewRepositoryFacade
	notifier        portssvc.Notifier
	cashAccountID   string
	ownerUserID     string
}

var _ portssvc.IncassationSvcFacade = (*IncassationService)(nil)

func NewIncassationService(
	incassationRepo portsrepo.IncassationRepositoryFacade,
	accountRepo portsrepo.AccountRepositoryFacade,
	crewRepo portsrepo.CrewRepositoryFacade,
	notifier portssvc.Notifier,
	cashAccountID string,
	ownerUserID string,
) *IncassationService {
	return &IncassationService{
		incassationRepo: incassationRepo,
		accountRepo:     accountRepo,
		crewRepo:        crewRepo,
		notifier:        notifier,
		cashAccountID:   cashAccountID,
		ownerUserID:     ownerUserID,
	}
}

// Request records a crew's intent to hand over cash. The debt snapshot is
// captured now so the approver sees what the crew owed at request time.
func (s *IncassationService) Request(ctx context.Context, req dto.CreateIncassationRequest, actorID string) (*domain.IncassationRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	crew, err := s.crewRepo.FindCrewByID(ctx, req.CrewID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: crew %s", apperrors.ErrNotFound, req.CrewID)
		}
		return nil, err
	}
	if !crew.IsActive {
		return nil, fmt.Errorf("%w: crew %s is inactive", apperrors.ErrValidation, req.CrewID)
	}

	account, err := s.accountRepo.FindAccountByCrewID(ctx, crew.CrewID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: crew %s has no virtual account", apperrors.ErrNotFound, crew.CrewID)
		}
		return nil, err
	}
	debt, err := s.accountRepo.CrewDebt(ctx, account.AccountID)
	if err != nil {
		return nil, err
	}

	request := domain.IncassationRequest{
		RequestID:    uuid.NewString(),
		CrewID:       crew.CrewID,
		Amount:       req.Amount,
		Status:       domain.IncassationPending,
		DebtSnapshot: debt,
		RequestedAt:  time.Now(),
		RequestedBy:  actorID,
	}
	if err := s.incassationRepo.SaveRequest(ctx, request); err != nil {
		logger.Error("Failed to save incassation request", slog.String("error", err.Error()), slog.String("crew_id", crew.CrewID))
		return nil, err
	}

	logger.Info("Incassation requested",
		slog.String("request_id", request.RequestID),
		slog.String("crew_id", crew.CrewID),
		slog.String("amount", req.Amount.String()),
		slog.String("debt_snapshot", debt.String()))

	msg := fmt.Sprintf("Crew %s requests cash handover of %s (current debt %s)", crew.Name, req.Amount, debt)
	if err := s.notifier.Notify(ctx, s.ownerUserID, msg); err != nil {
		logger.Warn("Incassation notification failed", slog.String("error", err.Error()))
	}

	return &request, nil
}

// Confirm resolves a pending request and posts the matching ledger entries:
// Incassation income on the crew's virtual account reducing its debt, and a
// mirrored income on the company cash account where the money physically
// lands. Returns the crew's debt after the reduction.
func (s *IncassationService) Confirm(ctx context.Context, requestID, approverID string) (decimal.Decimal, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	request, err := s.incassationRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return decimal.Zero, err
	}
	if request.Status != domain.IncassationPending {
		return decimal.Zero, fmt.Errorf("%w: incassation request %s already resolved as %s", apperrors.ErrConflict, requestID, request.Status)
	}

	account, err := s.accountRepo.FindAccountByCrewID(ctx, request.CrewID)
	if err != nil {
		return decimal.Zero, err
	}

	now := time.Now()
	entries := []domain.Transaction{
		{
			TransactionID: uuid.NewString(),
			AccountID:     account.AccountID,
			Amount:        request.Amount,
			Direction:     domain.DirectionIncome,
			Category:      domain.CategoryIncassation,
			Comment:       "cash handover " + requestID,
			CreatedAt:     now,
			CreatedBy:     approverID,
		},
		{
			TransactionID: uuid.NewString(),
			AccountID:     s.cashAccountID,
			Amount:        request.Amount,
			Direction:     domain.DirectionIncome,
			Category:      domain.CategoryIncassation,
			Comment:       "cash handover " + requestID + " from crew " + request.CrewID,
			CreatedAt:     now,
			CreatedBy:     approverID,
		},
	}
	balanceChanges := map[string]decimal.Decimal{
		account.AccountID: request.Amount,
		s.cashAccountID:   request.Amount,
	}
	// One repository transaction covers both the status flip and the ledger
	// posting: a posting failure leaves the request PENDING and retryable,
	// and the status guard lets exactly one concurrent approver through.
	if err := s.incassationRepo.ResolveAndPost(ctx, requestID, domain.IncassationConfirmed, entries, balanceChanges, approverID, now); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to confirm incassation request",
				slog.String("error", err.Error()),
				slog.String("request_id", requestID))
		}
		return decimal.Zero, err
	}

	newDebt, err := s.accountRepo.CrewDebt(ctx, account.AccountID)
	if err != nil {
		return decimal.Zero, err
	}

	logger.Info("Incassation confirmed",
		slog.String("request_id", requestID),
		slog.String("crew_id", request.CrewID),
		slog.String("amount", request.Amount.String()),
		slog.String("new_debt", newDebt.String()))

	msg := fmt.Sprintf("Cash handover of %s confirmed, remaining debt %s", request.Amount, newDebt)
	if err := s.notifier.Notify(ctx, request.RequestedBy, msg); err != nil {
		logger.Warn("Incassation notification failed", slog.String("error", err.Error()))
	}

	return newDebt, nil
}

// Reject resolves a pending request without touching the ledger.
func (s *IncassationService) Reject(ctx context.Context, requestID, approverID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	request, err := s.incassationRepo.FindRequestByID(ctx, requestID)
	if err != nil {
		return err
	}
	if err := s.incassationRepo.ResolveRequest(ctx, requestID, domain.IncassationRejected, approverID, time.Now()); err != nil {
		if !errors.Is(err, apperrors.ErrConflict) && !errors.Is(err, apperrors.ErrNotFound) {
			logger.Error("Failed to reject incassation request", slog.String("error", err.Error()), slog.String("request_id", requestID))
		}
		return err
	}

	logger.Info("Incassation rejected", slog.String("request_id", requestID), slog.String("crew_id", request.CrewID))

	msg := fmt.Sprintf("Cash handover of %s was rejected", request.Amount)
	if err := s.notifier.Notify(ctx, request.RequestedBy, msg); err != nil {
		logger.Warn("Incassation notification failed", slog.String("error", err.Error()))
	}
	return nil
}

func (s *IncassationService) ListRequests(ctx context.Context, params dto.ListIncassationParams) ([]domain.IncassationRequest, error) {
	return s.incassationRepo.ListRequests(ctx, params.Status, params.Limit, params.Offset)
}
