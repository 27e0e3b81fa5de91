package services

import (
	"context"
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

// CrewService manages subcontractor crews. Every crew gets a virtual ledger
// account at creation time; settlement and incassation post against it.
type CrewService struct {
	crewRepo    portsrepo.CrewRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

var _ portssvc.CrewSvcFacade = (*CrewService)(nil)

func NewCrewService(crewRepo portsrepo.CrewRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) *CrewService {
	return &CrewService{
		crewRepo:    crewRepo,
		accountRepo: accountRepo,
	}
}

func (s *CrewService) CreateCrew(ctx context.Context, req dto.CreateCrewRequest, actorID string) (*domain.Crew, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.ProfitSharePercent.IsNegative() || req.ProfitSharePercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, fmt.Errorf("%w: profit share percent must be between 0 and 100", apperrors.ErrValidation)
	}

	now := time.Now()
	audit := domain.AuditFields{
		CreatedAt:     now,
		CreatedBy:     actorID,
		LastUpdatedAt: now,
		LastUpdatedBy: actorID,
	}
	crew := domain.Crew{
		CrewID:             uuid.NewString(),
		Name:               req.Name,
		LeadUserID:         req.LeadUserID,
		ProfitSharePercent: req.ProfitSharePercent,
		IsActive:           true,
		AuditFields:        audit,
	}

	if err := s.crewRepo.SaveCrew(ctx, crew); err != nil {
		logger.Error("Failed to save crew", slog.String("error", err.Error()), slog.String("crew_id", crew.CrewID))
		return nil, err
	}

	account := domain.Account{
		AccountID:   uuid.NewString(),
		Name:        "Crew: " + crew.Name,
		Kind:        domain.AccountCrewVirtual,
		CrewID:      &crew.CrewID,
		Balance:     decimal.Zero,
		IsActive:    true,
		AuditFields: audit,
	}
	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to create crew virtual account",
			slog.String("error", err.Error()),
			slog.String("crew_id", crew.CrewID))
		return nil, err
	}

	logger.Info("Crew created",
		slog.String("crew_id", crew.CrewID),
		slog.String("account_id", account.AccountID),
		slog.String("profit_share_percent", crew.ProfitSharePercent.String()))
	return &crew, nil
}

func (s *CrewService) GetCrewByID(ctx context.Context, crewID string) (*domain.Crew, error) {
	return s.crewRepo.FindCrewByID(ctx, crewID)
}

func (s *CrewService) ListCrews(ctx context.Context, includeInactive bool) ([]domain.Crew, error) {
	return s.crewRepo.ListCrews(ctx, includeInactive)
}

func (s *CrewService) DeactivateCrew(ctx context.Context, crewID, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.crewRepo.DeactivateCrew(ctx, crewID, actorID, time.Now()); err != nil {
		return err
	}
	logger.Info("Crew deactivated", slog.String("crew_id", crewID))
	return nil
}
