package services

import (
	"context"

	"github.com/fieldworks/crew_settlement_app/internal/core/domain"
	"github.com/fieldworks/crew_settlement_app/internal/dto"
)

// CrewSvcFacade defines crew management operations. Creating a crew also
// creates its virtual ledger account.
type CrewSvcFacade interface {
	CreateCrew(ctx context.Context, req dto.CreateCrewRequest, actorID string) (*domain.Crew, error)
	GetCrewByID(ctx context.Context, crewID string) (*domain.Crew, error)
	ListCrews(ctx context.Context, includeInactive bool) ([]domain.Crew, error)
	DeactivateCrew(ctx context.Context, crewID, actorID string) error
}
