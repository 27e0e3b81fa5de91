package repositories

import (
	"context"
	"time"

	"github.com/fieldworks/crew_settlement_app/internal/core/domain"
)

// CrewRepositoryFacade defines persistence operations for crews.
type CrewRepositoryFacade interface {
	// SaveCrew inserts a new crew.
	SaveCrew(ctx context.Context, crew domain.Crew) error

	// FindCrewByID retrieves a crew by its ID.
	FindCrewByID(ctx context.Context, crewID string) (*domain.Crew, error)

	// ListCrews retrieves crews ordered by name, optionally including inactive ones.
	ListCrews(ctx context.Context, includeInactive bool) ([]domain.Crew, error)

	// DeactivateCrew marks a crew as inactive.
	DeactivateCrew(ctx context.Context, crewID, actorID string, now time.Time) error
}
