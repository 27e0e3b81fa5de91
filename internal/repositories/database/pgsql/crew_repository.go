package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fieldworks/crew_settlement_app/internal/apperrors"
	"github.com/fieldworks/crew_settlement_app/internal/core/domain"
	portsrepo "github.com/fieldworks/crew_settlement_app/internal/core/ports/repositories"
	"github.com/fieldworks/crew_settlement_app/internal/models"
	"github.com/fieldworks/crew_settlement_app/internal/utils/mapping"
)

const crewColumns = `crew_id, name, lead_user_id, profit_share_percent, is_active,
	       created_at, created_by, last_updated_at, last_updated_by`

type PgxCrewRepository struct {
	BaseRepository
}

func newPgxCrewRepository(pool *pgxpool.Pool) portsrepo.CrewRepositoryFacade {
	return &PgxCrewRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.CrewRepositoryFacade = (*PgxCrewRepository)(nil)

// SaveCrew inserts a new crew.
func (r *PgxCrewRepository) SaveCrew(ctx context.Context, crew domain.Crew) error {
	m := mapping.ToModelCrew(crew)

	query := `
		INSERT INTO crews (` + crewColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
	`
	_, err := r.Pool.Exec(ctx, query,
		m.CrewID,
		m.Name,
		m.LeadUserID,
		m.ProfitSharePercent,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return fmt.Errorf("%w: crew %s", apperrors.ErrDuplicate, m.CrewID)
		}
		return apperrors.NewAppError(500, "failed to insert crew "+m.CrewID, err)
	}
	return nil
}

// FindCrewByID retrieves a crew by its ID.
func (r *PgxCrewRepository) FindCrewByID(ctx context.Context, crewID string) (*domain.Crew, error) {
	query := `SELECT ` + crewColumns + ` FROM crews WHERE crew_id = $1;`

	var m models.Crew
	err := r.Pool.QueryRow(ctx, query, crewID).Scan(
		&m.CrewID,
		&m.Name,
		&m.LeadUserID,
		&m.ProfitSharePercent,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to scan crew row", err)
	}
	crew := mapping.ToDomainCrew(m)
	return &crew, nil
}

// ListCrews retrieves crews ordered by name, optionally including inactive ones.
func (r *PgxCrewRepository) ListCrews(ctx context.Context, includeInactive bool) ([]domain.Crew, error) {
	query := `SELECT ` + crewColumns + ` FROM crews`
	if !includeInactive {
		query += ` WHERE is_active = TRUE`
	}
	query += ` ORDER BY name;`

	rows, err := r.Pool.Query(ctx, query)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query crews", err)
	}
	defer rows.Close()

	crews := []domain.Crew{}
	for rows.Next() {
		var m models.Crew
		err := rows.Scan(
			&m.CrewID,
			&m.Name,
			&m.LeadUserID,
			&m.ProfitSharePercent,
			&m.IsActive,
			&m.CreatedAt,
			&m.CreatedBy,
			&m.LastUpdatedAt,
			&m.LastUpdatedBy,
		)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan crew row", err)
		}
		crews = append(crews, mapping.ToDomainCrew(m))
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating crew rows", err)
	}
	return crews, nil
}

// DeactivateCrew marks a crew as inactive.
func (r *PgxCrewRepository) DeactivateCrew(ctx context.Context, crewID, actorID string, now time.Time) error {
	query := `
		UPDATE crews
		SET is_active = FALSE, last_updated_at = $2, last_updated_by = $3
		WHERE crew_id = $1 AND is_active = TRUE;
	`
	cmdTag, err := r.Pool.Exec(ctx, query, crewID, now, actorID)
	if err != nil {
		return apperrors.NewAppError(500, "failed to deactivate crew "+crewID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		if _, findErr := r.FindCrewByID(ctx, crewID); findErr != nil {
			return findErr
		}
		return fmt.Errorf("%w: crew %s is already inactive", apperrors.ErrValidation, crewID)
	}
	return nil
}
