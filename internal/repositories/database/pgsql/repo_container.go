package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/fieldworks/crew_settlement_app/internal/core/ports/repositories"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	accountRepo := newPgxAccountRepository(dbPool)
	orderRepo := newPgxOrderRepository(dbPool, accountRepo)
	crewRepo := newPgxCrewRepository(dbPool)
	incassationRepo := newPgxIncassationRepository(dbPool, accountRepo)

	return portsrepo.RepositoryProvider{
		OrderRepo:       orderRepo,
		AccountRepo:     accountRepo,
		CrewRepo:        crewRepo,
		IncassationRepo: incassationRepo,
	}
}
