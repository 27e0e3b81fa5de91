package services

import (
	portsrepo "github.com/fieldworks/crew_settlement_app/internal/core/ports/repositories"
	portssvc "github.com/fieldworks/crew_settlement_app/internal/core/ports/services"
)

// ContainerConfig carries the few non-repository inputs services need.
type ContainerConfig struct {
	// CashAccountID is the company cash account credited on confirmed
	// incassations.
	CashAccountID string
	// OwnerUserID receives incassation request notifications.
	OwnerUserID string
}

// NewContainer wires all services with their repository dependencies.
func NewContainer(repos *portsrepo.RepositoryProvider, cfg ContainerConfig) *portssvc.ServiceContainer {
	notifier := NewLogNotifier()

	return &portssvc.ServiceContainer{
		Order:      NewOrderService(repos.OrderRepo, repos.CrewRepo),
		Settlement: NewSettlementService(repos.OrderRepo, repos.AccountRepo, repos.CrewRepo, notifier),
		Ledger:     NewLedgerService(repos.AccountRepo),
		Incassation: NewIncassationService(
			repos.IncassationRepo,
			repos.AccountRepo,
			repos.CrewRepo,
			notifier,
			cfg.CashAccountID,
			cfg.OwnerUserID,
		),
		Crew: NewCrewService(repos.CrewRepo, repos.AccountRepo),
	}
}
