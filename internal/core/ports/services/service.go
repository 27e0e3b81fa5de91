package services

import "context"

// Notifier alerts a human by identity. Delivery is best effort: callers log
// and swallow failures, never roll back a financial transaction over one.
type Notifier interface {
	Notify(ctx context.Context, recipientID, message string) error
}

// ServiceContainer bundles all services for dependency injection into
// handlers.
type ServiceContainer struct {
	Order       OrderSvcFacade
	Settlement  SettlementSvcFacade
	Ledger      LedgerSvcFacade
	Incassation IncassationSvcFacade
	Crew        CrewSvcFacade
}
