package services

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/fieldworks/crew_settlement_app/internal/core/domain"
	"github.com/fieldworks/crew_settlement_app/internal/dto"
)

// LedgerReaderSvc defines read operations over accounts and the ledger.
type LedgerReaderSvc interface {
	// BalancesSnapshot lists all active accounts with cached balances.
	BalancesSnapshot(ctx context.Context) ([]domain.Account, error)

	// GetAccount retrieves a single account.
	GetAccount(ctx context.Context, accountID string) (*domain.Account, error)

	// CrewDebt computes the crew's current debt to the company.
	CrewDebt(ctx context.Context, crewID string) (decimal.Decimal, error)

	// ListAccountTransactions lists ledger entries for an account, newest first.
	ListAccountTransactions(ctx context.Context, accountID string, params dto.ListTransactionsParams) ([]domain.Transaction, error)

	// OrderLedgerEntries lists ledger entries referencing an order.
	OrderLedgerEntries(ctx context.Context, orderID string) ([]domain.Transaction, error)
}

// LedgerWriterSvc defines write operations over accounts and the ledger.
type LedgerWriterSvc interface {
	// CreateAccount inserts a new named balance.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actorID string) (*domain.Account, error)

	// Post inserts one ledger entry and updates the account balance atomically.
	Post(ctx context.Context, req dto.PostTransactionRequest, actorID string) (*domain.Transaction, error)

	// Transfer moves an amount between two accounts as a linked expense/income
	// pair in one atomic unit.
	Transfer(ctx context.Context, req dto.TransferRequest, actorID string) error
}

// LedgerSvcFacade combines all ledger service interfaces.
type LedgerSvcFacade interface {
	LedgerReaderSvc
	LedgerWriterSvc
}
