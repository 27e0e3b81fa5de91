package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/fieldworks/crew_settlement_app/internal/core/domain"
)

// AccountReaderRepository defines read operations over accounts and the ledger.
type AccountReaderRepository interface {
	// FindAccountByID retrieves an account with its cached balance.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByCrewID retrieves a crew's virtual account.
	FindAccountByCrewID(ctx context.Context, crewID string) (*domain.Account, error)

	// ListAccounts retrieves all active accounts ordered by name.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// CrewDebt computes sum(WITHHELD) - sum(INCASSATION income) over the
	// given account's ledger entries.
	CrewDebt(ctx context.Context, accountID string) (decimal.Decimal, error)

	// ListTransactionsByAccountID retrieves ledger entries for an account,
	// newest first.
	ListTransactionsByAccountID(ctx context.Context, accountID string, limit, offset int) ([]domain.Transaction, error)

	// FindTransactionsByOrderID retrieves ledger entries referencing an order.
	FindTransactionsByOrderID(ctx context.Context, orderID string) ([]domain.Transaction, error)
}

// AccountWriterRepository defines write operations over accounts and the ledger.
type AccountWriterRepository interface {
	// SaveAccount inserts a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// PostTransactions inserts ledger entries and applies the matching
	// balance changes in one database transaction; never one without the other.
	PostTransactions(ctx context.Context, entries []domain.Transaction, balanceChanges map[string]decimal.Decimal, actorID string, now time.Time) error

	// DeactivateAccount marks an account as inactive.
	DeactivateAccount(ctx context.Context, accountID, actorID string, now time.Time) error
}

// AccountTxRepository exposes tx-scoped helpers so other repositories can
// post ledger entries inside their own database transaction.
type AccountTxRepository interface {
	// FindAccountsByIDsForUpdate retrieves and row-locks the given accounts.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// InsertTransactionsInTx inserts ledger entries using tx.
	InsertTransactionsInTx(ctx context.Context, tx pgx.Tx, entries []domain.Transaction) error

	// UpdateAccountBalancesInTx applies balance deltas using tx.
	UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, actorID string, now time.Time) error
}

// AccountRepositoryFacade combines all account repository interfaces.
type AccountRepositoryFacade interface {
	AccountReaderRepository
	AccountWriterRepository
	AccountTxRepository
}
