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

// LedgerService manages named accounts and the append-only ledger behind them.
// Balances are cached on the account row and only ever change together with
// the entries that explain them.
type LedgerService struct {
	accountRepo portsrepo.AccountRepositoryFacade
}

var _ portssvc.LedgerSvcFacade = (*LedgerService)(nil)

func NewLedgerService(accountRepo portsrepo.AccountRepositoryFacade) *LedgerService {
	return &LedgerService{accountRepo: accountRepo}
}

func (s *LedgerService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, actorID string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown account kind %q", apperrors.ErrValidation, req.Kind)
	}
	if req.Kind == domain.AccountCrewVirtual && req.CrewID == nil {
		return nil, fmt.Errorf("%w: crew virtual account requires crewID", apperrors.ErrValidation)
	}
	if req.Kind != domain.AccountCrewVirtual && req.CrewID != nil {
		return nil, fmt.Errorf("%w: only crew virtual accounts carry a crewID", apperrors.ErrValidation)
	}

	now := time.Now()
	account := domain.Account{
		AccountID: uuid.NewString(),
		Name:      req.Name,
		Kind:      req.Kind,
		CrewID:    req.CrewID,
		Balance:   decimal.Zero,
		IsActive:  true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     actorID,
			LastUpdatedAt: now,
			LastUpdatedBy: actorID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		logger.Error("Failed to save account", slog.String("error", err.Error()), slog.String("account_id", account.AccountID))
		return nil, err
	}

	logger.Info("Account created", slog.String("account_id", account.AccountID), slog.String("kind", string(account.Kind)))
	return &account, nil
}

func (s *LedgerService) BalancesSnapshot(ctx context.Context) ([]domain.Account, error) {
	return s.accountRepo.ListAccounts(ctx)
}

func (s *LedgerService) GetAccount(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

// CrewDebt derives the crew's current debt from its ledger entries. The value
// is never stored, so it cannot drift from the entries.
func (s *LedgerService) CrewDebt(ctx context.Context, crewID string) (decimal.Decimal, error) {
	account, err := s.accountRepo.FindAccountByCrewID(ctx, crewID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return decimal.Zero, fmt.Errorf("%w: crew %s has no virtual account", apperrors.ErrNotFound, crewID)
		}
		return decimal.Zero, err
	}
	return s.accountRepo.CrewDebt(ctx, account.AccountID)
}

func (s *LedgerService) ListAccountTransactions(ctx context.Context, accountID string, params dto.ListTransactionsParams) ([]domain.Transaction, error) {
	if _, err := s.accountRepo.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}
	return s.accountRepo.ListTransactionsByAccountID(ctx, accountID, params.Limit, params.Offset)
}

func (s *LedgerService) OrderLedgerEntries(ctx context.Context, orderID string) ([]domain.Transaction, error) {
	return s.accountRepo.FindTransactionsByOrderID(ctx, orderID)
}

// Post records one ledger entry and applies it to the account balance
// atomically.
func (s *LedgerService) Post(ctx context.Context, req dto.PostTransactionRequest, actorID string) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	account, err := s.accountRepo.FindAccountByID(ctx, req.AccountID)
	if err != nil {
		return nil, err
	}
	if !account.IsActive {
		return nil, fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, req.AccountID)
	}

	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		AccountID:     req.AccountID,
		Amount:        req.Amount,
		Direction:     req.Direction,
		Category:      req.Category,
		OrderID:       req.OrderID,
		Comment:       req.Comment,
		CreatedAt:     time.Now(),
		CreatedBy:     actorID,
	}
	balanceChanges := map[string]decimal.Decimal{
		req.AccountID: txn.SignedAmount(),
	}

	if err := s.accountRepo.PostTransactions(ctx, []domain.Transaction{txn}, balanceChanges, actorID, txn.CreatedAt); err != nil {
		logger.Error("Failed to post transaction", slog.String("error", err.Error()), slog.String("account_id", req.AccountID))
		return nil, err
	}

	logger.Info("Transaction posted",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("account_id", txn.AccountID),
		slog.String("amount", txn.Amount.String()),
		slog.String("direction", string(txn.Direction)))
	return &txn, nil
}

// Transfer moves an amount between two accounts as a linked expense/income
// pair in one atomic unit.
func (s *LedgerService) Transfer(ctx context.Context, req dto.TransferRequest, actorID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if !req.Amount.IsPositive() {
		return fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}
	if req.FromAccountID == req.ToAccountID {
		return fmt.Errorf("%w: cannot transfer within one account", apperrors.ErrValidation)
	}

	for _, accountID := range []string{req.FromAccountID, req.ToAccountID} {
		account, err := s.accountRepo.FindAccountByID(ctx, accountID)
		if err != nil {
			return err
		}
		if !account.IsActive {
			return fmt.Errorf("%w: account %s is inactive", apperrors.ErrValidation, accountID)
		}
	}

	now := time.Now()
	entries := []domain.Transaction{
		{
			TransactionID: uuid.NewString(),
			AccountID:     req.FromAccountID,
			Amount:        req.Amount,
			Direction:     domain.DirectionExpense,
			Category:      domain.CategoryTransfer,
			Comment:       req.Comment,
			CreatedAt:     now,
			CreatedBy:     actorID,
		},
		{
			TransactionID: uuid.NewString(),
			AccountID:     req.ToAccountID,
			Amount:        req.Amount,
			Direction:     domain.DirectionIncome,
			Category:      domain.CategoryTransfer,
			Comment:       req.Comment,
			CreatedAt:     now,
			CreatedBy:     actorID,
		},
	}
	balanceChanges := map[string]decimal.Decimal{
		req.FromAccountID: req.Amount.Neg(),
		req.ToAccountID:   req.Amount,
	}

	if err := s.accountRepo.PostTransactions(ctx, entries, balanceChanges, actorID, now); err != nil {
		logger.Error("Failed to transfer between accounts",
			slog.String("error", err.Error()),
			slog.String("from_account", req.FromAccountID),
			slog.String("to_account", req.ToAccountID))
		return err
	}

	logger.Info("Transfer completed",
		slog.String("from_account", req.FromAccountID),
		slog.String("to_account", req.ToAccountID),
		slog.String("amount", req.Amount.String()))
	return nil
}
