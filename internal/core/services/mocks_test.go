package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/fieldworks/crew_settlement_app/internal/core/domain"
)

// MockOrderRepository is a mock type for the OrderRepositoryFacade interface
type MockOrderRepository struct {
	mock.Mock
}

func (m *MockOrderRepository) FindOrderByID(ctx context.Context, orderID string) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *MockOrderRepository) FindExpensesByOrderID(ctx context.Context, orderID string) ([]domain.Expense, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Expense), args.Error(1)
}

func (m *MockOrderRepository) ListOrdersByStatus(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]domain.Order, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) ListOrdersByCrew(ctx context.Context, crewID string, limit, offset int) ([]domain.Order, error) {
	args := m.Called(ctx, crewID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}

func (m *MockOrderRepository) SaveOrder(ctx context.Context, order domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *MockOrderRepository) ClaimOrder(ctx context.Context, orderID, crewID, actorID string, now time.Time) error {
	args := m.Called(ctx, orderID, crewID, actorID, now)
	return args.Error(0)
}

func (m *MockOrderRepository) UpdateOrderStatus(ctx context.Context, orderID string, from, to domain.OrderStatus, actorID string, now time.Time) error {
	args := m.Called(ctx, orderID, from, to, actorID, now)
	return args.Error(0)
}

func (m *MockOrderRepository) ReleaseOrder(ctx context.Context, orderID, crewID, actorID string, now time.Time) error {
	args := m.Called(ctx, orderID, crewID, actorID, now)
	return args.Error(0)
}

func (m *MockOrderRepository) ReassignOrder(ctx context.Context, orderID, fromCrew, toCrew, actorID string, now time.Time) error {
	args := m.Called(ctx, orderID, fromCrew, toCrew, actorID, now)
	return args.Error(0)
}

func (m *MockOrderRepository) AppendExpense(ctx context.Context, expense domain.Expense) (*domain.Financials, error) {
	args := m.Called(ctx, expense)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Financials), args.Error(1)
}

func (m *MockOrderRepository) UpdateFinalPrice(ctx context.Context, orderID string, price decimal.Decimal, actorID string, now time.Time) (*domain.Financials, error) {
	args := m.Called(ctx, orderID, price, actorID, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Financials), args.Error(1)
}

func (m *MockOrderRepository) FinalizeOrder(ctx context.Context, orderID string, expected domain.OrderStatus, crewShare, ownerShare decimal.Decimal, entries []domain.Transaction, balanceChanges map[string]decimal.Decimal, actorID string, now time.Time) error {
	args := m.Called(ctx, orderID, expected, crewShare, ownerShare, entries, balanceChanges, actorID, now)
	return args.Error(0)
}

// MockAccountRepository is a mock type for the AccountRepositoryFacade interface
type MockAccountRepository struct {
	mock.Mock
}

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) FindAccountByCrewID(ctx context.Context, crewID string) (*domain.Account, error) {
	args := m.Called(ctx, crewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) CrewDebt(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAccountRepository) ListTransactionsByAccountID(ctx context.Context, accountID string, limit, offset int) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockAccountRepository) FindTransactionsByOrderID(ctx context.Context, orderID string) ([]domain.Transaction, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) PostTransactions(ctx context.Context, entries []domain.Transaction, balanceChanges map[string]decimal.Decimal, actorID string, now time.Time) error {
	args := m.Called(ctx, entries, balanceChanges, actorID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) DeactivateAccount(ctx context.Context, accountID, actorID string, now time.Time) error {
	args := m.Called(ctx, accountID, actorID, now)
	return args.Error(0)
}

func (m *MockAccountRepository) FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, tx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) InsertTransactionsInTx(ctx context.Context, tx pgx.Tx, entries []domain.Transaction) error {
	args := m.Called(ctx, tx, entries)
	return args.Error(0)
}

func (m *MockAccountRepository) UpdateAccountBalancesInTx(ctx context.Context, tx pgx.Tx, balanceChanges map[string]decimal.Decimal, actorID string, now time.Time) error {
	args := m.Called(ctx, tx, balanceChanges, actorID, now)
	return args.Error(0)
}

// MockCrewRepository is a mock type for the CrewRepositoryFacade interface
type MockCrewRepository struct {
	mock.Mock
}

func (m *MockCrewRepository) SaveCrew(ctx context.Context, crew domain.Crew) error {
	args := m.Called(ctx, crew)
	return args.Error(0)
}

func (m *MockCrewRepository) FindCrewByID(ctx context.Context, crewID string) (*domain.Crew, error) {
	args := m.Called(ctx, crewID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Crew), args.Error(1)
}

func (m *MockCrewRepository) ListCrews(ctx context.Context, includeInactive bool) ([]domain.Crew, error) {
	args := m.Called(ctx, includeInactive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Crew), args.Error(1)
}

func (m *MockCrewRepository) DeactivateCrew(ctx context.Context, crewID, actorID string, now time.Time) error {
	args := m.Called(ctx, crewID, actorID, now)
	return args.Error(0)
}

// MockIncassationRepository is a mock type for the IncassationRepositoryFacade interface
type MockIncassationRepository struct {
	mock.Mock
}

func (m *MockIncassationRepository) SaveRequest(ctx context.Context, req domain.IncassationRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockIncassationRepository) FindRequestByID(ctx context.Context, requestID string) (*domain.IncassationRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IncassationRequest), args.Error(1)
}

func (m *MockIncassationRepository) ResolveRequest(ctx context.Context, requestID string, status domain.IncassationStatus, approverID string, now time.Time) error {
	args := m.Called(ctx, requestID, status, approverID, now)
	return args.Error(0)
}

func (m *MockIncassationRepository) ResolveAndPost(ctx context.Context, requestID string, status domain.IncassationStatus, entries []domain.Transaction, balanceChanges map[string]decimal.Decimal, approverID string, now time.Time) error {
	args := m.Called(ctx, requestID, status, entries, balanceChanges, approverID, now)
	return args.Error(0)
}

func (m *MockIncassationRepository) ListRequests(ctx context.Context, status *domain.IncassationStatus, limit, offset int) ([]domain.IncassationRequest, error) {
	args := m.Called(ctx, status, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.IncassationRequest), args.Error(1)
}

// MockNotifier is a mock type for the Notifier interface
type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) Notify(ctx context.Context, recipientID, message string) error {
	args := m.Called(ctx, recipientID, message)
	return args.Error(0)
}
