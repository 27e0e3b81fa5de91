package services_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/fieldworks/crew_settlement_app/internal/apperrors"
	"github.com/fieldworks/crew_settlement_app/internal/core/domain"
	"github.com/fieldworks/crew_settlement_app/internal/core/services"
)

type SettlementServiceTestSuite struct {
	suite.Suite
	mockOrderRepo   *MockOrderRepository
	mockAccountRepo *MockAccountRepository
	mockCrewRepo    *MockCrewRepository
	mockNotifier    *MockNotifier
	service         *services.SettlementService
}

func (suite *SettlementServiceTestSuite) SetupTest() {
	suite.mockOrderRepo = new(MockOrderRepository)
	suite.mockAccountRepo = new(MockAccountRepository)
	suite.mockCrewRepo = new(MockCrewRepository)
	suite.mockNotifier = new(MockNotifier)
	suite.service = services.NewSettlementService(suite.mockOrderRepo, suite.mockAccountRepo, suite.mockCrewRepo, suite.mockNotifier)
}

func workOrder(orderID, crewID string) *domain.Order {
	return &domain.Order{
		OrderID: orderID,
		Status:  domain.OrderWork,
		CrewID:  &crewID,
		Financials: domain.Financials{
			FinalPrice:    decimal.NewFromInt(150000),
			TotalExpenses: decimal.NewFromInt(20000),
			NetProfit:     decimal.NewFromInt(130000),
		},
	}
}

func (suite *SettlementServiceTestSuite) TestFinalizeOrder_Success() {
	ctx := context.Background()
	orderID := uuid.NewString()
	crewID := uuid.NewString()
	actorID := uuid.NewString()
	accountID := uuid.NewString()

	crew := activeCrew(crewID) // 40 percent share
	account := &domain.Account{AccountID: accountID, Kind: domain.AccountCrewVirtual, CrewID: &crewID, IsActive: true}

	suite.mockOrderRepo.On("FindOrderByID", ctx, orderID).Return(workOrder(orderID, crewID), nil).Once()
	suite.mockCrewRepo.On("FindCrewByID", ctx, crewID).Return(crew, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCrewID", ctx, crewID).Return(account, nil).Once()
	suite.mockNotifier.On("Notify", ctx, crew.LeadUserID, mock.AnythingOfType("string")).Return(nil).Once()

	expectedCrewShare := decimal.NewFromInt(52000)
	expectedOwnerShare := decimal.NewFromInt(78000)

	suite.mockOrderRepo.On("FinalizeOrder", ctx, orderID, domain.OrderWork,
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(expectedCrewShare) }),
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(expectedOwnerShare) }),
		mock.MatchedBy(func(entries []domain.Transaction) bool {
			if len(entries) != 2 {
				return false
			}
			earnings, withheld := entries[0], entries[1]
			return earnings.Category == domain.CategoryEarnings &&
				earnings.Direction == domain.DirectionIncome &&
				earnings.Amount.Equal(expectedCrewShare) &&
				earnings.AccountID == accountID &&
				withheld.Category == domain.CategoryWithheld &&
				withheld.Direction == domain.DirectionExpense &&
				withheld.Amount.Equal(expectedOwnerShare) &&
				withheld.AccountID == accountID
		}),
		mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
			delta, ok := changes[accountID]
			return ok && delta.Equal(expectedCrewShare.Sub(expectedOwnerShare))
		}),
		actorID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.FinalizeOrder(ctx, orderID, actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.Equal(orderID, result.OrderID)
	suite.True(result.CrewShare.Equal(expectedCrewShare))
	suite.True(result.OwnerShare.Equal(expectedOwnerShare))
	suite.mockOrderRepo.AssertExpectations(suite.T())
	suite.mockNotifier.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestFinalizeOrder_ZeroProfitPostsNoEntries() {
	ctx := context.Background()
	orderID := uuid.NewString()
	crewID := uuid.NewString()
	actorID := uuid.NewString()
	accountID := uuid.NewString()

	crew := activeCrew(crewID)
	account := &domain.Account{AccountID: accountID, Kind: domain.AccountCrewVirtual, CrewID: &crewID, IsActive: true}

	// Expenses consume the full price. Both shares are zero and the ledger
	// only takes positive amounts, so the order must settle without entries.
	order := workOrder(orderID, crewID)
	order.Financials = domain.Financials{
		FinalPrice:    decimal.NewFromInt(20000),
		TotalExpenses: decimal.NewFromInt(20000),
		NetProfit:     decimal.Zero,
	}

	suite.mockOrderRepo.On("FindOrderByID", ctx, orderID).Return(order, nil).Once()
	suite.mockCrewRepo.On("FindCrewByID", ctx, crewID).Return(crew, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCrewID", ctx, crewID).Return(account, nil).Once()
	suite.mockNotifier.On("Notify", ctx, crew.LeadUserID, mock.AnythingOfType("string")).Return(nil).Once()

	suite.mockOrderRepo.On("FinalizeOrder", ctx, orderID, domain.OrderWork,
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.IsZero() }),
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.IsZero() }),
		mock.MatchedBy(func(entries []domain.Transaction) bool {
			return len(entries) == 0
		}),
		mock.MatchedBy(func(changes map[string]decimal.Decimal) bool {
			delta, ok := changes[accountID]
			return ok && delta.IsZero()
		}),
		actorID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.FinalizeOrder(ctx, orderID, actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.True(result.CrewShare.IsZero())
	suite.True(result.OwnerShare.IsZero())
	suite.mockOrderRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestFinalizeOrder_FullCrewSharePostsSingleEntry() {
	ctx := context.Background()
	orderID := uuid.NewString()
	crewID := uuid.NewString()
	actorID := uuid.NewString()
	accountID := uuid.NewString()

	crew := activeCrew(crewID)
	crew.ProfitSharePercent = decimal.NewFromInt(100)
	account := &domain.Account{AccountID: accountID, Kind: domain.AccountCrewVirtual, CrewID: &crewID, IsActive: true}

	suite.mockOrderRepo.On("FindOrderByID", ctx, orderID).Return(workOrder(orderID, crewID), nil).Once()
	suite.mockCrewRepo.On("FindCrewByID", ctx, crewID).Return(crew, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCrewID", ctx, crewID).Return(account, nil).Once()
	suite.mockNotifier.On("Notify", ctx, crew.LeadUserID, mock.AnythingOfType("string")).Return(nil).Once()

	net := decimal.NewFromInt(130000)
	suite.mockOrderRepo.On("FinalizeOrder", ctx, orderID, domain.OrderWork,
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(net) }),
		mock.MatchedBy(func(d decimal.Decimal) bool { return d.IsZero() }),
		mock.MatchedBy(func(entries []domain.Transaction) bool {
			// The zero owner share drops the Withheld entry.
			return len(entries) == 1 &&
				entries[0].Category == domain.CategoryEarnings &&
				entries[0].Amount.Equal(net)
		}),
		mock.Anything,
		actorID, mock.AnythingOfType("time.Time")).Return(nil).Once()

	result, err := suite.service.FinalizeOrder(ctx, orderID, actorID)

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.True(result.CrewShare.Equal(net))
	suite.mockOrderRepo.AssertExpectations(suite.T())
}

func (suite *SettlementServiceTestSuite) TestFinalizeOrder_AlreadySettled() {
	ctx := context.Background()
	orderID := uuid.NewString()
	crewID := uuid.NewString()

	order := workOrder(orderID, crewID)
	order.Status = domain.OrderDone
	now := order.CreatedAt
	order.SettledAt = &now

	suite.mockOrderRepo.On("FindOrderByID", ctx, orderID).Return(order, nil).Once()

	result, err := suite.service.FinalizeOrder(ctx, orderID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(result)
	suite.mockOrderRepo.AssertNotCalled(suite.T(), "FinalizeOrder",
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestFinalizeOrder_NotInWork() {
	ctx := context.Background()
	orderID := uuid.NewString()
	crewID := uuid.NewString()

	order := workOrder(orderID, crewID)
	order.Status = domain.OrderProcessing

	suite.mockOrderRepo.On("FindOrderByID", ctx, orderID).Return(order, nil).Once()

	result, err := suite.service.FinalizeOrder(ctx, orderID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(result)
}

func (suite *SettlementServiceTestSuite) TestFinalizeOrder_NoCrew() {
	ctx := context.Background()
	orderID := uuid.NewString()

	order := workOrder(orderID, "")
	order.CrewID = nil

	suite.mockOrderRepo.On("FindOrderByID", ctx, orderID).Return(order, nil).Once()

	result, err := suite.service.FinalizeOrder(ctx, orderID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(result)
}

func (suite *SettlementServiceTestSuite) TestFinalizeOrder_LostRace() {
	ctx := context.Background()
	orderID := uuid.NewString()
	crewID := uuid.NewString()
	accountID := uuid.NewString()

	crew := activeCrew(crewID)
	account := &domain.Account{AccountID: accountID, Kind: domain.AccountCrewVirtual, CrewID: &crewID, IsActive: true}

	suite.mockOrderRepo.On("FindOrderByID", ctx, orderID).Return(workOrder(orderID, crewID), nil).Once()
	suite.mockCrewRepo.On("FindCrewByID", ctx, crewID).Return(crew, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCrewID", ctx, crewID).Return(account, nil).Once()
	suite.mockOrderRepo.On("FinalizeOrder", ctx, orderID, domain.OrderWork,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.ErrConflict).Once()

	result, err := suite.service.FinalizeOrder(ctx, orderID, uuid.NewString())

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrConflict)
	suite.Nil(result)
	suite.mockNotifier.AssertNotCalled(suite.T(), "Notify", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SettlementServiceTestSuite) TestFinalizeOrder_NotificationFailureIsIgnored() {
	ctx := context.Background()
	orderID := uuid.NewString()
	crewID := uuid.NewString()
	accountID := uuid.NewString()

	crew := activeCrew(crewID)
	account := &domain.Account{AccountID: accountID, Kind: domain.AccountCrewVirtual, CrewID: &crewID, IsActive: true}

	suite.mockOrderRepo.On("FindOrderByID", ctx, orderID).Return(workOrder(orderID, crewID), nil).Once()
	suite.mockCrewRepo.On("FindCrewByID", ctx, crewID).Return(crew, nil).Once()
	suite.mockAccountRepo.On("FindAccountByCrewID", ctx, crewID).Return(account, nil).Once()
	suite.mockOrderRepo.On("FinalizeOrder", ctx, orderID, domain.OrderWork,
		mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(nil).Once()
	suite.mockNotifier.On("Notify", ctx, crew.LeadUserID, mock.AnythingOfType("string")).
		Return(context.DeadlineExceeded).Once()

	result, err := suite.service.FinalizeOrder(ctx, orderID, uuid.NewString())

	suite.Require().NoError(err)
	suite.Require().NotNil(result)
	suite.mockNotifier.AssertExpectations(suite.T())
}

func TestSettlementServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SettlementServiceTestSuite))
}
