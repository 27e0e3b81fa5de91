package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fieldworks/crew_settlement_app/internal/apperrors"
	"github.com/fieldworks/crew_settlement_app/internal/core/domain"
	portssvc "github.com/fieldworks/crew_settlement_app/internal/core/ports/services"
	"github.com/fieldworks/crew_settlement_app/internal/dto"
	"github.com/fieldworks/crew_settlement_app/internal/handlers"
	"github.com/fieldworks/crew_settlement_app/internal/middleware" // Needed for JWT secret
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock OrderService ---
type MockOrderService struct {
	mock.Mock
}

func (m *MockOrderService) GetOrder(ctx context.Context, orderID string) (*domain.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *MockOrderService) ListPool(ctx context.Context, params dto.ListOrdersParams) ([]domain.Order, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}
func (m *MockOrderService) ListCrewOrders(ctx context.Context, crewID string, params dto.ListOrdersParams) ([]domain.Order, error) {
	args := m.Called(ctx, crewID, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Order), args.Error(1)
}
func (m *MockOrderService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest, actorID string) (*domain.Order, error) {
	args := m.Called(ctx, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *MockOrderService) Claim(ctx context.Context, orderID, crewID, actorID string) (*domain.Order, error) {
	args := m.Called(ctx, orderID, crewID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}
func (m *MockOrderService) Transition(ctx context.Context, orderID string, to domain.OrderStatus, role domain.Role, actorID string) error {
	args := m.Called(ctx, orderID, to, role, actorID)
	return args.Error(0)
}
func (m *MockOrderService) Refuse(ctx context.Context, orderID, crewID, actorID string) error {
	args := m.Called(ctx, orderID, crewID, actorID)
	return args.Error(0)
}
func (m *MockOrderService) Transfer(ctx context.Context, orderID, fromCrew, toCrew, actorID string) error {
	args := m.Called(ctx, orderID, fromCrew, toCrew, actorID)
	return args.Error(0)
}
func (m *MockOrderService) AddExpense(ctx context.Context, orderID string, req dto.AddExpenseRequest, actorID string) (*domain.Financials, error) {
	args := m.Called(ctx, orderID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Financials), args.Error(1)
}
func (m *MockOrderService) SetFinalPrice(ctx context.Context, orderID string, req dto.SetFinalPriceRequest, actorID string) (*domain.Financials, error) {
	args := m.Called(ctx, orderID, req, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Financials), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.OrderSvcFacade = (*MockOrderService)(nil)

// --- Mock SettlementService ---
type MockSettlementService struct {
	mock.Mock
}

func (m *MockSettlementService) FinalizeOrder(ctx context.Context, orderID, actorID string) (*dto.SettlementResult, error) {
	args := m.Called(ctx, orderID, actorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dto.SettlementResult), args.Error(1)
}

// Ensure mock implements the interface
var _ portssvc.SettlementSvcFacade = (*MockSettlementService)(nil)

// --- Test Suite ---
type OrderHandlerTestSuite struct {
	suite.Suite
	router                *gin.Engine
	mockOrderService      *MockOrderService
	mockSettlementService *MockSettlementService
	jwtSecret             string // Store JWT secret for token generation
}

// generateTestToken creates a dummy JWT for testing.
func (suite *OrderHandlerTestSuite) generateTestToken(userID string, role domain.Role) string {
	claims := middleware.AccessClaims{
		Role: string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "csa-test",
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(1 * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedString, err := token.SignedString([]byte(suite.jwtSecret))
	if err != nil {
		suite.FailNow("Failed to sign test token", err.Error())
	}
	return signedString
}

func (suite *OrderHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	dto.RegisterCustomValidations()
	suite.router = gin.New()
	suite.jwtSecret = "test-secret-key-that-is-long-enough" // Use a test secret

	// Use the actual AuthMiddleware
	suite.router.Use(middleware.AuthMiddleware(suite.jwtSecret))

	suite.mockOrderService = new(MockOrderService)
	suite.mockSettlementService = new(MockSettlementService)

	// Register routes - requires the actual registration function
	v1 := suite.router.Group("/api/v1") // Mimic grouping
	handlers.RegisterOrderRoutes(v1, suite.mockOrderService, suite.mockSettlementService)
}

func (suite *OrderHandlerTestSuite) authedRequest(method, url string, body any, userID string, role domain.Role) *http.Request {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		suite.Require().NoError(err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, _ := http.NewRequest(method, url, reader)
	req.Header.Set("Authorization", "Bearer "+suite.generateTestToken(userID, role))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// --- Test Cases ---

func (suite *OrderHandlerTestSuite) TestClaimOrder_Success() {
	orderID := uuid.NewString()
	crewID := uuid.NewString()
	actorID := uuid.NewString()

	claimedOrder := &domain.Order{
		OrderID:     orderID,
		Status:      domain.OrderProcessing,
		CrewID:      &crewID,
		Description: "Boiler replacement",
		Financials: domain.Financials{
			FinalPrice:    decimal.NewFromInt(150000),
			TotalExpenses: decimal.Zero,
			NetProfit:     decimal.NewFromInt(150000),
		},
	}

	suite.mockOrderService.On("Claim",
		mock.AnythingOfType("*context.valueCtx"), // Context will have values from middleware
		orderID,
		crewID,
		actorID, // Expect the user ID from the token
	).Return(claimedOrder, nil).Once()

	url := fmt.Sprintf("/api/v1/orders/%s/claim", orderID)
	req := suite.authedRequest(http.MethodPost, url, dto.ClaimOrderRequest{CrewID: crewID}, actorID, domain.RoleCrew)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code, "Expected status OK")

	var responseBody dto.OrderResponse
	err := json.Unmarshal(w.Body.Bytes(), &responseBody)
	suite.NoError(err, "Failed to unmarshal response body")
	suite.Equal(orderID, responseBody.OrderID)
	suite.Equal(domain.OrderProcessing, responseBody.Status)
	suite.Require().NotNil(responseBody.CrewID)
	suite.Equal(crewID, *responseBody.CrewID)

	suite.mockOrderService.AssertExpectations(suite.T())
}

func (suite *OrderHandlerTestSuite) TestClaimOrder_AlreadyClaimed() {
	orderID := uuid.NewString()
	crewID := uuid.NewString()
	actorID := uuid.NewString()

	suite.mockOrderService.On("Claim",
		mock.AnythingOfType("*context.valueCtx"),
		orderID,
		crewID,
		actorID,
	).Return(nil, apperrors.ErrConflict).Once()

	url := fmt.Sprintf("/api/v1/orders/%s/claim", orderID)
	req := suite.authedRequest(http.MethodPost, url, dto.ClaimOrderRequest{CrewID: crewID}, actorID, domain.RoleCrew)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code, "Expected status Conflict when the claim race is lost")
	suite.mockOrderService.AssertExpectations(suite.T())
}

func (suite *OrderHandlerTestSuite) TestSetOrderStatus_ForbiddenForRole() {
	orderID := uuid.NewString()
	actorID := uuid.NewString()

	suite.mockOrderService.On("Transition",
		mock.AnythingOfType("*context.valueCtx"),
		orderID,
		domain.OrderCanceled,
		domain.RoleCrew, // Role comes from the token, not the body
		actorID,
	).Return(apperrors.ErrForbidden).Once()

	url := fmt.Sprintf("/api/v1/orders/%s/status", orderID)
	req := suite.authedRequest(http.MethodPut, url, dto.SetOrderStatusRequest{Status: domain.OrderCanceled}, actorID, domain.RoleCrew)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusForbidden, w.Code, "Expected status Forbidden")
	suite.mockOrderService.AssertExpectations(suite.T())
}

func (suite *OrderHandlerTestSuite) TestSetOrderStatus_Success() {
	orderID := uuid.NewString()
	actorID := uuid.NewString()

	suite.mockOrderService.On("Transition",
		mock.AnythingOfType("*context.valueCtx"),
		orderID,
		domain.OrderWork,
		domain.RoleCrew,
		actorID,
	).Return(nil).Once()

	url := fmt.Sprintf("/api/v1/orders/%s/status", orderID)
	req := suite.authedRequest(http.MethodPut, url, dto.SetOrderStatusRequest{Status: domain.OrderWork}, actorID, domain.RoleCrew)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNoContent, w.Code)
	suite.mockOrderService.AssertExpectations(suite.T())
}

func (suite *OrderHandlerTestSuite) TestFinalizeOrder_Success() {
	orderID := uuid.NewString()
	actorID := uuid.NewString()

	expectedResult := &dto.SettlementResult{
		OrderID:    orderID,
		CrewShare:  decimal.NewFromInt(52000),
		OwnerShare: decimal.NewFromInt(78000),
	}

	suite.mockSettlementService.On("FinalizeOrder",
		mock.AnythingOfType("*context.valueCtx"),
		orderID,
		actorID,
	).Return(expectedResult, nil).Once()

	url := fmt.Sprintf("/api/v1/orders/%s/finalize", orderID)
	req := suite.authedRequest(http.MethodPost, url, nil, actorID, domain.RoleOwner)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code, "Expected status OK")

	var responseBody dto.SettlementResult
	err := json.Unmarshal(w.Body.Bytes(), &responseBody)
	suite.NoError(err, "Failed to unmarshal response body")
	suite.Equal(orderID, responseBody.OrderID)
	suite.True(expectedResult.CrewShare.Equal(responseBody.CrewShare))
	suite.True(expectedResult.OwnerShare.Equal(responseBody.OwnerShare))

	suite.mockSettlementService.AssertExpectations(suite.T())
	suite.mockOrderService.AssertNotCalled(suite.T(), "Transition") // Ensure unrelated service methods not called
}

func (suite *OrderHandlerTestSuite) TestFinalizeOrder_AlreadySettled() {
	orderID := uuid.NewString()
	actorID := uuid.NewString()

	suite.mockSettlementService.On("FinalizeOrder",
		mock.AnythingOfType("*context.valueCtx"),
		orderID,
		actorID,
	).Return(nil, apperrors.ErrConflict).Once()

	url := fmt.Sprintf("/api/v1/orders/%s/finalize", orderID)
	req := suite.authedRequest(http.MethodPost, url, nil, actorID, domain.RoleOwner)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code, "Expected status Conflict for repeated settlement")
	suite.mockSettlementService.AssertExpectations(suite.T())
}

func (suite *OrderHandlerTestSuite) TestGetOrder_NotFound() {
	orderID := uuid.NewString()
	actorID := uuid.NewString()

	suite.mockOrderService.On("GetOrder",
		mock.AnythingOfType("*context.valueCtx"),
		orderID,
	).Return(nil, apperrors.ErrNotFound).Once()

	url := fmt.Sprintf("/api/v1/orders/%s", orderID)
	req := suite.authedRequest(http.MethodGet, url, nil, actorID, domain.RoleManager)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockOrderService.AssertExpectations(suite.T())
}

func (suite *OrderHandlerTestSuite) TestAddExpense_OrderLocked() {
	orderID := uuid.NewString()
	actorID := uuid.NewString()
	reqBody := dto.AddExpenseRequest{
		Amount:   decimal.NewFromInt(5000),
		Category: domain.ExpenseMaterials,
		Comment:  "pipe fittings",
	}

	suite.mockOrderService.On("AddExpense",
		mock.AnythingOfType("*context.valueCtx"),
		orderID,
		mock.MatchedBy(func(r dto.AddExpenseRequest) bool {
			return r.Amount.Equal(reqBody.Amount) && r.Category == reqBody.Category
		}),
		actorID,
	).Return(nil, apperrors.ErrOrderLocked).Once()

	url := fmt.Sprintf("/api/v1/orders/%s/expenses", orderID)
	req := suite.authedRequest(http.MethodPost, url, reqBody, actorID, domain.RoleCrew)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusConflict, w.Code, "Expected status Conflict for a locked order")
	suite.mockOrderService.AssertExpectations(suite.T())
}

func (suite *OrderHandlerTestSuite) TestListPool_Success() {
	actorID := uuid.NewString()
	expectedOrders := []domain.Order{
		{
			OrderID:     uuid.NewString(),
			Status:      domain.OrderNew,
			Description: "Radiator install",
			Financials: domain.Financials{
				FinalPrice: decimal.NewFromInt(80000),
				NetProfit:  decimal.NewFromInt(80000),
			},
		},
		{
			OrderID:     uuid.NewString(),
			Status:      domain.OrderNew,
			Description: "Leak repair",
			Financials: domain.Financials{
				FinalPrice: decimal.NewFromInt(30000),
				NetProfit:  decimal.NewFromInt(30000),
			},
		},
	}

	suite.mockOrderService.On("ListPool",
		mock.AnythingOfType("*context.valueCtx"),
		mock.MatchedBy(func(p dto.ListOrdersParams) bool {
			return p.Limit == 10 && p.Offset == 0
		}),
	).Return(expectedOrders, nil).Once()

	req := suite.authedRequest(http.MethodGet, "/api/v1/orders/pool?limit=10", nil, actorID, domain.RoleCrew)

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusOK, w.Code)

	var responseBody []dto.OrderResponse
	err := json.Unmarshal(w.Body.Bytes(), &responseBody)
	suite.NoError(err, "Failed to unmarshal response body")
	suite.Len(responseBody, len(expectedOrders))
	if len(responseBody) == len(expectedOrders) {
		suite.Equal(expectedOrders[0].OrderID, responseBody[0].OrderID)
		suite.Equal(expectedOrders[1].OrderID, responseBody[1].OrderID)
	}

	suite.mockOrderService.AssertExpectations(suite.T())
}

func (suite *OrderHandlerTestSuite) TestClaimOrder_Unauthorized() {
	orderID := uuid.NewString()

	payload, _ := json.Marshal(dto.ClaimOrderRequest{CrewID: uuid.NewString()})
	url := fmt.Sprintf("/api/v1/orders/%s/claim", orderID)
	req, _ := http.NewRequest(http.MethodPost, url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	// No Authorization header

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)

	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockOrderService.AssertNotCalled(suite.T(), "Claim")
}

// --- Run Test Suite ---
func TestOrderHandler(t *testing.T) {
	suite.Run(t, new(OrderHandlerTestSuite))
}
