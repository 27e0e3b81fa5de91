package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fieldworks/crew_settlement_app/internal/core/domain"
)

// CreateOrderRequest defines the data needed to create a new order.
type CreateOrderRequest struct {
	Description string          `json:"description" binding:"required"`
	FinalPrice  decimal.Decimal `json:"finalPrice" binding:"dnonnegative"`
}

// ClaimOrderRequest identifies the claiming crew.
type ClaimOrderRequest struct {
	CrewID string `json:"crewID" binding:"required"`
}

// SetOrderStatusRequest carries the requested status edge.
type SetOrderStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required,oneof=NEW PROCESSING WORK DONE CANCELED"`
}

// RefuseOrderRequest identifies the refusing crew.
type RefuseOrderRequest struct {
	CrewID string `json:"crewID" binding:"required"`
}

// TransferOrderRequest reassigns an order between crews.
type TransferOrderRequest struct {
	FromCrewID string `json:"fromCrewID" binding:"required"`
	ToCrewID   string `json:"toCrewID" binding:"required"`
}

// AddExpenseRequest defines a new expense line.
type AddExpenseRequest struct {
	Amount   decimal.Decimal        `json:"amount" binding:"dpositive"`
	Category domain.ExpenseCategory `json:"category" binding:"required,oneof=MATERIALS TRANSPORT TOOLS OTHER"`
	Comment  string                 `json:"comment"`
}

// SetFinalPriceRequest overwrites the order's final price.
type SetFinalPriceRequest struct {
	Price decimal.Decimal `json:"price" binding:"dpositive"`
}

// ListOrdersParams defines query parameters for order listings.
type ListOrdersParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// ExpenseResponse mirrors a single expense line.
type ExpenseResponse struct {
	ExpenseID string                 `json:"expenseID"`
	Amount    decimal.Decimal        `json:"amount"`
	Category  domain.ExpenseCategory `json:"category"`
	Comment   string                 `json:"comment"`
	CreatedAt time.Time              `json:"createdAt"`
	CreatedBy string                 `json:"createdBy"`
}

// FinancialsResponse mirrors the order's financial record.
type FinancialsResponse struct {
	FinalPrice    decimal.Decimal   `json:"finalPrice"`
	TotalExpenses decimal.Decimal   `json:"totalExpenses"`
	NetProfit     decimal.Decimal   `json:"netProfit"`
	Expenses      []ExpenseResponse `json:"expenses,omitempty"`
}

// OrderResponse defines the data returned for an order.
type OrderResponse struct {
	OrderID     string             `json:"orderID"`
	Status      domain.OrderStatus `json:"status"`
	CrewID      *string            `json:"crewID,omitempty"`
	Description string             `json:"description"`
	Financials  FinancialsResponse `json:"financials"`
	CrewShare   *decimal.Decimal   `json:"crewShare,omitempty"`
	OwnerShare  *decimal.Decimal   `json:"ownerShare,omitempty"`
	SettledAt   *time.Time         `json:"settledAt,omitempty"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// SettlementResult carries the profit split back to the caller.
type SettlementResult struct {
	OrderID    string          `json:"orderID"`
	CrewShare  decimal.Decimal `json:"crewShare"`
	OwnerShare decimal.Decimal `json:"ownerShare"`
}

// ToExpenseResponse converts a domain expense to its response DTO.
func ToExpenseResponse(e domain.Expense) ExpenseResponse {
	return ExpenseResponse{
		ExpenseID: e.ExpenseID,
		Amount:    e.Amount,
		Category:  e.Category,
		Comment:   e.Comment,
		CreatedAt: e.CreatedAt,
		CreatedBy: e.CreatedBy,
	}
}

// ToFinancialsResponse converts a domain financial record to its response DTO.
func ToFinancialsResponse(f domain.Financials) FinancialsResponse {
	resp := FinancialsResponse{
		FinalPrice:    f.FinalPrice,
		TotalExpenses: f.TotalExpenses,
		NetProfit:     f.NetProfit,
	}
	if len(f.Expenses) > 0 {
		resp.Expenses = make([]ExpenseResponse, len(f.Expenses))
		for i, e := range f.Expenses {
			resp.Expenses[i] = ToExpenseResponse(e)
		}
	}
	return resp
}

// ToOrderResponse converts a domain order to its response DTO.
func ToOrderResponse(o *domain.Order) OrderResponse {
	return OrderResponse{
		OrderID:     o.OrderID,
		Status:      o.Status,
		CrewID:      o.CrewID,
		Description: o.Description,
		Financials:  ToFinancialsResponse(o.Financials),
		CrewShare:   o.CrewShare,
		OwnerShare:  o.OwnerShare,
		SettledAt:   o.SettledAt,
		CreatedAt:   o.CreatedAt,
	}
}

// ToOrderResponses converts a slice of domain orders.
func ToOrderResponses(orders []domain.Order) []OrderResponse {
	res := make([]OrderResponse, len(orders))
	for i := range orders {
		res[i] = ToOrderResponse(&orders[i])
	}
	return res
}
