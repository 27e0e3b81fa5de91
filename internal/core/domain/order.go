package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus indicates where an order is in its lifecycle.
type OrderStatus string

const (
	OrderNew        OrderStatus = "NEW"
	OrderProcessing OrderStatus = "PROCESSING"
	OrderWork       OrderStatus = "WORK"
	OrderDone       OrderStatus = "DONE"
	OrderCanceled   OrderStatus = "CANCELED"
)

// IsLocked reports whether the order reached a terminal status. Locked orders
// accept no further financial or status mutations.
func (s OrderStatus) IsLocked() bool {
	return s == OrderDone || s == OrderCanceled
}

// IsValid reports whether s is one of the known statuses.
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderNew, OrderProcessing, OrderWork, OrderDone, OrderCanceled:
		return true
	}
	return false
}

// Financials is the per-order financial record. It is constructed complete at
// order creation time and recomputed as a whole on every mutation, so
// NetProfit always equals FinalPrice minus TotalExpenses.
type Financials struct {
	FinalPrice    decimal.Decimal `json:"finalPrice"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	NetProfit     decimal.Decimal `json:"netProfit"`
	Expenses      []Expense       `json:"expenses,omitempty"`
}

// NewFinancials builds a financial record for a freshly created order.
func NewFinancials(finalPrice decimal.Decimal) Financials {
	return Financials{
		FinalPrice:    finalPrice,
		TotalExpenses: decimal.Zero,
		NetProfit:     finalPrice,
	}
}

// WithExpense returns the record with one more expense applied.
func (f Financials) WithExpense(amount decimal.Decimal) Financials {
	f.TotalExpenses = f.TotalExpenses.Add(amount)
	f.NetProfit = f.FinalPrice.Sub(f.TotalExpenses)
	return f
}

// WithFinalPrice returns the record with the final price replaced.
func (f Financials) WithFinalPrice(price decimal.Decimal) Financials {
	f.FinalPrice = price
	f.NetProfit = price.Sub(f.TotalExpenses)
	return f
}

// Order represents a field-service work order.
type Order struct {
	OrderID     string           `json:"orderID"`
	Status      OrderStatus      `json:"status"`
	CrewID      *string          `json:"crewID"` // nil until claimed
	Description string           `json:"description"`
	Financials  Financials       `json:"financials"`
	CrewShare   *decimal.Decimal `json:"crewShare,omitempty"`  // set by settlement
	OwnerShare  *decimal.Decimal `json:"ownerShare,omitempty"` // set by settlement
	SettledAt   *time.Time       `json:"settledAt,omitempty"`
	AuditFields
}

// Settled reports whether the order has already been through settlement.
func (o *Order) Settled() bool {
	return o.SettledAt != nil
}
