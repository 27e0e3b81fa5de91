package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ExpenseCategory classifies an order expense.
type ExpenseCategory string

const (
	ExpenseMaterials ExpenseCategory = "MATERIALS"
	ExpenseTransport ExpenseCategory = "TRANSPORT"
	ExpenseTools     ExpenseCategory = "TOOLS"
	ExpenseOther     ExpenseCategory = "OTHER"
)

// Expense is a single order expense line. Expenses are append-only: once
// written they are never edited or deleted.
type Expense struct {
	ExpenseID string          `json:"expenseID"`
	OrderID   string          `json:"orderID"`
	Amount    decimal.Decimal `json:"amount"` // always > 0
	Category  ExpenseCategory `json:"category"`
	Comment   string          `json:"comment"`
	CreatedAt time.Time       `json:"createdAt"`
	CreatedBy string          `json:"createdBy"`
}
