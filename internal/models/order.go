package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order mirrors the orders table. The financial record is stored flat as
// final_price/total_expenses/net_profit; expense lines live in their own table.
type Order struct {
	OrderID       string           `db:"order_id"`
	Status        string           `db:"status"`
	CrewID        *string          `db:"crew_id"`
	Description   string           `db:"description"`
	FinalPrice    decimal.Decimal  `db:"final_price"`
	TotalExpenses decimal.Decimal  `db:"total_expenses"`
	NetProfit     decimal.Decimal  `db:"net_profit"`
	CrewShare     *decimal.Decimal `db:"crew_share"`
	OwnerShare    *decimal.Decimal `db:"owner_share"`
	SettledAt     *time.Time       `db:"settled_at"`
	AuditFields
}

// Expense mirrors the expenses table. Rows are append-only.
type Expense struct {
	ExpenseID string          `db:"expense_id"`
	OrderID   string          `db:"order_id"`
	Amount    decimal.Decimal `db:"amount"`
	Category  string          `db:"category"`
	Comment   string          `db:"comment"`
	CreatedAt time.Time       `db:"created_at"`
	CreatedBy string          `db:"created_by"`
}
