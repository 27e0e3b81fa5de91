package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account mirrors the accounts table.
type Account struct {
	AccountID string          `db:"account_id"`
	Name      string          `db:"name"`
	Kind      string          `db:"kind"`
	CrewID    *string         `db:"crew_id"`
	Balance   decimal.Decimal `db:"balance"`
	IsActive  bool            `db:"is_active"`
	AuditFields
}

// Transaction mirrors the transactions table. Rows are append-only.
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	AccountID     string          `db:"account_id"`
	Amount        decimal.Decimal `db:"amount"`
	Direction     string          `db:"direction"`
	Category      string          `db:"category"`
	OrderID       *string         `db:"order_id"`
	Comment       string          `db:"comment"`
	CreatedAt     time.Time       `db:"created_at"`
	CreatedBy     string          `db:"created_by"`
}
