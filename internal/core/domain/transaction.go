package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionDirection indicates whether a ledger entry increases or
// decreases the account balance.
type TransactionDirection string

const (
	DirectionIncome  TransactionDirection = "INCOME"
	DirectionExpense TransactionDirection = "EXPENSE"
)

// TransactionCategory classifies a ledger entry.
type TransactionCategory string

const (
	CategoryEarnings    TransactionCategory = "EARNINGS"    // crew's share of an order, informational running total
	CategoryWithheld    TransactionCategory = "WITHHELD"    // company share retained by the crew; increases crew debt
	CategoryIncassation TransactionCategory = "INCASSATION" // confirmed cash handover; reduces crew debt
	CategoryTransfer    TransactionCategory = "TRANSFER"    // movement between company accounts
	CategoryOther       TransactionCategory = "OTHER"
)

// Transaction is a single append-only ledger entry. The ledger is the source
// of truth for every account balance.
type Transaction struct {
	TransactionID string               `json:"transactionID"`
	AccountID     string               `json:"accountID"`
	Amount        decimal.Decimal      `json:"amount"`
	Direction     TransactionDirection `json:"direction"`
	Category      TransactionCategory  `json:"category"`
	OrderID       *string              `json:"orderID,omitempty"`
	Comment       string               `json:"comment"`
	CreatedAt     time.Time            `json:"createdAt"`
	CreatedBy     string               `json:"createdBy"`
}

// SignedAmount returns the amount with the sign implied by the direction.
func (t Transaction) SignedAmount() decimal.Decimal {
	if t.Direction == DirectionExpense {
		return t.Amount.Neg()
	}
	return t.Amount
}
