package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fieldworks/crew_settlement_app/internal/core/domain"
)

// CreateAccountRequest defines the data needed to create a new account.
type CreateAccountRequest struct {
	Name   string             `json:"name" binding:"required"`
	Kind   domain.AccountKind `json:"kind" binding:"required,oneof=COMPANY_CASH BANK SAFE CREW_VIRTUAL"`
	CrewID *string            `json:"crewID"` // required for CREW_VIRTUAL
}

// PostTransactionRequest defines a single ledger posting.
type PostTransactionRequest struct {
	AccountID string                      `json:"accountID" binding:"required"`
	Amount    decimal.Decimal             `json:"amount" binding:"dpositive"`
	Direction domain.TransactionDirection `json:"direction" binding:"required,oneof=INCOME EXPENSE"`
	Category  domain.TransactionCategory  `json:"category" binding:"required,oneof=EARNINGS WITHHELD INCASSATION TRANSFER OTHER"`
	OrderID   *string                     `json:"orderID"`
	Comment   string                      `json:"comment"`
}

// TransferRequest moves an amount between two accounts.
type TransferRequest struct {
	FromAccountID string          `json:"fromAccountID" binding:"required"`
	ToAccountID   string          `json:"toAccountID" binding:"required,nefield=FromAccountID"`
	Amount        decimal.Decimal `json:"amount" binding:"dpositive"`
	Comment       string          `json:"comment"`
}

// ListTransactionsParams defines query parameters for ledger listings.
type ListTransactionsParams struct {
	Limit  int `form:"limit,default=20"`
	Offset int `form:"offset,default=0"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID string             `json:"accountID"`
	Name      string             `json:"name"`
	Kind      domain.AccountKind `json:"kind"`
	CrewID    *string            `json:"crewID,omitempty"`
	Balance   decimal.Decimal    `json:"balance"`
	IsActive  bool               `json:"isActive"`
}

// TransactionResponse defines the data returned for a ledger entry.
type TransactionResponse struct {
	TransactionID string                      `json:"transactionID"`
	AccountID     string                      `json:"accountID"`
	Amount        decimal.Decimal             `json:"amount"`
	Direction     domain.TransactionDirection `json:"direction"`
	Category      domain.TransactionCategory  `json:"category"`
	OrderID       *string                     `json:"orderID,omitempty"`
	Comment       string                      `json:"comment"`
	CreatedAt     time.Time                   `json:"createdAt"`
	CreatedBy     string                      `json:"createdBy"`
}

// CrewDebtResponse reports a crew's current debt to the company.
type CrewDebtResponse struct {
	CrewID string          `json:"crewID"`
	Debt   decimal.Decimal `json:"debt"`
}

// ToAccountResponse converts a domain account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID: a.AccountID,
		Name:      a.Name,
		Kind:      a.Kind,
		CrewID:    a.CrewID,
		Balance:   a.Balance,
		IsActive:  a.IsActive,
	}
}

// ToAccountResponses converts a slice of domain accounts.
func ToAccountResponses(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ToTransactionResponse converts a domain ledger entry to its response DTO.
func ToTransactionResponse(t domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		AccountID:     t.AccountID,
		Amount:        t.Amount,
		Direction:     t.Direction,
		Category:      t.Category,
		OrderID:       t.OrderID,
		Comment:       t.Comment,
		CreatedAt:     t.CreatedAt,
		CreatedBy:     t.CreatedBy,
	}
}

// ToTransactionResponses converts a slice of domain ledger entries.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i, t := range txns {
		res[i] = ToTransactionResponse(t)
	}
	return res
}
