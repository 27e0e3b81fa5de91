package domain

import (
	"github.com/shopspring/decimal"
)

// AccountKind distinguishes physical cash boxes from crew virtual accounts.
type AccountKind string

const (
	AccountCompanyCash AccountKind = "COMPANY_CASH"
	AccountBank        AccountKind = "BANK"
	AccountSafe        AccountKind = "SAFE"
	AccountCrewVirtual AccountKind = "CREW_VIRTUAL"
)

// IsValid reports whether k is one of the known kinds.
func (k AccountKind) IsValid() bool {
	switch k {
	case AccountCompanyCash, AccountBank, AccountSafe, AccountCrewVirtual:
		return true
	}
	return false
}

// Account is a named ledger balance. Balance is a materialized projection of
// the account's transactions: every balance write happens in the same
// database transaction as the ledger insert that explains it.
type Account struct {
	AccountID string          `json:"accountID"`
	Name      string          `json:"name"`
	Kind      AccountKind     `json:"kind"`
	CrewID    *string         `json:"crewID"` // set only for CREW_VIRTUAL accounts
	Balance   decimal.Decimal `json:"balance"`
	IsActive  bool            `json:"isActive"`
	AuditFields
}
