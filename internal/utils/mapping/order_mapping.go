package mapping

import (
	"github.com/fieldworks/crew_settlement_app/internal/core/domain"
	"github.com/fieldworks/crew_settlement_app/internal/models"
)

// ToModelOrder converts a domain order to its DB representation.
func ToModelOrder(d domain.Order) models.Order {
	return models.Order{
		OrderID:       d.OrderID,
		Status:        string(d.Status),
		CrewID:        d.CrewID,
		Description:   d.Description,
		FinalPrice:    d.Financials.FinalPrice,
		TotalExpenses: d.Financials.TotalExpenses,
		NetProfit:     d.Financials.NetProfit,
		CrewShare:     d.CrewShare,
		OwnerShare:    d.OwnerShare,
		SettledAt:     d.SettledAt,
		AuditFields:   ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainOrder converts a DB order row to the domain representation.
// Expense lines are not populated here; callers fetch them separately.
func ToDomainOrder(m models.Order) domain.Order {
	return domain.Order{
		OrderID:     m.OrderID,
		Status:      domain.OrderStatus(m.Status),
		CrewID:      m.CrewID,
		Description: m.Description,
		Financials: domain.Financials{
			FinalPrice:    m.FinalPrice,
			TotalExpenses: m.TotalExpenses,
			NetProfit:     m.NetProfit,
		},
		CrewShare:   m.CrewShare,
		OwnerShare:  m.OwnerShare,
		SettledAt:   m.SettledAt,
		AuditFields: ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelExpense converts a domain expense to its DB representation.
func ToModelExpense(d domain.Expense) models.Expense {
	return models.Expense{
		ExpenseID: d.ExpenseID,
		OrderID:   d.OrderID,
		Amount:    d.Amount,
		Category:  string(d.Category),
		Comment:   d.Comment,
		CreatedAt: d.CreatedAt,
		CreatedBy: d.CreatedBy,
	}
}

// ToDomainExpense converts a DB expense row to the domain representation.
func ToDomainExpense(m models.Expense) domain.Expense {
	return domain.Expense{
		ExpenseID: m.ExpenseID,
		OrderID:   m.OrderID,
		Amount:    m.Amount,
		Category:  domain.ExpenseCategory(m.Category),
		Comment:   m.Comment,
		CreatedAt: m.CreatedAt,
		CreatedBy: m.CreatedBy,
	}
}

// ToDomainExpenseSlice converts a slice of DB expense rows.
func ToDomainExpenseSlice(ms []models.Expense) []domain.Expense {
	ds := make([]domain.Expense, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainExpense(m)
	}
	return ds
}
