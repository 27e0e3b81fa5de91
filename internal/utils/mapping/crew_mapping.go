package mapping

import (
	"github.com/fieldworks/crew_settlement_app/internal/core/domain"
	"github.com/fieldworks/crew_settlement_app/internal/models"
)

// ToModelCrew converts a domain crew to its DB representation.
func ToModelCrew(d domain.Crew) models.Crew {
	return models.Crew{
		CrewID:             d.CrewID,
		Name:               d.Name,
		LeadUserID:         d.LeadUserID,
		ProfitSharePercent: d.ProfitSharePercent,
		IsActive:           d.IsActive,
		AuditFields:        ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainCrew converts a DB crew row to the domain representation.
func ToDomainCrew(m models.Crew) domain.Crew {
	return domain.Crew{
		CrewID:             m.CrewID,
		Name:               m.Name,
		LeadUserID:         m.LeadUserID,
		ProfitSharePercent: m.ProfitSharePercent,
		IsActive:           m.IsActive,
		AuditFields:        ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelIncassationRequest converts a domain incassation request to its DB representation.
func ToModelIncassationRequest(d domain.IncassationRequest) models.IncassationRequest {
	return models.IncassationRequest{
		RequestID:    d.RequestID,
		CrewID:       d.CrewID,
		Amount:       d.Amount,
		Status:       string(d.Status),
		DebtSnapshot: d.DebtSnapshot,
		RequestedAt:  d.RequestedAt,
		RequestedBy:  d.RequestedBy,
		ResolvedAt:   d.ResolvedAt,
		ResolvedBy:   d.ResolvedBy,
	}
}

// ToDomainIncassationRequest converts a DB incassation row to the domain representation.
func ToDomainIncassationRequest(m models.IncassationRequest) domain.IncassationRequest {
	return domain.IncassationRequest{
		RequestID:    m.RequestID,
		CrewID:       m.CrewID,
		Amount:       m.Amount,
		Status:       domain.IncassationStatus(m.Status),
		DebtSnapshot: m.DebtSnapshot,
		RequestedAt:  m.RequestedAt,
		RequestedBy:  m.RequestedBy,
		ResolvedAt:   m.ResolvedAt,
		ResolvedBy:   m.ResolvedBy,
	}
}
