package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/fieldworks/crew_settlement_app/internal/core/domain"
)

// CreateCrewRequest defines the data needed to register a crew.
type CreateCrewRequest struct {
	Name               string          `json:"name" binding:"required"`
	LeadUserID         string          `json:"leadUserID" binding:"required"`
	ProfitSharePercent decimal.Decimal `json:"profitSharePercent" binding:"dnonnegative"`
}

// CrewResponse defines the data returned for a crew.
type CrewResponse struct {
	CrewID             string          `json:"crewID"`
	Name               string          `json:"name"`
	LeadUserID         string          `json:"leadUserID"`
	ProfitSharePercent decimal.Decimal `json:"profitSharePercent"`
	IsActive           bool            `json:"isActive"`
	CreatedAt          time.Time       `json:"createdAt"`
}

// ToCrewResponse converts a domain crew to its response DTO.
func ToCrewResponse(c *domain.Crew) CrewResponse {
	return CrewResponse{
		CrewID:             c.CrewID,
		Name:               c.Name,
		LeadUserID:         c.LeadUserID,
		ProfitSharePercent: c.ProfitSharePercent,
		IsActive:           c.IsActive,
		CreatedAt:          c.CreatedAt,
	}
}

// ToCrewResponses converts a slice of domain crews.
func ToCrewResponses(crews []domain.Crew) []CrewResponse {
	res := make([]CrewResponse, len(crews))
	for i := range crews {
		res[i] = ToCrewResponse(&crews[i])
	}
	return res
}
