package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fieldworks/crew_settlement_app/internal/core/ports/services"
	"github.com/fieldworks/crew_settlement_app/internal/dto"
	"github.com/fieldworks/crew_settlement_app/internal/middleware"
)

// crewHandler handles HTTP requests for crew management.
type crewHandler struct {
	crewService   portssvc.CrewSvcFacade
	orderService  portssvc.OrderSvcFacade
	ledgerService portssvc.LedgerSvcFacade
}

func newCrewHandler(cs portssvc.CrewSvcFacade, os portssvc.OrderSvcFacade, ls portssvc.LedgerSvcFacade) *crewHandler {
	return &crewHandler{
		crewService:   cs,
		orderService:  os,
		ledgerService: ls,
	}
}

// RegisterCrewRoutes registers routes related to crews.
func RegisterCrewRoutes(rg *gin.RouterGroup, cs portssvc.CrewSvcFacade, os portssvc.OrderSvcFacade, ls portssvc.LedgerSvcFacade) {
	h := newCrewHandler(cs, os, ls)

	crews := rg.Group("/crews")
	{
		crews.POST("", h.createCrew)
		crews.GET("", h.listCrews)
		crews.GET("/:id", h.getCrew)
		crews.DELETE("/:id", h.deactivateCrew)
		crews.GET("/:id/orders", h.listCrewOrders)
		crews.GET("/:id/debt", h.getCrewDebt)
	}
}

// createCrew godoc
// @Summary Register a crew
// @Description Creates a crew together with its virtual ledger account
// @Tags crews
// @Accept json
// @Produce json
// @Param crew body dto.CreateCrewRequest true "Crew details"
// @Success 201 {object} dto.CrewResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Security BearerAuth
// @Router /crews [post]
func (h *crewHandler) createCrew(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateCrewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	crew, err := h.crewService.CreateCrew(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create crew")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCrewResponse(crew))
}

// listCrews godoc
// @Summary List crews
// @Tags crews
// @Produce json
// @Param includeInactive query bool false "Include deactivated crews"
// @Success 200 {array} dto.CrewResponse
// @Security BearerAuth
// @Router /crews [get]
func (h *crewHandler) listCrews(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	includeInactive := c.Query("includeInactive") == "true"

	crews, err := h.crewService.ListCrews(c.Request.Context(), includeInactive)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list crews")
		return
	}
	c.JSON(http.StatusOK, dto.ToCrewResponses(crews))
}

// getCrew godoc
// @Summary Get a crew by ID
// @Tags crews
// @Produce json
// @Param id path string true "Crew ID"
// @Success 200 {object} dto.CrewResponse
// @Failure 404 {object} map[string]string "Crew not found"
// @Security BearerAuth
// @Router /crews/{id} [get]
func (h *crewHandler) getCrew(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	crew, err := h.crewService.GetCrewByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve crew")
		return
	}
	c.JSON(http.StatusOK, dto.ToCrewResponse(crew))
}

// deactivateCrew godoc
// @Summary Deactivate a crew
// @Tags crews
// @Produce json
// @Param id path string true "Crew ID"
// @Success 204 "Crew deactivated"
// @Security BearerAuth
// @Router /crews/{id} [delete]
func (h *crewHandler) deactivateCrew(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.crewService.DeactivateCrew(c.Request.Context(), c.Param("id"), actorID); err != nil {
		respondServiceError(c, logger, err, "Failed to deactivate crew")
		return
	}
	c.Status(http.StatusNoContent)
}

// listCrewOrders godoc
// @Summary List a crew's in-progress orders
// @Tags crews
// @Produce json
// @Param id path string true "Crew ID"
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} dto.OrderResponse
// @Security BearerAuth
// @Router /crews/{id}/orders [get]
func (h *crewHandler) listCrewOrders(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListOrdersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	orders, err := h.orderService.ListCrewOrders(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list crew orders")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponses(orders))
}

// getCrewDebt godoc
// @Summary Get a crew's current debt
// @Description Derives the debt from the crew's ledger entries
// @Tags crews
// @Produce json
// @Param id path string true "Crew ID"
// @Success 200 {object} dto.CrewDebtResponse
// @Failure 404 {object} map[string]string "Crew has no virtual account"
// @Security BearerAuth
// @Router /crews/{id}/debt [get]
func (h *crewHandler) getCrewDebt(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	crewID := c.Param("id")

	debt, err := h.ledgerService.CrewDebt(c.Request.Context(), crewID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to compute crew debt")
		return
	}
	c.JSON(http.StatusOK, dto.CrewDebtResponse{CrewID: crewID, Debt: debt})
}
