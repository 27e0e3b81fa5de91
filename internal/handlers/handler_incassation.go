package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fieldworks/crew_settlement_app/internal/core/ports/services"
	"github.com/fieldworks/crew_settlement_app/internal/dto"
	"github.com/fieldworks/crew_settlement_app/internal/middleware"
)

// incassationHandler handles HTTP requests for the cash-handover workflow.
type incassationHandler struct {
	incassationService portssvc.IncassationSvcFacade
}

func newIncassationHandler(is portssvc.IncassationSvcFacade) *incassationHandler {
	return &incassationHandler{incassationService: is}
}

// RegisterIncassationRoutes registers routes related to incassation requests.
func RegisterIncassationRoutes(rg *gin.RouterGroup, is portssvc.IncassationSvcFacade) {
	h := newIncassationHandler(is)

	incassations := rg.Group("/incassations")
	{
		incassations.POST("", h.createRequest)
		incassations.GET("", h.listRequests)
		incassations.POST("/:id/confirm", h.confirmRequest)
		incassations.POST("/:id/reject", h.rejectRequest)
	}
}

// createRequest godoc
// @Summary Request a cash handover
// @Description Records intent to hand over cash; posts no ledger entry
// @Tags incassations
// @Accept json
// @Produce json
// @Param request body dto.CreateIncassationRequest true "Handover details"
// @Success 201 {object} dto.IncassationResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Security BearerAuth
// @Router /incassations [post]
func (h *incassationHandler) createRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateIncassationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	request, err := h.incassationService.Request(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create incassation request")
		return
	}
	c.JSON(http.StatusCreated, dto.ToIncassationResponse(request))
}

// listRequests godoc
// @Summary List incassation requests
// @Tags incassations
// @Produce json
// @Param status query string false "Filter by status" Enums(PENDING, CONFIRMED, REJECTED)
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} dto.IncassationResponse
// @Security BearerAuth
// @Router /incassations [get]
func (h *incassationHandler) listRequests(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListIncassationParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	requests, err := h.incassationService.ListRequests(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list incassation requests")
		return
	}
	c.JSON(http.StatusOK, dto.ToIncassationResponses(requests))
}

// confirmRequest godoc
// @Summary Confirm a cash handover
// @Description Resolves the request, posts the Incassation entries and returns the crew's new debt
// @Tags incassations
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} dto.ConfirmIncassationResponse
// @Failure 409 {object} map[string]string "Request already resolved"
// @Security BearerAuth
// @Router /incassations/{id}/confirm [post]
func (h *incassationHandler) confirmRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	approverID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	requestID := c.Param("id")
	newDebt, err := h.incassationService.Confirm(c.Request.Context(), requestID, approverID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to confirm incassation request")
		return
	}
	c.JSON(http.StatusOK, dto.ConfirmIncassationResponse{RequestID: requestID, NewDebt: newDebt})
}

// rejectRequest godoc
// @Summary Reject a cash handover
// @Description Resolves the request without touching the ledger
// @Tags incassations
// @Produce json
// @Param id path string true "Request ID"
// @Success 204 "Request rejected"
// @Failure 409 {object} map[string]string "Request already resolved"
// @Security BearerAuth
// @Router /incassations/{id}/reject [post]
func (h *incassationHandler) rejectRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	approverID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.incassationService.Reject(c.Request.Context(), c.Param("id"), approverID); err != nil {
		respondServiceError(c, logger, err, "Failed to reject incassation request")
		return
	}
	c.Status(http.StatusNoContent)
}
