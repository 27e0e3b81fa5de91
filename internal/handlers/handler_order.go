package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/fieldworks/crew_settlement_app/internal/core/ports/services"
	"github.com/fieldworks/crew_settlement_app/internal/dto"
	"github.com/fieldworks/crew_settlement_app/internal/middleware"
)

// orderHandler handles HTTP requests for the order lifecycle.
type orderHandler struct {
	orderService      portssvc.OrderSvcFacade
	settlementService portssvc.SettlementSvcFacade
}

func newOrderHandler(os portssvc.OrderSvcFacade, ss portssvc.SettlementSvcFacade) *orderHandler {
	return &orderHandler{
		orderService:      os,
		settlementService: ss,
	}
}

// RegisterOrderRoutes registers routes related to orders.
func RegisterOrderRoutes(rg *gin.RouterGroup, os portssvc.OrderSvcFacade, ss portssvc.SettlementSvcFacade) {
	h := newOrderHandler(os, ss)

	orders := rg.Group("/orders")
	{
		orders.POST("", h.createOrder)
		orders.GET("/pool", h.listPool)
		orders.GET("/:id", h.getOrder)
		orders.POST("/:id/claim", h.claimOrder)
		orders.PUT("/:id/status", h.setOrderStatus)
		orders.POST("/:id/refuse", h.refuseOrder)
		orders.POST("/:id/transfer", h.transferOrder)
		orders.POST("/:id/expenses", h.addExpense)
		orders.PUT("/:id/price", h.setFinalPrice)
		orders.POST("/:id/finalize", h.finalizeOrder)
	}
}

// createOrder godoc
// @Summary Create a new order
// @Description Creates a NEW order with its financial record
// @Tags orders
// @Accept json
// @Produce json
// @Param order body dto.CreateOrderRequest true "Order details"
// @Success 201 {object} dto.OrderResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Security BearerAuth
// @Router /orders [post]
func (h *orderHandler) createOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateOrder", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to create order")
		return
	}
	c.JSON(http.StatusCreated, dto.ToOrderResponse(order))
}

// getOrder godoc
// @Summary Get an order by ID
// @Description Retrieves an order including its expense lines
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} dto.OrderResponse
// @Failure 404 {object} map[string]string "Order not found"
// @Security BearerAuth
// @Router /orders/{id} [get]
func (h *orderHandler) getOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	order, err := h.orderService.GetOrder(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondServiceError(c, logger, err, "Failed to retrieve order")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// listPool godoc
// @Summary List unclaimed orders
// @Description Retrieves NEW orders available for claiming
// @Tags orders
// @Produce json
// @Param limit query int false "Page size" default(20)
// @Param offset query int false "Page offset" default(0)
// @Success 200 {array} dto.OrderResponse
// @Security BearerAuth
// @Router /orders/pool [get]
func (h *orderHandler) listPool(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListOrdersParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	orders, err := h.orderService.ListPool(c.Request.Context(), params)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to list orders")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponses(orders))
}

// claimOrder godoc
// @Summary Claim an order
// @Description Atomically assigns a NEW order to a crew; exactly one concurrent claimer wins
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param claim body dto.ClaimOrderRequest true "Claiming crew"
// @Success 200 {object} dto.OrderResponse
// @Failure 409 {object} map[string]string "Order already claimed"
// @Security BearerAuth
// @Router /orders/{id}/claim [post]
func (h *orderHandler) claimOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.ClaimOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	order, err := h.orderService.Claim(c.Request.Context(), c.Param("id"), req.CrewID, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to claim order")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrderResponse(order))
}

// setOrderStatus godoc
// @Summary Change order status
// @Description Moves an order along a status edge permitted for the caller's role
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param status body dto.SetOrderStatusRequest true "Target status"
// @Success 204 "Status updated"
// @Failure 403 {object} map[string]string "Transition forbidden for role"
// @Failure 409 {object} map[string]string "Order changed state concurrently or is locked"
// @Security BearerAuth
// @Router /orders/{id}/status [put]
func (h *orderHandler) setOrderStatus(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}
	role, ok := middleware.GetRoleFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, gin.H{"error": "Role missing from token"})
		return
	}

	if err := h.orderService.Transition(c.Request.Context(), c.Param("id"), req.Status, role, actorID); err != nil {
		respondServiceError(c, logger, err, "Failed to update order status")
		return
	}
	c.Status(http.StatusNoContent)
}

// refuseOrder godoc
// @Summary Refuse an order
// @Description Returns an in-progress order to the NEW pool, keeping its expenses
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param refuse body dto.RefuseOrderRequest true "Refusing crew"
// @Success 204 "Order returned to pool"
// @Security BearerAuth
// @Router /orders/{id}/refuse [post]
func (h *orderHandler) refuseOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.RefuseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.orderService.Refuse(c.Request.Context(), c.Param("id"), req.CrewID, actorID); err != nil {
		respondServiceError(c, logger, err, "Failed to refuse order")
		return
	}
	c.Status(http.StatusNoContent)
}

// transferOrder godoc
// @Summary Transfer an order between crews
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param transfer body dto.TransferOrderRequest true "Source and target crew"
// @Success 204 "Order reassigned"
// @Security BearerAuth
// @Router /orders/{id}/transfer [post]
func (h *orderHandler) transferOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.orderService.Transfer(c.Request.Context(), c.Param("id"), req.FromCrewID, req.ToCrewID, actorID); err != nil {
		respondServiceError(c, logger, err, "Failed to transfer order")
		return
	}
	c.Status(http.StatusNoContent)
}

// addExpense godoc
// @Summary Add an expense to an order
// @Description Appends an expense line and returns the recomputed financial record
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param expense body dto.AddExpenseRequest true "Expense details"
// @Success 200 {object} dto.FinancialsResponse
// @Failure 409 {object} map[string]string "Order is locked"
// @Security BearerAuth
// @Router /orders/{id}/expenses [post]
func (h *orderHandler) addExpense(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AddExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	financials, err := h.orderService.AddExpense(c.Request.Context(), c.Param("id"), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to add expense")
		return
	}
	c.JSON(http.StatusOK, dto.ToFinancialsResponse(*financials))
}

// setFinalPrice godoc
// @Summary Set the order's final price
// @Description Overwrites the final price and returns the recomputed financial record
// @Tags orders
// @Accept json
// @Produce json
// @Param id path string true "Order ID"
// @Param price body dto.SetFinalPriceRequest true "New final price"
// @Success 200 {object} dto.FinancialsResponse
// @Failure 409 {object} map[string]string "Order is locked"
// @Security BearerAuth
// @Router /orders/{id}/price [put]
func (h *orderHandler) setFinalPrice(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.SetFinalPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	financials, err := h.orderService.SetFinalPrice(c.Request.Context(), c.Param("id"), req, actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to set final price")
		return
	}
	c.JSON(http.StatusOK, dto.ToFinancialsResponse(*financials))
}

// finalizeOrder godoc
// @Summary Finalize an order
// @Description Splits net profit, posts the settlement entries and locks the order as DONE
// @Tags orders
// @Produce json
// @Param id path string true "Order ID"
// @Success 200 {object} dto.SettlementResult
// @Failure 409 {object} map[string]string "Order already settled or not in WORK"
// @Security BearerAuth
// @Router /orders/{id}/finalize [post]
func (h *orderHandler) finalizeOrder(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	result, err := h.settlementService.FinalizeOrder(c.Request.Context(), c.Param("id"), actorID)
	if err != nil {
		respondServiceError(c, logger, err, "Failed to finalize order")
		return
	}
	c.JSON(http.StatusOK, result)
}
