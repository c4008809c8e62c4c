// internal/handlers/order.go
package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shackcart/backoffice/internal/models"
	"github.com/shackcart/backoffice/internal/services"
	"github.com/shackcart/backoffice/internal/utils"
)

type OrderHandler struct {
	orders *services.OrderService
}

func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

func (h *OrderHandler) CreateOrder(c *gin.Context) {
	var req services.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid order payload", nil)
		return
	}

	order, err := h.orders.CreateOrder(&req, c.ClientIP())
	if err != nil {
		respondServiceError(c, "order", err)
		return
	}
	utils.CreatedResponse(c, order)
}

func (h *OrderHandler) UpdateOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order id", nil)
		return
	}

	var req services.UpdateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid order payload", nil)
		return
	}
	req.ID = id

	order, err := h.orders.UpdateOrder(&req)
	if err != nil {
		respondServiceError(c, "order", err)
		return
	}
	if order == nil {
		utils.NotFoundResponse(c, "order")
		return
	}
	utils.SuccessResponse(c, order)
}

func (h *OrderHandler) ListOrders(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	var filter services.OrderFilter
	if raw := c.Query("id"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.ID = &id
		}
	}
	if raw := c.Query("customerId"); raw != "" {
		if id, err := uuid.Parse(raw); err == nil {
			filter.CustomerID = &id
		}
	}
	for _, raw := range strings.Split(c.Query("status"), ",") {
		if status := models.OrderStatus(strings.TrimSpace(raw)); status.Valid() {
			filter.Statuses = append(filter.Statuses, status)
		}
	}
	for _, raw := range strings.Split(c.Query("fulfillmentStatus"), ",") {
		if status := models.FulfillmentStatus(strings.TrimSpace(raw)); status.Valid() {
			filter.FulfillmentStatuses = append(filter.FulfillmentStatuses, status)
		}
	}

	total, orders, err := h.orders.ListOrders(filter, params)
	if err != nil {
		respondServiceError(c, "orders", err)
		return
	}
	utils.PaginatedResponse(c, utils.CreatePaginationResult(orders, total, params))
}

func (h *OrderHandler) GetOrder(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order id", nil)
		return
	}

	var token *string
	if raw, exists := c.GetQuery("token"); exists && raw != "" {
		token = &raw
	}

	order, err := h.orders.GetOrder(id, token)
	if err != nil {
		respondServiceError(c, "order", err)
		return
	}
	utils.SuccessResponse(c, order)
}
