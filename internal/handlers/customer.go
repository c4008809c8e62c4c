// internal/handlers/customer.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shackcart/backoffice/internal/services"
	"github.com/shackcart/backoffice/internal/utils"
)

type CustomerHandler struct {
	customers *services.CustomerService
}

func NewCustomerHandler(customers *services.CustomerService) *CustomerHandler {
	return &CustomerHandler{customers: customers}
}

func (h *CustomerHandler) ListCustomers(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	total, customers, err := h.customers.ListCustomers(params.Search, params)
	if err != nil {
		respondServiceError(c, "customers", err)
		return
	}
	utils.PaginatedResponse(c, utils.CreatePaginationResult(customers, total, params))
}

func (h *CustomerHandler) RegisterCustomer(c *gin.Context) {
	var req services.RegisterCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid registration payload", nil)
		return
	}

	customer, err := h.customers.RegisterCustomer(&req)
	if err != nil {
		respondServiceError(c, "customer", err)
		return
	}
	utils.CreatedResponse(c, customer)
}

func (h *CustomerHandler) ModifyCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid customer id", nil)
		return
	}

	var req services.ModifyCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid customer payload", nil)
		return
	}
	req.ID = id

	customer, err := h.customers.ModifyCustomer(&req)
	if err != nil {
		respondServiceError(c, "customer", err)
		return
	}
	utils.SuccessResponse(c, customer)
}

func (h *CustomerHandler) GetCustomer(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid customer id", nil)
		return
	}

	customer, err := h.customers.GetCustomer(id)
	if err != nil {
		respondServiceError(c, "customer", err)
		return
	}
	utils.SuccessResponse(c, customer)
}
