// internal/handlers/store.go
package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/shackcart/backoffice/internal/services"
	"github.com/shackcart/backoffice/internal/utils"
)

// StoreHandler serves the storefront-facing odds and ends: contact relay,
// payment intents, landing content and checkout recovery.
type StoreHandler struct {
	notifier *services.NotificationService
	content  *services.ContentService
	payments *services.PaymentService
}

func NewStoreHandler(notifier *services.NotificationService, content *services.ContentService, payments *services.PaymentService) *StoreHandler {
	return &StoreHandler{notifier: notifier, content: content, payments: payments}
}

type contactRequest struct {
	Name    string `json:"name" binding:"required"`
	Phone   string `json:"phone"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

// Contact relays a contact-form submission. Delivery failure is reported as
// ok:false, never as an HTTP error, so the storefront can degrade gracefully.
func (h *StoreHandler) Contact(c *gin.Context) {
	var req contactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid contact payload", nil)
		return
	}

	ok := h.notifier.SendContactEmail(req.Name, req.Phone, req.Email, req.Message)
	utils.SuccessResponse(c, gin.H{"ok": ok})
}

type paymentIntentRequest struct {
	Amount   float64 `json:"amount" binding:"required"`
	Currency string  `json:"currency"`
}

func (h *StoreHandler) CreatePaymentIntent(c *gin.Context) {
	var req paymentIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid payment payload", nil)
		return
	}

	clientSecret, err := h.payments.CreateIntent(req.Amount, req.Currency)
	if err != nil {
		respondServiceError(c, "payment intent", err)
		return
	}
	utils.SuccessResponse(c, gin.H{"clientSecret": clientSecret})
}

func (h *StoreHandler) LandingContent(c *gin.Context) {
	nodes, err := h.content.LandingNodes(c.Request.Context())
	if err != nil {
		respondServiceError(c, "landing content", err)
		return
	}
	utils.SuccessResponse(c, nodes)
}

func (h *StoreHandler) SaveLandingContent(c *gin.Context) {
	var nodes map[string]interface{}
	if err := c.ShouldBindJSON(&nodes); err != nil {
		utils.BadRequestResponse(c, "Invalid landing content payload", nil)
		return
	}

	if err := h.content.SaveLandingNodes(c.Request.Context(), nodes); err != nil {
		respondServiceError(c, "landing content", err)
		return
	}
	utils.SuccessResponse(c, gin.H{"saved": true})
}

func (h *StoreHandler) SendRecoveryEmail(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid order id", nil)
		return
	}

	ok := h.notifier.SendRecoveryEmail(id)
	utils.SuccessResponse(c, gin.H{"ok": ok})
}
