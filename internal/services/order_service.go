// internal/services/order_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/shackcart/backoffice/internal/models"
	"github.com/shackcart/backoffice/internal/utils"
)

// OrderService owns the order lifecycle. Status and fulfillment are
// independent axes: only the payment status drives side effects, and those
// run strictly after the owning transaction commits.
type OrderService struct {
	db       *gorm.DB
	enricher *EnrichmentResolver
	notifier *NotificationService
}

func NewOrderService(db *gorm.DB, enricher *EnrichmentResolver, notifier *NotificationService) *OrderService {
	return &OrderService{db: db, enricher: enricher, notifier: notifier}
}

type OrderItemInput struct {
	ProductID uuid.UUID    `json:"product_id"`
	Modifiers models.JSONB `json:"modifiers,omitempty"`
	Quantity  int          `json:"quantity"`
	Cost      float64      `json:"cost"`
	BasePrice float64      `json:"base_price"`
}

type CreateOrderRequest struct {
	CustomerID     *uuid.UUID         `json:"customer_id,omitempty"`
	PaymentMethods []string           `json:"payment_methods,omitempty"`
	Status         models.OrderStatus `json:"status,omitempty"`
	BillingData    models.BillingData `json:"billing_data"`
	ShippingData   models.JSONB       `json:"shipping_data,omitempty"`
	Fees           []models.OrderFee  `json:"fees,omitempty"`
	Items          []OrderItemInput   `json:"items"`
}

func validateOrderItems(items []OrderItemInput) error {
	if len(items) == 0 {
		return validationError("order requires at least one item")
	}
	for i, item := range items {
		switch {
		case item.ProductID == uuid.Nil:
			return validationError("item %d: product is required", i)
		case item.Quantity < 1:
			return validationError("item %d: quantity must be at least 1", i)
		case item.Cost < 0:
			return validationError("item %d: cost cannot be negative", i)
		case item.BasePrice < 0:
			return validationError("item %d: base price cannot be negative", i)
		}
	}
	return nil
}

func validateOrderFees(fees []models.OrderFee) error {
	for i, fee := range fees {
		if fee.Name == "" {
			return validationError("fee %d: name is required", i)
		}
	}
	return nil
}

// computeTotal derives the order total from item line costs plus fees.
// Percentage fees apply to the item subtotal.
func computeTotal(items []models.OrderItem, fees models.FeeList) float64 {
	subtotal := 0.0
	for _, item := range items {
		subtotal += item.Cost * float64(item.Quantity)
	}

	total := subtotal
	for _, fee := range fees {
		total += fee.Fixed + subtotal*fee.Percentage/100
	}
	return total
}

func buildOrderItems(orderID uuid.UUID, inputs []OrderItemInput) []models.OrderItem {
	items := make([]models.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, models.OrderItem{
			OrderID:   orderID,
			ProductID: in.ProductID,
			Modifiers: in.Modifiers,
			Quantity:  in.Quantity,
			Cost:      in.Cost,
			BasePrice: in.BasePrice,
		})
	}
	return items
}

// CreateOrder persists a new order and, after commit, enriches its billing
// snapshot with the observed client IP and a best-effort geolocation. The
// order is never blocked or failed on enrichment.
func (s *OrderService) CreateOrder(req *CreateOrderRequest, clientIP string) (*models.Order, error) {
	if err := validateOrderItems(req.Items); err != nil {
		return nil, err
	}
	if err := validateOrderFees(req.Fees); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.OrderStatusPending
	}
	if !status.Valid() {
		return nil, validationError("invalid order status %q", status)
	}

	order := &models.Order{
		PaymentMethods: req.PaymentMethods,
		Status:         status,
		CustomerID:     req.CustomerID,
		BillingData:    req.BillingData,
		ShippingData:   req.ShippingData,
		Fees:           req.Fees,
	}

	uow := newUnitOfWork(s.db)
	if s.enricher != nil {
		uow.AfterCommit(func() {
			s.enrichBilling(order.ID, order.BillingData, clientIP)
		})
	}

	err := uow.Commit(func(tx *gorm.DB) error {
		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}

		items := buildOrderItems(order.ID, req.Items)
		if err := tx.Create(&items).Error; err != nil {
			return fmt.Errorf("failed to create order items: %w", err)
		}

		order.Items = items
		order.Total = computeTotal(items, order.Fees)
		return tx.Model(order).Update("total", order.Total).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(order.ID, nil)
}

func (s *OrderService) enrichBilling(orderID uuid.UUID, billing models.BillingData, clientIP string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if !s.enricher.Enrich(ctx, &billing, clientIP) {
		return
	}
	if err := s.db.Model(&models.Order{}).
		Where("id = ?", orderID).
		Update("billing_data", billing).Error; err != nil {
		logrus.WithError(err).WithField("order_id", orderID).Error("Failed to persist enriched billing data")
	}
}

type UpdateOrderRequest struct {
	ID                uuid.UUID                 `json:"id"`
	Status            *models.OrderStatus       `json:"status,omitempty"`
	FulfillmentStatus *models.FulfillmentStatus `json:"fulfillment_status,omitempty"`
	PaymentMethods    []string                  `json:"payment_methods,omitempty"`
	BillingData       *models.BillingData       `json:"billing_data,omitempty"`
	ShippingData      models.JSONB              `json:"shipping_data,omitempty"`
	Fees              []models.OrderFee         `json:"fees,omitempty"`
	Items             []OrderItemInput          `json:"items,omitempty"`
}

// UpdateOrder applies the requested changes and returns the refreshed order.
// A missing order yields (nil, nil) rather than an error. Setting the status
// to paid mints a guest access token for customer-less orders (once, never
// overwriting an existing token) and dispatches the confirmation email after
// commit. Fulfillment changes carry no side effects.
func (s *OrderService) UpdateOrder(req *UpdateOrderRequest) (*models.Order, error) {
	if req.Status != nil && !req.Status.Valid() {
		return nil, validationError("invalid order status %q", *req.Status)
	}
	if req.FulfillmentStatus != nil && !req.FulfillmentStatus.Valid() {
		return nil, validationError("invalid fulfillment status %q", *req.FulfillmentStatus)
	}
	if req.Items != nil {
		if err := validateOrderItems(req.Items); err != nil {
			return nil, err
		}
	}
	if err := validateOrderFees(req.Fees); err != nil {
		return nil, err
	}

	var order models.Order
	if err := s.db.Preload("Customer").First(&order, "id = ?", req.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.Status != nil {
		updates["status"] = *req.Status
	}
	if req.FulfillmentStatus != nil {
		updates["fulfillment_status"] = *req.FulfillmentStatus
	}
	if req.PaymentMethods != nil {
		updates["payment_methods"] = models.StringList(req.PaymentMethods)
	}
	if req.BillingData != nil {
		updates["billing_data"] = *req.BillingData
	}
	if req.ShippingData != nil {
		updates["shipping_data"] = req.ShippingData
	}
	if req.Fees != nil {
		updates["fees"] = models.FeeList(req.Fees)
	}

	paid := req.Status != nil && *req.Status == models.OrderStatusPaid

	var mintedToken *string
	if paid && order.CustomerID == nil && order.Token == nil {
		token := utils.GenerateOrderToken()
		mintedToken = &token
		updates["token"] = token
	}

	uow := newUnitOfWork(s.db)
	if paid && s.notifier != nil {
		event := PaidOrderEvent{
			OrderID: order.ID,
			Token:   mintedToken,
		}
		if order.Token != nil {
			event.Token = order.Token
		}
		if order.Customer != nil {
			event.Recipient = order.Customer.Email
			event.FirstName = order.Customer.FirstName
		} else {
			event.Recipient = order.BillingData.Email
			event.FirstName = order.BillingData.FirstName
		}
		if req.BillingData != nil && order.Customer == nil {
			event.Recipient = req.BillingData.Email
			event.FirstName = req.BillingData.FirstName
		}

		uow.AfterCommit(func() {
			if err := s.notifier.OrderPaid(event); err != nil {
				logrus.WithError(err).WithField("order_id", order.ID).Error("Order confirmation email failed")
			}
		})
	}

	err := uow.Commit(func(tx *gorm.DB) error {
		if req.Items != nil {
			if err := tx.Where("order_id = ?", order.ID).Delete(&models.OrderItem{}).Error; err != nil {
				return fmt.Errorf("failed to clear order items: %w", err)
			}
			items := buildOrderItems(order.ID, req.Items)
			if err := tx.Create(&items).Error; err != nil {
				return fmt.Errorf("failed to replace order items: %w", err)
			}

			fees := order.Fees
			if req.Fees != nil {
				fees = req.Fees
			}
			updates["total"] = computeTotal(items, fees)
		} else if req.Fees != nil {
			var items []models.OrderItem
			if err := tx.Where("order_id = ?", order.ID).Find(&items).Error; err != nil {
				return fmt.Errorf("failed to load order items: %w", err)
			}
			updates["total"] = computeTotal(items, req.Fees)
		}

		if len(updates) == 0 {
			return nil
		}
		return tx.Model(&order).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	return s.GetOrder(order.ID, nil)
}

type OrderFilter struct {
	ID                  *uuid.UUID
	CustomerID          *uuid.UUID
	Statuses            []models.OrderStatus
	FulfillmentStatuses []models.FulfillmentStatus
}

var orderSortFields = []string{"created_at", "updated_at", "total", "status", "fulfillment_status"}

// ListOrders returns the matching count alongside one page of orders.
func (s *OrderService) ListOrders(filter OrderFilter, params utils.PaginationParams) (int64, []models.Order, error) {
	query := s.db.Model(&models.Order{})
	if filter.ID != nil {
		query = query.Where("id = ?", *filter.ID)
	}
	if filter.CustomerID != nil {
		query = query.Where("customer_id = ?", *filter.CustomerID)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if len(filter.FulfillmentStatuses) > 0 {
		query = query.Where("fulfillment_status IN ?", filter.FulfillmentStatuses)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, nil, fmt.Errorf("failed to count orders: %w", err)
	}

	query = utils.ApplySort(query, params, orderSortFields)
	query = utils.ApplyPagination(query, params)

	var orders []models.Order
	err := query.
		Preload("Customer").
		Preload("Items").
		Find(&orders).Error
	if err != nil {
		return 0, nil, fmt.Errorf("failed to fetch orders: %w", err)
	}
	return total, orders, nil
}

// GetOrder loads a single order with its items and customer. When token is
// supplied the order must carry that exact token; a mismatch is reported as
// absence, never as a distinct "wrong token" error.
func (s *OrderService) GetOrder(id uuid.UUID, token *string) (*models.Order, error) {
	var order models.Order
	err := s.db.
		Preload("Customer").
		Preload("Items").
		Preload("Items.Product").
		First(&order, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if token != nil {
		if order.Token == nil || *order.Token != *token {
			return nil, ErrNotFound
		}
	}
	return &order, nil
}
