// internal/services/notification_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/shackcart/backoffice/internal/config"
	"github.com/shackcart/backoffice/internal/models"
)

const defaultContactTemplate = `<div>
  <p><strong>{{name}}</strong> ({{email}}, {{phone}}) sent a message through the contact form:</p>
  <blockquote>{{message}}</blockquote>
</div>`

// PaidOrderEvent describes a payment transition that warrants a confirmation
// email. Token is present only for guest orders.
type PaidOrderEvent struct {
	OrderID   uuid.UUID
	Recipient string
	FirstName string
	Token     *string
}

// NotificationService assembles and dispatches customer-facing email.
// Delivery failures are reported to the caller but are expected to be
// logged and absorbed, never propagated into store transactions.
type NotificationService struct {
	mailer Mailer
	cache  ContentCache
	cfg    *config.Config
	db     *gorm.DB
}

func NewNotificationService(mailer Mailer, cache ContentCache, cfg *config.Config, db *gorm.DB) *NotificationService {
	return &NotificationService{mailer: mailer, cache: cache, cfg: cfg, db: db}
}

// orderURL builds the customer-facing order page link. Guest orders carry
// their access token in the query string; customer-linked orders rely on the
// account session instead.
func (s *NotificationService) orderURL(orderID uuid.UUID, token *string) string {
	url := fmt.Sprintf("%s/account/orders/%s", s.cfg.Frontend.BaseURL, orderID)
	if token != nil {
		url = fmt.Sprintf("%s?token=%s", url, *token)
	}
	return url
}

// OrderPaid sends the payment confirmation for a paid order.
func (s *NotificationService) OrderPaid(event PaidOrderEvent) error {
	if event.Recipient == "" {
		return fmt.Errorf("paid order %s has no recipient email", event.OrderID)
	}

	greeting := "Hi"
	if event.FirstName != "" {
		greeting = fmt.Sprintf("Hi %s", event.FirstName)
	}

	url := s.orderURL(event.OrderID, event.Token)
	html := fmt.Sprintf(`<div>
  <p>%s,</p>
  <p>We received your payment and your order is confirmed.</p>
  <p><a href="%s">View your order</a></p>
  <p>%s</p>
</div>`, greeting, url, s.cfg.Email.FromName)

	msg := &MailMessage{
		To:      []string{event.Recipient},
		Subject: fmt.Sprintf("Order #%s | Thanks for shopping with us!", event.OrderID),
		HTML:    html,
		Headers: map[string]string{"Priority": "Urgent", "Importance": "high"},
	}
	if err := s.mailer.Send(msg); err != nil {
		return fmt.Errorf("order confirmation: %w", err)
	}
	return nil
}

// SendRecoveryEmail nudges the buyer of an unpaid order back to checkout.
// Returns false when the order is missing, has no reachable address, or
// delivery fails.
func (s *NotificationService) SendRecoveryEmail(orderID uuid.UUID) bool {
	var order models.Order
	if err := s.db.Preload("Customer").First(&order, "id = ?", orderID).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			logrus.WithError(err).WithField("order_id", orderID).Error("Failed to load order for recovery email")
		}
		return false
	}

	recipient := order.BillingData.Email
	firstName := order.BillingData.FirstName
	if order.Customer != nil {
		recipient = order.Customer.Email
		firstName = order.Customer.FirstName
	}
	if recipient == "" {
		return false
	}

	greeting := "Hi"
	if firstName != "" {
		greeting = fmt.Sprintf("Hi %s", firstName)
	}

	restoreURL := fmt.Sprintf("%s/bag?checkout&order=%s", s.cfg.Frontend.BaseURL, order.ID)
	html := fmt.Sprintf(`<div>
  <p>%s,</p>
  <p>You left some items behind. Your bag is saved and ready whenever you are.</p>
  <p><a href="%s">Finish your order</a></p>
  <p>%s</p>
</div>`, greeting, restoreURL, s.cfg.Email.FromName)

	msg := &MailMessage{
		To:      []string{recipient},
		Subject: "You left something behind!",
		HTML:    html,
		Headers: map[string]string{"Priority": "Urgent", "Importance": "high"},
	}
	if err := s.mailer.Send(msg); err != nil {
		logrus.WithError(err).WithField("order_id", orderID).Error("Recovery email failed")
		return false
	}
	return true
}

// SendContactEmail relays a contact-form submission to the shop inbox. The
// body template is operator-editable through the content cache; placeholders
// are substituted verbatim with no escaping or markup processing.
func (s *NotificationService) SendContactEmail(name, phone, email, message string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	template, ok, err := s.cache.Get(ctx, contactTemplateKey)
	if err != nil {
		logrus.WithError(err).Warn("Contact template fetch failed, using default")
		ok = false
	}
	if !ok {
		template = defaultContactTemplate
	}

	body := template
	body = strings.ReplaceAll(body, "{{name}}", name)
	body = strings.ReplaceAll(body, "{{email}}", email)
	body = strings.ReplaceAll(body, "{{phone}}", phone)
	body = strings.ReplaceAll(body, "{{message}}", message)

	msg := &MailMessage{
		To:       []string{s.cfg.Email.ContactEmail},
		FromName: fmt.Sprintf("%s via %s", name, s.cfg.Email.FromName),
		ReplyTo:  email,
		Subject:  fmt.Sprintf("New message from %s", name),
		HTML:     body,
	}
	if err := s.mailer.Send(msg); err != nil {
		logrus.WithError(err).Error("Contact email failed")
		return false
	}
	return true
}
