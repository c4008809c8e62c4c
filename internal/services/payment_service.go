// internal/services/payment_service.go
package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/stripe/stripe-go/v74"
	"github.com/stripe/stripe-go/v74/paymentintent"

	"github.com/shackcart/backoffice/internal/config"
)

// PaymentService creates Stripe payment intents for checkout. Amounts are
// expressed in major units and truncated, not rounded, into cents.
type PaymentService struct {
	cfg *config.PaymentConfig
}

func NewPaymentService(cfg *config.PaymentConfig) *PaymentService {
	stripe.Key = cfg.StripeSecretKey
	return &PaymentService{cfg: cfg}
}

// CreateIntent registers a payment intent and returns its client secret for
// the browser-side confirmation flow.
func (s *PaymentService) CreateIntent(amount float64, currency string) (string, error) {
	if amount < s.cfg.MinimumCharge {
		return "", validationError("amount must be at least %.2f", s.cfg.MinimumCharge)
	}

	if currency == "" {
		currency = s.cfg.DefaultCurrency
	}
	currency = strings.ToLower(currency)

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(math.Trunc(amount * 100))),
		Currency: stripe.String(currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		return "", &CollaboratorError{Collaborator: "payment gateway", Err: fmt.Errorf("create intent: %w", err)}
	}
	return intent.ClientSecret, nil
}
