// internal/services/payment_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shackcart/backoffice/internal/config"
)

func TestCreateIntentRejectsBelowMinimum(t *testing.T) {
	svc := NewPaymentService(&config.PaymentConfig{
		DefaultCurrency: "usd",
		MinimumCharge:   0.5,
	})

	_, err := svc.CreateIntent(0.25, "")
	assert.True(t, IsValidationError(err))

	_, err = svc.CreateIntent(0.49, "eur")
	assert.True(t, IsValidationError(err))
}
