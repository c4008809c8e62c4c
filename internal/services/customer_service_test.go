// internal/services/customer_service_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/shackcart/backoffice/internal/models"
	"github.com/shackcart/backoffice/internal/utils"
)

func registerTestCustomer(t *testing.T, svc *CustomerService, first, last, email string) *models.Customer {
	t.Helper()
	customer, err := svc.RegisterCustomer(&RegisterCustomerRequest{
		FirstName: first,
		LastName:  last,
		Email:     email,
		Password:  "secret123",
	})
	require.NoError(t, err)
	return customer
}

func TestRegisterCustomerCreatesCredentialsAccount(t *testing.T) {
	db := newTestDB(t)
	svc := NewCustomerService(db)

	customer := registerTestCustomer(t, svc, "Maria", "Perez", "Maria@Example.com")
	assert.Equal(t, "maria@example.com", customer.Email)

	var account models.CustomerAccount
	require.NoError(t, db.First(&account, "customer_id = ?", customer.ID).Error)
	assert.Equal(t, "credentials", account.Provider)

	hash, _ := account.AuthMeta["password"].(string)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(hash), []byte("secret123")))
}

func TestRegisterCustomerDuplicateEmail(t *testing.T) {
	svc := NewCustomerService(newTestDB(t))
	registerTestCustomer(t, svc, "Maria", "Perez", "maria@example.com")

	_, err := svc.RegisterCustomer(&RegisterCustomerRequest{
		FirstName: "Other",
		Email:     "maria@example.com",
		Password:  "secret123",
	})
	assert.True(t, IsConflictError(err))
}

func TestRegisterCustomerValidation(t *testing.T) {
	svc := NewCustomerService(newTestDB(t))

	_, err := svc.RegisterCustomer(&RegisterCustomerRequest{Email: "not-an-email", Password: "x"})
	assert.True(t, IsValidationError(err))
}

func TestModifyCustomerEmailConflict(t *testing.T) {
	svc := NewCustomerService(newTestDB(t))
	registerTestCustomer(t, svc, "Maria", "Perez", "maria@example.com")
	jose := registerTestCustomer(t, svc, "Jose", "Diaz", "jose@example.com")

	_, err := svc.ModifyCustomer(&ModifyCustomerRequest{ID: jose.ID, Email: ptr("maria@example.com")})
	assert.True(t, IsConflictError(err))

	// Re-submitting its own email is not a conflict.
	updated, err := svc.ModifyCustomer(&ModifyCustomerRequest{ID: jose.ID, Email: ptr("jose@example.com"), FirstName: ptr("José")})
	require.NoError(t, err)
	assert.Equal(t, "José", updated.FirstName)
}

func TestListCustomersSearch(t *testing.T) {
	svc := NewCustomerService(newTestDB(t))
	registerTestCustomer(t, svc, "Maria", "Perez", "maria@shop.com")
	registerTestCustomer(t, svc, "Jose", "Diaz", "jose@mail.com")

	params := utils.PaginationParams{Page: 1, Limit: 20, Sort: "created_at", Order: "desc"}

	total, customers, err := svc.ListCustomers("mar", params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, customers, 1)
	assert.Equal(t, "Maria", customers[0].FirstName)

	// Last-name prefix matches too.
	total, _, err = svc.ListCustomers("diaz", params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	// Email substring match catches the domain.
	total, _, err = svc.ListCustomers("mail.com", params)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)

	total, _, err = svc.ListCustomers("", params)
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
}
