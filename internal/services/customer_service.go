// internal/services/customer_service.go
package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/shackcart/backoffice/internal/models"
	"github.com/shackcart/backoffice/internal/utils"
)

type CustomerService struct {
	db *gorm.DB
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{db: db}
}

// ListCustomers searches across id, email and name. Each whitespace-separated
// search segment must prefix-match id, email, first or last name, or appear
// anywhere in the email.
func (s *CustomerService) ListCustomers(search string, params utils.PaginationParams) (int64, []models.Customer, error) {
	query := s.db.Model(&models.Customer{})

	for _, segment := range strings.Fields(strings.ToLower(search)) {
		prefix := segment + "%"
		query = query.Where(
			"LOWER(CAST(id AS TEXT)) LIKE ? OR LOWER(email) LIKE ? OR LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?",
			prefix, prefix, prefix, prefix, "%"+segment+"%",
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return 0, nil, fmt.Errorf("failed to count customers: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "updated_at", "email", "first_name", "last_name"})
	query = utils.ApplyPagination(query, params)

	var customers []models.Customer
	err := query.Find(&customers).Error
	if err != nil {
		return 0, nil, fmt.Errorf("failed to fetch customers: %w", err)
	}
	return total, customers, nil
}

type RegisterCustomerRequest struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name"`
	Email       string `json:"email" validate:"required,email"`
	PhoneNumber string `json:"phone_number"`
	Currency    string `json:"currency"`
	Password    string `json:"password" validate:"required,min=6"`
}

// RegisterCustomer creates a storefront customer together with a
// password-backed account row.
func (s *CustomerService) RegisterCustomer(req *RegisterCustomerRequest) (*models.Customer, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, &ValidationError{Message: "invalid registration", Fields: utils.GetValidationErrors(err)}
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	var existing int64
	if err := s.db.Model(&models.Customer{}).Where("email = ?", email).Count(&existing).Error; err != nil {
		return nil, fmt.Errorf("database error: %w", err)
	}
	if existing > 0 {
		return nil, &ConflictError{Resource: "customer email", Err: errors.New("email already registered")}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	customer := &models.Customer{
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Email:       email,
		PhoneNumber: req.PhoneNumber,
		Currency:    req.Currency,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(customer).Error; err != nil {
			return err
		}
		account := &models.CustomerAccount{
			CustomerID: customer.ID,
			Provider:   "credentials",
			AuthMeta:   models.JSONB{"password": string(hash)},
		}
		return tx.Create(account).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, &ConflictError{Resource: "customer email", Err: err}
		}
		return nil, fmt.Errorf("failed to register customer: %w", err)
	}
	return customer, nil
}

type ModifyCustomerRequest struct {
	ID          uuid.UUID `json:"id"`
	FirstName   *string   `json:"first_name,omitempty"`
	LastName    *string   `json:"last_name,omitempty"`
	Email       *string   `json:"email,omitempty"`
	PhoneNumber *string   `json:"phone_number,omitempty"`
	Currency    *string   `json:"currency,omitempty"`
}

func (s *CustomerService) ModifyCustomer(req *ModifyCustomerRequest) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.First(&customer, "id = ?", req.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	updates := make(map[string]interface{})
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		var taken int64
		if err := s.db.Model(&models.Customer{}).
			Where("email = ? AND id <> ?", email, customer.ID).
			Count(&taken).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
		if taken > 0 {
			return nil, &ConflictError{Resource: "customer email", Err: errors.New("email already registered")}
		}
		updates["email"] = email
	}
	if req.PhoneNumber != nil {
		updates["phone_number"] = *req.PhoneNumber
	}
	if req.Currency != nil {
		updates["currency"] = *req.Currency
	}

	if len(updates) > 0 {
		if err := s.db.Model(&customer).Updates(updates).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return nil, &ConflictError{Resource: "customer email", Err: err}
			}
			return nil, fmt.Errorf("failed to update customer: %w", err)
		}
		if err := s.db.First(&customer, "id = ?", req.ID).Error; err != nil {
			return nil, fmt.Errorf("database error: %w", err)
		}
	}
	return &customer, nil
}

func (s *CustomerService) GetCustomer(id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := s.db.First(&customer, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &customer, nil
}
