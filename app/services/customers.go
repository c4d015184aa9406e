package services

import (
	"context"
	"fmt"
	"net/mail"
	"net/url"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// CustomerInput is the raw customer form.
type CustomerInput struct {
	FirstName string
	LastName  string
	Phone     string
	Email     string
}

// CustomerInputFromForm maps form fields onto a CustomerInput.
func CustomerInputFromForm(v url.Values) CustomerInput {
	return CustomerInput{
		FirstName: strings.TrimSpace(v.Get("first_name")),
		LastName:  strings.TrimSpace(v.Get("last_name")),
		Phone:     strings.TrimSpace(v.Get("phone")),
		Email:     strings.TrimSpace(v.Get("email")),
	}
}

func (in CustomerInput) customer() (models.Customer, error) {
	errs := fieldErrors{}
	if in.FirstName == "" {
		errs.add("first_name", "is required")
	}
	if in.LastName == "" {
		errs.add("last_name", "is required")
	}
	if in.Email != "" && !validEmail(in.Email) {
		errs.add("email", "must be a valid email address")
	}
	return models.Customer{
		FirstName: in.FirstName,
		LastName:  in.LastName,
		Phone:     in.Phone,
		Email:     in.Email,
	}, errs.err()
}

// validEmail accepts a bare address such as a@b.c.
func validEmail(s string) bool {
	addr, err := mail.ParseAddress(s)
	return err == nil && addr.Address == s
}

// CustomerService maintains customers.
type CustomerService struct {
	customers *repositories.CustomerRepository
}

func NewCustomerService(db *gorm.DB) *CustomerService {
	return &CustomerService{customers: repositories.NewCustomerRepository(db)}
}

// List returns customers ordered by last name, then first name.
func (s *CustomerService) List(ctx context.Context) ([]models.Customer, error) {
	customers, err := s.customers.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

func (s *CustomerService) Get(ctx context.Context, id uint) (models.Customer, error) {
	c, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return c, fmt.Errorf("get customer %d: %w", id, err)
	}
	return c, nil
}

func (s *CustomerService) Create(ctx context.Context, in CustomerInput) (models.Customer, error) {
	c, err := in.customer()
	if err != nil {
		return c, err
	}
	if err := s.customers.Create(ctx, &c); err != nil {
		return c, fmt.Errorf("create customer: %w", err)
	}
	logger.WithCtx(ctx).Info("customer created", "customer_id", c.ID)
	return c, nil
}

func (s *CustomerService) Update(ctx context.Context, id uint, in CustomerInput) (models.Customer, error) {
	existing, err := s.customers.FindByID(ctx, id)
	if err != nil {
		return existing, fmt.Errorf("update customer %d: %w", id, err)
	}

	c, err := in.customer()
	if err != nil {
		return existing, err
	}
	c.ID = existing.ID
	c.CreatedAt = existing.CreatedAt

	if err := s.customers.Update(ctx, &c); err != nil {
		return c, fmt.Errorf("update customer %d: %w", id, err)
	}
	logger.WithCtx(ctx).Info("customer updated", "customer_id", c.ID)
	return c, nil
}

// Delete removes customer id. Their orders stay and list with a blank
// customer name.
func (s *CustomerService) Delete(ctx context.Context, id uint) error {
	if err := s.customers.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete customer %d: %w", id, err)
	}
	logger.WithCtx(ctx).Info("customer deleted", "customer_id", id)
	return nil
}
