package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
)

// CustomerRepository handles database operations for Customer.
type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// All returns customers ordered by last then first name.
func (r *CustomerRepository) All(ctx context.Context) ([]models.Customer, error) {
	var customers []models.Customer
	err := r.db.WithContext(ctx).
		Order("last_name").Order("first_name").Order("id").
		Find(&customers).Error
	return customers, err
}

// FindByID looks up a customer by primary key.
func (r *CustomerRepository) FindByID(ctx context.Context, id uint) (models.Customer, error) {
	var c models.Customer
	err := r.db.WithContext(ctx).First(&c, id).Error
	return c, translate(err)
}

// Create persists a new customer.
func (r *CustomerRepository) Create(ctx context.Context, c *models.Customer) error {
	return r.db.WithContext(ctx).Create(c).Error
}

// Update writes the editable columns of c, including blanks.
func (r *CustomerRepository) Update(ctx context.Context, c *models.Customer) error {
	return r.db.WithContext(ctx).Model(&models.Customer{ID: c.ID}).
		Select("FirstName", "LastName", "Phone", "Email").
		Updates(c).Error
}

// Delete removes a customer. Their orders are kept.
func (r *CustomerRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Customer{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
