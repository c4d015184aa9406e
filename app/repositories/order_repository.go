package repositories

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
)

// OrderListRow is one order with its customer's contact columns. Customer
// columns are blank when the customer was deleted.
type OrderListRow struct {
	ID                uint
	CreatedAt         time.Time
	Total             decimal.Decimal
	Status            string
	CustomerID        uint
	CustomerFirstName string
	CustomerLastName  string
	CustomerPhone     string
}

// OrderLine is an order item with the product name resolved. ProductName
// is blank when the product was deleted.
type OrderLine struct {
	models.OrderItem
	ProductName string `json:"product_name"`
}

// OrderRepository handles database operations for Order and OrderItem.
type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// Create inserts the order header.
func (r *OrderRepository) Create(ctx context.Context, o *models.Order) error {
	return r.db.WithContext(ctx).Create(o).Error
}

// AddItem inserts one order line.
func (r *OrderRepository) AddItem(ctx context.Context, item *models.OrderItem) error {
	return r.db.WithContext(ctx).Create(item).Error
}

// SetTotal writes the computed total back onto the order header.
func (r *OrderRepository) SetTotal(ctx context.Context, id uint, total decimal.Decimal) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Update("total", total).Error
}

// SetStatus changes the status column and nothing else.
func (r *OrderRepository) SetStatus(ctx context.Context, id uint, status string) error {
	return r.db.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// FindByID looks up an order header by primary key.
func (r *OrderRepository) FindByID(ctx context.Context, id uint) (models.Order, error) {
	var o models.Order
	err := r.db.WithContext(ctx).First(&o, id).Error
	return o, translate(err)
}

// List returns order headers joined with customers, narrowed and ordered
// by scopes.
func (r *OrderRepository) List(ctx context.Context, scopes ...Scope) ([]OrderListRow, error) {
	var rows []OrderListRow
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Select(`orders.id, orders.created_at, orders.total, orders.status, orders.customer_id,
			COALESCE(customers.first_name, '') AS customer_first_name,
			COALESCE(customers.last_name, '') AS customer_last_name,
			COALESCE(customers.phone, '') AS customer_phone`).
		Joins("LEFT JOIN customers ON customers.id = orders.customer_id").
		Scopes(scopes...).
		Scan(&rows).Error
	return rows, err
}

// Lines returns the lines of the given orders, grouped by order and in
// line-id order within each order.
func (r *OrderRepository) Lines(ctx context.Context, orderIDs ...uint) ([]OrderLine, error) {
	if len(orderIDs) == 0 {
		return nil, nil
	}
	var lines []OrderLine
	err := r.db.WithContext(ctx).
		Model(&models.OrderItem{}).
		Select("order_items.*, COALESCE(products.name, '') AS product_name").
		Joins("LEFT JOIN products ON products.id = order_items.product_id").
		Where("order_items.order_id IN ?", orderIDs).
		Order("order_items.order_id").
		Order("order_items.id").
		Scan(&lines).Error
	return lines, err
}
