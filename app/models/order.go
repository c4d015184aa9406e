package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a customer's purchase. Total is fixed when the order is placed
// and never recomputed.
type Order struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	CustomerID uint            `gorm:"not null;index" json:"customer_id"`
	CreatedAt  time.Time       `gorm:"index" json:"created_at"`
	Total      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"total"`
	Status     string          `gorm:"size:20;not null;default:New" json:"status"`
}

// OrderItem is one line of an order. Price is the product's unit price at
// the moment the order was placed.
type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   uint            `gorm:"not null;index" json:"order_id"`
	ProductID uint            `gorm:"not null;index" json:"product_id"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"price"`
}

// LineTotal is quantity times the captured unit price.
func (i OrderItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
