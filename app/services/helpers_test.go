package services_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
)

func uintPtr(v uint) *uint { return &v }

func price(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func createProduct(t *testing.T, db *gorm.DB, p models.Product) models.Product {
	t.Helper()
	require.NoError(t, db.Create(&p).Error)
	return p
}

func createCustomer(t *testing.T, db *gorm.DB, first, last, phone string) models.Customer {
	t.Helper()
	c := models.Customer{FirstName: first, LastName: last, Phone: phone}
	require.NoError(t, db.Create(&c).Error)
	return c
}

// createOrderAt inserts an order header with a fixed timestamp.
func createOrderAt(t *testing.T, db *gorm.DB, customerID uint, status string, total string, at time.Time) models.Order {
	t.Helper()
	o := models.Order{CustomerID: customerID, Status: status, Total: price(total), CreatedAt: at.UTC()}
	require.NoError(t, db.Create(&o).Error)
	return o
}

func addLine(t *testing.T, db *gorm.DB, orderID, productID uint, qty int, unit string) {
	t.Helper()
	require.NoError(t, db.Create(&models.OrderItem{OrderID: orderID, ProductID: productID, Quantity: qty, Price: price(unit)}).Error)
}
