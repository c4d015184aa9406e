package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/pkg/migration"
)

func init() {
	migration.Register("20250101000000_create_categories_table", &CreateCategoriesTable{})
	migration.Register("20250101000001_create_products_table", &CreateProductsTable{})
	migration.Register("20250101000002_create_customers_table", &CreateCustomersTable{})
	migration.Register("20250101000003_create_orders_table", &CreateOrdersTable{})
	migration.Register("20250101000004_create_order_items_table", &CreateOrderItemsTable{})
}

type categoryV1 struct {
	ID   uint   `gorm:"primaryKey"`
	Name string `gorm:"size:255;not null"`
}

func (categoryV1) TableName() string { return "categories" }

type productV1 struct {
	ID          uint            `gorm:"primaryKey"`
	Name        string          `gorm:"size:255;not null;index"`
	Brand       string          `gorm:"size:255"`
	Size        string          `gorm:"size:50"`
	Color       string          `gorm:"size:50"`
	Model       string          `gorm:"size:255"`
	Spec        string          `gorm:"type:text"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
	Stock       int             `gorm:"not null;default:0"`
	Rating      float64         `gorm:"not null;default:0"`
	CategoryID  *uint           `gorm:"index"`
	Description string          `gorm:"type:text"`
	ImageURL    string          `gorm:"size:512"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (productV1) TableName() string { return "products" }

type customerV1 struct {
	ID        uint   `gorm:"primaryKey"`
	FirstName string `gorm:"size:255;not null"`
	LastName  string `gorm:"size:255;not null;index"`
	Phone     string `gorm:"size:50"`
	Email     string `gorm:"size:255"`
	CreatedAt time.Time
}

func (customerV1) TableName() string { return "customers" }

// orderV1 predates order statuses; see 20250201000000_add_status_to_orders.
type orderV1 struct {
	ID         uint            `gorm:"primaryKey"`
	CustomerID uint            `gorm:"not null;index"`
	CreatedAt  time.Time       `gorm:"index"`
	Total      decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"`
}

func (orderV1) TableName() string { return "orders" }

type orderItemV1 struct {
	ID        uint            `gorm:"primaryKey"`
	OrderID   uint            `gorm:"not null;index"`
	ProductID uint            `gorm:"not null;index"`
	Quantity  int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(10,2);not null"`
}

func (orderItemV1) TableName() string { return "order_items" }

type CreateCategoriesTable struct{}

func (m *CreateCategoriesTable) Up(db *gorm.DB) error   { return db.AutoMigrate(&categoryV1{}) }
func (m *CreateCategoriesTable) Down(db *gorm.DB) error { return db.Migrator().DropTable("categories") }

type CreateProductsTable struct{}

func (m *CreateProductsTable) Up(db *gorm.DB) error   { return db.AutoMigrate(&productV1{}) }
func (m *CreateProductsTable) Down(db *gorm.DB) error { return db.Migrator().DropTable("products") }

type CreateCustomersTable struct{}

func (m *CreateCustomersTable) Up(db *gorm.DB) error   { return db.AutoMigrate(&customerV1{}) }
func (m *CreateCustomersTable) Down(db *gorm.DB) error { return db.Migrator().DropTable("customers") }

type CreateOrdersTable struct{}

func (m *CreateOrdersTable) Up(db *gorm.DB) error   { return db.AutoMigrate(&orderV1{}) }
func (m *CreateOrdersTable) Down(db *gorm.DB) error { return db.Migrator().DropTable("orders") }

type CreateOrderItemsTable struct{}

func (m *CreateOrderItemsTable) Up(db *gorm.DB) error   { return db.AutoMigrate(&orderItemV1{}) }
func (m *CreateOrderItemsTable) Down(db *gorm.DB) error { return db.Migrator().DropTable("order_items") }
