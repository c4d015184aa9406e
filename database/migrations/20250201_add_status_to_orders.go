package migrations

import (
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/pkg/migration"
)

func init() {
	migration.Register("20250201000000_add_status_to_orders", &AddStatusToOrders{})
}

type orderStatusV2 struct {
	Status string `gorm:"size:20;not null;default:New"`
}

func (orderStatusV2) TableName() string { return "orders" }

// AddStatusToOrders adds orders.status for databases created before order
// statuses existed. Existing rows take the default "New". The column check
// makes it a no-op on schemas that already carry it.
type AddStatusToOrders struct{}

func (m *AddStatusToOrders) Up(db *gorm.DB) error {
	if db.Migrator().HasColumn(&orderStatusV2{}, "Status") {
		return nil
	}
	return db.Migrator().AddColumn(&orderStatusV2{}, "Status")
}

func (m *AddStatusToOrders) Down(db *gorm.DB) error {
	if !db.Migrator().HasColumn(&orderStatusV2{}, "Status") {
		return nil
	}
	return db.Migrator().DropColumn(&orderStatusV2{}, "Status")
}
