package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Category groups products for the catalog filter.
type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:255;not null" json:"name"`
}

// Product is a catalog entry. Size/Color describe apparel, Model/Spec
// describe electronics; a store uses whichever pair applies.
//
// CategoryID is not a foreign key: deleting a category leaves products in
// place with a blank category name.
type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	Name        string          `gorm:"size:255;not null;index" json:"name"`
	Brand       string          `gorm:"size:255" json:"brand"`
	Size        string          `gorm:"size:50" json:"size,omitempty"`
	Color       string          `gorm:"size:50" json:"color,omitempty"`
	Model       string          `gorm:"size:255" json:"model,omitempty"`
	Spec        string          `gorm:"type:text" json:"spec,omitempty"`
	Price       decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0" json:"price"`
	Stock       int             `gorm:"not null;default:0" json:"stock"`
	Rating      float64         `gorm:"not null;default:0" json:"rating"`
	CategoryID  *uint           `gorm:"index" json:"category_id"`
	Description string          `gorm:"type:text" json:"description"`
	ImageURL    string          `gorm:"size:512" json:"image_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
