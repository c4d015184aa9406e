package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
)

type CategoryRepository struct {
	db *gorm.DB
}

func NewCategoryRepository(db *gorm.DB) *CategoryRepository {
	return &CategoryRepository{db: db}
}

// All returns every category ordered by name.
func (r *CategoryRepository) All(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	err := r.db.WithContext(ctx).Order("name").Order("id").Find(&cats).Error
	return cats, err
}
