package repositories

import (
	"context"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
)

// ProductRow is a product with its category name resolved. CategoryName is
// blank when the product has no category or the category was deleted.
type ProductRow struct {
	models.Product
	CategoryName string `json:"category"`
}

// ProductRepository handles database operations for Product.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// Search lists products joined with their category, narrowed and ordered
// by scopes.
func (r *ProductRepository) Search(ctx context.Context, scopes ...Scope) ([]ProductRow, error) {
	var rows []ProductRow
	err := r.db.WithContext(ctx).
		Model(&models.Product{}).
		Select("products.*, COALESCE(categories.name, '') AS category_name").
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Scopes(scopes...).
		Scan(&rows).Error
	return rows, err
}

// FindByID looks up a product by primary key.
func (r *ProductRepository) FindByID(ctx context.Context, id uint) (models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).First(&p, id).Error
	return p, translate(err)
}

// FindRow looks up a product with its category name.
func (r *ProductRepository) FindRow(ctx context.Context, id uint) (ProductRow, error) {
	rows, err := r.Search(ctx, func(db *gorm.DB) *gorm.DB {
		return db.Where("products.id = ?", id)
	})
	if err != nil {
		return ProductRow{}, err
	}
	if len(rows) == 0 {
		return ProductRow{}, ErrNotFound
	}
	return rows[0], nil
}

// Create persists a new product.
func (r *ProductRepository) Create(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Update writes every editable column of p, including zero values. The
// caller checks existence first; RowsAffected is unreliable for no-op
// updates on MySQL.
func (r *ProductRepository) Update(ctx context.Context, p *models.Product) error {
	return r.db.WithContext(ctx).Model(&models.Product{ID: p.ID}).
		Select("Name", "Brand", "Size", "Color", "Model", "Spec", "Price", "Stock",
			"Rating", "CategoryID", "Description", "ImageURL", "UpdatedAt").
		Updates(p).Error
}

// Delete removes a product. Order lines that reference it are kept.
func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
