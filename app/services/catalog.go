package services

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// Product sort keys accepted from the query string.
const (
	SortByName   = "name"
	SortByPrice  = "price"
	SortByRating = "rating"
)

// productSorts is the only route from a user-supplied sort key to an
// ORDER BY column.
var productSorts = map[string]clause.OrderByColumn{
	SortByName:   {Column: clause.Column{Table: "products", Name: "name"}},
	SortByPrice:  {Column: clause.Column{Table: "products", Name: "price"}},
	SortByRating: {Column: clause.Column{Table: "products", Name: "rating"}},
}

// ProductFilter is the parsed catalog query.
type ProductFilter struct {
	Query      string
	CategoryID uint // 0 means all categories
	Sort       string
}

// ParseProductFilter reads q, cat and sort. A blank or non-numeric cat
// disables the category filter; an unknown sort falls back to name.
func ParseProductFilter(v url.Values) ProductFilter {
	f := ProductFilter{
		Query: strings.TrimSpace(v.Get("q")),
		Sort:  v.Get("sort"),
	}
	if id, ok := positiveInt(v.Get("cat")); ok {
		f.CategoryID = uint(id)
	}
	if _, ok := productSorts[f.Sort]; !ok {
		f.Sort = SortByName
	}
	return f
}

// Scopes turns the filter into query scopes: the text term matches name,
// description or brand case-insensitively, AND the category.
func (f ProductFilter) Scopes() []repositories.Scope {
	var scopes []repositories.Scope

	if f.Query != "" {
		like := "%" + strings.ToLower(f.Query) + "%"
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where(
				"(LOWER(products.name) LIKE ? OR LOWER(products.description) LIKE ? OR LOWER(products.brand) LIKE ?)",
				like, like, like,
			)
		})
	}

	if f.CategoryID != 0 {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("products.category_id = ?", f.CategoryID)
		})
	}

	order, ok := productSorts[f.Sort]
	if !ok {
		order = productSorts[SortByName]
	}
	scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
		return db.Order(order).Order(clause.OrderByColumn{Column: clause.Column{Table: "products", Name: "id"}})
	})

	return scopes
}

// ProductInput is the raw product form. Values are coerced and checked by
// Create and Update.
type ProductInput struct {
	Name        string
	Brand       string
	Size        string
	Color       string
	Model       string
	Spec        string
	Price       string
	Stock       string
	Rating      string
	CategoryID  string
	Description string
	ImageURL    string
}

// ProductInputFromForm maps form fields onto a ProductInput.
func ProductInputFromForm(v url.Values) ProductInput {
	return ProductInput{
		Name:        strings.TrimSpace(v.Get("name")),
		Brand:       strings.TrimSpace(v.Get("brand")),
		Size:        strings.TrimSpace(v.Get("size")),
		Color:       strings.TrimSpace(v.Get("color")),
		Model:       strings.TrimSpace(v.Get("model")),
		Spec:        strings.TrimSpace(v.Get("spec")),
		Price:       strings.TrimSpace(v.Get("price")),
		Stock:       strings.TrimSpace(v.Get("stock")),
		Rating:      strings.TrimSpace(v.Get("rating")),
		CategoryID:  strings.TrimSpace(v.Get("category_id")),
		Description: strings.TrimSpace(v.Get("description")),
		ImageURL:    strings.TrimSpace(v.Get("image_url")),
	}
}

func (in ProductInput) product() (models.Product, error) {
	errs := fieldErrors{}
	p := models.Product{
		Name:        in.Name,
		Brand:       in.Brand,
		Size:        in.Size,
		Color:       in.Color,
		Model:       in.Model,
		Spec:        in.Spec,
		Description: in.Description,
		ImageURL:    in.ImageURL,
	}

	if p.Name == "" {
		errs.add("name", "is required")
	}

	if in.Price == "" {
		errs.add("price", "is required")
	} else if price, err := decimal.NewFromString(in.Price); err != nil {
		errs.add("price", "must be a number")
	} else if price.IsNegative() {
		errs.add("price", "must not be negative")
	} else {
		p.Price = price.Round(2)
	}

	if in.Stock != "" {
		stock, err := strconv.Atoi(in.Stock)
		switch {
		case err != nil:
			errs.add("stock", "must be a whole number")
		case stock < 0:
			errs.add("stock", "must not be negative")
		default:
			p.Stock = stock
		}
	}

	if in.Rating != "" {
		rating, err := strconv.ParseFloat(in.Rating, 64)
		switch {
		case err != nil:
			errs.add("rating", "must be a number")
		case rating < 0 || rating > 5:
			errs.add("rating", "must be between 0 and 5")
		default:
			p.Rating = rating
		}
	}

	if in.CategoryID != "" {
		id, ok := positiveInt(in.CategoryID)
		if !ok {
			errs.add("category_id", "must be a category id")
		} else {
			cat := uint(id)
			p.CategoryID = &cat
		}
	}

	return p, errs.err()
}

// ProductService lists and maintains the catalog.
type ProductService struct {
	products *repositories.ProductRepository
}

func NewProductService(db *gorm.DB) *ProductService {
	return &ProductService{products: repositories.NewProductRepository(db)}
}

// List runs the catalog query. There is no pagination.
func (s *ProductService) List(ctx context.Context, f ProductFilter) ([]repositories.ProductRow, error) {
	rows, err := s.products.Search(ctx, f.Scopes()...)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return rows, nil
}

// Get returns one product with its category name.
func (s *ProductService) Get(ctx context.Context, id uint) (repositories.ProductRow, error) {
	row, err := s.products.FindRow(ctx, id)
	if err != nil {
		return row, fmt.Errorf("get product %d: %w", id, err)
	}
	return row, nil
}

// Create validates in and inserts a product.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (models.Product, error) {
	p, err := in.product()
	if err != nil {
		return p, err
	}
	if err := s.products.Create(ctx, &p); err != nil {
		return p, fmt.Errorf("create product: %w", err)
	}
	logger.WithCtx(ctx).Info("product created", "product_id", p.ID, "name", p.Name)
	return p, nil
}

// Update validates in and overwrites the editable columns of product id.
func (s *ProductService) Update(ctx context.Context, id uint, in ProductInput) (models.Product, error) {
	existing, err := s.products.FindByID(ctx, id)
	if err != nil {
		return existing, fmt.Errorf("update product %d: %w", id, err)
	}

	p, err := in.product()
	if err != nil {
		return existing, err
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt

	if err := s.products.Update(ctx, &p); err != nil {
		return p, fmt.Errorf("update product %d: %w", id, err)
	}
	logger.WithCtx(ctx).Info("product updated", "product_id", p.ID)
	return p, nil
}

// Delete removes product id. Past order lines keep their captured price
// and show a blank product name.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	if err := s.products.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete product %d: %w", id, err)
	}
	logger.WithCtx(ctx).Info("product deleted", "product_id", id)
	return nil
}

// CategoryService feeds the catalog's category filter.
type CategoryService struct {
	categories *repositories.CategoryRepository
}

func NewCategoryService(db *gorm.DB) *CategoryService {
	return &CategoryService{categories: repositories.NewCategoryRepository(db)}
}

// List returns every category ordered by name.
func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	cats, err := s.categories.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return cats, nil
}
