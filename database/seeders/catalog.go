package seeders

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/storefront/app/models"
)

func init() {
	Register("categories", SeedCategories)
	Register("products", SeedProducts)
	Register("customers", SeedCustomers)
}

// SeedCategories loads dir/categories.csv (id,name).
func SeedCategories(db *gorm.DB, dir string) error {
	rows, err := readCSV(filepath.Join(dir, "categories.csv"))
	if err != nil {
		return err
	}

	cats := make([]models.Category, 0, len(rows))
	for i, r := range rows {
		id, err := r.uintField("id")
		if err != nil {
			return fmt.Errorf("categories.csv line %d: %w", i+2, err)
		}
		cats = append(cats, models.Category{ID: id, Name: r.get("name")})
	}
	return insertIgnore(db, &cats)
}

// SeedProducts loads dir/products.csv. Apparel files carry size,color and
// electronics files carry model,spec; missing columns load as blanks.
func SeedProducts(db *gorm.DB, dir string) error {
	rows, err := readCSV(filepath.Join(dir, "products.csv"))
	if err != nil {
		return err
	}

	products := make([]models.Product, 0, len(rows))
	for i, r := range rows {
		p, err := r.product()
		if err != nil {
			return fmt.Errorf("products.csv line %d: %w", i+2, err)
		}
		products = append(products, p)
	}
	return insertIgnore(db, &products)
}

// SeedCustomers loads dir/customers.csv when present.
func SeedCustomers(db *gorm.DB, dir string) error {
	rows, err := readCSV(filepath.Join(dir, "customers.csv"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}

	customers := make([]models.Customer, 0, len(rows))
	for i, r := range rows {
		id, err := r.uintField("id")
		if err != nil {
			return fmt.Errorf("customers.csv line %d: %w", i+2, err)
		}
		customers = append(customers, models.Customer{
			ID:        id,
			FirstName: r.get("first_name"),
			LastName:  r.get("last_name"),
			Phone:     r.get("phone"),
			Email:     r.get("email"),
		})
	}
	return insertIgnore(db, &customers)
}

func insertIgnore[T any](db *gorm.DB, rows *[]T) error {
	if len(*rows) == 0 {
		return nil
	}
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(rows).Error
}

// record is one CSV row addressed by header name.
type record struct {
	header map[string]int
	values []string
}

func (r record) get(col string) string {
	i, ok := r.header[col]
	if !ok || i >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[i])
}

func (r record) uintField(col string) (uint, error) {
	v, err := strconv.ParseUint(r.get(col), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", col, err)
	}
	return uint(v), nil
}

func (r record) product() (models.Product, error) {
	id, err := r.uintField("id")
	if err != nil {
		return models.Product{}, err
	}
	price, err := decimal.NewFromString(r.get("price"))
	if err != nil {
		return models.Product{}, fmt.Errorf("price: %w", err)
	}
	stock, err := strconv.Atoi(r.get("stock"))
	if err != nil {
		return models.Product{}, fmt.Errorf("stock: %w", err)
	}
	rating, err := strconv.ParseFloat(r.get("rating"), 64)
	if err != nil {
		return models.Product{}, fmt.Errorf("rating: %w", err)
	}

	p := models.Product{
		ID:          id,
		Name:        r.get("name"),
		Brand:       r.get("brand"),
		Size:        r.get("size"),
		Color:       r.get("color"),
		Model:       r.get("model"),
		Spec:        r.get("spec"),
		Price:       price,
		Stock:       stock,
		Rating:      rating,
		Description: r.get("description"),
		ImageURL:    r.get("image_url"),
	}
	if r.get("category_id") != "" {
		cat, err := r.uintField("category_id")
		if err != nil {
			return models.Product{}, err
		}
		p.CategoryID = &cat
	}
	return p, nil
}

func readCSV(path string) ([]record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1

	head, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: read header: %w", filepath.Base(path), err)
	}
	header := make(map[string]int, len(head))
	for i, h := range head {
		header[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}

	var rows []record
	for {
		values, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
		}
		rows = append(rows, record{header: header, values: values})
	}
	return rows, nil
}
