package services_test

import (
	"context"
	"errors"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/app/services"
	"github.com/shashiranjanraj/storefront/internal/testdb"
)

func day(s string, hour int) time.Time {
	d, _ := time.Parse("2006-01-02", s)
	return d.Add(time.Duration(hour) * time.Hour)
}

// seedOrders creates three orders:
//
//	#1 2025-03-01 09:00 New      12.00  Anna   Tee x2; Cap x1
//	#2 2025-03-02 23:30 Shipped  99.00  Boris  (no lines)
//	#3 2025-03-03 00:10 Canceled 30.00  Anna   Cap x3
func seedOrders(t *testing.T, db *gorm.DB) {
	t.Helper()
	anna := createCustomer(t, db, "Anna", "Ivanova", "+7 900 111")
	boris := createCustomer(t, db, "Boris", "Petrov", "+7 900 222")
	createProduct(t, db, models.Product{ID: 1, Name: "Tee", Price: price("3.00")})
	createProduct(t, db, models.Product{ID: 2, Name: "Cap", Price: price("6.00")})

	o1 := createOrderAt(t, db, anna.ID, "New", "12.00", day("2025-03-01", 9))
	addLine(t, db, o1.ID, 1, 2, "3.00")
	addLine(t, db, o1.ID, 2, 1, "6.00")

	createOrderAt(t, db, boris.ID, "Shipped", "99.00", day("2025-03-02", 23).Add(30*time.Minute))

	o3 := createOrderAt(t, db, anna.ID, "Canceled", "30.00", day("2025-03-03", 0).Add(10*time.Minute))
	addLine(t, db, o3.ID, 2, 3, "6.00")
}

func ids(rows []services.OrderRow) []uint {
	out := make([]uint, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func listOrders(t *testing.T, svc *services.OrderService, q url.Values) []services.OrderRow {
	t.Helper()
	f, err := services.ParseOrderFilter(q)
	require.NoError(t, err)
	rows, err := svc.List(context.Background(), f)
	require.NoError(t, err)
	return rows
}

func TestOrderList_RowsAndSummaries(t *testing.T) {
	db := testdb.Open(t)
	seedOrders(t, db)

	rows := listOrders(t, services.NewOrderService(db), url.Values{})
	require.Len(t, rows, 3)
	assert.Equal(t, []uint{3, 2, 1}, ids(rows), "newest first by default")

	assert.Equal(t, "Cap (x3)", rows[0].Items)
	assert.Equal(t, services.NoItems, rows[1].Items)
	assert.Equal(t, "Tee (x2); Cap (x1)", rows[2].Items)

	assert.Equal(t, "Anna Ivanova", rows[2].CustomerName)
	assert.Equal(t, "+7 900 111", rows[2].CustomerPhone)
	assert.Equal(t, "Boris Petrov", rows[1].CustomerName)
	assert.True(t, price("12.00").Equal(rows[2].Total))
}

func TestOrderList_Sorts(t *testing.T) {
	db := testdb.Open(t)
	seedOrders(t, db)
	svc := services.NewOrderService(db)

	tests := map[string][]uint{
		"created_desc": {3, 2, 1},
		"created_asc":  {1, 2, 3},
		"total_desc":   {2, 3, 1},
		"total_asc":    {1, 3, 2},
		"status_asc":   {3, 1, 2},
		"nonsense":     {3, 2, 1},
	}
	for sort, want := range tests {
		t.Run(sort, func(t *testing.T) {
			assert.Equal(t, want, ids(listOrders(t, svc, url.Values{"sort": {sort}})))
		})
	}
}

func TestOrderFilter_ScopesEmitOrderBy(t *testing.T) {
	db := testdb.Open(t)

	f, err := services.ParseOrderFilter(url.Values{"sort": {"total_desc"}})
	require.NoError(t, err)
	sql := db.ToSQL(func(tx *gorm.DB) *gorm.DB {
		var rows []models.Order
		return tx.Model(&models.Order{}).Scopes(f.Scopes()...).Find(&rows)
	})
	assert.Contains(t, sql, "ORDER BY")
	assert.Contains(t, sql, "`orders`.`total` DESC")
	assert.Contains(t, sql, "`orders`.`id` DESC")
}

func TestOrderList_Filters(t *testing.T) {
	db := testdb.Open(t)
	seedOrders(t, db)
	svc := services.NewOrderService(db)

	tests := []struct {
		name string
		q    url.Values
		want []uint
	}{
		{"status", url.Values{"status": {"Shipped"}}, []uint{2}},
		{"status all", url.Values{"status": {"all"}}, []uint{3, 2, 1}},
		{"date_to is inclusive of the whole day", url.Values{"date_to": {"2025-03-02"}}, []uint{2, 1}},
		{"date_from inclusive", url.Values{"date_from": {"2025-03-02"}}, []uint{3, 2}},
		{"single day", url.Values{"date_from": {"2025-03-02"}, "date_to": {"2025-03-02"}}, []uint{2}},
		{"status and dates combine", url.Values{"status": {"New"}, "date_from": {"2025-03-02"}}, []uint{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(listOrders(t, svc, tt.q)))
		})
	}
}

func TestOrderList_DeletedCustomerAndProduct(t *testing.T) {
	db := testdb.Open(t)
	seedOrders(t, db)
	require.NoError(t, services.NewCustomerService(db).Delete(context.Background(), 1))
	require.NoError(t, services.NewProductService(db).Delete(context.Background(), 1))

	rows := listOrders(t, services.NewOrderService(db), url.Values{"sort": {"created_asc"}})
	require.Len(t, rows, 3)
	assert.Equal(t, "", rows[0].CustomerName)
	assert.Equal(t, "", rows[0].CustomerPhone)
	assert.Equal(t, " (x2); Cap (x1)", rows[0].Items)
}

func TestParseOrderFilter_Errors(t *testing.T) {
	_, err := services.ParseOrderFilter(url.Values{"status": {"shipped"}})
	assert.True(t, errors.Is(err, services.ErrInvalidStatus), "status match is case-sensitive")

	_, err = services.ParseOrderFilter(url.Values{"date_from": {"03/01/2025"}})
	assert.True(t, errors.Is(err, services.ErrInvalidDate))

	_, err = services.ParseOrderFilter(url.Values{"date_to": {"2025-02-30"}})
	assert.True(t, errors.Is(err, services.ErrInvalidDate))
}

func TestOrderDetail(t *testing.T) {
	db := testdb.Open(t)
	seedOrders(t, db)
	svc := services.NewOrderService(db)

	d, err := svc.Detail(context.Background(), 1)
	require.NoError(t, err)
	require.NotNil(t, d.Customer)
	assert.Equal(t, "Anna", d.Customer.FirstName)
	require.Len(t, d.Lines, 2)
	assert.Equal(t, "Tee", d.Lines[0].ProductName)
	assert.Equal(t, "Tee (x2); Cap (x1)", d.Items)

	_, err = svc.Detail(context.Background(), 404)
	assert.True(t, errors.Is(err, services.ErrNotFound))
}

func TestOrderDetail_OrphanCustomer(t *testing.T) {
	db := testdb.Open(t)
	o := createOrderAt(t, db, 77, "New", "0", day("2025-03-01", 0))

	d, err := services.NewOrderService(db).Detail(context.Background(), o.ID)
	require.NoError(t, err)
	assert.Nil(t, d.Customer)
	assert.Equal(t, services.NoItems, d.Items)
}

func TestItemSummary(t *testing.T) {
	line := func(name string, qty int) repositories.OrderLine {
		return repositories.OrderLine{OrderItem: models.OrderItem{Quantity: qty}, ProductName: name}
	}
	assert.Equal(t, "no items", services.ItemSummary(nil))
	assert.Equal(t, "Pen (x1)", services.ItemSummary([]repositories.OrderLine{line("Pen", 1)}))
	assert.Equal(t, "Pen (x1); Ink (x12)", services.ItemSummary([]repositories.OrderLine{line("Pen", 1), line("Ink", 12)}))
}
