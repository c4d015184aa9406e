package kernel_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/internal/kernel"
	"github.com/shashiranjanraj/storefront/internal/testdb"
	"github.com/shashiranjanraj/storefront/pkg/ratelimit"
)

type app struct {
	t  *testing.T
	db *gorm.DB
	h  http.Handler
}

func newApp(t *testing.T) *app {
	t.Helper()
	db := testdb.Open(t)
	require.NoError(t, db.Create(&models.Category{ID: 1, Name: "Tops"}).Error)
	require.NoError(t, db.Create(&models.Customer{ID: 1, FirstName: "Anna", LastName: "Ivanova", Phone: "+7 900"}).Error)
	require.NoError(t, db.Create(&[]models.Product{
		{ID: 1, Name: "Tee", Brand: "Acme", Price: decimal.RequireFromString("10.00"), CategoryID: ptr(1)},
		{ID: 2, Name: "Hoodie", Brand: "Acme", Price: decimal.RequireFromString("25.50"), CategoryID: ptr(1)},
	}).Error)

	k := kernel.NewHTTPKernel(db, ratelimit.NewMemory(1000, time.Minute))
	return &app{t: t, db: db, h: k.Handler()}
}

func ptr(v uint) *uint { return &v }

func (a *app) get(path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func (a *app) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	a.h.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	var env struct {
		Status int             `json:"status"`
		Data   json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.NoError(t, json.Unmarshal(env.Data, into))
}

func TestHealthz(t *testing.T) {
	a := newApp(t)
	rec := a.get("/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestPlaceOrder_RedirectsToOrder(t *testing.T) {
	a := newApp(t)

	rec := a.post("/orders", url.Values{
		"customer_id": {"1"},
		"product_id":  {"1", "2", "oops"},
		"quantity":    {"2", "1", "1"},
	})
	require.Equal(t, http.StatusSeeOther, rec.Code, rec.Body.String())
	assert.Equal(t, "/orders/1", rec.Header().Get("Location"))

	rec = a.get("/orders/1")
	require.Equal(t, http.StatusOK, rec.Code)
	var detail struct {
		Order struct {
			Total  decimal.Decimal `json:"total"`
			Status string          `json:"status"`
		} `json:"order"`
		Items string `json:"items"`
	}
	decodeData(t, rec, &detail)
	assert.True(t, decimal.RequireFromString("45.50").Equal(detail.Order.Total))
	assert.Equal(t, "New", detail.Order.Status)
	assert.Equal(t, "Tee (x2); Hoodie (x1)", detail.Items)
}

func TestPlaceOrder_Rejections(t *testing.T) {
	a := newApp(t)

	assert.Equal(t, http.StatusBadRequest, a.post("/orders", url.Values{"product_id": {"1"}, "quantity": {"1"}}).Code)
	assert.Equal(t, http.StatusBadRequest, a.post("/orders", url.Values{
		"customer_id": {"1"}, "product_id": {"1", "2"}, "quantity": {"1"},
	}).Code)

	var n int64
	a.db.Model(&models.Order{}).Count(&n)
	assert.Zero(t, n)
}

func TestOrderStatus(t *testing.T) {
	a := newApp(t)
	require.Equal(t, http.StatusSeeOther, a.post("/orders", url.Values{"customer_id": {"1"}}).Code)

	rec := a.post("/orders/1/status", url.Values{"status": {"Shipped"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/orders/1", rec.Header().Get("Location"))

	assert.Equal(t, http.StatusBadRequest, a.post("/orders/1/status", url.Values{"status": {"Lost"}}).Code)
	assert.Equal(t, http.StatusBadRequest, a.post("/orders/abc/status", url.Values{"status": {"New"}}).Code)
	assert.Equal(t, http.StatusNotFound, a.post("/orders/99/status", url.Values{"status": {"New"}}).Code)

	var o models.Order
	require.NoError(t, a.db.First(&o, 1).Error)
	assert.Equal(t, "Shipped", o.Status)
}

func TestOrderIndex(t *testing.T) {
	a := newApp(t)
	require.Equal(t, http.StatusSeeOther, a.post("/orders", url.Values{"customer_id": {"1"}, "product_id": {"1"}, "quantity": {"3"}}).Code)
	require.Equal(t, http.StatusSeeOther, a.post("/orders", url.Values{"customer_id": {"1"}, "product_id": {"2"}, "quantity": {"2"}}).Code)

	type orderRow struct {
		ID           uint   `json:"id"`
		CustomerName string `json:"customer_name"`
		Items        string `json:"items"`
	}
	list := func(query string) []orderRow {
		rec := a.get("/orders?" + query)
		require.Equal(t, http.StatusOK, rec.Code)
		var body struct {
			Orders []orderRow `json:"orders"`
		}
		decodeData(t, rec, &body)
		return body.Orders
	}

	rows := list("status=all&sort=total_desc")
	require.Len(t, rows, 2)
	assert.Equal(t, uint(2), rows[0].ID, "51.00 before 30.00")
	assert.Equal(t, "Hoodie (x2)", rows[0].Items)
	assert.Equal(t, "Anna Ivanova", rows[1].CustomerName)
	assert.Equal(t, "Tee (x3)", rows[1].Items)

	rows = list("sort=total_asc")
	require.Len(t, rows, 2)
	assert.Equal(t, []uint{1, 2}, []uint{rows[0].ID, rows[1].ID})

	rows = list("sort=created_asc")
	require.Len(t, rows, 2)
	assert.Equal(t, []uint{1, 2}, []uint{rows[0].ID, rows[1].ID})

	assert.Equal(t, http.StatusBadRequest, a.get("/orders?status=Lost").Code)
	assert.Equal(t, http.StatusBadRequest, a.get("/orders?date_from=yesterday").Code)
}

func TestProducts(t *testing.T) {
	a := newApp(t)

	rec := a.get("/products?q=HOOD&cat=1")
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Products []struct {
			Name     string `json:"name"`
			Category string `json:"category"`
		} `json:"products"`
		Categories []models.Category `json:"categories"`
	}
	decodeData(t, rec, &body)
	require.Len(t, body.Products, 1)
	assert.Equal(t, "Hoodie", body.Products[0].Name)
	assert.Equal(t, "Tops", body.Products[0].Category)
	assert.Len(t, body.Categories, 1)

	rec = a.post("/products", url.Values{"name": {"Cap"}, "price": {"7.25"}, "stock": {"4"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/products", rec.Header().Get("Location"))

	assert.Equal(t, http.StatusUnprocessableEntity, a.post("/products", url.Values{"price": {"free"}}).Code)
	assert.Equal(t, http.StatusNotFound, a.get("/products/999").Code)
	assert.Equal(t, http.StatusBadRequest, a.get("/products/abc").Code)

	require.Equal(t, http.StatusSeeOther, a.post("/products/1", url.Values{"name": {"Tee v2"}, "price": {"11"}}).Code)
	require.Equal(t, http.StatusSeeOther, a.post("/products/2/delete", nil).Code)
	assert.Equal(t, http.StatusNotFound, a.post("/products/2/delete", nil).Code)
}

func TestCustomers(t *testing.T) {
	a := newApp(t)

	rec := a.post("/customers", url.Values{"first_name": {"Boris"}, "last_name": {"Petrov"}})
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/customers", rec.Header().Get("Location"))

	assert.Equal(t, http.StatusUnprocessableEntity, a.post("/customers", url.Values{"first_name": {"X"}}).Code)
	assert.Equal(t, http.StatusOK, a.get("/customers/1").Code)
	assert.Equal(t, http.StatusSeeOther, a.post("/customers/1", url.Values{"first_name": {"Anna"}, "last_name": {"Smirnova"}}).Code)
	assert.Equal(t, http.StatusSeeOther, a.post("/customers/1/delete", nil).Code)
	assert.Equal(t, http.StatusNotFound, a.get("/customers/1").Code)

	require.Equal(t, http.StatusSeeOther, a.post("/customers/2/delete", nil).Code)
	rec = a.get("/customers")
	require.Equal(t, http.StatusOK, rec.Code)
	var list []models.Customer
	decodeData(t, rec, &list)
	assert.Empty(t, list)
	assert.Contains(t, rec.Body.String(), `"data":[]`)
}

func TestUnknownRouteIsJSON404(t *testing.T) {
	a := newApp(t)
	rec := a.get("/nope")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
}

func TestMetricsEndpoint(t *testing.T) {
	a := newApp(t)
	require.Equal(t, http.StatusSeeOther, a.post("/orders", url.Values{"customer_id": {"1"}, "product_id": {"x"}, "quantity": {"1"}}).Code)

	rec := a.get("/metrics")
	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "storefront_orders_placed_total")
	assert.Contains(t, body, `storefront_orders_lines_skipped_total{reason="malformed"}`)
	assert.Contains(t, body, `route="/orders"`)
}

func TestRateLimited(t *testing.T) {
	db := testdb.Open(t)
	h := kernel.NewHTTPKernel(db, ratelimit.NewMemory(2, time.Minute)).Handler()

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRouteTable(t *testing.T) {
	k := kernel.NewHTTPKernel(nil, ratelimit.NewMemory(1, time.Minute))

	named := map[string]string{}
	for _, ri := range k.Router().Routes() {
		if ri.Name != "" {
			named[ri.Name] = ri.Method + " " + ri.Path
		}
	}
	assert.Equal(t, "POST /orders/{id}/status", named["orders.status"])
	assert.Equal(t, "POST /products/{id}/delete", named["products.destroy"])
	assert.Equal(t, "GET /customers/{id}", named["customers.show"])
	assert.Equal(t, "GET /healthz", named["health"])
}
