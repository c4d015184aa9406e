package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
)

// Order sort keys accepted from the query string.
const (
	SortCreatedDesc = "created_desc"
	SortCreatedAsc  = "created_asc"
	SortTotalDesc   = "total_desc"
	SortTotalAsc    = "total_asc"
	SortStatusAsc   = "status_asc"
)

// NoItems is shown for an order without lines.
const NoItems = "no items"

const dateLayout = "2006-01-02"

func orderColumn(name string, desc bool) clause.OrderByColumn {
	return clause.OrderByColumn{Column: clause.Column{Table: "orders", Name: name}, Desc: desc}
}

// orderSorts maps each sort key to a fixed ORDER BY list; id breaks ties in
// the same direction as the primary column.
var orderSorts = map[string][]clause.OrderByColumn{
	SortCreatedDesc: {orderColumn("created_at", true), orderColumn("id", true)},
	SortCreatedAsc:  {orderColumn("created_at", false), orderColumn("id", false)},
	SortTotalDesc:   {orderColumn("total", true), orderColumn("id", true)},
	SortTotalAsc:    {orderColumn("total", false), orderColumn("id", false)},
	SortStatusAsc:   {orderColumn("status", false), orderColumn("id", false)},
}

// OrderFilter is the parsed order listing query. Zero values disable each
// condition.
type OrderFilter struct {
	Status Status
	From   time.Time // inclusive UTC day
	To     time.Time // inclusive UTC day
	Sort   string
}

// ParseOrderFilter reads status, date_from, date_to and sort. A blank or
// "all" status means every status; any other value must be a known status.
// Dates are YYYY-MM-DD calendar days in UTC. An unknown sort falls back to
// newest first.
func ParseOrderFilter(v url.Values) (OrderFilter, error) {
	f := OrderFilter{Sort: v.Get("sort")}
	if _, ok := orderSorts[f.Sort]; !ok {
		f.Sort = SortCreatedDesc
	}

	if raw := strings.TrimSpace(v.Get("status")); raw != "" && !strings.EqualFold(raw, "all") {
		st, err := ParseStatus(raw)
		if err != nil {
			return f, err
		}
		f.Status = st
	}

	var err error
	if f.From, err = parseDay(v.Get("date_from")); err != nil {
		return f, err
	}
	if f.To, err = parseDay(v.Get("date_to")); err != nil {
		return f, err
	}
	return f, nil
}

func parseDay(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	d, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidDate, raw)
	}
	return d, nil
}

// Scopes turns the filter into query scopes. date_to covers its whole day:
// created_at < date_to + 1 day.
func (f OrderFilter) Scopes() []repositories.Scope {
	var scopes []repositories.Scope

	if f.Status != "" {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("orders.status = ?", string(f.Status))
		})
	}
	if !f.From.IsZero() {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("orders.created_at >= ?", f.From)
		})
	}
	if !f.To.IsZero() {
		scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
			return db.Where("orders.created_at < ?", f.To.AddDate(0, 0, 1))
		})
	}

	cols, ok := orderSorts[f.Sort]
	if !ok {
		cols = orderSorts[SortCreatedDesc]
	}
	scopes = append(scopes, func(db *gorm.DB) *gorm.DB {
		for _, c := range cols {
			db = db.Order(c)
		}
		return db
	})
	return scopes
}

// OrderRow is one line of the order listing.
type OrderRow struct {
	ID            uint            `json:"id"`
	CreatedAt     time.Time       `json:"created_at"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
	CustomerID    uint            `json:"customer_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Items         string          `json:"items"`
}

// List returns one row per matching order with its item summary.
func (s *OrderService) List(ctx context.Context, f OrderFilter) ([]OrderRow, error) {
	headers, err := s.orders.List(ctx, f.Scopes()...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}

	ids := make([]uint, len(headers))
	for i, h := range headers {
		ids[i] = h.ID
	}
	lines, err := s.orders.Lines(ctx, ids...)
	if err != nil {
		return nil, fmt.Errorf("list order lines: %w", err)
	}

	byOrder := make(map[uint][]repositories.OrderLine, len(headers))
	for _, l := range lines {
		byOrder[l.OrderID] = append(byOrder[l.OrderID], l)
	}

	rows := make([]OrderRow, len(headers))
	for i, h := range headers {
		customer := models.Customer{FirstName: h.CustomerFirstName, LastName: h.CustomerLastName}
		rows[i] = OrderRow{
			ID:            h.ID,
			CreatedAt:     h.CreatedAt,
			Total:         h.Total,
			Status:        h.Status,
			CustomerID:    h.CustomerID,
			CustomerName:  customer.FullName(),
			CustomerPhone: h.CustomerPhone,
			Items:         ItemSummary(byOrder[h.ID]),
		}
	}
	return rows, nil
}

// ItemSummary renders lines as "name (xQty)" joined by "; ", or NoItems.
func ItemSummary(lines []repositories.OrderLine) string {
	if len(lines) == 0 {
		return NoItems
	}
	parts := make([]string, len(lines))
	for i, l := range lines {
		parts[i] = l.ProductName + " (x" + strconv.Itoa(l.Quantity) + ")"
	}
	return strings.Join(parts, "; ")
}

// OrderDetail is a single order with its customer and priced lines.
// Customer is nil when the customer was deleted.
type OrderDetail struct {
	Order    models.Order             `json:"order"`
	Customer *models.Customer         `json:"customer"`
	Lines    []repositories.OrderLine `json:"lines"`
	Items    string                   `json:"items"`
}

// Detail loads order id with its customer and lines.
func (s *OrderService) Detail(ctx context.Context, id uint) (OrderDetail, error) {
	order, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return OrderDetail{}, fmt.Errorf("get order %d: %w", id, err)
	}

	d := OrderDetail{Order: order}

	c, err := s.customers.FindByID(ctx, order.CustomerID)
	switch {
	case err == nil:
		d.Customer = &c
	case !errors.Is(err, repositories.ErrNotFound):
		return OrderDetail{}, fmt.Errorf("get customer of order %d: %w", id, err)
	}

	if d.Lines, err = s.orders.Lines(ctx, order.ID); err != nil {
		return OrderDetail{}, fmt.Errorf("get lines of order %d: %w", id, err)
	}
	d.Items = ItemSummary(d.Lines)
	return d, nil
}
