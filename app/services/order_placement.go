package services

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/models"
	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// Reasons a submitted line is dropped.
const (
	SkipMalformed      = "malformed"
	SkipMissingProduct = "missing_product"
)

// PlaceOrderInput is the raw order form: a customer, an optional status and
// two parallel lists pairing product_id[i] with quantity[i].
type PlaceOrderInput struct {
	CustomerID string
	Status     string
	ProductIDs []string
	Quantities []string
}

// PlaceOrderInputFromForm reads the repeated product_id and quantity
// fields in submission order.
func PlaceOrderInputFromForm(v url.Values) PlaceOrderInput {
	return PlaceOrderInput{
		CustomerID: v.Get("customer_id"),
		Status:     v.Get("status"),
		ProductIDs: v["product_id"],
		Quantities: v["quantity"],
	}
}

// PlacedOrder is the committed order with its lines. Skipped counts by
// reason the submitted pairs that did not become lines.
type PlacedOrder struct {
	Order   models.Order
	Items   []models.OrderItem
	Skipped map[string]int
}

// SkippedTotal is the number of dropped pairs.
func (p PlacedOrder) SkippedTotal() int {
	n := 0
	for _, c := range p.Skipped {
		n += c
	}
	return n
}

// OrderService places, lists and shows orders.
type OrderService struct {
	db        *gorm.DB
	orders    *repositories.OrderRepository
	customers *repositories.CustomerRepository
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{
		db:        db,
		orders:    repositories.NewOrderRepository(db),
		customers: repositories.NewCustomerRepository(db),
	}
}

// Place creates an order from in. The customer must be a positive id and
// the two lists must be the same length, otherwise nothing is written.
// Pairs with a blank, non-integer or non-positive token, and pairs naming a
// missing product, are dropped. Every surviving pair is priced at the
// product's current price; the total is summed once and stored. An order
// with no surviving pairs is still created, with total 0.
//
// The header, lines and total commit together or not at all.
func (s *OrderService) Place(ctx context.Context, in PlaceOrderInput) (PlacedOrder, error) {
	customerID, ok := positiveInt(in.CustomerID)
	if !ok {
		return PlacedOrder{}, ErrCustomerRequired
	}
	if len(in.ProductIDs) != len(in.Quantities) {
		return PlacedOrder{}, fmt.Errorf("%w: %d products, %d quantities",
			ErrLineCountMismatch, len(in.ProductIDs), len(in.Quantities))
	}

	status := StatusNew
	if raw := strings.TrimSpace(in.Status); raw != "" {
		st, err := ParseStatus(raw)
		if err != nil {
			return PlacedOrder{}, err
		}
		status = st
	}

	placed := PlacedOrder{Skipped: map[string]int{}}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		orders := repositories.NewOrderRepository(tx)
		products := repositories.NewProductRepository(tx)

		order := models.Order{
			CustomerID: uint(customerID),
			Status:     string(status),
			Total:      decimal.Zero,
		}
		if err := orders.Create(ctx, &order); err != nil {
			return fmt.Errorf("insert order: %w", err)
		}

		total := decimal.Zero
		for i := range in.ProductIDs {
			productID, okP := positiveInt(in.ProductIDs[i])
			qty, okQ := positiveInt(in.Quantities[i])
			if !okP || !okQ {
				placed.Skipped[SkipMalformed]++
				continue
			}

			product, err := products.FindByID(ctx, uint(productID))
			if errors.Is(err, repositories.ErrNotFound) {
				placed.Skipped[SkipMissingProduct]++
				continue
			}
			if err != nil {
				return fmt.Errorf("load product %d: %w", productID, err)
			}

			item := models.OrderItem{
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  qty,
				Price:     product.Price,
			}
			if err := orders.AddItem(ctx, &item); err != nil {
				return fmt.Errorf("insert line for product %d: %w", productID, err)
			}
			placed.Items = append(placed.Items, item)
			total = total.Add(item.LineTotal())
		}

		if err := orders.SetTotal(ctx, order.ID, total); err != nil {
			return fmt.Errorf("store total: %w", err)
		}
		order.Total = total
		placed.Order = order
		return nil
	})
	if err != nil {
		return PlacedOrder{}, fmt.Errorf("place order: %w", err)
	}

	log := logger.WithCtx(ctx)
	log.Info("order placed",
		"order_id", placed.Order.ID,
		"customer_id", placed.Order.CustomerID,
		"lines", len(placed.Items),
		"total", placed.Order.Total.StringFixed(2),
	)
	if n := placed.SkippedTotal(); n > 0 {
		log.Warn("order lines skipped", "order_id", placed.Order.ID, "skipped", n,
			SkipMalformed, placed.Skipped[SkipMalformed],
			SkipMissingProduct, placed.Skipped[SkipMissingProduct],
		)
	}
	event.Fire(ctx, event.OrderPlaced, placed)
	return placed, nil
}
