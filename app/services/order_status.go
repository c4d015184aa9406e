package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/storefront/app/repositories"
	"github.com/shashiranjanraj/storefront/pkg/event"
	"github.com/shashiranjanraj/storefront/pkg/logger"
)

// Status is an order's lifecycle state.
type Status string

const (
	StatusNew        Status = "New"
	StatusProcessing Status = "Processing"
	StatusShipped    Status = "Shipped"
	StatusDelivered  Status = "Delivered"
	StatusCanceled   Status = "Canceled"
)

// Statuses lists every status in lifecycle order.
var Statuses = []Status{StatusNew, StatusProcessing, StatusShipped, StatusDelivered, StatusCanceled}

// ParseStatus matches raw exactly (case-sensitive) against Statuses.
func ParseStatus(raw string) (Status, error) {
	for _, s := range Statuses {
		if string(s) == raw {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidStatus, raw)
}

// StatusChanged is the payload of event.OrderStatusChanged.
type StatusChanged struct {
	OrderID uint
	From    Status
	To      Status
}

// StatusService moves orders between statuses. Any status may follow any
// other; the guard only keeps values inside the enumeration.
type StatusService struct {
	orders *repositories.OrderRepository
}

func NewStatusService(db *gorm.DB) *StatusService {
	return &StatusService{orders: repositories.NewOrderRepository(db)}
}

// UpdateStatus sets order orderID to target and returns the status it had
// before. Only the status column is written; total and lines are untouched.
func (s *StatusService) UpdateStatus(ctx context.Context, orderID, target string) (Status, error) {
	id, ok := positiveInt(orderID)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidOrderID, orderID)
	}

	to, err := ParseStatus(strings.TrimSpace(target))
	if err != nil {
		return "", err
	}

	order, err := s.orders.FindByID(ctx, uint(id))
	if err != nil {
		return "", fmt.Errorf("update status of order %d: %w", id, err)
	}

	if err := s.orders.SetStatus(ctx, order.ID, string(to)); err != nil {
		return "", fmt.Errorf("update status of order %d: %w", id, err)
	}

	from := Status(order.Status)
	logger.WithCtx(ctx).Info("order status changed", "order_id", order.ID, "from", from, "to", to)
	event.Fire(ctx, event.OrderStatusChanged, StatusChanged{OrderID: order.ID, From: from, To: to})
	return from, nil
}
