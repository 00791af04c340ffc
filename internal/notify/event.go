// Package notify carries order events from the API to the notifier worker.
package notify

import (
	"context"
	"log/slog"
	"time"

	"github.com/Skotchmaster/dairy_shop/internal/logging"
)

const (
	EventOrderPlaced      = "order_placed"
	EventDeliveryAssigned = "delivery_assigned"
)

type Event struct {
	Type       string    `json:"type"`
	OrderID    uint      `json:"order_id"`
	OccurredAt time.Time `json:"occurred_at"`

	ProductID    uint   `json:"product_id"`
	ProductTitle string `json:"product_title"`
	Quantity     int64  `json:"quantity"`
	TotalCost    string `json:"total_cost"`
	Status       string `json:"status"`

	CustomerName    string `json:"customer_name"`
	CustomerMobile  string `json:"customer_mobile"`
	CustomerAddress string `json:"customer_address"`

	DeliveryName  string `json:"delivery_name,omitempty"`
	DeliveryEmail string `json:"delivery_email,omitempty"`
}

type Notifier interface {
	Notify(ctx context.Context, ev Event) error
}

// Nop only logs; used when no broker is configured.
type Nop struct{}

func (Nop) Notify(ctx context.Context, ev Event) error {
	logging.FromContext(ctx).Debug("notify_skipped", slog.String("type", ev.Type), slog.Uint64("order_id", uint64(ev.OrderID)))
	return nil
}
