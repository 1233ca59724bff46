package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderCreated is emitted after an order commits.
type OrderCreated struct {
	EventID    uuid.UUID       `json:"eventId"`
	OrderID    int64           `json:"orderId"`
	EmployeeID int64           `json:"employeeId"`
	TotalCost  decimal.Decimal `json:"totalCost"`
	ItemCount  int             `json:"itemCount"`
	Week       int             `json:"week"`
	OccurredAt time.Time       `json:"occurredAt"`
}

// OrderEvents publishes order lifecycle events.
type OrderEvents interface {
	PublishOrderCreated(ctx context.Context, event OrderCreated) error
}

// NoopOrderEvents discards every event.
type NoopOrderEvents struct{}

func (NoopOrderEvents) PublishOrderCreated(context.Context, OrderCreated) error { return nil }
