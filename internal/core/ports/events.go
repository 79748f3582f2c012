package ports

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
)

// OrderChangedEvent is published after a lifecycle transition commits.
type OrderChangedEvent struct {
	OrderID    kernel.UUID  `json:"orderId"`
	CustomerID kernel.UUID  `json:"customerId"`
	CourierID  *kernel.UUID `json:"courierId,omitempty"`
	Status     string       `json:"status"`
	Event      string       `json:"event"`
	OccurredAt time.Time    `json:"occurredAt"`
}

// OrderEventPublisher hands lifecycle events to an external broker.
type OrderEventPublisher interface {
	PublishOrderChanged(ctx context.Context, event OrderChangedEvent) error
}
