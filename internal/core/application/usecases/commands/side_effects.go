package commands

import (
	"context"
	"log/slog"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// Notification texts shown to users.
const (
	TitleOrderConfirmed = "Order Confirmed"
	TitleNewOrder       = "New Order"
	TitleInDelivery     = "Order in delivery"
	TitleDelivered      = "Order Delivered"

	MessageOrderConfirmed    = "Your order has been confirmed"
	MessageNewOrder          = "You have a new order to deliver"
	MessageOwnerInDelivery   = "Your order is in delivery"
	MessageCourierInDelivery = "You have an order in delivery"
	MessageOwnerDelivered    = "Your order has been delivered"
	MessageCourierDelivered  = "You have delivered the order"
)

// Event names published for transitions that are not user events.
const (
	EventCreated         = "create"
	EventCourierAssigned = "courier assigned"
)

// DefaultPublishTimeout bounds a single event publish.
const DefaultPublishTimeout = 2 * time.Second

// SideEffects runs post-commit work detached from the caller's cancellation.
// Failures are logged and swallowed.
type SideEffects struct {
	notifier       Notifier
	publisher      ports.OrderEventPublisher
	logger         *slog.Logger
	now            func() time.Time
	publishTimeout time.Duration
}

// NewSideEffects builds the post-commit runner. notifier and publisher may be nil.
func NewSideEffects(notifier Notifier, publisher ports.OrderEventPublisher, logger *slog.Logger) SideEffects {
	if logger == nil {
		logger = slog.Default()
	}
	return SideEffects{
		notifier:       notifier,
		publisher:      publisher,
		logger:         logger.With("component", "commands"),
		now:            func() time.Time { return time.Now().UTC() },
		publishTimeout: DefaultPublishTimeout,
	}
}

// WithPublishTimeout returns a copy whose publishes give up after d.
func (s SideEffects) WithPublishTimeout(d time.Duration) SideEffects {
	if d > 0 {
		s.publishTimeout = d
	}
	return s
}

func (s SideEffects) notify(ctx context.Context, userID kernel.UUID, title, message string) {
	if s.notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	if _, err := s.notifier.Notify(ctx, userID, title, message); err != nil {
		s.logger.ErrorContext(ctx, "failed to notify user",
			"user_id", userID.String(),
			"title", title,
			"error", err,
		)
	}
}

func (s SideEffects) publish(ctx context.Context, o *order.Order, event string) {
	if s.publisher == nil {
		return
	}
	timeout := s.publishTimeout
	if timeout <= 0 {
		timeout = DefaultPublishTimeout
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	err := s.publisher.PublishOrderChanged(ctx, ports.OrderChangedEvent{
		OrderID:    o.ID(),
		CustomerID: o.CustomerID(),
		CourierID:  o.Courier(),
		Status:     o.Status().String(),
		Event:      event,
		OccurredAt: s.now(),
	})
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to publish order event",
			"order_id", o.ID().String(),
			"event", event,
			"error", err,
		)
	}
}

func (s SideEffects) logFailure(ctx context.Context, msg string, o *order.Order, err error) {
	s.logger.ErrorContext(ctx, msg, "order_id", o.ID().String(), "error", err)
}
