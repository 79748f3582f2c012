package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
)

// OrderFilter narrows ListOrders. Nil fields do not filter.
type OrderFilter struct {
	Status     *order.Status
	CustomerID *kernel.UUID
	CourierID  *kernel.UUID
}

// OrderRepository defines the persistence contract for order aggregates.
type OrderRepository interface {
	// Add persists a new order aggregate.
	Add(ctx context.Context, aggregate *order.Order) error

	// Update persists changes as a compare-and-swap on the loaded version.
	// Returns errs.ConflictError when another writer committed first and
	// errs.ObjectNotFoundError when the order is gone.
	Update(ctx context.Context, aggregate *order.Order) error

	// Delete removes a Basket order, or soft-deletes it when DeletedAt is set.
	// Guarded by the loaded version like Update.
	Delete(ctx context.Context, aggregate *order.Order) error

	// Get retrieves a live (not soft-deleted) order by id.
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)

	// List returns one page of live orders, newest first, and the total count.
	List(ctx context.Context, filter OrderFilter, page Page) ([]*order.Order, int64, error)

	// ListAwaitingCourier returns Confirmed orders without courier ordered by
	// confirmation time, oldest first.
	ListAwaitingCourier(ctx context.Context) ([]*order.Order, error)
}
