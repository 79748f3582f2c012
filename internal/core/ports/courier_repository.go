// Package ports defines the contracts between the application core and its adapters:
// repositories, the unit of work, and the external collaborators (product catalog,
// identity resolver, real-time pusher, event publisher).
package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
)

// CourierRepository defines the persistence contract for courier availability records.
type CourierRepository interface {
	// Add persists a new courier.
	Add(ctx context.Context, courier *courier.Courier) error

	// Update persists an availability change as a compare-and-swap on the loaded
	// version. Two claims racing for the same courier yield one success and one
	// errs.ConflictError.
	Update(ctx context.Context, courier *courier.Courier) error

	// Get retrieves a courier by id.
	Get(ctx context.Context, id kernel.UUID) (*courier.Courier, error)

	// ListFree returns up to limit Free couriers in store iteration order
	// (registration time). limit <= 0 means no limit.
	ListFree(ctx context.Context, limit int) ([]*courier.Courier, error)

	// List returns one page of couriers and the total count.
	List(ctx context.Context, page Page) ([]*courier.Courier, int64, error)
}
