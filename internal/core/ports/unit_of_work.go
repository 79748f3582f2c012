package ports

import (
	"context"
)

// UnitOfWorkFactory hands out a fresh UnitOfWork per command or engine attempt.
type UnitOfWorkFactory interface {
	Create() UnitOfWork
}

// UnitOfWork is one transaction spanning the order, courier and notification stores.
//
// Callers Begin, defer Rollback, and Commit on success; the deferred Rollback then
// fails harmlessly. Repositories obtained before Begin run outside the transaction.
type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error

	CourierRepository() CourierRepository
	OrderRepository() OrderRepository
	NotificationRepository() NotificationRepository
}
