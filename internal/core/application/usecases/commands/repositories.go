// Package commands contains business operations that modify system state.
// Every handler follows the same pattern: validate the command, run the guarded
// mutation inside a unit of work, commit, then trigger side effects.
// Side effects (matching, notifications, events) never roll back a committed change.
package commands

import (
	"context"

	"fulfillment/internal/core/application/matching"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// CourierRepoFactory provides access to courier repository within a transaction.
	CourierRepoFactory interface {
		CourierRepository() ports.CourierRepository
	}

	// OrderUoW manages transactions for order-only operations.
	OrderUoW interface {
		TxManager
		OrderRepoFactory
	}

	// OrderUoWFactory creates new order unit of work instances.
	OrderUoWFactory interface {
		Create() OrderUoW
	}

	// CourierUoW manages transactions for courier-only operations.
	CourierUoW interface {
		TxManager
		CourierRepoFactory
	}

	// CourierUoWFactory creates new courier unit of work instances.
	CourierUoWFactory interface {
		Create() CourierUoW
	}
)

// Collaborators invoked after commit.
type (
	// Matcher registers a confirmed order with the matching engine.
	Matcher interface {
		RequestMatch(ctx context.Context, orderID kernel.UUID) (matching.Result, error)
	}

	// MatchWithdrawer removes an order from the matching engine.
	MatchWithdrawer interface {
		WithdrawMatch(orderID kernel.UUID)
	}

	// CourierReleaser returns a courier to the pool.
	CourierReleaser interface {
		Release(ctx context.Context, courierID kernel.UUID) error
	}

	// Notifier stores and pushes a notification.
	Notifier interface {
		Notify(ctx context.Context, userID kernel.UUID, title, message string) (*notification.Notification, error)
	}
)
