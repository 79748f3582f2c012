package matching

import (
	"context"

	"fulfillment/internal/core/ports"
)

type (
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	UoW interface {
		TxManager
		OrderRepository() ports.OrderRepository
		CourierRepository() ports.CourierRepository
	}

	UoWFactory interface {
		Create() UoW
	}
)
