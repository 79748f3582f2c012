package notifications

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

	NotificationRepoFactory interface {
		NotificationRepository() ports.NotificationRepository
	}

	UoW interface {
		TxManager
		NotificationRepoFactory
	}

	UoWFactory interface {
		Create() UoW
	}
)
