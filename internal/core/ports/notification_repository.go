package ports

import (
	"context"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
)

// NotificationRepository stores the per-user inbox.
type NotificationRepository interface {
	Add(ctx context.Context, n *notification.Notification) error
	Update(ctx context.Context, n *notification.Notification) error
	Get(ctx context.Context, id kernel.UUID) (*notification.Notification, error)

	// ListByRecipient returns one page of the recipient's notifications, newest first.
	ListByRecipient(ctx context.Context, recipientID kernel.UUID, unreadOnly bool, page Page) ([]*notification.Notification, int64, error)
}
