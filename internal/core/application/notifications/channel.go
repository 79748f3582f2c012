package notifications

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// PushEvent is the name carried by every pushed notification frame.
const PushEvent = "notification"

// MaxBacklog bounds the notifications held for redelivery. The oldest is
// dropped when it is full.
const MaxBacklog = 1000

// View is the client representation of a notification.
type View struct {
	ID        kernel.UUID `json:"id"`
	Title     string      `json:"title"`
	Message   string      `json:"message"`
	Read      bool        `json:"read"`
	CreatedAt time.Time   `json:"createdAt"`
}

// NewView maps a notification to its client representation.
func NewView(n *notification.Notification) View {
	return View{
		ID:        n.ID(),
		Title:     n.Title(),
		Message:   n.Message(),
		Read:      n.IsRead(),
		CreatedAt: n.CreatedAt(),
	}
}

// Frame is the websocket message pushed to live sessions.
type Frame struct {
	Event string `json:"event"`
	Data  View   `json:"data"`
}

// Channel stores notifications and pushes them to connected sessions.
// Notifications whose write failed are held until Redeliver stores them.
type Channel struct {
	uowFactory UoWFactory
	pusher     ports.Pusher
	logger     *slog.Logger

	mu      sync.Mutex
	backlog []*notification.Notification
}

func NewChannel(uowFactory UoWFactory, pusher ports.Pusher, logger *slog.Logger) *Channel {
	if logger == nil {
		logger = slog.Default()
	}
	return &Channel{
		uowFactory: uowFactory,
		pusher:     pusher,
		logger:     logger.With("component", "notification_channel"),
	}
}

// Notify persists a notification for userID and pushes it to the user's live
// sessions. When the write fails nothing is pushed and the notification is
// held for Redeliver.
func (c *Channel) Notify(ctx context.Context, userID kernel.UUID, title, message string) (*notification.Notification, error) {
	n, err := notification.NewNotification(kernel.NewUUID(), userID, title, message)
	if err != nil {
		return nil, err
	}

	if err = c.uowFactory.Create().NotificationRepository().Add(ctx, n); err != nil {
		c.hold(ctx, n)
		return nil, errs.WrapStore("add notification", err)
	}

	c.push(ctx, n)
	return n, nil
}

// Redeliver retries every held notification once, pushing those it stores.
// A notification found already stored counts as delivered.
func (c *Channel) Redeliver(ctx context.Context) (delivered, remaining int) {
	c.mu.Lock()
	held := c.backlog
	c.backlog = nil
	c.mu.Unlock()

	var failed []*notification.Notification
	for i, n := range held {
		if ctx.Err() != nil {
			failed = append(failed, held[i:]...)
			break
		}
		if err := c.store(ctx, n); err != nil {
			c.logger.WarnContext(ctx, "notification redelivery failed",
				"notification_id", n.ID().String(),
				"error", err,
			)
			failed = append(failed, n)
			continue
		}
		c.push(ctx, n)
		delivered++
	}

	c.mu.Lock()
	c.backlog = append(failed, c.backlog...)
	c.trim(ctx)
	remaining = len(c.backlog)
	c.mu.Unlock()

	if delivered > 0 || remaining > 0 {
		c.logger.InfoContext(ctx, "notification redelivery finished", "delivered", delivered, "remaining", remaining)
	}
	return delivered, remaining
}

// Pending returns the number of notifications waiting for redelivery.
func (c *Channel) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.backlog)
}

// List returns one page of the reader's notifications, newest first.
func (c *Channel) List(ctx context.Context, reader actor.Actor, page ports.Page) ([]*notification.Notification, int64, error) {
	return c.list(ctx, reader, false, page)
}

// Unread returns one page of the reader's unread notifications, newest first.
func (c *Channel) Unread(ctx context.Context, reader actor.Actor, page ports.Page) ([]*notification.Notification, int64, error) {
	return c.list(ctx, reader, true, page)
}

// MarkRead acknowledges notification id on behalf of reader, who must be its recipient.
func (c *Channel) MarkRead(ctx context.Context, reader actor.Actor, id kernel.UUID) (*notification.Notification, error) {
	if err := reader.Validate(); err != nil {
		return nil, err
	}

	uow := c.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, errs.WrapStore("begin mark read", err)
	}
	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.NotificationRepository()
	n, err := repo.Get(ctx, id)
	if err != nil {
		return nil, errs.WrapStore("get notification", err)
	}
	wasRead := n.IsRead()
	if err = n.MarkRead(reader); err != nil {
		return nil, err
	}
	if wasRead {
		return n, nil
	}

	if err = repo.Update(ctx, n); err != nil {
		return nil, errs.WrapStore("update notification", err)
	}
	if err = uow.Commit(ctx); err != nil {
		return nil, errs.WrapStore("commit mark read", err)
	}
	return n, nil
}

func (c *Channel) list(ctx context.Context, reader actor.Actor, unreadOnly bool, page ports.Page) ([]*notification.Notification, int64, error) {
	if err := reader.Validate(); err != nil {
		return nil, 0, err
	}

	items, total, err := c.uowFactory.Create().NotificationRepository().ListByRecipient(ctx, reader.UserID(), unreadOnly, page)
	if err != nil {
		return nil, 0, errs.WrapStore("list notifications", err)
	}
	return items, total, nil
}

func (c *Channel) store(ctx context.Context, n *notification.Notification) error {
	repo := c.uowFactory.Create().NotificationRepository()
	_, err := repo.Get(ctx, n.ID())
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, errs.ErrObjectNotFound):
		return err
	}
	return repo.Add(ctx, n)
}

func (c *Channel) hold(ctx context.Context, n *notification.Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.backlog = append(c.backlog, n)
	c.trim(ctx)
}

// trim drops the oldest held notifications beyond MaxBacklog. c.mu must be held.
func (c *Channel) trim(ctx context.Context) {
	over := len(c.backlog) - MaxBacklog
	if over <= 0 {
		return
	}
	for _, n := range c.backlog[:over] {
		c.logger.ErrorContext(ctx, "notification dropped from full backlog",
			"notification_id", n.ID().String(),
			"recipient_id", n.RecipientID().String(),
		)
	}
	c.backlog = append([]*notification.Notification(nil), c.backlog[over:]...)
}

func (c *Channel) push(ctx context.Context, n *notification.Notification) {
	if c.pusher == nil {
		return
	}

	payload, err := json.Marshal(Frame{Event: PushEvent, Data: NewView(n)})
	if err != nil {
		c.logger.ErrorContext(ctx, "failed to encode notification", "notification_id", n.ID().String(), "error", err)
		return
	}

	delivered := c.pusher.Send(n.RecipientID(), payload)
	c.logger.DebugContext(ctx, "notification pushed",
		"notification_id", n.ID().String(),
		"recipient_id", n.RecipientID().String(),
		"sessions", delivered,
	)
}
