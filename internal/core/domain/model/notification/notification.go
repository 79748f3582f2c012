package notification

import (
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrNotificationIsNotConstructed = errors.New("Notification must be created via NewNotification constructor")
	ErrTitleIsRequired              = errs.NewValueIsRequiredError("title")
	ErrMessageIsRequired            = errs.NewValueIsRequiredError("message")
)

var now = func() time.Time { return time.Now().UTC() }

// Notification is an inbox entry for recipientID.
type Notification struct {
	id          kernel.UUID
	recipientID kernel.UUID
	title       string
	message     string
	read        bool
	createdAt   time.Time
	updatedAt   time.Time
	guard       guard.ConstructorGuard
}

// NewNotification creates an unread notification.
func NewNotification(id, recipientID kernel.UUID, title, message string) (*Notification, error) {
	ts := now()
	n := &Notification{
		createdAt: ts,
		updatedAt: ts,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		n.setID(id),
		n.setRecipient(recipientID),
		n.setTitle(title),
		n.setMessage(message),
	); err != nil {
		return nil, err
	}

	return n, nil
}

// RestoreNotification rebuilds a notification from storage.
func RestoreNotification(
	id, recipientID kernel.UUID,
	title, message string,
	read bool,
	createdAt, updatedAt time.Time,
) (*Notification, error) {
	n := &Notification{
		read:      read,
		createdAt: createdAt,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		n.setID(id),
		n.setRecipient(recipientID),
		n.setTitle(title),
		n.setMessage(message),
	); err != nil {
		return nil, err
	}

	return n, nil
}

func (n *Notification) Validate() error {
	if n == nil {
		return ErrNotificationIsNotConstructed
	}
	return n.guard.Validate(ErrNotificationIsNotConstructed)
}

func (n *Notification) ID() kernel.UUID {
	return n.id
}

func (n *Notification) RecipientID() kernel.UUID {
	return n.recipientID
}

func (n *Notification) Title() string {
	return n.title
}

func (n *Notification) Message() string {
	return n.message
}

func (n *Notification) IsRead() bool {
	return n.read
}

func (n *Notification) CreatedAt() time.Time {
	return n.createdAt
}

func (n *Notification) UpdatedAt() time.Time {
	return n.updatedAt
}

// MarkRead acknowledges the notification. Only the recipient may do so;
// acknowledging twice is a no-op.
func (n *Notification) MarkRead(reader actor.Actor) error {
	if err := reader.Validate(); err != nil {
		return err
	}
	if !reader.Is(n.recipientID) {
		return errs.NewForbiddenError("mark notification read", "only the recipient may acknowledge it")
	}
	if n.read {
		return nil
	}
	n.read = true
	n.updatedAt = now()
	return nil
}

func (n *Notification) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	n.id = id
	return nil
}

func (n *Notification) setRecipient(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("recipientId", err)
	}
	n.recipientID = id
	return nil
}

func (n *Notification) setTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return ErrTitleIsRequired
	}
	n.title = title
	return nil
}

func (n *Notification) setMessage(message string) error {
	if strings.TrimSpace(message) == "" {
		return ErrMessageIsRequired
	}
	n.message = message
	return nil
}
