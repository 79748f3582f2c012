// Package notificationrepo maps notifications onto the "notifications" table.
package notificationrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"

	"github.com/google/uuid"
)

type NotificationDTO struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	RecipientID uuid.UUID `gorm:"type:uuid;not null;index:idx_notifications_recipient_read,priority:1"`
	Title       string    `gorm:"type:varchar(255);not null"`
	Message     string    `gorm:"type:text;not null"`
	Read        bool      `gorm:"column:is_read;not null;default:false;index:idx_notifications_recipient_read,priority:2"`
	CreatedAt   time.Time `gorm:"not null;autoCreateTime:false;index"`
	UpdatedAt   time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (NotificationDTO) TableName() string {
	return "notifications"
}

func fromDomain(n *notification.Notification) NotificationDTO {
	return NotificationDTO{
		ID:          n.ID().Bytes(),
		RecipientID: n.RecipientID().Bytes(),
		Title:       n.Title(),
		Message:     n.Message(),
		Read:        n.IsRead(),
		CreatedAt:   n.CreatedAt(),
		UpdatedAt:   n.UpdatedAt(),
	}
}

func toDomain(dto NotificationDTO) (*notification.Notification, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}
	recipientID, err := kernel.UUIDFromBytes(dto.RecipientID[:])
	if err != nil {
		return nil, err
	}

	return notification.RestoreNotification(id, recipientID, dto.Title, dto.Message, dto.Read, dto.CreatedAt, dto.UpdatedAt)
}
