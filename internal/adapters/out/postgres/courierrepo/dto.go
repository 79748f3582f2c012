// Package courierrepo maps the Courier aggregate onto the "couriers" table.
package courierrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"

	"github.com/google/uuid"
)

// CourierDTO is the row of the couriers table. Version backs the claim/release
// compare-and-swap.
type CourierDTO struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name         string    `gorm:"type:varchar(255);not null"`
	Availability int       `gorm:"not null;index"`
	Version      int64     `gorm:"not null;default:0"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime:false;index"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime:false"`
}

func (CourierDTO) TableName() string {
	return "couriers"
}

func fromDomain(c *courier.Courier) CourierDTO {
	return CourierDTO{
		ID:           c.ID().Bytes(),
		Name:         c.Name(),
		Availability: int(c.Availability()),
		Version:      c.Version(),
		CreatedAt:    c.CreatedAt(),
		UpdatedAt:    c.UpdatedAt(),
	}
}

func toDomain(dto CourierDTO) (*courier.Courier, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	return courier.RestoreCourier(
		id,
		dto.Name,
		courier.Availability(dto.Availability),
		dto.Version,
		dto.CreatedAt,
		dto.UpdatedAt,
	)
}
