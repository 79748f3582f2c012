// Package productrepo is the read side of the product catalog plus an LRU cache
// in front of it. Catalog management itself lives outside the fulfillment core.
package productrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/google/uuid"
)

type ProductDTO struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey"`
	Name       string    `gorm:"type:varchar(255);not null"`
	PriceCents int64     `gorm:"not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

func (ProductDTO) TableName() string {
	return "products"
}

func toDomain(dto ProductDTO) (ports.Product, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return ports.Product{}, err
	}
	price, err := kernel.NewMoney(dto.PriceCents)
	if err != nil {
		return ports.Product{}, err
	}
	return ports.Product{ID: id, Name: dto.Name, Price: price}, nil
}
