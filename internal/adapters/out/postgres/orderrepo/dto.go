// Package orderrepo maps the Order aggregate onto the "orders" and "order_items" tables.
package orderrepo

import (
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// OrderDTO is the row of the orders table. DeletedAt enables GORM soft delete,
// so soft-deleted orders disappear from every default-scoped query.
type OrderDTO struct {
	ID              uuid.UUID      `gorm:"type:uuid;primaryKey"`
	CustomerID      uuid.UUID      `gorm:"type:uuid;not null;index"`
	CourierID       *uuid.UUID     `gorm:"type:uuid;index"`
	Items           []OrderItemDTO `gorm:"foreignKey:OrderID"`
	TotalCents      int64          `gorm:"not null"`
	DeliveryAddress string         `gorm:"type:varchar(512);not null"`
	Status          int            `gorm:"not null;index"`
	Version         int64          `gorm:"not null;default:0"`
	CreatedAt       time.Time      `gorm:"not null;autoCreateTime:false;index"`
	UpdatedAt       time.Time      `gorm:"not null;autoUpdateTime:false;index"`
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (OrderDTO) TableName() string {
	return "orders"
}

// OrderItemDTO keeps the item order through Position.
type OrderItemDTO struct {
	ID         uint      `gorm:"primaryKey;autoIncrement"`
	OrderID    uuid.UUID `gorm:"type:uuid;not null;index"`
	Position   int       `gorm:"not null"`
	ProductID  uuid.UUID `gorm:"type:uuid;not null"`
	PriceCents int64     `gorm:"not null"`
}

func (OrderItemDTO) TableName() string {
	return "order_items"
}

func fromDomain(o *order.Order) OrderDTO {
	var courierID *uuid.UUID
	if c := o.Courier(); c != nil {
		id := c.Bytes()
		courierID = &id
	}

	var deletedAt gorm.DeletedAt
	if d := o.DeletedAt(); d != nil {
		deletedAt = gorm.DeletedAt{Time: *d, Valid: true}
	}

	return OrderDTO{
		ID:              o.ID().Bytes(),
		CustomerID:      o.CustomerID().Bytes(),
		CourierID:       courierID,
		Items:           itemsFromDomain(o.ID().Bytes(), o.Items()),
		TotalCents:      o.Total().Cents(),
		DeliveryAddress: o.DeliveryAddress(),
		Status:          int(o.Status()),
		Version:         o.Version(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
		DeletedAt:       deletedAt,
	}
}

func itemsFromDomain(orderID uuid.UUID, items []order.Item) []OrderItemDTO {
	dtos := make([]OrderItemDTO, 0, len(items))
	for i, item := range items {
		dtos = append(dtos, OrderItemDTO{
			OrderID:    orderID,
			Position:   i,
			ProductID:  item.ProductID().Bytes(),
			PriceCents: item.Price().Cents(),
		})
	}
	return dtos
}

func toDomain(dto OrderDTO) (*order.Order, error) {
	id, err := kernel.UUIDFromBytes(dto.ID[:])
	if err != nil {
		return nil, err
	}

	customerID, err := kernel.UUIDFromBytes(dto.CustomerID[:])
	if err != nil {
		return nil, err
	}

	var courierID *kernel.UUID
	if dto.CourierID != nil {
		cID, courierErr := kernel.UUIDFromBytes((*dto.CourierID)[:])
		if courierErr != nil {
			return nil, courierErr
		}
		courierID = &cID
	}

	items := make([]order.Item, 0, len(dto.Items))
	for _, itemDTO := range dto.Items {
		item, itemErr := itemToDomain(itemDTO)
		if itemErr != nil {
			return nil, itemErr
		}
		items = append(items, item)
	}

	total, err := kernel.NewMoney(dto.TotalCents)
	if err != nil {
		return nil, err
	}

	var deletedAt *time.Time
	if dto.DeletedAt.Valid {
		d := dto.DeletedAt.Time
		deletedAt = &d
	}

	return order.RestoreOrder(order.Snapshot{
		ID:              id,
		CustomerID:      customerID,
		Items:           items,
		Total:           total,
		DeliveryAddress: dto.DeliveryAddress,
		Status:          order.Status(dto.Status),
		CourierID:       courierID,
		Version:         dto.Version,
		CreatedAt:       dto.CreatedAt,
		UpdatedAt:       dto.UpdatedAt,
		DeletedAt:       deletedAt,
	})
}

func itemToDomain(dto OrderItemDTO) (order.Item, error) {
	productID, err := kernel.UUIDFromBytes(dto.ProductID[:])
	if err != nil {
		return order.Item{}, err
	}
	price, err := kernel.NewMoney(dto.PriceCents)
	if err != nil {
		return order.Item{}, err
	}
	return order.NewItem(productID, price)
}
