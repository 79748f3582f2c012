package queries

import (
	"context"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
)

// OrderReader is the read side of the order store used by order queries.
type OrderReader interface {
	Get(ctx context.Context, id kernel.UUID) (*order.Order, error)
	List(ctx context.Context, filter ports.OrderFilter, page ports.Page) ([]*order.Order, int64, error)
}

// ItemView is one order line.
type ItemView struct {
	ProductID kernel.UUID
	Price     kernel.Money
}

// OrderView is the order read model.
type OrderView struct {
	ID              kernel.UUID
	CustomerID      kernel.UUID
	Items           []ItemView
	Total           kernel.Money
	DeliveryAddress string
	Status          order.Status
	CourierID       *kernel.UUID
	AwaitingCourier bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewOrderView maps an aggregate to its read model.
func NewOrderView(o *order.Order) OrderView {
	items := make([]ItemView, 0, len(o.Items()))
	for _, it := range o.Items() {
		items = append(items, ItemView{ProductID: it.ProductID(), Price: it.Price()})
	}
	return OrderView{
		ID:              o.ID(),
		CustomerID:      o.CustomerID(),
		Items:           items,
		Total:           o.Total(),
		DeliveryAddress: o.DeliveryAddress(),
		Status:          o.Status(),
		CourierID:       o.Courier(),
		AwaitingCourier: o.IsAwaitingCourier(),
		CreatedAt:       o.CreatedAt(),
		UpdatedAt:       o.UpdatedAt(),
	}
}
