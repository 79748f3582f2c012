package commands

import (
	"errors"
	"slices"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrUpdateOrderItemsCommandIsNotConstructed = errors.New(
	"UpdateOrderItemsCommand must be created via NewUpdateOrderItemsCommand constructor",
)

// UpdateOrderItemsCommand replaces the product list of a Basket order.
type UpdateOrderItemsCommand struct { //nolint:recvcheck //using for validation
	OrderCommand
	productIDs []kernel.UUID

	guard guard.ConstructorGuard
}

func NewUpdateOrderItemsCommand(a actor.Actor, orderID kernel.UUID, productIDs []kernel.UUID) (UpdateOrderItemsCommand, error) {
	base, err := NewOrderCommand(a, orderID)
	if err != nil {
		return UpdateOrderItemsCommand{}, err
	}
	for _, id := range productIDs {
		if err = id.Validate(); err != nil {
			return UpdateOrderItemsCommand{}, err
		}
	}

	return UpdateOrderItemsCommand{
		OrderCommand: base,
		productIDs:   slices.Clone(productIDs),
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (c UpdateOrderItemsCommand) Validate() error {
	return c.guard.Validate(ErrUpdateOrderItemsCommandIsNotConstructed)
}

func (c UpdateOrderItemsCommand) ProductIDs() []kernel.UUID {
	return slices.Clone(c.productIDs)
}
