package commands

import (
	"errors"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrOrderCommandIsNotConstructed = errors.New(
	"OrderCommand must be created via NewOrderCommand constructor",
)

// OrderCommand is an actor acting on one existing order. It carries the
// confirm, start-delivery, depose and delete requests.
//
// Example:
//
//	cmd, err := NewOrderCommand(courier, orderID)
//	if err != nil {
//	    return err
//	}
//	err = startDeliveryHandler.Handle(ctx, cmd)
type OrderCommand struct { //nolint:recvcheck //using for validation
	actor   actor.Actor
	orderID kernel.UUID

	guard guard.ConstructorGuard
}

func NewOrderCommand(a actor.Actor, orderID kernel.UUID) (OrderCommand, error) {
	cmd := OrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setActor(a),
		cmd.setOrderID(orderID),
	); err != nil {
		return OrderCommand{}, err
	}

	return cmd, nil
}

func (c OrderCommand) Validate() error {
	return c.guard.Validate(ErrOrderCommandIsNotConstructed)
}

func (c OrderCommand) Actor() actor.Actor {
	return c.actor
}

func (c OrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c *OrderCommand) setActor(a actor.Actor) error {
	if err := a.Validate(); err != nil {
		return err
	}
	c.actor = a
	return nil
}

func (c *OrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}
