package commands

import (
	"errors"
	"slices"
	"strings"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrCreateOrderCommandIsNotConstructed = errors.New(
		"CreateOrderCommand must be created via NewCreateOrderCommand constructor",
	)
	ErrAddressIsRequired = errs.NewValueIsRequiredError("deliveryAddress")
)

// CreateOrderCommand represents a customer opening a new Basket order.
// Products are referenced by id and priced from the catalog by the handler.
// A product listed twice is bought twice.
//
// Example:
//
//	orderID := kernel.NewUUID()
//	cmd, err := NewCreateOrderCommand(orderID, customer, []kernel.UUID{pizzaID, colaID}, "12 rue de la Paix")
//	if err != nil {
//	    return fmt.Errorf("invalid order data: %w", err)
//	}
//
//	handler := NewCreateOrderCommandHandler(uowFactory, catalog, effects)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to create order: %w", err)
//	}
type CreateOrderCommand struct { //nolint:recvcheck //using for validation
	orderID    kernel.UUID
	customer   actor.Actor
	productIDs []kernel.UUID
	address    string

	guard guard.ConstructorGuard
}

// NewCreateOrderCommand validates the request. An empty product list opens an empty basket.
func NewCreateOrderCommand(
	orderID kernel.UUID,
	customer actor.Actor,
	productIDs []kernel.UUID,
	address string,
) (CreateOrderCommand, error) {
	cmd := CreateOrderCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setOrderID(orderID),
		cmd.setCustomer(customer),
		cmd.setProductIDs(productIDs),
		cmd.setAddress(address),
	); err != nil {
		return CreateOrderCommand{}, err
	}

	return cmd, nil
}

func (c CreateOrderCommand) Validate() error {
	return c.guard.Validate(ErrCreateOrderCommandIsNotConstructed)
}

func (c CreateOrderCommand) OrderID() kernel.UUID {
	return c.orderID
}

func (c CreateOrderCommand) Customer() actor.Actor {
	return c.customer
}

func (c CreateOrderCommand) ProductIDs() []kernel.UUID {
	return slices.Clone(c.productIDs)
}

func (c CreateOrderCommand) Address() string {
	return c.address
}

func (c *CreateOrderCommand) setOrderID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.orderID = id
	return nil
}

func (c *CreateOrderCommand) setCustomer(a actor.Actor) error {
	if err := a.Validate(); err != nil {
		return err
	}
	c.customer = a
	return nil
}

func (c *CreateOrderCommand) setProductIDs(ids []kernel.UUID) error {
	for _, id := range ids {
		if err := id.Validate(); err != nil {
			return err
		}
	}
	c.productIDs = slices.Clone(ids)
	return nil
}

func (c *CreateOrderCommand) setAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return ErrAddressIsRequired
	}
	c.address = address
	return nil
}
