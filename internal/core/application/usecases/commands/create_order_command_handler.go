package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// CreateOrderCommandHandler opens Basket orders priced from the product catalog.
//
// Example:
//
//	handler := NewCreateOrderCommandHandler(uowFactory, catalog, effects)
//	cmd, _ := NewCreateOrderCommand(kernel.NewUUID(), customer, productIDs, "12 rue de la Paix")
//
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("order creation failed: %w", err)
//	}
type CreateOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	catalog    ports.ProductCatalog
	effects    SideEffects
}

func NewCreateOrderCommandHandler(
	uowFactory OrderUoWFactory,
	catalog ports.ProductCatalog,
	effects SideEffects,
) CreateOrderCommandHandler {
	return CreateOrderCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		effects:    effects,
	}
}

// Handle prices the products and persists the order in Basket.
// Only customers open orders; unknown products yield ObjectNotFoundError.
func (h CreateOrderCommandHandler) Handle(ctx context.Context, cmd CreateOrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if cmd.Customer().Role() != actor.Customer {
		return errs.NewForbiddenError("create order", "only customers place orders")
	}

	items, err := priceItems(ctx, h.catalog, cmd.ProductIDs())
	if err != nil {
		return err
	}

	o, err := order.NewOrder(cmd.OrderID(), cmd.Customer().UserID(), items, cmd.Address())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return errs.WrapStore("begin create order", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.OrderRepository().Add(ctx, o); err != nil {
		return errs.WrapStore("add order", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return errs.WrapStore("commit create order", err)
	}

	h.effects.publish(ctx, o, EventCreated)
	return nil
}
