package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
)

// UpdateOrderItemsCommandHandler lets the owner edit a Basket order.
type UpdateOrderItemsCommandHandler struct {
	uowFactory OrderUoWFactory
	catalog    ports.ProductCatalog
	effects    SideEffects
}

func NewUpdateOrderItemsCommandHandler(
	uowFactory OrderUoWFactory,
	catalog ports.ProductCatalog,
	effects SideEffects,
) UpdateOrderItemsCommandHandler {
	return UpdateOrderItemsCommandHandler{
		uowFactory: uowFactory,
		catalog:    catalog,
		effects:    effects,
	}
}

func (h UpdateOrderItemsCommandHandler) Handle(ctx context.Context, cmd UpdateOrderItemsCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	items, err := priceItems(ctx, h.catalog, cmd.ProductIDs())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return errs.WrapStore("begin update items", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return errs.WrapStore("get order", err)
	}

	if err = o.ReplaceItems(cmd.Actor(), items); err != nil {
		return err
	}

	if err = repo.Update(ctx, o); err != nil {
		return errs.WrapStore("update order", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return errs.WrapStore("commit update items", err)
	}

	h.effects.publish(ctx, o, order.UpdateItems.String())
	return nil
}
