package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// StartDeliveryCommandHandler lets the assigned courier pick up a Confirmed order.
type StartDeliveryCommandHandler struct {
	uowFactory OrderUoWFactory
	effects    SideEffects
}

func NewStartDeliveryCommandHandler(uowFactory OrderUoWFactory, effects SideEffects) StartDeliveryCommandHandler {
	return StartDeliveryCommandHandler{
		uowFactory: uowFactory,
		effects:    effects,
	}
}

// Handle moves the order to InDelivery and notifies its owner and courier.
func (h StartDeliveryCommandHandler) Handle(ctx context.Context, cmd OrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return errs.WrapStore("begin start delivery", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return errs.WrapStore("get order", err)
	}

	if err = o.StartDelivery(cmd.Actor()); err != nil {
		return err
	}

	if err = repo.Update(ctx, o); err != nil {
		return errs.WrapStore("update order", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return errs.WrapStore("commit start delivery", err)
	}

	h.effects.notify(ctx, o.CustomerID(), TitleInDelivery, MessageOwnerInDelivery)
	h.effects.notify(ctx, *o.Courier(), TitleInDelivery, MessageCourierInDelivery)
	h.effects.publish(ctx, o, order.StartDelivery.String())
	return nil
}
