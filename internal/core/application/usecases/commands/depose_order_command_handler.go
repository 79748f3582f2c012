package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// DeposeOrderCommandHandler lets the assigned courier mark an InDelivery order delivered.
type DeposeOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	releaser   CourierReleaser
	effects    SideEffects
}

func NewDeposeOrderCommandHandler(uowFactory OrderUoWFactory, releaser CourierReleaser, effects SideEffects) DeposeOrderCommandHandler {
	return DeposeOrderCommandHandler{
		uowFactory: uowFactory,
		releaser:   releaser,
		effects:    effects,
	}
}

// Handle moves the order to Deposed, then frees the courier and notifies both
// parties. A second Depose fails the guard, so the courier is released once.
func (h DeposeOrderCommandHandler) Handle(ctx context.Context, cmd OrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return errs.WrapStore("begin depose", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return errs.WrapStore("get order", err)
	}

	if err = o.Depose(cmd.Actor()); err != nil {
		return err
	}

	if err = repo.Update(ctx, o); err != nil {
		return errs.WrapStore("update order", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return errs.WrapStore("commit depose", err)
	}

	courierID := *o.Courier()
	if err = h.releaser.Release(context.WithoutCancel(ctx), courierID); err != nil {
		h.effects.logFailure(ctx, "courier release failed after depose", o, err)
	}

	h.effects.notify(ctx, o.CustomerID(), TitleDelivered, MessageOwnerDelivered)
	h.effects.notify(ctx, courierID, TitleDelivered, MessageCourierDelivered)
	h.effects.publish(ctx, o, order.Depose.String())
	return nil
}
