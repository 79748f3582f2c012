package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// DeleteOrderCommandHandler removes orders.
//
// Basket orders are hard-deleted by their owner or an admin. When
// allowAdminDeleteAfterBasket is set, an admin may also soft-delete a later
// order; its pending match is withdrawn and a courier still busy with it is
// released.
type DeleteOrderCommandHandler struct {
	uowFactory                  OrderUoWFactory
	withdrawer                  MatchWithdrawer
	releaser                    CourierReleaser
	allowAdminDeleteAfterBasket bool
	effects                     SideEffects
}

func NewDeleteOrderCommandHandler(
	uowFactory OrderUoWFactory,
	withdrawer MatchWithdrawer,
	releaser CourierReleaser,
	allowAdminDeleteAfterBasket bool,
	effects SideEffects,
) DeleteOrderCommandHandler {
	return DeleteOrderCommandHandler{
		uowFactory:                  uowFactory,
		withdrawer:                  withdrawer,
		releaser:                    releaser,
		allowAdminDeleteAfterBasket: allowAdminDeleteAfterBasket,
		effects:                     effects,
	}
}

func (h DeleteOrderCommandHandler) Handle(ctx context.Context, cmd OrderCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return errs.WrapStore("begin delete", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return errs.WrapStore("get order", err)
	}

	mode, err := o.MarkDeleted(cmd.Actor(), h.allowAdminDeleteAfterBasket)
	if err != nil {
		return err
	}

	if err = repo.Delete(ctx, o); err != nil {
		return errs.WrapStore("delete order", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return errs.WrapStore("commit delete", err)
	}

	h.withdrawer.WithdrawMatch(o.ID())

	if mode == order.SoftDelete && holdsCourier(o) {
		if err = h.releaser.Release(context.WithoutCancel(ctx), *o.Courier()); err != nil {
			h.effects.logFailure(ctx, "courier release failed after delete", o, err)
		}
	}

	h.effects.publish(ctx, o, order.Delete.String())
	return nil
}

// holdsCourier reports whether o keeps its courier Busy.
func holdsCourier(o *order.Order) bool {
	if o.Courier() == nil {
		return false
	}
	return o.Status() == order.Confirmed || o.Status() == order.InDelivery
}
