package commands

import (
	"context"

	"fulfillment/internal/core/application/matching"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// ConfirmOrderCommandHandler moves a Basket order to Confirmed and hands it to
// the matching engine.
//
// Example:
//
//	handler := NewConfirmOrderCommandHandler(uowFactory, engine, effects)
//	cmd, _ := NewOrderCommand(customer, orderID)
//	result, err := handler.Handle(ctx, cmd)
//	if err == nil && !result.IsAssigned() {
//	    // awaiting courier
//	}
type ConfirmOrderCommandHandler struct {
	uowFactory OrderUoWFactory
	matcher    Matcher
	effects    SideEffects
}

func NewConfirmOrderCommandHandler(uowFactory OrderUoWFactory, matcher Matcher, effects SideEffects) ConfirmOrderCommandHandler {
	return ConfirmOrderCommandHandler{
		uowFactory: uowFactory,
		matcher:    matcher,
		effects:    effects,
	}
}

// Handle commits the confirmation, then requests a courier. A failed match
// request leaves the order confirmed and reports it as queued.
func (h ConfirmOrderCommandHandler) Handle(ctx context.Context, cmd OrderCommand) (matching.Result, error) {
	if err := cmd.Validate(); err != nil {
		return matching.Result{}, err
	}

	uow := h.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return matching.Result{}, errs.WrapStore("begin confirm", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	repo := uow.OrderRepository()
	o, err := repo.Get(ctx, cmd.OrderID())
	if err != nil {
		return matching.Result{}, errs.WrapStore("get order", err)
	}

	if err = o.Confirm(cmd.Actor()); err != nil {
		return matching.Result{}, err
	}

	if err = repo.Update(ctx, o); err != nil {
		return matching.Result{}, errs.WrapStore("update order", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return matching.Result{}, errs.WrapStore("commit confirm", err)
	}

	h.effects.publish(ctx, o, order.Confirm.String())

	result, err := h.matcher.RequestMatch(ctx, o.ID())
	if err != nil {
		h.effects.logFailure(ctx, "match request failed after confirmation", o, err)
		return matching.Result{Outcome: matching.Queued}, nil
	}
	return result, nil
}
