package commands

import (
	"context"

	"fulfillment/internal/core/application/matching"
	"fulfillment/internal/pkg/errs"
)

// CourierAssignedHandler reacts to bindings committed by the matching engine:
// the owner and the courier are notified and the change is published.
type CourierAssignedHandler struct {
	uowFactory OrderUoWFactory
	effects    SideEffects
}

func NewCourierAssignedHandler(uowFactory OrderUoWFactory, effects SideEffects) CourierAssignedHandler {
	return CourierAssignedHandler{
		uowFactory: uowFactory,
		effects:    effects,
	}
}

// OnCourierAssigned implements matching.AssignmentListener.
func (h CourierAssignedHandler) OnCourierAssigned(ctx context.Context, a matching.Assignment) {
	h.effects.notify(ctx, a.CustomerID, TitleOrderConfirmed, MessageOrderConfirmed)
	h.effects.notify(ctx, a.CourierID, TitleNewOrder, MessageNewOrder)

	o, err := h.uowFactory.Create().OrderRepository().Get(ctx, a.OrderID)
	if err != nil {
		h.effects.logger.ErrorContext(ctx, "failed to load assigned order",
			"order_id", a.OrderID.String(),
			"error", errs.WrapStore("get order", err),
		)
		return
	}
	h.effects.publish(ctx, o, EventCourierAssigned)
}

var _ matching.AssignmentListener = CourierAssignedHandler{}
