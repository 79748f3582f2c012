package commands

import (
	"context"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/pkg/errs"
)

// RegisterCourierCommandHandler adds Free couriers to the pool. Admin only.
// Queued orders pick the new courier up on the next matching cycle.
type RegisterCourierCommandHandler struct {
	uowFactory CourierUoWFactory
}

func NewRegisterCourierCommandHandler(uowFactory CourierUoWFactory) RegisterCourierCommandHandler {
	return RegisterCourierCommandHandler{
		uowFactory: uowFactory,
	}
}

func (h RegisterCourierCommandHandler) Handle(ctx context.Context, cmd RegisterCourierCommand) error {
	if err := cmd.Validate(); err != nil {
		return err
	}
	if !cmd.Admin().IsAdmin() {
		return errs.NewForbiddenError("register courier", "admin only")
	}

	c, err := courier.NewCourier(cmd.CourierID(), cmd.Name())
	if err != nil {
		return err
	}

	uow := h.uowFactory.Create()
	if err = uow.Begin(ctx); err != nil {
		return errs.WrapStore("begin register courier", err)
	}

	defer func() {
		_ = uow.Rollback(ctx)
	}()

	if err = uow.CourierRepository().Add(ctx, c); err != nil {
		return errs.WrapStore("add courier", err)
	}

	if err = uow.Commit(ctx); err != nil {
		return errs.WrapStore("commit register courier", err)
	}

	return nil
}
