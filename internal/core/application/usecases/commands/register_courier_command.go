package commands

import (
	"errors"
	"strings"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	ErrRegisterCourierCommandIsNotConstructed = errors.New(
		"RegisterCourierCommand must be created via NewRegisterCourierCommand constructor",
	)
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
)

// RegisterCourierCommand adds a courier availability record for a directory user.
//
// Example:
//
//	cmd, err := NewRegisterCourierCommand(admin, courierUserID, "John Doe")
//	if err != nil {
//	    return fmt.Errorf("invalid courier data: %w", err)
//	}
//
//	handler := NewRegisterCourierCommandHandler(uowFactory)
//	if err := handler.Handle(ctx, cmd); err != nil {
//	    return fmt.Errorf("failed to register courier: %w", err)
//	}
type RegisterCourierCommand struct { //nolint:recvcheck //using for validation
	admin     actor.Actor
	courierID kernel.UUID
	name      string

	guard guard.ConstructorGuard
}

func NewRegisterCourierCommand(admin actor.Actor, courierID kernel.UUID, name string) (RegisterCourierCommand, error) {
	cmd := RegisterCourierCommand{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		cmd.setAdmin(admin),
		cmd.setCourierID(courierID),
		cmd.setName(name),
	); err != nil {
		return RegisterCourierCommand{}, err
	}

	return cmd, nil
}

func (c RegisterCourierCommand) Validate() error {
	return c.guard.Validate(ErrRegisterCourierCommandIsNotConstructed)
}

func (c RegisterCourierCommand) Admin() actor.Actor {
	return c.admin
}

// CourierID is the directory user id of the courier.
func (c RegisterCourierCommand) CourierID() kernel.UUID {
	return c.courierID
}

func (c RegisterCourierCommand) Name() string {
	return c.name
}

func (c *RegisterCourierCommand) setAdmin(a actor.Actor) error {
	if err := a.Validate(); err != nil {
		return err
	}
	c.admin = a
	return nil
}

func (c *RegisterCourierCommand) setCourierID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.courierID = id
	return nil
}

func (c *RegisterCourierCommand) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}
