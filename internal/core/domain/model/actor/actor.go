package actor

import (
	"errors"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/guard"
)

var ErrActorIsNotConstructed = errors.New("Actor must be created via NewActor constructor")

// Actor is the authenticated caller of a lifecycle operation.
type Actor struct {
	userID kernel.UUID
	role   Role
	guard  guard.ConstructorGuard
}

func NewActor(userID kernel.UUID, role Role) (Actor, error) {
	if err := errors.Join(userID.Validate(), role.Validate()); err != nil {
		return Actor{}, err
	}
	return Actor{userID: userID, role: role, guard: guard.NewConstructorGuard()}, nil
}

func (a Actor) Validate() error {
	return a.guard.Validate(ErrActorIsNotConstructed)
}

func (a Actor) UserID() kernel.UUID {
	return a.userID
}

func (a Actor) Role() Role {
	return a.role
}

func (a Actor) IsAdmin() bool {
	return a.role == Admin
}

func (a Actor) Is(userID kernel.UUID) bool {
	return a.userID.IsEqual(userID)
}
