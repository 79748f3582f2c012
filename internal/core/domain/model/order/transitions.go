package order

import (
	"fmt"
	"slices"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/pkg/errs"
)

// Event is an actor-triggered lifecycle event.
type Event int

const (
	UnknownEvent Event = iota
	UpdateItems
	Confirm
	StartDelivery
	Depose
	Delete
)

func (e Event) String() string {
	switch e {
	case UpdateItems:
		return "update items"
	case Confirm:
		return "confirm"
	case StartDelivery:
		return "start delivery"
	case Depose:
		return "depose"
	case Delete:
		return "delete"
	default:
		return "unknown event"
	}
}

// Relation is what the actor must be to the order, on top of its role.
type Relation int

const (
	AnyOrder Relation = iota
	Owner
	AssignedCourier
)

type grant struct {
	role     actor.Role
	relation Relation
}

type rule struct {
	from   []Status
	to     Status
	grants []grant
}

// transitions is the single source of truth for who may do what from where.
// A Delete rule with to == Unknown means the order leaves the store.
var transitions = map[Event]rule{
	UpdateItems: {
		from:   []Status{Basket},
		to:     Basket,
		grants: []grant{{role: actor.Customer, relation: Owner}},
	},
	Confirm: {
		from:   []Status{Basket},
		to:     Confirmed,
		grants: []grant{{role: actor.Customer, relation: Owner}},
	},
	StartDelivery: {
		from:   []Status{Confirmed},
		to:     InDelivery,
		grants: []grant{{role: actor.Courier, relation: AssignedCourier}},
	},
	Depose: {
		from:   []Status{InDelivery},
		to:     Deposed,
		grants: []grant{{role: actor.Courier, relation: AssignedCourier}},
	},
	Delete: {
		from: []Status{Basket},
		to:   Unknown,
		grants: []grant{
			{role: actor.Customer, relation: Owner},
			{role: actor.Admin, relation: AnyOrder},
		},
	},
}

// Authorize evaluates the transition table for event on o. The actor check runs
// first and yields ForbiddenError; the status check yields InvalidTransitionError.
// On success it returns the target status.
func (o *Order) Authorize(event Event, a actor.Actor) (Status, error) {
	r, ok := transitions[event]
	if !ok {
		return Unknown, errs.NewValueIsInvalidErrorWithCause("event", fmt.Errorf("%d is not a known event", event))
	}
	if err := a.Validate(); err != nil {
		return Unknown, err
	}

	if !o.isGranted(r.grants, a) {
		return Unknown, errs.NewForbiddenError(event.String(), fmt.Sprintf("%s %s may not act on order %s", a.Role(), a.UserID(), o.id))
	}

	if !slices.Contains(r.from, o.status) {
		return Unknown, errs.NewInvalidTransitionError(event.String(), o.status.String())
	}

	return r.to, nil
}

func (o *Order) isGranted(grants []grant, a actor.Actor) bool {
	for _, g := range grants {
		if g.role != a.Role() {
			continue
		}
		switch g.relation {
		case AnyOrder:
			return true
		case Owner:
			if a.Is(o.customerID) {
				return true
			}
		case AssignedCourier:
			if o.courierID != nil && a.Is(*o.courierID) {
				return true
			}
		}
	}
	return false
}
