// Package order contains the Order aggregate and its lifecycle.
//
// An order moves through Basket → Confirmed → InDelivery → Deposed. Basket orders
// may also be deleted. Every event an actor can trigger is described once, in the
// transition table in transitions.go: which statuses it leaves from, which status
// it enters, and which role and relation to the order the actor must hold.
// All aggregate methods evaluate that table before mutating state.
//
// The courier binding is not an actor event: the matching engine calls AssignCourier
// on a Confirmed order with no courier, and the binding is never cleared afterwards.
package order
