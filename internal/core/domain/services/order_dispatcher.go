package services

import (
	"errors"
	"fmt"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/pkg/errs"
)

// ErrCourierNotFound is returned when none of the candidates could be claimed.
var ErrCourierNotFound = errors.New("courier not found")

// ClaimFunc persists a courier that was just claimed in memory. It returns an
// error wrapping errs.ErrConflict when another writer claimed it first.
type ClaimFunc func(c *courier.Courier) error

// OrderDispatcher binds couriers to orders.
//
// Business rules:
//   - Only Confirmed orders without courier and not deleted are dispatched
//   - Candidates are tried in the order given; there is no ranking
//   - A candidate lost to a concurrent claim is skipped, not retried
//   - The order is bound only after the courier claim is durable
//
// Example usage:
//
//	dispatcher := services.NewOrderDispatcher()
//	c, err := dispatcher.Dispatch(o, freeCouriers, func(c *courier.Courier) error {
//	    return uow.CourierRepository().Update(ctx, c)
//	})
//	if errors.Is(err, services.ErrCourierNotFound) {
//	    // stays queued
//	}
type OrderDispatcher struct{}

func NewOrderDispatcher() OrderDispatcher {
	return OrderDispatcher{}
}

// Dispatch claims the first candidate that persist accepts and binds it to o.
func (d OrderDispatcher) Dispatch(o *order.Order, candidates []*courier.Courier, persist ClaimFunc) (*courier.Courier, error) {
	if err := o.Validate(); err != nil {
		return nil, err
	}
	if !o.IsAwaitingCourier() {
		return nil, errs.NewInvalidTransitionError("assign courier", o.Status().String())
	}

	for _, c := range candidates {
		if err := c.Validate(); err != nil {
			return nil, err
		}
		if !c.IsFree() {
			continue
		}
		if err := c.Claim(); err != nil {
			continue
		}

		err := persist(c)
		if errors.Is(err, errs.ErrConflict) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("claim courier %s: %w", c.ID(), err)
		}

		if err := o.AssignCourier(c.ID()); err != nil {
			return nil, err
		}
		return c, nil
	}

	return nil, ErrCourierNotFound
}
