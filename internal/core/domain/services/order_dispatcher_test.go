package services_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func confirmedOrder(t *testing.T) *order.Order {
	t.Helper()
	customerID := kernel.NewUUID()
	price, _ := kernel.NewMoney(500)
	item, _ := order.NewItem(kernel.NewUUID(), price)
	o, err := order.NewOrder(kernel.NewUUID(), customerID, []order.Item{item}, "1 Main St")
	require.NoError(t, err)
	owner, _ := actor.NewActor(customerID, actor.Customer)
	require.NoError(t, o.Confirm(owner))
	return o
}

func newCourier(t *testing.T, name string) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(kernel.NewUUID(), name)
	require.NoError(t, err)
	return c
}

func accept(*courier.Courier) error { return nil }

func TestOrderDispatcher_Dispatch(t *testing.T) {
	dispatcher := services.NewOrderDispatcher()

	t.Run("should bind first free candidate", func(t *testing.T) {
		o := confirmedOrder(t)
		busy := newCourier(t, "busy")
		require.NoError(t, busy.Claim())
		first := newCourier(t, "first")
		second := newCourier(t, "second")

		got, err := dispatcher.Dispatch(o, []*courier.Courier{busy, first, second}, accept)

		require.NoError(t, err)
		assert.True(t, got.IsEqual(first))
		assert.Equal(t, courier.Busy, first.Availability())
		assert.Equal(t, courier.Free, second.Availability())
		assert.True(t, o.Courier().IsEqual(first.ID()))
	})

	t.Run("should skip candidates lost to a concurrent claim", func(t *testing.T) {
		o := confirmedOrder(t)
		lost := newCourier(t, "lost")
		won := newCourier(t, "won")
		persist := func(c *courier.Courier) error {
			if c.IsEqual(lost) {
				return errs.NewConflictError("courier", c.ID())
			}
			return nil
		}

		got, err := dispatcher.Dispatch(o, []*courier.Courier{lost, won}, persist)

		require.NoError(t, err)
		assert.True(t, got.IsEqual(won))
	})

	t.Run("should report no courier when candidates are exhausted", func(t *testing.T) {
		o := confirmedOrder(t)

		_, err := dispatcher.Dispatch(o, nil, accept)

		require.ErrorIs(t, err, services.ErrCourierNotFound)
		assert.Nil(t, o.Courier())
	})

	t.Run("should stop on store failure without binding", func(t *testing.T) {
		o := confirmedOrder(t)
		storeErr := errors.New("connection reset")

		_, err := dispatcher.Dispatch(o, []*courier.Courier{newCourier(t, "c")}, func(*courier.Courier) error {
			return storeErr
		})

		require.ErrorIs(t, err, storeErr)
		assert.Nil(t, o.Courier())
	})

	t.Run("should refuse orders that are not awaiting a courier", func(t *testing.T) {
		o := confirmedOrder(t)
		require.NoError(t, o.AssignCourier(kernel.NewUUID()))

		_, err := dispatcher.Dispatch(o, []*courier.Courier{newCourier(t, "c")}, accept)

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})
}
