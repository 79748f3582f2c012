package testutil

import (
	"testing"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"

	"github.com/stretchr/testify/require"
)

// NewActor returns a fresh actor with the given role.
func NewActor(t testing.TB, role actor.Role) actor.Actor {
	t.Helper()
	a, err := actor.NewActor(kernel.NewUUID(), role)
	require.NoError(t, err)
	return a
}

// NewItems returns one item per price, each for a random product.
func NewItems(t testing.TB, cents ...int64) []order.Item {
	t.Helper()
	items := make([]order.Item, 0, len(cents))
	for _, c := range cents {
		price, err := kernel.NewMoney(c)
		require.NoError(t, err)
		item, err := order.NewItem(kernel.NewUUID(), price)
		require.NoError(t, err)
		items = append(items, item)
	}
	return items
}

// NewBasketOrder returns an unsaved Basket order owned by customer.
func NewBasketOrder(t testing.TB, customer actor.Actor) *order.Order {
	t.Helper()
	o, err := order.NewOrder(kernel.NewUUID(), customer.UserID(), NewItems(t, 1000, 349), "12 rue de la Paix")
	require.NoError(t, err)
	return o
}

// NewConfirmedOrder returns an unsaved Confirmed order without courier.
func NewConfirmedOrder(t testing.TB, customer actor.Actor) *order.Order {
	t.Helper()
	o := NewBasketOrder(t, customer)
	require.NoError(t, o.Confirm(customer))
	return o
}
