package queries_test

import (
	"testing"

	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderFixture struct {
	repo     *orderrepo.GormOrderRepository
	alice    actor.Actor
	bob      actor.Actor
	courier  actor.Actor
	admin    actor.Actor
	basket   *order.Order
	assigned *order.Order
	bobs     *order.Order
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	ctx := t.Context()
	f := &orderFixture{
		repo:    orderrepo.NewGormOrderRepository(testutil.NewSQLiteDB(t)),
		alice:   testutil.NewActor(t, actor.Customer),
		bob:     testutil.NewActor(t, actor.Customer),
		courier: testutil.NewActor(t, actor.Courier),
		admin:   testutil.NewActor(t, actor.Admin),
	}

	f.basket = testutil.NewBasketOrder(t, f.alice)
	f.assigned = testutil.NewConfirmedOrder(t, f.alice)
	require.NoError(t, f.assigned.AssignCourier(f.courier.UserID()))
	f.bobs = testutil.NewConfirmedOrder(t, f.bob)

	for _, o := range []*order.Order{f.basket, f.assigned, f.bobs} {
		require.NoError(t, f.repo.Add(ctx, o))
	}
	return f
}

func TestGetOrderQueryHandler_Handle(t *testing.T) {
	f := newOrderFixture(t)
	handler := queries.NewGetOrderQueryHandler(f.repo)

	tests := []struct {
		name    string
		reader  actor.Actor
		orderID kernel.UUID
		wantErr error
	}{
		{name: "should return the order to its owner", reader: f.alice, orderID: f.assigned.ID()},
		{name: "should return the order to its courier", reader: f.courier, orderID: f.assigned.ID()},
		{name: "should return any order to an admin", reader: f.admin, orderID: f.bobs.ID()},
		{name: "should forbid other customers", reader: f.bob, orderID: f.assigned.ID(), wantErr: errs.ErrForbidden},
		{name: "should forbid unassigned couriers", reader: f.courier, orderID: f.bobs.ID(), wantErr: errs.ErrForbidden},
		{name: "should report unknown orders", reader: f.admin, orderID: kernel.NewUUID(), wantErr: errs.ErrObjectNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := queries.NewGetOrderQuery(tt.reader, tt.orderID)
			require.NoError(t, err)

			view, err := handler.Handle(t.Context(), query)

			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, view)
				return
			}
			require.NoError(t, err)
			assert.True(t, view.ID.IsEqual(tt.orderID))
		})
	}

	t.Run("should expose items, total and courier", func(t *testing.T) {
		query, err := queries.NewGetOrderQuery(f.alice, f.assigned.ID())
		require.NoError(t, err)

		view, err := handler.Handle(t.Context(), query)

		require.NoError(t, err)
		assert.Equal(t, order.Confirmed, view.Status)
		assert.Len(t, view.Items, 2)
		assert.Equal(t, int64(1349), view.Total.Cents())
		require.NotNil(t, view.CourierID)
		assert.True(t, view.CourierID.IsEqual(f.courier.UserID()))
		assert.False(t, view.AwaitingCourier)
	})
}

func TestListOrdersQueryHandler_Handle(t *testing.T) {
	f := newOrderFixture(t)
	handler := queries.NewListOrdersQueryHandler(f.repo)

	list := func(t *testing.T, reader actor.Actor, filter ports.OrderFilter) *queries.ListOrdersQueryResponse {
		t.Helper()
		query, err := queries.NewListOrdersQuery(reader, filter, ports.Page{})
		require.NoError(t, err)
		resp, err := handler.Handle(t.Context(), query)
		require.NoError(t, err)
		return resp
	}

	t.Run("should show admins every order", func(t *testing.T) {
		resp := list(t, f.admin, ports.OrderFilter{})

		assert.Equal(t, int64(3), resp.Total)
		assert.Len(t, resp.Orders, 3)
	})

	t.Run("should let admins filter by customer", func(t *testing.T) {
		bob := f.bob.UserID()

		resp := list(t, f.admin, ports.OrderFilter{CustomerID: &bob})

		require.Len(t, resp.Orders, 1)
		assert.True(t, resp.Orders[0].ID.IsEqual(f.bobs.ID()))
	})

	t.Run("should scope customers to their own orders", func(t *testing.T) {
		bob := f.bob.UserID()

		resp := list(t, f.alice, ports.OrderFilter{CustomerID: &bob})

		assert.Equal(t, int64(2), resp.Total)
		for _, o := range resp.Orders {
			assert.True(t, o.CustomerID.IsEqual(f.alice.UserID()))
		}
	})

	t.Run("should scope couriers to their assignments", func(t *testing.T) {
		resp := list(t, f.courier, ports.OrderFilter{})

		require.Len(t, resp.Orders, 1)
		assert.True(t, resp.Orders[0].ID.IsEqual(f.assigned.ID()))
	})

	t.Run("should apply the status filter", func(t *testing.T) {
		basket := order.Basket

		resp := list(t, f.alice, ports.OrderFilter{Status: &basket})

		require.Len(t, resp.Orders, 1)
		assert.True(t, resp.Orders[0].ID.IsEqual(f.basket.ID()))
	})

	t.Run("should page results", func(t *testing.T) {
		query, err := queries.NewListOrdersQuery(f.admin, ports.OrderFilter{}, ports.NewPage(2, 2))
		require.NoError(t, err)

		resp, err := handler.Handle(t.Context(), query)

		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.Total)
		assert.Len(t, resp.Orders, 1)
	})
}

func TestFilters(t *testing.T) {
	t.Run("should parse an optional status", func(t *testing.T) {
		s, err := queries.StatusFilter("confirmed")
		require.NoError(t, err)
		assert.Equal(t, order.Confirmed, *s)

		s, err = queries.StatusFilter("")
		require.NoError(t, err)
		assert.Nil(t, s)

		_, err = queries.StatusFilter("lost")
		require.Error(t, err)
	})

	t.Run("should parse an optional id", func(t *testing.T) {
		id := kernel.NewUUID()

		parsed, err := queries.IDFilter(id.String())
		require.NoError(t, err)
		assert.True(t, parsed.IsEqual(id))

		_, err = queries.IDFilter("nope")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
