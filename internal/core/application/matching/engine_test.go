package matching_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/core/application/matching"
	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type uowFactory struct {
	factory *postgres.GormUnitOfWorkFactory
}

func (f uowFactory) Create() matching.UoW {
	return f.factory.Create()
}

// flakyFactory fails Begin while failing is set.
type flakyFactory struct {
	uowFactory
	failing atomic.Bool
}

func (f *flakyFactory) Create() matching.UoW {
	return &flakyUoW{UnitOfWork: f.factory.Create(), failing: &f.failing}
}

type flakyUoW struct {
	ports.UnitOfWork
	failing *atomic.Bool
}

func (u *flakyUoW) Begin(ctx context.Context) error {
	if u.failing.Load() {
		return errors.New("connection refused")
	}
	return u.UnitOfWork.Begin(ctx)
}

type stepClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(time.Second)
	return c.now
}

type recorder struct {
	mu          sync.Mutex
	assignments []matching.Assignment
}

func (r *recorder) OnCourierAssigned(_ context.Context, a matching.Assignment) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assignments = append(r.assignments, a)
}

func (r *recorder) orderIDs() []kernel.UUID {
	r.mu.Lock()
	defer r.mu.Unlock()
	ids := make([]kernel.UUID, 0, len(r.assignments))
	for _, a := range r.assignments {
		ids = append(ids, a.OrderID)
	}
	return ids
}

type fixture struct {
	store    *postgres.GormUnitOfWorkFactory
	engine   *matching.Engine
	listener *recorder
	customer actor.Actor
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := postgres.NewGormUnitOfWorkFactory(testutil.NewSQLiteDB(t))
	logger, _ := testutil.NewLogger()
	clock := &stepClock{now: time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)}

	engine := matching.NewEngine(uowFactory{factory: store}, logger, matching.WithClock(clock.Now))
	listener := &recorder{}
	engine.SetListener(listener)

	return &fixture{
		store:    store,
		engine:   engine,
		listener: listener,
		customer: testutil.NewActor(t, actor.Customer),
	}
}

func (f *fixture) addCourier(t *testing.T, name string) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(kernel.NewUUID(), name)
	require.NoError(t, err)
	require.NoError(t, f.store.Create().CourierRepository().Add(t.Context(), c))
	return c
}

func (f *fixture) addConfirmedOrder(t *testing.T) *order.Order {
	t.Helper()
	o := testutil.NewConfirmedOrder(t, f.customer)
	require.NoError(t, f.store.Create().OrderRepository().Add(t.Context(), o))
	return o
}

func (f *fixture) order(t *testing.T, id kernel.UUID) *order.Order {
	t.Helper()
	o, err := f.store.Create().OrderRepository().Get(t.Context(), id)
	require.NoError(t, err)
	return o
}

func (f *fixture) courier(t *testing.T, id kernel.UUID) *courier.Courier {
	t.Helper()
	c, err := f.store.Create().CourierRepository().Get(t.Context(), id)
	require.NoError(t, err)
	return c
}

func TestEngine_RequestMatch(t *testing.T) {
	t.Run("should assign a free courier immediately", func(t *testing.T) {
		f := newFixture(t)
		c := f.addCourier(t, "Alice")
		o := f.addConfirmedOrder(t)

		result, err := f.engine.RequestMatch(t.Context(), o.ID())

		require.NoError(t, err)
		assert.Equal(t, matching.Assigned, result.Outcome)
		require.NotNil(t, result.CourierID)
		assert.True(t, result.CourierID.IsEqual(c.ID()))
		assert.Empty(t, f.engine.Pending())
		assert.Equal(t, courier.Busy, f.courier(t, c.ID()).Availability())
		assert.True(t, f.order(t, o.ID()).Courier().IsEqual(c.ID()))
		assert.Equal(t, []kernel.UUID{o.ID()}, f.listener.orderIDs())
	})

	t.Run("should queue when no courier is free", func(t *testing.T) {
		f := newFixture(t)
		o := f.addConfirmedOrder(t)

		result, err := f.engine.RequestMatch(t.Context(), o.ID())

		require.NoError(t, err)
		assert.Equal(t, matching.Queued, result.Outcome)
		assert.Nil(t, result.CourierID)
		pending := f.engine.Pending()
		require.Len(t, pending, 1)
		assert.True(t, pending[0].OrderID.IsEqual(o.ID()))
		assert.Equal(t, 1, pending[0].Attempts)
		assert.Empty(t, f.listener.orderIDs())
	})

	t.Run("should keep a single entry when requested twice", func(t *testing.T) {
		f := newFixture(t)
		o := f.addConfirmedOrder(t)

		_, err := f.engine.RequestMatch(t.Context(), o.ID())
		require.NoError(t, err)
		f.addCourier(t, "Bob")
		result, err := f.engine.RequestMatch(t.Context(), o.ID())

		require.NoError(t, err)
		assert.Equal(t, matching.Queued, result.Outcome)
		assert.Len(t, f.engine.Pending(), 1)
	})

	t.Run("should reject a Basket order", func(t *testing.T) {
		f := newFixture(t)
		o := testutil.NewBasketOrder(t, f.customer)
		require.NoError(t, f.store.Create().OrderRepository().Add(t.Context(), o))

		_, err := f.engine.RequestMatch(t.Context(), o.ID())

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Empty(t, f.engine.Pending())
	})

	t.Run("should report an unknown order as not found", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.engine.RequestMatch(t.Context(), kernel.NewUUID())

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})

	t.Run("should queue instead of failing when the store is down", func(t *testing.T) {
		store := postgres.NewGormUnitOfWorkFactory(testutil.NewSQLiteDB(t))
		factory := &flakyFactory{uowFactory: uowFactory{factory: store}}
		logger, logs := testutil.NewLogger()
		engine := matching.NewEngine(factory, logger)
		factory.failing.Store(true)

		result, err := engine.RequestMatch(t.Context(), kernel.NewUUID())

		require.NoError(t, err)
		assert.Equal(t, matching.Queued, result.Outcome)
		assert.True(t, logs.Contains("level=WARN", "connection refused"))
	})
}

func TestEngine_RunCycle(t *testing.T) {
	t.Run("should match a queued order once a courier becomes free", func(t *testing.T) {
		f := newFixture(t)
		o := f.addConfirmedOrder(t)
		_, err := f.engine.RequestMatch(t.Context(), o.ID())
		require.NoError(t, err)

		c := f.addCourier(t, "Alice")
		report, err := f.engine.RunCycle(t.Context())

		require.NoError(t, err)
		assert.Equal(t, 1, report.Assigned)
		assert.Zero(t, report.Remaining)
		assert.Empty(t, f.engine.Pending())
		assert.True(t, f.order(t, o.ID()).Courier().IsEqual(c.ID()))
		assert.Equal(t, []kernel.UUID{o.ID()}, f.listener.orderIDs())
	})

	t.Run("should serve the oldest requests first", func(t *testing.T) {
		f := newFixture(t)
		first := f.addConfirmedOrder(t)
		second := f.addConfirmedOrder(t)
		third := f.addConfirmedOrder(t)
		for _, o := range []*order.Order{first, second, third} {
			_, err := f.engine.RequestMatch(t.Context(), o.ID())
			require.NoError(t, err)
		}

		f.addCourier(t, "Alice")
		f.addCourier(t, "Bob")
		report, err := f.engine.RunCycle(t.Context())

		require.NoError(t, err)
		assert.Equal(t, 2, report.Assigned)
		assert.Equal(t, 1, report.Remaining)
		assert.Equal(t, []kernel.UUID{first.ID(), second.ID()}, f.listener.orderIDs())
		pending := f.engine.Pending()
		require.Len(t, pending, 1)
		assert.True(t, pending[0].OrderID.IsEqual(third.ID()))
		assert.Equal(t, 2, pending[0].Attempts)
	})

	t.Run("should never match a withdrawn order", func(t *testing.T) {
		f := newFixture(t)
		o := f.addConfirmedOrder(t)
		_, err := f.engine.RequestMatch(t.Context(), o.ID())
		require.NoError(t, err)

		f.engine.WithdrawMatch(o.ID())
		f.engine.WithdrawMatch(o.ID())
		c := f.addCourier(t, "Alice")
		report, err := f.engine.RunCycle(t.Context())

		require.NoError(t, err)
		assert.Zero(t, report.Assigned)
		assert.True(t, f.courier(t, c.ID()).IsFree())
		assert.Nil(t, f.order(t, o.ID()).Courier())
	})

	t.Run("should drop orders that are no longer eligible", func(t *testing.T) {
		f := newFixture(t)
		o := f.addConfirmedOrder(t)
		_, err := f.engine.RequestMatch(t.Context(), o.ID())
		require.NoError(t, err)

		admin := testutil.NewActor(t, actor.Admin)
		stored := f.order(t, o.ID())
		mode, err := stored.MarkDeleted(admin, true)
		require.NoError(t, err)
		require.Equal(t, order.SoftDelete, mode)
		require.NoError(t, f.store.Create().OrderRepository().Delete(t.Context(), stored))

		c := f.addCourier(t, "Alice")
		report, err := f.engine.RunCycle(t.Context())

		require.NoError(t, err)
		assert.Equal(t, 1, report.Dropped)
		assert.Empty(t, f.engine.Pending())
		assert.True(t, f.courier(t, c.ID()).IsFree())
	})

	t.Run("should skip a cycle that overlaps a running one", func(t *testing.T) {
		f := newFixture(t)
		o := f.addConfirmedOrder(t)
		_, err := f.engine.RequestMatch(t.Context(), o.ID())
		require.NoError(t, err)
		f.addCourier(t, "Alice")

		var nested matching.CycleReport
		f.engine.SetListener(matching.AssignmentListenerFunc(func(ctx context.Context, _ matching.Assignment) {
			nested, _ = f.engine.RunCycle(ctx)
		}))
		report, err := f.engine.RunCycle(t.Context())

		require.NoError(t, err)
		assert.False(t, report.Skipped)
		assert.Equal(t, 1, report.Assigned)
		assert.True(t, nested.Skipped)
	})

	t.Run("should stop at a cancelled context", func(t *testing.T) {
		f := newFixture(t)
		o := f.addConfirmedOrder(t)
		_, err := f.engine.RequestMatch(t.Context(), o.ID())
		require.NoError(t, err)

		ctx, cancel := context.WithCancel(t.Context())
		cancel()
		report, err := f.engine.RunCycle(ctx)

		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, report.Remaining)
		assert.Len(t, f.engine.Pending(), 1)
	})
}

func TestEngine_Release(t *testing.T) {
	t.Run("should free a busy courier exactly once", func(t *testing.T) {
		f := newFixture(t)
		c := f.addCourier(t, "Alice")
		o := f.addConfirmedOrder(t)
		_, err := f.engine.RequestMatch(t.Context(), o.ID())
		require.NoError(t, err)

		require.NoError(t, f.engine.Release(t.Context(), c.ID()))
		released := f.courier(t, c.ID())
		require.NoError(t, f.engine.Release(t.Context(), c.ID()))

		again := f.courier(t, c.ID())
		assert.True(t, again.IsFree())
		assert.Equal(t, released.Version(), again.Version())
	})

	t.Run("should report an unknown courier", func(t *testing.T) {
		f := newFixture(t)

		err := f.engine.Release(t.Context(), kernel.NewUUID())

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
		assert.Empty(t, f.engine.PendingReleases())
	})

	t.Run("should retry a failed release on the next cycle", func(t *testing.T) {
		store := postgres.NewGormUnitOfWorkFactory(testutil.NewSQLiteDB(t))
		factory := &flakyFactory{uowFactory: uowFactory{factory: store}}
		logger, _ := testutil.NewLogger()
		engine := matching.NewEngine(factory, logger)

		c, err := courier.NewCourier(kernel.NewUUID(), "Alice")
		require.NoError(t, err)
		require.NoError(t, c.Claim())
		require.NoError(t, store.Create().CourierRepository().Add(t.Context(), c))

		factory.failing.Store(true)
		err = engine.Release(t.Context(), c.ID())
		require.ErrorIs(t, err, errs.ErrStoreFailure)
		assert.Equal(t, []kernel.UUID{c.ID()}, engine.PendingReleases())

		factory.failing.Store(false)
		report, err := engine.RunCycle(t.Context())

		require.NoError(t, err)
		assert.Equal(t, 1, report.Released)
		assert.Empty(t, engine.PendingReleases())
		stored, err := store.Create().CourierRepository().Get(t.Context(), c.ID())
		require.NoError(t, err)
		assert.True(t, stored.IsFree())
	})
}

func TestEngine_Restore(t *testing.T) {
	t.Run("should re-register persisted orders awaiting a courier", func(t *testing.T) {
		f := newFixture(t)
		first := f.addConfirmedOrder(t)
		second := f.addConfirmedOrder(t)
		c := f.addCourier(t, "Alice")
		assigned := f.addConfirmedOrder(t)
		_, err := f.engine.RequestMatch(t.Context(), assigned.ID())
		require.NoError(t, err)
		require.True(t, f.order(t, assigned.ID()).Courier().IsEqual(c.ID()))

		logger, _ := testutil.NewLogger()
		restarted := matching.NewEngine(uowFactory{factory: f.store}, logger)
		count, err := restarted.Restore(t.Context())

		require.NoError(t, err)
		assert.Equal(t, 2, count)
		pending := restarted.Pending()
		require.Len(t, pending, 2)
		assert.True(t, pending[0].OrderID.IsEqual(first.ID()))
		assert.True(t, pending[1].OrderID.IsEqual(second.ID()))
		assert.Zero(t, pending[0].Attempts)
	})

	t.Run("should not duplicate entries already pending", func(t *testing.T) {
		f := newFixture(t)
		o := f.addConfirmedOrder(t)
		_, err := f.engine.RequestMatch(t.Context(), o.ID())
		require.NoError(t, err)

		count, err := f.engine.Restore(t.Context())

		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Len(t, f.engine.Pending(), 1)
	})
}
