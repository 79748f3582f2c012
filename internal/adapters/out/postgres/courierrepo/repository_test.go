package courierrepo_test

import (
	"context"
	"testing"

	"fulfillment/internal/adapters/out/postgres/courierrepo"
	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepository(t *testing.T) *courierrepo.GormCourierRepository {
	t.Helper()
	return courierrepo.NewGormCourierRepository(testutil.NewSQLiteDB(t))
}

func addCourier(t *testing.T, repo *courierrepo.GormCourierRepository, name string) *courier.Courier {
	t.Helper()
	c, err := courier.NewCourier(kernel.NewUUID(), name)
	require.NoError(t, err)
	require.NoError(t, repo.Add(context.Background(), c))
	return c
}

func TestGormCourierRepository_Claim(t *testing.T) {
	t.Run("should let exactly one of two racing claims win", func(t *testing.T) {
		ctx := t.Context()
		repo := newRepository(t)
		c := addCourier(t, repo, "Alice")

		first, err := repo.Get(ctx, c.ID())
		require.NoError(t, err)
		second, err := repo.Get(ctx, c.ID())
		require.NoError(t, err)

		require.NoError(t, first.Claim())
		require.NoError(t, second.Claim())

		require.NoError(t, repo.Update(ctx, first))
		err = repo.Update(ctx, second)

		require.ErrorIs(t, err, errs.ErrConflict)
		stored, err := repo.Get(ctx, c.ID())
		require.NoError(t, err)
		assert.Equal(t, courier.Busy, stored.Availability())
		assert.Equal(t, int64(1), stored.Version())
	})

	t.Run("should report missing courier as not found", func(t *testing.T) {
		repo := newRepository(t)
		c, _ := courier.NewCourier(kernel.NewUUID(), "Ghost")

		err := repo.Update(t.Context(), c)

		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}

func TestGormCourierRepository_ListFree(t *testing.T) {
	ctx := context.Background()
	repo := newRepository(t)
	a := addCourier(t, repo, "A")
	b := addCourier(t, repo, "B")
	c := addCourier(t, repo, "C")

	require.NoError(t, b.Claim())
	require.NoError(t, repo.Update(ctx, b))

	t.Run("should return free couriers in registration order", func(t *testing.T) {
		free, err := repo.ListFree(ctx, 0)

		require.NoError(t, err)
		require.Len(t, free, 2)
		assert.True(t, free[0].IsEqual(a))
		assert.True(t, free[1].IsEqual(c))
	})

	t.Run("should honour limit", func(t *testing.T) {
		free, err := repo.ListFree(ctx, 1)

		require.NoError(t, err)
		assert.Len(t, free, 1)
	})

	t.Run("should page through all couriers", func(t *testing.T) {
		all, total, err := repo.List(ctx, ports.NewPage(1, 2))

		require.NoError(t, err)
		assert.Equal(t, int64(3), total)
		assert.Len(t, all, 2)
	})
}
