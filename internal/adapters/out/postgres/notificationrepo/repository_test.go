package notificationrepo_test

import (
	"context"
	"testing"

	"fulfillment/internal/adapters/out/postgres/notificationrepo"
	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/notification"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormNotificationRepository(t *testing.T) {
	ctx := context.Background()
	repo := notificationrepo.NewGormNotificationRepository(testutil.NewSQLiteDB(t))
	recipient := kernel.NewUUID()
	reader, _ := actor.NewActor(recipient, actor.Customer)

	add := func(title string) *notification.Notification {
		n, err := notification.NewNotification(kernel.NewUUID(), recipient, title, "m")
		require.NoError(t, err)
		require.NoError(t, repo.Add(ctx, n))
		return n
	}

	first := add("first")
	add("second")
	other, _ := notification.NewNotification(kernel.NewUUID(), kernel.NewUUID(), "other", "m")
	require.NoError(t, repo.Add(ctx, other))

	t.Run("should round trip unread notification", func(t *testing.T) {
		got, err := repo.Get(ctx, first.ID())

		require.NoError(t, err)
		assert.False(t, got.IsRead())
		assert.Equal(t, "first", got.Title())
		assert.Equal(t, "m", got.Message())
	})

	t.Run("should list only recipient notifications", func(t *testing.T) {
		got, total, err := repo.ListByRecipient(ctx, recipient, false, ports.NewPage(1, 10))

		require.NoError(t, err)
		assert.Equal(t, int64(2), total)
		assert.Len(t, got, 2)
	})

	t.Run("should filter unread after mark read", func(t *testing.T) {
		require.NoError(t, first.MarkRead(reader))
		require.NoError(t, repo.Update(ctx, first))

		got, total, err := repo.ListByRecipient(ctx, recipient, true, ports.NewPage(1, 10))

		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
		require.Len(t, got, 1)
		assert.Equal(t, "second", got[0].Title())
	})

	t.Run("should report unknown notification", func(t *testing.T) {
		_, err := repo.Get(ctx, kernel.NewUUID())
		require.ErrorIs(t, err, errs.ErrObjectNotFound)
	})
}
