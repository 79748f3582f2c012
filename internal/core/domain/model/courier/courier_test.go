package courier_test

import (
	"testing"
	"time"

	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCourier(t *testing.T) {
	t.Run("should create free courier", func(t *testing.T) {
		id := kernel.NewUUID()

		c, err := courier.NewCourier(id, "  Alice ")

		require.NoError(t, err)
		require.NoError(t, c.Validate())
		assert.True(t, c.ID().IsEqual(id))
		assert.Equal(t, "Alice", c.Name())
		assert.True(t, c.IsFree())
	})

	t.Run("should reject missing id and name", func(t *testing.T) {
		c, err := courier.NewCourier(kernel.UUID{}, "")

		assert.Nil(t, c)
		require.ErrorIs(t, err, courier.ErrNameIsRequired)
		require.ErrorIs(t, err, kernel.ErrUUIDIsNotConstructed)
	})

	t.Run("should fail validation for zero value", func(t *testing.T) {
		var c courier.Courier
		assert.Equal(t, courier.ErrCourierIsNotConstructed, c.Validate())
	})
}

func TestCourier_ClaimRelease(t *testing.T) {
	t.Run("should cycle free busy free", func(t *testing.T) {
		c, _ := courier.NewCourier(kernel.NewUUID(), "Bob")

		require.NoError(t, c.Claim())
		assert.Equal(t, courier.Busy, c.Availability())

		require.NoError(t, c.Release())
		assert.Equal(t, courier.Free, c.Availability())
	})

	t.Run("should reject claiming a busy courier", func(t *testing.T) {
		c, _ := courier.NewCourier(kernel.NewUUID(), "Bob")
		require.NoError(t, c.Claim())

		err := c.Claim()

		require.ErrorIs(t, err, errs.ErrInvalidTransition)
		assert.Equal(t, courier.Busy, c.Availability())
	})

	t.Run("should reject releasing a free courier", func(t *testing.T) {
		c, _ := courier.NewCourier(kernel.NewUUID(), "Bob")

		require.ErrorIs(t, c.Release(), errs.ErrInvalidTransition)
	})
}

func TestRestoreCourier(t *testing.T) {
	t.Run("should restore busy courier with version", func(t *testing.T) {
		created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)

		c, err := courier.RestoreCourier(kernel.NewUUID(), "Carol", courier.Busy, 7, created, created)

		require.NoError(t, err)
		assert.Equal(t, courier.Busy, c.Availability())
		assert.Equal(t, int64(7), c.Version())
		assert.Equal(t, created, c.CreatedAt())
	})

	t.Run("should reject unknown availability", func(t *testing.T) {
		_, err := courier.RestoreCourier(kernel.NewUUID(), "Carol", courier.UnknownAvailability, 0, time.Time{}, time.Time{})

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestParseAvailability(t *testing.T) {
	a, err := courier.ParseAvailability("BUSY")
	require.NoError(t, err)
	assert.Equal(t, courier.Busy, a)

	_, err = courier.ParseAvailability("away")
	require.ErrorIs(t, err, errs.ErrValueIsInvalid)
}
