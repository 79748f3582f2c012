package kernel_test

import (
	"math"
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMoney(t *testing.T) {
	t.Run("should reject negative amount", func(t *testing.T) {
		_, err := kernel.NewMoney(-1)
		require.ErrorIs(t, err, errs.ErrValueIsOutOfRange)
	})

	t.Run("should add amounts", func(t *testing.T) {
		a, _ := kernel.NewMoney(1250)
		b, _ := kernel.NewMoney(99)

		sum, err := a.Add(b)

		require.NoError(t, err)
		assert.Equal(t, int64(1349), sum.Cents())
		assert.Equal(t, "13.49", sum.String())
	})

	t.Run("should detect overflow", func(t *testing.T) {
		a, _ := kernel.NewMoney(math.MaxInt64)
		b, _ := kernel.NewMoney(1)

		_, err := a.Add(b)

		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}
