package errs_test

import (
	"errors"
	"fmt"
	"testing"

	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObjectNotFoundError(t *testing.T) {
	t.Run("should format id without cause", func(t *testing.T) {
		err := errs.NewObjectNotFoundError("orderId", "123")

		assert.Equal(t, "object not found: 123", err.Error())
		assert.Equal(t, errs.ErrObjectNotFound, err.Unwrap())
	})

	t.Run("should include param and cause", func(t *testing.T) {
		err := errs.NewObjectNotFoundErrorWithCause("orderId", "123", errors.New("record not found"))

		assert.Equal(t, "object not found: param is: orderId, ID is: 123 (cause: record not found)", err.Error())
	})
}

func TestValidationErrors(t *testing.T) {
	cause := errors.New("bad input")

	tests := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{
			name:     "should format value is invalid",
			err:      errs.NewValueIsInvalidError("address"),
			sentinel: errs.ErrValueIsInvalid,
			message:  "value is invalid: address",
		},
		{
			name:     "should format value is invalid with cause",
			err:      errs.NewValueIsInvalidErrorWithCause("address", cause),
			sentinel: errs.ErrValueIsInvalid,
			message:  "value is invalid: address (cause: bad input)",
		},
		{
			name:     "should format value is required",
			err:      errs.NewValueIsRequiredError("items"),
			sentinel: errs.ErrValueIsRequired,
			message:  "value is required: items",
		},
		{
			name:     "should format value is required with cause",
			err:      errs.NewValueIsRequiredErrorWithCause("items", cause),
			sentinel: errs.ErrValueIsRequired,
			message:  "value is required: items (cause: bad input)",
		},
		{
			name:     "should format out of range",
			err:      errs.NewValueIsOutOfRangeError("limit", 150, 1, 100),
			sentinel: errs.ErrValueIsOutOfRange,
			message:  "value is invalid: 150 is limit, min value is 1, max value is 100",
		},
		{
			name:     "should format out of range with cause",
			err:      errs.NewValueIsOutOfRangeErrorWithCause("page", -5, 1, 100, cause),
			sentinel: errs.ErrValueIsOutOfRange,
			message:  "value is invalid: -5 is page, min value is 1, max value is 100 (cause: bad input)",
		},
		{
			name:     "should strip newlines from out of range values",
			err:      errs.NewValueIsOutOfRangeError("text", "hello\nworld", 0, 10),
			sentinel: errs.ErrValueIsOutOfRange,
			message:  "value is invalid: hello world is text, min value is 0, max value is 10",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.message, tt.err.Error())
			require.ErrorIs(t, tt.err, tt.sentinel)
		})
	}
}

func TestLifecycleErrors(t *testing.T) {
	t.Run("should describe invalid transition", func(t *testing.T) {
		err := errs.NewInvalidTransitionError("confirm", "Confirmed")

		assert.Equal(t, "invalid transition: confirm is not allowed from Confirmed", err.Error())
		require.ErrorIs(t, err, errs.ErrInvalidTransition)
	})

	t.Run("should describe forbidden action with and without reason", func(t *testing.T) {
		assert.Equal(t, "forbidden: depose (not the assigned courier)",
			errs.NewForbiddenError("depose", "not the assigned courier").Error())
		assert.Equal(t, "forbidden: depose", errs.NewForbiddenError("depose", "").Error())
		require.ErrorIs(t, errs.NewForbiddenError("depose", ""), errs.ErrForbidden)
	})

	t.Run("should describe conflict", func(t *testing.T) {
		err := errs.NewConflictError("order", "42")

		assert.Equal(t, "conflict: order 42 was modified concurrently", err.Error())
		require.ErrorIs(t, err, errs.ErrConflict)
	})

	t.Run("should expose both sentinel and cause of store failure", func(t *testing.T) {
		cause := errors.New("connection reset")
		err := errs.NewStoreFailureError("update order", cause)

		require.ErrorIs(t, err, errs.ErrStoreFailure)
		require.ErrorIs(t, err, cause)
		assert.Equal(t, "store failure: update order (cause: connection reset)", err.Error())
	})
}

func TestWrapStore(t *testing.T) {
	t.Run("should return nil for nil", func(t *testing.T) {
		require.NoError(t, errs.WrapStore("get order", nil))
	})

	t.Run("should pass domain errors through", func(t *testing.T) {
		notFound := errs.NewObjectNotFoundError("order", "1")
		wrapped := fmt.Errorf("loading: %w", notFound)

		assert.Equal(t, wrapped, errs.WrapStore("get order", wrapped))
	})

	t.Run("should classify unknown errors as store failures", func(t *testing.T) {
		err := errs.WrapStore("get order", errors.New("driver: bad connection"))

		var storeErr *errs.StoreFailureError
		require.ErrorAs(t, err, &storeErr)
		assert.Equal(t, "get order", storeErr.Operation)
	})
}
