package actor_test

import (
	"testing"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		input string
		want  actor.Role
	}{
		{input: "user", want: actor.Customer},
		{input: "customer", want: actor.Customer},
		{input: "livreur", want: actor.Courier},
		{input: "Courier", want: actor.Courier},
		{input: " admin ", want: actor.Admin},
	}

	for _, tt := range tests {
		t.Run("should parse "+tt.input, func(t *testing.T) {
			role, err := actor.ParseRole(tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.want, role)
		})
	}

	t.Run("should reject unknown role", func(t *testing.T) {
		_, err := actor.ParseRole("operator")
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestNewActor(t *testing.T) {
	t.Run("should create valid actor", func(t *testing.T) {
		id := kernel.NewUUID()

		a, err := actor.NewActor(id, actor.Courier)

		require.NoError(t, err)
		require.NoError(t, a.Validate())
		assert.True(t, a.Is(id))
		assert.Equal(t, actor.Courier, a.Role())
		assert.False(t, a.IsAdmin())
	})

	t.Run("should reject missing id and role together", func(t *testing.T) {
		_, err := actor.NewActor(kernel.UUID{}, actor.UnknownRole)

		require.ErrorIs(t, err, errs.ErrValueIsRequired)
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})

	t.Run("should fail validation for zero value", func(t *testing.T) {
		var a actor.Actor
		assert.Equal(t, actor.ErrActorIsNotConstructed, a.Validate())
	})
}
