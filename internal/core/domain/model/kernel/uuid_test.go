package kernel_test

import (
	"encoding/json"
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUUID(t *testing.T) {
	t.Run("should create valid unique UUIDs", func(t *testing.T) {
		a := kernel.NewUUID()
		b := kernel.NewUUID()

		require.NoError(t, a.Validate())
		assert.False(t, a.IsEqual(b))
	})
}

func TestUUIDFromString(t *testing.T) {
	const valid = "550e8400-e29b-41d4-a716-446655440000"

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "should parse canonical form", input: valid},
		{name: "should parse braces", input: "{" + valid + "}"},
		{name: "should parse urn prefix", input: "urn:uuid:" + valid},
		{name: "should reject garbage", input: "not-a-uuid", wantErr: errs.ErrValueIsInvalid},
		{name: "should reject empty string", input: "", wantErr: errs.ErrValueIsInvalid},
		{name: "should reject nil uuid", input: uuid.Nil.String(), wantErr: errs.ErrValueIsRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := kernel.UUIDFromString(tt.input)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, valid, id.String())
		})
	}
}

func TestUUIDFromBytes(t *testing.T) {
	t.Run("should round trip through bytes", func(t *testing.T) {
		original := kernel.NewUUID()
		raw := original.Bytes()

		restored, err := kernel.UUIDFromBytes(raw[:])

		require.NoError(t, err)
		assert.True(t, original.IsEqual(restored))
	})

	t.Run("should reject wrong length", func(t *testing.T) {
		_, err := kernel.UUIDFromBytes([]byte{1, 2, 3})
		require.ErrorIs(t, err, errs.ErrValueIsInvalid)
	})
}

func TestUUID_Validate(t *testing.T) {
	t.Run("should reject zero value", func(t *testing.T) {
		var id kernel.UUID
		assert.Equal(t, kernel.ErrUUIDIsNotConstructed, id.Validate())
	})
}

func TestUUID_JSON(t *testing.T) {
	t.Run("should encode as canonical string", func(t *testing.T) {
		id := kernel.MustUUIDFromString("550e8400-e29b-41d4-a716-446655440000")

		data, err := json.Marshal(map[string]kernel.UUID{"id": id})

		require.NoError(t, err)
		assert.JSONEq(t, `{"id":"550e8400-e29b-41d4-a716-446655440000"}`, string(data))
	})

	t.Run("should decode canonical string", func(t *testing.T) {
		var payload struct {
			ID kernel.UUID `json:"id"`
		}

		err := json.Unmarshal([]byte(`{"id":"550e8400-e29b-41d4-a716-446655440000"}`), &payload)

		require.NoError(t, err)
		assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", payload.ID.String())
	})
}
