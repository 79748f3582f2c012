package kernel

import (
	"fmt"
	"math"

	"fulfillment/internal/pkg/errs"
)

// Money is an amount in minor currency units (cents). Negative amounts are rejected.
type Money struct {
	cents int64
}

// NewMoney validates the amount and returns a Money value.
func NewMoney(cents int64) (Money, error) {
	if cents < 0 {
		return Money{}, errs.NewValueIsOutOfRangeError("money", cents, 0, int64(math.MaxInt64))
	}
	return Money{cents: cents}, nil
}

// Cents returns the raw amount.
func (m Money) Cents() int64 {
	return m.cents
}

// Add sums two amounts, failing on overflow.
func (m Money) Add(other Money) (Money, error) {
	if other.cents > math.MaxInt64-m.cents {
		return Money{}, errs.NewValueIsInvalidErrorWithCause("money", fmt.Errorf("%d + %d overflows", m.cents, other.cents))
	}
	return Money{cents: m.cents + other.cents}, nil
}

func (m Money) String() string {
	return fmt.Sprintf("%d.%02d", m.cents/100, m.cents%100)
}
