package courier

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Availability of a courier for new orders.
type Availability int

const (
	UnknownAvailability Availability = iota
	Free
	Busy
)

func (a Availability) String() string {
	switch a {
	case Free:
		return "Free"
	case Busy:
		return "Busy"
	default:
		return "Unknown"
	}
}

// ParseAvailability accepts "free" and "busy" in any case.
func ParseAvailability(s string) (Availability, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "free":
		return Free, nil
	case "busy":
		return Busy, nil
	default:
		return UnknownAvailability, errs.NewValueIsInvalidErrorWithCause("availability", fmt.Errorf("%q is not a valid availability", s))
	}
}

func (a Availability) Validate() error {
	if a != Free && a != Busy {
		return errs.NewValueIsInvalidErrorWithCause("availability", fmt.Errorf("%d is not a valid availability", a))
	}
	return nil
}

// Claim transitions Free to Busy.
func (a Availability) Claim() (Availability, error) {
	if a != Free {
		return UnknownAvailability, errs.NewInvalidTransitionError("claim", a.String())
	}
	return Busy, nil
}

// Release transitions Busy to Free.
func (a Availability) Release() (Availability, error) {
	if a != Busy {
		return UnknownAvailability, errs.NewInvalidTransitionError("release", a.String())
	}
	return Free, nil
}
