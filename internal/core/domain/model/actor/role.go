package actor

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Role is the closed set of capabilities known to the transition table.
type Role int

const (
	UnknownRole Role = iota
	Customer
	Courier
	Admin
)

func getRoleStrings() map[Role]string {
	return map[Role]string{
		UnknownRole: "unknown",
		Customer:    "customer",
		Courier:     "courier",
		Admin:       "admin",
	}
}

// ParseRole accepts both the canonical names and the legacy directory names
// ("user" for customers, "livreur" for couriers).
func ParseRole(s string) (Role, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "customer", "user":
		return Customer, nil
	case "courier", "livreur":
		return Courier, nil
	case "admin":
		return Admin, nil
	default:
		return UnknownRole, errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%q is not a known role", s))
	}
}

// Validate rejects UnknownRole and out of range values.
func (r Role) Validate() error {
	if r == UnknownRole {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	if _, ok := getRoleStrings()[r]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("role", fmt.Errorf("%d is not a valid role", r))
	}
	return nil
}

func (r Role) String() string {
	if s, ok := getRoleStrings()[r]; ok {
		return s
	}
	return "unknown"
}
