package order

import (
	"fmt"
	"strings"

	"fulfillment/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
//
//	Basket ──> Confirmed ──> InDelivery ──> Deposed
//	  │
//	  └──> (deleted)
type Status int

const (
	// Unknown helps catch uninitialized Status values.
	Unknown Status = iota

	// Basket is the initial, editable status owned by the customer.
	Basket

	// Confirmed orders wait for, or already hold, a courier.
	Confirmed

	// InDelivery orders are being carried by the assigned courier.
	InDelivery

	// Deposed is final: the order has been handed over.
	Deposed
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "Unknown",
		Basket:     "Basket",
		Confirmed:  "Confirmed",
		InDelivery: "InDelivery",
		Deposed:    "Deposed",
	}
}

// ParseStatus accepts the canonical names case-insensitively plus the legacy
// directory spelling "livraison" for InDelivery.
func ParseStatus(s string) (Status, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "basket":
		return Basket, nil
	case "confirmed":
		return Confirmed, nil
	case "indelivery", "in_delivery", "livraison":
		return InDelivery, nil
	case "deposed":
		return Deposed, nil
	default:
		return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid status", s))
	}
}

// Validate rejects Unknown and out of range values, e.g. read from the database.
func (s Status) Validate() error {
	if s == Unknown {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	if _, ok := getStatusStrings()[s]; !ok {
		return errs.NewValueIsInvalidErrorWithCause("status is invalid", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "Unknown"
}

// CanHaveCourier reports whether a courier binding is consistent with s.
func (s Status) CanHaveCourier() bool {
	return s == Confirmed || s == InDelivery || s == Deposed
}

// RequiresCourier reports whether s is reachable only with a bound courier.
func (s Status) RequiresCourier() bool {
	return s == InDelivery || s == Deposed
}
