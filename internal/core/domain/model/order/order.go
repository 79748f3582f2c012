package order

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrOrderIsNotConstructed is returned when an Order instance was not created through
	// NewOrder or RestoreOrder.
	ErrOrderIsNotConstructed = errors.New("Order must be created via NewOrder constructor")

	// ErrCourierAlreadyAssigned is returned when the courier binding is attempted twice.
	ErrCourierAlreadyAssigned = errors.New("order already has a courier")
)

// DeleteMode tells the repository how an authorized deletion is persisted.
type DeleteMode int

const (
	// HardDelete removes a Basket order from the store.
	HardDelete DeleteMode = iota + 1

	// SoftDelete keeps the row for audit and stamps deletedAt.
	SoftDelete
)

var now = func() time.Time { return time.Now().UTC() }

// Order is the aggregate root of the fulfillment lifecycle.
//
// Order follows these invariants:
//   - id and customerID never change
//   - items and deliveryAddress change only in Basket
//   - total is the sum of item prices and is frozen from confirmation on
//   - courierID is set at most once, only while Confirmed, and never cleared
//   - version is the optimistic concurrency token checked by every store update
type Order struct {
	id              kernel.UUID
	customerID      kernel.UUID
	items           []Item
	total           kernel.Money
	deliveryAddress string
	status          Status
	courierID       *kernel.UUID
	version         int64
	createdAt       time.Time
	updatedAt       time.Time
	deletedAt       *time.Time
	guard           guard.ConstructorGuard
}

// NewOrder creates a Basket order owned by customerID.
//
// Example:
//
//	item, _ := order.NewItem(productID, price)
//	o, err := order.NewOrder(kernel.NewUUID(), customerID, []order.Item{item}, "12 rue de la Paix")
func NewOrder(id kernel.UUID, customerID kernel.UUID, items []Item, deliveryAddress string) (*Order, error) {
	ts := now()
	o := &Order{
		status:    Basket,
		createdAt: ts,
		updatedAt: ts,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(id),
		o.setCustomerID(customerID),
		o.setItems(items),
		o.setDeliveryAddress(deliveryAddress),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Snapshot carries persisted state into RestoreOrder.
type Snapshot struct {
	ID              kernel.UUID
	CustomerID      kernel.UUID
	Items           []Item
	Total           kernel.Money
	DeliveryAddress string
	Status          Status
	CourierID       *kernel.UUID
	Version         int64
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       *time.Time
}

// RestoreOrder rebuilds an order from storage. The stored total is kept as is
// because it is frozen once the order leaves Basket.
func RestoreOrder(s Snapshot) (*Order, error) {
	o := &Order{
		total:     s.Total,
		version:   s.Version,
		createdAt: s.CreatedAt,
		updatedAt: s.UpdatedAt,
		deletedAt: s.DeletedAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		o.setID(s.ID),
		o.setCustomerID(s.CustomerID),
		o.restoreItems(s.Items),
		o.setDeliveryAddress(s.DeliveryAddress),
		o.restoreStatus(s.Status, s.CourierID),
	); err != nil {
		return nil, err
	}

	return o, nil
}

// Validate ensures the Order instance was properly constructed.
func (o *Order) Validate() error {
	if o == nil {
		return ErrOrderIsNotConstructed
	}
	return o.guard.Validate(ErrOrderIsNotConstructed)
}

func (o *Order) IsEqual(other *Order) bool {
	return other != nil && o.id.IsEqual(other.id)
}

func (o *Order) ID() kernel.UUID {
	return o.id
}

func (o *Order) CustomerID() kernel.UUID {
	return o.customerID
}

// Items returns a copy of the item list.
func (o *Order) Items() []Item {
	items := make([]Item, len(o.items))
	copy(items, o.items)
	return items
}

func (o *Order) Total() kernel.Money {
	return o.total
}

func (o *Order) DeliveryAddress() string {
	return o.deliveryAddress
}

func (o *Order) Status() Status {
	return o.status
}

// Courier returns the assigned courier's ID, or nil.
func (o *Order) Courier() *kernel.UUID {
	if o.courierID == nil {
		return nil
	}
	id := *o.courierID
	return &id
}

func (o *Order) Version() int64 {
	return o.version
}

func (o *Order) CreatedAt() time.Time {
	return o.createdAt
}

func (o *Order) UpdatedAt() time.Time {
	return o.updatedAt
}

func (o *Order) DeletedAt() *time.Time {
	return o.deletedAt
}

// IsAwaitingCourier reports whether the order is eligible for matching.
func (o *Order) IsAwaitingCourier() bool {
	return o.deletedAt == nil && o.status == Confirmed && o.courierID == nil
}

// IsVisibleTo reports whether a may read the order: admins, the owner and the assigned courier.
func (o *Order) IsVisibleTo(a actor.Actor) bool {
	if a.IsAdmin() || a.Is(o.customerID) {
		return true
	}
	return o.courierID != nil && a.Is(*o.courierID)
}

// ReplaceItems swaps the item list of a Basket order and recomputes the total.
func (o *Order) ReplaceItems(a actor.Actor, items []Item) error {
	if _, err := o.Authorize(UpdateItems, a); err != nil {
		return err
	}
	if err := o.setItems(items); err != nil {
		return err
	}
	o.touch()
	return nil
}

// Confirm moves a non-empty Basket order to Confirmed and freezes its total.
func (o *Order) Confirm(a actor.Actor) error {
	to, err := o.Authorize(Confirm, a)
	if err != nil {
		return err
	}
	if len(o.items) == 0 {
		return errs.NewValueIsRequiredErrorWithCause("items", errors.New("an empty basket cannot be confirmed"))
	}
	o.status = to
	o.touch()
	return nil
}

// AssignCourier binds the courier claimed by the matching engine. It is valid
// only once, while the order is Confirmed.
func (o *Order) AssignCourier(courierID kernel.UUID) error {
	if err := courierID.Validate(); err != nil {
		return err
	}
	if o.deletedAt != nil || o.status != Confirmed {
		return errs.NewInvalidTransitionError("assign courier", o.status.String())
	}
	if o.courierID != nil {
		return errs.NewInvalidTransitionErrorWithCause("assign courier", o.status.String(), ErrCourierAlreadyAssigned)
	}
	o.courierID = &courierID
	o.touch()
	return nil
}

// StartDelivery is performed by the assigned courier on a Confirmed order.
func (o *Order) StartDelivery(a actor.Actor) error {
	to, err := o.Authorize(StartDelivery, a)
	if err != nil {
		return err
	}
	o.status = to
	o.touch()
	return nil
}

// Depose is performed by the assigned courier on an InDelivery order.
func (o *Order) Depose(a actor.Actor) error {
	to, err := o.Authorize(Depose, a)
	if err != nil {
		return err
	}
	o.status = to
	o.touch()
	return nil
}

// MarkDeleted authorizes deletion. Basket orders are hard-deleted by their owner
// or an admin. Past Basket an admin may only soft-delete, and only when
// allowAdminAfterBasket is set; otherwise the InvalidTransitionError stands.
func (o *Order) MarkDeleted(a actor.Actor, allowAdminAfterBasket bool) (DeleteMode, error) {
	if o.deletedAt != nil {
		return 0, errs.NewObjectNotFoundError("order", o.id.String())
	}

	_, err := o.Authorize(Delete, a)
	if err == nil {
		return HardDelete, nil
	}
	if !errors.Is(err, errs.ErrInvalidTransition) || !a.IsAdmin() || !allowAdminAfterBasket {
		return 0, err
	}

	ts := now()
	o.deletedAt = &ts
	o.updatedAt = ts
	return SoftDelete, nil
}

// MarkPersisted advances the concurrency token after a successful store write.
// Repositories call it; domain code never does.
func (o *Order) MarkPersisted() {
	o.version++
}

func (o *Order) touch() {
	o.updatedAt = now()
}

func (o *Order) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	o.id = id
	return nil
}

func (o *Order) setCustomerID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return errs.NewValueIsRequiredErrorWithCause("customerId", err)
	}
	o.customerID = id
	return nil
}

func (o *Order) setItems(items []Item) error {
	total, err := sum(items)
	if err != nil {
		return err
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	o.total = total
	return nil
}

func (o *Order) restoreItems(items []Item) error {
	if _, err := sum(items); err != nil {
		return err
	}
	o.items = make([]Item, len(items))
	copy(o.items, items)
	return nil
}

func (o *Order) setDeliveryAddress(address string) error {
	address = strings.TrimSpace(address)
	if address == "" {
		return errs.NewValueIsRequiredError("deliveryAddress")
	}
	o.deliveryAddress = address
	return nil
}

func (o *Order) restoreStatus(status Status, courierID *kernel.UUID) error {
	if err := status.Validate(); err != nil {
		return err
	}
	if courierID != nil && !status.CanHaveCourier() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have a courier", status),
		)
	}
	if courierID == nil && status.RequiresCourier() {
		return errs.NewValueIsInvalidErrorWithCause(
			"status is invalid",
			fmt.Errorf("%s is not a valid status to have no courier", status),
		)
	}
	o.status = status
	if courierID != nil {
		id := *courierID
		o.courierID = &id
	}
	return nil
}

func sum(items []Item) (kernel.Money, error) {
	var total kernel.Money
	for i, item := range items {
		if err := item.Validate(); err != nil {
			return kernel.Money{}, fmt.Errorf("item %d: %w", i, err)
		}
		next, err := total.Add(item.Price())
		if err != nil {
			return kernel.Money{}, err
		}
		total = next
	}
	return total, nil
}
