package courier

import (
	"errors"
	"strings"
	"time"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
)

var now = func() time.Time { return time.Now().UTC() }

// Courier is an availability record for one courier account.
//
// Example usage:
//
//	c, err := courier.NewCourier(userID, "Alice")
//	if err != nil {
//	    return err
//	}
//	if err := c.Claim(); err != nil {
//	    // already Busy
//	}
type Courier struct {
	id           kernel.UUID
	name         string
	availability Availability
	version      int64
	createdAt    time.Time
	updatedAt    time.Time
	guard        guard.ConstructorGuard
}

// NewCourier registers a Free courier.
func NewCourier(id kernel.UUID, name string) (*Courier, error) {
	ts := now()
	c := &Courier{
		availability: Free,
		createdAt:    ts,
		updatedAt:    ts,
		guard:        guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCourier rebuilds a courier from storage.
func RestoreCourier(
	id kernel.UUID,
	name string,
	availability Availability,
	version int64,
	createdAt time.Time,
	updatedAt time.Time,
) (*Courier, error) {
	c := &Courier{
		version:   version,
		createdAt: createdAt,
		updatedAt: updatedAt,
		guard:     guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
		availability.Validate(),
	); err != nil {
		return nil, err
	}
	c.availability = availability

	return c, nil
}

func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}
	return c.guard.Validate(ErrCourierIsNotConstructed)
}

func (c *Courier) IsEqual(other *Courier) bool {
	return other != nil && c.id.IsEqual(other.id)
}

func (c *Courier) ID() kernel.UUID {
	return c.id
}

func (c *Courier) Name() string {
	return c.name
}

func (c *Courier) Availability() Availability {
	return c.availability
}

func (c *Courier) IsFree() bool {
	return c.availability == Free
}

func (c *Courier) Version() int64 {
	return c.version
}

func (c *Courier) CreatedAt() time.Time {
	return c.createdAt
}

func (c *Courier) UpdatedAt() time.Time {
	return c.updatedAt
}

// Claim marks the courier Busy. Fails with InvalidTransitionError when already Busy.
func (c *Courier) Claim() error {
	next, err := c.availability.Claim()
	if err != nil {
		return err
	}
	c.availability = next
	c.updatedAt = now()
	return nil
}

// Release marks the courier Free. Fails with InvalidTransitionError when already Free.
func (c *Courier) Release() error {
	next, err := c.availability.Release()
	if err != nil {
		return err
	}
	c.availability = next
	c.updatedAt = now()
	return nil
}

// MarkPersisted advances the concurrency token after a successful store write.
func (c *Courier) MarkPersisted() {
	c.version++
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}
