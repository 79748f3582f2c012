// Package queries contains read operations for retrieving system state.
// Queries return read models shaped for the HTTP layer and never mutate.
package queries

import (
	"errors"
	"time"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/guard"
)

var ErrGetAllCouriersQueryIsNotConstructed = errors.New(
	"GetAllCouriersQuery must be created via NewGetAllCouriersQuery constructor",
)

// GetAllCouriersQuery lists courier availability records. Admin only.
//
// Example:
//
//	query, _ := NewGetAllCouriersQuery(admin, nil, ports.NewPage(1, 20))
//	handler := NewGetAllCouriersQueryHandler(db)
//
//	resp, err := handler.Handle(ctx, query)
//	if err != nil {
//	    return fmt.Errorf("failed to retrieve couriers: %w", err)
//	}
//	fmt.Printf("%d of %d couriers\n", len(resp.Couriers), resp.Total)
type GetAllCouriersQuery struct {
	admin        actor.Actor
	availability *courier.Availability
	page         ports.Page

	guard guard.ConstructorGuard
}

// NewGetAllCouriersQuery builds the query. A nil availability lists every courier.
func NewGetAllCouriersQuery(admin actor.Actor, availability *courier.Availability, page ports.Page) (GetAllCouriersQuery, error) {
	if err := admin.Validate(); err != nil {
		return GetAllCouriersQuery{}, err
	}
	if availability != nil {
		if err := availability.Validate(); err != nil {
			return GetAllCouriersQuery{}, err
		}
	}
	return GetAllCouriersQuery{
		admin:        admin,
		availability: availability,
		page:         ports.NewPage(page.Number, page.Limit),
		guard:        guard.NewConstructorGuard(),
	}, nil
}

func (q GetAllCouriersQuery) Validate() error {
	return q.guard.Validate(ErrGetAllCouriersQueryIsNotConstructed)
}

// CourierView is the courier read model.
type CourierView struct {
	ID           kernel.UUID
	Name         string
	Availability courier.Availability
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GetAllCouriersQueryResponse is one page of couriers ordered by name.
type GetAllCouriersQueryResponse struct {
	Couriers []CourierView
	Total    int64
	Page     ports.Page
}
