package queries

import (
	"context"
	"errors"

	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/order"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"
	"fulfillment/internal/pkg/guard"
)

var ErrListOrdersQueryIsNotConstructed = errors.New(
	"ListOrdersQuery must be created via NewListOrdersQuery constructor",
)

// ListOrdersQuery lists orders visible to reader.
//
// Scope depends on the role: admins see every live order and may filter by
// customer or courier; customers see their own orders; couriers see the orders
// assigned to them. Status filters apply to everyone.
type ListOrdersQuery struct {
	reader actor.Actor
	filter ports.OrderFilter
	page   ports.Page

	guard guard.ConstructorGuard
}

func NewListOrdersQuery(reader actor.Actor, filter ports.OrderFilter, page ports.Page) (ListOrdersQuery, error) {
	if err := reader.Validate(); err != nil {
		return ListOrdersQuery{}, err
	}
	if filter.Status != nil {
		if err := filter.Status.Validate(); err != nil {
			return ListOrdersQuery{}, err
		}
	}
	return ListOrdersQuery{
		reader: reader,
		filter: scoped(reader, filter),
		page:   ports.NewPage(page.Number, page.Limit),
		guard:  guard.NewConstructorGuard(),
	}, nil
}

func (q ListOrdersQuery) Validate() error {
	return q.guard.Validate(ErrListOrdersQueryIsNotConstructed)
}

// Filter returns the effective filter after role scoping.
func (q ListOrdersQuery) Filter() ports.OrderFilter {
	return q.filter
}

func scoped(reader actor.Actor, filter ports.OrderFilter) ports.OrderFilter {
	self := reader.UserID()
	switch reader.Role() {
	case actor.Customer:
		return ports.OrderFilter{Status: filter.Status, CustomerID: &self}
	case actor.Courier:
		return ports.OrderFilter{Status: filter.Status, CourierID: &self}
	default:
		return filter
	}
}

// ListOrdersQueryResponse is one page of orders, newest first.
type ListOrdersQueryResponse struct {
	Orders []OrderView
	Total  int64
	Page   ports.Page
}

type ListOrdersQueryHandler struct {
	orders OrderReader
}

func NewListOrdersQueryHandler(orders OrderReader) ListOrdersQueryHandler {
	return ListOrdersQueryHandler{orders: orders}
}

func (h ListOrdersQueryHandler) Handle(ctx context.Context, query ListOrdersQuery) (*ListOrdersQueryResponse, error) {
	if err := query.Validate(); err != nil {
		return nil, err
	}

	found, total, err := h.orders.List(ctx, query.filter, query.page)
	if err != nil {
		return nil, errs.WrapStore("list orders", err)
	}

	views := make([]OrderView, 0, len(found))
	for _, o := range found {
		views = append(views, NewOrderView(o))
	}
	return &ListOrdersQueryResponse{Orders: views, Total: total, Page: query.page}, nil
}

// StatusFilter parses an optional status query parameter.
func StatusFilter(raw string) (*order.Status, error) {
	if raw == "" {
		return nil, nil
	}
	s, err := order.ParseStatus(raw)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// IDFilter parses an optional id query parameter.
func IDFilter(raw string) (*kernel.UUID, error) {
	if raw == "" {
		return nil, nil
	}
	id, err := kernel.UUIDFromString(raw)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
