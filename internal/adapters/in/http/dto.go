package http

import (
	"strconv"
	"time"

	"fulfillment/internal/core/application/matching"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

type NewOrder struct {
	ProductIDs      []string `json:"productIds"`
	DeliveryAddress string   `json:"deliveryAddress"`
}

type UpdateItems struct {
	ProductIDs []string `json:"productIds"`
}

type NewCourier struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
}

type Item struct {
	ProductID kernel.UUID `json:"productId"`
	Price     int64       `json:"price"`
}

type Order struct {
	ID              kernel.UUID  `json:"id"`
	CustomerID      kernel.UUID  `json:"customerId"`
	Items           []Item       `json:"items"`
	Total           int64        `json:"total"`
	DeliveryAddress string       `json:"deliveryAddress"`
	Status          string       `json:"status"`
	CourierID       *kernel.UUID `json:"courierId,omitempty"`
	AwaitingCourier bool         `json:"awaitingCourier"`
	CreatedAt       time.Time    `json:"createdAt"`
	UpdatedAt       time.Time    `json:"updatedAt"`
}

type Match struct {
	Outcome   string       `json:"outcome"`
	CourierID *kernel.UUID `json:"courierId,omitempty"`
}

type Confirmation struct {
	Order Order `json:"order"`
	Match Match `json:"match"`
}

type Courier struct {
	ID           kernel.UUID `json:"id"`
	Name         string      `json:"name"`
	Availability string      `json:"availability"`
	CreatedAt    time.Time   `json:"createdAt"`
	UpdatedAt    time.Time   `json:"updatedAt"`
}

// PageOf is one page of a listing.
type PageOf[T any] struct {
	Data  []T   `json:"data"`
	Total int64 `json:"total"`
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
}

func newPageOf[T any](data []T, total int64, page ports.Page) PageOf[T] {
	return PageOf[T]{Data: data, Total: total, Page: page.Number, Limit: page.Limit}
}

func toOrder(v queries.OrderView) Order {
	items := make([]Item, 0, len(v.Items))
	for _, it := range v.Items {
		items = append(items, Item{ProductID: it.ProductID, Price: it.Price.Cents()})
	}
	return Order{
		ID:              v.ID,
		CustomerID:      v.CustomerID,
		Items:           items,
		Total:           v.Total.Cents(),
		DeliveryAddress: v.DeliveryAddress,
		Status:          v.Status.String(),
		CourierID:       v.CourierID,
		AwaitingCourier: v.AwaitingCourier,
		CreatedAt:       v.CreatedAt,
		UpdatedAt:       v.UpdatedAt,
	}
}

func toMatch(r matching.Result) Match {
	return Match{Outcome: r.Outcome.String(), CourierID: r.CourierID}
}

func toCourier(v queries.CourierView) Courier {
	return Courier{
		ID:           v.ID,
		Name:         v.Name,
		Availability: v.Availability.String(),
		CreatedAt:    v.CreatedAt,
		UpdatedAt:    v.UpdatedAt,
	}
}

func parseIDs(raw []string) ([]kernel.UUID, error) {
	ids := make([]kernel.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := kernel.UUIDFromString(s)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

func pathID(c echo.Context) (kernel.UUID, error) {
	return kernel.UUIDFromString(c.Param("id"))
}

// pageOf reads the page and limit query parameters.
func pageOf(c echo.Context) (ports.Page, error) {
	number, err := intParam(c, "page")
	if err != nil {
		return ports.Page{}, err
	}
	limit, err := intParam(c, "limit")
	if err != nil {
		return ports.Page{}, err
	}
	return ports.NewPage(number, limit), nil
}

func intParam(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return 0, errs.NewValueIsInvalidError(name)
	}
	return v, nil
}
