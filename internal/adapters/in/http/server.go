package http

import (
	"net/http"
	"strconv"

	"fulfillment/internal/core/application/notifications"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/model/actor"
	"fulfillment/internal/core/domain/model/courier"
	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/ports"

	"github.com/labstack/echo/v4"
)

// Handlers groups the use cases served over HTTP.
type Handlers struct {
	CreateOrder     commands.CreateOrderCommandHandler
	UpdateItems     commands.UpdateOrderItemsCommandHandler
	ConfirmOrder    commands.ConfirmOrderCommandHandler
	StartDelivery   commands.StartDeliveryCommandHandler
	DeposeOrder     commands.DeposeOrderCommandHandler
	DeleteOrder     commands.DeleteOrderCommandHandler
	RegisterCourier commands.RegisterCourierCommandHandler

	GetOrder       queries.GetOrderQueryHandler
	ListOrders     queries.ListOrdersQueryHandler
	GetAllCouriers queries.GetAllCouriersQueryHandler

	Notifications *notifications.Channel
}

// Server coordinates between HTTP handlers and application use cases.
type Server struct {
	h Handlers
}

func NewServer(h Handlers) *Server {
	return &Server{h: h}
}

// Register mounts the API under /api/v1 behind auth.
func (s *Server) Register(e *echo.Echo, auth echo.MiddlewareFunc) {
	api := e.Group("/api/v1", auth)

	api.POST("/orders", s.CreateOrder)
	api.GET("/orders", s.ListOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.PUT("/orders/:id/items", s.UpdateItems)
	api.POST("/orders/:id/confirm", s.ConfirmOrder)
	api.POST("/orders/:id/start-delivery", s.StartDelivery)
	api.POST("/orders/:id/depose", s.DeposeOrder)
	api.DELETE("/orders/:id", s.DeleteOrder)

	api.POST("/couriers", s.RegisterCourier)
	api.GET("/couriers", s.GetCouriers)

	api.GET("/notifications", s.ListNotifications)
	api.POST("/notifications/:id/read", s.MarkNotificationRead)
}

// CreateOrder handles POST /api/v1/orders - opens a basket.
func (s *Server) CreateOrder(c echo.Context) error {
	who, err := ActorFrom(c)
	if err != nil {
		return err
	}
	var body NewOrder
	if err = c.Bind(&body); err != nil {
		return err
	}
	productIDs, err := parseIDs(body.ProductIDs)
	if err != nil {
		return err
	}

	orderID := kernel.NewUUID()
	cmd, err := commands.NewCreateOrderCommand(orderID, who, productIDs, body.DeliveryAddress)
	if err != nil {
		return err
	}
	if err = s.h.CreateOrder.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}

	view, err := s.order(c, who, orderID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, view)
}

// ListOrders handles GET /api/v1/orders.
// Supports status, customerId, courierId, page and limit query parameters.
func (s *Server) ListOrders(c echo.Context) error {
	who, err := ActorFrom(c)
	if err != nil {
		return err
	}
	page, err := pageOf(c)
	if err != nil {
		return err
	}

	var filter ports.OrderFilter
	if filter.Status, err = queries.StatusFilter(c.QueryParam("status")); err != nil {
		return err
	}
	if filter.CustomerID, err = queries.IDFilter(c.QueryParam("customerId")); err != nil {
		return err
	}
	if filter.CourierID, err = queries.IDFilter(c.QueryParam("courierId")); err != nil {
		return err
	}

	query, err := queries.NewListOrdersQuery(who, filter, page)
	if err != nil {
		return err
	}
	resp, err := s.h.ListOrders.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	orders := make([]Order, 0, len(resp.Orders))
	for _, v := range resp.Orders {
		orders = append(orders, toOrder(v))
	}
	return c.JSON(http.StatusOK, newPageOf(orders, resp.Total, resp.Page))
}

// GetOrder handles GET /api/v1/orders/:id.
func (s *Server) GetOrder(c echo.Context) error {
	who, err := ActorFrom(c)
	if err != nil {
		return err
	}
	orderID, err := pathID(c)
	if err != nil {
		return err
	}

	view, err := s.order(c, who, orderID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// UpdateItems handles PUT /api/v1/orders/:id/items.
func (s *Server) UpdateItems(c echo.Context) error {
	who, err := ActorFrom(c)
	if err != nil {
		return err
	}
	orderID, err := pathID(c)
	if err != nil {
		return err
	}
	var body UpdateItems
	if err = c.Bind(&body); err != nil {
		return err
	}
	productIDs, err := parseIDs(body.ProductIDs)
	if err != nil {
		return err
	}

	cmd, err := commands.NewUpdateOrderItemsCommand(who, orderID, productIDs)
	if err != nil {
		return err
	}
	if err = s.h.UpdateItems.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondOrder(c, who, orderID)
}

// ConfirmOrder handles POST /api/v1/orders/:id/confirm.
// The response tells whether a courier was claimed right away.
func (s *Server) ConfirmOrder(c echo.Context) error {
	who, cmd, err := orderCommand(c)
	if err != nil {
		return err
	}

	result, err := s.h.ConfirmOrder.Handle(c.Request().Context(), cmd)
	if err != nil {
		return err
	}

	view, err := s.order(c, who, cmd.OrderID())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, Confirmation{Order: view, Match: toMatch(result)})
}

// StartDelivery handles POST /api/v1/orders/:id/start-delivery.
func (s *Server) StartDelivery(c echo.Context) error {
	who, cmd, err := orderCommand(c)
	if err != nil {
		return err
	}
	if err = s.h.StartDelivery.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondOrder(c, who, cmd.OrderID())
}

// DeposeOrder handles POST /api/v1/orders/:id/depose.
func (s *Server) DeposeOrder(c echo.Context) error {
	who, cmd, err := orderCommand(c)
	if err != nil {
		return err
	}
	if err = s.h.DeposeOrder.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return s.respondOrder(c, who, cmd.OrderID())
}

// DeleteOrder handles DELETE /api/v1/orders/:id.
func (s *Server) DeleteOrder(c echo.Context) error {
	_, cmd, err := orderCommand(c)
	if err != nil {
		return err
	}
	if err = s.h.DeleteOrder.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RegisterCourier handles POST /api/v1/couriers - admin registers a courier account.
func (s *Server) RegisterCourier(c echo.Context) error {
	who, err := ActorFrom(c)
	if err != nil {
		return err
	}
	var body NewCourier
	if err = c.Bind(&body); err != nil {
		return err
	}
	courierID, err := kernel.UUIDFromString(body.UserID)
	if err != nil {
		return err
	}

	cmd, err := commands.NewRegisterCourierCommand(who, courierID, body.Name)
	if err != nil {
		return err
	}
	if err = s.h.RegisterCourier.Handle(c.Request().Context(), cmd); err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, map[string]kernel.UUID{"id": courierID})
}

// GetCouriers handles GET /api/v1/couriers - admin lists courier availability.
func (s *Server) GetCouriers(c echo.Context) error {
	who, err := ActorFrom(c)
	if err != nil {
		return err
	}
	page, err := pageOf(c)
	if err != nil {
		return err
	}
	var availability *courier.Availability
	if raw := c.QueryParam("availability"); raw != "" {
		a, parseErr := courier.ParseAvailability(raw)
		if parseErr != nil {
			return parseErr
		}
		availability = &a
	}

	query, err := queries.NewGetAllCouriersQuery(who, availability, page)
	if err != nil {
		return err
	}
	resp, err := s.h.GetAllCouriers.Handle(c.Request().Context(), query)
	if err != nil {
		return err
	}

	couriers := make([]Courier, 0, len(resp.Couriers))
	for _, v := range resp.Couriers {
		couriers = append(couriers, toCourier(v))
	}
	return c.JSON(http.StatusOK, newPageOf(couriers, resp.Total, resp.Page))
}

// ListNotifications handles GET /api/v1/notifications.
// unread=true restricts the listing to unread notifications.
func (s *Server) ListNotifications(c echo.Context) error {
	who, err := ActorFrom(c)
	if err != nil {
		return err
	}
	page, err := pageOf(c)
	if err != nil {
		return err
	}
	unread := false
	if raw := c.QueryParam("unread"); raw != "" {
		if unread, err = strconv.ParseBool(raw); err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "unread must be a boolean")
		}
	}

	list := s.h.Notifications.List
	if unread {
		list = s.h.Notifications.Unread
	}
	found, total, err := list(c.Request().Context(), who, page)
	if err != nil {
		return err
	}

	views := make([]notifications.View, 0, len(found))
	for _, n := range found {
		views = append(views, notifications.NewView(n))
	}
	return c.JSON(http.StatusOK, newPageOf(views, total, page))
}

// MarkNotificationRead handles POST /api/v1/notifications/:id/read.
func (s *Server) MarkNotificationRead(c echo.Context) error {
	who, err := ActorFrom(c)
	if err != nil {
		return err
	}
	id, err := pathID(c)
	if err != nil {
		return err
	}

	n, err := s.h.Notifications.MarkRead(c.Request().Context(), who, id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, notifications.NewView(n))
}

func orderCommand(c echo.Context) (actor.Actor, commands.OrderCommand, error) {
	who, err := ActorFrom(c)
	if err != nil {
		return actor.Actor{}, commands.OrderCommand{}, err
	}
	orderID, err := pathID(c)
	if err != nil {
		return actor.Actor{}, commands.OrderCommand{}, err
	}
	cmd, err := commands.NewOrderCommand(who, orderID)
	if err != nil {
		return actor.Actor{}, commands.OrderCommand{}, err
	}
	return who, cmd, nil
}

func (s *Server) order(c echo.Context, who actor.Actor, orderID kernel.UUID) (Order, error) {
	query, err := queries.NewGetOrderQuery(who, orderID)
	if err != nil {
		return Order{}, err
	}
	view, err := s.h.GetOrder.Handle(c.Request().Context(), query)
	if err != nil {
		return Order{}, err
	}
	return toOrder(*view), nil
}

func (s *Server) respondOrder(c echo.Context, who actor.Actor, orderID kernel.UUID) error {
	view, err := s.order(c, who, orderID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}
