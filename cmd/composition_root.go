package cmd

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/in/ws"
	"fulfillment/internal/adapters/out/jwtauth"
	"fulfillment/internal/adapters/out/kafka"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/productrepo"
	"fulfillment/internal/core/application/matching"
	"fulfillment/internal/core/application/notifications"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/ports"
	"fulfillment/internal/jobs"
	"fulfillment/internal/metrics"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"
)

const (
	tokenTTL          = 24 * time.Hour
	catalogCacheSize  = 1024
	sessionBufferSize = 16
)

// eventPublisher is the publisher the root owns and must close.
type eventPublisher interface {
	ports.OrderEventPublisher
	Close() error
}

// CompositionRoot owns every long-lived component of the process.
type CompositionRoot struct {
	cfg        Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	registry  *prometheus.Registry
	hub       *ws.Hub
	resolver  *jwtauth.Resolver
	publisher eventPublisher
	catalog   *productrepo.CachedCatalog
	channel   *notifications.Channel
	engine    *matching.Engine
	effects   commands.SideEffects
}

func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	resolver, err := jwtauth.NewResolver(cfg.JWTSecret, tokenTTL)
	if err != nil {
		return nil, err
	}

	c := &CompositionRoot{
		cfg:        cfg,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:     logger,
		registry:   prometheus.NewRegistry(),
		resolver:   resolver,
	}
	c.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	c.publisher = kafka.NoopPublisher{}
	if brokers := cfg.KafkaBrokers(); len(brokers) > 0 {
		c.publisher = kafka.NewOrderChangedProducer(brokers, cfg.KafkaOrderChangedTopic, logger)
	}

	c.hub = ws.NewHub(logger, ws.WithMetrics(metrics.NewPush(c.registry)))
	c.catalog = productrepo.NewCachedCatalog(productrepo.NewGormProductCatalog(gormDB), catalogCacheSize)
	c.channel = notifications.NewChannel(c.notificationUoWFactory(), c.hub, logger)
	c.effects = commands.NewSideEffects(c.channel, c.publisher, logger)
	c.engine = matching.NewEngine(c.matchingUoWFactory(), logger, matching.WithMetrics(metrics.NewMatching(c.registry)))
	c.engine.SetListener(commands.NewCourierAssignedHandler(c.orderUoWFactory(), c.effects))

	return c, nil
}

func (c *CompositionRoot) Engine() *matching.Engine {
	return c.engine
}

func (c *CompositionRoot) Resolver() *jwtauth.Resolver {
	return c.resolver
}

func (c *CompositionRoot) Hub() *ws.Hub {
	return c.hub
}

func (c *CompositionRoot) Catalog() ports.ProductCatalog {
	return c.catalog
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.orderUoWFactory(), c.catalog, c.effects)
}

func (c *CompositionRoot) CreateUpdateOrderItemsCommandHandler() commands.UpdateOrderItemsCommandHandler {
	return commands.NewUpdateOrderItemsCommandHandler(c.orderUoWFactory(), c.catalog, c.effects)
}

func (c *CompositionRoot) CreateConfirmOrderCommandHandler() commands.ConfirmOrderCommandHandler {
	return commands.NewConfirmOrderCommandHandler(c.orderUoWFactory(), c.engine, c.effects)
}

func (c *CompositionRoot) CreateStartDeliveryCommandHandler() commands.StartDeliveryCommandHandler {
	return commands.NewStartDeliveryCommandHandler(c.orderUoWFactory(), c.effects)
}

func (c *CompositionRoot) CreateDeposeOrderCommandHandler() commands.DeposeOrderCommandHandler {
	return commands.NewDeposeOrderCommandHandler(c.orderUoWFactory(), c.engine, c.effects)
}

func (c *CompositionRoot) CreateDeleteOrderCommandHandler() commands.DeleteOrderCommandHandler {
	return commands.NewDeleteOrderCommandHandler(c.orderUoWFactory(), c.engine, c.engine, c.cfg.AllowAdminDelete, c.effects)
}

func (c *CompositionRoot) CreateRegisterCourierCommandHandler() commands.RegisterCourierCommandHandler {
	return commands.NewRegisterCourierCommandHandler(c.courierUoWFactory())
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(orderrepo.NewGormOrderRepository(c.gormDB))
}

func (c *CompositionRoot) CreateListOrdersQueryHandler() queries.ListOrdersQueryHandler {
	return queries.NewListOrdersQueryHandler(orderrepo.NewGormOrderRepository(c.gormDB))
}

func (c *CompositionRoot) CreateGetAllCouriersQueryHandler() queries.GetAllCouriersQueryHandler {
	return queries.NewGetAllCouriersQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CreateOrder:     c.CreateCreateOrderCommandHandler(),
		UpdateItems:     c.CreateUpdateOrderItemsCommandHandler(),
		ConfirmOrder:    c.CreateConfirmOrderCommandHandler(),
		StartDelivery:   c.CreateStartDeliveryCommandHandler(),
		DeposeOrder:     c.CreateDeposeOrderCommandHandler(),
		DeleteOrder:     c.CreateDeleteOrderCommandHandler(),
		RegisterCourier: c.CreateRegisterCourierCommandHandler(),
		GetOrder:        c.CreateGetOrderQueryHandler(),
		ListOrders:      c.CreateListOrdersQueryHandler(),
		GetAllCouriers:  c.CreateGetAllCouriersQueryHandler(),
		Notifications:   c.channel,
	})
}

// CreateJobManager schedules the pending match sweep and notification
// redelivery.
func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	retry, err := jobs.NewMatchRetryJob(c.engine, c.cfg.MatchRetryInterval, c.logger)
	if err != nil {
		return nil, fmt.Errorf("match retry job: %w", err)
	}
	redelivery, err := jobs.NewNotificationRedeliveryJob(c.channel, c.cfg.MatchRetryInterval, c.logger)
	if err != nil {
		return nil, fmt.Errorf("notification redelivery job: %w", err)
	}
	return jobs.NewJobManager(retry, redelivery), nil
}

// CreateEcho builds the HTTP router: the API, the websocket endpoint and probes.
func (c *CompositionRoot) CreateEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = httpin.NewErrorHandler(c.logger)

	e.Use(middleware.Recover())
	e.Use(metrics.NewHTTP(c.registry).Middleware())

	e.GET("/health", func(ctx echo.Context) error {
		return ctx.String(http.StatusOK, "Healthy")
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})))
	e.GET("/ws", ws.NewHandler(c.hub, c.resolver, sessionBufferSize, c.logger).Serve)

	c.CreateServer().Register(e, httpin.Authenticate(c.resolver))
	return e
}

// Close releases what the root owns. The database is closed by its opener.
func (c *CompositionRoot) Close() error {
	c.hub.Close()
	return c.publisher.Close()
}

func (c *CompositionRoot) orderUoWFactory() commands.OrderUoWFactory {
	return FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) courierUoWFactory() commands.CourierUoWFactory {
	return FuncCourierUoWFactory(func() commands.CourierUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) matchingUoWFactory() matching.UoWFactory {
	return FuncMatchingUoWFactory(func() matching.UoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) notificationUoWFactory() notifications.UoWFactory {
	return FuncNotificationUoWFactory(func() notifications.UoW {
		return c.uowFactory.Create()
	})
}

type FuncCourierUoWFactory func() commands.CourierUoW

func (f FuncCourierUoWFactory) Create() commands.CourierUoW {
	return f()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncMatchingUoWFactory func() matching.UoW

func (f FuncMatchingUoWFactory) Create() matching.UoW {
	return f()
}

type FuncNotificationUoWFactory func() notifications.UoW

func (f FuncNotificationUoWFactory) Create() notifications.UoW {
	return f()
}
