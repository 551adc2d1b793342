package cmd

import (
	"context"
	"log/slog"

	httpadapter "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/in/ws"
	"marketplace/internal/adapters/out/jwtauth"
	"marketplace/internal/adapters/out/kafka"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/adapters/out/realtime"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/jobs"
	"marketplace/internal/pkg/metrics"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory postgres.GormUnitOfWorkFactory
	logger     *slog.Logger

	promRegistry *prometheus.Registry
	metrics      *metrics.Metrics

	verifier *jwtauth.Verifier
	registry *realtime.Registry
	bus      *realtime.Bus
	locks    *commands.StoreLocks

	// producer is nil when no broker is configured.
	producer *kafka.Producer
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) (*CompositionRoot, error) {
	verifier, err := jwtauth.NewVerifier(config.JWTSecret, config.JWTIssuer)
	if err != nil {
		return nil, err
	}

	promRegistry := prometheus.NewRegistry()
	promRegistry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(promRegistry)

	registry := realtime.NewRegistry(logger, m)

	root := &CompositionRoot{
		config:       config,
		gormDB:       gormDB,
		uowFactory:   *postgres.NewGormUnitOfWorkFactory(gormDB),
		logger:       logger,
		promRegistry: promRegistry,
		metrics:      m,
		verifier:     verifier,
		registry:     registry,
		bus:          realtime.NewBus(registry, logger, m),
		locks:        commands.NewStoreLocks(commands.DefaultStoreLockStripes),
	}

	if brokers := kafka.Brokers(config.KafkaHost); len(brokers) > 0 {
		producer, err := kafka.NewProducer(brokers, config.KafkaOrderChangedTopic)
		if err != nil {
			return nil, err
		}
		root.producer = producer
	}

	return root, nil
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() *commands.CreateOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	h := commands.NewCreateOrderCommandHandler(f, c.bus, c.locks, c.config.PersistenceTimeout)
	return &h
}

func (c *CompositionRoot) CreateChangeOrderStatusCommandHandler() *commands.ChangeOrderStatusCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	h := commands.NewChangeOrderStatusCommandHandler(f, c.bus, c.locks, c.config.PersistenceTimeout)
	return &h
}

func (c *CompositionRoot) CreateRelayOutboxCommandHandler() *commands.RelayOutboxCommandHandler {
	var f commands.OutboxUoWFactory = FuncOutboxUoWFactory(func() commands.OutboxUoW {
		return c.uowFactory.Create()
	})
	h := commands.NewRelayOutboxCommandHandler(f, c.producer)
	return &h
}

func (c *CompositionRoot) CreateGetOrderQueryHandler() queries.GetOrderQueryHandler {
	return queries.NewGetOrderQueryHandler(c.gormDB, c.config.PersistenceTimeout)
}

func (c *CompositionRoot) CreateListUserOrdersQueryHandler() queries.ListUserOrdersQueryHandler {
	return queries.NewListUserOrdersQueryHandler(c.gormDB, c.config.PersistenceTimeout)
}

func (c *CompositionRoot) CreateListStoreOrdersQueryHandler() queries.ListStoreOrdersQueryHandler {
	return queries.NewListStoreOrdersQueryHandler(c.gormDB, c.config.PersistenceTimeout)
}

func (c *CompositionRoot) CreateChannelHandler() *ws.Handler {
	return ws.NewHandler(
		c.verifier,
		c.uowFactory.Create().StoreRepository(),
		c.registry,
		c.config.ChannelBufferSize,
		c.logger,
	)
}

// CreateHTTPRouter builds the echo instance serving the API, the websocket
// channel and the operational endpoints.
func (c *CompositionRoot) CreateHTTPRouter(ctx context.Context) (*echo.Echo, error) {
	spec, err := httpadapter.LoadSpec(ctx)
	if err != nil {
		return nil, err
	}

	server := httpadapter.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateChangeOrderStatusCommandHandler(),
		c.CreateGetOrderQueryHandler(),
		c.CreateListUserOrdersQueryHandler(),
		c.CreateListStoreOrdersQueryHandler(),
		c.logger,
	)

	return httpadapter.NewRouter(httpadapter.RouterConfig{
		Server:   server,
		Verifier: c.verifier,
		Spec:     spec,
		Metrics:  c.metrics,
		Gatherer: c.promRegistry,
		Channel:  c.CreateChannelHandler(),
	})
}

func (c *CompositionRoot) CreateJobManager() (*jobs.JobManager, error) {
	sweepJob := jobs.NewChannelSweepJob(c.registry, c.config.ChannelSweepSchedule, c.logger)

	var relayJob *jobs.OutboxRelayJob
	if c.producer != nil {
		job, err := jobs.NewOutboxRelayJob(
			c.CreateRelayOutboxCommandHandler(),
			c.config.OutboxRelaySchedule,
			jobs.DefaultRelayBatchSize,
			c.metrics,
			c.logger,
		)
		if err != nil {
			return nil, err
		}
		relayJob = job
	} else {
		c.logger.Info("KAFKA_HOST is empty, outbox relay disabled")
	}

	return jobs.NewJobManager(sweepJob, relayJob), nil
}

// Close releases the broker connection.
func (c *CompositionRoot) Close() error {
	if c.producer == nil {
		return nil
	}
	return c.producer.Close()
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncOutboxUoWFactory func() commands.OutboxUoW

func (f FuncOutboxUoWFactory) Create() commands.OutboxUoW {
	return f()
}
