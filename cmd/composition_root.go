package cmd

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/streadway/amqp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	httpin "shipping/internal/adapters/in/http"
	"shipping/internal/adapters/out/eventbus"
	"shipping/internal/adapters/out/postgres"
	"shipping/internal/adapters/out/postgres/orderrepo"
	"shipping/internal/adapters/out/rabbitmq"
	"shipping/internal/adapters/out/tokencache"
	"shipping/internal/adapters/out/ups"
	"shipping/internal/core/application/usecases/commands"
	"shipping/internal/core/application/usecases/queries"
	"shipping/internal/core/domain/model/customs"
	"shipping/internal/core/domain/model/kernel"
	"shipping/internal/core/domain/services"
	"shipping/internal/core/ports"
	"shipping/internal/jobs"
	"shipping/internal/pkg/lock"
)

// CompositionRoot wires adapters, domain services and use case handlers
// into a runnable service.
type CompositionRoot struct {
	httpServer *httpin.Server
	jobManager *jobs.JobManager
	scheduler  *jobs.TimerScheduler

	waybillPublisher *rabbitmq.WaybillPublisher
	amqpConn         *amqp.Connection

	logger *zap.Logger
}

// noopTracker satisfies the repository's tracker dependency for repositories
// used outside a unit of work, where change tracking has no transaction to
// serve.
type noopTracker struct{}

func (noopTracker) TrackAggregate(kernel.UUID, any) {}

// FuncOrderUoWFactory adapts a closure to the commands.OrderUoWFactory
// interface.
type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

// NewCompositionRoot assembles the service from config. The returned root
// owns the background scheduler, the cron jobs and the optional message
// broker connection; Close releases all of them.
func NewCompositionRoot(cfg Config, gormDB *gorm.DB, logger *zap.Logger) (*CompositionRoot, error) {
	root := &CompositionRoot{logger: logger}

	uowFactory := postgres.NewGormUnitOfWorkFactory(gormDB)
	var orderUoWFactory commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return uowFactory.Create()
	})

	var tokens ports.TokenCache
	if cfg.RedisAddr != "" {
		tokens = tokencache.NewRedis(redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}))
	} else {
		tokens = tokencache.NewMemory()
	}

	carrier, err := ups.NewClient(ups.Config{
		ClientID:                cfg.UpsClientID,
		ClientSecret:            cfg.UpsClientSecret,
		AccountNumber:           cfg.UpsAccountNumber,
		AuthEndpoint:            cfg.UpsAuthEndpoint,
		RateEndpoint:            cfg.UpsRateEndpoint,
		ShipEndpoint:            cfg.UpsShipEndpoint,
		VoidEndpoint:            cfg.UpsVoidEndpoint,
		AddressValidateEndpoint: cfg.UpsAddressValidateEndpoint,
		PaperlessUploadEndpoint: cfg.UpsPaperlessUploadEndpoint,
		PaperlessImageEndpoint:  cfg.UpsPaperlessImageEndpoint,
		PreRegisterEndpoint:     cfg.UpsPreRegisterEndpoint,
	}, tokens, logger)
	if err != nil {
		return nil, err
	}

	shipper, err := kernel.NewAddress(
		cfg.ShipperName, cfg.ShipperAttentionTo,
		cfg.ShipperAddressLine1, cfg.ShipperAddressLine2,
		cfg.ShipperCity, cfg.ShipperState, cfg.ShipperPostalCode, cfg.ShipperCountryCode,
		cfg.ShipperPhone, cfg.ShipperEmail,
	)
	if err != nil {
		return nil, err
	}
	if err = shipper.ValidateComplete(); err != nil {
		return nil, err
	}

	planner, err := services.NewPackagePlanner(services.DefaultPlannerConfig())
	if err != nil {
		return nil, err
	}
	invoices := services.NewInvoiceBuilder()
	locks := lock.NewKeyedMutex()
	dispatcher := eventbus.NewDispatcher(logger)

	// The timer scheduler and the submit handler reference each other: the
	// scheduler dispatches into the handler, and the handler schedules its
	// own retries. The closure breaks the cycle by resolving the handler at
	// fire time.
	var submitCustomsHandler commands.SubmitCustomsCommandHandler
	root.scheduler = jobs.NewTimerScheduler(func(ctx context.Context, orderID kernel.UUID) {
		cmd, cmdErr := commands.NewSubmitCustomsCommand(orderID)
		if cmdErr != nil {
			logger.Error("invalid scheduled customs dispatch", zap.Error(cmdErr))
			return
		}
		if handleErr := submitCustomsHandler.Handle(ctx, cmd); handleErr != nil &&
			!errors.Is(handleErr, commands.ErrCustomsNotPending) &&
			!errors.Is(handleErr, customs.ErrSubmissionIsVoided) {
			logger.Warn("scheduled customs submission failed",
				zap.String("order_id", orderID.String()),
				zap.Error(handleErr))
		}
	}, logger)

	submitCustomsHandler = commands.NewSubmitCustomsCommandHandler(
		orderUoWFactory, carrier, root.scheduler, invoices, locks, shipper,
		commands.DefaultCustomsBackoff(), commands.DefaultCustomsMaxAttempts,
		time.Now, logger,
	)

	scheduleCustomsHandler := commands.NewScheduleCustomsCommandHandler(
		orderUoWFactory, root.scheduler, locks, cfg.ShipperCountryCode,
		cfg.CustomsCoolDown, time.Now, logger,
	)

	generateLabelHandler := commands.NewGenerateLabelCommandHandler(
		orderUoWFactory, carrier, planner, dispatcher, locks, shipper,
		time.Now, logger,
	)

	voidShipmentHandler := commands.NewVoidShipmentCommandHandler(
		orderUoWFactory, carrier, root.scheduler, locks, time.Now, logger,
	)

	// A freshly labeled shipment enters the customs workflow as soon as the
	// waybill event lands.
	dispatcher.SubscribeWaybillCreated(func(ctx context.Context, event ports.WaybillCreated) {
		cmd, cmdErr := commands.NewScheduleCustomsCommand(event.OrderID)
		if cmdErr != nil {
			logger.Error("invalid customs trigger", zap.Error(cmdErr))
			return
		}
		if handleErr := scheduleCustomsHandler.Handle(ctx, cmd); handleErr != nil {
			logger.Error("failed to trigger customs workflow",
				zap.String("order_id", event.OrderID.String()),
				zap.Error(handleErr))
		}
	})

	if cfg.AmqpURL != "" {
		conn, dialErr := amqp.Dial(cfg.AmqpURL)
		if dialErr != nil {
			return nil, dialErr
		}
		publisher, pubErr := rabbitmq.NewWaybillPublisher(conn, cfg.AmqpExchange, logger)
		if pubErr != nil {
			_ = conn.Close()
			return nil, pubErr
		}
		dispatcher.SubscribeWaybillCreated(publisher.HandleWaybillCreated)
		root.amqpConn = conn
		root.waybillPublisher = publisher
	}

	sweepRepository := orderrepo.NewGormOrderRepository(gormDB, noopTracker{})
	root.jobManager = jobs.NewJobManager(submitCustomsHandler, sweepRepository, logger)

	root.httpServer = httpin.NewServer(
		generateLabelHandler,
		voidShipmentHandler,
		submitCustomsHandler,
		scheduleCustomsHandler,
		queries.NewPlanPackagesQueryHandler(sweepRepository, planner),
		queries.NewSimulateRateQueryHandler(sweepRepository, carrier, planner, shipper, cfg.HandlingFee, logger),
		queries.NewValidateAddressQueryHandler(carrier),
	)

	return root, nil
}

// HTTPServer returns the assembled HTTP adapter.
func (c *CompositionRoot) HTTPServer() *httpin.Server {
	return c.httpServer
}

// JobManager returns the background job manager.
func (c *CompositionRoot) JobManager() *jobs.JobManager {
	return c.jobManager
}

// Close stops background work and releases external connections.
func (c *CompositionRoot) Close() {
	c.jobManager.StopAll()
	c.scheduler.Stop()
	if c.waybillPublisher != nil {
		_ = c.waybillPublisher.Close()
	}
	if c.amqpConn != nil {
		_ = c.amqpConn.Close()
	}
}
