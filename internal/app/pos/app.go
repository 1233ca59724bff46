package pos

import (
	"context"
	"errors"
	"log/slog"

	"github.com/Apurer/boba-pos/internal/domains/pos/adapters/messaging/rabbitmq"
	posobs "github.com/Apurer/boba-pos/internal/domains/pos/adapters/observability"
	posworkflows "github.com/Apurer/boba-pos/internal/domains/pos/adapters/workflows"
	posapp "github.com/Apurer/boba-pos/internal/domains/pos/application"
	posports "github.com/Apurer/boba-pos/internal/domains/pos/ports"
	reportsapp "github.com/Apurer/boba-pos/internal/domains/reports/application"
	reportsports "github.com/Apurer/boba-pos/internal/domains/reports/ports"
	platformobservability "github.com/Apurer/boba-pos/internal/platform/observability"
	platformtemporal "github.com/Apurer/boba-pos/internal/platform/temporal"
)

const (
	StatusConnected = "Connected to Database"
	StatusMockData  = "Using Mock Data"
)

// App holds the wired components of a POS process. Callers pick the store once
// through New and never branch on the backend again.
type App struct {
	Store     posports.Store
	Service   posports.Service
	Submitter posports.OrderSubmitter
	Reports   reportsports.Service

	usingFallback bool
	logger        *slog.Logger
	closers       []func() error
}

// New bootstraps the backing store and wires the service, reports, events and order submission.
// Optional collaborators (RabbitMQ, Temporal) that cannot be reached are logged and skipped.
func New(ctx context.Context, cfg Config, instruments *platformobservability.Instruments) *App {
	logger := slog.Default()
	if instruments != nil && instruments.Logger != nil {
		logger = instruments.Logger
	}
	app := &App{logger: logger}

	backing, usingFallback := OpenStore(ctx, cfg, logger)
	app.usingFallback = usingFallback
	app.closers = append(app.closers, backing.Close)
	backend := "postgres"
	if usingFallback {
		backend = "memory"
	}

	app.Store = posobs.NewStore(backing, backend,
		posobs.WithLogger(logger),
		posobs.WithTracer(instruments.Tracer("internal.pos.store")),
		posobs.WithMeter(instruments.Meter("internal.pos.store")),
	)

	core := posapp.NewService(app.Store,
		posapp.WithLogger(logger),
		posapp.WithEvents(app.orderEvents(cfg)),
	)
	app.Service = posobs.NewService(core,
		posobs.WithLogger(logger),
		posobs.WithTracer(instruments.Tracer("internal.pos.application")),
		posobs.WithMeter(instruments.Meter("internal.pos.application")),
	)
	app.Submitter = app.orderSubmitter(cfg, instruments)
	app.Reports = reportsapp.NewService(app.Store, reportsapp.WithLogger(logger))
	return app
}

func (a *App) orderEvents(cfg Config) posports.OrderEvents {
	if cfg.AMQPURL == "" {
		return posports.NoopOrderEvents{}
	}
	conn, err := rabbitmq.Dial(cfg.AMQPURL)
	if err != nil {
		a.logger.Warn("order events disabled", slog.String("error", err.Error()))
		return posports.NoopOrderEvents{}
	}
	publisher := rabbitmq.NewPublisher(conn)
	a.closers = append(a.closers, publisher.Close)
	a.logger.Info("publishing order events", slog.String("exchange", rabbitmq.OrdersExchange))
	return publisher
}

func (a *App) orderSubmitter(cfg Config, instruments *platformobservability.Instruments) posports.OrderSubmitter {
	inline := posworkflows.NewInlineOrderSubmitter(a.Service)
	if !cfg.TemporalEnabled() {
		return inline
	}
	if a.usingFallback {
		// A worker cannot reach this process's mock data.
		a.logger.Warn("Temporal workflows skipped while using mock data, submitting orders inline")
		return inline
	}
	temporalClient, err := platformtemporal.Dial(platformtemporal.ClientConfig{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
	}, instruments, a.logger)
	if err != nil {
		a.logger.Warn("Temporal workflows unavailable, submitting orders inline", slog.String("error", err.Error()))
		return inline
	}
	a.closers = append(a.closers, func() error {
		temporalClient.Close()
		return nil
	})
	a.logger.Info("Temporal workflows enabled", slog.String("namespace", cfg.TemporalNamespace))
	return posworkflows.NewTemporalOrderSubmitter(temporalClient)
}

// UsingFallback reports whether the process runs on the in-memory store.
func (a *App) UsingFallback() bool { return a.usingFallback }

// ConnectionStatus is the user-facing label for the selected backend.
func (a *App) ConnectionStatus() string {
	if a.usingFallback {
		return StatusMockData
	}
	return StatusConnected
}

// Close releases every collaborator in reverse order of acquisition.
func (a *App) Close() error {
	var err error
	for i := len(a.closers) - 1; i >= 0; i-- {
		err = errors.Join(err, a.closers[i]())
	}
	a.closers = nil
	return err
}
