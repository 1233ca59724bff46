package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/worker"
	"go.temporal.io/sdk/workflow"

	"github.com/Apurer/boba-pos/internal/app/pos"
	platformobservability "github.com/Apurer/boba-pos/internal/platform/observability"
	platformtemporal "github.com/Apurer/boba-pos/internal/platform/temporal"
	orderactivities "github.com/Apurer/boba-pos/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/boba-pos/internal/platform/temporal/workflows/orders"
)

func main() {
	ctx := context.Background()
	const serviceName = "boba-pos-worker"
	instruments, shutdown, err := platformobservability.Init(ctx, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize observability: %v", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()
	logger := instruments.Logger

	cfg := pos.LoadConfig(os.Getenv("POS_ENV_FILE"))
	// The worker executes orders itself; it must not hand them back to Temporal.
	cfg.TemporalDisabled = true
	app := pos.New(ctx, cfg, instruments)
	if app.UsingFallback() {
		// Orders committed here would be invisible to the submitting process.
		logger.Error("worker requires the live database; refusing to serve orders from mock data")
		_ = app.Close()
		os.Exit(1)
	}
	defer app.Close()
	orderActivities := orderactivities.NewActivities(app.Service)

	temporalClient, err := platformtemporal.Dial(platformtemporal.ClientConfig{
		Address:   cfg.TemporalAddress,
		Namespace: cfg.TemporalNamespace,
	}, instruments, logger)
	if err != nil {
		logger.Error("failed to create Temporal client", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer temporalClient.Close()

	w := worker.New(temporalClient, orderworkflows.OrderSubmissionTaskQueue, worker.Options{})
	w.RegisterWorkflowWithOptions(orderworkflows.OrderSubmissionWorkflow, workflow.RegisterOptions{Name: orderworkflows.OrderSubmissionWorkflowName})
	w.RegisterActivityWithOptions(orderActivities.CreateOrder, activity.RegisterOptions{Name: orderactivities.CreateOrderActivityName})

	logger.Info("worker listening",
		slog.String("taskQueue", orderworkflows.OrderSubmissionTaskQueue),
		slog.String("namespace", cfg.TemporalNamespace),
		slog.String("store", app.ConnectionStatus()))
	if err := w.Run(worker.InterruptCh()); err != nil {
		logger.Error("Temporal worker exited with error", slog.String("error", err.Error()))
		return
	}
	logger.Info("Temporal worker stopped")
}
