package temporal

import (
	"log/slog"
	"strings"

	"go.temporal.io/sdk/client"
	temporalotel "go.temporal.io/sdk/contrib/opentelemetry"
	workerlog "go.temporal.io/sdk/log"

	platformobservability "github.com/Apurer/boba-pos/internal/platform/observability"
)

// ClientConfig selects the Temporal frontend to dial.
type ClientConfig struct {
	Address   string
	Namespace string
}

// Dial connects a Temporal client with OpenTelemetry tracing and slog logging wired in.
func Dial(cfg ClientConfig, instruments *platformobservability.Instruments, logger *slog.Logger) (client.Client, error) {
	tracerOptions := temporalotel.TracerOptions{}
	if instruments != nil {
		tracerOptions.Tracer = instruments.Tracer("temporal-client")
	}
	tracingInterceptor, err := temporalotel.NewTracingInterceptor(tracerOptions)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	options := client.Options{
		HostPort:  valueOrDefault(cfg.Address, client.DefaultHostPort),
		Namespace: valueOrDefault(cfg.Namespace, client.DefaultNamespace),
		Logger:    workerlog.NewStructuredLogger(logger),
	}
	options.Interceptors = append(options.Interceptors, tracingInterceptor)
	return client.Dial(options)
}

func valueOrDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
