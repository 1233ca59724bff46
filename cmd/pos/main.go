package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Apurer/boba-pos/internal/app/pos"
	posapplication "github.com/Apurer/boba-pos/internal/domains/pos/application"
	platformobservability "github.com/Apurer/boba-pos/internal/platform/observability"
	sharederrors "github.com/Apurer/boba-pos/internal/shared/errors"
)

const serviceName = "boba-pos"

const usage = `usage: pos [-env-file path] <command> [flags]

commands:
  status                              show which backing store is in use
  menu list|add|price                 menu items
  inventory list|add|set              inventory
  employees list|add|update|delete    staff
  orders list|submit                  orders
  report <name>                       run a report (pos report -h for names)
`

var errUsage = fmt.Errorf("%w: see pos -h", posapplication.ErrInvalidInput)

// initObservability is swapped out in tests.
var initObservability = func(ctx context.Context, stderr io.Writer) (*platformobservability.Instruments, func(context.Context) error, error) {
	return platformobservability.Init(ctx, serviceName, platformobservability.WithLogWriter(stderr))
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one command. Results go to stdout as JSON, failures to stderr as a
// problem document, and the return value is the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("pos", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }
	envFile := global.String("env-file", pos.DefaultEnvFile, "key=value file holding DB_URL, DB_USER and DB_PASS")
	if err := global.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		return sharederrors.Render(stderr, errUsage)
	}
	if global.NArg() == 0 {
		global.Usage()
		return sharederrors.Render(stderr, errUsage)
	}

	cfg := pos.LoadConfig(*envFile)
	instruments, shutdown, err := initObservability(ctx, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "failed to initialize observability: %v\n", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdown(shutdownCtx); err != nil {
			instruments.Logger.Error("failed to shutdown observability", slog.String("error", err.Error()))
		}
	}()

	app := pos.New(ctx, cfg, instruments)
	defer func() {
		if err := app.Close(); err != nil {
			instruments.Logger.Warn("failed to release resources", slog.String("error", err.Error()))
		}
	}()

	result, err := dispatch(ctx, app, global.Arg(0), global.Args()[1:])
	if err != nil {
		return sharederrors.Render(stderr, err)
	}
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(result); err != nil {
		fmt.Fprintf(stderr, "failed to write result: %v\n", err)
		return 1
	}
	return 0
}

func dispatch(ctx context.Context, app *pos.App, command string, args []string) (any, error) {
	switch command {
	case "status":
		return map[string]any{
			"status":        app.ConnectionStatus(),
			"usingFallback": app.UsingFallback(),
		}, nil
	case "menu":
		return menuCommand(ctx, app, args)
	case "inventory":
		return inventoryCommand(ctx, app, args)
	case "employees":
		return employeesCommand(ctx, app, args)
	case "orders":
		return ordersCommand(ctx, app, args)
	case "report":
		return reportCommand(ctx, app, args)
	default:
		return nil, fmt.Errorf("%w: unknown command %q", posapplication.ErrInvalidInput, command)
	}
}
