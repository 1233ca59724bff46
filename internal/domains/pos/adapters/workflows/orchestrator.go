package workflows

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	oteltrace "go.opentelemetry.io/otel/trace"
	"go.temporal.io/api/serviceerror"
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/boba-pos/internal/domains/pos/application"
	"github.com/Apurer/boba-pos/internal/domains/pos/domain"
	"github.com/Apurer/boba-pos/internal/domains/pos/ports"
	orderactivities "github.com/Apurer/boba-pos/internal/platform/temporal/activities/orders"
	orderworkflows "github.com/Apurer/boba-pos/internal/platform/temporal/workflows/orders"
	sharederrors "github.com/Apurer/boba-pos/internal/shared/errors"
)

var (
	_ ports.OrderSubmitter = (*TemporalOrderSubmitter)(nil)
	_ ports.OrderSubmitter = (*InlineOrderSubmitter)(nil)
)

// TemporalOrderSubmitter runs order submission as a Temporal workflow and waits for the result.
type TemporalOrderSubmitter struct {
	client    client.Client
	taskQueue string
}

func NewTemporalOrderSubmitter(c client.Client) *TemporalOrderSubmitter {
	return &TemporalOrderSubmitter{client: c, taskQueue: orderworkflows.OrderSubmissionTaskQueue}
}

// Submit starts a fresh workflow per call. Resubmitting a failed order allocates new ids.
func (o *TemporalOrderSubmitter) Submit(ctx context.Context, order *domain.Order, items []domain.OrderItem) (int64, error) {
	if o == nil || o.client == nil {
		return 0, errors.New("temporal order submitter not configured")
	}
	if order == nil {
		return 0, errors.New("order is nil")
	}
	traceID := workflowTraceID(ctx)
	options := client.StartWorkflowOptions{
		ID:        "order-submission-" + uuid.NewString(),
		TaskQueue: o.taskQueue,
	}
	run, err := o.client.ExecuteWorkflow(ctx, options, orderworkflows.OrderSubmissionWorkflow,
		orderworkflows.OrderSubmissionWorkflowInput{
			Command: orderactivities.CreateOrderInput{Order: *order, Items: items},
			TraceID: traceID,
		})
	if err != nil {
		return 0, startError(err)
	}
	var result orderactivities.CreateOrderResult
	if err := run.Get(ctx, &result); err != nil {
		return 0, restoreKind(err)
	}
	return result.OrderID, nil
}

// InlineOrderSubmitter calls the service directly. It is the default when no workflow engine is configured.
type InlineOrderSubmitter struct {
	service ports.Service
}

func NewInlineOrderSubmitter(service ports.Service) *InlineOrderSubmitter {
	return &InlineOrderSubmitter{service: service}
}

func (o *InlineOrderSubmitter) Submit(ctx context.Context, order *domain.Order, items []domain.OrderItem) (int64, error) {
	if o == nil || o.service == nil {
		return 0, errors.New("inline order submitter not configured")
	}
	return o.service.CreateOrder(ctx, order, items)
}

// restoreKind re-attaches the sentinel matching the activity's error type,
// since workflow results cross a serialization boundary.
func restoreKind(err error) error {
	var appErr *temporal.ApplicationError
	if !errors.As(err, &appErr) {
		return err
	}
	var sentinel error
	switch appErr.Type() {
	case sharederrors.KindValidation.String():
		sentinel = application.ErrInvalidInput
	case sharederrors.KindNotFound.String():
		sentinel = ports.ErrNotFound
	case sharederrors.KindConnectivity.String():
		sentinel = ports.ErrConnectivity
	case sharederrors.KindTransaction.String():
		sentinel = ports.ErrTransactionFailed
	default:
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

// startError marks failures to reach the Temporal frontend as connectivity errors.
// No order has been written when starting the workflow fails.
func startError(err error) error {
	var unavailable *serviceerror.Unavailable
	var deadline *serviceerror.DeadlineExceeded
	if errors.As(err, &unavailable) || errors.As(err, &deadline) {
		return fmt.Errorf("%w: %w", ports.ErrConnectivity, err)
	}
	return err
}

func workflowTraceID(ctx context.Context) string {
	spanCtx := oteltrace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return ""
	}
	return spanCtx.TraceID().String()
}
