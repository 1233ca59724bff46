package orders

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	orderactivities "github.com/Apurer/boba-pos/internal/platform/temporal/activities/orders"
)

const (
	// OrderSubmissionWorkflowName is the public identifier for registering the workflow.
	OrderSubmissionWorkflowName = "pos.workflows.OrderSubmission"
	// OrderSubmissionTaskQueue is the queue consumed by the worker processing order submissions.
	OrderSubmissionTaskQueue = "ORDER_SUBMISSION"
)

// OrderSubmissionWorkflowInput captures the order to write plus the caller's trace id.
type OrderSubmissionWorkflowInput struct {
	Command orderactivities.CreateOrderInput
	TraceID string
}

// OrderSubmissionWorkflow runs the order transaction exactly once. A failed
// submission is reported as-is; resubmitting starts a new workflow.
func OrderSubmissionWorkflow(ctx workflow.Context, input OrderSubmissionWorkflowInput) (*orderactivities.CreateOrderResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("OrderSubmissionWorkflow started", withTraceID(input.TraceID, "employeeId", input.Command.Order.EmployeeID)...)

	options := workflow.ActivityOptions{
		StartToCloseTimeout: time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	}
	var result orderactivities.CreateOrderResult
	err := workflow.ExecuteActivity(workflow.WithActivityOptions(ctx, options), orderactivities.CreateOrderActivityName, input.Command).Get(ctx, &result)
	if err != nil {
		logger.Error("OrderSubmissionWorkflow failed", withTraceID(input.TraceID, "error", err)...)
		return nil, err
	}
	logger.Info("OrderSubmissionWorkflow completed", withTraceID(input.TraceID, "orderId", result.OrderID)...)
	return &result, nil
}

func withTraceID(traceID string, keyvals ...interface{}) []interface{} {
	if traceID == "" {
		return keyvals
	}
	return append(keyvals, "traceId", traceID)
}
