package orders

import (
	"context"
	"errors"

	"go.temporal.io/sdk/activity"
	"go.temporal.io/sdk/temporal"

	"github.com/Apurer/boba-pos/internal/domains/pos/domain"
	"github.com/Apurer/boba-pos/internal/domains/pos/ports"
	sharederrors "github.com/Apurer/boba-pos/internal/shared/errors"
)

// CreateOrderActivityName writes an order and its items through the application service.
const CreateOrderActivityName = "pos.activities.CreateOrder"

// CreateOrderInput is the serialized order submission.
type CreateOrderInput struct {
	Order domain.Order
	Items []domain.OrderItem
}

// CreateOrderResult carries the id the store assigned.
type CreateOrderResult struct {
	OrderID int64
}

// Activities groups the order activities run by the worker.
type Activities struct {
	service ports.Service
}

func NewActivities(service ports.Service) *Activities {
	return &Activities{service: service}
}

// CreateOrder runs the order transaction once. Failures are non-retryable and
// typed with their error kind so the caller can restore the classification.
func (a *Activities) CreateOrder(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error) {
	logger := activity.GetLogger(ctx)
	if a == nil || a.service == nil {
		logger.Error("order activity not initialized")
		return nil, errors.New("order activity not initialized")
	}
	logger.Info("CreateOrder activity started", "employeeId", input.Order.EmployeeID, "items", len(input.Items))
	order := input.Order
	id, err := a.service.CreateOrder(ctx, &order, input.Items)
	if err != nil {
		kind := sharederrors.Classify(err)
		logger.Error("CreateOrder activity failed", "kind", kind.String(), "error", err)
		return nil, temporal.NewNonRetryableApplicationError(err.Error(), kind.String(), err)
	}
	logger.Info("CreateOrder activity completed", "orderId", id)
	return &CreateOrderResult{OrderID: id}, nil
}
