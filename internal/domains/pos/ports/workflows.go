package ports

import (
	"context"

	"github.com/Apurer/boba-pos/internal/domains/pos/domain"
)

// OrderSubmitter runs order submission, either inline or on a workflow engine.
type OrderSubmitter interface {
	Submit(ctx context.Context, order *domain.Order, items []domain.OrderItem) (int64, error)
}
