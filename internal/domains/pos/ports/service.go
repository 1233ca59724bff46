package ports

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/Apurer/boba-pos/internal/domains/pos/domain"
)

// Service exposes the point-of-sale use cases to callers.
type Service interface {
	ListMenuItems(ctx context.Context) ([]*domain.MenuItem, error)
	AddMenuItem(ctx context.Context, item *domain.MenuItem) (*domain.MenuItem, error)
	UpdateMenuItemPrice(ctx context.Context, id int64, price decimal.Decimal) error

	ListInventory(ctx context.Context) ([]*domain.InventoryItem, error)
	AddInventoryItem(ctx context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error)
	UpdateInventoryQuantity(ctx context.Context, id int64, count int) error

	ListEmployees(ctx context.Context) ([]*domain.Employee, error)
	AddEmployee(ctx context.Context, employee *domain.Employee) (*domain.Employee, error)
	UpdateEmployee(ctx context.Context, employee *domain.Employee) error
	DeleteEmployee(ctx context.Context, id int64) error

	ListOrders(ctx context.Context) ([]*domain.Order, error)
	CreateOrder(ctx context.Context, order *domain.Order, items []domain.OrderItem) (int64, error)
}
