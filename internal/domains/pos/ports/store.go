package ports

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/Apurer/boba-pos/internal/domains/pos/domain"
)

var (
	// ErrNotFound signals that an update or delete targeted an id that does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrConnectivity signals the live database could not be reached.
	ErrConnectivity = errors.New("store unreachable")
	// ErrTransactionFailed signals an order transaction was rolled back after a write was attempted.
	ErrTransactionFailed = errors.New("order transaction failed")
	// ErrUnknownReference signals an order referencing a menu item or employee that does not exist.
	ErrUnknownReference = errors.New("unknown reference")
	// ErrAlreadyExists signals a caller-assigned id that is already taken.
	ErrAlreadyExists = errors.New("record already exists")
)

// Store is the backing store contract shared by the live database and the in-memory fallback.
// List operations are deterministic: menu, inventory and employees by name ascending (ties by id),
// orders by timestamp descending (ties by id descending).
type Store interface {
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
	// CreateOrder writes the header and every item as one unit and returns the assigned order id.
	// On failure nothing from the call is visible to later reads.
	CreateOrder(ctx context.Context, order *domain.Order, items []domain.OrderItem) (int64, error)

	Close() error
}

// Collection names an id space.
type Collection string

const (
	CollectionMenuItems  Collection = "menuitems"
	CollectionInventory  Collection = "inventory"
	CollectionEmployees  Collection = "employees"
	CollectionOrders     Collection = "orders"
	CollectionOrderItems Collection = "orderitems"
)

// Collections lists every id space in schema order.
var Collections = []Collection{
	CollectionMenuItems, CollectionInventory, CollectionEmployees, CollectionOrders, CollectionOrderItems,
}

// ErrUnknownCollection is returned by IDAllocator for a collection it does not manage.
var ErrUnknownCollection = errors.New("unknown collection")

// IDAllocator reports the id the next insert into a collection will receive.
type IDAllocator interface {
	NextID(ctx context.Context, collection Collection) (int64, error)
}
