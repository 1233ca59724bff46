package memory

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/boba-pos/internal/domains/pos/domain"
	"github.com/Apurer/boba-pos/internal/domains/pos/ports"
)

func newOrder(employeeID int64, total string) *domain.Order {
	now := time.Now()
	return &domain.Order{
		Timestamp:  now,
		EmployeeID: employeeID,
		TotalCost:  decimal.RequireFromString(total),
		Week:       domain.WeekOf(now),
	}
}

func TestSeededStore_ListsAreSorted(t *testing.T) {
	store := NewSeededStore(time.Now())
	ctx := context.Background()

	menu, err := store.ListMenuItems(ctx)
	require.NoError(t, err)
	require.Len(t, menu, 20)
	assert.Equal(t, "Avocado Smoothie", menu[0].Name)
	for i := 1; i < len(menu); i++ {
		assert.LessOrEqual(t, menu[i-1].Name, menu[i].Name)
	}

	inventory, err := store.ListInventory(ctx)
	require.NoError(t, err)
	require.Len(t, inventory, 32)
	assert.Equal(t, "Almond Milk", inventory[0].Name)

	employees, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 8)
	assert.Equal(t, "Alex Rodriguez", employees[0].Name)

	orders, err := store.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 3)
	assert.Equal(t, int64(3), orders[0].ID, "newest order first")
	assert.Equal(t, int64(1), orders[2].ID)
}

func TestNextID_EmptyCollectionStartsAtOne(t *testing.T) {
	store := NewStore()
	for _, c := range ports.Collections {
		next, err := store.NextID(context.Background(), c)
		require.NoError(t, err)
		assert.Equal(t, int64(1), next, string(c))
	}

	_, err := store.NextID(context.Background(), "customers")
	require.ErrorIs(t, err, ports.ErrUnknownCollection)
}

func TestNextID_NeverReusesDeletedIDs(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	for _, name := range []string{"Ann", "Ben", "Cal"} {
		_, err := store.AddEmployee(ctx, &domain.Employee{Name: name, Role: "Cashier"})
		require.NoError(t, err)
	}
	require.NoError(t, store.DeleteEmployee(ctx, 2))

	next, err := store.NextID(ctx, ports.CollectionEmployees)
	require.NoError(t, err)
	assert.Equal(t, int64(4), next)

	require.NoError(t, store.DeleteEmployee(ctx, 3))
	added, err := store.AddEmployee(ctx, &domain.Employee{Name: "Dee", Role: "Barista"})
	require.NoError(t, err)
	assert.Equal(t, int64(4), added.ID)
}

func TestAdd_CallerAssignedIDConflicts(t *testing.T) {
	store := NewSeededStore(time.Now())
	_, err := store.AddMenuItem(context.Background(), &domain.MenuItem{
		ID: 1, Category: "Milk Tea", Name: "Duplicate", Price: decimal.NewFromInt(1),
	})
	require.ErrorIs(t, err, ports.ErrAlreadyExists)

	added, err := store.AddMenuItem(context.Background(), &domain.MenuItem{
		ID: 50, Category: "Milk Tea", Name: "Far Away", Price: decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(50), added.ID)

	next, err := store.NextID(context.Background(), ports.CollectionMenuItems)
	require.NoError(t, err)
	assert.Equal(t, int64(51), next)
}

func TestUpdates_NotFoundLeavesStateUnchanged(t *testing.T) {
	store := NewSeededStore(time.Now())
	ctx := context.Background()
	before, err := store.ListInventory(ctx)
	require.NoError(t, err)

	err = store.UpdateInventoryQuantity(ctx, 999, 10)
	require.ErrorIs(t, err, ports.ErrNotFound)

	after, err := store.ListInventory(ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	require.ErrorIs(t, store.UpdateMenuItemPrice(ctx, 999, decimal.NewFromInt(1)), ports.ErrNotFound)
	require.ErrorIs(t, store.UpdateEmployee(ctx, &domain.Employee{ID: 999, Name: "X", Role: "Y"}), ports.ErrNotFound)
	require.ErrorIs(t, store.DeleteEmployee(ctx, 999), ports.ErrNotFound)
}

func TestUpdates_ApplyAndValidate(t *testing.T) {
	store := NewSeededStore(time.Now())
	ctx := context.Background()

	require.NoError(t, store.UpdateMenuItemPrice(ctx, 1, decimal.RequireFromString("4.95")))
	require.ErrorIs(t, store.UpdateMenuItemPrice(ctx, 1, decimal.NewFromInt(-1)), domain.ErrNegativePrice)
	require.NoError(t, store.UpdateInventoryQuantity(ctx, 8, 0))
	require.ErrorIs(t, store.UpdateInventoryQuantity(ctx, 8, -3), domain.ErrNegativeCount)
	require.NoError(t, store.UpdateEmployee(ctx, &domain.Employee{ID: 3, Name: "Mike Chen", Role: "Shift Lead", HoursWorked: 130}))

	menu, err := store.ListMenuItems(ctx)
	require.NoError(t, err)
	for _, item := range menu {
		if item.ID == 1 {
			assert.Equal(t, "4.95", item.Price.StringFixed(2))
		}
	}
	employees, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	for _, e := range employees {
		if e.ID == 3 {
			assert.Equal(t, "Shift Lead", e.Role)
		}
	}
}

func TestCreateOrder_FirstOrderGetsIDOne(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	_, err := store.AddMenuItem(ctx, &domain.MenuItem{Category: "Milk Tea", Name: "Classic Milk Tea", Price: decimal.RequireFromString("4.50")})
	require.NoError(t, err)
	_, err = store.AddEmployee(ctx, &domain.Employee{Name: "Mike Chen", Role: "Cashier"})
	require.NoError(t, err)

	id, err := store.CreateOrder(ctx, newOrder(1, "9.00"), []domain.OrderItem{domain.NewOrderItem(1, 2)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)

	orders, err := store.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.True(t, orders[0].TotalCost.Equal(decimal.RequireFromString("9.00")))
	require.Len(t, orders[0].Items, 1)
	assert.Equal(t, 2, orders[0].Items[0].Quantity)
	assert.Equal(t, int64(1), orders[0].Items[0].OrderID)
	assert.Equal(t, int64(1), orders[0].Items[0].ID)
}

func TestCreateOrder_UnknownMenuItemWritesNothing(t *testing.T) {
	store := NewSeededStore(time.Now())
	ctx := context.Background()

	items := []domain.OrderItem{domain.NewOrderItem(1, 1), domain.NewOrderItem(404, 1)}
	_, err := store.CreateOrder(ctx, newOrder(3, "4.50"), items)
	require.ErrorIs(t, err, ports.ErrUnknownReference)

	orders, err := store.ListOrders(ctx)
	require.NoError(t, err)
	assert.Len(t, orders, 3)

	next, err := store.NextID(ctx, ports.CollectionOrders)
	require.NoError(t, err)
	assert.Equal(t, int64(4), next, "failed submissions do not consume ids")
}

func TestCreateOrder_RejectsInvalidInput(t *testing.T) {
	store := NewSeededStore(time.Now())
	ctx := context.Background()

	_, err := store.CreateOrder(ctx, newOrder(3, "0"), nil)
	require.ErrorIs(t, err, domain.ErrNoItems)

	_, err = store.CreateOrder(ctx, newOrder(99, "4.50"), []domain.OrderItem{domain.NewOrderItem(1, 1)})
	require.ErrorIs(t, err, ports.ErrUnknownReference)

	_, err = store.CreateOrder(ctx, newOrder(3, "4.50"), []domain.OrderItem{domain.NewOrderItem(1, -1)})
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)
}

func TestCreateOrder_ItemsGetSequentialIDs(t *testing.T) {
	store := NewSeededStore(time.Now())
	ctx := context.Background()
	item := domain.NewOrderItem(2, 1)
	item.Toppings = map[domain.Topping]int{domain.ToppingBoba: 2}

	id, err := store.CreateOrder(ctx, newOrder(4, "10.00"), []domain.OrderItem{item, domain.NewOrderItem(3, 1)})
	require.NoError(t, err)
	assert.Equal(t, int64(4), id)

	orders, err := store.ListOrders(ctx)
	require.NoError(t, err)
	created := orders[0]
	require.Equal(t, id, created.ID)
	require.Len(t, created.Items, 2)
	assert.Equal(t, int64(4), created.Items[0].ID)
	assert.Equal(t, int64(5), created.Items[1].ID)
	assert.Equal(t, 2, created.Items[0].ToppingCount(domain.ToppingBoba))

	// mutating the returned copy must not leak into the store
	created.Items[0].Toppings[domain.ToppingBoba] = 9
	again, err := store.ListOrders(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, again[0].Items[0].ToppingCount(domain.ToppingBoba))
}

func TestListOrders_Idempotent(t *testing.T) {
	store := NewSeededStore(time.Now())
	first, err := store.ListOrders(context.Background())
	require.NoError(t, err)
	second, err := store.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestCreateOrder_StoresOnlyNonZeroToppings(t *testing.T) {
	store := NewStore()
	ctx := context.Background()
	_, err := store.AddMenuItem(ctx, &domain.MenuItem{Category: "Milk Tea", Name: "Classic Milk Tea", Price: decimal.RequireFromString("4.50")})
	require.NoError(t, err)
	_, err = store.AddEmployee(ctx, &domain.Employee{Name: "Mike Chen", Role: "Cashier"})
	require.NoError(t, err)

	withZero := domain.NewOrderItem(1, 1)
	withZero.Toppings = map[domain.Topping]int{domain.ToppingBoba: 2, domain.ToppingHoney: 0}
	empty := domain.NewOrderItem(1, 1)
	empty.Toppings = map[domain.Topping]int{}
	_, err = store.CreateOrder(ctx, newOrder(1, "9.00"), []domain.OrderItem{withZero, empty})
	require.NoError(t, err)

	orders, err := store.ListOrders(ctx)
	require.NoError(t, err)
	require.Len(t, orders[0].Items, 2)
	assert.Equal(t, map[domain.Topping]int{domain.ToppingBoba: 2}, orders[0].Items[0].Toppings)
	assert.Nil(t, orders[0].Items[1].Toppings)
}
