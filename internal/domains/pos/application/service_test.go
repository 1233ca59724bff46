package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Apurer/boba-pos/internal/domains/pos/adapters/memory"
	"github.com/Apurer/boba-pos/internal/domains/pos/domain"
	"github.com/Apurer/boba-pos/internal/domains/pos/ports"
)

// fakeStore records CreateOrder calls and can be told to fail.
type fakeStore struct {
	*memory.Store
	createCalls int
	lastOrder   *domain.Order
	createErr   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{Store: memory.NewSeededStore(time.Now())}
}

func (f *fakeStore) CreateOrder(ctx context.Context, order *domain.Order, items []domain.OrderItem) (int64, error) {
	f.createCalls++
	f.lastOrder = order.Clone()
	if f.createErr != nil {
		return 0, f.createErr
	}
	return f.Store.CreateOrder(ctx, order, items)
}

type fakeEvents struct {
	published []ports.OrderCreated
	err       error
}

func (f *fakeEvents) PublishOrderCreated(_ context.Context, event ports.OrderCreated) error {
	f.published = append(f.published, event)
	return f.err
}

func fixedClock() time.Time {
	return time.Date(2025, time.March, 12, 14, 30, 0, 0, time.UTC)
}

func TestCreateOrder_FillsTimestampAndWeek(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, WithClock(fixedClock))

	id, err := svc.CreateOrder(context.Background(),
		&domain.Order{EmployeeID: 3, TotalCost: decimal.RequireFromString("9.00")},
		[]domain.OrderItem{domain.NewOrderItem(1, 2)})
	require.NoError(t, err)
	assert.Equal(t, int64(4), id)

	require.NotNil(t, store.lastOrder)
	assert.True(t, store.lastOrder.Timestamp.Equal(fixedClock()))
	assert.Equal(t, 11, store.lastOrder.Week)
}

func TestCreateOrder_StoresCallerTotalAsGiven(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, WithClock(fixedClock))

	// 2 x 4.50 is 9.00; the caller's running total is kept regardless.
	id, err := svc.CreateOrder(context.Background(),
		&domain.Order{EmployeeID: 3, TotalCost: decimal.RequireFromString("9.50")},
		[]domain.OrderItem{domain.NewOrderItem(1, 2)})
	require.NoError(t, err)

	orders, err := svc.ListOrders(context.Background())
	require.NoError(t, err)
	for _, o := range orders {
		if o.ID == id {
			assert.Equal(t, "9.50", o.TotalCost.StringFixed(2))
		}
	}
}

func TestCreateOrder_InvalidInputNeverReachesStore(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, WithClock(fixedClock))

	_, err := svc.CreateOrder(context.Background(), &domain.Order{EmployeeID: 3}, []domain.OrderItem{domain.NewOrderItem(1, 0)})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, domain.ErrInvalidQuantity)

	_, err = svc.CreateOrder(context.Background(), &domain.Order{EmployeeID: 3}, nil)
	require.ErrorIs(t, err, domain.ErrNoItems)

	_, err = svc.CreateOrder(context.Background(), &domain.Order{EmployeeID: 0}, []domain.OrderItem{domain.NewOrderItem(1, 1)})
	require.ErrorIs(t, err, domain.ErrInvalidEmployeeID)

	assert.Zero(t, store.createCalls)
}

func TestCreateOrder_MapsStoreErrors(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, WithClock(fixedClock))

	_, err := svc.CreateOrder(context.Background(), &domain.Order{EmployeeID: 3}, []domain.OrderItem{domain.NewOrderItem(404, 1)})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, ports.ErrUnknownReference)

	store.createErr = fmt.Errorf("%w: connection reset", ports.ErrConnectivity)
	_, err = svc.CreateOrder(context.Background(), &domain.Order{EmployeeID: 3}, []domain.OrderItem{domain.NewOrderItem(1, 1)})
	require.ErrorIs(t, err, ports.ErrConnectivity)
	assert.NotErrorIs(t, err, ErrInvalidInput)
}

func TestCreateOrder_PublishesEventAfterCommit(t *testing.T) {
	events := &fakeEvents{}
	svc := NewService(newFakeStore(), WithClock(fixedClock), WithEvents(events))

	id, err := svc.CreateOrder(context.Background(),
		&domain.Order{EmployeeID: 4, TotalCost: decimal.RequireFromString("10.50")},
		[]domain.OrderItem{domain.NewOrderItem(14, 2)})
	require.NoError(t, err)

	require.Len(t, events.published, 1)
	event := events.published[0]
	assert.Equal(t, id, event.OrderID)
	assert.Equal(t, int64(4), event.EmployeeID)
	assert.Equal(t, 2, event.ItemCount)
	assert.NotEqual(t, "00000000-0000-0000-0000-000000000000", event.EventID.String())
}

func TestCreateOrder_PublishFailureDoesNotFailOrder(t *testing.T) {
	events := &fakeEvents{err: errors.New("broker down")}
	svc := NewService(newFakeStore(), WithClock(fixedClock), WithEvents(events))

	id, err := svc.CreateOrder(context.Background(),
		&domain.Order{EmployeeID: 4, TotalCost: decimal.RequireFromString("5.25")},
		[]domain.OrderItem{domain.NewOrderItem(14, 1)})
	require.NoError(t, err)
	assert.Equal(t, int64(4), id)
}

func TestFailedOrderPublishesNothing(t *testing.T) {
	events := &fakeEvents{}
	svc := NewService(newFakeStore(), WithEvents(events))

	_, err := svc.CreateOrder(context.Background(), &domain.Order{EmployeeID: 3}, []domain.OrderItem{domain.NewOrderItem(404, 1)})
	require.Error(t, err)
	assert.Empty(t, events.published)
}

func TestAddMenuItem_NormalizesAndValidates(t *testing.T) {
	svc := NewService(newFakeStore())

	created, err := svc.AddMenuItem(context.Background(), &domain.MenuItem{
		Category: " Specialty ", Name: " Ube Latte ", Price: decimal.RequireFromString("6.75"),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(21), created.ID)
	assert.Equal(t, "Ube Latte", created.Name)
	assert.Equal(t, "Specialty", created.Category)

	_, err = svc.AddMenuItem(context.Background(), &domain.MenuItem{Category: "Specialty", Name: ""})
	require.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.AddMenuItem(context.Background(), &domain.MenuItem{ID: 1, Category: "Specialty", Name: "Dup"})
	require.ErrorIs(t, err, ErrInvalidInput)
	require.ErrorIs(t, err, ports.ErrAlreadyExists)
}

func TestUpdatesPassNotFoundThrough(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	require.ErrorIs(t, svc.UpdateInventoryQuantity(ctx, 999, 1), ports.ErrNotFound)
	require.ErrorIs(t, svc.UpdateMenuItemPrice(ctx, 999, decimal.NewFromInt(2)), ports.ErrNotFound)
	require.ErrorIs(t, svc.DeleteEmployee(ctx, 999), ports.ErrNotFound)

	err := svc.UpdateInventoryQuantity(ctx, 1, -1)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestEmployeeLifecycle(t *testing.T) {
	svc := NewService(newFakeStore())
	ctx := context.Background()

	added, err := svc.AddEmployee(ctx, &domain.Employee{Name: "Nina Park", Role: "Barista", HoursWorked: 12})
	require.NoError(t, err)
	assert.Equal(t, int64(9), added.ID)

	added.HoursWorked = 20
	require.NoError(t, svc.UpdateEmployee(ctx, added))
	require.NoError(t, svc.DeleteEmployee(ctx, added.ID))

	again, err := svc.AddEmployee(ctx, &domain.Employee{Name: "Omar Ruiz", Role: "Cashier"})
	require.NoError(t, err)
	assert.Equal(t, int64(10), again.ID)
}
