//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres_test

import (
	"context"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/Apurer/boba-pos/internal/domains/pos/adapters/memory"
	pospostgres "github.com/Apurer/boba-pos/internal/domains/pos/adapters/persistence/postgres"
	"github.com/Apurer/boba-pos/internal/domains/pos/domain"
	"github.com/Apurer/boba-pos/internal/domains/pos/ports"
	reportsapp "github.com/Apurer/boba-pos/internal/domains/reports/application"
	reportsdomain "github.com/Apurer/boba-pos/internal/domains/reports/domain"
	"github.com/Apurer/boba-pos/internal/platform/migrations"
	platformpostgres "github.com/Apurer/boba-pos/internal/platform/postgres"
)

func setupPostgresContainer(t *testing.T) *gorm.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("boba_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := platformpostgres.Connect(ctx, dsn, 10*time.Second, nil)
	require.NoError(t, err)
	require.NoError(t, migrations.Run(db))

	t.Cleanup(func() {
		if sqlDB, _ := db.DB(); sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	})
	return db
}

func TestStore_CatalogCRUD(t *testing.T) {
	store := pospostgres.NewStore(setupPostgresContainer(t))
	ctx := context.Background()

	for _, name := range []string{"Taro Milk Tea", "Classic Milk Tea", "Brown Sugar Boba"} {
		_, err := store.AddMenuItem(ctx, &domain.MenuItem{Category: "Milk Tea", Name: name, Price: decimal.RequireFromString("4.50")})
		require.NoError(t, err)
	}
	menu, err := store.ListMenuItems(ctx)
	require.NoError(t, err)
	require.Len(t, menu, 3)
	assert.Equal(t, []string{"Brown Sugar Boba", "Classic Milk Tea", "Taro Milk Tea"},
		[]string{menu[0].Name, menu[1].Name, menu[2].Name})
	assert.Equal(t, int64(3), menu[0].ID)

	require.NoError(t, store.UpdateMenuItemPrice(ctx, 1, decimal.RequireFromString("5.25")))
	require.ErrorIs(t, store.UpdateMenuItemPrice(ctx, 99, decimal.RequireFromString("1")), ports.ErrNotFound)

	boba, err := store.AddInventoryItem(ctx, &domain.InventoryItem{Name: "Boba", Count: 10})
	require.NoError(t, err)
	require.NoError(t, store.UpdateInventoryQuantity(ctx, boba.ID, 4))
	require.ErrorIs(t, store.UpdateInventoryQuantity(ctx, 999, 4), ports.ErrNotFound)
	inventory, err := store.ListInventory(ctx)
	require.NoError(t, err)
	require.Len(t, inventory, 1)
	assert.Equal(t, 4, inventory[0].Count)

	_, err = store.AddInventoryItem(ctx, &domain.InventoryItem{ID: boba.ID, Name: "Duplicate", Count: 1})
	require.ErrorIs(t, err, ports.ErrAlreadyExists)

	ann, err := store.AddEmployee(ctx, &domain.Employee{Name: "Ann", Role: "Cashier", HoursWorked: 10})
	require.NoError(t, err)
	ann.HoursWorked = 12
	require.NoError(t, store.UpdateEmployee(ctx, ann))
	require.ErrorIs(t, store.UpdateEmployee(ctx, &domain.Employee{ID: 42, Name: "Ghost", Role: "Cashier"}), ports.ErrNotFound)
	require.ErrorIs(t, store.DeleteEmployee(ctx, 42), ports.ErrNotFound)
	employees, err := store.ListEmployees(ctx)
	require.NoError(t, err)
	require.Len(t, employees, 1)
	assert.Equal(t, 12, employees[0].HoursWorked)
}

func TestStore_NextID(t *testing.T) {
	store := pospostgres.NewStore(setupPostgresContainer(t))
	ctx := context.Background()

	for _, c := range ports.Collections {
		next, err := store.NextID(ctx, c)
		require.NoError(t, err)
		assert.Equal(t, int64(1), next, c)
	}

	for _, name := range []string{"A", "B", "C"} {
		_, err := store.AddEmployee(ctx, &domain.Employee{Name: name, Role: "Cashier"})
		require.NoError(t, err)
	}
	require.NoError(t, store.DeleteEmployee(ctx, 2))
	next, err := store.NextID(ctx, ports.CollectionEmployees)
	require.NoError(t, err)
	assert.Equal(t, int64(4), next)

	// MAX+1 numbering hands the top id out again once its row is gone.
	require.NoError(t, store.DeleteEmployee(ctx, 3))
	next, err = store.NextID(ctx, ports.CollectionEmployees)
	require.NoError(t, err)
	assert.Equal(t, int64(2), next)
}

func TestStore_CreateOrder(t *testing.T) {
	store := pospostgres.NewStore(setupPostgresContainer(t))
	ctx := context.Background()

	_, err := store.AddMenuItem(ctx, &domain.MenuItem{ID: 1, Category: "Milk Tea", Name: "Classic Milk Tea", Price: decimal.RequireFromString("4.50")})
	require.NoError(t, err)
	_, err = store.AddEmployee(ctx, &domain.Employee{Name: "Ann", Role: "Cashier"})
	require.NoError(t, err)
	now := time.Now()

	t.Run("unknown menu item writes nothing", func(t *testing.T) {
		_, err := store.CreateOrder(ctx,
			&domain.Order{Timestamp: now, EmployeeID: 1, TotalCost: decimal.RequireFromString("4.50"), Week: domain.WeekOf(now)},
			[]domain.OrderItem{domain.NewOrderItem(404, 1)})
		require.ErrorIs(t, err, ports.ErrUnknownReference)
		orders, err := store.ListOrders(ctx)
		require.NoError(t, err)
		assert.Empty(t, orders)
	})

	t.Run("failed item insert rolls back the header", func(t *testing.T) {
		bad := domain.NewOrderItem(1, 1)
		bad.MilkType = strings.Repeat("oat", 20)
		_, err := store.CreateOrder(ctx,
			&domain.Order{Timestamp: now, EmployeeID: 1, TotalCost: decimal.RequireFromString("9.00"), Week: domain.WeekOf(now)},
			[]domain.OrderItem{domain.NewOrderItem(1, 1), bad})
		require.ErrorIs(t, err, ports.ErrTransactionFailed)

		orders, err := store.ListOrders(ctx)
		require.NoError(t, err)
		assert.Empty(t, orders)
		for _, c := range []ports.Collection{ports.CollectionOrders, ports.CollectionOrderItems} {
			next, err := store.NextID(ctx, c)
			require.NoError(t, err)
			assert.Equal(t, int64(1), next, c)
		}
	})

	t.Run("committed order is visible with all items", func(t *testing.T) {
		customer := int64(7)
		item := domain.NewOrderItem(1, 2)
		item.Toppings = map[domain.Topping]int{domain.ToppingBoba: 1}
		id, err := store.CreateOrder(ctx,
			&domain.Order{Timestamp: now, CustomerID: &customer, EmployeeID: 1, TotalCost: decimal.RequireFromString("9.00"), Week: domain.WeekOf(now)},
			[]domain.OrderItem{item})
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)

		orders, err := store.ListOrders(ctx)
		require.NoError(t, err)
		require.Len(t, orders, 1)
		got := orders[0]
		assert.Equal(t, "9.00", got.TotalCost.StringFixed(2))
		require.NotNil(t, got.CustomerID)
		assert.Equal(t, customer, *got.CustomerID)
		require.Len(t, got.Items, 1)
		assert.Equal(t, 2, got.Items[0].Quantity)
		assert.Equal(t, int64(1), got.Items[0].OrderID)
		assert.Equal(t, 1, got.Items[0].ToppingCount(domain.ToppingBoba))
		assert.Equal(t, domain.DefaultMilkType, got.Items[0].MilkType)
	})
}

func TestReports_MatchAcrossBackends(t *testing.T) {
	db := setupPostgresContainer(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Microsecond)
	require.NoError(t, migrations.Seed(ctx, db, now))

	clock := func() time.Time { return now }
	live := reportsapp.NewService(pospostgres.NewStore(db), reportsapp.WithClock(clock))
	mock := reportsapp.NewService(memory.NewSeededStore(now), reportsapp.WithClock(clock))

	today := reportsdomain.DayOf(now)
	queries := map[string]func(*reportsapp.Service) (any, error){
		"top sellers":          func(s *reportsapp.Service) (any, error) { return s.TopSellers(ctx, 5, reportsdomain.AllTime) },
		"worst sellers":        func(s *reportsapp.Service) (any, error) { return s.WorstSellers(ctx, 0, reportsdomain.AllTime) },
		"revenue today":        func(s *reportsapp.Service) (any, error) { return s.Revenue(ctx, today) },
		"revenue summary":      func(s *reportsapp.Service) (any, error) { return s.RevenueSummary(ctx) },
		"product usage":        func(s *reportsapp.Service) (any, error) { return s.ProductUsage(ctx, time.Time{}) },
		"category popularity":  func(s *reportsapp.Service) (any, error) { return s.CategoryPopularity(ctx, reportsdomain.AllTime) },
		"stock outs":           func(s *reportsapp.Service) (any, error) { return s.StockOuts(ctx) },
		"low stock":            func(s *reportsapp.Service) (any, error) { return s.LowStock(ctx, 20) },
		"sales by hour":        func(s *reportsapp.Service) (any, error) { return s.SalesByHour(ctx, now) },
		"daily summary":        func(s *reportsapp.Service) (any, error) { return s.DailySummary(ctx, now) },
		"staff hours":          func(s *reportsapp.Service) (any, error) { return s.StaffHours(ctx) },
		"employee performance": func(s *reportsapp.Service) (any, error) { return s.EmployeePerformance(ctx, reportsdomain.AllTime) },
	}
	for name, query := range queries {
		t.Run(name, func(t *testing.T) {
			fromLive, err := query(live)
			require.NoError(t, err)
			fromMock, err := query(mock)
			require.NoError(t, err)

			liveJSON, err := json.Marshal(fromLive)
			require.NoError(t, err)
			mockJSON, err := json.Marshal(fromMock)
			require.NoError(t, err)
			assert.JSONEq(t, string(mockJSON), string(liveJSON))
		})
	}
}
