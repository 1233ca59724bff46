package ports

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	posdomain "github.com/Apurer/boba-pos/internal/domains/pos/domain"
	"github.com/Apurer/boba-pos/internal/domains/reports/domain"
)

// Source is the read side of the backing store the reports consume.
type Source interface {
	ListMenuItems(ctx context.Context) ([]*posdomain.MenuItem, error)
	ListInventory(ctx context.Context) ([]*posdomain.InventoryItem, error)
	ListEmployees(ctx context.Context) ([]*posdomain.Employee, error)
	ListOrders(ctx context.Context) ([]*posdomain.Order, error)
}

// Service is the read-only report facade. Every report is a pure function of
// the store contents at call time; ranked reports break ties by ascending id.
type Service interface {
	TopSellers(ctx context.Context, limit int, window domain.Window) ([]domain.SalesRank, error)
	WorstSellers(ctx context.Context, limit int, window domain.Window) ([]domain.SalesRank, error)
	Revenue(ctx context.Context, window domain.Window) (decimal.Decimal, error)
	RevenueSummary(ctx context.Context) (domain.RevenueSummary, error)
	ProductUsage(ctx context.Context, since time.Time) ([]domain.SalesRank, error)
	CategoryPopularity(ctx context.Context, window domain.Window) ([]domain.CategorySales, error)
	StockOuts(ctx context.Context) ([]domain.StockLevel, error)
	LowStock(ctx context.Context, threshold int) ([]domain.StockLevel, error)
	SalesByHour(ctx context.Context, day time.Time) ([]domain.HourlySales, error)
	DailySummary(ctx context.Context, day time.Time) (domain.DailySummary, error)
	StaffHours(ctx context.Context) ([]domain.StaffHours, error)
	EmployeePerformance(ctx context.Context, window domain.Window) ([]domain.EmployeePerformance, error)
}
