package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	posapplication "github.com/Apurer/boba-pos/internal/domains/pos/application"
	posdomain "github.com/Apurer/boba-pos/internal/domains/pos/domain"
	"github.com/Apurer/boba-pos/internal/domains/reports/domain"
	"github.com/Apurer/boba-pos/internal/domains/reports/ports"
)

// DefaultUsageWindow is how far back ProductUsage looks when no start is given.
const DefaultUsageWindow = 30 * 24 * time.Hour

// Service computes reports from store list reads so that every backend
// produces the same output for the same data.
type Service struct {
	source ports.Source
	clock  func() time.Time
	logger *slog.Logger
}

type Option func(*Service)

// WithClock sets the source of "now" and, through its location, the calendar used for days.
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func NewService(source ports.Source, opts ...Option) *Service {
	s := &Service{source: source, clock: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

var _ ports.Service = (*Service)(nil)

func invalid(err error) error {
	return fmt.Errorf("%w: %w", posapplication.ErrInvalidInput, err)
}

func (s *Service) now() time.Time { return s.clock() }

func (s *Service) local(t time.Time) time.Time { return t.In(s.now().Location()) }

func (s *Service) TopSellers(ctx context.Context, limit int, window domain.Window) ([]domain.SalesRank, error) {
	ranks, err := s.salesByItem(ctx, window)
	if err != nil {
		return nil, err
	}
	sold := ranks[:0]
	for _, r := range ranks {
		if r.Quantity > 0 {
			sold = append(sold, r)
		}
	}
	sort.SliceStable(sold, func(i, j int) bool {
		if sold[i].Quantity != sold[j].Quantity {
			return sold[i].Quantity > sold[j].Quantity
		}
		return sold[i].MenuItemID < sold[j].MenuItemID
	})
	return truncate(sold, limit), nil
}

// WorstSellers includes menu items that sold nothing in the window.
func (s *Service) WorstSellers(ctx context.Context, limit int, window domain.Window) ([]domain.SalesRank, error) {
	ranks, err := s.salesByItem(ctx, window)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(ranks, func(i, j int) bool {
		if ranks[i].Quantity != ranks[j].Quantity {
			return ranks[i].Quantity < ranks[j].Quantity
		}
		return ranks[i].MenuItemID < ranks[j].MenuItemID
	})
	return truncate(ranks, limit), nil
}

func (s *Service) Revenue(ctx context.Context, window domain.Window) (decimal.Decimal, error) {
	if err := window.Validate(); err != nil {
		return decimal.Zero, invalid(err)
	}
	orders, err := s.source.ListOrders(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return s.sumRevenue(orders, window), nil
}

func (s *Service) RevenueSummary(ctx context.Context) (domain.RevenueSummary, error) {
	orders, err := s.source.ListOrders(ctx)
	if err != nil {
		return domain.RevenueSummary{}, err
	}
	now := s.now()
	return domain.RevenueSummary{
		Today:     s.sumRevenue(orders, domain.DayOf(now)),
		ThisWeek:  s.sumRevenue(orders, domain.WeekOf(now)),
		ThisMonth: s.sumRevenue(orders, domain.MonthOf(now)),
		AllTime:   s.sumRevenue(orders, domain.AllTime),
	}, nil
}

// ProductUsage reports units sold per menu item from since until now.
// A zero since looks back DefaultUsageWindow.
func (s *Service) ProductUsage(ctx context.Context, since time.Time) ([]domain.SalesRank, error) {
	now := s.now()
	if since.IsZero() {
		since = now.Add(-DefaultUsageWindow)
	}
	return s.TopSellers(ctx, 0, domain.Window{From: since, To: now})
}

func (s *Service) CategoryPopularity(ctx context.Context, window domain.Window) ([]domain.CategorySales, error) {
	ranks, err := s.salesByItem(ctx, window)
	if err != nil {
		return nil, err
	}
	byCategory := map[string]*domain.CategorySales{}
	for _, r := range ranks {
		if r.Quantity == 0 {
			continue
		}
		entry, ok := byCategory[r.Category]
		if !ok {
			entry = &domain.CategorySales{Category: r.Category, Revenue: decimal.Zero}
			byCategory[r.Category] = entry
		}
		entry.Quantity += r.Quantity
		entry.Revenue = entry.Revenue.Add(r.Revenue)
	}
	out := make([]domain.CategorySales, 0, len(byCategory))
	for _, entry := range byCategory {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Quantity != out[j].Quantity {
			return out[i].Quantity > out[j].Quantity
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

func (s *Service) StockOuts(ctx context.Context) ([]domain.StockLevel, error) {
	return s.stockBelow(ctx, 1)
}

// LowStock lists ingredients whose count is below threshold, lowest first.
func (s *Service) LowStock(ctx context.Context, threshold int) ([]domain.StockLevel, error) {
	if threshold < 0 {
		return nil, invalid(errors.New("low-stock threshold must not be negative"))
	}
	levels, err := s.stockBelow(ctx, threshold)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(levels, func(i, j int) bool {
		if levels[i].Count != levels[j].Count {
			return levels[i].Count < levels[j].Count
		}
		return levels[i].IngredientID < levels[j].IngredientID
	})
	return levels, nil
}

func (s *Service) stockBelow(ctx context.Context, threshold int) ([]domain.StockLevel, error) {
	inventory, err := s.source.ListInventory(ctx)
	if err != nil {
		return nil, err
	}
	levels := []domain.StockLevel{}
	for _, item := range inventory {
		if item.Count < threshold {
			levels = append(levels, domain.StockLevel{IngredientID: item.ID, Name: item.Name, Count: item.Count})
		}
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].IngredientID < levels[j].IngredientID })
	return levels, nil
}

// SalesByHour is the X-report: order count and revenue per hour of day, for hours with sales.
func (s *Service) SalesByHour(ctx context.Context, day time.Time) ([]domain.HourlySales, error) {
	orders, err := s.source.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	window := domain.DayOf(s.local(day))
	byHour := map[int]*domain.HourlySales{}
	for _, order := range orders {
		ts := s.local(order.Timestamp)
		if !window.Contains(ts) {
			continue
		}
		entry, ok := byHour[ts.Hour()]
		if !ok {
			entry = &domain.HourlySales{Hour: ts.Hour(), Revenue: decimal.Zero}
			byHour[ts.Hour()] = entry
		}
		entry.Orders++
		entry.Revenue = entry.Revenue.Add(order.TotalCost)
	}
	out := make([]domain.HourlySales, 0, len(byHour))
	for _, entry := range byHour {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Hour < out[j].Hour })
	return out, nil
}

// DailySummary is the Z-report for the day containing day.
func (s *Service) DailySummary(ctx context.Context, day time.Time) (domain.DailySummary, error) {
	orders, err := s.source.ListOrders(ctx)
	if err != nil {
		return domain.DailySummary{}, err
	}
	window := domain.DayOf(s.local(day))
	summary := domain.DailySummary{Day: window.From, Revenue: decimal.Zero, AverageOrder: decimal.Zero}
	for _, order := range orders {
		if !window.Contains(s.local(order.Timestamp)) {
			continue
		}
		summary.Orders++
		summary.Revenue = summary.Revenue.Add(order.TotalCost)
		summary.ItemsSold += order.ItemCount()
	}
	if summary.Orders > 0 {
		summary.AverageOrder = summary.Revenue.DivRound(decimal.NewFromInt(int64(summary.Orders)), 2)
	}
	return summary, nil
}

func (s *Service) StaffHours(ctx context.Context) ([]domain.StaffHours, error) {
	employees, err := s.source.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.StaffHours, 0, len(employees))
	for _, e := range employees {
		out = append(out, domain.StaffHours{EmployeeID: e.ID, Name: e.Name, Role: e.Role, HoursWorked: e.HoursWorked})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].HoursWorked != out[j].HoursWorked {
			return out[i].HoursWorked > out[j].HoursWorked
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out, nil
}

func (s *Service) EmployeePerformance(ctx context.Context, window domain.Window) ([]domain.EmployeePerformance, error) {
	if err := window.Validate(); err != nil {
		return nil, invalid(err)
	}
	employees, err := s.source.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.source.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	byEmployee := map[int64]*domain.EmployeePerformance{}
	for _, e := range employees {
		byEmployee[e.ID] = &domain.EmployeePerformance{EmployeeID: e.ID, Name: e.Name, Revenue: decimal.Zero}
	}
	for _, order := range orders {
		if !window.Contains(order.Timestamp) {
			continue
		}
		entry, ok := byEmployee[order.EmployeeID]
		if !ok {
			entry = &domain.EmployeePerformance{EmployeeID: order.EmployeeID, Revenue: decimal.Zero}
			byEmployee[order.EmployeeID] = entry
		}
		entry.Orders++
		entry.Revenue = entry.Revenue.Add(order.TotalCost)
	}
	out := make([]domain.EmployeePerformance, 0, len(byEmployee))
	for _, entry := range byEmployee {
		out = append(out, *entry)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].EmployeeID < out[j].EmployeeID
	})
	return out, nil
}

// salesByItem returns one entry per menu item in id order, with units sold in the window.
func (s *Service) salesByItem(ctx context.Context, window domain.Window) ([]domain.SalesRank, error) {
	if err := window.Validate(); err != nil {
		return nil, invalid(err)
	}
	menu, err := s.source.ListMenuItems(ctx)
	if err != nil {
		return nil, err
	}
	orders, err := s.source.ListOrders(ctx)
	if err != nil {
		return nil, err
	}
	sold := map[int64]int{}
	for _, order := range orders {
		if !window.Contains(order.Timestamp) {
			continue
		}
		for _, item := range order.Items {
			sold[item.MenuItemID] += item.Quantity
		}
	}
	ranks := make([]domain.SalesRank, 0, len(menu))
	for _, item := range menu {
		qty := sold[item.ID]
		ranks = append(ranks, domain.SalesRank{
			MenuItemID: item.ID,
			Name:       item.Name,
			Category:   item.Category,
			Quantity:   qty,
			Revenue:    item.Price.Mul(decimal.NewFromInt(int64(qty))),
		})
	}
	sort.Slice(ranks, func(i, j int) bool { return ranks[i].MenuItemID < ranks[j].MenuItemID })
	s.logger.LogAttrs(ctx, slog.LevelDebug, "sales aggregated",
		slog.Int("report.menu_items", len(ranks)),
		slog.Int("report.orders", len(orders)))
	return ranks, nil
}

func (s *Service) sumRevenue(orders []*posdomain.Order, window domain.Window) decimal.Decimal {
	total := decimal.Zero
	for _, order := range orders {
		if window.Contains(order.Timestamp) {
			total = total.Add(order.TotalCost)
		}
	}
	return total
}

func truncate[T any](list []T, limit int) []T {
	if limit > 0 && len(list) > limit {
		return list[:limit]
	}
	return list
}
