package application

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Apurer/boba-pos/internal/domains/pos/domain"
	"github.com/Apurer/boba-pos/internal/domains/pos/ports"
)

// Service orchestrates the point-of-sale use cases on top of a backing store.
type Service struct {
	store  ports.Store
	events ports.OrderEvents
	clock  func() time.Time
	logger *slog.Logger
}

type Option func(*Service)

// WithEvents publishes an OrderCreated event after every committed order.
func WithEvents(events ports.OrderEvents) Option {
	return func(s *Service) {
		if events != nil {
			s.events = events
		}
	}
}

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

func NewService(store ports.Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		events: ports.NoopOrderEvents{},
		clock:  time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

func (s *Service) ListMenuItems(ctx context.Context) ([]*domain.MenuItem, error) {
	return s.store.ListMenuItems(ctx)
}

func (s *Service) AddMenuItem(ctx context.Context, item *domain.MenuItem) (*domain.MenuItem, error) {
	if item == nil {
		return nil, errors.New("menu item is nil")
	}
	normalized, err := domain.NewMenuItem(item.ID, item.Category, item.Name, item.Price)
	if err != nil {
		return nil, mapError(err)
	}
	created, err := s.store.AddMenuItem(ctx, normalized)
	return created, mapError(err)
}

func (s *Service) UpdateMenuItemPrice(ctx context.Context, id int64, price decimal.Decimal) error {
	if err := domain.ValidatePrice(price); err != nil {
		return mapError(err)
	}
	return mapError(s.store.UpdateMenuItemPrice(ctx, id, price))
}

func (s *Service) ListInventory(ctx context.Context) ([]*domain.InventoryItem, error) {
	return s.store.ListInventory(ctx)
}

func (s *Service) AddInventoryItem(ctx context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error) {
	if item == nil {
		return nil, errors.New("inventory item is nil")
	}
	normalized, err := domain.NewInventoryItem(item.ID, item.Name, item.Count)
	if err != nil {
		return nil, mapError(err)
	}
	created, err := s.store.AddInventoryItem(ctx, normalized)
	return created, mapError(err)
}

func (s *Service) UpdateInventoryQuantity(ctx context.Context, id int64, count int) error {
	if err := domain.ValidateCount(count); err != nil {
		return mapError(err)
	}
	return mapError(s.store.UpdateInventoryQuantity(ctx, id, count))
}

func (s *Service) ListEmployees(ctx context.Context) ([]*domain.Employee, error) {
	return s.store.ListEmployees(ctx)
}

func (s *Service) AddEmployee(ctx context.Context, employee *domain.Employee) (*domain.Employee, error) {
	if employee == nil {
		return nil, errors.New("employee is nil")
	}
	normalized, err := domain.NewEmployee(employee.ID, employee.Name, employee.Role, employee.HoursWorked)
	if err != nil {
		return nil, mapError(err)
	}
	created, err := s.store.AddEmployee(ctx, normalized)
	return created, mapError(err)
}

func (s *Service) UpdateEmployee(ctx context.Context, employee *domain.Employee) error {
	if employee == nil {
		return errors.New("employee is nil")
	}
	normalized, err := domain.NewEmployee(employee.ID, employee.Name, employee.Role, employee.HoursWorked)
	if err != nil {
		return mapError(err)
	}
	return mapError(s.store.UpdateEmployee(ctx, normalized))
}

func (s *Service) DeleteEmployee(ctx context.Context, id int64) error {
	return mapError(s.store.DeleteEmployee(ctx, id))
}

func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	return s.store.ListOrders(ctx)
}

// CreateOrder fills in the timestamp and week when absent, validates, and hands the
// order to the store's transaction. The caller's total is stored as given.
func (s *Service) CreateOrder(ctx context.Context, order *domain.Order, items []domain.OrderItem) (int64, error) {
	if order == nil {
		return 0, errors.New("order is nil")
	}
	header := order.Clone()
	header.Items = nil
	if header.Timestamp.IsZero() {
		header.Timestamp = s.clock()
	}
	if header.Week == 0 {
		header.Week = domain.WeekOf(header.Timestamp)
	}
	if err := header.Validate(); err != nil {
		return 0, mapError(err)
	}
	if err := domain.ValidateItems(items); err != nil {
		return 0, mapError(err)
	}

	id, err := s.store.CreateOrder(ctx, header, items)
	if err != nil {
		return 0, mapError(err)
	}

	header.ID = id
	header.Items = items
	s.publishCreated(ctx, header)
	return id, nil
}

func (s *Service) publishCreated(ctx context.Context, order *domain.Order) {
	event := ports.OrderCreated{
		EventID:    uuid.New(),
		OrderID:    order.ID,
		EmployeeID: order.EmployeeID,
		TotalCost:  order.TotalCost,
		ItemCount:  order.ItemCount(),
		Week:       order.Week,
		OccurredAt: s.clock(),
	}
	if err := s.events.PublishOrderCreated(ctx, event); err != nil {
		s.logger.LogAttrs(ctx, slog.LevelWarn, "order committed but event publish failed",
			slog.Int64("order.id", order.ID),
			slog.String("event.id", event.EventID.String()),
			slog.String("error", err.Error()))
	}
}

var _ ports.Service = (*Service)(nil)
