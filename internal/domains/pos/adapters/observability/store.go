package observability

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/Apurer/boba-pos/internal/domains/pos/domain"
	"github.com/Apurer/boba-pos/internal/domains/pos/ports"
)

// Store decorates a backing store with a span, a debug log line and an
// operation counter per call, all labelled with the backend name.
type Store struct {
	inner   ports.Store
	backend string
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics storeMetrics
}

// NewStore wraps inner. backend is "postgres" or "memory".
func NewStore(inner ports.Store, backend string, opts ...Option) *Store {
	i := resolve(opts)
	return &Store{
		inner:   inner,
		backend: backend,
		tracer:  i.tracer,
		logger:  i.logger,
		metrics: newStoreMetrics(i.meter),
	}
}

// NextID delegates to the wrapped store when it allocates ids.
func (s *Store) NextID(ctx context.Context, c ports.Collection) (int64, error) {
	allocator, ok := s.inner.(ports.IDAllocator)
	if !ok {
		return 0, errors.New("wrapped store does not expose id allocation")
	}
	ctx, done := s.observe(ctx, "NextID", attribute.String("collection", string(c)))
	id, err := allocator.NextID(ctx, c)
	return id, done(err)
}

func (s *Store) ListMenuItems(ctx context.Context) ([]*domain.MenuItem, error) {
	ctx, done := s.observe(ctx, "ListMenuItems")
	items, err := s.inner.ListMenuItems(ctx)
	return items, done(err)
}

func (s *Store) AddMenuItem(ctx context.Context, item *domain.MenuItem) (*domain.MenuItem, error) {
	ctx, done := s.observe(ctx, "AddMenuItem")
	created, err := s.inner.AddMenuItem(ctx, item)
	return created, done(err)
}

func (s *Store) UpdateMenuItemPrice(ctx context.Context, id int64, price decimal.Decimal) error {
	ctx, done := s.observe(ctx, "UpdateMenuItemPrice", attribute.Int64("menu_item.id", id))
	return done(s.inner.UpdateMenuItemPrice(ctx, id, price))
}

func (s *Store) ListInventory(ctx context.Context) ([]*domain.InventoryItem, error) {
	ctx, done := s.observe(ctx, "ListInventory")
	items, err := s.inner.ListInventory(ctx)
	return items, done(err)
}

func (s *Store) AddInventoryItem(ctx context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error) {
	ctx, done := s.observe(ctx, "AddInventoryItem")
	created, err := s.inner.AddInventoryItem(ctx, item)
	return created, done(err)
}

func (s *Store) UpdateInventoryQuantity(ctx context.Context, id int64, count int) error {
	ctx, done := s.observe(ctx, "UpdateInventoryQuantity", attribute.Int64("inventory.id", id))
	return done(s.inner.UpdateInventoryQuantity(ctx, id, count))
}

func (s *Store) ListEmployees(ctx context.Context) ([]*domain.Employee, error) {
	ctx, done := s.observe(ctx, "ListEmployees")
	employees, err := s.inner.ListEmployees(ctx)
	return employees, done(err)
}

func (s *Store) AddEmployee(ctx context.Context, employee *domain.Employee) (*domain.Employee, error) {
	ctx, done := s.observe(ctx, "AddEmployee")
	created, err := s.inner.AddEmployee(ctx, employee)
	return created, done(err)
}

func (s *Store) UpdateEmployee(ctx context.Context, employee *domain.Employee) error {
	ctx, done := s.observe(ctx, "UpdateEmployee")
	return done(s.inner.UpdateEmployee(ctx, employee))
}

func (s *Store) DeleteEmployee(ctx context.Context, id int64) error {
	ctx, done := s.observe(ctx, "DeleteEmployee", attribute.Int64("employee.id", id))
	return done(s.inner.DeleteEmployee(ctx, id))
}

func (s *Store) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	ctx, done := s.observe(ctx, "ListOrders")
	orders, err := s.inner.ListOrders(ctx)
	return orders, done(err)
}

func (s *Store) CreateOrder(ctx context.Context, order *domain.Order, items []domain.OrderItem) (int64, error) {
	ctx, done := s.observe(ctx, "CreateOrder", attribute.Int("order.item_count", len(items)))
	id, err := s.inner.CreateOrder(ctx, order, items)
	if err == nil {
		trace.SpanFromContext(ctx).SetAttributes(attribute.Int64("order.id", id))
	}
	return id, done(err)
}

func (s *Store) Close() error {
	return s.inner.Close()
}

func (s *Store) observe(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error) error) {
	attrs = append(attrs, attribute.String("store.backend", s.backend))
	ctx, span := s.tracer.Start(ctx, "PosStore."+op, trace.WithAttributes(attrs...))
	start := time.Now()
	return ctx, func(err error) error {
		defer span.End()
		elapsed := time.Since(start)
		s.metrics.record(ctx, s.backend, op, err)
		if err != nil {
			return recordError(ctx, s.logger, span, err, "store operation failed",
				slog.String("store.backend", s.backend),
				slog.String("store.op", op),
				slog.Duration("store.elapsed", elapsed))
		}
		s.logger.LogAttrs(ctx, slog.LevelDebug, "store operation",
			slog.String("store.backend", s.backend),
			slog.String("store.op", op),
			slog.Duration("store.elapsed", elapsed))
		return nil
	}
}

type storeMetrics struct {
	operations metric.Int64Counter
}

func newStoreMetrics(m metric.Meter) storeMetrics {
	if m == nil {
		return storeMetrics{}
	}
	operations, _ := m.Int64Counter("pos.store.operations", metric.WithDescription("Backing store calls by backend, operation and outcome"))
	return storeMetrics{operations: operations}
}

func (m storeMetrics) record(ctx context.Context, backend, op string, err error) {
	if m.operations == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.operations.Add(ctx, 1, metric.WithAttributes(
		attribute.String("store.backend", backend),
		attribute.String("store.op", op),
		attribute.String("outcome", outcome),
	))
}

var (
	_ ports.Store       = (*Store)(nil)
	_ ports.IDAllocator = (*Store)(nil)
)
