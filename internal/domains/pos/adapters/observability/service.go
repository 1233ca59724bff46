package observability

import (
	"context"
	"io"
	"log/slog"

	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Apurer/boba-pos/internal/domains/pos/domain"
	"github.com/Apurer/boba-pos/internal/domains/pos/ports"
)

const tracerName = "github.com/Apurer/boba-pos/internal/domains/pos/adapters/observability"

// Service decorates the point-of-sale service with tracing, logging and metrics.
type Service struct {
	inner   ports.Service
	tracer  trace.Tracer
	logger  *slog.Logger
	metrics serviceMetrics
}

type Option func(*instrumentation)

type instrumentation struct {
	tracer trace.Tracer
	logger *slog.Logger
	meter  metric.Meter
}

// WithLogger injects a slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *instrumentation) {
		i.logger = logger
	}
}

// WithTracer injects a tracer implementation.
func WithTracer(tr trace.Tracer) Option {
	return func(i *instrumentation) {
		i.tracer = tr
	}
}

// WithMeter injects the meter used to create metric instruments.
func WithMeter(m metric.Meter) Option {
	return func(i *instrumentation) {
		i.meter = m
	}
}

func resolve(opts []Option) instrumentation {
	i := instrumentation{}
	for _, opt := range opts {
		if opt != nil {
			opt(&i)
		}
	}
	if i.tracer == nil {
		i.tracer = nooptrace.NewTracerProvider().Tracer(tracerName)
	}
	if i.logger == nil {
		i.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return i
}

// NewService wraps the core service.
func NewService(inner ports.Service, opts ...Option) *Service {
	i := resolve(opts)
	return &Service{
		inner:   inner,
		tracer:  i.tracer,
		logger:  i.logger,
		metrics: newServiceMetrics(i.meter),
	}
}

func (s *Service) ListMenuItems(ctx context.Context) ([]*domain.MenuItem, error) {
	ctx, span := s.tracer.Start(ctx, "PosService.ListMenuItems")
	defer span.End()

	items, err := s.inner.ListMenuItems(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list menu items")
	}
	span.SetAttributes(attribute.Int("menu_item.count", len(items)))
	return items, nil
}

func (s *Service) AddMenuItem(ctx context.Context, item *domain.MenuItem) (*domain.MenuItem, error) {
	ctx, span := s.tracer.Start(ctx, "PosService.AddMenuItem")
	defer span.End()

	created, err := s.inner.AddMenuItem(ctx, item)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add menu item")
	}
	span.SetAttributes(attribute.Int64("menu_item.id", created.ID))
	s.logInfo(ctx, "menu item added", slog.Int64("menu_item.id", created.ID), slog.String("menu_item.name", created.Name))
	return created, nil
}

func (s *Service) UpdateMenuItemPrice(ctx context.Context, id int64, price decimal.Decimal) error {
	ctx, span := s.tracer.Start(ctx, "PosService.UpdateMenuItemPrice",
		trace.WithAttributes(attribute.Int64("menu_item.id", id), attribute.String("menu_item.price", price.StringFixed(2))))
	defer span.End()

	if err := s.inner.UpdateMenuItemPrice(ctx, id, price); err != nil {
		return s.handleError(ctx, span, err, "failed to update menu item price", slog.Int64("menu_item.id", id))
	}
	s.logInfo(ctx, "menu item price updated", slog.Int64("menu_item.id", id), slog.String("menu_item.price", price.StringFixed(2)))
	return nil
}

func (s *Service) ListInventory(ctx context.Context) ([]*domain.InventoryItem, error) {
	ctx, span := s.tracer.Start(ctx, "PosService.ListInventory")
	defer span.End()

	items, err := s.inner.ListInventory(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list inventory")
	}
	span.SetAttributes(attribute.Int("inventory.count", len(items)))
	return items, nil
}

func (s *Service) AddInventoryItem(ctx context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error) {
	ctx, span := s.tracer.Start(ctx, "PosService.AddInventoryItem")
	defer span.End()

	created, err := s.inner.AddInventoryItem(ctx, item)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add inventory item")
	}
	span.SetAttributes(attribute.Int64("inventory.id", created.ID))
	s.logInfo(ctx, "inventory item added", slog.Int64("inventory.id", created.ID))
	return created, nil
}

func (s *Service) UpdateInventoryQuantity(ctx context.Context, id int64, count int) error {
	ctx, span := s.tracer.Start(ctx, "PosService.UpdateInventoryQuantity",
		trace.WithAttributes(attribute.Int64("inventory.id", id), attribute.Int("inventory.quantity", count)))
	defer span.End()

	if err := s.inner.UpdateInventoryQuantity(ctx, id, count); err != nil {
		return s.handleError(ctx, span, err, "failed to update inventory quantity", slog.Int64("inventory.id", id))
	}
	s.logInfo(ctx, "inventory quantity updated", slog.Int64("inventory.id", id), slog.Int("inventory.quantity", count))
	return nil
}

func (s *Service) ListEmployees(ctx context.Context) ([]*domain.Employee, error) {
	ctx, span := s.tracer.Start(ctx, "PosService.ListEmployees")
	defer span.End()

	employees, err := s.inner.ListEmployees(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list employees")
	}
	span.SetAttributes(attribute.Int("employee.count", len(employees)))
	return employees, nil
}

func (s *Service) AddEmployee(ctx context.Context, employee *domain.Employee) (*domain.Employee, error) {
	ctx, span := s.tracer.Start(ctx, "PosService.AddEmployee")
	defer span.End()

	created, err := s.inner.AddEmployee(ctx, employee)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to add employee")
	}
	span.SetAttributes(attribute.Int64("employee.id", created.ID))
	s.logInfo(ctx, "employee added", slog.Int64("employee.id", created.ID))
	return created, nil
}

func (s *Service) UpdateEmployee(ctx context.Context, employee *domain.Employee) error {
	var id int64
	if employee != nil {
		id = employee.ID
	}
	ctx, span := s.tracer.Start(ctx, "PosService.UpdateEmployee", trace.WithAttributes(attribute.Int64("employee.id", id)))
	defer span.End()

	if err := s.inner.UpdateEmployee(ctx, employee); err != nil {
		return s.handleError(ctx, span, err, "failed to update employee", slog.Int64("employee.id", id))
	}
	s.logInfo(ctx, "employee updated", slog.Int64("employee.id", id))
	return nil
}

func (s *Service) DeleteEmployee(ctx context.Context, id int64) error {
	ctx, span := s.tracer.Start(ctx, "PosService.DeleteEmployee", trace.WithAttributes(attribute.Int64("employee.id", id)))
	defer span.End()

	if err := s.inner.DeleteEmployee(ctx, id); err != nil {
		return s.handleError(ctx, span, err, "failed to delete employee", slog.Int64("employee.id", id))
	}
	s.logInfo(ctx, "employee deleted", slog.Int64("employee.id", id))
	return nil
}

func (s *Service) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "PosService.ListOrders")
	defer span.End()

	orders, err := s.inner.ListOrders(ctx)
	if err != nil {
		return nil, s.handleError(ctx, span, err, "failed to list orders")
	}
	span.SetAttributes(attribute.Int("order.count", len(orders)))
	return orders, nil
}

func (s *Service) CreateOrder(ctx context.Context, order *domain.Order, items []domain.OrderItem) (int64, error) {
	attrs := []attribute.KeyValue{attribute.Int("order.item_count", len(items))}
	if order != nil {
		attrs = append(attrs,
			attribute.Int64("order.employee_id", order.EmployeeID),
			attribute.String("order.total_cost", order.TotalCost.StringFixed(2)))
	}
	ctx, span := s.tracer.Start(ctx, "PosService.CreateOrder", trace.WithAttributes(attrs...))
	defer span.End()

	s.logInfo(ctx, "submitting order", slog.Int("order.item_count", len(items)))
	id, err := s.inner.CreateOrder(ctx, order, items)
	if err != nil {
		s.metrics.recordFailed(ctx)
		return 0, s.handleError(ctx, span, err, "failed to create order")
	}
	s.metrics.recordCreated(ctx, len(items))
	span.SetAttributes(attribute.Int64("order.id", id))
	s.logInfo(ctx, "order created", slog.Int64("order.id", id))
	return id, nil
}

func (s *Service) logInfo(ctx context.Context, msg string, attrs ...slog.Attr) {
	s.logger.LogAttrs(ctx, slog.LevelInfo, msg, attrs...)
}

func (s *Service) handleError(ctx context.Context, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	return recordError(ctx, s.logger, span, err, msg, attrs...)
}

func recordError(ctx context.Context, logger *slog.Logger, span trace.Span, err error, msg string, attrs ...slog.Attr) error {
	if span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	attrs = append(attrs, slog.String("error", err.Error()))
	logger.LogAttrs(ctx, slog.LevelError, msg, attrs...)
	return err
}

type serviceMetrics struct {
	ordersCreated metric.Int64Counter
	ordersFailed  metric.Int64Counter
	itemsSold     metric.Int64Counter
}

func newServiceMetrics(m metric.Meter) serviceMetrics {
	if m == nil {
		return serviceMetrics{}
	}
	created, _ := m.Int64Counter("pos.service.orders_created", metric.WithDescription("Number of orders committed"))
	failed, _ := m.Int64Counter("pos.service.orders_failed", metric.WithDescription("Number of order submissions that failed"))
	items, _ := m.Int64Counter("pos.service.order_items", metric.WithDescription("Number of line items committed"))
	return serviceMetrics{ordersCreated: created, ordersFailed: failed, itemsSold: items}
}

func (m serviceMetrics) recordCreated(ctx context.Context, items int) {
	if m.ordersCreated != nil {
		m.ordersCreated.Add(ctx, 1)
	}
	if m.itemsSold != nil {
		m.itemsSold.Add(ctx, int64(items))
	}
}

func (m serviceMetrics) recordFailed(ctx context.Context) {
	if m.ordersFailed != nil {
		m.ordersFailed.Add(ctx, 1)
	}
}

var _ ports.Service = (*Service)(nil)
