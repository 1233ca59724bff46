package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/boba-pos/internal/domains/pos/domain"
	"github.com/Apurer/boba-pos/internal/domains/pos/ports"
	"github.com/Apurer/boba-pos/internal/domains/pos/sampledata"
)

var (
	_ ports.Store       = (*Store)(nil)
	_ ports.IDAllocator = (*Store)(nil)
)

// Store is the in-memory backing store used when no database is reachable.
// Ids come from per-collection counters that only ever move forward.
type Store struct {
	mu        sync.RWMutex
	menu      map[int64]*domain.MenuItem
	inventory map[int64]*domain.InventoryItem
	employees map[int64]*domain.Employee
	orders    map[int64]*domain.Order
	counters  map[ports.Collection]int64
}

type Option func(*Store)

// WithSampleData pre-loads the store and advances every counter past the loaded ids.
func WithSampleData(set sampledata.Set) Option {
	return func(s *Store) {
		for i := range set.MenuItems {
			item := set.MenuItems[i]
			s.menu[item.ID] = &item
			s.bump(ports.CollectionMenuItems, item.ID)
		}
		for i := range set.Inventory {
			item := set.Inventory[i]
			s.inventory[item.ID] = &item
			s.bump(ports.CollectionInventory, item.ID)
		}
		for i := range set.Employees {
			employee := set.Employees[i]
			s.employees[employee.ID] = &employee
			s.bump(ports.CollectionEmployees, employee.ID)
		}
		for i := range set.Orders {
			order := set.Orders[i].Clone()
			order.Timestamp = order.Timestamp.Truncate(time.Microsecond)
			s.orders[order.ID] = order
			s.bump(ports.CollectionOrders, order.ID)
			for _, item := range order.Items {
				s.bump(ports.CollectionOrderItems, item.ID)
			}
		}
	}
}

func NewStore(opts ...Option) *Store {
	s := &Store{
		menu:      map[int64]*domain.MenuItem{},
		inventory: map[int64]*domain.InventoryItem{},
		employees: map[int64]*domain.Employee{},
		orders:    map[int64]*domain.Order{},
		counters:  map[ports.Collection]int64{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// NewSeededStore returns a store holding the standard sample rows.
func NewSeededStore(now time.Time) *Store {
	return NewStore(WithSampleData(sampledata.New(now)))
}

func (s *Store) bump(c ports.Collection, id int64) {
	if id > s.counters[c] {
		s.counters[c] = id
	}
}

// allocate reserves an id. A caller-assigned id is honoured when free. Callers hold s.mu.
func (s *Store) allocate(c ports.Collection, requested int64, taken bool) (int64, error) {
	if requested == 0 {
		s.counters[c]++
		return s.counters[c], nil
	}
	if taken {
		return 0, fmt.Errorf("%w: %s id %d", ports.ErrAlreadyExists, c, requested)
	}
	s.bump(c, requested)
	return requested, nil
}

// NextID reports the id the next insert into the collection receives.
func (s *Store) NextID(_ context.Context, c ports.Collection) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !knownCollection(c) {
		return 0, fmt.Errorf("%w: %q", ports.ErrUnknownCollection, c)
	}
	return s.counters[c] + 1, nil
}

func knownCollection(c ports.Collection) bool {
	for _, known := range ports.Collections {
		if c == known {
			return true
		}
	}
	return false
}

func (s *Store) ListMenuItems(_ context.Context) ([]*domain.MenuItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*domain.MenuItem, 0, len(s.menu))
	for _, item := range s.menu {
		clone := *item
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool {
		return byName(list[i].Name, list[i].ID, list[j].Name, list[j].ID)
	})
	return list, nil
}

func (s *Store) AddMenuItem(_ context.Context, item *domain.MenuItem) (*domain.MenuItem, error) {
	if item == nil {
		return nil, errors.New("menu item is nil")
	}
	clone := *item
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, taken := s.menu[clone.ID]
	id, err := s.allocate(ports.CollectionMenuItems, clone.ID, taken)
	if err != nil {
		return nil, err
	}
	clone.ID = id
	s.menu[id] = &clone
	out := clone
	return &out, nil
}

func (s *Store) UpdateMenuItemPrice(_ context.Context, id int64, price decimal.Decimal) error {
	if err := domain.ValidatePrice(price); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.menu[id]
	if !ok {
		return fmt.Errorf("%w: menu item %d", ports.ErrNotFound, id)
	}
	item.Price = price
	return nil
}

func (s *Store) ListInventory(_ context.Context) ([]*domain.InventoryItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*domain.InventoryItem, 0, len(s.inventory))
	for _, item := range s.inventory {
		clone := *item
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool {
		return byName(list[i].Name, list[i].ID, list[j].Name, list[j].ID)
	})
	return list, nil
}

func (s *Store) AddInventoryItem(_ context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error) {
	if item == nil {
		return nil, errors.New("inventory item is nil")
	}
	clone := *item
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, taken := s.inventory[clone.ID]
	id, err := s.allocate(ports.CollectionInventory, clone.ID, taken)
	if err != nil {
		return nil, err
	}
	clone.ID = id
	s.inventory[id] = &clone
	out := clone
	return &out, nil
}

func (s *Store) UpdateInventoryQuantity(_ context.Context, id int64, count int) error {
	if err := domain.ValidateCount(count); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.inventory[id]
	if !ok {
		return fmt.Errorf("%w: inventory item %d", ports.ErrNotFound, id)
	}
	item.Count = count
	return nil
}

func (s *Store) ListEmployees(_ context.Context) ([]*domain.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*domain.Employee, 0, len(s.employees))
	for _, employee := range s.employees {
		clone := *employee
		list = append(list, &clone)
	}
	sort.Slice(list, func(i, j int) bool {
		return byName(list[i].Name, list[i].ID, list[j].Name, list[j].ID)
	})
	return list, nil
}

func (s *Store) AddEmployee(_ context.Context, employee *domain.Employee) (*domain.Employee, error) {
	if employee == nil {
		return nil, errors.New("employee is nil")
	}
	clone := *employee
	if err := clone.Validate(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	_, taken := s.employees[clone.ID]
	id, err := s.allocate(ports.CollectionEmployees, clone.ID, taken)
	if err != nil {
		return nil, err
	}
	clone.ID = id
	s.employees[id] = &clone
	out := clone
	return &out, nil
}

func (s *Store) UpdateEmployee(_ context.Context, employee *domain.Employee) error {
	if employee == nil {
		return errors.New("employee is nil")
	}
	clone := *employee
	if err := clone.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[clone.ID]; !ok {
		return fmt.Errorf("%w: employee %d", ports.ErrNotFound, clone.ID)
	}
	s.employees[clone.ID] = &clone
	return nil
}

// DeleteEmployee removes the employee. The id is not handed out again.
func (s *Store) DeleteEmployee(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[id]; !ok {
		return fmt.Errorf("%w: employee %d", ports.ErrNotFound, id)
	}
	delete(s.employees, id)
	return nil
}

func (s *Store) ListOrders(_ context.Context) ([]*domain.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]*domain.Order, 0, len(s.orders))
	for _, order := range s.orders {
		list = append(list, order.Clone())
	}
	sort.Slice(list, func(i, j int) bool {
		if !list[i].Timestamp.Equal(list[j].Timestamp) {
			return list[i].Timestamp.After(list[j].Timestamp)
		}
		return list[i].ID > list[j].ID
	})
	return list, nil
}

// CreateOrder validates every reference, stages the header and items with fresh ids,
// and only then publishes them under the write lock. Counters move only on success.
func (s *Store) CreateOrder(_ context.Context, order *domain.Order, items []domain.OrderItem) (int64, error) {
	if order == nil {
		return 0, errors.New("order is nil")
	}
	header := order.Clone()
	header.Items = nil
	header.Timestamp = header.Timestamp.Truncate(time.Microsecond)
	if err := header.Validate(); err != nil {
		return 0, err
	}
	if err := domain.ValidateItems(items); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.employees[header.EmployeeID]; !ok {
		return 0, fmt.Errorf("%w: employee %d", ports.ErrUnknownReference, header.EmployeeID)
	}
	for _, item := range items {
		if _, ok := s.menu[item.MenuItemID]; !ok {
			return 0, fmt.Errorf("%w: menu item %d", ports.ErrUnknownReference, item.MenuItemID)
		}
	}

	orderID := s.counters[ports.CollectionOrders] + 1
	itemID := s.counters[ports.CollectionOrderItems]
	staged := make([]domain.OrderItem, len(items))
	for i := range items {
		itemID++
		staged[i] = items[i].Clone()
		staged[i].ID = itemID
		staged[i].OrderID = orderID
	}
	header.ID = orderID
	header.Items = staged

	s.orders[orderID] = header
	s.counters[ports.CollectionOrders] = orderID
	s.counters[ports.CollectionOrderItems] = itemID
	return orderID, nil
}

func (s *Store) Close() error { return nil }

func byName(nameA string, idA int64, nameB string, idB int64) bool {
	if nameA != nameB {
		return nameA < nameB
	}
	return idA < idB
}
