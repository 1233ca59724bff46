package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/boba-pos/internal/domains/pos/domain"
	"github.com/Apurer/boba-pos/internal/domains/pos/ports"
	"github.com/Apurer/boba-pos/internal/domains/pos/sampledata"
)

var (
	_ ports.Store       = (*Store)(nil)
	_ ports.IDAllocator = (*Store)(nil)
)

// idColumns maps each id space to its table's key column.
var idColumns = map[ports.Collection]string{
	ports.CollectionMenuItems:  "menuitemid",
	ports.CollectionInventory:  "ingredientid",
	ports.CollectionEmployees:  "employeeid",
	ports.CollectionOrders:     "orderid",
	ports.CollectionOrderItems: "orderitemid",
}

// Store is the live PostgreSQL backing store. Ids are allocated as MAX(id)+1 while
// the table is locked against concurrent writers, inside the inserting transaction.
type Store struct {
	db *gorm.DB
}

// NewStore wraps an open connection. Caller manages the DB lifecycle unless Close is called.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) ensureDB() error {
	if s == nil || s.db == nil {
		return errors.New("postgres pos store not configured")
	}
	return nil
}

// NextID reports MAX(id)+1 for the collection, or 1 when it is empty.
func (s *Store) NextID(ctx context.Context, c ports.Collection) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
	return nextID(s.db.WithContext(ctx), c)
}

func nextID(tx *gorm.DB, c ports.Collection) (int64, error) {
	column, ok := idColumns[c]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ports.ErrUnknownCollection, c)
	}
	var next int64
	query := fmt.Sprintf("SELECT COALESCE(MAX(%s), 0) + 1 FROM %s", column, c)
	if err := tx.Raw(query).Scan(&next).Error; err != nil {
		return 0, classify(err)
	}
	return next, nil
}

// lockForInsert blocks other allocators on the listed tables until the transaction ends.
// Readers are not blocked.
func lockForInsert(tx *gorm.DB, collections ...ports.Collection) error {
	for _, c := range collections {
		if _, ok := idColumns[c]; !ok {
			return fmt.Errorf("%w: %q", ports.ErrUnknownCollection, c)
		}
		if err := tx.Exec(fmt.Sprintf("LOCK TABLE %s IN SHARE ROW EXCLUSIVE MODE", c)).Error; err != nil {
			return classify(err)
		}
	}
	return nil
}

// insertWithID assigns the next id for c unless the caller supplied one, then inserts.
func (s *Store) insertWithID(ctx context.Context, c ports.Collection, requested int64, insert func(tx *gorm.DB, id int64) error) (int64, error) {
	var assigned int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForInsert(tx, c); err != nil {
			return err
		}
		assigned = requested
		if assigned == 0 {
			next, err := nextID(tx, c)
			if err != nil {
				return err
			}
			assigned = next
		}
		return classify(insert(tx, assigned))
	})
	if err != nil {
		return 0, classify(err)
	}
	return assigned, nil
}

func (s *Store) ListMenuItems(ctx context.Context) ([]*domain.MenuItem, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var records []menuItemRecord
	if err := s.db.WithContext(ctx).Order(`menuitemname COLLATE "C", menuitemid`).Find(&records).Error; err != nil {
		return nil, classify(err)
	}
	items := make([]*domain.MenuItem, 0, len(records))
	for i := range records {
		items = append(items, records[i].toDomain())
	}
	return items, nil
}

func (s *Store) AddMenuItem(ctx context.Context, item *domain.MenuItem) (*domain.MenuItem, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errors.New("menu item is nil")
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	record := menuItemRecord{Category: item.Category, Name: item.Name, Price: item.Price}
	if _, err := s.insertWithID(ctx, ports.CollectionMenuItems, item.ID, func(tx *gorm.DB, id int64) error {
		record.ID = id
		return tx.Create(&record).Error
	}); err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (s *Store) UpdateMenuItemPrice(ctx context.Context, id int64, price decimal.Decimal) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if err := domain.ValidatePrice(price); err != nil {
		return err
	}
	result := s.db.WithContext(ctx).Model(&menuItemRecord{}).Where("menuitemid = ?", id).Update("price", price)
	return affected(result, "menu item", id)
}

func (s *Store) ListInventory(ctx context.Context) ([]*domain.InventoryItem, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var records []inventoryRecord
	if err := s.db.WithContext(ctx).Order(`ingredientname COLLATE "C", ingredientid`).Find(&records).Error; err != nil {
		return nil, classify(err)
	}
	items := make([]*domain.InventoryItem, 0, len(records))
	for i := range records {
		items = append(items, records[i].toDomain())
	}
	return items, nil
}

func (s *Store) AddInventoryItem(ctx context.Context, item *domain.InventoryItem) (*domain.InventoryItem, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errors.New("inventory item is nil")
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	record := inventoryRecord{Name: item.Name, Count: item.Count}
	if _, err := s.insertWithID(ctx, ports.CollectionInventory, item.ID, func(tx *gorm.DB, id int64) error {
		record.ID = id
		return tx.Create(&record).Error
	}); err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (s *Store) UpdateInventoryQuantity(ctx context.Context, id int64, count int) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if err := domain.ValidateCount(count); err != nil {
		return err
	}
	result := s.db.WithContext(ctx).Model(&inventoryRecord{}).Where("ingredientid = ?", id).Update("ingredientcount", count)
	return affected(result, "inventory item", id)
}

func (s *Store) ListEmployees(ctx context.Context) ([]*domain.Employee, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var records []employeeRecord
	if err := s.db.WithContext(ctx).Order(`employeename COLLATE "C", employeeid`).Find(&records).Error; err != nil {
		return nil, classify(err)
	}
	employees := make([]*domain.Employee, 0, len(records))
	for i := range records {
		employees = append(employees, records[i].toDomain())
	}
	return employees, nil
}

func (s *Store) AddEmployee(ctx context.Context, employee *domain.Employee) (*domain.Employee, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, errors.New("employee is nil")
	}
	if err := employee.Validate(); err != nil {
		return nil, err
	}
	record := employeeRecord{Name: employee.Name, Role: employee.Role, HoursWorked: employee.HoursWorked}
	if _, err := s.insertWithID(ctx, ports.CollectionEmployees, employee.ID, func(tx *gorm.DB, id int64) error {
		record.ID = id
		return tx.Create(&record).Error
	}); err != nil {
		return nil, err
	}
	return record.toDomain(), nil
}

func (s *Store) UpdateEmployee(ctx context.Context, employee *domain.Employee) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	if employee == nil {
		return errors.New("employee is nil")
	}
	if err := employee.Validate(); err != nil {
		return err
	}
	result := s.db.WithContext(ctx).Model(&employeeRecord{}).
		Where("employeeid = ?", employee.ID).
		Updates(map[string]any{
			"employeename": employee.Name,
			"employeerole": employee.Role,
			"hoursworked":  employee.HoursWorked,
		})
	return affected(result, "employee", employee.ID)
}

// DeleteEmployee removes the row. Orders keep the employee id they were taken under.
func (s *Store) DeleteEmployee(ctx context.Context, id int64) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	result := s.db.WithContext(ctx).Delete(&employeeRecord{}, "employeeid = ?", id)
	return affected(result, "employee", id)
}

// ListOrders reads headers and items from a single snapshot.
func (s *Store) ListOrders(ctx context.Context) ([]*domain.Order, error) {
	if err := s.ensureDB(); err != nil {
		return nil, err
	}
	var orders []*domain.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var headers []orderRecord
		if err := tx.Order("timeoforder DESC, orderid DESC").Find(&headers).Error; err != nil {
			return err
		}
		var items []orderItemRecord
		if err := tx.Order("orderitemid").Find(&items).Error; err != nil {
			return err
		}
		byOrder := make(map[int64][]domain.OrderItem, len(headers))
		for i := range items {
			byOrder[items[i].OrderID] = append(byOrder[items[i].OrderID], items[i].toDomain())
		}
		orders = make([]*domain.Order, 0, len(headers))
		for i := range headers {
			order := headers[i].toDomain()
			order.Items = byOrder[order.ID]
			orders = append(orders, order)
		}
		return nil
	}, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, classify(err)
	}
	return orders, nil
}

// CreateOrder checks references, then writes the header and every item in one
// transaction. Any failure after the first write rolls everything back and is
// reported as ports.ErrTransactionFailed.
func (s *Store) CreateOrder(ctx context.Context, order *domain.Order, items []domain.OrderItem) (int64, error) {
	if err := s.ensureDB(); err != nil {
		return 0, err
	}
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

	var (
		orderID int64
		wrote   bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := checkReferences(tx, header.EmployeeID, items); err != nil {
			return err
		}
		if err := lockForInsert(tx, ports.CollectionOrders, ports.CollectionOrderItems); err != nil {
			return err
		}
		var err error
		if orderID, err = nextID(tx, ports.CollectionOrders); err != nil {
			return err
		}
		itemID, err := nextID(tx, ports.CollectionOrderItems)
		if err != nil {
			return err
		}

		header.ID = orderID
		record := toOrderRecord(header)
		wrote = true
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		records := make([]orderItemRecord, len(items))
		for i := range items {
			item := items[i].Clone()
			item.ID = itemID + int64(i)
			item.OrderID = orderID
			records[i] = toOrderItemRecord(item)
		}
		return tx.Create(&records).Error
	})
	if err != nil {
		if wrote {
			return 0, fmt.Errorf("%w: %w", ports.ErrTransactionFailed, classify(err))
		}
		return 0, classify(err)
	}
	return orderID, nil
}

func checkReferences(tx *gorm.DB, employeeID int64, items []domain.OrderItem) error {
	var employees int64
	if err := tx.Model(&employeeRecord{}).Where("employeeid = ?", employeeID).Count(&employees).Error; err != nil {
		return classify(err)
	}
	if employees == 0 {
		return fmt.Errorf("%w: employee %d", ports.ErrUnknownReference, employeeID)
	}

	wanted := make([]int64, 0, len(items))
	for _, item := range items {
		wanted = append(wanted, item.MenuItemID)
	}
	var found []int64
	if err := tx.Model(&menuItemRecord{}).
		Where("menuitemid = ANY(?)", pq.Int64Array(wanted)).
		Pluck("menuitemid", &found).Error; err != nil {
		return classify(err)
	}
	present := make(map[int64]struct{}, len(found))
	for _, id := range found {
		present[id] = struct{}{}
	}
	for _, id := range wanted {
		if _, ok := present[id]; !ok {
			return fmt.Errorf("%w: menu item %d", ports.ErrUnknownReference, id)
		}
	}
	return nil
}

// Import loads a sample set with its own ids in one transaction.
// Tables that already hold rows are left alone.
func (s *Store) Import(ctx context.Context, set sampledata.Set) error {
	if err := s.ensureDB(); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockForInsert(tx, ports.Collections...); err != nil {
			return err
		}
		if empty, err := isEmpty(tx, &menuItemRecord{}); err != nil {
			return err
		} else if empty && len(set.MenuItems) > 0 {
			records := make([]menuItemRecord, 0, len(set.MenuItems))
			for _, item := range set.MenuItems {
				records = append(records, menuItemRecord{ID: item.ID, Category: item.Category, Name: item.Name, Price: item.Price})
			}
			if err := tx.Create(&records).Error; err != nil {
				return err
			}
		}
		if empty, err := isEmpty(tx, &inventoryRecord{}); err != nil {
			return err
		} else if empty && len(set.Inventory) > 0 {
			records := make([]inventoryRecord, 0, len(set.Inventory))
			for _, item := range set.Inventory {
				records = append(records, inventoryRecord{ID: item.ID, Name: item.Name, Count: item.Count})
			}
			if err := tx.Create(&records).Error; err != nil {
				return err
			}
		}
		if empty, err := isEmpty(tx, &employeeRecord{}); err != nil {
			return err
		} else if empty && len(set.Employees) > 0 {
			records := make([]employeeRecord, 0, len(set.Employees))
			for _, e := range set.Employees {
				records = append(records, employeeRecord{ID: e.ID, Name: e.Name, Role: e.Role, HoursWorked: e.HoursWorked})
			}
			if err := tx.Create(&records).Error; err != nil {
				return err
			}
		}
		if empty, err := isEmpty(tx, &orderRecord{}); err != nil {
			return err
		} else if empty && len(set.Orders) > 0 {
			for i := range set.Orders {
				order := set.Orders[i].Clone()
				order.Timestamp = order.Timestamp.Truncate(time.Microsecond)
				header := toOrderRecord(order)
				if err := tx.Create(&header).Error; err != nil {
					return err
				}
				if len(order.Items) == 0 {
					continue
				}
				records := make([]orderItemRecord, 0, len(order.Items))
				for _, item := range order.Items {
					records = append(records, toOrderItemRecord(item))
				}
				if err := tx.Create(&records).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	return classify(err)
}

func isEmpty(tx *gorm.DB, model any) (bool, error) {
	var count int64
	if err := tx.Model(model).Limit(1).Count(&count).Error; err != nil {
		return false, err
	}
	return count == 0, nil
}

// Close releases the underlying connection pool.
func (s *Store) Close() error {
	if err := s.ensureDB(); err != nil {
		return nil
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func affected(result *gorm.DB, what string, id int64) error {
	if result.Error != nil {
		return classify(result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("%w: %s %d", ports.ErrNotFound, what, id)
	}
	return nil
}
