package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// MenuItem is a sellable drink.
type MenuItem struct {
	ID       int64
	Category string
	Name     string
	Price    decimal.Decimal
}

// NewMenuItem validates and constructs a MenuItem. An id of zero means "not yet assigned".
func NewMenuItem(id int64, category, name string, price decimal.Decimal) (*MenuItem, error) {
	item := &MenuItem{
		ID:       id,
		Category: strings.TrimSpace(category),
		Name:     strings.TrimSpace(name),
		Price:    price,
	}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

// Validate enforces the menu item invariants.
func (m *MenuItem) Validate() error {
	if m.ID < 0 {
		return ErrInvalidID
	}
	if strings.TrimSpace(m.Category) == "" {
		return ErrEmptyCategory
	}
	if strings.TrimSpace(m.Name) == "" {
		return ErrEmptyMenuItemName
	}
	return ValidatePrice(m.Price)
}

// ValidatePrice rejects negative prices.
func ValidatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return ErrNegativePrice
	}
	return nil
}

// InventoryItem is a stocked ingredient or supply.
type InventoryItem struct {
	ID    int64
	Name  string
	Count int
}

func NewInventoryItem(id int64, name string, count int) (*InventoryItem, error) {
	item := &InventoryItem{ID: id, Name: strings.TrimSpace(name), Count: count}
	if err := item.Validate(); err != nil {
		return nil, err
	}
	return item, nil
}

func (i *InventoryItem) Validate() error {
	if i.ID < 0 {
		return ErrInvalidID
	}
	if strings.TrimSpace(i.Name) == "" {
		return ErrEmptyIngredientName
	}
	return ValidateCount(i.Count)
}

// ValidateCount rejects negative stock counts.
func ValidateCount(count int) error {
	if count < 0 {
		return ErrNegativeCount
	}
	return nil
}

// Employee is a staff member who can take orders.
type Employee struct {
	ID          int64
	Name        string
	Role        string
	HoursWorked int
}

func NewEmployee(id int64, name, role string, hours int) (*Employee, error) {
	employee := &Employee{
		ID:          id,
		Name:        strings.TrimSpace(name),
		Role:        strings.TrimSpace(role),
		HoursWorked: hours,
	}
	if err := employee.Validate(); err != nil {
		return nil, err
	}
	return employee, nil
}

func (e *Employee) Validate() error {
	if e.ID < 0 {
		return ErrInvalidID
	}
	if strings.TrimSpace(e.Name) == "" {
		return ErrEmptyEmployeeName
	}
	if strings.TrimSpace(e.Role) == "" {
		return ErrEmptyEmployeeRole
	}
	if e.HoursWorked < 0 {
		return ErrNegativeHours
	}
	return nil
}
