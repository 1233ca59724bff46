package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is the order header plus the line items it owns.
type Order struct {
	ID         int64
	Timestamp  time.Time
	CustomerID *int64 // nil for walk-in customers
	EmployeeID int64
	TotalCost  decimal.Decimal
	Week       int
	Items      []OrderItem
}

// Validate checks the header invariants. Items are validated separately by ValidateItems.
func (o *Order) Validate() error {
	if o.ID < 0 {
		return ErrInvalidID
	}
	if o.Timestamp.IsZero() {
		return ErrMissingTimestamp
	}
	if o.CustomerID != nil && *o.CustomerID <= 0 {
		return ErrInvalidCustomerID
	}
	if o.EmployeeID <= 0 {
		return ErrInvalidEmployeeID
	}
	if o.TotalCost.IsNegative() {
		return ErrNegativeTotalCost
	}
	if o.Week < 1 || o.Week > 53 {
		return ErrInvalidWeek
	}
	return nil
}

// ItemCount sums the quantities of all line items.
func (o *Order) ItemCount() int {
	total := 0
	for _, item := range o.Items {
		total += item.Quantity
	}
	return total
}

// Clone returns a deep copy safe to hand to another goroutine.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	clone := *o
	if o.CustomerID != nil {
		id := *o.CustomerID
		clone.CustomerID = &id
	}
	if o.Items != nil {
		clone.Items = make([]OrderItem, len(o.Items))
		for i := range o.Items {
			clone.Items[i] = o.Items[i].Clone()
		}
	}
	return &clone
}

// WeekOf returns the ISO week number used as the order week.
func WeekOf(t time.Time) int {
	_, week := t.ISOWeek()
	return week
}

// OrderItem is one line of an order.
type OrderItem struct {
	ID         int64
	OrderID    int64
	MenuItemID int64
	Quantity   int
	Customization
}

// NewOrderItem builds a line item with the default customization.
func NewOrderItem(menuItemID int64, quantity int) OrderItem {
	return OrderItem{
		MenuItemID:    menuItemID,
		Quantity:      quantity,
		Customization: DefaultCustomization(),
	}
}

func (i *OrderItem) Validate() error {
	if i.ID < 0 {
		return ErrInvalidID
	}
	if i.MenuItemID <= 0 {
		return ErrInvalidMenuItemID
	}
	if i.Quantity <= 0 {
		return ErrInvalidQuantity
	}
	return i.Customization.Validate()
}

func (i OrderItem) Clone() OrderItem {
	i.Customization = i.Customization.Clone()
	return i
}

// ValidateItems rejects an empty item list or any invalid item.
func ValidateItems(items []OrderItem) error {
	if len(items) == 0 {
		return ErrNoItems
	}
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}
