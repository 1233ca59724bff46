// Package sampledata holds the representative rows the in-memory store starts with
// and that cmd/migrate can load into an empty database.
package sampledata

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/boba-pos/internal/domains/pos/domain"
)

// Set is a complete, consistent collection of sample rows with ids assigned.
type Set struct {
	MenuItems []domain.MenuItem
	Inventory []domain.InventoryItem
	Employees []domain.Employee
	Orders    []domain.Order
}

// New returns the sample rows. Order timestamps are placed shortly before now.
func New(now time.Time) Set {
	return Set{
		MenuItems: menuItems(),
		Inventory: inventory(),
		Employees: employees(),
		Orders:    orders(now),
	}
}

func menuItems() []domain.MenuItem {
	rows := []struct {
		category, name, price string
	}{
		{"Milk Tea", "Classic Milk Tea", "4.50"},
		{"Milk Tea", "Taro Milk Tea", "5.00"},
		{"Milk Tea", "Thai Milk Tea", "4.75"},
		{"Milk Tea", "Matcha Milk Tea", "5.25"},
		{"Milk Tea", "Honeydew Milk Tea", "4.75"},
		{"Fruit Tea", "Passion Fruit Tea", "4.25"},
		{"Fruit Tea", "Mango Green Tea", "4.50"},
		{"Fruit Tea", "Lychee Black Tea", "4.25"},
		{"Fruit Tea", "Peach Oolong Tea", "4.75"},
		{"Fruit Tea", "Strawberry Tea", "4.50"},
		{"Coffee", "Iced Coffee", "3.75"},
		{"Coffee", "Coffee Milk Tea", "5.00"},
		{"Coffee", "Caramel Macchiato", "5.50"},
		{"Smoothie", "Mango Smoothie", "5.25"},
		{"Smoothie", "Avocado Smoothie", "5.50"},
		{"Smoothie", "Taro Smoothie", "5.25"},
		{"Specialty", "Brown Sugar Boba", "6.00"},
		{"Specialty", "Cheese Foam Tea", "5.75"},
		{"Specialty", "Dirty Boba", "6.25"},
		{"Specialty", "Seasonal Special", "6.50"},
	}
	items := make([]domain.MenuItem, 0, len(rows))
	for i, row := range rows {
		items = append(items, domain.MenuItem{
			ID:       int64(i + 1),
			Category: row.category,
			Name:     row.name,
			Price:    decimal.RequireFromString(row.price),
		})
	}
	return items
}

func inventory() []domain.InventoryItem {
	rows := []struct {
		name  string
		count int
	}{
		{"Black Tea", 150},
		{"Green Tea", 120},
		{"Oolong Tea", 100},
		{"White Tea", 80},
		{"Whole Milk", 200},
		{"Almond Milk", 75},
		{"Coconut Milk", 60},
		{"Oat Milk", 45},
		{"Cane Sugar", 300},
		{"Brown Sugar", 150},
		{"Honey", 80},
		{"Mango Syrup", 90},
		{"Strawberry Syrup", 85},
		{"Passion Fruit Syrup", 70},
		{"Lychee Syrup", 65},
		{"Taro Powder", 110},
		{"Matcha Powder", 95},
		{"Tapioca Pearls (Boba)", 500},
		{"Lychee Jelly", 200},
		{"Grass Jelly", 180},
		{"Pudding", 150},
		{"Aloe Vera", 120},
		{"Red Bean", 100},
		{"Popping Boba (Mango)", 300},
		{"Popping Boba (Strawberry)", 280},
		{"Crystal Boba", 250},
		{"Plastic Cups (16oz)", 1000},
		{"Plastic Cups (20oz)", 800},
		{"Plastic Lids", 1200},
		{"Straws", 2000},
		{"Cup Sleeves", 500},
		{"Napkins", 800},
	}
	items := make([]domain.InventoryItem, 0, len(rows))
	for i, row := range rows {
		items = append(items, domain.InventoryItem{ID: int64(i + 1), Name: row.name, Count: row.count})
	}
	return items
}

func employees() []domain.Employee {
	return []domain.Employee{
		{ID: 1, Name: "John Smith", Role: "Manager", HoursWorked: 160},
		{ID: 2, Name: "Sarah Johnson", Role: "Assistant Manager", HoursWorked: 140},
		{ID: 3, Name: "Mike Chen", Role: "Cashier", HoursWorked: 120},
		{ID: 4, Name: "Emily Davis", Role: "Cashier", HoursWorked: 100},
		{ID: 5, Name: "Alex Rodriguez", Role: "Barista", HoursWorked: 110},
		{ID: 6, Name: "Lisa Wang", Role: "Barista", HoursWorked: 95},
		{ID: 7, Name: "David Kim", Role: "Part-time Cashier", HoursWorked: 60},
		{ID: 8, Name: "Jennifer Lee", Role: "Part-time Barista", HoursWorked: 45},
	}
}

func orders(now time.Time) []domain.Order {
	now = now.Truncate(time.Microsecond)
	sample := []struct {
		ago        time.Duration
		employeeID int64
		total      string
		menuItemID int64
		quantity   int
	}{
		{time.Hour, 3, "9.00", 1, 2},          // 2x Classic Milk Tea
		{30 * time.Minute, 4, "5.25", 14, 1},  // 1x Mango Smoothie
		{15 * time.Minute, 3, "12.00", 17, 2}, // 2x Brown Sugar Boba
	}
	out := make([]domain.Order, 0, len(sample))
	for i, s := range sample {
		id := int64(i + 1)
		ts := now.Add(-s.ago)
		item := domain.NewOrderItem(s.menuItemID, s.quantity)
		item.ID = id
		item.OrderID = id
		out = append(out, domain.Order{
			ID:         id,
			Timestamp:  ts,
			EmployeeID: s.employeeID,
			TotalCost:  decimal.RequireFromString(s.total),
			Week:       domain.WeekOf(ts),
			Items:      []domain.OrderItem{item},
		})
	}
	return out
}
