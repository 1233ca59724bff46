package main

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Apurer/boba-pos/internal/domains/pos/domain"
)

type menuItemView struct {
	ID       int64           `json:"id"`
	Category string          `json:"category"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
}

type inventoryView struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
}

type employeeView struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	HoursWorked int    `json:"hoursWorked"`
}

type orderItemView struct {
	ID         int64                  `json:"id"`
	MenuItemID int64                  `json:"menuItemId"`
	Quantity   int                    `json:"quantity"`
	SugarLevel int                    `json:"sugarLevel"`
	IceLevel   int                    `json:"iceLevel"`
	MilkType   string                 `json:"milkType"`
	Toppings   map[domain.Topping]int `json:"toppings,omitempty"`
}

type orderView struct {
	ID         int64           `json:"id"`
	Timestamp  time.Time       `json:"timestamp"`
	CustomerID *int64          `json:"customerId,omitempty"`
	EmployeeID int64           `json:"employeeId"`
	TotalCost  decimal.Decimal `json:"totalCost"`
	Week       int             `json:"week"`
	Items      []orderItemView `json:"items"`
}

func toMenuViews(items []*domain.MenuItem) []menuItemView {
	out := make([]menuItemView, 0, len(items))
	for _, item := range items {
		out = append(out, toMenuView(item))
	}
	return out
}

func toMenuView(item *domain.MenuItem) menuItemView {
	return menuItemView{ID: item.ID, Category: item.Category, Name: item.Name, Price: item.Price}
}

func toInventoryViews(items []*domain.InventoryItem) []inventoryView {
	out := make([]inventoryView, 0, len(items))
	for _, item := range items {
		out = append(out, toInventoryView(item))
	}
	return out
}

func toInventoryView(item *domain.InventoryItem) inventoryView {
	return inventoryView{ID: item.ID, Name: item.Name, Count: item.Count}
}

func toEmployeeViews(employees []*domain.Employee) []employeeView {
	out := make([]employeeView, 0, len(employees))
	for _, e := range employees {
		out = append(out, toEmployeeView(e))
	}
	return out
}

func toEmployeeView(e *domain.Employee) employeeView {
	return employeeView{ID: e.ID, Name: e.Name, Role: e.Role, HoursWorked: e.HoursWorked}
}

func toOrderViews(orders []*domain.Order) []orderView {
	out := make([]orderView, 0, len(orders))
	for _, order := range orders {
		view := orderView{
			ID:         order.ID,
			Timestamp:  order.Timestamp,
			CustomerID: order.CustomerID,
			EmployeeID: order.EmployeeID,
			TotalCost:  order.TotalCost,
			Week:       order.Week,
			Items:      make([]orderItemView, 0, len(order.Items)),
		}
		for _, item := range order.Items {
			view.Items = append(view.Items, orderItemView{
				ID:         item.ID,
				MenuItemID: item.MenuItemID,
				Quantity:   item.Quantity,
				SugarLevel: item.SugarLevel,
				IceLevel:   item.IceLevel,
				MilkType:   item.MilkType,
				Toppings:   item.Toppings,
			})
		}
		out = append(out, view)
	}
	return out
}
