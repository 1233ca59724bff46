package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrInvalidWindow is returned for a window whose end precedes its start.
var ErrInvalidWindow = errors.New("report window ends before it starts")

// Window is a half-open time range [From, To). A zero bound is unbounded.
type Window struct {
	From time.Time
	To   time.Time
}

// AllTime covers every order.
var AllTime = Window{}

func (w Window) Validate() error {
	if !w.From.IsZero() && !w.To.IsZero() && w.To.Before(w.From) {
		return ErrInvalidWindow
	}
	return nil
}

func (w Window) Contains(t time.Time) bool {
	if !w.From.IsZero() && t.Before(w.From) {
		return false
	}
	if !w.To.IsZero() && !t.Before(w.To) {
		return false
	}
	return true
}

// DayOf returns the calendar day containing t, in t's location.
func DayOf(t time.Time) Window {
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	return Window{From: start, To: start.AddDate(0, 0, 1)}
}

// WeekOf returns the Monday-start week containing t.
func WeekOf(t time.Time) Window {
	day := DayOf(t)
	offset := (int(t.Weekday()) + 6) % 7
	start := day.From.AddDate(0, 0, -offset)
	return Window{From: start, To: start.AddDate(0, 0, 7)}
}

// MonthOf returns the calendar month containing t.
func MonthOf(t time.Time) Window {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return Window{From: start, To: start.AddDate(0, 1, 0)}
}

// SalesRank is one menu item's sales over a window. Revenue uses the current menu price.
type SalesRank struct {
	MenuItemID int64           `json:"menuItemId"`
	Name       string          `json:"name"`
	Category   string          `json:"category"`
	Quantity   int             `json:"quantity"`
	Revenue    decimal.Decimal `json:"revenue"`
}

type RevenueSummary struct {
	Today     decimal.Decimal `json:"today"`
	ThisWeek  decimal.Decimal `json:"thisWeek"`
	ThisMonth decimal.Decimal `json:"thisMonth"`
	AllTime   decimal.Decimal `json:"allTime"`
}

type CategorySales struct {
	Category string          `json:"category"`
	Quantity int             `json:"quantity"`
	Revenue  decimal.Decimal `json:"revenue"`
}

type StockLevel struct {
	IngredientID int64  `json:"ingredientId"`
	Name         string `json:"name"`
	Count        int    `json:"count"`
}

// HourlySales is one X-report row.
type HourlySales struct {
	Hour    int             `json:"hour"`
	Orders  int             `json:"orders"`
	Revenue decimal.Decimal `json:"revenue"`
}

// DailySummary is the Z-report for one day.
type DailySummary struct {
	Day          time.Time       `json:"day"`
	Orders       int             `json:"orders"`
	Revenue      decimal.Decimal `json:"revenue"`
	AverageOrder decimal.Decimal `json:"averageOrder"`
	ItemsSold    int             `json:"itemsSold"`
}

type StaffHours struct {
	EmployeeID  int64  `json:"employeeId"`
	Name        string `json:"name"`
	Role        string `json:"role"`
	HoursWorked int    `json:"hoursWorked"`
}

// EmployeePerformance is orders taken and revenue per employee. Name is empty
// for employees that have since been deleted.
type EmployeePerformance struct {
	EmployeeID int64           `json:"employeeId"`
	Name       string          `json:"name"`
	Orders     int             `json:"orders"`
	Revenue    decimal.Decimal `json:"revenue"`
}
