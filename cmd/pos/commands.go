package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Apurer/boba-pos/internal/app/pos"
	posapplication "github.com/Apurer/boba-pos/internal/domains/pos/application"
	"github.com/Apurer/boba-pos/internal/domains/pos/domain"
	"github.com/Apurer/boba-pos/internal/domains/pos/ports"
)

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", posapplication.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return invalidf("%s: %v", fs.Name(), err)
	}
	if fs.NArg() > 0 {
		return invalidf("%s: unexpected arguments %v", fs.Name(), fs.Args())
	}
	return nil
}

func subcommand(group string, args []string) (string, []string, error) {
	if len(args) == 0 {
		return "", nil, invalidf("%s: missing subcommand", group)
	}
	return args[0], args[1:], nil
}

func parseDecimal(name, raw string) (decimal.Decimal, error) {
	value, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, invalidf("-%s: %v", name, err)
	}
	return value, nil
}

func menuCommand(ctx context.Context, app *pos.App, args []string) (any, error) {
	sub, rest, err := subcommand("menu", args)
	if err != nil {
		return nil, err
	}
	switch sub {
	case "list":
		items, err := app.Service.ListMenuItems(ctx)
		if err != nil {
			return nil, err
		}
		return toMenuViews(items), nil
	case "add":
		fs := newFlagSet("menu add")
		id := fs.Int64("id", 0, "menu item id (0 allocates the next one)")
		category := fs.String("category", "", "drink category")
		name := fs.String("name", "", "menu item name")
		price := fs.String("price", "", "price, e.g. 4.50")
		if err := parse(fs, rest); err != nil {
			return nil, err
		}
		amount, err := parseDecimal("price", *price)
		if err != nil {
			return nil, err
		}
		created, err := app.Service.AddMenuItem(ctx, &domain.MenuItem{ID: *id, Category: *category, Name: *name, Price: amount})
		if err != nil {
			return nil, err
		}
		return toMenuView(created), nil
	case "price":
		fs := newFlagSet("menu price")
		id := fs.Int64("id", 0, "menu item id")
		price := fs.String("price", "", "new price")
		if err := parse(fs, rest); err != nil {
			return nil, err
		}
		amount, err := parseDecimal("price", *price)
		if err != nil {
			return nil, err
		}
		if err := app.Service.UpdateMenuItemPrice(ctx, *id, amount); err != nil {
			return nil, err
		}
		return map[string]any{"id": *id, "price": amount}, nil
	default:
		return nil, invalidf("menu: unknown subcommand %q", sub)
	}
}

func inventoryCommand(ctx context.Context, app *pos.App, args []string) (any, error) {
	sub, rest, err := subcommand("inventory", args)
	if err != nil {
		return nil, err
	}
	switch sub {
	case "list":
		items, err := app.Service.ListInventory(ctx)
		if err != nil {
			return nil, err
		}
		return toInventoryViews(items), nil
	case "add":
		fs := newFlagSet("inventory add")
		id := fs.Int64("id", 0, "ingredient id (0 allocates the next one)")
		name := fs.String("name", "", "ingredient name")
		count := fs.Int("count", 0, "units in stock")
		if err := parse(fs, rest); err != nil {
			return nil, err
		}
		created, err := app.Service.AddInventoryItem(ctx, &domain.InventoryItem{ID: *id, Name: *name, Count: *count})
		if err != nil {
			return nil, err
		}
		return toInventoryView(created), nil
	case "set":
		fs := newFlagSet("inventory set")
		id := fs.Int64("id", 0, "ingredient id")
		count := fs.Int("count", 0, "units in stock")
		if err := parse(fs, rest); err != nil {
			return nil, err
		}
		if err := app.Service.UpdateInventoryQuantity(ctx, *id, *count); err != nil {
			return nil, err
		}
		return map[string]any{"id": *id, "count": *count}, nil
	default:
		return nil, invalidf("inventory: unknown subcommand %q", sub)
	}
}

func employeesCommand(ctx context.Context, app *pos.App, args []string) (any, error) {
	sub, rest, err := subcommand("employees", args)
	if err != nil {
		return nil, err
	}
	switch sub {
	case "list":
		employees, err := app.Service.ListEmployees(ctx)
		if err != nil {
			return nil, err
		}
		return toEmployeeViews(employees), nil
	case "add":
		fs := newFlagSet("employees add")
		id := fs.Int64("id", 0, "employee id (0 allocates the next one)")
		name := fs.String("name", "", "employee name")
		role := fs.String("role", "", "employee role")
		hours := fs.Int("hours", 0, "hours worked")
		if err := parse(fs, rest); err != nil {
			return nil, err
		}
		created, err := app.Service.AddEmployee(ctx, &domain.Employee{ID: *id, Name: *name, Role: *role, HoursWorked: *hours})
		if err != nil {
			return nil, err
		}
		return toEmployeeView(created), nil
	case "update":
		fs := newFlagSet("employees update")
		id := fs.Int64("id", 0, "employee id")
		name := fs.String("name", "", "new name")
		role := fs.String("role", "", "new role")
		hours := fs.Int("hours", 0, "new hours worked")
		if err := parse(fs, rest); err != nil {
			return nil, err
		}
		current, err := findEmployee(ctx, app.Service, *id)
		if err != nil {
			return nil, err
		}
		fs.Visit(func(f *flag.Flag) {
			switch f.Name {
			case "name":
				current.Name = *name
			case "role":
				current.Role = *role
			case "hours":
				current.HoursWorked = *hours
			}
		})
		if err := app.Service.UpdateEmployee(ctx, current); err != nil {
			return nil, err
		}
		return toEmployeeView(current), nil
	case "delete":
		fs := newFlagSet("employees delete")
		id := fs.Int64("id", 0, "employee id")
		if err := parse(fs, rest); err != nil {
			return nil, err
		}
		if err := app.Service.DeleteEmployee(ctx, *id); err != nil {
			return nil, err
		}
		return map[string]any{"id": *id, "deleted": true}, nil
	default:
		return nil, invalidf("employees: unknown subcommand %q", sub)
	}
}

func findEmployee(ctx context.Context, service ports.Service, id int64) (*domain.Employee, error) {
	employees, err := service.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range employees {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, fmt.Errorf("%w: employee %d", ports.ErrNotFound, id)
}

func ordersCommand(ctx context.Context, app *pos.App, args []string) (any, error) {
	sub, rest, err := subcommand("orders", args)
	if err != nil {
		return nil, err
	}
	switch sub {
	case "list":
		orders, err := app.Service.ListOrders(ctx)
		if err != nil {
			return nil, err
		}
		return toOrderViews(orders), nil
	case "submit":
		return submitOrder(ctx, app, rest)
	default:
		return nil, invalidf("orders: unknown subcommand %q", sub)
	}
}

// listFlag collects a repeatable string flag.
type listFlag []string

func (l *listFlag) String() string { return strings.Join(*l, ",") }

func (l *listFlag) Set(value string) error {
	*l = append(*l, value)
	return nil
}

func submitOrder(ctx context.Context, app *pos.App, args []string) (any, error) {
	fs := newFlagSet("orders submit")
	employee := fs.Int64("employee", 0, "employee taking the order")
	customer := fs.Int64("customer", 0, "customer id, 0 for walk-ins")
	total := fs.String("total", "", "order total; defaults to the sum of current menu prices")
	sugar := fs.Int("sugar", domain.DefaultSugarLevel, "sugar level percent for every item")
	ice := fs.Int("ice", domain.DefaultIceLevel, "ice level for every item")
	milk := fs.String("milk", domain.DefaultMilkType, "milk type for every item")
	var itemSpecs, toppingSpecs listFlag
	fs.Var(&itemSpecs, "item", "menuItemID:quantity, repeatable")
	fs.Var(&toppingSpecs, "topping", "topping=count applied to every item, repeatable")
	if err := parse(fs, args); err != nil {
		return nil, err
	}

	toppings, err := parseToppings(toppingSpecs)
	if err != nil {
		return nil, err
	}
	items := make([]domain.OrderItem, 0, len(itemSpecs))
	for _, raw := range itemSpecs {
		menuItemID, quantity, err := parseItem(raw)
		if err != nil {
			return nil, err
		}
		item := domain.NewOrderItem(menuItemID, quantity)
		item.SugarLevel = *sugar
		item.IceLevel = *ice
		item.MilkType = *milk
		item.Toppings = toppings
		items = append(items, item.Clone())
	}

	order := &domain.Order{EmployeeID: *employee}
	if *customer > 0 {
		order.CustomerID = customer
	}
	if strings.TrimSpace(*total) != "" {
		if order.TotalCost, err = parseDecimal("total", *total); err != nil {
			return nil, err
		}
	} else if order.TotalCost, err = runningTotal(ctx, app.Service, items); err != nil {
		return nil, err
	}

	id, err := app.Submitter.Submit(ctx, order, items)
	if err != nil {
		return nil, err
	}
	return map[string]any{"orderId": id, "totalCost": order.TotalCost, "itemCount": len(items)}, nil
}

func parseItem(raw string) (int64, int, error) {
	idPart, qtyPart, ok := strings.Cut(raw, ":")
	if !ok {
		qtyPart = "1"
	}
	menuItemID, err := strconv.ParseInt(strings.TrimSpace(idPart), 10, 64)
	if err != nil {
		return 0, 0, invalidf("-item %q: bad menu item id", raw)
	}
	quantity, err := strconv.Atoi(strings.TrimSpace(qtyPart))
	if err != nil {
		return 0, 0, invalidf("-item %q: bad quantity", raw)
	}
	return menuItemID, quantity, nil
}

func parseToppings(raws []string) (map[domain.Topping]int, error) {
	if len(raws) == 0 {
		return nil, nil
	}
	toppings := map[domain.Topping]int{}
	for _, raw := range raws {
		name, countPart, ok := strings.Cut(raw, "=")
		if !ok {
			countPart = "1"
		}
		count, err := strconv.Atoi(strings.TrimSpace(countPart))
		if err != nil {
			return nil, invalidf("-topping %q: bad count", raw)
		}
		toppings[domain.Topping(strings.TrimSpace(name))] += count
	}
	return toppings, nil
}

// runningTotal prices the items the way the register does: current menu price times quantity.
func runningTotal(ctx context.Context, service ports.Service, items []domain.OrderItem) (decimal.Decimal, error) {
	menu, err := service.ListMenuItems(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	prices := make(map[int64]decimal.Decimal, len(menu))
	for _, m := range menu {
		prices[m.ID] = m.Price
	}
	total := decimal.Zero
	for _, item := range items {
		price, ok := prices[item.MenuItemID]
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: %w: menu item %d", posapplication.ErrInvalidInput, ports.ErrUnknownReference, item.MenuItemID)
		}
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total, nil
}
