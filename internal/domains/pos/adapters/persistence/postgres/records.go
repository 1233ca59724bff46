package postgres

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/boba-pos/internal/domains/pos/domain"
)

// Models lists the record types in dependency order for AutoMigrate.
func Models() []any {
	return []any{
		&menuItemRecord{},
		&inventoryRecord{},
		&employeeRecord{},
		&orderRecord{},
		&orderItemRecord{},
	}
}

// AutoMigrate creates or updates the five point-of-sale tables.
func AutoMigrate(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(Models()...)
}

type menuItemRecord struct {
	ID       int64           `gorm:"column:menuitemid;primaryKey;autoIncrement:false"`
	Category string          `gorm:"column:drinkcategory;type:varchar(64);not null"`
	Name     string          `gorm:"column:menuitemname;type:varchar(128);not null"`
	Price    decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null;check:chk_menuitems_price,price >= 0"`
}

func (menuItemRecord) TableName() string { return "menuitems" }

func (r menuItemRecord) toDomain() *domain.MenuItem {
	return &domain.MenuItem{ID: r.ID, Category: r.Category, Name: r.Name, Price: r.Price}
}

type inventoryRecord struct {
	ID    int64  `gorm:"column:ingredientid;primaryKey;autoIncrement:false"`
	Name  string `gorm:"column:ingredientname;type:varchar(128);not null"`
	Count int    `gorm:"column:ingredientcount;not null;check:chk_inventory_count,ingredientcount >= 0"`
}

func (inventoryRecord) TableName() string { return "inventory" }

func (r inventoryRecord) toDomain() *domain.InventoryItem {
	return &domain.InventoryItem{ID: r.ID, Name: r.Name, Count: r.Count}
}

type employeeRecord struct {
	ID          int64  `gorm:"column:employeeid;primaryKey;autoIncrement:false"`
	Name        string `gorm:"column:employeename;type:varchar(128);not null"`
	Role        string `gorm:"column:employeerole;type:varchar(64);not null"`
	HoursWorked int    `gorm:"column:hoursworked;not null;check:chk_employees_hours,hoursworked >= 0"`
}

func (employeeRecord) TableName() string { return "employees" }

func (r employeeRecord) toDomain() *domain.Employee {
	return &domain.Employee{ID: r.ID, Name: r.Name, Role: r.Role, HoursWorked: r.HoursWorked}
}

type orderRecord struct {
	ID          int64           `gorm:"column:orderid;primaryKey;autoIncrement:false"`
	TimeOfOrder time.Time       `gorm:"column:timeoforder;not null;index"`
	CustomerID  *int64          `gorm:"column:customerid"`
	EmployeeID  int64           `gorm:"column:employeeid;not null;index"`
	TotalCost   decimal.Decimal `gorm:"column:totalcost;type:numeric(10,2);not null;check:chk_orders_totalcost,totalcost >= 0"`
	OrderWeek   int             `gorm:"column:orderweek;not null;check:chk_orders_week,orderweek BETWEEN 1 AND 53"`
}

func (orderRecord) TableName() string { return "orders" }

func toOrderRecord(order *domain.Order) orderRecord {
	return orderRecord{
		ID:          order.ID,
		TimeOfOrder: order.Timestamp,
		CustomerID:  order.CustomerID,
		EmployeeID:  order.EmployeeID,
		TotalCost:   order.TotalCost,
		OrderWeek:   order.Week,
	}
}

func (r orderRecord) toDomain() *domain.Order {
	order := &domain.Order{
		ID:         r.ID,
		Timestamp:  r.TimeOfOrder,
		EmployeeID: r.EmployeeID,
		TotalCost:  r.TotalCost,
		Week:       r.OrderWeek,
	}
	if r.CustomerID != nil {
		id := *r.CustomerID
		order.CustomerID = &id
	}
	return order
}

// orderItemRecord keeps one column per topping, matching the legacy orderitems layout.
type orderItemRecord struct {
	ID         int64  `gorm:"column:orderitemid;primaryKey;autoIncrement:false"`
	OrderID    int64  `gorm:"column:orderid;not null;index"`
	MenuItemID int64  `gorm:"column:menuitemid;not null;index"`
	Quantity   int    `gorm:"column:quantity;not null;check:chk_orderitems_quantity,quantity > 0"`
	SugarLevel int    `gorm:"column:sugarlevel;not null;default:50"`
	IceLevel   int    `gorm:"column:icelevel;not null;default:2"`
	MilkType   string `gorm:"column:milktype;type:varchar(32);not null;default:'Regular'"`

	Boba                    int `gorm:"column:boba;not null;default:0"`
	LycheeJelly             int `gorm:"column:lycheejelly;not null;default:0"`
	GrassJelly              int `gorm:"column:grassjelly;not null;default:0"`
	Pudding                 int `gorm:"column:pudding;not null;default:0"`
	AloeVera                int `gorm:"column:aloevera;not null;default:0"`
	RedBean                 int `gorm:"column:redbean;not null;default:0"`
	CoffeeJelly             int `gorm:"column:coffeejelly;not null;default:0"`
	CoconutJelly            int `gorm:"column:coconutjelly;not null;default:0"`
	ChiaSeeds               int `gorm:"column:chiaseeds;not null;default:0"`
	TaroBalls               int `gorm:"column:taroballs;not null;default:0"`
	MangoStars              int `gorm:"column:mangostars;not null;default:0"`
	RainbowJelly            int `gorm:"column:rainbowjelly;not null;default:0"`
	CrystalBoba             int `gorm:"column:crystalboba;not null;default:0"`
	CheeseFoam              int `gorm:"column:cheesefoam;not null;default:0"`
	WhippedCream            int `gorm:"column:whippedcream;not null;default:0"`
	OreoCrumbs              int `gorm:"column:oreocrumbs;not null;default:0"`
	CaramelDrizzle          int `gorm:"column:carameldrizzle;not null;default:0"`
	MatchaFoam              int `gorm:"column:matchafoam;not null;default:0"`
	StrawberryPoppingBoba   int `gorm:"column:strawberrypoppingboba;not null;default:0"`
	MangoPoppingBoba        int `gorm:"column:mangopoppingboba;not null;default:0"`
	BlueberryPoppingBoba    int `gorm:"column:blueberrypoppingboba;not null;default:0"`
	PassionfruitPoppingBoba int `gorm:"column:passionfruitpoppingboba;not null;default:0"`
	ChocolateChips          int `gorm:"column:chocolatechips;not null;default:0"`
	PeanutCrumble           int `gorm:"column:peanutcrumble;not null;default:0"`
	Marshmallows            int `gorm:"column:marshmallows;not null;default:0"`
	CinnamonDust            int `gorm:"column:cinnamondust;not null;default:0"`
	Honey                   int `gorm:"column:honey;not null;default:0"`
	MintLeaves              int `gorm:"column:mintleaves;not null;default:0"`
}

func (orderItemRecord) TableName() string { return "orderitems" }

func (r *orderItemRecord) toppingColumns() map[domain.Topping]*int {
	return map[domain.Topping]*int{
		domain.ToppingBoba:                    &r.Boba,
		domain.ToppingLycheeJelly:             &r.LycheeJelly,
		domain.ToppingGrassJelly:              &r.GrassJelly,
		domain.ToppingPudding:                 &r.Pudding,
		domain.ToppingAloeVera:                &r.AloeVera,
		domain.ToppingRedBean:                 &r.RedBean,
		domain.ToppingCoffeeJelly:             &r.CoffeeJelly,
		domain.ToppingCoconutJelly:            &r.CoconutJelly,
		domain.ToppingChiaSeeds:               &r.ChiaSeeds,
		domain.ToppingTaroBalls:               &r.TaroBalls,
		domain.ToppingMangoStars:              &r.MangoStars,
		domain.ToppingRainbowJelly:            &r.RainbowJelly,
		domain.ToppingCrystalBoba:             &r.CrystalBoba,
		domain.ToppingCheeseFoam:              &r.CheeseFoam,
		domain.ToppingWhippedCream:            &r.WhippedCream,
		domain.ToppingOreoCrumbs:              &r.OreoCrumbs,
		domain.ToppingCaramelDrizzle:          &r.CaramelDrizzle,
		domain.ToppingMatchaFoam:              &r.MatchaFoam,
		domain.ToppingStrawberryPoppingBoba:   &r.StrawberryPoppingBoba,
		domain.ToppingMangoPoppingBoba:        &r.MangoPoppingBoba,
		domain.ToppingBlueberryPoppingBoba:    &r.BlueberryPoppingBoba,
		domain.ToppingPassionfruitPoppingBoba: &r.PassionfruitPoppingBoba,
		domain.ToppingChocolateChips:          &r.ChocolateChips,
		domain.ToppingPeanutCrumble:           &r.PeanutCrumble,
		domain.ToppingMarshmallows:            &r.Marshmallows,
		domain.ToppingCinnamonDust:            &r.CinnamonDust,
		domain.ToppingHoney:                   &r.Honey,
		domain.ToppingMintLeaves:              &r.MintLeaves,
	}
}

func toOrderItemRecord(item domain.OrderItem) orderItemRecord {
	rec := orderItemRecord{
		ID:         item.ID,
		OrderID:    item.OrderID,
		MenuItemID: item.MenuItemID,
		Quantity:   item.Quantity,
		SugarLevel: item.SugarLevel,
		IceLevel:   item.IceLevel,
		MilkType:   item.MilkType,
	}
	columns := rec.toppingColumns()
	for topping, count := range item.Toppings {
		if col, ok := columns[topping]; ok {
			*col = count
		}
	}
	return rec
}

func (r orderItemRecord) toDomain() domain.OrderItem {
	item := domain.OrderItem{
		ID:         r.ID,
		OrderID:    r.OrderID,
		MenuItemID: r.MenuItemID,
		Quantity:   r.Quantity,
		Customization: domain.Customization{
			SugarLevel: r.SugarLevel,
			IceLevel:   r.IceLevel,
			MilkType:   r.MilkType,
		},
	}
	for topping, col := range r.toppingColumns() {
		if *col == 0 {
			continue
		}
		if item.Toppings == nil {
			item.Toppings = map[domain.Topping]int{}
		}
		item.Toppings[topping] = *col
	}
	return item
}
