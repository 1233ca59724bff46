package domain

// Topping identifies one of the add-ins an order item can carry.
type Topping string

const (
	ToppingBoba                    Topping = "boba"
	ToppingLycheeJelly             Topping = "lychee_jelly"
	ToppingGrassJelly              Topping = "grass_jelly"
	ToppingPudding                 Topping = "pudding"
	ToppingAloeVera                Topping = "aloe_vera"
	ToppingRedBean                 Topping = "red_bean"
	ToppingCoffeeJelly             Topping = "coffee_jelly"
	ToppingCoconutJelly            Topping = "coconut_jelly"
	ToppingChiaSeeds               Topping = "chia_seeds"
	ToppingTaroBalls               Topping = "taro_balls"
	ToppingMangoStars              Topping = "mango_stars"
	ToppingRainbowJelly            Topping = "rainbow_jelly"
	ToppingCrystalBoba             Topping = "crystal_boba"
	ToppingCheeseFoam              Topping = "cheese_foam"
	ToppingWhippedCream            Topping = "whipped_cream"
	ToppingOreoCrumbs              Topping = "oreo_crumbs"
	ToppingCaramelDrizzle          Topping = "caramel_drizzle"
	ToppingMatchaFoam              Topping = "matcha_foam"
	ToppingStrawberryPoppingBoba   Topping = "strawberry_popping_boba"
	ToppingMangoPoppingBoba        Topping = "mango_popping_boba"
	ToppingBlueberryPoppingBoba    Topping = "blueberry_popping_boba"
	ToppingPassionfruitPoppingBoba Topping = "passionfruit_popping_boba"
	ToppingChocolateChips          Topping = "chocolate_chips"
	ToppingPeanutCrumble           Topping = "peanut_crumble"
	ToppingMarshmallows            Topping = "marshmallows"
	ToppingCinnamonDust            Topping = "cinnamon_dust"
	ToppingHoney                   Topping = "honey"
	ToppingMintLeaves              Topping = "mint_leaves"
)

// Toppings lists every known topping in menu order.
var Toppings = []Topping{
	ToppingBoba, ToppingLycheeJelly, ToppingGrassJelly, ToppingPudding, ToppingAloeVera,
	ToppingRedBean, ToppingCoffeeJelly, ToppingCoconutJelly, ToppingChiaSeeds, ToppingTaroBalls,
	ToppingMangoStars, ToppingRainbowJelly, ToppingCrystalBoba, ToppingCheeseFoam, ToppingWhippedCream,
	ToppingOreoCrumbs, ToppingCaramelDrizzle, ToppingMatchaFoam, ToppingStrawberryPoppingBoba,
	ToppingMangoPoppingBoba, ToppingBlueberryPoppingBoba, ToppingPassionfruitPoppingBoba,
	ToppingChocolateChips, ToppingPeanutCrumble, ToppingMarshmallows, ToppingCinnamonDust,
	ToppingHoney, ToppingMintLeaves,
}

func (t Topping) Valid() bool {
	for _, known := range Toppings {
		if t == known {
			return true
		}
	}
	return false
}

const (
	DefaultSugarLevel = 50
	DefaultIceLevel   = 2
	DefaultMilkType   = "Regular"

	MaxSugarLevel = 100
	MaxIceLevel   = 3
)

// Customization holds the per-drink preparation options.
type Customization struct {
	SugarLevel int
	IceLevel   int
	MilkType   string
	// Toppings maps a topping to its count; absent toppings count as zero.
	Toppings map[Topping]int
}

// DefaultCustomization mirrors the register defaults: half sugar, regular ice, regular milk.
func DefaultCustomization() Customization {
	return Customization{
		SugarLevel: DefaultSugarLevel,
		IceLevel:   DefaultIceLevel,
		MilkType:   DefaultMilkType,
	}
}

func (c Customization) Validate() error {
	if c.SugarLevel < 0 || c.SugarLevel > MaxSugarLevel {
		return ErrInvalidSugarLevel
	}
	if c.IceLevel < 0 || c.IceLevel > MaxIceLevel {
		return ErrInvalidIceLevel
	}
	for topping, count := range c.Toppings {
		if !topping.Valid() {
			return ErrInvalidTopping
		}
		if count < 0 {
			return ErrNegativeToppingCount
		}
	}
	return nil
}

// ToppingCount returns the count for a topping, zero when absent.
func (c Customization) ToppingCount(t Topping) int {
	return c.Toppings[t]
}

func (c Customization) Clone() Customization {
	var toppings map[Topping]int
	for k, v := range c.Toppings {
		if v == 0 {
			continue
		}
		if toppings == nil {
			toppings = make(map[Topping]int, len(c.Toppings))
		}
		toppings[k] = v
	}
	c.Toppings = toppings
	return c
}
