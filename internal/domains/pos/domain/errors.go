package domain

import (
	"errors"
	"fmt"
)

// ErrValidation is wrapped by every invariant violation in this package.
var ErrValidation = errors.New("validation failed")

func invariant(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

var (
	ErrInvalidID            = invariant("id must not be negative")
	ErrEmptyCategory        = invariant("drink category must not be empty")
	ErrEmptyMenuItemName    = invariant("menu item name must not be empty")
	ErrNegativePrice        = invariant("price must not be negative")
	ErrEmptyIngredientName  = invariant("ingredient name must not be empty")
	ErrNegativeCount        = invariant("ingredient count must not be negative")
	ErrEmptyEmployeeName    = invariant("employee name must not be empty")
	ErrEmptyEmployeeRole    = invariant("employee role must not be empty")
	ErrNegativeHours        = invariant("hours worked must not be negative")
	ErrInvalidEmployeeID    = invariant("employee id must be greater than zero")
	ErrInvalidCustomerID    = invariant("customer id must be greater than zero when present")
	ErrNegativeTotalCost    = invariant("total cost must not be negative")
	ErrInvalidWeek          = invariant("order week must be between 1 and 53")
	ErrMissingTimestamp     = invariant("order timestamp must be set")
	ErrNoItems              = invariant("an order needs at least one item")
	ErrInvalidMenuItemID    = invariant("menu item id must be greater than zero")
	ErrInvalidQuantity      = invariant("quantity must be greater than zero")
	ErrInvalidSugarLevel    = invariant("sugar level must be between 0 and 100")
	ErrInvalidIceLevel      = invariant("ice level must be between 0 and 3")
	ErrInvalidTopping       = invariant("unknown topping")
	ErrNegativeToppingCount = invariant("topping count must not be negative")
)

// IsValidation reports whether err is an entity invariant violation.
func IsValidation(err error) bool {
	return errors.Is(err, ErrValidation)
}
