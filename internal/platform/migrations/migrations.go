package migrations

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	pospostgres "github.com/Apurer/boba-pos/internal/domains/pos/adapters/persistence/postgres"
	"github.com/Apurer/boba-pos/internal/domains/pos/sampledata"
)

// foreignKeys ties order items to their order and menu item. AutoMigrate only
// creates constraints for declared associations, so these are applied by hand.
var foreignKeys = []struct {
	name, table, ddl string
}{
	{
		name:  "fk_orderitems_order",
		table: "orderitems",
		ddl:   "FOREIGN KEY (orderid) REFERENCES orders(orderid) ON DELETE CASCADE",
	},
	{
		name:  "fk_orderitems_menuitem",
		table: "orderitems",
		ddl:   "FOREIGN KEY (menuitemid) REFERENCES menuitems(menuitemid)",
	},
}

// Run applies the schema for the five point-of-sale tables. Safe to run repeatedly.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	if err := pospostgres.AutoMigrate(db); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	for _, fk := range foreignKeys {
		var exists bool
		if err := db.Raw("SELECT EXISTS (SELECT 1 FROM pg_constraint WHERE conname = ?)", fk.name).Scan(&exists).Error; err != nil {
			return fmt.Errorf("inspect %s: %w", fk.name, err)
		}
		if exists {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD CONSTRAINT %s %s", fk.table, fk.name, fk.ddl)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("add %s: %w", fk.name, err)
		}
	}
	return nil
}

// Seed loads the standard sample rows, with orders placed relative to now.
// Only empty tables are filled and the whole load is one transaction.
func Seed(ctx context.Context, db *gorm.DB, now time.Time) error {
	if db == nil {
		return nil
	}
	return pospostgres.NewStore(db).Import(ctx, sampledata.New(now))
}
