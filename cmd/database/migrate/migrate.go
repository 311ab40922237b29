package migration

import (
	"fmt"

	"Kitchen-Backend/entities"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

// case-insensitive uniqueness that works on both postgres and sqlite
var caseInsensitiveIndexes = []struct {
	name, table, column string
}{
	{"idx_users_handler_lower", "users", "handler"},
	{"idx_units_name_lower", "units", "name"},
	{"idx_units_abbreviation_lower", "units", "abbreviation"},
	{"idx_manufacturers_name_lower", "manufacturers", "name"},
	{"idx_appliance_types_name_lower", "appliance_types", "name"},
}

func Migrate(db *gorm.DB) error {
	models := []struct {
		name  string
		model any
	}{
		{"user", &entities.User{}},
		{"ingredient", &entities.Ingredient{}},
		{"unit", &entities.Unit{}},
		{"manufacturer", &entities.Manufacturer{}},
		{"appliance type", &entities.ApplianceType{}},
		{"appliance", &entities.Appliance{}},
		{"recipe", &entities.Recipe{}},
		{"instruction", &entities.Instruction{}},
		{"recipe ingredient", &entities.RecipeIngredient{}},
	}
	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			return fmt.Errorf("error migrating %s table: %w", m.name, err)
		}
	}

	for _, idx := range caseInsensitiveIndexes {
		stmt := fmt.Sprintf("CREATE UNIQUE INDEX IF NOT EXISTS %s ON %s (LOWER(%s))", idx.name, idx.table, idx.column)
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("error creating index %s: %w", idx.name, err)
		}
	}

	log.Info("Database migration complete")
	return nil
}
