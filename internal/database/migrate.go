package database

import (
	"log"

	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// AutoMigrate creates the schema through gorm. Used for sqlite and for
// test databases; postgres deployments run the SQL files in migrations/
// through cmd/migrate instead.
func AutoMigrate(db *gorm.DB) error {
	log.Printf("Running gorm auto-migration")
	return db.AutoMigrate(
		&models.User{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.Favorite{},
		&models.ShoppingCart{},
		&models.Subscription{},
	)
}
