package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/platefeed/backend/config"
	"github.com/platefeed/backend/internal/database"
	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/types"
)

// newTestDB opens an in-memory sqlite database with the full schema.
// Single connection: each sqlite :memory: connection is its own
// database.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		DBDriver:   "sqlite",
		SQLitePath: ":memory:",
	}
	db, err := database.New(cfg)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.AutoMigrate(db))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := models.User{
		Username:     username,
		Email:        username + "@example.com",
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()

	ing := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(&ing).Error)
	return &ing
}

func createTestTag(t *testing.T, db *gorm.DB, name, color, slug string) *models.Tag {
	t.Helper()

	tag := models.Tag{Name: name, Color: color, Slug: slug}
	require.NoError(t, db.Create(&tag).Error)
	return &tag
}

func createTestRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, lines []types.RecipeIngredientRequest, tagIDs []uint) *models.Recipe {
	t.Helper()

	svc := NewRecipeService(db, nil)
	recipe, err := svc.Create(context.Background(), author.ID, &types.RecipeRequest{
		Name:        name,
		Text:        "Instructions for " + name,
		CookingTime: 30,
		Ingredients: lines,
		Tags:        tagIDs,
	})
	require.NoError(t, err)
	return recipe
}
