package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ShoppingListService aggregates the ingredient lines of every recipe in
// a user's cart into one shopping list.
type ShoppingListService struct {
	db *gorm.DB
}

func NewShoppingListService(db *gorm.DB) *ShoppingListService {
	return &ShoppingListService{db: db}
}

// ShoppingListItem is one aggregated group: ingredient identity is the
// (name, measurement unit) pair, so two catalog rows with the same name
// and unit merge into a single line.
type ShoppingListItem struct {
	Name            string
	MeasurementUnit string
	Total           int64
}

// Aggregate sums ingredient amounts across the user's cart, grouped by
// ingredient identity and ordered by name. An empty cart yields an empty
// slice, not an error.
func (s *ShoppingListService) Aggregate(ctx context.Context, userID uuid.UUID) ([]ShoppingListItem, error) {
	var items []ShoppingListItem
	err := s.db.WithContext(ctx).
		Table("recipe_ingredients").
		Select("ingredients.name AS name, ingredients.measurement_unit AS measurement_unit, SUM(recipe_ingredients.amount) AS total").
		Joins("JOIN ingredients ON ingredients.id = recipe_ingredients.ingredient_id").
		Joins("JOIN shopping_carts ON shopping_carts.recipe_id = recipe_ingredients.recipe_id").
		Where("shopping_carts.user_id = ?", userID).
		Group("ingredients.name, ingredients.measurement_unit").
		Order("ingredients.name ASC").
		Scan(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// Render formats the aggregated list as the downloadable UTF-8 text
// document.
func (s *ShoppingListService) Render(username string, items []ShoppingListItem, now time.Time) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "Shopping list for %s\n\n", username)
	fmt.Fprintf(&b, "Date: %s\n\n", now.Format("2006-01-02"))
	for _, item := range items {
		fmt.Fprintf(&b, "- %s (%s) - %d\n", item.Name, item.MeasurementUnit, item.Total)
	}
	fmt.Fprintf(&b, "\nPlatefeed (%d)\n", now.Year())
	return []byte(b.String())
}

// Filename derives the attachment name from the username.
func (s *ShoppingListService) Filename(username string) string {
	return username + "_shopping_list.txt"
}
