package service

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

type IngredientService struct {
	db *gorm.DB
}

func NewIngredientService(db *gorm.DB) *IngredientService {
	return &IngredientService{db: db}
}

// List returns ingredients, optionally narrowed by a case-insensitive
// name prefix.
func (s *IngredientService) List(ctx context.Context, search string) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).Order("name ASC")
	if search != "" {
		query = query.Where("LOWER(name) LIKE ?", strings.ToLower(search)+"%")
	}

	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, err
	}
	return ingredients, nil
}

// Get loads an ingredient by id.
func (s *IngredientService) Get(ctx context.Context, id uint) (*models.Ingredient, error) {
	var ingredient models.Ingredient
	if err := s.db.WithContext(ctx).First(&ingredient, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &ingredient, nil
}
