package models

import (
	"time"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type Recipe struct {
	ID          uuid.UUID          `gorm:"type:varchar(36);primarykey" json:"id"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
	AuthorID    uuid.UUID          `gorm:"type:varchar(36);not null;index" json:"author_id"`
	Author      User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	Name        string             `gorm:"size:200;not null" json:"name"`
	ImageURL    string             `gorm:"size:255" json:"image"`
	Text        string             `gorm:"type:text;not null" json:"text"`
	CookingTime int                `gorm:"not null;check:cooking_time >= 1" json:"cooking_time"`
	Embedding   pgvector.Vector    `gorm:"type:vector(3)" json:"-"`
	Ingredients []RecipeIngredient `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE" json:"-"`
}

func (r *Recipe) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// RecipeIngredient carries the per-line amount. A recipe cannot list the
// same ingredient twice; the composite index enforces that under
// concurrent writes.
type RecipeIngredient struct {
	ID           uint       `gorm:"primarykey" json:"-"`
	RecipeID     uuid.UUID  `gorm:"type:varchar(36);not null;uniqueIndex:idx_recipe_ingredient_pair" json:"-"`
	IngredientID uint       `gorm:"not null;uniqueIndex:idx_recipe_ingredient_pair" json:"ingredient_id"`
	Ingredient   Ingredient `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	Amount       int        `gorm:"not null;check:amount >= 1" json:"amount"`
}
