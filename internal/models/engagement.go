package models

import (
	"time"

	"github.com/google/uuid"
)

// Favorite marks a recipe as favourited by a user. The composite unique
// index is the only arbiter between concurrent favourite requests for the
// same pair: one insert wins, the other fails on the constraint.
type Favorite struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorite_pair" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_favorite_pair" json:"recipe_id"`
	Recipe    Recipe    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// ShoppingCart marks a recipe as queued for the user's shopping list.
type ShoppingCart struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_pair" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	RecipeID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_cart_pair" json:"recipe_id"`
	Recipe    Recipe    `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}

// Subscription follows an author. Self-subscription is rejected at the
// service layer before the row is built.
type Subscription struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_subscription_pair" json:"user_id"`
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`
	AuthorID  uuid.UUID `gorm:"type:varchar(36);not null;uniqueIndex:idx_subscription_pair" json:"author_id"`
	Author    User      `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
