package service

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
)

// EngagementService manages the membership relations: favourites,
// shopping-cart entries and subscriptions. Every relation is a
// uniqueness-constrained join row with add/remove semantics; a repeated
// add fails rather than silently succeeding, and removing an absent row
// is an error.
type EngagementService struct {
	db *gorm.DB
}

func NewEngagementService(db *gorm.DB) *EngagementService {
	return &EngagementService{db: db}
}

// AddFavorite marks a recipe as favourited and returns it for shaping.
func (s *EngagementService) AddFavorite(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	fav := models.Favorite{UserID: userID, RecipeID: recipeID}
	if err := s.db.WithContext(ctx).Create(&fav).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, Validationf("recipe is already in favorites")
		}
		return nil, err
	}
	return recipe, nil
}

// RemoveFavorite deletes the membership row. Removing a recipe that is
// not favourited is a domain error, not a 404.
func (s *EngagementService) RemoveFavorite(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := s.findRecipe(ctx, recipeID); err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.Favorite{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return Validationf("recipe is not in favorites")
	}
	return nil
}

// AddToCart puts a recipe into the user's shopping cart.
func (s *EngagementService) AddToCart(ctx context.Context, userID, recipeID uuid.UUID) (*models.Recipe, error) {
	recipe, err := s.findRecipe(ctx, recipeID)
	if err != nil {
		return nil, err
	}

	entry := models.ShoppingCart{UserID: userID, RecipeID: recipeID}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, Validationf("recipe is already in the shopping cart")
		}
		return nil, err
	}
	return recipe, nil
}

// RemoveFromCart deletes the cart row.
func (s *EngagementService) RemoveFromCart(ctx context.Context, userID, recipeID uuid.UUID) error {
	if _, err := s.findRecipe(ctx, recipeID); err != nil {
		return err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Delete(&models.ShoppingCart{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return Validationf("recipe is not in the shopping cart")
	}
	return nil
}

// Subscribe follows an author and returns the author for shaping.
func (s *EngagementService) Subscribe(ctx context.Context, userID, authorID uuid.UUID) (*models.User, error) {
	if userID == authorID {
		return nil, Validationf("cannot subscribe to yourself")
	}

	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sub := models.Subscription{UserID: userID, AuthorID: authorID}
	if err := s.db.WithContext(ctx).Create(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, Validationf("already subscribed to this user")
		}
		return nil, err
	}
	return &author, nil
}

// Unsubscribe deletes the subscription row.
func (s *EngagementService) Unsubscribe(ctx context.Context, userID, authorID uuid.UUID) error {
	var author models.User
	if err := s.db.WithContext(ctx).First(&author, "id = ?", authorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}

	res := s.db.WithContext(ctx).
		Where("user_id = ? AND author_id = ?", userID, authorID).
		Delete(&models.Subscription{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return Validationf("not subscribed to this user")
	}
	return nil
}

// ListSubscriptions returns a page of authors the user follows, most
// recently followed first, with the total count.
func (s *EngagementService) ListSubscriptions(ctx context.Context, userID uuid.UUID, page, limit int) ([]models.User, int64, error) {
	base := s.db.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
		Where("subscriptions.user_id = ?", userID)

	var count int64
	if err := base.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	if limit <= 0 {
		limit = defaultPageLimit
	}

	var authors []models.User
	err := base.
		Order("subscriptions.created_at DESC").
		Offset(pageOffset(page, limit)).
		Limit(limit).
		Find(&authors).Error
	if err != nil {
		return nil, 0, err
	}
	return authors, count, nil
}

func (s *EngagementService) findRecipe(ctx context.Context, recipeID uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	if err := s.db.WithContext(ctx).First(&recipe, "id = ?", recipeID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}
