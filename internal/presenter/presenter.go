// Package presenter shapes entities into read-only response views.
// Every shaping function takes the viewer identity explicitly; the
// viewer-relative booleans (is_favorited, is_in_shopping_cart,
// is_subscribed) are always false for an anonymous viewer.
package presenter

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/types"
)

type Presenter struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Presenter {
	return &Presenter{db: db}
}

// Tag shapes a tag.
func (p *Presenter) Tag(tag *models.Tag) types.TagView {
	return types.TagView{
		ID:    tag.ID,
		Name:  tag.Name,
		Color: tag.Color,
		Slug:  tag.Slug,
	}
}

// Ingredient shapes a catalog ingredient.
func (p *Presenter) Ingredient(ing *models.Ingredient) types.IngredientView {
	return types.IngredientView{
		ID:              ing.ID,
		Name:            ing.Name,
		MeasurementUnit: ing.MeasurementUnit,
	}
}

// User shapes a user profile relative to the viewer.
func (p *Presenter) User(ctx context.Context, user *models.User, viewer *uuid.UUID) (types.UserView, error) {
	view := types.UserView{
		ID:        user.ID,
		Email:     user.Email,
		Username:  user.Username,
		FirstName: user.FirstName,
		LastName:  user.LastName,
	}

	if viewer != nil {
		subscribed, err := p.exists(ctx, &models.Subscription{}, "user_id = ? AND author_id = ?", *viewer, user.ID)
		if err != nil {
			return types.UserView{}, err
		}
		view.IsSubscribed = subscribed
	}
	return view, nil
}

// Recipe shapes a fully loaded recipe relative to the viewer. The recipe
// must have Tags, Ingredients (with Ingredient) and Author preloaded.
func (p *Presenter) Recipe(ctx context.Context, recipe *models.Recipe, viewer *uuid.UUID) (types.RecipeView, error) {
	author, err := p.User(ctx, &recipe.Author, viewer)
	if err != nil {
		return types.RecipeView{}, err
	}

	tags := make([]types.TagView, 0, len(recipe.Tags))
	for i := range recipe.Tags {
		tags = append(tags, p.Tag(&recipe.Tags[i]))
	}

	ingredients := make([]types.RecipeIngredientView, 0, len(recipe.Ingredients))
	for _, line := range recipe.Ingredients {
		ingredients = append(ingredients, types.RecipeIngredientView{
			ID:              line.IngredientID,
			Name:            line.Ingredient.Name,
			MeasurementUnit: line.Ingredient.MeasurementUnit,
			Amount:          line.Amount,
		})
	}

	view := types.RecipeView{
		ID:          recipe.ID,
		Tags:        tags,
		Author:      author,
		Ingredients: ingredients,
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		Text:        recipe.Text,
		CookingTime: recipe.CookingTime,
	}

	if viewer != nil {
		favorited, err := p.exists(ctx, &models.Favorite{}, "user_id = ? AND recipe_id = ?", *viewer, recipe.ID)
		if err != nil {
			return types.RecipeView{}, err
		}
		inCart, err := p.exists(ctx, &models.ShoppingCart{}, "user_id = ? AND recipe_id = ?", *viewer, recipe.ID)
		if err != nil {
			return types.RecipeView{}, err
		}
		view.IsFavorited = favorited
		view.IsInShoppingCart = inCart
	}
	return view, nil
}

// Recipes shapes a list of recipes.
func (p *Presenter) Recipes(ctx context.Context, recipes []models.Recipe, viewer *uuid.UUID) ([]types.RecipeView, error) {
	views := make([]types.RecipeView, 0, len(recipes))
	for i := range recipes {
		view, err := p.Recipe(ctx, &recipes[i], viewer)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// ShortRecipe shapes the condensed recipe view used for embedding.
func (p *Presenter) ShortRecipe(recipe *models.Recipe) types.ShortRecipeView {
	return types.ShortRecipeView{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}
}

// Subscription shapes a followed author with a capped recipe preview.
// recipesLimit caps the embedded previews (0 means no cap) while
// RecipesCount always reports the author's true total.
func (p *Presenter) Subscription(ctx context.Context, author *models.User, viewer *uuid.UUID, recipesLimit int) (types.SubscriptionView, error) {
	user, err := p.User(ctx, author, viewer)
	if err != nil {
		return types.SubscriptionView{}, err
	}

	var count int64
	if err := p.db.WithContext(ctx).Model(&models.Recipe{}).Where("author_id = ?", author.ID).Count(&count).Error; err != nil {
		return types.SubscriptionView{}, err
	}

	query := p.db.WithContext(ctx).
		Where("author_id = ?", author.ID).
		Order("created_at DESC")
	if recipesLimit > 0 {
		query = query.Limit(recipesLimit)
	}

	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return types.SubscriptionView{}, err
	}

	previews := make([]types.ShortRecipeView, 0, len(recipes))
	for i := range recipes {
		previews = append(previews, p.ShortRecipe(&recipes[i]))
	}

	return types.SubscriptionView{
		UserView:     user,
		Recipes:      previews,
		RecipesCount: count,
	}, nil
}

// Subscriptions shapes the subscription listing.
func (p *Presenter) Subscriptions(ctx context.Context, authors []models.User, viewer *uuid.UUID, recipesLimit int) ([]types.SubscriptionView, error) {
	views := make([]types.SubscriptionView, 0, len(authors))
	for i := range authors {
		view, err := p.Subscription(ctx, &authors[i], viewer, recipesLimit)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

func (p *Presenter) exists(ctx context.Context, model interface{}, query string, args ...interface{}) (bool, error) {
	var count int64
	if err := p.db.WithContext(ctx).Model(model).Where(query, args...).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
