package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/platefeed/backend/internal/models"
	"github.com/platefeed/backend/internal/types"
)

const (
	defaultPageLimit = 10
	maxPageLimit     = 100
)

// RecipeService is the recipe composer: it validates and assembles
// recipes from submitted metadata, (ingredient, amount) pairs and tag
// references.
type RecipeService struct {
	db     *gorm.DB
	images ImageStore
}

func NewRecipeService(db *gorm.DB, images ImageStore) *RecipeService {
	return &RecipeService{
		db:     db,
		images: images,
	}
}

// RecipeFilter narrows a recipe listing. Pointer fields are inactive
// when nil.
type RecipeFilter struct {
	AuthorID    *uuid.UUID
	TagSlugs    []string
	FavoritedBy *uuid.UUID
	InCartOf    *uuid.UUID
	Query       string
	Page        int
	Limit       int
}

// Create persists a new recipe with its ingredient lines and tag set,
// then reads it back fully loaded.
func (s *RecipeService) Create(ctx context.Context, authorID uuid.UUID, req *types.RecipeRequest) (*models.Recipe, error) {
	if err := validateRecipeRequest(req); err != nil {
		return nil, err
	}

	ingredients, err := s.resolveIngredients(ctx, req.Ingredients)
	if err != nil {
		return nil, err
	}
	tags, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return nil, err
	}

	imageURL, err := s.storeImage(ctx, req.Image)
	if err != nil {
		return nil, err
	}

	recipe := models.Recipe{
		AuthorID:    authorID,
		Name:        req.Name,
		Text:        req.Text,
		ImageURL:    imageURL,
		CookingTime: req.CookingTime,
		Embedding:   GenerateEmbedding(req.Name + " " + req.Text),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&recipe).Error; err != nil {
			return err
		}
		return applyAssociations(tx, &recipe, ingredients, req.Ingredients, tags)
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, recipe.ID)
}

// Update replaces a recipe's scalar fields and association sets with the
// submitted payload. This is a full replace, not a merge: any ingredient
// or tag omitted from the payload is removed.
func (s *RecipeService) Update(ctx context.Context, id uuid.UUID, actor *models.User, req *types.RecipeRequest) (*models.Recipe, error) {
	recipe, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if recipe.AuthorID != actor.ID && !actor.IsAdmin {
		return nil, ErrPermissionDenied
	}

	if err := validateRecipeRequest(req); err != nil {
		return nil, err
	}

	ingredients, err := s.resolveIngredients(ctx, req.Ingredients)
	if err != nil {
		return nil, err
	}
	tags, err := s.resolveTags(ctx, req.Tags)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{
		"name":         req.Name,
		"text":         req.Text,
		"cooking_time": req.CookingTime,
		"embedding":    GenerateEmbedding(req.Name + " " + req.Text),
	}
	if req.Image != "" {
		imageURL, err := s.storeImage(ctx, req.Image)
		if err != nil {
			return nil, err
		}
		updates["image_url"] = imageURL
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Recipe{ID: recipe.ID}).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := applyAssociations(tx, recipe, ingredients, req.Ingredients, tags); err != nil {
			return err
		}
		return tx.Model(&models.Recipe{}).Where("id = ?", recipe.ID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	return s.Get(ctx, id)
}

// Get loads a recipe with its tags, ingredient lines and author.
func (s *RecipeService) Get(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	var recipe models.Recipe
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Preload("Ingredients").
		Preload("Ingredients.Ingredient").
		Preload("Author").
		First(&recipe, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

// List returns a page of recipes matching the filter, newest first,
// with the total match count.
func (s *RecipeService) List(ctx context.Context, f RecipeFilter) ([]models.Recipe, int64, error) {
	query := s.db.WithContext(ctx).Model(&models.Recipe{})

	if f.AuthorID != nil {
		query = query.Where("recipes.author_id = ?", *f.AuthorID)
	}
	if len(f.TagSlugs) > 0 {
		query = query.Where("recipes.id IN (?)", s.db.
			Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", f.TagSlugs))
	}
	if f.FavoritedBy != nil {
		query = query.Where("recipes.id IN (?)", s.db.
			Model(&models.Favorite{}).
			Select("recipe_id").
			Where("user_id = ?", *f.FavoritedBy))
	}
	if f.InCartOf != nil {
		query = query.Where("recipes.id IN (?)", s.db.
			Model(&models.ShoppingCart{}).
			Select("recipe_id").
			Where("user_id = ?", *f.InCartOf))
	}

	if f.Query != "" {
		if s.db.Dialector.Name() == "postgres" {
			vec := GenerateEmbedding(f.Query)
			query = query.Clauses(clause.OrderBy{
				Expression: clause.Expr{SQL: "embedding <-> ?", Vars: []interface{}{vec}},
			})
		} else {
			like := "%" + strings.ToLower(f.Query) + "%"
			query = query.Where("LOWER(recipes.name) LIKE ? OR LOWER(recipes.text) LIKE ?", like, like)
		}
	} else {
		query = query.Order("recipes.created_at DESC")
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return nil, 0, err
	}

	limit := f.Limit
	if limit <= 0 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}

	var recipes []models.Recipe
	err := query.
		Preload("Tags").
		Preload("Ingredients").
		Preload("Ingredients.Ingredient").
		Preload("Author").
		Offset(pageOffset(f.Page, limit)).
		Limit(limit).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, err
	}
	return recipes, count, nil
}

// Delete removes a recipe and its join rows.
func (s *RecipeService) Delete(ctx context.Context, id uuid.UUID, actor *models.User) error {
	recipe, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if recipe.AuthorID != actor.ID && !actor.IsAdmin {
		return ErrPermissionDenied
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("recipe_id = ?", id).Delete(&models.RecipeIngredient{}).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Recipe{ID: id}).Association("Tags").Clear(); err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", id).Delete(&models.ShoppingCart{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Recipe{}, "id = ?", id).Error
	})
}

func validateRecipeRequest(req *types.RecipeRequest) error {
	if req.CookingTime < 1 {
		return Validationf("cooking_time must be at least 1 minute")
	}
	if len(req.Ingredients) == 0 {
		return Validationf("at least one ingredient is required")
	}

	seen := make(map[uint]struct{}, len(req.Ingredients))
	for _, line := range req.Ingredients {
		if line.Amount < 1 {
			return Validationf("ingredient amount must be at least 1")
		}
		if _, dup := seen[line.ID]; dup {
			return Validationf("duplicate ingredient in recipe")
		}
		seen[line.ID] = struct{}{}
	}
	return nil
}

// resolveIngredients loads the referenced catalog rows. An unknown
// ingredient id is NotFound: the catalog is the authority being queried.
func (s *RecipeService) resolveIngredients(ctx context.Context, lines []types.RecipeIngredientRequest) (map[uint]models.Ingredient, error) {
	ids := make([]uint, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ID)
	}

	var found []models.Ingredient
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, err
	}

	byID := make(map[uint]models.Ingredient, len(found))
	for _, ing := range found {
		byID[ing.ID] = ing
	}
	for _, id := range ids {
		if _, ok := byID[id]; !ok {
			return nil, ErrNotFound
		}
	}
	return byID, nil
}

// resolveTags loads the referenced tags. An unknown tag id is a
// ValidationError: tag ids arrive as part of the submitted payload, so a
// bad one is malformed input.
func (s *RecipeService) resolveTags(ctx context.Context, ids []uint) ([]models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var tags []models.Tag
	if err := s.db.WithContext(ctx).Where("id IN ?", ids).Find(&tags).Error; err != nil {
		return nil, err
	}
	if len(tags) != len(ids) {
		return nil, Validationf("unknown tag id in request")
	}
	return tags, nil
}

func (s *RecipeService) storeImage(ctx context.Context, encoded string) (string, error) {
	if encoded == "" || s.images == nil {
		return "", nil
	}
	data, ext, err := ParseRecipeImage(encoded)
	if err != nil {
		return "", err
	}
	return s.images.Store(ctx, data, ext)
}

// applyAssociations bulk-inserts one ingredient line per pair and
// attaches the tag set. Callers clear previous associations first when
// updating.
func applyAssociations(tx *gorm.DB, recipe *models.Recipe, ingredients map[uint]models.Ingredient, lines []types.RecipeIngredientRequest, tags []models.Tag) error {
	rows := make([]models.RecipeIngredient, 0, len(lines))
	for _, line := range lines {
		rows = append(rows, models.RecipeIngredient{
			RecipeID:     recipe.ID,
			IngredientID: ingredients[line.ID].ID,
			Amount:       line.Amount,
		})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return err
	}

	if len(tags) > 0 {
		if err := tx.Model(&models.Recipe{ID: recipe.ID}).Association("Tags").Append(tags); err != nil {
			return err
		}
	}
	return nil
}
