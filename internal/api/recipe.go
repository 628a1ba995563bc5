package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/presenter"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/types"
)

type RecipeHandler struct {
	recipes       *service.RecipeService
	engagement    *service.EngagementService
	shoppingList  *service.ShoppingListService
	users         *service.UserService
	authService   middleware.TokenValidator
	presenter     *presenter.Presenter
	createLimiter *middleware.RateLimiter
}

func NewRecipeHandler(
	recipes *service.RecipeService,
	engagement *service.EngagementService,
	shoppingList *service.ShoppingListService,
	users *service.UserService,
	authService middleware.TokenValidator,
	presenter *presenter.Presenter,
	createLimiter *middleware.RateLimiter,
) *RecipeHandler {
	return &RecipeHandler{
		recipes:       recipes,
		engagement:    engagement,
		shoppingList:  shoppingList,
		users:         users,
		authService:   authService,
		presenter:     presenter,
		createLimiter: createLimiter,
	}
}

func (h *RecipeHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := middleware.AuthMiddleware(h.authService)
	optionalAuth := middleware.OptionalAuthMiddleware(h.authService)

	create := []gin.HandlerFunc{auth}
	if h.createLimiter != nil {
		create = append(create, h.createLimiter.RateLimitMiddleware())
	}
	create = append(create, h.CreateRecipe)

	recipes := router.Group("/recipes")
	{
		recipes.GET("", optionalAuth, h.ListRecipes)
		recipes.GET("/download_shopping_cart", auth, h.DownloadShoppingCart)
		recipes.GET("/:id", optionalAuth, h.GetRecipe)
		recipes.POST("", create...)
		recipes.PATCH("/:id", auth, h.UpdateRecipe)
		recipes.DELETE("/:id", auth, h.DeleteRecipe)
		recipes.POST("/:id/favorite", auth, h.FavoriteRecipe)
		recipes.DELETE("/:id/favorite", auth, h.UnfavoriteRecipe)
		recipes.POST("/:id/shopping_cart", auth, h.AddToShoppingCart)
		recipes.DELETE("/:id/shopping_cart", auth, h.RemoveFromShoppingCart)
	}
}

func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	viewer := middleware.Viewer(c)

	filter := service.RecipeFilter{
		TagSlugs: c.QueryArray("tags"),
		Query:    c.Query("q"),
		Page:     intQuery(c, "page", 1),
		Limit:    intQuery(c, "limit", 0),
	}
	if author := c.Query("author"); author != "" {
		authorID, err := uuid.Parse(author)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid author id"})
			return
		}
		filter.AuthorID = &authorID
	}
	// Viewer-relative filters are meaningless for anonymous requests and
	// are ignored there, matching the public listing behavior.
	if viewer != nil {
		if boolQuery(c, "is_favorited") {
			filter.FavoritedBy = viewer
		}
		if boolQuery(c, "is_in_shopping_cart") {
			filter.InCartOf = viewer
		}
	}

	recipes, count, err := h.recipes.List(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	views, err := h.presenter.Recipes(c.Request.Context(), recipes, viewer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.PagedResponse{Count: count, Results: views})
}

func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipeID, ok := recipeParam(c)
	if !ok {
		return
	}

	recipe, err := h.recipes.Get(c.Request.Context(), recipeID)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.presenter.Recipe(c.Request.Context(), recipe, middleware.Viewer(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	viewer := middleware.Viewer(c)
	recipe, err := h.recipes.Create(c.Request.Context(), *viewer, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.presenter.Recipe(c.Request.Context(), recipe, viewer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	recipeID, ok := recipeParam(c)
	if !ok {
		return
	}

	var req types.RecipeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	viewer := middleware.Viewer(c)
	actor, err := h.users.Get(c.Request.Context(), *viewer)
	if err != nil {
		respondError(c, err)
		return
	}

	recipe, err := h.recipes.Update(c.Request.Context(), recipeID, actor, &req)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.presenter.Recipe(c.Request.Context(), recipe, viewer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	recipeID, ok := recipeParam(c)
	if !ok {
		return
	}

	viewer := middleware.Viewer(c)
	actor, err := h.users.Get(c.Request.Context(), *viewer)
	if err != nil {
		respondError(c, err)
		return
	}

	if err := h.recipes.Delete(c.Request.Context(), recipeID, actor); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) FavoriteRecipe(c *gin.Context) {
	recipeID, ok := recipeParam(c)
	if !ok {
		return
	}

	viewer := middleware.Viewer(c)
	recipe, err := h.engagement.AddFavorite(c.Request.Context(), *viewer, recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.presenter.ShortRecipe(recipe))
}

func (h *RecipeHandler) UnfavoriteRecipe(c *gin.Context) {
	recipeID, ok := recipeParam(c)
	if !ok {
		return
	}

	viewer := middleware.Viewer(c)
	if err := h.engagement.RemoveFavorite(c.Request.Context(), *viewer, recipeID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) AddToShoppingCart(c *gin.Context) {
	recipeID, ok := recipeParam(c)
	if !ok {
		return
	}

	viewer := middleware.Viewer(c)
	recipe, err := h.engagement.AddToCart(c.Request.Context(), *viewer, recipeID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, h.presenter.ShortRecipe(recipe))
}

func (h *RecipeHandler) RemoveFromShoppingCart(c *gin.Context) {
	recipeID, ok := recipeParam(c)
	if !ok {
		return
	}

	viewer := middleware.Viewer(c)
	if err := h.engagement.RemoveFromCart(c.Request.Context(), *viewer, recipeID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *RecipeHandler) DownloadShoppingCart(c *gin.Context) {
	viewer := middleware.Viewer(c)
	user, err := h.users.Get(c.Request.Context(), *viewer)
	if err != nil {
		respondError(c, err)
		return
	}

	items, err := h.shoppingList.Aggregate(c.Request.Context(), user.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	doc := h.shoppingList.Render(user.Username, items, time.Now())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", h.shoppingList.Filename(user.Username)))
	c.Data(http.StatusOK, "text/plain; charset=utf-8", doc)
}

func recipeParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return uuid.Nil, false
	}
	return id, true
}

func intQuery(c *gin.Context, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n := 0
	if _, err := fmt.Sscanf(v, "%d", &n); err != nil {
		return fallback
	}
	return n
}

func boolQuery(c *gin.Context, key string) bool {
	v := c.Query(key)
	return v == "1" || v == "true"
}
