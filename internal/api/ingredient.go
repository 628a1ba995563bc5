package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/platefeed/backend/internal/presenter"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/types"
)

type IngredientHandler struct {
	ingredients *service.IngredientService
	presenter   *presenter.Presenter
}

func NewIngredientHandler(ingredients *service.IngredientService, presenter *presenter.Presenter) *IngredientHandler {
	return &IngredientHandler{
		ingredients: ingredients,
		presenter:   presenter,
	}
}

func (h *IngredientHandler) RegisterRoutes(router *gin.RouterGroup) {
	ingredients := router.Group("/ingredients")
	{
		ingredients.GET("", h.ListIngredients)
		ingredients.GET("/:id", h.GetIngredient)
	}
}

func (h *IngredientHandler) ListIngredients(c *gin.Context) {
	ingredients, err := h.ingredients.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]types.IngredientView, 0, len(ingredients))
	for i := range ingredients {
		views = append(views, h.presenter.Ingredient(&ingredients[i]))
	}
	c.JSON(http.StatusOK, views)
}

func (h *IngredientHandler) GetIngredient(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	ingredient, err := h.ingredients.Get(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.presenter.Ingredient(ingredient))
}
