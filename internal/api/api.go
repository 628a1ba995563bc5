package api

import (
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/platefeed/backend/config"
	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/presenter"
	"github.com/platefeed/backend/internal/service"
)

// SetupAPI wires services, handlers and routes under /api/v1. The redis
// client is optional; without it recipe creation is not rate limited.
func SetupAPI(router *gin.Engine, db *gorm.DB, cfg *config.Config, images service.ImageStore, redisClient *redis.Client) {
	v1 := router.Group("/api/v1")
	{
		authService := service.NewAuthService(db, cfg.JWTSecret)
		userService := service.NewUserService(db)
		tagService := service.NewTagService(db)
		ingredientService := service.NewIngredientService(db)
		recipeService := service.NewRecipeService(db, images)
		engagementService := service.NewEngagementService(db)
		shoppingListService := service.NewShoppingListService(db)
		shaper := presenter.New(db)

		var createLimiter *middleware.RateLimiter
		if redisClient != nil {
			createLimiter = middleware.NewRecipeCreationRateLimiter(redisClient)
		}

		tagHandler := NewTagHandler(tagService, shaper)
		ingredientHandler := NewIngredientHandler(ingredientService, shaper)
		recipeHandler := NewRecipeHandler(
			recipeService, engagementService, shoppingListService,
			userService, authService, shaper, createLimiter,
		)
		userHandler := NewUserHandler(authService, userService, engagementService, shaper)

		tagHandler.RegisterRoutes(v1)
		ingredientHandler.RegisterRoutes(v1)
		recipeHandler.RegisterRoutes(v1)
		userHandler.RegisterRoutes(v1)
	}
}
