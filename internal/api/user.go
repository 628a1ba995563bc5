package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/platefeed/backend/internal/middleware"
	"github.com/platefeed/backend/internal/presenter"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/types"
)

type UserHandler struct {
	auth       *service.AuthService
	users      *service.UserService
	engagement *service.EngagementService
	presenter  *presenter.Presenter
}

func NewUserHandler(
	auth *service.AuthService,
	users *service.UserService,
	engagement *service.EngagementService,
	presenter *presenter.Presenter,
) *UserHandler {
	return &UserHandler{
		auth:       auth,
		users:      users,
		engagement: engagement,
		presenter:  presenter,
	}
}

func (h *UserHandler) RegisterRoutes(router *gin.RouterGroup) {
	authRequired := middleware.AuthMiddleware(h.auth)
	optionalAuth := middleware.OptionalAuthMiddleware(h.auth)

	users := router.Group("/users")
	{
		users.POST("", h.Register)
		users.GET("", optionalAuth, h.ListUsers)
		users.GET("/me", authRequired, h.Me)
		users.GET("/subscriptions", authRequired, h.ListSubscriptions)
		users.GET("/:id", optionalAuth, h.GetUser)
		users.POST("/:id/subscribe", authRequired, h.Subscribe)
		users.DELETE("/:id/subscribe", authRequired, h.Unsubscribe)
	}

	router.POST("/auth/token/login", h.Login)
}

func (h *UserHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.auth.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.presenter.User(c.Request.Context(), user, nil)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *UserHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"auth_token": token})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, count, err := h.users.List(c.Request.Context(), intQuery(c, "page", 1), intQuery(c, "limit", 10))
	if err != nil {
		respondError(c, err)
		return
	}

	viewer := middleware.Viewer(c)
	views := make([]types.UserView, 0, len(users))
	for i := range users {
		view, err := h.presenter.User(c.Request.Context(), &users[i], viewer)
		if err != nil {
			respondError(c, err)
			return
		}
		views = append(views, view)
	}
	c.JSON(http.StatusOK, types.PagedResponse{Count: count, Results: views})
}

func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := userParam(c)
	if !ok {
		return
	}

	user, err := h.users.Get(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.presenter.User(c.Request.Context(), user, middleware.Viewer(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) Me(c *gin.Context) {
	viewer := middleware.Viewer(c)
	user, err := h.users.Get(c.Request.Context(), *viewer)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.presenter.User(c.Request.Context(), user, viewer)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *UserHandler) Subscribe(c *gin.Context) {
	authorID, ok := userParam(c)
	if !ok {
		return
	}

	viewer := middleware.Viewer(c)
	author, err := h.engagement.Subscribe(c.Request.Context(), *viewer, authorID)
	if err != nil {
		respondError(c, err)
		return
	}

	view, err := h.presenter.Subscription(c.Request.Context(), author, viewer, intQuery(c, "recipes_limit", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *UserHandler) Unsubscribe(c *gin.Context) {
	authorID, ok := userParam(c)
	if !ok {
		return
	}

	viewer := middleware.Viewer(c)
	if err := h.engagement.Unsubscribe(c.Request.Context(), *viewer, authorID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *UserHandler) ListSubscriptions(c *gin.Context) {
	viewer := middleware.Viewer(c)
	authors, count, err := h.engagement.ListSubscriptions(
		c.Request.Context(), *viewer, intQuery(c, "page", 1), intQuery(c, "limit", 10),
	)
	if err != nil {
		respondError(c, err)
		return
	}

	views, err := h.presenter.Subscriptions(
		c.Request.Context(), authors, viewer, intQuery(c, "recipes_limit", 0),
	)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, types.PagedResponse{Count: count, Results: views})
}

func userParam(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return uuid.Nil, false
	}
	return id, true
}
