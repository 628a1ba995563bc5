package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/platefeed/backend/internal/presenter"
	"github.com/platefeed/backend/internal/service"
	"github.com/platefeed/backend/internal/types"
)

type TagHandler struct {
	tags      *service.TagService
	presenter *presenter.Presenter
}

func NewTagHandler(tags *service.TagService, presenter *presenter.Presenter) *TagHandler {
	return &TagHandler{
		tags:      tags,
		presenter: presenter,
	}
}

func (h *TagHandler) RegisterRoutes(router *gin.RouterGroup) {
	tags := router.Group("/tags")
	{
		tags.GET("", h.ListTags)
		tags.GET("/:id", h.GetTag)
	}
}

func (h *TagHandler) ListTags(c *gin.Context) {
	tags, err := h.tags.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]types.TagView, 0, len(tags))
	for i := range tags {
		views = append(views, h.presenter.Tag(&tags[i]))
	}
	c.JSON(http.StatusOK, views)
}

func (h *TagHandler) GetTag(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}

	tag, err := h.tags.Get(c.Request.Context(), uint(id))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.presenter.Tag(tag))
}
