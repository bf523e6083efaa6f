package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/booklytrip/booking/internal/domain"
	"github.com/booklytrip/booking/internal/repository"
	"github.com/gin-gonic/gin"
)

// RulesCache invalidates cached rule lists after administrative changes.
type RulesCache interface {
	InvalidateMarkups(ctx context.Context, project string) error
}

// MarkupHandler exposes the administrative API for pricing rules.
type MarkupHandler struct {
	markups repository.MarkupRepository
	cache   RulesCache
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

func NewMarkupHandler(markups repository.MarkupRepository, cache RulesCache) *MarkupHandler {
	return &MarkupHandler{markups: markups, cache: cache}
}

func (h *MarkupHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.POST("/", h.create)
	router.PUT("/order", h.reorder)
	router.PUT("/:id", h.update)
	router.DELETE("/:id", h.delete)
}

func (h *MarkupHandler) list(c *gin.Context) {
	rules, err := h.markups.List(c.Request.Context(), c.Param("project"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rules)
}

func (h *MarkupHandler) create(c *gin.Context) {
	var rule domain.Markup
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rule.Project = c.Param("project")

	if err := h.markups.Create(c.Request.Context(), &rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.invalidate(c, rule.Project)
	c.JSON(http.StatusCreated, rule)
}

func (h *MarkupHandler) update(c *gin.Context) {
	var rule domain.Markup
	if err := c.ShouldBindJSON(&rule); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rule.Project = c.Param("project")
	rule.ID = c.Param("id")

	if err := h.markups.Update(c.Request.Context(), &rule); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, repository.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	h.invalidate(c, rule.Project)
	c.JSON(http.StatusOK, rule)
}

func (h *MarkupHandler) delete(c *gin.Context) {
	project := c.Param("project")
	if err := h.markups.Delete(c.Request.Context(), project, c.Param("id")); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, repository.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	h.invalidate(c, project)
	c.Status(http.StatusNoContent)
}

// reorder rewrites rule priorities to follow the submitted id order.
func (h *MarkupHandler) reorder(c *gin.Context) {
	var req reorderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	project := c.Param("project")
	if err := h.markups.Reorder(c.Request.Context(), project, req.IDs); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, repository.ErrNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	h.invalidate(c, project)
	c.Status(http.StatusNoContent)
}

func (h *MarkupHandler) invalidate(c *gin.Context, project string) {
	if h.cache == nil {
		return
	}
	_ = h.cache.InvalidateMarkups(c.Request.Context(), project)
}
