package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/multiblog/internal/model"
	"github.com/suteetoe/multiblog/internal/store"
	"github.com/suteetoe/multiblog/pkg/logger"
	"github.com/suteetoe/multiblog/prometheus"
	"go.uber.org/zap"
)

// recentPostLimit is the number of posts shown on the dashboard.
const recentPostLimit = 5

// AdminHandler manages a tenant's posts: CRUD, publish toggling and the
// dashboard. All of it runs behind the tenant guard.
type AdminHandler struct {
	posts      *store.PostStore
	categories *store.CategoryStore
}

// NewAdminHandler creates the admin post handler.
func NewAdminHandler(posts *store.PostStore, categories *store.CategoryStore) *AdminHandler {
	return &AdminHandler{posts: posts, categories: categories}
}

// PostRequest defines the structure for post creation/update requests.
// Any tenant_id in the payload is ignored; the store stamps the
// resolved tenant unconditionally.
type PostRequest struct {
	Title       string  `json:"title"`
	Summary     *string `json:"summary,omitempty"`
	Content     string  `json:"content"`
	Author      string  `json:"author"`
	IsPublished bool    `json:"is_published"`
	CategoryID  uint    `json:"category_id"`
	TenantID    uint    `json:"tenant_id,omitempty"`
}

// Dashboard returns the tenant's stats, recent posts and categories.
func (h *AdminHandler) Dashboard(c echo.Context) error {
	log := logger.FromEcho(c)

	t, ok := currentTenant(c)
	if !ok {
		log.Warn("Missing tenant in context")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}

	defer prometheus.TrackDBOperation("query")(time.Now())

	stats, err := h.posts.Stats(c.Request().Context(), t.ID)
	if err != nil {
		log.Error("Failed to compute stats", zap.Uint("tenant_id", t.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load dashboard"})
	}

	recent, err := h.posts.List(c.Request().Context(), t.ID, store.PostFilter{Limit: recentPostLimit})
	if err != nil {
		log.Error("Failed to list recent posts", zap.Uint("tenant_id", t.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load dashboard"})
	}

	categories, err := h.categories.List(c.Request().Context(), t.ID)
	if err != nil {
		log.Error("Failed to list categories", zap.Uint("tenant_id", t.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to load dashboard"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"stats":        stats,
		"recent_posts": recent,
		"categories":   categories,
	})
}

// Stats returns the tenant's content counts.
func (h *AdminHandler) Stats(c echo.Context) error {
	log := logger.FromEcho(c)

	t, ok := currentTenant(c)
	if !ok {
		log.Warn("Missing tenant in context")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}

	stats, err := h.posts.Stats(c.Request().Context(), t.ID)
	if err != nil {
		log.Error("Failed to compute stats", zap.Uint("tenant_id", t.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to compute stats"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"stats": stats,
		"tenant_info": echo.Map{
			"name":   t.Name,
			"domain": t.Domain,
			"theme":  t.Theme,
		},
	})
}

// ListPosts returns all of the tenant's posts, drafts included.
func (h *AdminHandler) ListPosts(c echo.Context) error {
	log := logger.FromEcho(c)

	t, ok := currentTenant(c)
	if !ok {
		log.Warn("Missing tenant in context")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}

	posts, err := h.posts.List(c.Request().Context(), t.ID, store.PostFilter{})
	if err != nil {
		log.Error("Failed to list posts", zap.Uint("tenant_id", t.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve posts"})
	}

	return c.JSON(http.StatusOK, posts)
}

// CreatePost stores a new post for the tenant.
func (h *AdminHandler) CreatePost(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordPostOperation("create")

	t, ok := currentTenant(c)
	if !ok {
		log.Warn("Missing tenant in context")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}

	var req PostRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse post request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Title == "" || req.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and content are required"})
	}

	post := model.BlogPost{
		Title:       req.Title,
		Summary:     req.Summary,
		Content:     req.Content,
		Author:      req.Author,
		IsPublished: req.IsPublished,
		CategoryID:  req.CategoryID,
		// TenantID from the payload is dropped here; the store stamps
		// the resolved tenant.
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if err := h.posts.Create(c.Request().Context(), t.ID, &post); err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "category not found"})
		}
		log.Error("Failed to create post",
			zap.Uint("tenant_id", t.ID),
			zap.String("title", req.Title),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "post creation failed"})
	}

	log.Info("Post created",
		zap.Uint("post_id", post.ID),
		zap.String("title", post.Title),
		zap.Uint("tenant_id", post.TenantID))

	return c.JSON(http.StatusCreated, post)
}

// GetPost returns one of the tenant's posts, drafts included.
func (h *AdminHandler) GetPost(c echo.Context) error {
	log := logger.FromEcho(c)

	t, ok := currentTenant(c)
	if !ok {
		log.Warn("Missing tenant in context")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}

	post, err := h.posts.Get(c.Request().Context(), t.ID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		log.Error("Failed to get post",
			zap.Uint("tenant_id", t.ID),
			zap.Uint("post_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve post"})
	}

	return c.JSON(http.StatusOK, post)
}

// UpdatePost applies changes to one of the tenant's posts.
func (h *AdminHandler) UpdatePost(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordPostOperation("update")

	t, ok := currentTenant(c)
	if !ok {
		log.Warn("Missing tenant in context")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}

	var req PostRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse post request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Title == "" || req.Content == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title and content are required"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	post, err := h.posts.Update(c.Request().Context(), t.ID, id, &model.BlogPost{
		Title:       req.Title,
		Summary:     req.Summary,
		Content:     req.Content,
		Author:      req.Author,
		IsPublished: req.IsPublished,
		CategoryID:  req.CategoryID,
	})
	if err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		case errors.Is(err, store.ErrCategoryNotFound):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "category not found"})
		}
		log.Error("Failed to update post",
			zap.Uint("tenant_id", t.ID),
			zap.Uint("post_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "post update failed"})
	}

	log.Info("Post updated",
		zap.Uint("post_id", post.ID),
		zap.Uint("tenant_id", post.TenantID))

	return c.JSON(http.StatusOK, post)
}

// DeletePost removes one of the tenant's posts.
func (h *AdminHandler) DeletePost(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordPostOperation("delete")

	t, ok := currentTenant(c)
	if !ok {
		log.Warn("Missing tenant in context")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	if err := h.posts.Delete(c.Request().Context(), t.ID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		log.Error("Failed to delete post",
			zap.Uint("tenant_id", t.ID),
			zap.Uint("post_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "post deletion failed"})
	}

	log.Info("Post deleted",
		zap.Uint("post_id", id),
		zap.Uint("tenant_id", t.ID))

	return c.JSON(http.StatusOK, echo.Map{"message": "post deleted successfully"})
}

// TogglePublish flips a post between published and draft.
func (h *AdminHandler) TogglePublish(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordPostOperation("toggle_publish")

	t, ok := currentTenant(c)
	if !ok {
		log.Warn("Missing tenant in context")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid post id"})
	}

	post, err := h.posts.TogglePublish(c.Request().Context(), t.ID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "post not found"})
		}
		log.Error("Failed to toggle publish status",
			zap.Uint("tenant_id", t.ID),
			zap.Uint("post_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "toggle failed"})
	}

	message := "post unpublished"
	if post.IsPublished {
		message = "post published"
	}

	log.Info("Post publish status toggled",
		zap.Uint("post_id", post.ID),
		zap.Bool("is_published", post.IsPublished),
		zap.Uint("tenant_id", post.TenantID))

	return c.JSON(http.StatusOK, echo.Map{
		"message":      message,
		"is_published": post.IsPublished,
	})
}
