package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/multiblog/internal/model"
	"github.com/suteetoe/multiblog/internal/store"
	"github.com/suteetoe/multiblog/internal/tenant"
	"github.com/suteetoe/multiblog/pkg/logger"
	"go.uber.org/zap"
)

// homePageLimit caps the number of posts on the public listing.
const homePageLimit = 10

// BlogHandler serves the public, read-only side of a tenant's blog.
type BlogHandler struct {
	posts      *store.PostStore
	categories *store.CategoryStore
}

// NewBlogHandler creates the public blog handler.
func NewBlogHandler(posts *store.PostStore, categories *store.CategoryStore) *BlogHandler {
	return &BlogHandler{posts: posts, categories: categories}
}

// currentTenant re-checks the resolved tenant before touching data. The
// guard middleware already diverted unresolved requests, so the common
// case always succeeds.
func currentTenant(c echo.Context) (*model.Tenant, bool) {
	return tenant.FromEcho(c)
}

// ListPosts returns the tenant's published posts, newest first.
func (h *BlogHandler) ListPosts(c echo.Context) error {
	log := logger.FromEcho(c)

	t, ok := currentTenant(c)
	if !ok {
		log.Warn("Missing tenant in context")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}

	posts, err := h.posts.List(c.Request().Context(), t.ID, store.PostFilter{
		PublishedOnly: true,
		Limit:         homePageLimit,
	})
	if err != nil {
		log.Error("Failed to list posts",
			zap.Uint("tenant_id", t.ID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve posts"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"tenant": t,
		"posts":  posts,
	})
}

// GetPost returns one published post. A draft, a missing id, and a post
// under another tenant all answer the same not-found.
func (h *BlogHandler) GetPost(c echo.Context) error {
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

	post, err := h.posts.GetPublished(c.Request().Context(), t.ID, id)
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

// PostsByCategory returns a category and its published posts.
func (h *BlogHandler) PostsByCategory(c echo.Context) error {
	log := logger.FromEcho(c)

	t, ok := currentTenant(c)
	if !ok {
		log.Warn("Missing tenant in context")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}

	category, err := h.categories.Get(c.Request().Context(), t.ID, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		log.Error("Failed to get category",
			zap.Uint("tenant_id", t.ID),
			zap.Uint("category_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve category"})
	}

	posts, err := h.posts.List(c.Request().Context(), t.ID, store.PostFilter{
		PublishedOnly: true,
		CategoryID:    id,
	})
	if err != nil {
		log.Error("Failed to list category posts",
			zap.Uint("tenant_id", t.ID),
			zap.Uint("category_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve posts"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"category": category,
		"posts":    posts,
	})
}

// parseID parses a numeric path parameter.
func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
