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

// CategoryHandler manages a tenant's categories behind the tenant guard.
type CategoryHandler struct {
	categories *store.CategoryStore
}

// NewCategoryHandler creates the admin category handler.
func NewCategoryHandler(categories *store.CategoryStore) *CategoryHandler {
	return &CategoryHandler{categories: categories}
}

// CategoryRequest defines the structure for category creation/update
// requests. Any tenant_id in the payload is ignored.
type CategoryRequest struct {
	Name        string  `json:"name"`
	Description *string `json:"description,omitempty"`
	Color       string  `json:"color"`
	TenantID    uint    `json:"tenant_id,omitempty"`
}

// List returns the tenant's categories with post counts, name order.
func (h *CategoryHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)

	t, ok := currentTenant(c)
	if !ok {
		log.Warn("Missing tenant in context")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}

	categories, err := h.categories.ListWithPostCounts(c.Request().Context(), t.ID)
	if err != nil {
		log.Error("Failed to list categories", zap.Uint("tenant_id", t.ID), zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve categories"})
	}

	return c.JSON(http.StatusOK, categories)
}

// Create stores a new category for the tenant.
func (h *CategoryHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordCategoryOperation("create")

	t, ok := currentTenant(c)
	if !ok {
		log.Warn("Missing tenant in context")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse category request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	category := model.Category{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if err := h.categories.Create(c.Request().Context(), t.ID, &category); err != nil {
		log.Error("Failed to create category",
			zap.Uint("tenant_id", t.ID),
			zap.String("name", req.Name),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "category creation failed"})
	}

	log.Info("Category created",
		zap.Uint("category_id", category.ID),
		zap.String("name", category.Name),
		zap.Uint("tenant_id", category.TenantID))

	return c.JSON(http.StatusCreated, category)
}

// Update applies changes to one of the tenant's categories.
func (h *CategoryHandler) Update(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordCategoryOperation("update")

	t, ok := currentTenant(c)
	if !ok {
		log.Warn("Missing tenant in context")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}

	var req CategoryRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse category request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name is required"})
	}

	defer prometheus.TrackDBOperation("update")(time.Now())

	category, err := h.categories.Update(c.Request().Context(), t.ID, id, &model.Category{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		}
		log.Error("Failed to update category",
			zap.Uint("tenant_id", t.ID),
			zap.Uint("category_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "category update failed"})
	}

	log.Info("Category updated",
		zap.Uint("category_id", category.ID),
		zap.Uint("tenant_id", category.TenantID))

	return c.JSON(http.StatusOK, category)
}

// Delete removes one of the tenant's categories. Deletion is refused
// with a conflict while posts still reference the category.
func (h *CategoryHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)
	prometheus.RecordCategoryOperation("delete")

	t, ok := currentTenant(c)
	if !ok {
		log.Warn("Missing tenant in context")
		return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid category id"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	if err := h.categories.Delete(c.Request().Context(), t.ID, id); err != nil {
		var inUse *store.CategoryInUseError
		switch {
		case errors.Is(err, store.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "category not found"})
		case errors.As(err, &inUse):
			log.Warn("Refused to delete category in use",
				zap.Uint("category_id", id),
				zap.Uint("tenant_id", t.ID),
				zap.Int64("post_count", inUse.PostCount))
			return c.JSON(http.StatusConflict, echo.Map{
				"error":      inUse.Error(),
				"post_count": inUse.PostCount,
			})
		}
		log.Error("Failed to delete category",
			zap.Uint("tenant_id", t.ID),
			zap.Uint("category_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "category deletion failed"})
	}

	log.Info("Category deleted",
		zap.Uint("category_id", id),
		zap.Uint("tenant_id", t.ID))

	return c.JSON(http.StatusOK, echo.Map{"message": "category deleted successfully"})
}
