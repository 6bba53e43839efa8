package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/multiblog/internal/model"
	"github.com/suteetoe/multiblog/internal/tenant"
	"github.com/suteetoe/multiblog/pkg/logger"
	"github.com/suteetoe/multiblog/prometheus"
	"go.uber.org/zap"
)

// TenantHandler provisions tenants. These routes sit outside the tenant
// guard: they operate on the tenant table itself, not on tenant content.
type TenantHandler struct {
	tenants *tenant.GormStore
}

// NewTenantHandler creates the platform tenant handler.
func NewTenantHandler(tenants *tenant.GormStore) *TenantHandler {
	return &TenantHandler{tenants: tenants}
}

// TenantRequest defines the structure for tenant provisioning requests.
type TenantRequest struct {
	Name        string  `json:"name"`
	Domain      string  `json:"domain"`
	Subdomain   *string `json:"subdomain,omitempty"`
	Description *string `json:"description,omitempty"`
	Theme       string  `json:"theme"`
}

// List returns all tenants.
func (h *TenantHandler) List(c echo.Context) error {
	log := logger.FromEcho(c)

	tenants, err := h.tenants.List(c.Request().Context())
	if err != nil {
		log.Error("Failed to list tenants", zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "failed to retrieve tenants"})
	}

	return c.JSON(http.StatusOK, tenants)
}

// Create provisions a new tenant.
func (h *TenantHandler) Create(c echo.Context) error {
	log := logger.FromEcho(c)

	var req TenantRequest
	if err := c.Bind(&req); err != nil {
		log.Error("Failed to parse tenant request", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid request"})
	}
	if req.Name == "" || req.Domain == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "name and domain are required"})
	}

	t := model.Tenant{
		Name:        req.Name,
		Domain:      req.Domain,
		Subdomain:   req.Subdomain,
		Description: req.Description,
		Theme:       req.Theme,
		IsActive:    true,
	}

	defer prometheus.TrackDBOperation("insert")(time.Now())

	if err := h.tenants.Create(c.Request().Context(), &t); err != nil {
		if errors.Is(err, tenant.ErrDomainTaken) {
			return c.JSON(http.StatusConflict, echo.Map{"error": "domain already registered"})
		}
		log.Error("Failed to create tenant",
			zap.String("domain", req.Domain),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "tenant creation failed"})
	}

	log.Info("Tenant created",
		zap.Uint("tenant_id", t.ID),
		zap.String("name", t.Name),
		zap.String("domain", t.Domain))

	return c.JSON(http.StatusCreated, echo.Map{
		"message": "tenant created successfully",
		"tenant":  t,
	})
}

// Delete removes a tenant and cascades to all of its content.
func (h *TenantHandler) Delete(c echo.Context) error {
	log := logger.FromEcho(c)

	id, err := parseID(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid tenant id"})
	}

	defer prometheus.TrackDBOperation("delete")(time.Now())

	if err := h.tenants.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, tenant.ErrTenantNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "tenant not found"})
		}
		log.Error("Failed to delete tenant",
			zap.Uint("tenant_id", id),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "tenant deletion failed"})
	}

	log.Info("Tenant deleted", zap.Uint("tenant_id", id))
	return c.JSON(http.StatusOK, echo.Map{"message": "tenant deleted successfully"})
}
