package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/multiblog/internal/tenant"
	"github.com/suteetoe/multiblog/pkg/logger"
	"github.com/suteetoe/multiblog/prometheus"
	"go.uber.org/zap"
)

// TenantMiddleware resolves the tenant for the request exactly once and
// guards dispatch: handlers behind it only run with a resolved tenant in
// the context. Resolution failure is never surfaced as an error to the
// caller; it diverts to a fixed tenant-not-found response instead.
//
// Activation state can change between requests, so every request
// re-resolves; nothing is cached across requests.
func TenantMiddleware(resolver *tenant.Resolver) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			log := logger.FromEcho(c)

			host := c.Request().Host
			tenantParam := c.QueryParam("tenant")

			t, err := resolver.Resolve(c.Request().Context(), host, tenantParam)
			if err != nil {
				prometheus.RecordTenantNotFound()
				if errors.Is(err, tenant.ErrTenantNotFound) {
					log.Warn("No tenant matches request host",
						zap.String("host", host))
				} else {
					// A store failure diverts the same way; the caller
					// never sees internal state.
					log.Error("Tenant resolution failed",
						zap.String("host", host),
						zap.Error(err))
				}
				return tenantNotFoundResponse(c)
			}

			prometheus.RecordTenantResolution(t.Domain)
			log.Debug("Tenant resolved",
				zap.Uint("tenant_id", t.ID),
				zap.String("tenant_domain", t.Domain))

			tenant.SetEcho(c, t)
			return next(c)
		}
	}
}

// tenantNotFoundResponse is the single divert path for unresolved
// tenants, distinct from generic errors and carrying no internal state.
func tenantNotFoundResponse(c echo.Context) error {
	return c.JSON(http.StatusNotFound, echo.Map{
		"error":   "tenant not found",
		"message": "No blog is registered for this address.",
	})
}
