package tenant

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/suteetoe/multiblog/internal/model"
)

// contextKey is a private type to prevent collisions with other context keys.
type contextKey struct{}

// echoKey is the key under which the tenant is stored in the echo context.
const echoKey = "tenant"

// WithTenant adds a resolved tenant to the context.
func WithTenant(ctx context.Context, t *model.Tenant) context.Context {
	return context.WithValue(ctx, contextKey{}, t)
}

// FromContext retrieves the resolved tenant from the context.
// Returns nil, false if no tenant was resolved for this request.
func FromContext(ctx context.Context) (*model.Tenant, bool) {
	t, ok := ctx.Value(contextKey{}).(*model.Tenant)
	if !ok || t == nil {
		return nil, false
	}
	return t, true
}

// SetEcho stores the resolved tenant in the echo context and the
// underlying request context.
func SetEcho(c echo.Context, t *model.Tenant) {
	c.Set(echoKey, t)
	c.SetRequest(c.Request().WithContext(WithTenant(c.Request().Context(), t)))
}

// FromEcho retrieves the resolved tenant from the echo context.
func FromEcho(c echo.Context) (*model.Tenant, bool) {
	t, ok := c.Get(echoKey).(*model.Tenant)
	if !ok || t == nil {
		return nil, false
	}
	return t, true
}
