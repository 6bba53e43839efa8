// Package tenant maps inbound requests to tenant records. Resolution
// inspects the request host (or, on a recognized development host, the
// "tenant" query parameter) and returns at most one active tenant. The
// result is stored in the request context once per request; everything
// downstream reads it from there.
package tenant

import (
	"context"
	"errors"

	"github.com/suteetoe/multiblog/internal/model"
)

var (
	// ErrTenantNotFound is returned when no active tenant matches the
	// request host or lookup key.
	ErrTenantNotFound = errors.New("tenant not found")

	// ErrNoTenantInContext is returned when a handler expects a resolved
	// tenant but the request context holds none.
	ErrNoTenantInContext = errors.New("no tenant in context")
)

// Store loads tenant records from a data source. All lookups are
// restricted to active tenants and match their key case-insensitively.
type Store interface {
	// FindByDomain returns the active tenant whose domain equals the
	// given lowercased value, or ErrTenantNotFound.
	FindByDomain(ctx context.Context, domain string) (*model.Tenant, error)

	// FindBySubdomain returns the active tenant whose subdomain equals
	// the given lowercased value, or ErrTenantNotFound.
	FindBySubdomain(ctx context.Context, subdomain string) (*model.Tenant, error)

	// FirstActive returns the first active tenant in stable order
	// (ascending id), or ErrTenantNotFound when none exist.
	FirstActive(ctx context.Context) (*model.Tenant, error)
}
