package tenant

import (
	"context"
	"errors"
	"net"
	"strings"

	"github.com/suteetoe/multiblog/internal/model"
)

// Resolver maps a request host (plus an optional "tenant" query
// parameter in development) to exactly one active tenant.
type Resolver struct {
	store Store

	// devHost marks a local development request when the host begins
	// with it (e.g. "localhost" matches "localhost:8080").
	devHost string

	// devFallback enables the development-only branches: resolving by
	// the query parameter instead of the host, and defaulting to the
	// first active tenant when no parameter is present. Never enabled
	// in a production configuration.
	devFallback bool
}

// NewResolver creates a resolver over the given tenant store.
func NewResolver(store Store, devHost string, devFallback bool) *Resolver {
	if devHost == "" {
		devHost = "localhost"
	}
	return &Resolver{store: store, devHost: devHost, devFallback: devFallback}
}

// Resolve returns the single active tenant matching the request, or
// ErrTenantNotFound. It is a pure function of store state and inputs
// and is called once per request, before any handler logic runs.
func (r *Resolver) Resolve(ctx context.Context, host, tenantParam string) (*model.Tenant, error) {
	normalized := normalizeHost(host)

	if r.devFallback && strings.HasPrefix(normalized, r.devHost) {
		// Development: the query parameter simulates a production
		// domain; without it, fall back to the first active tenant.
		if param := strings.ToLower(strings.TrimSpace(tenantParam)); param != "" {
			return r.lookup(ctx, param)
		}
		return r.store.FirstActive(ctx)
	}

	return r.lookup(ctx, normalized)
}

// lookup finds an active tenant by domain, then by subdomain. Domain
// match takes precedence when a value could match both.
func (r *Resolver) lookup(ctx context.Context, key string) (*model.Tenant, error) {
	tenant, err := r.store.FindByDomain(ctx, key)
	if err == nil {
		return tenant, nil
	}
	if !errors.Is(err, ErrTenantNotFound) {
		return nil, err
	}
	return r.store.FindBySubdomain(ctx, key)
}

// normalizeHost lowercases the host and strips any port suffix. A bare
// IPv6 literal has colons but no port, so naive splitting would mangle
// it; without a port the host is kept whole, minus any brackets.
func normalizeHost(host string) string {
	host = strings.ToLower(strings.TrimSpace(host))
	if h, _, err := net.SplitHostPort(host); err == nil {
		return h
	}
	return strings.Trim(host, "[]")
}
