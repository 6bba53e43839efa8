package tenant_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suteetoe/multiblog/internal/model"
	"github.com/suteetoe/multiblog/internal/tenant"
)

func ptr(s string) *string { return &s }

// fakeStore is an in-memory Store for resolver tests.
type fakeStore struct {
	tenants []model.Tenant
}

func (f *fakeStore) FindByDomain(_ context.Context, domain string) (*model.Tenant, error) {
	for i := range f.tenants {
		t := &f.tenants[i]
		if t.IsActive && strings.ToLower(t.Domain) == domain {
			return t, nil
		}
	}
	return nil, tenant.ErrTenantNotFound
}

func (f *fakeStore) FindBySubdomain(_ context.Context, subdomain string) (*model.Tenant, error) {
	for i := range f.tenants {
		t := &f.tenants[i]
		if t.IsActive && t.Subdomain != nil && strings.ToLower(*t.Subdomain) == subdomain {
			return t, nil
		}
	}
	return nil, tenant.ErrTenantNotFound
}

func (f *fakeStore) FirstActive(_ context.Context) (*model.Tenant, error) {
	for i := range f.tenants {
		if f.tenants[i].IsActive {
			return &f.tenants[i], nil
		}
	}
	return nil, tenant.ErrTenantNotFound
}

func TestResolverProductionLookup(t *testing.T) {
	t.Parallel()

	store := &fakeStore{tenants: []model.Tenant{
		{ID: 1, Name: "Tech", Domain: "techblog.com", Subdomain: ptr("tech"), IsActive: true},
		{ID: 2, Name: "Life", Domain: "lifeblog.com", Subdomain: ptr("life"), IsActive: true},
		{ID: 3, Name: "Retired", Domain: "old.com", IsActive: false},
	}}
	resolver := tenant.NewResolver(store, "localhost", false)

	t.Run("matches by domain", func(t *testing.T) {
		t.Parallel()

		got, err := resolver.Resolve(context.Background(), "techblog.com", "")
		require.NoError(t, err)
		assert.Equal(t, uint(1), got.ID)
	})

	t.Run("matches by subdomain", func(t *testing.T) {
		t.Parallel()

		got, err := resolver.Resolve(context.Background(), "life", "")
		require.NoError(t, err)
		assert.Equal(t, uint(2), got.ID)
	})

	t.Run("host matching is case-insensitive", func(t *testing.T) {
		t.Parallel()

		got, err := resolver.Resolve(context.Background(), "TechBlog.COM", "")
		require.NoError(t, err)
		assert.Equal(t, uint(1), got.ID)
	})

	t.Run("strips port from host", func(t *testing.T) {
		t.Parallel()

		got, err := resolver.Resolve(context.Background(), "techblog.com:8080", "")
		require.NoError(t, err)
		assert.Equal(t, uint(1), got.ID)
	})

	t.Run("IPv6 hosts keep their colons", func(t *testing.T) {
		t.Parallel()

		v6store := &fakeStore{tenants: []model.Tenant{
			{ID: 9, Name: "Loop", Domain: "::1", IsActive: true},
		}}
		v6 := tenant.NewResolver(v6store, "localhost", false)

		got, err := v6.Resolve(context.Background(), "[::1]:8080", "")
		require.NoError(t, err)
		assert.Equal(t, uint(9), got.ID)

		got, err = v6.Resolve(context.Background(), "::1", "")
		require.NoError(t, err)
		assert.Equal(t, uint(9), got.ID)
	})

	t.Run("inactive tenants never match", func(t *testing.T) {
		t.Parallel()

		_, err := resolver.Resolve(context.Background(), "old.com", "")
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
	})

	t.Run("unknown host resolves to nothing", func(t *testing.T) {
		t.Parallel()

		_, err := resolver.Resolve(context.Background(), "unknown.test", "")
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
	})

	t.Run("query parameter is ignored outside development", func(t *testing.T) {
		t.Parallel()

		_, err := resolver.Resolve(context.Background(), "unknown.test", "techblog.com")
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
	})

	t.Run("resolution is deterministic", func(t *testing.T) {
		t.Parallel()

		first, err := resolver.Resolve(context.Background(), "lifeblog.com", "")
		require.NoError(t, err)
		second, err := resolver.Resolve(context.Background(), "lifeblog.com", "")
		require.NoError(t, err)
		assert.Equal(t, first.ID, second.ID)
	})
}

func TestResolverDomainPrecedence(t *testing.T) {
	t.Parallel()

	// "shared.com" is tenant 2's domain and tenant 1's subdomain; the
	// domain match must win.
	store := &fakeStore{tenants: []model.Tenant{
		{ID: 1, Name: "Sub", Domain: "other.com", Subdomain: ptr("shared.com"), IsActive: true},
		{ID: 2, Name: "Dom", Domain: "shared.com", IsActive: true},
	}}
	resolver := tenant.NewResolver(store, "localhost", false)

	got, err := resolver.Resolve(context.Background(), "shared.com", "")
	require.NoError(t, err)
	assert.Equal(t, uint(2), got.ID)
}

func TestResolverDevelopmentFallback(t *testing.T) {
	t.Parallel()

	store := &fakeStore{tenants: []model.Tenant{
		{ID: 1, Name: "Tech", Domain: "techblog.com", IsActive: true},
		{ID: 2, Name: "Life", Domain: "lifeblog.com", IsActive: true},
	}}
	resolver := tenant.NewResolver(store, "localhost", true)

	t.Run("query parameter selects tenant on localhost", func(t *testing.T) {
		t.Parallel()

		got, err := resolver.Resolve(context.Background(), "localhost:3000", "lifeblog.com")
		require.NoError(t, err)
		assert.Equal(t, uint(2), got.ID)
	})

	t.Run("missing parameter falls back to first active tenant", func(t *testing.T) {
		t.Parallel()

		got, err := resolver.Resolve(context.Background(), "localhost", "")
		require.NoError(t, err)
		assert.Equal(t, uint(1), got.ID)
	})

	t.Run("unknown parameter resolves to nothing", func(t *testing.T) {
		t.Parallel()

		_, err := resolver.Resolve(context.Background(), "localhost", "missing.com")
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
	})

	t.Run("non-development host still uses production lookup", func(t *testing.T) {
		t.Parallel()

		got, err := resolver.Resolve(context.Background(), "techblog.com", "")
		require.NoError(t, err)
		assert.Equal(t, uint(1), got.ID)
	})

	t.Run("fallback with no active tenants resolves to nothing", func(t *testing.T) {
		t.Parallel()

		empty := tenant.NewResolver(&fakeStore{}, "localhost", true)
		_, err := empty.Resolve(context.Background(), "localhost", "")
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
	})
}
