package tenant_test

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/suteetoe/multiblog/internal/model"
	"github.com/suteetoe/multiblog/internal/tenant"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// A second pooled connection would see its own empty in-memory
	// database, so pin the pool to one.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.Tenant{}, &model.Category{}, &model.BlogPost{}))
	return db
}

func TestGormStoreLookups(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	store := tenant.NewGormStore(db)

	require.NoError(t, db.Create(&model.Tenant{
		Name: "Tech", Domain: "TechBlog.com", Subdomain: ptr("tech"), IsActive: true,
	}).Error)
	require.NoError(t, db.Create(&model.Tenant{
		Name: "Retired", Domain: "old.com", IsActive: false,
	}).Error)

	t.Run("domain lookup is case-insensitive", func(t *testing.T) {
		t.Parallel()

		got, err := store.FindByDomain(context.Background(), "techblog.com")
		require.NoError(t, err)
		assert.Equal(t, "Tech", got.Name)
	})

	t.Run("subdomain lookup", func(t *testing.T) {
		t.Parallel()

		got, err := store.FindBySubdomain(context.Background(), "tech")
		require.NoError(t, err)
		assert.Equal(t, "Tech", got.Name)
	})

	t.Run("inactive tenants are invisible", func(t *testing.T) {
		t.Parallel()

		_, err := store.FindByDomain(context.Background(), "old.com")
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
	})

	t.Run("missing tenant", func(t *testing.T) {
		t.Parallel()

		_, err := store.FindByDomain(context.Background(), "nowhere.test")
		assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
	})
}

func TestGormStoreFirstActive(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	store := tenant.NewGormStore(db)

	require.NoError(t, db.Create(&model.Tenant{Name: "Inactive", Domain: "x.com", IsActive: false}).Error)
	require.NoError(t, db.Create(&model.Tenant{Name: "Second", Domain: "b.com", IsActive: true}).Error)
	require.NoError(t, db.Create(&model.Tenant{Name: "Third", Domain: "c.com", IsActive: true}).Error)

	got, err := store.FirstActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Second", got.Name, "lowest id among active tenants")
}

func TestGormStoreCreate(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	store := tenant.NewGormStore(db)

	first := model.Tenant{Name: "Tech", Domain: "TechBlog.com", IsActive: true}
	require.NoError(t, store.Create(context.Background(), &first))
	assert.Equal(t, "techblog.com", first.Domain, "domain is normalized to lowercase")
	assert.Equal(t, "Default", first.Theme)

	dup := model.Tenant{Name: "Copycat", Domain: "TECHBLOG.COM", IsActive: true}
	err := store.Create(context.Background(), &dup)
	assert.ErrorIs(t, err, tenant.ErrDomainTaken)
}

func TestGormStoreCreateKeepsInactive(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	store := tenant.NewGormStore(db)

	dormant := model.Tenant{Name: "Dormant", Domain: "dormant.test", IsActive: false}
	require.NoError(t, store.Create(context.Background(), &dormant))

	// Read the row back raw; the stored value must be false, not a
	// column default applied over an omitted field.
	var stored model.Tenant
	require.NoError(t, db.First(&stored, dormant.ID).Error)
	assert.False(t, stored.IsActive, "inactive tenant must not be stored as active")

	_, err := store.FindByDomain(context.Background(), "dormant.test")
	assert.ErrorIs(t, err, tenant.ErrTenantNotFound)

	_, err = store.FirstActive(context.Background())
	assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
}

func TestGormStoreDeleteCascades(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	store := tenant.NewGormStore(db)

	doomed := model.Tenant{Name: "Doomed", Domain: "doomed.test", IsActive: true}
	survivor := model.Tenant{Name: "Survivor", Domain: "survivor.test", IsActive: true}
	require.NoError(t, db.Create(&doomed).Error)
	require.NoError(t, db.Create(&survivor).Error)

	require.NoError(t, db.Create(&model.Category{TenantID: doomed.ID, Name: "C1"}).Error)
	require.NoError(t, db.Create(&model.BlogPost{TenantID: doomed.ID, Title: "P1", Content: "x"}).Error)
	require.NoError(t, db.Create(&model.Category{TenantID: survivor.ID, Name: "C2"}).Error)
	require.NoError(t, db.Create(&model.BlogPost{TenantID: survivor.ID, Title: "P2", Content: "x"}).Error)

	require.NoError(t, store.Delete(context.Background(), doomed.ID))

	var tenants, categories, posts int64
	require.NoError(t, db.Model(&model.Tenant{}).Count(&tenants).Error)
	require.NoError(t, db.Model(&model.Category{}).Count(&categories).Error)
	require.NoError(t, db.Model(&model.BlogPost{}).Count(&posts).Error)
	assert.Equal(t, int64(1), tenants)
	assert.Equal(t, int64(1), categories, "only the deleted tenant's categories cascade")
	assert.Equal(t, int64(1), posts, "only the deleted tenant's posts cascade")

	err := store.Delete(context.Background(), doomed.ID)
	assert.ErrorIs(t, err, tenant.ErrTenantNotFound)
}
