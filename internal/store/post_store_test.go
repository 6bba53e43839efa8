package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/suteetoe/multiblog/internal/model"
	"github.com/suteetoe/multiblog/internal/store"
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

// seedTwoTenants creates two tenants, each with one category, and
// returns them for scoped-access tests.
func seedTwoTenants(t *testing.T, db *gorm.DB) (model.Tenant, model.Tenant, model.Category, model.Category) {
	t.Helper()

	tenantA := model.Tenant{Name: "Blog A", Domain: "a.test", IsActive: true}
	tenantB := model.Tenant{Name: "Blog B", Domain: "b.test", IsActive: true}
	require.NoError(t, db.Create(&tenantA).Error)
	require.NoError(t, db.Create(&tenantB).Error)

	categoryA := model.Category{TenantID: tenantA.ID, Name: "General", Color: "#111111"}
	categoryB := model.Category{TenantID: tenantB.ID, Name: "General", Color: "#222222"}
	require.NoError(t, db.Create(&categoryA).Error)
	require.NoError(t, db.Create(&categoryB).Error)

	return tenantA, tenantB, categoryA, categoryB
}

func TestPostStoreCreateStampsTenant(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	tenantA, tenantB, categoryA, _ := seedTwoTenants(t, db)
	posts := store.NewPostStore(db)

	// The payload claims a foreign tenant; the store overwrites it.
	post := model.BlogPost{
		TenantID:   tenantB.ID,
		Title:      "Hello",
		Content:    "<p>Hello World</p>",
		CategoryID: categoryA.ID,
	}
	require.NoError(t, posts.Create(context.Background(), tenantA.ID, &post))

	var stored model.BlogPost
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Equal(t, tenantA.ID, stored.TenantID)
	assert.Equal(t, "Admin", stored.Author)
	assert.Nil(t, stored.UpdatedAt)
}

func TestPostStoreCreateKeepsDraftStatus(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	tenantA, _, categoryA, _ := seedTwoTenants(t, db)
	posts := store.NewPostStore(db)

	draft := model.BlogPost{Title: "Draft", Content: "x", CategoryID: categoryA.ID, IsPublished: false}
	require.NoError(t, posts.Create(context.Background(), tenantA.ID, &draft))

	// Read the row back raw; the stored value must be false, not a
	// column default applied over an omitted field.
	var stored model.BlogPost
	require.NoError(t, db.First(&stored, draft.ID).Error)
	assert.False(t, stored.IsPublished, "draft must not be stored as published")

	listed, err := posts.List(context.Background(), tenantA.ID, store.PostFilter{PublishedOnly: true})
	require.NoError(t, err)
	assert.Empty(t, listed, "drafts must not appear in published-only listings")
}

func TestPostStoreCreateDerivesSummary(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	tenantA, _, categoryA, _ := seedTwoTenants(t, db)
	posts := store.NewPostStore(db)

	post := model.BlogPost{
		Title:      "Hello",
		Content:    "<p>Hello <b>World</b></p>",
		CategoryID: categoryA.ID,
	}
	require.NoError(t, posts.Create(context.Background(), tenantA.ID, &post))
	require.NotNil(t, post.Summary)
	assert.Equal(t, "Hello World", *post.Summary)

	// An update that clears the summary re-derives it from the content.
	updated, err := posts.Update(context.Background(), tenantA.ID, post.ID, &model.BlogPost{
		Title:      "Hello",
		Content:    "<p>Changed <i>now</i></p>",
		CategoryID: categoryA.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.Summary)
	assert.Equal(t, "Changed now", *updated.Summary)
}

func TestPostStoreCreateRejectsForeignCategory(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	tenantA, _, _, categoryB := seedTwoTenants(t, db)
	posts := store.NewPostStore(db)

	post := model.BlogPost{
		Title:      "Hello",
		Content:    "<p>Hello</p>",
		CategoryID: categoryB.ID,
	}
	err := posts.Create(context.Background(), tenantA.ID, &post)
	assert.ErrorIs(t, err, store.ErrCategoryNotFound)

	var count int64
	require.NoError(t, db.Model(&model.BlogPost{}).Count(&count).Error)
	assert.Zero(t, count, "rejected create must not leave a row behind")
}

func TestPostStoreIsolation(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	tenantA, tenantB, categoryA, categoryB := seedTwoTenants(t, db)
	posts := store.NewPostStore(db)

	postA := model.BlogPost{Title: "Hello", Content: "a", CategoryID: categoryA.ID, IsPublished: true}
	require.NoError(t, posts.Create(context.Background(), tenantA.ID, &postA))
	postB := model.BlogPost{Title: "Hello", Content: "b", CategoryID: categoryB.ID, IsPublished: true}
	require.NoError(t, posts.Create(context.Background(), tenantB.ID, &postB))

	t.Run("list returns only own posts", func(t *testing.T) {
		listed, err := posts.List(context.Background(), tenantA.ID, store.PostFilter{})
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, postA.ID, listed[0].ID)
	})

	t.Run("cross-tenant get reports not found", func(t *testing.T) {
		_, err := posts.Get(context.Background(), tenantB.ID, postA.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("cross-tenant update reports not found", func(t *testing.T) {
		_, err := posts.Update(context.Background(), tenantB.ID, postA.ID, &model.BlogPost{
			Title:      "Taken over",
			Content:    "x",
			CategoryID: categoryB.ID,
		})
		assert.ErrorIs(t, err, store.ErrNotFound)

		unchanged, err := posts.Get(context.Background(), tenantA.ID, postA.ID)
		require.NoError(t, err)
		assert.Equal(t, "Hello", unchanged.Title)
	})

	t.Run("cross-tenant delete reports not found", func(t *testing.T) {
		err := posts.Delete(context.Background(), tenantB.ID, postA.ID)
		assert.ErrorIs(t, err, store.ErrNotFound)

		_, err = posts.Get(context.Background(), tenantA.ID, postA.ID)
		assert.NoError(t, err)
	})
}

func TestPostStoreListFilters(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	tenantA, _, categoryA, _ := seedTwoTenants(t, db)
	posts := store.NewPostStore(db)

	other := model.Category{TenantID: tenantA.ID, Name: "Other"}
	require.NoError(t, db.Create(&other).Error)

	published := model.BlogPost{Title: "Published", Content: "x", CategoryID: categoryA.ID, IsPublished: true}
	require.NoError(t, posts.Create(context.Background(), tenantA.ID, &published))
	draft := model.BlogPost{Title: "Draft", Content: "x", CategoryID: categoryA.ID, IsPublished: false}
	require.NoError(t, posts.Create(context.Background(), tenantA.ID, &draft))
	elsewhere := model.BlogPost{Title: "Elsewhere", Content: "x", CategoryID: other.ID, IsPublished: true}
	require.NoError(t, posts.Create(context.Background(), tenantA.ID, &elsewhere))

	t.Run("published only", func(t *testing.T) {
		listed, err := posts.List(context.Background(), tenantA.ID, store.PostFilter{PublishedOnly: true})
		require.NoError(t, err)
		assert.Len(t, listed, 2)
		for _, p := range listed {
			assert.True(t, p.IsPublished)
		}
	})

	t.Run("by category", func(t *testing.T) {
		listed, err := posts.List(context.Background(), tenantA.ID, store.PostFilter{CategoryID: other.ID})
		require.NoError(t, err)
		require.Len(t, listed, 1)
		assert.Equal(t, elsewhere.ID, listed[0].ID)
	})

	t.Run("limit", func(t *testing.T) {
		listed, err := posts.List(context.Background(), tenantA.ID, store.PostFilter{Limit: 2})
		require.NoError(t, err)
		assert.Len(t, listed, 2)
	})

	t.Run("ordered by publish date descending", func(t *testing.T) {
		listed, err := posts.List(context.Background(), tenantA.ID, store.PostFilter{})
		require.NoError(t, err)
		require.Len(t, listed, 3)
		for i := 1; i < len(listed); i++ {
			assert.False(t, listed[i].PublishedAt.After(listed[i-1].PublishedAt))
		}
	})
}

func TestPostStoreUpdate(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	tenantA, _, categoryA, _ := seedTwoTenants(t, db)
	posts := store.NewPostStore(db)

	post := model.BlogPost{Title: "Original", Content: "x", CategoryID: categoryA.ID, IsPublished: false}
	require.NoError(t, posts.Create(context.Background(), tenantA.ID, &post))
	createdAt := post.PublishedAt

	time.Sleep(10 * time.Millisecond)

	updated, err := posts.Update(context.Background(), tenantA.ID, post.ID, &model.BlogPost{
		Title:       "Edited",
		Content:     "y",
		Author:      "Editor",
		CategoryID:  categoryA.ID,
		IsPublished: true,
	})
	require.NoError(t, err)
	assert.Equal(t, "Edited", updated.Title)
	require.NotNil(t, updated.UpdatedAt)

	// The draft-to-published transition refreshes the publish date.
	assert.True(t, updated.PublishedAt.After(createdAt))
}

func TestPostStoreTogglePublish(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	tenantA, _, categoryA, _ := seedTwoTenants(t, db)
	posts := store.NewPostStore(db)

	post := model.BlogPost{Title: "Hello", Content: "x", CategoryID: categoryA.ID, IsPublished: true}
	require.NoError(t, posts.Create(context.Background(), tenantA.ID, &post))
	firstPublished := post.PublishedAt

	unpublished, err := posts.TogglePublish(context.Background(), tenantA.ID, post.ID)
	require.NoError(t, err)
	assert.False(t, unpublished.IsPublished)
	assert.Equal(t, firstPublished.Unix(), unpublished.PublishedAt.Unix())

	time.Sleep(10 * time.Millisecond)

	republished, err := posts.TogglePublish(context.Background(), tenantA.ID, post.ID)
	require.NoError(t, err)
	assert.True(t, republished.IsPublished)
	assert.True(t, republished.PublishedAt.After(firstPublished))
}

func TestPostStoreStats(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	tenantA, tenantB, categoryA, categoryB := seedTwoTenants(t, db)
	posts := store.NewPostStore(db)

	require.NoError(t, posts.Create(context.Background(), tenantA.ID,
		&model.BlogPost{Title: "P1", Content: "x", CategoryID: categoryA.ID, IsPublished: true}))
	require.NoError(t, posts.Create(context.Background(), tenantA.ID,
		&model.BlogPost{Title: "P2", Content: "x", CategoryID: categoryA.ID, IsPublished: false}))
	require.NoError(t, posts.Create(context.Background(), tenantB.ID,
		&model.BlogPost{Title: "P3", Content: "x", CategoryID: categoryB.ID, IsPublished: true}))

	stats, err := posts.Stats(context.Background(), tenantA.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalPosts)
	assert.Equal(t, int64(1), stats.PublishedPosts)
	assert.Equal(t, int64(1), stats.DraftPosts)
	assert.Equal(t, int64(1), stats.TotalCategories)
}

func TestPostStoreGetPublished(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	tenantA, _, categoryA, _ := seedTwoTenants(t, db)
	posts := store.NewPostStore(db)

	draft := model.BlogPost{Title: "Draft", Content: "x", CategoryID: categoryA.ID, IsPublished: false}
	require.NoError(t, posts.Create(context.Background(), tenantA.ID, &draft))

	_, err := posts.GetPublished(context.Background(), tenantA.ID, draft.ID)
	assert.ErrorIs(t, err, store.ErrNotFound, "drafts are invisible on the public path")

	_, err = posts.Get(context.Background(), tenantA.ID, draft.ID)
	assert.NoError(t, err)
}
