package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/suteetoe/multiblog/internal/model"
	"gorm.io/gorm"
)

// PostFilter narrows post listings. The tenant filter itself is not
// optional and is supplied separately on every call.
type PostFilter struct {
	PublishedOnly bool
	CategoryID    uint
	Limit         int
}

// PostStore provides tenant-scoped access to blog posts. Every method
// takes the resolved tenant id explicitly; there is no unscoped read
// or write path.
type PostStore struct {
	db *gorm.DB
}

// NewPostStore creates a post store backed by the given database.
func NewPostStore(db *gorm.DB) *PostStore {
	return &PostStore{db: db}
}

// List returns the tenant's posts ordered by publish date, newest first.
func (s *PostStore) List(ctx context.Context, tenantID uint, filter PostFilter) ([]model.BlogPost, error) {
	query := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("published_at DESC")

	if filter.PublishedOnly {
		query = query.Where("is_published = ?", true)
	}
	if filter.CategoryID != 0 {
		query = query.Where("category_id = ?", filter.CategoryID)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}

	var posts []model.BlogPost
	if result := query.Find(&posts); result.Error != nil {
		return nil, fmt.Errorf("list posts: %w", result.Error)
	}
	return posts, nil
}

// Get returns the tenant's post with the given id. A post under a
// different tenant is reported as ErrNotFound.
func (s *PostStore) Get(ctx context.Context, tenantID, id uint) (*model.BlogPost, error) {
	var post model.BlogPost
	result := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&post)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get post: %w", result.Error)
	}
	return &post, nil
}

// GetPublished returns the tenant's post only if it is published.
func (s *PostStore) GetPublished(ctx context.Context, tenantID, id uint) (*model.BlogPost, error) {
	var post model.BlogPost
	result := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ? AND is_published = ?", id, tenantID, true).
		First(&post)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get published post: %w", result.Error)
	}
	return &post, nil
}

// Create stores a new post for the tenant. Any tenant id on the input
// is overwritten with the resolved one, so a caller can never write
// into a foreign tenant. The referenced category must belong to the
// same tenant, and an empty summary is derived from the content.
func (s *PostStore) Create(ctx context.Context, tenantID uint, post *model.BlogPost) error {
	post.TenantID = tenantID
	if err := s.checkCategory(ctx, tenantID, post.CategoryID); err != nil {
		return err
	}

	post.Summary = normalizeSummary(post.Summary, post.Content)
	post.PublishedAt = time.Now()
	post.UpdatedAt = nil
	if post.Author == "" {
		post.Author = "Admin"
	}

	if result := s.db.WithContext(ctx).Create(post); result.Error != nil {
		return fmt.Errorf("create post: %w", result.Error)
	}
	return nil
}

// Update applies field changes to an existing post after a scoped
// re-fetch; a miss under the tenant rejects the update as not-found.
func (s *PostStore) Update(ctx context.Context, tenantID, id uint, in *model.BlogPost) (*model.BlogPost, error) {
	existing, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := s.checkCategory(ctx, tenantID, in.CategoryID); err != nil {
		return nil, err
	}

	wasPublished := existing.IsPublished

	existing.Title = in.Title
	existing.Content = in.Content
	existing.Summary = normalizeSummary(in.Summary, in.Content)
	existing.CategoryID = in.CategoryID
	existing.Author = in.Author
	existing.IsPublished = in.IsPublished
	now := time.Now()
	existing.UpdatedAt = &now

	// Moving from draft to published refreshes the publish date.
	if !wasPublished && existing.IsPublished {
		existing.PublishedAt = now
	}

	if result := s.db.WithContext(ctx).Save(existing); result.Error != nil {
		return nil, fmt.Errorf("update post: %w", result.Error)
	}
	return existing, nil
}

// Delete removes the tenant's post with the given id.
func (s *PostStore) Delete(ctx context.Context, tenantID, id uint) error {
	post, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if result := s.db.WithContext(ctx).Delete(post); result.Error != nil {
		return fmt.Errorf("delete post: %w", result.Error)
	}
	return nil
}

// TogglePublish flips the post's publish status. The publish date is
// refreshed when the post transitions from draft to published.
func (s *PostStore) TogglePublish(ctx context.Context, tenantID, id uint) (*model.BlogPost, error) {
	post, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	post.IsPublished = !post.IsPublished
	now := time.Now()
	post.UpdatedAt = &now
	if post.IsPublished {
		post.PublishedAt = now
	}

	if result := s.db.WithContext(ctx).Save(post); result.Error != nil {
		return nil, fmt.Errorf("toggle publish: %w", result.Error)
	}
	return post, nil
}

// Stats summarizes a tenant's content for the admin dashboard.
type Stats struct {
	TotalPosts      int64 `json:"total_posts"`
	PublishedPosts  int64 `json:"published_posts"`
	DraftPosts      int64 `json:"draft_posts"`
	TotalCategories int64 `json:"total_categories"`
}

// Stats counts the tenant's posts and categories.
func (s *PostStore) Stats(ctx context.Context, tenantID uint) (*Stats, error) {
	var stats Stats
	db := s.db.WithContext(ctx)

	if result := db.Model(&model.BlogPost{}).
		Where("tenant_id = ?", tenantID).
		Count(&stats.TotalPosts); result.Error != nil {
		return nil, fmt.Errorf("count posts: %w", result.Error)
	}
	if result := db.Model(&model.BlogPost{}).
		Where("tenant_id = ? AND is_published = ?", tenantID, true).
		Count(&stats.PublishedPosts); result.Error != nil {
		return nil, fmt.Errorf("count published posts: %w", result.Error)
	}
	stats.DraftPosts = stats.TotalPosts - stats.PublishedPosts

	if result := db.Model(&model.Category{}).
		Where("tenant_id = ?", tenantID).
		Count(&stats.TotalCategories); result.Error != nil {
		return nil, fmt.Errorf("count categories: %w", result.Error)
	}
	return &stats, nil
}

// checkCategory verifies the category id belongs to the tenant. A
// category under another tenant reports the same error as a missing
// one, so cross-tenant existence is never confirmed.
func (s *PostStore) checkCategory(ctx context.Context, tenantID, categoryID uint) error {
	var count int64
	result := s.db.WithContext(ctx).Model(&model.Category{}).
		Where("id = ? AND tenant_id = ?", categoryID, tenantID).
		Count(&count)
	if result.Error != nil {
		return fmt.Errorf("check category: %w", result.Error)
	}
	if count == 0 {
		return ErrCategoryNotFound
	}
	return nil
}
