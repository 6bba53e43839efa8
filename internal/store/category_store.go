package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/suteetoe/multiblog/internal/model"
	"gorm.io/gorm"
)

// defaultColor is assigned when a category is saved without one.
const defaultColor = "#007bff"

// CategoryStore provides tenant-scoped access to categories.
type CategoryStore struct {
	db *gorm.DB
}

// NewCategoryStore creates a category store backed by the given database.
func NewCategoryStore(db *gorm.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// List returns the tenant's categories ordered by name.
func (s *CategoryStore) List(ctx context.Context, tenantID uint) ([]model.Category, error) {
	var categories []model.Category
	result := s.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("name ASC").
		Find(&categories)
	if result.Error != nil {
		return nil, fmt.Errorf("list categories: %w", result.Error)
	}
	return categories, nil
}

// CategoryWithCount pairs a category with the number of posts in it.
type CategoryWithCount struct {
	model.Category
	PostCount int64 `json:"post_count"`
}

// ListWithPostCounts returns the tenant's categories with per-category
// post counts for the admin screen.
func (s *CategoryStore) ListWithPostCounts(ctx context.Context, tenantID uint) ([]CategoryWithCount, error) {
	categories, err := s.List(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	out := make([]CategoryWithCount, 0, len(categories))
	for _, category := range categories {
		count, err := s.countPosts(ctx, tenantID, category.ID)
		if err != nil {
			return nil, err
		}
		out = append(out, CategoryWithCount{Category: category, PostCount: count})
	}
	return out, nil
}

// Get returns the tenant's category with the given id. A category under
// a different tenant is reported as ErrNotFound.
func (s *CategoryStore) Get(ctx context.Context, tenantID, id uint) (*model.Category, error) {
	var category model.Category
	result := s.db.WithContext(ctx).
		Where("id = ? AND tenant_id = ?", id, tenantID).
		First(&category)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get category: %w", result.Error)
	}
	return &category, nil
}

// Create stores a new category for the tenant, stamping the resolved
// tenant id over whatever the input claims.
func (s *CategoryStore) Create(ctx context.Context, tenantID uint, category *model.Category) error {
	category.TenantID = tenantID
	if strings.TrimSpace(category.Color) == "" {
		category.Color = defaultColor
	}
	if result := s.db.WithContext(ctx).Create(category); result.Error != nil {
		return fmt.Errorf("create category: %w", result.Error)
	}
	return nil
}

// Update applies field changes after a scoped re-fetch.
func (s *CategoryStore) Update(ctx context.Context, tenantID, id uint, in *model.Category) (*model.Category, error) {
	existing, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	existing.Name = in.Name
	existing.Description = in.Description
	existing.Color = in.Color
	if strings.TrimSpace(existing.Color) == "" {
		existing.Color = defaultColor
	}

	if result := s.db.WithContext(ctx).Save(existing); result.Error != nil {
		return nil, fmt.Errorf("update category: %w", result.Error)
	}
	return existing, nil
}

// Delete removes the tenant's category unless posts still reference it,
// in which case a CategoryInUseError naming the blocking count is
// returned and nothing is deleted.
func (s *CategoryStore) Delete(ctx context.Context, tenantID, id uint) error {
	category, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}

	count, err := s.countPosts(ctx, tenantID, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return &CategoryInUseError{CategoryName: category.Name, PostCount: count}
	}

	if result := s.db.WithContext(ctx).Delete(category); result.Error != nil {
		return fmt.Errorf("delete category: %w", result.Error)
	}
	return nil
}

func (s *CategoryStore) countPosts(ctx context.Context, tenantID, categoryID uint) (int64, error) {
	var count int64
	result := s.db.WithContext(ctx).Model(&model.BlogPost{}).
		Where("category_id = ? AND tenant_id = ?", categoryID, tenantID).
		Count(&count)
	if result.Error != nil {
		return 0, fmt.Errorf("count category posts: %w", result.Error)
	}
	return count, nil
}
