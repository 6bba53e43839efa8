package tenant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/suteetoe/multiblog/internal/model"
	"gorm.io/gorm"
)

// ErrDomainTaken is returned when provisioning a tenant whose domain is
// already registered (domains are unique case-insensitively).
var ErrDomainTaken = errors.New("domain already registered")

// List returns all tenants, active and inactive, in stable order.
// Used by the platform provisioning endpoints, not by resolution.
func (s *GormStore) List(ctx context.Context) ([]model.Tenant, error) {
	var tenants []model.Tenant
	if result := s.db.WithContext(ctx).Order("id").Find(&tenants); result.Error != nil {
		return nil, fmt.Errorf("list tenants: %w", result.Error)
	}
	return tenants, nil
}

// Create provisions a new tenant. The domain is normalized to lowercase
// and must be unique across all tenants.
func (s *GormStore) Create(ctx context.Context, t *model.Tenant) error {
	t.Domain = strings.ToLower(strings.TrimSpace(t.Domain))
	if t.Subdomain != nil {
		sub := strings.ToLower(strings.TrimSpace(*t.Subdomain))
		t.Subdomain = &sub
	}
	if t.Theme == "" {
		t.Theme = "Default"
	}

	var count int64
	result := s.db.WithContext(ctx).Model(&model.Tenant{}).
		Where("LOWER(domain) = ?", t.Domain).
		Count(&count)
	if result.Error != nil {
		return fmt.Errorf("check domain: %w", result.Error)
	}
	if count > 0 {
		return ErrDomainTaken
	}

	if result := s.db.WithContext(ctx).Create(t); result.Error != nil {
		return fmt.Errorf("create tenant: %w", result.Error)
	}
	return nil
}

// Delete removes a tenant and all of its content in one transaction.
// Deactivation via the active flag is the normal retirement path;
// deletion cascades to the tenant's posts and categories.
func (s *GormStore) Delete(ctx context.Context, id uint) error {
	var tenant model.Tenant
	if result := s.db.WithContext(ctx).First(&tenant, id); result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return ErrTenantNotFound
		}
		return fmt.Errorf("get tenant: %w", result.Error)
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if result := tx.Where("tenant_id = ?", id).Delete(&model.BlogPost{}); result.Error != nil {
			return fmt.Errorf("delete tenant posts: %w", result.Error)
		}
		if result := tx.Where("tenant_id = ?", id).Delete(&model.Category{}); result.Error != nil {
			return fmt.Errorf("delete tenant categories: %w", result.Error)
		}
		if result := tx.Delete(&tenant); result.Error != nil {
			return fmt.Errorf("delete tenant: %w", result.Error)
		}
		return nil
	})
}
