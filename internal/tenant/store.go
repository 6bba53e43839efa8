package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/suteetoe/multiblog/internal/model"
	"gorm.io/gorm"
)

// GormStore implements Store on top of the shared gorm database.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a tenant store backed by the given database.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// FindByDomain returns the active tenant with the given domain.
func (s *GormStore) FindByDomain(ctx context.Context, domain string) (*model.Tenant, error) {
	var tenant model.Tenant
	result := s.db.WithContext(ctx).
		Where("is_active = ? AND LOWER(domain) = ?", true, domain).
		Order("id").
		First(&tenant)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("tenant lookup by domain: %w", result.Error)
	}
	return &tenant, nil
}

// FindBySubdomain returns the active tenant with the given subdomain.
func (s *GormStore) FindBySubdomain(ctx context.Context, subdomain string) (*model.Tenant, error) {
	var tenant model.Tenant
	result := s.db.WithContext(ctx).
		Where("is_active = ? AND subdomain IS NOT NULL AND LOWER(subdomain) = ?", true, subdomain).
		Order("id").
		First(&tenant)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("tenant lookup by subdomain: %w", result.Error)
	}
	return &tenant, nil
}

// FirstActive returns the active tenant with the lowest id. Used as the
// development default when no explicit selector is present.
func (s *GormStore) FirstActive(ctx context.Context) (*model.Tenant, error) {
	var tenant model.Tenant
	result := s.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("id").
		First(&tenant)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("first active tenant lookup: %w", result.Error)
	}
	return &tenant, nil
}
