package model

import (
	"time"
)

// Tenant represents a single blog site sharing the database with other
// tenants. This is the core of the multi-tenant architecture: every
// content row carries a tenant id and every query filters by it.
type Tenant struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	Name        string    `json:"name" gorm:"type:varchar(100);not null"`
	Domain      string    `json:"domain" gorm:"type:varchar(200);uniqueIndex;not null"`
	Subdomain   *string   `json:"subdomain,omitempty" gorm:"type:varchar(200)"`
	Description *string   `json:"description,omitempty" gorm:"type:varchar(500)"`
	Theme       string    `json:"theme" gorm:"type:varchar(50);default:'Default'"`
	// gorm omits zero-value fields that carry a default tag from the
	// INSERT, so IsActive must not declare a column default.
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}
