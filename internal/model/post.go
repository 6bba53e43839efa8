package model

import (
	"time"
)

// BlogPost represents a blog entry owned by exactly one tenant. The
// tenant id is stamped by the store on create and never changes.
type BlogPost struct {
	ID          uint       `json:"id" gorm:"primarykey"`
	TenantID    uint       `json:"tenant_id" gorm:"index;not null"`
	Title       string     `json:"title" gorm:"type:varchar(200);not null"`
	Summary     *string    `json:"summary,omitempty" gorm:"type:varchar(500)"`
	Content     string     `json:"content" gorm:"type:text;not null"`
	Author      string     `json:"author" gorm:"type:varchar(100);default:'Admin'"`
	PublishedAt time.Time  `json:"published_at"`
	UpdatedAt   *time.Time `json:"updated_at,omitempty" gorm:"autoUpdateTime:false"`
	// gorm omits zero-value fields that carry a default tag from the
	// INSERT, so IsPublished must not declare a column default.
	IsPublished bool `json:"is_published"`
	CategoryID  uint `json:"category_id"`
}
