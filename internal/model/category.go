package model

// Category groups the posts of a single tenant. Categories are never
// shared between tenants; a post may only reference a category owned
// by the same tenant.
type Category struct {
	ID          uint    `json:"id" gorm:"primarykey"`
	TenantID    uint    `json:"tenant_id" gorm:"index;not null"`
	Name        string  `json:"name" gorm:"type:varchar(100);not null"`
	Description *string `json:"description,omitempty" gorm:"type:varchar(300)"`
	Color       string  `json:"color" gorm:"type:varchar(50);default:'#007bff'"`
}
