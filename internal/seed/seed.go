// Package seed loads development fixtures: a few tenants, each with its
// own categories and posts. Seeding is idempotent and skipped entirely
// when tenants already exist.
package seed

import (
	"fmt"
	"time"

	"github.com/suteetoe/multiblog/internal/model"
	"gorm.io/gorm"
)

func ptr(s string) *string { return &s }

// Run populates the database with fixture tenants and content.
func Run(db *gorm.DB) error {
	var count int64
	if result := db.Model(&model.Tenant{}).Count(&count); result.Error != nil {
		return fmt.Errorf("count tenants: %w", result.Error)
	}
	if count > 0 {
		return nil
	}

	now := time.Now()

	tenants := []model.Tenant{
		{
			Name:        "Tech Innovators",
			Domain:      "localhost",
			Subdomain:   ptr("tech"),
			Description: ptr("Exploring the future of technology: AI, software development and innovation"),
			Theme:       "Tech",
			IsActive:    true,
			CreatedAt:   now.AddDate(0, 0, -30),
		},
		{
			Name:        "Life & Style Blog",
			Domain:      "lifestyle.localhost",
			Subdomain:   ptr("lifestyle"),
			Description: ptr("The colorful side of life: fashion, health, travel and lifestyle"),
			Theme:       "Lifestyle",
			IsActive:    true,
			CreatedAt:   now.AddDate(0, 0, -25),
		},
		{
			Name:        "Business Hub",
			Domain:      "business.localhost",
			Subdomain:   ptr("business"),
			Description: ptr("The pulse of the business world: entrepreneurship, finance and management"),
			Theme:       "Business",
			IsActive:    true,
			CreatedAt:   now.AddDate(0, 0, -20),
		},
	}
	if result := db.Create(&tenants); result.Error != nil {
		return fmt.Errorf("seed tenants: %w", result.Error)
	}

	categories := []model.Category{
		{TenantID: tenants[0].ID, Name: "Artificial Intelligence", Description: ptr("AI, machine learning and deep learning"), Color: "#e74c3c"},
		{TenantID: tenants[0].ID, Name: "Web Development", Description: ptr("Frontend, backend and full-stack development"), Color: "#3498db"},
		{TenantID: tenants[0].ID, Name: "DevOps", Description: ptr("CI/CD, cloud, containers and deployment"), Color: "#f39c12"},
		{TenantID: tenants[1].ID, Name: "Fashion", Description: ptr("Trends, style tips and the fashion world"), Color: "#e91e63"},
		{TenantID: tenants[1].ID, Name: "Health & Fitness", Description: ptr("Healthy living, exercise and nutrition"), Color: "#4caf50"},
		{TenantID: tenants[1].ID, Name: "Travel", Description: ptr("Travel guides and tips"), Color: "#ff9800"},
		{TenantID: tenants[2].ID, Name: "Entrepreneurship", Description: ptr("Startups, business ideas and founding"), Color: "#2196f3"},
		{TenantID: tenants[2].ID, Name: "Finance", Description: ptr("Investing, markets and financial planning"), Color: "#ff5722"},
	}
	if result := db.Create(&categories); result.Error != nil {
		return fmt.Errorf("seed categories: %w", result.Error)
	}

	categoryID := func(tenantID uint, name string) uint {
		for _, c := range categories {
			if c.TenantID == tenantID && c.Name == name {
				return c.ID
			}
		}
		return 0
	}

	posts := []model.BlogPost{
		{
			TenantID:    tenants[0].ID,
			CategoryID:  categoryID(tenants[0].ID, "Artificial Intelligence"),
			Title:       "AI Trends to Watch This Year",
			Summary:     ptr("What happened in AI this year, and what comes next?"),
			Content:     "<h2>The year in AI</h2><p>Language models went mainstream and multimodal systems now handle text, images and audio together.</p><ul><li><strong>Code generation:</strong> assistants changed how software gets written</li><li><strong>Agents:</strong> autonomous task execution matured</li></ul>",
			Author:      "Alex Morgan",
			PublishedAt: now.AddDate(0, 0, -5),
			IsPublished: true,
		},
		{
			TenantID:    tenants[0].ID,
			CategoryID:  categoryID(tenants[0].ID, "Web Development"),
			Title:       "Server-Side Rendering Is Back",
			Content:     "<p>After years of client-heavy frameworks, the pendulum swings back to the server. Smaller bundles, faster first paint, simpler mental models.</p>",
			Author:      "Alex Morgan",
			PublishedAt: now.AddDate(0, 0, -3),
			IsPublished: true,
		},
		{
			TenantID:    tenants[0].ID,
			CategoryID:  categoryID(tenants[0].ID, "DevOps"),
			Title:       "Draft: Our Deployment Pipeline",
			Content:     "<p>Notes on the new pipeline, not ready to publish yet.</p>",
			Author:      "Alex Morgan",
			PublishedAt: now.AddDate(0, 0, -1),
			IsPublished: false,
		},
		{
			TenantID:    tenants[1].ID,
			CategoryID:  categoryID(tenants[1].ID, "Travel"),
			Title:       "Weekend Guide: Lisbon",
			Content:     "<p>Two days in Lisbon: trams, miradouros and pastel de nata. Start early at the Alfama district and work your way down to the river.</p>",
			Author:      "Jamie Fox",
			PublishedAt: now.AddDate(0, 0, -4),
			IsPublished: true,
		},
		{
			TenantID:    tenants[1].ID,
			CategoryID:  categoryID(tenants[1].ID, "Health & Fitness"),
			Title:       "Five Habits for Better Sleep",
			Content:     "<p>Consistent schedule, no screens before bed, cool room, morning light and no late caffeine. Small changes, large effect.</p>",
			Author:      "Jamie Fox",
			PublishedAt: now.AddDate(0, 0, -2),
			IsPublished: true,
		},
		{
			TenantID:    tenants[2].ID,
			CategoryID:  categoryID(tenants[2].ID, "Entrepreneurship"),
			Title:       "Validating an Idea Before Writing Code",
			Content:     "<p>Talk to ten potential customers before building anything. Most startup failures are market failures, not engineering failures.</p>",
			Author:      "Riley Chen",
			PublishedAt: now.AddDate(0, 0, -6),
			IsPublished: true,
		},
		{
			TenantID:    tenants[2].ID,
			CategoryID:  categoryID(tenants[2].ID, "Finance"),
			Title:       "Cash Flow Basics for Founders",
			Content:     "<p>Revenue is vanity, profit is sanity, cash is reality. Track your runway monthly and know your burn rate cold.</p>",
			Author:      "Riley Chen",
			PublishedAt: now.AddDate(0, 0, -2),
			IsPublished: true,
		},
	}
	if result := db.Create(&posts); result.Error != nil {
		return fmt.Errorf("seed posts: %w", result.Error)
	}

	return nil
}
