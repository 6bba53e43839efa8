package main

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/suteetoe/multiblog/internal/handler"
	mid "github.com/suteetoe/multiblog/internal/middleware"
	"github.com/suteetoe/multiblog/internal/model"
	"github.com/suteetoe/multiblog/internal/seed"
	"github.com/suteetoe/multiblog/internal/store"
	"github.com/suteetoe/multiblog/internal/tenant"
	"github.com/suteetoe/multiblog/pkg/config"
	"github.com/suteetoe/multiblog/pkg/database"
	"github.com/suteetoe/multiblog/pkg/logger"
	"github.com/suteetoe/multiblog/prometheus"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load("multiblog")
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	if err := logger.InitLogger(&logger.LogConfig{
		Level:       appConfig.Log.Level,
		Environment: appConfig.Server.Env,
		ServiceName: appConfig.ServiceName,
	}); err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting multiblog", appConfig.LogConfig()...)

	// Initialize Prometheus metrics
	prometheus.InitMetrics(appConfig)
	log.Info("Prometheus metrics initialized",
		zap.String("metrics_prefix", appConfig.Metrics.Prefix))

	// Initialize database
	db, err := database.InitDB(&appConfig.DB)
	if err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	if err := database.MigrateModels(&model.Tenant{}, &model.Category{}, &model.BlogPost{}); err != nil {
		log.Fatal("Failed to run migrations", zap.Error(err))
	}

	if appConfig.Tenant.SeedData {
		if err := seed.Run(db); err != nil {
			log.Fatal("Failed to seed database", zap.Error(err))
		}
		log.Info("Seed data loaded")
	}

	// Stores and handlers
	tenantStore := tenant.NewGormStore(db)
	resolver := tenant.NewResolver(tenantStore, appConfig.Tenant.DevHost, appConfig.Tenant.DevFallback)
	postStore := store.NewPostStore(db)
	categoryStore := store.NewCategoryStore(db)

	blogHandler := handler.NewBlogHandler(postStore, categoryStore)
	adminHandler := handler.NewAdminHandler(postStore, categoryStore)
	categoryHandler := handler.NewCategoryHandler(categoryStore)
	tenantHandler := handler.NewTenantHandler(tenantStore)

	// Initialize Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomw.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Health check endpoint
	e.GET("/health", handler.Health)

	// Platform routes - tenant provisioning, outside the tenant guard
	platform := e.Group("/platform")
	platform.GET("/tenants", tenantHandler.List)
	platform.POST("/tenants", tenantHandler.Create)
	platform.DELETE("/tenants/:id", tenantHandler.Delete)

	// Every tenant-scoped route runs behind the resolution guard
	guarded := e.Group("", mid.TenantMiddleware(resolver))

	// Public blog routes
	guarded.GET("/", blogHandler.ListPosts)
	guarded.GET("/posts/:id", blogHandler.GetPost)
	guarded.GET("/categories/:id/posts", blogHandler.PostsByCategory)

	// Admin routes
	admin := guarded.Group("/admin")
	admin.GET("/dashboard", adminHandler.Dashboard)
	admin.GET("/stats", adminHandler.Stats)
	admin.GET("/posts", adminHandler.ListPosts)
	admin.GET("/posts/:id", adminHandler.GetPost)
	admin.POST("/posts", adminHandler.CreatePost)
	admin.PUT("/posts/:id", adminHandler.UpdatePost)
	admin.DELETE("/posts/:id", adminHandler.DeletePost)
	admin.POST("/posts/:id/toggle-publish", adminHandler.TogglePublish)
	admin.GET("/categories", categoryHandler.List)
	admin.POST("/categories", categoryHandler.Create)
	admin.PUT("/categories/:id", categoryHandler.Update)
	admin.DELETE("/categories/:id", categoryHandler.Delete)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
