package main

import (
	"github.com/baharimarine/compro/internal/handlers"
	"github.com/baharimarine/compro/internal/middleware"
	"github.com/baharimarine/compro/internal/models"
	"github.com/baharimarine/compro/internal/services"
	"github.com/baharimarine/compro/pkg/logger"
	"github.com/gin-gonic/gin"
)

// imageHandler is the route surface shared by the image-backed resources.
type imageHandler interface {
	List(c *gin.Context)
	GetByID(c *gin.Context)
	Create(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Image(c *gin.Context)
}

// registerRoutes sets up all HTTP routes on the given Gin engine.
func registerRoutes(r *gin.Engine, svc *appServices) {
	cfg := svc.cfg
	db := models.GetDB()
	cookie := cfg.JWT.CookieName

	r.Use(logger.RequestID(), logger.GinLogger("/health", "/metrics", "/assets"), logger.GinRecovery())
	r.Use(middleware.CORS(cfg.Server.AllowOrigins))
	r.RedirectTrailingSlash = false
	r.RedirectFixedPath = false

	r.GET("/health", handlers.NewHealthHandler(db).CheckHealth)
	r.GET("/metrics", handlers.NewMetricsHandler(db).Metrics)

	// Pages
	pages := r.Group("", middleware.SessionGate(cookie))
	for _, path := range handlers.PublicPages {
		pages.GET(path, handlers.Page)
	}
	pages.GET(middleware.AdminPath, handlers.Page)
	pages.GET(middleware.AdminPath+"/*section", handlers.Page)
	r.Static("/assets", cfg.Server.AssetsDir)

	authHandler := handlers.NewAuthHandler(db, &cfg.JWT)
	projectHandler := handlers.NewProjectHandler(db, svc.calendar)
	profileHandler := handlers.NewCompanyProfileHandler(db)
	userHandler := handlers.NewUserHandler(db, &cfg.JWT)
	systemLogHandler := handlers.NewSystemLogHandler(db)
	dashboardHandler := handlers.NewDashboardHandler(db, svc.calendar)

	catalog := map[string]imageHandler{
		"/services":           handlers.NewCatalogHandler(db, services.KindService),
		"/machine-categories": handlers.NewCatalogHandler(db, services.KindCategory),
		"/machines":           handlers.NewCatalogHandler(db, services.KindMachine),
	}
	facilities := handlers.NewFacilityHandler(db)
	certificates := handlers.NewCertificateHandler(db)
	gallery := handlers.NewGalleryHandler(db)
	media := map[string]imageHandler{
		"/facilities":   facilities,
		"/certificates": certificates,
		"/gallery":      gallery,
	}

	api := r.Group("/api")
	{
		// Auth (public)
		auth := api.Group("/auth")
		{
			auth.POST("/login", svc.loginLimiter.Middleware(), authHandler.Login)
			auth.POST("/logout", authHandler.Logout)
			auth.GET("/me", middleware.AuthRequired(cookie), authHandler.Me)
			auth.POST("/change-password", middleware.AuthRequired(cookie), authHandler.ChangePassword)
		}

		// Public reads
		for path, h := range catalog {
			registerReads(api, path, h)
		}
		for path, h := range media {
			registerReads(api, path, h)
		}
		api.GET("/company-profile", profileHandler.Get)

		// Admin
		admin := api.Group("", middleware.AuthRequired(cookie), middleware.AdminRequired(), middleware.AuditLog())
		{
			for path, h := range catalog {
				registerWrites(admin, path, h)
			}
			for path, h := range media {
				registerWrites(admin, path, h)
			}
			admin.POST("/facilities/bulk-delete", facilities.BulkDelete)
			admin.POST("/gallery/bulk-delete", gallery.BulkDelete)

			admin.GET("/projects", projectHandler.List)
			admin.GET("/projects/:id", projectHandler.GetByID)
			admin.POST("/projects", projectHandler.Create)
			admin.POST("/projects/import", projectHandler.Import)
			admin.POST("/projects/bulk-delete", projectHandler.BulkDelete)
			admin.PUT("/projects", projectHandler.Update)
			admin.PUT("/projects/:id", projectHandler.Update)
			admin.DELETE("/projects", projectHandler.Delete)
			admin.DELETE("/projects/:id", projectHandler.Delete)

			admin.PUT("/company-profile", profileHandler.Save)

			admin.GET("/users", userHandler.List)
			admin.POST("/users", userHandler.Create)
			admin.PUT("/users/:id", userHandler.Update)

			admin.GET("/dashboard/stats", dashboardHandler.GetStats)

			admin.GET("/system-logs", systemLogHandler.List)
			admin.GET("/system-logs/modules", systemLogHandler.GetModules)
			admin.DELETE("/system-logs", systemLogHandler.Prune)
		}
	}
}

func registerReads(g *gin.RouterGroup, path string, h imageHandler) {
	g.GET(path, h.List)
	g.GET(path+"/:id", h.GetByID)
	g.GET(path+"/:id/image", h.Image)
}

func registerWrites(g *gin.RouterGroup, path string, h imageHandler) {
	g.POST(path, h.Create)
	g.PUT(path, h.Update)
	g.PUT(path+"/:id", h.Update)
	g.DELETE(path, h.Delete)
	g.DELETE(path+"/:id", h.Delete)
}
