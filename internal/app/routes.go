package app

import (
	"github.com/gin-gonic/gin"
	"github.com/re-admin/core/internal/middleware"
	"github.com/re-admin/core/internal/modules/auth"
	"github.com/re-admin/core/internal/modules/dashboard"
	"github.com/re-admin/core/internal/modules/developer"
	"github.com/re-admin/core/internal/modules/project"
	"github.com/re-admin/core/internal/modules/sidebar"
	pkgredis "github.com/re-admin/core/internal/pkg/redis"
	"github.com/re-admin/core/internal/pkg/response"
)

func (a *App) registerRoutes(rc *pkgredis.Client) {
	r := a.router
	db := a.db
	folders := storageConfig(a.cfg).Folders
	authMW := middleware.Auth()

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c, "route not found")
	})
	r.GET("/health", func(c *gin.Context) {
		response.OK(c, gin.H{"status": "ok"})
	})

	projectSvc := project.NewService(db, a.blobs, a.logger)
	developerSvc := developer.NewService(db, a.blobs, a.logger)

	projectHandler := project.NewHandler(projectSvc, a.blobs, folders)
	developerHandler := developer.NewHandler(developerSvc, a.blobs, folders)

	// Admin API
	api := r.Group("/api")
	auth.NewHandler(auth.NewService(db)).RegisterRoutes(api, authMW)
	projectHandler.RegisterRoutes(api, authMW)
	developerHandler.RegisterRoutes(api, authMW)
	sidebar.NewHandler(sidebar.NewService(db)).RegisterRoutes(api, authMW)
	dashboard.NewHandler(dashboard.NewService(projectSvc, developerSvc, rc)).RegisterRoutes(api, authMW)

	// Public read surface, cached in Redis when available. OptionalAuth runs
	// first so authenticated admins bypass the shared cache.
	public := r.Group("/api/public")
	public.Use(middleware.OptionalAuth(), middleware.HTTPCache(rc.Raw(), middleware.HTTPCacheOptions{}))
	projectHandler.RegisterPublicRoutes(public)
	developerHandler.RegisterPublicRoutes(public)
}
