package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/re-admin/core/internal/config"
	"github.com/re-admin/core/internal/database"
	"github.com/re-admin/core/internal/middleware"
	"github.com/re-admin/core/internal/pkg/blobstore"
	"github.com/re-admin/core/internal/pkg/jwt"
	pkgredis "github.com/re-admin/core/internal/pkg/redis"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// App holds all application dependencies.
type App struct {
	cfg    *config.AppConfig
	router *gin.Engine
	db     *gorm.DB
	blobs  blobstore.Store
	logger *zap.Logger
}

// New initializes the application: config → DB → Redis → storage → routes.
func New(logger *zap.Logger, cfg *config.AppConfig) (*App, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	jwt.SetSecret(cfg.JWTSecret)

	db, err := database.Connect(cfg, true)
	if err != nil {
		return nil, fmt.Errorf("database: %w", err)
	}

	rc, err := pkgredis.Connect(cfg.Redis.URLValue())
	if err != nil {
		// the API degrades gracefully without Redis: no HTTP cache, no
		// dashboard summary cache
		logger.Warn("redis unavailable, caching disabled", zap.Error(err))
		rc = nil
	}

	blobs, err := blobstore.NewS3Store(storageConfig(cfg), logger)
	if err != nil {
		return nil, fmt.Errorf("blob store: %w", err)
	}

	if cfg.IsDev() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.HandleMethodNotAllowed = true
	router.Use(gin.Recovery())
	router.Use(middleware.Logger(logger))

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}
	if len(cfg.AllowedOrigins) > 0 && !cfg.IsDev() {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowOriginFunc = func(origin string) bool { return true }
	}
	router.Use(cors.New(corsConfig))

	app := &App{cfg: cfg, router: router, db: db, blobs: blobs, logger: logger}
	app.registerRoutes(rc)

	return app, nil
}

// Addr returns the listen address.
func (a *App) Addr() string { return fmt.Sprintf(":%d", a.cfg.Port) }

// Router returns the HTTP handler.
func (a *App) Router() http.Handler { return a.router }

func storageConfig(cfg *config.AppConfig) blobstore.Config {
	return blobstore.Config{
		Endpoint:        cfg.Storage.Endpoint,
		Region:          cfg.Storage.Region,
		AccessKeyID:     cfg.Storage.AccessKeyID,
		SecretAccessKey: cfg.Storage.SecretAccessKey,
		Bucket:          cfg.Storage.Bucket,
		CustomDomain:    cfg.Storage.CustomDomain,
		PathStyleAccess: cfg.Storage.PathStyleAccess,
		Folders: blobstore.Folders{
			Hero:       cfg.Storage.Folders.Hero,
			Images:     cfg.Storage.Folders.Images,
			Documents:  cfg.Storage.Folders.Documents,
			Developers: cfg.Storage.Folders.Developers,
		},
	}
}
