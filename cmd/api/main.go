package main

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/colegiosys/licencias-api/api/swagger"
	"github.com/colegiosys/licencias-api/internal/handler"
	internalmw "github.com/colegiosys/licencias-api/internal/middleware"
	"github.com/colegiosys/licencias-api/internal/repository"
	"github.com/colegiosys/licencias-api/internal/service"
	"github.com/colegiosys/licencias-api/pkg/cache"
	"github.com/colegiosys/licencias-api/pkg/config"
	"github.com/colegiosys/licencias-api/pkg/database"
	"github.com/colegiosys/licencias-api/pkg/logger"
	corsmiddleware "github.com/colegiosys/licencias-api/pkg/middleware/cors"
	reqidmiddleware "github.com/colegiosys/licencias-api/pkg/middleware/requestid"
)

// @title Licencias API
// @version 1.0.0
// @description Teacher leave request management
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := database.Migrate(db, cfg.Admin.InitialPassword, logr); err != nil {
		logr.Sugar().Fatalw("failed to migrate database", "error", err)
	}

	profesorRepo := repository.NewProfesorRepository(db)
	licenciaRepo := repository.NewLicenciaRepository(db)

	var cacheRepo *repository.CacheRepository
	if cfg.Dashboard.CacheEnabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, dashboard cache disabled", "error", err)
		} else {
			defer redisClient.Close()
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
		}
	}

	validate := validator.New()
	metricsService := service.NewMetricsService()

	authService := service.NewAuthService(profesorRepo, validate, logr, service.AuthConfig{
		AccessTokenSecret:  cfg.JWT.Secret,
		AccessTokenExpiry:  cfg.JWT.Expiration,
		RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
		Issuer:             "licencias-api",
	})
	profesorService := service.NewProfesorService(profesorRepo, validate, logr)
	licenciaService := service.NewLicenciaService(licenciaRepo, validate, logr)
	exportService := service.NewExportService(licenciaRepo, logr)

	var dashboardCache service.DashboardCache
	if cacheRepo != nil {
		dashboardCache = cacheRepo
	}
	dashboardService := service.NewDashboardService(profesorRepo, licenciaRepo, dashboardCache, metricsService, logr, cfg.Dashboard.CacheTTL)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(internalmw.Metrics(metricsService))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unreachable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	handler.RegisterRoutes(r, cfg.APIPrefix, handler.Deps{
		Auth:           authService,
		Profesores:     profesorService,
		Licencias:      licenciaService,
		Exports:        exportService,
		Dashboard:      dashboardService,
		Metrics:        metricsService,
		ExportsEnabled: cfg.Exports.Enabled,
	})

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
