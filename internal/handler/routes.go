package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/colegiosys/licencias-api/internal/middleware"
	"github.com/colegiosys/licencias-api/internal/models"
	"github.com/colegiosys/licencias-api/internal/service"
)

// Deps bundles everything route registration needs.
type Deps struct {
	Auth           *service.AuthService
	Profesores     *service.ProfesorService
	Licencias      *service.LicenciaService
	Exports        *service.ExportService
	Dashboard      *service.DashboardService
	Metrics        *service.MetricsService
	ExportsEnabled bool
}

// RegisterRoutes mounts the API surface under the given prefix.
func RegisterRoutes(r *gin.Engine, prefix string, deps Deps) {
	authHandler := NewAuthHandler(deps.Auth)
	profesorHandler := NewProfesorHandler(deps.Profesores, deps.Dashboard)
	licenciaHandler := NewLicenciaHandler(deps.Licencias, deps.Exports, deps.Dashboard)
	dashboardHandler := NewDashboardHandler(deps.Dashboard)
	metricsHandler := NewMetricsHandler(deps.Metrics)

	r.GET("/metrics", metricsHandler.Scrape)

	api := r.Group(prefix)

	auth := api.Group("/auth")
	{
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
		auth.POST("/logout", middleware.JWT(deps.Auth), authHandler.Logout)
		// change-password stays reachable while a password change is
		// pending; everything else is gated below.
		auth.POST("/change-password", middleware.JWT(deps.Auth), authHandler.ChangePassword)
		auth.GET("/me", middleware.JWT(deps.Auth), authHandler.Me)
	}

	admin := api.Group("", middleware.JWT(deps.Auth), middleware.RequirePasswordChanged(), middleware.RequireRoles(models.RoleAdmin))
	{
		admin.GET("/profesores", profesorHandler.List)
		admin.POST("/profesores", profesorHandler.Register)
		admin.DELETE("/profesores/:id", profesorHandler.Delete)
		admin.GET("/licencias", licenciaHandler.ListAll)
		admin.PATCH("/licencias/:id/estado", licenciaHandler.Decide)
		admin.GET("/dashboard", dashboardHandler.Admin)
		if deps.ExportsEnabled {
			admin.GET("/licencias/export", licenciaHandler.Export)
		}
	}

	profesor := api.Group("", middleware.JWT(deps.Auth), middleware.RequirePasswordChanged(), middleware.RequireRoles(models.RoleProfesor))
	{
		profesor.GET("/licencias/mias", licenciaHandler.ListOwn)
		profesor.POST("/licencias", licenciaHandler.Submit)
	}
}
