package stubapi

import (
	"go-hris-admin/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

type RouterConfig struct {
	JWTSecret         string
	RequestsPerSecond float64
	Burst             int
	MaxUploadBytes    int64
}

// NewRouter serves the admin REST surface from store under /api/v1.
func NewRouter(store *Store, cfg RouterConfig, logger *zap.Logger) *gin.Engine {
	registerValidators()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.ContextLogger(logger))
	r.Use(middleware.RateLimitByIP(rate.Limit(cfg.RequestsPerSecond), cfg.Burst))
	r.MaxMultipartMemory = cfg.MaxUploadBytes + 1<<20

	h := NewHandler(store, cfg.MaxUploadBytes, logger)
	r.GET("/health", h.Health)

	api := r.Group("/api/v1")
	api.Use(middleware.AuthMiddleware([]byte(cfg.JWTSecret)))
	RegisterRoutes(api, h)
	return r
}

func RegisterRoutes(r *gin.RouterGroup, h *Handler) {
	departments := r.Group("/departments")
	{
		departments.GET("", h.ListDepartments)
		departments.GET("/active", h.ActiveDepartments)
		departments.POST("/search", h.SearchDepartments)
		departments.POST("", h.CreateDepartment)
		departments.PUT("/:id", h.UpdateDepartment)
		departments.DELETE("/:id", h.DeleteDepartment)
		departments.PATCH("/:id/restore", h.RestoreDepartment)
		departments.GET("/exists/code/:code", h.DepartmentCodeExists)
		departments.GET("/exists/name/:name", h.DepartmentNameExists)
	}

	employees := r.Group("/employees")
	{
		employees.GET("", h.ListEmployees)
		employees.GET("/active", h.ActiveEmployees)
		employees.POST("/search", h.SearchEmployees)
		employees.POST("", h.CreateEmployee)
		employees.PUT("/:id", h.UpdateEmployee)
		employees.DELETE("/:id", h.DeleteEmployee)
		employees.PATCH("/:id/restore", h.RestoreEmployee)
		employees.GET("/exists/code/:code", h.EmployeeCodeExists)
		employees.POST("/:id/image", h.UploadEmployeeImage)
		employees.DELETE("/:id/image", h.RemoveEmployeeImage)
	}

	r.GET("/images/download/:filename", h.DownloadImage)
}
