package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"github.com/DigitalQatalyst/DQ-Intranet-DWS--sub009/internal/middleware"
)

type Handlers struct {
	Health     *HealthHandler
	Catalog    *CatalogHandler
	Course     *CourseHandler
	Community  *CommunityHandler
	Membership *MembershipHandler
}

type RouterConfig struct {
	ServiceName string
	JWTSecret   string
	AdminRole   string
	CORSOrigins []string
}

// NewRouter mounts every route under /v1.
func NewRouter(h Handlers, cfg RouterConfig, logger *zap.Logger) *gin.Engine {
	r := gin.New()
	r.HandleMethodNotAllowed = true

	r.Use(
		middleware.Recovery(logger),
		middleware.RequestID(),
		otelgin.Middleware(cfg.ServiceName),
		middleware.AccessLog(logger),
		middleware.CORS(cfg.CORSOrigins),
	)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Not Found"})
	})
	r.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, gin.H{"error": "Method not allowed"})
	})

	v1 := r.Group("/v1")

	// Public, and never rejected for a bad Authorization header.
	v1.GET("/health", h.Health.Check)

	routes := v1.Group("")
	routes.Use(middleware.Authenticate(cfg.JWTSecret))

	admin := middleware.RequireRole(cfg.AdminRole)
	authed := middleware.RequireAuth()

	routes.GET("/catalog", h.Catalog.List)
	routes.GET("/catalog/taxonomies", h.Catalog.Taxonomies)
	routes.GET("/catalog/:id", h.Catalog.Get)
	routes.GET("/catalog/:id/versions", admin, h.Catalog.Versions)
	routes.POST("/catalog", admin, h.Catalog.Create)
	routes.PUT("/catalog/:id", admin, h.Catalog.Update)
	routes.DELETE("/catalog/:id", admin, h.Catalog.Delete)

	routes.GET("/lms/courses", h.Course.List)
	routes.GET("/lms/courses/:id", h.Course.Get)

	routes.GET("/communities", h.Community.List)
	routes.POST("/communities", authed, h.Community.Create)
	routes.GET("/communities/:id", h.Community.Get)
	routes.GET("/communities/:id/members", h.Membership.ListMembers)

	// The membership service answers anonymous callers itself.
	routes.POST("/communities/:id/join", h.Membership.Join)
	routes.POST("/communities/:id/leave", h.Membership.Leave)
	routes.GET("/communities/:id/membership", h.Membership.Status)

	routes.GET("/me/memberships", authed, h.Community.Mine)

	return r
}
