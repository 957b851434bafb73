// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"github.com/hanibalsk/property-management-sub005/internal/domain/auth"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/http/v1/handlers"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/http/v1/middleware"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/storage/postgres"
	"github.com/hanibalsk/property-management-sub005/internal/infrastructure/storage/postgres/domain_repo"
	"github.com/hanibalsk/property-management-sub005/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the shared database pool (health checks, legacy call sites)
	Pool *postgres.Pool

	// Binder binds per-request connections to the request identity
	Binder *postgres.Binder

	// Logger for request logging
	Logger *logger.Logger

	// JWTService issues and validates access tokens
	JWTService *auth.JWTService

	// AuthService for authentication endpoints
	AuthService *auth.Service

	// Audit records data changes on tenant-scoped tables
	Audit *postgres.AuditService
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	base := handlers.NewBaseHandler()

	// Health endpoints (no auth, no bound connection)
	healthHandler := handlers.NewHealthHandler(cfg.Pool, cfg.Binder)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/isolation", healthHandler.Isolation)
		health.GET("/info", healthHandler.Info)
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		// Login needs no identity and no bound connection; the credential
		// store binds its own system connection internally.
		authHandler := handlers.NewAuthHandler(base, cfg.AuthService)
		v1.POST("/auth/login", authHandler.Login)

		// Protected endpoints: identity first, then a connection bound to it.
		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTService))
		protected.Use(middleware.RequestBind(cfg.Binder))

		orgHandler := handlers.NewOrganizationHandler(base, domain_repo.NewOrganizationRepo(), domain_repo.NewMembershipRepo())
		protected.POST("/organizations", middleware.RequireSuperAdmin(), orgHandler.Create)
		protected.GET("/organizations", orgHandler.List)
		protected.GET("/organizations/:id", orgHandler.Get)
		protected.POST("/organizations/:id/members", orgHandler.AddMember)
		protected.GET("/organizations/:id/members", orgHandler.ListMembers)
		protected.DELETE("/organizations/:id/members/:memberId", orgHandler.RemoveMember)

		propertyHandler := handlers.NewPropertyHandler(base, domain_repo.NewPropertyRepo())
		protected.POST("/buildings", propertyHandler.CreateBuilding)
		protected.GET("/buildings", propertyHandler.ListBuildings)
		protected.GET("/buildings/:id", propertyHandler.GetBuilding)
		protected.POST("/buildings/:id/units", propertyHandler.CreateUnit)
		protected.GET("/units", propertyHandler.ListUnits)

		orderHandler := handlers.NewWorkOrderHandler(base, domain_repo.NewWorkOrderRepo(), cfg.Audit)
		protected.POST("/work-orders", orderHandler.Create)
		protected.GET("/work-orders", orderHandler.List)
		protected.GET("/work-orders/:id", orderHandler.Get)
		protected.GET("/work-orders/:id/audit", orderHandler.History)
		protected.PATCH("/work-orders/:id/status", orderHandler.UpdateStatus)

		invoiceHandler := handlers.NewInvoiceHandler(base, domain_repo.NewInvoiceRepo())
		protected.POST("/invoices", invoiceHandler.Create)
		protected.GET("/invoices", invoiceHandler.List)
		protected.GET("/invoices/:id", invoiceHandler.Get)
	}

	return router
}
