package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/config"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/api/handler"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/api/middleware"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/pkg/redis"
)

// maxBodyBytes caps JSON request bodies. File content never travels
// through the API (attachments upload straight to object storage), so
// 1MB covers every legitimate payload.
const maxBodyBytes = 1 << 20

// Setup builds the Gin engine with all routes and middleware. rdb may
// be nil, which disables rate limiting.
func Setup(cfg *config.Config, h *handler.Handler, rdb *redis.Client, db *gorm.DB, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(maxBodyBytes))

	// ── ops ──
	r.GET("/health", healthCheck(rdb, db))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// ── public QR landing (unauthenticated, throttled) ──
	public := r.Group("/public")
	public.Use(middleware.RateLimit(rdb, cfg.RateLimit.PublicPerMinute, time.Minute))
	{
		public.GET("/:company_code/entity/:entity_code", h.Public.PublicEntityLookup)
		public.GET("/:company_code/:code", h.Public.PublicSiteLookup)
	}

	// ── API v1 ──
	v1 := r.Group("/api/v1")
	{
		companies := v1.Group("/companies")
		{
			companies.POST("", h.Company.CreateCompany)
			companies.GET("", h.Company.ListCompanies)
			companies.GET("/dashboard-stats", h.Company.CompanyStats)
			companies.GET("/:id", h.Company.GetCompany)
			companies.PUT("/:id", h.Company.UpdateCompany)
			companies.DELETE("/:id", h.Company.DeleteCompany)
			companies.POST("/:id/toggle-status", h.Company.ToggleCompanyStatus)
			companies.GET("/:id/entities", h.Entity.ListCompanyEntities)
		}

		entities := v1.Group("/entities")
		{
			entities.POST("", h.Entity.CreateEntity)
			entities.GET("", h.Entity.ListEntities)
			entities.GET("/:id", h.Entity.GetEntity)
			entities.PUT("/:id", h.Entity.UpdateEntity)
			entities.DELETE("/:id", h.Entity.DeleteEntity)
			entities.POST("/:id/toggle-status", h.Entity.ToggleEntityStatus)
			entities.GET("/:id/qr", h.Entity.EntityQR)
			entities.GET("/:id/sites", h.Site.ListEntitySites)
		}

		sites := v1.Group("/sites")
		{
			sites.POST("", h.Site.CreateSite)
			sites.GET("", h.Site.ListSites)
			sites.GET("/available-companies", h.Site.AvailableCompanies)
			sites.GET("/dashboard-stats", h.Site.SiteStats)
			sites.GET("/:id", h.Site.GetSite)
			sites.PUT("/:id", h.Site.UpdateSite)
			sites.DELETE("/:id", h.Site.DeleteSite)
			sites.POST("/:id/toggle-status", h.Site.ToggleSiteStatus)
			sites.PATCH("/:id/status", h.Site.UpdateSiteStatus)
			sites.GET("/:id/qr", h.Site.SiteQR)
			sites.GET("/:id/qr-url", h.Site.SiteQRURL)
			sites.GET("/:id/maintenance-calendar", h.Site.MaintenanceCalendar)
		}

		employees := v1.Group("/employees")
		{
			employees.POST("", h.Employee.CreateEmployee)
			employees.GET("", h.Employee.ListEmployees)
			employees.GET("/dashboard-stats", h.Employee.EmployeeStats)
			employees.GET("/emergency-contacts", h.Employee.EmployeeEmergencyContacts)
			employees.GET("/:id", h.Employee.GetEmployee)
			employees.PUT("/:id", h.Employee.UpdateEmployee)
			employees.DELETE("/:id", h.Employee.DeleteEmployee)
			employees.POST("/:id/toggle-status", h.Employee.ToggleEmployeeStatus)
		}

		employeeLocations := v1.Group("/employee-locations")
		{
			employeeLocations.POST("", h.Employee.AssignEmployeeLocation)
			employeeLocations.GET("", h.Employee.ListEmployeeLocations)
			employeeLocations.GET("/:id", h.Employee.GetEmployeeLocation)
			employeeLocations.PUT("/:id", h.Employee.UpdateEmployeeLocation)
			employeeLocations.DELETE("/:id", h.Employee.RemoveEmployeeLocation)
		}

		incidents := v1.Group("/incidents")
		{
			incidents.POST("", h.Incident.ReportIncident)
			incidents.POST("/anonymous",
				middleware.RateLimit(rdb, cfg.RateLimit.ReportPerMinute, time.Minute),
				h.Incident.ReportAnonymousIncident)
			incidents.GET("", h.Incident.ListIncidents)
			incidents.GET("/dashboard-stats", h.Incident.IncidentStats)
			incidents.GET("/export", h.Incident.ExportIncidents)
			incidents.GET("/notifications", h.Incident.ListAllNotifications)
			incidents.GET("/:id", h.Incident.GetIncident)
			incidents.PUT("/:id", h.Incident.UpdateIncident)
			incidents.PATCH("/:id/status", h.Incident.UpdateIncidentStatus)
			incidents.DELETE("/:id", h.Incident.DeleteIncident)
			incidents.POST("/:id/responses", h.Incident.AddIncidentResponse)
			incidents.GET("/:id/responses", h.Incident.ListIncidentResponses)
			incidents.POST("/:id/attachments", h.Incident.AddIncidentAttachment)
			incidents.GET("/:id/attachments", h.Incident.ListIncidentAttachments)
			incidents.GET("/:id/notifications", h.Incident.ListIncidentNotifications)
		}

		contacts := v1.Group("/emergency-contacts")
		{
			contacts.POST("", h.Contact.CreateContact)
			contacts.GET("", h.Contact.ListContacts)
			contacts.GET("/for-location", h.Contact.ContactsForLocation)
			contacts.GET("/national", h.Contact.NationalContacts)
			contacts.GET("/:id", h.Contact.GetContact)
			contacts.PUT("/:id", h.Contact.UpdateContact)
			contacts.DELETE("/:id", h.Contact.DeleteContact)
		}
	}

	return r
}

// healthCheck reports service, database and Redis health. Redis being
// absent is reported as disabled, not as a failure.
func healthCheck(rdb *redis.Client, db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		dbStatus := "ok"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(c.Request.Context()) != nil {
			dbStatus = "down"
		}

		redisStatus := "disabled"
		if rdb != nil {
			redisStatus = "ok"
			if rdb.Ping(c.Request.Context()) != nil {
				redisStatus = "down"
			}
		}

		overall := "ok"
		if dbStatus != "ok" {
			overall = "degraded"
		}

		c.JSON(200, gin.H{
			"status":   overall,
			"database": dbStatus,
			"redis":    redisStatus,
		})
	}
}
