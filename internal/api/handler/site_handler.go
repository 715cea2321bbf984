package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/dto"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/service"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/pkg/response"
)

// SiteHandler is the site HTTP surface.
type SiteHandler struct {
	siteSvc service.SiteService
}

// NewSiteHandler creates a SiteHandler.
func NewSiteHandler(siteSvc service.SiteService) *SiteHandler {
	return &SiteHandler{siteSvc: siteSvc}
}

// CreateSite registers a site under an entity.
// POST /api/v1/sites
func (h *SiteHandler) CreateSite(c *gin.Context) {
	var req dto.CreateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	site, err := h.siteSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleSiteError(c, err)
		return
	}

	response.Created(c, site)
}

// ListSites returns the paginated site list.
// GET /api/v1/sites
func (h *SiteHandler) ListSites(c *gin.Context) {
	var req dto.SiteListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	sites, total, err := h.siteSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleSiteError(c, err)
		return
	}

	response.OKPage(c, sites, total, req.GetPage(), req.GetPageSize())
}

// ListEntitySites returns the sites of one entity.
// GET /api/v1/entities/:id/sites
func (h *SiteHandler) ListEntitySites(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.SiteListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindingFailed(c, err)
		return
	}
	req.EntityID = id
	req.CompanyID = 0
	req.CompanyCode = ""

	sites, total, err := h.siteSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleSiteError(c, err)
		return
	}

	response.OKPage(c, sites, total, req.GetPage(), req.GetPageSize())
}

// GetSite returns one site.
// GET /api/v1/sites/:id
func (h *SiteHandler) GetSite(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	site, err := h.siteSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleSiteError(c, err)
		return
	}

	response.OK(c, site)
}

// UpdateSite patches a site.
// PUT /api/v1/sites/:id
func (h *SiteHandler) UpdateSite(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateSiteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	site, err := h.siteSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleSiteError(c, err)
		return
	}

	response.OK(c, site)
}

// DeleteSite deactivates a site. The row stays so incident history
// survives.
// DELETE /api/v1/sites/:id
func (h *SiteHandler) DeleteSite(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.siteSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleSiteError(c, err)
		return
	}

	response.OK(c, nil)
}

// ToggleSiteStatus flips the active flag.
// POST /api/v1/sites/:id/toggle-status
func (h *SiteHandler) ToggleSiteStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	site, err := h.siteSvc.ToggleStatus(c.Request.Context(), id)
	if err != nil {
		h.handleSiteError(c, err)
		return
	}

	response.OK(c, site)
}

// UpdateSiteStatus changes the operational status.
// PATCH /api/v1/sites/:id/status
func (h *SiteHandler) UpdateSiteStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateSiteStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	site, err := h.siteSvc.UpdateOperationalStatus(c.Request.Context(), id, &req)
	if err != nil {
		h.handleSiteError(c, err)
		return
	}

	response.OK(c, site)
}

// SiteQR returns the site QR payload with a rendered PNG data URL.
// GET /api/v1/sites/:id/qr
func (h *SiteHandler) SiteQR(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	qr, err := h.siteSvc.QR(c.Request.Context(), id)
	if err != nil {
		h.handleSiteError(c, err)
		return
	}

	response.OK(c, qr)
}

// SiteQRURL returns the QR payload without the rendered image.
// GET /api/v1/sites/:id/qr-url
func (h *SiteHandler) SiteQRURL(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	qr, err := h.siteSvc.QRURL(c.Request.Context(), id)
	if err != nil {
		h.handleSiteError(c, err)
		return
	}

	response.OK(c, qr)
}

// AvailableCompanies returns the company dropdown projection for site
// creation.
// GET /api/v1/sites/available-companies
func (h *SiteHandler) AvailableCompanies(c *gin.Context) {
	companies, err := h.siteSvc.AvailableCompanies(c.Request.Context())
	if err != nil {
		h.handleSiteError(c, err)
		return
	}

	response.OK(c, gin.H{"companies": companies})
}

// SiteStats returns the site dashboard counts.
// GET /api/v1/sites/dashboard-stats
func (h *SiteHandler) SiteStats(c *gin.Context) {
	stats, err := h.siteSvc.Stats(c.Request.Context())
	if err != nil {
		h.handleSiteError(c, err)
		return
	}

	response.OK(c, stats)
}

// MaintenanceCalendar downloads the site maintenance schedule as an
// iCalendar file.
// GET /api/v1/sites/:id/maintenance-calendar
func (h *SiteHandler) MaintenanceCalendar(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	content, filename, err := h.siteSvc.MaintenanceCalendar(c.Request.Context(), id)
	if err != nil {
		h.handleSiteError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(content))
}

// handleSiteError maps site business errors to the envelope.
func (h *SiteHandler) handleSiteError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrSiteNotFound):
		response.NotFound(c, 30001, "site not found")
	case errors.Is(err, service.ErrSiteCodeExists):
		response.Conflict(c, 30002, "site code already exists for this entity")
	case errors.Is(err, service.ErrSiteEntityGone):
		response.BadRequest(c, 30003, "entity not found or inactive")
	case errors.Is(err, service.ErrSiteCoordinatePair):
		response.BadRequest(c, 30004, "latitude and longitude must be provided together")
	default:
		response.InternalError(c)
	}
}
