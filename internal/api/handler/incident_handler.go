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

// IncidentHandler is the incident HTTP surface. Incident routes accept
// either the numeric primary key or the public incident UUID in the
// path, so they read the raw :id param instead of parseID.
type IncidentHandler struct {
	incidentSvc service.IncidentService
}

// NewIncidentHandler creates an IncidentHandler.
func NewIncidentHandler(incidentSvc service.IncidentService) *IncidentHandler {
	return &IncidentHandler{incidentSvc: incidentSvc}
}

// ReportIncident files an incident report.
// POST /api/v1/incidents
func (h *IncidentHandler) ReportIncident(c *gin.Context) {
	var req dto.CreateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	incident, err := h.incidentSvc.Report(c.Request.Context(), &req)
	if err != nil {
		h.handleIncidentError(c, err)
		return
	}

	response.Created(c, incident)
}

// ReportAnonymousIncident files an incident report with the reporter
// identity stripped.
// POST /api/v1/incidents/anonymous
func (h *IncidentHandler) ReportAnonymousIncident(c *gin.Context) {
	var req dto.CreateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	incident, err := h.incidentSvc.ReportAnonymous(c.Request.Context(), &req)
	if err != nil {
		h.handleIncidentError(c, err)
		return
	}

	response.Created(c, incident)
}

// ListIncidents returns the paginated incident list.
// GET /api/v1/incidents
func (h *IncidentHandler) ListIncidents(c *gin.Context) {
	var req dto.IncidentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	incidents, total, err := h.incidentSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleIncidentError(c, err)
		return
	}

	response.OKPage(c, incidents, total, req.GetPage(), req.GetPageSize())
}

// GetIncident returns one incident by ID or incident UUID.
// GET /api/v1/incidents/:id
func (h *IncidentHandler) GetIncident(c *gin.Context) {
	incident, err := h.incidentSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleIncidentError(c, err)
		return
	}

	response.OK(c, incident)
}

// UpdateIncident patches an incident.
// PUT /api/v1/incidents/:id
func (h *IncidentHandler) UpdateIncident(c *gin.Context) {
	var req dto.UpdateIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	incident, err := h.incidentSvc.Update(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleIncidentError(c, err)
		return
	}

	response.OK(c, incident)
}

// UpdateIncidentStatus moves an incident through its workflow.
// PATCH /api/v1/incidents/:id/status
func (h *IncidentHandler) UpdateIncidentStatus(c *gin.Context) {
	var req dto.UpdateIncidentStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	incident, err := h.incidentSvc.UpdateStatus(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleIncidentError(c, err)
		return
	}

	response.OK(c, incident)
}

// DeleteIncident removes an incident and its dependents.
// DELETE /api/v1/incidents/:id
func (h *IncidentHandler) DeleteIncident(c *gin.Context) {
	if err := h.incidentSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.handleIncidentError(c, err)
		return
	}

	response.OK(c, nil)
}

// IncidentStats returns the incident dashboard aggregates.
// GET /api/v1/incidents/dashboard-stats
func (h *IncidentHandler) IncidentStats(c *gin.Context) {
	var req dto.IncidentStatsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	stats, err := h.incidentSvc.Stats(c.Request.Context(), &req)
	if err != nil {
		h.handleIncidentError(c, err)
		return
	}

	response.OK(c, stats)
}

// ExportIncidents downloads the filtered incident list as an Excel
// workbook.
// GET /api/v1/incidents/export
func (h *IncidentHandler) ExportIncidents(c *gin.Context) {
	var req dto.IncidentListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	buf, filename, err := h.incidentSvc.Export(c.Request.Context(), &req)
	if err != nil {
		h.handleIncidentError(c, err)
		return
	}

	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// AddIncidentResponse appends a follow-up entry to an incident.
// POST /api/v1/incidents/:id/responses
func (h *IncidentHandler) AddIncidentResponse(c *gin.Context) {
	var req dto.CreateIncidentResponseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	entry, err := h.incidentSvc.AddResponse(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleIncidentError(c, err)
		return
	}

	response.Created(c, entry)
}

// ListIncidentResponses returns an incident's follow-up thread.
// GET /api/v1/incidents/:id/responses
func (h *IncidentHandler) ListIncidentResponses(c *gin.Context) {
	visibleOnly := c.Query("visible_only") == "true"

	entries, err := h.incidentSvc.ListResponses(c.Request.Context(), c.Param("id"), visibleOnly)
	if err != nil {
		h.handleIncidentError(c, err)
		return
	}

	response.OK(c, gin.H{"responses": entries})
}

// AddIncidentAttachment registers an attachment and returns a presigned
// upload URL.
// POST /api/v1/incidents/:id/attachments
func (h *IncidentHandler) AddIncidentAttachment(c *gin.Context) {
	var req dto.CreateAttachmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	attachment, err := h.incidentSvc.AddAttachment(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		h.handleIncidentError(c, err)
		return
	}

	response.Created(c, attachment)
}

// ListIncidentAttachments returns an incident's attachments with
// presigned download URLs.
// GET /api/v1/incidents/:id/attachments
func (h *IncidentHandler) ListIncidentAttachments(c *gin.Context) {
	attachments, err := h.incidentSvc.ListAttachments(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleIncidentError(c, err)
		return
	}

	response.OK(c, gin.H{"attachments": attachments})
}

// ListIncidentNotifications returns the notification log of one
// incident.
// GET /api/v1/incidents/:id/notifications
func (h *IncidentHandler) ListIncidentNotifications(c *gin.Context) {
	notifications, err := h.incidentSvc.ListNotifications(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleIncidentError(c, err)
		return
	}

	response.OK(c, gin.H{"notifications": notifications})
}

// ListAllNotifications returns the paginated global notification log.
// GET /api/v1/incidents/notifications
func (h *IncidentHandler) ListAllNotifications(c *gin.Context) {
	var req dto.NotificationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	notifications, total, err := h.incidentSvc.ListAllNotifications(c.Request.Context(), &req)
	if err != nil {
		h.handleIncidentError(c, err)
		return
	}

	response.OKPage(c, notifications, total, req.GetPage(), req.GetPageSize())
}

// handleIncidentError maps incident business errors to the envelope.
func (h *IncidentHandler) handleIncidentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrIncidentNotFound):
		response.NotFound(c, 50001, "incident not found")
	case errors.Is(err, service.ErrIncidentSiteGone):
		response.BadRequest(c, 50002, "site not found or inactive")
	case errors.Is(err, service.ErrIncidentSiteRequired):
		response.BadRequest(c, 50003, "either site_id or is_headquarters is required")
	case errors.Is(err, service.ErrIncidentClosed):
		response.BadRequest(c, 50004, "cannot change status of a closed incident")
	case errors.Is(err, service.ErrIncidentCoordinatePair):
		response.BadRequest(c, 50005, "latitude and longitude must be provided together")
	case errors.Is(err, service.ErrInvalidSiteFilter):
		response.BadRequest(c, 50006, `site_id must be numeric or "headquarters"`)
	case errors.Is(err, service.ErrStorageUnavailable):
		response.ServiceUnavailable(c, 50007, "object storage not configured")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.Error(c, http.StatusInternalServerError, 50008, "failed to generate export file")
	default:
		response.InternalError(c)
	}
}
