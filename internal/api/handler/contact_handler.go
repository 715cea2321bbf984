package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/dto"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/service"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/pkg/response"
)

// ContactHandler is the emergency-contact HTTP surface.
type ContactHandler struct {
	contactSvc service.ContactService
}

// NewContactHandler creates a ContactHandler.
func NewContactHandler(contactSvc service.ContactService) *ContactHandler {
	return &ContactHandler{contactSvc: contactSvc}
}

// CreateContact registers an emergency contact.
// POST /api/v1/emergency-contacts
func (h *ContactHandler) CreateContact(c *gin.Context) {
	var req dto.CreateEmergencyContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	contact, err := h.contactSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleContactError(c, err)
		return
	}

	response.Created(c, contact)
}

// ListContacts returns the paginated contact list.
// GET /api/v1/emergency-contacts
func (h *ContactHandler) ListContacts(c *gin.Context) {
	var req dto.EmergencyContactListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	contacts, total, err := h.contactSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleContactError(c, err)
		return
	}

	response.OKPage(c, contacts, total, req.GetPage(), req.GetPageSize())
}

// GetContact returns one contact.
// GET /api/v1/emergency-contacts/:id
func (h *ContactHandler) GetContact(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	contact, err := h.contactSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleContactError(c, err)
		return
	}

	response.OK(c, contact)
}

// UpdateContact patches a contact.
// PUT /api/v1/emergency-contacts/:id
func (h *ContactHandler) UpdateContact(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateEmergencyContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	contact, err := h.contactSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleContactError(c, err)
		return
	}

	response.OK(c, contact)
}

// DeleteContact removes a contact.
// DELETE /api/v1/emergency-contacts/:id
func (h *ContactHandler) DeleteContact(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.contactSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleContactError(c, err)
		return
	}

	response.OK(c, nil)
}

// ContactsForLocation returns the combined emergency directory for one
// location: registered contacts plus flagged employees.
// GET /api/v1/emergency-contacts/for-location
func (h *ContactHandler) ContactsForLocation(c *gin.Context) {
	locationType := c.Query("location_type")
	locationID := c.Query("location_id")
	if locationType == "" || locationID == "" {
		response.BadRequest(c, 10001, "location_type and location_id query parameters are required")
		return
	}

	directory, err := h.contactSvc.ForLocation(c.Request.Context(), locationType, locationID)
	if err != nil {
		h.handleContactError(c, err)
		return
	}

	response.OK(c, directory)
}

// NationalContacts returns the nationwide helpline numbers, optionally
// merged with state-specific rows.
// GET /api/v1/emergency-contacts/national
func (h *ContactHandler) NationalContacts(c *gin.Context) {
	contacts, err := h.contactSvc.National(c.Request.Context(), c.Query("state"))
	if err != nil {
		h.handleContactError(c, err)
		return
	}

	response.OK(c, gin.H{"contacts": contacts})
}

// handleContactError maps contact business errors to the envelope.
func (h *ContactHandler) handleContactError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrContactNotFound):
		response.NotFound(c, 60001, "emergency contact not found")
	case errors.Is(err, service.ErrContactExists):
		response.Conflict(c, 60002, "contact already exists for this site, type and name")
	case errors.Is(err, service.ErrContactScopeRequired):
		response.BadRequest(c, 60003, "either site_id or company_id is required")
	case errors.Is(err, service.ErrContactSiteGone):
		response.BadRequest(c, 60004, "referenced site not found")
	case errors.Is(err, service.ErrContactCompanyGone):
		response.BadRequest(c, 60005, "referenced company not found")
	case errors.Is(err, service.ErrInvalidLocationRef):
		response.BadRequest(c, 40104, "invalid location reference")
	default:
		response.InternalError(c)
	}
}
