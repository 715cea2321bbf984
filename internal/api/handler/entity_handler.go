package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/dto"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/service"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/pkg/response"
)

// EntityHandler is the business-unit HTTP surface.
type EntityHandler struct {
	entitySvc service.EntityService
}

// NewEntityHandler creates an EntityHandler.
func NewEntityHandler(entitySvc service.EntityService) *EntityHandler {
	return &EntityHandler{entitySvc: entitySvc}
}

// CreateEntity registers a business unit under a company.
// POST /api/v1/entities
func (h *EntityHandler) CreateEntity(c *gin.Context) {
	var req dto.CreateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	entity, err := h.entitySvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleEntityError(c, err)
		return
	}

	response.Created(c, entity)
}

// ListEntities returns the paginated entity list.
// GET /api/v1/entities
func (h *EntityHandler) ListEntities(c *gin.Context) {
	var req dto.EntityListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	entities, total, err := h.entitySvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleEntityError(c, err)
		return
	}

	response.OKPage(c, entities, total, req.GetPage(), req.GetPageSize())
}

// ListCompanyEntities returns the entities of one company.
// GET /api/v1/companies/:id/entities
func (h *EntityHandler) ListCompanyEntities(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.EntityListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindingFailed(c, err)
		return
	}
	req.CompanyID = id
	req.CompanyCode = ""

	entities, total, err := h.entitySvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleEntityError(c, err)
		return
	}

	response.OKPage(c, entities, total, req.GetPage(), req.GetPageSize())
}

// GetEntity returns one entity.
// GET /api/v1/entities/:id
func (h *EntityHandler) GetEntity(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	entity, err := h.entitySvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleEntityError(c, err)
		return
	}

	response.OK(c, entity)
}

// UpdateEntity patches an entity.
// PUT /api/v1/entities/:id
func (h *EntityHandler) UpdateEntity(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateEntityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	entity, err := h.entitySvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleEntityError(c, err)
		return
	}

	response.OK(c, entity)
}

// DeleteEntity removes an entity.
// DELETE /api/v1/entities/:id
func (h *EntityHandler) DeleteEntity(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.entitySvc.Delete(c.Request.Context(), id); err != nil {
		h.handleEntityError(c, err)
		return
	}

	response.OK(c, nil)
}

// ToggleEntityStatus flips the active flag.
// POST /api/v1/entities/:id/toggle-status
func (h *EntityHandler) ToggleEntityStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	entity, err := h.entitySvc.ToggleStatus(c.Request.Context(), id)
	if err != nil {
		h.handleEntityError(c, err)
		return
	}

	response.OK(c, entity)
}

// EntityQR returns the entity QR payload with a rendered PNG data URL.
// GET /api/v1/entities/:id/qr
func (h *EntityHandler) EntityQR(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	qr, err := h.entitySvc.QR(c.Request.Context(), id)
	if err != nil {
		h.handleEntityError(c, err)
		return
	}

	response.OK(c, qr)
}

// handleEntityError maps entity business errors to the envelope.
func (h *EntityHandler) handleEntityError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEntityNotFound):
		response.NotFound(c, 21001, "entity not found")
	case errors.Is(err, service.ErrEntityCodeExists):
		response.Conflict(c, 21002, "entity code already exists for this company")
	case errors.Is(err, service.ErrEntityCompanyGone):
		response.BadRequest(c, 21003, "company not found or inactive")
	default:
		response.InternalError(c)
	}
}
