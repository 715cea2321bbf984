package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/service"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/pkg/response"
)

// PublicHandler serves the unauthenticated QR landing endpoints. The
// projections it returns are filtered for public consumption, so no
// internal identifiers beyond what incident reporting needs leak out.
type PublicHandler struct {
	siteSvc   service.SiteService
	entitySvc service.EntityService
}

// NewPublicHandler creates a PublicHandler.
func NewPublicHandler(siteSvc service.SiteService, entitySvc service.EntityService) *PublicHandler {
	return &PublicHandler{siteSvc: siteSvc, entitySvc: entitySvc}
}

// PublicSiteLookup resolves a scanned site QR code. The reserved
// headquarters code returns the configured organization as a
// pseudo-site.
// GET /public/:company_code/:code
func (h *PublicHandler) PublicSiteLookup(c *gin.Context) {
	site, err := h.siteSvc.PublicLookup(c.Request.Context(), c.Param("company_code"), c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrSiteNotFound) {
			response.NotFound(c, 30001, "Site not found or inactive")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, site)
}

// PublicEntityLookup resolves a scanned entity QR code.
// GET /public/:company_code/entity/:entity_code
func (h *PublicHandler) PublicEntityLookup(c *gin.Context) {
	entity, err := h.entitySvc.PublicLookup(c.Request.Context(), c.Param("company_code"), c.Param("entity_code"))
	if err != nil {
		if errors.Is(err, service.ErrEntityNotFound) {
			response.NotFound(c, 21001, "Entity not found or inactive")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, entity)
}
