package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/dto"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/service"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/pkg/response"
)

// CompanyHandler is the company HTTP surface.
type CompanyHandler struct {
	companySvc service.CompanyService
}

// NewCompanyHandler creates a CompanyHandler.
func NewCompanyHandler(companySvc service.CompanyService) *CompanyHandler {
	return &CompanyHandler{companySvc: companySvc}
}

// CreateCompany registers a company.
// POST /api/v1/companies
func (h *CompanyHandler) CreateCompany(c *gin.Context) {
	var req dto.CreateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	company, err := h.companySvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleCompanyError(c, err)
		return
	}

	response.Created(c, company)
}

// ListCompanies returns the paginated company list.
// GET /api/v1/companies
func (h *CompanyHandler) ListCompanies(c *gin.Context) {
	var req dto.CompanyListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	companies, total, err := h.companySvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleCompanyError(c, err)
		return
	}

	response.OKPage(c, companies, total, req.GetPage(), req.GetPageSize())
}

// GetCompany returns one company.
// GET /api/v1/companies/:id
func (h *CompanyHandler) GetCompany(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	company, err := h.companySvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleCompanyError(c, err)
		return
	}

	response.OK(c, company)
}

// UpdateCompany patches a company.
// PUT /api/v1/companies/:id
func (h *CompanyHandler) UpdateCompany(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateCompanyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	company, err := h.companySvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleCompanyError(c, err)
		return
	}

	response.OK(c, company)
}

// DeleteCompany removes a company.
// DELETE /api/v1/companies/:id
func (h *CompanyHandler) DeleteCompany(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.companySvc.Delete(c.Request.Context(), id); err != nil {
		h.handleCompanyError(c, err)
		return
	}

	response.OK(c, nil)
}

// ToggleCompanyStatus flips the active flag.
// POST /api/v1/companies/:id/toggle-status
func (h *CompanyHandler) ToggleCompanyStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	company, err := h.companySvc.ToggleStatus(c.Request.Context(), id)
	if err != nil {
		h.handleCompanyError(c, err)
		return
	}

	response.OK(c, company)
}

// CompanyStats returns the company dashboard counts.
// GET /api/v1/companies/dashboard-stats
func (h *CompanyHandler) CompanyStats(c *gin.Context) {
	stats, err := h.companySvc.Stats(c.Request.Context())
	if err != nil {
		h.handleCompanyError(c, err)
		return
	}

	response.OK(c, stats)
}

// handleCompanyError maps company business errors to the envelope.
func (h *CompanyHandler) handleCompanyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrCompanyNotFound):
		response.NotFound(c, 20001, "company not found")
	case errors.Is(err, service.ErrCompanyCodeExists):
		response.Conflict(c, 20002, "company code already exists")
	case errors.Is(err, service.ErrParentCompanyNotFound):
		response.BadRequest(c, 20003, "parent company not found")
	case errors.Is(err, service.ErrParentCompanyRequired):
		response.BadRequest(c, 20004, "subsidiary companies require a parent company")
	case errors.Is(err, service.ErrCompanySelfParent):
		response.BadRequest(c, 20005, "a company cannot be its own parent")
	default:
		response.InternalError(c)
	}
}
