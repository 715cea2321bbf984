package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/dto"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/service"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/pkg/response"
)

// EmployeeHandler is the employee and location-assignment HTTP surface.
type EmployeeHandler struct {
	employeeSvc service.EmployeeService
}

// NewEmployeeHandler creates an EmployeeHandler.
func NewEmployeeHandler(employeeSvc service.EmployeeService) *EmployeeHandler {
	return &EmployeeHandler{employeeSvc: employeeSvc}
}

// CreateEmployee registers an employee.
// POST /api/v1/employees
func (h *EmployeeHandler) CreateEmployee(c *gin.Context) {
	var req dto.CreateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	employee, err := h.employeeSvc.Create(c.Request.Context(), &req)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.Created(c, employee)
}

// ListEmployees returns the paginated employee list.
// GET /api/v1/employees
func (h *EmployeeHandler) ListEmployees(c *gin.Context) {
	var req dto.EmployeeListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	employees, total, err := h.employeeSvc.List(c.Request.Context(), &req)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OKPage(c, employees, total, req.GetPage(), req.GetPageSize())
}

// GetEmployee returns one employee with assignments.
// GET /api/v1/employees/:id
func (h *EmployeeHandler) GetEmployee(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	employee, err := h.employeeSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, employee)
}

// UpdateEmployee patches an employee.
// PUT /api/v1/employees/:id
func (h *EmployeeHandler) UpdateEmployee(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateEmployeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	employee, err := h.employeeSvc.Update(c.Request.Context(), id, &req)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, employee)
}

// DeleteEmployee deactivates an employee.
// DELETE /api/v1/employees/:id
func (h *EmployeeHandler) DeleteEmployee(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.employeeSvc.Delete(c.Request.Context(), id); err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, nil)
}

// ToggleEmployeeStatus flips the active flag.
// POST /api/v1/employees/:id/toggle-status
func (h *EmployeeHandler) ToggleEmployeeStatus(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	employee, err := h.employeeSvc.ToggleStatus(c.Request.Context(), id)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, employee)
}

// EmployeeStats returns the employee dashboard counts.
// GET /api/v1/employees/dashboard-stats
func (h *EmployeeHandler) EmployeeStats(c *gin.Context) {
	stats, err := h.employeeSvc.Stats(c.Request.Context())
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, stats)
}

// EmployeeEmergencyContacts returns the employees flagged as emergency
// contacts for one location.
// GET /api/v1/employees/emergency-contacts
func (h *EmployeeHandler) EmployeeEmergencyContacts(c *gin.Context) {
	locationType := c.Query("location_type")
	locationID := c.Query("location_id")
	if locationType == "" || locationID == "" {
		response.BadRequest(c, 10001, "location_type and location_id query parameters are required")
		return
	}

	employees, err := h.employeeSvc.EmergencyContacts(c.Request.Context(), locationType, locationID)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, gin.H{"employees": employees})
}

// AssignEmployeeLocation attaches an employee to a location.
// POST /api/v1/employee-locations
func (h *EmployeeHandler) AssignEmployeeLocation(c *gin.Context) {
	var req dto.CreateEmployeeLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	assignment, err := h.employeeSvc.AssignLocation(c.Request.Context(), &req)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.Created(c, assignment)
}

// ListEmployeeLocations returns the paginated assignment list.
// GET /api/v1/employee-locations
func (h *EmployeeHandler) ListEmployeeLocations(c *gin.Context) {
	var req dto.EmployeeLocationListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	assignments, total, err := h.employeeSvc.ListAssignments(c.Request.Context(), &req)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OKPage(c, assignments, total, req.GetPage(), req.GetPageSize())
}

// GetEmployeeLocation returns one assignment.
// GET /api/v1/employee-locations/:id
func (h *EmployeeHandler) GetEmployeeLocation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	assignment, err := h.employeeSvc.GetAssignment(c.Request.Context(), id)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, assignment)
}

// UpdateEmployeeLocation patches an assignment's flags.
// PUT /api/v1/employee-locations/:id
func (h *EmployeeHandler) UpdateEmployeeLocation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateEmployeeLocationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindingFailed(c, err)
		return
	}

	assignment, err := h.employeeSvc.UpdateAssignment(c.Request.Context(), id, &req)
	if err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, assignment)
}

// RemoveEmployeeLocation deletes an assignment.
// DELETE /api/v1/employee-locations/:id
func (h *EmployeeHandler) RemoveEmployeeLocation(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.employeeSvc.RemoveAssignment(c.Request.Context(), id); err != nil {
		h.handleEmployeeError(c, err)
		return
	}

	response.OK(c, nil)
}

// handleEmployeeError maps employee business errors to the envelope.
func (h *EmployeeHandler) handleEmployeeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmployeeNotFound):
		response.NotFound(c, 40001, "employee not found")
	case errors.Is(err, service.ErrEmployeeCodeExists):
		response.Conflict(c, 40002, "employee code already exists")
	case errors.Is(err, service.ErrEmployeeEmailExists):
		response.Conflict(c, 40003, "employee email already exists")
	case errors.Is(err, service.ErrAssignmentNotFound):
		response.NotFound(c, 40101, "location assignment not found")
	case errors.Is(err, service.ErrAssignmentExists):
		response.Conflict(c, 40102, "employee already assigned to this location")
	case errors.Is(err, service.ErrAssignmentLocationGone):
		response.BadRequest(c, 40103, "referenced location not found or inactive")
	case errors.Is(err, service.ErrInvalidLocationRef):
		response.BadRequest(c, 40104, "invalid location reference")
	default:
		response.InternalError(c)
	}
}
