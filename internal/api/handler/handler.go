package handler

import "github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/service"

// Handler is the aggregate entry point for the HTTP layer.
type Handler struct {
	Company  *CompanyHandler
	Entity   *EntityHandler
	Site     *SiteHandler
	Employee *EmployeeHandler
	Incident *IncidentHandler
	Contact  *ContactHandler
	Public   *PublicHandler
}

// NewHandler creates the Handler aggregate.
func NewHandler(svc *service.Service) *Handler {
	return &Handler{
		Company:  NewCompanyHandler(svc.Company),
		Entity:   NewEntityHandler(svc.Entity),
		Site:     NewSiteHandler(svc.Site),
		Employee: NewEmployeeHandler(svc.Employee),
		Incident: NewIncidentHandler(svc.Incident),
		Contact:  NewContactHandler(svc.Contact),
		Public:   NewPublicHandler(svc.Site, svc.Entity),
	}
}
