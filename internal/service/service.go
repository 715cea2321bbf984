package service

import (
	"go.uber.org/zap"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/config"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/repository"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/pkg/storage"
)

// Service is the aggregate entry point for the business layer.
type Service struct {
	Company  CompanyService
	Entity   EntityService
	Site     SiteService
	Employee EmployeeService
	Incident IncidentService
	Contact  ContactService
}

// NewService wires the service aggregate. store may be nil when no
// object storage is configured.
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	notifier Notifier,
	store storage.Store,
	logger *zap.Logger,
) *Service {
	return &Service{
		Company:  NewCompanyService(repo, logger),
		Entity:   NewEntityService(cfg, repo, logger),
		Site:     NewSiteService(cfg, repo, logger),
		Employee: NewEmployeeService(cfg, repo, logger),
		Incident: NewIncidentService(cfg, repo, notifier, store, logger),
		Contact:  NewContactService(cfg, repo, logger),
	}
}
