package service

import (
	"context"
	"sort"
	"strings"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/config"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/model"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/repository"
)

// ── Mock CompanyRepository ──

type mockCompanyRepo struct {
	companies    map[uint]*model.Company
	entityCounts map[uint]int64
	idCounter    uint
}

func newMockCompanyRepo() *mockCompanyRepo {
	return &mockCompanyRepo{
		companies:    make(map[uint]*model.Company),
		entityCounts: make(map[uint]int64),
	}
}

func (m *mockCompanyRepo) Create(_ context.Context, company *model.Company) error {
	if company.ID == 0 {
		company.ID = nextID(m.companies, &m.idCounter)
	}
	if company.CreatedAt.IsZero() {
		company.CreatedAt = time.Now()
		company.UpdatedAt = company.CreatedAt
	}
	m.companies[company.ID] = company
	return nil
}

func (m *mockCompanyRepo) GetByID(_ context.Context, id uint) (*model.Company, error) {
	if c, ok := m.companies[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCompanyRepo) GetByCode(_ context.Context, code string) (*model.Company, error) {
	for _, c := range m.companies {
		if c.CompanyCode == code {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockCompanyRepo) List(_ context.Context, f *repository.CompanyListFilters, offset, limit int) ([]model.Company, int64, error) {
	var filtered []model.Company
	for _, c := range m.companies {
		if f != nil {
			if f.CompanyType != "" && c.CompanyType != f.CompanyType {
				continue
			}
			if f.ActiveOnly && !c.IsActive {
				continue
			}
			if f.Search != "" && !containsFold(f.Search, c.Name, c.CompanyCode, c.City) {
				continue
			}
		}
		filtered = append(filtered, *c)
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Name < filtered[j].Name })
	total := int64(len(filtered))
	return pageSlice(filtered, offset, limit), total, nil
}

func (m *mockCompanyRepo) Update(_ context.Context, company *model.Company) error {
	m.companies[company.ID] = company
	return nil
}

func (m *mockCompanyRepo) Delete(_ context.Context, id uint) error {
	delete(m.companies, id)
	return nil
}

func (m *mockCompanyRepo) Count(_ context.Context, activeOnly bool) (int64, error) {
	var total int64
	for _, c := range m.companies {
		if activeOnly && !c.IsActive {
			continue
		}
		total++
	}
	return total, nil
}

func (m *mockCompanyRepo) CountEntities(_ context.Context, companyID uint) (int64, error) {
	return m.entityCounts[companyID], nil
}

func (m *mockCompanyRepo) BatchCountEntities(_ context.Context, companyIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(companyIDs))
	for _, id := range companyIDs {
		if n, ok := m.entityCounts[id]; ok {
			counts[id] = n
		}
	}
	return counts, nil
}

func (m *mockCompanyRepo) GroupCount(_ context.Context, column string) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, c := range m.companies {
		switch column {
		case "company_type":
			counts[c.CompanyType]++
		case "state":
			counts[c.State]++
		}
	}
	return counts, nil
}

func (m *mockCompanyRepo) ListActiveWithEntityCounts(_ context.Context) ([]model.Company, map[uint]int64, error) {
	var companies []model.Company
	ids := make([]uint, 0, len(m.companies))
	for _, c := range m.companies {
		if !c.IsActive {
			continue
		}
		companies = append(companies, *c)
		ids = append(ids, c.ID)
	}
	sort.Slice(companies, func(i, j int) bool { return companies[i].Name < companies[j].Name })
	counts, _ := m.BatchCountEntities(context.Background(), ids)
	return companies, counts, nil
}

// ── Mock EntityRepository ──

type mockEntityRepo struct {
	entities   map[uint]*model.Entity
	siteCounts map[uint]int64
	idCounter  uint
}

func newMockEntityRepo() *mockEntityRepo {
	return &mockEntityRepo{
		entities:   make(map[uint]*model.Entity),
		siteCounts: make(map[uint]int64),
	}
}

func (m *mockEntityRepo) Create(_ context.Context, entity *model.Entity) error {
	if entity.ID == 0 {
		entity.ID = nextID(m.entities, &m.idCounter)
	}
	if entity.CreatedAt.IsZero() {
		entity.CreatedAt = time.Now()
		entity.UpdatedAt = entity.CreatedAt
	}
	m.entities[entity.ID] = entity
	return nil
}

func (m *mockEntityRepo) GetByID(_ context.Context, id uint) (*model.Entity, error) {
	if e, ok := m.entities[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEntityRepo) GetByCompanyAndCode(_ context.Context, companyID uint, entityCode string) (*model.Entity, error) {
	for _, e := range m.entities {
		if e.CompanyID == companyID && e.EntityCode == entityCode {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEntityRepo) GetByCodes(_ context.Context, companyCode, entityCode string) (*model.Entity, error) {
	for _, e := range m.entities {
		if e.Company == nil || !e.Company.IsActive || e.Company.CompanyCode != companyCode {
			continue
		}
		if e.EntityCode == entityCode && e.IsActive {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEntityRepo) List(_ context.Context, f *repository.EntityListFilters, offset, limit int) ([]model.Entity, int64, error) {
	var filtered []model.Entity
	for _, e := range m.entities {
		if f != nil {
			if f.CompanyID != 0 && e.CompanyID != f.CompanyID {
				continue
			}
			if f.CompanyCode != "" && (e.Company == nil || e.Company.CompanyCode != f.CompanyCode) {
				continue
			}
			if f.ActiveOnly && !e.IsActive {
				continue
			}
			if f.Search != "" && !containsFold(f.Search, e.Name, e.EntityCode) {
				continue
			}
		}
		filtered = append(filtered, *e)
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Name < filtered[j].Name })
	total := int64(len(filtered))
	return pageSlice(filtered, offset, limit), total, nil
}

func (m *mockEntityRepo) Update(_ context.Context, entity *model.Entity) error {
	m.entities[entity.ID] = entity
	return nil
}

func (m *mockEntityRepo) Delete(_ context.Context, id uint) error {
	delete(m.entities, id)
	return nil
}

func (m *mockEntityRepo) BatchCountSites(_ context.Context, entityIDs []uint) (map[uint]int64, error) {
	counts := make(map[uint]int64, len(entityIDs))
	for _, id := range entityIDs {
		if n, ok := m.siteCounts[id]; ok {
			counts[id] = n
		}
	}
	return counts, nil
}

// ── Mock SiteRepository ──

type mockSiteRepo struct {
	sites     map[uint]*model.Site
	idCounter uint
}

func newMockSiteRepo() *mockSiteRepo {
	return &mockSiteRepo{sites: make(map[uint]*model.Site)}
}

func (m *mockSiteRepo) Create(_ context.Context, site *model.Site) error {
	if site.ID == 0 {
		site.ID = nextID(m.sites, &m.idCounter)
	}
	if site.CreatedAt.IsZero() {
		site.CreatedAt = time.Now()
		site.UpdatedAt = site.CreatedAt
	}
	m.sites[site.ID] = site
	return nil
}

func (m *mockSiteRepo) GetByID(_ context.Context, id uint) (*model.Site, error) {
	if s, ok := m.sites[id]; ok {
		return s, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSiteRepo) GetByEntityAndCode(_ context.Context, entityID uint, siteCode string) (*model.Site, error) {
	for _, s := range m.sites {
		if s.EntityID == entityID && s.SiteCode == siteCode {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSiteRepo) GetByCodes(_ context.Context, companyCode, siteCode string) (*model.Site, error) {
	for _, s := range m.sites {
		if s.Entity == nil || s.Entity.Company == nil {
			continue
		}
		if !s.Entity.Company.IsActive || s.Entity.Company.CompanyCode != companyCode {
			continue
		}
		if s.SiteCode == siteCode && s.IsActive {
			return s, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockSiteRepo) List(_ context.Context, f *repository.SiteListFilters, offset, limit int) ([]model.Site, int64, error) {
	var filtered []model.Site
	for _, s := range m.sites {
		if f != nil {
			if f.EntityID != 0 && s.EntityID != f.EntityID {
				continue
			}
			if f.CompanyID != 0 {
				if s.Entity == nil || s.Entity.CompanyID != f.CompanyID {
					continue
				}
			}
			if f.CompanyCode != "" {
				if s.Entity == nil || s.Entity.Company == nil || s.Entity.Company.CompanyCode != f.CompanyCode {
					continue
				}
			}
			if f.Status != "" && s.OperationalStatus != f.Status {
				continue
			}
			if f.PlantType != "" && s.PlantType != f.PlantType {
				continue
			}
			if f.State != "" && s.State != f.State {
				continue
			}
			if f.ActiveOnly && !s.IsActive {
				continue
			}
			if f.OperationalOnly && !(s.IsActive && s.OperationalStatus == model.SiteStatusOperational) {
				continue
			}
			if f.Search != "" && !containsFold(f.Search, s.Name, s.SiteCode, s.City) {
				continue
			}
		}
		filtered = append(filtered, *s)
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].Name < filtered[j].Name })
	total := int64(len(filtered))
	return pageSlice(filtered, offset, limit), total, nil
}

func (m *mockSiteRepo) Update(_ context.Context, site *model.Site) error {
	m.sites[site.ID] = site
	return nil
}

func (m *mockSiteRepo) Deactivate(_ context.Context, id uint) error {
	if s, ok := m.sites[id]; ok {
		s.IsActive = false
		return nil
	}
	return gorm.ErrRecordNotFound
}

func (m *mockSiteRepo) Count(_ context.Context, activeOnly bool) (int64, error) {
	var total int64
	for _, s := range m.sites {
		if activeOnly && !s.IsActive {
			continue
		}
		total++
	}
	return total, nil
}

func (m *mockSiteRepo) CountOperational(_ context.Context) (int64, error) {
	var total int64
	for _, s := range m.sites {
		if s.IsActive && s.OperationalStatus == model.SiteStatusOperational {
			total++
		}
	}
	return total, nil
}

func (m *mockSiteRepo) GroupCount(_ context.Context, column string) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, s := range m.sites {
		if !s.IsActive {
			continue
		}
		switch column {
		case "plant_type":
			counts[s.PlantType]++
		case "state":
			counts[s.State]++
		}
	}
	return counts, nil
}

func (m *mockSiteRepo) Recent(_ context.Context, limit int) ([]model.Site, error) {
	var sites []model.Site
	for _, s := range m.sites {
		sites = append(sites, *s)
	}
	sort.Slice(sites, func(i, j int) bool { return sites[i].CreatedAt.After(sites[j].CreatedAt) })
	if len(sites) > limit {
		sites = sites[:limit]
	}
	return sites, nil
}

// ── Mock EmployeeRepository ──

type mockEmployeeRepo struct {
	employees map[uint]*model.Employee
	idCounter uint
}

func newMockEmployeeRepo() *mockEmployeeRepo {
	return &mockEmployeeRepo{employees: make(map[uint]*model.Employee)}
}

func (m *mockEmployeeRepo) Create(_ context.Context, employee *model.Employee) error {
	if employee.ID == 0 {
		employee.ID = nextID(m.employees, &m.idCounter)
	}
	if employee.CreatedAt.IsZero() {
		employee.CreatedAt = time.Now()
		employee.UpdatedAt = employee.CreatedAt
	}
	m.employees[employee.ID] = employee
	return nil
}

func (m *mockEmployeeRepo) GetByID(_ context.Context, id uint) (*model.Employee, error) {
	if e, ok := m.employees[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) GetByCode(_ context.Context, employeeCode string) (*model.Employee, error) {
	for _, e := range m.employees {
		if e.EmployeeCode == employeeCode {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) GetByEmail(_ context.Context, email string) (*model.Employee, error) {
	for _, e := range m.employees {
		if e.Email == email {
			return e, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeRepo) List(_ context.Context, f *repository.EmployeeListFilters, offset, limit int) ([]model.Employee, int64, error) {
	var filtered []model.Employee
	for _, e := range m.employees {
		if f != nil {
			if f.Department != "" && e.Department != f.Department {
				continue
			}
			if f.ActiveOnly && !e.IsActive {
				continue
			}
			if f.Search != "" && !containsFold(f.Search, e.FirstName, e.LastName, e.EmployeeCode, e.Email) {
				continue
			}
		}
		filtered = append(filtered, *e)
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].FirstName < filtered[j].FirstName })
	total := int64(len(filtered))
	return pageSlice(filtered, offset, limit), total, nil
}

func (m *mockEmployeeRepo) Update(_ context.Context, employee *model.Employee) error {
	m.employees[employee.ID] = employee
	return nil
}

func (m *mockEmployeeRepo) Delete(_ context.Context, id uint) error {
	delete(m.employees, id)
	return nil
}

func (m *mockEmployeeRepo) Count(_ context.Context, activeOnly bool) (int64, error) {
	var total int64
	for _, e := range m.employees {
		if activeOnly && !e.IsActive {
			continue
		}
		total++
	}
	return total, nil
}

func (m *mockEmployeeRepo) GroupCount(_ context.Context, column string) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, e := range m.employees {
		if !e.IsActive {
			continue
		}
		if column == "department" {
			counts[e.Department]++
		}
	}
	return counts, nil
}

// ── Mock EmployeeLocationRepository ──

type mockEmployeeLocationRepo struct {
	assignments map[uint]*model.EmployeeLocation
	idCounter   uint
}

func newMockEmployeeLocationRepo() *mockEmployeeLocationRepo {
	return &mockEmployeeLocationRepo{assignments: make(map[uint]*model.EmployeeLocation)}
}

func (m *mockEmployeeLocationRepo) Create(_ context.Context, assignment *model.EmployeeLocation) error {
	if assignment.ID == 0 {
		assignment.ID = nextID(m.assignments, &m.idCounter)
	}
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now()
		assignment.UpdatedAt = assignment.CreatedAt
	}
	m.assignments[assignment.ID] = assignment
	return nil
}

func (m *mockEmployeeLocationRepo) GetByID(_ context.Context, id uint) (*model.EmployeeLocation, error) {
	if a, ok := m.assignments[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeLocationRepo) GetByEmployeeAndRef(_ context.Context, employeeID uint, locationType, locationID string) (*model.EmployeeLocation, error) {
	for _, a := range m.assignments {
		if a.EmployeeID == employeeID && a.LocationType == locationType && a.LocationID == locationID {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmployeeLocationRepo) ListByEmployee(_ context.Context, employeeID uint, activeOnly bool) ([]model.EmployeeLocation, error) {
	var result []model.EmployeeLocation
	for _, a := range m.assignments {
		if a.EmployeeID != employeeID {
			continue
		}
		if activeOnly && !a.IsActive {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].IsPrimary != result[j].IsPrimary {
			return result[i].IsPrimary
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *mockEmployeeLocationRepo) List(_ context.Context, f *repository.EmployeeLocationListFilters, offset, limit int) ([]model.EmployeeLocation, int64, error) {
	var filtered []model.EmployeeLocation
	for _, a := range m.assignments {
		if f != nil {
			if f.EmployeeID != 0 && a.EmployeeID != f.EmployeeID {
				continue
			}
			if f.LocationType != "" && a.LocationType != f.LocationType {
				continue
			}
			if f.LocationID != "" && a.LocationID != f.LocationID {
				continue
			}
			if f.ActiveOnly && !a.IsActive {
				continue
			}
		}
		filtered = append(filtered, *a)
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].ID < filtered[j].ID })
	total := int64(len(filtered))
	return pageSlice(filtered, offset, limit), total, nil
}

func (m *mockEmployeeLocationRepo) Update(_ context.Context, assignment *model.EmployeeLocation) error {
	m.assignments[assignment.ID] = assignment
	return nil
}

func (m *mockEmployeeLocationRepo) Delete(_ context.Context, id uint) error {
	delete(m.assignments, id)
	return nil
}

func (m *mockEmployeeLocationRepo) ListEmergencyForLocation(_ context.Context, locationType, locationID string) ([]model.EmployeeLocation, error) {
	var result []model.EmployeeLocation
	for _, a := range m.assignments {
		if a.LocationType != locationType || a.LocationID != locationID {
			continue
		}
		if !a.ShowInEmergencyContacts || !a.IsActive {
			continue
		}
		if a.Employee == nil || !a.Employee.IsActive {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].IsPrimary != result[j].IsPrimary {
			return result[i].IsPrimary
		}
		return result[i].Employee.FirstName < result[j].Employee.FirstName
	})
	return result, nil
}

func (m *mockEmployeeLocationRepo) CountEmergencyFlagged(_ context.Context) (int64, error) {
	seen := make(map[uint]bool)
	for _, a := range m.assignments {
		if !a.ShowInEmergencyContacts || !a.IsActive {
			continue
		}
		if a.Employee == nil || !a.Employee.IsActive {
			continue
		}
		seen[a.EmployeeID] = true
	}
	return int64(len(seen)), nil
}

// ── Mock IncidentRepository ──

type mockIncidentRepo struct {
	incidents map[uint]*model.Incident
	idCounter uint
	// duplicateNextCreates makes the next N Create calls fail with
	// gorm.ErrDuplicatedKey, simulating the incident_number unique index.
	duplicateNextCreates int
}

func newMockIncidentRepo() *mockIncidentRepo {
	return &mockIncidentRepo{incidents: make(map[uint]*model.Incident)}
}

func (m *mockIncidentRepo) Create(_ context.Context, incident *model.Incident) error {
	if m.duplicateNextCreates > 0 {
		m.duplicateNextCreates--
		return gorm.ErrDuplicatedKey
	}
	if incident.ID == 0 {
		incident.ID = nextID(m.incidents, &m.idCounter)
	}
	if incident.CreatedAt.IsZero() {
		incident.CreatedAt = time.Now()
		incident.UpdatedAt = incident.CreatedAt
	}
	m.incidents[incident.ID] = incident
	return nil
}

func (m *mockIncidentRepo) GetByID(_ context.Context, id uint) (*model.Incident, error) {
	if i, ok := m.incidents[id]; ok {
		return i, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockIncidentRepo) GetByIncidentID(_ context.Context, incidentID string) (*model.Incident, error) {
	for _, i := range m.incidents {
		if i.IncidentID == incidentID {
			return i, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockIncidentRepo) matchList(i *model.Incident, f *repository.IncidentListFilters, now time.Time) bool {
	if f == nil {
		return true
	}
	if f.HeadquartersOnly {
		if i.SiteID != nil {
			return false
		}
	} else if f.SiteID != 0 {
		if i.SiteID == nil || *i.SiteID != f.SiteID {
			return false
		}
	}
	if f.IncidentType != "" && i.IncidentType != f.IncidentType {
		return false
	}
	if f.Criticality != "" && i.Criticality != f.Criticality {
		return false
	}
	if f.Status != "" && i.Status != f.Status {
		return false
	}
	if f.IsOverdue != nil && i.IsOverdue(now) != *f.IsOverdue {
		return false
	}
	if f.IsAnonymous != nil && i.IsAnonymous != *f.IsAnonymous {
		return false
	}
	if f.DateFrom != nil && i.CreatedAt.Before(*f.DateFrom) {
		return false
	}
	if f.DateTo != nil && !i.CreatedAt.Before(*f.DateTo) {
		return false
	}
	if f.Search != "" && !containsFold(f.Search, i.IncidentNumber, i.Title, i.Description) {
		return false
	}
	return true
}

func (m *mockIncidentRepo) List(_ context.Context, f *repository.IncidentListFilters, offset, limit int) ([]model.Incident, int64, error) {
	now := time.Now()
	var filtered []model.Incident
	for _, i := range m.incidents {
		if m.matchList(i, f, now) {
			filtered = append(filtered, *i)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].CreatedAt.After(filtered[j].CreatedAt) })
	total := int64(len(filtered))
	return pageSlice(filtered, offset, limit), total, nil
}

func (m *mockIncidentRepo) ListAll(_ context.Context, f *repository.IncidentListFilters) ([]model.Incident, error) {
	now := time.Now()
	var filtered []model.Incident
	for _, i := range m.incidents {
		if m.matchList(i, f, now) {
			filtered = append(filtered, *i)
		}
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].CreatedAt.After(filtered[j].CreatedAt) })
	return filtered, nil
}

func (m *mockIncidentRepo) Update(_ context.Context, incident *model.Incident) error {
	m.incidents[incident.ID] = incident
	return nil
}

func (m *mockIncidentRepo) Delete(_ context.Context, id uint) error {
	delete(m.incidents, id)
	return nil
}

func (m *mockIncidentRepo) matchStats(i *model.Incident, f *repository.IncidentStatsFilters) bool {
	if f == nil {
		return true
	}
	if !f.Since.IsZero() && i.CreatedAt.Before(f.Since) {
		return false
	}
	if f.HeadquartersOnly {
		if i.SiteID != nil {
			return false
		}
	} else if f.SiteID != 0 {
		if i.SiteID == nil || *i.SiteID != f.SiteID {
			return false
		}
	}
	if f.CompanyID != 0 {
		if i.Site == nil || i.Site.Entity == nil || i.Site.Entity.CompanyID != f.CompanyID {
			return false
		}
	}
	return true
}

func (m *mockIncidentRepo) StatusCounts(_ context.Context, f *repository.IncidentStatsFilters) (*repository.IncidentStatusCounts, error) {
	now := time.Now()
	counts := &repository.IncidentStatusCounts{}
	for _, i := range m.incidents {
		if !m.matchStats(i, f) {
			continue
		}
		counts.Total++
		if i.IsOpen() {
			counts.Open++
		}
		if i.Status == model.StatusResolved {
			counts.Resolved++
		}
		if i.Criticality == model.CriticalityCritical {
			counts.Critical++
		}
		if i.IsOverdue(now) {
			counts.Overdue++
		}
	}
	return counts, nil
}

func (m *mockIncidentRepo) GroupCounts(_ context.Context, f *repository.IncidentStatsFilters, column string) (map[string]int64, error) {
	counts := make(map[string]int64)
	for _, i := range m.incidents {
		if !m.matchStats(i, f) {
			continue
		}
		switch column {
		case "incident_type":
			counts[i.IncidentType]++
		case "criticality":
			counts[i.Criticality]++
		case "status":
			counts[i.Status]++
		}
	}
	return counts, nil
}

func (m *mockIncidentRepo) CountBySite(_ context.Context, f *repository.IncidentStatsFilters, limit int) ([]repository.SiteIncidentRow, error) {
	bySite := make(map[uint]*repository.SiteIncidentRow)
	for _, i := range m.incidents {
		if !m.matchStats(i, f) || i.SiteID == nil {
			continue
		}
		row, ok := bySite[*i.SiteID]
		if !ok {
			row = &repository.SiteIncidentRow{SiteID: *i.SiteID}
			if i.Site != nil {
				row.SiteName = i.Site.Name
				row.SiteCode = i.Site.SiteCode
			}
			bySite[*i.SiteID] = row
		}
		row.Count++
	}
	var rows []repository.SiteIncidentRow
	for _, row := range bySite {
		rows = append(rows, *row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (m *mockIncidentRepo) Recent(_ context.Context, f *repository.IncidentStatsFilters, limit int) ([]model.Incident, error) {
	var incidents []model.Incident
	for _, i := range m.incidents {
		if m.matchStats(i, f) {
			incidents = append(incidents, *i)
		}
	}
	sort.Slice(incidents, func(i, j int) bool { return incidents[i].CreatedAt.After(incidents[j].CreatedAt) })
	if len(incidents) > limit {
		incidents = incidents[:limit]
	}
	return incidents, nil
}

// ── Mock IncidentResponseRepository ──

type mockIncidentResponseRepo struct {
	responses map[uint]*model.IncidentResponse
	idCounter uint
}

func newMockIncidentResponseRepo() *mockIncidentResponseRepo {
	return &mockIncidentResponseRepo{responses: make(map[uint]*model.IncidentResponse)}
}

func (m *mockIncidentResponseRepo) Create(_ context.Context, response *model.IncidentResponse) error {
	if response.ID == 0 {
		response.ID = nextID(m.responses, &m.idCounter)
	}
	if response.CreatedAt.IsZero() {
		response.CreatedAt = time.Now()
		response.UpdatedAt = response.CreatedAt
	}
	m.responses[response.ID] = response
	return nil
}

func (m *mockIncidentResponseRepo) GetByID(_ context.Context, id uint) (*model.IncidentResponse, error) {
	if r, ok := m.responses[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockIncidentResponseRepo) ListByIncident(_ context.Context, incidentID uint, visibleOnly bool) ([]model.IncidentResponse, error) {
	var result []model.IncidentResponse
	for _, r := range m.responses {
		if r.IncidentID != incidentID {
			continue
		}
		if visibleOnly && !r.IsVisibleToReporter {
			continue
		}
		result = append(result, *r)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockIncidentResponseRepo) Delete(_ context.Context, id uint) error {
	delete(m.responses, id)
	return nil
}

// ── Mock IncidentAttachmentRepository ──

type mockIncidentAttachmentRepo struct {
	attachments map[uint]*model.IncidentAttachment
	idCounter   uint
}

func newMockIncidentAttachmentRepo() *mockIncidentAttachmentRepo {
	return &mockIncidentAttachmentRepo{attachments: make(map[uint]*model.IncidentAttachment)}
}

func (m *mockIncidentAttachmentRepo) Create(_ context.Context, attachment *model.IncidentAttachment) error {
	if attachment.ID == 0 {
		attachment.ID = nextID(m.attachments, &m.idCounter)
	}
	if attachment.CreatedAt.IsZero() {
		attachment.CreatedAt = time.Now()
		attachment.UpdatedAt = attachment.CreatedAt
	}
	m.attachments[attachment.ID] = attachment
	return nil
}

func (m *mockIncidentAttachmentRepo) GetByID(_ context.Context, id uint) (*model.IncidentAttachment, error) {
	if a, ok := m.attachments[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockIncidentAttachmentRepo) ListByIncident(_ context.Context, incidentID uint) ([]model.IncidentAttachment, error) {
	var result []model.IncidentAttachment
	for _, a := range m.attachments {
		if a.IncidentID == incidentID {
			result = append(result, *a)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockIncidentAttachmentRepo) Delete(_ context.Context, id uint) error {
	delete(m.attachments, id)
	return nil
}

// ── Mock IncidentNotificationRepository ──

type mockIncidentNotificationRepo struct {
	notifications map[uint]*model.IncidentNotification
	idCounter     uint
}

func newMockIncidentNotificationRepo() *mockIncidentNotificationRepo {
	return &mockIncidentNotificationRepo{notifications: make(map[uint]*model.IncidentNotification)}
}

func (m *mockIncidentNotificationRepo) Create(_ context.Context, notification *model.IncidentNotification) error {
	if notification.ID == 0 {
		notification.ID = nextID(m.notifications, &m.idCounter)
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now()
		notification.UpdatedAt = notification.CreatedAt
	}
	m.notifications[notification.ID] = notification
	return nil
}

func (m *mockIncidentNotificationRepo) GetByID(_ context.Context, id uint) (*model.IncidentNotification, error) {
	if n, ok := m.notifications[id]; ok {
		return n, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockIncidentNotificationRepo) ListByIncident(_ context.Context, incidentID uint) ([]model.IncidentNotification, error) {
	var result []model.IncidentNotification
	for _, n := range m.notifications {
		if n.IncidentID == incidentID {
			result = append(result, *n)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *mockIncidentNotificationRepo) List(_ context.Context, f *repository.NotificationListFilters, offset, limit int) ([]model.IncidentNotification, int64, error) {
	var filtered []model.IncidentNotification
	for _, n := range m.notifications {
		if f != nil {
			if f.IncidentID != 0 && n.IncidentID != f.IncidentID {
				continue
			}
			if f.Status != "" && n.Status != f.Status {
				continue
			}
		}
		filtered = append(filtered, *n)
	}
	sort.Slice(filtered, func(i, j int) bool { return filtered[i].ID > filtered[j].ID })
	total := int64(len(filtered))
	return pageSlice(filtered, offset, limit), total, nil
}

func (m *mockIncidentNotificationRepo) Update(_ context.Context, notification *model.IncidentNotification) error {
	m.notifications[notification.ID] = notification
	return nil
}

// ── Mock EmergencyContactRepository ──

type mockEmergencyContactRepo struct {
	contacts  map[uint]*model.EmergencyContact
	idCounter uint
}

func newMockEmergencyContactRepo() *mockEmergencyContactRepo {
	return &mockEmergencyContactRepo{contacts: make(map[uint]*model.EmergencyContact)}
}

func (m *mockEmergencyContactRepo) Create(_ context.Context, contact *model.EmergencyContact) error {
	if contact.ID == 0 {
		contact.ID = nextID(m.contacts, &m.idCounter)
	}
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = time.Now()
		contact.UpdatedAt = contact.CreatedAt
	}
	m.contacts[contact.ID] = contact
	return nil
}

func (m *mockEmergencyContactRepo) GetByID(_ context.Context, id uint) (*model.EmergencyContact, error) {
	if c, ok := m.contacts[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmergencyContactRepo) GetBySiteTypeName(_ context.Context, siteID *uint, contactType, name string) (*model.EmergencyContact, error) {
	for _, c := range m.contacts {
		if c.ContactType != contactType || c.Name != name {
			continue
		}
		if siteID == nil {
			if c.SiteID == nil {
				return c, nil
			}
		} else if c.SiteID != nil && *c.SiteID == *siteID {
			return c, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockEmergencyContactRepo) List(_ context.Context, f *repository.EmergencyContactListFilters, offset, limit int) ([]model.EmergencyContact, int64, error) {
	var filtered []model.EmergencyContact
	for _, c := range m.contacts {
		if f != nil {
			if f.SiteID != 0 && (c.SiteID == nil || *c.SiteID != f.SiteID) {
				continue
			}
			if f.CompanyID != 0 && (c.CompanyID == nil || *c.CompanyID != f.CompanyID) {
				continue
			}
			if f.ContactType != "" && c.ContactType != f.ContactType {
				continue
			}
			if f.ActiveOnly && !c.IsActive {
				continue
			}
			if f.AvailableOnly && !c.Is24x7 {
				continue
			}
		}
		filtered = append(filtered, *c)
	}
	sortContacts(filtered)
	total := int64(len(filtered))
	return pageSlice(filtered, offset, limit), total, nil
}

func (m *mockEmergencyContactRepo) ListForSite(_ context.Context, siteID uint) ([]model.EmergencyContact, error) {
	var result []model.EmergencyContact
	for _, c := range m.contacts {
		if c.SiteID != nil && *c.SiteID == siteID && c.IsActive {
			result = append(result, *c)
		}
	}
	sortContacts(result)
	return result, nil
}

func (m *mockEmergencyContactRepo) ListCompanyLevel(_ context.Context) ([]model.EmergencyContact, error) {
	var result []model.EmergencyContact
	for _, c := range m.contacts {
		if c.SiteID == nil && c.IsActive {
			result = append(result, *c)
		}
	}
	sortContacts(result)
	return result, nil
}

func (m *mockEmergencyContactRepo) Update(_ context.Context, contact *model.EmergencyContact) error {
	m.contacts[contact.ID] = contact
	return nil
}

func (m *mockEmergencyContactRepo) Delete(_ context.Context, id uint) error {
	delete(m.contacts, id)
	return nil
}

// ── Mock NationalContactRepository ──

type mockNationalContactRepo struct {
	contacts  map[uint]*model.NationalEmergencyContact
	idCounter uint
}

func newMockNationalContactRepo() *mockNationalContactRepo {
	return &mockNationalContactRepo{contacts: make(map[uint]*model.NationalEmergencyContact)}
}

func (m *mockNationalContactRepo) Create(_ context.Context, contact *model.NationalEmergencyContact) error {
	if contact.ID == 0 {
		contact.ID = nextID(m.contacts, &m.idCounter)
	}
	if contact.CreatedAt.IsZero() {
		contact.CreatedAt = time.Now()
		contact.UpdatedAt = contact.CreatedAt
	}
	m.contacts[contact.ID] = contact
	return nil
}

func (m *mockNationalContactRepo) GetByID(_ context.Context, id uint) (*model.NationalEmergencyContact, error) {
	if c, ok := m.contacts[id]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockNationalContactRepo) ListForState(_ context.Context, state string) ([]model.NationalEmergencyContact, error) {
	var result []model.NationalEmergencyContact
	for _, c := range m.contacts {
		if !c.IsActive {
			continue
		}
		if c.State != "" && (state == "" || c.State != state) {
			continue
		}
		result = append(result, *c)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].ContactType != result[j].ContactType {
			return result[i].ContactType < result[j].ContactType
		}
		return result[i].Name < result[j].Name
	})
	return result, nil
}

func (m *mockNationalContactRepo) Update(_ context.Context, contact *model.NationalEmergencyContact) error {
	m.contacts[contact.ID] = contact
	return nil
}

func (m *mockNationalContactRepo) Delete(_ context.Context, id uint) error {
	delete(m.contacts, id)
	return nil
}

// ── shared helpers ──

// nextID advances the counter past any manually seeded ids.
func nextID[T any](taken map[uint]*T, counter *uint) uint {
	for {
		*counter++
		if _, ok := taken[*counter]; !ok {
			return *counter
		}
	}
}

func containsFold(needle string, haystacks ...string) bool {
	needle = strings.ToLower(needle)
	for _, h := range haystacks {
		if strings.Contains(strings.ToLower(h), needle) {
			return true
		}
	}
	return false
}

func pageSlice[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return nil
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func sortContacts(contacts []model.EmergencyContact) {
	sort.Slice(contacts, func(i, j int) bool {
		if contacts[i].PriorityOrder != contacts[j].PriorityOrder {
			return contacts[i].PriorityOrder < contacts[j].PriorityOrder
		}
		return contacts[i].Name < contacts[j].Name
	})
}

func mustParseDate(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("bad test date %q: %v", value, err)
	}
	return d
}

// testRepos aggregates all mocks so tests can seed data directly.
type testRepos struct {
	company          *mockCompanyRepo
	entity           *mockEntityRepo
	site             *mockSiteRepo
	employee         *mockEmployeeRepo
	employeeLocation *mockEmployeeLocationRepo
	incident         *mockIncidentRepo
	response         *mockIncidentResponseRepo
	attachment       *mockIncidentAttachmentRepo
	notification     *mockIncidentNotificationRepo
	contact          *mockEmergencyContactRepo
	national         *mockNationalContactRepo
}

func newTestRepos() *testRepos {
	return &testRepos{
		company:          newMockCompanyRepo(),
		entity:           newMockEntityRepo(),
		site:             newMockSiteRepo(),
		employee:         newMockEmployeeRepo(),
		employeeLocation: newMockEmployeeLocationRepo(),
		incident:         newMockIncidentRepo(),
		response:         newMockIncidentResponseRepo(),
		attachment:       newMockIncidentAttachmentRepo(),
		notification:     newMockIncidentNotificationRepo(),
		contact:          newMockEmergencyContactRepo(),
		national:         newMockNationalContactRepo(),
	}
}

func (r *testRepos) toRepository() *repository.Repository {
	return &repository.Repository{
		Company:              r.company,
		Entity:               r.entity,
		Site:                 r.site,
		Employee:             r.employee,
		EmployeeLocation:     r.employeeLocation,
		Incident:             r.incident,
		IncidentResponse:     r.response,
		IncidentAttachment:   r.attachment,
		IncidentNotification: r.notification,
		EmergencyContact:     r.contact,
		NationalContact:      r.national,
	}
}

// testConfig returns the configuration shared by service tests.
// Notifications stay disabled so Report never spawns dispatch goroutines;
// the notification tests build their own enabled config.
func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Port:          8080,
			PublicBaseURL: "https://safety.hexaclimate.com",
		},
		Organization: config.OrganizationConfig{
			Name:             "Hexa Climate",
			HeadquartersCode: "HEXA_HQ",
			Address:          "Plot 421, Udyog Vihar Phase III",
			City:             "Gurugram",
			State:            "Haryana",
			Country:          "India",
			Latitude:         28.4595,
			Longitude:        77.0266,
		},
		Notification: config.NotificationConfig{Enabled: false},
	}
}

// stubNotifier hands the subject of each dispatched notification to the
// test through an unbuffered channel, so the test controls when dispatch
// may proceed past Send.
type stubNotifier struct {
	sent chan string
}

func newStubNotifier() *stubNotifier {
	return &stubNotifier{sent: make(chan string)}
}

func (n *stubNotifier) Send(ctx context.Context, notification *model.IncidentNotification, _ *model.Incident) error {
	select {
	case n.sent <- notification.Subject:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// stubStore fakes presigned URLs without an object store.
type stubStore struct {
	putErr error
	getErr error
}

func (s *stubStore) PresignPut(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	if s.putErr != nil {
		return "", s.putErr
	}
	return "https://storage.test/put/" + objectKey, nil
}

func (s *stubStore) PresignGet(_ context.Context, objectKey string, _ time.Duration) (string, error) {
	if s.getErr != nil {
		return "", s.getErr
	}
	return "https://storage.test/get/" + objectKey, nil
}
