package repository

import "gorm.io/gorm"

// Repository aggregates every data-access interface.
type Repository struct {
	Company              CompanyRepository
	Entity               EntityRepository
	Site                 SiteRepository
	Employee             EmployeeRepository
	EmployeeLocation     EmployeeLocationRepository
	Incident             IncidentRepository
	IncidentResponse     IncidentResponseRepository
	IncidentAttachment   IncidentAttachmentRepository
	IncidentNotification IncidentNotificationRepository
	EmergencyContact     EmergencyContactRepository
	NationalContact      NationalContactRepository
}

// orderingClause maps an already-validated ordering token ("name",
// "-created_at") to a SQL ORDER BY fragment. Handlers validate the token
// against a binding allowlist before it reaches the repository.
func orderingClause(table, ordering string) string {
	column := ordering
	direction := "ASC"
	if len(ordering) > 0 && ordering[0] == '-' {
		column = ordering[1:]
		direction = "DESC"
	}
	return table + "." + column + " " + direction
}

// groupCount runs a single-column GROUP BY count. Callers pass a column
// name from a fixed set, never user input.
func groupCount(q *gorm.DB, column string) (map[string]int64, error) {
	var rows []struct {
		Value string
		Count int64
	}
	err := q.Select(column + " AS value, COUNT(*) AS count").
		Group(column).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Value] = row.Count
	}
	return counts, nil
}

// NewRepository wires the GORM implementations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Company:              NewCompanyRepo(db),
		Entity:               NewEntityRepo(db),
		Site:                 NewSiteRepo(db),
		Employee:             NewEmployeeRepo(db),
		EmployeeLocation:     NewEmployeeLocationRepo(db),
		Incident:             NewIncidentRepo(db),
		IncidentResponse:     NewIncidentResponseRepo(db),
		IncidentAttachment:   NewIncidentAttachmentRepo(db),
		IncidentNotification: NewIncidentNotificationRepo(db),
		EmergencyContact:     NewEmergencyContactRepo(db),
		NationalContact:      NewNationalContactRepo(db),
	}
}
