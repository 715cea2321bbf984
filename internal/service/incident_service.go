package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/config"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/dto"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/model"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/repository"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/pkg/metrics"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/pkg/storage"
)

// ── Incident business errors ──

var (
	ErrIncidentNotFound       = errors.New("incident not found")
	ErrIncidentSiteGone       = errors.New("site not found or inactive")
	ErrIncidentSiteRequired   = errors.New("either site_id or is_headquarters is required")
	ErrIncidentClosed         = errors.New("cannot change status of a closed incident")
	ErrIncidentCoordinatePair = errors.New("latitude and longitude must be provided together")
	ErrInvalidSiteFilter      = errors.New(`site_id must be numeric or "headquarters"`)
	ErrStorageUnavailable     = errors.New("object storage not configured")
	ErrExportGenerateFail     = errors.New("failed to generate export file")
)

const (
	// siteTokenHeadquarters is the site_id filter value selecting
	// site-less incidents.
	siteTokenHeadquarters = "headquarters"

	incidentNumberRetries = 3
	presignExpiry         = 15 * time.Minute
	notifyTimeout         = 10 * time.Second

	defaultStatsDays     = 30
	statsTopSites        = 10
	statsRecentIncidents = 5
)

// IncidentService covers the reporting pipeline: intake, triage, the
// dashboard, responses, attachments and the notification log.
//
// Incident path tokens accept either the numeric id or the incident UUID;
// both resolve through findIncident.
type IncidentService interface {
	Report(ctx context.Context, req *dto.CreateIncidentRequest) (*dto.IncidentDetailResponse, error)
	ReportAnonymous(ctx context.Context, req *dto.CreateIncidentRequest) (*dto.IncidentDetailResponse, error)
	Get(ctx context.Context, token string) (*dto.IncidentDetailResponse, error)
	List(ctx context.Context, req *dto.IncidentListRequest) ([]dto.IncidentDetailResponse, int64, error)
	Update(ctx context.Context, token string, req *dto.UpdateIncidentRequest) (*dto.IncidentDetailResponse, error)
	UpdateStatus(ctx context.Context, token string, req *dto.UpdateIncidentStatusRequest) (*dto.IncidentDetailResponse, error)
	Delete(ctx context.Context, token string) error
	Stats(ctx context.Context, req *dto.IncidentStatsRequest) (*dto.IncidentStatsResponse, error)
	Export(ctx context.Context, req *dto.IncidentListRequest) (*bytes.Buffer, string, error)
	AddResponse(ctx context.Context, token string, req *dto.CreateIncidentResponseRequest) (*dto.IncidentResponseDetail, error)
	ListResponses(ctx context.Context, token string, visibleOnly bool) ([]dto.IncidentResponseDetail, error)
	AddAttachment(ctx context.Context, token string, req *dto.CreateAttachmentRequest) (*dto.AttachmentResponse, error)
	ListAttachments(ctx context.Context, token string) ([]dto.AttachmentResponse, error)
	ListNotifications(ctx context.Context, token string) ([]dto.NotificationResponse, error)
	ListAllNotifications(ctx context.Context, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error)
}

type incidentService struct {
	cfg      *config.Config
	repo     *repository.Repository
	notifier Notifier
	store    storage.Store
	logger   *zap.Logger
}

// NewIncidentService creates an IncidentService instance. store may be
// nil when no object storage is configured; attachment uploads then
// return ErrStorageUnavailable while everything else keeps working.
func NewIncidentService(cfg *config.Config, repo *repository.Repository, notifier Notifier, store storage.Store, logger *zap.Logger) IncidentService {
	return &incidentService{cfg: cfg, repo: repo, notifier: notifier, store: store, logger: logger}
}

// ────────────────────── Report ──────────────────────

func (s *incidentService) Report(ctx context.Context, req *dto.CreateIncidentRequest) (*dto.IncidentDetailResponse, error) {
	return s.create(ctx, req, false)
}

// ────────────────────── ReportAnonymous ──────────────────────

func (s *incidentService) ReportAnonymous(ctx context.Context, req *dto.CreateIncidentRequest) (*dto.IncidentDetailResponse, error) {
	return s.create(ctx, req, true)
}

// create is the shared intake path. forceAnonymous strips reporter
// identity regardless of what the payload claims.
func (s *incidentService) create(ctx context.Context, req *dto.CreateIncidentRequest, forceAnonymous bool) (*dto.IncidentDetailResponse, error) {
	var site *model.Site
	if !req.IsHeadquarters {
		if req.SiteID == nil {
			return nil, ErrIncidentSiteRequired
		}
		found, err := s.repo.Site.GetByID(ctx, *req.SiteID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrIncidentSiteGone
			}
			s.logger.Error("incident site lookup failed", zap.Error(err))
			return nil, err
		}
		if !found.IsActive {
			return nil, ErrIncidentSiteGone
		}
		site = found
	}

	if !model.ValidCoordinates(req.Latitude, req.Longitude) {
		return nil, ErrIncidentCoordinatePair
	}

	criticality := req.Criticality
	if criticality == "" {
		criticality = model.CriticalityMedium
	}

	incident := &model.Incident{
		IncidentID:    uuid.NewString(),
		IncidentType:  req.IncidentType,
		Criticality:   criticality,
		Status:        model.StatusReported,
		Title:         req.Title,
		Description:   req.Description,
		ReporterName:  req.ReporterName,
		ReporterEmail: req.ReporterEmail,
		ReporterPhone: req.ReporterPhone,
		IsAnonymous:   req.IsAnonymous || forceAnonymous,
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		Address:       req.Address,
		DeviceInfo:    dto.EncodeDeviceInfo(req.DeviceInfo),
	}
	if forceAnonymous {
		incident.ReporterName = ""
		incident.ReporterEmail = ""
		incident.ReporterPhone = ""
	}

	siteCode := ""
	if site != nil {
		incident.SiteID = &site.ID
		siteCode = site.SiteCode
		if incident.Latitude == nil && incident.Longitude == nil {
			incident.Latitude = site.Latitude
			incident.Longitude = site.Longitude
		}
	} else if incident.Latitude == nil && incident.Longitude == nil {
		lat := s.cfg.Organization.Latitude
		lon := s.cfg.Organization.Longitude
		incident.Latitude = &lat
		incident.Longitude = &lon
	}

	now := time.Now()
	incident.IncidentNumber = model.GenerateIncidentNumber(siteCode, incident.IncidentType, now)
	incident.PriorityScore = incident.CalculatePriorityScore()

	// Two reports in the same second on the same site collide on the
	// incident_number unique index; retry with a random suffix.
	for attempt := 0; ; attempt++ {
		err := s.repo.Incident.Create(ctx, incident)
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) && attempt < incidentNumberRetries {
			incident.IncidentNumber = model.WithRandomSuffix(
				model.GenerateIncidentNumber(siteCode, incident.IncidentType, now))
			continue
		}
		s.logger.Error("incident create failed", zap.Error(err))
		return nil, err
	}

	metrics.IncidentsReported.WithLabelValues(incident.IncidentType, incident.Criticality).Inc()
	s.logger.Info("incident reported",
		zap.String("incident_number", incident.IncidentNumber),
		zap.String("incident_type", incident.IncidentType),
		zap.String("criticality", incident.Criticality),
		zap.Bool("anonymous", incident.IsAnonymous),
	)

	incident.Site = site
	s.notifyParentCompany(ctx, incident, site)

	resp := dto.NewIncidentDetailResponse(incident, time.Now())
	return &resp, nil
}

// ────────────────────── Get ──────────────────────

func (s *incidentService) Get(ctx context.Context, token string) (*dto.IncidentDetailResponse, error) {
	incident, err := s.findIncident(ctx, token)
	if err != nil {
		return nil, err
	}
	resp := dto.NewIncidentDetailResponse(incident, time.Now())
	return &resp, nil
}

// ────────────────────── List ──────────────────────

func (s *incidentService) List(ctx context.Context, req *dto.IncidentListRequest) ([]dto.IncidentDetailResponse, int64, error) {
	filters, err := s.buildListFilters(req)
	if err != nil {
		return nil, 0, err
	}

	incidents, total, err := s.repo.Incident.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("incident list failed", zap.Error(err))
		return nil, 0, err
	}

	now := time.Now()
	responses := make([]dto.IncidentDetailResponse, 0, len(incidents))
	for i := range incidents {
		responses = append(responses, dto.NewIncidentDetailResponse(&incidents[i], now))
	}
	return responses, total, nil
}

// ────────────────────── Update ──────────────────────

func (s *incidentService) Update(ctx context.Context, token string, req *dto.UpdateIncidentRequest) (*dto.IncidentDetailResponse, error) {
	incident, err := s.findIncident(ctx, token)
	if err != nil {
		return nil, err
	}
	if incident.Status == model.StatusClosed && req.Status != nil && *req.Status != model.StatusClosed {
		return nil, ErrIncidentClosed
	}

	if req.IncidentType != nil {
		incident.IncidentType = *req.IncidentType
	}
	if req.Criticality != nil {
		incident.Criticality = *req.Criticality
	}
	if req.Status != nil {
		incident.Status = *req.Status
	}
	if req.Title != nil {
		incident.Title = *req.Title
	}
	if req.Description != nil {
		incident.Description = *req.Description
	}
	if req.AssignedTo != nil {
		incident.AssignedTo = *req.AssignedTo
	}
	if req.ResolutionNotes != nil {
		incident.ResolutionNotes = *req.ResolutionNotes
	}

	incident.PriorityScore = incident.CalculatePriorityScore()
	incident.ApplyStatusTimestamps(time.Now())

	if err := s.repo.Incident.Update(ctx, incident); err != nil {
		s.logger.Error("incident update failed", zap.Error(err))
		return nil, err
	}

	resp := dto.NewIncidentDetailResponse(incident, time.Now())
	return &resp, nil
}

// ────────────────────── UpdateStatus ──────────────────────

func (s *incidentService) UpdateStatus(ctx context.Context, token string, req *dto.UpdateIncidentStatusRequest) (*dto.IncidentDetailResponse, error) {
	incident, err := s.findIncident(ctx, token)
	if err != nil {
		return nil, err
	}
	// A closed incident is final. Re-submitting CLOSED is a no-op rather
	// than an error so retried requests stay idempotent.
	if incident.Status == model.StatusClosed && req.Status != model.StatusClosed {
		return nil, ErrIncidentClosed
	}

	incident.Status = req.Status
	if req.AssignedTo != "" {
		incident.AssignedTo = req.AssignedTo
	}
	if req.ResolutionNotes != "" {
		incident.ResolutionNotes = req.ResolutionNotes
	}
	incident.ApplyStatusTimestamps(time.Now())

	if err := s.repo.Incident.Update(ctx, incident); err != nil {
		s.logger.Error("incident status update failed", zap.Error(err))
		return nil, err
	}

	s.logger.Info("incident status updated",
		zap.String("incident_number", incident.IncidentNumber),
		zap.String("status", incident.Status),
	)

	resp := dto.NewIncidentDetailResponse(incident, time.Now())
	return &resp, nil
}

// ────────────────────── Delete ──────────────────────

func (s *incidentService) Delete(ctx context.Context, token string) error {
	incident, err := s.findIncident(ctx, token)
	if err != nil {
		return err
	}
	if err := s.repo.Incident.Delete(ctx, incident.ID); err != nil {
		s.logger.Error("incident delete failed", zap.Error(err))
		return err
	}
	s.logger.Info("incident deleted", zap.String("incident_number", incident.IncidentNumber))
	return nil
}

// ────────────────────── Stats ──────────────────────

func (s *incidentService) Stats(ctx context.Context, req *dto.IncidentStatsRequest) (*dto.IncidentStatsResponse, error) {
	days := req.Days
	if days <= 0 {
		days = defaultStatsDays
	}

	filters := &repository.IncidentStatsFilters{
		Since:     time.Now().AddDate(0, 0, -days),
		CompanyID: req.CompanyID,
	}
	switch {
	case strings.EqualFold(req.SiteID, siteTokenHeadquarters):
		filters.HeadquartersOnly = true
	case req.SiteID != "":
		id, err := strconv.ParseUint(req.SiteID, 10, 32)
		if err != nil {
			return nil, ErrInvalidSiteFilter
		}
		filters.SiteID = uint(id)
	}

	counts, err := s.repo.Incident.StatusCounts(ctx, filters)
	if err != nil {
		s.logger.Error("incident stats counts failed", zap.Error(err))
		return nil, err
	}
	byType, err := s.repo.Incident.GroupCounts(ctx, filters, "incident_type")
	if err != nil {
		s.logger.Error("incident stats by type failed", zap.Error(err))
		return nil, err
	}
	byCriticality, err := s.repo.Incident.GroupCounts(ctx, filters, "criticality")
	if err != nil {
		s.logger.Error("incident stats by criticality failed", zap.Error(err))
		return nil, err
	}
	byStatus, err := s.repo.Incident.GroupCounts(ctx, filters, "status")
	if err != nil {
		s.logger.Error("incident stats by status failed", zap.Error(err))
		return nil, err
	}
	siteRows, err := s.repo.Incident.CountBySite(ctx, filters, statsTopSites)
	if err != nil {
		s.logger.Error("incident stats by site failed", zap.Error(err))
		return nil, err
	}
	recent, err := s.repo.Incident.Recent(ctx, filters, statsRecentIncidents)
	if err != nil {
		s.logger.Error("incident stats recent failed", zap.Error(err))
		return nil, err
	}

	now := time.Now()
	bySite := make([]dto.SiteIncidentCount, 0, len(siteRows))
	for _, row := range siteRows {
		bySite = append(bySite, dto.SiteIncidentCount{
			SiteID:   row.SiteID,
			SiteName: row.SiteName,
			SiteCode: row.SiteCode,
			Count:    row.Count,
		})
	}
	recentResponses := make([]dto.IncidentDetailResponse, 0, len(recent))
	for i := range recent {
		recentResponses = append(recentResponses, dto.NewIncidentDetailResponse(&recent[i], now))
	}

	return &dto.IncidentStatsResponse{
		TotalIncidents:    counts.Total,
		OpenIncidents:     counts.Open,
		ResolvedIncidents: counts.Resolved,
		CriticalIncidents: counts.Critical,
		OverdueIncidents:  counts.Overdue,
		ByType:            byType,
		ByCriticality:     byCriticality,
		ByStatus:          byStatus,
		BySite:            bySite,
		RecentIncidents:   recentResponses,
		PeriodDays:        days,
	}, nil
}

// ────────────────────── Export ──────────────────────
//
// Excel layout: one "Incidents" sheet, a merged title row, a styled
// header row, then one row per incident matching the list filters.
//
// Returns buf (file content), filename (suggested name), error.

func (s *incidentService) Export(ctx context.Context, req *dto.IncidentListRequest) (*bytes.Buffer, string, error) {
	filters, err := s.buildListFilters(req)
	if err != nil {
		return nil, "", err
	}

	incidents, err := s.repo.Incident.ListAll(ctx, filters)
	if err != nil {
		s.logger.Error("incident export query failed", zap.Error(err))
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Incidents"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"Incident Number", "Type", "Criticality", "Status", "Title",
		"Site", "Reporter", "Priority", "Overdue", "Created At", "Resolved At",
	}
	widths := []float64{26, 20, 12, 15, 42, 26, 20, 10, 10, 20, 20}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheetName, col, col, w)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	now := time.Now()
	title := fmt.Sprintf("%s Safety Incidents (%s)", s.cfg.Organization.Name, now.Format("2006-01-02"))
	f.SetCellValue(sheetName, "A1", title)
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	f.MergeCell(sheetName, "A1", lastCol+"1")
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 2)
		f.SetCellValue(sheetName, cell, h)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	for rowIdx := range incidents {
		incident := &incidents[rowIdx]

		siteName := "Headquarters"
		if incident.Site != nil {
			siteName = incident.Site.Name
		}
		reporter := incident.ReporterName
		if incident.IsAnonymous || reporter == "" {
			reporter = "Anonymous"
		}
		overdue := "No"
		if incident.IsOverdue(now) {
			overdue = "Yes"
		}
		resolvedAt := ""
		if incident.ResolvedAt != nil {
			resolvedAt = incident.ResolvedAt.Format("2006-01-02 15:04:05")
		}

		values := []interface{}{
			incident.IncidentNumber,
			incident.IncidentType,
			incident.Criticality,
			incident.Status,
			incident.Title,
			siteName,
			reporter,
			incident.PriorityScore,
			overdue,
			incident.CreatedAt.Format("2006-01-02 15:04:05"),
			resolvedAt,
		}
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+3)
			f.SetCellValue(sheetName, cell, v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("incident export write failed", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("incidents_%s.xlsx", now.Format("20060102"))
	return buf, filename, nil
}

// ────────────────────── AddResponse ──────────────────────

func (s *incidentService) AddResponse(ctx context.Context, token string, req *dto.CreateIncidentResponseRequest) (*dto.IncidentResponseDetail, error) {
	incident, err := s.findIncident(ctx, token)
	if err != nil {
		return nil, err
	}

	visible := true
	if req.IsVisibleToReporter != nil {
		visible = *req.IsVisibleToReporter
	}
	response := &model.IncidentResponse{
		IncidentID:          incident.ID,
		ResponseType:        req.ResponseType,
		Message:             req.Message,
		ResponderName:       req.ResponderName,
		ResponderEmail:      req.ResponderEmail,
		ResponderRole:       req.ResponderRole,
		IsInternal:          req.IsInternal,
		IsVisibleToReporter: visible,
	}
	if err := s.repo.IncidentResponse.Create(ctx, response); err != nil {
		s.logger.Error("incident response create failed", zap.Error(err))
		return nil, err
	}

	detail := dto.NewIncidentResponseDetail(response)
	return &detail, nil
}

// ────────────────────── ListResponses ──────────────────────

func (s *incidentService) ListResponses(ctx context.Context, token string, visibleOnly bool) ([]dto.IncidentResponseDetail, error) {
	incident, err := s.findIncident(ctx, token)
	if err != nil {
		return nil, err
	}

	responses, err := s.repo.IncidentResponse.ListByIncident(ctx, incident.ID, visibleOnly)
	if err != nil {
		s.logger.Error("incident response list failed", zap.Error(err))
		return nil, err
	}

	details := make([]dto.IncidentResponseDetail, 0, len(responses))
	for i := range responses {
		details = append(details, dto.NewIncidentResponseDetail(&responses[i]))
	}
	return details, nil
}

// ────────────────────── AddAttachment ──────────────────────
//
// The file body never passes through this API. The record is created
// immediately and the caller uploads to the returned presigned PUT URL;
// there is no separate confirm step.

func (s *incidentService) AddAttachment(ctx context.Context, token string, req *dto.CreateAttachmentRequest) (*dto.AttachmentResponse, error) {
	if s.store == nil {
		return nil, ErrStorageUnavailable
	}
	incident, err := s.findIncident(ctx, token)
	if err != nil {
		return nil, err
	}

	fileType := req.FileType
	if fileType == "" {
		fileType = model.FileTypeOther
	}
	objectKey := fmt.Sprintf("incidents/%s/%s-%s", incident.IncidentID, uuid.NewString(), req.FileName)

	uploadURL, err := s.store.PresignPut(ctx, objectKey, presignExpiry)
	if err != nil {
		s.logger.Error("attachment presign failed", zap.Error(err))
		return nil, ErrStorageUnavailable
	}

	attachment := &model.IncidentAttachment{
		IncidentID: incident.ID,
		FileName:   req.FileName,
		ObjectKey:  objectKey,
		FileSize:   req.FileSize,
		FileType:   fileType,
		MimeType:   req.MimeType,
		UploadedBy: req.UploadedBy,
		IsPublic:   req.IsPublic,
	}
	if err := s.repo.IncidentAttachment.Create(ctx, attachment); err != nil {
		s.logger.Error("attachment create failed", zap.Error(err))
		return nil, err
	}

	resp := dto.NewAttachmentResponse(attachment)
	resp.UploadURL = uploadURL
	return &resp, nil
}

// ────────────────────── ListAttachments ──────────────────────

func (s *incidentService) ListAttachments(ctx context.Context, token string) ([]dto.AttachmentResponse, error) {
	incident, err := s.findIncident(ctx, token)
	if err != nil {
		return nil, err
	}

	attachments, err := s.repo.IncidentAttachment.ListByIncident(ctx, incident.ID)
	if err != nil {
		s.logger.Error("attachment list failed", zap.Error(err))
		return nil, err
	}

	responses := make([]dto.AttachmentResponse, 0, len(attachments))
	for i := range attachments {
		resp := dto.NewAttachmentResponse(&attachments[i])
		if s.store != nil {
			url, err := s.store.PresignGet(ctx, attachments[i].ObjectKey, presignExpiry)
			if err != nil {
				// Listing still works without download links.
				s.logger.Warn("attachment presign get failed",
					zap.String("object_key", attachments[i].ObjectKey), zap.Error(err))
			} else {
				resp.DownloadURL = url
			}
		}
		responses = append(responses, resp)
	}
	return responses, nil
}

// ────────────────────── ListNotifications ──────────────────────

func (s *incidentService) ListNotifications(ctx context.Context, token string) ([]dto.NotificationResponse, error) {
	incident, err := s.findIncident(ctx, token)
	if err != nil {
		return nil, err
	}

	notifications, err := s.repo.IncidentNotification.ListByIncident(ctx, incident.ID)
	if err != nil {
		s.logger.Error("notification list failed", zap.Error(err))
		return nil, err
	}

	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		if notifications[i].Incident == nil {
			notifications[i].Incident = incident
		}
		responses = append(responses, dto.NewNotificationResponse(&notifications[i]))
	}
	return responses, nil
}

// ────────────────────── ListAllNotifications ──────────────────────

func (s *incidentService) ListAllNotifications(ctx context.Context, req *dto.NotificationListRequest) ([]dto.NotificationResponse, int64, error) {
	filters := &repository.NotificationListFilters{Status: req.Status}
	notifications, total, err := s.repo.IncidentNotification.List(ctx, filters, req.GetOffset(), req.GetPageSize())
	if err != nil {
		s.logger.Error("notification log list failed", zap.Error(err))
		return nil, 0, err
	}

	responses := make([]dto.NotificationResponse, 0, len(notifications))
	for i := range notifications {
		responses = append(responses, dto.NewNotificationResponse(&notifications[i]))
	}
	return responses, total, nil
}

// ── helpers ──

// findIncident resolves a path token to an incident. Numeric tokens hit
// the primary key, UUID tokens the public incident_id; anything else is
// not found.
func (s *incidentService) findIncident(ctx context.Context, token string) (*model.Incident, error) {
	if id, err := strconv.ParseUint(token, 10, 32); err == nil {
		incident, err := s.repo.Incident.GetByID(ctx, uint(id))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrIncidentNotFound
			}
			s.logger.Error("incident lookup failed", zap.Error(err))
			return nil, err
		}
		return incident, nil
	}

	if _, err := uuid.Parse(token); err != nil {
		return nil, ErrIncidentNotFound
	}
	incident, err := s.repo.Incident.GetByIncidentID(ctx, token)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrIncidentNotFound
		}
		s.logger.Error("incident lookup failed", zap.Error(err))
		return nil, err
	}
	return incident, nil
}

// buildListFilters translates the list request into repository filters.
// The date_to bound is advanced one day so the filter covers the whole
// end date.
func (s *incidentService) buildListFilters(req *dto.IncidentListRequest) (*repository.IncidentListFilters, error) {
	filters := &repository.IncidentListFilters{
		IncidentType: req.IncidentType,
		Criticality:  req.Criticality,
		Status:       req.Status,
		IsOverdue:    req.IsOverdue,
		IsAnonymous:  req.IsAnonymous,
		Search:       req.Search,
		Ordering:     req.Ordering,
	}

	switch {
	case strings.EqualFold(req.SiteID, siteTokenHeadquarters):
		filters.HeadquartersOnly = true
	case req.SiteID != "":
		id, err := strconv.ParseUint(req.SiteID, 10, 32)
		if err != nil {
			return nil, ErrInvalidSiteFilter
		}
		filters.SiteID = uint(id)
	}

	if req.DateFrom != "" {
		from, err := time.Parse(dateLayout, req.DateFrom)
		if err == nil {
			filters.DateFrom = &from
		}
	}
	if req.DateTo != "" {
		to, err := time.Parse(dateLayout, req.DateTo)
		if err == nil {
			end := to.AddDate(0, 0, 1)
			filters.DateTo = &end
		}
	}
	return filters, nil
}

// notifyParentCompany records a PENDING notification and hands delivery
// to a background goroutine. The record is written synchronously so the
// notification log reflects the attempt even when dispatch never
// finishes; delivery failures are logged and never surface to the
// reporter.
func (s *incidentService) notifyParentCompany(ctx context.Context, incident *model.Incident, site *model.Site) {
	cfg := s.cfg.Notification
	if !cfg.Enabled || cfg.ParentCompanyEmail == "" {
		return
	}

	notification := &model.IncidentNotification{
		IncidentID:       incident.ID,
		NotificationType: model.NotificationTypeEmail,
		RecipientName:    cfg.ParentCompanyName,
		RecipientEmail:   cfg.ParentCompanyEmail,
		Subject:          "New Safety Incident Report - " + incident.IncidentNumber,
		Message:          s.notificationMessage(incident, site),
		Status:           model.NotificationPending,
	}
	if err := s.repo.IncidentNotification.Create(ctx, notification); err != nil {
		s.logger.Error("notification record create failed", zap.Error(err))
		return
	}

	go s.dispatchNotification(notification, incident)
}

// dispatchNotification runs detached from the request. The send gets its
// own deadline, and the status persist a fresh one so a send timeout
// cannot also kill the bookkeeping write.
func (s *incidentService) dispatchNotification(notification *model.IncidentNotification, incident *model.Incident) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("notification dispatch panicked", zap.Any("panic", r))
		}
	}()

	sendCtx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
	defer cancel()

	if err := s.notifier.Send(sendCtx, notification, incident); err != nil {
		notification.MarkFailed(err.Error())
		s.logger.Warn("notification dispatch failed",
			zap.String("incident_number", incident.IncidentNumber),
			zap.Error(err),
		)
	} else {
		notification.MarkSent(time.Now())
	}
	metrics.NotificationsDispatched.WithLabelValues(notification.Status).Inc()

	persistCtx, cancelPersist := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelPersist()
	if err := s.repo.IncidentNotification.Update(persistCtx, notification); err != nil {
		s.logger.Error("notification status persist failed", zap.Error(err))
	}
}

// notificationMessage renders the plain-text body sent to the parent
// company.
func (s *incidentService) notificationMessage(incident *model.Incident, site *model.Site) string {
	siteName := s.cfg.Organization.Name + " Headquarters"
	companyName := s.cfg.Organization.Name
	if site != nil {
		siteName = site.Name
		if site.Entity != nil && site.Entity.Company != nil {
			companyName = site.Entity.Company.Name
		}
	}

	reporter := incident.ReporterName
	if incident.IsAnonymous || reporter == "" {
		reporter = "Anonymous"
	}

	var b strings.Builder
	b.WriteString("NEW SAFETY INCIDENT REPORT\n\n")
	fmt.Fprintf(&b, "Incident Number: %s\n", incident.IncidentNumber)
	fmt.Fprintf(&b, "Site: %s\n", siteName)
	fmt.Fprintf(&b, "Company: %s\n", companyName)
	fmt.Fprintf(&b, "Type: %s\n", incident.IncidentType)
	fmt.Fprintf(&b, "Criticality: %s\n\n", incident.Criticality)
	fmt.Fprintf(&b, "Title: %s\n", incident.Title)
	if incident.Description != "" {
		fmt.Fprintf(&b, "Description: %s\n", incident.Description)
	}
	fmt.Fprintf(&b, "\nReporter: %s\n", reporter)
	fmt.Fprintf(&b, "Reported At: %s\n", incident.CreatedAt.Format("2006-01-02 15:04:05"))
	b.WriteString("\nPlease review and take appropriate action.\n")
	return b.String()
}
