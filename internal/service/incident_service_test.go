package service

import (
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KUSHALGOYALT/hexa-climate-safety-system/config"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/dto"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/internal/model"
	"github.com/KUSHALGOYALT/hexa-climate-safety-system/pkg/storage"
)

// ═══════════════════════════════════════════
//  Test helpers
// ═══════════════════════════════════════════

func setupTestIncidentService() (IncidentService, *testRepos) {
	repos := newTestRepos()
	svc := NewIncidentService(testConfig(), repos.toRepository(), newStubNotifier(), &stubStore{}, zap.NewNop())
	return svc, repos
}

func setupIncidentServiceWithStore(repos *testRepos, store storage.Store) IncidentService {
	return NewIncidentService(testConfig(), repos.toRepository(), newStubNotifier(), store, zap.NewNop())
}

// setupNotifyingIncidentService enables parent-company notifications; the
// returned stubNotifier holds the dispatch goroutine parked in Send until
// the test receives from it.
func setupNotifyingIncidentService(repos *testRepos) (IncidentService, *stubNotifier) {
	cfg := testConfig()
	cfg.Notification = config.NotificationConfig{
		Enabled:            true,
		ParentCompanyEmail: "safety@hexagroup.com",
		ParentCompanyName:  "Hexa Group HSE",
	}
	notifier := newStubNotifier()
	svc := NewIncidentService(cfg, repos.toRepository(), notifier, &stubStore{}, zap.NewNop())
	return svc, notifier
}

// seedIncident inserts an incident directly into the mock store. CreatedAt
// is stamped now so the age-derived fields stay at zero; date-window tests
// overwrite it afterwards.
func seedIncident(repos *testRepos, id uint, number, status string, site *model.Site) *model.Incident {
	incident := &model.Incident{
		ID:             id,
		IncidentID:     uuid.NewString(),
		IncidentNumber: number,
		IncidentType:   model.IncidentTypeNearMiss,
		Criticality:    model.CriticalityMedium,
		Status:         status,
		Title:          "Incident " + number,
	}
	incident.CreatedAt = time.Now()
	incident.UpdatedAt = incident.CreatedAt
	if site != nil {
		incident.SiteID = &site.ID
		incident.Site = site
	}
	repos.incident.incidents[id] = incident
	return incident
}

// ═══════════════════════════════════════════
//  Report
// ═══════════════════════════════════════════

func TestIncidentService_Report_SiteRequired(t *testing.T) {
	svc, _ := setupTestIncidentService()

	_, err := svc.Report(context.Background(), &dto.CreateIncidentRequest{
		IncidentType: model.IncidentTypeNearMiss,
		Title:        "Forklift reversed without a spotter",
	})
	if !errors.Is(err, ErrIncidentSiteRequired) {
		t.Errorf("expected ErrIncidentSiteRequired, got %v", err)
	}
}

func TestIncidentService_Report_SiteGone(t *testing.T) {
	svc, repos := setupTestIncidentService()
	seedCompany(repos, 1, "HEXA", true)
	seedEntity(repos, 10, 1, "HEXA_SOLAR", true)
	inactive := seedSite(repos, 100, 10, "RJ_SOLAR_01", false)

	missing := uint(99)
	_, err := svc.Report(context.Background(), &dto.CreateIncidentRequest{
		IncidentType: model.IncidentTypeNearMiss,
		Title:        "Loose scaffolding plank on the east wing",
		SiteID:       &missing,
	})
	if !errors.Is(err, ErrIncidentSiteGone) {
		t.Errorf("expected ErrIncidentSiteGone for a missing site, got %v", err)
	}

	_, err = svc.Report(context.Background(), &dto.CreateIncidentRequest{
		IncidentType: model.IncidentTypeNearMiss,
		Title:        "Loose scaffolding plank on the east wing",
		SiteID:       &inactive.ID,
	})
	if !errors.Is(err, ErrIncidentSiteGone) {
		t.Errorf("expected ErrIncidentSiteGone for an inactive site, got %v", err)
	}
}

func TestIncidentService_Report_Defaults(t *testing.T) {
	svc, repos := setupTestIncidentService()
	site := seedHierarchy(repos)
	lat, lon := 26.9124, 75.7873
	site.Latitude = &lat
	site.Longitude = &lon

	resp, err := svc.Report(context.Background(), &dto.CreateIncidentRequest{
		IncidentType: model.IncidentTypeNearMiss,
		Title:        "Crane load swung over the walkway",
		SiteID:       &site.ID,
		DeviceInfo:   map[string]interface{}{"platform": "android"},
	})
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if resp.Criticality != model.CriticalityMedium {
		t.Errorf("expected default criticality MEDIUM, got %q", resp.Criticality)
	}
	if resp.Status != model.StatusReported {
		t.Errorf("expected status REPORTED, got %q", resp.Status)
	}
	if resp.PriorityScore != 4 {
		t.Errorf("expected priority score 4 for a MEDIUM near miss, got %d", resp.PriorityScore)
	}
	if !strings.HasPrefix(resp.IncidentNumber, "INC-RJ_SOLAR_01-NE-") {
		t.Errorf("unexpected incident number %q", resp.IncidentNumber)
	}
	if _, err := uuid.Parse(resp.IncidentID); err != nil {
		t.Errorf("incident_id %q is not a UUID", resp.IncidentID)
	}
	if resp.SiteName != "Site RJ_SOLAR_01" || resp.SiteCode != "RJ_SOLAR_01" {
		t.Errorf("unexpected site fields: %q / %q", resp.SiteName, resp.SiteCode)
	}
	if resp.IsHeadquarters {
		t.Error("site incident must not be marked headquarters")
	}
	if resp.Latitude == nil || *resp.Latitude != 26.9124 {
		t.Errorf("expected site latitude inherited, got %v", resp.Latitude)
	}
	if resp.DeviceInfo["platform"] != "android" {
		t.Errorf("device info lost: %v", resp.DeviceInfo)
	}
	if resp.AgeInDays != 0 {
		t.Errorf("fresh incident reports age %d", resp.AgeInDays)
	}
}

func TestIncidentService_Report_Headquarters(t *testing.T) {
	svc, _ := setupTestIncidentService()

	resp, err := svc.Report(context.Background(), &dto.CreateIncidentRequest{
		IncidentType:   model.IncidentTypeNearMiss,
		Title:          "Server room door left propped open overnight",
		IsHeadquarters: true,
	})
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if !resp.IsHeadquarters || resp.SiteID != nil {
		t.Error("expected a site-less headquarters incident")
	}
	if !strings.HasPrefix(resp.IncidentNumber, "INC-UNKNOWN-NE-") {
		t.Errorf("unexpected incident number %q", resp.IncidentNumber)
	}
	if resp.Latitude == nil || *resp.Latitude != 28.4595 {
		t.Errorf("expected organization latitude fallback, got %v", resp.Latitude)
	}
	if resp.Longitude == nil || *resp.Longitude != 77.0266 {
		t.Errorf("expected organization longitude fallback, got %v", resp.Longitude)
	}
}

func TestIncidentService_Report_CoordinatePair(t *testing.T) {
	svc, repos := setupTestIncidentService()
	site := seedHierarchy(repos)

	lon := 75.7873
	_, err := svc.Report(context.Background(), &dto.CreateIncidentRequest{
		IncidentType: model.IncidentTypeNearMiss,
		Title:        "Cable tray hanging loose above the inverter",
		SiteID:       &site.ID,
		Longitude:    &lon,
	})
	if !errors.Is(err, ErrIncidentCoordinatePair) {
		t.Errorf("expected ErrIncidentCoordinatePair, got %v", err)
	}

	lat := 26.4499
	resp, err := svc.Report(context.Background(), &dto.CreateIncidentRequest{
		IncidentType: model.IncidentTypeNearMiss,
		Title:        "Cable tray hanging loose above the inverter",
		SiteID:       &site.ID,
		Latitude:     &lat,
		Longitude:    &lon,
	})
	if err != nil {
		t.Fatalf("Report with full pair failed: %v", err)
	}
	if resp.Latitude == nil || *resp.Latitude != 26.4499 {
		t.Errorf("explicit coordinates must win over the site's, got %v", resp.Latitude)
	}
}

func TestIncidentService_ReportAnonymous_StripsReporter(t *testing.T) {
	svc, repos := setupTestIncidentService()
	site := seedHierarchy(repos)

	resp, err := svc.ReportAnonymous(context.Background(), &dto.CreateIncidentRequest{
		IncidentType:  model.IncidentTypeUnsafeCondition,
		Title:         "Exposed wiring near the water cooler",
		SiteID:        &site.ID,
		ReporterName:  "Priya Verma",
		ReporterEmail: "priya.verma@hexaclimate.com",
		ReporterPhone: "+91-9811000001",
	})
	if err != nil {
		t.Fatalf("ReportAnonymous failed: %v", err)
	}
	if !resp.IsAnonymous {
		t.Error("anonymous channel must mark the incident anonymous")
	}

	stored := repos.incident.incidents[resp.ID]
	if stored.ReporterName != "" || stored.ReporterEmail != "" || stored.ReporterPhone != "" {
		t.Errorf("anonymous channel must not persist reporter identity: %q %q %q",
			stored.ReporterName, stored.ReporterEmail, stored.ReporterPhone)
	}
}

func TestIncidentService_Report_AnonymousFlagHidesReporter(t *testing.T) {
	svc, repos := setupTestIncidentService()
	site := seedHierarchy(repos)

	resp, err := svc.Report(context.Background(), &dto.CreateIncidentRequest{
		IncidentType: model.IncidentTypeNearMiss,
		Title:        "Worker on the roof without a harness",
		SiteID:       &site.ID,
		ReporterName: "Priya Verma",
		IsAnonymous:  true,
	})
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if resp.ReporterName != "" {
		t.Errorf("anonymous incident leaked reporter %q on the wire", resp.ReporterName)
	}

	// The identity stays on record for the authenticated flow; only the
	// projection hides it.
	if stored := repos.incident.incidents[resp.ID]; stored.ReporterName != "Priya Verma" {
		t.Errorf("expected reporter retained in storage, got %q", stored.ReporterName)
	}
}

func TestIncidentService_Report_NumberConflictRetry(t *testing.T) {
	svc, repos := setupTestIncidentService()
	site := seedHierarchy(repos)
	repos.incident.duplicateNextCreates = 1

	resp, err := svc.Report(context.Background(), &dto.CreateIncidentRequest{
		IncidentType: model.IncidentTypeNearMiss,
		Title:        "Two reports raced on the same second",
		SiteID:       &site.ID,
	})
	if err != nil {
		t.Fatalf("Report failed after one duplicate: %v", err)
	}
	if !strings.HasPrefix(resp.IncidentNumber, "INC-RJ_SOLAR_01-NE-") {
		t.Fatalf("unexpected incident number %q", resp.IncidentNumber)
	}

	idx := strings.LastIndex(resp.IncidentNumber, "-")
	suffix := resp.IncidentNumber[idx+1:]
	if len(suffix) != 4 {
		t.Fatalf("expected a 4-char random suffix, got %q in %q", suffix, resp.IncidentNumber)
	}
	if _, err := hex.DecodeString(suffix); err != nil {
		t.Errorf("suffix %q is not hex", suffix)
	}
}

func TestIncidentService_Report_NumberRetriesExhausted(t *testing.T) {
	svc, repos := setupTestIncidentService()
	site := seedHierarchy(repos)
	repos.incident.duplicateNextCreates = 4

	_, err := svc.Report(context.Background(), &dto.CreateIncidentRequest{
		IncidentType: model.IncidentTypeNearMiss,
		Title:        "Unique index never lets this one through",
		SiteID:       &site.ID,
	})
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		t.Errorf("expected the duplicate error to surface after retries, got %v", err)
	}
}

// ═══════════════════════════════════════════
//  Get
// ═══════════════════════════════════════════

func TestIncidentService_Get_TokenForms(t *testing.T) {
	svc, repos := setupTestIncidentService()
	incident := seedIncident(repos, 5, "INC-RJ_SOLAR_01-NE-20260810090000", model.StatusReported, nil)

	byID, err := svc.Get(context.Background(), "5")
	if err != nil {
		t.Fatalf("Get by numeric id failed: %v", err)
	}
	if byID.IncidentNumber != incident.IncidentNumber {
		t.Errorf("numeric lookup returned %q", byID.IncidentNumber)
	}

	byUUID, err := svc.Get(context.Background(), incident.IncidentID)
	if err != nil {
		t.Fatalf("Get by uuid failed: %v", err)
	}
	if byUUID.ID != 5 {
		t.Errorf("uuid lookup returned id %d", byUUID.ID)
	}

	if _, err := svc.Get(context.Background(), "999"); !errors.Is(err, ErrIncidentNotFound) {
		t.Errorf("expected ErrIncidentNotFound for an absent id, got %v", err)
	}
	if _, err := svc.Get(context.Background(), uuid.NewString()); !errors.Is(err, ErrIncidentNotFound) {
		t.Errorf("expected ErrIncidentNotFound for an absent uuid, got %v", err)
	}
	if _, err := svc.Get(context.Background(), "not-a-uuid"); !errors.Is(err, ErrIncidentNotFound) {
		t.Errorf("expected ErrIncidentNotFound for a malformed token, got %v", err)
	}
}

// ═══════════════════════════════════════════
//  List
// ═══════════════════════════════════════════

func TestIncidentService_List_SiteTokens(t *testing.T) {
	svc, repos := setupTestIncidentService()
	site := seedHierarchy(repos)
	seedIncident(repos, 1, "INC-RJ_SOLAR_01-NE-20260810090000", model.StatusReported, site)
	seedIncident(repos, 2, "INC-UNKNOWN-NE-20260810100000", model.StatusReported, nil)
	seedIncident(repos, 3, "INC-UNKNOWN-NE-20260810110000", model.StatusReported, nil)

	hq, total, err := svc.List(context.Background(), &dto.IncidentListRequest{SiteID: "headquarters"})
	if err != nil {
		t.Fatalf("List headquarters failed: %v", err)
	}
	if total != 2 || len(hq) != 2 {
		t.Errorf("expected 2 headquarters incidents, got %d (total %d)", len(hq), total)
	}
	for _, item := range hq {
		if !item.IsHeadquarters {
			t.Errorf("incident %d is not headquarters-level", item.ID)
		}
	}

	bySite, total, err := svc.List(context.Background(), &dto.IncidentListRequest{SiteID: "100"})
	if err != nil {
		t.Fatalf("List by site failed: %v", err)
	}
	if total != 1 || len(bySite) != 1 || bySite[0].ID != 1 {
		t.Errorf("expected only the site incident, got %d (total %d)", len(bySite), total)
	}

	if _, _, err := svc.List(context.Background(), &dto.IncidentListRequest{SiteID: "abc"}); !errors.Is(err, ErrInvalidSiteFilter) {
		t.Errorf("expected ErrInvalidSiteFilter, got %v", err)
	}
}

func TestIncidentService_List_DateWindow(t *testing.T) {
	svc, repos := setupTestIncidentService()
	early := seedIncident(repos, 1, "INC-UNKNOWN-NE-20260820150000", model.StatusReported, nil)
	early.CreatedAt = time.Date(2026, 8, 20, 15, 0, 0, 0, time.UTC)
	late := seedIncident(repos, 2, "INC-UNKNOWN-NE-20260821020000", model.StatusReported, nil)
	late.CreatedAt = time.Date(2026, 8, 21, 2, 0, 0, 0, time.UTC)

	// date_to covers the whole end date, so the 20th 15:00 report is in
	// and the 21st 02:00 one is out.
	upTo, total, err := svc.List(context.Background(), &dto.IncidentListRequest{DateTo: "2026-08-20"})
	if err != nil {
		t.Fatalf("List with date_to failed: %v", err)
	}
	if total != 1 || upTo[0].ID != early.ID {
		t.Errorf("date_to window wrong: total %d", total)
	}

	from, total, err := svc.List(context.Background(), &dto.IncidentListRequest{DateFrom: "2026-08-21"})
	if err != nil {
		t.Fatalf("List with date_from failed: %v", err)
	}
	if total != 1 || from[0].ID != late.ID {
		t.Errorf("date_from window wrong: total %d", total)
	}
}

func TestIncidentService_List_Search(t *testing.T) {
	svc, repos := setupTestIncidentService()
	hit := seedIncident(repos, 1, "INC-UNKNOWN-NE-20260810090000", model.StatusReported, nil)
	hit.Title = "Oil spill near the transformer yard"
	seedIncident(repos, 2, "INC-UNKNOWN-NE-20260810100000", model.StatusReported, nil)

	list, total, err := svc.List(context.Background(), &dto.IncidentListRequest{Search: "SPILL"})
	if err != nil {
		t.Fatalf("List with search failed: %v", err)
	}
	if total != 1 || len(list) != 1 || list[0].ID != hit.ID {
		t.Errorf("case-insensitive search missed: total %d", total)
	}
}

// ═══════════════════════════════════════════
//  Update
// ═══════════════════════════════════════════

func TestIncidentService_Update_ClosedGuard(t *testing.T) {
	svc, repos := setupTestIncidentService()
	seedIncident(repos, 1, "INC-UNKNOWN-NE-20260801120000", model.StatusClosed, nil)

	investigating := model.StatusInvestigating
	_, err := svc.Update(context.Background(), "1", &dto.UpdateIncidentRequest{Status: &investigating})
	if !errors.Is(err, ErrIncidentClosed) {
		t.Errorf("expected ErrIncidentClosed for a reopen attempt, got %v", err)
	}

	title := "Corrected title after the close-out review"
	resp, err := svc.Update(context.Background(), "1", &dto.UpdateIncidentRequest{Title: &title})
	if err != nil {
		t.Fatalf("title-only patch on a closed incident failed: %v", err)
	}
	if resp.Title != title || resp.Status != model.StatusClosed {
		t.Errorf("unexpected patch result: %q / %q", resp.Title, resp.Status)
	}

	closed := model.StatusClosed
	if _, err := svc.Update(context.Background(), "1", &dto.UpdateIncidentRequest{Status: &closed}); err != nil {
		t.Errorf("re-submitting CLOSED must pass, got %v", err)
	}
}

func TestIncidentService_Update_RecomputesPriority(t *testing.T) {
	svc, repos := setupTestIncidentService()
	seedIncident(repos, 1, "INC-UNKNOWN-NE-20260801120000", model.StatusReported, nil)

	emergency := model.CriticalityEmergency
	resp, err := svc.Update(context.Background(), "1", &dto.UpdateIncidentRequest{Criticality: &emergency})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if resp.PriorityScore != 11 {
		t.Errorf("expected priority 11 for an EMERGENCY near miss, got %d", resp.PriorityScore)
	}
}

// ═══════════════════════════════════════════
//  UpdateStatus
// ═══════════════════════════════════════════

func TestIncidentService_UpdateStatus_ClosedGuard(t *testing.T) {
	svc, repos := setupTestIncidentService()
	seedIncident(repos, 1, "INC-UNKNOWN-NE-20260801120000", model.StatusClosed, nil)

	_, err := svc.UpdateStatus(context.Background(), "1", &dto.UpdateIncidentStatusRequest{Status: model.StatusResolved})
	if !errors.Is(err, ErrIncidentClosed) {
		t.Errorf("expected ErrIncidentClosed, got %v", err)
	}

	resp, err := svc.UpdateStatus(context.Background(), "1", &dto.UpdateIncidentStatusRequest{Status: model.StatusClosed})
	if err != nil {
		t.Fatalf("idempotent re-close failed: %v", err)
	}
	if resp.Status != model.StatusClosed {
		t.Errorf("unexpected status %q", resp.Status)
	}
}

func TestIncidentService_UpdateStatus_StampsOnce(t *testing.T) {
	svc, repos := setupTestIncidentService()
	seedIncident(repos, 1, "INC-UNKNOWN-NE-20260801120000", model.StatusReported, nil)

	if _, err := svc.UpdateStatus(context.Background(), "1", &dto.UpdateIncidentStatusRequest{Status: model.StatusAcknowledged}); err != nil {
		t.Fatalf("acknowledge failed: %v", err)
	}
	stored := repos.incident.incidents[1]
	if stored.AcknowledgedAt == nil {
		t.Fatal("expected AcknowledgedAt stamped")
	}
	firstAck := *stored.AcknowledgedAt

	if _, err := svc.UpdateStatus(context.Background(), "1", &dto.UpdateIncidentStatusRequest{Status: model.StatusInvestigating}); err != nil {
		t.Fatalf("investigate failed: %v", err)
	}
	if _, err := svc.UpdateStatus(context.Background(), "1", &dto.UpdateIncidentStatusRequest{Status: model.StatusAcknowledged}); err != nil {
		t.Fatalf("re-acknowledge failed: %v", err)
	}
	if stored = repos.incident.incidents[1]; !stored.AcknowledgedAt.Equal(firstAck) {
		t.Errorf("AcknowledgedAt moved on a revisit: %v -> %v", firstAck, stored.AcknowledgedAt)
	}

	resp, err := svc.UpdateStatus(context.Background(), "1", &dto.UpdateIncidentStatusRequest{
		Status:          model.StatusResolved,
		AssignedTo:      "Meera Iyer",
		ResolutionNotes: "Guard rail replaced and area re-inspected",
	})
	if err != nil {
		t.Fatalf("resolve failed: %v", err)
	}
	stored = repos.incident.incidents[1]
	if stored.ResolvedAt == nil {
		t.Error("expected ResolvedAt stamped")
	}
	if resp.AssignedTo != "Meera Iyer" || stored.ResolutionNotes != "Guard rail replaced and area re-inspected" {
		t.Errorf("assignment fields not applied: %q / %q", resp.AssignedTo, stored.ResolutionNotes)
	}
}

// ═══════════════════════════════════════════
//  Delete
// ═══════════════════════════════════════════

func TestIncidentService_Delete(t *testing.T) {
	svc, repos := setupTestIncidentService()
	seedIncident(repos, 1, "INC-UNKNOWN-NE-20260801120000", model.StatusReported, nil)

	if err := svc.Delete(context.Background(), "1"); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if len(repos.incident.incidents) != 0 {
		t.Error("expected the incident removed")
	}

	if err := svc.Delete(context.Background(), "999"); !errors.Is(err, ErrIncidentNotFound) {
		t.Errorf("expected ErrIncidentNotFound, got %v", err)
	}
}

// ═══════════════════════════════════════════
//  Stats
// ═══════════════════════════════════════════

func TestIncidentService_Stats(t *testing.T) {
	svc, repos := setupTestIncidentService()
	site := seedHierarchy(repos)

	seedIncident(repos, 1, "INC-RJ_SOLAR_01-NE-20260810090000", model.StatusReported, site)
	resolved := seedIncident(repos, 2, "INC-RJ_SOLAR_01-UN-20260810100000", model.StatusResolved, site)
	resolved.IncidentType = model.IncidentTypeUnsafeCondition
	resolved.Criticality = model.CriticalityCritical
	hq := seedIncident(repos, 3, "INC-UNKNOWN-FE-20260810110000", model.StatusClosed, nil)
	hq.IncidentType = model.IncidentTypeFeedback
	hq.Criticality = model.CriticalityLow
	old := seedIncident(repos, 4, "INC-RJ_SOLAR_01-NE-20260701090000", model.StatusReported, site)
	old.CreatedAt = time.Now().AddDate(0, 0, -40)

	stats, err := svc.Stats(context.Background(), &dto.IncidentStatsRequest{})
	if err != nil {
		t.Fatalf("Stats failed: %v", err)
	}
	if stats.PeriodDays != 30 {
		t.Errorf("expected default 30-day window, got %d", stats.PeriodDays)
	}
	if stats.TotalIncidents != 3 {
		t.Errorf("the 40-day-old incident must fall outside the window: total %d", stats.TotalIncidents)
	}
	if stats.OpenIncidents != 1 || stats.ResolvedIncidents != 1 || stats.CriticalIncidents != 1 {
		t.Errorf("unexpected partition: open %d resolved %d critical %d",
			stats.OpenIncidents, stats.ResolvedIncidents, stats.CriticalIncidents)
	}
	if stats.OverdueIncidents != 0 {
		t.Errorf("fresh incidents cannot be overdue, got %d", stats.OverdueIncidents)
	}
	if stats.ByType[model.IncidentTypeNearMiss] != 1 || stats.ByType[model.IncidentTypeFeedback] != 1 {
		t.Errorf("unexpected type breakdown: %v", stats.ByType)
	}
	if stats.ByStatus[model.StatusReported] != 1 || stats.ByStatus[model.StatusClosed] != 1 {
		t.Errorf("unexpected status breakdown: %v", stats.ByStatus)
	}
	if len(stats.BySite) != 1 || stats.BySite[0].Count != 2 || stats.BySite[0].SiteName != "Site RJ_SOLAR_01" {
		t.Errorf("unexpected site breakdown: %+v", stats.BySite)
	}
	if len(stats.RecentIncidents) != 3 {
		t.Errorf("expected 3 recent incidents, got %d", len(stats.RecentIncidents))
	}

	wide, err := svc.Stats(context.Background(), &dto.IncidentStatsRequest{Days: 90})
	if err != nil {
		t.Fatalf("Stats with days failed: %v", err)
	}
	if wide.TotalIncidents != 4 || wide.PeriodDays != 90 {
		t.Errorf("90-day window wrong: total %d period %d", wide.TotalIncidents, wide.PeriodDays)
	}
	if wide.OverdueIncidents != 1 {
		t.Errorf("the 40-day-old MEDIUM report is overdue, got %d", wide.OverdueIncidents)
	}

	hqStats, err := svc.Stats(context.Background(), &dto.IncidentStatsRequest{SiteID: "headquarters"})
	if err != nil {
		t.Fatalf("Stats headquarters failed: %v", err)
	}
	if hqStats.TotalIncidents != 1 {
		t.Errorf("expected only the headquarters incident, got %d", hqStats.TotalIncidents)
	}

	if _, err := svc.Stats(context.Background(), &dto.IncidentStatsRequest{SiteID: "abc"}); !errors.Is(err, ErrInvalidSiteFilter) {
		t.Errorf("expected ErrInvalidSiteFilter, got %v", err)
	}
}

// ═══════════════════════════════════════════
//  Export
// ═══════════════════════════════════════════

func TestIncidentService_Export(t *testing.T) {
	svc, repos := setupTestIncidentService()
	site := seedHierarchy(repos)
	seedIncident(repos, 1, "INC-RJ_SOLAR_01-NE-20260810090000", model.StatusReported, site)
	anon := seedIncident(repos, 2, "INC-UNKNOWN-NE-20260810100000", model.StatusReported, nil)
	anon.IsAnonymous = true

	buf, filename, err := svc.Export(context.Background(), &dto.IncidentListRequest{})
	if err != nil {
		t.Fatalf("Export failed: %v", err)
	}
	if !strings.HasPrefix(filename, "incidents_") || !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("unexpected filename %q", filename)
	}
	// xlsx is a zip container.
	if !bytes.HasPrefix(buf.Bytes(), []byte("PK")) {
		t.Error("export is not a zip container")
	}

	if _, _, err := svc.Export(context.Background(), &dto.IncidentListRequest{SiteID: "abc"}); !errors.Is(err, ErrInvalidSiteFilter) {
		t.Errorf("expected ErrInvalidSiteFilter, got %v", err)
	}
}

// ═══════════════════════════════════════════
//  Responses
// ═══════════════════════════════════════════

func TestIncidentService_AddResponse_DefaultVisibility(t *testing.T) {
	svc, repos := setupTestIncidentService()
	seedIncident(repos, 1, "INC-UNKNOWN-NE-20260801120000", model.StatusReported, nil)

	resp, err := svc.AddResponse(context.Background(), "1", &dto.CreateIncidentResponseRequest{
		ResponseType:  model.ResponseTypeInvestigation,
		Message:       "Site walkdown scheduled for tomorrow morning",
		ResponderName: "Meera Iyer",
	})
	if err != nil {
		t.Fatalf("AddResponse failed: %v", err)
	}
	if !resp.IsVisibleToReporter {
		t.Error("visibility must default to true")
	}
	if stored := repos.response.responses[resp.ID]; !stored.IsVisibleToReporter {
		t.Error("stored response lost the default visibility")
	}

	hidden := false
	internal, err := svc.AddResponse(context.Background(), "1", &dto.CreateIncidentResponseRequest{
		ResponseType:        model.ResponseTypeStatusUpdate,
		Message:             "Legal review pending, keep internal",
		ResponderName:       "Meera Iyer",
		IsInternal:          true,
		IsVisibleToReporter: &hidden,
	})
	if err != nil {
		t.Fatalf("AddResponse failed: %v", err)
	}
	if internal.IsVisibleToReporter {
		t.Error("explicit false was overridden")
	}

	_, err = svc.AddResponse(context.Background(), "999", &dto.CreateIncidentResponseRequest{
		ResponseType:  model.ResponseTypeFollowUp,
		Message:       "This incident does not exist",
		ResponderName: "Meera Iyer",
	})
	if !errors.Is(err, ErrIncidentNotFound) {
		t.Errorf("expected ErrIncidentNotFound, got %v", err)
	}
}

func TestIncidentService_ListResponses_VisibleOnly(t *testing.T) {
	svc, repos := setupTestIncidentService()
	seedIncident(repos, 1, "INC-UNKNOWN-NE-20260801120000", model.StatusReported, nil)

	if _, err := svc.AddResponse(context.Background(), "1", &dto.CreateIncidentResponseRequest{
		ResponseType:  model.ResponseTypeInvestigation,
		Message:       "Interviewed the shift supervisor",
		ResponderName: "Meera Iyer",
	}); err != nil {
		t.Fatalf("AddResponse failed: %v", err)
	}
	hidden := false
	if _, err := svc.AddResponse(context.Background(), "1", &dto.CreateIncidentResponseRequest{
		ResponseType:        model.ResponseTypeStatusUpdate,
		Message:             "Insurance claim reference HX-2231",
		ResponderName:       "Meera Iyer",
		IsVisibleToReporter: &hidden,
	}); err != nil {
		t.Fatalf("AddResponse failed: %v", err)
	}

	visible, err := svc.ListResponses(context.Background(), "1", true)
	if err != nil {
		t.Fatalf("ListResponses failed: %v", err)
	}
	if len(visible) != 1 || visible[0].ResponseType != model.ResponseTypeInvestigation {
		t.Errorf("reporter view leaked hidden responses: %d", len(visible))
	}

	all, err := svc.ListResponses(context.Background(), "1", false)
	if err != nil {
		t.Fatalf("ListResponses failed: %v", err)
	}
	if len(all) != 2 {
		t.Errorf("expected both responses for staff, got %d", len(all))
	}
}

// ═══════════════════════════════════════════
//  Attachments
// ═══════════════════════════════════════════

func TestIncidentService_AddAttachment(t *testing.T) {
	svc, repos := setupTestIncidentService()
	incident := seedIncident(repos, 1, "INC-UNKNOWN-NE-20260801120000", model.StatusReported, nil)

	resp, err := svc.AddAttachment(context.Background(), "1", &dto.CreateAttachmentRequest{
		FileName: "hazard-photo.jpg",
		FileSize: 204800,
		MimeType: "image/jpeg",
	})
	if err != nil {
		t.Fatalf("AddAttachment failed: %v", err)
	}
	wantPrefix := "incidents/" + incident.IncidentID + "/"
	if !strings.HasPrefix(resp.ObjectKey, wantPrefix) || !strings.HasSuffix(resp.ObjectKey, "-hazard-photo.jpg") {
		t.Errorf("unexpected object key %q", resp.ObjectKey)
	}
	if resp.FileType != model.FileTypeOther {
		t.Errorf("expected file type to default to OTHER, got %q", resp.FileType)
	}
	if resp.UploadURL != "https://storage.test/put/"+resp.ObjectKey {
		t.Errorf("unexpected upload url %q", resp.UploadURL)
	}
	if len(repos.attachment.attachments) != 1 {
		t.Errorf("expected 1 stored attachment, got %d", len(repos.attachment.attachments))
	}
}

func TestIncidentService_AddAttachment_NoStore(t *testing.T) {
	repos := newTestRepos()
	svc := setupIncidentServiceWithStore(repos, nil)
	seedIncident(repos, 1, "INC-UNKNOWN-NE-20260801120000", model.StatusReported, nil)

	_, err := svc.AddAttachment(context.Background(), "1", &dto.CreateAttachmentRequest{FileName: "report.pdf"})
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("expected ErrStorageUnavailable, got %v", err)
	}
}

func TestIncidentService_AddAttachment_PresignFailure(t *testing.T) {
	repos := newTestRepos()
	svc := setupIncidentServiceWithStore(repos, &stubStore{putErr: errors.New("minio unreachable")})
	seedIncident(repos, 1, "INC-UNKNOWN-NE-20260801120000", model.StatusReported, nil)

	_, err := svc.AddAttachment(context.Background(), "1", &dto.CreateAttachmentRequest{FileName: "report.pdf"})
	if !errors.Is(err, ErrStorageUnavailable) {
		t.Errorf("expected ErrStorageUnavailable, got %v", err)
	}
	if len(repos.attachment.attachments) != 0 {
		t.Error("no record may exist without an upload slot")
	}
}

func TestIncidentService_ListAttachments_DegradesWithoutStore(t *testing.T) {
	repos := newTestRepos()
	seedIncident(repos, 1, "INC-UNKNOWN-NE-20260801120000", model.StatusReported, nil)
	attachment := &model.IncidentAttachment{
		ID:         1,
		IncidentID: 1,
		FileName:   "report.pdf",
		ObjectKey:  "incidents/ab/report.pdf",
		FileType:   model.FileTypeDocument,
	}
	repos.attachment.attachments[1] = attachment

	svc := setupIncidentServiceWithStore(repos, &stubStore{})
	list, err := svc.ListAttachments(context.Background(), "1")
	if err != nil {
		t.Fatalf("ListAttachments failed: %v", err)
	}
	if len(list) != 1 || list[0].DownloadURL != "https://storage.test/get/incidents/ab/report.pdf" {
		t.Errorf("expected a presigned download url, got %+v", list)
	}

	degraded := setupIncidentServiceWithStore(repos, &stubStore{getErr: errors.New("minio unreachable")})
	list, err = degraded.ListAttachments(context.Background(), "1")
	if err != nil {
		t.Fatalf("ListAttachments must survive presign failures: %v", err)
	}
	if len(list) != 1 || list[0].DownloadURL != "" {
		t.Errorf("expected the listing without a download url, got %+v", list)
	}
}

// ═══════════════════════════════════════════
//  Notifications
// ═══════════════════════════════════════════

func TestIncidentService_Report_NotifiesParentCompany(t *testing.T) {
	repos := newTestRepos()
	svc, notifier := setupNotifyingIncidentService(repos)
	site := seedHierarchy(repos)

	resp, err := svc.Report(context.Background(), &dto.CreateIncidentRequest{
		IncidentType: model.IncidentTypeAccident,
		Criticality:  model.CriticalityCritical,
		Title:        "Technician fell from the inverter platform",
		SiteID:       &site.ID,
	})
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}

	// The record is written before dispatch starts, and the goroutine is
	// parked in Send until this test receives from the stub.
	if len(repos.notification.notifications) != 1 {
		t.Fatalf("expected 1 notification record, got %d", len(repos.notification.notifications))
	}
	var record *model.IncidentNotification
	for _, n := range repos.notification.notifications {
		record = n
	}
	wantSubject := "New Safety Incident Report - " + resp.IncidentNumber
	if record.Subject != wantSubject {
		t.Errorf("unexpected subject %q", record.Subject)
	}
	if record.Status != model.NotificationPending {
		t.Errorf("expected PENDING before dispatch finishes, got %q", record.Status)
	}
	if record.RecipientEmail != "safety@hexagroup.com" || record.RecipientName != "Hexa Group HSE" {
		t.Errorf("unexpected recipient: %q <%s>", record.RecipientName, record.RecipientEmail)
	}
	if record.IncidentID != resp.ID {
		t.Errorf("record bound to incident %d, want %d", record.IncidentID, resp.ID)
	}
	if !strings.Contains(record.Message, resp.IncidentNumber) || !strings.Contains(record.Message, "Site RJ_SOLAR_01") {
		t.Errorf("message body incomplete:\n%s", record.Message)
	}

	select {
	case got := <-notifier.sent:
		if got != wantSubject {
			t.Errorf("notifier received subject %q", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch never reached the notifier")
	}
}

func TestIncidentService_Report_NotificationsDisabled(t *testing.T) {
	svc, repos := setupTestIncidentService()
	site := seedHierarchy(repos)

	if _, err := svc.Report(context.Background(), &dto.CreateIncidentRequest{
		IncidentType: model.IncidentTypeNearMiss,
		Title:        "Ladder left leaning against the live panel",
		SiteID:       &site.ID,
	}); err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if len(repos.notification.notifications) != 0 {
		t.Errorf("disabled notifications still wrote %d records", len(repos.notification.notifications))
	}
}

func TestIncidentService_ListNotifications(t *testing.T) {
	svc, repos := setupTestIncidentService()
	incident := seedIncident(repos, 1, "INC-UNKNOWN-NE-20260801120000", model.StatusReported, nil)
	seedIncident(repos, 2, "INC-UNKNOWN-NE-20260801130000", model.StatusReported, nil)

	repos.notification.notifications[1] = &model.IncidentNotification{
		ID: 1, IncidentID: 1, NotificationType: model.NotificationTypeEmail,
		Status: model.NotificationPending,
	}
	repos.notification.notifications[2] = &model.IncidentNotification{
		ID: 2, IncidentID: 1, NotificationType: model.NotificationTypeEmail,
		Status: model.NotificationSent,
	}
	repos.notification.notifications[3] = &model.IncidentNotification{
		ID: 3, IncidentID: 2, NotificationType: model.NotificationTypeEmail,
		Status: model.NotificationFailed, ErrorMessage: "smtp timeout",
	}

	list, err := svc.ListNotifications(context.Background(), "1")
	if err != nil {
		t.Fatalf("ListNotifications failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 notifications for the incident, got %d", len(list))
	}
	if list[0].ID != 2 {
		t.Errorf("expected newest first, got id %d", list[0].ID)
	}
	if list[0].IncidentNumber != incident.IncidentNumber {
		t.Errorf("incident number not backfilled: %q", list[0].IncidentNumber)
	}
}

func TestIncidentService_ListAllNotifications_StatusFilter(t *testing.T) {
	svc, repos := setupTestIncidentService()
	seedIncident(repos, 1, "INC-UNKNOWN-NE-20260801120000", model.StatusReported, nil)

	repos.notification.notifications[1] = &model.IncidentNotification{
		ID: 1, IncidentID: 1, NotificationType: model.NotificationTypeEmail,
		Status: model.NotificationSent,
	}
	repos.notification.notifications[2] = &model.IncidentNotification{
		ID: 2, IncidentID: 1, NotificationType: model.NotificationTypeEmail,
		Status: model.NotificationFailed, ErrorMessage: "smtp timeout",
	}

	failed, total, err := svc.ListAllNotifications(context.Background(), &dto.NotificationListRequest{Status: model.NotificationFailed})
	if err != nil {
		t.Fatalf("ListAllNotifications failed: %v", err)
	}
	if total != 1 || len(failed) != 1 || failed[0].ErrorMessage != "smtp timeout" {
		t.Errorf("status filter wrong: total %d, %+v", total, failed)
	}

	all, total, err := svc.ListAllNotifications(context.Background(), &dto.NotificationListRequest{})
	if err != nil {
		t.Fatalf("ListAllNotifications failed: %v", err)
	}
	if total != 2 || len(all) != 2 {
		t.Errorf("expected the full log, got %d (total %d)", len(all), total)
	}
}
