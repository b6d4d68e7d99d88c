package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/esprim/pfe-catalog-api/internal/dto"
	"github.com/esprim/pfe-catalog-api/internal/models"
	appErrors "github.com/esprim/pfe-catalog-api/pkg/errors"
	"github.com/esprim/pfe-catalog-api/pkg/export"
)

type adminUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
	List(ctx context.Context, filter models.UserFilter) ([]models.User, int, error)
	SetActive(ctx context.Context, id string, active bool) error
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

type adminReportRepository interface {
	GetByID(ctx context.Context, id string) (*models.Report, error)
	List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error)
	Delete(ctx context.Context, id string) error
}

// AdminService backs the administration dashboard: platform counters,
// user management, report removal, and catalog exports.
type AdminService struct {
	users   adminUserRepository
	reports adminReportRepository
	cache   *CacheService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

// NewAdminService constructs an AdminService instance.
func NewAdminService(users adminUserRepository, reports adminReportRepository, cache *CacheService, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{
		users:   users,
		reports: reports,
		cache:   cache,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
}

// Overview aggregates platform-wide counters. The user and report
// queries are independent, so they run concurrently.
func (s *AdminService) Overview(ctx context.Context) (*dto.OverviewResponse, error) {
	var (
		wg         sync.WaitGroup
		totalUsers int
		reports    []models.Report
		usersErr   error
		reportsErr error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		_, totalUsers, usersErr = s.users.List(ctx, models.UserFilter{Page: 1, PageSize: 1})
	}()
	go func() {
		defer wg.Done()
		reports, reportsErr = s.reports.List(ctx, models.ReportFilter{})
	}()
	wg.Wait()

	if usersErr != nil {
		return nil, appErrors.Wrap(usersErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count users")
	}
	if reportsErr != nil {
		return nil, appErrors.Wrap(reportsErr, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reports")
	}

	overview := &dto.OverviewResponse{TotalUsers: totalUsers, TotalReports: len(reports)}
	for _, r := range reports {
		overview.TotalViews += r.ViewsCount
		switch r.Status {
		case models.StatusValidated:
			overview.ValidatedReports++
		case models.StatusPending:
			overview.PendingReports++
		case models.StatusRejected:
			overview.RejectedReports++
		}
	}
	return overview, nil
}

// ListUsers returns a filtered, paginated user listing.
func (s *AdminService) ListUsers(ctx context.Context, filter models.UserFilter) ([]models.User, *models.Pagination, error) {
	users, total, err := s.users.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	pageSize := filter.PageSize
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	return users, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total}, nil
}

// SetUserActive flips a user's activation flag. Admins cannot
// deactivate themselves.
func (s *AdminService) SetUserActive(ctx context.Context, actor models.JWTClaims, userID string, active bool) error {
	if actor.UserID == userID && !active {
		return appErrors.Clone(appErrors.ErrValidation, "cannot deactivate your own account")
	}
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch user")
	}
	if err := s.users.SetActive(ctx, userID, active); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update user")
	}

	if err := s.users.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actor.UserID,
		Action:     models.AuditActionUserToggle,
		Resource:   "user",
		ResourceID: &userID,
		Details:    []byte(fmt.Sprintf(`{"active":%t}`, active)),
	}); err != nil {
		s.logger.Warn("failed to record user toggle audit log", zap.Error(err))
	}
	return nil
}

// DeleteReport removes a report in any state and invalidates the
// catalog cache in case it was published.
func (s *AdminService) DeleteReport(ctx context.Context, actor models.JWTClaims, reportID string) error {
	if err := s.reports.Delete(ctx, reportID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete report")
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, "catalog:*")
	}
	if err := s.users.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &actor.UserID,
		Action:     models.AuditActionReportDelete,
		Resource:   "report",
		ResourceID: &reportID,
	}); err != nil {
		s.logger.Warn("failed to record report delete audit log", zap.Error(err))
	}
	return nil
}

// ExportCatalog renders the validated catalog as CSV or PDF.
func (s *AdminService) ExportCatalog(ctx context.Context, actor models.JWTClaims, format string) ([]byte, string, error) {
	status := models.StatusValidated
	reports, err := s.reports.List(ctx, models.ReportFilter{Status: &status})
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load catalog")
	}

	dataset := catalogDataset(reports)
	var (
		payload     []byte
		contentType string
	)
	switch format {
	case "", "csv":
		format = "csv"
		payload, err = s.csv.Render(dataset)
		contentType = "text/csv"
	case "pdf":
		payload, err = s.pdf.Render(dataset, "Catalogue des rapports PFE")
		contentType = "application/pdf"
	default:
		return nil, "", appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	if auditErr := s.users.CreateAuditLog(ctx, &models.AuditLog{
		UserID:   &actor.UserID,
		Action:   models.AuditActionCatalogExport,
		Resource: "catalog",
		Details:  []byte(fmt.Sprintf(`{"format":%q,"rows":%d}`, format, len(reports))),
	}); auditErr != nil {
		s.logger.Warn("failed to record export audit log", zap.Error(auditErr))
	}
	return payload, contentType, nil
}

func catalogDataset(reports []models.Report) export.Dataset {
	headers := []string{"Title", "Authors", "Academic Year", "Specialty", "Department", "Keywords", "Views", "Validated At"}
	rows := make([]map[string]string, 0, len(reports))
	for _, r := range reports {
		names := make([]string, 0, len(r.Authors))
		for _, a := range r.Authors {
			names = append(names, a.Name)
		}
		validatedAt := ""
		if r.ValidatedAt != nil {
			validatedAt = r.ValidatedAt.Format(time.RFC3339)
		}
		rows = append(rows, map[string]string{
			"Title":         r.Title,
			"Authors":       strings.Join(names, "; "),
			"Academic Year": r.AcademicYear,
			"Specialty":     r.Specialty,
			"Department":    r.Department,
			"Keywords":      strings.Join(r.Keywords, ", "),
			"Views":         fmt.Sprintf("%d", r.ViewsCount),
			"Validated At":  validatedAt,
		})
	}
	return export.Dataset{Headers: headers, Rows: rows}
}
