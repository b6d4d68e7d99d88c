package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/esprim/pfe-catalog-api/internal/dto"
	"github.com/esprim/pfe-catalog-api/internal/models"
	appErrors "github.com/esprim/pfe-catalog-api/pkg/errors"
)

type validationReportRepository interface {
	GetByID(ctx context.Context, id string) (*models.Report, error)
	List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error)
	MarkValidated(ctx context.Context, id, validatorID string, ts time.Time) error
	MarkRejected(ctx context.Context, id, validatorID, reason string, ts time.Time) error
}

type validationHistoryRepository interface {
	Append(ctx context.Context, entry *models.ValidationHistory) error
	ListByReport(ctx context.Context, reportID string) ([]models.ValidationHistory, error)
}

// ValidationService drives the review workflow. Decisions move a
// pending report into one of two terminal states and append an
// immutable history event.
type ValidationService struct {
	reports   validationReportRepository
	history   validationHistoryRepository
	audit     submissionAuditRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
}

// NewValidationService constructs a ValidationService instance.
func NewValidationService(reports validationReportRepository, history validationHistoryRepository, audit submissionAuditRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *ValidationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ValidationService{
		reports:   reports,
		history:   history,
		audit:     audit,
		cache:     cache,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
	}
}

// ListForReview returns reports for the validation panel. The default
// view is the pending queue; status=all lists everything. The search
// term matches titles and author names, case-insensitively.
func (s *ValidationService) ListForReview(ctx context.Context, query dto.ReviewQuery) ([]models.Report, error) {
	filter := models.ReportFilter{}
	switch query.Status {
	case "", "pending":
		status := models.StatusPending
		filter.Status = &status
	case "validated":
		status := models.StatusValidated
		filter.Status = &status
	case "rejected":
		status := models.StatusRejected
		filter.Status = &status
	case "all":
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unknown status filter %q", query.Status))
	}

	reports, err := s.reports.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list reports")
	}

	term := strings.ToLower(strings.TrimSpace(query.Search))
	if term == "" {
		return reports, nil
	}
	matched := make([]models.Report, 0, len(reports))
	for _, r := range reports {
		if matchesReview(r, term) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// Validate approves a pending report. Every checklist criterion must
// be checked; otherwise the unmet criteria are named in the error. The
// report update commits before the history append, and a failed append
// is logged rather than rolled back.
func (s *ValidationService) Validate(ctx context.Context, reportID string, validator models.JWTClaims, req dto.ValidateReportRequest) (*models.Report, error) {
	if !validator.Role.CanValidate() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only teachers and admins can validate reports")
	}

	if !req.Checklist.Complete() {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("all checklist criteria must be met, missing: %s", strings.Join(req.Checklist.Unmet(), ", ")))
	}

	now := time.Now().UTC()
	if err := s.reports.MarkValidated(ctx, reportID, validator.UserID, now); err != nil {
		return nil, s.decisionError(ctx, reportID, err)
	}
	s.metrics.RecordDecision(string(models.ActionValidated))

	checklist := req.Checklist
	entry := &models.ValidationHistory{
		ReportID:    reportID,
		ValidatorID: validator.UserID,
		Action:      models.ActionValidated,
		Comments:    optionalString(req.Comments),
		Checklist:   &checklist,
		CreatedAt:   now,
	}
	if err := s.history.Append(ctx, entry); err != nil {
		s.logger.Error("failed to append validation history",
			zap.String("report_id", reportID),
			zap.Error(err))
	}

	s.finishDecision(ctx, reportID, validator, models.AuditActionReportValidate)
	return s.reports.GetByID(ctx, reportID)
}

// Reject refuses a pending report. Comments are mandatory and become
// the rejection reason shown to the submitter. validated_at is never
// set for rejections.
func (s *ValidationService) Reject(ctx context.Context, reportID string, validator models.JWTClaims, req dto.RejectReportRequest) (*models.Report, error) {
	if !validator.Role.CanValidate() {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only teachers and admins can reject reports")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "comments are required when rejecting a report")
	}
	reason := strings.TrimSpace(req.Comments)
	if reason == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "comments are required when rejecting a report")
	}

	now := time.Now().UTC()
	if err := s.reports.MarkRejected(ctx, reportID, validator.UserID, reason, now); err != nil {
		return nil, s.decisionError(ctx, reportID, err)
	}
	s.metrics.RecordDecision(string(models.ActionRejected))

	entry := &models.ValidationHistory{
		ReportID:    reportID,
		ValidatorID: validator.UserID,
		Action:      models.ActionRejected,
		Comments:    &reason,
		CreatedAt:   now,
	}
	if err := s.history.Append(ctx, entry); err != nil {
		s.logger.Error("failed to append validation history",
			zap.String("report_id", reportID),
			zap.Error(err))
	}

	s.finishDecision(ctx, reportID, validator, models.AuditActionReportReject)
	return s.reports.GetByID(ctx, reportID)
}

// History returns the decision trail for a report, oldest first.
func (s *ValidationService) History(ctx context.Context, reportID string) ([]models.ValidationHistory, error) {
	if _, err := s.reports.GetByID(ctx, reportID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch report")
	}
	entries, err := s.history.ListByReport(ctx, reportID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list validation history")
	}
	return entries, nil
}

// decisionError distinguishes "report is gone" from "report is no
// longer pending" when the guarded update matched no row.
func (s *ValidationService) decisionError(ctx context.Context, reportID string, err error) error {
	if !errors.Is(err, sql.ErrNoRows) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update report")
	}
	report, getErr := s.reports.GetByID(ctx, reportID)
	if getErr != nil {
		return appErrors.Clone(appErrors.ErrNotFound, "report not found")
	}
	return appErrors.Clone(appErrors.ErrPreconditionFailed,
		fmt.Sprintf("report is already %s", report.Status))
}

func (s *ValidationService) finishDecision(ctx context.Context, reportID string, validator models.JWTClaims, action string) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, "catalog:*")
	}
	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &validator.UserID,
		Action:     action,
		Resource:   "report",
		ResourceID: &reportID,
	}); err != nil {
		s.logger.Warn("failed to record decision audit log", zap.Error(err))
	}
}

func matchesReview(r models.Report, term string) bool {
	if strings.Contains(strings.ToLower(r.Title), term) {
		return true
	}
	for _, a := range r.Authors {
		if strings.Contains(strings.ToLower(a.Name), term) {
			return true
		}
	}
	return false
}
