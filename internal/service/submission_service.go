package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/esprim/pfe-catalog-api/internal/dto"
	"github.com/esprim/pfe-catalog-api/internal/models"
	appErrors "github.com/esprim/pfe-catalog-api/pkg/errors"
)

type submissionReportRepository interface {
	Create(ctx context.Context, report *models.Report) error
	List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error)
}

type submissionAuditRepository interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// SubmissionService turns a completed form into a pending report and
// retires the author's draft.
type SubmissionService struct {
	reports   submissionReportRepository
	drafts    draftRepository
	audit     submissionAuditRepository
	autosaver *Autosaver
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
}

// NewSubmissionService constructs a SubmissionService instance.
func NewSubmissionService(reports submissionReportRepository, drafts draftRepository, audit submissionAuditRepository, autosaver *Autosaver, validate *validator.Validate, logger *zap.Logger, metrics *MetricsService) *SubmissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &SubmissionService{
		reports:   reports,
		drafts:    drafts,
		audit:     audit,
		autosaver: autosaver,
		validator: validate,
		logger:    logger,
		metrics:   metrics,
	}
}

// Submit validates the form, creates the pending report, then retires
// the draft. The report insert commits before the draft delete; a
// failed delete leaves a stale draft behind rather than losing the
// submission, and is only logged.
func (s *SubmissionService) Submit(ctx context.Context, userID string, req dto.SubmitReportRequest, meta models.LoginRequest) (*models.Report, error) {
	if err := s.validator.Struct(req); err != nil {
		s.metrics.RecordSubmission("invalid")
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}

	keywords, err := normalizeKeywords(req.Keywords)
	if err != nil {
		s.metrics.RecordSubmission("invalid")
		return nil, err
	}

	authors, err := normalizeAuthors(req.Authors)
	if err != nil {
		s.metrics.RecordSubmission("invalid")
		return nil, err
	}

	// Bounds apply to the abstract as typed, surrounding whitespace
	// included; only the stored copy is trimmed.
	if n := len([]rune(req.Abstract)); n < dto.AbstractMinLen || n > dto.AbstractMaxLen {
		s.metrics.RecordSubmission("invalid")
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("abstract must be between %d and %d characters, got %d", dto.AbstractMinLen, dto.AbstractMaxLen, n))
	}
	abstract := strings.TrimSpace(req.Abstract)

	report := &models.Report{
		Title:                strings.TrimSpace(req.Title),
		Authors:              authors,
		AcademicSupervisor:   strings.TrimSpace(req.AcademicSupervisor),
		IndustrialSupervisor: optionalString(req.IndustrialSupervisor),
		AcademicYear:         strings.TrimSpace(req.AcademicYear),
		Specialty:            strings.TrimSpace(req.Specialty),
		Department:           strings.TrimSpace(req.Department),
		Keywords:             keywords,
		Abstract:             abstract,
		DefenseDate:          optionalString(req.DefenseDate),
		Company:              optionalString(req.Company),
		VideoURL:             optionalString(req.VideoURL),
		Status:               models.StatusPending,
		SubmittedBy:          userID,
	}

	if err := s.reports.Create(ctx, report); err != nil {
		s.metrics.RecordSubmission("error")
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create report")
	}
	s.metrics.RecordSubmission("success")

	if s.autosaver != nil {
		s.autosaver.Discard(userID)
	}
	if err := s.drafts.DeleteByUser(ctx, userID); err != nil {
		s.logger.Warn("failed to delete draft after submission",
			zap.String("user_id", userID),
			zap.String("report_id", report.ID),
			zap.Error(err))
	}

	if err := s.audit.CreateAuditLog(ctx, &models.AuditLog{
		UserID:     &userID,
		Action:     models.AuditActionReportSubmit,
		Resource:   "report",
		ResourceID: &report.ID,
		Details:    []byte(fmt.Sprintf(`{"title":%q}`, report.Title)),
		IPAddress:  meta.IP,
		UserAgent:  meta.UserAgent,
	}); err != nil {
		s.logger.Warn("failed to record submission audit log", zap.Error(err))
	}

	return report, nil
}

// ListMine returns the caller's own submissions, newest first.
func (s *SubmissionService) ListMine(ctx context.Context, userID string) ([]models.Report, error) {
	reports, err := s.reports.List(ctx, models.ReportFilter{SubmittedBy: userID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	return reports, nil
}

// normalizeKeywords trims every slot, drops blanks, and enforces the
// minimum count on what remains. The form exposes up to ten slots but
// only non-blank entries count.
func normalizeKeywords(raw []string) (models.StringList, error) {
	if len(raw) > dto.MaxKeywordSlots {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("at most %d keywords are allowed", dto.MaxKeywordSlots))
	}
	keywords := make(models.StringList, 0, len(raw))
	for _, kw := range raw {
		kw = strings.TrimSpace(kw)
		if kw == "" {
			continue
		}
		keywords = append(keywords, kw)
	}
	if len(keywords) < dto.MinKeywords {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("at least %d keywords are required, got %d", dto.MinKeywords, len(keywords)))
	}
	return keywords, nil
}

// normalizeAuthors keeps only slots where both name and email are
// filled in. Partially filled slots are dropped without error.
func normalizeAuthors(raw []dto.AuthorInput) (models.AuthorList, error) {
	authors := make(models.AuthorList, 0, len(raw))
	for _, a := range raw {
		name := strings.TrimSpace(a.Name)
		email := strings.TrimSpace(a.Email)
		if name == "" || email == "" {
			continue
		}
		authors = append(authors, models.Author{Name: name, Email: email})
	}
	if len(authors) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one author with name and email is required")
	}
	if len(authors) > dto.MaxAuthors {
		return nil, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("at most %d authors are allowed", dto.MaxAuthors))
	}
	return authors, nil
}

func optionalString(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
