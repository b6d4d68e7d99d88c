package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/esprim/pfe-catalog-api/internal/dto"
	"github.com/esprim/pfe-catalog-api/internal/models"
	appErrors "github.com/esprim/pfe-catalog-api/pkg/errors"
)

type consultationRepository interface {
	Create(ctx context.Context, consultation *models.Consultation) error
	CountByReport(ctx context.Context, reportID string) (int, error)
}

type consultationReportRepository interface {
	GetByID(ctx context.Context, id string) (*models.Report, error)
	IncrementViews(ctx context.Context, id string) error
}

// ConsultationService records report viewings and keeps the popularity
// counter moving.
type ConsultationService struct {
	consultations consultationRepository
	reports       consultationReportRepository
	validator     *validator.Validate
	logger        *zap.Logger
}

// NewConsultationService constructs a ConsultationService instance.
func NewConsultationService(consultations consultationRepository, reports consultationReportRepository, validate *validator.Validate, logger *zap.Logger) *ConsultationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &ConsultationService{consultations: consultations, reports: reports, validator: validate, logger: logger}
}

// Record stores one viewing session and bumps the report's view count.
// Only validated reports accumulate views. A failed counter bump is
// logged; the consultation row itself is the source of truth.
func (s *ConsultationService) Record(ctx context.Context, reportID string, userID *string, req dto.ConsultationRequest, meta models.LoginRequest) error {
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid consultation payload")
	}

	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "report not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch report")
	}
	if report.Status != models.StatusValidated {
		return appErrors.Clone(appErrors.ErrForbidden, "report is not published")
	}

	consultation := &models.Consultation{
		ReportID:        reportID,
		UserID:          userID,
		SessionID:       req.SessionID,
		IPAddress:       meta.IP,
		UserAgent:       meta.UserAgent,
		DurationSeconds: req.DurationSeconds,
		WatermarkText:   req.WatermarkText,
	}
	if err := s.consultations.Create(ctx, consultation); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record consultation")
	}

	if err := s.reports.IncrementViews(ctx, reportID); err != nil {
		s.logger.Warn("failed to increment view count",
			zap.String("report_id", reportID),
			zap.Error(err))
	}
	return nil
}
