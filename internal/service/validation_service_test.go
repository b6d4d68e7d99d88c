package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esprim/pfe-catalog-api/internal/dto"
	"github.com/esprim/pfe-catalog-api/internal/models"
	appErrors "github.com/esprim/pfe-catalog-api/pkg/errors"
)

type stubDecisionRepo struct {
	report       *models.Report
	getErr       error
	listResp     []models.Report
	markValErr   error
	markRejErr   error
	validatedID  string
	rejectedID   string
	rejectReason string
}

func (s *stubDecisionRepo) GetByID(ctx context.Context, id string) (*models.Report, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	return s.report, nil
}

func (s *stubDecisionRepo) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error) {
	return s.listResp, nil
}

func (s *stubDecisionRepo) MarkValidated(ctx context.Context, id, validatorID string, ts time.Time) error {
	if s.markValErr != nil {
		return s.markValErr
	}
	s.validatedID = id
	return nil
}

func (s *stubDecisionRepo) MarkRejected(ctx context.Context, id, validatorID, reason string, ts time.Time) error {
	if s.markRejErr != nil {
		return s.markRejErr
	}
	s.rejectedID = id
	s.rejectReason = reason
	return nil
}

type stubHistoryRepo struct {
	entries []*models.ValidationHistory
	err     error
}

func (s *stubHistoryRepo) Append(ctx context.Context, entry *models.ValidationHistory) error {
	if s.err != nil {
		return s.err
	}
	s.entries = append(s.entries, entry)
	return nil
}

func (s *stubHistoryRepo) ListByReport(ctx context.Context, reportID string) ([]models.ValidationHistory, error) {
	out := make([]models.ValidationHistory, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, *e)
	}
	return out, nil
}

func fullChecklist() models.Checklist {
	return models.Checklist{GraphicCharter: true, Sections: true, Quality: true, ContentRelevance: true, Appropriate: true}
}

func teacherClaims() models.JWTClaims {
	return models.JWTClaims{UserID: "t1", Role: models.RoleTeacher}
}

func newValidationService(reports *stubDecisionRepo, history *stubHistoryRepo) *ValidationService {
	return NewValidationService(reports, history, &stubAuditRepo{}, nil, nil, nil, nil)
}

func TestValidateRequiresCompleteChecklist(t *testing.T) {
	svc := newValidationService(&stubDecisionRepo{}, &stubHistoryRepo{})

	checklist := fullChecklist()
	checklist.Quality = false
	_, err := svc.Validate(context.Background(), "r1", teacherClaims(), dto.ValidateReportRequest{Checklist: checklist})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quality")
}

func TestValidatePublishesAndAppendsHistory(t *testing.T) {
	reports := &stubDecisionRepo{report: &models.Report{ID: "r1", Status: models.StatusValidated}}
	history := &stubHistoryRepo{}
	svc := newValidationService(reports, history)

	report, err := svc.Validate(context.Background(), "r1", teacherClaims(), dto.ValidateReportRequest{Checklist: fullChecklist(), Comments: "bon travail"})
	require.NoError(t, err)
	assert.Equal(t, "r1", reports.validatedID)
	assert.Equal(t, models.StatusValidated, report.Status)
	require.Len(t, history.entries, 1)
	assert.Equal(t, models.ActionValidated, history.entries[0].Action)
	require.NotNil(t, history.entries[0].Checklist)
	assert.True(t, history.entries[0].Checklist.Complete())
}

func TestValidateStudentForbidden(t *testing.T) {
	svc := newValidationService(&stubDecisionRepo{}, &stubHistoryRepo{})

	_, err := svc.Validate(context.Background(), "r1", models.JWTClaims{UserID: "s1", Role: models.RoleStudent}, dto.ValidateReportRequest{Checklist: fullChecklist()})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestValidateAlreadyDecided(t *testing.T) {
	reports := &stubDecisionRepo{
		report:     &models.Report{ID: "r1", Status: models.StatusRejected},
		markValErr: sql.ErrNoRows,
	}
	svc := newValidationService(reports, &stubHistoryRepo{})

	_, err := svc.Validate(context.Background(), "r1", teacherClaims(), dto.ValidateReportRequest{Checklist: fullChecklist()})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrPreconditionFailed.Code, appErr.Code)
	assert.Contains(t, appErr.Message, "rejected")
}

func TestValidateMissingReport(t *testing.T) {
	reports := &stubDecisionRepo{getErr: sql.ErrNoRows, markValErr: sql.ErrNoRows}
	svc := newValidationService(reports, &stubHistoryRepo{})

	_, err := svc.Validate(context.Background(), "ghost", teacherClaims(), dto.ValidateReportRequest{Checklist: fullChecklist()})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestRejectRequiresComments(t *testing.T) {
	svc := newValidationService(&stubDecisionRepo{}, &stubHistoryRepo{})

	_, err := svc.Reject(context.Background(), "r1", teacherClaims(), dto.RejectReportRequest{Comments: "   "})
	require.Error(t, err)
	appErr := appErrors.FromError(err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestRejectRecordsReasonAndHistory(t *testing.T) {
	reports := &stubDecisionRepo{report: &models.Report{ID: "r1", Status: models.StatusRejected}}
	history := &stubHistoryRepo{}
	svc := newValidationService(reports, history)

	_, err := svc.Reject(context.Background(), "r1", teacherClaims(), dto.RejectReportRequest{Comments: "sections manquantes"})
	require.NoError(t, err)
	assert.Equal(t, "sections manquantes", reports.rejectReason)
	require.Len(t, history.entries, 1)
	assert.Equal(t, models.ActionRejected, history.entries[0].Action)
	assert.Nil(t, history.entries[0].Checklist)
}

func TestValidateSurvivesHistoryFailure(t *testing.T) {
	reports := &stubDecisionRepo{report: &models.Report{ID: "r1", Status: models.StatusValidated}}
	history := &stubHistoryRepo{err: sql.ErrConnDone}
	svc := newValidationService(reports, history)

	report, err := svc.Validate(context.Background(), "r1", teacherClaims(), dto.ValidateReportRequest{Checklist: fullChecklist()})
	require.NoError(t, err)
	assert.Equal(t, models.StatusValidated, report.Status)
}

func TestListForReviewDefaultsToPending(t *testing.T) {
	pending := models.Report{ID: "r1", Title: "Robot mobile", Status: models.StatusPending}
	reports := &stubDecisionRepo{listResp: []models.Report{pending}}
	svc := newValidationService(reports, &stubHistoryRepo{})

	out, err := svc.ListForReview(context.Background(), dto.ReviewQuery{})
	require.NoError(t, err)
	assert.Len(t, out, 1)
}

func TestListForReviewSearchMatchesAuthors(t *testing.T) {
	reports := &stubDecisionRepo{listResp: []models.Report{
		{ID: "r1", Title: "Robot mobile", Authors: models.AuthorList{{Name: "Amine Ben Salah"}}},
		{ID: "r2", Title: "Application web", Authors: models.AuthorList{{Name: "Mariem Gharbi"}}},
	}}
	svc := newValidationService(reports, &stubHistoryRepo{})

	out, err := svc.ListForReview(context.Background(), dto.ReviewQuery{Search: "mariem"})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "r2", out[0].ID)
}

func TestListForReviewUnknownStatus(t *testing.T) {
	svc := newValidationService(&stubDecisionRepo{}, &stubHistoryRepo{})

	_, err := svc.ListForReview(context.Background(), dto.ReviewQuery{Status: "archived"})
	require.Error(t, err)
}
