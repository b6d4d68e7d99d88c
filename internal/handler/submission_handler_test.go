package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esprim/pfe-catalog-api/internal/dto"
	"github.com/esprim/pfe-catalog-api/internal/middleware"
	"github.com/esprim/pfe-catalog-api/internal/models"
	"github.com/esprim/pfe-catalog-api/internal/service"
)

type memReportRepo struct {
	created []*models.Report
}

func (m *memReportRepo) Create(ctx context.Context, report *models.Report) error {
	report.ID = "r1"
	m.created = append(m.created, report)
	return nil
}

func (m *memReportRepo) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error) {
	out := make([]models.Report, 0, len(m.created))
	for _, r := range m.created {
		out = append(out, *r)
	}
	return out, nil
}

type memDraftRepo struct {
	saved   map[string]json.RawMessage
	deleted []string
}

func (m *memDraftRepo) FindByUser(ctx context.Context, userID string) (*models.Draft, error) {
	data, ok := m.saved[userID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &models.Draft{ID: "d1", UserID: userID, DraftData: data, LastSaved: time.Now()}, nil
}

func (m *memDraftRepo) Save(ctx context.Context, userID string, data json.RawMessage) (string, error) {
	if m.saved == nil {
		m.saved = make(map[string]json.RawMessage)
	}
	m.saved[userID] = data
	return "d1", nil
}

func (m *memDraftRepo) DeleteByUser(ctx context.Context, userID string) error {
	m.deleted = append(m.deleted, userID)
	delete(m.saved, userID)
	return nil
}

type memAuditRepo struct{}

func (memAuditRepo) CreateAuditLog(ctx context.Context, log *models.AuditLog) error { return nil }

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func studentContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	c, w := newGinContext(method, path, body)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "u1", Role: models.RoleStudent})
	return c, w
}

func newSubmissionHandler(reports *memReportRepo, drafts *memDraftRepo) *SubmissionHandler {
	draftSvc := service.NewDraftService(drafts, nil, nil)
	autosaver := service.NewAutosaver(draftSvc, nil, nil, time.Minute)
	submissionSvc := service.NewSubmissionService(reports, drafts, memAuditRepo{}, autosaver, nil, nil, nil)
	return NewSubmissionHandler(submissionSvc, draftSvc, autosaver)
}

func TestSubmitHandlerCreatesReport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reports := &memReportRepo{}
	handler := newSubmissionHandler(reports, &memDraftRepo{})

	payload, _ := json.Marshal(dto.SubmitReportRequest{
		Title:              "Systeme de supervision",
		Authors:            []dto.AuthorInput{{Name: "Amine", Email: "amine@esprim.tn"}},
		AcademicSupervisor: "Dr. Trabelsi",
		AcademicYear:       "2024-2025",
		Specialty:          "Informatique",
		Department:         "GI",
		Keywords:           []string{"iot", "scada", "supervision", "temps reel", "industrie"},
		Abstract:           strings.Repeat("a", 250),
	})
	c, w := studentContext(http.MethodPost, "/submissions", payload)

	handler.Submit(c)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Len(t, reports.created, 1)
}

func TestSubmitHandlerRejectsShortAbstract(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newSubmissionHandler(&memReportRepo{}, &memDraftRepo{})

	payload, _ := json.Marshal(dto.SubmitReportRequest{
		Title:              "Trop court",
		Authors:            []dto.AuthorInput{{Name: "Amine", Email: "amine@esprim.tn"}},
		AcademicSupervisor: "Dr. Trabelsi",
		AcademicYear:       "2024-2025",
		Specialty:          "Informatique",
		Department:         "GI",
		Keywords:           []string{"iot", "scada", "supervision", "temps reel", "industrie"},
		Abstract:           "trop court",
	})
	c, w := studentContext(http.MethodPost, "/submissions", payload)

	handler.Submit(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubmitHandlerRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newSubmissionHandler(&memReportRepo{}, &memDraftRepo{})

	c, w := newGinContext(http.MethodPost, "/submissions", []byte(`{}`))
	handler.Submit(c)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSaveDraftHandlerRoundTrip(t *testing.T) {
	gin.SetMode(gin.TestMode)
	drafts := &memDraftRepo{}
	handler := newSubmissionHandler(&memReportRepo{}, drafts)

	payload, _ := json.Marshal(dto.SaveDraftRequest{DraftData: json.RawMessage(`{"title":"WIP"}`)})
	c, w := studentContext(http.MethodPut, "/submissions/draft", payload)
	handler.SaveDraft(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = studentContext(http.MethodGet, "/submissions/draft", nil)
	handler.GetDraft(c)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "WIP")
}

func TestGetDraftHandlerMissing(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newSubmissionHandler(&memReportRepo{}, &memDraftRepo{})

	c, w := studentContext(http.MethodGet, "/submissions/draft", nil)
	handler.GetDraft(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBufferDraftHandlerAccepted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newSubmissionHandler(&memReportRepo{}, &memDraftRepo{})

	payload, _ := json.Marshal(dto.SaveDraftRequest{DraftData: json.RawMessage(`{"title":"WIP"}`)})
	c, w := studentContext(http.MethodPut, "/submissions/draft/buffer", payload)
	handler.BufferDraft(c)
	assert.Equal(t, http.StatusAccepted, w.Code)
}
