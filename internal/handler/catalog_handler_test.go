package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
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

type memCatalogRepo struct {
	reports []models.Report
}

func (m *memCatalogRepo) ListValidated(ctx context.Context) ([]models.Report, error) {
	return m.reports, nil
}

func (m *memCatalogRepo) GetByID(ctx context.Context, id string) (*models.Report, error) {
	for i := range m.reports {
		if m.reports[i].ID == id {
			return &m.reports[i], nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memCatalogRepo) IncrementViews(ctx context.Context, id string) error { return nil }

type memFavoriteRepo struct {
	pairs map[string]bool
}

func (m *memFavoriteRepo) key(userID, reportID string) string { return userID + "/" + reportID }

func (m *memFavoriteRepo) ListReportIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	for key, on := range m.pairs {
		if on && strings.HasPrefix(key, userID+"/") {
			ids = append(ids, strings.TrimPrefix(key, userID+"/"))
		}
	}
	return ids, nil
}

func (m *memFavoriteRepo) Exists(ctx context.Context, userID, reportID string) (bool, error) {
	return m.pairs[m.key(userID, reportID)], nil
}

func (m *memFavoriteRepo) Create(ctx context.Context, userID, reportID string) error {
	m.pairs[m.key(userID, reportID)] = true
	return nil
}

func (m *memFavoriteRepo) Delete(ctx context.Context, userID, reportID string) error {
	delete(m.pairs, m.key(userID, reportID))
	return nil
}

type memConsultationRepo struct {
	recorded []models.Consultation
}

func (m *memConsultationRepo) Create(ctx context.Context, consultation *models.Consultation) error {
	m.recorded = append(m.recorded, *consultation)
	return nil
}

func (m *memConsultationRepo) CountByReport(ctx context.Context, reportID string) (int, error) {
	return len(m.recorded), nil
}

func publishedReport(id, title string, views int) models.Report {
	now := time.Now().UTC()
	return models.Report{
		ID:           id,
		Title:        title,
		Status:       models.StatusValidated,
		AcademicYear: "2025-2026",
		Specialty:    "GE",
		ViewsCount:   views,
		CreatedAt:    now,
		ValidatedAt:  &now,
	}
}

func newCatalogHandler(reports *memCatalogRepo, favorites *memFavoriteRepo, consultations *memConsultationRepo) *CatalogHandler {
	catalog := service.NewCatalogService(reports, favorites, nil, nil, service.CatalogConfig{PopularLimit: 2})
	views := service.NewConsultationService(consultations, reports, nil, nil)
	return NewCatalogHandler(catalog, views)
}

func TestBrowseHandlerReturnsCount(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reports := &memCatalogRepo{reports: []models.Report{
		publishedReport("r1", "Supervision SCADA", 4),
		publishedReport("r2", "Application mobile", 9),
	}}
	handler := newCatalogHandler(reports, &memFavoriteRepo{pairs: map[string]bool{}}, &memConsultationRepo{})

	c, w := newGinContext(http.MethodGet, "/catalog", nil)
	handler.Browse(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "SCADA")
	assert.Contains(t, w.Body.String(), `"count":2`)
}

func TestBrowseHandlerRejectsUnknownSort(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newCatalogHandler(&memCatalogRepo{}, &memFavoriteRepo{pairs: map[string]bool{}}, &memConsultationRepo{})

	c, w := newGinContext(http.MethodGet, "/catalog?sort_by=oldest", nil)
	handler.Browse(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPopularHandlerCapsResults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reports := &memCatalogRepo{reports: []models.Report{
		publishedReport("r1", "Un", 1),
		publishedReport("r2", "Deux", 30),
		publishedReport("r3", "Trois", 20),
	}}
	handler := newCatalogHandler(reports, &memFavoriteRepo{pairs: map[string]bool{}}, &memConsultationRepo{})

	c, w := newGinContext(http.MethodGet, "/catalog/popular", nil)
	handler.Popular(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Deux")
	assert.Contains(t, w.Body.String(), "Trois")
	assert.NotContains(t, w.Body.String(), `"Un"`)
}

func TestPopularHandlerSidePanelLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reports := &memCatalogRepo{reports: []models.Report{
		publishedReport("r1", "Un", 1),
		publishedReport("r2", "Deux", 30),
		publishedReport("r3", "Trois", 20),
	}}
	handler := newCatalogHandler(reports, &memFavoriteRepo{pairs: map[string]bool{}}, &memConsultationRepo{})

	c, w := newGinContext(http.MethodGet, "/catalog/popular?limit=1", nil)
	handler.Popular(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Deux")
	assert.NotContains(t, w.Body.String(), "Trois")
}

func TestPopularHandlerRejectsBadLimit(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newCatalogHandler(&memCatalogRepo{}, &memFavoriteRepo{pairs: map[string]bool{}}, &memConsultationRepo{})

	for _, raw := range []string{"0", "-3", "five"} {
		c, w := newGinContext(http.MethodGet, "/catalog/popular?limit="+raw, nil)
		handler.Popular(c)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestToggleFavoriteHandlerRequiresAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newCatalogHandler(&memCatalogRepo{}, &memFavoriteRepo{pairs: map[string]bool{}}, &memConsultationRepo{})

	c, w := newGinContext(http.MethodPost, "/catalog/r1/favorite", nil)
	c.Params = gin.Params{{Key: "id", Value: "r1"}}
	handler.ToggleFavorite(c)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestToggleFavoriteHandlerFlipsState(t *testing.T) {
	gin.SetMode(gin.TestMode)
	favorites := &memFavoriteRepo{pairs: map[string]bool{}}
	handler := newCatalogHandler(&memCatalogRepo{}, favorites, &memConsultationRepo{})

	for _, want := range []bool{true, false} {
		c, w := newGinContext(http.MethodPost, "/catalog/r1/favorite", nil)
		c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "s1", Role: models.RoleStudent})
		c.Params = gin.Params{{Key: "id", Value: "r1"}}
		handler.ToggleFavorite(c)

		assert.Equal(t, http.StatusOK, w.Code)
		var body struct {
			Data struct {
				Favorited bool `json:"favorited"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, want, body.Data.Favorited)
	}
}

func TestRecordConsultationHandlerAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reports := &memCatalogRepo{reports: []models.Report{publishedReport("r1", "Un", 0)}}
	consultations := &memConsultationRepo{}
	handler := newCatalogHandler(reports, &memFavoriteRepo{pairs: map[string]bool{}}, consultations)

	payload, _ := json.Marshal(dto.ConsultationRequest{SessionID: "sess-1", DurationSeconds: 45})
	c, w := newGinContext(http.MethodPost, "/catalog/r1/consultations", payload)
	c.Params = gin.Params{{Key: "id", Value: "r1"}}
	handler.RecordConsultation(c)

	assert.Equal(t, http.StatusAccepted, w.Code)
	require.Len(t, consultations.recorded, 1)
	assert.Nil(t, consultations.recorded[0].UserID)
}

func TestRecordConsultationHandlerUnpublished(t *testing.T) {
	gin.SetMode(gin.TestMode)
	pending := publishedReport("r1", "Un", 0)
	pending.Status = models.StatusPending
	pending.ValidatedAt = nil
	reports := &memCatalogRepo{reports: []models.Report{pending}}
	handler := newCatalogHandler(reports, &memFavoriteRepo{pairs: map[string]bool{}}, &memConsultationRepo{})

	payload, _ := json.Marshal(dto.ConsultationRequest{SessionID: "sess-1"})
	c, w := newGinContext(http.MethodPost, "/catalog/r1/consultations", payload)
	c.Params = gin.Params{{Key: "id", Value: "r1"}}
	handler.RecordConsultation(c)

	assert.Equal(t, http.StatusForbidden, w.Code)
}
