package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/esprim/pfe-catalog-api/internal/dto"
	"github.com/esprim/pfe-catalog-api/internal/service"
	appErrors "github.com/esprim/pfe-catalog-api/pkg/errors"
	"github.com/esprim/pfe-catalog-api/pkg/response"
)

// CatalogHandler wires HTTP endpoints to the public catalog.
type CatalogHandler struct {
	catalog       *service.CatalogService
	consultations *service.ConsultationService
}

// NewCatalogHandler creates a new handler.
func NewCatalogHandler(catalog *service.CatalogService, consultations *service.ConsultationService) *CatalogHandler {
	return &CatalogHandler{catalog: catalog, consultations: consultations}
}

// Browse godoc
// @Summary Browse the catalog
// @Description Returns validated reports filtered, searched and sorted per query
// @Tags Catalog
// @Produce json
// @Param academic_year query string false "Exact academic year"
// @Param specialty query string false "Exact specialty"
// @Param sort_by query string false "date_desc, popular or title"
// @Param search query string false "Substring match on title, abstract and keywords"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /catalog [get]
func (h *CatalogHandler) Browse(c *gin.Context) {
	var query dto.CatalogQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}

	reports, err := h.catalog.Browse(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, reports, nil, map[string]interface{}{"count": len(reports)})
}

// Years godoc
// @Summary Available academic years
// @Description Returns distinct academic years, newest first
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /catalog/years [get]
func (h *CatalogHandler) Years(c *gin.Context) {
	years, err := h.catalog.Years(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, years, nil)
}

// Popular godoc
// @Summary Most viewed reports
// @Description Returns the most consulted validated reports, optionally re-sliced for the side panel
// @Tags Catalog
// @Produce json
// @Param limit query int false "Cut the shelf down further, e.g. 5 for the side panel"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /catalog/popular [get]
func (h *CatalogHandler) Popular(c *gin.Context) {
	reports, err := h.catalog.Popular(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	// The service caps the shelf at the configured size; the side
	// panel asks for a shorter slice via ?limit=5.
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "limit must be a positive integer"))
			return
		}
		if limit < len(reports) {
			reports = reports[:limit]
		}
	}

	response.JSON(c, http.StatusOK, reports, nil)
}

// Favorites godoc
// @Summary List favorite report ids
// @Description Returns ids of reports bookmarked by the caller
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /catalog/favorites [get]
func (h *CatalogHandler) Favorites(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	ids, err := h.catalog.Favorites(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, ids, nil)
}

// ToggleFavorite godoc
// @Summary Toggle a favorite
// @Description Flips the bookmark for a report and returns the new state
// @Tags Catalog
// @Produce json
// @Param id path string true "Report id"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /catalog/{id}/favorite [post]
func (h *CatalogHandler) ToggleFavorite(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	favorited, err := h.catalog.ToggleFavorite(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, gin.H{"favorited": favorited}, nil)
}

// RecordConsultation godoc
// @Summary Record a report viewing
// @Description Stores the viewing session and bumps the view counter
// @Tags Catalog
// @Accept json
// @Produce json
// @Param id path string true "Report id"
// @Param payload body dto.ConsultationRequest true "Viewing session"
// @Success 202 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /catalog/{id}/consultations [post]
func (h *CatalogHandler) RecordConsultation(c *gin.Context) {
	var req dto.ConsultationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid consultation payload"))
		return
	}

	var userID *string
	if claims := claimsFromContext(c); claims != nil {
		userID = &claims.UserID
	}

	if err := h.consultations.Record(c.Request.Context(), c.Param("id"), userID, req, requestMeta(c)); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusAccepted, gin.H{"recorded": true}, nil)
}
