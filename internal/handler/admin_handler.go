package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/esprim/pfe-catalog-api/internal/dto"
	"github.com/esprim/pfe-catalog-api/internal/models"
	"github.com/esprim/pfe-catalog-api/internal/service"
	appErrors "github.com/esprim/pfe-catalog-api/pkg/errors"
	"github.com/esprim/pfe-catalog-api/pkg/response"
)

// AdminHandler wires HTTP endpoints to the administration service.
type AdminHandler struct {
	service *service.AdminService
}

// NewAdminHandler creates a new handler.
func NewAdminHandler(svc *service.AdminService) *AdminHandler {
	return &AdminHandler{service: svc}
}

// Overview godoc
// @Summary Platform overview
// @Description Aggregated user and report counters for the dashboard
// @Tags Admin
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/overview [get]
func (h *AdminHandler) Overview(c *gin.Context) {
	overview, err := h.service.Overview(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, overview, nil)
}

// ListUsers godoc
// @Summary List users
// @Description Filtered, paginated user listing
// @Tags Admin
// @Produce json
// @Param role query string false "Filter by role"
// @Param active query bool false "Filter by activation flag"
// @Param search query string false "Match on email or name"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /admin/users [get]
func (h *AdminHandler) ListUsers(c *gin.Context) {
	filter := models.UserFilter{Search: c.Query("search")}
	if role := c.Query("role"); role != "" {
		r := models.UserRole(role)
		filter.Role = &r
	}
	if active := c.Query("active"); active != "" {
		v, err := strconv.ParseBool(active)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "active must be a boolean"))
			return
		}
		filter.Active = &v
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", "20"))

	users, pagination, err := h.service.ListUsers(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, users, pagination)
}

// ToggleUserActive godoc
// @Summary Toggle user activation
// @Description Activates or deactivates an account
// @Tags Admin
// @Accept json
// @Produce json
// @Param id path string true "User id"
// @Param payload body dto.ToggleUserActiveRequest true "Activation flag"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/users/{id}/active [patch]
func (h *AdminHandler) ToggleUserActive(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ToggleUserActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}

	if err := h.service.SetUserActive(c.Request.Context(), *claims, c.Param("id"), req.Active); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// DeleteReport godoc
// @Summary Delete a report
// @Description Removes a report in any state
// @Tags Admin
// @Produce json
// @Param id path string true "Report id"
// @Success 204 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /admin/reports/{id} [delete]
func (h *AdminHandler) DeleteReport(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.DeleteReport(c.Request.Context(), *claims, c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ExportCatalog godoc
// @Summary Export the catalog
// @Description Downloads the validated catalog as CSV or PDF
// @Tags Admin
// @Produce octet-stream
// @Param format query string false "csv or pdf"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /admin/exports/catalog [get]
func (h *AdminHandler) ExportCatalog(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	format := c.DefaultQuery("format", "csv")
	payload, contentType, err := h.service.ExportCatalog(c.Request.Context(), *claims, format)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("catalog-%s.%s", time.Now().UTC().Format("2006-01-02"), format)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, payload)
}
