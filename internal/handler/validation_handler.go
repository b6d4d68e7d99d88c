package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esprim/pfe-catalog-api/internal/dto"
	"github.com/esprim/pfe-catalog-api/internal/service"
	appErrors "github.com/esprim/pfe-catalog-api/pkg/errors"
	"github.com/esprim/pfe-catalog-api/pkg/response"
)

// ValidationHandler wires HTTP endpoints to the validation workflow.
type ValidationHandler struct {
	service *service.ValidationService
}

// NewValidationHandler creates a new handler.
func NewValidationHandler(svc *service.ValidationService) *ValidationHandler {
	return &ValidationHandler{service: svc}
}

// ListForReview godoc
// @Summary List reports for review
// @Description Returns the pending queue by default; status and search narrow the list
// @Tags Validation
// @Produce json
// @Param status query string false "pending, validated, rejected or all"
// @Param search query string false "Match on title or author name"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /reports/pending [get]
func (h *ValidationHandler) ListForReview(c *gin.Context) {
	var query dto.ReviewQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query"))
		return
	}

	reports, err := h.service.ListForReview(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, reports, nil)
}

// Validate godoc
// @Summary Approve a pending report
// @Description Publishes the report when every checklist criterion is met
// @Tags Validation
// @Accept json
// @Produce json
// @Param id path string true "Report id"
// @Param payload body dto.ValidateReportRequest true "Checklist and comments"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /reports/{id}/validate [post]
func (h *ValidationHandler) Validate(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.ValidateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid validation payload"))
		return
	}

	report, err := h.service.Validate(c.Request.Context(), c.Param("id"), *claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, report, nil)
}

// Reject godoc
// @Summary Reject a pending report
// @Description Refuses the report; comments become the rejection reason
// @Tags Validation
// @Accept json
// @Produce json
// @Param id path string true "Report id"
// @Param payload body dto.RejectReportRequest true "Rejection comments"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /reports/{id}/reject [post]
func (h *ValidationHandler) Reject(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.RejectReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid rejection payload"))
		return
	}

	report, err := h.service.Reject(c.Request.Context(), c.Param("id"), *claims, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, report, nil)
}

// History godoc
// @Summary Decision history for a report
// @Description Returns the append-only decision trail, oldest first
// @Tags Validation
// @Produce json
// @Param id path string true "Report id"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /reports/{id}/history [get]
func (h *ValidationHandler) History(c *gin.Context) {
	entries, err := h.service.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, entries, nil)
}
