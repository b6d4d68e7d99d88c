package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/esprim/pfe-catalog-api/internal/dto"
	"github.com/esprim/pfe-catalog-api/internal/service"
	appErrors "github.com/esprim/pfe-catalog-api/pkg/errors"
	"github.com/esprim/pfe-catalog-api/pkg/response"
)

// SubmissionHandler wires HTTP endpoints to the submission and draft services.
type SubmissionHandler struct {
	submissions *service.SubmissionService
	drafts      *service.DraftService
	autosaver   *service.Autosaver
}

// NewSubmissionHandler creates a new handler.
func NewSubmissionHandler(submissions *service.SubmissionService, drafts *service.DraftService, autosaver *service.Autosaver) *SubmissionHandler {
	return &SubmissionHandler{submissions: submissions, drafts: drafts, autosaver: autosaver}
}

// Submit godoc
// @Summary Submit a report
// @Description Validate and submit the completed report form for review
// @Tags Submissions
// @Accept json
// @Produce json
// @Param payload body dto.SubmitReportRequest true "Submission payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /submissions [post]
func (h *SubmissionHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid submission payload"))
		return
	}

	report, err := h.submissions.Submit(c.Request.Context(), claims.UserID, req, requestMeta(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, report)
}

// ListMine godoc
// @Summary List own submissions
// @Description Returns the caller's submitted reports, newest first
// @Tags Submissions
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /submissions [get]
func (h *SubmissionHandler) ListMine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	reports, err := h.submissions.ListMine(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, reports, nil)
}

// GetDraft godoc
// @Summary Load the saved draft
// @Description Returns the caller's draft, 404 when none exists
// @Tags Drafts
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /submissions/draft [get]
func (h *SubmissionHandler) GetDraft(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	draft, err := h.drafts.Load(c.Request.Context(), claims.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, draft, nil)
}

// SaveDraft godoc
// @Summary Save the draft
// @Description Replaces the caller's draft with the submitted form snapshot
// @Tags Drafts
// @Accept json
// @Produce json
// @Param payload body dto.SaveDraftRequest true "Draft snapshot"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /submissions/draft [put]
func (h *SubmissionHandler) SaveDraft(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid draft payload"))
		return
	}

	id, err := h.drafts.Save(c.Request.Context(), claims.UserID, req.DraftData)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.autosaver.Discard(claims.UserID)

	response.JSON(c, http.StatusOK, gin.H{"id": id}, nil)
}

// BufferDraft godoc
// @Summary Buffer a draft snapshot
// @Description Queues the latest form state for the periodic autosave flush
// @Tags Drafts
// @Accept json
// @Produce json
// @Param payload body dto.SaveDraftRequest true "Draft snapshot"
// @Success 202 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /submissions/draft/buffer [put]
func (h *SubmissionHandler) BufferDraft(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.SaveDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid draft payload"))
		return
	}

	if err := h.autosaver.Buffer(claims.UserID, req.DraftData); err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusAccepted, gin.H{"buffered": true}, nil)
}

// DeleteDraft godoc
// @Summary Discard the draft
// @Description Deletes the caller's draft and any buffered snapshot
// @Tags Drafts
// @Produce json
// @Success 204 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /submissions/draft [delete]
func (h *SubmissionHandler) DeleteDraft(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	h.autosaver.Discard(claims.UserID)
	if err := h.drafts.Delete(c.Request.Context(), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}
