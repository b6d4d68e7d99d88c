package dto

import "github.com/esprim/pfe-catalog-api/internal/models"

// ValidateReportRequest approves a pending report. Every checklist
// criterion must be checked.
type ValidateReportRequest struct {
	Checklist models.Checklist `json:"checklist"`
	Comments  string           `json:"comments"`
}

// RejectReportRequest refuses a pending report; comments are mandatory.
type RejectReportRequest struct {
	Comments string `json:"comments" validate:"required"`
}

// ReviewQuery filters the validator's report list.
type ReviewQuery struct {
	Status string `form:"status"`
	Search string `form:"search"`
}
