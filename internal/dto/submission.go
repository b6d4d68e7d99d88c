package dto

import "encoding/json"

// Form limits for report submission.
const (
	MinKeywords     = 5
	MaxKeywordSlots = 10
	AbstractMinLen  = 200
	AbstractMaxLen  = 500
	MaxAuthors      = 3
)

// AuthorInput is one author slot on the submission form. Slots with
// either field blank are dropped silently at submit time.
type AuthorInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// SubmitReportRequest carries the full submission form.
type SubmitReportRequest struct {
	Title                string        `json:"title" validate:"required"`
	Authors              []AuthorInput `json:"authors" validate:"required,min=1,max=3"`
	AcademicSupervisor   string        `json:"academic_supervisor" validate:"required"`
	IndustrialSupervisor string        `json:"industrial_supervisor"`
	AcademicYear         string        `json:"academic_year" validate:"required"`
	Specialty            string        `json:"specialty" validate:"required"`
	Department           string        `json:"department" validate:"required"`
	Keywords             []string      `json:"keywords" validate:"required,max=10"`
	Abstract             string        `json:"abstract" validate:"required"`
	DefenseDate          string        `json:"defense_date"`
	Company              string        `json:"company"`
	VideoURL             string        `json:"video_url"`
}

// SaveDraftRequest replaces the caller's draft with a new form snapshot.
type SaveDraftRequest struct {
	DraftData json.RawMessage `json:"draft_data" validate:"required"`
}
