package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ReportStatus tracks the lifecycle of a submitted report.
// pending is the initial state; validated and rejected are terminal.
type ReportStatus string

const (
	StatusPending   ReportStatus = "pending"
	StatusValidated ReportStatus = "validated"
	StatusRejected  ReportStatus = "rejected"
)

// Author is a single report author.
type Author struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// AuthorList stores report authors as a JSONB column.
type AuthorList []Author

// Value implements driver.Valuer.
func (a AuthorList) Value() (driver.Value, error) {
	if a == nil {
		a = AuthorList{}
	}
	return json.Marshal(a)
}

// Scan implements sql.Scanner.
func (a *AuthorList) Scan(src interface{}) error {
	return scanJSON(src, a, "authors")
}

// StringList stores a list of strings as a JSONB column.
type StringList []string

// Value implements driver.Valuer.
func (s StringList) Value() (driver.Value, error) {
	if s == nil {
		s = StringList{}
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner.
func (s *StringList) Scan(src interface{}) error {
	return scanJSON(src, s, "string list")
}

// Report is the submittable, reviewable PFE report record.
type Report struct {
	ID                   string       `db:"id" json:"id"`
	Title                string       `db:"title" json:"title"`
	Authors              AuthorList   `db:"authors" json:"authors"`
	AcademicSupervisor   string       `db:"academic_supervisor" json:"academic_supervisor"`
	IndustrialSupervisor *string      `db:"industrial_supervisor" json:"industrial_supervisor,omitempty"`
	AcademicYear         string       `db:"academic_year" json:"academic_year"`
	Specialty            string       `db:"specialty" json:"specialty"`
	Department           string       `db:"department" json:"department"`
	Keywords             StringList   `db:"keywords" json:"keywords"`
	Abstract             string       `db:"abstract" json:"abstract"`
	DefenseDate          *string      `db:"defense_date" json:"defense_date,omitempty"`
	Company              *string      `db:"company" json:"company,omitempty"`
	PDFURL               *string      `db:"pdf_url" json:"pdf_url,omitempty"`
	ThumbnailURL         *string      `db:"thumbnail_url" json:"thumbnail_url,omitempty"`
	VideoURL             *string      `db:"video_url" json:"video_url,omitempty"`
	Status               ReportStatus `db:"status" json:"status"`
	RejectionReason      *string      `db:"rejection_reason" json:"rejection_reason,omitempty"`
	SubmittedBy          string       `db:"submitted_by" json:"submitted_by"`
	ValidatedBy          *string      `db:"validated_by" json:"validated_by,omitempty"`
	ViewsCount           int          `db:"views_count" json:"views_count"`
	SubmittedAt          time.Time    `db:"submitted_at" json:"submitted_at"`
	ValidatedAt          *time.Time   `db:"validated_at" json:"validated_at,omitempty"`
	CreatedAt            time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt            time.Time    `db:"updated_at" json:"updated_at"`
}

// ReportFilter captures filtering criteria for listing reports.
type ReportFilter struct {
	Status      *ReportStatus
	SubmittedBy string
}

func scanJSON(src, dest interface{}, what string) error {
	if src == nil {
		return nil
	}
	var raw []byte
	switch v := src.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("unsupported scan type %T for %s", src, what)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("unmarshal %s: %w", what, err)
	}
	return nil
}
