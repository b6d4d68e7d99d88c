package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// ValidationAction enumerates decision events recorded in the history.
type ValidationAction string

const (
	ActionValidated ValidationAction = "validated"
	ActionRejected  ValidationAction = "rejected"
	// ActionModificationRequested is reserved; no workflow transition
	// produces it today.
	ActionModificationRequested ValidationAction = "modification_requested"
)

// Checklist is the five-criterion rubric a validator must fully
// satisfy before a report can be published.
type Checklist struct {
	GraphicCharter   bool `json:"graphicCharter"`
	Sections         bool `json:"sections"`
	Quality          bool `json:"quality"`
	ContentRelevance bool `json:"contentRelevance"`
	Appropriate      bool `json:"appropriate"`
}

// Complete reports whether every criterion is checked.
func (c Checklist) Complete() bool {
	return c.GraphicCharter && c.Sections && c.Quality && c.ContentRelevance && c.Appropriate
}

// Unmet returns the names of unchecked criteria.
func (c Checklist) Unmet() []string {
	var unmet []string
	if !c.GraphicCharter {
		unmet = append(unmet, "graphicCharter")
	}
	if !c.Sections {
		unmet = append(unmet, "sections")
	}
	if !c.Quality {
		unmet = append(unmet, "quality")
	}
	if !c.ContentRelevance {
		unmet = append(unmet, "contentRelevance")
	}
	if !c.Appropriate {
		unmet = append(unmet, "appropriate")
	}
	return unmet
}

// Value implements driver.Valuer.
func (c Checklist) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner.
func (c *Checklist) Scan(src interface{}) error {
	return scanJSON(src, c, "checklist")
}

// ValidationHistory is an append-only record of one decision event.
// Rows are never updated or deleted.
type ValidationHistory struct {
	ID          string           `db:"id" json:"id"`
	ReportID    string           `db:"report_id" json:"report_id"`
	ValidatorID string           `db:"validator_id" json:"validator_id"`
	Action      ValidationAction `db:"action" json:"action"`
	Comments    *string          `db:"comments" json:"comments,omitempty"`
	Checklist   *Checklist       `db:"checklist" json:"checklist,omitempty"`
	CreatedAt   time.Time        `db:"created_at" json:"created_at"`
}
