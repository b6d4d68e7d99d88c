package models

import "time"

// Consultation records a single report viewing session.
type Consultation struct {
	ID              string    `db:"id" json:"id"`
	ReportID        string    `db:"report_id" json:"report_id"`
	UserID          *string   `db:"user_id" json:"user_id,omitempty"`
	SessionID       string    `db:"session_id" json:"session_id"`
	IPAddress       string    `db:"ip_address" json:"ip_address"`
	UserAgent       string    `db:"user_agent" json:"user_agent"`
	DurationSeconds int       `db:"duration_seconds" json:"duration_seconds"`
	WatermarkText   *string   `db:"watermark_text" json:"watermark_text,omitempty"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
